package game

import (
	"encoding/hex"
	"testing"

	"github.com/Gabrululu/zk-battleship/internal/scval"
)

func entry(key string, val scval.Value) scval.MapEntry {
	return scval.MapEntry{Key: scval.Symbol(key), Val: val}
}

func hashBytes(fill byte) scval.Value {
	b := make([]byte, 32)
	for i := range b {
		b[i] = fill
	}
	return scval.Bytes(b)
}

func fullStateValue() scval.Value {
	return scval.Value{Type: scval.TypeMap, Map: []scval.MapEntry{
		entry("player1", scval.AccountAddress("GALICE")),
		entry("player2", scval.AccountAddress("GBOB")),
		entry("turn", scval.AccountAddress("GALICE")),
		entry("pending_shooter", scval.AccountAddress("GALICE")),
		entry("winner", scval.AccountAddress("GALICE")),
		entry("board_hash_p1", hashBytes(0x11)),
		entry("board_hash_p2", hashBytes(0x22)),
		entry("hits_on_p1", scval.U32(1)),
		entry("hits_on_p2", scval.U32(2)),
		entry("shots_fired_p1", scval.U32(3)),
		entry("shots_fired_p2", scval.U32(4)),
		entry("phase", scval.Symbol("Playing")),
		entry("pending_shot_x", scval.U32(2)),
		entry("pending_shot_y", scval.U32(3)),
		entry("p1_joined", scval.Bool(true)),
		entry("p2_joined", scval.Bool(true)),
		entry("p1_committed", scval.Bool(true)),
		entry("p2_committed", scval.Bool(true)),
		entry("has_winner", scval.Bool(false)),
		entry("session_id", scval.U32(777)),
	}}
}

func TestDecodeStateComplete(t *testing.T) {
	s := DecodeState(fullStateValue())

	if s.Player1 != "GALICE" || s.Player2 != "GBOB" || s.Turn != "GALICE" {
		t.Errorf("identities: %+v", s)
	}
	if s.BoardHashP1 != hex.EncodeToString(scval.AsBytes(hashBytes(0x11))) {
		t.Errorf("board hash p1: %q", s.BoardHashP1)
	}
	if s.HitsOnP1 != 1 || s.HitsOnP2 != 2 || s.ShotsFiredP1 != 3 || s.ShotsFiredP2 != 4 {
		t.Errorf("counters: %+v", s)
	}
	if s.Phase != PhasePlaying {
		t.Errorf("phase: %v", s.Phase)
	}
	if s.PendingShotX != 2 || s.PendingShotY != 3 {
		t.Errorf("pending shot: (%d,%d)", s.PendingShotX, s.PendingShotY)
	}
	if !s.P1Joined || !s.P2Joined || !s.P1Committed || !s.P2Committed || s.HasWinner {
		t.Errorf("flags: %+v", s)
	}
	if s.SessionID != 777 {
		t.Errorf("session id: %d", s.SessionID)
	}
}

func TestDecodeStateEnumVariantEncodings(t *testing.T) {
	variants := []scval.Value{
		scval.Symbol("Commit"),
		{Type: scval.TypeVec, Vec: []scval.Value{scval.Symbol("Commit")}},
		{Type: scval.TypeMap, Map: []scval.MapEntry{{Key: scval.Symbol("Commit"), Val: scval.Void()}}},
	}
	for i, pv := range variants {
		v := scval.Value{Type: scval.TypeMap, Map: []scval.MapEntry{entry("phase", pv)}}
		if got := DecodeState(v).Phase; got != PhaseCommit {
			t.Errorf("variant encoding %d: phase %v", i, got)
		}
	}
}

func TestDecodeStateDegradesFieldByField(t *testing.T) {
	// Corrupt individual fields; the rest of the snapshot must survive.
	v := fullStateValue()
	for i, e := range v.Map {
		switch scval.AsSymbol(e.Key) {
		case "turn":
			v.Map[i].Val = scval.U32(9) // wrong tag
		case "hits_on_p1":
			v.Map[i].Val = scval.Symbol("NaN")
		case "board_hash_p2":
			v.Map[i].Val = scval.Bytes([]byte{1, 2, 3}) // wrong length
		case "phase":
			v.Map[i].Val = scval.Parse([]byte(`{"type":"tuple_variant_v9"}`))
		}
	}
	s := DecodeState(v)
	if s.Turn != "" {
		t.Errorf("corrupt turn should decode empty, got %q", s.Turn)
	}
	if s.HitsOnP1 != 0 {
		t.Errorf("corrupt counter should default to 0, got %d", s.HitsOnP1)
	}
	if s.BoardHashP2 != "" {
		t.Errorf("short hash should decode empty, got %q", s.BoardHashP2)
	}
	if s.Phase != PhaseUnknown {
		t.Errorf("unknown phase variant should map to Unknown, got %v", s.Phase)
	}
	// Untouched neighbors intact.
	if s.Player1 != "GALICE" || s.ShotsFiredP2 != 4 {
		t.Errorf("healthy fields lost: %+v", s)
	}
}

func TestDecodeStateMissingFieldsUseDefaults(t *testing.T) {
	s := DecodeState(scval.Value{Type: scval.TypeMap})
	if s.PendingShotX != NoShot || s.PendingShotY != NoShot {
		t.Errorf("missing pending shot should default to sentinel: (%d,%d)", s.PendingShotX, s.PendingShotY)
	}
	if s.Phase != PhaseUnknown || s.HasWinner {
		t.Errorf("empty map decode: %+v", s)
	}
}

func TestDecodeStateZeroHashMeansUncommitted(t *testing.T) {
	v := scval.Value{Type: scval.TypeMap, Map: []scval.MapEntry{
		entry("board_hash_p1", scval.Bytes(make([]byte, 32))),
	}}
	if got := DecodeState(v).BoardHashP1; got != "" {
		t.Errorf("zero hash should decode as uncommitted, got %q", got)
	}
}

func TestDecodeStats(t *testing.T) {
	v := scval.Value{Type: scval.TypeMap, Map: []scval.MapEntry{
		entry("games_played", scval.U32(10)),
		entry("games_won", scval.U32(4)),
	}}
	st, ok := DecodeStats(v)
	if !ok || st.GamesPlayed != 10 || st.GamesWon != 4 {
		t.Errorf("stats decode: %+v ok=%v", st, ok)
	}

	if _, ok := DecodeStats(scval.Void()); ok {
		t.Error("explicit none should decode as absent")
	}
	if _, ok := DecodeStats(scval.Value{}); ok {
		t.Error("unknown value should decode as absent")
	}
}
