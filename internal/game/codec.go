package game

import (
	"encoding/hex"

	"github.com/Gabrululu/zk-battleship/internal/scval"
)

// zeroHashHex is the contract's placeholder for "not committed yet".
const zeroHashHex = "0000000000000000000000000000000000000000000000000000000000000000"

// DecodeState builds a State from the raw value the contract's get_state
// call returns. Every field decodes independently with its type's default
// as fallback; a single unrecognizable field never discards the snapshot.
func DecodeState(v scval.Value) State {
	s := State{
		PendingShotX: NoShot,
		PendingShotY: NoShot,
	}

	s.Player1 = addressField(v, "player1")
	s.Player2 = addressField(v, "player2")
	s.Turn = addressField(v, "turn")
	s.PendingShooter = addressField(v, "pending_shooter")
	s.Winner = addressField(v, "winner")

	s.BoardHashP1 = hashField(v, "board_hash_p1")
	s.BoardHashP2 = hashField(v, "board_hash_p2")

	s.HitsOnP1 = u32Field(v, "hits_on_p1", 0)
	s.HitsOnP2 = u32Field(v, "hits_on_p2", 0)
	s.ShotsFiredP1 = u32Field(v, "shots_fired_p1", 0)
	s.ShotsFiredP2 = u32Field(v, "shots_fired_p2", 0)

	if pv, ok := scval.MapField(v, "phase"); ok {
		s.Phase = PhaseFromName(scval.AsEnumName(pv))
	}

	s.PendingShotX = u32Field(v, "pending_shot_x", NoShot)
	s.PendingShotY = u32Field(v, "pending_shot_y", NoShot)

	s.P1Joined = boolField(v, "p1_joined")
	s.P2Joined = boolField(v, "p2_joined")
	s.P1Committed = boolField(v, "p1_committed")
	s.P2Committed = boolField(v, "p2_committed")
	s.HasWinner = boolField(v, "has_winner")

	s.SessionID = u32Field(v, "session_id", 0)

	return s
}

// DecodeStats builds a Stats from the get_player_stats result. The second
// return is false when the contract reported an explicit none (player has
// no record yet), which is an expected outcome, not an error.
func DecodeStats(v scval.Value) (Stats, bool) {
	if scval.IsVoid(v) || v.Type == scval.TypeUnknown {
		return Stats{}, false
	}
	return Stats{
		GamesPlayed: u32Field(v, "games_played", 0),
		GamesWon:    u32Field(v, "games_won", 0),
	}, true
}

func addressField(v scval.Value, key string) string {
	f, ok := scval.MapField(v, key)
	if !ok {
		return ""
	}
	return scval.AsAddress(f)
}

func u32Field(v scval.Value, key string, fallback uint32) uint32 {
	f, ok := scval.MapField(v, key)
	if !ok {
		return fallback
	}
	return scval.AsUint32(f, fallback)
}

func boolField(v scval.Value, key string) bool {
	f, ok := scval.MapField(v, key)
	if !ok {
		return false
	}
	return scval.AsBool(f, false)
}

// hashField renders a 32-byte commitment as hex; the all-zero placeholder
// and malformed payloads both decode to "" (not committed).
func hashField(v scval.Value, key string) string {
	f, ok := scval.MapField(v, key)
	if !ok {
		return ""
	}
	b := scval.AsBytes(f)
	if len(b) != 32 {
		return ""
	}
	h := hex.EncodeToString(b)
	if h == zeroHashHex {
		return ""
	}
	return h
}
