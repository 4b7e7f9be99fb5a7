// Package game defines the typed authoritative game snapshot, the codec
// that produces it from raw ledger values, and the pure turn logic derived
// from it.
package game

import "math"

// NoShot is the sentinel coordinate meaning "no pending shot". The contract
// uses the maximum representable u32.
const NoShot uint32 = math.MaxUint32

// Phase is the contract's game phase. It is strictly monotonic for a single
// game instance (a reset starts a new instance).
type Phase int

const (
	PhaseUnknown Phase = iota
	PhaseWaitingForPlayers
	PhaseCommit
	PhasePlaying
	PhaseFinished
)

// String returns the phase's wire name.
func (p Phase) String() string {
	switch p {
	case PhaseWaitingForPlayers:
		return "WaitingForPlayers"
	case PhaseCommit:
		return "Commit"
	case PhasePlaying:
		return "Playing"
	case PhaseFinished:
		return "Finished"
	default:
		return "Unknown"
	}
}

// PhaseFromName maps a wire variant name to a Phase. Unrecognized names
// map to PhaseUnknown rather than failing the snapshot.
func PhaseFromName(name string) Phase {
	switch name {
	case "WaitingForPlayers":
		return PhaseWaitingForPlayers
	case "Commit":
		return PhaseCommit
	case "Playing":
		return PhasePlaying
	case "Finished":
		return PhaseFinished
	default:
		return PhaseUnknown
	}
}

// State is an immutable snapshot of the authoritative remote game state.
// Identity fields are opaque account addresses; empty means not yet assigned
// (or not decodable, which callers treat the same way).
type State struct {
	Player1        string
	Player2        string
	Turn           string
	PendingShooter string
	Winner         string

	BoardHashP1 string // hex, empty until P1 commits
	BoardHashP2 string

	HitsOnP1     uint32
	HitsOnP2     uint32
	ShotsFiredP1 uint32
	ShotsFiredP2 uint32

	Phase Phase

	PendingShotX uint32
	PendingShotY uint32

	P1Joined    bool
	P2Joined    bool
	P1Committed bool
	P2Committed bool
	HasWinner   bool

	SessionID uint32
}

// Stats are a player's lifetime counters, independent of any single game.
type Stats struct {
	GamesPlayed uint32
	GamesWon    uint32
}

// HasPendingShot reports whether a shot awaits a response.
func (s State) HasPendingShot() bool {
	return s.PendingShotX != NoShot
}

// TurnIs reports whether the given identity holds the turn.
func (s State) TurnIs(identity string) bool {
	return identity != "" && s.Turn == identity
}

// NeedToFire reports whether identity must pick and fire a shot.
func (s State) NeedToFire(identity string) bool {
	return s.Phase == PhasePlaying && s.TurnIs(identity) && !s.HasPendingShot()
}

// NeedToRespond reports whether identity must answer the pending shot with
// a proof. Exactly one of NeedToFire/NeedToRespond holds for the turn
// holder while the game is in the playing phase.
func (s State) NeedToRespond(identity string) bool {
	return s.Phase == PhasePlaying && s.TurnIs(identity) && s.HasPendingShot()
}

// IsPlayer1 reports whether identity is seated as player one.
func (s State) IsPlayer1(identity string) bool {
	return identity != "" && s.Player1 == identity
}

// IsPlayer2 reports whether identity is seated as player two.
func (s State) IsPlayer2(identity string) bool {
	return identity != "" && s.Player2 == identity
}

// ShotsFiredBy returns how many shots identity has fired, 0 for outsiders.
func (s State) ShotsFiredBy(identity string) uint32 {
	switch {
	case s.IsPlayer1(identity):
		return s.ShotsFiredP1
	case s.IsPlayer2(identity):
		return s.ShotsFiredP2
	default:
		return 0
	}
}

// HitsOn returns how many hits identity has received.
func (s State) HitsOn(identity string) uint32 {
	switch {
	case s.IsPlayer1(identity):
		return s.HitsOnP1
	case s.IsPlayer2(identity):
		return s.HitsOnP2
	default:
		return 0
	}
}

// CommittedHash returns identity's published board commitment, if any.
func (s State) CommittedHash(identity string) string {
	switch {
	case s.IsPlayer1(identity):
		return s.BoardHashP1
	case s.IsPlayer2(identity):
		return s.BoardHashP2
	default:
		return ""
	}
}

// Opponent returns the other seated player, or "" if not determinable.
func (s State) Opponent(identity string) string {
	switch {
	case s.IsPlayer1(identity):
		return s.Player2
	case s.IsPlayer2(identity):
		return s.Player1
	default:
		return ""
	}
}
