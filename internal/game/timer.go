package game

import "time"

// Urgency grades how much of the turn clock is left.
type Urgency int

const (
	UrgencyNormal Urgency = iota
	UrgencyWarning
	UrgencyCritical
)

// String returns a display name for the urgency tier.
func (u Urgency) String() string {
	switch u {
	case UrgencyWarning:
		return "warning"
	case UrgencyCritical:
		return "critical"
	default:
		return "normal"
	}
}

// turnKey identifies one distinct turn: holder plus pending-shot coords.
// A response clears the pending shot and a fire sets it, so every protocol
// step produces a new key even when the same address keeps the turn.
type turnKey struct {
	turn string
	x, y uint32
}

// TurnTimer is a pure, network-independent countdown for the current turn
// holder. It resets to the full duration whenever the observed turn key
// changes and latches its expiry flag until the next change. Expiry is
// advisory only; any forfeiture rule lives in the contract.
type TurnTimer struct {
	duration time.Duration
	warning  time.Duration
	critical time.Duration

	key      turnKey
	deadline time.Time
	active   bool
	fired    bool
}

// NewTurnTimer builds a timer with the given full duration and the
// remaining-time thresholds for the warning and critical tiers.
func NewTurnTimer(duration, warning, critical time.Duration) *TurnTimer {
	return &TurnTimer{duration: duration, warning: warning, critical: critical}
}

// Observe feeds the latest authoritative snapshot into the timer. The clock
// only runs while the game is in the playing phase with a seated turn
// holder.
func (t *TurnTimer) Observe(s State, now time.Time) {
	key := turnKey{turn: s.Turn, x: s.PendingShotX, y: s.PendingShotY}
	if key != t.key {
		t.key = key
		t.deadline = now.Add(t.duration)
		t.fired = false
	}
	t.active = s.Phase == PhasePlaying && s.Turn != ""
}

// Remaining returns the time left on the current turn, floored at zero.
// While inactive it reports the full duration.
func (t *TurnTimer) Remaining(now time.Time) time.Duration {
	if !t.active {
		return t.duration
	}
	left := t.deadline.Sub(now)
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports whether the current turn ran out of time. Once true it
// stays true until the turn key changes.
func (t *TurnTimer) Expired(now time.Time) bool {
	return t.active && !now.Before(t.deadline)
}

// FireExpiry returns true exactly once per turn key, at or after the
// deadline. Callers use it to emit a single advisory notification.
func (t *TurnTimer) FireExpiry(now time.Time) bool {
	if t.fired || !t.Expired(now) {
		return false
	}
	t.fired = true
	return true
}

// Urgency grades the remaining time against the configured thresholds.
func (t *TurnTimer) Urgency(now time.Time) Urgency {
	left := t.Remaining(now)
	switch {
	case left <= t.critical:
		return UrgencyCritical
	case left <= t.warning:
		return UrgencyWarning
	default:
		return UrgencyNormal
	}
}
