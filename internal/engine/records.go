package engine

// Outcome is the locally-known result of a shot.
type Outcome int

const (
	// OutcomePending marks a fired shot whose answer has not settled yet.
	OutcomePending Outcome = iota
	OutcomeMiss
	OutcomeHit
)

func (o Outcome) String() string {
	switch o {
	case OutcomeMiss:
		return "miss"
	case OutcomeHit:
		return "hit"
	default:
		return "pending"
	}
}

// ShotRecord is one entry in a local shot log. Fired entries start out
// provisional and are reconciled against the authoritative counters on the
// next snapshot; received entries are recorded already resolved, since the
// proof that produced them states the outcome.
type ShotRecord struct {
	X, Y    uint32
	Outcome Outcome
}

// hasShotAt reports whether the log already contains the coordinate.
func hasShotAt(log []ShotRecord, x, y uint32) bool {
	for _, r := range log {
		if r.X == x && r.Y == y {
			return true
		}
	}
	return false
}
