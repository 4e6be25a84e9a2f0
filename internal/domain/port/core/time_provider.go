package core

import "time"

// TimeProvider abstracts the clock for the domain so that "now" can be fixed
// in tests. OccurredAt defaulting and the empty-ledger history entry both
// depend on it.
type TimeProvider interface {
	Now() time.Time
}
