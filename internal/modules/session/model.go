// README: Verification session state.
package session

import (
	"time"

	"waypoint/internal/modules/orders"
)

// Pending is the order a caller most recently asked about without proving
// ownership. Attempts counts failed verification tries against it, which
// lets the caller layer phrase its prompt differently after a failure.
type Pending struct {
	OrderID  int64
	Order    orders.Order
	Attempts int
}

// A session records which orders a caller has proven ownership of. The
// verified set is only ever grown through a successful identity check; there
// is no other write path.
//
// Server-issued sessions expire 24h after creation. Caller-keyed chat
// sessions have a zero ExpiresAt and live for the life of the process, so a
// long-running instance accumulates them; acceptable at current scale, but a
// known unbounded-growth risk.
type session struct {
	verified  map[int64]bool
	pending   *Pending
	createdAt time.Time
	expiresAt time.Time
}

func (s *session) expired(now time.Time) bool {
	return !s.expiresAt.IsZero() && now.After(s.expiresAt)
}
