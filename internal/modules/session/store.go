// README: In-memory verification session store with lazy expiry.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"waypoint/internal/modules/orders"
)

const issuedTTL = 24 * time.Hour

// Store holds per-caller verification state. Sessions are created lazily on
// first write and pruned lazily on access: an expired session is treated as
// absent, never swept by a timer.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	now      func() time.Time
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*session),
		now:      time.Now,
	}
}

// Issue creates a server-issued session with a 24h expiry and returns its
// opaque id. Used by the mobile flow; chat flows bring their own ids.
func (s *Store) Issue() string {
	id := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.sessions[id] = &session{
		verified:  make(map[int64]bool),
		createdAt: now,
		expiresAt: now.Add(issuedTTL),
	}
	return id
}

// IsVerified reports whether the session has proven ownership of the order.
func (s *Store) IsVerified(sessionID string, orderID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.live(sessionID)
	if sess == nil {
		return false
	}
	return sess.verified[orderID]
}

// MarkVerified records a successful identity check. Callers must only do so
// after the verifier accepts; the store does not re-check.
func (s *Store) MarkVerified(sessionID string, orderID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.ensure(sessionID)
	sess.verified[orderID] = true
	if sess.pending != nil && sess.pending.OrderID == orderID {
		sess.pending = nil
	}
}

// SetPending records the order the caller is being asked to verify. A
// repeated SetPending for the same order keeps the attempt counter.
func (s *Store) SetPending(sessionID string, orderID int64, order orders.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.ensure(sessionID)
	if sess.pending != nil && sess.pending.OrderID == orderID {
		sess.pending.Order = order
		return
	}
	sess.pending = &Pending{OrderID: orderID, Order: order}
}

// Pending returns the pending verification record, if any.
func (s *Store) Pending(sessionID string) (Pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.live(sessionID)
	if sess == nil || sess.pending == nil {
		return Pending{}, false
	}
	return *sess.pending, true
}

// RecordFailedAttempt bumps the failed-attempt counter on the pending
// record. There is deliberately no cap: the caller may retry until the
// path-level rate limiter outside this core pushes back.
func (s *Store) RecordFailedAttempt(sessionID string, orderID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess := s.live(sessionID)
	if sess == nil || sess.pending == nil || sess.pending.OrderID != orderID {
		return
	}
	sess.pending.Attempts++
}

// ClearPending drops the pending record without verifying it.
func (s *Store) ClearPending(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sess := s.live(sessionID); sess != nil {
		sess.pending = nil
	}
}

// live returns the session or nil, deleting it if expired. Callers hold the
// lock.
func (s *Store) live(id string) *session {
	sess, ok := s.sessions[id]
	if !ok {
		return nil
	}
	if sess.expired(s.now()) {
		delete(s.sessions, id)
		return nil
	}
	return sess
}

// ensure returns the live session, creating a caller-keyed one (no expiry)
// if absent. Callers hold the lock.
func (s *Store) ensure(id string) *session {
	if sess := s.live(id); sess != nil {
		return sess
	}
	sess := &session{
		verified:  make(map[int64]bool),
		createdAt: s.now(),
	}
	s.sessions[id] = sess
	return sess
}
