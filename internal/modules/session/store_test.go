// README: Session store tests (state machine, expiry, pending records).
package session

import (
	"testing"
	"time"

	"waypoint/internal/modules/orders"
)

func newTestStore() (*Store, *time.Time) {
	s := NewStore()
	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	return s, &clock
}

func TestVerifiedOnlyAfterMark(t *testing.T) {
	s, _ := newTestStore()

	if s.IsVerified("chat:1", 42) {
		t.Fatal("verified before any mark")
	}
	s.MarkVerified("chat:1", 42)
	if !s.IsVerified("chat:1", 42) {
		t.Fatal("not verified after mark")
	}
	if s.IsVerified("chat:1", 43) {
		t.Fatal("verification leaked to another order")
	}
	if s.IsVerified("chat:2", 42) {
		t.Fatal("verification leaked to another session")
	}
}

func TestPendingLifecycle(t *testing.T) {
	s, _ := newTestStore()
	o := orders.Order{ID: 7, FirstName: "Ada"}

	if _, ok := s.Pending("chat:1"); ok {
		t.Fatal("pending before set")
	}

	s.SetPending("chat:1", 7, o)
	p, ok := s.Pending("chat:1")
	if !ok || p.OrderID != 7 || p.Order.FirstName != "Ada" {
		t.Fatalf("pending = %+v, ok = %v", p, ok)
	}

	// A failed attempt keeps the pending record and counts the try.
	s.RecordFailedAttempt("chat:1", 7)
	p, ok = s.Pending("chat:1")
	if !ok || p.Attempts != 1 {
		t.Fatalf("after failure pending = %+v, ok = %v", p, ok)
	}
	if s.IsVerified("chat:1", 7) {
		t.Fatal("failed attempt marked verified")
	}

	// Success clears pending.
	s.MarkVerified("chat:1", 7)
	if _, ok := s.Pending("chat:1"); ok {
		t.Fatal("pending survived verification")
	}
}

func TestSetPendingSameOrderKeepsAttempts(t *testing.T) {
	s, _ := newTestStore()
	o := orders.Order{ID: 7}

	s.SetPending("chat:1", 7, o)
	s.RecordFailedAttempt("chat:1", 7)
	s.SetPending("chat:1", 7, o)

	p, _ := s.Pending("chat:1")
	if p.Attempts != 1 {
		t.Fatalf("Attempts = %d, want 1", p.Attempts)
	}
}

func TestSetPendingNewOrderResets(t *testing.T) {
	s, _ := newTestStore()

	s.SetPending("chat:1", 7, orders.Order{ID: 7})
	s.RecordFailedAttempt("chat:1", 7)
	s.SetPending("chat:1", 8, orders.Order{ID: 8})

	p, _ := s.Pending("chat:1")
	if p.OrderID != 8 || p.Attempts != 0 {
		t.Fatalf("pending = %+v, want fresh record for order 8", p)
	}
}

func TestClearPendingLeavesVerifiedIntact(t *testing.T) {
	s, _ := newTestStore()

	s.MarkVerified("chat:1", 5)
	s.SetPending("chat:1", 7, orders.Order{ID: 7})
	s.RecordFailedAttempt("chat:1", 7)
	s.ClearPending("chat:1")

	if _, ok := s.Pending("chat:1"); ok {
		t.Fatal("pending survived clear")
	}
	if !s.IsVerified("chat:1", 5) {
		t.Fatal("clearing pending dropped an existing verification")
	}

	// A fresh pending after a clear starts from zero attempts.
	s.SetPending("chat:1", 7, orders.Order{ID: 7})
	if p, _ := s.Pending("chat:1"); p.Attempts != 0 {
		t.Fatalf("Attempts = %d after clear and re-set, want 0", p.Attempts)
	}
}

func TestClearPendingUnknownSessionIsNoop(t *testing.T) {
	s, _ := newTestStore()
	s.ClearPending("chat:ghost")
	if _, ok := s.sessions["chat:ghost"]; ok {
		t.Fatal("clear created a session")
	}
}

func TestIssuedSessionExpires(t *testing.T) {
	s, clock := newTestStore()

	id := s.Issue()
	s.MarkVerified(id, 7)
	if !s.IsVerified(id, 7) {
		t.Fatal("issued session not usable")
	}

	*clock = clock.Add(issuedTTL + time.Minute)
	if s.IsVerified(id, 7) {
		t.Fatal("expired session still verified")
	}
	if _, ok := s.sessions[id]; ok {
		t.Fatal("expired session not pruned on access")
	}
}

func TestChatSessionNeverExpires(t *testing.T) {
	s, clock := newTestStore()

	s.MarkVerified("chat:1", 7)
	*clock = clock.Add(90 * 24 * time.Hour)
	if !s.IsVerified("chat:1", 7) {
		t.Fatal("caller-keyed session expired")
	}
}

// Marking something verified on an expired issued session starts a new
// caller-keyed session rather than resurrecting the old record.
func TestMarkVerifiedAfterExpiry(t *testing.T) {
	s, clock := newTestStore()

	id := s.Issue()
	s.MarkVerified(id, 1)
	*clock = clock.Add(issuedTTL + time.Minute)

	s.MarkVerified(id, 2)
	if s.IsVerified(id, 1) {
		t.Fatal("stale verification survived expiry")
	}
	if !s.IsVerified(id, 2) {
		t.Fatal("new verification lost")
	}
}

func TestIssueReturnsDistinctIDs(t *testing.T) {
	s, _ := newTestStore()
	a, b := s.Issue(), s.Issue()
	if a == b || a == "" {
		t.Fatalf("Issue returned %q and %q", a, b)
	}
}
