// README: Tracking facade; gates order data behind identity verification.
package tracking

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"waypoint/internal/modules/identity"
	"waypoint/internal/modules/orders"
	"waypoint/internal/modules/route"
	"waypoint/internal/modules/session"
)

var (
	ErrBadRequest        = errors.New("missing session id, order id, or identifier")
	ErrOrderNotFound     = errors.New("order not found")
	ErrNoDriver          = errors.New("no live location for this route's driver")
	ErrNotOutForDelivery = errors.New("order is not out for delivery")
)

// VerificationRequiredError reports that the session has not proven
// ownership of the order. Attempted distinguishes "never tried" from "tried
// and failed" so the caller layer can prompt accordingly.
type VerificationRequiredError struct {
	Attempted bool
}

func (e *VerificationRequiredError) Error() string {
	if e.Attempted {
		return "verification failed, retry with a different identifier"
	}
	return "verification required"
}

// TrackingData is the full live-tracking view for one verified order.
type TrackingData struct {
	Order    orders.Order
	Progress *route.Progress
	Estimate route.Estimate
}

type Service struct {
	cache    *orders.Cache
	sessions *session.Store
	audit    *AuditStore
	log      *slog.Logger
}

// NewService wires the facade. audit may be nil; attempts are then not
// recorded anywhere.
func NewService(cache *orders.Cache, sessions *session.Store, audit *AuditStore, log *slog.Logger) *Service {
	return &Service{cache: cache, sessions: sessions, audit: audit, log: log}
}

// CheckVerification reports whether the session already proved ownership.
func (s *Service) CheckVerification(sessionID string, orderID int64) bool {
	return s.sessions.IsVerified(sessionID, orderID)
}

// PendingVerification exposes the order a session is currently being asked
// to verify, so the chat layer can treat free text as an identifier.
func (s *Service) PendingVerification(sessionID string) (session.Pending, bool) {
	return s.sessions.Pending(sessionID)
}

// IssueSession creates a server-issued session for the mobile flow.
func (s *Service) IssueSession() string {
	return s.sessions.Issue()
}

// VerifyIdentity checks the supplied identifier against the order's customer
// fields. Success marks the order verified for the session and clears the
// pending record; failure leaves the pending record in place so the caller
// may retry. There is no attempt cap here; the rate limiter in front of the
// verification path is the only brute-force backstop.
func (s *Service) VerifyIdentity(ctx context.Context, sessionID string, orderID int64, identifier string) (bool, error) {
	if sessionID == "" || orderID <= 0 || strings.TrimSpace(identifier) == "" {
		return false, ErrBadRequest
	}
	o, ok := s.cache.OrderWithLiveStatus(ctx, orderID)
	if !ok {
		return false, ErrOrderNotFound
	}

	field, matched := identity.Match(o, identifier)
	if matched {
		s.sessions.MarkVerified(sessionID, orderID)
	} else {
		s.sessions.SetPending(sessionID, orderID, o)
		s.sessions.RecordFailedAttempt(sessionID, orderID)
	}
	s.recordAttempt(ctx, sessionID, orderID, field, matched)
	return matched, nil
}

// TrackingSnapshot assembles the live tracking view for a verified order.
// An unverified request records the order as pending for the session and
// returns VerificationRequiredError.
func (s *Service) TrackingSnapshot(ctx context.Context, sessionID string, orderID int64) (TrackingData, error) {
	if sessionID == "" || orderID <= 0 {
		return TrackingData{}, ErrBadRequest
	}
	o, ok := s.cache.OrderWithLiveStatus(ctx, orderID)
	if !ok {
		return TrackingData{}, ErrOrderNotFound
	}
	if !s.sessions.IsVerified(sessionID, orderID) {
		s.sessions.SetPending(sessionID, orderID, o)
		return TrackingData{}, s.verificationRequired(sessionID, orderID)
	}

	progress := route.Compute(s.cache.Orders(ctx), o.RouteLabel)
	return TrackingData{
		Order:    o,
		Progress: progress,
		Estimate: route.EstimateETA(o, progress),
	}, nil
}

// RouteProgress derives progress for a route label; nil when the label is
// empty or matches no orders. Route progress carries no customer fields and
// needs no verification.
func (s *Service) RouteProgress(ctx context.Context, label string) *route.Progress {
	return route.Compute(s.cache.Orders(ctx), label)
}

// DriverLocation returns the live GPS entry for the driver running a
// verified, out-for-delivery order. The feed is matched by the driver-name
// segment of the route label.
func (s *Service) DriverLocation(ctx context.Context, sessionID string, orderID int64) (orders.DriverLocation, error) {
	if sessionID == "" || orderID <= 0 {
		return orders.DriverLocation{}, ErrBadRequest
	}
	o, ok := s.cache.OrderWithLiveStatus(ctx, orderID)
	if !ok {
		return orders.DriverLocation{}, ErrOrderNotFound
	}
	if !s.sessions.IsVerified(sessionID, orderID) {
		s.sessions.SetPending(sessionID, orderID, o)
		return orders.DriverLocation{}, s.verificationRequired(sessionID, orderID)
	}
	if o.Status != orders.StatusOutForDelivery {
		return orders.DriverLocation{}, ErrNotOutForDelivery
	}

	driver, _ := orders.ParseRouteLabel(o.RouteLabel)
	if driver == "" {
		return orders.DriverLocation{}, ErrNoDriver
	}
	for _, loc := range s.cache.DriverLocations(ctx) {
		if strings.EqualFold(loc.DriverName, driver) {
			return loc, nil
		}
	}
	return orders.DriverLocation{}, ErrNoDriver
}

func (s *Service) verificationRequired(sessionID string, orderID int64) error {
	attempted := false
	if p, ok := s.sessions.Pending(sessionID); ok && p.OrderID == orderID {
		attempted = p.Attempts > 0
	}
	return &VerificationRequiredError{Attempted: attempted}
}

// recordAttempt appends to the audit log when one is configured. Audit
// failures are logged, never surfaced; the attempt outcome stands either
// way.
func (s *Service) recordAttempt(ctx context.Context, sessionID string, orderID int64, field string, success bool) {
	if s.audit == nil {
		return
	}
	err := s.audit.Append(ctx, Attempt{
		SessionID:    sessionID,
		OrderID:      orderID,
		MatchedField: field,
		Success:      success,
	})
	if err != nil {
		s.log.Warn("verification audit append failed", "order_id", orderID, "err", err)
	}
}
