// README: Integration tests for the tracking HTTP surface.
package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httptransport "waypoint/internal/http"
	"waypoint/internal/modules/orders"
	"waypoint/internal/modules/session"
	"waypoint/internal/modules/tracking"
)

type stubUpstream struct {
	orders  []orders.Order
	drivers []orders.DriverLocation
}

func (s *stubUpstream) FetchOrders(_ context.Context) ([]orders.Order, error) {
	return s.orders, nil
}

func (s *stubUpstream) FetchTodaysOrders(_ context.Context) ([]orders.Order, error) {
	return nil, nil
}

func (s *stubUpstream) FetchDriverLocations(_ context.Context) ([]orders.DriverLocation, error) {
	return s.drivers, nil
}

func buildTestRouter() http.Handler {
	log := slog.New(slog.DiscardHandler)
	upstream := &stubUpstream{
		orders: []orders.Order{
			{ID: 101, RouteLabel: "giga-north-1.19.26", DeliverySeq: 1, Status: orders.StatusDelivered},
			{ID: 102, RouteLabel: "giga-north-1.19.26", DeliverySeq: 2, Status: orders.StatusOutForDelivery,
				FirstName: "Ada", LastName: "Lovelace", Phone: "917-555-0134", Email: "ada@example.com"},
		},
		drivers: []orders.DriverLocation{{DriverName: "giga", Latitude: 40.7, Longitude: -73.9, IsActive: true}},
	}
	tracker := tracking.NewService(orders.NewCache(upstream, log), session.NewStore(), nil, log)
	return httptransport.NewRouter(httptransport.RouterDeps{
		Tracker:       tracker,
		RatePerMinute: 100,
		Log:           log,
	})
}

func doRequest(r http.Handler, method, path string, body any, sessionID string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("decoding %q: %v", w.Body.String(), err)
	}
	return m
}

func TestTrackRequiresVerification(t *testing.T) {
	r := buildTestRouter()
	w := doRequest(r, http.MethodGet, "/api/orders/102/track", nil, "s1")
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	body := decode(t, w)
	if body["code"] != "verification_required" {
		t.Errorf("code = %v", body["code"])
	}
}

func TestVerifyThenTrack(t *testing.T) {
	r := buildTestRouter()

	w := doRequest(r, http.MethodPost, "/api/orders/102/verify", map[string]any{"identifier": "0134"}, "s1")
	if w.Code != http.StatusOK {
		t.Fatalf("verify: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if body := decode(t, w); body["success"] != true {
		t.Fatalf("verify body = %v", body)
	}

	w = doRequest(r, http.MethodGet, "/api/orders/102/track", nil, "s1")
	if w.Code != http.StatusOK {
		t.Fatalf("track: expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["status"] != "OUT_FOR_DELIVERY" {
		t.Errorf("status = %v", body["status"])
	}
	if body["stops_away"] != float64(1) {
		t.Errorf("stops_away = %v", body["stops_away"])
	}
	route, ok := body["route"].(map[string]any)
	if !ok || route["completed_stops"] != float64(1) {
		t.Errorf("route = %v", body["route"])
	}
}

func TestVerifyFailureInvitesRetry(t *testing.T) {
	r := buildTestRouter()

	w := doRequest(r, http.MethodPost, "/api/orders/102/verify", map[string]any{"identifier": "zzz999"}, "s1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := decode(t, w); body["success"] != false {
		t.Fatalf("body = %v", body)
	}

	// The failed attempt is reported on the next gate hit.
	w = doRequest(r, http.MethodGet, "/api/orders/102/track", nil, "s1")
	if body := decode(t, w); body["attempted"] != true {
		t.Errorf("attempted = %v", body["attempted"])
	}
}

func TestTrackUnknownOrder(t *testing.T) {
	r := buildTestRouter()
	w := doRequest(r, http.MethodGet, "/api/orders/999/track", nil, "s1")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestTrackInvalidOrderID(t *testing.T) {
	r := buildTestRouter()
	w := doRequest(r, http.MethodGet, "/api/orders/abc/track", nil, "s1")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestDriverLocationEndpoint(t *testing.T) {
	r := buildTestRouter()

	doRequest(r, http.MethodPost, "/api/orders/102/verify", map[string]any{"identifier": "ada@example.com"}, "s1")
	w := doRequest(r, http.MethodGet, "/api/orders/102/driver", nil, "s1")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if body := decode(t, w); body["driver_name"] != "giga" {
		t.Errorf("driver_name = %v", body["driver_name"])
	}
}

func TestRouteProgressEndpoint(t *testing.T) {
	r := buildTestRouter()
	w := doRequest(r, http.MethodGet, "/api/routes/giga-north-1.19.26/progress", nil, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decode(t, w)
	if body["total_stops"] != float64(2) || body["progress_percent"] != float64(50) {
		t.Errorf("body = %v", body)
	}

	w = doRequest(r, http.MethodGet, "/api/routes/nope-x-1/progress", nil, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("unknown route: expected 404, got %d", w.Code)
	}
}

func TestIssueSession(t *testing.T) {
	r := buildTestRouter()
	w := doRequest(r, http.MethodPost, "/api/sessions", nil, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if body := decode(t, w); body["session_id"] == "" || body["session_id"] == nil {
		t.Errorf("session_id missing: %v", body)
	}
}

func TestChatVerificationFlow(t *testing.T) {
	r := buildTestRouter()

	// Asking about an order sets it pending and prompts for identity.
	w := doRequest(r, http.MethodPost, "/api/chat/message",
		map[string]any{"session_id": "chat:1", "message": "where is my order 102?"}, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	reply, _ := decode(t, w)["reply"].(string)
	if !strings.Contains(reply, "confirm") {
		t.Fatalf("reply = %q, want verification prompt", reply)
	}

	// Free text while pending is treated as the identifier.
	w = doRequest(r, http.MethodPost, "/api/chat/message",
		map[string]any{"session_id": "chat:1", "message": "Ada Lovelace"}, "")
	reply, _ = decode(t, w)["reply"].(string)
	if !strings.Contains(reply, "out for delivery") {
		t.Fatalf("reply = %q, want tracking message", reply)
	}
}
