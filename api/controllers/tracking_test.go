package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/sparklegiftshop/gateway/internal/localstore"
	"github.com/sparklegiftshop/gateway/internal/session"
	"github.com/sparklegiftshop/gateway/pkg/enums"
	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

func withURLParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func newTestSessions(t *testing.T) *session.Manager {
	t.Helper()
	store, err := localstore.Open(filepath.Join(t.TempDir(), "localstore.json"))
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}
	return session.NewManager(store)
}

func signInTestAdmin(t *testing.T, sessions *session.Manager) {
	t.Helper()
	claims := session.Claims{
		Name:        "Dinesh",
		AccessLevel: enums.AccessLevelAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	if err := sessions.SignIn(token, types.Profile{Name: "Dinesh", AccessLevel: enums.AccessLevelAdmin}); err != nil {
		t.Fatalf("sign in: %v", err)
	}
}

type stubLookup struct {
	order      *types.Order
	orders     []types.Order
	err        error
	getCalls   int
	lookupCall struct {
		phone     string
		invoiceID string
	}
}

func (s *stubLookup) GetOrder(ctx context.Context, invoiceID string) (*types.Order, error) {
	s.getCalls++
	return s.order, s.err
}

func (s *stubLookup) LookupOrder(ctx context.Context, phone, invoiceID string) (*types.Order, error) {
	s.lookupCall.phone = phone
	s.lookupCall.invoiceID = invoiceID
	return s.order, s.err
}

func (s *stubLookup) LookupOrdersByPhone(ctx context.Context, phone string) ([]types.Order, error) {
	return s.orders, s.err
}

func TestTrackOrderSavesPhone(t *testing.T) {
	sessions := newTestSessions(t)
	placed := time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC)
	svc := &stubLookup{order: &types.Order{InvoiceID: "300126-001", Phone: "9876543210", CreatedAt: placed}}

	resp := postJSON(t, TrackOrder(svc, sessions, testLogg()), "/api/v1/track",
		map[string]any{"phone": "9876543210", "invoice_id": "300126-001"})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	phone, ok := sessions.TrackingPhone()
	if !ok || phone != "9876543210" {
		t.Fatalf("tracking phone not saved, got %q", phone)
	}

	var envelope struct {
		Data trackView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode track view: %v", err)
	}
	if len(envelope.Data.Timeline) != 1 || envelope.Data.Timeline[0].Message != "Order Placed" {
		t.Fatalf("expected synthetic placed milestone, got %+v", envelope.Data.Timeline)
	}
}

func TestTrackOrderBadPhoneRejected(t *testing.T) {
	sessions := newTestSessions(t)
	svc := &stubLookup{order: &types.Order{InvoiceID: "300126-001"}}

	resp := postJSON(t, TrackOrder(svc, sessions, testLogg()), "/api/v1/track",
		map[string]any{"phone": "12345", "invoice_id": "300126-001"})

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if _, ok := sessions.TrackingPhone(); ok {
		t.Fatalf("invalid request must not save a phone")
	}
}

func TestGetTrackedOrderRefusedWithoutSessionOrPhone(t *testing.T) {
	sessions := newTestSessions(t)
	svc := &stubLookup{order: &types.Order{InvoiceID: "300126-001"}}

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/track/300126-001", nil), "invoiceId", "300126-001")
	resp := httptest.NewRecorder()
	GetTrackedOrder(svc, sessions, testLogg()).ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
	if svc.getCalls != 0 || svc.lookupCall.invoiceID != "" {
		t.Fatalf("refused request must never reach the backend")
	}
}

func TestGetTrackedOrderUsesSavedPhone(t *testing.T) {
	sessions := newTestSessions(t)
	if err := sessions.SaveTrackingPhone("9876543210"); err != nil {
		t.Fatalf("save phone: %v", err)
	}
	svc := &stubLookup{order: &types.Order{InvoiceID: "300126-001", Phone: "9876543210"}}

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/track/300126-001", nil), "invoiceId", "300126-001")
	resp := httptest.NewRecorder()
	GetTrackedOrder(svc, sessions, testLogg()).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lookupCall.phone != "9876543210" {
		t.Fatalf("guest view must go through the phone lookup, got %q", svc.lookupCall.phone)
	}
	if svc.getCalls != 0 {
		t.Fatalf("guest view must not use the authenticated fetch")
	}
}

func TestGetTrackedOrderWithSessionSkipsPhoneGate(t *testing.T) {
	sessions := newTestSessions(t)
	signInTestAdmin(t, sessions)
	svc := &stubLookup{order: &types.Order{InvoiceID: "300126-001"}}

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/track/300126-001", nil), "invoiceId", "300126-001")
	resp := httptest.NewRecorder()
	GetTrackedOrder(svc, sessions, testLogg()).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.getCalls != 1 {
		t.Fatalf("signed-in view should use the authenticated fetch")
	}
}

func TestListTrackedOrdersRefusedWithoutPhone(t *testing.T) {
	sessions := newTestSessions(t)
	svc := &stubLookup{orders: []types.Order{{InvoiceID: "300126-001"}}}

	resp := httptest.NewRecorder()
	ListTrackedOrders(svc, sessions, testLogg()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/track", nil))

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestGetTrackedOrderBackendErrorPassesThrough(t *testing.T) {
	sessions := newTestSessions(t)
	if err := sessions.SaveTrackingPhone("9876543210"); err != nil {
		t.Fatalf("save phone: %v", err)
	}
	svc := &stubLookup{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}

	req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/v1/track/300126-404", nil), "invoiceId", "300126-404")
	resp := httptest.NewRecorder()
	GetTrackedOrder(svc, sessions, testLogg()).ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
