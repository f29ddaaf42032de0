package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sparklegiftshop/gateway/api/controllers"
	"github.com/sparklegiftshop/gateway/internal/backend"
	"github.com/sparklegiftshop/gateway/internal/checkout"
	"github.com/sparklegiftshop/gateway/internal/dashboard"
	"github.com/sparklegiftshop/gateway/internal/localstore"
	"github.com/sparklegiftshop/gateway/internal/pricing"
	"github.com/sparklegiftshop/gateway/internal/session"
	"github.com/sparklegiftshop/gateway/pkg/config"
	"github.com/sparklegiftshop/gateway/pkg/logger"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

func testRouter(t *testing.T, backendURL string) http.Handler {
	t.Helper()

	cfg := &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		Backend: config.BackendConfig{
			BaseURL: backendURL,
			Timeout: 2 * time.Second,
		},
		Delivery:  config.DeliveryConfig{FreeThreshold: 500, FlatFee: 50},
		Store:     config.StoreConfig{Path: filepath.Join(t.TempDir(), "localstore.json")},
		Dashboard: config.DashboardConfig{PollInterval: 15 * time.Second},
	}

	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})

	store, err := localstore.Open(cfg.Store.Path)
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}
	sessions := session.NewManager(store)

	client, err := backend.NewClient(cfg.Backend.BaseURL, backend.WithTokenSource(sessions))
	if err != nil {
		t.Fatalf("backend client: %v", err)
	}

	policy := pricing.PolicyFromConfig(cfg.Delivery)
	board := dashboard.NewBoard()

	return NewRouter(Deps{
		Config:    cfg,
		Logger:    logg,
		Backend:   client,
		Store:     store,
		Sessions:  sessions,
		CartState: controllers.NewCartState(),
		Checkout:  checkout.NewService(client, policy, logg),
		Board:     board,
		Toggler:   dashboard.NewToggler(board, client, logg),
	})
}

func TestHealthLive(t *testing.T) {
	router := testRouter(t, "http://127.0.0.1:0")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if got := resp.Header().Get("X-Sparkle-Env"); got != "test" {
		t.Fatalf("unexpected env header %q", got)
	}
}

func TestAdminRoutesRequireSession(t *testing.T) {
	router := testRouter(t, "http://127.0.0.1:0")

	paths := []string{
		"/api/admin/v1/orders",
		"/api/admin/v1/reports",
		"/api/admin/v1/tab",
	}
	for _, path := range paths {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 got %d", path, resp.Code)
		}
	}
}

func TestEmptyCartIsServedWithoutBackend(t *testing.T) {
	router := testRouter(t, "http://127.0.0.1:0")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestProductListProxiesBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" {
			t.Errorf("unexpected backend path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(types.SuccessEnvelope{Data: backend.ProductList{
			Products: []types.Product{{ID: "mug", Name: "Photo Mug"}},
		}})
	}))
	defer server.Close()

	router := testRouter(t, server.URL)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	var envelope struct {
		Data backend.ProductList `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode product list: %v", err)
	}
	if len(envelope.Data.Products) != 1 || envelope.Data.Products[0].ID != "mug" {
		t.Fatalf("unexpected products %+v", envelope.Data.Products)
	}
}

func TestMetricsEndpointMounted(t *testing.T) {
	router := testRouter(t, "http://127.0.0.1:0")

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
