package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/sparklegiftshop/gateway/internal/localstore"
	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

type stubSettings struct {
	settings *types.Settings
	err      error
}

func (s stubSettings) GetSettings(ctx context.Context) (*types.Settings, error) {
	return s.settings, s.err
}

func newTestStore(t *testing.T) *localstore.Store {
	t.Helper()
	store, err := localstore.Open(filepath.Join(t.TempDir(), "localstore.json"))
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}
	return store
}

func decodeSettings(t *testing.T, resp *httptest.ResponseRecorder) types.Settings {
	t.Helper()
	var envelope struct {
		Data types.Settings `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	return envelope.Data
}

func TestGetSettingsCachesFreshCopy(t *testing.T) {
	store := newTestStore(t)
	svc := stubSettings{settings: &types.Settings{StoreName: "Sparkle Gift Shop", UPIID: "sparkle@upi"}}

	resp := httptest.NewRecorder()
	GetSettings(svc, store, testLogg()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var cached types.Settings
	ok, err := store.Get(localstore.KeySettingsCache, &cached)
	if err != nil || !ok {
		t.Fatalf("settings not cached: ok=%v err=%v", ok, err)
	}
	if cached.StoreName != "Sparkle Gift Shop" {
		t.Fatalf("unexpected cached copy %+v", cached)
	}
}

func TestGetSettingsFallsBackToCacheWhenBackendDown(t *testing.T) {
	store := newTestStore(t)
	if err := store.Set(localstore.KeySettingsCache, types.Settings{StoreName: "Sparkle Gift Shop"}); err != nil {
		t.Fatalf("seed cache: %v", err)
	}
	svc := stubSettings{err: pkgerrors.New(pkgerrors.CodeBackend, "store service unavailable")}

	resp := httptest.NewRecorder()
	GetSettings(svc, store, testLogg()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("cached settings should be served on backend failure, got %d", resp.Code)
	}
	if got := decodeSettings(t, resp); got.StoreName != "Sparkle Gift Shop" {
		t.Fatalf("unexpected settings %+v", got)
	}
}

func TestGetSettingsWithoutCachePropagatesError(t *testing.T) {
	store := newTestStore(t)
	svc := stubSettings{err: pkgerrors.New(pkgerrors.CodeBackend, "store service unavailable")}

	resp := httptest.NewRecorder()
	GetSettings(svc, store, testLogg()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil))

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d", resp.Code)
	}
}
