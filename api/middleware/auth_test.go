package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sparklegiftshop/gateway/internal/localstore"
	"github.com/sparklegiftshop/gateway/internal/session"
	"github.com/sparklegiftshop/gateway/pkg/enums"
	"github.com/sparklegiftshop/gateway/pkg/logger"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

func newSessions(t *testing.T) *session.Manager {
	t.Helper()
	store, err := localstore.Open(filepath.Join(t.TempDir(), "localstore.json"))
	if err != nil {
		t.Fatalf("open local store: %v", err)
	}
	return session.NewManager(store)
}

func signIn(t *testing.T, sessions *session.Manager, level enums.AccessLevel) {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, session.Claims{
		Name:        "Priya",
		AccessLevel: level,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	if err := sessions.SignIn(token, types.Profile{Name: "Priya", AccessLevel: level}); err != nil {
		t.Fatalf("sign in: %v", err)
	}
}

func quietLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "middleware-test", Output: io.Discard})
}

func TestRequireSessionRejectsSignedOut(t *testing.T) {
	sessions := newSessions(t)
	handler := RequireSession(sessions, quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRequireSessionSeedsIdentity(t *testing.T) {
	sessions := newSessions(t)
	signIn(t, sessions, enums.AccessLevelAdmin)

	var gotName, gotLevel string
	handler := RequireSession(sessions, quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotName = AdminNameFromContext(r.Context())
		gotLevel = AccessLevelFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if gotName != "Priya" {
		t.Fatalf("expected admin name in context, got %q", gotName)
	}
	if gotLevel != string(enums.AccessLevelAdmin) {
		t.Fatalf("expected access level in context, got %q", gotLevel)
	}
}

func TestRequireSuperAdminRejectsPlainAdmin(t *testing.T) {
	sessions := newSessions(t)
	signIn(t, sessions, enums.AccessLevelAdmin)

	handler := RequireSuperAdmin(sessions, quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRequireSuperAdminAllowsTopLevel(t *testing.T) {
	sessions := newSessions(t)
	signIn(t, sessions, enums.AccessLevelSuperAdmin)

	handler := RequireSuperAdmin(sessions, quietLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
