package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/sparklegiftshop/gateway/api/middleware"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

// The live route upgrades the connection behind the full middleware chain,
// so the logging recorder must expose the underlying Hijacker.
func TestLiveTrackingUpgradesThroughMiddleware(t *testing.T) {
	pushUpgrader := websocket.Upgrader{}
	push := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := pushUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("push upgrade: %v", err)
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer push.Close()
	pushURL := "ws" + strings.TrimPrefix(push.URL, "http")

	sessions := newTestSessions(t)
	signInTestAdmin(t, sessions)
	svc := &stubLookup{order: &types.Order{InvoiceID: "300126-003", CustomerName: "Priya"}}

	logg := testLogg()
	router := chi.NewRouter()
	router.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	router.Get("/api/v1/track/{invoiceId}/live", LiveTracking(svc, sessions, pushURL, logg))

	server := httptest.NewServer(router)
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/v1/track/300126-003/live"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		t.Fatalf("dial live route (status %d): %v", status, err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var view trackView
	if err := conn.ReadJSON(&view); err != nil {
		t.Fatalf("read initial frame: %v", err)
	}
	if view.Order == nil || view.Order.InvoiceID != "300126-003" {
		t.Fatalf("unexpected initial order %+v", view.Order)
	}
	if len(view.Timeline) == 0 {
		t.Fatalf("expected the synthetic placed milestone in the timeline")
	}
}
