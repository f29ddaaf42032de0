package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/sparklegiftshop/gateway/api/responses"
	"github.com/sparklegiftshop/gateway/api/validators"
	"github.com/sparklegiftshop/gateway/internal/session"
	"github.com/sparklegiftshop/gateway/internal/tracking"
	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/logger"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

// OrderLookup is the slice of the backend client the tracking views need.
type OrderLookup interface {
	GetOrder(ctx context.Context, invoiceID string) (*types.Order, error)
	LookupOrder(ctx context.Context, phone, invoiceID string) (*types.Order, error)
	LookupOrdersByPhone(ctx context.Context, phone string) ([]types.Order, error)
}

// errTrackingRefused is the privacy gate: without a signed-in session or a
// phone the guest already verified, the gateway refuses to show any order.
var errTrackingRefused = pkgerrors.New(pkgerrors.CodeForbidden, "verify your phone number to view this order")

type trackView struct {
	Order    *types.Order          `json:"order"`
	Timeline []types.TrackingEvent `json:"timeline"`
}

type trackRequest struct {
	Phone     string `json:"phone" validate:"required,len=10,numeric"`
	InvoiceID string `json:"invoice_id" validate:"required"`
}

// TrackOrder is the guest entry point: phone plus invoice id. A successful
// lookup remembers the phone so later visits skip the form.
func TrackOrder(svc OrderLookup, sessions *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracking unavailable"))
			return
		}

		var payload trackRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.LookupOrder(r.Context(), payload.Phone, payload.InvoiceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := sessions.SaveTrackingPhone(payload.Phone); err != nil {
			logg.Warn(logg.WithInvoiceID(r.Context(), order.InvoiceID), "persist tracking phone failed")
		}

		responses.WriteSuccess(w, trackView{Order: order, Timeline: tracking.Timeline(order)})
	}
}

// ListTrackedOrders shows every order tied to the remembered phone.
func ListTrackedOrders(svc OrderLookup, sessions *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracking unavailable"))
			return
		}

		phone, ok := sessions.TrackingPhone()
		if !ok || phone == "" {
			responses.WriteError(r.Context(), logg, w, errTrackingRefused)
			return
		}

		orders, err := svc.LookupOrdersByPhone(r.Context(), phone)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, orders)
	}
}

// GetTrackedOrder serves the detail view for one invoice. A dashboard
// session may see any order; a guest only what their saved phone unlocks.
func GetTrackedOrder(svc OrderLookup, sessions *session.Manager, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "tracking unavailable"))
			return
		}

		invoiceID := strings.TrimSpace(chi.URLParam(r, "invoiceId"))
		if invoiceID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required"))
			return
		}

		order, err := fetchTrackedOrder(r.Context(), svc, sessions, invoiceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, trackView{Order: order, Timeline: tracking.Timeline(order)})
	}
}

func fetchTrackedOrder(ctx context.Context, svc OrderLookup, sessions *session.Manager, invoiceID string) (*types.Order, error) {
	if sessions.HasSession() {
		return svc.GetOrder(ctx, invoiceID)
	}
	if phone, ok := sessions.TrackingPhone(); ok && phone != "" {
		return svc.LookupOrder(ctx, phone, invoiceID)
	}
	return nil, errTrackingRefused
}

var trackingUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// LiveTracking upgrades the request and relays backend pushes for one
// invoice until the client hangs up. Every frame re-renders the full view,
// so a reconnecting client never has to replay deltas.
func LiveTracking(svc OrderLookup, sessions *session.Manager, pushURL string, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		invoiceID := strings.TrimSpace(chi.URLParam(r, "invoiceId"))
		if invoiceID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required"))
			return
		}

		order, err := fetchTrackedOrder(r.Context(), svc, sessions, invoiceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		conn, err := trackingUpgrader.Upgrade(w, r, nil)
		if err != nil {
			logg.Error(r.Context(), "upgrade live tracking", err)
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		watcher := tracking.NewWatcher(order, logg)
		go func() {
			if err := watcher.Run(ctx, pushURL); err != nil && ctx.Err() == nil {
				logg.Error(logg.WithInvoiceID(ctx, invoiceID), "tracking watcher stopped", err)
			}
			cancel()
		}()

		// Client reads are discarded; a read error means the tab closed.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					cancel()
					return
				}
			}
		}()

		if err := conn.WriteJSON(trackView{Order: order, Timeline: tracking.Timeline(order)}); err != nil {
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case updated := <-watcher.Updates():
				view := trackView{Order: updated, Timeline: tracking.Timeline(updated)}
				if err := conn.WriteJSON(view); err != nil {
					return
				}
			}
		}
	}
}
