package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sparklegiftshop/gateway/api/responses"
	"github.com/sparklegiftshop/gateway/api/validators"
	"github.com/sparklegiftshop/gateway/internal/backend"
	"github.com/sparklegiftshop/gateway/internal/dashboard"
	"github.com/sparklegiftshop/gateway/internal/tracking"
	"github.com/sparklegiftshop/gateway/pkg/enums"
	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/logger"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

// OrderEditor is the slice of the backend client the orders panel needs
// beyond what the board and toggler already cover.
type OrderEditor interface {
	GetOrder(ctx context.Context, invoiceID string) (*types.Order, error)
	AddTrackingEvent(ctx context.Context, invoiceID string, event backend.TrackingEventRequest) (*types.Order, error)
	SetCourier(ctx context.Context, invoiceID, courierName, trackingID string) (*types.Order, error)
}

// AdminListOrders serves the orders panel from the poller-maintained board.
func AdminListOrders(board *dashboard.Board, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, board.Orders())
	}
}

// AdminGetOrder fetches one order with its full tracking timeline.
func AdminGetOrder(svc OrderEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		invoiceID := strings.TrimSpace(chi.URLParam(r, "invoiceId"))
		if invoiceID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required"))
			return
		}

		order, err := svc.GetOrder(r.Context(), invoiceID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, trackView{Order: order, Timeline: tracking.Timeline(order)})
	}
}

type toggleRequest struct {
	Flag  string `json:"flag" validate:"required"`
	Value bool   `json:"value"`
}

// AdminToggleOrderFlag flips dispatched/paid/delivered through the
// optimistic toggler. The response carries the board's current copy, which
// is the rolled-back one when the backend refused.
func AdminToggleOrderFlag(toggler *dashboard.Toggler, board *dashboard.Board, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if toggler == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		invoiceID := strings.TrimSpace(chi.URLParam(r, "invoiceId"))
		if invoiceID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required"))
			return
		}

		var payload toggleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		toggle, err := enums.ParseOrderToggle(payload.Flag)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown order flag"))
			return
		}

		if err := toggler.Toggle(r.Context(), invoiceID, toggle, payload.Value); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, _ := board.Get(invoiceID)
		responses.WriteSuccess(w, order)
	}
}

type trackingEventRequest struct {
	Message  string `json:"message" validate:"required,min=2"`
	Location string `json:"location,omitempty"`
}

// AdminAddTrackingEvent appends a progress entry to an order's timeline.
func AdminAddTrackingEvent(svc OrderEditor, board *dashboard.Board, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		invoiceID := strings.TrimSpace(chi.URLParam(r, "invoiceId"))
		if invoiceID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required"))
			return
		}

		var payload trackingEventRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.AddTrackingEvent(r.Context(), invoiceID, backend.TrackingEventRequest{
			Message:  payload.Message,
			Location: payload.Location,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if board != nil {
			board.Put(*order)
		}
		responses.WriteSuccess(w, trackView{Order: order, Timeline: tracking.Timeline(order)})
	}
}

type courierRequest struct {
	CourierName string `json:"courier_name" validate:"required,min=2"`
	TrackingID  string `json:"tracking_id,omitempty"`
}

// AdminSetCourier records the courier handoff details.
func AdminSetCourier(svc OrderEditor, board *dashboard.Board, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		invoiceID := strings.TrimSpace(chi.URLParam(r, "invoiceId"))
		if invoiceID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required"))
			return
		}

		var payload courierRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.SetCourier(r.Context(), invoiceID, payload.CourierName, payload.TrackingID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if board != nil {
			board.Put(*order)
		}
		responses.WriteSuccess(w, order)
	}
}
