package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sparklegiftshop/gateway/api/responses"
	"github.com/sparklegiftshop/gateway/api/validators"
	"github.com/sparklegiftshop/gateway/internal/checkout"
	"github.com/sparklegiftshop/gateway/internal/pricing"
	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/logger"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

// ScreenshotUploader forwards the UPI payment proof to the backend.
type ScreenshotUploader interface {
	UploadPaymentScreenshot(ctx context.Context, invoiceID, dataURI string) error
}

type checkoutResponse struct {
	Order    *types.Order  `json:"order"`
	Quote    pricing.Quote `json:"quote"`
	UPIQRPNG []byte        `json:"upi_qr_png,omitempty"`
}

// Checkout validates the form, submits the order, and empties the cart on
// success. The response quote carries the server's authoritative totals.
func Checkout(svc *checkout.Service, state *CartState, settings SettingsReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout unavailable"))
			return
		}

		var form checkout.Form
		if err := validators.DecodeJSONBody(r, &form); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !form.PaymentMethod.IsValid() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment method"))
			return
		}

		payee := types.Settings{}
		if settings != nil {
			if s, err := settings.GetSettings(r.Context()); err == nil && s != nil {
				payee = *s
			}
		}

		result, err := svc.Submit(r.Context(), state.Cart, state.Coupon(), form, payee)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state.Cart.Clear()
		state.SetCoupon(nil)

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			Order:    result.Order,
			Quote:    result.Quote,
			UPIQRPNG: result.UPIQRPNG,
		})
	}
}

type paymentScreenshotRequest struct {
	DataURI string `json:"data_uri" validate:"required"`
}

// UploadPaymentScreenshot attaches payment proof to a placed UPI order.
func UploadPaymentScreenshot(svc ScreenshotUploader, logg *logger.Logger) http.HandlerFunc {
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

		var payload paymentScreenshotRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.UploadPaymentScreenshot(r.Context(), invoiceID, payload.DataURI); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "received"})
	}
}
