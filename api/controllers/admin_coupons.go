package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/sparklegiftshop/gateway/api/responses"
	"github.com/sparklegiftshop/gateway/api/validators"
	"github.com/sparklegiftshop/gateway/pkg/enums"
	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/logger"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

// CouponEditor is the slice of the backend client the coupons panel needs.
type CouponEditor interface {
	ListCoupons(ctx context.Context) ([]types.Coupon, error)
	CreateCoupon(ctx context.Context, coupon types.Coupon) (*types.Coupon, error)
	DeleteCoupon(ctx context.Context, couponID string) error
}

// AdminListCoupons serves the coupons panel.
func AdminListCoupons(svc CouponEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		coupons, err := svc.ListCoupons(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, coupons)
	}
}

type couponRequest struct {
	Code       string          `json:"code" validate:"required,alphanum,min=3"`
	Type       string          `json:"type" validate:"required"`
	Value      decimal.Decimal `json:"value" validate:"required"`
	Scope      string          `json:"scope" validate:"required"`
	ProductIDs []string        `json:"product_ids,omitempty" validate:"omitempty,dive,required"`
}

func (c couponRequest) toCoupon() (types.Coupon, error) {
	ctype, err := enums.ParseCouponType(c.Type)
	if err != nil {
		return types.Coupon{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown coupon type")
	}
	scope, err := enums.ParseCouponScope(c.Scope)
	if err != nil {
		return types.Coupon{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unknown coupon scope")
	}

	if c.Value.IsNegative() || c.Value.IsZero() {
		return types.Coupon{}, pkgerrors.New(pkgerrors.CodeValidation, "coupon value must be positive")
	}
	if ctype == enums.CouponTypePercent && c.Value.GreaterThan(decimal.NewFromInt(100)) {
		return types.Coupon{}, pkgerrors.New(pkgerrors.CodeValidation, "percent coupons cannot exceed 100")
	}
	if scope == enums.CouponScopeSpecific && len(c.ProductIDs) == 0 {
		return types.Coupon{}, pkgerrors.New(pkgerrors.CodeValidation, "specific coupons need at least one product")
	}

	return types.Coupon{
		Code:       strings.ToUpper(strings.TrimSpace(c.Code)),
		Type:       ctype,
		Value:      c.Value,
		Scope:      scope,
		ProductIDs: c.ProductIDs,
	}, nil
}

// AdminCreateCoupon creates a coupon; specific-scope coupons carry the
// product allow-list picked from the catalog selector.
func AdminCreateCoupon(svc CouponEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		var payload couponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := payload.toCoupon()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.CreateCoupon(r.Context(), coupon)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

// AdminDeleteCoupon removes a coupon.
func AdminDeleteCoupon(svc CouponEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		couponID := strings.TrimSpace(chi.URLParam(r, "couponId"))
		if couponID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "coupon id is required"))
			return
		}

		if err := svc.DeleteCoupon(r.Context(), couponID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
