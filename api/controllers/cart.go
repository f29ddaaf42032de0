package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/sparklegiftshop/gateway/api/responses"
	"github.com/sparklegiftshop/gateway/api/validators"
	"github.com/sparklegiftshop/gateway/internal/cart"
	"github.com/sparklegiftshop/gateway/internal/pricing"
	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/logger"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

// CouponResolver validates shopper-entered codes against the backend.
type CouponResolver interface {
	ResolveCoupon(ctx context.Context, code string) (*types.Coupon, error)
}

// CartState is the gateway's in-memory cart plus the applied coupon. One
// instance backs the whole storefront session.
type CartState struct {
	Cart *cart.Cart

	mu     sync.RWMutex
	coupon *types.Coupon
}

func NewCartState() *CartState {
	return &CartState{Cart: cart.New()}
}

func (s *CartState) Coupon() *types.Coupon {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.coupon
}

func (s *CartState) SetCoupon(coupon *types.Coupon) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coupon = coupon
}

// cartView is the payload every cart mutation responds with, so the client
// always renders from fresh totals.
type cartView struct {
	Items  []types.CartItem `json:"items"`
	Coupon *types.Coupon    `json:"coupon,omitempty"`
	Quote  pricing.Quote    `json:"quote"`
}

func renderCart(state *CartState, policy pricing.DeliveryPolicy) cartView {
	items := state.Cart.Items()
	coupon := state.Coupon()

	quote, err := pricing.Compute(items, coupon, policy)
	if err != nil && errors.Is(err, pricing.ErrCouponNotApplicable) {
		// A cart edit can orphan a "specific" coupon; drop it silently and
		// fall back to the couponless quote already computed.
		state.SetCoupon(nil)
		coupon = nil
	}

	return cartView{Items: items, Coupon: coupon, Quote: quote}
}

// GetCart serves the cart view with the current quote.
func GetCart(state *CartState, policy pricing.DeliveryPolicy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, renderCart(state, policy))
	}
}

type addCartItemRequest struct {
	ProductID    string `json:"product_id" validate:"required"`
	VariantSize  string `json:"variant_size,omitempty"`
	VariantColor string `json:"variant_color,omitempty"`
	Quantity     int    `json:"quantity" validate:"required,min=1"`
}

// AddCartItem snapshots the product from the catalog and adds it as a line.
// Re-adding a product replaces its line, mirroring how the product page's
// add button behaves.
func AddCartItem(state *CartState, catalog Catalog, policy pricing.DeliveryPolicy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if catalog == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog unavailable"))
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := catalog.GetProduct(r.Context(), payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		variant, err := pickVariant(product, payload.VariantSize, payload.VariantColor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := state.Cart.Add(*product, variant, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, renderCart(state, policy))
	}
}

func pickVariant(product *types.Product, size, color string) (*types.Variant, error) {
	if size == "" && color == "" {
		return nil, nil
	}
	for i := range product.Variants {
		v := &product.Variants[i]
		if (size == "" || v.Size == size) && (color == "" || v.Color == color) {
			return v, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeValidation, "selected variant is not available").
		WithDetails(map[string]string{"size": size, "color": color})
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// SetCartItemQuantity updates one line; quantity zero removes it.
func SetCartItemQuantity(state *CartState, policy pricing.DeliveryPolicy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := state.Cart.SetQuantity(productID, payload.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, renderCart(state, policy))
	}
}

// RemoveCartItem deletes one line.
func RemoveCartItem(state *CartState, policy pricing.DeliveryPolicy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if productID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "product id is required"))
			return
		}

		state.Cart.Remove(productID)
		responses.WriteSuccess(w, renderCart(state, policy))
	}
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required"`
}

// ApplyCoupon resolves the code and prices the cart with it. A coupon whose
// allow-list misses every line is rejected and the selection stays empty;
// the quoted totals are unchanged.
func ApplyCoupon(state *CartState, resolver CouponResolver, policy pricing.DeliveryPolicy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if resolver == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		var payload applyCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		coupon, err := resolver.ResolveCoupon(r.Context(), payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := pricing.Compute(state.Cart.Items(), coupon, policy); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		state.SetCoupon(coupon)
		responses.WriteSuccess(w, renderCart(state, policy))
	}
}

// RemoveCoupon clears the applied coupon.
func RemoveCoupon(state *CartState, policy pricing.DeliveryPolicy, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state.SetCoupon(nil)
		responses.WriteSuccess(w, renderCart(state, policy))
	}
}
