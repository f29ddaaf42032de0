// Package pricing computes the display-side price breakdown for a cart: the
// subtotal, coupon discount, delivery fee, and final total shown before order
// submission. The remote backend recomputes the same figures authoritatively
// when the order is created; this quote is advisory only.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/sparklegiftshop/gateway/pkg/config"
	"github.com/sparklegiftshop/gateway/pkg/enums"
	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

var (
	// ErrEmptyCart blocks checkout when no purchasable line remains.
	ErrEmptyCart = pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	// ErrCouponNotApplicable signals a coupon whose allow-list misses the cart.
	ErrCouponNotApplicable = pkgerrors.New(pkgerrors.CodeValidation, "coupon does not apply to any item in your cart")
)

var hundred = decimal.NewFromInt(100)

// DeliveryPolicy is the step function for the delivery fee: a flat fee below
// the threshold, free at or above it. The fee is computed from the
// pre-discount subtotal, so discounts never subsidize shipping.
type DeliveryPolicy struct {
	FreeThreshold decimal.Decimal
	FlatFee       decimal.Decimal
}

// PolicyFromConfig lifts the configured integer policy into decimals.
func PolicyFromConfig(cfg config.DeliveryConfig) DeliveryPolicy {
	return DeliveryPolicy{
		FreeThreshold: decimal.NewFromInt(int64(cfg.FreeThreshold)),
		FlatFee:       decimal.NewFromInt(int64(cfg.FlatFee)),
	}
}

// Quote is the price breakdown rendered on every view that shows totals.
type Quote struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
	CouponCode  string          `json:"coupon_code,omitempty"`
}

// Compute produces the quote for the given cart lines and optional coupon.
//
// When a "specific" coupon matches nothing in the cart, the returned quote is
// the couponless breakdown and the error is ErrCouponNotApplicable: callers
// surface the error and clear the coupon selection, leaving subtotal and
// total unchanged.
func Compute(items []types.CartItem, coupon *types.Coupon, policy DeliveryPolicy) (Quote, error) {
	subtotal := decimal.Zero
	lines := 0
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		lines++
		subtotal = subtotal.Add(item.UnitPrice().Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	quote := Quote{
		Subtotal:    subtotal,
		Discount:    decimal.Zero,
		DeliveryFee: deliveryFee(subtotal, lines, policy),
	}

	var couponErr error
	if coupon != nil {
		discount, err := resolveDiscount(items, subtotal, *coupon)
		if err != nil {
			couponErr = err
		} else {
			// Never discount past the subtotal.
			if discount.GreaterThan(subtotal) {
				discount = subtotal
			}
			quote.Discount = discount
			quote.CouponCode = coupon.Code
		}
	}

	quote.Total = subtotal.Sub(quote.Discount)
	if quote.Total.IsNegative() {
		quote.Total = decimal.Zero
	}
	quote.Total = quote.Total.Add(quote.DeliveryFee)

	return quote, couponErr
}

func resolveDiscount(items []types.CartItem, subtotal decimal.Decimal, coupon types.Coupon) (decimal.Decimal, error) {
	base := subtotal
	if coupon.Scope == enums.CouponScopeSpecific {
		matched := decimal.Zero
		anyMatch := false
		for _, item := range items {
			if item.Quantity <= 0 || !coupon.Covers(item.ProductID) {
				continue
			}
			anyMatch = true
			matched = matched.Add(item.UnitPrice().Mul(decimal.NewFromInt(int64(item.Quantity))))
		}
		if !anyMatch {
			return decimal.Zero, ErrCouponNotApplicable
		}
		base = matched
	}

	switch coupon.Type {
	case enums.CouponTypePercent:
		return base.Mul(coupon.Value).Div(hundred).Round(2), nil
	case enums.CouponTypeFlat:
		// Flat value applies in full once at least one item qualifies.
		return coupon.Value, nil
	default:
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "unknown coupon type")
	}
}

func deliveryFee(subtotal decimal.Decimal, lines int, policy DeliveryPolicy) decimal.Decimal {
	if lines == 0 {
		return decimal.Zero
	}
	if subtotal.LessThan(policy.FreeThreshold) {
		return policy.FlatFee
	}
	return decimal.Zero
}
