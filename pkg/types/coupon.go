package types

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sparklegiftshop/gateway/pkg/enums"
)

// Coupon mirrors the backend coupon record. Codes compare case-insensitively.
type Coupon struct {
	ID         string            `json:"id,omitempty"`
	Code       string            `json:"code"`
	Type       enums.CouponType  `json:"type"`
	Value      decimal.Decimal   `json:"value"`
	Scope      enums.CouponScope `json:"scope"`
	ProductIDs []string          `json:"product_ids,omitempty"`
}

// MatchesCode reports whether the coupon answers to the given code.
func (c Coupon) MatchesCode(code string) bool {
	return strings.EqualFold(strings.TrimSpace(c.Code), strings.TrimSpace(code))
}

// Covers reports whether the coupon applies to the given product id.
func (c Coupon) Covers(productID string) bool {
	if c.Scope == enums.CouponScopeAll {
		return true
	}
	for _, id := range c.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}
