package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

// ListCoupons returns every coupon for the admin panel.
func (c *Client) ListCoupons(ctx context.Context) ([]types.Coupon, error) {
	var coupons []types.Coupon
	err := c.do(ctx, request{
		resource: "coupons",
		method:   http.MethodGet,
		path:     "/coupons",
	}, &coupons)
	if err != nil {
		return nil, err
	}
	return coupons, nil
}

// ResolveCoupon validates a shopper-entered code. Unknown or expired codes
// come back as a NOT_FOUND error for the cart view to surface.
func (c *Client) ResolveCoupon(ctx context.Context, code string) (*types.Coupon, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "coupon code is required")
	}

	query := url.Values{}
	query.Set("code", trimmed)

	var coupon types.Coupon
	err := c.do(ctx, request{
		resource: "coupons",
		method:   http.MethodGet,
		path:     "/public/coupons/resolve",
		query:    query,
		public:   true,
	}, &coupon)
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}

func (c *Client) CreateCoupon(ctx context.Context, coupon types.Coupon) (*types.Coupon, error) {
	var created types.Coupon
	err := c.do(ctx, request{
		resource: "coupons",
		method:   http.MethodPost,
		path:     "/coupons",
		body:     coupon,
	}, &created)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeleteCoupon(ctx context.Context, couponID string) error {
	if strings.TrimSpace(couponID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "coupon id is required")
	}

	return c.do(ctx, request{
		resource: "coupons",
		method:   http.MethodDelete,
		path:     "/coupons/" + url.PathEscape(couponID),
	}, nil)
}
