package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sparklegiftshop/gateway/pkg/enums"
	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

// CreateOrderRequest is the checkout payload. The totals here are the
// gateway's advisory quote; the backend recomputes and persists its own.
type CreateOrderRequest struct {
	CustomerName  string              `json:"customer_name"`
	Phone         string              `json:"phone"`
	Address       string              `json:"address"`
	Pincode       string              `json:"pincode,omitempty"`
	Items         []types.OrderItem   `json:"items"`
	CouponCode    string              `json:"coupon_code,omitempty"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	Discount      decimal.Decimal     `json:"discount"`
	DeliveryFee   decimal.Decimal     `json:"delivery_fee"`
	Total         decimal.Decimal     `json:"total"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
}

// CreateOrder submits the checkout. The idempotency key shields against
// double-submission from an impatient shopper.
func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest, idempotencyKey string) (*types.Order, error) {
	if len(req.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no items")
	}

	headers := map[string]string{}
	if idempotencyKey != "" {
		headers["Idempotency-Key"] = idempotencyKey
	}

	var order types.Order
	err := c.do(ctx, request{
		resource: "orders",
		method:   http.MethodPost,
		path:     "/orders",
		body:     req,
		headers:  headers,
	}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns every order for the admin dashboard.
func (c *Client) ListOrders(ctx context.Context) ([]types.Order, error) {
	var orders []types.Order
	err := c.do(ctx, request{
		resource: "orders",
		method:   http.MethodGet,
		path:     "/orders",
	}, &orders)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches one order by invoice id using the session token.
func (c *Client) GetOrder(ctx context.Context, invoiceID string) (*types.Order, error) {
	if strings.TrimSpace(invoiceID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required")
	}

	var order types.Order
	err := c.do(ctx, request{
		resource: "orders",
		method:   http.MethodGet,
		path:     "/orders/" + url.PathEscape(invoiceID),
	}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// LookupOrder is the public phone-verified lookup for guests.
func (c *Client) LookupOrder(ctx context.Context, phone, invoiceID string) (*types.Order, error) {
	if strings.TrimSpace(phone) == "" || strings.TrimSpace(invoiceID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone and invoice id are required")
	}

	query := url.Values{}
	query.Set("phone", strings.TrimSpace(phone))
	query.Set("invoice", strings.TrimSpace(invoiceID))

	var order types.Order
	err := c.do(ctx, request{
		resource: "orders",
		method:   http.MethodGet,
		path:     "/public/orders/lookup",
		query:    query,
		public:   true,
	}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// LookupOrdersByPhone lists a guest's orders by phone number.
func (c *Client) LookupOrdersByPhone(ctx context.Context, phone string) ([]types.Order, error) {
	if strings.TrimSpace(phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}

	query := url.Values{}
	query.Set("phone", strings.TrimSpace(phone))

	var orders []types.Order
	err := c.do(ctx, request{
		resource: "orders",
		method:   http.MethodGet,
		path:     "/public/orders",
		query:    query,
		public:   true,
	}, &orders)
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// SetOrderFlag flips one boolean order flag (dispatched/paid/delivered).
func (c *Client) SetOrderFlag(ctx context.Context, invoiceID string, toggle enums.OrderToggle, value bool) (*types.Order, error) {
	if strings.TrimSpace(invoiceID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required")
	}
	if !toggle.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order flag")
	}

	var order types.Order
	err := c.do(ctx, request{
		resource: "orders",
		method:   http.MethodPatch,
		path:     "/orders/" + url.PathEscape(invoiceID) + "/status",
		body: map[string]any{
			"flag":  toggle.String(),
			"value": value,
		},
	}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// TrackingEventRequest appends one progress entry to an order.
type TrackingEventRequest struct {
	Message  string `json:"message"`
	Location string `json:"location,omitempty"`
}

// AddTrackingEvent appends a tracking event and returns the updated order.
func (c *Client) AddTrackingEvent(ctx context.Context, invoiceID string, event TrackingEventRequest) (*types.Order, error) {
	if strings.TrimSpace(invoiceID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required")
	}
	if strings.TrimSpace(event.Message) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking message is required")
	}

	var order types.Order
	err := c.do(ctx, request{
		resource: "orders",
		method:   http.MethodPost,
		path:     "/orders/" + url.PathEscape(invoiceID) + "/tracking",
		body:     event,
	}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// SetCourier records the courier name and tracking id on an order.
func (c *Client) SetCourier(ctx context.Context, invoiceID, courierName, trackingID string) (*types.Order, error) {
	if strings.TrimSpace(invoiceID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required")
	}

	var order types.Order
	err := c.do(ctx, request{
		resource: "orders",
		method:   http.MethodPatch,
		path:     "/orders/" + url.PathEscape(invoiceID) + "/courier",
		body: map[string]string{
			"courier_name": courierName,
			"tracking_id":  trackingID,
		},
	}, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// UploadPaymentScreenshot attaches the customer's UPI payment proof.
func (c *Client) UploadPaymentScreenshot(ctx context.Context, invoiceID, dataURI string) error {
	if strings.TrimSpace(invoiceID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "invoice id is required")
	}
	if !strings.HasPrefix(dataURI, "data:image/") {
		return pkgerrors.New(pkgerrors.CodeValidation, "screenshot must be an image data uri")
	}

	return c.do(ctx, request{
		resource: "orders",
		method:   http.MethodPost,
		path:     "/public/orders/" + url.PathEscape(invoiceID) + "/screenshot",
		body:     map[string]string{"screenshot": dataURI},
		public:   true,
	}, nil)
}
