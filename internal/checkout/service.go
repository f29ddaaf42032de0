package checkout

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/sparklegiftshop/gateway/internal/backend"
	"github.com/sparklegiftshop/gateway/internal/cart"
	"github.com/sparklegiftshop/gateway/internal/pricing"
	"github.com/sparklegiftshop/gateway/pkg/enums"
	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/logger"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

// Form is the shopper-facing checkout form. Validation mirrors what the
// order page enforces before the submit button enables. Coupons are not
// part of the form; the one applied to the cart rides the quote.
type Form struct {
	CustomerName  string              `json:"customer_name" validate:"required,min=2"`
	Phone         string              `json:"phone" validate:"required,len=10,numeric"`
	Address       string              `json:"address" validate:"required,min=10"`
	Pincode       string              `json:"pincode" validate:"required,len=6,numeric"`
	PaymentMethod enums.PaymentMethod `json:"payment_method" validate:"required"`
}

// OrderPlacer is the slice of the backend client checkout needs.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, req backend.CreateOrderRequest, idempotencyKey string) (*types.Order, error)
}

// Result pairs the placed order with the payment handoff for the confirmation
// view. UPIQRPNG is only set for UPI orders with a configured payee.
type Result struct {
	Order    *types.Order
	Quote    pricing.Quote
	UPIQRPNG []byte
}

// Service turns a cart plus a form into a placed order.
type Service struct {
	backend OrderPlacer
	policy  pricing.DeliveryPolicy
	logg    *logger.Logger
	newKey  func() string
}

func NewService(placer OrderPlacer, policy pricing.DeliveryPolicy, logg *logger.Logger) *Service {
	return &Service{
		backend: placer,
		policy:  policy,
		logg:    logg,
		newKey:  func() string { return uuid.NewString() },
	}
}

// Submit prices the cart, places the order with a fresh idempotency key, and
// reconciles the gateway quote against the server's authoritative totals.
// The returned quote always reflects what the server charged.
func (s *Service) Submit(ctx context.Context, basket *cart.Cart, coupon *types.Coupon, form Form, payee types.Settings) (*Result, error) {
	if basket == nil || !basket.CanCheckout() {
		return nil, pricing.ErrEmptyCart
	}

	items := basket.Items()
	quote, err := pricing.Compute(items, coupon, s.policy)
	if err != nil {
		return nil, err
	}

	req := backend.CreateOrderRequest{
		CustomerName:  form.CustomerName,
		Phone:         form.Phone,
		Address:       form.Address,
		Pincode:       form.Pincode,
		Items:         orderItems(items),
		CouponCode:    quote.CouponCode,
		Subtotal:      quote.Subtotal,
		Discount:      quote.Discount,
		DeliveryFee:   quote.DeliveryFee,
		Total:         quote.Total,
		PaymentMethod: form.PaymentMethod,
	}

	order, err := s.backend.CreateOrder(ctx, req, s.newKey())
	if err != nil {
		return nil, err
	}

	// The server recomputes every total. A mismatch means the display math
	// drifted from the backend's; the server's number is what gets charged.
	if !order.Total.Equal(quote.Total) {
		fields := map[string]any{
			"quoted_total": quote.Total.String(),
			"server_total": order.Total.String(),
		}
		s.logg.Warn(s.logg.WithFields(s.logg.WithInvoiceID(ctx, order.InvoiceID), fields),
			"server total differs from gateway quote")
	}
	serverQuote := pricing.Quote{
		Subtotal:    order.Subtotal,
		Discount:    order.Discount,
		DeliveryFee: order.DeliveryFee,
		Total:       order.Total,
		CouponCode:  quote.CouponCode,
	}

	result := &Result{Order: order, Quote: serverQuote}
	if form.PaymentMethod == enums.PaymentMethodUPI && payee.UPIID != "" {
		png, err := UPIQRPNG(payee, order)
		if err != nil {
			s.logg.Error(s.logg.WithInvoiceID(ctx, order.InvoiceID), "render upi qr", err)
		} else {
			result.UPIQRPNG = png
		}
	}
	return result, nil
}

func orderItems(items []types.CartItem) []types.OrderItem {
	out := make([]types.OrderItem, 0, len(items))
	for _, item := range items {
		line := types.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Product.Name,
			ImageURL:  item.Product.ImageURL,
			Variant:   item.Variant,
			UnitPrice: item.UnitPrice(),
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		}
		out = append(out, line)
	}
	return out
}

// UPIPayload builds the upi://pay deep link the QR encodes.
func UPIPayload(payee types.Settings, order *types.Order) string {
	params := url.Values{}
	params.Set("pa", payee.UPIID)
	if payee.StoreName != "" {
		params.Set("pn", payee.StoreName)
	}
	params.Set("am", order.Total.StringFixed(2))
	params.Set("cu", "INR")
	params.Set("tn", fmt.Sprintf("Order %s", order.InvoiceID))
	return "upi://pay?" + params.Encode()
}

// UPIQRPNG renders the payment QR shown on the confirmation view.
func UPIQRPNG(payee types.Settings, order *types.Order) ([]byte, error) {
	if payee.UPIID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store has no UPI id configured")
	}
	if order == nil || order.Total.LessThan(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order total is not payable")
	}

	png, err := qrcode.Encode(UPIPayload(payee, order), qrcode.Medium, 256)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode upi qr")
	}
	return png, nil
}
