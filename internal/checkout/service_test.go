package checkout

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparklegiftshop/gateway/internal/backend"
	"github.com/sparklegiftshop/gateway/internal/cart"
	"github.com/sparklegiftshop/gateway/internal/pricing"
	"github.com/sparklegiftshop/gateway/pkg/enums"
	"github.com/sparklegiftshop/gateway/pkg/logger"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

type stubPlacer struct {
	gotReq backend.CreateOrderRequest
	gotKey string
	order  *types.Order
	err    error
}

func (s *stubPlacer) CreateOrder(ctx context.Context, req backend.CreateOrderRequest, idempotencyKey string) (*types.Order, error) {
	s.gotReq = req
	s.gotKey = idempotencyKey
	if s.err != nil {
		return nil, s.err
	}
	return s.order, nil
}

func testService(placer *stubPlacer) *Service {
	policy := pricing.DeliveryPolicy{
		FreeThreshold: decimal.NewFromInt(500),
		FlatFee:       decimal.NewFromInt(50),
	}
	logg := logger.New(logger.Options{ServiceName: "checkout-test", Output: io.Discard})
	return NewService(placer, policy, logg)
}

func filledCart(t *testing.T) *cart.Cart {
	t.Helper()
	c := cart.New()
	require.NoError(t, c.Add(types.Product{ID: "mug", Name: "Photo Mug", Price: decimal.NewFromInt(200)}, nil, 2))
	return c
}

func codForm() Form {
	return Form{
		CustomerName:  "Priya Sharma",
		Phone:         "9876543210",
		Address:       "12 MG Road, Indore",
		Pincode:       "452001",
		PaymentMethod: enums.PaymentMethodCOD,
	}
}

func TestSubmitPlacesOrderWithQuoteAndKey(t *testing.T) {
	placer := &stubPlacer{order: &types.Order{
		InvoiceID:   "300126-001",
		Subtotal:    decimal.NewFromInt(400),
		DeliveryFee: decimal.NewFromInt(50),
		Total:       decimal.NewFromInt(450),
	}}

	result, err := testService(placer).Submit(context.Background(), filledCart(t), nil, codForm(), types.Settings{})
	require.NoError(t, err)

	assert.NotEmpty(t, placer.gotKey, "every submission carries an idempotency key")
	assert.True(t, placer.gotReq.Subtotal.Equal(decimal.NewFromInt(400)))
	assert.True(t, placer.gotReq.Total.Equal(decimal.NewFromInt(450)), "400 below threshold picks up the flat fee")
	assert.Equal(t, "452001", placer.gotReq.Pincode)
	require.Len(t, placer.gotReq.Items, 1)
	assert.True(t, placer.gotReq.Items[0].UnitPrice.Equal(decimal.NewFromInt(200)))

	assert.Equal(t, "300126-001", result.Order.InvoiceID)
	assert.Nil(t, result.UPIQRPNG, "cash on delivery needs no payment QR")
}

func TestSubmitForwardsAppliedCartCoupon(t *testing.T) {
	placer := &stubPlacer{order: &types.Order{
		InvoiceID:   "300126-005",
		Subtotal:    decimal.NewFromInt(400),
		Discount:    decimal.NewFromInt(80),
		DeliveryFee: decimal.NewFromInt(50),
		Total:       decimal.NewFromInt(370),
	}}
	coupon := &types.Coupon{
		Code:  "FESTIVE20",
		Type:  enums.CouponTypePercent,
		Value: decimal.NewFromInt(20),
		Scope: enums.CouponScopeAll,
	}

	result, err := testService(placer).Submit(context.Background(), filledCart(t), coupon, codForm(), types.Settings{})
	require.NoError(t, err)

	assert.Equal(t, "FESTIVE20", placer.gotReq.CouponCode, "the cart's coupon rides the order request")
	assert.True(t, placer.gotReq.Discount.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, "FESTIVE20", result.Quote.CouponCode)
}

func TestSubmitServerTotalsAreAuthoritative(t *testing.T) {
	placer := &stubPlacer{order: &types.Order{
		InvoiceID:   "300126-002",
		Subtotal:    decimal.NewFromInt(400),
		Discount:    decimal.NewFromInt(40),
		DeliveryFee: decimal.NewFromInt(50),
		Total:       decimal.NewFromInt(410),
	}}

	result, err := testService(placer).Submit(context.Background(), filledCart(t), nil, codForm(), types.Settings{})
	require.NoError(t, err)

	assert.True(t, result.Quote.Total.Equal(decimal.NewFromInt(410)), "confirmation shows what the server charged")
	assert.True(t, result.Quote.Discount.Equal(decimal.NewFromInt(40)))
}

func TestSubmitEmptyCart(t *testing.T) {
	placer := &stubPlacer{}
	_, err := testService(placer).Submit(context.Background(), cart.New(), nil, codForm(), types.Settings{})
	require.ErrorIs(t, err, pricing.ErrEmptyCart)
	assert.Empty(t, placer.gotKey, "no request may leave the gateway for an empty cart")
}

func TestSubmitPropagatesBackendError(t *testing.T) {
	placer := &stubPlacer{err: errors.New("boom")}
	_, err := testService(placer).Submit(context.Background(), filledCart(t), nil, codForm(), types.Settings{})
	require.Error(t, err)
}

func TestSubmitUPIRendersQR(t *testing.T) {
	placer := &stubPlacer{order: &types.Order{
		InvoiceID: "300126-003",
		Subtotal:  decimal.NewFromInt(400),
		Total:     decimal.NewFromInt(450),
	}}
	form := codForm()
	form.PaymentMethod = enums.PaymentMethodUPI
	payee := types.Settings{StoreName: "Sparkle Gift Shop", UPIID: "sparkle@upi"}

	result, err := testService(placer).Submit(context.Background(), filledCart(t), nil, form, payee)
	require.NoError(t, err)
	assert.NotEmpty(t, result.UPIQRPNG)
}

func TestUPIPayloadEncoding(t *testing.T) {
	order := &types.Order{InvoiceID: "300126-003", Total: decimal.NewFromFloat(449.50)}
	payload := UPIPayload(types.Settings{StoreName: "Sparkle Gift Shop", UPIID: "sparkle@upi"}, order)

	require.True(t, strings.HasPrefix(payload, "upi://pay?"))
	assert.Contains(t, payload, "pa=sparkle%40upi")
	assert.Contains(t, payload, "am=449.50")
	assert.Contains(t, payload, "cu=INR")
	assert.Contains(t, payload, "300126-003")
}

func TestUPIQRPNGRequiresPayee(t *testing.T) {
	_, err := UPIQRPNG(types.Settings{}, &types.Order{Total: decimal.NewFromInt(100)})
	require.Error(t, err)
}
