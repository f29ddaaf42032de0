package types

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sparklegiftshop/gateway/pkg/enums"
)

// TrackingEvent is one append-only progress entry on an order.
type TrackingEvent struct {
	Message   string    `json:"message"`
	Location  string    `json:"location,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// OrderItem is a purchased line frozen at checkout time.
type OrderItem struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	ImageURL  string          `json:"image_url,omitempty"`
	Variant   *Variant        `json:"variant,omitempty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Order is the backend's order record. InvoiceID is the human-readable
// customer-facing identifier, distinct from the internal ID. All totals here
// are server-computed and authoritative; the gateway's own quote is advisory.
type Order struct {
	ID                string              `json:"id"`
	InvoiceID         string              `json:"invoice_id"`
	CustomerName      string              `json:"customer_name"`
	Phone             string              `json:"phone"`
	Address           string              `json:"address"`
	Items             []OrderItem         `json:"items"`
	Subtotal          decimal.Decimal     `json:"subtotal"`
	Discount          decimal.Decimal     `json:"discount"`
	DeliveryFee       decimal.Decimal     `json:"delivery_fee"`
	Total             decimal.Decimal     `json:"total"`
	PaymentMethod     enums.PaymentMethod `json:"payment_method"`
	IsPaid            bool                `json:"is_paid"`
	Dispatched        bool                `json:"dispatched"`
	Delivered         bool                `json:"delivered"`
	PaymentScreenshot string              `json:"payment_screenshot,omitempty"`
	CourierName       string              `json:"courier_name,omitempty"`
	TrackingID        string              `json:"tracking_id,omitempty"`
	TrackingEvents    []TrackingEvent     `json:"tracking_events,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
}
