package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variant is one selectable size/colour combination of a product. A variant
// price overrides the product's base price when selected.
type Variant struct {
	Size          string           `json:"size,omitempty"`
	Color         string           `json:"color,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	ImageURL      string           `json:"image_url,omitempty"`
}

// Product is the catalog entry as served by the remote backend. The gateway
// treats it as read-mostly; mutations go through the admin product routes.
type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"original_price,omitempty"`
	Category      string           `json:"category,omitempty"`
	ImageURL      string           `json:"image_url,omitempty"`
	Description   string           `json:"description,omitempty"`
	Variants      []Variant        `json:"variants,omitempty"`
	CreatedAt     time.Time        `json:"created_at,omitempty"`
}

// EffectivePrice returns the variant price when one is selected, else the base.
func (p Product) EffectivePrice(variant *Variant) decimal.Decimal {
	if variant != nil {
		return variant.Price
	}
	return p.Price
}
