package types

import "github.com/shopspring/decimal"

// CartItem is one cart line: a denormalized product snapshot plus the chosen
// quantity and optional variant. LineTotal is display math, recomputed from
// the snapshot whenever quantity or variant change.
type CartItem struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Product   Product         `json:"product"`
	Variant   *Variant        `json:"variant,omitempty"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// UnitPrice returns the price one unit of this line contributes.
func (c CartItem) UnitPrice() decimal.Decimal {
	return c.Product.EffectivePrice(c.Variant)
}
