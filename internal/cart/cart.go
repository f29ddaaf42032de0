// Package cart holds the shopper's local cart state. The cart never touches
// the backend: it is display state that becomes an order only at checkout.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

// Cart is keyed by product id: setting a quantity replaces the line, setting
// it to zero deletes the line. Safe for concurrent handlers.
type Cart struct {
	mu    sync.Mutex
	lines map[string]*types.CartItem
	order []string
}

func New() *Cart {
	return &Cart{lines: make(map[string]*types.CartItem)}
}

// Add puts a product in the cart with the given quantity and optional variant
// selection, replacing any existing line for the same product.
func (c *Cart) Add(product types.Product, variant *types.Variant, quantity int) error {
	if product.ID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	line := &types.CartItem{
		ProductID: product.ID,
		Quantity:  quantity,
		Product:   product,
		Variant:   variant,
	}
	line.LineTotal = lineTotal(line)

	if _, exists := c.lines[product.ID]; !exists {
		c.order = append(c.order, product.ID)
	}
	c.lines[product.ID] = line
	return nil
}

// SetQuantity replaces the quantity of an existing line. Zero removes it.
func (c *Cart) SetQuantity(productID string, quantity int) error {
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	line, ok := c.lines[productID]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product is not in the cart")
	}
	if quantity == 0 {
		c.removeLocked(productID)
		return nil
	}

	line.Quantity = quantity
	line.LineTotal = lineTotal(line)
	return nil
}

// Remove deletes a line outright. Removing an absent line is a no-op.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(productID)
}

// Clear empties the cart, typically after a successful checkout.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = make(map[string]*types.CartItem)
	c.order = nil
}

// Items returns the lines in insertion order as value copies.
func (c *Cart) Items() []types.CartItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := make([]types.CartItem, 0, len(c.order))
	for _, id := range c.order {
		if line, ok := c.lines[id]; ok {
			items = append(items, *line)
		}
	}
	return items
}

// Len reports the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// CanCheckout reports whether checkout is enabled: at least one line.
func (c *Cart) CanCheckout() bool {
	return c.Len() > 0
}

func (c *Cart) removeLocked(productID string) {
	if _, ok := c.lines[productID]; !ok {
		return
	}
	delete(c.lines, productID)
	for i, id := range c.order {
		if id == productID {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func lineTotal(line *types.CartItem) decimal.Decimal {
	return line.UnitPrice().Mul(decimal.NewFromInt(int64(line.Quantity)))
}
