package dashboard

import (
	"sync"

	"github.com/sparklegiftshop/gateway/pkg/enums"
	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

// Board is the dashboard's local snapshot of orders. The poller replaces it
// wholesale; toggle commands mutate single flags optimistically and the
// controllers read from it between refreshes.
type Board struct {
	mu     sync.RWMutex
	orders []types.Order
	index  map[string]int
}

func NewBoard() *Board {
	return &Board{index: map[string]int{}}
}

// Replace swaps in a fresh snapshot from the backend.
func (b *Board) Replace(orders []types.Order) {
	index := make(map[string]int, len(orders))
	for i, order := range orders {
		index[order.InvoiceID] = i
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders = orders
	b.index = index
}

// Orders returns a copy of the snapshot in backend order.
func (b *Board) Orders() []types.Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]types.Order, len(b.orders))
	copy(out, b.orders)
	return out
}

// Get returns the order for an invoice id, if present.
func (b *Board) Get(invoiceID string) (types.Order, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i, ok := b.index[invoiceID]
	if !ok {
		return types.Order{}, false
	}
	return b.orders[i], true
}

// Put overwrites a single order with the backend's copy.
func (b *Board) Put(order types.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i, ok := b.index[order.InvoiceID]; ok {
		b.orders[i] = order
		return
	}
	b.index[order.InvoiceID] = len(b.orders)
	b.orders = append(b.orders, order)
}

// setFlag flips one status flag in place and returns the previous value so
// a failed command can be rolled back.
func (b *Board) setFlag(invoiceID string, toggle enums.OrderToggle, value bool) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i, ok := b.index[invoiceID]
	if !ok {
		return false, pkgerrors.New(pkgerrors.CodeNotFound, "order not on the board")
	}

	order := &b.orders[i]
	var prev bool
	switch toggle {
	case enums.OrderToggleDispatched:
		prev, order.Dispatched = order.Dispatched, value
	case enums.OrderTogglePaid:
		prev, order.IsPaid = order.IsPaid, value
	case enums.OrderToggleDelivered:
		prev, order.Delivered = order.Delivered, value
	default:
		return false, pkgerrors.New(pkgerrors.CodeValidation, "unknown order toggle")
	}
	return prev, nil
}
