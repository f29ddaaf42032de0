package dashboard

import (
	"context"

	"github.com/sparklegiftshop/gateway/pkg/enums"
	"github.com/sparklegiftshop/gateway/pkg/logger"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

// OrderFlagSetter is the slice of the backend client the toggler needs.
type OrderFlagSetter interface {
	SetOrderFlag(ctx context.Context, invoiceID string, toggle enums.OrderToggle, value bool) (*types.Order, error)
}

// Toggler applies status flag changes optimistically. The board is updated
// before the backend call so the panel responds instantly; a failed call
// restores the previous value.
type Toggler struct {
	board   *Board
	backend OrderFlagSetter
	logg    *logger.Logger
}

func NewToggler(board *Board, backend OrderFlagSetter, logg *logger.Logger) *Toggler {
	return &Toggler{board: board, backend: backend, logg: logg}
}

// Toggle flips one flag on the board, persists it, and rolls the board back
// if the backend refuses.
func (t *Toggler) Toggle(ctx context.Context, invoiceID string, toggle enums.OrderToggle, value bool) error {
	prev, err := t.board.setFlag(invoiceID, toggle, value)
	if err != nil {
		return err
	}

	updated, err := t.backend.SetOrderFlag(ctx, invoiceID, toggle, value)
	if err != nil {
		if _, rbErr := t.board.setFlag(invoiceID, toggle, prev); rbErr != nil {
			t.logg.Error(t.logg.WithInvoiceID(ctx, invoiceID), "rollback after failed toggle", rbErr)
		}
		return err
	}

	t.board.Put(*updated)
	return nil
}
