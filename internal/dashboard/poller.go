package dashboard

import (
	"context"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/sparklegiftshop/gateway/pkg/logger"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

// OrderLister is the slice of the backend client the poller needs.
type OrderLister interface {
	ListOrders(ctx context.Context) ([]types.Order, error)
}

// Poller refreshes the board while the orders panel is mounted. Ticks are
// not coalesced: a slow fetch does not stop the next tick from firing, and
// whichever response resolves last overwrites the board.
type Poller struct {
	board    *Board
	backend  OrderLister
	interval time.Duration
	logg     *logger.Logger
}

func NewPoller(board *Board, backend OrderLister, interval time.Duration, logg *logger.Logger) *Poller {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	return &Poller{board: board, backend: backend, interval: interval, logg: logg}
}

// maxRetainedPollErrors bounds what Run reports. Every failure is logged as
// it happens; only the freshest few survive to the returned error, so a
// flaky backend cannot grow the accumulation for the process lifetime.
const maxRetainedPollErrors = 8

// Run fetches immediately, then on every tick until the context is
// cancelled. It returns the most recent fetch errors so the caller can
// report a flaky backend.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	var (
		mu     sync.Mutex
		recent []error
		wg     sync.WaitGroup
	)
	record := func(err error) {
		if err == nil {
			return
		}
		mu.Lock()
		if len(recent) == maxRetainedPollErrors {
			recent = recent[1:]
		}
		recent = append(recent, err)
		mu.Unlock()
	}

	record(p.fetch(ctx))

	for {
		select {
		case <-ctx.Done():
			wg.Wait()
			return multierr.Combine(recent...)
		case <-ticker.C:
			wg.Add(1)
			go func() {
				defer wg.Done()
				record(p.fetch(ctx))
			}()
		}
	}
}

func (p *Poller) fetch(ctx context.Context) error {
	orders, err := p.backend.ListOrders(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logg.Warn(ctx, "order poll failed")
		}
		return err
	}
	p.board.Replace(orders)
	return nil
}
