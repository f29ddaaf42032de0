package tracking

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/logger"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

const (
	msgTypeSubscribe      = "subscribe"
	msgTypeTrackingUpdate = "tracking_update"
)

type pushMessage struct {
	Type      string       `json:"type"`
	InvoiceID string       `json:"invoice_id"`
	Order     *types.Order `json:"order,omitempty"`
}

// Watcher follows live tracking pushes for a single invoice. Each push
// carries the full updated order, and the newest push always replaces
// whatever the watcher held before. Pushes for other invoices are dropped.
type Watcher struct {
	logg      *logger.Logger
	invoiceID string

	mu      sync.RWMutex
	current *types.Order

	updates chan *types.Order
}

// NewWatcher seeds the watcher with the order the shopper is viewing.
func NewWatcher(initial *types.Order, logg *logger.Logger) *Watcher {
	w := &Watcher{
		logg:    logg,
		updates: make(chan *types.Order, 1),
	}
	if initial != nil {
		w.invoiceID = initial.InvoiceID
		w.current = initial
	}
	return w
}

// Current returns the most recently applied order.
func (w *Watcher) Current() *types.Order {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Updates yields the latest applied order. The channel holds one slot and
// newer pushes overwrite undelivered ones, so a slow reader only ever sees
// the freshest state.
func (w *Watcher) Updates() <-chan *types.Order {
	return w.updates
}

// Apply replaces the held order when the push matches the watched invoice.
// It reports whether the push was taken.
func (w *Watcher) Apply(order *types.Order) bool {
	if order == nil {
		return false
	}

	w.mu.Lock()
	if w.invoiceID == "" {
		w.invoiceID = order.InvoiceID
	}
	if order.InvoiceID != w.invoiceID {
		w.mu.Unlock()
		return false
	}
	w.current = order
	w.mu.Unlock()

	w.publish(order)
	return true
}

func (w *Watcher) publish(order *types.Order) {
	for {
		select {
		case w.updates <- order:
			return
		default:
		}
		select {
		case <-w.updates:
		default:
		}
	}
}

// Run dials the push channel, subscribes to the watched invoice, and feeds
// incoming updates through Apply until the context is cancelled or the
// connection drops.
func (w *Watcher) Run(ctx context.Context, pushURL string) error {
	w.mu.RLock()
	invoiceID := w.invoiceID
	w.mu.RUnlock()
	if invoiceID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "no invoice to watch")
	}

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, pushURL, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeBackend, err, "dial tracking channel")
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	sub := pushMessage{Type: msgTypeSubscribe, InvoiceID: invoiceID}
	if err := conn.WriteJSON(sub); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeBackend, err, "subscribe to tracking channel")
	}

	// Unblock the blocked ReadMessage when the caller gives up.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return pkgerrors.Wrap(pkgerrors.CodeBackend, err, "read tracking push")
		}

		var msg pushMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			w.logg.Warn(w.logg.WithInvoiceID(ctx, invoiceID), "dropping malformed tracking push")
			continue
		}
		if msg.Type != msgTypeTrackingUpdate || msg.Order == nil {
			continue
		}
		if w.Apply(msg.Order) {
			w.logg.Info(w.logg.WithInvoiceID(ctx, invoiceID), "tracking update applied")
		}
	}
}
