package dashboard

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparklegiftshop/gateway/pkg/enums"
	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/logger"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

type stubFlagSetter struct {
	err    error
	called int
	last   types.Order
}

func (s *stubFlagSetter) SetOrderFlag(ctx context.Context, invoiceID string, toggle enums.OrderToggle, value bool) (*types.Order, error) {
	s.called++
	if s.err != nil {
		return nil, s.err
	}
	s.last = types.Order{InvoiceID: invoiceID}
	switch toggle {
	case enums.OrderToggleDispatched:
		s.last.Dispatched = value
	case enums.OrderTogglePaid:
		s.last.IsPaid = value
	case enums.OrderToggleDelivered:
		s.last.Delivered = value
	}
	return &s.last, nil
}

func discardLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "dashboard-test", Output: io.Discard})
}

func TestToggleAppliesOptimisticallyThenKeepsServerCopy(t *testing.T) {
	b := seededBoard()
	setter := &stubFlagSetter{}
	toggler := NewToggler(b, setter, discardLogger())

	err := toggler.Toggle(context.Background(), "300126-001", enums.OrderToggleDispatched, true)
	require.NoError(t, err)
	require.Equal(t, 1, setter.called)

	got, ok := b.Get("300126-001")
	require.True(t, ok)
	assert.True(t, got.Dispatched)
}

func TestToggleRollsBackOnBackendFailure(t *testing.T) {
	b := seededBoard()
	setter := &stubFlagSetter{err: pkgerrors.New(pkgerrors.CodeBackend, "store service unavailable")}
	toggler := NewToggler(b, setter, discardLogger())

	err := toggler.Toggle(context.Background(), "300126-002", enums.OrderTogglePaid, false)
	require.Error(t, err)

	got, ok := b.Get("300126-002")
	require.True(t, ok)
	assert.True(t, got.IsPaid, "failed toggle must restore the previous value")
}

func TestToggleUnknownOrderSkipsBackendCall(t *testing.T) {
	b := seededBoard()
	setter := &stubFlagSetter{}
	toggler := NewToggler(b, setter, discardLogger())

	err := toggler.Toggle(context.Background(), "300126-404", enums.OrderTogglePaid, true)
	require.Error(t, err)
	assert.Zero(t, setter.called)
}
