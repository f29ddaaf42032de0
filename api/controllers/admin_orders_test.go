package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sparklegiftshop/gateway/internal/dashboard"
	"github.com/sparklegiftshop/gateway/pkg/enums"
	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

type stubFlagBackend struct {
	err error
}

func (s stubFlagBackend) SetOrderFlag(ctx context.Context, invoiceID string, toggle enums.OrderToggle, value bool) (*types.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	order := &types.Order{InvoiceID: invoiceID}
	switch toggle {
	case enums.OrderToggleDispatched:
		order.Dispatched = value
	case enums.OrderTogglePaid:
		order.IsPaid = value
	case enums.OrderToggleDelivered:
		order.Delivered = value
	}
	return order, nil
}

func toggleRequestFor(t *testing.T, handler http.HandlerFunc, invoiceID string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPatch, "/api/admin/v1/orders/"+invoiceID+"/status", bytes.NewReader(raw))
	req = withURLParam(req, "invoiceId", invoiceID)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func TestAdminToggleOrderFlag(t *testing.T) {
	board := dashboard.NewBoard()
	board.Replace([]types.Order{{InvoiceID: "300126-001"}})
	toggler := dashboard.NewToggler(board, stubFlagBackend{}, testLogg())

	resp := toggleRequestFor(t, AdminToggleOrderFlag(toggler, board, testLogg()), "300126-001",
		map[string]any{"flag": "dispatched", "value": true})

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}

	order, ok := board.Get("300126-001")
	if !ok || !order.Dispatched {
		t.Fatalf("board should hold the confirmed flag, got %+v", order)
	}
}

func TestAdminToggleRollsBackOnBackendFailure(t *testing.T) {
	board := dashboard.NewBoard()
	board.Replace([]types.Order{{InvoiceID: "300126-001", IsPaid: true}})
	toggler := dashboard.NewToggler(board, stubFlagBackend{err: pkgerrors.New(pkgerrors.CodeBackend, "store service unavailable")}, testLogg())

	resp := toggleRequestFor(t, AdminToggleOrderFlag(toggler, board, testLogg()), "300126-001",
		map[string]any{"flag": "paid", "value": false})

	if resp.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 got %d", resp.Code)
	}

	order, _ := board.Get("300126-001")
	if !order.IsPaid {
		t.Fatalf("failed toggle must roll the board back")
	}
}

func TestAdminToggleUnknownFlag(t *testing.T) {
	board := dashboard.NewBoard()
	board.Replace([]types.Order{{InvoiceID: "300126-001"}})
	toggler := dashboard.NewToggler(board, stubFlagBackend{}, testLogg())

	resp := toggleRequestFor(t, AdminToggleOrderFlag(toggler, board, testLogg()), "300126-001",
		map[string]any{"flag": "gift_wrapped", "value": true})

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestAdminListOrdersServesBoard(t *testing.T) {
	board := dashboard.NewBoard()
	board.Replace([]types.Order{{InvoiceID: "300126-001"}, {InvoiceID: "300126-002"}})

	resp := httptest.NewRecorder()
	AdminListOrders(board, testLogg()).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders", nil))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	var envelope struct {
		Data []types.Order `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode orders: %v", err)
	}
	if len(envelope.Data) != 2 {
		t.Fatalf("expected 2 orders got %d", len(envelope.Data))
	}
}
