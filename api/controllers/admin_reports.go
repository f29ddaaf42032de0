package controllers

import (
	"net/http"

	"github.com/sparklegiftshop/gateway/api/responses"
	"github.com/sparklegiftshop/gateway/api/validators"
	"github.com/sparklegiftshop/gateway/internal/dashboard"
	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/logger"
)

type reportsResponse struct {
	RevenueByDay []dashboard.DailyRevenue `json:"revenue_by_day"`
	TopProducts  []dashboard.ProductSales `json:"top_products"`
}

// AdminReports aggregates the board's orders into the chart view models.
func AdminReports(board *dashboard.Board, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if board == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "top", 5, 1, 50)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders := board.Orders()
		responses.WriteSuccess(w, reportsResponse{
			RevenueByDay: dashboard.RevenueByDay(orders),
			TopProducts:  dashboard.TopProducts(orders, limit),
		})
	}
}
