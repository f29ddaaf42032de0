package dashboard

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/sparklegiftshop/gateway/pkg/types"
)

// DailyRevenue is one bar on the revenue chart.
type DailyRevenue struct {
	Day     string          `json:"day"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// ProductSales is one row of the top-products table.
type ProductSales struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// RevenueByDay buckets order totals by calendar day, oldest first.
func RevenueByDay(orders []types.Order) []DailyRevenue {
	byDay := map[string]*DailyRevenue{}
	for _, order := range orders {
		day := order.CreatedAt.Format("2006-01-02")
		bucket, ok := byDay[day]
		if !ok {
			bucket = &DailyRevenue{Day: day, Revenue: decimal.Zero}
			byDay[day] = bucket
		}
		bucket.Orders++
		bucket.Revenue = bucket.Revenue.Add(order.Total)
	}

	out := make([]DailyRevenue, 0, len(byDay))
	for _, bucket := range byDay {
		out = append(out, *bucket)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day < out[j].Day })
	return out
}

// TopProducts ranks sold items by quantity, ties broken by revenue. A zero
// or negative limit returns the full ranking.
func TopProducts(orders []types.Order, limit int) []ProductSales {
	byProduct := map[string]*ProductSales{}
	for _, order := range orders {
		for _, item := range order.Items {
			row, ok := byProduct[item.ProductID]
			if !ok {
				row = &ProductSales{ProductID: item.ProductID, Name: item.Name, Revenue: decimal.Zero}
				byProduct[item.ProductID] = row
			}
			row.Quantity += item.Quantity
			row.Revenue = row.Revenue.Add(item.LineTotal)
		}
	}

	out := make([]ProductSales, 0, len(byProduct))
	for _, row := range byProduct {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Revenue.GreaterThan(out[j].Revenue)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
