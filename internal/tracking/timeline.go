package tracking

import (
	"sort"

	"github.com/sparklegiftshop/gateway/pkg/types"
)

// PlacedMessage is the synthetic milestone every timeline starts from.
const PlacedMessage = "Order Placed"

// Timeline renders the order's progress newest-first. The backend only
// stores courier events, so the order's creation time is folded in as a
// synthetic "Order Placed" entry that always sits at the bottom.
func Timeline(order *types.Order) []types.TrackingEvent {
	if order == nil {
		return nil
	}

	events := make([]types.TrackingEvent, 0, len(order.TrackingEvents)+1)
	events = append(events, order.TrackingEvents...)

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})

	events = append(events, types.TrackingEvent{
		Message:   PlacedMessage,
		Timestamp: order.CreatedAt,
	})
	return events
}
