package enums

import "fmt"

// OrderToggle names the boolean order flags the dashboard flips optimistically.
type OrderToggle string

const (
	OrderToggleDispatched OrderToggle = "dispatched"
	OrderTogglePaid       OrderToggle = "paid"
	OrderToggleDelivered  OrderToggle = "delivered"
)

var validOrderToggles = []OrderToggle{
	OrderToggleDispatched,
	OrderTogglePaid,
	OrderToggleDelivered,
}

// String implements fmt.Stringer.
func (o OrderToggle) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OrderToggle.
func (o OrderToggle) IsValid() bool {
	for _, candidate := range validOrderToggles {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderToggle converts raw input into an OrderToggle.
func ParseOrderToggle(value string) (OrderToggle, error) {
	for _, candidate := range validOrderToggles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order toggle %q", value)
}
