package enums

import "fmt"

// DashboardTab enumerates the owner-dashboard panels; the last viewed tab is
// remembered in the local store.
type DashboardTab string

const (
	DashboardTabProducts DashboardTab = "products"
	DashboardTabOrders   DashboardTab = "orders"
	DashboardTabCoupons  DashboardTab = "coupons"
	DashboardTabReports  DashboardTab = "reports"
	DashboardTabSettings DashboardTab = "settings"
	DashboardTabTeam     DashboardTab = "team"
)

var validDashboardTabs = []DashboardTab{
	DashboardTabProducts,
	DashboardTabOrders,
	DashboardTabCoupons,
	DashboardTabReports,
	DashboardTabSettings,
	DashboardTabTeam,
}

// String implements fmt.Stringer.
func (d DashboardTab) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DashboardTab.
func (d DashboardTab) IsValid() bool {
	for _, candidate := range validDashboardTabs {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDashboardTab converts raw input into a DashboardTab.
func ParseDashboardTab(value string) (DashboardTab, error) {
	for _, candidate := range validDashboardTabs {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid dashboard tab %q", value)
}
