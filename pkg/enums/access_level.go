package enums

import "fmt"

// AccessLevel grades owner-dashboard accounts.
type AccessLevel string

const (
	AccessLevelAdmin      AccessLevel = "admin"
	AccessLevelSuperAdmin AccessLevel = "super_admin"
)

var validAccessLevels = []AccessLevel{
	AccessLevelAdmin,
	AccessLevelSuperAdmin,
}

// String implements fmt.Stringer.
func (a AccessLevel) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AccessLevel.
func (a AccessLevel) IsValid() bool {
	for _, candidate := range validAccessLevels {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAccessLevel converts raw input into an AccessLevel.
func ParseAccessLevel(value string) (AccessLevel, error) {
	for _, candidate := range validAccessLevels {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid access level %q", value)
}
