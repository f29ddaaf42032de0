// Package session manages the locally stored backend session. The gateway
// never verifies token signatures (it has no signing secret and the backend
// rejects bad tokens anyway), but it does read claims to route views and to
// drop tokens that have already expired.
package session

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sparklegiftshop/gateway/internal/localstore"
	"github.com/sparklegiftshop/gateway/pkg/enums"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

// Claims is the subset of the backend token the gateway reads for display
// routing.
type Claims struct {
	Name        string            `json:"name,omitempty"`
	Email       string            `json:"email,omitempty"`
	AccessLevel enums.AccessLevel `json:"access_level,omitempty"`
	jwt.RegisteredClaims
}

type Manager struct {
	store *localstore.Store
	now   func() time.Time
}

func NewManager(store *localstore.Store) *Manager {
	return &Manager{store: store, now: time.Now}
}

// SignIn persists the backend-issued token and profile.
func (m *Manager) SignIn(token string, profile types.Profile) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("session: empty token")
	}
	if err := m.store.Set(localstore.KeySessionToken, token); err != nil {
		return err
	}
	return m.store.Set(localstore.KeyProfile, profile)
}

// SignOut invalidates the locally stored session.
func (m *Manager) SignOut() error {
	return m.store.ClearSession()
}

// Token returns the stored session token, or "" when absent or expired.
// Implements the backend client's token source.
func (m *Manager) Token() string {
	token, ok := m.store.GetString(localstore.KeySessionToken)
	if !ok {
		return ""
	}
	claims, err := parseUnverified(token)
	if err != nil {
		return ""
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(m.now()) {
		return ""
	}
	return token
}

// Claims parses the stored token without signature verification.
func (m *Manager) Claims() (*Claims, error) {
	token, ok := m.store.GetString(localstore.KeySessionToken)
	if !ok {
		return nil, fmt.Errorf("session: no stored token")
	}
	return parseUnverified(token)
}

// Profile returns the cached signed-in identity.
func (m *Manager) Profile() (types.Profile, bool) {
	var profile types.Profile
	found, err := m.store.Get(localstore.KeyProfile, &profile)
	if err != nil || !found {
		return types.Profile{}, false
	}
	return profile, true
}

// HasSession reports whether an unexpired token is available.
func (m *Manager) HasSession() bool {
	return m.Token() != ""
}

// IsAdmin reports whether the stored claims carry a dashboard access level.
func (m *Manager) IsAdmin() bool {
	claims, err := m.Claims()
	if err != nil {
		return false
	}
	return claims.AccessLevel.IsValid()
}

// IsSuperAdmin reports whether the stored claims carry the top access level.
func (m *Manager) IsSuperAdmin() bool {
	claims, err := m.Claims()
	if err != nil {
		return false
	}
	return claims.AccessLevel == enums.AccessLevelSuperAdmin
}

// SaveTrackingPhone remembers the phone a guest verified an order with.
func (m *Manager) SaveTrackingPhone(phone string) error {
	return m.store.Set(localstore.KeyTrackingPhone, phone)
}

// TrackingPhone returns the saved guest tracking phone, if any.
func (m *Manager) TrackingPhone() (string, bool) {
	return m.store.GetString(localstore.KeyTrackingPhone)
}

// SetLastTab remembers the admin dashboard tab to restore on next visit.
func (m *Manager) SetLastTab(tab enums.DashboardTab) error {
	return m.store.Set(localstore.KeyLastTab, tab.String())
}

// LastTab returns the remembered dashboard tab, defaulting to products.
func (m *Manager) LastTab() enums.DashboardTab {
	raw, ok := m.store.GetString(localstore.KeyLastTab)
	if !ok {
		return enums.DashboardTabProducts
	}
	tab, err := enums.ParseDashboardTab(raw)
	if err != nil {
		return enums.DashboardTabProducts
	}
	return tab
}

func parseUnverified(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("session: parse token: %w", err)
	}
	return claims, nil
}
