package backend

import (
	"context"
	"net/http"

	"github.com/sparklegiftshop/gateway/pkg/types"
)

// GetSettings fetches the store-wide singleton.
func (c *Client) GetSettings(ctx context.Context) (*types.Settings, error) {
	var settings types.Settings
	err := c.do(ctx, request{
		resource: "settings",
		method:   http.MethodGet,
		path:     "/public/settings",
		public:   true,
	}, &settings)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// UpdateSettings replaces the singleton. Admin only; the backend enforces.
func (c *Client) UpdateSettings(ctx context.Context, settings types.Settings) (*types.Settings, error) {
	var updated types.Settings
	err := c.do(ctx, request{
		resource: "settings",
		method:   http.MethodPut,
		path:     "/settings",
		body:     settings,
	}, &updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
