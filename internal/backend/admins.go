package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

// ListAdmins returns the dashboard team roster.
func (c *Client) ListAdmins(ctx context.Context) ([]types.AdminAccount, error) {
	var admins []types.AdminAccount
	err := c.do(ctx, request{
		resource: "admins",
		method:   http.MethodGet,
		path:     "/admins",
	}, &admins)
	if err != nil {
		return nil, err
	}
	return admins, nil
}

// CreateAdmin adds a team member. The password travels only on this request.
func (c *Client) CreateAdmin(ctx context.Context, account types.AdminAccount) (*types.AdminAccount, error) {
	if strings.TrimSpace(account.Email) == "" || account.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	var created types.AdminAccount
	err := c.do(ctx, request{
		resource: "admins",
		method:   http.MethodPost,
		path:     "/admins",
		body:     account,
	}, &created)
	if err != nil {
		return nil, err
	}
	created.Password = ""
	return &created, nil
}

func (c *Client) DeleteAdmin(ctx context.Context, adminID string) error {
	if strings.TrimSpace(adminID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "admin id is required")
	}

	return c.do(ctx, request{
		resource: "admins",
		method:   http.MethodDelete,
		path:     "/admins/" + url.PathEscape(adminID),
	}, nil)
}
