package backend

import (
	"context"
	"net/http"
	"strings"

	pkgerrors "github.com/sparklegiftshop/gateway/pkg/errors"
	"github.com/sparklegiftshop/gateway/pkg/types"
)

// Credentials is the login payload for both customer and admin roles.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupRequest registers a new customer account.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// AuthResponse carries the backend-issued token and profile.
type AuthResponse struct {
	Token   string        `json:"token"`
	Profile types.Profile `json:"profile"`
}

func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	if strings.TrimSpace(creds.Email) == "" || creds.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	var auth AuthResponse
	err := c.do(ctx, request{
		resource: "auth",
		method:   http.MethodPost,
		path:     "/auth/login",
		body:     creds,
		public:   true,
	}, &auth)
	if err != nil {
		return nil, err
	}
	return &auth, nil
}

func (c *Client) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	var auth AuthResponse
	err := c.do(ctx, request{
		resource: "auth",
		method:   http.MethodPost,
		path:     "/auth/signup",
		body:     req,
		public:   true,
	}, &auth)
	if err != nil {
		return nil, err
	}
	return &auth, nil
}

// ForgotPassword asks the backend to mail a reset link.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	return c.do(ctx, request{
		resource: "auth",
		method:   http.MethodPost,
		path:     "/auth/forgot-password",
		body:     map[string]string{"email": strings.TrimSpace(email)},
		public:   true,
	}, nil)
}

// ResetPassword completes a reset using the emailed token.
func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	if strings.TrimSpace(resetToken) == "" || newPassword == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "reset token and new password are required")
	}

	return c.do(ctx, request{
		resource: "auth",
		method:   http.MethodPost,
		path:     "/auth/reset-password",
		body: map[string]string{
			"token":    strings.TrimSpace(resetToken),
			"password": newPassword,
		},
		public: true,
	}, nil)
}
