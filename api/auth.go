package api

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/jrsteele09/go-match-tracker/internal/errors"
	"github.com/jrsteele09/go-match-tracker/users"
)

// Login authenticates with an identifier (username or email) and password. It does not store the
// returned tokens; that is the session manager's job.
func (c *Client) Login(ctx context.Context, identifier, password string) (*AuthResponse, error) {
	if err := users.ValidateIdentifier(identifier); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "[Client Login] %s", err)
	}
	if password == "" {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "[Client Login] password is required")
	}

	var resp AuthResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/login",
		body:   LoginRequest{Username: strings.TrimSpace(identifier), Password: password},
		public: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and returns the same shape as Login.
func (c *Client) Register(ctx context.Context, r RegisterRequest) (*AuthResponse, error) {
	if err := users.ValidateRegistration(r.Username, r.Email, r.Password); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidInput, "[Client Register] %s", err)
	}

	var resp AuthResponse
	err := c.do(ctx, request{
		method: http.MethodPost,
		path:   "/auth/register",
		body:   r,
		public: true,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// CurrentUser fetches the full profile of the signed-in user.
func (c *Client) CurrentUser(ctx context.Context) (*users.Profile, error) {
	var p users.Profile
	if err := c.do(ctx, request{method: http.MethodGet, path: "/auth/me"}, &p); err != nil {
		return nil, err
	}
	if p.ID == "" {
		return nil, apperrors.Wrapf(apperrors.ErrNoUserInResponse, "[Client CurrentUser]")
	}
	return &p, nil
}

// DeleteAccount permanently deletes the signed-in user's account. The server checks confirmation
// against the text it asked the user to type.
func (c *Client) DeleteAccount(ctx context.Context, confirmation string) error {
	if strings.TrimSpace(confirmation) == "" {
		return apperrors.Wrapf(apperrors.ErrInvalidInput, "[Client DeleteAccount] confirmation text is required")
	}
	return c.do(ctx, request{
		method: http.MethodDelete,
		path:   "/auth/me",
		body:   DeleteAccountRequest{ConfirmationText: confirmation},
	}, nil)
}
