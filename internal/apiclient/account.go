package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"todo/internal/auth"
	"todo/internal/service"
)

// Register creates an account. It is sent without a credential if none is stored.
func (c *Client) Register(ctx context.Context, req service.RegisterRequest) (service.User, error) {
	var user service.User
	err := c.call(ctx, "auth-register", http.MethodPost, "/auth/register", req, &user)
	return user, err
}

// Login exchanges username and password for a bearer token.
// The token is not stored; the caller decides whether to persist it.
func (c *Client) Login(ctx context.Context, username, password string) (*oauth2.Token, error) {
	var tok oauth2.Token
	err := c.call(ctx, "auth-login", http.MethodPost, "/auth/login",
		service.LoginRequest{Username: username, Password: password}, &tok)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(tok.AccessToken) == "" {
		return nil, fmt.Errorf("login response missing access_token")
	}
	return &tok, nil
}

// CurrentUser returns the account behind the stored credential.
func (c *Client) CurrentUser(ctx context.Context) (service.User, error) {
	var user service.User
	err := c.call(ctx, "auth-get-current-user", http.MethodGet, "/auth/me", nil, &user)
	return user, err
}

// Identity is CurrentUser for display purposes: any failure yields nil.
func (c *Client) Identity(ctx context.Context) *service.User {
	user, err := c.CurrentUser(ctx)
	if err != nil {
		return nil
	}
	return &user
}

// ChangePassword changes the account password. It fails with a
// *ValidationError, without sending anything, when the change is rejected
// by service.ValidatePasswordChange.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	if err := service.ValidatePasswordChange(currentPassword, newPassword); err != nil {
		return err
	}
	var resp struct {
		Message string `json:"message"`
	}
	return c.call(ctx, "auth-change-password", http.MethodPut, "/auth/change-password",
		service.PasswordChangeRequest{CurrentPassword: currentPassword, NewPassword: newPassword}, &resp)
}

// Logout removes the stored credential and cached user. No request is made.
func (c *Client) Logout(ctx context.Context) error {
	return c.monitor.Measure("auth-logout", func() error {
		return auth.Clear(ctx, c.store)
	})
}
