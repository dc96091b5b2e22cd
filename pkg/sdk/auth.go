package moviedex

import (
	"context"
	"net/http"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, email, password string) (User, error) {
	var payload struct {
		User User `json:"user"`
	}
	err := c.doEnveloped(ctx, http.MethodPost, "/auth/register", nil, credentials{email, password}, &payload)
	if err != nil {
		return User{}, err
	}
	return payload.User, nil
}

// Login exchanges credentials for a bearer token. Attach it with WithToken.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var payload struct {
		Token string `json:"token"`
	}
	err := c.doEnveloped(ctx, http.MethodPost, "/auth/login", nil, credentials{email, password}, &payload)
	if err != nil {
		return "", err
	}
	return payload.Token, nil
}

// Profile returns the account behind the client's token.
func (c *Client) Profile(ctx context.Context) (User, error) {
	var payload struct {
		User User `json:"user"`
	}
	if err := c.doEnveloped(ctx, http.MethodGet, "/auth/profile", nil, nil, &payload); err != nil {
		return User{}, err
	}
	return payload.User, nil
}
