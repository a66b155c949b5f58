package api

import (
	"context"
	"net/url"
)

// Login exchanges credentials for an access token and identity.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.post(ctx, "/login", "", LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account. Charity registrations come back with Pending
// set and no access token; the application then awaits admin review.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.post(ctx, "/register", "", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyToken asks the backend whether the token is still accepted. Callers
// must treat any returned error as an invalid token (fail-closed).
func (c *Client) VerifyToken(ctx context.Context, token string) (*VerifyTokenResponse, error) {
	var out VerifyTokenResponse
	if err := c.get(ctx, "/verify-token", token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestPasswordReset asks for a reset link. The backend replies with the
// same acknowledgement whether or not the address exists.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (*MessageResponse, error) {
	var out MessageResponse
	body := struct {
		Email string `json:"email"`
	}{Email: email}
	if err := c.post(ctx, "/password-reset/request", "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConfirmPasswordReset sets a new password using an emailed reset token.
func (c *Client) ConfirmPasswordReset(ctx context.Context, resetToken, newPassword string) (*MessageResponse, error) {
	var out MessageResponse
	body := struct {
		Password string `json:"password"`
	}{Password: newPassword}
	if err := c.post(ctx, "/password-reset/confirm/"+url.PathEscape(resetToken), "", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
