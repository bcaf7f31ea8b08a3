package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// TokenPair is the credential pair issued at login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a token pair.
func (c *Client) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	var tokens TokenPair
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", credentials{Email: email, Password: password}, &tokens, "Login failed")
	if err != nil {
		return nil, err
	}
	return &tokens, nil
}

// Signup registers a new account. The backend sends the confirmation email.
func (c *Client) Signup(ctx context.Context, email, password string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/signup", credentials{Email: email, Password: password}, nil, "Signup failed")
}

// ResendConfirmation asks the backend to re-send the confirmation email.
// Callers branch on the returned *APIError status: 400 already confirmed,
// 403 not eligible, 404 unknown account.
func (c *Client) ResendConfirmation(ctx context.Context, email string) error {
	payload := struct {
		Email string `json:"email"`
	}{Email: email}
	return c.do(ctx, http.MethodPost, "/api/v1/auth/resend-confirmation", payload, nil, "Could not resend confirmation")
}

// CompleteInvite sets the password on an invited account and logs it in.
func (c *Client) CompleteInvite(ctx context.Context, token, password string) (*TokenPair, error) {
	payload := struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}{Token: token, Password: password}

	var tokens TokenPair
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/complete-invite", payload, &tokens, "Could not set password"); err != nil {
		return nil, err
	}
	return &tokens, nil
}

// ConfirmError reports why an email confirmation was rejected.
type ConfirmError struct {
	Reason string // expired | already-confirmed | invalid
}

func (e *ConfirmError) Error() string {
	return "email confirmation failed: " + e.Reason
}

// ConfirmEmail confirms the account behind a confirmation token. The backend
// answers browser flows with a redirect whose target carries the failure
// reason, so both redirect and JSON error shapes are handled.
func (c *Client) ConfirmEmail(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/v1/auth/confirm/"+url.PathEscape(token), nil)
	if err != nil {
		return fmt.Errorf("build confirm request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("confirm email: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return nil
	case resp.StatusCode >= 300 && resp.StatusCode <= 399:
		if reason := reasonFromLocation(resp.Header.Get("Location")); reason != "" {
			return &ConfirmError{Reason: reason}
		}
		return nil
	default:
		return &ConfirmError{Reason: "invalid"}
	}
}

func reasonFromLocation(location string) string {
	target, err := url.Parse(location)
	if err != nil {
		return "invalid"
	}
	// A redirect to the confirmed page is a success the status code hid.
	if strings.Contains(target.Path, "email-confirmed") {
		return ""
	}
	switch reason := target.Query().Get("reason"); reason {
	case "expired", "already-confirmed":
		return reason
	default:
		return "invalid"
	}
}
