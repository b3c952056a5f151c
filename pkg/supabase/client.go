// Package supabase is a minimal Supabase Auth (GoTrue) client used as the
// identity provider for admin logins. It speaks raw HTTP; only the password
// grant and signup endpoints are needed.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrNotConfigured is returned when the project URL or anon key is missing.
var ErrNotConfigured = errors.New("supabase: not configured")

// ErrInvalidCredentials is returned when the password grant is refused.
var ErrInvalidCredentials = errors.New("supabase: invalid credentials")

// APIError is a non-2xx answer other than a credential refusal.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("supabase: status %d: %s", e.StatusCode, e.Message)
}

// User is the subset of the GoTrue user object the backend relies on.
type User struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

// MetadataString returns a string entry of user_metadata, or nil.
func (u *User) MetadataString(key string) *string {
	if v, ok := u.UserMetadata[key].(string); ok && v != "" {
		return &v
	}
	return nil
}

// Client talks to the Supabase Auth REST API.
type Client struct {
	BaseURL    string
	AnonKey    string
	httpClient *http.Client
}

// NewClient creates a Client. baseURL is the project URL, e.g. https://xyz.supabase.co.
func NewClient(baseURL, anonKey string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		AnonKey:    anonKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

// SignInWithPassword exchanges email and password for the authenticated user.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*User, error) {
	var out tokenResponse
	status, err := c.post(ctx, "/auth/v1/token?grant_type=password", credentials{email, password}, &out)
	if err != nil {
		if status == http.StatusBadRequest || status == http.StatusUnauthorized {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if out.User.ID == "" {
		return nil, errors.New("supabase: token response without user")
	}
	return &out.User, nil
}

// SignUp registers a new account. Depending on project settings the user may
// have to confirm their email before SignInWithPassword succeeds.
func (c *Client) SignUp(ctx context.Context, email, password string) error {
	_, err := c.post(ctx, "/auth/v1/signup", credentials{email, password}, nil)
	return err
}

func (c *Client) post(ctx context.Context, path string, body, out any) (int, error) {
	if c.BaseURL == "" || c.AnonKey == "" {
		return 0, ErrNotConfigured
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.AnonKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("supabase: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return resp.StatusCode, fmt.Errorf("supabase: decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// errorMessage pulls the human-readable message out of a GoTrue error body.
// GoTrue has used "msg", "message" and "error_description" across versions.
func errorMessage(raw []byte) string {
	var body struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(raw, &body); err == nil {
		for _, m := range []string{body.Msg, body.Message, body.ErrorDescription} {
			if m != "" {
				return m
			}
		}
	}
	return strings.TrimSpace(string(raw))
}
