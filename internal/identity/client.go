package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sentinel errors for provider failure classes the CLI treats specially.
var (
	ErrBadCredentials = errors.New("invalid email or password")
	ErrAccountExists  = errors.New("an account with this email already exists")
)

// Client talks to the external identity provider. The provider is opaque:
// the core consumes sign-in/sign-up/sign-out and a stable identity key.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a new identity client.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Profile holds the registration fields forwarded to the provider.
type Profile struct {
	FullName string `json:"full_name"`
	Username string `json:"username"`
	Phone    string `json:"phone,omitempty"`
}

// Session is an authenticated identity: the provider token plus the claims
// the CLI needs from it.
type Session struct {
	Token     string
	UID       string
	Email     string
	ExpiresAt time.Time
}

type tokenResponse struct {
	Token string `json:"token"`
	Email string `json:"email,omitempty"`
}

type providerError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *providerError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

// SignUp registers a new account. An email collision is reported as
// ErrAccountExists; other provider errors carry the provider's own text.
func (c *Client) SignUp(ctx context.Context, email, password string, profile Profile) (*Session, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
		"profile":  profile,
	}
	resp, err := c.post(ctx, "/v1/accounts", body)
	if err != nil {
		return nil, err
	}
	return sessionFromToken(resp.Token, resp.Email)
}

// SignIn authenticates an existing account.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	resp, err := c.post(ctx, "/v1/sessions", body)
	if err != nil {
		return nil, err
	}
	return sessionFromToken(resp.Token, resp.Email)
}

// SignOut invalidates the provider session for the given token.
func (c *Client) SignOut(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, "DELETE", c.BaseURL+"/v1/sessions", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 && resp.StatusCode != http.StatusUnauthorized {
		return fmt.Errorf("sign out: HTTP %d", resp.StatusCode)
	}
	return nil
}

// sessionFromToken reads uid and expiry from the provider token's claims.
// The parse is unverified: the provider signed the token and the mirror
// verifies it; the client only needs the claim values.
func sessionFromToken(token, email string) (*Session, error) {
	if token == "" {
		return nil, fmt.Errorf("provider returned empty token")
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("parse provider token: %w", err)
	}

	sess := &Session{Token: token, Email: email}

	if sub, err := claims.GetSubject(); err == nil {
		sess.UID = sub
	}
	if sess.UID == "" {
		return nil, fmt.Errorf("provider token missing subject claim")
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		sess.ExpiresAt = exp.Time
	}
	if sess.Email == "" {
		if v, ok := claims["email"].(string); ok {
			sess.Email = v
		}
	}

	return sess, nil
}

func (c *Client) post(ctx context.Context, path string, body any) (*tokenResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var provErr providerError
		haveBody := json.Unmarshal(respBody, &provErr) == nil && (provErr.Code != "" || provErr.Message != "")

		switch resp.StatusCode {
		case http.StatusConflict:
			return nil, ErrAccountExists
		case http.StatusUnauthorized, http.StatusForbidden:
			if haveBody {
				return nil, fmt.Errorf("%w: %s", ErrBadCredentials, provErr.Message)
			}
			return nil, ErrBadCredentials
		}
		if haveBody {
			return nil, &provErr
		}
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
	}

	var tok tokenResponse
	if err := json.Unmarshal(respBody, &tok); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return &tok, nil
}
