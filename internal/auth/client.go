package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/finplan/advisor-service/internal/config"
)

// Client implements Provider against a GoTrue-compatible HTTP endpoint.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	log     *logrus.Logger
}

// NewClient initializes an identity-provider client.
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.AuthURL, "/"),
		apiKey:  cfg.AuthAPIKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// GetUser resolves the user behind an access token.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/user", accessToken, nil, &user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, fmt.Errorf("identity provider returned no user")
	}
	return &user, nil
}

// SignUp registers a new email/password identity.
func (c *Client) SignUp(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var sess Session
	if err := c.do(ctx, http.MethodPost, "/signup", "", body, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// SignInWithPassword exchanges credentials for a session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}
	var sess Session
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=password", "", body, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// OAuthURL builds the provider's authorize URL for a browser redirect.
func (c *Client) OAuthURL(provider, redirectTo string) string {
	q := url.Values{}
	q.Set("provider", provider)
	q.Set("redirect_to", redirectTo)
	return fmt.Sprintf("%s/authorize?%s", c.baseURL, q.Encode())
}

// ExchangeCode trades an authorization code for a session.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*Session, error) {
	body := map[string]string{"auth_code": code}
	var sess Session
	if err := c.do(ctx, http.MethodPost, "/token?grant_type=pkce", "", body, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// SignOut revokes the provider session.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/logout", accessToken, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path, accessToken string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode auth request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("identity provider returned %s: %s", resp.Status, providerError(resp.Body))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode auth response: %w", err)
		}
	}
	return nil
}

// providerError pulls a human-readable message out of an error body.
func providerError(body io.Reader) string {
	var payload struct {
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.NewDecoder(body).Decode(&payload); err == nil {
		if payload.Msg != "" {
			return payload.Msg
		}
		if payload.ErrorDescription != "" {
			return payload.ErrorDescription
		}
	}
	return "authentication failed"
}
