package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the Quill API. It handles the unauthenticated surface and
// creates Sessions for everything that needs an access token.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// doJSON performs a request with an optional JSON body and optional bearer
// token, and decodes the envelope. A non-2xx status becomes an *APIError.
func (c *Client) doJSON(ctx context.Context, method, path string, body any, bearer string) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	if resp.StatusCode >= 300 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    env.Message,
			Detail:     env.Error,
		}
	}
	return &env, nil
}

// Register creates a new account. The account is not logged in; call Login
// next to obtain a session.
func (c *Client) Register(ctx context.Context, email, password, name string) (*UserInfo, error) {
	env, err := c.doJSON(ctx, http.MethodPost, "/auth/register", map[string]string{
		"email":    email,
		"password": password,
		"name":     name,
	}, "")
	if err != nil {
		return nil, err
	}

	var user UserInfo
	if err := json.Unmarshal(env.Data, &user); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return &user, nil
}

// Login exchanges credentials for a token pair and returns a live Session.
// The tokens are written to store before returning.
func (c *Client) Login(ctx context.Context, email, password string, store TokenStore) (*Session, error) {
	env, err := c.doJSON(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	if err != nil {
		return nil, err
	}

	var data loginData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, fmt.Errorf("failed to decode login response: %w", err)
	}

	s := newSession(c, store)
	s.setAuthenticated(data.User, Tokens{
		AccessToken:  data.AccessToken,
		RefreshToken: data.RefreshToken,
	})
	if store != nil {
		if err := store.Save(s.Tokens()); err != nil {
			return nil, fmt.Errorf("failed to persist tokens: %w", err)
		}
	}
	return s, nil
}

// NewSession creates a logged-out session bound to store. Call Restore to
// pick up a previously persisted token pair.
func (c *Client) NewSession(store TokenStore) *Session {
	return newSession(c, store)
}

// refreshTokens exchanges a refresh token for a new pair. The server echoes
// the refresh token back alongside a fresh access token.
func (c *Client) refreshTokens(ctx context.Context, refreshToken string) (Tokens, error) {
	env, err := c.doJSON(ctx, http.MethodPost, "/auth/refresh-token", map[string]string{
		"refreshToken": refreshToken,
	}, "")
	if err != nil {
		return Tokens{}, err
	}

	var data refreshData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return Tokens{}, fmt.Errorf("failed to decode refresh response: %w", err)
	}
	return Tokens{AccessToken: data.AccessToken, RefreshToken: data.RefreshToken}, nil
}
