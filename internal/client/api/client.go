// Package api implements the HTTP client for the account service. It wraps
// the JSON envelope the server answers with and exposes typed operations.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// User is the account view the server returns. Endpoints expose different
// projections, so fields missing from a given response stay at their zero
// value.
type User struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	CreatedAt  time.Time  `json:"createdAt"`
	LastLogin  *time.Time `json:"lastLogin"`
	LoginCount int64      `json:"loginCount"`
}

// AuthResult is what register and login hand back: the account view plus the
// session token to present on protected calls.
type AuthResult struct {
	User  User
	Token string
}

// envelope mirrors the server's response wrapper.
type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
}

type authData struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type userData struct {
	User User `json:"user"`
}

type usersData struct {
	Users []User `json:"users"`
}

// Client talks to the account service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a Client for the service at baseURL (no trailing slash
// needed). Every request is bounded by timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// do performs one API call and decodes the envelope. A transport failure, a
// non-success envelope, or undecodable JSON all surface as errors carrying
// the server's message when one is available.
func (c *Client) do(ctx context.Context, method, path, token string, body any) (*envelope, error) {
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("unexpected response (status %d): %w", resp.StatusCode, err)
	}

	if !env.Success {
		if env.Message != "" {
			return nil, fmt.Errorf("%s", env.Message)
		}
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	return &env, nil
}

// Ping checks service liveness via the health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/api/health", "", nil)
	return err
}

// Register creates an account and returns the record with a session token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var data authData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, err
	}
	return &AuthResult{User: data.User, Token: data.Token}, nil
}

// Login authenticates and returns the record with a session token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	env, err := c.do(ctx, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	var data authData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, err
	}
	return &AuthResult{User: data.User, Token: data.Token}, nil
}

// Me returns the profile of the account the token belongs to.
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/auth/me", token, nil)
	if err != nil {
		return nil, err
	}

	var data userData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, err
	}
	return &data.User, nil
}

// ListUsers returns every registered account.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	env, err := c.do(ctx, http.MethodGet, "/api/users", "", nil)
	if err != nil {
		return nil, err
	}

	var data usersData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		return nil, err
	}
	return data.Users, nil
}
