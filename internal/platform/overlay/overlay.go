// Package overlay wraps the network-virtualization manager API.
//
// The manager is touched exactly once, after the lab is built: it is
// registered against the new management domain and its identity
// authority, then the session is closed.
package overlay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// ComputeManagerSpec registers the overlay manager against a management
// domain.
type ComputeManagerSpec struct {
	Address  string
	Username string
	Password string
}

// IdentitySourceSpec registers the overlay manager against the identity
// authority of the management domain.
type IdentitySourceSpec struct {
	Address  string
	Domain   string
	Username string
	Password string
}

// API is one authenticated overlay-manager session.
type API interface {
	RegisterComputeManager(ctx context.Context, spec ComputeManagerSpec) error
	RegisterIdentitySource(ctx context.Context, spec IdentitySourceSpec) error
	Disconnect(ctx context.Context) error
}

// Dialer opens an authenticated session against the overlay manager.
type Dialer func(ctx context.Context, address, username, password string) (API, error)

// Client implements API over the manager's JSON endpoint.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Dial opens an authenticated session against the manager at address.
func Dial(ctx context.Context, address, username, password string, opts ...ClientOption) (API, error) {
	c := &Client{
		baseURL:    fmt.Sprintf("https://%s/api/v1", address),
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}

	var session struct {
		Token string `json:"token"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/session", body, &session); err != nil {
		return nil, fmt.Errorf("failed to connect to overlay manager %s: %w", address, err)
	}
	c.token = session.Token
	return c, nil
}

// RegisterComputeManager implements API.
func (c *Client) RegisterComputeManager(ctx context.Context, spec ComputeManagerSpec) error {
	body := map[string]string{
		"address":  spec.Address,
		"username": spec.Username,
		"password": spec.Password,
	}
	return c.do(ctx, http.MethodPost, "/fabric/compute-managers", body, nil)
}

// RegisterIdentitySource implements API.
func (c *Client) RegisterIdentitySource(ctx context.Context, spec IdentitySourceSpec) error {
	body := map[string]string{
		"address":  spec.Address,
		"domain":   spec.Domain,
		"username": spec.Username,
		"password": spec.Password,
	}
	return c.do(ctx, http.MethodPost, "/identity-sources", body, nil)
}

// Disconnect implements API.
func (c *Client) Disconnect(ctx context.Context) error {
	if c.token == "" {
		return nil
	}
	err := c.do(ctx, http.MethodDelete, "/session", nil, nil)
	c.token = ""
	return err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s failed: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("request %s %s failed with status %d: %s", method, path, resp.StatusCode, bytes.TrimSpace(data))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

var _ API = (*Client)(nil)
