package esx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client implements API over a node's local JSON endpoint.
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

// Dial opens an authenticated session against the node at address.
func Dial(ctx context.Context, address, username, password string, opts ...ClientOption) (API, error) {
	c := &Client{
		baseURL:    fmt.Sprintf("https://%s/api", address),
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
		return nil, fmt.Errorf("failed to connect to node %s: %w", address, err)
	}
	c.token = session.Token
	return c, nil
}

// EnterMaintenance implements API.
func (c *Client) EnterMaintenance(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/maintenance/enter", nil, nil)
}

// InstallPatch implements API.
func (c *Client) InstallPatch(ctx context.Context, bundle string) error {
	return c.do(ctx, http.MethodPost, "/patch", map[string]string{"bundle": bundle}, nil)
}

// Reboot implements API.
func (c *Client) Reboot(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/reboot", nil, nil)
}

// SetStoragePolicy implements API.
func (c *Client) SetStoragePolicy(ctx context.Context, policy StoragePolicy) error {
	return c.do(ctx, http.MethodPut, "/storage/policy", map[string]string{"policy": string(policy)}, nil)
}

// EnableStorageCluster implements API.
func (c *Client) EnableStorageCluster(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/storage/cluster/enable", nil, nil)
}

// ListLocalDisks implements API.
func (c *Client) ListLocalDisks(ctx context.Context) ([]Disk, error) {
	var disks []Disk
	err := c.do(ctx, http.MethodGet, "/storage/disks", nil, &disks)
	return disks, err
}

// TagDiskAsFlash implements API.
func (c *Client) TagDiskAsFlash(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/storage/disks/"+id+"/tag-flash", nil, nil)
}

// CreateDiskGroup implements API.
func (c *Client) CreateDiskGroup(ctx context.Context, cache, capacity Disk) error {
	body := map[string]string{"cacheDisk": cache.ID, "capacityDisk": capacity.ID}
	return c.do(ctx, http.MethodPost, "/storage/disk-groups", body, nil)
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
