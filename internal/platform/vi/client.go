package vi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// taskPollInterval is how often WaitTask polls an outstanding task.
const taskPollInterval = 5 * time.Second

// Client implements API over the control plane's JSON endpoint. The same
// client speaks to both endpoint generations; generation-specific behavior
// lives in callers, never here.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client

	pollInterval time.Duration
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithPollInterval overrides the task poll interval. Used by tests.
func WithPollInterval(d time.Duration) ClientOption {
	return func(c *Client) {
		c.pollInterval = d
	}
}

// Dial opens an authenticated session against the control plane at address.
func Dial(ctx context.Context, address, username, password string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		baseURL:      fmt.Sprintf("https://%s/api", address),
		httpClient:   http.DefaultClient,
		pollInterval: taskPollInterval,
	}
	for _, opt := range opts {
		opt(c)
	}

	var session struct {
		Token string `json:"token"`
	}
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/session", body, &session); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	c.token = session.Token
	return c, nil
}

// About implements SessionManager.
func (c *Client) About(ctx context.Context) (AboutInfo, error) {
	var info AboutInfo
	err := c.do(ctx, http.MethodGet, "/about", nil, &info)
	return info, err
}

// Disconnect implements SessionManager.
func (c *Client) Disconnect(ctx context.Context) error {
	if c.token == "" {
		return nil
	}
	err := c.do(ctx, http.MethodDelete, "/session", nil, nil)
	c.token = ""
	return err
}

// ListHosts implements InventoryManager.
func (c *Client) ListHosts(ctx context.Context) ([]Host, error) {
	var hosts []Host
	err := c.do(ctx, http.MethodGet, "/hosts", nil, &hosts)
	return hosts, err
}

// CreateDatacenter implements InventoryManager.
func (c *Client) CreateDatacenter(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, "/datacenters", map[string]string{"name": name}, nil)
}

// CreateCluster implements InventoryManager.
func (c *Client) CreateCluster(ctx context.Context, datacenter, name string, storageEnabled bool) error {
	body := map[string]any{"name": name, "storageEnabled": storageEnabled}
	return c.do(ctx, http.MethodPost, "/datacenters/"+url.PathEscape(datacenter)+"/clusters", body, nil)
}

// AddHost implements InventoryManager.
func (c *Client) AddHost(ctx context.Context, cluster string, spec HostConnectSpec) error {
	body := map[string]string{
		"address":  spec.Address,
		"username": spec.Username,
		"password": spec.Password,
	}
	return c.do(ctx, http.MethodPost, "/clusters/"+url.PathEscape(cluster)+"/hosts", body, nil)
}

// ExitMaintenanceMode implements InventoryManager.
func (c *Client) ExitMaintenanceMode(ctx context.Context, host string) error {
	return c.do(ctx, http.MethodPost, "/hosts/"+url.PathEscape(host)+"/exit-maintenance", nil, nil)
}

// CreateFolder implements InventoryManager.
func (c *Client) CreateFolder(ctx context.Context, datacenter, name string) error {
	return c.do(ctx, http.MethodPost, "/datacenters/"+url.PathEscape(datacenter)+"/folders", map[string]string{"name": name}, nil)
}

// MoveIntoFolder implements InventoryManager.
func (c *Client) MoveIntoFolder(ctx context.Context, folder string, vms []string) error {
	return c.do(ctx, http.MethodPost, "/folders/"+url.PathEscape(folder)+"/move", map[string]any{"vms": vms}, nil)
}

// ImportVM implements VMManager.
func (c *Client) ImportVM(ctx context.Context, spec ImportSpec) (VM, error) {
	body := map[string]any{
		"name":      spec.Name,
		"image":     spec.Image,
		"host":      spec.Host,
		"datastore": spec.Datastore,
		"network":   spec.Network,
	}
	if spec.Guest != nil {
		body["guest"] = map[string]any{
			"hostname": spec.Guest.Hostname,
			"address":  spec.Guest.Address,
			"netmask":  spec.Guest.Netmask,
			"gateway":  spec.Guest.Gateway,
			"dns":      spec.Guest.DNS,
			"ntp":      spec.Guest.NTP,
			"domain":   spec.Guest.Domain,
			"password": spec.Guest.Password,
		}
	}

	var vm VM
	err := c.do(ctx, http.MethodPost, "/vms/import", body, &vm)
	return vm, err
}

// ReconfigureVM implements VMManager.
func (c *Client) ReconfigureVM(ctx context.Context, name string, spec HardwareSpec) error {
	body := map[string]int{
		"vcpu":           spec.VCPU,
		"memoryGb":       spec.MemoryGB,
		"cacheDiskGb":    spec.CacheDiskGB,
		"capacityDiskGb": spec.CapacityDiskGB,
	}
	return c.do(ctx, http.MethodPatch, "/vms/"+url.PathEscape(name)+"/hardware", body, nil)
}

// SetGuestProperties implements VMManager.
func (c *Client) SetGuestProperties(ctx context.Context, name string, props map[string]string) error {
	return c.do(ctx, http.MethodPut, "/vms/"+url.PathEscape(name)+"/guest-properties", props, nil)
}

// PowerOnVM implements VMManager.
func (c *Client) PowerOnVM(ctx context.Context, name string) (Task, error) {
	var task Task
	err := c.do(ctx, http.MethodPost, "/vms/"+url.PathEscape(name)+"/power-on", nil, &task)
	return task, err
}

// GetDatastorePool implements StorageManager.
func (c *Client) GetDatastorePool(ctx context.Context, name string) (*StorageResource, error) {
	var pool struct {
		Name    string      `json:"name"`
		Volumes []Datastore `json:"volumes"`
	}
	if err := c.do(ctx, http.MethodGet, "/datastore-pools/"+url.PathEscape(name), nil, &pool); err != nil {
		return nil, err
	}
	return &StorageResource{Name: pool.Name, Pool: true, Volumes: pool.Volumes}, nil
}

// GetDatastore implements StorageManager.
func (c *Client) GetDatastore(ctx context.Context, name string) (*StorageResource, error) {
	var ds Datastore
	if err := c.do(ctx, http.MethodGet, "/datastores/"+url.PathEscape(name), nil, &ds); err != nil {
		return nil, err
	}
	return &StorageResource{Name: ds.Name, Volumes: []Datastore{ds}}, nil
}

// ListEligibleDisks implements StorageManager.
func (c *Client) ListEligibleDisks(ctx context.Context, host string) ([]Disk, error) {
	var disks []Disk
	err := c.do(ctx, http.MethodGet, "/hosts/"+url.PathEscape(host)+"/disks?eligible=true", nil, &disks)
	return disks, err
}

// HasDiskGroup implements StorageManager.
func (c *Client) HasDiskGroup(ctx context.Context, host string) (bool, error) {
	var status struct {
		Present bool `json:"present"`
	}
	if err := c.do(ctx, http.MethodGet, "/hosts/"+url.PathEscape(host)+"/disk-group", nil, &status); err != nil {
		return false, err
	}
	return status.Present, nil
}

// CreateDiskGroup implements StorageManager.
func (c *Client) CreateDiskGroup(ctx context.Context, host string, cache, capacity Disk) (Task, error) {
	body := map[string]string{"cacheDisk": cache.ID, "capacityDisk": capacity.ID}
	var task Task
	err := c.do(ctx, http.MethodPost, "/hosts/"+url.PathEscape(host)+"/disk-groups", body, &task)
	return task, err
}

// SetHostOption implements StorageManager.
func (c *Client) SetHostOption(ctx context.Context, host, key, value string) error {
	path := "/options"
	if host != "" {
		path = "/hosts/" + url.PathEscape(host) + "/options"
	}
	return c.do(ctx, http.MethodPut, path, map[string]string{"key": key, "value": value}, nil)
}

// GetDistributedPortGroup implements NetworkManager.
func (c *Client) GetDistributedPortGroup(ctx context.Context, name string) (*NetworkTarget, error) {
	if err := c.do(ctx, http.MethodGet, "/networks/distributed/"+url.PathEscape(name), nil, nil); err != nil {
		return nil, err
	}
	return &NetworkTarget{Name: name, Distributed: true}, nil
}

// GetPortGroup implements NetworkManager.
func (c *Client) GetPortGroup(ctx context.Context, name string) (*NetworkTarget, error) {
	if err := c.do(ctx, http.MethodGet, "/networks/"+url.PathEscape(name), nil, nil); err != nil {
		return nil, err
	}
	return &NetworkTarget{Name: name}, nil
}

// CreateDistributedSwitch implements NetworkManager.
func (c *Client) CreateDistributedSwitch(ctx context.Context, datacenter, name string) error {
	return c.do(ctx, http.MethodPost, "/datacenters/"+url.PathEscape(datacenter)+"/switches", map[string]string{"name": name}, nil)
}

// CreatePortGroup implements NetworkManager.
func (c *Client) CreatePortGroup(ctx context.Context, swtch, name string) error {
	return c.do(ctx, http.MethodPost, "/switches/"+url.PathEscape(swtch)+"/portgroups", map[string]string{"name": name}, nil)
}

// AddHostToSwitch implements NetworkManager.
func (c *Client) AddHostToSwitch(ctx context.Context, swtch, host string) error {
	return c.do(ctx, http.MethodPost, "/switches/"+url.PathEscape(swtch)+"/hosts", map[string]string{"host": host}, nil)
}

// AddUplink implements NetworkManager.
func (c *Client) AddUplink(ctx context.Context, swtch, host, device string) error {
	body := map[string]string{"device": device}
	return c.do(ctx, http.MethodPost, "/switches/"+url.PathEscape(swtch)+"/hosts/"+url.PathEscape(host)+"/uplinks", body, nil)
}

// CreateKernelInterface implements NetworkManager.
func (c *Client) CreateKernelInterface(ctx context.Context, host, portGroup, address, netmask string) error {
	body := map[string]string{"portGroup": portGroup, "address": address, "netmask": netmask}
	return c.do(ctx, http.MethodPost, "/hosts/"+url.PathEscape(host)+"/kernel-interfaces", body, nil)
}

// ListTriggeredAlarms implements AlarmManager.
func (c *Client) ListTriggeredAlarms(ctx context.Context) ([]Alarm, error) {
	var alarms []Alarm
	err := c.do(ctx, http.MethodGet, "/alarms/triggered", nil, &alarms)
	return alarms, err
}

// AcknowledgeAlarm implements AlarmManager.
func (c *Client) AcknowledgeAlarm(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPost, "/alarms/"+url.PathEscape(id)+"/ack", nil, nil)
}

// WaitTask implements TaskManager. It polls until the task leaves the
// running state or ctx is canceled.
func (c *Client) WaitTask(ctx context.Context, task Task) error {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		var status struct {
			State   string `json:"state"`
			Message string `json:"message"`
		}
		if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(task.ID), nil, &status); err != nil {
			return err
		}

		switch status.State {
		case "success":
			return nil
		case "error":
			return Error{Code: ErrorCodeTaskFailed, Message: status.Message}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// do performs one API request, decoding a JSON response into out when out
// is non-nil.
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
		var apiErr Error
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Code != "" {
			return apiErr
		}
		return fmt.Errorf("request %s %s failed with status %d", method, path, resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
