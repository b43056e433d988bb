package esx

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of API. Tests set the Func fields
// they care about; unset methods succeed. Calls records method names in
// invocation order.
type MockClient struct {
	mu    sync.Mutex
	Calls []string

	EnterMaintenanceFunc     func(ctx context.Context) error
	InstallPatchFunc         func(ctx context.Context, bundle string) error
	RebootFunc               func(ctx context.Context) error
	SetStoragePolicyFunc     func(ctx context.Context, policy StoragePolicy) error
	EnableStorageClusterFunc func(ctx context.Context) error
	ListLocalDisksFunc       func(ctx context.Context) ([]Disk, error)
	TagDiskAsFlashFunc       func(ctx context.Context, id string) error
	CreateDiskGroupFunc      func(ctx context.Context, cache, capacity Disk) error
	DisconnectFunc           func(ctx context.Context) error
}

var _ API = (*MockClient)(nil)

func (m *MockClient) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

// CallNames returns a copy of the recorded call sequence.
func (m *MockClient) CallNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Calls))
	copy(out, m.Calls)
	return out
}

// EnterMaintenance mocks entering maintenance mode.
func (m *MockClient) EnterMaintenance(ctx context.Context) error {
	m.record("EnterMaintenance")
	if m.EnterMaintenanceFunc != nil {
		return m.EnterMaintenanceFunc(ctx)
	}
	return nil
}

// InstallPatch mocks patch installation.
func (m *MockClient) InstallPatch(ctx context.Context, bundle string) error {
	m.record("InstallPatch")
	if m.InstallPatchFunc != nil {
		return m.InstallPatchFunc(ctx, bundle)
	}
	return nil
}

// Reboot mocks the asynchronous reboot trigger.
func (m *MockClient) Reboot(ctx context.Context) error {
	m.record("Reboot")
	if m.RebootFunc != nil {
		return m.RebootFunc(ctx)
	}
	return nil
}

// SetStoragePolicy mocks policy changes.
func (m *MockClient) SetStoragePolicy(ctx context.Context, policy StoragePolicy) error {
	m.record("SetStoragePolicy")
	if m.SetStoragePolicyFunc != nil {
		return m.SetStoragePolicyFunc(ctx, policy)
	}
	return nil
}

// EnableStorageCluster mocks single-node storage cluster initialization.
func (m *MockClient) EnableStorageCluster(ctx context.Context) error {
	m.record("EnableStorageCluster")
	if m.EnableStorageClusterFunc != nil {
		return m.EnableStorageClusterFunc(ctx)
	}
	return nil
}

// ListLocalDisks mocks disk enumeration.
func (m *MockClient) ListLocalDisks(ctx context.Context) ([]Disk, error) {
	m.record("ListLocalDisks")
	if m.ListLocalDisksFunc != nil {
		return m.ListLocalDisksFunc(ctx)
	}
	return nil, nil
}

// TagDiskAsFlash mocks flash tagging.
func (m *MockClient) TagDiskAsFlash(ctx context.Context, id string) error {
	m.record("TagDiskAsFlash")
	if m.TagDiskAsFlashFunc != nil {
		return m.TagDiskAsFlashFunc(ctx, id)
	}
	return nil
}

// CreateDiskGroup mocks blocking disk-group creation.
func (m *MockClient) CreateDiskGroup(ctx context.Context, cache, capacity Disk) error {
	m.record("CreateDiskGroup")
	if m.CreateDiskGroupFunc != nil {
		return m.CreateDiskGroupFunc(ctx, cache, capacity)
	}
	return nil
}

// Disconnect mocks session teardown.
func (m *MockClient) Disconnect(ctx context.Context) error {
	m.record("Disconnect")
	if m.DisconnectFunc != nil {
		return m.DisconnectFunc(ctx)
	}
	return nil
}
