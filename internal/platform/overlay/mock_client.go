package overlay

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of API for tests. Registered specs
// are recorded so tests can assert on them without setting Func fields.
type MockClient struct {
	mu    sync.Mutex
	Calls []string

	ComputeManagers []ComputeManagerSpec
	IdentitySources []IdentitySourceSpec

	RegisterComputeManagerFunc func(ctx context.Context, spec ComputeManagerSpec) error
	RegisterIdentitySourceFunc func(ctx context.Context, spec IdentitySourceSpec) error
	DisconnectFunc             func(ctx context.Context) error
}

var _ API = (*MockClient)(nil)

func (m *MockClient) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, call)
}

// CallCount returns how many times the named call was recorded.
func (m *MockClient) CallCount(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.Calls {
		if c == call {
			n++
		}
	}
	return n
}

// RegisterComputeManager mocks compute-manager registration.
func (m *MockClient) RegisterComputeManager(ctx context.Context, spec ComputeManagerSpec) error {
	m.record("RegisterComputeManager")
	m.mu.Lock()
	m.ComputeManagers = append(m.ComputeManagers, spec)
	m.mu.Unlock()
	if m.RegisterComputeManagerFunc != nil {
		return m.RegisterComputeManagerFunc(ctx, spec)
	}
	return nil
}

// RegisterIdentitySource mocks identity-source registration.
func (m *MockClient) RegisterIdentitySource(ctx context.Context, spec IdentitySourceSpec) error {
	m.record("RegisterIdentitySource")
	m.mu.Lock()
	m.IdentitySources = append(m.IdentitySources, spec)
	m.mu.Unlock()
	if m.RegisterIdentitySourceFunc != nil {
		return m.RegisterIdentitySourceFunc(ctx, spec)
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
