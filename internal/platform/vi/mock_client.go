package vi

import (
	"context"
	"sync"
)

// MockClient is a mock implementation of API. Tests set the Func fields
// they care about; unset methods succeed with zero-value results. Every
// call is appended to Calls so tests can assert on operation ordering and
// on the absence of mutating operations.
type MockClient struct {
	mu    sync.Mutex
	Calls []string

	AboutFunc      func(ctx context.Context) (AboutInfo, error)
	DisconnectFunc func(ctx context.Context) error

	ListHostsFunc           func(ctx context.Context) ([]Host, error)
	CreateDatacenterFunc    func(ctx context.Context, name string) error
	CreateClusterFunc       func(ctx context.Context, datacenter, name string, storageEnabled bool) error
	AddHostFunc             func(ctx context.Context, cluster string, spec HostConnectSpec) error
	ExitMaintenanceModeFunc func(ctx context.Context, host string) error
	CreateFolderFunc        func(ctx context.Context, datacenter, name string) error
	MoveIntoFolderFunc      func(ctx context.Context, folder string, vms []string) error

	ImportVMFunc           func(ctx context.Context, spec ImportSpec) (VM, error)
	ReconfigureVMFunc      func(ctx context.Context, name string, spec HardwareSpec) error
	SetGuestPropertiesFunc func(ctx context.Context, name string, props map[string]string) error
	PowerOnVMFunc          func(ctx context.Context, name string) (Task, error)

	GetDatastorePoolFunc func(ctx context.Context, name string) (*StorageResource, error)
	GetDatastoreFunc     func(ctx context.Context, name string) (*StorageResource, error)
	ListEligibleDisksFunc func(ctx context.Context, host string) ([]Disk, error)
	HasDiskGroupFunc      func(ctx context.Context, host string) (bool, error)
	CreateDiskGroupFunc   func(ctx context.Context, host string, cache, capacity Disk) (Task, error)
	SetHostOptionFunc     func(ctx context.Context, host, key, value string) error

	GetDistributedPortGroupFunc func(ctx context.Context, name string) (*NetworkTarget, error)
	GetPortGroupFunc            func(ctx context.Context, name string) (*NetworkTarget, error)
	CreateDistributedSwitchFunc func(ctx context.Context, datacenter, name string) error
	CreatePortGroupFunc         func(ctx context.Context, swtch, name string) error
	AddHostToSwitchFunc         func(ctx context.Context, swtch, host string) error
	AddUplinkFunc               func(ctx context.Context, swtch, host, device string) error
	CreateKernelInterfaceFunc   func(ctx context.Context, host, portGroup, address, netmask string) error

	ListTriggeredAlarmsFunc func(ctx context.Context) ([]Alarm, error)
	AcknowledgeAlarmFunc    func(ctx context.Context, id string) error

	WaitTaskFunc func(ctx context.Context, task Task) error
}

// Ensure interface compliance.
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

// About mocks endpoint identification.
func (m *MockClient) About(ctx context.Context) (AboutInfo, error) {
	m.record("About")
	if m.AboutFunc != nil {
		return m.AboutFunc(ctx)
	}
	return AboutInfo{APIType: "ClusterManager", Version: "6.5.0"}, nil
}

// Disconnect mocks session teardown.
func (m *MockClient) Disconnect(ctx context.Context) error {
	m.record("Disconnect")
	if m.DisconnectFunc != nil {
		return m.DisconnectFunc(ctx)
	}
	return nil
}

// ListHosts mocks host enumeration.
func (m *MockClient) ListHosts(ctx context.Context) ([]Host, error) {
	m.record("ListHosts")
	if m.ListHostsFunc != nil {
		return m.ListHostsFunc(ctx)
	}
	return nil, nil
}

// CreateDatacenter mocks datacenter creation.
func (m *MockClient) CreateDatacenter(ctx context.Context, name string) error {
	m.record("CreateDatacenter")
	if m.CreateDatacenterFunc != nil {
		return m.CreateDatacenterFunc(ctx, name)
	}
	return nil
}

// CreateCluster mocks cluster creation.
func (m *MockClient) CreateCluster(ctx context.Context, datacenter, name string, storageEnabled bool) error {
	m.record("CreateCluster")
	if m.CreateClusterFunc != nil {
		return m.CreateClusterFunc(ctx, datacenter, name, storageEnabled)
	}
	return nil
}

// AddHost mocks host admission.
func (m *MockClient) AddHost(ctx context.Context, cluster string, spec HostConnectSpec) error {
	m.record("AddHost")
	if m.AddHostFunc != nil {
		return m.AddHostFunc(ctx, cluster, spec)
	}
	return nil
}

// ExitMaintenanceMode mocks leaving maintenance mode.
func (m *MockClient) ExitMaintenanceMode(ctx context.Context, host string) error {
	m.record("ExitMaintenanceMode")
	if m.ExitMaintenanceModeFunc != nil {
		return m.ExitMaintenanceModeFunc(ctx, host)
	}
	return nil
}

// CreateFolder mocks folder creation.
func (m *MockClient) CreateFolder(ctx context.Context, datacenter, name string) error {
	m.record("CreateFolder")
	if m.CreateFolderFunc != nil {
		return m.CreateFolderFunc(ctx, datacenter, name)
	}
	return nil
}

// MoveIntoFolder mocks moving VMs into a folder.
func (m *MockClient) MoveIntoFolder(ctx context.Context, folder string, vms []string) error {
	m.record("MoveIntoFolder")
	if m.MoveIntoFolderFunc != nil {
		return m.MoveIntoFolderFunc(ctx, folder, vms)
	}
	return nil
}

// ImportVM mocks VM import.
func (m *MockClient) ImportVM(ctx context.Context, spec ImportSpec) (VM, error) {
	m.record("ImportVM")
	if m.ImportVMFunc != nil {
		return m.ImportVMFunc(ctx, spec)
	}
	return VM{Name: spec.Name, ID: "mock-vm"}, nil
}

// ReconfigureVM mocks hardware reconfiguration.
func (m *MockClient) ReconfigureVM(ctx context.Context, name string, spec HardwareSpec) error {
	m.record("ReconfigureVM")
	if m.ReconfigureVMFunc != nil {
		return m.ReconfigureVMFunc(ctx, name, spec)
	}
	return nil
}

// SetGuestProperties mocks guest property injection.
func (m *MockClient) SetGuestProperties(ctx context.Context, name string, props map[string]string) error {
	m.record("SetGuestProperties")
	if m.SetGuestPropertiesFunc != nil {
		return m.SetGuestPropertiesFunc(ctx, name, props)
	}
	return nil
}

// PowerOnVM mocks asynchronous power on.
func (m *MockClient) PowerOnVM(ctx context.Context, name string) (Task, error) {
	m.record("PowerOnVM")
	if m.PowerOnVMFunc != nil {
		return m.PowerOnVMFunc(ctx, name)
	}
	return Task{ID: "mock-power-on"}, nil
}

// GetDatastorePool mocks datastore-pool lookup.
func (m *MockClient) GetDatastorePool(ctx context.Context, name string) (*StorageResource, error) {
	m.record("GetDatastorePool")
	if m.GetDatastorePoolFunc != nil {
		return m.GetDatastorePoolFunc(ctx, name)
	}
	return &StorageResource{Name: name, Pool: true, Volumes: []Datastore{{Name: name + "-1", FreeSpaceGB: 500}}}, nil
}

// GetDatastore mocks single-volume lookup.
func (m *MockClient) GetDatastore(ctx context.Context, name string) (*StorageResource, error) {
	m.record("GetDatastore")
	if m.GetDatastoreFunc != nil {
		return m.GetDatastoreFunc(ctx, name)
	}
	return &StorageResource{Name: name, Volumes: []Datastore{{Name: name, FreeSpaceGB: 500}}}, nil
}

// ListEligibleDisks mocks local-disk enumeration.
func (m *MockClient) ListEligibleDisks(ctx context.Context, host string) ([]Disk, error) {
	m.record("ListEligibleDisks")
	if m.ListEligibleDisksFunc != nil {
		return m.ListEligibleDisksFunc(ctx, host)
	}
	return nil, nil
}

// HasDiskGroup mocks disk-group presence queries.
func (m *MockClient) HasDiskGroup(ctx context.Context, host string) (bool, error) {
	m.record("HasDiskGroup")
	if m.HasDiskGroupFunc != nil {
		return m.HasDiskGroupFunc(ctx, host)
	}
	return false, nil
}

// CreateDiskGroup mocks asynchronous disk-group creation.
func (m *MockClient) CreateDiskGroup(ctx context.Context, host string, cache, capacity Disk) (Task, error) {
	m.record("CreateDiskGroup")
	if m.CreateDiskGroupFunc != nil {
		return m.CreateDiskGroupFunc(ctx, host, cache, capacity)
	}
	return Task{ID: "mock-disk-group-" + host}, nil
}

// SetHostOption mocks advanced option changes.
func (m *MockClient) SetHostOption(ctx context.Context, host, key, value string) error {
	m.record("SetHostOption")
	if m.SetHostOptionFunc != nil {
		return m.SetHostOptionFunc(ctx, host, key, value)
	}
	return nil
}

// GetDistributedPortGroup mocks distributed port-group lookup.
func (m *MockClient) GetDistributedPortGroup(ctx context.Context, name string) (*NetworkTarget, error) {
	m.record("GetDistributedPortGroup")
	if m.GetDistributedPortGroupFunc != nil {
		return m.GetDistributedPortGroupFunc(ctx, name)
	}
	return &NetworkTarget{Name: name, Distributed: true}, nil
}

// GetPortGroup mocks standalone port-group lookup.
func (m *MockClient) GetPortGroup(ctx context.Context, name string) (*NetworkTarget, error) {
	m.record("GetPortGroup")
	if m.GetPortGroupFunc != nil {
		return m.GetPortGroupFunc(ctx, name)
	}
	return &NetworkTarget{Name: name}, nil
}

// CreateDistributedSwitch mocks switch creation.
func (m *MockClient) CreateDistributedSwitch(ctx context.Context, datacenter, name string) error {
	m.record("CreateDistributedSwitch")
	if m.CreateDistributedSwitchFunc != nil {
		return m.CreateDistributedSwitchFunc(ctx, datacenter, name)
	}
	return nil
}

// CreatePortGroup mocks port-group creation.
func (m *MockClient) CreatePortGroup(ctx context.Context, swtch, name string) error {
	m.record("CreatePortGroup")
	if m.CreatePortGroupFunc != nil {
		return m.CreatePortGroupFunc(ctx, swtch, name)
	}
	return nil
}

// AddHostToSwitch mocks joining a host to a switch.
func (m *MockClient) AddHostToSwitch(ctx context.Context, swtch, host string) error {
	m.record("AddHostToSwitch")
	if m.AddHostToSwitchFunc != nil {
		return m.AddHostToSwitchFunc(ctx, swtch, host)
	}
	return nil
}

// AddUplink mocks claiming a physical uplink.
func (m *MockClient) AddUplink(ctx context.Context, swtch, host, device string) error {
	m.record("AddUplink")
	if m.AddUplinkFunc != nil {
		return m.AddUplinkFunc(ctx, swtch, host, device)
	}
	return nil
}

// CreateKernelInterface mocks kernel-interface creation.
func (m *MockClient) CreateKernelInterface(ctx context.Context, host, portGroup, address, netmask string) error {
	m.record("CreateKernelInterface")
	if m.CreateKernelInterfaceFunc != nil {
		return m.CreateKernelInterfaceFunc(ctx, host, portGroup, address, netmask)
	}
	return nil
}

// ListTriggeredAlarms mocks triggered-alarm enumeration.
func (m *MockClient) ListTriggeredAlarms(ctx context.Context) ([]Alarm, error) {
	m.record("ListTriggeredAlarms")
	if m.ListTriggeredAlarmsFunc != nil {
		return m.ListTriggeredAlarmsFunc(ctx)
	}
	return nil, nil
}

// AcknowledgeAlarm mocks alarm acknowledgement.
func (m *MockClient) AcknowledgeAlarm(ctx context.Context, id string) error {
	m.record("AcknowledgeAlarm")
	if m.AcknowledgeAlarmFunc != nil {
		return m.AcknowledgeAlarmFunc(ctx, id)
	}
	return nil
}

// WaitTask mocks joining a task.
func (m *MockClient) WaitTask(ctx context.Context, task Task) error {
	m.record("WaitTask")
	if m.WaitTaskFunc != nil {
		return m.WaitTaskFunc(ctx, task)
	}
	return nil
}
