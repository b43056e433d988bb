package vi

import "context"

// SessionManager covers endpoint identity and session lifecycle.
type SessionManager interface {
	// About reports the endpoint's API type, version and name.
	About(ctx context.Context) (AboutInfo, error)
	// Disconnect closes the session. Safe to call on an already closed
	// session.
	Disconnect(ctx context.Context) error
}

// InventoryManager covers datacenters, clusters, folders and hosts.
type InventoryManager interface {
	ListHosts(ctx context.Context) ([]Host, error)
	CreateDatacenter(ctx context.Context, name string) error
	// CreateCluster creates a cluster inside datacenter. storageEnabled
	// turns on hyper-converged storage for the cluster.
	CreateCluster(ctx context.Context, datacenter, name string, storageEnabled bool) error
	AddHost(ctx context.Context, cluster string, spec HostConnectSpec) error
	ExitMaintenanceMode(ctx context.Context, host string) error
	CreateFolder(ctx context.Context, datacenter, name string) error
	MoveIntoFolder(ctx context.Context, folder string, vms []string) error
}

// VMManager covers VM import, reconfiguration and power operations.
type VMManager interface {
	ImportVM(ctx context.Context, spec ImportSpec) (VM, error)
	ReconfigureVM(ctx context.Context, name string, spec HardwareSpec) error
	// SetGuestProperties injects low-level guest properties after import.
	// Used on bare-hypervisor endpoints, which have no customization
	// template mechanism.
	SetGuestProperties(ctx context.Context, name string, props map[string]string) error
	// PowerOnVM is asynchronous; the returned task is intentionally not
	// joined by phases that do not depend on guest readiness.
	PowerOnVM(ctx context.Context, name string) (Task, error)
}

// StorageManager covers datastore resolution and disk-group operations.
type StorageManager interface {
	GetDatastorePool(ctx context.Context, name string) (*StorageResource, error)
	GetDatastore(ctx context.Context, name string) (*StorageResource, error)
	ListEligibleDisks(ctx context.Context, host string) ([]Disk, error)
	// HasDiskGroup reports whether host already contributes a disk group.
	HasDiskGroup(ctx context.Context, host string) (bool, error)
	// CreateDiskGroup is asynchronous; callers collect the task handles
	// for all hosts before joining any of them.
	CreateDiskGroup(ctx context.Context, host string, cache, capacity Disk) (Task, error)
	// SetHostOption sets an advanced host option. An empty host targets
	// the endpoint itself.
	SetHostOption(ctx context.Context, host, key, value string) error
}

// NetworkManager covers virtual-switch resolution and overlay fabric setup.
type NetworkManager interface {
	GetDistributedPortGroup(ctx context.Context, name string) (*NetworkTarget, error)
	GetPortGroup(ctx context.Context, name string) (*NetworkTarget, error)
	CreateDistributedSwitch(ctx context.Context, datacenter, name string) error
	CreatePortGroup(ctx context.Context, swtch, name string) error
	AddHostToSwitch(ctx context.Context, swtch, host string) error
	AddUplink(ctx context.Context, swtch, host, device string) error
	CreateKernelInterface(ctx context.Context, host, portGroup, address, netmask string) error
}

// AlarmManager covers triggered-alarm housekeeping.
type AlarmManager interface {
	ListTriggeredAlarms(ctx context.Context) ([]Alarm, error)
	AcknowledgeAlarm(ctx context.Context, id string) error
}

// TaskManager joins asynchronous operations.
type TaskManager interface {
	WaitTask(ctx context.Context, task Task) error
}

// API combines every control-plane interface.
type API interface {
	SessionManager
	InventoryManager
	VMManager
	StorageManager
	NetworkManager
	AlarmManager
	TaskManager
}
