package vi

// ControlPlaneKind identifies the generation of the connected endpoint.
type ControlPlaneKind string

const (
	// KindHypervisor is a bare hypervisor host agent managing only itself.
	KindHypervisor ControlPlaneKind = "hypervisor"
	// KindClusterManager is a full cluster-manager appliance.
	KindClusterManager ControlPlaneKind = "cluster-manager"
)

// AboutInfo describes the connected endpoint.
type AboutInfo struct {
	APIType string `json:"apiType"`
	Version string `json:"version"`
	Name    string `json:"name"`
}

// Host is one hypervisor known to the control plane.
type Host struct {
	Name          string `json:"name"`
	ManagementIP  string `json:"managementIp"`
	InMaintenance bool   `json:"inMaintenance"`
}

// Datastore is one storage volume.
type Datastore struct {
	Name        string `json:"name"`
	CapacityGB  int64  `json:"capacityGb"`
	FreeSpaceGB int64  `json:"freeSpaceGb"`
}

// StorageResource is a resolved disk destination: either one concrete
// volume or a pool of volumes. When it is a pool, operations that cannot
// target a pool directly pick the member volume with the most free space.
type StorageResource struct {
	Name    string
	Pool    bool
	Volumes []Datastore
}

// InstallVolume returns the member volume with the most free capacity.
// For a single-volume resource this is the volume itself.
func (s StorageResource) InstallVolume() Datastore {
	var best Datastore
	for _, v := range s.Volumes {
		if v.FreeSpaceGB >= best.FreeSpaceGB {
			best = v
		}
	}
	return best
}

// NetworkTarget is a resolved virtual-switch attachment for VM adapters,
// either a distributed port group or a standalone one.
type NetworkTarget struct {
	Name        string
	Distributed bool
}

// Disk is one local disk on a host, candidate for disk-group membership.
type Disk struct {
	ID     string `json:"id"`
	SizeGB int64  `json:"sizeGb"`
	Flash  bool   `json:"flash"`
	InUse  bool   `json:"inUse"`
}

// Task is a handle to one asynchronous long-running operation. It carries
// no payload beyond an opaque completion token; the only operations on it
// are submit (implicit in the call that produced it) and join.
type Task struct {
	ID string `json:"id"`
}

// VM is a virtual machine handle.
type VM struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// GuestConfig holds node identity and network parameters injected into an
// imported VM. Only the first DNS server is honored by the underlying
// guest customization mechanism.
type GuestConfig struct {
	Hostname string
	Address  string
	Netmask  string
	Gateway  string
	DNS      []string
	NTP      string
	Domain   string
	Password string
}

// ImportSpec describes one VM import from an appliance image.
type ImportSpec struct {
	Name      string
	Image     string
	Host      string
	Datastore string
	Network   string
	// Guest carries customization for cluster-manager endpoints, which
	// fill a structured template before import. Bare hypervisors ignore
	// it; callers inject guest properties after import instead.
	Guest *GuestConfig
}

// HardwareSpec reconfigures compute and disk sizing on an existing VM.
type HardwareSpec struct {
	VCPU           int
	MemoryGB       int
	CacheDiskGB    int
	CapacityDiskGB int
}

// HostConnectSpec describes one host admission into a cluster.
type HostConnectSpec struct {
	Address  string
	Username string
	Password string
}

// Alarm is one triggered alarm on the control plane.
type Alarm struct {
	ID     string `json:"id"`
	Entity string `json:"entity"`
	Name   string `json:"name"`
}
