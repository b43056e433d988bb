package esx

import "context"

// Disk is one local disk on the node.
type Disk struct {
	ID     string `json:"id"`
	SizeGB int64  `json:"sizeGb"`
	Flash  bool   `json:"flash"`
}

// StoragePolicy names the redundancy policy applied to the node's storage
// cluster membership.
type StoragePolicy string

const (
	// PolicyForceProvision permits single-node operation with no
	// redundancy, used while the seed node is the only cluster member.
	PolicyForceProvision StoragePolicy = "force-provision"
	// PolicyDefault tolerates one failure, the safe setting once the
	// cluster has multiple members.
	PolicyDefault StoragePolicy = "default"
)

// API is one authenticated direct-node session.
type API interface {
	// EnterMaintenance places the node in maintenance mode.
	EnterMaintenance(ctx context.Context) error
	// InstallPatch applies an offline patch bundle. Blocking.
	InstallPatch(ctx context.Context, bundle string) error
	// Reboot triggers an asynchronous reboot. The node drops off the
	// network shortly after; callers must not expect further calls on
	// this session to succeed.
	Reboot(ctx context.Context) error

	// SetStoragePolicy changes the node's storage redundancy policy.
	SetStoragePolicy(ctx context.Context, policy StoragePolicy) error
	// EnableStorageCluster initializes a single-node storage cluster.
	EnableStorageCluster(ctx context.Context) error
	// ListLocalDisks enumerates disks usable for storage contribution.
	ListLocalDisks(ctx context.Context) ([]Disk, error)
	// TagDiskAsFlash marks a disk as flash so it qualifies as a cache
	// tier device. Nested lab disks are not detected as flash on their own.
	TagDiskAsFlash(ctx context.Context, id string) error
	// CreateDiskGroup binds a cache and a capacity disk into one disk
	// group. Blocking on the direct connection.
	CreateDiskGroup(ctx context.Context, cache, capacity Disk) error

	// Disconnect closes the session.
	Disconnect(ctx context.Context) error
}

// Dialer opens an authenticated session against one node. The deploy
// handler injects a real dialer; tests inject mocks.
type Dialer func(ctx context.Context, address, username, password string) (API, error)
