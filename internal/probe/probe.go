// Package probe resolves environment facts the operator does not declare:
// the control plane's API generation, the storage resource kind, and the
// network switch kind.
//
// The target ecosystem exposes two historically distinct provisioning
// models for storage and networking. Probing with graceful fallback saves
// the operator from knowing the internal taxonomy while still failing
// deterministically when neither model matches.
package probe

import (
	"context"
	"errors"
	"fmt"

	"github.com/nestedlab/vlabctl/internal/platform/vi"
)

// ErrResourceNotFound indicates a named resource could not be resolved
// even after fallback probing.
var ErrResourceNotFound = errors.New("resource not found")

// API types reported by the two known endpoint generations.
const (
	apiTypeHostAgent      = "HostAgent"
	apiTypeClusterManager = "ClusterManager"
)

// ControlPlaneKind determines the endpoint generation from its reported
// API type. An unrecognized or missing API type is treated as a bare
// hypervisor only when host enumeration succeeds under that assumption;
// otherwise the endpoint is not something this tool can drive.
func ControlPlaneKind(ctx context.Context, api vi.API) (vi.ControlPlaneKind, error) {
	about, err := api.About(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to query endpoint identity: %w", err)
	}

	switch about.APIType {
	case apiTypeClusterManager:
		return vi.KindClusterManager, nil
	case apiTypeHostAgent:
		return vi.KindHypervisor, nil
	}

	if _, err := api.ListHosts(ctx); err != nil {
		return "", fmt.Errorf("endpoint reports unknown API type %q and host enumeration failed: %w", about.APIType, err)
	}
	return vi.KindHypervisor, nil
}

// Storage resolves the named disk destination, preferring a pool of
// volumes and falling back to a single volume of the same name.
func Storage(ctx context.Context, api vi.API, name string) (*vi.StorageResource, error) {
	pool, err := api.GetDatastorePool(ctx, name)
	if err == nil {
		return backedStorage(pool, name)
	}
	if !vi.IsNotFound(err) {
		return nil, fmt.Errorf("datastore pool lookup for %q failed: %w", name, err)
	}

	single, err := api.GetDatastore(ctx, name)
	if err == nil {
		return backedStorage(single, name)
	}
	if !vi.IsNotFound(err) {
		return nil, fmt.Errorf("datastore lookup for %q failed: %w", name, err)
	}

	return nil, fmt.Errorf("%w: no datastore pool or datastore named %q", ErrResourceNotFound, name)
}

// backedStorage rejects a storage resource with no backing volumes. The
// installer needs a concrete volume name; a bare resource would pass an
// empty datastore into the install document.
func backedStorage(res *vi.StorageResource, name string) (*vi.StorageResource, error) {
	if len(res.Volumes) == 0 {
		return nil, fmt.Errorf("storage resource %q has no backing volumes", name)
	}
	return res, nil
}

// Network resolves the named switch attachment, preferring a distributed
// port group and falling back to a standalone one.
func Network(ctx context.Context, api vi.API, name string) (*vi.NetworkTarget, error) {
	dpg, err := api.GetDistributedPortGroup(ctx, name)
	if err == nil {
		return dpg, nil
	}
	if !vi.IsNotFound(err) {
		return nil, fmt.Errorf("distributed port group lookup for %q failed: %w", name, err)
	}

	pg, err := api.GetPortGroup(ctx, name)
	if err == nil {
		return pg, nil
	}
	if !vi.IsNotFound(err) {
		return nil, fmt.Errorf("port group lookup for %q failed: %w", name, err)
	}

	return nil, fmt.Errorf("%w: no distributed or standalone port group named %q", ErrResourceNotFound, name)
}
