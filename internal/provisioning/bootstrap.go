package provisioning

import (
	"fmt"

	"github.com/nestedlab/vlabctl/internal/platform/esx"
)

// bootstrapSeedPhase prepares the seed node of a self-hosted deployment:
// a single-node storage cluster the management appliance can be installed
// onto before any cluster exists. Redundancy is force-provisioned for the
// duration; a later phase restores the default policy once the remaining
// nodes have joined.
type bootstrapSeedPhase struct{}

func (*bootstrapSeedPhase) Name() string { return "bootstrap-seed-node" }

func (*bootstrapSeedPhase) Provision(ctx *Context) error {
	seed := ctx.Plan.BootstrapNode
	user, pass := ctx.NodeCredential()

	ctx.Log.Printf("waiting for seed node %s to become responsive", seed.Name)
	api, err := ctx.DialNodeReachable(seed.IP, user, pass)
	if err != nil {
		return err
	}
	defer api.Disconnect(ctx)

	ctx.Log.Printf("bootstrapping single-node storage cluster on %s", seed.Name)
	if err := api.SetStoragePolicy(ctx, esx.PolicyForceProvision); err != nil {
		return fmt.Errorf("set storage policy: %w", err)
	}
	if err := api.EnableStorageCluster(ctx); err != nil {
		return fmt.Errorf("enable storage cluster: %w", err)
	}

	disks, err := api.ListLocalDisks(ctx)
	if err != nil {
		return fmt.Errorf("list local disks: %w", err)
	}
	cache, capacity, err := pickSeedDisks(disks, seed.Sizing.CacheDiskGB, seed.Sizing.CapacityDiskGB)
	if err != nil {
		return err
	}

	// Nested lab disks never report as flash, so the cache-tier disk has
	// to be tagged before it qualifies.
	if !cache.Flash {
		if err := api.TagDiskAsFlash(ctx, cache.ID); err != nil {
			return fmt.Errorf("tag cache disk %s as flash: %w", cache.ID, err)
		}
	}

	if err := api.CreateDiskGroup(ctx, cache, capacity); err != nil {
		return fmt.Errorf("create disk group: %w", err)
	}
	ctx.Log.Printf("seed node %s contributes disk group %s/%s", seed.Name, cache.ID, capacity.ID)
	return nil
}

// pickSeedDisks selects the cache and capacity disks by their provisioned
// sizes. The deployment created these disks itself, so an exact size match
// identifies them; the first match wins when several disks share a size.
func pickSeedDisks(disks []esx.Disk, cacheGB, capacityGB int) (cache, capacity esx.Disk, err error) {
	var haveCache, haveCapacity bool
	for _, d := range disks {
		switch {
		case !haveCache && d.SizeGB == int64(cacheGB):
			cache, haveCache = d, true
		case !haveCapacity && d.SizeGB == int64(capacityGB):
			capacity, haveCapacity = d, true
		}
	}
	if !haveCache {
		return cache, capacity, fmt.Errorf("no local disk matches the %d GB cache size", cacheGB)
	}
	if !haveCapacity {
		return cache, capacity, fmt.Errorf("no local disk matches the %d GB capacity size", capacityGB)
	}
	return cache, capacity, nil
}
