// Package diskgroup coordinates storage disk-group construction across
// the cluster. Construction is long-running per host, so all submissions
// happen before the first join: the hosts build their groups in parallel
// while the coordinator waits.
package diskgroup

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/nestedlab/vlabctl/internal/platform/vi"
)

// Logger is the minimal logging surface the coordinator needs.
type Logger interface {
	Printf(format string, args ...any)
}

// API is the control-plane slice the coordinator exercises.
type API interface {
	vi.StorageManager
	vi.TaskManager
}

// Coordinator builds one disk group per cluster host.
type Coordinator struct {
	API    API
	Log    Logger
	Sizing Sizing
}

// Sizing identifies the disks to bind by their provisioned sizes.
type Sizing struct {
	CacheGB    int
	CapacityGB int
}

type submission struct {
	host string
	task vi.Task
}

// Build creates a disk group on every named host that does not already
// contribute one. All creations are submitted first and joined after, so
// the hosts work concurrently. An already-contributing host is skipped,
// which makes re-runs safe.
func (c *Coordinator) Build(ctx context.Context, hosts []string) error {
	submitted := make([]submission, 0, len(hosts))

	for _, host := range hosts {
		has, err := c.API.HasDiskGroup(ctx, host)
		if err != nil {
			return fmt.Errorf("host %s: check disk group: %w", host, err)
		}
		if has {
			c.Log.Printf("host %s already contributes a disk group, skipping", host)
			continue
		}

		cache, capacity, err := c.pickDisks(ctx, host)
		if err != nil {
			return fmt.Errorf("host %s: %w", host, err)
		}

		task, err := c.API.CreateDiskGroup(ctx, host, cache, capacity)
		if err != nil {
			return fmt.Errorf("host %s: submit disk group: %w", host, err)
		}
		c.Log.Printf("host %s: disk group submitted (%s/%s)", host, cache.ID, capacity.ID)
		submitted = append(submitted, submission{host: host, task: task})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range submitted {
		s := s
		g.Go(func() error {
			if err := c.API.WaitTask(gctx, s.task); err != nil {
				return fmt.Errorf("host %s: disk group construction: %w", s.host, err)
			}
			c.Log.Printf("host %s: disk group ready", s.host)
			return nil
		})
	}
	return g.Wait()
}

// pickDisks selects the cache and capacity disks on host by exact size
// match against the provisioned sizing, ignoring disks already in use.
// The first match per tier wins.
func (c *Coordinator) pickDisks(ctx context.Context, host string) (cache, capacity vi.Disk, err error) {
	disks, err := c.API.ListEligibleDisks(ctx, host)
	if err != nil {
		return cache, capacity, fmt.Errorf("list eligible disks: %w", err)
	}

	var haveCache, haveCapacity bool
	for _, d := range disks {
		if d.InUse {
			continue
		}
		switch {
		case !haveCache && d.SizeGB == int64(c.Sizing.CacheGB):
			cache, haveCache = d, true
		case !haveCapacity && d.SizeGB == int64(c.Sizing.CapacityGB):
			capacity, haveCapacity = d, true
		}
	}
	if !haveCache {
		return cache, capacity, fmt.Errorf("no eligible %d GB cache disk", c.Sizing.CacheGB)
	}
	if !haveCapacity {
		return cache, capacity, fmt.Errorf("no eligible %d GB capacity disk", c.Sizing.CapacityGB)
	}
	return cache, capacity, nil
}
