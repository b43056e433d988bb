// Package async provides helpers for the submit-all-then-join-all pattern
// used for long-running infrastructure operations.
//
// Phases that fan out over independent resources (disk-group creation, host
// admission) first submit every operation, collecting handles, and only then
// wait on the full set. Submissions are never interleaved with waits.
package async

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Task represents an asynchronous operation with a name and function.
type Task struct {
	Name string
	Func func(context.Context) error
}

// RunParallel starts all tasks concurrently and waits for every one of them
// to finish. The first error encountered is returned after all tasks have
// completed; remaining errors are discarded.
func RunParallel(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, task := range tasks {
		g.Go(func() error {
			if err := task.Func(ctx); err != nil {
				return fmt.Errorf("%s: %w", task.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}
