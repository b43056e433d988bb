package provisioning

import (
	"fmt"
	"time"
)

// Phase defines one step of the deployment pipeline.
type Phase interface {
	// Name returns the phase's stable, human-readable name.
	Name() string

	// Provision executes the phase.
	Provision(ctx *Context) error
}

// RunPhases executes all phases sequentially, recording per-phase timing
// into the state. The first failing phase terminates the run.
func RunPhases(ctx *Context, phases []Phase) error {
	start := time.Now()
	ctx.Log.Printf("starting deployment with %d phases", len(phases))

	for i, phase := range phases {
		phaseStart := time.Now()
		label := fmt.Sprintf("%s (%d/%d)", phase.Name(), i+1, len(phases))

		ctx.Log.Printf("[%s] starting", label)

		if err := phase.Provision(ctx); err != nil {
			ctx.Log.Printf("[%s] failed: %v", label, err)
			return fmt.Errorf("%s phase failed: %w", phase.Name(), err)
		}

		elapsed := time.Since(phaseStart)
		ctx.State.Timings = append(ctx.State.Timings, PhaseTiming{Name: phase.Name(), Duration: elapsed})
		ctx.Log.Printf("[%s] completed in %v", label, elapsed.Round(time.Millisecond))
	}

	ctx.Log.Printf("deployment completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}
