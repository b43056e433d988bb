package provisioning

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/nestedlab/vlabctl/internal/plan"
)

// groupVMsPhase gathers the deployed VMs into one inventory folder on the
// outer control plane so the lab is a single visible unit. Only cluster
// managers have a folder-capable inventory; bare hypervisors skip this.
type groupVMsPhase struct{}

func (*groupVMsPhase) Name() string { return "group-lab-vms" }

func (*groupVMsPhase) Provision(ctx *Context) error {
	folder := ctx.Config.Lab.Folder
	if folder == "" {
		folder = ctx.Config.Lab.Datacenter
	}

	if err := ctx.Infra.CreateFolder(ctx, ctx.Config.Placement.Datacenter, folder); err != nil {
		return fmt.Errorf("create folder %s: %w", folder, err)
	}

	names := lo.Map(ctx.Plan.Nodes, func(n plan.ClusterNode, _ int) string { return n.Name })
	// The appliance only lives on the outer control plane in the standard
	// topology; self-hosted runs place it on the bootstrapped cluster.
	if !ctx.Plan.SelfHosted() {
		names = append(names, ctx.Config.Appliance.Name)
	}
	if ctx.State.OverlayVM != nil {
		names = append(names, ctx.State.OverlayVM.Name)
	}

	ctx.Log.Printf("grouping %d VMs into folder %s", len(names), folder)
	if err := ctx.Infra.MoveIntoFolder(ctx, folder, names); err != nil {
		return fmt.Errorf("move into folder %s: %w", folder, err)
	}
	return nil
}
