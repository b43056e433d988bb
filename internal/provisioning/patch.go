package provisioning

import (
	"fmt"

	"github.com/nestedlab/vlabctl/internal/plan"
)

// patchNodesPhase applies the offline patch bundle to every cluster node,
// one node at a time. Patching is serial on purpose: each node reboots at
// the end, and rebooting the whole cluster at once would leave nothing to
// observe failures against.
type patchNodesPhase struct{}

func (*patchNodesPhase) Name() string { return "patch-cluster-nodes" }

func (*patchNodesPhase) Provision(ctx *Context) error {
	bundle := ctx.Config.Images.PatchBundle
	for _, node := range ctx.Plan.Nodes {
		if err := patchNode(ctx, node, bundle); err != nil {
			return fmt.Errorf("node %s: %w", node.Name, err)
		}
	}
	return nil
}

func patchNode(ctx *Context, node plan.ClusterNode, bundle string) error {
	user, pass := ctx.NodeCredential()

	ctx.Log.Printf("waiting for node %s to become responsive", node.Name)
	api, err := ctx.DialNodeReachable(node.IP, user, pass)
	if err != nil {
		return err
	}
	defer api.Disconnect(ctx)

	ctx.Log.Printf("patching node %s from %s", node.Name, bundle)
	if err := api.EnterMaintenance(ctx); err != nil {
		return fmt.Errorf("enter maintenance: %w", err)
	}
	if err := api.InstallPatch(ctx, bundle); err != nil {
		return fmt.Errorf("install patch: %w", err)
	}

	// The session dies with the reboot; the next phase that needs the
	// node waits for it to come back.
	if err := api.Reboot(ctx); err != nil {
		return fmt.Errorf("reboot: %w", err)
	}
	ctx.Log.Printf("node %s patched, rebooting", node.Name)
	return nil
}
