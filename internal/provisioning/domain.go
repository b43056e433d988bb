package provisioning

import (
	"context"
	"fmt"

	"github.com/nestedlab/vlabctl/internal/platform/vi"
	"github.com/nestedlab/vlabctl/internal/util/async"
)

// connectLabPhase hands the run over from the outer control plane to the
// newly deployed management appliance. The outer session is closed first;
// at most one control-plane session is live at any time.
type connectLabPhase struct{}

func (*connectLabPhase) Name() string { return "connect-management-domain" }

func (*connectLabPhase) Provision(ctx *Context) error {
	if err := ctx.Infra.Disconnect(ctx); err != nil {
		ctx.Log.Warnf("failed to close outer control-plane session: %v", err)
	}

	ctx.Log.Printf("connecting to management appliance at %s", ctx.Config.Appliance.IP)
	lab, err := ctx.DialLab(ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to management appliance: %w", err)
	}
	ctx.State.Lab = lab
	return nil
}

// disconnectLabPhase closes the management appliance session once all
// work inside the lab is done. Everything the run set up survives the
// session, so a close failure is only worth a warning.
type disconnectLabPhase struct{}

func (*disconnectLabPhase) Name() string { return "disconnect-management-domain" }

func (*disconnectLabPhase) Provision(ctx *Context) error {
	if ctx.State.Lab == nil {
		return nil
	}
	ctx.Log.Printf("closing management appliance session")
	if err := ctx.State.Lab.Disconnect(ctx); err != nil {
		ctx.Log.Warnf("failed to close management appliance session: %v", err)
	}
	return nil
}

// createDomainPhase builds the lab's datacenter and storage-enabled
// cluster inside the management appliance.
type createDomainPhase struct{}

func (*createDomainPhase) Name() string { return "create-domain-and-cluster" }

func (*createDomainPhase) Provision(ctx *Context) error {
	lab := ctx.Config.Lab

	ctx.Log.Printf("creating datacenter %s", lab.Datacenter)
	if err := ctx.State.Lab.CreateDatacenter(ctx, lab.Datacenter); err != nil {
		return fmt.Errorf("create datacenter %s: %w", lab.Datacenter, err)
	}

	ctx.Log.Printf("creating storage-enabled cluster %s", lab.Cluster)
	if err := ctx.State.Lab.CreateCluster(ctx, lab.Datacenter, lab.Cluster, true); err != nil {
		return fmt.Errorf("create cluster %s: %w", lab.Cluster, err)
	}
	return nil
}

// admitNodesPhase joins every cluster node into the new cluster. Node
// admissions are independent of each other, so they run concurrently.
type admitNodesPhase struct{}

func (*admitNodesPhase) Name() string { return "admit-cluster-nodes" }

func (*admitNodesPhase) Provision(ctx *Context) error {
	user, pass := ctx.NodeCredential()

	tasks := make([]async.Task, 0, len(ctx.Plan.Nodes))
	for _, node := range ctx.Plan.Nodes {
		node := node
		address := ctx.NodeAddress(node)
		tasks = append(tasks, async.Task{
			Name: node.Name,
			Func: func(taskCtx context.Context) error {
				ctx.Log.Printf("admitting node %s as %s", node.Name, address)
				spec := vi.HostConnectSpec{Address: address, Username: user, Password: pass}
				return ctx.State.Lab.AddHost(taskCtx, ctx.Config.Lab.Cluster, spec)
			},
		})
	}

	return async.RunParallel(ctx, tasks)
}
