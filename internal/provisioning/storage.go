package provisioning

import (
	"fmt"

	"github.com/nestedlab/vlabctl/internal/platform/esx"
	"github.com/nestedlab/vlabctl/internal/provisioning/diskgroup"
)

// diskGroupsPhase builds one storage disk group per cluster node through
// the management appliance. Nodes already contributing a group, such as a
// self-hosted seed, are left alone.
type diskGroupsPhase struct{}

func (*diskGroupsPhase) Name() string { return "build-storage-disk-groups" }

func (*diskGroupsPhase) Provision(ctx *Context) error {
	coord := &diskgroup.Coordinator{
		API: ctx.State.Lab,
		Log: ctx.Log,
		Sizing: diskgroup.Sizing{
			CacheGB:    ctx.Plan.NodeSizing.CacheDiskGB,
			CapacityGB: ctx.Plan.NodeSizing.CapacityDiskGB,
		},
	}

	hosts, err := ctx.State.Lab.ListHosts(ctx)
	if err != nil {
		return fmt.Errorf("list cluster hosts: %w", err)
	}
	names := make([]string, len(hosts))
	for i, h := range hosts {
		names[i] = h.Name
	}

	if err := coord.Build(ctx, names); err != nil {
		return fmt.Errorf("%w: %w", ErrExternalOperation, err)
	}
	return nil
}

// clearAlarmsPhase acknowledges alarms that trigger spuriously while the
// cluster assembles, mostly quorum and redundancy complaints raised before
// all nodes had joined. Housekeeping only: failures are logged, never
// propagated.
type clearAlarmsPhase struct{}

func (*clearAlarmsPhase) Name() string { return "clear-stale-alarms" }

func (*clearAlarmsPhase) Provision(ctx *Context) error {
	alarms, err := ctx.State.Lab.ListTriggeredAlarms(ctx)
	if err != nil {
		ctx.Log.Warnf("failed to list triggered alarms: %v", err)
		return nil
	}

	for _, alarm := range alarms {
		if err := ctx.State.Lab.AcknowledgeAlarm(ctx, alarm.ID); err != nil {
			ctx.Log.Warnf("failed to acknowledge alarm %s on %s: %v", alarm.Name, alarm.Entity, err)
			continue
		}
		ctx.Log.Printf("acknowledged alarm %s on %s", alarm.Name, alarm.Entity)
	}
	return nil
}

// exitMaintenancePhase takes every node out of maintenance mode so the
// cluster begins scheduling. Nodes enter maintenance during patching and
// self-hosted bootstrap; freshly deployed nodes exit as a no-op.
type exitMaintenancePhase struct{}

func (*exitMaintenancePhase) Name() string { return "exit-maintenance-mode" }

func (*exitMaintenancePhase) Provision(ctx *Context) error {
	for _, node := range ctx.Plan.Nodes {
		if err := ctx.State.Lab.ExitMaintenanceMode(ctx, ctx.NodeAddress(node)); err != nil {
			return fmt.Errorf("node %s: exit maintenance: %w", node.Name, err)
		}
		ctx.Log.Printf("node %s left maintenance mode", node.Name)
	}
	return nil
}

// restorePolicyPhase restores the default storage redundancy policy on
// the seed node once the full cluster can actually sustain it.
type restorePolicyPhase struct{}

func (*restorePolicyPhase) Name() string { return "restore-storage-policy" }

func (*restorePolicyPhase) Provision(ctx *Context) error {
	seed := ctx.Plan.BootstrapNode
	user, pass := ctx.NodeCredential()

	api, err := ctx.DialNode(ctx, seed.IP, user, pass)
	if err != nil {
		return fmt.Errorf("connect to seed node %s: %w", seed.Name, err)
	}
	defer api.Disconnect(ctx)

	if err := api.SetStoragePolicy(ctx, esx.PolicyDefault); err != nil {
		return fmt.Errorf("restore storage policy on %s: %w", seed.Name, err)
	}
	ctx.Log.Printf("seed node %s restored to the default storage policy", seed.Name)
	return nil
}
