package provisioning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestedlab/vlabctl/internal/config"
	"github.com/nestedlab/vlabctl/internal/plan"
	"github.com/nestedlab/vlabctl/internal/platform/esx"
	"github.com/nestedlab/vlabctl/internal/platform/overlay"
	"github.com/nestedlab/vlabctl/internal/platform/vi"
)

// The scenarios below run the assembled pipeline end to end against
// mocks, checking the cross-phase contracts that no single-phase test
// can see.

func eligibleNodeDisks(host string) []vi.Disk {
	return []vi.Disk{
		{ID: host + "-cache", SizeGB: 16},
		{ID: host + "-capacity", SizeGB: 200},
	}
}

func countCalls(names []string, call string) int {
	n := 0
	for _, c := range names {
		if c == call {
			n++
		}
	}
	return n
}

func TestScenarioStandardThreeNodeCluster(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	p := testPlan(cfg, config.TopologyStandard)
	ctx, infra, lab, _ := testContext(t, cfg, p)

	lab.ListHostsFunc = func(context.Context) ([]vi.Host, error) {
		return clusterHosts(), nil
	}
	lab.ListEligibleDisksFunc = func(_ context.Context, host string) ([]vi.Disk, error) {
		return eligibleNodeDisks(host), nil
	}

	phases := BuildPhases(SelectPhases(p), nil)
	require.NoError(t, RunPhases(ctx, phases))

	// Three nodes imported, sized and powered on against the outer
	// control plane; the appliance installed once.
	assert.Equal(t, 3, infra.CallCount("ImportVM"))
	assert.Equal(t, 3, infra.CallCount("ReconfigureVM"))
	assert.Equal(t, 3, infra.CallCount("PowerOnVM"))
	require.Len(t, ctx.Installer.(*fakeInstaller).docs, 1)

	// The outer session closed exactly once, before lab-side work began,
	// and the lab session closed once the run finished with it.
	assert.Equal(t, 1, infra.CallCount("Disconnect"))
	assert.Equal(t, 1, lab.CallCount("Disconnect"))

	// Domain built and every node admitted on the lab side.
	assert.Equal(t, 1, lab.CallCount("CreateDatacenter"))
	assert.Equal(t, 1, lab.CallCount("CreateCluster"))
	assert.Equal(t, 3, lab.CallCount("AddHost"))

	// One disk group per node, every submission joined before alarm
	// housekeeping ran.
	assert.Equal(t, 3, lab.CallCount("CreateDiskGroup"))
	assert.Equal(t, 3, lab.CallCount("WaitTask"))
	lastJoin, alarmList := -1, -1
	for i, call := range lab.Calls {
		switch call {
		case "WaitTask":
			lastJoin = i
		case "ListTriggeredAlarms":
			alarmList = i
		}
	}
	require.GreaterOrEqual(t, alarmList, 0)
	assert.Less(t, lastJoin, alarmList)

	// No overlay work, no bare-hypervisor handling.
	assert.Zero(t, lab.CallCount("CreateDistributedSwitch"))
	assert.Zero(t, infra.CallCount("SetHostOption"))

	// Every selected phase reported a timing.
	assert.Len(t, ctx.State.Timings, len(phases))
}

func TestScenarioSelfHostedBootstrap(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Topology = config.TopologySelfHosted
	cfg.NodeSizing.MemoryGB = 8

	sizing, warnings := plan.ResolveSizing(cfg.NodeSizing, cfg.Topology)
	require.Len(t, warnings, 1)
	require.Equal(t, plan.FloorMemoryGB, sizing.MemoryGB)

	p := testPlan(cfg, config.TopologySelfHosted)
	require.NotNil(t, p.BootstrapNode)
	assert.Equal(t, "node-1", p.BootstrapNode.Name)

	ctx, infra, lab, node := testContext(t, cfg, p)

	node.ListLocalDisksFunc = func(context.Context) ([]esx.Disk, error) {
		return []esx.Disk{
			{ID: "seed-cache", SizeGB: 16},
			{ID: "seed-capacity", SizeGB: 200},
		}, nil
	}

	lab.ListHostsFunc = func(context.Context) ([]vi.Host, error) {
		return clusterHosts(), nil
	}
	// The seed already contributes its bootstrap disk group.
	lab.HasDiskGroupFunc = func(_ context.Context, host string) (bool, error) {
		return host == "node-1", nil
	}
	lab.ListEligibleDisksFunc = func(_ context.Context, host string) ([]vi.Disk, error) {
		return eligibleNodeDisks(host), nil
	}

	var groupedVMs []string
	infra.MoveIntoFolderFunc = func(_ context.Context, _ string, vms []string) error {
		groupedVMs = vms
		return nil
	}

	phases := BuildPhases(SelectPhases(p), nil)
	require.NoError(t, RunPhases(ctx, phases))

	// Seed bootstrap ran against the lexically first node and the
	// deployed nodes carry the floored memory.
	assert.Contains(t, node.CallNames(), "EnableStorageCluster")
	assert.Equal(t, plan.FloorMemoryGB, p.Nodes[0].Sizing.MemoryGB)

	// Only the two non-seed nodes got new disk groups.
	assert.Equal(t, 2, lab.CallCount("CreateDiskGroup"))
	assert.Equal(t, 2, lab.CallCount("WaitTask"))

	// The installer targeted the seed, not the outer control plane.
	docs := ctx.Installer.(*fakeInstaller).docs
	require.Len(t, docs, 1)
	require.NotNil(t, docs[0].Current)
	assert.Equal(t, "10.0.0.11", docs[0].Current.New.ESX.Hostname)
	assert.Equal(t, "vsanDatastore", docs[0].Current.New.ESX.Datastore)

	// The default storage policy was restored at the very end.
	names := node.CallNames()
	require.GreaterOrEqual(t, len(names), 2)
	assert.Equal(t, "SetStoragePolicy", names[len(names)-2])
	assert.Equal(t, "Disconnect", names[len(names)-1])

	// Folder grouping on the outer side excluded the appliance; it lives
	// on the bootstrapped cluster.
	assert.Equal(t, []string{"node-1", "node-2", "node-3"}, groupedVMs)

	assert.Equal(t, 1, lab.CallCount("Disconnect"))
}

func TestScenarioOverlayDeployment(t *testing.T) {
	t.Parallel()

	cfg := overlayConfig()
	cfg.Images.PatchBundle = "/media/patch.zip"
	cfg.Images.PatchTargetVersion = "6.5.0"
	p := testPlan(cfg, config.TopologyStandard)
	p.IncludeOverlay = true
	p.PatchNodes = true
	ctx, infra, lab, node := testContext(t, cfg, p)

	lab.ListHostsFunc = func(context.Context) ([]vi.Host, error) {
		return clusterHosts(), nil
	}
	lab.ListEligibleDisksFunc = func(_ context.Context, host string) ([]vi.Disk, error) {
		return eligibleNodeDisks(host), nil
	}

	overlayMock := &overlay.MockClient{}
	ctx.DialOverlay = func(context.Context, string, string, string) (overlay.API, error) {
		return overlayMock, nil
	}

	phases := BuildPhases(SelectPhases(p), nil)
	require.NoError(t, RunPhases(ctx, phases))

	// Three nodes plus the overlay manager VM imported.
	assert.Equal(t, 4, infra.CallCount("ImportVM"))
	require.NotNil(t, ctx.State.OverlayVM)

	// Every node went through the patch cycle.
	assert.Equal(t, 3, countCalls(node.CallNames(), "InstallPatch"))

	// Fabric built on the lab side, the manager registered against the
	// finished lab, and its session closed.
	assert.Equal(t, 1, lab.CallCount("CreateDistributedSwitch"))
	assert.Equal(t, 3, lab.CallCount("CreateKernelInterface"))
	require.Len(t, overlayMock.ComputeManagers, 1)
	assert.Equal(t, cfg.Appliance.IP, overlayMock.ComputeManagers[0].Address)
	require.Len(t, overlayMock.IdentitySources, 1)
	assert.Equal(t, 1, overlayMock.CallCount("Disconnect"))

	// Registration ran through a live lab session; it was closed after.
	assert.Equal(t, 1, lab.CallCount("Disconnect"))
	assert.Equal(t, "Disconnect", lab.Calls[len(lab.Calls)-1])
}
