package provisioning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestedlab/vlabctl/internal/config"
	"github.com/nestedlab/vlabctl/internal/platform/vi"
)

func phaseNames(phases []Phase) []string {
	names := make([]string, len(phases))
	for i, p := range phases {
		names[i] = p.Name()
	}
	return names
}

func TestSelectPhasesStandardClusterManager(t *testing.T) {
	t.Parallel()

	p := testPlan(testConfig(), config.TopologyStandard)
	sel := SelectPhases(p)

	assert.False(t, sel.StorageCompat)
	assert.True(t, sel.GroupVMs)
	assert.False(t, sel.BootstrapSeed)
	assert.False(t, sel.RestorePolicy)
	assert.False(t, sel.DeployOverlayVM)
	assert.False(t, sel.PatchNodes)

	names := phaseNames(BuildPhases(sel, nil))
	assert.Equal(t, []string{
		"deploy-cluster-nodes",
		"deploy-management-appliance",
		"group-lab-vms",
		"connect-management-domain",
		"create-domain-and-cluster",
		"admit-cluster-nodes",
		"build-storage-disk-groups",
		"clear-stale-alarms",
		"exit-maintenance-mode",
		"disconnect-management-domain",
	}, names)
}

func TestSelectPhasesBareHypervisor(t *testing.T) {
	t.Parallel()

	p := testPlan(testConfig(), config.TopologyStandard)
	p.ControlPlaneKind = vi.KindHypervisor
	sel := SelectPhases(p)

	assert.True(t, sel.StorageCompat)
	// Bare hypervisors have no folder-capable inventory.
	assert.False(t, sel.GroupVMs)

	names := phaseNames(BuildPhases(sel, nil))
	assert.Equal(t, "enable-storage-compat", names[0])
	assert.NotContains(t, names, "group-lab-vms")
}

func TestSelectPhasesSelfHosted(t *testing.T) {
	t.Parallel()

	p := testPlan(testConfig(), config.TopologySelfHosted)
	sel := SelectPhases(p)

	assert.True(t, sel.BootstrapSeed)
	assert.True(t, sel.RestorePolicy)
	assert.False(t, sel.DeployOverlayVM)

	names := phaseNames(BuildPhases(sel, nil))
	require.Contains(t, names, "bootstrap-seed-node")
	require.Contains(t, names, "restore-storage-policy")

	// The seed is bootstrapped before the appliance installs onto it, and
	// the policy is restored only after every node admission completes.
	assert.Less(t, indexOf(names, "bootstrap-seed-node"), indexOf(names, "deploy-management-appliance"))
	assert.Greater(t, indexOf(names, "restore-storage-policy"), indexOf(names, "admit-cluster-nodes"))
}

func TestSelectPhasesOverlay(t *testing.T) {
	t.Parallel()

	p := testPlan(testConfig(), config.TopologyStandard)
	p.IncludeOverlay = true
	p.PatchNodes = true
	sel := SelectPhases(p)

	names := phaseNames(BuildPhases(sel, nil))
	require.Contains(t, names, "deploy-overlay-manager-vm")
	require.Contains(t, names, "patch-cluster-nodes")
	require.Contains(t, names, "setup-overlay-fabric")
	require.Contains(t, names, "register-overlay-manager")

	// Registration happens inside a live lab session, right before the
	// terminal disconnect; the fabric exists before disk groups build.
	assert.Equal(t, "disconnect-management-domain", names[len(names)-1])
	assert.Equal(t, "register-overlay-manager", names[len(names)-2])
	assert.Less(t, indexOf(names, "setup-overlay-fabric"), indexOf(names, "build-storage-disk-groups"))
}

func TestBuildPhasesSkipSuppressesWithoutReordering(t *testing.T) {
	t.Parallel()

	p := testPlan(testConfig(), config.TopologyStandard)
	sel := SelectPhases(p)

	full := phaseNames(BuildPhases(sel, nil))
	skipped := phaseNames(BuildPhases(sel, map[string]bool{"deploy-cluster-nodes": true}))

	assert.NotContains(t, skipped, "deploy-cluster-nodes")
	assert.Len(t, skipped, len(full)-1)

	// The remaining phases keep their relative order.
	assert.Equal(t, full[1:], skipped)
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
