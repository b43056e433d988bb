package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	version "github.com/hashicorp/go-version"

	"github.com/nestedlab/vlabctl/internal/config"
	"github.com/nestedlab/vlabctl/internal/plan"
	"github.com/nestedlab/vlabctl/internal/platform/vi"
	"github.com/nestedlab/vlabctl/internal/provisioning"
)

func summaryFixtures() (*config.Config, *plan.DeploymentPlan) {
	cfg := &config.Config{
		ControlPlane: config.Endpoint{Address: "infra.lab.local"},
		Appliance:    config.Appliance{Name: "lab-mgmt", IP: "10.0.0.20"},
		Lab:          config.Lab{Datacenter: "lab-dc", Cluster: "lab-cluster"},
	}
	sizing := config.Sizing{VCPU: 4, MemoryGB: 32, CacheDiskGB: 16, CapacityDiskGB: 200}
	p := &plan.DeploymentPlan{
		Topology:         config.TopologySelfHosted,
		ControlPlaneKind: vi.KindClusterManager,
		SoftwareVersion:  version.Must(version.NewVersion("6.5.0")),
		KeySet:           plan.KeySetCurrent,
		NodeSizing:       sizing,
		Nodes: []plan.ClusterNode{
			{Name: "node-1", IP: "10.0.0.11", Sizing: sizing},
			{Name: "node-2", IP: "10.0.0.12", Sizing: sizing},
		},
		Warnings: []string{"requested memory 8 GB is below the self-hosted minimum, raising to 32 GB"},
	}
	p.BootstrapNode = &p.Nodes[0]
	return cfg, p
}

func TestRenderPlanSummary(t *testing.T) {
	t.Parallel()

	cfg, p := summaryFixtures()
	out := RenderPlanSummary(cfg, p)

	assert.Contains(t, out, "lab-dc")
	assert.Contains(t, out, "self-hosted")
	assert.Contains(t, out, "6.5.0")
	assert.Contains(t, out, "node-1")
	assert.Contains(t, out, "bootstrap seed")
	assert.Contains(t, out, "raising to 32 GB")
	// No overlay section without an overlay plan.
	assert.NotContains(t, out, "Overlay Manager")
}

func TestRenderPlanSummaryWithOverlay(t *testing.T) {
	t.Parallel()

	cfg, p := summaryFixtures()
	cfg.Overlay = &config.Overlay{Name: "lab-overlay", IP: "10.0.0.30", TransportSubnet: "172.16.10.0"}
	p.IncludeOverlay = true

	out := RenderPlanSummary(cfg, p)
	assert.Contains(t, out, "Overlay Manager")
	assert.Contains(t, out, "172.16.10.0")
}

func TestConfirmAssumeYesSkipsPrompt(t *testing.T) {
	require.NoError(t, Confirm(true))
}

func TestConfirmRefusesNonInteractiveSession(t *testing.T) {
	orig := stdoutIsTerminal
	stdoutIsTerminal = func() bool { return false }
	defer func() { stdoutIsTerminal = orig }()

	err := Confirm(false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAborted)
	assert.Contains(t, err.Error(), "--yes")
}

func TestRenderTimings(t *testing.T) {
	t.Parallel()

	out := RenderTimings(
		[]provisioning.PhaseTiming{
			{Name: "deploy-cluster-nodes", Duration: 3 * time.Minute},
			{Name: "deploy-management-appliance", Duration: 12 * time.Minute},
		},
		map[string]time.Duration{
			"node-2": 70 * time.Second,
			"node-1": 65 * time.Second,
		},
	)

	assert.Contains(t, out, "deploy-cluster-nodes")
	assert.Contains(t, out, "12m0s")
	assert.Contains(t, out, "completed in 15m0s")

	// Node rows are sorted by name.
	assert.Less(t, strings.Index(out, "node-1"), strings.Index(out, "node-2"))
}

func TestLogTimingsWritesPlainRows(t *testing.T) {
	t.Parallel()

	var lines []string
	LogTimings(
		func(format string, args ...any) {
			lines = append(lines, fmt.Sprintf(format, args...))
		},
		[]provisioning.PhaseTiming{
			{Name: "deploy-cluster-nodes", Duration: 3 * time.Minute},
			{Name: "deploy-management-appliance", Duration: 12 * time.Minute},
		},
		map[string]time.Duration{
			"node-2": 70 * time.Second,
			"node-1": 65 * time.Second,
		},
	)

	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "phase durations:")
	assert.Contains(t, joined, "deploy-management-appliance")
	assert.Contains(t, joined, "deployment completed in 15m0s")
	assert.Less(t, strings.Index(joined, "node-1"), strings.Index(joined, "node-2"))
}
