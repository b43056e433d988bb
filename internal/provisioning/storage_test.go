package provisioning

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestedlab/vlabctl/internal/config"
	"github.com/nestedlab/vlabctl/internal/platform/vi"
)

func TestDiskGroupsBuildsOnePerHost(t *testing.T) {
	t.Parallel()

	ctx, _, lab, _ := testContext(t, testConfig(), testPlan(testConfig(), config.TopologyStandard))
	ctx.State.Lab = lab

	lab.ListHostsFunc = func(context.Context) ([]vi.Host, error) {
		return clusterHosts(), nil
	}
	lab.ListEligibleDisksFunc = func(_ context.Context, host string) ([]vi.Disk, error) {
		return []vi.Disk{
			{ID: host + "-cache", SizeGB: 16},
			{ID: host + "-capacity", SizeGB: 200},
		}, nil
	}

	require.NoError(t, (&diskGroupsPhase{}).Provision(ctx))

	assert.Equal(t, 3, lab.CallCount("CreateDiskGroup"))
	assert.Equal(t, 3, lab.CallCount("WaitTask"))
}

func TestClearAlarmsAcknowledgesEverything(t *testing.T) {
	t.Parallel()

	ctx, _, lab, _ := testContext(t, testConfig(), testPlan(testConfig(), config.TopologyStandard))
	ctx.State.Lab = lab

	lab.ListTriggeredAlarmsFunc = func(context.Context) ([]vi.Alarm, error) {
		return []vi.Alarm{
			{ID: "alarm-1", Entity: "lab-cluster", Name: "insufficient redundancy"},
			{ID: "alarm-2", Entity: "node-2", Name: "quorum lost"},
		}, nil
	}

	var acked []string
	lab.AcknowledgeAlarmFunc = func(_ context.Context, id string) error {
		acked = append(acked, id)
		return nil
	}

	require.NoError(t, (&clearAlarmsPhase{}).Provision(ctx))
	assert.Equal(t, []string{"alarm-1", "alarm-2"}, acked)
}

func TestClearAlarmsIsBestEffort(t *testing.T) {
	t.Parallel()

	ctx, _, lab, _ := testContext(t, testConfig(), testPlan(testConfig(), config.TopologyStandard))
	ctx.State.Lab = lab

	lab.ListTriggeredAlarmsFunc = func(context.Context) ([]vi.Alarm, error) {
		return []vi.Alarm{
			{ID: "alarm-1", Name: "stuck"},
			{ID: "alarm-2", Name: "also stuck"},
		}, nil
	}
	lab.AcknowledgeAlarmFunc = func(_ context.Context, id string) error {
		if id == "alarm-1" {
			return fmt.Errorf("alarm manager busy")
		}
		return nil
	}

	// A failed acknowledgement never fails the run, and the remaining
	// alarms are still attempted.
	require.NoError(t, (&clearAlarmsPhase{}).Provision(ctx))
	assert.Equal(t, 2, lab.CallCount("AcknowledgeAlarm"))
	assert.NotEmpty(t, ctx.Log.(*testLogger).warnings())
}

func TestClearAlarmsToleratesListFailure(t *testing.T) {
	t.Parallel()

	ctx, _, lab, _ := testContext(t, testConfig(), testPlan(testConfig(), config.TopologyStandard))
	ctx.State.Lab = lab

	lab.ListTriggeredAlarmsFunc = func(context.Context) ([]vi.Alarm, error) {
		return nil, fmt.Errorf("alarm service unavailable")
	}

	require.NoError(t, (&clearAlarmsPhase{}).Provision(ctx))
	assert.Zero(t, lab.CallCount("AcknowledgeAlarm"))
}

func TestExitMaintenanceCoversEveryNode(t *testing.T) {
	t.Parallel()

	ctx, _, lab, _ := testContext(t, testConfig(), testPlan(testConfig(), config.TopologyStandard))
	ctx.State.Lab = lab

	var hosts []string
	lab.ExitMaintenanceModeFunc = func(_ context.Context, host string) error {
		hosts = append(hosts, host)
		return nil
	}

	require.NoError(t, (&exitMaintenancePhase{}).Provision(ctx))
	assert.Equal(t, []string{"node-1.lab.local", "node-2.lab.local", "node-3.lab.local"}, hosts)
}
