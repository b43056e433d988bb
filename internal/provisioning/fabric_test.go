package provisioning

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nestedlab/vlabctl/internal/config"
	"github.com/nestedlab/vlabctl/internal/platform/vi"
)

func overlayConfig() *config.Config {
	cfg := testConfig()
	cfg.Overlay = &config.Overlay{
		Name:            "lab-overlay",
		IP:              "10.0.0.30",
		Password:        "overlay-secret",
		TransportSubnet: "172.16.10.0",
		Netmask:         "255.255.255.0",
		Uplink:          "vmnic1",
	}
	cfg.Images.OverlayManagerImage = "/images/overlay.ova"
	return cfg
}

func clusterHosts() []vi.Host {
	return []vi.Host{
		{Name: "node-1", ManagementIP: "10.0.0.11"},
		{Name: "node-2", ManagementIP: "10.0.0.12"},
		{Name: "node-3", ManagementIP: "10.0.0.13"},
	}
}

func TestTransportAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		subnet       string
		managementIP string
		want         string
		wantErr      bool
	}{
		{name: "basic", subnet: "172.16.10.0", managementIP: "10.0.0.11", want: "172.16.10.11"},
		{name: "high last octet", subnet: "192.168.130.0", managementIP: "10.20.30.254", want: "192.168.130.254"},
		{name: "bad subnet", subnet: "172.16.10", managementIP: "10.0.0.11", wantErr: true},
		{name: "bad management address", subnet: "172.16.10.0", managementIP: "node-1", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := transportAddress(tt.subnet, tt.managementIP)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOverlayFabricWiresEveryHost(t *testing.T) {
	t.Parallel()

	cfg := overlayConfig()
	p := testPlan(cfg, config.TopologyStandard)
	p.IncludeOverlay = true
	ctx, _, lab, _ := testContext(t, cfg, p)
	ctx.State.Lab = lab

	lab.ListHostsFunc = func(context.Context) ([]vi.Host, error) {
		return clusterHosts(), nil
	}

	var uplinks []string
	lab.AddUplinkFunc = func(_ context.Context, swtch, host, device string) error {
		assert.Equal(t, overlaySwitchName, swtch)
		uplinks = append(uplinks, host+":"+device)
		return nil
	}

	kernelAddrs := map[string]string{}
	lab.CreateKernelInterfaceFunc = func(_ context.Context, host, portGroup, address, netmask string) error {
		assert.Equal(t, overlayPortGroupName, portGroup)
		assert.Equal(t, "255.255.255.0", netmask)
		kernelAddrs[host] = address
		return nil
	}

	require.NoError(t, (&overlayFabricPhase{}).Provision(ctx))

	assert.Equal(t, 1, lab.CallCount("CreateDistributedSwitch"))
	assert.Equal(t, 1, lab.CallCount("CreatePortGroup"))
	assert.Equal(t, 3, lab.CallCount("AddHostToSwitch"))

	assert.Equal(t, []string{"node-1:vmnic1", "node-2:vmnic1", "node-3:vmnic1"}, uplinks)
	assert.Equal(t, map[string]string{
		"node-1": "172.16.10.11",
		"node-2": "172.16.10.12",
		"node-3": "172.16.10.13",
	}, kernelAddrs)
}

func TestOverlayFabricSwitchBeforeHostAttachment(t *testing.T) {
	t.Parallel()

	cfg := overlayConfig()
	p := testPlan(cfg, config.TopologyStandard)
	p.IncludeOverlay = true
	ctx, _, lab, _ := testContext(t, cfg, p)
	ctx.State.Lab = lab

	lab.ListHostsFunc = func(context.Context) ([]vi.Host, error) {
		return clusterHosts(), nil
	}

	require.NoError(t, (&overlayFabricPhase{}).Provision(ctx))

	names := lab.Calls
	assert.Less(t, indexOf(names, "CreateDistributedSwitch"), indexOf(names, "CreatePortGroup"))
	assert.Less(t, indexOf(names, "CreatePortGroup"), indexOf(names, "AddHostToSwitch"))
}
