package provisioning

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	version "github.com/hashicorp/go-version"

	"github.com/nestedlab/vlabctl/internal/config"
	"github.com/nestedlab/vlabctl/internal/plan"
	"github.com/nestedlab/vlabctl/internal/platform/esx"
	"github.com/nestedlab/vlabctl/internal/platform/installer"
	"github.com/nestedlab/vlabctl/internal/platform/overlay"
	"github.com/nestedlab/vlabctl/internal/platform/vi"
)

type testLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *testLogger) append(prefix, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, prefix+fmt.Sprintf(format, args...))
}

func (l *testLogger) Printf(format string, args ...any) { l.append("", format, args...) }
func (l *testLogger) Warnf(format string, args ...any)  { l.append("WARNING: ", format, args...) }

func (l *testLogger) warnings() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []string
	for _, line := range l.lines {
		if len(line) >= 8 && line[:8] == "WARNING:" {
			out = append(out, line)
		}
	}
	return out
}

type fakeInstaller struct {
	mu   sync.Mutex
	docs []installer.Document
	err  error
}

func (f *fakeInstaller) Run(_ context.Context, doc installer.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = append(f.docs, doc)
	return f.err
}

func testConfig() *config.Config {
	return &config.Config{
		Topology: config.TopologyStandard,
		ControlPlane: config.Endpoint{
			Address:  "infra.lab.local",
			Username: "administrator",
			Password: "infra-secret",
		},
		Placement: config.Placement{
			Datacenter: "outer-dc",
			Cluster:    "outer-cluster",
			Datastore:  "shared-pool",
			Network:    "lab-network",
		},
		Nodes: map[string]string{
			"node-1": "10.0.0.11",
			"node-2": "10.0.0.12",
			"node-3": "10.0.0.13",
		},
		NodeSizing: config.Sizing{VCPU: 4, MemoryGB: 16, CacheDiskGB: 16, CapacityDiskGB: 200},
		NodeNetwork: config.NodeNetwork{
			Netmask:  "255.255.255.0",
			Gateway:  "10.0.0.1",
			DNS:      []string{"10.0.0.2", "10.0.0.3"},
			NTP:      "10.0.0.2",
			Domain:   "lab.local",
			Password: "node-secret",
		},
		Images: config.Images{
			NodeImage:    "/images/node.ova",
			InstallMedia: "/media/appliance",
		},
		Appliance: config.Appliance{
			Name:           "lab-mgmt",
			Hostname:       "lab-mgmt.lab.local",
			IP:             "10.0.0.20",
			RootPassword:   "root-secret",
			DeploymentSize: "tiny",
		},
		Lab: config.Lab{
			Datacenter:     "lab-dc",
			Cluster:        "lab-cluster",
			Folder:         "lab",
			AdminUser:      "administrator@lab.local",
			AdminPassword:  "admin-secret",
			IdentityDomain: "lab.local",
		},
	}
}

func testPlan(cfg *config.Config, topology config.Topology) *plan.DeploymentPlan {
	sizing, _ := plan.ResolveSizing(cfg.NodeSizing, topology)

	nodes := []plan.ClusterNode{
		{Name: "node-1", IP: "10.0.0.11", Sizing: sizing},
		{Name: "node-2", IP: "10.0.0.12", Sizing: sizing},
		{Name: "node-3", IP: "10.0.0.13", Sizing: sizing},
	}

	p := &plan.DeploymentPlan{
		Topology:         topology,
		ControlPlaneKind: vi.KindClusterManager,
		SoftwareVersion:  version.Must(version.NewVersion("6.5.0")),
		KeySet:           plan.KeySetCurrent,
		NodeSizing:       sizing,
		Nodes:            nodes,
	}
	if topology == config.TopologySelfHosted {
		p.BootstrapNode = &p.Nodes[0]
	}
	return p
}

// testContext wires a full phase context against mocks. The returned
// esx mock is shared by every direct-node dial.
func testContext(t *testing.T, cfg *config.Config, p *plan.DeploymentPlan) (*Context, *vi.MockClient, *vi.MockClient, *esx.MockClient) {
	t.Helper()

	infra := &vi.MockClient{}
	lab := &vi.MockClient{}
	node := &esx.MockClient{}

	state := NewState()
	state.Storage = &vi.StorageResource{
		Name: cfg.Placement.Datastore,
		Pool: true,
		Volumes: []vi.Datastore{
			{Name: "shared-pool-1", FreeSpaceGB: 300},
			{Name: "shared-pool-2", FreeSpaceGB: 800},
		},
	}
	state.Network = &vi.NetworkTarget{Name: cfg.Placement.Network, Distributed: true}

	ctx := &Context{
		Context: context.Background(),
		Config:  cfg,
		Plan:    p,
		State:   state,
		Infra:   infra,
		DialLab: func(context.Context) (vi.API, error) { return lab, nil },
		DialNode: func(context.Context, string, string, string) (esx.API, error) {
			return node, nil
		},
		DialOverlay: func(context.Context, string, string, string) (overlay.API, error) {
			return &overlay.MockClient{}, nil
		},
		Installer: &fakeInstaller{},
		Log:       &testLogger{},
		Waits:     Waits{ReachableInterval: time.Millisecond, ReachableTimeout: time.Second},
	}
	return ctx, infra, lab, node
}
