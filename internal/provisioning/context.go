package provisioning

import (
	"context"
	"fmt"
	"time"

	"github.com/nestedlab/vlabctl/internal/config"
	"github.com/nestedlab/vlabctl/internal/plan"
	"github.com/nestedlab/vlabctl/internal/platform/esx"
	"github.com/nestedlab/vlabctl/internal/platform/installer"
	"github.com/nestedlab/vlabctl/internal/platform/overlay"
	"github.com/nestedlab/vlabctl/internal/platform/vi"
)

// Logger is the run-log surface phases write to. Implemented by
// runlog.Logger; constructed once per run and injected, never global.
type Logger interface {
	Printf(format string, args ...any)
	Warnf(format string, args ...any)
}

// InstallerRunner invokes the appliance installer. Implemented by
// installer.Runner; faked in tests.
type InstallerRunner interface {
	Run(ctx context.Context, doc installer.Document) error
}

// PhaseTiming is the recorded duration of one completed phase.
type PhaseTiming struct {
	Name     string
	Duration time.Duration
}

// Waits bounds the polling loops. Zero values fall back to the esx
// package defaults.
type Waits struct {
	ReachableInterval time.Duration
	ReachableTimeout  time.Duration
}

// State holds the shared results of provisioning phases. It is
// progressively populated as each phase completes and read by later
// phases that need earlier results.
type State struct {
	// Resolution results, populated before the pipeline starts.
	Storage *vi.StorageResource
	Network *vi.NetworkTarget

	// VM handles by node name, populated by the node deployment phase.
	NodeVMs   map[string]vi.VM
	OverlayVM *vi.VM

	// Lab is the session to the newly deployed management appliance,
	// opened only after the outer control-plane session is closed.
	Lab vi.API

	// Timing results, fed into the final report.
	Timings       []PhaseTiming
	NodeDurations map[string]time.Duration
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{
		NodeVMs:       make(map[string]vi.VM),
		NodeDurations: make(map[string]time.Duration),
	}
}

// Context wraps all dependencies and state needed by the phases.
type Context struct {
	context.Context

	Config *config.Config
	Plan   *plan.DeploymentPlan
	State  *State

	// Infra is the session to the original outer control plane. It is
	// single-owner: used serially and closed before Lab is opened.
	Infra vi.API

	// DialLab opens the session to the newly deployed appliance.
	DialLab func(ctx context.Context) (vi.API, error)
	// DialNode opens a direct session to one hypervisor node. Sessions
	// are scoped to the phase that opened them.
	DialNode esx.Dialer
	// DialOverlay opens the session to the overlay manager.
	DialOverlay overlay.Dialer

	Installer InstallerRunner
	Log       Logger
	Waits     Waits
}

// NodeAddress returns the address used when admitting or connecting to a
// node: its name (qualified with the lab domain when one is configured)
// or its management address, per operator preference.
func (c *Context) NodeAddress(node plan.ClusterNode) string {
	if c.Config.Options.AddressNodesByIP {
		return node.IP
	}
	if c.Config.NodeNetwork.Domain != "" {
		return node.Name + "." + c.Config.NodeNetwork.Domain
	}
	return node.Name
}

// NodeCredential returns the node-local admin credential set during
// guest customization.
func (c *Context) NodeCredential() (string, string) {
	return "root", c.Config.NodeNetwork.Password
}

// DialNodeReachable opens a direct node session, waiting for the node to
// become responsive first. Wait bounds come from Waits, falling back to
// the esx package defaults.
func (c *Context) DialNodeReachable(address, username, password string) (esx.API, error) {
	api, err := esx.WaitReachable(c, c.DialNode, address, username, password,
		c.Waits.ReachableInterval, c.Waits.ReachableTimeout)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExternalOperation, err)
	}
	return api, nil
}
