package plan

import (
	version "github.com/hashicorp/go-version"

	"github.com/nestedlab/vlabctl/internal/config"
	"github.com/nestedlab/vlabctl/internal/platform/vi"
)

// ClusterNode is one planned hypervisor VM. Sizing is copied from the
// resolved plan sizing at plan time and never recomputed per node.
type ClusterNode struct {
	Name   string
	IP     string
	Sizing config.Sizing
}

// DeploymentPlan is the immutable result of planning, computed once per
// run from operator input and probed facts.
type DeploymentPlan struct {
	Topology         config.Topology
	ControlPlaneKind vi.ControlPlaneKind
	SoftwareVersion  *version.Version
	KeySet           KeySet

	// IncludeOverlay is true only when an overlay install path was
	// supplied and the topology is standard.
	IncludeOverlay bool
	// PatchNodes is true when the offline patch bundle applies to the
	// resolved software version, or when overlay deployment forces it.
	PatchNodes bool

	NodeSizing config.Sizing
	// Nodes is sorted by name so repeated runs against the same input
	// produce deterministic ordering.
	Nodes []ClusterNode
	// BootstrapNode is set iff Topology is self-hosted. It is the
	// lexically first node, so planning is reproducible.
	BootstrapNode *ClusterNode

	// Warnings are informational planning notes, already logged but kept
	// for the confirmation summary.
	Warnings []string
}

// SelfHosted reports whether the plan uses the self-hosted topology.
func (p *DeploymentPlan) SelfHosted() bool {
	return p.Topology == config.TopologySelfHosted
}

// NodeNames returns the node names in plan order.
func (p *DeploymentPlan) NodeNames() []string {
	names := make([]string, len(p.Nodes))
	for i, n := range p.Nodes {
		names[i] = n.Name
	}
	return names
}
