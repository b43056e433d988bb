package plan

import (
	"errors"
	"fmt"
	"sort"

	version "github.com/hashicorp/go-version"
	"github.com/samber/lo"

	"github.com/nestedlab/vlabctl/internal/config"
	"github.com/nestedlab/vlabctl/internal/platform/vi"
)

// ErrConfiguration indicates the operator input is internally
// inconsistent. Raised during planning, before anything is mutated.
var ErrConfiguration = errors.New("configuration error")

// ProbedFacts are the environment facts resolved at run time rather than
// supplied by the operator.
type ProbedFacts struct {
	ControlPlaneKind vi.ControlPlaneKind
	SoftwareVersion  *version.Version
	// OverlayToolPresent reports whether the companion deployment tool
	// required for overlay-manager setup is available.
	OverlayToolPresent bool
}

// Build computes the DeploymentPlan for the given input and facts.
func Build(cfg *config.Config, facts ProbedFacts) (*DeploymentPlan, error) {
	if facts.SoftwareVersion == nil {
		return nil, fmt.Errorf("%w: software version was not resolved", ErrConfiguration)
	}

	p := &DeploymentPlan{
		Topology:         cfg.Topology,
		ControlPlaneKind: facts.ControlPlaneKind,
		SoftwareVersion:  facts.SoftwareVersion,
		KeySet:           SelectKeySet(facts.SoftwareVersion),
	}

	// Overlay eligibility. Self-hosted plus overlay is an unsupported
	// combination: warn and disable, never fail.
	if cfg.OverlayRequested() {
		if cfg.Topology == config.TopologySelfHosted {
			p.Warnings = append(p.Warnings, "overlay-manager deployment is not supported with the self-hosted topology; continuing without it")
		} else {
			p.IncludeOverlay = true
		}
	}

	// Patch eligibility: the bundle must target the resolved version.
	if cfg.Images.PatchBundle != "" {
		eligible, warn := patchApplies(cfg.Images.PatchTargetVersion, facts.SoftwareVersion)
		p.PatchNodes = eligible
		if warn != "" {
			p.Warnings = append(p.Warnings, warn)
		}
	}

	// Overlay preconditions are checked together, before the
	// confirmation prompt, so the operator never sees a half-confirmed
	// plan.
	if p.IncludeOverlay {
		var missing []string
		if !facts.OverlayToolPresent {
			missing = append(missing, "the overlay deployment tool is not available")
		}
		if cfg.Images.PatchBundle == "" {
			missing = append(missing, "overlay deployment requires a node patch bundle (images.patchBundle)")
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrConfiguration, joinList(missing))
		}

		// The overlay manager needs a minimum node patch level, so
		// overlay deployment forces patching on even when the bundle's
		// declared target would have skipped it.
		if !p.PatchNodes {
			p.PatchNodes = true
			p.Warnings = append(p.Warnings, "overlay-manager deployment requires patched nodes; enabling the patch phase")
		}
	}

	var sizingWarnings []string
	p.NodeSizing, sizingWarnings = ResolveSizing(cfg.NodeSizing, cfg.Topology)
	p.Warnings = append(p.Warnings, sizingWarnings...)

	names := lo.Keys(cfg.Nodes)
	sort.Strings(names)
	p.Nodes = make([]ClusterNode, 0, len(names))
	for _, name := range names {
		p.Nodes = append(p.Nodes, ClusterNode{Name: name, IP: cfg.Nodes[name], Sizing: p.NodeSizing})
	}

	if cfg.Topology == config.TopologySelfHosted {
		if len(p.Nodes) == 0 {
			return nil, fmt.Errorf("%w: self-hosted topology requires at least one node", ErrConfiguration)
		}
		p.BootstrapNode = &p.Nodes[0]
	}

	return p, nil
}

// patchApplies reports whether a patch bundle declared for targetVersion
// applies to the resolved media version. Matching is on the major.minor
// pair.
func patchApplies(targetVersion string, resolved *version.Version) (bool, string) {
	if targetVersion == "" {
		return false, "images.patchBundle has no declared target version; skipping the patch phase"
	}

	target, err := version.NewVersion(targetVersion)
	if err != nil {
		return false, fmt.Sprintf("images.patchTargetVersion %q is not parseable; skipping the patch phase", targetVersion)
	}

	if target.Segments()[0] != resolved.Segments()[0] || target.Segments()[1] != resolved.Segments()[1] {
		return false, fmt.Sprintf("patch bundle targets %s but install media is %s; skipping the patch phase", target, resolved)
	}
	return true, ""
}

func joinList(items []string) string {
	out := items[0]
	for _, item := range items[1:] {
		out += "; " + item
	}
	return out
}
