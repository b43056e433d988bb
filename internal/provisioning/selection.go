package provisioning

import (
	"github.com/nestedlab/vlabctl/internal/plan"
	"github.com/nestedlab/vlabctl/internal/platform/vi"
)

// PhaseSelection states which phases apply to a run. It is computed from
// the plan once, is immutable afterwards, and is threaded through the
// pipeline constructor rather than living in ambient state.
type PhaseSelection struct {
	StorageCompat   bool
	DeployNodes     bool
	DeployOverlayVM bool
	PatchNodes      bool
	BootstrapSeed   bool
	DeployAppliance bool
	GroupVMs        bool
	ConnectLab      bool
	CreateDomain    bool
	AdmitNodes      bool
	OverlayFabric   bool
	DiskGroups      bool
	ClearAlarms     bool
	ExitMaintenance bool
	RestorePolicy   bool
	RegisterOverlay bool
	DisconnectLab   bool
}

// SelectPhases derives the selection for a plan.
func SelectPhases(p *plan.DeploymentPlan) PhaseSelection {
	return PhaseSelection{
		StorageCompat:   p.ControlPlaneKind == vi.KindHypervisor,
		DeployNodes:     true,
		DeployOverlayVM: p.IncludeOverlay,
		PatchNodes:      p.PatchNodes,
		BootstrapSeed:   p.SelfHosted(),
		DeployAppliance: true,
		GroupVMs:        p.ControlPlaneKind == vi.KindClusterManager,
		ConnectLab:      true,
		CreateDomain:    true,
		AdmitNodes:      true,
		OverlayFabric:   p.IncludeOverlay,
		DiskGroups:      true,
		ClearAlarms:     true,
		ExitMaintenance: true,
		RestorePolicy:   p.SelfHosted(),
		RegisterOverlay: p.IncludeOverlay,
		DisconnectLab:   true,
	}
}

// BuildPhases assembles the pipeline for a selection, in the fixed phase
// order. skip names phases suppressed for a re-run; ordering among the
// remaining phases never changes.
func BuildPhases(sel PhaseSelection, skip map[string]bool) []Phase {
	add := func(enabled bool, phase Phase) Phase {
		if !enabled || skip[phase.Name()] {
			return nil
		}
		return phase
	}

	candidates := []Phase{
		add(sel.StorageCompat, &storageCompatPhase{}),
		add(sel.DeployNodes, &deployNodesPhase{}),
		add(sel.DeployOverlayVM, &deployOverlayVMPhase{}),
		add(sel.PatchNodes, &patchNodesPhase{}),
		add(sel.BootstrapSeed, &bootstrapSeedPhase{}),
		add(sel.DeployAppliance, &deployAppliancePhase{}),
		add(sel.GroupVMs, &groupVMsPhase{}),
		add(sel.ConnectLab, &connectLabPhase{}),
		add(sel.CreateDomain, &createDomainPhase{}),
		add(sel.AdmitNodes, &admitNodesPhase{}),
		add(sel.OverlayFabric, &overlayFabricPhase{}),
		add(sel.DiskGroups, &diskGroupsPhase{}),
		add(sel.ClearAlarms, &clearAlarmsPhase{}),
		add(sel.ExitMaintenance, &exitMaintenancePhase{}),
		add(sel.RestorePolicy, &restorePolicyPhase{}),
		add(sel.RegisterOverlay, &registerOverlayPhase{}),
		add(sel.DisconnectLab, &disconnectLabPhase{}),
	}

	phases := make([]Phase, 0, len(candidates))
	for _, p := range candidates {
		if p != nil {
			phases = append(phases, p)
		}
	}
	return phases
}
