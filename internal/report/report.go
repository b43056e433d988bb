// Package report renders the operator-facing surfaces of a deployment
// run: the pre-flight plan summary, the confirmation gate and the final
// timing report.
package report

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/nestedlab/vlabctl/internal/config"
	"github.com/nestedlab/vlabctl/internal/plan"
	"github.com/nestedlab/vlabctl/internal/provisioning"
)

// ErrAborted reports that the operator declined the confirmation gate.
// It is not a failure; callers map it to a distinct exit code.
var ErrAborted = errors.New("deployment aborted by operator")

var (
	colorGreen  = lipgloss.Color("#22c55e")
	colorYellow = lipgloss.Color("#eab308")
	colorBlue   = lipgloss.Color("#3b82f6")
	colorDim    = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorBlue)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	okStyle = lipgloss.NewStyle().
		Foreground(colorGreen)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorYellow)
)

// RenderPlanSummary produces the styled pre-flight summary shown before
// the confirmation gate.
func RenderPlanSummary(cfg *config.Config, p *plan.DeploymentPlan) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("  vlabctl deploy: %s", cfg.Lab.Datacenter)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  " + strings.Repeat("═", 40)))
	b.WriteString("\n\n")

	b.WriteString(sectionStyle.Render("  Deployment"))
	b.WriteString("\n")
	writeRow(&b, "topology", string(p.Topology))
	kind := string(p.ControlPlaneKind)
	if kind == "" {
		// Offline planning cannot identify the endpoint generation.
		kind = "probed at deploy"
	}
	writeRow(&b, "control plane", fmt.Sprintf("%s (%s)", kind, cfg.ControlPlane.Address))
	writeRow(&b, "software version", p.SoftwareVersion.String())
	writeRow(&b, "installer schema", string(p.KeySet))

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render(fmt.Sprintf("  Cluster Nodes (%d)", len(p.Nodes))))
	b.WriteString("\n")
	for _, node := range p.Nodes {
		detail := fmt.Sprintf("%s  %d vCPU, %d GB memory, %d/%d GB disks",
			node.IP, node.Sizing.VCPU, node.Sizing.MemoryGB,
			node.Sizing.CacheDiskGB, node.Sizing.CapacityDiskGB)
		if p.BootstrapNode != nil && node.Name == p.BootstrapNode.Name {
			detail += "  (bootstrap seed)"
		}
		writeRow(&b, node.Name, detail)
	}

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("  Management Appliance"))
	b.WriteString("\n")
	writeRow(&b, "name", cfg.Appliance.Name)
	writeRow(&b, "address", cfg.Appliance.IP)
	writeRow(&b, "domain", fmt.Sprintf("%s / %s", cfg.Lab.Datacenter, cfg.Lab.Cluster))

	if p.IncludeOverlay {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("  Overlay Manager"))
		b.WriteString("\n")
		writeRow(&b, "name", cfg.Overlay.Name)
		writeRow(&b, "address", cfg.Overlay.IP)
		writeRow(&b, "transport subnet", cfg.Overlay.TransportSubnet)
	}

	if len(p.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range p.Warnings {
			b.WriteString(warningStyle.Render("  ! " + w))
			b.WriteString("\n")
		}
	}

	return b.String()
}

func writeRow(b *strings.Builder, label, value string) {
	b.WriteString(dimStyle.Render(fmt.Sprintf("    %-18s", label)))
	b.WriteString(value)
	b.WriteString("\n")
}

// stdoutIsTerminal is an injection point for tests.
var stdoutIsTerminal = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// Confirm gates the run on operator approval. assumeYes skips the prompt
// entirely. A declined prompt returns ErrAborted; a non-interactive
// session without assumeYes is also a refusal, since silently proceeding
// from a pipe would defeat the gate.
func Confirm(assumeYes bool) error {
	if assumeYes {
		return nil
	}
	if !stdoutIsTerminal() {
		return fmt.Errorf("refusing to deploy without confirmation in a non-interactive session, pass --yes to proceed: %w", ErrAborted)
	}

	confirmed := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Proceed with deployment?").
				Description("The plan above will be provisioned.").
				Affirmative("Deploy").
				Negative("Abort").
				Value(&confirmed),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return fmt.Errorf("confirmation prompt failed: %w", err)
	}
	if !confirmed {
		return ErrAborted
	}
	return nil
}

// RenderTimings produces the styled post-run report of per-phase and
// per-node durations.
func RenderTimings(timings []provisioning.PhaseTiming, nodeDurations map[string]time.Duration) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(sectionStyle.Render("  Phase Durations"))
	b.WriteString("\n")

	var total time.Duration
	for _, timing := range timings {
		writeRow(&b, timing.Name, timing.Duration.Round(time.Second).String())
		total += timing.Duration
	}

	if len(nodeDurations) > 0 {
		names := make([]string, 0, len(nodeDurations))
		for name := range nodeDurations {
			names = append(names, name)
		}
		sort.Strings(names)

		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("  Node Deployment"))
		b.WriteString("\n")
		for _, name := range names {
			writeRow(&b, name, nodeDurations[name].Round(time.Second).String())
		}
	}

	b.WriteString("\n")
	b.WriteString(okStyle.Render(fmt.Sprintf("  Deployment completed in %s", total.Round(time.Second))))
	b.WriteString("\n")
	return b.String()
}

// LogTimings appends the post-run durations to the run log in plain
// rows, so the record survives after the styled console output is gone.
// logf is normally runlog's non-echoing Quietf; the console already got
// the styled table.
func LogTimings(logf func(format string, args ...any), timings []provisioning.PhaseTiming, nodeDurations map[string]time.Duration) {
	var total time.Duration
	logf("phase durations:")
	for _, timing := range timings {
		logf("  %-30s %s", timing.Name, timing.Duration.Round(time.Second))
		total += timing.Duration
	}

	if len(nodeDurations) > 0 {
		names := make([]string, 0, len(nodeDurations))
		for name := range nodeDurations {
			names = append(names, name)
		}
		sort.Strings(names)

		logf("node deployment durations:")
		for _, name := range names {
			logf("  %-30s %s", name, nodeDurations[name].Round(time.Second))
		}
	}

	logf("deployment completed in %s", total.Round(time.Second))
}
