package handlers

import (
	"fmt"
	"io"

	"github.com/nestedlab/vlabctl/internal/plan"
	"github.com/nestedlab/vlabctl/internal/report"
)

// Validate handles the validate command. It loads and checks the
// document offline; the loader already applies defaults and runs every
// structural validation. When the install media is present locally the
// software version is probed too and the resolved plan rendered the way
// deploy would show it, minus the facts only a live control plane can
// answer.
func Validate(out io.Writer, configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s is valid\n", configPath)
	fmt.Fprintf(out, "  topology: %s\n", cfg.Topology)
	fmt.Fprintf(out, "  nodes:    %d\n", len(cfg.Nodes))
	if cfg.OverlayRequested() {
		fmt.Fprintf(out, "  overlay:  %s\n", cfg.Overlay.Name)
	}

	softwareVersion, err := probeMediaVersion(cfg.Images.InstallMedia)
	if err != nil {
		fmt.Fprintf(out, "  media:    version not resolvable offline (%v)\n", err)
		return nil
	}
	fmt.Fprintf(out, "  media:    software version %s\n", softwareVersion)

	facts := plan.ProbedFacts{
		SoftwareVersion:    softwareVersion,
		OverlayToolPresent: toolPresent(overlayDeployTool),
	}
	p, err := plan.Build(cfg, facts)
	if err != nil {
		return err
	}

	fmt.Fprint(out, report.RenderPlanSummary(cfg, p))
	return nil
}
