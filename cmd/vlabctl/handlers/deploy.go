// Package handlers implements the command logic behind the CLI.
//
// Handlers are framework-agnostic: they take plain arguments, never a
// cobra command. Collaborators are bound through package-level factory
// variables so tests can swap in mocks.
package handlers

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/nestedlab/vlabctl/internal/config"
	"github.com/nestedlab/vlabctl/internal/media"
	"github.com/nestedlab/vlabctl/internal/plan"
	"github.com/nestedlab/vlabctl/internal/platform/esx"
	"github.com/nestedlab/vlabctl/internal/platform/installer"
	"github.com/nestedlab/vlabctl/internal/platform/overlay"
	"github.com/nestedlab/vlabctl/internal/platform/vi"
	"github.com/nestedlab/vlabctl/internal/probe"
	"github.com/nestedlab/vlabctl/internal/provisioning"
	"github.com/nestedlab/vlabctl/internal/report"
	"github.com/nestedlab/vlabctl/internal/runlog"
)

// overlayDeployTool is the companion executable required for
// overlay-manager deployment.
const overlayDeployTool = "ovftool"

// DeployOptions carries the deploy command's flag values.
type DeployOptions struct {
	ConfigPath string
	LogPath    string
	AssumeYes  bool
	SkipPhases []string
}

// Factory function variables - can be replaced in tests.
var (
	loadConfig = config.LoadFile

	newRunLog = func(path string) (*runlog.Logger, error) {
		return runlog.New(path, runlog.WithEcho(os.Stdout))
	}

	probeMediaVersion = media.ProbeVersion

	dialInfra = func(ctx context.Context, cfg *config.Config) (vi.API, error) {
		return vi.Dial(ctx, cfg.ControlPlane.Address, cfg.ControlPlane.Username, cfg.ControlPlane.Password)
	}

	dialLab = func(ctx context.Context, cfg *config.Config) (vi.API, error) {
		return vi.Dial(ctx, cfg.Appliance.IP, cfg.Lab.AdminUser, cfg.Lab.AdminPassword)
	}

	dialNode esx.Dialer = func(ctx context.Context, address, username, password string) (esx.API, error) {
		return esx.Dial(ctx, address, username, password)
	}

	dialOverlay overlay.Dialer = func(ctx context.Context, address, username, password string) (overlay.API, error) {
		return overlay.Dial(ctx, address, username, password)
	}

	newInstaller = func(cfg *config.Config, log *runlog.Logger) provisioning.InstallerRunner {
		binary := filepath.Join(cfg.Images.InstallMedia, "installer", "appliance-installer")
		return installer.NewRunner(binary, log)
	}

	lookPath = exec.LookPath

	confirm = report.Confirm
)

// Deploy handles the deploy command: load, probe, plan, confirm,
// provision, report.
func Deploy(ctx context.Context, opts DeployOptions) error {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	log, err := newRunLog(opts.LogPath)
	if err != nil {
		return fmt.Errorf("failed to open run log: %w", err)
	}
	defer log.Close()

	softwareVersion, err := probeMediaVersion(cfg.Images.InstallMedia)
	if err != nil {
		return fmt.Errorf("failed to resolve install media version: %w", err)
	}
	log.Printf("install media carries software version %s", softwareVersion)

	infra, err := dialInfra(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to control plane %s: %w", cfg.ControlPlane.Address, err)
	}
	defer infra.Disconnect(ctx)

	kind, err := probe.ControlPlaneKind(ctx, infra)
	if err != nil {
		return err
	}
	log.Printf("control plane %s identified as %s", cfg.ControlPlane.Address, kind)

	facts := plan.ProbedFacts{
		ControlPlaneKind:   kind,
		SoftwareVersion:    softwareVersion,
		OverlayToolPresent: toolPresent(overlayDeployTool),
	}

	p, err := plan.Build(cfg, facts)
	if err != nil {
		return err
	}
	for _, w := range p.Warnings {
		log.Warnf("%s", w)
	}

	state := provisioning.NewState()
	if state.Storage, err = probe.Storage(ctx, infra, cfg.Placement.Datastore); err != nil {
		return err
	}
	if state.Network, err = probe.Network(ctx, infra, cfg.Placement.Network); err != nil {
		return err
	}
	log.Printf("resolved datastore %s (pool=%t) and network %s (distributed=%t)",
		state.Storage.Name, state.Storage.Pool, state.Network.Name, state.Network.Distributed)

	fmt.Fprint(os.Stdout, report.RenderPlanSummary(cfg, p))
	if err := confirm(opts.AssumeYes); err != nil {
		return err
	}

	pctx := &provisioning.Context{
		Context: ctx,
		Config:  cfg,
		Plan:    p,
		State:   state,
		Infra:   infra,
		DialLab: func(dctx context.Context) (vi.API, error) {
			return dialLab(dctx, cfg)
		},
		DialNode:    dialNode,
		DialOverlay: dialOverlay,
		Installer:   newInstaller(cfg, log),
		Log:         log,
	}

	skip := make(map[string]bool, len(opts.SkipPhases))
	for _, name := range opts.SkipPhases {
		skip[name] = true
	}

	phases := provisioning.BuildPhases(provisioning.SelectPhases(p), skip)
	if err := provisioning.RunPhases(pctx, phases); err != nil {
		return err
	}

	fmt.Fprint(os.Stdout, report.RenderTimings(state.Timings, state.NodeDurations))
	report.LogTimings(log.Quietf, state.Timings, state.NodeDurations)
	return nil
}

func toolPresent(name string) bool {
	_, err := lookPath(name)
	return err == nil
}
