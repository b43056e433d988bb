package provisioning

import (
	"fmt"

	"github.com/nestedlab/vlabctl/internal/platform/installer"
)

// deployAppliancePhase runs the appliance installer against the resolved
// deploy target. Standard topology installs onto the outer control plane;
// self-hosted installs onto the seed node's freshly bootstrapped storage
// cluster.
type deployAppliancePhase struct{}

func (*deployAppliancePhase) Name() string { return "deploy-management-appliance" }

func (*deployAppliancePhase) Provision(ctx *Context) error {
	in := installerInput(ctx)

	doc, err := installer.BuildDocument(in)
	if err != nil {
		return err
	}

	ctx.Log.Printf("deploying management appliance %s to %s (%s schema)",
		ctx.Config.Appliance.Name, in.TargetAddress, in.KeySet)
	if err := ctx.Installer.Run(ctx, doc); err != nil {
		return fmt.Errorf("appliance deployment failed: %w: %w", ErrExternalOperation, err)
	}
	return nil
}

func installerInput(ctx *Context) installer.Input {
	cfg := ctx.Config
	in := installer.Input{
		KeySet: ctx.Plan.KeySet,

		ApplianceName:  cfg.Appliance.Name,
		DeploymentSize: cfg.Appliance.DeploymentSize,

		Hostname: cfg.Appliance.Hostname,
		IP:       cfg.Appliance.IP,
		Netmask:  cfg.NodeNetwork.Netmask,
		Gateway:  cfg.NodeNetwork.Gateway,
		DNS:      cfg.NodeNetwork.DNS,

		RootPassword:   cfg.Appliance.RootPassword,
		AdminPassword:  cfg.Lab.AdminPassword,
		IdentityDomain: cfg.Lab.IdentityDomain,
	}

	if ctx.Plan.SelfHosted() {
		// The install target is the seed node itself. Its storage cluster
		// exposes exactly one datastore and the node image's stock port
		// group, both fixed names.
		seed := ctx.Plan.BootstrapNode
		user, pass := ctx.NodeCredential()
		in.TargetAddress = seed.IP
		in.TargetUsername = user
		in.TargetPassword = pass
		in.TargetDatastore = "vsanDatastore"
		in.TargetNetwork = "VM Network"
		return in
	}

	in.TargetAddress = cfg.ControlPlane.Address
	in.TargetUsername = cfg.ControlPlane.Username
	in.TargetPassword = cfg.ControlPlane.Password
	in.TargetDatastore = ctx.State.Storage.InstallVolume().Name
	in.TargetNetwork = ctx.State.Network.Name
	return in
}
