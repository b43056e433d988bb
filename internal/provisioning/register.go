package provisioning

import (
	"fmt"

	"github.com/nestedlab/vlabctl/internal/platform/overlay"
)

// registerOverlayPhase points the overlay manager at the finished lab: it
// registers the management appliance as the manager's compute manager and
// the lab's identity authority as its identity source. The session is
// opened for this phase only.
type registerOverlayPhase struct{}

func (*registerOverlayPhase) Name() string { return "register-overlay-manager" }

func (*registerOverlayPhase) Provision(ctx *Context) error {
	ov := ctx.Config.Overlay
	lab := ctx.Config.Lab

	ctx.Log.Printf("connecting to overlay manager at %s", ov.IP)
	api, err := ctx.DialOverlay(ctx, ov.IP, "admin", ov.Password)
	if err != nil {
		return fmt.Errorf("connect to overlay manager: %w", err)
	}
	defer api.Disconnect(ctx)

	ctx.Log.Printf("registering compute manager %s", ctx.Config.Appliance.IP)
	err = api.RegisterComputeManager(ctx, overlay.ComputeManagerSpec{
		Address:  ctx.Config.Appliance.IP,
		Username: lab.AdminUser,
		Password: lab.AdminPassword,
	})
	if err != nil {
		return fmt.Errorf("register compute manager: %w", err)
	}

	ctx.Log.Printf("registering identity source %s", lab.IdentityDomain)
	err = api.RegisterIdentitySource(ctx, overlay.IdentitySourceSpec{
		Address:  ctx.Config.Appliance.IP,
		Domain:   lab.IdentityDomain,
		Username: lab.AdminUser,
		Password: lab.AdminPassword,
	})
	if err != nil {
		return fmt.Errorf("register identity source: %w", err)
	}
	return nil
}
