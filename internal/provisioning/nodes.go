package provisioning

import (
	"fmt"
	"time"

	"github.com/nestedlab/vlabctl/internal/plan"
	"github.com/nestedlab/vlabctl/internal/platform/vi"
)

// storageCompatOption lets the nested hypervisors share outer-host disks
// without real SCSI reservations. Only relevant when the outer control
// plane is a single bare hypervisor.
const storageCompatOption = "Disk.SharedReservationsCompat"

type storageCompatPhase struct{}

func (*storageCompatPhase) Name() string { return "enable-storage-compat" }

func (*storageCompatPhase) Provision(ctx *Context) error {
	ctx.Log.Printf("enabling nested storage compatibility on the outer host")
	if err := ctx.Infra.SetHostOption(ctx, "", storageCompatOption, "1"); err != nil {
		return fmt.Errorf("failed to enable storage compatibility: %w", err)
	}
	return nil
}

type deployNodesPhase struct{}

func (*deployNodesPhase) Name() string { return "deploy-cluster-nodes" }

func (*deployNodesPhase) Provision(ctx *Context) error {
	for _, node := range ctx.Plan.Nodes {
		nodeStart := time.Now()
		if err := deployNode(ctx, node); err != nil {
			return fmt.Errorf("node %s: %w", node.Name, err)
		}
		ctx.State.NodeDurations[node.Name] = time.Since(nodeStart)
		ctx.Log.Printf("node %s deployed in %v", node.Name, time.Since(nodeStart).Round(time.Second))
	}
	return nil
}

func deployNode(ctx *Context, node plan.ClusterNode) error {
	guest := guestConfig(ctx, node)

	spec := vi.ImportSpec{
		Name:      node.Name,
		Image:     ctx.Config.Images.NodeImage,
		Host:      ctx.Config.Placement.Host,
		Datastore: ctx.State.Storage.Name,
		Network:   ctx.State.Network.Name,
	}

	// The two endpoint generations inject guest customization through
	// different mechanisms that must produce the same guest-visible
	// configuration: cluster managers fill a structured template before
	// import, bare hypervisors take low-level properties after import.
	if ctx.Plan.ControlPlaneKind == vi.KindClusterManager {
		spec.Guest = &guest
	}

	ctx.Log.Printf("importing node %s (%s)", node.Name, node.IP)
	vm, err := ctx.Infra.ImportVM(ctx, spec)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}
	ctx.State.NodeVMs[node.Name] = vm

	if ctx.Plan.ControlPlaneKind == vi.KindHypervisor {
		if err := ctx.Infra.SetGuestProperties(ctx, node.Name, guestProperties(guest)); err != nil {
			return fmt.Errorf("guest property injection failed: %w", err)
		}
	}

	ctx.Log.Printf("sizing node %s: %d vCPU, %d GB memory, %d/%d GB disks",
		node.Name, node.Sizing.VCPU, node.Sizing.MemoryGB, node.Sizing.CacheDiskGB, node.Sizing.CapacityDiskGB)
	hw := vi.HardwareSpec{
		VCPU:           node.Sizing.VCPU,
		MemoryGB:       node.Sizing.MemoryGB,
		CacheDiskGB:    node.Sizing.CacheDiskGB,
		CapacityDiskGB: node.Sizing.CapacityDiskGB,
	}
	if err := ctx.Infra.ReconfigureVM(ctx, node.Name, hw); err != nil {
		return fmt.Errorf("reconfigure failed: %w", err)
	}

	// Fire and forget: phases that need the node responsive wait for it
	// explicitly.
	if _, err := ctx.Infra.PowerOnVM(ctx, node.Name); err != nil {
		return fmt.Errorf("power on failed: %w", err)
	}

	return nil
}

func guestConfig(ctx *Context, node plan.ClusterNode) vi.GuestConfig {
	net := ctx.Config.NodeNetwork

	hostname := node.Name
	if net.Domain != "" {
		hostname = node.Name + "." + net.Domain
	}

	// The guest customization mechanism honors a single DNS server.
	dns := net.DNS
	if len(dns) > 1 {
		dns = dns[:1]
	}

	return vi.GuestConfig{
		Hostname: hostname,
		Address:  node.IP,
		Netmask:  net.Netmask,
		Gateway:  net.Gateway,
		DNS:      dns,
		NTP:      net.NTP,
		Domain:   net.Domain,
		Password: net.Password,
	}
}

func guestProperties(guest vi.GuestConfig) map[string]string {
	props := map[string]string{
		"guestinfo.hostname":  guest.Hostname,
		"guestinfo.ipaddress": guest.Address,
		"guestinfo.netmask":   guest.Netmask,
		"guestinfo.gateway":   guest.Gateway,
		"guestinfo.ntp":       guest.NTP,
		"guestinfo.domain":    guest.Domain,
		"guestinfo.password":  guest.Password,
	}
	if len(guest.DNS) > 0 {
		props["guestinfo.dns"] = guest.DNS[0]
	}
	return props
}

type deployOverlayVMPhase struct{}

func (*deployOverlayVMPhase) Name() string { return "deploy-overlay-manager-vm" }

func (*deployOverlayVMPhase) Provision(ctx *Context) error {
	ov := ctx.Config.Overlay

	hostname := ov.Hostname
	if hostname == "" {
		hostname = ov.Name
	}

	spec := vi.ImportSpec{
		Name:      ov.Name,
		Image:     ctx.Config.Images.OverlayManagerImage,
		Host:      ctx.Config.Placement.Host,
		Datastore: ctx.State.Storage.Name,
		Network:   ctx.State.Network.Name,
		Guest: &vi.GuestConfig{
			Hostname: hostname,
			Address:  ov.IP,
			Netmask:  ctx.Config.NodeNetwork.Netmask,
			Gateway:  ctx.Config.NodeNetwork.Gateway,
			DNS:      firstDNS(ctx.Config.NodeNetwork.DNS),
			Password: ov.Password,
		},
	}

	ctx.Log.Printf("importing overlay manager %s (%s)", ov.Name, ov.IP)
	vm, err := ctx.Infra.ImportVM(ctx, spec)
	if err != nil {
		return fmt.Errorf("overlay manager import failed: %w", err)
	}
	ctx.State.OverlayVM = &vm

	if _, err := ctx.Infra.PowerOnVM(ctx, ov.Name); err != nil {
		return fmt.Errorf("overlay manager power on failed: %w", err)
	}
	return nil
}

func firstDNS(dns []string) []string {
	if len(dns) > 1 {
		return dns[:1]
	}
	return dns
}
