package provisioning

import (
	"fmt"
	"strings"
)

// Fixed overlay fabric names. The fabric is an implementation detail of
// overlay enablement, not operator-facing inventory, so the names are not
// configurable.
const (
	overlaySwitchName    = "overlay-dvs"
	overlayPortGroupName = "overlay-transport"
)

// overlayFabricPhase builds the transport fabric for the overlay manager:
// a distributed switch spanning all cluster nodes, a transport port group,
// one uplink per node and one kernel interface per node on the transport
// subnet.
type overlayFabricPhase struct{}

func (*overlayFabricPhase) Name() string { return "setup-overlay-fabric" }

func (*overlayFabricPhase) Provision(ctx *Context) error {
	ov := ctx.Config.Overlay
	lab := ctx.State.Lab

	ctx.Log.Printf("creating distributed switch %s", overlaySwitchName)
	if err := lab.CreateDistributedSwitch(ctx, ctx.Config.Lab.Datacenter, overlaySwitchName); err != nil {
		return fmt.Errorf("create distributed switch: %w", err)
	}
	if err := lab.CreatePortGroup(ctx, overlaySwitchName, overlayPortGroupName); err != nil {
		return fmt.Errorf("create transport port group: %w", err)
	}

	hosts, err := lab.ListHosts(ctx)
	if err != nil {
		return fmt.Errorf("list cluster hosts: %w", err)
	}

	for _, host := range hosts {
		address, err := transportAddress(ov.TransportSubnet, host.ManagementIP)
		if err != nil {
			return fmt.Errorf("host %s: %w", host.Name, err)
		}

		ctx.Log.Printf("attaching host %s to %s (transport address %s)", host.Name, overlaySwitchName, address)
		if err := lab.AddHostToSwitch(ctx, overlaySwitchName, host.Name); err != nil {
			return fmt.Errorf("add host %s to switch: %w", host.Name, err)
		}
		if err := lab.AddUplink(ctx, overlaySwitchName, host.Name, ov.Uplink); err != nil {
			return fmt.Errorf("add uplink %s on host %s: %w", ov.Uplink, host.Name, err)
		}
		if err := lab.CreateKernelInterface(ctx, host.Name, overlayPortGroupName, address, ov.Netmask); err != nil {
			return fmt.Errorf("create kernel interface on host %s: %w", host.Name, err)
		}
	}
	return nil
}

// transportAddress derives a host's transport address from the transport
// subnet and the host's management address: the subnet's first three
// octets joined with the management address's last octet. Hosts keep a
// stable, recognizable numbering across both networks.
func transportAddress(subnet, managementIP string) (string, error) {
	subnetOctets := strings.Split(subnet, ".")
	hostOctets := strings.Split(managementIP, ".")
	if len(subnetOctets) != 4 {
		return "", fmt.Errorf("transport subnet %q is not a dotted quad", subnet)
	}
	if len(hostOctets) != 4 {
		return "", fmt.Errorf("management address %q is not a dotted quad", managementIP)
	}
	return strings.Join(append(subnetOctets[:3], hostOctets[3]), "."), nil
}
