package config

import (
	"fmt"
	"net"
	"strings"
)

// Validate checks the document for internal consistency. All problems are
// accumulated so the operator can fix them in one pass.
func (c *Config) Validate() error {
	var errs []string

	if c.Topology != TopologyStandard && c.Topology != TopologySelfHosted {
		errs = append(errs, fmt.Sprintf("topology must be %q or %q, got %q", TopologyStandard, TopologySelfHosted, c.Topology))
	}

	if c.ControlPlane.Address == "" {
		errs = append(errs, "controlPlane.address is required")
	}
	if c.ControlPlane.Password == "" {
		errs = append(errs, "controlPlane.password is required")
	}

	if len(c.Nodes) == 0 {
		errs = append(errs, "at least one cluster node is required")
	}
	for name, addr := range c.Nodes {
		if name == "" {
			errs = append(errs, "node names must not be empty")
		}
		if net.ParseIP(addr) == nil {
			errs = append(errs, fmt.Sprintf("node %q has invalid address %q", name, addr))
		}
	}

	if c.NodeSizing.VCPU <= 0 {
		errs = append(errs, "nodeSizing.vcpu must be positive")
	}
	if c.NodeSizing.MemoryGB <= 0 {
		errs = append(errs, "nodeSizing.memoryGb must be positive")
	}
	if c.NodeSizing.CacheDiskGB <= 0 {
		errs = append(errs, "nodeSizing.cacheDiskGb must be positive")
	}
	if c.NodeSizing.CapacityDiskGB <= 0 {
		errs = append(errs, "nodeSizing.capacityDiskGb must be positive")
	}

	if c.NodeNetwork.Gateway != "" && net.ParseIP(c.NodeNetwork.Gateway) == nil {
		errs = append(errs, fmt.Sprintf("nodeNetwork.gateway %q is not a valid address", c.NodeNetwork.Gateway))
	}
	if len(c.NodeNetwork.DNS) == 0 {
		errs = append(errs, "nodeNetwork.dns requires at least one server")
	}

	if c.Images.NodeImage == "" {
		errs = append(errs, "images.nodeImage is required")
	}
	if c.Images.InstallMedia == "" {
		errs = append(errs, "images.installMedia is required")
	}

	if c.Appliance.Name == "" {
		errs = append(errs, "appliance.name is required")
	}
	if c.Appliance.IP != "" && net.ParseIP(c.Appliance.IP) == nil {
		errs = append(errs, fmt.Sprintf("appliance.ip %q is not a valid address", c.Appliance.IP))
	}
	if c.Appliance.RootPassword == "" {
		errs = append(errs, "appliance.rootPassword is required")
	}

	if c.Lab.Datacenter == "" {
		errs = append(errs, "lab.datacenter is required")
	}
	if c.Lab.Cluster == "" {
		errs = append(errs, "lab.cluster is required")
	}
	if c.Lab.AdminPassword == "" {
		errs = append(errs, "lab.adminPassword is required")
	}

	if c.Overlay != nil {
		if c.Overlay.IP != "" && net.ParseIP(c.Overlay.IP) == nil {
			errs = append(errs, fmt.Sprintf("overlay.ip %q is not a valid address", c.Overlay.IP))
		}
		if c.Overlay.TransportSubnet != "" && net.ParseIP(c.Overlay.TransportSubnet) == nil {
			errs = append(errs, fmt.Sprintf("overlay.transportSubnet %q is not a valid address", c.Overlay.TransportSubnet))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
