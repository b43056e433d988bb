// Package config defines the operator input document for a lab deployment.
//
// The document is a single YAML file describing the outer control plane,
// the cluster nodes to create, sizing, the new management domain, and the
// optional overlay manager. Loading is strict: unknown keys are rejected
// so typos surface before anything is provisioned.
package config

// Topology selects the deployment mode.
type Topology string

const (
	// TopologyStandard deploys the management appliance onto the outer
	// infrastructure, next to the lab it manages.
	TopologyStandard Topology = "standard"
	// TopologySelfHosted bootstraps the management appliance onto the
	// very cluster it manages, seeded from one node.
	TopologySelfHosted Topology = "self-hosted"
)

// Config is the fully-typed operator input for one deployment run.
type Config struct {
	Topology Topology `yaml:"topology"`

	ControlPlane Endpoint  `yaml:"controlPlane"`
	Placement    Placement `yaml:"placement"`

	// Nodes maps cluster-node name to its management address.
	Nodes       map[string]string `yaml:"nodes"`
	NodeSizing  Sizing            `yaml:"nodeSizing"`
	NodeNetwork NodeNetwork       `yaml:"nodeNetwork"`

	Images    Images    `yaml:"images"`
	Appliance Appliance `yaml:"appliance"`
	Lab       Lab       `yaml:"lab"`
	Overlay   *Overlay  `yaml:"overlay,omitempty"`

	Options Options `yaml:"options"`
}

// Endpoint is a connection target with credentials.
type Endpoint struct {
	Address  string `yaml:"address"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Placement locates new VMs on the outer control plane.
type Placement struct {
	Datacenter string `yaml:"datacenter"`
	Cluster    string `yaml:"cluster"`
	// Datastore names either a single volume or a pool of volumes; the
	// kind is probed at run time, never declared here.
	Datastore string `yaml:"datastore"`
	// Network names either a distributed or a standalone port group,
	// likewise probed.
	Network string `yaml:"network"`
	Host    string `yaml:"host,omitempty"`
}

// Sizing holds per-node compute and disk sizing.
type Sizing struct {
	VCPU           int `yaml:"vcpu"`
	MemoryGB       int `yaml:"memoryGb"`
	CacheDiskGB    int `yaml:"cacheDiskGb"`
	CapacityDiskGB int `yaml:"capacityDiskGb"`
}

// NodeNetwork holds network parameters shared by all cluster nodes.
type NodeNetwork struct {
	Netmask string   `yaml:"netmask"`
	Gateway string   `yaml:"gateway"`
	DNS     []string `yaml:"dns"`
	NTP     string   `yaml:"ntp"`
	Domain  string   `yaml:"domain"`
	// Password is the node-local admin credential set during guest
	// customization and later used for direct node connections.
	Password string `yaml:"password"`
}

// Images locates install media and images on the operator's filesystem.
type Images struct {
	// NodeImage is the hypervisor appliance image imported per node.
	NodeImage string `yaml:"nodeImage"`
	// InstallMedia is the management-appliance install media directory.
	InstallMedia string `yaml:"installMedia"`
	// OverlayManagerImage, when set, requests overlay-manager deployment.
	OverlayManagerImage string `yaml:"overlayManagerImage,omitempty"`
	// PatchBundle is an offline node patch bundle path.
	PatchBundle string `yaml:"patchBundle,omitempty"`
	// PatchTargetVersion is the software version the bundle targets.
	PatchTargetVersion string `yaml:"patchTargetVersion,omitempty"`
}

// Appliance describes the management appliance to deploy.
type Appliance struct {
	Name           string `yaml:"name"`
	Hostname       string `yaml:"hostname"`
	IP             string `yaml:"ip"`
	RootPassword   string `yaml:"rootPassword"`
	DeploymentSize string `yaml:"deploymentSize"`
}

// Lab describes the new management domain built inside the appliance.
type Lab struct {
	Datacenter     string `yaml:"datacenter"`
	Cluster        string `yaml:"cluster"`
	Folder         string `yaml:"folder"`
	AdminUser      string `yaml:"adminUser"`
	AdminPassword  string `yaml:"adminPassword"`
	IdentityDomain string `yaml:"identityDomain"`
}

// Overlay describes the optional network-virtualization manager.
type Overlay struct {
	Name     string `yaml:"name"`
	Hostname string `yaml:"hostname"`
	IP       string `yaml:"ip"`
	Password string `yaml:"password"`
	// TransportSubnet's first three octets are combined with each host's
	// management-address last octet to form the overlay kernel-interface
	// address.
	TransportSubnet string `yaml:"transportSubnet"`
	Netmask         string `yaml:"netmask"`
	// Uplink is the physical device claimed on each host.
	Uplink string `yaml:"uplink"`
}

// Options holds behavior toggles.
type Options struct {
	// AddressNodesByIP admits nodes into the new cluster by management
	// address instead of by name.
	AddressNodesByIP bool `yaml:"addressNodesByIp"`
}

// OverlayRequested reports whether the operator asked for overlay-manager
// deployment. Eligibility is decided by the planner, not here.
func (c *Config) OverlayRequested() bool {
	return c.Overlay != nil && c.Images.OverlayManagerImage != ""
}
