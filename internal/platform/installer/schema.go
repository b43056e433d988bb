// Package installer renders the management-appliance installer config
// document and drives the installer executable.
//
// Two schema generations exist in the wild. Versions before 6.5.0 expect
// the older "target"/"hostname" key set; 6.5.0 and later expect the newer
// "new"/"system.name" key set. The generations are modeled as a tagged
// union filled by one pure mapping function, so version differences stay
// data rather than scattered branches.
package installer

import (
	"encoding/json"
	"fmt"

	"github.com/nestedlab/vlabctl/internal/plan"
)

// Input is everything the installer document needs, already resolved:
// the deploy target (outer host or, for self-hosted runs, the seed node
// itself), the concrete datastore volume, and appliance identity.
type Input struct {
	KeySet plan.KeySet

	TargetAddress   string
	TargetUsername  string
	TargetPassword  string
	TargetDatastore string
	TargetNetwork   string

	ApplianceName  string
	DeploymentSize string

	Hostname string
	IP       string
	Netmask  string
	Gateway  string
	DNS      []string

	RootPassword   string
	AdminPassword  string
	IdentityDomain string
}

// LegacyDocument is the pre-6.5.0 config schema.
type LegacyDocument struct {
	Version string `json:"version"`
	Target  struct {
		Host struct {
			Hostname  string `json:"hostname"`
			Username  string `json:"username"`
			Password  string `json:"password"`
			Datastore string `json:"datastore"`
			Network   string `json:"network"`
		} `json:"host"`
		Appliance struct {
			Name           string `json:"name"`
			DeploymentSize string `json:"deployment.size"`
			ThinDisk       bool   `json:"thin.disk.mode"`
		} `json:"appliance"`
		Network struct {
			Hostname string   `json:"hostname"`
			IP       string   `json:"ip"`
			Netmask  string   `json:"netmask"`
			Gateway  string   `json:"gateway"`
			DNS      []string `json:"dns.servers"`
		} `json:"network"`
		OS struct {
			Password string `json:"password"`
		} `json:"os"`
		SSO struct {
			Password string `json:"password"`
			Domain   string `json:"domain-name"`
		} `json:"sso"`
	} `json:"target"`
}

// CurrentDocument is the 6.5.0-and-later config schema.
type CurrentDocument struct {
	Version string `json:"__version"`
	New     struct {
		ESX struct {
			Hostname  string `json:"hostname"`
			Username  string `json:"username"`
			Password  string `json:"password"`
			Datastore string `json:"datastore"`
			Network   string `json:"deployment.network"`
		} `json:"esxi"`
		Appliance struct {
			Name           string `json:"name"`
			DeploymentSize string `json:"deployment.option"`
			ThinDisk       bool   `json:"thin.disk.mode"`
		} `json:"appliance"`
		Network struct {
			SystemName string   `json:"system.name"`
			IP         string   `json:"ip"`
			Netmask    string   `json:"netmask"`
			Gateway    string   `json:"gateway"`
			DNS        []string `json:"dns.servers"`
		} `json:"network"`
		OS struct {
			Password string `json:"password"`
		} `json:"os"`
		SSO struct {
			Password string `json:"password"`
			Domain   string `json:"domain-name"`
		} `json:"sso"`
	} `json:"new"`
}

// Document is the tagged union of schema generations. Exactly one of
// Legacy and Current is set, matching KeySet.
type Document struct {
	KeySet  plan.KeySet
	Legacy  *LegacyDocument
	Current *CurrentDocument
}

// BuildDocument maps resolved input onto the schema generation named by
// in.KeySet. Pure function; no I/O.
func BuildDocument(in Input) (Document, error) {
	switch in.KeySet {
	case plan.KeySetLegacy:
		doc := &LegacyDocument{Version: "1.0"}
		doc.Target.Host.Hostname = in.TargetAddress
		doc.Target.Host.Username = in.TargetUsername
		doc.Target.Host.Password = in.TargetPassword
		doc.Target.Host.Datastore = in.TargetDatastore
		doc.Target.Host.Network = in.TargetNetwork
		doc.Target.Appliance.Name = in.ApplianceName
		doc.Target.Appliance.DeploymentSize = in.DeploymentSize
		doc.Target.Appliance.ThinDisk = true
		doc.Target.Network.Hostname = in.Hostname
		doc.Target.Network.IP = in.IP
		doc.Target.Network.Netmask = in.Netmask
		doc.Target.Network.Gateway = in.Gateway
		doc.Target.Network.DNS = in.DNS
		doc.Target.OS.Password = in.RootPassword
		doc.Target.SSO.Password = in.AdminPassword
		doc.Target.SSO.Domain = in.IdentityDomain
		return Document{KeySet: in.KeySet, Legacy: doc}, nil

	case plan.KeySetCurrent:
		doc := &CurrentDocument{Version: "2.3.0"}
		doc.New.ESX.Hostname = in.TargetAddress
		doc.New.ESX.Username = in.TargetUsername
		doc.New.ESX.Password = in.TargetPassword
		doc.New.ESX.Datastore = in.TargetDatastore
		doc.New.ESX.Network = in.TargetNetwork
		doc.New.Appliance.Name = in.ApplianceName
		doc.New.Appliance.DeploymentSize = in.DeploymentSize
		doc.New.Appliance.ThinDisk = true
		doc.New.Network.SystemName = in.Hostname
		doc.New.Network.IP = in.IP
		doc.New.Network.Netmask = in.Netmask
		doc.New.Network.Gateway = in.Gateway
		doc.New.Network.DNS = in.DNS
		doc.New.OS.Password = in.RootPassword
		doc.New.SSO.Password = in.AdminPassword
		doc.New.SSO.Domain = in.IdentityDomain
		return Document{KeySet: in.KeySet, Current: doc}, nil
	}

	return Document{}, fmt.Errorf("unknown schema key set %q", in.KeySet)
}

// Render serializes the document to installer-ready JSON.
func (d Document) Render() ([]byte, error) {
	switch {
	case d.Legacy != nil:
		return json.MarshalIndent(d.Legacy, "", "  ")
	case d.Current != nil:
		return json.MarshalIndent(d.Current, "", "  ")
	}
	return nil, fmt.Errorf("document carries no schema payload")
}
