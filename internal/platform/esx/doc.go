// Package esx provides direct connections to individual hypervisor nodes.
//
// Two phases need to bypass the outer control plane and talk to a node
// directly: offline patching (maintenance, patch install, reboot) and
// self-hosted seed bootstrapping (storage policy relaxation, single-node
// storage cluster initialization, disk tagging). Connections are scoped
// strictly to their phase and closed before the phase returns.
package esx
