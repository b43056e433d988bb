// Package vi wraps the virtual-infrastructure control-plane API.
//
// The same API surface is exposed by two historically distinct endpoint
// generations: a bare hypervisor host agent and a full cluster manager.
// Callers probe the connected endpoint's reported API type instead of
// asserting one, and several lookups (datastore pools, distributed
// switches) gracefully fall back to their single-host equivalents.
//
// Long-running operations (power-on, disk-group creation) return a Task
// handle immediately; callers decide which handles to join.
package vi
