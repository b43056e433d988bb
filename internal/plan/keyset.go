package plan

import version "github.com/hashicorp/go-version"

// KeySet identifies the installer config-schema generation expected by a
// given software version.
type KeySet string

const (
	// KeySetLegacy is the older "target"/"hostname" key generation.
	KeySetLegacy KeySet = "legacy"
	// KeySetCurrent is the newer "new"/"system.name" key generation.
	KeySetCurrent KeySet = "current"
)

// keySetTable maps minimum software versions to key sets, newest first.
// Selection is a pure function of version so that new generations are one
// table row, not another scattered branch.
var keySetTable = []struct {
	min    *version.Version
	keySet KeySet
}{
	{min: version.Must(version.NewVersion("6.5.0")), keySet: KeySetCurrent},
	{min: version.Must(version.NewVersion("0.0.0")), keySet: KeySetLegacy},
}

// SelectKeySet returns the key set for v. Every version below 6.5.0 maps
// to the legacy set; 6.5.0 and above map to the current one.
func SelectKeySet(v *version.Version) KeySet {
	core := v.Core()
	for _, row := range keySetTable {
		if core.GreaterThanOrEqual(row.min) {
			return row.keySet
		}
	}
	return KeySetLegacy
}
