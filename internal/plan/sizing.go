package plan

import (
	"fmt"

	"github.com/nestedlab/vlabctl/internal/config"
)

// Self-hosted sizing floors. The management appliance runs atop the very
// node it is customizing, so that node must carry appliance-sized
// resources, not merely lab-sized ones. VCPU is never floored.
const (
	FloorMemoryGB       = 32
	FloorCacheDiskGB    = 16
	FloorCapacityDiskGB = 200
)

// ResolveSizing computes the effective node sizing for the topology.
// Standard topology passes the request through untouched. Self-hosted
// raises each floored field to its minimum, emitting one informational
// warning per raised field; warnings never abort the run.
func ResolveSizing(requested config.Sizing, topology config.Topology) (config.Sizing, []string) {
	if topology != config.TopologySelfHosted {
		return requested, nil
	}

	effective := requested
	var warnings []string

	raise := func(field string, value *int, floor int) {
		if *value < floor {
			warnings = append(warnings, fmt.Sprintf("requested %s %d GB is below the self-hosted minimum, raising to %d GB", field, *value, floor))
			*value = floor
		}
	}

	raise("memory", &effective.MemoryGB, FloorMemoryGB)
	raise("cache disk", &effective.CacheDiskGB, FloorCacheDiskGB)
	raise("capacity disk", &effective.CapacityDiskGB, FloorCapacityDiskGB)

	return effective, warnings
}
