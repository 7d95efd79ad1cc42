package world

import "github.com/gemc-project/gemc-core/internal/gconfig"

// ShouldCheckOverlap implements the four-tier checkOverlaps policy
// (SPEC_FULL.md, "Overlap checking switch"): 0 disables checking, 1 checks
// only the root volume, 2 checks every volume, and values above 100 check
// only volumes whose copy number exceeds that threshold.
func ShouldCheckOverlap(policy gconfig.OverlapPolicy, bv *BuiltVolume) bool {
	switch {
	case policy == gconfig.OverlapOff:
		return false
	case policy == gconfig.OverlapRootOnly:
		return bv.Volume.IsRoot()
	case policy == gconfig.OverlapEveryVolume:
		return true
	case int(policy) > 100:
		return bv.Volume.CopyNumber > int(policy)
	default:
		return false
	}
}
