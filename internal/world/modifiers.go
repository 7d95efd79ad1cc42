package world

import (
	"github.com/gemc-project/gemc-core/internal/gconfig"
	"github.com/gemc-project/gemc-core/internal/gsystem"
)

// ApplyModifiers applies declarative per-volume overrides before Phase V,
// in declaration order with last-write-wins per field (spec.md §4.2).
func ApplyModifiers(a *Arena, mods []gconfig.GModifier) {
	for _, mod := range mods {
		for _, bv := range a.All() {
			if bv.Volume.Name != mod.Name {
				continue
			}
			if mod.Shift != nil {
				bv.Volume.Shift = &gsystem.Vector3{X: mod.Shift.X, Y: mod.Shift.Y, Z: mod.Shift.Z}
			}
			if mod.Tilt != nil {
				bv.Volume.Tilt = &gsystem.Rotation{
					Order:  gsystem.OrderXYZ,
					Angles: gsystem.Vector3{X: mod.Tilt.X, Y: mod.Tilt.Y, Z: mod.Tilt.Z},
				}
			}
			if mod.IsPresent != nil {
				bv.Volume.Existence = *mod.IsPresent
			}
		}
	}
}
