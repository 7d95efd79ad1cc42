package world

import "github.com/gemc-project/gemc-core/internal/gsystem"

// Solid is the built solid handle. Actual solid-shape construction belongs
// to the geometry primitives library (spec.md §1, out of scope); Solid
// here is the opaque result of calling out to that library, identified by
// the shape tag and resolved parameters so a caller that does own a real
// geometry library can swap SolidFactory (see Builder.SolidFactory) for
// one that returns its real shape handles instead of this stand-in.
type Solid struct {
	VolumeKey string
	Type      string
	Params    []gsystem.Param
}

// BuiltMaterial is the constructed counterpart of a gsystem.Material once
// every component dependency has resolved (Phase M).
type BuiltMaterial struct {
	Name     string
	Density  float64
	Resolved bool
}

// Logical is the built logical-volume handle: solid + material + visual
// attributes.
type Logical struct {
	Solid    *Solid
	Material *BuiltMaterial
	Color    gsystem.Color
	Visible  bool
	Style    gsystem.VisStyle
}

// Physical is the built physical-volume handle: one placement of a
// Logical inside its mother's Logical (or at the root).
type Physical struct {
	Logical    *Logical
	Mother     *Physical // nil for the root volume
	Position   gsystem.Vector3
	Rotation   gsystem.Rotation
	CopyNumber int
}

// BuiltVolume is the (solid, logical, physical) triple attached to one
// Volume record, spec.md §3. Invariants: Solid exists before Logical;
// Logical exists before Physical; Physical is placed only when the
// mother's Logical exists (or the volume is the root).
type BuiltVolume struct {
	Volume *gsystem.Volume

	Solid    *Solid
	Logical  *Logical
	Physical *Physical
}

// Key returns the fully-qualified key of the underlying Volume.
func (b *BuiltVolume) Key() string { return b.Volume.Key() }

// HasSolid, HasLogical, HasPhysical report build-stage completion, used by
// the fixed-point loop to decide whether a volume still belongs in
// "remaining".
func (b *BuiltVolume) HasSolid() bool    { return b.Solid != nil }
func (b *BuiltVolume) HasLogical() bool  { return b.Logical != nil }
func (b *BuiltVolume) HasPhysical() bool { return b.Physical != nil }
func (b *BuiltVolume) IsComplete() bool  { return b.HasSolid() && b.HasLogical() && b.HasPhysical() }
