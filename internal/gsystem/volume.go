// Package gsystem implements the System Loader (spec.md §4.1): reading
// declarative volume and material records from a store into an in-memory
// System container keyed by name.
package gsystem

import "fmt"

// Param is one ordered shape parameter: a numeric value plus the unit
// token it was written with ("15*m" -> Value=15, Unit="m").
type Param struct {
	Value float64
	Unit  string
}

// Vector3 is a bare 3-component value; which field holds it (position,
// shift, rotation angles) determines its unit semantics.
type Vector3 struct {
	X, Y, Z float64
}

// RotationOrder is the axis permutation tag for an `ordered: <perm>`
// rotation record (spec.md §4.2). The zero value means "no explicit
// order": the three angles apply in X,Y,Z order.
type RotationOrder string

const (
	OrderXYZ RotationOrder = "" // default, no leading "ordered:" token
	OrderXZY RotationOrder = "xzy"
	OrderYXZ RotationOrder = "yxz"
	OrderYZX RotationOrder = "yzx"
	OrderZXY RotationOrder = "zxy"
	OrderZYX RotationOrder = "zyx"
)

// Rotation is the parsed rotation record: three angles (radians) applied
// in Order's permutation.
type Rotation struct {
	Order  RotationOrder
	Angles Vector3
}

// VisStyle is the visualization style tag of a Volume.
type VisStyle string

const (
	VisWireframe VisStyle = "wireframe"
	VisSolid     VisStyle = "solid"
	VisCloud     VisStyle = "cloud"
)

// Color is the parsed 6-or-7-hex-digit visualization color (spec.md §4.2:
// six hex digits are opaque RGB; a seventh digit is a 0-5 transparency
// index mapped to alpha = 1 - n/5).
type Color struct {
	R, G, B uint8
	Alpha   float64
}

// IdentityEntry is one (name, integer) pair of a Volume's identity-vector.
type IdentityEntry struct {
	Name  string
	Value int
}

// ShapeRef describes how a Volume's solid is derived: a primitive with its
// own parameters, a boolean combination of two named volumes' solids, a
// copy of another volume's solid, or a replica along an axis.
type ShapeRef struct {
	Type       string // primitive tag, e.g. "G4Box", "G4Tubs"; empty if derived
	Parameters []Param

	BooleanOp   string // "union" | "subtraction" | "intersection"; empty if not boolean
	BooleanWith string // the other operand volume's fully-qualified key

	CopyOf    string // source volume's fully-qualified key; empty if not a copy
	ReplicaOf string // source volume's fully-qualified key; empty if not a replica
}

// Volume is the declarative description of one placement, spec.md §3.
// Created once by the System Loader and only mutated by modifiers
// (before build) or the World Builder (during build); never during events.
type Volume struct {
	Name       string
	MotherName string
	System     string

	Shape    ShapeRef
	Material string

	Position Vector3
	Rotation Rotation
	Shift    *Vector3
	Tilt     *Rotation

	Color      Color
	Visible    bool
	Style      VisStyle

	DigitizationName string
	FieldName        string
	IdentityVector   []IdentityEntry
	CopyNumber       int
	Existence        bool
}

// RootMotherName is the sentinel mother name of the world volume.
const RootMotherName = "akasha"

// RootKey is the fully-qualified key of the root volume.
const RootKey = "root"

// Key returns the fully-qualified "system/name" key, unique across all
// loaded systems.
func (v *Volume) Key() string {
	return FQKey(v.System, v.Name)
}

// FQKey builds the fully-qualified key for a (system, name) pair.
func FQKey(system, name string) string {
	if name == "root" && system == "" {
		return RootKey
	}
	return fmt.Sprintf("%s/%s", system, name)
}

// IsRoot reports whether v is the sentinel root/world volume.
func (v *Volume) IsRoot() bool {
	return v.MotherName == RootMotherName || v.Key() == RootKey
}
