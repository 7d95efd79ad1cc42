package world

import (
	"math"

	"github.com/gemc-project/gemc-core/internal/gsystem"
)

// ResolvedPosition is the 3-vector sum of position and an optional shift
// modifier, spec.md §4.2.
func ResolvedPosition(v *gsystem.Volume) gsystem.Vector3 {
	p := v.Position
	if v.Shift != nil {
		p.X += v.Shift.X
		p.Y += v.Shift.Y
		p.Z += v.Shift.Z
	}
	return p
}

// ResolvedRotation composes the primary rotation with an optional tilt
// modifier, applied after the primary rotation, spec.md §4.2.
//
// The composition is expressed as the matrix product Tilt * Primary: a
// point is first rotated by Primary, then by Tilt. Because both rotations
// may use independent axis orders, composition is carried out on the
// rotation matrices rather than by summing angles.
func ResolvedRotation(v *gsystem.Volume) Matrix3 {
	m := RotationMatrix(v.Rotation)
	if v.Tilt != nil {
		m = RotationMatrix(*v.Tilt).Mul(m)
	}
	return m
}

// Matrix3 is a row-major 3x3 rotation matrix.
type Matrix3 [3][3]float64

func (a Matrix3) Mul(b Matrix3) Matrix3 {
	var out Matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += a[i][k] * b[k][j]
			}
			out[i][j] = sum
		}
	}
	return out
}

func rotX(a float64) Matrix3 {
	c, s := math.Cos(a), math.Sin(a)
	return Matrix3{{1, 0, 0}, {0, c, -s}, {0, s, c}}
}

func rotY(a float64) Matrix3 {
	c, s := math.Cos(a), math.Sin(a)
	return Matrix3{{c, 0, s}, {0, 1, 0}, {-s, 0, c}}
}

func rotZ(a float64) Matrix3 {
	c, s := math.Cos(a), math.Sin(a)
	return Matrix3{{c, -s, 0}, {s, c, 0}, {0, 0, 1}}
}

// RotationMatrix builds the rotation matrix for r: three axis-angles
// applied either in X,Y,Z order (the default) or in the permutation named
// by an "ordered:<perm>" tag, spec.md §4.2.
func RotationMatrix(r gsystem.Rotation) Matrix3 {
	x, y, z := rotX(r.Angles.X), rotY(r.Angles.Y), rotZ(r.Angles.Z)
	switch r.Order {
	case gsystem.OrderXZY:
		return y.Mul(z).Mul(x)
	case gsystem.OrderYXZ:
		return z.Mul(x).Mul(y)
	case gsystem.OrderYZX:
		return x.Mul(z).Mul(y)
	case gsystem.OrderZXY:
		return y.Mul(x).Mul(z)
	case gsystem.OrderZYX:
		return x.Mul(y).Mul(z)
	default: // OrderXYZ
		return z.Mul(y).Mul(x)
	}
}
