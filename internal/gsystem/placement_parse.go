package gsystem

import (
	"fmt"
	"strconv"
	"strings"
)

// parseVectorWithUnit parses "x,y,z,unit" into a Vector3 normalized to
// the core's base units: lengths in "cm"/"m" are scaled to millimeters,
// angles in "deg" to radians, and "mm", "rad" or an empty unit are kept
// as written. The unit token itself is not recorded.
func parseVectorWithUnit(s string) (Vector3, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Vector3{}, fmt.Errorf("expected x,y,z,unit got %q", s)
	}
	scale, err := unitScale(strings.TrimSpace(parts[3]))
	if err != nil {
		return Vector3{}, err
	}
	vals := make([]float64, 3)
	for i := 0; i < 3; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(parts[i]), 64)
		if err != nil {
			return Vector3{}, fmt.Errorf("component %d: %w", i, err)
		}
		vals[i] = v * scale
	}
	return Vector3{X: vals[0], Y: vals[1], Z: vals[2]}, nil
}

func unitScale(unit string) (float64, error) {
	switch unit {
	case "mm", "rad", "":
		return 1, nil
	case "cm":
		return 10, nil
	case "m":
		return 1000, nil
	case "deg":
		return deg2rad, nil
	default:
		return 0, fmt.Errorf("unknown unit %q", unit)
	}
}

const deg2rad = 3.14159265358979323846 / 180.0

// parseRotation parses either "x,y,z,unit" (implicit X,Y,Z order) or
// "ordered:<perm>,x,y,z,unit" (spec.md §4.2).
func parseRotation(s string) (Rotation, error) {
	if rest, ok := strings.CutPrefix(s, "ordered:"); ok {
		order, anglesStr, found := strings.Cut(rest, ",")
		if !found {
			return Rotation{}, fmt.Errorf("malformed ordered rotation %q", s)
		}
		switch RotationOrder(order) {
		case OrderXZY, OrderYXZ, OrderYZX, OrderZXY, OrderZYX:
		default:
			return Rotation{}, fmt.Errorf("unknown rotation order %q", order)
		}
		v, err := parseVectorWithUnit(anglesStr)
		if err != nil {
			return Rotation{}, err
		}
		return Rotation{Order: RotationOrder(order), Angles: v}, nil
	}
	v, err := parseVectorWithUnit(s)
	if err != nil {
		return Rotation{}, err
	}
	return Rotation{Order: OrderXYZ, Angles: v}, nil
}

// ParseColor parses the visualization color: six hex digits are RGB with
// opaque alpha, seven hex digits interpret the seventh as a 0-5
// transparency index mapped to alpha = 1 - n/5 (spec.md §4.2).
func ParseColor(s string) (Color, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 && len(s) != 7 {
		return Color{}, fmt.Errorf("color %q: expected 6 or 7 hex digits", s)
	}
	rgb, err := strconv.ParseUint(s[:6], 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	c := Color{
		R:     uint8(rgb >> 16),
		G:     uint8(rgb >> 8),
		B:     uint8(rgb),
		Alpha: 1.0,
	}
	if len(s) == 7 {
		n, err := strconv.ParseUint(s[6:7], 16, 8)
		if err != nil || n > 5 {
			return Color{}, fmt.Errorf("color %q: transparency index must be 0-5", s)
		}
		c.Alpha = 1.0 - float64(n)/5.0
	}
	return c, nil
}
