// Package touchable implements the runtime identity of a sensitive
// element (spec.md §3, §4.3): the Touchable value that the Hit Engine
// uses as its hit-grouping key.
package touchable

import (
	"fmt"
	"math"
)

// Kind is the digitization family a Touchable belongs to, which also
// determines its equality discriminator (spec.md §4.3).
type Kind int

const (
	Readout Kind = iota
	Flux
	Counter
	Dosimeter
)

func (k Kind) String() string {
	switch k {
	case Readout:
		return "readout"
	case Flux:
		return "flux"
	case Counter:
		return "counter"
	case Dosimeter:
		return "dosimeter"
	default:
		return "unknown"
	}
}

// UnsetTimeCell is the sentinel step-time-cell-index value meaning "not
// yet assigned by a readout routine" (spec.md §3).
const UnsetTimeCell = -1

// IdentityEntry is one (name, integer) pair of a Touchable's identity
// vector, matching gsystem.IdentityEntry but decoupled from it: a
// Touchable is a runtime value, not a loader record.
type IdentityEntry struct {
	Name  string
	Value int
}

// Touchable is the runtime identity of one sensitive element (spec.md
// §3). Two Touchables referring to the same physical element across
// different steps must compare Equal for the Hit Engine to fold their
// steps into a single Hit.
type Touchable struct {
	VolumeKey          string
	Kind               Kind
	IdentityVector     []IdentityEntry
	DetectorDimensions []float64
	EnergyMultiplier   float64
	TrackID            int
	StepTimeCellIndex  int
}

// New builds a Touchable for volumeKey with the given kind and identity
// vector, with EnergyMultiplier defaulted to 1 and StepTimeCellIndex
// unset, per spec.md §3.
func New(volumeKey string, kind Kind, identity []IdentityEntry) *Touchable {
	return &Touchable{
		VolumeKey:         volumeKey,
		Kind:              kind,
		IdentityVector:    identity,
		EnergyMultiplier:  1,
		StepTimeCellIndex: UnsetTimeCell,
	}
}

// Clone returns a deep copy, used when the readout-splitting rule needs
// to carry a new step-time-cell-index on an otherwise identical
// Touchable (spec.md §4.3) without aliasing the original's identity
// slice.
func (t *Touchable) Clone() *Touchable {
	c := *t
	c.IdentityVector = append([]IdentityEntry(nil), t.IdentityVector...)
	c.DetectorDimensions = append([]float64(nil), t.DetectorDimensions...)
	return &c
}

// Key renders the identity vector as "v1-v2-...-vn", the serialization
// the Translation Table is keyed on (spec.md §3).
func (t *Touchable) Key() string {
	s := ""
	for i, e := range t.IdentityVector {
		if i > 0 {
			s += "-"
		}
		s += fmt.Sprintf("%d", e.Value)
	}
	return s
}

// GroupKey renders a string that two Touchables hash to the same value
// under iff Equal would report them equal (the same two-stage rule:
// identity vector, then type-specific discriminator). The Hit Engine
// uses it as a map key for "already seen this event" instead of a
// linear Equal scan.
func (t *Touchable) GroupKey() string {
	switch t.Kind {
	case Readout:
		return fmt.Sprintf("%s#%d", t.Key(), t.StepTimeCellIndex)
	case Flux, Dosimeter:
		return fmt.Sprintf("%s#%d", t.Key(), t.TrackID)
	default:
		return t.Key()
	}
}

// Equal implements the two-stage hit-grouping comparison of spec.md
// §4.3: identity vectors must match positionwise in length and value,
// then the type-specific discriminator must also match. A
// length-mismatched identity vector is never equal; Equal does not log
// it.
func (a *Touchable) Equal(b *Touchable) bool {
	if a == nil || b == nil {
		return a == b
	}
	if len(a.IdentityVector) != len(b.IdentityVector) {
		return false
	}
	for i := range a.IdentityVector {
		if a.IdentityVector[i] != b.IdentityVector[i] {
			return false
		}
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Readout:
		return a.StepTimeCellIndex == b.StepTimeCellIndex
	case Flux, Dosimeter:
		return a.TrackID == b.TrackID
	case Counter:
		return true
	default:
		return true
	}
}

// TimeCellIndex computes the readout time-cell bin for step time t given
// the readout grid's start and time-window (spec.md §4.3, §8: the index
// at t == gridStart is 1).
func TimeCellIndex(t, gridStart, timeWindow float64) int {
	return int(math.Floor((t-gridStart)/timeWindow)) + 1
}
