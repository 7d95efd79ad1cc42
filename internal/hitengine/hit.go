package hitengine

import "github.com/gemc-project/gemc-core/internal/touchable"

// Position3 is a bare 3-component coordinate, global or local depending
// on the step field it's attached to.
type Position3 struct {
	X, Y, Z float64
}

// Step is one transport step delivered to the Hit Engine, spec.md §4.3.
type Step struct {
	GlobalTime     float64
	GlobalPosition Position3
	LocalPosition  Position3
	EDep           float64
	TrackID        int
	ParticleID     int
	TotalEnergy    float64
	ProcessName    string
}

// Hit is the per-step accumulator bound to a Touchable value, spec.md
// §3. The always-present step vectors (EDep, GlobalTime,
// GlobalPosition, LocalPosition) all have equal length; an optional
// vector is either empty (its bit never set for this hit) or the same
// length as the always-present ones.
type Hit struct {
	Touchable *touchable.Touchable

	EDep           []float64
	GlobalTime     []float64
	GlobalPosition []Position3
	LocalPosition  []Position3

	ParticleIDs   []int
	TotalEnergies []float64
	ProcessNames  []string
	TrackIDs      []int
}

// NewHit creates an empty Hit bound to t.
func NewHit(t *touchable.Touchable) *Hit {
	return &Hit{Touchable: t}
}

// NSteps returns the number of steps folded into this hit.
func (h *Hit) NSteps() int { return len(h.EDep) }

// AppendStep appends one step's fields to h: edep scaled by t's
// energy-multiplier, time, both position vectors always; the optional
// fields gated by bits (spec.md §4.3 step 3c).
func (h *Hit) AppendStep(bits Bitset, s Step) {
	mult := h.Touchable.EnergyMultiplier
	h.EDep = append(h.EDep, s.EDep*mult)
	h.GlobalTime = append(h.GlobalTime, s.GlobalTime)
	h.GlobalPosition = append(h.GlobalPosition, s.GlobalPosition)
	h.LocalPosition = append(h.LocalPosition, s.LocalPosition)

	if bits.Has(BitParticleID) {
		h.ParticleIDs = append(h.ParticleIDs, s.ParticleID)
	}
	if bits.Has(BitTotalEnergy) {
		h.TotalEnergies = append(h.TotalEnergies, s.TotalEnergy)
	}
	if bits.Has(BitProcessName) {
		h.ProcessNames = append(h.ProcessNames, s.ProcessName)
	}
	if bits.Has(BitTrackInfo) {
		h.TrackIDs = append(h.TrackIDs, s.TrackID)
	}
}
