package hitengine

import "github.com/gemc-project/gemc-core/internal/touchable"

// SensitiveDetector is the per-thread, per-digitization-name hit
// collector of spec.md §4.3. Every volume sharing a digitization-name
// is bound into the same SensitiveDetector's Registry, so "one
// detector, many touchables".
type SensitiveDetector struct {
	Name     string
	Registry *touchable.Registry
	Bits     Bitset

	hits  map[string]*Hit
	order []string
}

// NewSensitiveDetector creates a SensitiveDetector named name, bound to
// reg and the optional-field bitset derived from the owning
// digitization plugin's readout specs.
func NewSensitiveDetector(name string, reg *touchable.Registry, bits Bitset) *SensitiveDetector {
	return &SensitiveDetector{
		Name:     name,
		Registry: reg,
		Bits:     bits,
		hits:     make(map[string]*Hit),
	}
}

// recordStep folds one step into the Hit for t, creating a new Hit on
// first sight within the current event (spec.md §4.3 step 3b).
func (sd *SensitiveDetector) recordStep(t *touchable.Touchable, s Step) {
	key := t.GroupKey()
	h, ok := sd.hits[key]
	if !ok {
		h = NewHit(t)
		sd.hits[key] = h
		sd.order = append(sd.order, key)
	}
	h.AppendStep(sd.Bits, s)
}

// Hits returns every Hit accumulated so far this event, in first-seen
// order.
func (sd *SensitiveDetector) Hits() []*Hit {
	out := make([]*Hit, 0, len(sd.order))
	for _, key := range sd.order {
		out = append(out, sd.hits[key])
	}
	return out
}

// ResetEvent clears the per-event hit collection, called once the
// finished event has been published (spec.md §4.3 end-of-event
// contract runs first; the owning Engine resets after).
func (sd *SensitiveDetector) ResetEvent() {
	sd.hits = make(map[string]*Hit)
	sd.order = nil
}
