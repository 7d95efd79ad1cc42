package eventdata

// RunAccumulator is the single accumulator entry a RunData keeps per
// sensitive detector (spec.md §3: "the per-detector list holds at most
// one entry").
type RunAccumulator struct {
	Truth     TrueInfo
	Digitized Digitized
}

// RunData is the per-run accumulator of spec.md §3. Summation is
// performed only for numeric, non-SRO observables; string/array
// observables and the five SRO keys are carried from the most recent
// event instead (an Open Question decision, recorded in DESIGN.md,
// since spec.md names RunData but not its summation algorithm).
type RunData struct {
	Detectors map[string]*RunAccumulator
}

// NewRunData creates an empty RunData.
func NewRunData() *RunData {
	return &RunData{Detectors: make(map[string]*RunAccumulator)}
}

// Accumulate folds one event's (truth, digitized) pair for detector
// into the run's running accumulator for that detector.
func (r *RunData) Accumulate(detector string, truth TrueInfo, dig Digitized) {
	acc, ok := r.Detectors[detector]
	if !ok {
		acc = &RunAccumulator{Truth: NewTrueInfo(), Digitized: NewDigitized()}
		r.Detectors[detector] = acc
	}
	mergeRecord(&acc.Truth.Record, &truth.Record, false)
	mergeRecord(&acc.Digitized.Record, &dig.Record, true)
}

// mergeRecord folds src's observables into dst: numeric values whose key
// is not a reserved SRO key (or applySRORule is false) are summed;
// every other value (string, array, or an SRO key when applySRORule is
// true) simply replaces dst's prior value with src's most-recent one.
func mergeRecord(dst, src *Record, applySRORule bool) {
	for _, k := range src.Keys() {
		v, _ := src.Get(k)
		carryOnly := applySRORule && IsSROKey(k)

		if !carryOnly {
			if prev, ok := dst.Get(k); ok {
				switch v.Kind {
				case KindInt:
					if prev.Kind == KindInt {
						dst.SetInt(k, prev.Int+v.Int)
						continue
					}
				case KindFloat:
					if prev.Kind == KindFloat {
						dst.SetFloat(k, prev.Float+v.Float)
						continue
					}
				}
			}
		}
		dst.set(k, v)
	}
}
