package hitengine

// Bitset selects which optional per-step fields a Hit records, derived
// from a digitization plugin's declared readout specs (spec.md §3,
// §4.3). The always-present fields (edep, global time, global and local
// position) are never gated by it.
type Bitset uint32

const (
	BitParticleID Bitset = 1 << iota
	BitTotalEnergy
	BitProcessName
	BitTrackInfo
)

// Has reports whether every bit in want is set in b.
func (b Bitset) Has(want Bitset) bool { return b&want == want }
