package gsystem

// ComponentKind distinguishes a material's composition style: atom counts
// (building a chemical formula) or fractional masses.
type ComponentKind int

const (
	ByAtomCount ComponentKind = iota
	ByMassFraction
)

// Component is one (name, amount) entry of a Material's composition.
// Name refers either to an element symbol or to another Material's name,
// resolved by the World Builder's Phase M (spec.md §4.2).
type Component struct {
	Name   string
	Amount float64
	Kind   ComponentKind
}

// OpticalProperty is one named property vector sampled on the material's
// shared photon-energy grid (e.g. "RINDEX", "ABSLENGTH", "SCINTILLATION").
// Invariant (spec.md §3): len(Values) == len(PhotonEnergyGrid).
type OpticalProperty struct {
	Name   string
	Values []float64
}

// Material is the declarative description of one material record,
// spec.md §3.
type Material struct {
	Name       string
	Density    float64 // g/cm^3
	Components []Component

	PhotonEnergyGrid []float64
	OpticalProps     []OpticalProperty
}

// ValidateOpticalVectors enforces the invariant that every optical/
// scintillation property vector has the same length as the photon-energy
// grid (spec.md §3, §8).
func (m *Material) ValidateOpticalVectors() error {
	n := len(m.PhotonEnergyGrid)
	for _, p := range m.OpticalProps {
		if len(p.Values) != n {
			return badOpticalLengthError(m.Name, p.Name, len(p.Values), n)
		}
	}
	return nil
}
