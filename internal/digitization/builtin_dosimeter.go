package digitization

import (
	"github.com/gemc-project/gemc-core/internal/eventdata"
	"github.com/gemc-project/gemc-core/internal/hitengine"
	"gonum.org/v1/gonum/stat"
)

// Dosimeter is the built-in `dosimeter` digitization type (spec.md
// §4.4): it accumulates absorbed dose (summed edep) and its variance
// across the hit's steps.
type Dosimeter struct {
	BaseRules
}

// NewDosimeter builds a Dosimeter routine.
func NewDosimeter() *Dosimeter {
	return &Dosimeter{BaseRules{Specs: ReadoutSpecs{Bits: hitengine.BitTrackInfo}}}
}

func (d *Dosimeter) DefineReadoutSpecs() ReadoutSpecs { return d.Specs }

func (d *Dosimeter) LoadConstants(int, string) bool        { return true }
func (d *Dosimeter) LoadTranslationTable(int, string) bool { return true }

// Digitize reports total absorbed dose and its variance across steps.
func (d *Dosimeter) Digitize(hit *hitengine.Hit, _ int) eventdata.Digitized {
	out := eventdata.NewDigitized()
	var total float64
	for _, e := range hit.EDep {
		total += e
	}
	out.SetFloat("doseTotal", total)
	if len(hit.EDep) > 1 {
		out.SetFloat("doseVariance", stat.Variance(hit.EDep, nil))
	}
	return out
}
