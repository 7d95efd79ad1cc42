package digitization

import (
	"github.com/gemc-project/gemc-core/internal/eventdata"
	"github.com/gemc-project/gemc-core/internal/hitengine"
	"gonum.org/v1/gonum/stat"
)

// Flux is the built-in `flux` digitization type (spec.md §4.4): it
// counts crossing tracks and summarizes the step-energy distribution,
// with no translation table and no electronics readout.
type Flux struct {
	BaseRules
}

// NewFlux builds a Flux routine; its readout specs carry a zero
// time-window since flux touchables never split by time cell.
func NewFlux() *Flux {
	return &Flux{BaseRules{Specs: ReadoutSpecs{Bits: hitengine.BitTrackInfo}}}
}

func (f *Flux) DefineReadoutSpecs() ReadoutSpecs { return f.Specs }

func (f *Flux) LoadConstants(int, string) bool        { return true }
func (f *Flux) LoadTranslationTable(int, string) bool { return true }

// Digitize summarizes the hit's step-energy vector with mean and
// standard deviation, using gonum/stat instead of a hand-rolled
// accumulator.
func (f *Flux) Digitize(hit *hitengine.Hit, _ int) eventdata.Digitized {
	d := eventdata.NewDigitized()
	d.SetInt("nsteps", hit.NSteps())
	if len(hit.EDep) > 0 {
		mean, std := stat.MeanStdDev(hit.EDep, nil)
		d.SetFloat("edepMean", mean)
		d.SetFloat("edepStdDev", std)
	}
	return d
}
