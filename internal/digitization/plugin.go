// Package digitization implements the Digitization Dispatch & Plugin
// Loader (spec.md §4.4): the capability-set contract every digitization
// routine satisfies, the three built-in routines, dynamic plugin
// resolution, and the Translation Table.
package digitization

import (
	"github.com/gemc-project/gemc-core/internal/eventdata"
	"github.com/gemc-project/gemc-core/internal/hitengine"
	"github.com/gemc-project/gemc-core/internal/touchable"
)

// ReadoutSpecs is the immutable, shared result of a plugin's
// define-readout-specs call, cached once after load (spec.md §4.4).
type ReadoutSpecs struct {
	TimeWindow float64
	GridStart  float64
	Bits       hitengine.Bitset
}

// Plugin is the full digitization capability set of spec.md §4.4. A
// built-in routine or a dynamically loaded one both satisfy this
// interface; the Dispatcher only ever talks to Plugin.
type Plugin interface {
	// DefineReadoutSpecs is called once after load; its result is
	// cached by the Dispatcher as an immutable ReadoutSpecs.
	DefineReadoutSpecs() ReadoutSpecs

	// LoadConstants and LoadTranslationTable are called once per run.
	// Returning false is a recoverable signal the Dispatcher turns into
	// a fatal plugin-load-failed error.
	LoadConstants(runNumber int, variation string) bool
	LoadTranslationTable(runNumber int, variation string) bool

	// ProcessStepTime returns the step time used downstream; the
	// default is the step's own global time.
	ProcessStepTime(t *touchable.Touchable, step hitengine.Step) float64

	// ProcessTouchable implements hitengine.Plugin: turn one step's
	// touchable into the 1..N touchables it folds into.
	ProcessTouchable(t *touchable.Touchable, step hitengine.Step) []*touchable.Touchable

	// CollectTruth and Digitize build the end-of-event records for one
	// finished hit.
	CollectTruth(hit *hitengine.Hit, hitIndex int) eventdata.TrueInfo
	Digitize(hit *hitengine.Hit, hitIndex int) eventdata.Digitized
}

// BaseRules supplies the spec.md §4.4 default implementations of
// ProcessStepTime and ProcessTouchable: plugins embed BaseRules and
// override only what distinguishes them, instead of reimplementing the
// full capability set. The default CollectTruth also lives here since
// every built-in shares it.
type BaseRules struct {
	Specs ReadoutSpecs
}

// ProcessStepTime's default is the step's own global time.
func (BaseRules) ProcessStepTime(_ *touchable.Touchable, step hitengine.Step) float64 {
	return step.GlobalTime
}

// ProcessTouchable's default is the readout time-cell split rule of
// spec.md §4.3, a no-op pass-through for non-readout kinds.
func (b BaseRules) ProcessTouchable(t *touchable.Touchable, step hitengine.Step) []*touchable.Touchable {
	return hitengine.DefaultProcessTouchable(t, step, b.Specs.GridStart, b.Specs.TimeWindow)
}

// CollectTruth's default fills identity, edep/time/position, and
// process-name observables (spec.md §4.4).
func (BaseRules) CollectTruth(hit *hitengine.Hit, hitIndex int) eventdata.TrueInfo {
	ti := eventdata.NewTrueInfo()
	for _, e := range hit.Touchable.IdentityVector {
		ti.SetInt(e.Name, e.Value)
	}
	if hitIndex >= 0 && hitIndex < hit.NSteps() {
		ti.SetFloat("edep", hit.EDep[hitIndex])
		ti.SetFloat("time", hit.GlobalTime[hitIndex])
		ti.SetFloat("x", hit.GlobalPosition[hitIndex].X)
		ti.SetFloat("y", hit.GlobalPosition[hitIndex].Y)
		ti.SetFloat("z", hit.GlobalPosition[hitIndex].Z)
	}
	if len(hit.ProcessNames) > hitIndex && hitIndex >= 0 {
		ti.SetString("process", hit.ProcessNames[hitIndex])
	}
	return ti
}

// Digitize's default produces an empty Digitized; plugins override it.
func (BaseRules) Digitize(*hitengine.Hit, int) eventdata.Digitized {
	return eventdata.NewDigitized()
}
