package digitization

import (
	"github.com/gemc-project/gemc-core/internal/eventdata"
	"github.com/gemc-project/gemc-core/internal/hitengine"
)

// Counter is the built-in `counter` digitization type (spec.md §4.4):
// identity alone suffices for its hit-grouping key, so every step on the
// same volume/identity within an event folds into one hit regardless of
// track id.
type Counter struct {
	BaseRules
}

// NewCounter builds a Counter routine.
func NewCounter() *Counter {
	return &Counter{BaseRules{Specs: ReadoutSpecs{}}}
}

func (c *Counter) DefineReadoutSpecs() ReadoutSpecs  { return c.Specs }
func (c *Counter) LoadConstants(int, string) bool        { return true }
func (c *Counter) LoadTranslationTable(int, string) bool { return true }

// Digitize reports the number of steps folded into this hit, the
// counter's whole purpose.
func (c *Counter) Digitize(hit *hitengine.Hit, _ int) eventdata.Digitized {
	d := eventdata.NewDigitized()
	d.SetInt("count", hit.NSteps())
	return d
}
