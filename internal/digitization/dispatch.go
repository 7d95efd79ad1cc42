package digitization

import (
	"github.com/gemc-project/gemc-core/internal/gerr"
	"github.com/gemc-project/gemc-core/internal/glog"
)

// Routine bundles one resolved Plugin with the cached, immutable
// ReadoutSpecs its DefineReadoutSpecs produced (spec.md §4.4: "called
// once after load; result is cached").
type Routine struct {
	Name   string
	Plugin Plugin
	Specs  ReadoutSpecs
}

// Dispatcher resolves and loads every sensitive detector's digitization
// routine once, before any worker starts (spec.md §5: the dispatch map
// is built on a single thread and then treated as immutable).
type Dispatcher struct {
	log      *glog.Logger
	resolver *PluginResolver
	routines map[string]*Routine
}

// NewDispatcher creates a Dispatcher that resolves plugins via resolver.
func NewDispatcher(resolver *PluginResolver, log *glog.Logger) *Dispatcher {
	return &Dispatcher{log: log, resolver: resolver, routines: make(map[string]*Routine)}
}

// Load resolves digitizationName, calls load-constants and
// load-translation-table for (runNumber, variation), then calls its
// define-readout-specs once and caches the result. A false from either
// load call is turned into a fatal plugin-load-failed error (spec.md
// §4.4).
func (d *Dispatcher) Load(digitizationName string, runNumber int, variation string) (*Routine, error) {
	if r, ok := d.routines[digitizationName]; ok {
		return r, nil
	}

	p, err := d.resolver.Resolve(digitizationName)
	if err != nil {
		return nil, err
	}

	if !p.LoadConstants(runNumber, variation) {
		return nil, gerr.Newf(gerr.PluginLoadFailed, "digitization %q: load-constants failed for run %d variation %q", digitizationName, runNumber, variation).
			With("digitization", digitizationName)
	}
	if !p.LoadTranslationTable(runNumber, variation) {
		return nil, gerr.Newf(gerr.PluginLoadFailed, "digitization %q: load-translation-table failed for run %d variation %q", digitizationName, runNumber, variation).
			With("digitization", digitizationName)
	}

	specs := p.DefineReadoutSpecs()
	r := &Routine{Name: digitizationName, Plugin: p, Specs: specs}
	d.routines[digitizationName] = r
	d.log.Debugf("loaded digitization routine %q", digitizationName)
	return r, nil
}

// Routine returns the already-loaded routine for name, if any. Used by
// the Hit Engine wiring to look up a volume's digitization routine
// without re-resolving it (spec.md §5: digitization map is read-only
// after build).
func (d *Dispatcher) Routine(name string) (*Routine, bool) {
	r, ok := d.routines[name]
	return r, ok
}

// Names returns every digitization name this dispatcher has loaded.
func (d *Dispatcher) Names() []string {
	out := make([]string, 0, len(d.routines))
	for name := range d.routines {
		out = append(out, name)
	}
	return out
}
