package hitengine

import (
	"github.com/gemc-project/gemc-core/internal/gerr"
	"github.com/gemc-project/gemc-core/internal/glog"
	"github.com/gemc-project/gemc-core/internal/touchable"
)

// Plugin is the slice of the digitization plugin capability set the Hit
// Engine drives directly (spec.md §4.4): turning one transport step's
// touchable into the 1..N touchables it should be folded into.
type Plugin interface {
	ProcessTouchable(t *touchable.Touchable, step Step) []*touchable.Touchable
}

// Engine is the per-thread Hit Engine of spec.md §4.3: it owns one
// SensitiveDetector per digitization-name and the volume-key -> detector
// routing built at registration time.
type Engine struct {
	log        *glog.Logger
	detectors  map[string]*SensitiveDetector
	volumeOwner map[string]string // volume-key -> detector name
}

// NewEngine creates an empty, per-thread Engine.
func NewEngine(log *glog.Logger) *Engine {
	return &Engine{
		log:         log,
		detectors:   make(map[string]*SensitiveDetector),
		volumeOwner: make(map[string]string),
	}
}

// Register adds sd to the engine, keyed by its own name. Calling
// Register again under the same name replaces the detector (used when
// rebuilding per-thread state between runs).
func (e *Engine) Register(sd *SensitiveDetector) {
	e.detectors[sd.Name] = sd
}

// BindVolume routes volumeKey's steps to the detector named
// detectorName, mirroring the Registry binding made at world-build time
// (spec.md §4.3 registry contract).
func (e *Engine) BindVolume(volumeKey, detectorName string) {
	e.volumeOwner[volumeKey] = detectorName
}

// Detector looks up a registered SensitiveDetector by name.
func (e *Engine) Detector(name string) (*SensitiveDetector, bool) {
	sd, ok := e.detectors[name]
	return sd, ok
}

// ProcessStep implements spec.md §4.3's step-processing contract: resolve
// the touchable, ask the plugin to split/pass it through, assign the
// track id, then fold the step into the right Hit for each returned
// touchable.
func (e *Engine) ProcessStep(volumeKey string, step Step, plugin Plugin) error {
	detName, ok := e.volumeOwner[volumeKey]
	if !ok {
		return gerr.Newf(gerr.TouchableNotRegistered, "volume %q is not bound to any sensitive detector", volumeKey).
			With("volume", volumeKey)
	}
	sd, ok := e.detectors[detName]
	if !ok {
		return gerr.Newf(gerr.TouchableNotRegistered, "detector %q not registered with this engine", detName).
			With("detector", detName)
	}

	base, err := sd.Registry.Resolve(volumeKey)
	if err != nil {
		return err
	}

	touchables := plugin.ProcessTouchable(base, step)
	for _, t := range touchables {
		t.TrackID = step.TrackID
		sd.recordStep(t, step)
	}
	return nil
}

// EndEvent implements the per-hit-collection half of spec.md §4.3's
// end-of-event contract: it snapshots every registered detector's hits
// without resetting them (the caller invokes collect-truth/digitize,
// publishes, then calls ResetEvent explicitly once publication
// succeeds).
func (e *Engine) EndEvent() map[string][]*Hit {
	out := make(map[string][]*Hit, len(e.detectors))
	for name, sd := range e.detectors {
		out[name] = sd.Hits()
	}
	return out
}

// ResetEvent clears every registered detector's per-event hit
// collection.
func (e *Engine) ResetEvent() {
	for _, sd := range e.detectors {
		sd.ResetEvent()
	}
}
