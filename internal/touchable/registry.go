package touchable

import "github.com/gemc-project/gemc-core/internal/gerr"

// Registry is the build-time, per-thread binding of sensitive volumes to
// their Touchables (spec.md §4.3). A Registry belongs to exactly one
// SensitiveDetector name; volumes sharing a digitization-name across a
// world share the one Registry, so "one detector, many touchables".
type Registry struct {
	name      string
	touchables map[string]*Touchable
}

// NewRegistry creates an empty Registry for the sensitive detector named
// name.
func NewRegistry(name string) *Registry {
	return &Registry{name: name, touchables: make(map[string]*Touchable)}
}

// Name returns the sensitive-detector name this Registry is bound to.
func (r *Registry) Name() string { return r.name }

// Bind registers t under volumeKey, replacing any existing binding. Used
// once at world-build time per sensitive volume.
func (r *Registry) Bind(volumeKey string, t *Touchable) {
	r.touchables[volumeKey] = t
}

// Resolve looks up the Touchable registered for volumeKey. Per spec.md
// §4.3 step 1, an unregistered volume key is fatal.
func (r *Registry) Resolve(volumeKey string) (*Touchable, error) {
	t, ok := r.touchables[volumeKey]
	if !ok {
		return nil, gerr.Newf(gerr.TouchableNotRegistered, "volume %q has no touchable registered in detector %q", volumeKey, r.name).
			With("volume", volumeKey).
			With("detector", r.name)
	}
	return t, nil
}

// Len reports how many volumes are bound in this Registry.
func (r *Registry) Len() int { return len(r.touchables) }
