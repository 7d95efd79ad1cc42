package digitization

import (
	"path/filepath"
	"plugin"

	"github.com/gemc-project/gemc-core/internal/gerr"
)

// FactorySymbol is the exported symbol name every dynamically loaded
// digitization plugin must provide: a niladic function returning a
// Plugin (spec.md §4.4: "extracts its factory entry point").
const FactorySymbol = "NewDigitizationPlugin"

// FactoryFunc is the shape FactorySymbol must have.
type FactoryFunc func() Plugin

// PluginResolver resolves a digitization name to a Plugin: the three
// built-ins directly, anything else by searching a list of
// installation plugin directories for a `<name>.so` shared object and
// loading it via the standard library's plugin package.
type PluginResolver struct {
	SearchPaths []string
	builtins    map[string]func() Plugin
}

// NewPluginResolver creates a resolver that searches searchPaths (in
// order) for dynamically loadable plugins, falling back to them only
// when name does not name a built-in.
func NewPluginResolver(searchPaths []string) *PluginResolver {
	return &PluginResolver{
		SearchPaths: searchPaths,
		builtins: map[string]func() Plugin{
			"flux":      func() Plugin { return NewFlux() },
			"counter":   func() Plugin { return NewCounter() },
			"dosimeter": func() Plugin { return NewDosimeter() },
		},
	}
}

// Resolve returns the Plugin for name: a built-in if name matches one
// of flux/counter/dosimeter, otherwise a dynamically loaded plugin
// found under SearchPaths. Failure to find a dynamic plugin is fatal
// (spec.md §4.4: error(plugin-not-found, name)).
func (r *PluginResolver) Resolve(name string) (Plugin, error) {
	if factory, ok := r.builtins[name]; ok {
		return factory(), nil
	}
	return r.resolveDynamic(name)
}

func (r *PluginResolver) resolveDynamic(name string) (Plugin, error) {
	for _, dir := range r.SearchPaths {
		path := filepath.Join(dir, name+".so")
		p, err := plugin.Open(path)
		if err != nil {
			continue
		}
		sym, err := p.Lookup(FactorySymbol)
		if err != nil {
			continue
		}
		factory, ok := sym.(func() Plugin)
		if !ok {
			continue
		}
		return factory(), nil
	}
	return nil, gerr.Newf(gerr.PluginNotFound, "no digitization plugin named %q found in %v", name, r.SearchPaths).
		With("name", name)
}
