package gsystem

import (
	"fmt"

	"github.com/gemc-project/gemc-core/internal/gconfig"
	"github.com/gemc-project/gemc-core/internal/glog"
)

// Request is the (experiment, system, variation, run-number, factory-tag)
// tuple plus the search-path list that identifies one load operation,
// spec.md §4.1.
type Request struct {
	Experiment string
	System     string
	Variation  string
	RunNumber  int
	Factory    gconfig.Factory

	// SearchPaths is tried in order: cwd, install root, examples.
	SearchPaths []string

	// StorePath is the connection string/filesystem location of the
	// store: a sqlite file path for FactorySQLite, a mesh directory for
	// FactoryCAD, an XML file for FactoryGDML. Unused by FactoryASCII,
	// which derives its filenames from System+Variation instead.
	StorePath string
}

// Loader is the common "load-materials then load-geometry" protocol every
// factory tag implements, spec.md §4.1.
type Loader interface {
	// LoadMaterials populates sys.materials. An empty table is not fatal:
	// the transport engine may supply materials natively.
	LoadMaterials(req Request, sys *System) error
	// LoadGeometry populates sys.volumes.
	LoadGeometry(req Request, sys *System) error
}

// registry maps a factory tag to its Loader implementation. Built-in
// loaders are registered in each factory's init(); a wider set of "none
// beyond these four" store types matches spec.md §4.1 exactly, so no
// dynamic registration hook is exposed here the way digitization plugins
// get one (contrast internal/digitization/resolver.go).
var registry = map[gconfig.Factory]Loader{}

func register(tag gconfig.Factory, l Loader) {
	registry[tag] = l
}

// Load runs the full System Loader contract for one request: resolve the
// factory, load materials, then load geometry, into a freshly constructed
// System.
func Load(req Request, log *glog.Logger) (*System, error) {
	loader, ok := registry[req.Factory]
	if !ok {
		return nil, storeNotFoundError(string(req.Factory), req.System)
	}
	sys := NewSystem(req.System, req.Experiment, req.Variation, req.RunNumber)

	log.Infof("loading system %q (factory=%s variation=%s runno=%d)", req.System, req.Factory, req.Variation, req.RunNumber)

	if err := loader.LoadMaterials(req, sys); err != nil {
		return nil, err
	}
	if err := loader.LoadGeometry(req, sys); err != nil {
		return nil, err
	}
	log.Infof("system %q: %d volumes, %d materials", req.System, len(sys.Volumes()), len(sys.Materials()))
	return sys, nil
}

// resolvePath returns one candidate per search path, in order, each
// formatted as dir/filename; callers still need to stat them.
func resolvePath(req Request, filename string) []string {
	candidates := make([]string, 0, len(req.SearchPaths))
	for _, dir := range req.SearchPaths {
		candidates = append(candidates, fmt.Sprintf("%s/%s", dir, filename))
	}
	return candidates
}
