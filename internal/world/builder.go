package world

import (
	"github.com/gemc-project/gemc-core/internal/gconfig"
	"github.com/gemc-project/gemc-core/internal/gerr"
	"github.com/gemc-project/gemc-core/internal/glog"
	"github.com/gemc-project/gemc-core/internal/gsystem"
)

// SolidConstructor builds a Solid handle for one volume's shape. The real
// geometry primitives library is an external collaborator (spec.md §1);
// Builder.SolidFactory is the seam a caller with a real library plugs
// into. The zero value uses defaultSolidConstructor, a stand-in that
// records the shape tag and parameters without constructing real
// geometry, sufficient for dependency resolution and placement.
type SolidConstructor func(key string, shape gsystem.ShapeRef) (*Solid, error)

func defaultSolidConstructor(key string, shape gsystem.ShapeRef) (*Solid, error) {
	return &Solid{VolumeKey: key, Type: shape.Type, Params: shape.Parameters}, nil
}

// World is the finished product of a Build: every volume's triple, every
// constructed material, indexed by fully-qualified key.
type World struct {
	Arena     *Arena
	Materials map[string]*BuiltMaterial
}

// Builder runs the fixed-point dependency resolution algorithm of
// spec.md §4.2 over a gsystem.Union.
type Builder struct {
	Union         *gsystem.Union
	Log           *glog.Logger
	SolidFactory  SolidConstructor
	OverlapPolicy gconfig.OverlapPolicy

	arena     *Arena
	materials map[string]*BuiltMaterial
	passes    int
}

// NewBuilder creates a Builder over u. Pass a custom SolidFactory before
// calling Build to plug in a real geometry library.
func NewBuilder(u *gsystem.Union, log *glog.Logger) *Builder {
	return &Builder{
		Union:        u,
		Log:          log,
		SolidFactory: defaultSolidConstructor,
		arena:        NewArena(u),
		materials:    make(map[string]*BuiltMaterial),
	}
}

// Arena exposes the pre-build Arena so a caller can apply modifiers
// (spec.md §4.2: "applied before Phase V") between NewBuilder and Build.
func (b *Builder) Arena() *Arena {
	return b.arena
}

// Passes reports how many dependency-resolution passes Build needed
// across both phases, for operational monitoring.
func (b *Builder) Passes() int {
	return b.passes
}

// Build runs Phase M (materials) then Phase V (volumes). Build is
// idempotent: calling it again on a Builder that already completed
// returns the same World with the same object identities (spec.md §8),
// since already-built entries are skipped rather than reconstructed.
func (b *Builder) Build() (*World, error) {
	if err := b.buildMaterials(); err != nil {
		return nil, err
	}
	if err := b.buildVolumes(); err != nil {
		return nil, err
	}
	return &World{Arena: b.arena, Materials: b.materials}, nil
}

// buildMaterials implements Phase M: repeat resolving materials whose
// components (elements, assumed always available from the transport
// engine's periodic table, or other materials) all exist, until no
// material remains or a pass fails to strictly shrink the remaining set.
func (b *Builder) buildMaterials() error {
	all := b.Union.AllMaterials()
	prevRemaining := len(all) + 1
	for {
		b.passes++
		var remaining []string
		for name, m := range all {
			if _, done := b.materials[name]; done {
				continue
			}
			if b.materialDepsReady(m) {
				b.materials[name] = &BuiltMaterial{Name: m.Name, Density: m.Density, Resolved: true}
				b.Log.Debugf("built material %q", name)
			} else {
				remaining = append(remaining, name)
			}
		}
		if len(remaining) == 0 {
			return nil
		}
		if len(remaining) >= prevRemaining {
			return gerr.Newf(gerr.DependenciesUnresolved, "materials did not converge: %v", remaining)
		}
		prevRemaining = len(remaining)
	}
}

// materialDepsReady reports whether every mass-fraction component of m
// names an already-built material. Atom-count components name chemical
// elements, which the transport engine's periodic table always resolves
// (spec.md §4.2: "as element for chemical-formula").
func (b *Builder) materialDepsReady(m *gsystem.Material) bool {
	for _, c := range m.Components {
		if c.Kind != gsystem.ByMassFraction {
			continue
		}
		if _, ok := b.materials[c.Name]; !ok {
			return false
		}
	}
	return true
}

// buildVolumes implements Phase V: three build stages per volume per pass
// (solid, logical, physical), looping until every volume is complete or a
// pass fails to strictly shrink the remaining set.
func (b *Builder) buildVolumes() error {
	all := b.arena.All()
	prevRemaining := len(all) + 1
	for {
		b.passes++
		remaining := 0
		for _, bv := range all {
			if !bv.Volume.Existence {
				continue
			}
			if err := b.advance(bv); err != nil {
				return err
			}
			if !bv.IsComplete() {
				remaining++
			}
		}
		if remaining == 0 {
			return nil
		}
		if remaining >= prevRemaining {
			return gerr.New(gerr.DependenciesUnresolved, "volumes did not converge")
		}
		prevRemaining = remaining
	}
}

// advance tries to move bv one stage further: solid, then logical, then
// physical, each gated on its prerequisites existing (spec.md §4.2).
func (b *Builder) advance(bv *BuiltVolume) error {
	if !bv.HasSolid() {
		if ready, err := b.solidReady(bv); err != nil {
			return err
		} else if ready {
			solid, err := b.SolidFactory(bv.Key(), bv.Volume.Shape)
			if err != nil {
				return gerr.Newf(gerr.SolidTypeUnsupported, "volume %q: %v", bv.Key(), err).With("volume", bv.Key())
			}
			bv.Solid = solid
		}
	}
	if bv.HasSolid() && !bv.HasLogical() {
		mat, ok := b.materials[bv.Volume.Material]
		if ok {
			bv.Logical = &Logical{
				Solid:    bv.Solid,
				Material: mat,
				Color:    bv.Volume.Color,
				Visible:  bv.Volume.Visible,
				Style:    bv.Volume.Style,
			}
		} else if !ok && b.materialExistsEventually(bv.Volume.Material) {
			// material not ready yet this pass; stay pending.
		} else {
			return gerr.Newf(gerr.MaterialNotFound, "volume %q references unknown material %q", bv.Key(), bv.Volume.Material).
				With("volume", bv.Key())
		}
	}
	if bv.HasLogical() && !bv.HasPhysical() {
		if bv.Volume.IsRoot() {
			bv.Physical = &Physical{
				Logical:    bv.Logical,
				Mother:     nil,
				Position:   ResolvedPosition(bv.Volume),
				CopyNumber: bv.Volume.CopyNumber,
			}
		} else {
			motherKey := gsystem.FQKey(bv.Volume.System, bv.Volume.MotherName)
			if mother := b.arena.Get(motherKey); mother != nil && mother.HasLogical() {
				bv.Physical = &Physical{
					Logical:    bv.Logical,
					Mother:     mother.Physical,
					Position:   ResolvedPosition(bv.Volume),
					CopyNumber: bv.Volume.CopyNumber,
				}
			}
		}
	}
	return nil
}

// solidReady reports whether bv's shape operands (boolean/copy/replica
// sources) already have a built solid, or true immediately for a
// primitive shape with no operand.
func (b *Builder) solidReady(bv *BuiltVolume) (bool, error) {
	shape := bv.Volume.Shape
	switch {
	case shape.CopyOf != "":
		src := b.arena.Get(shape.CopyOf)
		return src != nil && src.HasSolid(), nil
	case shape.ReplicaOf != "":
		src := b.arena.Get(shape.ReplicaOf)
		return src != nil && src.HasSolid(), nil
	case shape.BooleanOp != "":
		src := b.arena.Get(shape.BooleanWith)
		return src != nil && src.HasSolid(), nil
	default:
		return true, nil
	}
}

// materialExistsEventually reports whether name is a material known to
// the union at all (so the volume should keep waiting) as opposed to a
// typo that will never resolve (a fatal configuration error).
func (b *Builder) materialExistsEventually(name string) bool {
	_, ok := b.Union.Material(name)
	return ok
}
