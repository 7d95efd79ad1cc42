// Package world implements the World Builder (spec.md §4.2): fixed-point
// dependency resolution over the union of loaded Systems, producing
// (solid, logical, physical) triples and composite materials.
//
// Design Notes (spec.md §9) call for replacing mother/child back-pointers
// with an arena + stable-index lookup instead of cyclic references
// between volumes and their built triples. Arena is that arena: it owns
// every BuiltVolume in load order and resolves mother/child lookups
// through a name->index map built once, so nothing holds a raw pointer
// into another volume's triple before that triple is known to exist.
package world

import "github.com/gemc-project/gemc-core/internal/gsystem"

// Arena owns every BuiltVolume by stable index and resolves
// fully-qualified volume keys to that index.
type Arena struct {
	volumes []*BuiltVolume
	indexOf map[string]int
}

// NewArena allocates one BuiltVolume slot per volume in the union, in an
// arbitrary but fixed order; Phase V fills them in over repeated passes.
func NewArena(u *gsystem.Union) *Arena {
	a := &Arena{indexOf: make(map[string]int)}
	for key, v := range u.AllVolumes() {
		idx := len(a.volumes)
		a.volumes = append(a.volumes, &BuiltVolume{Volume: v})
		a.indexOf[key] = idx
	}
	return a
}

// Get returns the BuiltVolume for a fully-qualified key, or nil if the
// union never contained that key.
func (a *Arena) Get(key string) *BuiltVolume {
	idx, ok := a.indexOf[key]
	if !ok {
		return nil
	}
	return a.volumes[idx]
}

// All returns every BuiltVolume slot, built or not, in arena order.
func (a *Arena) All() []*BuiltVolume {
	return a.volumes
}

// Len reports the number of volumes in the arena.
func (a *Arena) Len() int { return len(a.volumes) }
