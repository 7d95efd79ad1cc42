package world

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gemc-project/gemc-core/internal/gsystem"
)

// DumpDependencyTree renders the mother/child placement graph as
// indented text, a Go-idiomatic stand-in for the original gtree
// debugging printer (SPEC_FULL.md, "gtree"). Used by tests and the
// --dump-tree CLI flag.
func DumpDependencyTree(w *World) string {
	children := map[string][]*BuiltVolume{}
	var root *BuiltVolume
	for _, bv := range w.Arena.All() {
		if bv.Volume.IsRoot() {
			root = bv
			continue
		}
		motherKey := gsystem.FQKey(bv.Volume.System, bv.Volume.MotherName)
		children[motherKey] = append(children[motherKey], bv)
	}
	for _, list := range children {
		sort.Slice(list, func(i, j int) bool { return list[i].Volume.Name < list[j].Volume.Name })
	}

	var sb strings.Builder
	if root != nil {
		dumpNode(&sb, root, children, 0)
	}
	return sb.String()
}

func dumpNode(sb *strings.Builder, bv *BuiltVolume, children map[string][]*BuiltVolume, depth int) {
	status := "pending"
	if bv.IsComplete() {
		status = "built"
	}
	fmt.Fprintf(sb, "%s%s (%s) [%s]\n", strings.Repeat("  ", depth), bv.Volume.Name, bv.Volume.Shape.Type, status)
	for _, child := range children[bv.Key()] {
		dumpNode(sb, child, children, depth+1)
	}
}
