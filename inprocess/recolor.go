package inprocess

import (
	"sort"

	"github.com/irsearch/symmetria/core"
	"github.com/irsearch/symmetria/refine"
	"github.com/irsearch/symmetria/trace"
)

// RecolorRoot sorts vertices by (current color, invariant hash), assigns
// a fresh color to each distinct bucket, and refines to a fixpoint from
// that finer starting partition. It reports whether the resulting
// coloring has strictly more cells than root — the orchestrator only
// adopts the new root when this holds.
func RecolorRoot(g *core.Graph, root *core.Coloring, rounds int, auxiliary []uint64) (*core.Coloring, bool) {
	inv := VertexInvariant(g, root, rounds, auxiliary)
	n := root.N()

	order := make([]int32, n)
	for v := range order {
		order[v] = int32(v)
	}
	colorOf := func(v int32) int32 { return root.ColorOf(v) }
	sort.Slice(order, func(i, j int) bool {
		vi, vj := order[i], order[j]
		if ci, cj := colorOf(vi), colorOf(vj); ci != cj {
			return ci < cj
		}
		if inv[vi] != inv[vj] {
			return inv[vi] < inv[vj]
		}
		return vi < vj
	})

	newColors := make([]int32, n)
	nextBucket := int32(-1)
	var prevColor, prevHash = int32(-1), uint64(0)
	for _, v := range order {
		c, h := colorOf(v), inv[v]
		if nextBucket < 0 || c != prevColor || h != prevHash {
			nextBucket++
			prevColor, prevHash = c, h
		}
		newColors[v] = nextBucket
	}

	arena := core.NewArena(n)
	col := core.NewColoring(arena, newColors)
	refine.Refine(g, col, trace.New(), -1, -1, nil)

	return col, col.Cells() > root.Cells()
}
