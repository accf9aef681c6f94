package inprocess

import (
	"github.com/irsearch/symmetria/core"
	"github.com/irsearch/symmetria/refine"
	"github.com/irsearch/symmetria/trace"
)

// VertexInvariant computes, for every vertex, a hash that discriminates
// it from vertices the cheap refinement invariant alone cannot tell
// apart. Each vertex is probed by individualizing it (and, for rounds >
// 1, the largest surviving non-singleton cell's first representative, to
// deepen the probe) in a scratch clone of base, refining after each step
// and folding the resulting trace into the hash. auxiliary, if non-nil,
// is a per-vertex signal carried over from finished BFS levels and is
// folded in without letting it dominate vertices the probe itself
// already separates.
func VertexInvariant(g *core.Graph, base *core.Coloring, rounds int, auxiliary []uint64) []uint64 {
	n := base.N()
	inv := make([]uint64, n)
	for v := int32(0); v < n; v++ {
		clone := base.Clone()
		tr := trace.New()
		probe := v
		for r := 0; r < rounds && probe >= 0; r++ {
			start := clone.ColorOf(probe)
			classSize := clone.CellEnd(start) - start
			if classSize == 1 {
				break // already discrete at probe; no further rounds add information
			}
			clone.Individualize(probe)
			refine.Refine(g, clone, tr, start, -1, nil)
			probe = largestNonSingletonRepresentative(clone)
		}
		inv[v] = tr.Hash()
		if auxiliary != nil {
			inv[v] ^= auxiliary[v] * 0x9E3779B97F4A7C15
		}
	}
	return inv
}

// largestNonSingletonRepresentative returns the first (in Lab order)
// member of the largest non-singleton cell, or -1 if the coloring is
// already discrete.
func largestNonSingletonRepresentative(c *core.Coloring) int32 {
	lab := c.Lab()
	best := int32(-1)
	bestSize := int32(1)
	for start := int32(0); start < c.N(); {
		end := c.CellEnd(start)
		if size := end - start; size > bestSize {
			bestSize = size
			best = lab[start]
		}
		start = end
	}
	return best
}
