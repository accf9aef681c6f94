package refine

import (
	"github.com/irsearch/symmetria/core"
	"github.com/irsearch/symmetria/trace"
)

// SplitHook is called once per resulting subclass whenever a cell splits:
// oldColor is the start index of the cell before the split, newColor is
// the start index of the new subclass, classSize is its size.
type SplitHook func(oldColor, newColor, classSize int32)

// denseThreshold: a splitter cell whose members' combined degree reaches
// the vertex count is counted via the graph's dense bitset rows instead
// of a sparse adjacency scan (the "e<n heuristic" trade-off).
const denseThreshold = 1

// cellQueue is a FIFO worklist of cell-start indices with O(1) membership
// testing, so the same cell is never queued twice.
type cellQueue struct {
	items   []int32
	queued  []bool
	head    int
}

func newCellQueue(n int32) *cellQueue {
	return &cellQueue{queued: make([]bool, n)}
}

func (q *cellQueue) push(start int32) {
	if q.queued[start] {
		return
	}
	q.queued[start] = true
	q.items = append(q.items, start)
}

func (q *cellQueue) empty() bool { return q.head >= len(q.items) }

func (q *cellQueue) pop() int32 {
	start := q.items[q.head]
	q.head++
	q.queued[start] = false
	return start
}

// Refine splits c until it is equitable with respect to g, or until the
// cell count reaches cellCountEarlyOut (if >= 0) — used when refining a
// branch against a known reference base, where there is no point
// refining past the depth the reference reached. If seedCell >= 0, only
// that cell seeds the worklist (the case right after a single
// individualization), and the result is guaranteed equitable only when c
// was equitable before that individualization; otherwise every current
// cell does (a fresh refinement from scratch).
//
// Every resulting subclass is reported to splitHook and pushed onto tr as
// the pair (newColor, classSize); Refine returns false if any push
// diverged from tr's installed reference (never on a fresh, non-comparing
// trace), and still refines to completion after a divergence. Refine
// itself never fails in the construction-error sense —
// divergence is a pruning signal, not an error.
func Refine(g *core.Graph, c *core.Coloring, tr *trace.Trace, seedCell int32, cellCountEarlyOut int32, splitHook SplitHook) bool {
	n := c.N()
	q := newCellQueue(n)
	if seedCell >= 0 {
		q.push(seedCell)
	} else {
		for start := int32(0); start < n; {
			q.push(start)
			start = c.CellEnd(start)
		}
	}

	counts := make([]int32, n)
	ok := true

	for !q.empty() {
		if cellCountEarlyOut >= 0 && c.Cells() >= cellCountEarlyOut {
			break
		}
		splitter := q.pop()
		end := c.CellEnd(splitter)
		if end-splitter == 0 {
			continue
		}

		touched, cleanup := countNeighbors(g, c, splitter, end, counts)

		// Group touched vertices by the cell they currently belong to,
		// preserving ascending cell-start order for determinism.
		byCell := make(map[int32][]int32, len(touched))
		var cellOrder []int32
		for _, v := range touched {
			cs := c.ColorOf(v)
			if _, ok := byCell[cs]; !ok {
				cellOrder = append(cellOrder, cs)
			}
			byCell[cs] = append(byCell[cs], v)
		}
		sortInt32(cellOrder)

		for _, cellStart := range cellOrder {
			cellEnd := c.CellEnd(cellStart)
			size := cellEnd - cellStart
			if size <= 1 {
				continue
			}
			keys := make([]int64, size)
			allSame := true
			for i := int32(0); i < size; i++ {
				v := c.Lab()[cellStart+i]
				keys[i] = int64(counts[v])
				if i > 0 && keys[i] != keys[0] {
					allSame = false
				}
			}
			if allSame {
				continue
			}
			// If the cell being split is itself still on the worklist, its
			// queue entry now stands for the first subclass only, so every
			// other subclass (largest included) must be queued; otherwise
			// the largest may be skipped.
			wasQueued := q.queued[cellStart]
			subStarts := c.SplitCell(cellStart, cellEnd, keys)
			if len(subStarts) <= 1 {
				continue
			}

			largestIdx, largestSize := 0, int32(0)
			for i, s := range subStarts {
				var sEnd int32
				if i+1 < len(subStarts) {
					sEnd = subStarts[i+1]
				} else {
					sEnd = cellEnd
				}
				if sEnd-s > largestSize {
					largestSize = sEnd - s
					largestIdx = i
				}
			}
			for i, s := range subStarts {
				var sEnd int32
				if i+1 < len(subStarts) {
					sEnd = subStarts[i+1]
				} else {
					sEnd = cellEnd
				}
				subSize := sEnd - s
				if splitHook != nil {
					splitHook(cellStart, s, subSize)
				}
				if !tr.Push(int64(s)) {
					ok = false
				}
				if !tr.Push(int64(subSize)) {
					ok = false
				}
				if wasQueued || i != largestIdx {
					q.push(s)
				}
			}
		}
		cleanup()
	}
	return ok
}

// countNeighbors fills counts[v] with the number of v's neighbors lying
// in the splitter cell [start,end), returning the distinct touched
// vertices and a cleanup func that zeroes counts back out. It picks the
// sparse or dense path per the splitter cell's combined degree.
func countNeighbors(g *core.Graph, c *core.Coloring, start, end int32, counts []int32) ([]int32, func()) {
	members := c.CellVertices(start)
	degreeSum := int32(0)
	for _, v := range members {
		degreeSum += g.Degree(v)
	}

	var touched []int32
	seen := make(map[int32]struct{})
	if degreeSum < denseThreshold*int32(g.N()) {
		for _, v := range members {
			for _, w := range g.Neighbors(v) {
				if counts[w] == 0 {
					if _, ok := seen[w]; !ok {
						seen[w] = struct{}{}
						touched = append(touched, w)
					}
				}
				counts[w]++
			}
		}
	} else {
		bs := g.NeighborBitset(members[0])
		_ = bs // warm the lazy-build cache before the loop below
		for v := int32(0); v < int32(g.N()); v++ {
			cnt := int32(0)
			nb := g.NeighborBitset(v)
			for _, m := range members {
				if nb.Test(uint(m)) {
					cnt++
				}
			}
			if cnt > 0 {
				counts[v] = cnt
				touched = append(touched, v)
			}
		}
	}
	cleanup := func() {
		for _, v := range touched {
			counts[v] = 0
		}
	}
	return touched, cleanup
}

func sortInt32(s []int32) {
	for i := 1; i < len(s); i++ {
		for j := i; j > 0 && s[j-1] > s[j]; j-- {
			s[j-1], s[j] = s[j], s[j-1]
		}
	}
}
