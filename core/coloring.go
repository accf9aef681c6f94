package core

import "sort"

// Coloring is an ordered partition of V: a permutation Lab of vertex
// indices together with a boundary marker Ptn (Ptn[i]>0 means i and i+1
// share a class; Ptn[i]==0 marks a class boundary), and the two inverse
// maps VtoCol (start index of v's class) and VtoLab (position of v in
// Lab). It supports O(1) individualization and reversible refinement via
// a change trail.
//
// A Coloring is owned by exactly one goroutine; never share one across
// workers without Clone.
type Coloring struct {
	n       int32
	lab     []int32
	vtoLab  []int32
	vtoCol  []int32
	scratch []int32
	ptn     []int8
	cells   int32
	arena   *Arena
	trail   []trailEntry
}

// trailEntry records one reversible split: the cell [start,end) as it
// stood before the split, and the boundary positions created inside it.
// Undo restores Ptn at those positions and re-points VtoCol for the
// whole range back to start.
type trailEntry struct {
	start, end int32
	boundaries []int32
}

// NewColoring builds the initial ordered partition from a graph's initial
// colors: vertices are grouped by color, classes ordered by ascending
// color value, each class internally ordered by vertex index.
//
// Complexity: O(n log n).
func NewColoring(arena *Arena, initialColors []int32) *Coloring {
	n := int32(len(initialColors))
	lab, vtoLab, vtoCol, scratch, ptn := arena.alloc()
	c := &Coloring{n: n, lab: lab, vtoLab: vtoLab, vtoCol: vtoCol, scratch: scratch, ptn: ptn, arena: arena}

	for i := int32(0); i < n; i++ {
		lab[i] = i
	}
	sort.SliceStable(lab, func(i, j int) bool { return initialColors[lab[i]] < initialColors[lab[j]] })
	c.cells = 0
	for i := int32(0); i < n; i++ {
		vtoLab[lab[i]] = i
		if i == n-1 || initialColors[lab[i]] != initialColors[lab[i+1]] {
			ptn[i] = 0
			c.cells++
		} else {
			ptn[i] = 1
		}
	}
	// fill VtoCol per class
	start := int32(0)
	for i := int32(0); i < n; i++ {
		vtoCol[lab[i]] = start
		if ptn[i] == 0 {
			start = i + 1
		}
	}
	return c
}

// N returns the number of vertices.
func (c *Coloring) N() int32 { return c.n }

// Cells returns the current number of color classes.
func (c *Coloring) Cells() int32 { return c.cells }

// Discrete reports whether every class is a singleton.
func (c *Coloring) Discrete() bool { return c.cells == c.n }

// Lab returns the lab permutation (read-only; callers must not mutate).
func (c *Coloring) Lab() []int32 { return c.lab }

// Ptn returns the boundary marker (read-only).
func (c *Coloring) Ptn() []int8 { return c.ptn }

// ColorOf returns the starting index of v's class (the "color" identifier
// used throughout the refiner and selectors).
func (c *Coloring) ColorOf(v int32) int32 { return c.vtoCol[v] }

// PositionOf returns v's position in Lab.
func (c *Coloring) PositionOf(v int32) int32 { return c.vtoLab[v] }

// CellEnd returns the exclusive end of the class starting at start.
func (c *Coloring) CellEnd(start int32) int32 {
	i := start
	for c.ptn[i] != 0 {
		i++
	}
	return i + 1
}

// CellVertices returns the vertices of the class starting at start, in
// Lab order.
func (c *Coloring) CellVertices(start int32) []int32 {
	return c.lab[start:c.CellEnd(start)]
}

// Mark returns the current trail depth, to be passed to Undo later.
func (c *Coloring) Mark() int { return len(c.trail) }

// Undo reverses every split recorded since the trail was at depth mark,
// restoring both Ptn and VtoCol. Complexity: O(total size of undone
// cells).
func (c *Coloring) Undo(mark int) {
	for len(c.trail) > mark {
		e := c.trail[len(c.trail)-1]
		c.trail = c.trail[:len(c.trail)-1]
		for _, pos := range e.boundaries {
			c.ptn[pos] = 1
		}
		c.cells -= int32(len(e.boundaries))
		for i := e.start; i < e.end; i++ {
			c.vtoCol[c.lab[i]] = e.start
		}
	}
}

// Individualize extracts v into its own singleton class placed at the end
// of v's current class. Returns false if v's class was
// already a singleton (a no-op, still pushes no trail entry).
//
// Complexity: O(class size of v).
func (c *Coloring) Individualize(v int32) bool {
	start := c.vtoCol[v]
	end := c.CellEnd(start)
	if end-start == 1 {
		return false // already discrete at v
	}
	pos := c.vtoLab[v]
	last := end - 1
	if pos != last {
		ov := c.lab[last]
		c.lab[last], c.lab[pos] = c.lab[pos], c.lab[last]
		c.vtoLab[v] = last
		c.vtoLab[ov] = pos
	}
	oldPtn := c.ptn[last-1]
	c.ptn[last-1] = 0
	c.vtoCol[v] = last
	c.cells++
	c.trail = append(c.trail, trailEntry{start: start, end: end, boundaries: []int32{last - 1}})
	_ = oldPtn // boundaries always come from a non-boundary position; restored as 1 by Undo
	return true
}

// SplitCell partitions [start,end) by ascending key (stable with respect
// to current Lab order for equal keys), inserting new class boundaries
// wherever the key changes. It returns the start index of every resulting
// subclass (including start itself) in ascending order, and pushes one
// trailEntry covering the whole split.
//
// keys must be indexed by position (keys[i] corresponds to c.lab[start+i]
// BEFORE sorting); SplitCell sorts a separate index slice and never
// modifies keys, so callers may pass a slice computed once over
// [start,end).
//
// Complexity: O(k log k) where k = end-start.
func (c *Coloring) SplitCell(start, end int32, keys []int64) []int32 {
	k := int(end - start)
	if k <= 1 {
		return []int32{start}
	}
	idx := make([]int32, k)
	for i := range idx {
		idx[i] = int32(i)
	}
	sort.SliceStable(idx, func(i, j int) bool { return keys[idx[i]] < keys[idx[j]] })

	newLab := make([]int32, k)
	for i, p := range idx {
		newLab[i] = c.lab[int(start)+int(p)]
	}
	copy(c.lab[start:end], newLab)
	for i := start; i < end; i++ {
		c.vtoLab[c.lab[i]] = i
	}

	var boundaries []int32
	subStarts := []int32{start}
	cellStart := start
	for i := 0; i < k; i++ {
		globalPos := start + int32(i)
		isLast := i == k-1
		changed := !isLast && keys[idx[i]] != keys[idx[i+1]]
		if changed || isLast {
			if globalPos != end-1 {
				c.ptn[globalPos] = 0
				boundaries = append(boundaries, globalPos)
			}
			for p := cellStart; p <= globalPos; p++ {
				c.vtoCol[c.lab[p]] = cellStart
			}
			if !isLast {
				cellStart = globalPos + 1
				subStarts = append(subStarts, cellStart)
			}
		}
	}
	c.cells += int32(len(boundaries))
	if len(boundaries) > 0 {
		c.trail = append(c.trail, trailEntry{start: start, end: end, boundaries: boundaries})
	}
	return subStarts
}

// Scratch returns the arena-backed scratch buffer of length n carved
// alongside the coloring's arrays. Refine does not use it; it allocates
// its own count and key buffers.
func (c *Coloring) Scratch() []int32 { return c.scratch }

// Clone produces an independent snapshot: a fresh arena allocation with
// the same Lab/Ptn/VtoCol/VtoLab contents and an empty trail. This backs
// the IR controller's SaveState/LoadState in non-reversible mode; the
// allocation is a bump, the memcpy is O(n).
func (c *Coloring) Clone() *Coloring {
	lab, vtoLab, vtoCol, scratch, ptn := c.arena.alloc()
	copy(lab, c.lab)
	copy(vtoLab, c.vtoLab)
	copy(vtoCol, c.vtoCol)
	copy(ptn, c.ptn)
	return &Coloring{n: c.n, lab: lab, vtoLab: vtoLab, vtoCol: vtoCol, scratch: scratch, ptn: ptn, cells: c.cells, arena: c.arena}
}
