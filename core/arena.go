package core

// Arena is a thread-local bulk allocator that co-allocates a Coloring's
// lab, vtoLab and vtoCol slices plus an n-sized scratch slice ("4n
// ints") out of a single growable block, so snapshotting a Coloring is a
// bump allocation instead of separate heap allocations per array. ptn,
// being int8, is allocated on its own.
//
// An Arena is never shared across goroutines, and blocks are never freed
// individually. Callers in this module build a new Arena for each fresh
// root coloring rather than resetting an old one.
type Arena struct {
	n       int32
	block   []int32 // current block, len = capacity*4n
	used    int32   // number of Colorings carved from the current block
	cap     int32   // capacity (in Colorings) of the current block
	blocks  int     // diagnostic: total blocks allocated since last Reset
}

const arenaInitialCap = 8

// NewArena returns an Arena sized for colorings over n vertices.
func NewArena(n int32) *Arena {
	a := &Arena{n: n}
	a.grow(arenaInitialCap)
	return a
}

func (a *Arena) grow(cap int32) {
	a.block = make([]int32, int(cap)*int(4*a.n))
	a.cap = cap
	a.used = 0
	a.blocks++
}

// alloc carves 4n fresh int32s from the current block, growing it
// geometrically (×2) first if it is exhausted. The fourth n-sized segment
// becomes the Coloring's scratch buffer (see Coloring.Scratch).
func (a *Arena) alloc() (lab, vtoLab, vtoCol, scratch []int32, ptn []int8) {
	if a.used >= a.cap {
		a.grow(a.cap * 2)
	}
	base := a.used * 4 * a.n
	a.used++
	n := a.n
	lab = a.block[base : base+n : base+n]
	vtoLab = a.block[base+n : base+2*n : base+2*n]
	vtoCol = a.block[base+2*n : base+3*n : base+3*n]
	scratch = a.block[base+3*n : base+4*n : base+4*n]
	// ptn is int8, not int32; kept in a side slice sized off the same
	// cadence so allocation pressure tracks the other three arrays.
	ptn = make([]int8, n)
	return
}

// Reset discards every block and starts over at the initial capacity for
// colorings over n vertices. Nothing in this module calls it; the
// orchestrator builds new Arenas instead.
func (a *Arena) Reset(n int32) {
	a.n = n
	a.grow(arenaInitialCap)
}

// Blocks reports how many blocks have been allocated since the last
// Reset; exposed for tests and diagnostics only.
func (a *Arena) Blocks() int { return a.blocks }
