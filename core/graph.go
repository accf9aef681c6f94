package core

import (
	"sort"
	"sync"

	"github.com/bits-and-blooms/bitset"
)

// Graph is an immutable, undirected, vertex-colored graph in CSR layout.
//
// Invariant (enforced once, at Finalize): for every undirected edge {u,w}
// both (u→w) and (w→u) appear in Adj; no self-loops; no duplicate edges.
// Edges within a vertex's adjacency run are stored in arbitrary order
// unless SortAdjacency has been called.
//
// Complexity: N and M are fixed at construction; every accessor below is
// O(1) or O(degree), never O(N).
type Graph struct {
	n    int32
	m    int32     // number of directed-edge slots, == 2*|E|
	off  []int32   // offsets, len n+1; Adj[off[v]:off[v+1]] is v's neighbor run
	adj  []int32   // directed-edge slots, len m
	col  []int32   // initial color per vertex, len n
	sort bool      // whether SortAdjacency has been applied

	bitsOnce sync.Once
	adjBits  []*bitset.BitSet // lazily built, one row per vertex
}

// N returns the vertex count.
func (g *Graph) N() int { return int(g.n) }

// M returns the directed-edge-slot count (2× the undirected edge count).
func (g *Graph) M() int { return int(g.m) }

// Degree returns the number of neighbors of v.
//
// Complexity: O(1).
func (g *Graph) Degree(v int32) int32 { return g.off[v+1] - g.off[v] }

// Neighbors returns v's adjacency run as a read-only slice. Callers must
// not mutate the returned slice.
//
// Complexity: O(1) to obtain the slice header.
func (g *Graph) Neighbors(v int32) []int32 { return g.adj[g.off[v]:g.off[v+1]] }

// Color returns v's initial color.
func (g *Graph) Color(v int32) int32 { return g.col[v] }

// InitialColors returns the initial color partition as a read-only slice
// indexed by vertex.
func (g *Graph) InitialColors() []int32 { return g.col }

// HasEdge reports whether u and w are adjacent. Complexity: O(degree(u)),
// or O(log degree(u)) once SortAdjacency has been called.
func (g *Graph) HasEdge(u, w int32) bool {
	run := g.Neighbors(u)
	if g.sort {
		i := sort.Search(len(run), func(i int) bool { return run[i] >= w })
		return i < len(run) && run[i] == w
	}
	for _, x := range run {
		if x == w {
			return true
		}
	}
	return false
}

// SortAdjacency sorts every vertex's adjacency run ascending, enabling
// binary-search HasEdge lookups. Idempotent; O(M log maxDegree).
func (g *Graph) SortAdjacency() {
	if g.sort {
		return
	}
	for v := int32(0); v < g.n; v++ {
		run := g.Neighbors(v)
		sort.Slice(run, func(i, j int) bool { return run[i] < run[j] })
	}
	g.sort = true
}

// NeighborBitset returns v's adjacency as a dense bitset, building the
// per-vertex bitset cache on first use. This backs the refiner's dense
// scan path, which, once a splitter cell's total degree reaches the
// graph's vertex count, tests every vertex's row against the splitter's
// members instead of scanning the members' adjacency runs.
func (g *Graph) NeighborBitset(v int32) *bitset.BitSet {
	g.bitsOnce.Do(g.buildAdjBitsets)
	return g.adjBits[v]
}

func (g *Graph) buildAdjBitsets() {
	g.adjBits = make([]*bitset.BitSet, g.n)
	for v := int32(0); v < g.n; v++ {
		bs := bitset.New(uint(g.n))
		for _, w := range g.Neighbors(v) {
			bs.Set(uint(w))
		}
		g.adjBits[v] = bs
	}
}
