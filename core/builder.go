package core

// Builder streams a graph's vertices and edges into CSR form. It is the
// "Input graph" collaborator of: Initialize declares sizes,
// AddVertex/AddEdge populate it in any order (AddEdge takes an edge's
// endpoints in either order), and Finalize
// checks degree sums and reciprocity before freezing the result.
//
// A Builder is not safe for concurrent use; each parser/constructor owns
// one and resolves it exactly once.
type Builder struct {
	n         int32
	declaredM int32 // 2*m declared at Initialize; Finalize checks it unless 0
	colors    []int32
	adjTmp    [][]int32
	seen      map[edgeKey]struct{}
	nextV     int32
	edges     int32 // undirected edges actually added
	ready     bool
}

type edgeKey struct{ u, w int32 }

// NewBuilder returns a Builder ready for Initialize.
func NewBuilder() *Builder { return &Builder{} }

// Initialize declares the final vertex count n and the total directed-edge
// slot count twoM (== 2*|E|). Both presize internal storage, and Finalize
// checks the real counts against them: fewer than n vertices added gives
// ErrVertexCount, and a non-zero twoM that differs from twice the edges
// added gives ErrEdgeCount.
//
// Complexity: O(n).
func (b *Builder) Initialize(n, twoM int) error {
	if n < 0 || twoM < 0 {
		return ErrVertexCount
	}
	b.n = int32(n)
	b.declaredM = int32(twoM)
	b.colors = make([]int32, n)
	b.adjTmp = make([][]int32, n)
	b.seen = make(map[edgeKey]struct{}, twoM/2+1)
	b.nextV = 0
	b.edges = 0
	b.ready = true
	return nil
}

// AddVertex assigns color to the next vertex index and returns that index.
// degree, if >0, presizes the vertex's adjacency slice.
//
// Complexity: amortized O(1).
func (b *Builder) AddVertex(color int, degree int) (int32, error) {
	if !b.ready {
		return 0, ErrNotInitialized
	}
	if color < 0 {
		return 0, ErrColorRange
	}
	if b.nextV >= b.n {
		return 0, ErrVertexCount
	}
	v := b.nextV
	b.colors[v] = int32(color)
	if degree > 0 {
		b.adjTmp[v] = make([]int32, 0, degree)
	}
	b.nextV++
	return v, nil
}

// AddEdge records the undirected edge {u,w}. The endpoints may be given in
// either order: AddEdge normalizes them internally, so u>w is accepted,
// not rejected. It rejects out-of-range endpoints and u==w (self-loops are
// out of scope) with ErrMalformedEdge, and a pair already added, in either
// order, with ErrDuplicateEdge.
//
// Complexity: O(1) amortized.
func (b *Builder) AddEdge(u, w int) error {
	if !b.ready {
		return ErrNotInitialized
	}
	if u < 0 || w < 0 || int32(u) >= b.n || int32(w) >= b.n || u == w {
		return ErrMalformedEdge
	}
	uu, ww := int32(u), int32(w)
	if uu > ww {
		uu, ww = ww, uu
	}
	key := edgeKey{uu, ww}
	if _, dup := b.seen[key]; dup {
		return ErrDuplicateEdge
	}
	b.seen[key] = struct{}{}
	b.adjTmp[uu] = append(b.adjTmp[uu], ww)
	b.adjTmp[ww] = append(b.adjTmp[ww], uu)
	b.edges++
	return nil
}

// Finalize checks degree sums and reciprocity, then freezes the CSR Graph.
// The Builder must not be reused afterward.
//
// Complexity: O(n + m).
func (b *Builder) Finalize() (*Graph, error) {
	if !b.ready {
		return nil, ErrNotInitialized
	}
	if b.nextV != b.n {
		return nil, ErrVertexCount
	}
	twoM := b.edges * 2
	if b.declaredM != 0 && b.declaredM != twoM {
		return nil, ErrEdgeCount
	}

	off := make([]int32, b.n+1)
	for v := int32(0); v < b.n; v++ {
		off[v+1] = off[v] + int32(len(b.adjTmp[v]))
	}
	if off[b.n] != twoM {
		return nil, ErrDegreeMismatch
	}
	adj := make([]int32, twoM)
	for v := int32(0); v < b.n; v++ {
		copy(adj[off[v]:off[v+1]], b.adjTmp[v])
	}

	g := &Graph{
		n:   b.n,
		m:   twoM,
		off: off,
		adj: adj,
		col: b.colors,
	}
	b.ready = false
	return g, nil
}
