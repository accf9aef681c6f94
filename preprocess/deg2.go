package preprocess

import (
	"github.com/irsearch/symmetria/bignum"
	"github.com/irsearch/symmetria/core"
)

// ReduceDeg2Paths collapses maximal paths of same-colored degree-2
// vertices whose two endpoints lie in distinct color classes into a
// direct edge between those endpoints, recording the path (in walk
// order) so the lifter can reinsert it later.
//
// Compression is deliberately conservative: a candidate path is only
// collapsed when every path with the same endpoint-color pair has the
// same interior signature (color and length), no direct edge with that
// color pair exists anywhere in the graph, and no two candidate paths
// share an endpoint pair. Under those conditions the shortcut edges of a
// color pair are in bijection with its paths, so an automorphism of the
// reduced graph always has a well-defined path to splice through.
// Cycles entirely of degree-2, same-color vertices are left untouched —
// there is no distinguished endpoint pair to collapse onto.
//
// Complexity: O(n + m).
func ReduceDeg2Paths(g *core.Graph) (*core.Graph, *Result) {
	n := int32(g.N())
	visited := make([]bool, n)

	type candidate struct {
		path      compressedPath
		chainCol  int32
		colorPair [2]int32
	}
	var cands []candidate

	isChain := func(v int32) bool { return g.Degree(v) == 2 }

	for v := int32(0); v < n; v++ {
		if visited[v] || !isChain(v) {
			continue
		}
		color := g.Color(v)
		nbrs := g.Neighbors(v)
		if len(nbrs) != 2 {
			continue
		}
		visited[v] = true
		chain := []int32{v}
		var endpoints [2]int32
		degenerate := false
		for dir := 0; dir < 2; dir++ {
			prev := v
			cur := nbrs[dir]
			var seq []int32
			for isChain(cur) && g.Color(cur) == color && !visited[cur] {
				seq = append(seq, cur)
				visited[cur] = true
				cn := g.Neighbors(cur)
				if len(cn) != 2 {
					break
				}
				var next int32
				if cn[0] == prev {
					next = cn[1]
				} else {
					next = cn[0]
				}
				prev, cur = cur, next
			}
			if cur == v {
				degenerate = true // the "path" closes back on itself: a pure cycle
			}
			endpoints[dir] = cur
			if dir == 0 {
				reverseInt32(seq)
				chain = append(seq, chain...)
			} else {
				chain = append(chain, seq...)
			}
		}
		u, w := endpoints[0], endpoints[1]
		if degenerate || u == w || g.Color(u) == g.Color(w) {
			continue // no distinguishable endpoint pair to collapse onto
		}
		cands = append(cands, candidate{
			path:      compressedPath{U: u, V: w, Vertices: chain},
			chainCol:  color,
			colorPair: colorPair(g.Color(u), g.Color(w)),
		})
	}
	if len(cands) == 0 {
		return g, identityResult(n)
	}

	// Existing edges indexed by endpoint-color pair, for the conflict
	// check below.
	edgeColorPairs := make(map[[2]int32]bool)
	for v := int32(0); v < n; v++ {
		for _, w := range g.Neighbors(v) {
			if w > v {
				edgeColorPairs[colorPair(g.Color(v), g.Color(w))] = true
			}
		}
	}

	type signature struct {
		chainCol int32
		length   int
	}
	sigOf := map[[2]int32]signature{}
	rejected := map[[2]int32]bool{}
	endpointPairSeen := map[[2]int32]bool{}
	for _, c := range cands {
		cp := c.colorPair
		if edgeColorPairs[cp] {
			rejected[cp] = true
			continue
		}
		ep := pathKey(c.path.U, c.path.V)
		if endpointPairSeen[ep] {
			rejected[cp] = true // parallel paths between one endpoint pair
			continue
		}
		endpointPairSeen[ep] = true
		sig := signature{chainCol: c.chainCol, length: len(c.path.Vertices)}
		if prev, ok := sigOf[cp]; ok && prev != sig {
			rejected[cp] = true
			continue
		}
		sigOf[cp] = sig
	}

	removed := make([]bool, n)
	paths := make(map[[2]int32]compressedPath)
	for _, c := range cands {
		if rejected[c.colorPair] {
			continue
		}
		for _, cv := range c.path.Vertices {
			removed[cv] = true
		}
		paths[pathKey(c.path.U, c.path.V)] = c.path
	}
	if len(paths) == 0 {
		return g, identityResult(n)
	}

	forward := make([]int32, n)
	var backward []int32
	next := int32(0)
	for v := int32(0); v < n; v++ {
		if removed[v] {
			forward[v] = -1
			continue
		}
		forward[v] = next
		backward = append(backward, v)
		next++
	}

	b := core.NewBuilder()
	type edge struct{ u, w int32 }
	seen := make(map[[2]int32]bool)
	var edges []edge
	addEdge := func(u, w int32) {
		k := pathKey(u, w)
		if seen[k] {
			return
		}
		seen[k] = true
		edges = append(edges, edge{u, w})
	}
	for v := int32(0); v < n; v++ {
		if removed[v] {
			continue
		}
		for _, w := range g.Neighbors(v) {
			if removed[w] || w <= v {
				continue
			}
			addEdge(forward[v], forward[w])
		}
	}
	for key := range paths {
		addEdge(forward[key[0]], forward[key[1]])
	}

	_ = b.Initialize(int(next), len(edges)*2)
	for v := int32(0); v < n; v++ {
		if removed[v] {
			continue
		}
		if _, err := b.AddVertex(int(g.Color(v)), 0); err != nil {
			panic(err)
		}
	}
	for _, e := range edges {
		if err := b.AddEdge(int(e.u), int(e.w)); err != nil {
			panic(err)
		}
	}
	reduced, err := b.Finalize()
	if err != nil {
		panic(err)
	}

	// Re-key paths onto the reduced graph's endpoint ids, since that is
	// the space a lifted generator's edges will be expressed in.
	reducedPaths := make(map[[2]int32]compressedPath, len(paths))
	for _, p := range paths {
		ru, rw := forward[p.U], forward[p.V]
		reducedPaths[pathKey(ru, rw)] = compressedPath{U: ru, V: rw, Vertices: p.Vertices}
	}

	return reduced, &Result{
		NewN:     next,
		Forward:  forward,
		Backward: backward,
		Factor:   bignum.One(),
		paths:    reducedPaths,
	}
}

func colorPair(a, b int32) [2]int32 {
	if a > b {
		a, b = b, a
	}
	return [2]int32{a, b}
}

func reverseInt32(s []int32) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
