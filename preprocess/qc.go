package preprocess

import (
	"sort"
	"strconv"

	"github.com/irsearch/symmetria/bignum"
	"github.com/irsearch/symmetria/core"
)

// identityResult returns a Result that performs no reduction: every
// vertex maps to itself and no group-order factor is contributed.
func identityResult(n int32) *Result {
	forward := make([]int32, n)
	backward := make([]int32, n)
	for v := int32(0); v < n; v++ {
		forward[v] = v
		backward[v] = v
	}
	return &Result{NewN: n, Forward: forward, Backward: backward, Factor: bignum.One()}
}

// ReduceDeg2Match finds groups of same-colored degree-2 vertices whose
// two neighbors are the same pair of hosts — mutually parallel vertices,
// interchangeable without touching the rest of the graph — and folds each
// group into one representative with a |group|! factor. The survivor is
// recolored by its absorbed-twin count so search cannot map it onto a
// vertex with a different number of twins.
func ReduceDeg2Match(g *core.Graph) (*core.Graph, *Result) {
	n := int32(g.N())
	byPair := make(map[[2]int32][]int32)
	for v := int32(0); v < n; v++ {
		if g.Degree(v) != 2 {
			continue
		}
		nb := g.Neighbors(v)
		key := pathKey(nb[0], nb[1])
		byPair[key] = append(byPair[key], v)
	}

	removed := make([]bool, n)
	factor := bignum.One()
	var groups []swapGroup
	annotation := make(map[int32]string)
	hostStrings := make(map[int32][]int32)
	for _, verts := range byPair {
		byColor := make(map[int32][]int32)
		for _, v := range verts {
			byColor[g.Color(v)] = append(byColor[g.Color(v)], v)
		}
		for _, group := range byColor {
			if len(group) < 2 {
				continue
			}
			sort.Slice(group, func(i, j int) bool { return group[i] < group[j] })
			rep := group[0]
			for _, v := range group[1:] {
				removed[v] = true
			}
			factor = factor.MultiplyNumber(factorialFactor(len(group)))
			ords := make([][]int32, len(group))
			for i, v := range group {
				ords[i] = []int32{v}
			}
			groups = append(groups, swapGroup{orders: ords})
			annotation[rep] = strconv.Itoa(len(group))
			hostStrings[rep] = append([]int32(nil), group[1:]...)
		}
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

	if next == n {
		return g, identityResult(n)
	}

	newColors := denseColors(g, removed, annotation)
	b := core.NewBuilder()
	type edge struct{ u, w int32 }
	seen := make(map[[2]int32]bool)
	var edges []edge
	for v := int32(0); v < n; v++ {
		if removed[v] {
			continue
		}
		for _, w := range g.Neighbors(v) {
			if removed[w] || w <= v {
				continue
			}
			k := pathKey(forward[v], forward[w])
			if seen[k] {
				continue
			}
			seen[k] = true
			edges = append(edges, edge{forward[v], forward[w]})
		}
	}
	_ = b.Initialize(int(next), len(edges)*2)
	for v := int32(0); v < n; v++ {
		if removed[v] {
			continue
		}
		if _, err := b.AddVertex(newColors[v], 0); err != nil {
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

	return reduced, &Result{
		NewN:        next,
		Forward:     forward,
		Backward:    backward,
		Factor:      factor,
		swapGroups:  groups,
		hostStrings: hostStrings,
	}
}

// ReduceQuotientEdgeFlip is deliberately unimplemented and runs as an
// identity stage. The real rewrite drops a complete bipartite cell pair
// (its trigger does fire, e.g. on K_{3,3}) but requires flipping the
// pair's internal representation to a non-edge list so every downstream
// degree computation stays correct — an invasive change to the graph
// model that only pays off once saturated pairs are large. Search
// handles the saturated instances correctly without it, just without
// the shortcut. The stage stays in the schedule so implementing it
// later is a local change; the scope decision is recorded in DESIGN.md.
func ReduceQuotientEdgeFlip(g *core.Graph) (*core.Graph, *Result) {
	return g, identityResult(int32(g.N()))
}
