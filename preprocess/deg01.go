package preprocess

import (
	"sort"
	"strconv"
	"strings"

	"github.com/irsearch/symmetria/bignum"
	"github.com/irsearch/symmetria/core"
)

// factorialFactor returns n! as a bignum.Number, built by repeated
// Multiply so it never overflows an int64 the way a direct product would
// for even moderately large n.
func factorialFactor(n int) bignum.Number {
	f := bignum.One()
	for k := int64(2); k <= int64(n); k++ {
		f = f.Multiply(k)
	}
	return f
}

// ReduceDeg01 repeatedly removes degree-0 and degree-1 vertices until no
// more remain, cascading (removing a leaf can drop its host to degree 0
// or 1 in turn, so a whole tree periphery collapses). Every removed
// vertex carries a canonical recovery string: its own color plus the
// sorted codes of the structures previously absorbed into it. Removed
// structures are interchangeable exactly when their codes match, so:
//
//   - degree-1 vertices absorbed into the same host are bucketed by
//     code and contribute a |bucket|! factor;
//   - isolated vertices (and fully collapsed components) are bucketed by
//     code alone and likewise contribute |bucket|!;
//   - a mutually adjacent degree-1 pair with equal codes (a symmetric
//     K2-shaped remnant) contributes a factor of 2, and isomorphic pairs
//     contribute a further |pairs|! between themselves.
//
// Surviving hosts are recolored by (original color, absorbed codes) so
// that search on the reduced graph can only map a host to a host with an
// isomorphic absorbed structure — which is what makes the elementwise
// string splice in the lifter well defined.
func ReduceDeg01(g *core.Graph) (*core.Graph, *Result) {
	n := int32(g.N())
	removed := make([]bool, n)
	curDeg := make([]int32, n)
	for v := int32(0); v < n; v++ {
		curDeg[v] = g.Degree(v)
	}

	children := make(map[int32][]int32)
	code := make(map[int32]string)
	order := make(map[int32][]int32)

	// buildCode derives v's canonical code and vertex order from its
	// color and the already-finalized codes of its absorbed children.
	buildCode := func(v int32) (string, []int32) {
		kids := append([]int32(nil), children[v]...)
		sort.Slice(kids, func(i, j int) bool {
			if code[kids[i]] != code[kids[j]] {
				return code[kids[i]] < code[kids[j]]
			}
			return kids[i] < kids[j]
		})
		var sb strings.Builder
		sb.WriteByte('(')
		sb.WriteString(strconv.Itoa(int(g.Color(v))))
		ord := []int32{v}
		for _, k := range kids {
			sb.WriteString(code[k])
			ord = append(ord, order[k]...)
		}
		sb.WriteByte(')')
		return sb.String(), ord
	}
	finalize := func(v int32) {
		code[v], order[v] = buildCode(v)
	}

	type leafKey struct {
		host int32
		code string
	}
	leafBuckets := map[leafKey][]int32{}
	isoBuckets := map[string][]int32{}
	type k2pair struct{ a, b int32 }
	var pairs []k2pair

	queue := make([]int32, 0, n)
	queued := make([]bool, n)
	for v := int32(0); v < n; v++ {
		if curDeg[v] <= 1 {
			queue = append(queue, v)
			queued[v] = true
		}
	}

	activeNeighbor := func(v int32) (int32, bool) {
		for _, w := range g.Neighbors(v) {
			if !removed[w] {
				return w, true
			}
		}
		return 0, false
	}

	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		queued[v] = false
		if removed[v] {
			continue
		}
		switch curDeg[v] {
		case 0:
			removed[v] = true
			finalize(v)
			isoBuckets[code[v]] = append(isoBuckets[code[v]], v)
		case 1:
			host, ok := activeNeighbor(v)
			if !ok {
				// curDeg was stale; re-evaluate as isolated.
				curDeg[v] = 0
				queue = append(queue, v)
				queued[v] = true
				continue
			}
			if curDeg[host] == 1 {
				// The current component is exactly this edge. If the two
				// halves are isomorphic it is a symmetric pair; otherwise
				// absorb v and let the host fall out as isolated.
				cv, _ := buildCode(v)
				ch, _ := buildCode(host)
				if cv == ch {
					removed[v], removed[host] = true, true
					finalize(v)
					finalize(host)
					pairs = append(pairs, k2pair{a: v, b: host})
					continue
				}
			}
			removed[v] = true
			finalize(v)
			curDeg[host]--
			children[host] = append(children[host], v)
			key := leafKey{host: host, code: code[v]}
			leafBuckets[key] = append(leafBuckets[key], v)
			if curDeg[host] <= 1 && !removed[host] && !queued[host] {
				queue = append(queue, host)
				queued[host] = true
			}
		}
	}

	factor := bignum.One()
	var groups []swapGroup
	addBucket := func(members []int32) {
		if len(members) < 2 {
			return
		}
		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
		factor = factor.MultiplyNumber(factorialFactor(len(members)))
		ords := make([][]int32, len(members))
		for i, m := range members {
			ords[i] = order[m]
		}
		groups = append(groups, swapGroup{orders: ords})
	}
	for _, ms := range leafBuckets {
		addBucket(ms)
	}
	for _, ms := range isoBuckets {
		addBucket(ms)
	}
	byPairCode := map[string][]k2pair{}
	for _, p := range pairs {
		factor = factor.Multiply(2)
		groups = append(groups, swapGroup{orders: [][]int32{order[p.a], order[p.b]}})
		pc := code[p.a] + "+" + code[p.b]
		byPairCode[pc] = append(byPairCode[pc], p)
	}
	for _, ps := range byPairCode {
		if len(ps) < 2 {
			continue
		}
		sort.Slice(ps, func(i, j int) bool { return ps[i].a < ps[j].a })
		factor = factor.MultiplyNumber(factorialFactor(len(ps)))
		ords := make([][]int32, len(ps))
		for i, p := range ps {
			ords[i] = append(append([]int32(nil), order[p.a]...), order[p.b]...)
		}
		groups = append(groups, swapGroup{orders: ords})
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

	// Annotate surviving hosts by their absorbed codes and reindex the
	// (color, annotation) pairs densely.
	annotation := make(map[int32]string)
	hostStrings := make(map[int32][]int32)
	for v := int32(0); v < n; v++ {
		if removed[v] || len(children[v]) == 0 {
			continue
		}
		kids := append([]int32(nil), children[v]...)
		sort.Slice(kids, func(i, j int) bool {
			if code[kids[i]] != code[kids[j]] {
				return code[kids[i]] < code[kids[j]]
			}
			return kids[i] < kids[j]
		})
		var sb strings.Builder
		var str []int32
		for _, k := range kids {
			sb.WriteString(code[k])
			str = append(str, order[k]...)
		}
		annotation[v] = sb.String()
		hostStrings[v] = str
	}
	newColors := denseColors(g, removed, annotation)

	b := core.NewBuilder()
	type edge struct{ u, w int32 }
	var edges []edge
	for v := int32(0); v < n; v++ {
		if removed[v] {
			continue
		}
		for _, w := range g.Neighbors(v) {
			if removed[w] || w <= v {
				continue
			}
			edges = append(edges, edge{forward[v], forward[w]})
		}
	}
	_ = b.Initialize(int(next), len(edges)*2)
	for v := int32(0); v < n; v++ {
		if removed[v] {
			continue
		}
		if _, err := b.AddVertex(newColors[v], 0); err != nil {
			panic(err) // construction invariants guaranteed by the loop above
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

// denseColors reindexes surviving vertices' (original color, annotation)
// pairs into dense consecutive color values, ordered by the pair, so
// isomorphically annotated vertices (and only those) share a reduced
// color.
func denseColors(g *core.Graph, removed []bool, annotation map[int32]string) map[int32]int {
	n := int32(g.N())
	type colorKey struct {
		col int32
		ann string
	}
	keys := map[colorKey]struct{}{}
	for v := int32(0); v < n; v++ {
		if removed[v] {
			continue
		}
		keys[colorKey{g.Color(v), annotation[v]}] = struct{}{}
	}
	ordered := make([]colorKey, 0, len(keys))
	for k := range keys {
		ordered = append(ordered, k)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].col != ordered[j].col {
			return ordered[i].col < ordered[j].col
		}
		return ordered[i].ann < ordered[j].ann
	})
	index := make(map[colorKey]int, len(ordered))
	for i, k := range ordered {
		index[k] = i
	}
	out := make(map[int32]int, n)
	for v := int32(0); v < n; v++ {
		if removed[v] {
			continue
		}
		out[v] = index[colorKey{g.Color(v), annotation[v]}]
	}
	return out
}
