package preprocess

import (
	"sort"
	"strconv"
	"strings"

	"github.com/irsearch/symmetria/bignum"
	"github.com/irsearch/symmetria/core"
	"github.com/irsearch/symmetria/pairdfs"
	"github.com/irsearch/symmetria/refine"
	"github.com/irsearch/symmetria/trace"
)

// probeWalk records the canonical walk of one component: the cell starts
// where it individualized (at most two), the trace its refinements
// produced, and the component's vertices keyed by the singleton cell
// positions they end up in. A second component matches iff replaying the
// same walk on it lands its vertices in the same positions with an equal
// trace — which pins a vertex bijection that is then certified directly.
type probeWalk struct {
	steps     []int32
	traceVals []int64
	positions []int32 // singleton cell starts holding the component, ascending
	order     []int32 // the component's vertices in that position order
}

// ReduceQuotientComponentProbing groups the graph's weak connected
// components by an isomorphism-invariant signature over the refined root
// coloring and, within each group, certifies pairwise isomorphisms by a
// sparse IR probe: the representative is pinned with one or two
// individualizations, and every other component replays that walk with
// each candidate image of the individualized vertices until the induced
// bijection certifies as an automorphism. A fully certified group of k
// components contributes a k! factor and component-swap generators; its
// copies are then recolored pairwise distinct, so search computes the
// per-copy group once per copy and never re-derives the interchange
// symmetry. Groups where any certification fails (or where the
// representative needs more than two individualizations) are left
// untouched — search still handles them, just without the shortcut.
func ReduceQuotientComponentProbing(g *core.Graph) (*core.Graph, *Result) {
	n := int32(g.N())
	if n == 0 {
		return g, identityResult(n)
	}
	comp, nComp := components(g)
	if nComp < 2 {
		return g, identityResult(n)
	}
	members := make([][]int32, nComp)
	for v := int32(0); v < n; v++ {
		members[comp[v]] = append(members[comp[v]], v)
	}

	arena := core.NewArena(n)
	root := core.NewColoring(arena, g.InitialColors())
	refine.Refine(g, root, trace.New(), -1, -1, nil)

	bySig := map[string][]int32{}
	var sigOrder []string
	for c := int32(0); c < nComp; c++ {
		sig := componentSignature(g, root, members[c])
		if _, ok := bySig[sig]; !ok {
			sigOrder = append(sigOrder, sig)
		}
		bySig[sig] = append(bySig[sig], c)
	}

	factor := bignum.One()
	var groups []swapGroup
	tag := make([]int32, n)
	nextTag := int32(1)
	changed := false

	for _, sig := range sigOrder {
		class := bySig[sig]
		if len(class) < 2 {
			continue
		}
		inComp := make([]bool, n)
		for _, v := range members[class[0]] {
			inComp[v] = true
		}
		wa, ok := canonicalComponentWalk(g, root, inComp)
		if !ok {
			continue // needs more than two individualizations to pin
		}
		ords := [][]int32{wa.order}
		allOK := true
		for _, ci := range class[1:] {
			inOther := make([]bool, n)
			for _, v := range members[ci] {
				inOther[v] = true
			}
			ord, ok := matchComponent(g, root, wa, inOther)
			if !ok {
				allOK = false
				break
			}
			ords = append(ords, ord)
		}
		if !allOK {
			continue
		}
		factor = factor.MultiplyNumber(factorialFactor(len(class)))
		groups = append(groups, swapGroup{orders: ords})
		for idx, ci := range class[1:] {
			for _, v := range members[ci] {
				tag[v] = nextTag + int32(idx)
			}
		}
		nextTag += int32(len(class) - 1)
		changed = true
	}
	if !changed {
		return g, identityResult(n)
	}

	// Rebuild with copies distinguished: (original color, copy tag)
	// pairs reindexed densely.
	type colorKey struct {
		col int32
		tag int32
	}
	keys := map[colorKey]struct{}{}
	for v := int32(0); v < n; v++ {
		keys[colorKey{g.Color(v), tag[v]}] = struct{}{}
	}
	ordered := make([]colorKey, 0, len(keys))
	for k := range keys {
		ordered = append(ordered, k)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].col != ordered[j].col {
			return ordered[i].col < ordered[j].col
		}
		return ordered[i].tag < ordered[j].tag
	})
	index := make(map[colorKey]int, len(ordered))
	for i, k := range ordered {
		index[k] = i
	}

	b := core.NewBuilder()
	_ = b.Initialize(int(n), g.M())
	for v := int32(0); v < n; v++ {
		if _, err := b.AddVertex(index[colorKey{g.Color(v), tag[v]}], 0); err != nil {
			panic(err)
		}
	}
	for v := int32(0); v < n; v++ {
		for _, w := range g.Neighbors(v) {
			if w <= v {
				continue
			}
			if err := b.AddEdge(int(v), int(w)); err != nil {
				panic(err)
			}
		}
	}
	reduced, err := b.Finalize()
	if err != nil {
		panic(err)
	}

	res := identityResult(n)
	res.Factor = factor
	res.swapGroups = groups
	return reduced, res
}

// components labels every vertex with a dense weak-connected-component
// id, in order of each component's smallest vertex.
func components(g *core.Graph) ([]int32, int32) {
	n := int32(g.N())
	comp := make([]int32, n)
	for v := range comp {
		comp[v] = -1
	}
	var next int32
	stack := make([]int32, 0, n)
	for v := int32(0); v < n; v++ {
		if comp[v] >= 0 {
			continue
		}
		comp[v] = next
		stack = append(stack[:0], v)
		for len(stack) > 0 {
			u := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, w := range g.Neighbors(u) {
				if comp[w] < 0 {
					comp[w] = next
					stack = append(stack, w)
				}
			}
		}
		next++
	}
	return comp, next
}

// componentSignature folds a component's size, degree sum, and sorted
// (refined cell, degree) pairs into a string. Equal signatures are
// necessary (not sufficient) for isomorphism; distinct signatures are a
// proof of non-isomorphism, which is what keeps skipping a group sound.
func componentSignature(g *core.Graph, root *core.Coloring, members []int32) string {
	type pair struct{ cell, deg int32 }
	pairs := make([]pair, len(members))
	degSum := int32(0)
	for i, v := range members {
		pairs[i] = pair{cell: root.ColorOf(v), deg: g.Degree(v)}
		degSum += g.Degree(v)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].cell != pairs[j].cell {
			return pairs[i].cell < pairs[j].cell
		}
		return pairs[i].deg < pairs[j].deg
	})
	var sb strings.Builder
	sb.WriteString(strconv.Itoa(len(members)))
	sb.WriteByte('|')
	sb.WriteString(strconv.Itoa(int(degSum)))
	for _, p := range pairs {
		sb.WriteByte(';')
		sb.WriteString(strconv.Itoa(int(p.cell)))
		sb.WriteByte(',')
		sb.WriteString(strconv.Itoa(int(p.deg)))
	}
	return sb.String()
}

// canonicalComponentWalk individualizes the first (in Lab order)
// component vertex still sharing a cell, refining after each step, until
// every component vertex sits in a singleton cell. At most two
// individualizations are spent; components that need more are not
// probed.
func canonicalComponentWalk(g *core.Graph, root *core.Coloring, inComp []bool) (*probeWalk, bool) {
	col := root.Clone()
	tr := trace.New()
	wa := &probeWalk{}
	for {
		v := firstSharedVertex(col, inComp)
		if v < 0 {
			break
		}
		if len(wa.steps) == 2 {
			return nil, false
		}
		start := col.ColorOf(v)
		wa.steps = append(wa.steps, start)
		col.Individualize(v)
		refine.Refine(g, col, tr, start, -1, nil)
	}
	if len(wa.steps) == 0 {
		// Already discrete at the root: such components carry pairwise
		// distinct colors and can never share a signature class.
		return nil, false
	}
	wa.traceVals = append([]int64(nil), tr.Values()...)
	wa.positions, wa.order = componentPositions(col, inComp)
	return wa, true
}

// firstSharedVertex returns the first component vertex in Lab order
// whose cell is not a singleton, or -1 if the component is pinned.
func firstSharedVertex(col *core.Coloring, inComp []bool) int32 {
	lab := col.Lab()
	for pos := int32(0); pos < col.N(); pos++ {
		v := lab[pos]
		if !inComp[v] {
			continue
		}
		start := col.ColorOf(v)
		if col.CellEnd(start)-start > 1 {
			return v
		}
	}
	return -1
}

func componentPositions(col *core.Coloring, inComp []bool) (positions, order []int32) {
	lab := col.Lab()
	for pos := int32(0); pos < col.N(); pos++ {
		if inComp[lab[pos]] {
			positions = append(positions, pos)
			order = append(order, lab[pos])
		}
	}
	return positions, order
}

// matchComponent replays wa on the component marked by inComp, trying
// every candidate image of the individualized vertices, and returns the
// component's vertices aligned to wa.order once a candidate's induced
// bijection certifies as an automorphism.
func matchComponent(g *core.Graph, root *core.Coloring, wa *probeWalk, inComp []bool) ([]int32, bool) {
	for _, c1 := range candidatesIn(root, wa.steps[0], inComp) {
		col1, ok := replayWalk(g, root, wa, []int32{c1})
		if !ok {
			continue
		}
		if len(wa.steps) == 1 {
			if ord, ok := certifyAlignment(g, wa, col1, inComp); ok {
				return ord, true
			}
			continue
		}
		for _, c2 := range candidatesIn(col1, wa.steps[1], inComp) {
			col2, ok := replayWalk(g, root, wa, []int32{c1, c2})
			if !ok {
				continue
			}
			if ord, ok := certifyAlignment(g, wa, col2, inComp); ok {
				return ord, true
			}
		}
	}
	return nil, false
}

func candidatesIn(col *core.Coloring, cellStart int32, inComp []bool) []int32 {
	var out []int32
	for _, v := range col.CellVertices(cellStart) {
		if inComp[v] {
			out = append(out, v)
		}
	}
	return out
}

// replayWalk individualizes picks in order at wa's recorded cell starts,
// refining with comparison against wa's trace. A cell mismatch or trace
// divergence rejects the candidate.
func replayWalk(g *core.Graph, root *core.Coloring, wa *probeWalk, picks []int32) (*core.Coloring, bool) {
	col := root.Clone()
	tr := trace.New()
	tr.CompareAgainst(wa.traceVals, -1)
	for i, v := range picks {
		if col.ColorOf(v) != wa.steps[i] {
			return nil, false
		}
		col.Individualize(v)
		if !refine.Refine(g, col, tr, wa.steps[i], -1, nil) {
			return nil, false
		}
	}
	return col, true
}

// certifyAlignment reads the candidate component's vertices off wa's
// recorded singleton positions, builds the pairwise swap between the two
// components, and certifies it as an automorphism of g.
func certifyAlignment(g *core.Graph, wa *probeWalk, col *core.Coloring, inComp []bool) ([]int32, bool) {
	lab := col.Lab()
	ord := make([]int32, len(wa.positions))
	for j, pos := range wa.positions {
		v := lab[pos]
		if !inComp[v] || col.ColorOf(v) != pos || col.CellEnd(pos)-pos != 1 {
			return nil, false
		}
		ord[j] = v
	}
	perm := make([]int32, g.N())
	for i := range perm {
		perm[i] = int32(i)
	}
	for j, a := range wa.order {
		b := ord[j]
		perm[a], perm[b] = b, a
	}
	if _, ok := pairdfs.Certify(g, perm); !ok {
		return nil, false
	}
	return ord, true
}
