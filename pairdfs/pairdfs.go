package pairdfs

import (
	"github.com/irsearch/symmetria/bignum"
	"github.com/irsearch/symmetria/core"
	"github.com/irsearch/symmetria/ircontrol"
)

// CandidatePermutation builds π = other⁻¹ ∘ canonical from two discrete
// colorings over the same graph: position i in canonical's Lab names the
// same structural position as position i in other's Lab, so
// π(canonical.Lab()[i]) = other.Lab()[i].
//
// Complexity: O(n). Both colorings must be discrete.
func CandidatePermutation(canonical, other *core.Coloring) []int32 {
	n := canonical.N()
	perm := make([]int32, n)
	cl, ol := canonical.Lab(), other.Lab()
	for i := int32(0); i < n; i++ {
		perm[cl[i]] = ol[i]
	}
	return perm
}

// Certify checks that perm preserves both colors and adjacency, returning
// perm's support (the vertices it moves). It checks colors for every
// vertex (cheap, O(n)) but only scans edges touching the support, falling
// back to nothing extra when the support is small — the common case for a
// leaf produced by individualizing a single extra vertex deep in the
// base.
//
// Complexity: O(n + sum of degrees of the support).
func Certify(g *core.Graph, perm []int32) (supp []int32, ok bool) {
	n := int32(g.N())
	for v := int32(0); v < n; v++ {
		if g.Color(v) != g.Color(perm[v]) {
			return nil, false
		}
		if perm[v] != v {
			supp = append(supp, v)
		}
	}
	for _, v := range supp {
		for _, w := range g.Neighbors(v) {
			if !g.HasEdge(perm[v], perm[w]) {
				return supp, false
			}
		}
	}
	return supp, true
}

// LeafProducer individualizes sibling at the class base[level] recorded,
// refines to a leaf, and reports whether refinement reached a discrete
// coloring without diverging. It is supplied by the orchestrator, which
// owns the Controller/refine wiring; pairdfs only consumes leaves.
type LeafProducer func(level int, sibling int32) (leaf *core.Coloring, ok bool)

// Result reports how far the paired DFS climbed the base.
type Result struct {
	// DroppedLevels is how many levels (counting from the deepest) were
	// proven symmetric and removed from further exploration.
	DroppedLevels int
	// FailedAtLevel is the base index where certification first failed,
	// or -1 if every level up to the root was dropped.
	FailedAtLevel int
	// Factor is the product of class sizes at every dropped level.
	Factor bignum.Number
}

// Run climbs base from its deepest level upward. At each level it asks
// produce for every sibling of base[level].Vertex within that level's
// class (every other vertex that shared the target color just before
// individualization), builds the candidate permutation against
// canonicalLeaf, and certifies it. A level drops only if every sibling
// certifies; the first level with an uncertified or unreachable sibling
// halts the climb.
//
// siblings, supplied by the orchestrator (usually from the coloring
// snapshot taken just before base[level] was individualized), lists the
// other vertices that occupied the same class.
func Run(g *core.Graph, canonicalLeaf *core.Coloring, base ircontrol.Base, siblings func(level int) []int32, produce LeafProducer) Result {
	res := Result{FailedAtLevel: -1, Factor: bignum.One()}
	for level := len(base) - 1; level >= 0; level-- {
		sibs := siblings(level)
		allOK := true
		for _, s := range sibs {
			if s == base[level].Vertex {
				continue
			}
			leaf, ok := produce(level, s)
			if !ok {
				allOK = false
				break
			}
			perm := CandidatePermutation(canonicalLeaf, leaf)
			if _, ok := Certify(g, perm); !ok {
				allOK = false
				break
			}
		}
		if !allOK {
			res.FailedAtLevel = level
			return res
		}
		res.DroppedLevels++
		res.Factor = res.Factor.Multiply(int64(base[level].ClassSize))
	}
	return res
}
