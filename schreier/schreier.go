// Package schreier — see doc.go for the design overview.
package schreier

import (
	"sync"
	"sync/atomic"

	"github.com/irsearch/symmetria/bignum"
)

// Perm is a permutation of [0, n) represented as a dense image array:
// Perm[v] is the image of v.
type Perm []int32

// Identity returns the identity permutation over n points.
func Identity(n int32) Perm {
	p := make(Perm, n)
	for i := range p {
		p[i] = int32(i)
	}
	return p
}

// Compose returns f∘g, i.e. the permutation v ↦ f[g[v]] (g applied
// first).
func Compose(f, g Perm) Perm {
	out := make(Perm, len(g))
	for v, gv := range g {
		out[v] = f[gv]
	}
	return out
}

// Inverse returns p⁻¹.
func Inverse(p Perm) Perm {
	out := make(Perm, len(p))
	for v, pv := range p {
		out[pv] = int32(v)
	}
	return out
}

// IsIdentity reports whether p fixes every point.
func IsIdentity(p Perm) bool {
	for v, pv := range p {
		if pv != int32(v) {
			return false
		}
	}
	return true
}

// level holds one base point's orbit and coset-representative
// transversal, plus the generators known to stabilize every earlier base
// point (the generators that are actually eligible to grow this level's
// orbit).
type level struct {
	fixed  int32
	orbit  map[int32]Perm // vertex -> rep s.t. rep[fixed] == vertex
	gens   []Perm
}

// Chain is a Schreier-Sims stabilizer chain over a fixed base.
type Chain struct {
	n      int32
	base   []int32
	levels []*level
	mu     []sync.Mutex
	nGen   atomic.Int64
	allGen []Perm
	allMu  sync.Mutex
}

// New returns a Chain over n points with the given base (the base points
// need not be distinct from each other's later stabilizer structure;
// callers pass the base recorded by the first root-to-leaf walk).
func New(n int32, base []int32) *Chain {
	c := &Chain{n: n, base: append([]int32(nil), base...)}
	c.levels = make([]*level, len(base))
	c.mu = make([]sync.Mutex, len(base))
	id := Identity(n)
	for i, b := range base {
		c.levels[i] = &level{fixed: b, orbit: map[int32]Perm{b: id}}
	}
	return c
}

// N returns the point count.
func (c *Chain) N() int32 { return c.n }

// Depth returns the base length.
func (c *Chain) Depth() int { return len(c.levels) }

// OrbitSize returns the current orbit size at level.
func (c *Chain) OrbitSize(level int) int {
	c.mu[level].Lock()
	defer c.mu[level].Unlock()
	return len(c.levels[level].orbit)
}

// Sift reduces g modulo the chain. If g lies in the currently known
// group, it returns (true, -1, nil) ("absorbed"). Otherwise it returns
// (false, level, residual) where residual is a new generator that must
// be added at that level via AddGenerator to enlarge the chain — residual
// fixes base[0..level) and, except in the fallback below where a
// nontrivial residual fixes every base point and is reported at the
// deepest level, does not fix base[level].
//
// Complexity: O(depth) compositions, each O(n).
func (c *Chain) Sift(g Perm) (absorbed bool, level int, residual Perm) {
	cur := append(Perm(nil), g...)
	for i, lvl := range c.levels {
		x := cur[lvl.fixed]
		c.mu[i].Lock()
		rep, in := lvl.orbit[x]
		c.mu[i].Unlock()
		if !in {
			return false, i, cur
		}
		cur = Compose(Inverse(rep), cur)
	}
	if IsIdentity(cur) {
		return true, -1, nil
	}
	// Fixes every base point yet is nontrivial: the base does not fully
	// distinguish the group (should not happen for a base drawn from a
	// discrete leaf); treat conservatively as a new generator at the
	// deepest level rather than silently discarding information.
	return false, len(c.levels) - 1, cur
}

// AddGenerator folds residual into level's generator set and grows its
// orbit by a standard Schreier BFS: for every newly reachable point y
// via an existing orbit representative composed with a generator, record
// y's representative and continue until no new points are found.
//
// Complexity: O(|new orbit| · |gens at level|) per call.
func (c *Chain) AddGenerator(level int, residual Perm) {
	c.mu[level].Lock()
	lvl := c.levels[level]
	lvl.gens = append(lvl.gens, residual)
	queue := make([]int32, 0, len(lvl.orbit))
	for x := range lvl.orbit {
		queue = append(queue, x)
	}
	for len(queue) > 0 {
		x := queue[0]
		queue = queue[1:]
		rx := lvl.orbit[x]
		for _, h := range lvl.gens {
			y := h[x]
			if _, in := lvl.orbit[y]; !in {
				lvl.orbit[y] = Compose(h, rx)
				queue = append(queue, y)
			}
		}
	}
	c.mu[level].Unlock()

	c.nGen.Add(1)
	c.allMu.Lock()
	c.allGen = append(c.allGen, residual)
	c.allMu.Unlock()
}

// GeneratorCount returns how many generators have been recorded across
// all levels.
func (c *Chain) GeneratorCount() int64 { return c.nGen.Load() }

// Generators returns every generator recorded so far, in discovery
// order. Each one is an automorphism and a candidate for the caller's
// hook emission.
func (c *Chain) Generators() []Perm {
	c.allMu.Lock()
	defer c.allMu.Unlock()
	return append([]Perm(nil), c.allGen...)
}

// GroupOrder returns the product of every level's orbit size — exact for
// the subgroup currently known, by the orbit-stabilizer theorem. It is
// the full group order only once a termination criterion (probabilistic
// or deterministic) confirms the chain is complete.
func (c *Chain) GroupOrder() bignum.Number {
	out := bignum.One()
	for i := range c.levels {
		out = out.Multiply(int64(c.OrbitSize(i)))
	}
	return out
}

// DeterministicComplete reports whether every level's orbit size matches
// the expected size in expectedOrbitSizes (typically the class sizes
// recorded in the base) — the deterministic termination criterion. The
// comparison is level by level; orbit sizes are not summed.
func (c *Chain) DeterministicComplete(expectedOrbitSizes []int32) bool {
	if len(expectedOrbitSizes) != len(c.levels) {
		return false
	}
	for i, want := range expectedOrbitSizes {
		if int32(c.OrbitSize(i)) != want {
			return false
		}
	}
	return true
}

// ErrorBound reports whether h consecutive non-productive sifts (sifts
// that were absorbed, producing no new generator) satisfy the
// probabilistic termination criterion at error bound h: the true error
// probability of declaring completion is at most 2^-h.
func ErrorBound(consecutiveAbsorbed, h int) bool {
	return consecutiveAbsorbed >= h
}
