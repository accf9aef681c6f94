// Package unionfind implements the disjoint-set orbit partition used
// throughout the search to dedupe work and drive "two vertices share an
// orbit ⇒ skip one" pruning: union by rank with path compression, over
// dense int32 indices. The orchestrator and the inprocessor each own
// their own instances.
package unionfind

// Partition is a union-find structure over [0, n). Created per search
// iteration; reset on inprocessing.
type Partition struct {
	parent []int32
	rank   []int8
	count  int32 // number of distinct sets
}

// New returns a Partition over n singleton sets.
func New(n int32) *Partition {
	p := &Partition{parent: make([]int32, n), rank: make([]int8, n), count: n}
	for i := range p.parent {
		p.parent[i] = int32(i)
	}
	return p
}

// Find returns the representative of x's set, compressing the path
// walked along the way.
//
// Complexity: O(α(n)) amortized.
func (p *Partition) Find(x int32) int32 {
	for p.parent[x] != x {
		p.parent[x] = p.parent[p.parent[x]]
		x = p.parent[x]
	}
	return x
}

// Union merges the sets containing x and y, attaching the lower-rank
// root under the higher-rank one (ties increment the surviving root's
// rank). Returns true if a merge happened (x and y were in different
// sets).
func (p *Partition) Union(x, y int32) bool {
	rx, ry := p.Find(x), p.Find(y)
	if rx == ry {
		return false
	}
	switch {
	case p.rank[rx] < p.rank[ry]:
		p.parent[rx] = ry
	case p.rank[rx] > p.rank[ry]:
		p.parent[ry] = rx
	default:
		p.parent[ry] = rx
		p.rank[rx]++
	}
	p.count--
	return true
}

// Same reports whether x and y are in the same orbit.
func (p *Partition) Same(x, y int32) bool { return p.Find(x) == p.Find(y) }

// Count returns the current number of distinct orbits.
func (p *Partition) Count() int32 { return p.count }

// OrbitOf returns every member of x's orbit, in ascending order.
//
// Complexity: O(n).
func (p *Partition) OrbitOf(x int32) []int32 {
	root := p.Find(x)
	var out []int32
	for v := int32(0); v < int32(len(p.parent)); v++ {
		if p.Find(v) == root {
			out = append(out, v)
		}
	}
	return out
}

// Orbits groups every element by representative, returning a map from
// root to its members. Used by the Inprocessor to find orbit-unique
// vertices.
func (p *Partition) Orbits() map[int32][]int32 {
	out := make(map[int32][]int32, p.count)
	for v := int32(0); v < int32(len(p.parent)); v++ {
		r := p.Find(v)
		out[r] = append(out[r], v)
	}
	return out
}

// AddGenerator folds a permutation's orbits into the partition: for every
// i with perm[i] != i, union(i, perm[i]). Used to maintain the orbit
// partition as new automorphism generators are discovered.
func (p *Partition) AddGenerator(perm []int32) {
	for i, j := range perm {
		if int32(i) != j {
			p.Union(int32(i), j)
		}
	}
}
