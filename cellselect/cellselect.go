package cellselect

import "github.com/irsearch/symmetria/core"

// Policy names a cell-selection strategy.
type Policy int

const (
	// First picks the first non-trivial (size > 1) cell in Lab order.
	First Policy = iota
	// Largest picks the biggest non-trivial cell, breaking ties by the
	// earliest start index.
	Largest
	// Smallest picks the smallest non-trivial cell (size > 1), breaking
	// ties by the earliest start index.
	Smallest
	// Traces behaves like Largest but consults a Cache of recently-seen
	// candidates first, amortizing repeated calls over a monotonically
	// refining coloring to O(1).
	Traces
)

// String renders a Policy's canonical flag name, used by the CLI and by
// diagnostics.
func (p Policy) String() string {
	switch p {
	case First:
		return "first"
	case Largest:
		return "largest"
	case Smallest:
		return "smallest"
	case Traces:
		return "traces"
	default:
		return "unknown"
	}
}

// cacheDepth bounds how many candidate starts Cache remembers.
const cacheDepth = 4

// Cache remembers the last few candidate cell starts returned by Select
// under the Traces policy, so that calls over a coloring that only gets
// refined (never coarsened) between calls can skip the full linear scan
// most of the time.
type Cache struct {
	candidates []int32
}

// NewCache returns an empty Cache.
func NewCache() *Cache { return &Cache{} }

func (c *Cache) remember(start int32) {
	for _, s := range c.candidates {
		if s == start {
			return
		}
	}
	c.candidates = append(c.candidates, start)
	if len(c.candidates) > cacheDepth {
		c.candidates = c.candidates[1:]
	}
}

// best returns the largest valid (non-trivial, still present) cached
// candidate, or -1 if none qualify.
func (c *Cache) best(col *core.Coloring) int32 {
	best := int32(-1)
	bestSize := int32(0)
	kept := c.candidates[:0]
	for _, s := range c.candidates {
		if s >= col.N() || col.ColorOf(col.Lab()[s]) != s {
			continue // stale: s is no longer a cell start
		}
		size := col.CellEnd(s) - s
		if size <= 1 {
			continue // became discrete
		}
		kept = append(kept, s)
		if size > bestSize {
			bestSize, best = size, s
		}
	}
	c.candidates = kept
	return best
}

// Select returns the start index of the next cell to individualize under
// policy, or -1 if col is discrete. cache is only consulted/updated for
// the Traces policy; pass nil for the other three.
//
// Complexity: O(n) for First/Largest/Smallest; amortized O(1) for Traces
// once the cache is warm.
func Select(col *core.Coloring, policy Policy, cache *Cache) int32 {
	switch policy {
	case First:
		return selectFirst(col)
	case Largest:
		return selectExtreme(col, true)
	case Smallest:
		return selectExtreme(col, false)
	case Traces:
		if cache != nil {
			if cand := cache.best(col); cand >= 0 {
				return cand
			}
		}
		start := selectExtreme(col, true)
		if start >= 0 && cache != nil {
			cache.remember(start)
		}
		return start
	default:
		return selectFirst(col)
	}
}

func selectFirst(col *core.Coloring) int32 {
	n := col.N()
	for start := int32(0); start < n; {
		end := col.CellEnd(start)
		if end-start > 1 {
			return start
		}
		start = end
	}
	return -1
}

func selectExtreme(col *core.Coloring, largest bool) int32 {
	n := col.N()
	best := int32(-1)
	bestSize := int32(0)
	if !largest {
		bestSize = n + 1
	}
	for start := int32(0); start < n; {
		end := col.CellEnd(start)
		size := end - start
		if size > 1 {
			if (largest && size > bestSize) || (!largest && size < bestSize) {
				bestSize, best = size, start
			}
		}
		start = end
	}
	return best
}

// Stats summarizes a single root-to-leaf probe under one policy, used by
// Tournament to compare candidates.
type Stats struct {
	BaseLen         int
	DeviationBudget int
	TraceLen        int
}

// Less orders Stats lexicographically: shorter base first, then smaller
// deviation budget, then shorter trace — all "smaller is better".
func (s Stats) Less(o Stats) bool {
	if s.BaseLen != o.BaseLen {
		return s.BaseLen < o.BaseLen
	}
	if s.DeviationBudget != o.DeviationBudget {
		return s.DeviationBudget < o.DeviationBudget
	}
	return s.TraceLen < o.TraceLen
}

// Tournament probes every policy in candidates via probe and returns the
// one with the best (smallest) Stats, breaking ties toward the earlier
// entry in candidates. It implements the "selector factory" that runs a
// short tournament over up to three policies and adopts the winner as
// this search iteration's canonical policy.
func Tournament(candidates []Policy, probe func(Policy) Stats) Policy {
	if len(candidates) == 0 {
		return Traces
	}
	winner := candidates[0]
	best := probe(winner)
	for _, p := range candidates[1:] {
		s := probe(p)
		if s.Less(best) {
			best, winner = s, p
		}
	}
	return winner
}
