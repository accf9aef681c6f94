package bfstree

import (
	"context"
	"errors"
	"sync"
	"unsafe"

	"golang.org/x/sync/errgroup"

	"github.com/irsearch/symmetria/core"
)

// ErrLevelMemoryLimit is returned internally by ExtendLevel when
// materializing the next level would exceed the configured byte budget.
// It never escapes the orchestrator: seeing it just means "fall back to
// randomized search for a while".
var ErrLevelMemoryLimit = errors.New("bfstree: level would exceed memory limit")

// Candidate is one (parent, vertex) pair queued for individualization at
// the next level. PredictedKey is a cheap, caller-supplied estimate of
// the deviation this candidate would produce if it diverges (typically
// derived from the vertex's color within the target cell); it lets the
// coordinator skip a refine entirely once a sibling with the same
// prediction has already been recorded as divergent, at the cost of
// occasionally refining a candidate the abort map would have caught with
// a perfect predictor.
type Candidate struct {
	ParentIndex int32
	Vertex      int32
	Weight      int64
	PredictedKey Deviation
}

// RefineResult is what a RefineFunc computes for one candidate.
type RefineResult struct {
	Child     *Node
	Deviation Deviation
	Diverged  bool
}

// RefineFunc individualizes Vertex in parent's coloring, refines, and
// reports whether the resulting trace is compatible with the canonical
// (identity-line) trace at this depth.
type RefineFunc func(parent *Node, vertex int32, weight int64) (RefineResult, error)

// Tree is a flat, per-level store of IR-search nodes referenced by
// (level, index) rather than parent pointer.
type Tree struct {
	g *core.Graph

	mu          sync.Mutex
	levels      []*Level
	memLimit    int64
	bytesInUse  int64
}

// NewTree starts a tree over g with the given byte budget (0 disables
// the check).
func NewTree(g *core.Graph, memLimitBytes int64) *Tree {
	t := &Tree{g: g, memLimit: memLimitBytes}
	t.levels = append(t.levels, newLevel(0))
	return t
}

// Root installs the search root (the level-0 node, always the identity
// line's start) and returns it.
func (t *Tree) Root(col *core.Coloring, traceValues []int64) *Node {
	n := &Node{Col: col, TraceValues: append([]int64(nil), traceValues...), Identity: true}
	t.levels[0].Append(n)
	return n
}

// Level returns the level at idx, or nil if it has not been materialized.
func (t *Tree) Level(idx int32) *Level {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(idx) >= len(t.levels) {
		return nil
	}
	return t.levels[idx]
}

// Depth reports how many levels (including the root) exist.
func (t *Tree) Depth() int32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int32(len(t.levels))
}

// nodeFootprint approximates the bytes one materialized node consumes:
// the coloring's backing arrays plus trace values, which is what
// actually accumulates across a BFS level (the Node struct itself is
// negligible by comparison).
func nodeFootprint(col *core.Coloring, traceValues []int64) int64 {
	n := int64(col.N())
	return n*int64(unsafe.Sizeof(int32(0)))*3 + int64(len(traceValues))*int64(unsafe.Sizeof(int64(0)))
}

// ExtendLevel materializes the level following parentLevelIdx by running
// refine over every candidate with a bounded worker pool. It returns
// ErrLevelMemoryLimit (and the partially materialized level, which the
// caller should discard) if the configured byte budget is exceeded
// mid-extension.
func (t *Tree) ExtendLevel(ctx context.Context, parentLevelIdx int32, candidates []Candidate, workers int, refine RefineFunc) (*Level, error) {
	parentLevel := t.Level(parentLevelIdx)
	if parentLevel == nil {
		return nil, errors.New("bfstree: no such parent level")
	}
	childLevel := newLevel(parentLevelIdx + 1)

	var identitySiblings int32
	for _, c := range candidates {
		if parentLevel.Nodes()[c.ParentIndex].Identity {
			identitySiblings++
		}
	}
	childLevel.SetIdentitySiblingCount(identitySiblings)

	todo := make(chan Candidate, len(candidates))
	for _, c := range candidates {
		todo <- c
	}
	close(todo)

	eg, egCtx := errgroup.WithContext(ctx)
	if workers > 0 {
		eg.SetLimit(workers)
	}
	var memErr error
	var memErrOnce sync.Once

	for i := 0; i < max(1, workers); i++ {
		eg.Go(func() error {
			for cand := range todo {
				select {
				case <-egCtx.Done():
					return egCtx.Err()
				default:
				}

				parentNodes := parentLevel.Nodes()
				if int(cand.ParentIndex) >= len(parentNodes) {
					continue
				}
				parent := parentNodes[cand.ParentIndex]

				if childLevel.Aborted(cand.PredictedKey) {
					if parent.Identity {
						childLevel.RecordIdentityAttempt()
					}
					continue // a sibling already proved this deviation; skip the refine
				}

				res, err := refine(parent, cand.Vertex, cand.Weight)
				if err != nil {
					return err
				}
				if res.Diverged {
					if parent.Identity {
						childLevel.RecordIdentityFailure(res.Deviation)
						childLevel.RecordIdentityAttempt()
					}
					continue
				}

				footprint := nodeFootprint(res.Child.Col, res.Child.TraceValues)
				if t.memLimit > 0 {
					t.mu.Lock()
					over := t.bytesInUse+footprint > t.memLimit
					if !over {
						t.bytesInUse += footprint
					}
					t.mu.Unlock()
					if over {
						memErrOnce.Do(func() { memErr = ErrLevelMemoryLimit })
						return nil
					}
				}
				childLevel.Append(res.Child)
				if parent.Identity {
					childLevel.RecordIdentityAttempt()
				}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return childLevel, err
	}
	t.mu.Lock()
	t.levels = append(t.levels, childLevel)
	t.mu.Unlock()
	if memErr != nil {
		return childLevel, memErr
	}
	return childLevel, nil
}
