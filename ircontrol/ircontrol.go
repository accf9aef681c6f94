package ircontrol

import (
	"github.com/irsearch/symmetria/core"
	"github.com/irsearch/symmetria/refine"
	"github.com/irsearch/symmetria/trace"
)

// BaseLevel records one step of the canonical root-to-leaf walk: the
// vertex individualized, the start index of its class just before
// individualization, and that class's size.
type BaseLevel struct {
	Vertex      int32
	TargetColor int32
	ClassSize   int32
}

// Base is the ordered list of individualizations that defines the
// canonical IR search tree for one iteration.
type Base []BaseLevel

// Controller holds one worker's position in the IR tree: its working
// Coloring, its Trace, and the Base recorded so far. A Controller is
// owned by exactly one goroutine.
type Controller struct {
	g    *core.Graph
	col  *core.Coloring
	tr   *trace.Trace
	base Base

	reversible      bool
	trailMarks      []int
	splitDepthLimit int32
	deviations      int
}

// New returns a Controller over g starting from col, recording onto tr.
// reversible selects whether MoveToParent (trail-based undo) is
// supported; BFS workers that materialize arbitrary tree positions use
// reversible=false and SaveState/LoadState instead.
func New(g *core.Graph, col *core.Coloring, tr *trace.Trace, reversible bool) *Controller {
	return &Controller{g: g, col: col, tr: tr, reversible: reversible}
}

// SetSplitDepthLimit bounds how many new cells a single MoveToChild call
// may create, used by shallow invariants that want a cheap partial
// refinement rather than running refine to a fixed point. 0 disables
// the limit.
func (ctl *Controller) SetSplitDepthLimit(limit int32) { ctl.splitDepthLimit = limit }

// Coloring returns the controller's working coloring (read-only for
// callers; mutate only through Controller methods).
func (ctl *Controller) Coloring() *core.Coloring { return ctl.col }

// Trace returns the controller's trace.
func (ctl *Controller) Trace() *trace.Trace { return ctl.tr }

// Base returns the recorded base so far.
func (ctl *Controller) Base() Base { return ctl.base }

// Deviations returns how many MoveToChild calls have diverged from the
// installed reference trace since construction.
func (ctl *Controller) Deviations() int { return ctl.deviations }

// MoveToChild individualizes v, refines with trace comparison against
// whatever reference is currently installed on the trace, and appends a
// BaseLevel recording v, its pre-individualization class start, and that
// class's size. Returns false iff the trace diverged during refinement.
//
// Complexity: O(class size of v) for individualization plus the cost of
// Refine.
func (ctl *Controller) MoveToChild(v int32) bool {
	mark := ctl.col.Mark()
	targetColor := ctl.col.ColorOf(v)
	classSize := ctl.col.CellEnd(targetColor) - targetColor

	ctl.col.Individualize(v)

	var cellEarlyOut int32 = -1
	if ctl.splitDepthLimit > 0 {
		cellEarlyOut = ctl.col.Cells() + ctl.splitDepthLimit
	}
	ok := refine.Refine(ctl.g, ctl.col, ctl.tr, targetColor, cellEarlyOut, nil)

	ctl.base = append(ctl.base, BaseLevel{Vertex: v, TargetColor: targetColor, ClassSize: classSize})
	if ctl.reversible {
		ctl.trailMarks = append(ctl.trailMarks, mark)
	}
	if !ok {
		ctl.deviations++
	}
	return ok
}

// MoveToParent undoes the most recent MoveToChild via the coloring's
// change trail. Panics if the controller was built non-reversible or if
// the base is already empty — both are programmer errors, not runtime
// conditions a caller should need to recover from.
func (ctl *Controller) MoveToParent() {
	if !ctl.reversible {
		panic("ircontrol: MoveToParent called on a non-reversible controller")
	}
	if len(ctl.base) == 0 {
		panic("ircontrol: MoveToParent called with an empty base")
	}
	mark := ctl.trailMarks[len(ctl.trailMarks)-1]
	ctl.trailMarks = ctl.trailMarks[:len(ctl.trailMarks)-1]
	ctl.base = ctl.base[:len(ctl.base)-1]
	ctl.col.Undo(mark)
}

// CompareToThis installs a copy of the trace's own recorded values as its
// reference. Comparison continues at the trace's current position, so
// values this controller pushes afterwards lie past the end of that
// reference and are not compared; a replay of the same walk on a fresh
// trace given CompareAgainst(Trace().Values(), -1) is compared in full.
func (ctl *Controller) CompareToThis() {
	ref := append([]int64(nil), ctl.tr.Values()...)
	ctl.tr.CompareAgainst(ref, -1)
}

// State is a saved snapshot of a Controller's position, used by BFS to
// materialize tree nodes out of order without each node owning a live
// reversible trail.
type State struct {
	col         *core.Coloring
	traceValues []int64
	base        Base
}

// SaveState snapshots the controller's current coloring, trace history,
// and base. The Coloring snapshot is a Clone (arena bump-allocation plus
// one memcpy); the trace and base are copied slices.
func (ctl *Controller) SaveState() *State {
	return &State{
		col:         ctl.col.Clone(),
		traceValues: append([]int64(nil), ctl.tr.Values()...),
		base:        append(Base(nil), ctl.base...),
	}
}

// LoadState restores a previously saved snapshot into a fresh Controller
// over the same graph. The restored controller is always non-reversible:
// a loaded trail would reference trail entries that belong to a different
// Coloring instance.
func LoadState(g *core.Graph, s *State) *Controller {
	col := s.col.Clone()
	tr := trace.New()
	for _, v := range s.traceValues {
		tr.Push(v)
	}
	return &Controller{
		g:    g,
		col:  col,
		tr:   tr,
		base: append(Base(nil), s.base...),
	}
}
