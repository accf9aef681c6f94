package randsearch

import (
	"math/rand"

	"github.com/irsearch/symmetria/cellselect"
	"github.com/irsearch/symmetria/core"
	"github.com/irsearch/symmetria/ircontrol"
)

// LookClose tracks rolling walk success to decide whether a first-level
// trace deviation should abort a walk immediately or let it finish
// anyway. Threshold is clamped to [0, 10]; it starts at a
// midpoint so the very first walks get one look-close attempt.
type LookClose struct {
	threshold int
}

// NewLookClose returns a LookClose at its starting threshold.
func NewLookClose() *LookClose { return &LookClose{threshold: 5} }

// OnSuccess increments the threshold, capped at 10.
func (l *LookClose) OnSuccess() {
	if l.threshold < 10 {
		l.threshold++
	}
}

// OnFailure decrements the threshold, floored at 0.
func (l *LookClose) OnFailure() {
	if l.threshold > 0 {
		l.threshold--
	}
}

// ShouldContinue reports whether a first-level deviation should be
// tolerated right now.
func (l *LookClose) ShouldContinue() bool { return l.threshold > 0 }

// Walk performs one randomized root-to-leaf (or level-to-leaf, if ctl was
// constructed already positioned partway down the base) walk: at each
// step it selects a cell via policy/cache, individualizes a uniformly
// random member, and refines with trace comparison. It stops when the
// coloring is discrete (ok=true, leaf returned) or when the trace
// diverges and look-close does not apply (ok=false).
//
// A first-level deviation (depth==1) is tolerated — the walk keeps going
// instead of aborting — whenever lc.ShouldContinue(); the resulting leaf
// must still be certified independently by the caller (trace comparison
// is an optimization, not the source of truth for automorphism
// validity).
func Walk(ctl *ircontrol.Controller, policy cellselect.Policy, cache *cellselect.Cache, rng *rand.Rand, lc *LookClose) (leaf *core.Coloring, ok bool) {
	depth := 0
	for {
		col := ctl.Coloring()
		cellStart := cellselect.Select(col, policy, cache)
		if cellStart < 0 {
			if lc != nil {
				lc.OnSuccess()
			}
			return col, true
		}
		verts := col.CellVertices(cellStart)
		v := verts[rng.Intn(len(verts))]
		depth++
		moved := ctl.MoveToChild(v)
		if !moved {
			if depth == 1 && lc != nil && lc.ShouldContinue() {
				continue
			}
			if lc != nil {
				lc.OnFailure()
			}
			return nil, false
		}
	}
}
