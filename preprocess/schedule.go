package preprocess

import (
	"github.com/irsearch/symmetria/bignum"
	"github.com/irsearch/symmetria/core"
)

// Outcome is what running a schedule over a graph produces: the reduced
// graph ready for search, a Lifter that can expand a generator found on
// it back to the original vertex set, and the combined group-order
// factor contributed by every stage that fired.
type Outcome struct {
	Graph  *core.Graph
	Lifter *Lifter
	Factor bignum.Number
}

func runStage(stage Stage, g *core.Graph) (*core.Graph, *Result) {
	switch stage {
	case StageDeg01:
		return ReduceDeg01(g)
	case StageQCEdgeFlip:
		return ReduceQuotientEdgeFlip(g)
	case StageDeg2Match:
		return ReduceDeg2Match(g)
	case StageDeg2Unique:
		return ReduceDeg2Paths(g)
	case StageProbe2QC, StageProbeQC:
		return ReduceQuotientComponentProbing(g)
	default:
		return g, identityResult(int32(g.N()))
	}
}

// Preprocess runs every stage of schedule except StageReductionLoop, in
// order, and repeats that pass until a full pass makes no further
// progress or maxRounds passes have run. Where StageReductionLoop sits in
// schedule has no effect.
func Preprocess(g *core.Graph, schedule []Stage, maxRounds int) Outcome {
	lifter := NewLifter(int32(g.N()))
	factor := bignum.One()
	cur := g

	var coreStages []Stage
	for _, s := range schedule {
		if s != StageReductionLoop {
			coreStages = append(coreStages, s)
		}
	}

	for round := 0; round < maxRounds; round++ {
		progressed := false
		for _, s := range coreStages {
			reduced, res := runStage(s, cur)
			// Component probing reduces by recoloring, not by shrinking,
			// so progress means "produced a different graph", not just a
			// smaller one. No-op stages hand back their input unchanged.
			if reduced != cur {
				progressed = true
			}
			lifter.Push(res)
			factor = factor.MultiplyNumber(res.Factor)
			cur = reduced
		}
		if !progressed {
			break
		}
	}

	return Outcome{Graph: cur, Lifter: lifter, Factor: factor}
}
