package preprocess

import (
	"github.com/irsearch/symmetria/bignum"
	"github.com/irsearch/symmetria/schreier"
)

// Stage names one reduction in the preprocessor's schedule.
type Stage int

const (
	StageDeg01 Stage = iota
	StageQCEdgeFlip
	StageDeg2Match
	StageDeg2Unique
	StageProbe2QC
	StageProbeQC
	StageReductionLoop
)

func (s Stage) String() string {
	switch s {
	case StageDeg01:
		return "deg01"
	case StageQCEdgeFlip:
		return "qc-edge-flip"
	case StageDeg2Match:
		return "deg2-match"
	case StageDeg2Unique:
		return "deg2-unique"
	case StageProbe2QC:
		return "probe2qc"
	case StageProbeQC:
		return "probeqc"
	case StageReductionLoop:
		return "reduction-loop"
	default:
		return "unknown"
	}
}

// DefaultSchedule is the default preprocessor schedule.
func DefaultSchedule() []Stage {
	return []Stage{
		StageDeg01, StageQCEdgeFlip, StageDeg2Match, StageDeg2Unique,
		StageProbe2QC, StageDeg2Match, StageProbeQC, StageDeg2Match,
		StageReductionLoop,
	}
}

// swapGroup records a set of pairwise-isomorphic removed structures.
// orders[i] lists the vertices of the i-th structure in canonical
// (recovery-string) order, so any two structures in the group can be
// exchanged elementwise; each such exchange is an automorphism of the
// stage's input graph on its own.
type swapGroup struct {
	orders [][]int32
}

// compressedPath records a degree-2 path collapsed to a direct edge
// between U and V; Vertices holds the internal vertices in order walking
// from U to V.
type compressedPath struct {
	U, V     int32
	Vertices []int32
}

func pathKey(u, v int32) [2]int32 {
	if u > v {
		u, v = v, u
	}
	return [2]int32{u, v}
}

// Result is what one reduction stage returns: the reduced graph's vertex
// count, a forward map (old index -> new index, or -1 if removed), the
// corresponding backward map (new index -> old index), the group-order
// factor contributed, and lift data needed to extend a reduced-graph
// automorphism back across this one stage.
type Result struct {
	NewN     int32
	Forward  []int32
	Backward []int32
	Factor   bignum.Number

	swapGroups []swapGroup

	// hostStrings maps a surviving (pre-space) vertex to the canonical
	// order of the vertices absorbed into it. A lifted automorphism that
	// moves the host must carry the absorbed string along; the stage's
	// recoloring guarantees hosts only map to hosts with an isomorphic
	// string, so the elementwise splice is always well defined.
	hostStrings map[int32][]int32

	// paths is keyed by reduced-space endpoint pairs.
	paths map[[2]int32]compressedPath
}

// localGenerators returns permutations over the PRE-reduction vertex
// space that are automorphisms purely by virtue of this stage's
// symmetric leftovers: adjacent swaps of isomorphic removed structures.
// These are valid automorphisms of the stage's input graph on their own,
// with no dependency on what search finds on the reduced graph.
func (r *Result) localGenerators(n int32) []schreier.Perm {
	var gens []schreier.Perm
	for _, grp := range r.swapGroups {
		for i := 0; i+1 < len(grp.orders); i++ {
			a, b := grp.orders[i], grp.orders[i+1]
			if len(a) != len(b) {
				continue
			}
			p := schreier.Identity(n)
			for k := range a {
				p[a[k]], p[b[k]] = b[k], a[k]
			}
			gens = append(gens, p)
		}
	}
	return gens
}
