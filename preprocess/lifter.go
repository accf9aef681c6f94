package preprocess

import "github.com/irsearch/symmetria/schreier"

// Lifter composes the (forward, backward) maps of a stack of reduction
// Results so that a permutation found on the final, fully-reduced graph
// can be reconstructed into a permutation of the original vertex set.
// Stages are pushed in the order they ran and lifted in reverse.
type Lifter struct {
	originalN int32
	stages    []*Result
}

// NewLifter starts a lift stack for a graph with originalN vertices.
func NewLifter(originalN int32) *Lifter {
	return &Lifter{originalN: originalN}
}

// Push records one reduction stage, outermost (run first) to innermost
// (run last).
func (l *Lifter) Push(r *Result) {
	l.stages = append(l.stages, r)
}

// Depth reports how many stages have been pushed.
func (l *Lifter) Depth() int { return len(l.stages) }

// Lift reconstructs a permutation of the reduced graph (found by search)
// into a permutation of the original graph's vertex set.
func (l *Lifter) Lift(reducedPerm schreier.Perm) schreier.Perm {
	cur := reducedPerm
	for i := len(l.stages) - 1; i >= 0; i-- {
		cur = liftOneStage(l.stages[i], cur)
	}
	return cur
}

// AllLocalGenerators collects the automorphisms contributed directly by
// reduction bookkeeping (same-color leaf/isolated swaps), expressed over
// the original vertex set. A stage's buckets name vertices in that
// stage's pre-reduction space, so generators from later stages are
// lifted back through every earlier stage before being reported.
func (l *Lifter) AllLocalGenerators() []schreier.Perm {
	var gens []schreier.Perm
	for i, stage := range l.stages {
		for _, g := range stage.localGenerators(int32(len(stage.Forward))) {
			for j := i - 1; j >= 0; j-- {
				g = liftOneStage(l.stages[j], g)
			}
			gens = append(gens, g)
		}
	}
	return gens
}

// liftOneStage expands permNext (over the post-stage vertex space) into
// a permutation over the pre-stage vertex space using stage's Backward
// map for surviving vertices, stage.hostStrings for structures absorbed
// into a moved host, stage.paths for compressed-path interiors (oriented
// by comparing against the recorded U/V), and the identity for removed
// vertices whose host did not move (their symmetry is covered by
// stage.localGenerators instead).
func liftOneStage(stage *Result, permNext schreier.Perm) schreier.Perm {
	n := int32(len(stage.Forward))
	out := make(schreier.Perm, n)
	for v := int32(0); v < n; v++ {
		out[v] = v
	}

	// First handle vertices that survive the stage directly.
	for v := int32(0); v < n; v++ {
		rv := stage.Forward[v]
		if rv < 0 {
			continue // removed by this stage; handled below
		}
		rImg := permNext[rv]
		out[v] = stage.Backward[rImg]
	}

	// Carry absorbed strings along with their hosts. Stage recoloring
	// guarantees a host only maps to a host with an isomorphic string, so
	// the elementwise splice is an automorphism on the absorbed vertices.
	for h, str := range stage.hostStrings {
		img := out[h]
		if img == h {
			continue
		}
		dst, ok := stage.hostStrings[img]
		if !ok || len(dst) != len(str) {
			continue
		}
		for k := range str {
			out[str[k]] = dst[k]
		}
	}

	// Then splice compressed-path interiors back in: if edge (a,b) in
	// the reduced graph maps to edge (a', b'), the path recorded between
	// a and b must be replayed between a' and b', oriented so endpoint
	// correspondence matches.
	for key, path := range stage.paths {
		ra, rb := key[0], key[1]
		imgA, imgB := permNext[ra], permNext[rb]
		destKey := pathKey(imgA, imgB)
		destPath, ok := stage.paths[destKey]
		if !ok {
			continue
		}
		srcForward := ra == path.U
		dstForward := imgA == destPath.U
		reversed := srcForward != dstForward
		srcVerts := path.Vertices
		dstVerts := destPath.Vertices
		if len(srcVerts) != len(dstVerts) {
			continue // shouldn't happen: compression preserves chain length per path
		}
		for i, sv := range srcVerts {
			j := i
			if reversed {
				j = len(dstVerts) - 1 - i
			}
			out[sv] = dstVerts[j]
		}
	}

	return out
}
