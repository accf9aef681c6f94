package inprocess

import (
	"github.com/irsearch/symmetria/bignum"
	"github.com/irsearch/symmetria/core"
	"github.com/irsearch/symmetria/refine"
	"github.com/irsearch/symmetria/schreier"
	"github.com/irsearch/symmetria/trace"
	"github.com/irsearch/symmetria/unionfind"
)

// IndividualizeOrbitUnique repeatedly finds a non-singleton cell whose
// members form exactly one orbit under chain's known generators,
// individualizes one representative, and refines. Since the whole cell
// is one orbit, no automorphism distinguishes between the choices of
// representative, so each such step multiplies the reported group order
// by the cell's size without narrowing what the search can still find.
// Returns the accumulated factor; col is updated in place.
//
// After each individualization the orbit partition is rebuilt from only
// the generators that still respect the updated coloring: a generator
// moving an already-individualized vertex lies outside the stabilizer
// being counted, and keeping it would overstate later cells' orbits.
func IndividualizeOrbitUnique(g *core.Graph, col *core.Coloring, chain *schreier.Chain) bignum.Number {
	factor := bignum.One()
	for {
		orbits := unionfind.New(col.N())
		for _, gen := range chain.Generators() {
			if respectsColoring(gen, col) {
				orbits.AddGenerator(gen)
			}
		}

		progressed := false
		for start := int32(0); start < col.N(); {
			end := col.CellEnd(start)
			size := end - start
			if size > 1 {
				members := col.CellVertices(start)
				root := orbits.Find(members[0])
				uniform := true
				for _, m := range members[1:] {
					if orbits.Find(m) != root {
						uniform = false
						break
					}
				}
				if uniform {
					v := members[0]
					col.Individualize(v)
					refine.Refine(g, col, trace.New(), start, -1, nil)
					factor = factor.Multiply(int64(size))
					progressed = true
					break // cell boundaries elsewhere may have shifted; rescan from the top
				}
			}
			start = end
		}
		if !progressed {
			return factor
		}
	}
}

func respectsColoring(p schreier.Perm, col *core.Coloring) bool {
	for v, pv := range p {
		if col.ColorOf(int32(v)) != col.ColorOf(pv) {
			return false
		}
	}
	return true
}
