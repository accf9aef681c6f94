package randsearch

import (
	"github.com/irsearch/symmetria/core"
	"github.com/irsearch/symmetria/pairdfs"
	"github.com/irsearch/symmetria/schreier"
)

// CertifyAndSift builds the candidate permutation between canonical and
// leaf, certifies it as an automorphism, and — if valid — sifts it into
// chain. It reports whether leaf yielded a usable automorphism at all
// (certified==false means the candidate was rejected outright, e.g. a
// leaf store collision that doesn't actually correspond to an
// automorphism) and whether sifting produced a new generator.
func CertifyAndSift(g *core.Graph, canonical, leaf *core.Coloring, chain *schreier.Chain) (certified, newGenerator bool) {
	perm := pairdfs.CandidatePermutation(canonical, leaf)
	if _, ok := pairdfs.Certify(g, perm); !ok {
		return false, false
	}
	absorbed, level, residual := chain.Sift(schreier.Perm(perm))
	if absorbed {
		return true, false
	}
	chain.AddGenerator(level, residual)
	return true, true
}
