// Package schreier implements a Schreier-Sims stabilizer chain along a
// fixed base: for each base level, an orbit of the fixed point under the
// subgroup generated so far, and a coset-representative permutation for
// every orbit element. Sift reduces a candidate permutation modulo the
// chain, either absorbing it (it lies in the known group) or returning a
// new generator that strictly enlarges some level's orbit.
//
// The chain is filled by random sifting rather than full deterministic
// Schreier-Sims closure (no Schreier-generator verification pass): this
// matches the randomized-leaf-search design, which accepts a
// probabilistic termination bound instead of guaranteeing completeness
// by construction. GroupOrder is exact at any point in time — it is
// simply not guaranteed complete until the caller's termination
// criterion (probabilistic or deterministic, see DeterministicComplete)
// is satisfied.
package schreier
