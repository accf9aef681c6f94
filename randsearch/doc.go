// Package randsearch implements the randomized leaf-search side of the
// engine: uniformly-random root-to-leaf (or level-to-leaf) walks that
// individualize a random vertex from the selected cell at each step,
// refining with trace comparison. A completed walk's discrete leaf
// yields a candidate automorphism against the canonical leaf, certified
// by adjacency/color check and then sifted into a schreier.Chain.
//
// Two features beyond the bare random walk:
//   - "Look-close": a first-level trace deviation does not necessarily
//     abort the walk when recent walks have mostly succeeded — the walk
//     finishes anyway and the resulting leaf is certified independently.
//   - A leaf store: a walk whose trace diverged from the canonical one
//     still produces a discrete leaf, hashed by the trace's accumulated
//     hash into a shared multimap; a later walk that lands on the same
//     hash tries composing against the stored leaf instead of the
//     canonical one, surfacing automorphisms invisible from the base
//     alone.
//
// RNG streams are deterministic SplitMix64-derived substreams, so every
// worker gets an independent, reproducible stream from one seed.
package randsearch
