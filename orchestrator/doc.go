// Package orchestrator drives one end-to-end automorphism search:
// preprocess the input graph, build a canonical base via the cell
// selector and IR controller, then alternate randomized leaf search and
// (when the score favors it) BFS-tree level extension, feeding every
// certified generator into a shared Schreier-Sims chain. When a restart
// budget is exhausted without a termination verdict, the inprocessor
// re-colors the root and the loop continues from there. The returned
// group order composes the preprocessor's reduction factors, any
// decomposition factor, and the chain's own orbit-stabilizer product.
package orchestrator
