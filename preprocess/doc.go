// Package preprocess implements the graph-rewriting reductions that run
// before search: degree-0/1 elimination, degree-2 path compression,
// degree-2 matching, and quotient-component probing. The quotient-edge
// flip stage is part of the schedule but leaves the graph unchanged.
// Each reduction appends a (forward, backward) index map plus any
// recovery data onto a Lifter; once search on the reduced graph (G', c')
// discovers a generator, Lifter.Lift composes the stack back into a
// permutation of the original vertex set, splicing in the recovery data
// for every vertex the reduction moved.
//
// Every reduction also contributes a bignum.Number factor — isolated or
// leaf vertices of the same color are mutually interchangeable, degree-2
// matchings collapse wholesale — multiplied into the final group order
// alongside the DFS and inprocessor factors.
package preprocess
