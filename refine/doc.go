// Package refine implements 1-dimensional Weisfeiler-Leman equitable
// partition refinement: given a graph and an ordered partition, it
// iteratively splits color classes by neighbor-count until every class
// pair is uniform (every vertex in C has the same number of neighbors in
// C'), recording a comparison trace along the way so that two root-to-leaf
// walks in the search tree can be compared cheaply.
//
// The splitting loop follows the classic worklist formulation: a cell
// popped from the worklist acts as a splitter against every cell touched
// by its members' adjacency; each split pushes every resulting subclass
// except the largest back onto the worklist (the standard Hopcroft
// optimization, bounding total work to O(m log n) rather than O(nm)).
package refine
