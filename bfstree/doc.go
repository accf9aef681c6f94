// Package bfstree materializes a prefix of the individualization-refinement
// search tree one level at a time. Nodes are stored per level in a flat
// slab and referenced by (level, index) rather than linked by parent
// pointer, so the tree never needs reference-counted cleanup and walks
// are branch-predictor-friendly.
//
// Each level carries an abort map: the first child along the identity
// line to diverge from the canonical trace at a given (position,
// accumulated-hash) pair records it there, and any later sibling that
// diverges identically is pruned without re-refining. The map is closed
// (made lock-free for reads) once every sibling of the identity node at
// that level has been attempted.
//
// Level extension runs a bounded worker pool over errgroup.Group: a fixed
// number of workers drain one channel of todo triples (parent index,
// vertex to individualize, precomputed weight), and each worker appends
// the children it completes to the new level under that level's lock.
package bfstree
