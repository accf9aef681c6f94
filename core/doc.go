// Package core defines the static Graph representation, the streaming
// Builder that produces it, and the ordered-partition Coloring that the
// refinement and search components individualize and split.
//
// Graph is immutable CSR (compressed sparse row) adjacency: once Finalize
// returns a *Graph, no field of it is ever mutated again. This is what
// lets every search worker read the same Graph concurrently with zero
// locking — unlike a map-backed graph, there is nothing to protect.
//
// Coloring is the mutable, per-worker ordered partition (lab/ptn/v→col/
// v→lab). It is never shared across goroutines; workers obtain their own
// via Coloring.Clone or via the bulk Arena, which carves lab, vtoLab,
// vtoCol and a scratch slice from one block (ptn is a separate
// allocation). Snapshots are bump allocations; nothing is
// reference-counted.
//
//	go get github.com/irsearch/symmetria/core
package core
