// Package symmetria computes the automorphism group of a finite,
// undirected, vertex-colored graph via individualization–refinement
// search, in the tradition of nauty/bliss/Traces.
//
// Given a graph and an initial color partition, the search returns a set
// of permutation generators for Aut(G,c) — together these generate every
// permutation of the vertex set that preserves both adjacency and color —
// and the exact order of that group as a bignum.Number. It does not
// compute a canonical labeling, and it does not support directed graphs,
// multigraphs, or self-loops.
//
// The engine is organized bottom-up:
//
//	core/         — CSR Graph, streaming Builder, Coloring + arena
//	trace/        — append-only comparison trace with an xxhash accumulator
//	unionfind/    — orbit partition (disjoint-set)
//	bignum/       — mantissa·10^exponent big integer for the group order
//	refine/       — 1-WL equitable partition refinement
//	cellselect/   — next-cell-to-individualize policies
//	ircontrol/    — individualize/refine/undo controller over a Coloring
//	pairdfs/      — paired DFS that certifies automorphisms cheaply
//	bfstree/      — breadth-first IR tree materialization
//	schreier/     — Schreier-Sims stabilizer chain
//	randsearch/   — randomized root-to-leaf walks feeding the Schreier chain
//	preprocess/   — degree-0/1/2 reductions, component probing, lifting
//	inprocess/    — invariant-driven re-coloring between search iterations
//	orchestrator/ — drives the whole loop, exposes Run and the Hook
//	dimacs/       — DIMACS-like text format reader
//	cmd/symmetria — CLI front end
//
// A minimal program:
//
//	b := core.NewBuilder()
//	_ = b.Initialize(3, 6)
//	b.AddVertex(0, 2)
//	b.AddVertex(0, 2)
//	b.AddVertex(0, 2)
//	_ = b.AddEdge(0, 1)
//	_ = b.AddEdge(1, 2)
//	_ = b.AddEdge(0, 2)
//	g, _ := b.Finalize()
//	res, _ := orchestrator.Run(context.Background(), g, orchestrator.DefaultOptions())
//	// res.GroupOrder is 6 for a uniformly colored triangle.
//
//	go get github.com/irsearch/symmetria
package symmetria
