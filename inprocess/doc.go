// Package inprocess re-colors the search root between iterations using
// invariants sharper than plain refinement: a per-vertex hash from one or
// two rounds of trial individualize-and-refine (optionally folded with a
// signal carried over from finished BFS levels), then orbit-unique
// individualization against the generators found so far. The
// orchestrator restarts search from the resulting root.
package inprocess
