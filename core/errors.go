package core

import "errors"

// Sentinel errors for graph construction. Callers branch with errors.Is;
// messages are never matched by string.
var (
	// ErrVertexCount is returned when Initialize receives a negative
	// count, when AddVertex is called more than n times, or when Finalize
	// finds fewer than n vertices added.
	ErrVertexCount = errors.New("core: vertex index out of range")

	// ErrEdgeCount is returned when Finalize observes a different number
	// of directed-edge slots than Initialize declared.
	ErrEdgeCount = errors.New("core: edge count mismatch")

	// ErrMalformedEdge is returned for self-loops or out-of-range
	// endpoints passed to AddEdge. An edge given with u>v is normalized,
	// not rejected.
	ErrMalformedEdge = errors.New("core: malformed edge")

	// ErrDuplicateEdge is returned when the same unordered pair is added
	// twice.
	ErrDuplicateEdge = errors.New("core: duplicate edge")

	// ErrColorRange is returned when AddVertex receives a negative color.
	ErrColorRange = errors.New("core: color must be non-negative")

	// ErrNotInitialized is returned when Builder methods are called
	// before Initialize.
	ErrNotInitialized = errors.New("core: builder not initialized")

	// ErrDegreeMismatch is returned by Finalize when reciprocity fails:
	// some (u,w) was added without its mirror (w,u).
	ErrDegreeMismatch = errors.New("core: adjacency is not reciprocal")

	// ErrNilGraph is returned by operations given a nil *Graph.
	ErrNilGraph = errors.New("core: graph is nil")
)
