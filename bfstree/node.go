package bfstree

import (
	"github.com/irsearch/symmetria/core"
	"github.com/irsearch/symmetria/ircontrol"
)

// Deviation records where and how a node's trace first diverged from the
// canonical (identity-line) trace at this level.
type Deviation struct {
	Pos int
	Val int64
	Acc uint64
}

// Node is one materialized IR-tree node. Parent is an index into the
// previous level's slab, not a pointer, so the tree is a flat array of
// levels with no reference cycles.
type Node struct {
	Level  int32
	Index  int32
	Parent int32

	Col         *core.Coloring
	TraceValues []int64
	Base        ircontrol.Base
	TargetCell  int32

	Weight       int64
	ParentWeight int64

	Deviation Deviation
	Diverged  bool
	Identity  bool
}
