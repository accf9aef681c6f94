package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irsearch/symmetria/core"
)

func buildP3(t *testing.T) *core.Graph {
	t.Helper()
	b := core.NewBuilder()
	require.NoError(t, b.Initialize(3, 4))
	for i := 0; i < 3; i++ {
		_, err := b.AddVertex(0, 2)
		require.NoError(t, err)
	}
	require.NoError(t, b.AddEdge(0, 1))
	require.NoError(t, b.AddEdge(1, 2))
	g, err := b.Finalize()
	require.NoError(t, err)
	return g
}

func TestBuilder_Errors(t *testing.T) {
	b := core.NewBuilder()
	_, err := b.AddVertex(0, 0)
	require.ErrorIs(t, err, core.ErrNotInitialized)

	require.NoError(t, b.Initialize(2, 2))
	_, err = b.AddVertex(-1, 0)
	require.ErrorIs(t, err, core.ErrColorRange)

	_, err = b.AddVertex(0, 0)
	require.NoError(t, err)
	_, err = b.AddVertex(0, 0)
	require.NoError(t, err)
	_, err = b.AddVertex(0, 0)
	require.ErrorIs(t, err, core.ErrVertexCount)

	require.ErrorIs(t, b.AddEdge(0, 0), core.ErrMalformedEdge)
	require.ErrorIs(t, b.AddEdge(0, 5), core.ErrMalformedEdge)
	require.NoError(t, b.AddEdge(0, 1))
	require.ErrorIs(t, b.AddEdge(1, 0), core.ErrDuplicateEdge)
}

func TestBuilder_EdgeCountMismatch(t *testing.T) {
	b := core.NewBuilder()
	require.NoError(t, b.Initialize(2, 4)) // declares two edges
	for i := 0; i < 2; i++ {
		_, err := b.AddVertex(0, 0)
		require.NoError(t, err)
	}
	require.NoError(t, b.AddEdge(0, 1))
	_, err := b.Finalize()
	require.ErrorIs(t, err, core.ErrEdgeCount)
}

func TestGraph_AdjacencyAndDegrees(t *testing.T) {
	g := buildP3(t)
	require.Equal(t, 3, g.N())
	require.Equal(t, 4, g.M())
	require.EqualValues(t, 1, g.Degree(0))
	require.EqualValues(t, 2, g.Degree(1))
	require.True(t, g.HasEdge(0, 1))
	require.True(t, g.HasEdge(1, 0))
	require.False(t, g.HasEdge(0, 2))

	g.SortAdjacency()
	require.True(t, g.HasEdge(1, 2))
	require.False(t, g.HasEdge(2, 0))
}

func TestGraph_NeighborBitset(t *testing.T) {
	g := buildP3(t)
	bs := g.NeighborBitset(1)
	require.True(t, bs.Test(0))
	require.True(t, bs.Test(2))
	require.False(t, bs.Test(1))
}

// The ordered-partition invariant from the data model: every class
// boundary i has Ptn[i]==0, and all members of a class agree on their
// class start.
func requirePartitionInvariant(t *testing.T, c *core.Coloring) {
	t.Helper()
	n := c.N()
	lab, ptn := c.Lab(), c.Ptn()
	for v := int32(0); v < n; v++ {
		require.Equal(t, v, lab[c.PositionOf(v)], "lab/position inverse broken at %d", v)
	}
	for start := int32(0); start < n; {
		end := c.CellEnd(start)
		require.EqualValues(t, 0, ptn[end-1])
		for i := start; i < end; i++ {
			require.Equal(t, start, c.ColorOf(lab[i]))
		}
		start = end
	}
}

func TestColoring_InitialPartition(t *testing.T) {
	arena := core.NewArena(5)
	c := core.NewColoring(arena, []int32{2, 0, 2, 1, 0})
	require.EqualValues(t, 3, c.Cells())
	requirePartitionInvariant(t, c)
	// Classes ordered by ascending color value: {1,4}, {3}, {0,2}.
	require.Equal(t, []int32{1, 4, 3, 0, 2}, c.Lab())
}

func TestColoring_IndividualizeAndUndo(t *testing.T) {
	arena := core.NewArena(4)
	c := core.NewColoring(arena, []int32{0, 0, 0, 0})
	mark := c.Mark()

	require.True(t, c.Individualize(1))
	require.EqualValues(t, 2, c.Cells())
	requirePartitionInvariant(t, c)
	// The individualized vertex sits alone at the end of its old class.
	require.EqualValues(t, 3, c.PositionOf(1))

	c.Undo(mark)
	require.EqualValues(t, 1, c.Cells())
	requirePartitionInvariant(t, c)
}

func TestColoring_IndividualizeSingletonIsNoop(t *testing.T) {
	arena := core.NewArena(2)
	c := core.NewColoring(arena, []int32{0, 1})
	require.False(t, c.Individualize(0))
	require.EqualValues(t, 2, c.Cells())
}

func TestColoring_SplitCellByKeys(t *testing.T) {
	arena := core.NewArena(4)
	c := core.NewColoring(arena, []int32{0, 0, 0, 0})

	subStarts := c.SplitCell(0, 4, []int64{3, 1, 3, 1})
	require.Equal(t, []int32{0, 2}, subStarts)
	require.EqualValues(t, 2, c.Cells())
	requirePartitionInvariant(t, c)
	// Vertices with the smaller key come first, stable within equal keys.
	require.Equal(t, []int32{1, 3, 0, 2}, c.Lab())
}

func TestColoring_CloneIsIndependent(t *testing.T) {
	arena := core.NewArena(3)
	c := core.NewColoring(arena, []int32{0, 0, 0})
	clone := c.Clone()

	c.Individualize(2)
	require.EqualValues(t, 2, c.Cells())
	require.EqualValues(t, 1, clone.Cells())
	requirePartitionInvariant(t, clone)
}

func TestArena_GrowsGeometrically(t *testing.T) {
	arena := core.NewArena(4)
	start := arena.Blocks()
	var cols []*core.Coloring
	for i := 0; i < 40; i++ {
		cols = append(cols, core.NewColoring(arena, []int32{0, 0, 1, 1}))
	}
	require.Greater(t, arena.Blocks(), start)
	for _, c := range cols {
		require.EqualValues(t, 2, c.Cells())
	}
}
