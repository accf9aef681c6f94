package cellselect_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irsearch/symmetria/cellselect"
	"github.com/irsearch/symmetria/core"
)

func uniformColoring(n int32) *core.Coloring {
	colors := make([]int32, n)
	arena := core.NewArena(n)
	return core.NewColoring(arena, colors)
}

func TestSelect_DiscreteReturnsMinusOne(t *testing.T) {
	col := uniformColoring(1)
	require.EqualValues(t, -1, cellselect.Select(col, cellselect.First, nil))
}

func TestSelect_FirstLargestSmallest(t *testing.T) {
	// Two classes of sizes 1 and 3 from colors [0,1,1,1].
	arena := core.NewArena(4)
	col := core.NewColoring(arena, []int32{0, 1, 1, 1})

	require.EqualValues(t, 1, cellselect.Select(col, cellselect.First, nil))
	require.EqualValues(t, 1, cellselect.Select(col, cellselect.Largest, nil))
	require.EqualValues(t, 1, cellselect.Select(col, cellselect.Smallest, nil))
}

func TestSelect_Traces_CacheWarmsAndStaysValid(t *testing.T) {
	arena := core.NewArena(5)
	col := core.NewColoring(arena, []int32{0, 0, 0, 1, 1})
	cache := cellselect.NewCache()

	first := cellselect.Select(col, cellselect.Traces, cache)
	require.EqualValues(t, 0, first)
	second := cellselect.Select(col, cellselect.Traces, cache)
	require.Equal(t, first, second)
}

func TestTournament_PicksSmallestStats(t *testing.T) {
	probe := func(p cellselect.Policy) cellselect.Stats {
		switch p {
		case cellselect.First:
			return cellselect.Stats{BaseLen: 5}
		case cellselect.Largest:
			return cellselect.Stats{BaseLen: 2}
		default:
			return cellselect.Stats{BaseLen: 9}
		}
	}
	winner := cellselect.Tournament([]cellselect.Policy{cellselect.First, cellselect.Largest, cellselect.Smallest}, probe)
	require.Equal(t, cellselect.Largest, winner)
}
