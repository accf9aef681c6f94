package ircontrol_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irsearch/symmetria/core"
	"github.com/irsearch/symmetria/ircontrol"
	"github.com/irsearch/symmetria/refine"
	"github.com/irsearch/symmetria/trace"
)

func p3(t *testing.T) *core.Graph {
	t.Helper()
	b := core.NewBuilder()
	require.NoError(t, b.Initialize(3, 4))
	for i := 0; i < 3; i++ {
		_, err := b.AddVertex(0, 0)
		require.NoError(t, err)
	}
	require.NoError(t, b.AddEdge(0, 1))
	require.NoError(t, b.AddEdge(1, 2))
	g, err := b.Finalize()
	require.NoError(t, err)
	return g
}

func TestController_MoveToChild_ReachesDiscrete(t *testing.T) {
	g := p3(t)
	arena := core.NewArena(int32(g.N()))
	col := core.NewColoring(arena, g.InitialColors())
	// Refining the root separates the endpoints {0,2} from the midpoint;
	// individualizing one endpoint then leaves only singletons.
	require.True(t, refine.Refine(g, col, trace.New(), -1, -1, nil))
	ctl := ircontrol.New(g, col, trace.New(), true)

	require.False(t, col.Discrete())
	ok := ctl.MoveToChild(0) // individualize an endpoint
	require.True(t, ok)
	require.True(t, col.Discrete())
	require.Len(t, ctl.Base(), 1)
	require.EqualValues(t, 0, ctl.Base()[0].Vertex)
}

func TestController_MoveToParent_Undoes(t *testing.T) {
	g := p3(t)
	arena := core.NewArena(int32(g.N()))
	col := core.NewColoring(arena, g.InitialColors())
	ctl := ircontrol.New(g, col, trace.New(), true)

	cellsBefore := col.Cells()
	ctl.MoveToChild(1)
	require.NotEqual(t, cellsBefore, col.Cells())

	ctl.MoveToParent()
	require.Equal(t, cellsBefore, col.Cells())
	require.Len(t, ctl.Base(), 0)
}

// After CompareToThis, replaying the identical walk on a fresh
// controller seeded with the recorded trace must not diverge.
func TestController_CompareToThis_InstallsReference(t *testing.T) {
	g := p3(t)
	arena := core.NewArena(int32(g.N()))
	col := core.NewColoring(arena, g.InitialColors())
	ctl := ircontrol.New(g, col, trace.New(), false)
	require.True(t, ctl.MoveToChild(1))

	ctl.CompareToThis()
	require.False(t, ctl.Trace().Failed())

	arena2 := core.NewArena(int32(g.N()))
	col2 := core.NewColoring(arena2, g.InitialColors())
	tr2 := trace.New()
	tr2.CompareAgainst(ctl.Trace().Values(), -1)
	ctl2 := ircontrol.New(g, col2, tr2, false)
	require.True(t, ctl2.MoveToChild(1))
	require.False(t, tr2.Failed())
}

func TestController_SaveLoadState_RoundTrips(t *testing.T) {
	g := p3(t)
	arena := core.NewArena(int32(g.N()))
	col := core.NewColoring(arena, g.InitialColors())
	ctl := ircontrol.New(g, col, trace.New(), false)
	ctl.MoveToChild(1)

	snap := ctl.SaveState()
	restored := ircontrol.LoadState(g, snap)

	require.Equal(t, ctl.Coloring().Cells(), restored.Coloring().Cells())
	require.Equal(t, ctl.Base(), restored.Base())
}
