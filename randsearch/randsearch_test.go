package randsearch_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irsearch/symmetria/cellselect"
	"github.com/irsearch/symmetria/core"
	"github.com/irsearch/symmetria/ircontrol"
	"github.com/irsearch/symmetria/randsearch"
	"github.com/irsearch/symmetria/schreier"
	"github.com/irsearch/symmetria/trace"
)

func k3(t *testing.T) *core.Graph {
	t.Helper()
	b := core.NewBuilder()
	require.NoError(t, b.Initialize(3, 6))
	for i := 0; i < 3; i++ {
		_, err := b.AddVertex(0, 0)
		require.NoError(t, err)
	}
	require.NoError(t, b.AddEdge(0, 1))
	require.NoError(t, b.AddEdge(1, 2))
	require.NoError(t, b.AddEdge(0, 2))
	g, err := b.Finalize()
	require.NoError(t, err)
	return g
}

func newController(g *core.Graph) *ircontrol.Controller {
	arena := core.NewArena(int32(g.N()))
	col := core.NewColoring(arena, g.InitialColors())
	return ircontrol.New(g, col, trace.New(), false)
}

func TestWalk_ReachesDiscreteLeaf(t *testing.T) {
	g := k3(t)
	ctl := newController(g)
	rng := randsearch.RNGFromSeed(1)

	leaf, ok := randsearch.Walk(ctl, cellselect.Largest, nil, rng, randsearch.NewLookClose())
	require.True(t, ok)
	require.True(t, leaf.Discrete())
}

func TestCertifyAndSift_GrowsK3ToOrderSix(t *testing.T) {
	g := k3(t)
	chain := schreier.New(3, []int32{0, 1, 2})

	canonicalCtl := newController(g)
	canonical, ok := randsearch.Walk(canonicalCtl, cellselect.Largest, nil, randsearch.RNGFromSeed(1), nil)
	require.True(t, ok)

	seen := 0
	for seed := int64(2); seed < 40 && seen < 200; seed++ {
		ctl := newController(g)
		leaf, ok := randsearch.Walk(ctl, cellselect.Largest, nil, randsearch.RNGFromSeed(seed), randsearch.NewLookClose())
		if !ok {
			continue
		}
		randsearch.CertifyAndSift(g, canonical, leaf, chain)
		seen++
	}
	require.InDelta(t, 6.0, chain.GroupOrder().Float64(), 1e-9)
}

func TestLeafStore_StoreAndLookup(t *testing.T) {
	store := randsearch.NewLeafStore()
	g := k3(t)
	ctl := newController(g)
	leaf, ok := randsearch.Walk(ctl, cellselect.Largest, nil, randsearch.RNGFromSeed(7), nil)
	require.True(t, ok)

	store.Store(42, leaf)
	got := store.Lookup(42)
	require.Len(t, got, 1)
	require.Empty(t, store.Lookup(99))
}
