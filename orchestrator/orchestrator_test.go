package orchestrator_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irsearch/symmetria/core"
	"github.com/irsearch/symmetria/orchestrator"
)

func buildGraph(t *testing.T, n int, colors []int32, edges [][2]int) *core.Graph {
	t.Helper()
	b := core.NewBuilder()
	require.NoError(t, b.Initialize(n, len(edges)*2))
	for i := 0; i < n; i++ {
		_, err := b.AddVertex(int(colors[i]), 0)
		require.NoError(t, err)
	}
	for _, e := range edges {
		require.NoError(t, b.AddEdge(e[0], e[1]))
	}
	g, err := b.Finalize()
	require.NoError(t, err)
	return g
}

func uniform(n int) []int32 { return make([]int32, n) }

// genCollector gathers hook emissions; the hook may fire from any worker
// goroutine, so it synchronizes internally.
type genCollector struct {
	mu    sync.Mutex
	perms [][]int32
}

func (c *genCollector) hook(n int, perm []int32, supp []int32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.perms = append(c.perms, append([]int32(nil), perm...))
}

func (c *genCollector) all() [][]int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]int32(nil), c.perms...)
}

// requireAutomorphism checks the universal invariant: perm is a
// permutation that preserves colors and maps edges to edges.
func requireAutomorphism(t *testing.T, g *core.Graph, perm []int32) {
	t.Helper()
	n := int32(g.N())
	require.Len(t, perm, int(n))
	seen := make([]bool, n)
	for v := int32(0); v < n; v++ {
		pv := perm[v]
		require.True(t, pv >= 0 && pv < n)
		require.False(t, seen[pv], "not a permutation: %d hit twice", pv)
		seen[pv] = true
		require.Equal(t, g.Color(v), g.Color(pv), "color broken at %d", v)
	}
	for v := int32(0); v < n; v++ {
		for _, w := range g.Neighbors(v) {
			require.True(t, g.HasEdge(perm[v], perm[w]),
				"edge {%d,%d} not preserved", v, w)
		}
	}
}

func run(t *testing.T, g *core.Graph, extra ...orchestrator.Option) (orchestrator.Result, *genCollector) {
	t.Helper()
	col := &genCollector{}
	opts := orchestrator.NewOptions(append([]orchestrator.Option{
		orchestrator.WithSilent(true),
		orchestrator.WithHook(col.hook),
		orchestrator.WithSeed(12345),
	}, extra...)...)
	res, err := orchestrator.Run(context.Background(), g, opts)
	require.NoError(t, err)
	for _, p := range col.all() {
		requireAutomorphism(t, g, p)
	}
	return res, col
}

func requireOrder(t *testing.T, res orchestrator.Result, want float64) {
	t.Helper()
	require.InDelta(t, want, res.GroupOrder.Float64(), want*1e-9)
}

func TestRun_EmptyGraph(t *testing.T) {
	g := buildGraph(t, 0, nil, nil)
	res, col := run(t, g)
	requireOrder(t, res, 1)
	require.Empty(t, col.all())
	require.True(t, res.DeterministicTermination)
}

func TestRun_Singleton(t *testing.T) {
	g := buildGraph(t, 1, uniform(1), nil)
	res, col := run(t, g)
	requireOrder(t, res, 1)
	require.Empty(t, col.all())
}

func TestRun_K2(t *testing.T) {
	g := buildGraph(t, 2, uniform(2), [][2]int{{0, 1}})
	res, col := run(t, g)
	requireOrder(t, res, 2)
	require.NotEmpty(t, col.all())
	require.True(t, res.DeterministicTermination)
}

func TestRun_P3Uniform(t *testing.T) {
	g := buildGraph(t, 3, uniform(3), [][2]int{{0, 1}, {1, 2}})
	res, col := run(t, g)
	requireOrder(t, res, 2)
	// The one nontrivial generator must swap the endpoints.
	found := false
	for _, p := range col.all() {
		if p[0] == 2 && p[2] == 0 && p[1] == 1 {
			found = true
		}
	}
	require.True(t, found, "endpoint swap not emitted")
}

func TestRun_P3Bicolored(t *testing.T) {
	g := buildGraph(t, 3, []int32{0, 1, 0}, [][2]int{{0, 1}, {1, 2}})
	res, col := run(t, g)
	requireOrder(t, res, 2)
	require.True(t, res.DeterministicTermination)
	for _, p := range col.all() {
		require.EqualValues(t, 1, p[1], "midpoint must stay fixed")
	}
}

func TestRun_K3(t *testing.T) {
	g := buildGraph(t, 3, uniform(3), [][2]int{{0, 1}, {1, 2}, {0, 2}})
	res, col := run(t, g)
	requireOrder(t, res, 6)
	require.True(t, res.DeterministicTermination)
	// Emitted generators must span S_3.
	require.EqualValues(t, 6, closureSize(col.all(), 3))
}

func TestRun_FiveIsolatedVertices(t *testing.T) {
	g := buildGraph(t, 5, uniform(5), nil)
	res, _ := run(t, g)
	requireOrder(t, res, 120)
	require.Equal(t, orchestrator.ReasonPreprocessorFinished, res.Termination)
}

func TestRun_TwoDisjointTriangles(t *testing.T) {
	edges := [][2]int{{0, 1}, {1, 2}, {0, 2}, {3, 4}, {4, 5}, {3, 5}}
	g := buildGraph(t, 6, uniform(6), edges)
	res, _ := run(t, g)
	requireOrder(t, res, 72)
	require.True(t, res.DeterministicTermination)
}

func TestRun_K33(t *testing.T) {
	colors := []int32{0, 0, 0, 1, 1, 1}
	var edges [][2]int
	for u := 0; u < 3; u++ {
		for w := 3; w < 6; w++ {
			edges = append(edges, [2]int{u, w})
		}
	}
	g := buildGraph(t, 6, colors, edges)
	res, _ := run(t, g)
	requireOrder(t, res, 36)
	require.True(t, res.DeterministicTermination)
}

func TestRun_Petersen(t *testing.T) {
	var edges [][2]int
	for i := 0; i < 5; i++ {
		edges = append(edges, [2]int{i, (i + 1) % 5})       // outer cycle
		edges = append(edges, [2]int{5 + i, 5 + (i+2)%5})   // inner pentagram
		edges = append(edges, [2]int{i, i + 5})             // spokes
	}
	g := buildGraph(t, 10, uniform(10), edges)
	res, _ := run(t, g)
	requireOrder(t, res, 120)
	require.True(t, res.DeterministicTermination)
}

// A triangle next to a square: the square's opposite corners are
// parallel degree-2 twins, so deg2-match folds C4 down to a K2 remnant
// (factor 2·2), the degree-0/1 pass absorbs that remnant (factor 2), and
// search is left with the bare triangle. |Aut| = 6·8 = 48, composed from
// preprocessor factors and the search result.
func TestRun_TrianglePlusSquare_MixedComponents(t *testing.T) {
	edges := [][2]int{
		{0, 1}, {1, 2}, {0, 2}, // C3
		{3, 4}, {4, 5}, {5, 6}, {3, 6}, // C4
	}
	g := buildGraph(t, 7, uniform(7), edges)
	res, _ := run(t, g)
	requireOrder(t, res, 48)
}

// C5 and C6 side by side survive every preprocessor stage (no degree-0/1
// periphery, no parallel degree-2 twins, no collapsible chain), and the
// uniform coloring keeps both cycles in one root cell, so this is the
// pure randomized-walk/Schreier path: Aut = D5 x D6 of order 120.
func TestRun_TwoCycles_RandomizedPath(t *testing.T) {
	var edges [][2]int
	for i := 0; i < 5; i++ {
		edges = append(edges, [2]int{i, (i + 1) % 5})
	}
	for i := 0; i < 6; i++ {
		edges = append(edges, [2]int{5 + i, 5 + (i+1)%6})
	}
	g := buildGraph(t, 11, uniform(11), edges)
	res, _ := run(t, g, orchestrator.WithErrorBound(16))
	requireOrder(t, res, 120)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := buildGraph(t, 3, uniform(3), [][2]int{{0, 1}, {1, 2}, {0, 2}})
	_, err := orchestrator.Run(ctx, g, orchestrator.NewOptions(orchestrator.WithSilent(true)))
	require.ErrorIs(t, err, context.Canceled)
}

func TestRun_NilGraph(t *testing.T) {
	_, err := orchestrator.Run(context.Background(), nil, orchestrator.DefaultOptions())
	require.ErrorIs(t, err, core.ErrNilGraph)
}

// closureSize computes |<perms>| by breadth-first closure; only used on
// tiny degrees where the group fits comfortably in memory.
func closureSize(perms [][]int32, n int) int {
	id := make([]int32, n)
	for i := range id {
		id[i] = int32(i)
	}
	key := func(p []int32) string { return fmt.Sprint(p) }
	seen := map[string][]int32{key(id): id}
	frontier := [][]int32{id}
	for len(frontier) > 0 {
		var next [][]int32
		for _, f := range frontier {
			for _, g := range perms {
				prod := make([]int32, n)
				for v := range prod {
					prod[v] = g[f[v]]
				}
				if _, ok := seen[key(prod)]; !ok {
					seen[key(prod)] = prod
					next = append(next, prod)
				}
			}
		}
		frontier = next
	}
	return len(seen)
}
