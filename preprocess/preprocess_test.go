package preprocess_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irsearch/symmetria/core"
	"github.com/irsearch/symmetria/pairdfs"
	"github.com/irsearch/symmetria/preprocess"
)

// starGraph builds a center vertex joined to leafCount same-colored
// leaves: a single degree-0/1 reduction should collapse it to one
// vertex with a leafCount! factor.
func starGraph(t *testing.T, leafCount int) *core.Graph {
	t.Helper()
	b := core.NewBuilder()
	n := leafCount + 1
	require.NoError(t, b.Initialize(n, leafCount*2))
	center, err := b.AddVertex(0, leafCount)
	require.NoError(t, err)
	for i := 0; i < leafCount; i++ {
		leaf, err := b.AddVertex(1, 1)
		require.NoError(t, err)
		require.NoError(t, b.AddEdge(int(center), int(leaf)))
	}
	g, err := b.Finalize()
	require.NoError(t, err)
	return g
}

func TestReduceDeg01_StarCollapsesWithFactorial(t *testing.T) {
	g := starGraph(t, 4)
	reduced, res := preprocess.ReduceDeg01(g)
	// The leaves go first (4! ways to interchange them), then the center
	// cascades out as an isolated remnant.
	require.Equal(t, 0, reduced.N())
	require.InDelta(t, 24.0, res.Factor.Float64(), 1e-9)
}

func TestReduceDeg01_IsolatedVerticesFactorial(t *testing.T) {
	b := core.NewBuilder()
	require.NoError(t, b.Initialize(5, 0))
	for i := 0; i < 5; i++ {
		_, err := b.AddVertex(0, 0)
		require.NoError(t, err)
	}
	g, err := b.Finalize()
	require.NoError(t, err)

	reduced, res := preprocess.ReduceDeg01(g)
	require.Equal(t, 0, reduced.N())
	require.InDelta(t, 120.0, res.Factor.Float64(), 1e-9)
}

// pathGraph builds u - a - b - c - w where a,b,c share one color and u,w
// carry distinct colors from each other and from the chain.
func pathGraph(t *testing.T) *core.Graph {
	t.Helper()
	b := core.NewBuilder()
	require.NoError(t, b.Initialize(5, 8))
	colors := []int{0, 1, 1, 1, 2} // u, a, b, c, w
	for _, c := range colors {
		_, err := b.AddVertex(c, 2)
		require.NoError(t, err)
	}
	require.NoError(t, b.AddEdge(0, 1))
	require.NoError(t, b.AddEdge(1, 2))
	require.NoError(t, b.AddEdge(2, 3))
	require.NoError(t, b.AddEdge(3, 4))
	g, err := b.Finalize()
	require.NoError(t, err)
	return g
}

func TestReduceDeg2Paths_CollapsesChainToDirectEdge(t *testing.T) {
	g := pathGraph(t)
	reduced, res := preprocess.ReduceDeg2Paths(g)
	require.Equal(t, int32(2), res.NewN)
	require.Equal(t, 2, reduced.N())
	require.True(t, reduced.HasEdge(0, 1))
}

func TestPreprocess_StarThenNothingElse(t *testing.T) {
	g := starGraph(t, 3)
	out := preprocess.Preprocess(g, preprocess.DefaultSchedule(), 4)
	require.Equal(t, 0, out.Graph.N())
	require.InDelta(t, 6.0, out.Factor.Float64(), 1e-9)
	require.Greater(t, out.Lifter.Depth(), 0)
}

// disjointCycles builds uniformly colored disjoint cycles of the given
// lengths, in vertex order.
func disjointCycles(t *testing.T, lengths ...int) *core.Graph {
	t.Helper()
	n, m := 0, 0
	for _, l := range lengths {
		n += l
		m += l
	}
	b := core.NewBuilder()
	require.NoError(t, b.Initialize(n, 2*m))
	for i := 0; i < n; i++ {
		_, err := b.AddVertex(0, 2)
		require.NoError(t, err)
	}
	base := 0
	for _, l := range lengths {
		for i := 0; i < l; i++ {
			require.NoError(t, b.AddEdge(base+i, base+(i+1)%l))
		}
		base += l
	}
	g, err := b.Finalize()
	require.NoError(t, err)
	return g
}

func TestReduceQuotientComponentProbing_FoldsIsomorphicComponents(t *testing.T) {
	g := disjointCycles(t, 3, 3)
	reduced, res := preprocess.ReduceQuotientComponentProbing(g)

	require.Equal(t, 6, reduced.N())
	require.InDelta(t, 2.0, res.Factor.Float64(), 1e-9)
	// Copies are distinguished by color afterwards, each internally
	// uniform.
	require.Equal(t, reduced.Color(0), reduced.Color(1))
	require.Equal(t, reduced.Color(0), reduced.Color(2))
	require.Equal(t, reduced.Color(3), reduced.Color(4))
	require.Equal(t, reduced.Color(3), reduced.Color(5))
	require.NotEqual(t, reduced.Color(0), reduced.Color(3))
}

func TestReduceQuotientComponentProbing_NonIsomorphicComponentsUntouched(t *testing.T) {
	g := disjointCycles(t, 3, 4)
	reduced, res := preprocess.ReduceQuotientComponentProbing(g)

	require.Equal(t, g, reduced, "distinct signatures must leave the graph alone")
	require.InDelta(t, 1.0, res.Factor.Float64(), 1e-9)
}

// The component-swap generator emitted for a folded group must be an
// automorphism of the ORIGINAL graph once lifted.
func TestPreprocess_ComponentFoldEmitsValidSwap(t *testing.T) {
	g := disjointCycles(t, 3, 3)
	out := preprocess.Preprocess(g, []preprocess.Stage{preprocess.StageProbeQC}, 2)

	require.InDelta(t, 2.0, out.Factor.Float64(), 1e-9)
	gens := out.Lifter.AllLocalGenerators()
	require.NotEmpty(t, gens)
	for _, p := range gens {
		supp, ok := pairdfs.Certify(g, p)
		require.True(t, ok)
		require.NotEmpty(t, supp)
	}
}

func TestLifter_RoundTripsIdentityPermutation(t *testing.T) {
	g := pathGraph(t)
	out := preprocess.Preprocess(g, []preprocess.Stage{preprocess.StageDeg2Unique}, 1)
	require.Equal(t, 2, out.Graph.N())

	identityOnReduced := make([]int32, out.Graph.N())
	for i := range identityOnReduced {
		identityOnReduced[i] = int32(i)
	}
	lifted := out.Lifter.Lift(identityOnReduced)
	require.Len(t, lifted, g.N())
	for v, img := range lifted {
		require.Equal(t, int32(v), img, "identity must lift to identity")
	}
}
