package unionfind_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irsearch/symmetria/unionfind"
)

func TestNew_AllSingletons(t *testing.T) {
	p := unionfind.New(4)
	require.EqualValues(t, 4, p.Count())
	require.False(t, p.Same(0, 1))
}

func TestUnion_MergesAndCounts(t *testing.T) {
	p := unionfind.New(4)
	require.True(t, p.Union(0, 1))
	require.False(t, p.Union(1, 0), "second union of the same pair is a no-op")
	require.True(t, p.Union(2, 3))
	require.EqualValues(t, 2, p.Count())
	require.True(t, p.Same(0, 1))
	require.False(t, p.Same(0, 2))
}

func TestOrbitOf_ReturnsSortedMembers(t *testing.T) {
	p := unionfind.New(5)
	p.Union(3, 1)
	p.Union(1, 4)
	require.Equal(t, []int32{1, 3, 4}, p.OrbitOf(4))
	require.Equal(t, []int32{0}, p.OrbitOf(0))
}

func TestOrbits_GroupsByRepresentative(t *testing.T) {
	p := unionfind.New(4)
	p.Union(0, 2)
	orbits := p.Orbits()
	require.Len(t, orbits, 3)
	require.Contains(t, orbits[p.Find(0)], int32(2))
}

func TestAddGenerator_UnionsAlongCycles(t *testing.T) {
	p := unionfind.New(6)
	// (0 1 2)(4 5)
	p.AddGenerator([]int32{1, 2, 0, 3, 5, 4})
	require.True(t, p.Same(0, 2))
	require.True(t, p.Same(4, 5))
	require.False(t, p.Same(3, 0))
	require.EqualValues(t, 3, p.Count())
}
