package trace_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irsearch/symmetria/trace"
)

func TestPush_RecordsAndHashes(t *testing.T) {
	tr := trace.New()
	require.True(t, tr.Push(7))
	require.True(t, tr.Push(11))
	require.Equal(t, []int64{7, 11}, tr.Values())
	require.Equal(t, 2, tr.Len())
	require.NotZero(t, tr.Hash())
	require.False(t, tr.Failed())
}

func TestCompare_EqualSequencesDoNotFail(t *testing.T) {
	ref := trace.New()
	for _, x := range []int64{1, 2, 3} {
		ref.Push(x)
	}

	tr := trace.New()
	tr.CompareAgainst(ref.Values(), -1)
	for _, x := range []int64{1, 2, 3} {
		require.True(t, tr.Push(x))
	}
	require.False(t, tr.Failed())
	require.Equal(t, ref.Hash(), tr.Hash())
}

func TestCompare_DivergenceRecordsPosAndVal(t *testing.T) {
	tr := trace.New()
	tr.CompareAgainst([]int64{1, 2, 3}, -1)
	require.True(t, tr.Push(1))
	require.False(t, tr.Push(9))
	require.True(t, tr.Failed())
	fi := tr.FailInfo()
	require.Equal(t, 1, fi.Pos)
	require.EqualValues(t, 9, fi.Val)
}

// Identical deviations must hash identically: two traces that diverge
// from the same reference at the same position with the same suffix end
// up with equal accumulated hashes. This is what the BFS abort map keys
// on.
func TestCompare_IdenticalDeviationsShareAcc(t *testing.T) {
	ref := []int64{1, 2, 3, 4}

	a := trace.New()
	a.SetNeverFail(true)
	a.CompareAgainst(ref, -1)
	for _, x := range []int64{1, 2, 9, 9} {
		require.True(t, a.Push(x))
	}

	b := trace.New()
	b.SetNeverFail(true)
	b.CompareAgainst(ref, -1)
	for _, x := range []int64{1, 2, 9, 9} {
		require.True(t, b.Push(x))
	}

	require.True(t, a.Failed())
	require.True(t, b.Failed())
	require.Equal(t, a.FailInfo().Pos, b.FailInfo().Pos)
	require.Equal(t, a.FailInfo().Acc, b.FailInfo().Acc)
}

func TestNeverFail_KeepsRecordingPastDivergence(t *testing.T) {
	tr := trace.New()
	tr.SetNeverFail(true)
	tr.CompareAgainst([]int64{5}, -1)
	require.True(t, tr.Push(6))
	require.True(t, tr.Push(7))
	require.True(t, tr.Failed())
	require.Equal(t, 2, tr.Len())
}

func TestNoWrite_DropsValuesButKeepsHash(t *testing.T) {
	tr := trace.New()
	tr.SetNoWrite(true)
	tr.Push(42)
	require.Nil(t, tr.Values())
	require.Equal(t, 1, tr.Len())
	require.NotZero(t, tr.Hash())
}

// With a depth cut installed, values pushed beyond the cut are folded
// into the hash but no longer checked bit-for-bit.
func TestCompare_CutLimitsBitExactComparison(t *testing.T) {
	tr := trace.New()
	tr.CompareAgainst([]int64{1, 2, 3}, 1)
	require.True(t, tr.Push(1))
	require.True(t, tr.Push(99)) // beyond the cut: not compared
	require.False(t, tr.Failed())
}

func TestEqual_FullSequences(t *testing.T) {
	a, b := trace.New(), trace.New()
	for _, x := range []int64{4, 5} {
		a.Push(x)
		b.Push(x)
	}
	require.True(t, trace.Equal(a, b))
	b.Push(6)
	require.False(t, trace.Equal(a, b))
}
