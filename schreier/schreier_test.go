package schreier_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irsearch/symmetria/schreier"
)

func TestSift_IdentityIsAlwaysAbsorbed(t *testing.T) {
	c := schreier.New(3, []int32{0, 1, 2})
	absorbed, _, _ := c.Sift(schreier.Identity(3))
	require.True(t, absorbed)
}

// The transposition (1 2) sifted into a base-{0,1,2} chain with no
// generators yet must fail at level 1 (it moves the fixed point there),
// producing a new generator that, once added, makes level 1's orbit
// {1,2}.
func TestSift_NewGeneratorGrowsOrbit(t *testing.T) {
	c := schreier.New(3, []int32{0, 1, 2})
	swap12 := schreier.Perm{0, 2, 1}

	absorbed, level, residual := c.Sift(swap12)
	require.False(t, absorbed)
	require.Equal(t, 1, level)

	c.AddGenerator(level, residual)
	require.Equal(t, 2, c.OrbitSize(1))

	// Now sifting the same permutation must be absorbed.
	absorbed2, _, _ := c.Sift(swap12)
	require.True(t, absorbed2)
}

func TestGroupOrder_K3FullSymmetricGroup(t *testing.T) {
	c := schreier.New(3, []int32{0, 1, 2})
	// S3 generators: (0 1) and (0 1 2).
	c.AddGenerator(0, schreier.Perm{1, 0, 2})
	// After the swap grows level 0's orbit to {0,1}, feed the 3-cycle at
	// whatever level it first fails.
	threeCycle := schreier.Perm{1, 2, 0}
	absorbed, level, residual := c.Sift(threeCycle)
	if !absorbed {
		c.AddGenerator(level, residual)
	}
	// Feed a couple more sifts of products to saturate the chain.
	for _, p := range []schreier.Perm{{2, 0, 1}, {0, 2, 1}, {2, 1, 0}} {
		if absorbed, level, residual := c.Sift(p); !absorbed {
			c.AddGenerator(level, residual)
		}
	}
	require.InDelta(t, 6.0, c.GroupOrder().Float64(), 1e-9)
}

func TestErrorBound(t *testing.T) {
	require.False(t, schreier.ErrorBound(9, 10))
	require.True(t, schreier.ErrorBound(10, 10))
}
