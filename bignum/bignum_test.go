package bignum_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/irsearch/symmetria/bignum"
)

func TestMultiply_SmallIntegers(t *testing.T) {
	n := bignum.One()
	for k := int64(2); k <= 5; k++ {
		n = n.Multiply(k)
	}
	require.InDelta(t, 120.0, n.Float64(), 1e-9)
	require.Equal(t, "120", n.String())
}

func TestMultiply_NormalizesMantissa(t *testing.T) {
	n := bignum.One().Multiply(1000)
	require.InDelta(t, 1.0, n.Mantissa, 1e-12)
	require.Equal(t, 3, n.Exponent)
}

func TestMultiply_NonPositiveIsIgnored(t *testing.T) {
	n := bignum.One().Multiply(6)
	require.Equal(t, n, n.Multiply(0))
	require.Equal(t, n, n.Multiply(-3))
}

func TestMultiplyNumber_ComposesFactors(t *testing.T) {
	a := bignum.One().Multiply(6)
	b := bignum.One().Multiply(12)
	require.InDelta(t, 72.0, a.MultiplyNumber(b).Float64(), 1e-9)
}

func TestMultiplyNumber_ZeroActsAsIdentityForComposition(t *testing.T) {
	a := bignum.One().Multiply(7)
	require.Equal(t, a, bignum.Zero().MultiplyNumber(a))
	require.Equal(t, a, a.MultiplyNumber(bignum.Zero()))
}

// 100! overflows int64 by a wide margin; the mantissa/exponent pair must
// carry it without saturating.
func TestMultiply_LargeFactorialStaysFinite(t *testing.T) {
	n := bignum.One()
	for k := int64(2); k <= 100; k++ {
		n = n.Multiply(k)
	}
	require.True(t, n.Mantissa >= 1 && n.Mantissa < 10)
	require.Equal(t, 157, n.Exponent) // 100! ~ 9.33·10^157
	require.Contains(t, n.String(), "10^157")
}

func TestString_ScientificForLargeExponents(t *testing.T) {
	n := bignum.Number{Mantissa: 2.5, Exponent: 40}
	require.Equal(t, "2.5·10^40", n.String())
}
