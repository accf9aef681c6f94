package randsearch

import "math/rand"

// defaultSeed is the fixed "zero" seed used when callers pass seed==0,
// kept arbitrary-but-stable so defaults are reproducible.
const defaultSeed int64 = 1

// RNGFromSeed returns a deterministic *rand.Rand. seed==0 maps to
// defaultSeed; any other seed is used verbatim.
func RNGFromSeed(seed int64) *rand.Rand {
	s := seed
	if s == 0 {
		s = defaultSeed
	}
	return rand.New(rand.NewSource(s))
}

// deriveSeed mixes a parent seed and a stream identifier with a
// SplitMix64-style avalanche finalizer, so nearby stream ids produce
// well-decorrelated output seeds.
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return int64(x)
}

// DeriveRNG returns an independent deterministic RNG stream for the given
// stream identifier, derived from base (or from defaultSeed if base is
// nil). One value is consumed from base first to decorrelate consecutive
// derivations — calling DeriveRNG twice with the same stream id but the
// same base without advancing it would otherwise hand out identical
// children.
func DeriveRNG(base *rand.Rand, stream uint64) *rand.Rand {
	var parent int64
	if base == nil {
		parent = defaultSeed
	} else {
		parent = base.Int63()
	}
	return rand.New(rand.NewSource(deriveSeed(parent, stream)))
}
