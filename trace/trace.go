// Package trace implements the append-only invariant sequence that the
// refiner and the IR search tree use to compare root-to-leaf walks.
// A Trace either records values unconditionally or compares
// each pushed value against a reference trace installed earlier, folding
// any deviation into an accumulated hash so that identical deviations
// hash identically — this is what lets BFS's abort map dedupe pruned
// siblings without re-refining them.
package trace

import "github.com/cespare/xxhash/v2"

// Fail records where and how a comparison first diverged from the
// reference trace.
type Fail struct {
	Pos int   // position of the first mismatch
	Val int64 // the value that was pushed at that position
	Acc uint64
}

// Trace is an append-only sequence of int64s with an xxhash accumulator.
// Not safe for concurrent use; each IR controller / search worker owns
// one.
type Trace struct {
	values   []int64
	digest   *xxhash.Digest
	ref      []int64 // reference trace for comparison mode, nil if none
	cutAt    int     // depth-cut: compare only cell counts beyond this, -1 disables
	pos      int     // current write position
	failed   bool
	fail     Fail
	noWrite  bool
	neverFail bool
}

// New returns an empty Trace ready for recording.
func New() *Trace {
	return &Trace{digest: xxhash.New()}
}

// SetNoWrite controls whether push() appends to values (off by default
// once a trace is only used for its hash/fail outcome, to bound memory
// on long random walks — leaf-store hashes by trace.acc
// alone).
func (t *Trace) SetNoWrite(v bool) { t.noWrite = v }

// SetNeverFail makes Push continue recording past a divergence instead of
// latching fail permanently; callers inspect Failed/FailInfo afterward.
func (t *Trace) SetNeverFail(v bool) { t.neverFail = v }

// CompareAgainst installs ref as the reference trace. The write position
// is not reset: the next Push is checked against ref[Len()], so a trace
// that already holds a replayed prefix of ref compares from where that
// prefix ends. cutAt, if >=0, limits bit-exact comparison to positions
// below cutAt: Push calls at or past it are folded into the hash but not
// checked against ref. A negative cutAt means len(ref).
func (t *Trace) CompareAgainst(ref []int64, cutAt int) {
	t.ref = ref
	t.cutAt = cutAt
	if cutAt < 0 {
		t.cutAt = len(ref)
	}
}

// Push appends x and, in comparison mode, checks it against the
// reference. Returns false for every compared value that mismatches
// (unless NeverFail is set, in which case it always returns true but
// Failed() reports the outcome).
//
// Complexity: O(1) amortized.
func (t *Trace) Push(x int64) bool {
	if !t.noWrite {
		t.values = append(t.values, x)
	}
	ok := true
	if t.ref != nil && t.pos < t.cutAt {
		if t.pos >= len(t.ref) || t.ref[t.pos] != x {
			ok = false
			if !t.failed {
				t.failed = true
				t.fail = Fail{Pos: t.pos, Val: x}
			}
		}
	}
	var buf [8]byte
	putLE(buf[:], uint64(x))
	_, _ = t.digest.Write(buf[:])
	t.fail.Acc = t.digest.Sum64()
	t.pos++
	return ok || t.neverFail
}

func putLE(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

// Failed reports whether a divergence from the reference has occurred.
func (t *Trace) Failed() bool { return t.failed }

// FailInfo returns the recorded Fail{pos,val,acc}; valid only if Failed().
func (t *Trace) FailInfo() Fail { return t.fail }

// Hash returns the accumulated hash of every value pushed so far.
func (t *Trace) Hash() uint64 { return t.digest.Sum64() }

// Values returns the recorded sequence (nil if SetNoWrite(true) was
// used). Callers must not mutate.
func (t *Trace) Values() []int64 { return t.values }

// Len returns how many values have been pushed.
func (t *Trace) Len() int { return t.pos }

// Equal reports whether two traces produced by full (non-noWrite)
// recording are identical sequences. Used by property tests; the
// production path never compares whole traces, only Fail/Hash.
func Equal(a, b *Trace) bool {
	if len(a.values) != len(b.values) {
		return false
	}
	for i := range a.values {
		if a.values[i] != b.values[i] {
			return false
		}
	}
	return true
}
