package orchestrator

import (
	"log"

	"github.com/irsearch/symmetria/bignum"
	"github.com/irsearch/symmetria/cellselect"
	"github.com/irsearch/symmetria/preprocess"
)

// Mode names the current global search phase, held in an atomic.Int32 so
// every worker can poll it without locking.
type Mode int32

const (
	ModeTournament Mode = iota
	ModeNonUniformProbe
	ModeBFS
	ModeNonUniformFromBFS
	ModeUniformProbe
	ModeWait
)

func (m Mode) String() string {
	switch m {
	case ModeTournament:
		return "tournament"
	case ModeNonUniformProbe:
		return "non-uniform-probe"
	case ModeBFS:
		return "bfs"
	case ModeNonUniformFromBFS:
		return "non-uniform-from-bfs"
	case ModeUniformProbe:
		return "uniform-probe"
	case ModeWait:
		return "wait"
	default:
		return "unknown"
	}
}

// Hook is invoked once per generator discovered, serialized so a caller
// that only reads/appends under its own lock never needs additional
// synchronization for ordering; a hook that mutates shared state across
// goroutines must still synchronize internally, since it may be invoked
// from whichever worker discovered the generator.
type Hook func(n int, perm []int32, supp []int32)

// TerminationReason records why Run stopped searching.
type TerminationReason int

const (
	ReasonPreprocessorFinished TerminationReason = iota
	ReasonInprocFinished
	ReasonDFSFinished
	ReasonBFSFinished
	ReasonDeterministicSchreier
	ReasonRandomSchreier
)

func (r TerminationReason) String() string {
	switch r {
	case ReasonPreprocessorFinished:
		return "preprocessor-finished"
	case ReasonInprocFinished:
		return "inproc-finished"
	case ReasonDFSFinished:
		return "dfs-finished"
	case ReasonBFSFinished:
		return "bfs-finished"
	case ReasonDeterministicSchreier:
		return "deterministic-schreier"
	case ReasonRandomSchreier:
		return "random-schreier"
	default:
		return "unknown"
	}
}

// Option configures Options; one per knob.
type Option func(*Options)

// Options holds every orthogonal configuration knob Run accepts.
type Options struct {
	ErrorBound         int
	RestartRatio       float64
	DecompositionOn    bool
	BFSMemLimitBytes   int64
	Silent             bool
	PreprocessSchedule []preprocess.Stage
	SelectorPolicy     cellselect.Policy
	Workers            int
	Logger             *log.Logger
	Hook               Hook
	Seed               int64
}

// DefaultOptions returns the documented defaults for every knob.
func DefaultOptions() Options {
	return Options{
		ErrorBound:         10,
		RestartRatio:       5,
		DecompositionOn:    true,
		BFSMemLimitBytes:   512 * 1024 * 1024,
		Silent:             false,
		PreprocessSchedule: preprocess.DefaultSchedule(),
		SelectorPolicy:     cellselect.Traces,
		Workers:            4,
		Logger:             log.Default(),
	}
}

func WithErrorBound(h int) Option             { return func(o *Options) { o.ErrorBound = h } }
func WithRestartRatio(r float64) Option        { return func(o *Options) { o.RestartRatio = r } }
func WithDecomposition(on bool) Option         { return func(o *Options) { o.DecompositionOn = on } }
func WithBFSMemLimit(bytes int64) Option       { return func(o *Options) { o.BFSMemLimitBytes = bytes } }
func WithSilent(silent bool) Option {
	return func(o *Options) {
		o.Silent = silent
		if silent {
			o.Logger = log.New(logDiscard{}, "", 0)
		}
	}
}
func WithPreprocessSchedule(s []preprocess.Stage) Option {
	return func(o *Options) { o.PreprocessSchedule = s }
}
func WithSelectorPolicy(p cellselect.Policy) Option { return func(o *Options) { o.SelectorPolicy = p } }
func WithWorkers(w int) Option                      { return func(o *Options) { o.Workers = w } }
func WithLogger(l *log.Logger) Option                { return func(o *Options) { o.Logger = l } }
func WithHook(h Hook) Option                         { return func(o *Options) { o.Hook = h } }
func WithSeed(seed int64) Option                     { return func(o *Options) { o.Seed = seed } }

// NewOptions applies opts on top of DefaultOptions.
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// logDiscard implements io.Writer by discarding everything, avoiding an
// io import purely for io.Discard's sake in this file.
type logDiscard struct{}

func (logDiscard) Write(p []byte) (int, error) { return len(p), nil }

// Result is what Run returns once search terminates (or is canceled).
type Result struct {
	GroupOrder               bignum.Number
	GeneratorCount           int64
	DeterministicTermination bool
	Termination              TerminationReason
}
