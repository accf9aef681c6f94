package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/irsearch/symmetria/cellselect"
	"github.com/irsearch/symmetria/dimacs"
	"github.com/irsearch/symmetria/orchestrator"
	"github.com/irsearch/symmetria/preprocess"
)

// ErrMalformedInput wraps every input-parsing failure so main can map it
// to exit code 2, distinct from other failures (exit 1).
var ErrMalformedInput = errors.New("malformed input")

var (
	flagSelector    string
	flagErrorBound  int
	flagBFSMemLimit int64
	flagWorkers     int
	flagSeed        int64
	flagSilent      bool
	flagNoDecomp    bool
	flagShowGens    bool

	flagNoDeg01      bool
	flagNoDeg2Match  bool
	flagNoDeg2Unique bool
	flagNoQCEdgeFlip bool
	flagNoPreprocess bool
)

var rootCmd = &cobra.Command{
	Use:   "symmetria <dimacs-file>",
	Short: "Compute the automorphism group of a vertex-colored graph",
	Long: `symmetria computes a generating set and the order of the automorphism
group of a finite undirected vertex-colored graph, given in a DIMACS-like
text format:

  p edge <n> <m>
  e <u> <v>
  n <v> <color>

Generators are printed in cycle notation; the group order and the
termination kind (deterministic or probabilistic) follow.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE:          runRoot,
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVar(&flagSelector, "selector", "traces", "cell selector policy: first|largest|smallest|traces")
	f.IntVar(&flagErrorBound, "error-bound", 10, "probabilistic termination error bound h (error <= 2^-h)")
	f.Int64Var(&flagBFSMemLimit, "bfs-mem-limit", 512*1024*1024, "BFS level memory limit in bytes")
	f.IntVar(&flagWorkers, "workers", 4, "number of search workers")
	f.Int64Var(&flagSeed, "seed", 0, "random seed (0 = fixed default)")
	f.BoolVar(&flagSilent, "silent", false, "suppress progress logging")
	f.BoolVar(&flagNoDecomp, "no-decompose", false, "disable quotient-component probing")
	f.BoolVar(&flagShowGens, "gens", true, "print each generator as it is found")

	f.BoolVar(&flagNoDeg01, "no-deg01", false, "disable the degree-0/1 reduction")
	f.BoolVar(&flagNoDeg2Match, "no-deg2-match", false, "disable the degree-2 matching reduction")
	f.BoolVar(&flagNoDeg2Unique, "no-deg2-unique", false, "disable the degree-2 path compression")
	f.BoolVar(&flagNoQCEdgeFlip, "no-qc-edge-flip", false, "disable the quotient-edge flip reduction")
	f.BoolVar(&flagNoPreprocess, "no-preprocess", false, "disable the preprocessor entirely")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runRoot(cmd *cobra.Command, args []string) error {
	policy, err := parseSelector(flagSelector)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	g, err := dimacs.Parse(f)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	opts := orchestrator.NewOptions(
		orchestrator.WithSelectorPolicy(policy),
		orchestrator.WithErrorBound(flagErrorBound),
		orchestrator.WithBFSMemLimit(flagBFSMemLimit),
		orchestrator.WithWorkers(flagWorkers),
		orchestrator.WithSeed(flagSeed),
		orchestrator.WithDecomposition(!flagNoDecomp),
		orchestrator.WithPreprocessSchedule(buildSchedule()),
		orchestrator.WithLogger(log.New(cmd.ErrOrStderr(), "", log.Ltime)),
		orchestrator.WithSilent(flagSilent),
	)
	if flagShowGens && !flagSilent {
		out := cmd.OutOrStdout()
		orchestrator.WithHook(func(n int, perm []int32, supp []int32) {
			fmt.Fprintln(out, cycleString(perm))
		})(&opts)
	}

	res, err := orchestrator.Run(context.Background(), g, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "group order: %s\n", res.GroupOrder)
	fmt.Fprintf(out, "generators:  %d\n", res.GeneratorCount)
	kind := "probabilistic"
	if res.DeterministicTermination {
		kind = "deterministic"
	}
	fmt.Fprintf(out, "termination: %s (%s)\n", res.Termination, kind)
	return nil
}

func parseSelector(s string) (cellselect.Policy, error) {
	switch s {
	case "first":
		return cellselect.First, nil
	case "largest":
		return cellselect.Largest, nil
	case "smallest":
		return cellselect.Smallest, nil
	case "traces":
		return cellselect.Traces, nil
	default:
		return 0, fmt.Errorf("unknown selector policy %q", s)
	}
}

func buildSchedule() []preprocess.Stage {
	if flagNoPreprocess {
		return nil
	}
	var kept []preprocess.Stage
	for _, st := range preprocess.DefaultSchedule() {
		switch {
		case flagNoDeg01 && st == preprocess.StageDeg01:
		case flagNoDeg2Match && st == preprocess.StageDeg2Match:
		case flagNoDeg2Unique && st == preprocess.StageDeg2Unique:
		case flagNoQCEdgeFlip && st == preprocess.StageQCEdgeFlip:
		default:
			kept = append(kept, st)
		}
	}
	return kept
}

// cycleString renders a permutation in cycle notation, e.g. "(0 2)(3 4 5)".
func cycleString(perm []int32) string {
	var sb strings.Builder
	seen := make([]bool, len(perm))
	for v := range perm {
		if seen[v] || perm[v] == int32(v) {
			continue
		}
		sb.WriteByte('(')
		cur := int32(v)
		first := true
		for !seen[cur] {
			seen[cur] = true
			if !first {
				sb.WriteByte(' ')
			}
			first = false
			fmt.Fprintf(&sb, "%d", cur)
			cur = perm[cur]
		}
		sb.WriteByte(')')
	}
	if sb.Len() == 0 {
		return "()"
	}
	return sb.String()
}
