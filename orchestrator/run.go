package orchestrator

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/irsearch/symmetria/bfstree"
	"github.com/irsearch/symmetria/bignum"
	"github.com/irsearch/symmetria/cellselect"
	"github.com/irsearch/symmetria/core"
	"github.com/irsearch/symmetria/inprocess"
	"github.com/irsearch/symmetria/ircontrol"
	"github.com/irsearch/symmetria/pairdfs"
	"github.com/irsearch/symmetria/preprocess"
	"github.com/irsearch/symmetria/randsearch"
	"github.com/irsearch/symmetria/refine"
	"github.com/irsearch/symmetria/schreier"
	"github.com/irsearch/symmetria/trace"
	"github.com/irsearch/symmetria/unionfind"
)

const (
	maxPreprocessRounds = 8
	walksPerWorker      = 8
	roundsPerBudget     = 4
	budgetGrowth        = 3
	maxIterations       = 16
	closureGenLimit     = 64
)

// Run computes generators and the order of Aut(G, c) for the given
// vertex-colored graph. Every discovered generator is reported through
// opts.Hook (if set) as a permutation of the original vertex set; the
// returned Result carries the exact group order and how search
// terminated. Cancel via ctx; on cancellation Run returns what has been
// proven so far together with ctx's error.
func Run(ctx context.Context, g *core.Graph, opts Options) (Result, error) {
	if g == nil {
		return Result{}, core.ErrNilGraph
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Logger == nil {
		opts.Logger = DefaultOptions().Logger
	}

	if g.N() == 0 {
		return Result{
			GroupOrder:               bignum.One(),
			DeterministicTermination: true,
			Termination:              ReasonPreprocessorFinished,
		}, nil
	}

	schedule := opts.PreprocessSchedule
	if !opts.DecompositionOn {
		schedule = withoutProbeStages(schedule)
	}
	out := preprocess.Preprocess(g, schedule, maxPreprocessRounds)
	em := &emitter{hook: opts.Hook, lifter: out.Lifter, n: g.N()}
	for _, p := range out.Lifter.AllLocalGenerators() {
		em.emitOriginal(p)
	}

	gr := out.Graph
	if gr.N() == 0 {
		return Result{
			GroupOrder:               out.Factor,
			GeneratorCount:           em.count(),
			DeterministicTermination: true,
			Termination:              ReasonPreprocessorFinished,
		}, nil
	}
	gr.SortAdjacency()
	opts.Logger.Printf("preprocessed: %d -> %d vertices, factor %s", g.N(), gr.N(), out.Factor)

	s := &searcher{
		g:            gr,
		n:            int32(gr.N()),
		opts:         opts,
		emit:         em,
		rootCols:     append([]int32(nil), gr.InitialColors()...),
		rng:          randsearch.RNGFromSeed(opts.Seed),
		preFactor:    out.Factor,
		inprocFactor: bignum.One(),
	}
	return s.run(ctx)
}

func withoutProbeStages(schedule []preprocess.Stage) []preprocess.Stage {
	var kept []preprocess.Stage
	for _, st := range schedule {
		if st == preprocess.StageProbeQC || st == preprocess.StageProbe2QC {
			continue
		}
		kept = append(kept, st)
	}
	return kept
}

// emitter serializes hook invocation and lifts reduced-graph generators
// back to the original vertex set.
type emitter struct {
	mu     sync.Mutex
	hook   Hook
	lifter *preprocess.Lifter
	n      int
	nEmit  int64
}

func (e *emitter) emitReduced(p schreier.Perm) {
	e.emitOriginal(e.lifter.Lift(p))
}

func (e *emitter) emitOriginal(p schreier.Perm) {
	var supp []int32
	for v, pv := range p {
		if int32(v) != pv {
			supp = append(supp, int32(v))
		}
	}
	if len(supp) == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.nEmit++
	if e.hook != nil {
		e.hook(e.n, p, supp)
	}
}

func (e *emitter) count() int64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.nEmit
}

// searcher holds the state of the iteration loop over the reduced graph.
type searcher struct {
	g    *core.Graph
	n    int32
	opts Options
	emit *emitter

	rootCols []int32 // current root color assignment; refined anew each iteration
	policy   cellselect.Policy
	rng      *rand.Rand

	mode   atomic.Int32
	done   atomic.Bool
	consec atomic.Int64 // consecutive absorbed sifts

	preFactor    bignum.Number
	inprocFactor bignum.Number
	carried      []schreier.Perm // generators surviving an inprocessing restart
	lastChain    *schreier.Chain
}

// walkInfo is everything the canonical (first, deterministic) root-to-leaf
// walk pins down for one search iteration.
type walkInfo struct {
	base        ircontrol.Base
	baseVerts   []int32
	classSizes  []int32
	siblings    [][]int32          // per level, the target cell's members before individualization
	states      []*ircontrol.State // per level, snapshot just before individualizing
	leaf        *core.Coloring
	traceValues []int64
	refCols     []int32 // refined-root color assignment; workers rebuild from this
	rootCells   int32
}

type loopStats struct {
	rollingSuccess  float64
	level1FailRate  float64
	prunedEffective bool
	regular         bool
}

func (s *searcher) run(ctx context.Context) (Result, error) {
	budget := 1
	firstBaseLen := -1
	restartsAllowed := true

	for iter := 0; iter < maxIterations; iter++ {
		if err := ctx.Err(); err != nil {
			return s.finish(s.lastChain, ReasonRandomSchreier, false), err
		}

		s.mode.Store(int32(ModeTournament))
		s.policy = s.pickPolicy()
		w, refinedRoot := s.buildCanonical()
		if firstBaseLen < 0 {
			firstBaseLen = len(w.base)
		}
		s.opts.Logger.Printf("iteration %d: base length %d, %d root cells, selector %s",
			iter, len(w.base), w.rootCells, s.policy)

		chain := schreier.New(s.n, w.baseVerts)
		s.lastChain = chain
		if len(w.base) == 0 {
			// Root refined (or inprocessed) to a discrete coloring: the
			// residual group is trivial.
			reason := ReasonDFSFinished
			if iter > 0 {
				reason = ReasonInprocFinished
			}
			return s.finish(chain, reason, true), nil
		}
		s.reseed(chain, refinedRoot)

		s.mode.Store(int32(ModeNonUniformProbe))
		dfsRes := s.runDFS(w, chain)
		if dfsRes.FailedAtLevel == -1 {
			order := s.preFactor.MultiplyNumber(s.inprocFactor).MultiplyNumber(dfsRes.Factor)
			return Result{
				GroupOrder:               order,
				GeneratorCount:           s.emit.count(),
				DeterministicTermination: true,
				Termination:              ReasonDFSFinished,
			}, nil
		}
		s.opts.Logger.Printf("paired DFS stopped at level %d after dropping %d levels",
			dfsRes.FailedAtLevel, dfsRes.DroppedLevels)

		res, terminated, err := s.searchLoop(ctx, w, chain, budget)
		if err != nil {
			return res, err
		}
		if terminated {
			return res, nil
		}

		// Budget exhausted: inprocess and restart on an improved root.
		if !restartsAllowed {
			// Keep searching the same instance with a bigger budget until a
			// probabilistic verdict lands.
			s.carried = chain.Generators()
			budget *= budgetGrowth
			continue
		}
		s.inprocessRestart(refinedRoot, chain)
		budget *= budgetGrowth
		if firstBaseLen > 0 && float64(len(w.base)) > s.opts.RestartRatio*float64(firstBaseLen) {
			restartsAllowed = false
		}
	}

	// Iteration cap reached without a verdict; report the group proven so
	// far as a probabilistic result.
	return s.finish(s.lastChain, ReasonRandomSchreier, false), nil
}

func (s *searcher) finish(chain *schreier.Chain, reason TerminationReason, deterministic bool) Result {
	order := s.preFactor.MultiplyNumber(s.inprocFactor)
	if chain != nil {
		order = order.MultiplyNumber(chain.GroupOrder())
	}
	s.mode.Store(int32(ModeWait))
	s.done.Store(true)
	return Result{
		GroupOrder:               order,
		GeneratorCount:           s.emit.count(),
		DeterministicTermination: deterministic,
		Termination:              reason,
	}
}

// pickPolicy runs the selector tournament when the configured policy is
// the default Traces; an explicitly chosen policy is used as-is.
func (s *searcher) pickPolicy() cellselect.Policy {
	if s.opts.SelectorPolicy != cellselect.Traces {
		return s.opts.SelectorPolicy
	}
	candidates := []cellselect.Policy{cellselect.Traces, cellselect.First, cellselect.Smallest}
	return cellselect.Tournament(candidates, func(p cellselect.Policy) cellselect.Stats {
		ctl := ircontrol.New(s.g, s.freshColoring(s.refinedRootCols()), trace.New(), false)
		cache := cellselect.NewCache()
		for {
			cs := cellselect.Select(ctl.Coloring(), p, cache)
			if cs < 0 {
				break
			}
			ctl.MoveToChild(ctl.Coloring().CellVertices(cs)[0])
		}
		return cellselect.Stats{
			BaseLen:         len(ctl.Base()),
			DeviationBudget: ctl.Deviations(),
			TraceLen:        ctl.Trace().Len(),
		}
	})
}

// refinedRootCols refines the current root colors to a fixpoint and
// returns the resulting color assignment (cell-start index per vertex).
func (s *searcher) refinedRootCols() []int32 {
	col := s.freshColoring(s.rootCols)
	refine.Refine(s.g, col, trace.New(), -1, -1, nil)
	return colorAssignment(col)
}

func (s *searcher) freshColoring(cols []int32) *core.Coloring {
	return core.NewColoring(core.NewArena(s.n), cols)
}

func colorAssignment(c *core.Coloring) []int32 {
	cols := make([]int32, c.N())
	for v := int32(0); v < c.N(); v++ {
		cols[v] = c.ColorOf(v)
	}
	return cols
}

// buildCanonical performs the deterministic first root-to-leaf walk: it
// refines the root, then repeatedly selects a target cell and
// individualizes the cell's first member, snapshotting the state and the
// sibling set at every level. The recorded base and trace define the
// canonical search tree for this iteration.
func (s *searcher) buildCanonical() (*walkInfo, *core.Coloring) {
	refCols := s.refinedRootCols()
	root := s.freshColoring(refCols)

	ctl := ircontrol.New(s.g, root.Clone(), trace.New(), false)
	cache := cellselect.NewCache()
	w := &walkInfo{refCols: refCols, rootCells: root.Cells()}
	for {
		col := ctl.Coloring()
		cs := cellselect.Select(col, s.policy, cache)
		if cs < 0 {
			break
		}
		members := append([]int32(nil), col.CellVertices(cs)...)
		w.siblings = append(w.siblings, members)
		w.states = append(w.states, ctl.SaveState())
		ctl.MoveToChild(members[0])
	}
	w.base = ctl.Base()
	w.leaf = ctl.Coloring()
	w.traceValues = append([]int64(nil), ctl.Trace().Values()...)
	for _, lvl := range w.base {
		w.baseVerts = append(w.baseVerts, lvl.Vertex)
		w.classSizes = append(w.classSizes, lvl.ClassSize)
	}
	return w, root
}

// reseed re-sifts generators carried over from before an inprocessing
// restart. Only generators that respect the current (finer) root coloring
// are still automorphisms of the instance being searched; the rest fix a
// coset the inprocessor has already accounted for.
func (s *searcher) reseed(chain *schreier.Chain, root *core.Coloring) {
	for _, gen := range s.carried {
		if !respectsColoring(gen, root) {
			continue
		}
		if absorbed, level, residual := chain.Sift(gen); !absorbed {
			chain.AddGenerator(level, residual)
		}
	}
	s.carried = nil
}

func respectsColoring(p schreier.Perm, col *core.Coloring) bool {
	for v, pv := range p {
		if col.ColorOf(int32(v)) != col.ColorOf(pv) {
			return false
		}
	}
	return true
}

// runDFS climbs the base from the deepest level, producing a sibling leaf
// for every other member of each level's target cell and certifying the
// induced permutation. Certified permutations are sifted (and emitted) as
// a side effect, so even a partial climb feeds the Schreier chain.
func (s *searcher) runDFS(w *walkInfo, chain *schreier.Chain) pairdfs.Result {
	produce := func(level int, sibling int32) (*core.Coloring, bool) {
		ctl := ircontrol.LoadState(s.g, w.states[level])
		ctl.Trace().CompareAgainst(w.traceValues, -1)
		if !ctl.MoveToChild(sibling) {
			return nil, false
		}
		for {
			col := ctl.Coloring()
			cs := cellselect.Select(col, s.policy, nil)
			if cs < 0 {
				break
			}
			if !ctl.MoveToChild(col.CellVertices(cs)[0]) {
				return nil, false
			}
		}
		leaf := ctl.Coloring()
		if !leaf.Discrete() {
			return nil, false
		}
		perm := pairdfs.CandidatePermutation(w.leaf, leaf)
		if supp, ok := pairdfs.Certify(s.g, perm); ok && len(supp) > 0 {
			s.siftAndEmit(chain, perm)
		}
		return leaf, true
	}
	siblings := func(level int) []int32 { return w.siblings[level] }
	return pairdfs.Run(s.g, w.leaf, w.base, siblings, produce)
}

// siftAndEmit folds a certified automorphism into the chain; a sift that
// yields a new generator resets the absorbed streak and reports the
// automorphism through the hook.
func (s *searcher) siftAndEmit(chain *schreier.Chain, perm []int32) bool {
	absorbed, level, residual := chain.Sift(perm)
	if absorbed {
		s.consec.Add(1)
		return false
	}
	chain.AddGenerator(level, residual)
	s.consec.Store(0)
	s.emit.emitReduced(append(schreier.Perm(nil), perm...))
	return true
}

// closureSift tightens the chain by sifting pairwise products of the
// known generators until nothing new appears. For small generator sets
// this makes GroupOrder exact for the generated subgroup, which is what
// the deterministic termination check needs.
func closureSift(chain *schreier.Chain) {
	for pass := 0; pass < 8; pass++ {
		gens := chain.Generators()
		if len(gens) > closureGenLimit {
			return
		}
		added := false
		for _, a := range gens {
			for _, b := range gens {
				p := schreier.Compose(a, b)
				if absorbed, level, residual := chain.Sift(p); !absorbed {
					chain.AddGenerator(level, residual)
					added = true
				}
			}
		}
		if !added {
			return
		}
	}
}

// searchLoop alternates randomized leaf search and BFS level extension
// until a termination verdict lands or the iteration budget runs out.
func (s *searcher) searchLoop(ctx context.Context, w *walkInfo, chain *schreier.Chain, budget int) (Result, bool, error) {
	tree := bfstree.NewTree(s.g, s.opts.BFSMemLimitBytes)
	rootNode := tree.Root(s.freshColoring(w.refCols), nil)
	rootNode.TargetCell = w.base[0].TargetColor
	bfsPinned := false
	store := randsearch.NewLeafStore()
	st := &loopStats{rollingSuccess: 0.5, level1FailRate: 0.5, regular: isRegular(s.g)}
	s.consec.Store(0)

	for round := 0; round < budget*roundsPerBudget; round++ {
		if err := ctx.Err(); err != nil {
			return s.finish(chain, ReasonRandomSchreier, false), true, err
		}

		if s.preferBFS(w, tree, st, bfsPinned) {
			s.mode.Store(int32(ModeBFS))
			finished, err := s.extendBFS(ctx, tree, w, chain)
			if err == bfstree.ErrLevelMemoryLimit {
				bfsPinned = true
				s.opts.Logger.Printf("bfs level pinned at depth %d: memory limit", tree.Depth()-1)
			} else if err != nil {
				return s.finish(chain, ReasonRandomSchreier, false), true, err
			} else if finished {
				closureSift(chain)
				return s.finish(chain, ReasonBFSFinished, true), true, nil
			}
		} else {
			if tree.Depth() > 1 {
				s.mode.Store(int32(ModeNonUniformFromBFS))
			} else {
				s.mode.Store(int32(ModeUniformProbe))
			}
			if err := s.randBatch(ctx, w, chain, store, st, tree); err != nil {
				return s.finish(chain, ReasonRandomSchreier, false), true, err
			}
		}

		closureSift(chain)
		if chain.DeterministicComplete(w.classSizes) {
			return s.finish(chain, ReasonDeterministicSchreier, true), true, nil
		}
		if schreier.ErrorBound(int(s.consec.Load()), s.opts.ErrorBound) {
			return s.finish(chain, ReasonRandomSchreier, false), true, nil
		}
	}
	return Result{}, false, nil
}

func isRegular(g *core.Graph) bool {
	n := int32(g.N())
	if n == 0 {
		return true
	}
	d := g.Degree(0)
	for v := int32(1); v < n; v++ {
		if g.Degree(v) != d {
			return false
		}
	}
	return true
}

// preferBFS scores randomized search against extending the next BFS
// level and returns true when BFS wins.
func (s *searcher) preferBFS(w *walkInfo, tree *bfstree.Tree, st *loopStats, pinned bool) bool {
	if pinned {
		return false
	}
	depth := int(tree.Depth()) - 1
	if depth >= len(w.base) {
		return false
	}
	lvl := tree.Level(int32(depth))
	if lvl == nil || lvl.Len() == 0 {
		return false
	}
	nextNodes := float64(lvl.Len()) * float64(w.base[depth].ClassSize)
	traceCost := float64(len(w.traceValues) + 1)
	resetCost := float64(s.n)

	scoreRand := traceCost * (1 - st.rollingSuccess)
	scoreBFS := (traceCost + resetCost) * nextNodes * (1 + (1 - st.level1FailRate))
	if st.prunedEffective {
		scoreBFS /= 2
	}
	if st.regular && w.rootCells <= 2 {
		// Regular graphs with few initial cells refine poorly at the root;
		// materializing the tree pays off quickly there.
		scoreBFS /= 8
	}
	return scoreBFS < scoreRand
}

// extendBFS materializes the next BFS level. Siblings that share an orbit
// under the known generators are pruned before refinement; finished leaf
// levels certify every node against the canonical leaf and report true.
func (s *searcher) extendBFS(ctx context.Context, tree *bfstree.Tree, w *walkInfo, chain *schreier.Chain) (bool, error) {
	levelIdx := tree.Depth() - 1
	if int(levelIdx) >= len(w.base) {
		return true, nil
	}
	parents := tree.Level(levelIdx).Nodes()
	target := w.base[levelIdx].TargetColor

	orbits := unionfind.New(s.n)
	for _, gen := range chain.Generators() {
		orbits.AddGenerator(gen)
	}

	var cands []bfstree.Candidate
	pruned := 0
	for idx, nd := range parents {
		if nd.Diverged {
			continue
		}
		members := nd.Col.CellVertices(target)
		var roots []int32
		for _, v := range members {
			r := orbits.Find(v)
			dup := false
			if !nd.Identity {
				// Non-identity nodes may prune orbit-equivalent siblings;
				// the identity line must try them all so the abort map and
				// the generator set stay complete.
				for _, seen := range roots {
					if seen == r {
						dup = true
						break
					}
				}
			}
			if dup {
				pruned++
				continue
			}
			roots = append(roots, r)
			cands = append(cands, bfstree.Candidate{
				ParentIndex: int32(idx),
				Vertex:      v,
				Weight:      int64(len(orbits.OrbitOf(v))),
			})
		}
	}

	n := s.n
	refineFn := func(parent *bfstree.Node, vertex int32, weight int64) (bfstree.RefineResult, error) {
		col := core.NewColoring(core.NewArena(n), colorAssignment(parent.Col))
		tr := trace.New()
		for _, x := range parent.TraceValues {
			tr.Push(x)
		}
		tr.CompareAgainst(w.traceValues, -1)
		ctl := ircontrol.New(s.g, col, tr, false)
		ok := ctl.MoveToChild(vertex)
		if !ok {
			fi := tr.FailInfo()
			return bfstree.RefineResult{
				Deviation: bfstree.Deviation{Pos: fi.Pos, Val: fi.Val, Acc: fi.Acc},
				Diverged:  true,
			}, nil
		}
		child := &bfstree.Node{
			Parent:       parent.Index,
			Col:          ctl.Coloring(),
			TraceValues:  append([]int64(nil), tr.Values()...),
			Identity:     parent.Identity && vertex == w.base[levelIdx].Vertex,
			Weight:       weight,
			ParentWeight: parent.Weight,
		}
		if int(levelIdx)+1 < len(w.base) {
			child.TargetCell = w.base[levelIdx+1].TargetColor
		}
		return bfstree.RefineResult{Child: child}, nil
	}

	newLevel, err := tree.ExtendLevel(ctx, levelIdx, cands, s.opts.Workers, refineFn)
	if err != nil {
		return false, err
	}
	s.opts.Logger.Printf("bfs level %d: %d nodes (%d siblings orbit-pruned)", levelIdx+1, newLevel.Len(), pruned)

	if int(levelIdx)+1 == len(w.base) {
		for _, nd := range newLevel.Nodes() {
			if !nd.Col.Discrete() {
				continue
			}
			perm := pairdfs.CandidatePermutation(w.leaf, nd.Col)
			if supp, ok := pairdfs.Certify(s.g, perm); ok && len(supp) > 0 {
				s.siftAndEmit(chain, perm)
			}
		}
		return true, nil
	}
	return false, nil
}

// randBatch fans walksPerWorker random walks out to every worker. Walks
// start from the root or, once BFS has materialized levels, from a
// random node of the deepest finished level (the walk-from-bfs-level
// mode). Walks whose trace stays on the canonical line certify against
// the canonical leaf; diverged walks that still reach a discrete leaf
// are paired through the leaf store instead.
func (s *searcher) randBatch(ctx context.Context, w *walkInfo, chain *schreier.Chain, store *randsearch.LeafStore, st *loopStats, tree *bfstree.Tree) error {
	var fromNodes []*bfstree.Node
	if tree != nil && tree.Depth() > 1 {
		if lvl := tree.Level(tree.Depth() - 1); lvl != nil {
			for _, nd := range lvl.Nodes() {
				if !nd.Diverged {
					fromNodes = append(fromNodes, nd)
				}
			}
		}
	}

	var tried, certified, level1Fails atomic.Int64

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.opts.Workers)
	for wk := 0; wk < s.opts.Workers; wk++ {
		rng := randsearch.DeriveRNG(s.rng, uint64(wk))
		eg.Go(func() error {
			lc := randsearch.NewLookClose()
			for i := 0; i < walksPerWorker; i++ {
				if egCtx.Err() != nil || s.done.Load() {
					return nil
				}
				var ctl *ircontrol.Controller
				if len(fromNodes) > 0 && rng.Intn(2) == 0 {
					nd := fromNodes[rng.Intn(len(fromNodes))]
					col := core.NewColoring(core.NewArena(s.n), colorAssignment(nd.Col))
					tr := trace.New()
					for _, x := range nd.TraceValues {
						tr.Push(x)
					}
					tr.CompareAgainst(w.traceValues, -1)
					ctl = ircontrol.New(s.g, col, tr, false)
				} else {
					col := core.NewColoring(core.NewArena(s.n), w.refCols)
					tr := trace.New()
					tr.CompareAgainst(w.traceValues, -1)
					ctl = ircontrol.New(s.g, col, tr, false)
				}
				leaf, ok := randsearch.Walk(ctl, s.policy, cellselect.NewCache(), rng, lc)
				tried.Add(1)
				if !ok {
					if len(ctl.Base()) == 1 {
						level1Fails.Add(1)
					}
					continue
				}
				if ctl.Trace().Failed() {
					// Off-base leaf: pair it against previously stored
					// leaves with the same deviation hash.
					h := ctl.Trace().Hash()
					for _, other := range store.Lookup(h) {
						perm := pairdfs.CandidatePermutation(other, leaf)
						if supp, okc := pairdfs.Certify(s.g, perm); okc && len(supp) > 0 {
							certified.Add(1)
							s.siftAndEmit(chain, perm)
						}
					}
					store.Store(h, leaf)
					continue
				}
				perm := pairdfs.CandidatePermutation(w.leaf, leaf)
				if supp, okc := pairdfs.Certify(s.g, perm); okc {
					certified.Add(1)
					if len(supp) > 0 {
						s.siftAndEmit(chain, perm)
					} else {
						s.consec.Add(1)
					}
				}
				if chain.DeterministicComplete(w.classSizes) ||
					schreier.ErrorBound(int(s.consec.Load()), s.opts.ErrorBound) {
					s.done.Store(true)
					return nil
				}
			}
			return nil
		})
	}
	err := eg.Wait()
	s.done.Store(false)

	if tr := tried.Load(); tr > 0 {
		st.rollingSuccess = float64(certified.Load()) / float64(tr)
		st.level1FailRate = float64(level1Fails.Load()) / float64(tr)
	}
	return err
}

// inprocessRestart recolors the root by a probe invariant, individualizes
// orbit-unique cells, and installs the resulting coloring as the next
// iteration's root. Generators found so far are carried over and
// re-sifted after the restart.
func (s *searcher) inprocessRestart(root *core.Coloring, chain *schreier.Chain) {
	target := root
	if recolored, improved := inprocess.RecolorRoot(s.g, root, 2, nil); improved {
		target = recolored
		s.opts.Logger.Printf("inprocess: root recolored to %d cells", target.Cells())
	}
	factor := inprocess.IndividualizeOrbitUnique(s.g, target, chain)
	s.inprocFactor = s.inprocFactor.MultiplyNumber(factor)
	s.rootCols = colorAssignment(target)
	s.carried = chain.Generators()
}
