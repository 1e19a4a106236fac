package minicon

import (
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"github.com/wbrown/janus-minicon/datalog/query"
)

// Strategy selects how MCDs are combined into rewritings
type Strategy string

const (
	// StrategyExhaustive tests every subset of the MCDs and ignores the budget
	StrategyExhaustive Strategy = "exhaustive"
	// StrategyRanked backtracks over rank-ordered candidates and honors the budget
	StrategyRanked Strategy = "ranked"
)

// ParseStrategy converts the textual strategy name
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyExhaustive, StrategyRanked:
		return Strategy(s), nil
	}
	return "", errors.Wrapf(ErrUnknownStrategy, "%q", s)
}

// Options configures a Rewriter
type Options struct {
	Strategy Strategy
	// Budget caps the number of rewritings of the ranked strategy;
	// Unbounded returns all of them
	Budget             int
	RemoveRedundancies bool
	// Workers for MCD formation and the exhaustive search (0 = NumCPU)
	Workers int
}

// DefaultOptions returns the default rewriter configuration
func DefaultOptions() Options {
	return Options{
		Strategy:           StrategyExhaustive,
		Budget:             Unbounded,
		RemoveRedundancies: false,
		Workers:            0,
	}
}

// Stats summarizes the work done by one run
type Stats struct {
	Seeds            int
	MCDs             int
	Rejected         int
	Duplicates       int
	SubsetsEvaluated uint64
	BranchesExplored uint64
	Rewritings       int
	LiteralsRemoved  int
}

// Result is the outcome of a rewriting run
type Result struct {
	RunID      uuid.UUID
	MCDs       []*MCD
	Rewritings []*Rewriting
	Stats      Stats
}

// Rewriter runs the MiniCon pipeline: MCD formation, optional ranking,
// combination and rewriting construction.
type Rewriter struct {
	opts Options
	pool *WorkerPool
}

// NewRewriter creates a rewriter with the given options
func NewRewriter(opts Options) *Rewriter {
	if opts.Strategy == "" {
		opts.Strategy = StrategyExhaustive
	}
	return &Rewriter{
		opts: opts,
		pool: NewWorkerPool(opts.Workers),
	}
}

// Options returns the rewriter's configuration
func (r *Rewriter) Options() Options {
	return r.opts
}

// Rewrite computes the rewritings of q over views. ranks is required by the
// ranked strategy; with the exhaustive strategy it is optional and only
// annotates the MCDs. Wildcards in view bodies are existential variables.
// A nil ctx runs without annotations.
func (r *Rewriter) Rewrite(ctx Context, q *query.Query, views []*query.Query, ranks RankSource) (_ *Result, err error) {
	if ctx == nil {
		ctx = NewContext(nil)
	}
	res := &Result{RunID: ctx.RunID()}

	ctx.RewriteBegin(q, len(views), r.opts.Strategy)
	defer func() {
		ctx.RewriteComplete(len(res.MCDs), len(res.Rewritings), err)
	}()

	if _, err = ParseStrategy(string(r.opts.Strategy)); err != nil {
		ctx.ConfigurationError(err)
		return nil, err
	}

	if r.opts.Budget < Unbounded {
		err = errors.Wrapf(ErrInvalidBudget, "%d", r.opts.Budget)
		ctx.ConfigurationError(err)
		return nil, err
	}

	named := make([]*query.Query, len(views))
	for i, v := range views {
		named[i] = v.NameWildcards()
	}
	views = named

	mcds, formStats, err := FormMCDs(ctx, r.pool, q, views)
	if err != nil {
		return nil, errors.Wrap(err, "forming MCDs")
	}
	res.MCDs = mcds
	res.Stats.Seeds = formStats.Seeds
	res.Stats.Rejected = formStats.Rejected
	res.Stats.Duplicates = formStats.Duplicates
	res.Stats.MCDs = len(mcds)

	if r.opts.Strategy == StrategyRanked || ranks != nil {
		if err = ApplyRanks(ctx, mcds, ranks); err != nil {
			ctx.ConfigurationError(err)
			return nil, err
		}
	}

	rws, err := ctx.CombinePhase(r.opts.Strategy, len(mcds), func() ([]*Rewriting, uint64, error) {
		switch r.opts.Strategy {
		case StrategyRanked:
			rws, explored := SearchRanked(ctx, NewRankedIndex(q, mcds), r.opts.Budget)
			res.Stats.BranchesExplored = explored
			return rws, explored, nil
		default:
			rws, evaluated, err := SearchExhaustive(ctx, r.pool, q, mcds)
			res.Stats.SubsetsEvaluated = evaluated
			return rws, evaluated, err
		}
	})
	if err != nil {
		return nil, err
	}

	if r.opts.RemoveRedundancies {
		for _, rw := range rws {
			before := len(rw.Rewritten().Body)
			removed := rw.RemoveRedundancies()
			res.Stats.LiteralsRemoved += removed
			ctx.RedundancyRemoved(rw, before, before-removed)
		}
	}

	res.Rewritings = rws
	res.Stats.Rewritings = len(rws)
	return res, nil
}
