package minicon

import (
	"github.com/wbrown/janus-minicon/datalog/query"
)

// seed is one (query subgoal, view predicate) pair that can start an MCD
type seed struct {
	subgoal  int
	view     *query.Query
	viewPred query.Predicate
}

type formResult struct {
	mcd    *MCD
	reason RejectReason
}

// seeds enumerates the starting points of MCD formation in subgoal, view,
// view predicate order. Pairs that cannot be unified are skipped here.
func seeds(q *query.Query, views []*query.Query) []seed {
	var out []seed
	for i, subgoal := range q.Body {
		for _, view := range views {
			for _, vp := range view.Body {
				if subgoal.CanBeMapped(vp) {
					out = append(out, seed{subgoal: i, view: view, viewPred: vp})
				}
			}
		}
	}
	return out
}

// FormStats counts the outcomes of MCD formation
type FormStats struct {
	Seeds      int
	Rejected   int
	Duplicates int
}

// FormMCDs forms the MCDs of q over views. Seeds are formed in parallel on
// the pool and merged back in seed order, then duplicates are dropped keeping
// the first occurrence.
func FormMCDs(ctx Context, pool *WorkerPool, q *query.Query, views []*query.Query) ([]*MCD, FormStats, error) {
	all := seeds(q, views)
	stats := FormStats{Seeds: len(all)}

	mcds, err := ctx.FormationPhase(len(all), func() ([]*MCD, int, error) {
		results, err := ExecuteParallel(pool, ctx, all, func(_ Context, s seed) (formResult, error) {
			m, reason := FormMCD(q, s.view, s.subgoal, s.viewPred)
			return formResult{mcd: m, reason: reason}, nil
		})
		if err != nil {
			return nil, 0, err
		}

		var formed []*MCD
		rejected := 0
		for i, r := range results {
			if r.mcd == nil {
				rejected++
				ctx.MCDRejected(q.Body[all[i].subgoal], all[i].view.Name, r.reason)
				continue
			}
			ctx.MCDFormed(r.mcd)
			formed = append(formed, r.mcd)
		}

		unique := Deduplicate(formed)
		ctx.MCDsDeduplicated(len(formed), len(unique))
		stats.Rejected = rejected
		stats.Duplicates = len(formed) - len(unique)
		return unique, rejected, nil
	})
	return mcds, stats, err
}

// Deduplicate drops every MCD equal to an earlier one
func Deduplicate(mcds []*MCD) []*MCD {
	var out []*MCD
	for _, m := range mcds {
		dup := false
		for _, kept := range out {
			if m.Equal(kept) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, m)
		}
	}
	return out
}
