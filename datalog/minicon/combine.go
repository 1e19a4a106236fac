package minicon

import (
	"github.com/cockroachdb/errors"

	"github.com/wbrown/janus-minicon/datalog/query"
)

// MaxExhaustiveMCDs bounds the exhaustive search: subsets are numbered with
// a uint64 counter and the count itself must fit.
const MaxExhaustiveMCDs = 62

// IsValidRewriting reports whether mcds combine into a rewriting of q:
// their covered subgoal counts add up to the query body, they are pairwise
// disjoint, and a query element constant-mapped in several of them is mapped
// to the same constant everywhere.
func IsValidRewriting(q *query.Query, mcds []*MCD) bool {
	count := 0
	for _, m := range mcds {
		count += m.NumSubgoals()
	}
	if count != len(q.Body) {
		return false
	}

	for i := 0; i < len(mcds); i++ {
		for j := i + 1; j < len(mcds); j++ {
			if !mcds[i].Disjoint(mcds[j]) {
				return false
			}
		}
	}

	for i, a := range mcds {
		for j, b := range mcds {
			if i == j {
				continue
			}
			for _, p := range a.mappings.ConstMap.pairs {
				if !b.mappings.ConstMap.ContainsArgument(p.Arg) {
					continue
				}
				va, _ := a.mappings.ConstMap.FirstValue(p.Arg)
				vb, _ := b.mappings.ConstMap.FirstValue(p.Arg)
				if va != vb {
					return false
				}
			}
		}
	}
	return true
}

// subsetRange is a half-open range [lo, hi) of subset numbers
type subsetRange struct {
	lo, hi uint64
}

type rangeResult struct {
	matches   [][]*MCD
	evaluated uint64
}

// splitRanges cuts [0, total) into at most parts contiguous ranges
func splitRanges(total uint64, parts int) []subsetRange {
	if parts < 1 {
		parts = 1
	}
	size := total / uint64(parts)
	if total%uint64(parts) != 0 {
		size++
	}
	if size == 0 {
		size = 1
	}
	var out []subsetRange
	for lo := uint64(0); lo < total; lo += size {
		hi := lo + size
		if hi > total || hi < lo {
			hi = total
		}
		out = append(out, subsetRange{lo: lo, hi: hi})
	}
	return out
}

// subset returns the MCDs selected by the bits of n, bit i selecting mcds[i]
func subset(mcds []*MCD, n uint64) []*MCD {
	var out []*MCD
	for i := 0; n != 0; i++ {
		if n&1 == 1 {
			out = append(out, mcds[i])
		}
		n >>= 1
	}
	return out
}

// SearchExhaustive tests every one of the 2^n subsets of mcds exactly once
// and builds a rewriting for each valid one. Subset ranges are evaluated on
// the pool; rewritings come back in subset-number order. The second result
// is the number of subsets evaluated.
func SearchExhaustive(ctx Context, pool *WorkerPool, q *query.Query, mcds []*MCD) ([]*Rewriting, uint64, error) {
	if len(mcds) > MaxExhaustiveMCDs {
		return nil, 0, errors.WithHint(
			errors.Wrapf(ErrSearchSpaceTooLarge, "%d MCDs, at most %d supported", len(mcds), MaxExhaustiveMCDs),
			"use the ranked strategy with a budget")
	}

	total := uint64(1) << uint(len(mcds))
	ranges := splitRanges(total, pool.WorkerCount()*4)

	results, err := ExecuteParallel(pool, ctx, ranges, func(_ Context, r subsetRange) (rangeResult, error) {
		var res rangeResult
		for n := r.lo; n < r.hi; n++ {
			candidate := subset(mcds, n)
			res.evaluated++
			if IsValidRewriting(q, candidate) {
				res.matches = append(res.matches, candidate)
			}
		}
		return res, nil
	})
	if err != nil {
		return nil, 0, err
	}

	var evaluated uint64
	var out []*Rewriting
	for _, res := range results {
		evaluated += res.evaluated
		for _, match := range res.matches {
			rw := NewRewriting(q, match)
			out = append(out, rw)
			ctx.RewritingEmitted(len(out), rw)
		}
	}
	return out, evaluated, nil
}
