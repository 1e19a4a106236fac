package minicon

import (
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/wbrown/janus-minicon/datalog/query"
)

// RankSource supplies the preference rank of a view
type RankSource interface {
	Rank(view string) (float64, bool)
}

// ApplyRanks sets the rank of every MCD from its view's preference.
// A view without a rank fails the whole run.
func ApplyRanks(ctx Context, mcds []*MCD, src RankSource) error {
	if src == nil {
		return ErrNoRankSource
	}
	for _, m := range mcds {
		rank, ok := src.Rank(m.view.Name)
		if !ok {
			return errors.Wrapf(ErrMissingRank, "view %s", m.view.Name)
		}
		m.Rank = rank
		ctx.MCDRanked(m)
	}
	return nil
}

// RankBucket groups the candidates of a subgoal that share a rank
type RankBucket struct {
	Rank float64
	MCDs []*MCD
}

// RankedIndex holds, for every query subgoal, the MCDs covering it grouped
// into buckets of descending rank. Within a bucket MCDs keep their input
// order. The index is built once per run and passed to the search.
type RankedIndex struct {
	query      *query.Query
	buckets    [][]RankBucket
	candidates [][]*MCD
}

// NewRankedIndex builds the index. MCDs must already be ranked.
func NewRankedIndex(q *query.Query, mcds []*MCD) *RankedIndex {
	idx := &RankedIndex{
		query:      q,
		buckets:    make([][]RankBucket, len(q.Body)),
		candidates: make([][]*MCD, len(q.Body)),
	}

	for i := range q.Body {
		var buckets []RankBucket
		for _, m := range mcds {
			if !m.Covers(i) {
				continue
			}
			placed := false
			for b := range buckets {
				if buckets[b].Rank == m.Rank {
					buckets[b].MCDs = append(buckets[b].MCDs, m)
					placed = true
					break
				}
			}
			if !placed {
				buckets = append(buckets, RankBucket{Rank: m.Rank, MCDs: []*MCD{m}})
			}
		}

		sort.SliceStable(buckets, func(a, b int) bool {
			return buckets[a].Rank > buckets[b].Rank
		})

		idx.buckets[i] = buckets
		for _, b := range buckets {
			idx.candidates[i] = append(idx.candidates[i], b.MCDs...)
		}
	}
	return idx
}

// Buckets returns the rank buckets of subgoal i, best first
func (idx *RankedIndex) Buckets(i int) []RankBucket {
	return idx.buckets[i]
}

// Candidates returns the MCDs covering subgoal i, best rank first
func (idx *RankedIndex) Candidates(i int) []*MCD {
	return idx.candidates[i]
}

// Query returns the indexed query
func (idx *RankedIndex) Query() *query.Query {
	return idx.query
}
