package minicon

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/janus-minicon/datalog/annotations"
	"github.com/wbrown/janus-minicon/datalog/query"
)

func TestRewriterExhaustive(t *testing.T) {
	q := mustParse(t, "Q(x,y) :- e1(x,y), e2(y,z)")
	views := mustViews(t, "V1(a,b) :- e1(a,b)", "V2(c,d) :- e2(c,d)")

	var handled int
	ctx := NewContext(func(annotations.Event) { handled++ })

	res, err := NewRewriter(DefaultOptions()).Rewrite(ctx, q, views, nil)
	require.NoError(t, err)

	assert.Equal(t, ctx.RunID(), res.RunID)
	assert.Equal(t, []string{"Q(x,y) :- V1(x,y), V2(y,_)"}, rewritingStrings(res.Rewritings))
	assert.Equal(t, Stats{
		Seeds:            2,
		MCDs:             2,
		SubsetsEvaluated: 4,
		Rewritings:       1,
	}, res.Stats)

	c := ctx.Collector()
	assert.Equal(t, 1, c.Count(annotations.RewriteInvoked))
	assert.Equal(t, 1, c.Count(annotations.RewriteComplete))
	assert.Equal(t, 2, c.Count(annotations.MCDFormed))
	assert.Equal(t, 0, c.Count(annotations.MCDRanked), "no ranks supplied")
	assert.Equal(t, 1, c.Count(annotations.RewritingEmitted))
	assert.Equal(t, len(c.Events()), handled)
}

func TestRewriterRanked(t *testing.T) {
	q := mustParse(t, "Q(x) :- e1(x), e2(x)")
	views := mustViews(t,
		"V1(a) :- e1(a)",
		"V2(a) :- e1(a)",
		"V3(a) :- e1(a)",
		"V4(a) :- e2(a)",
	)
	ranks := rankMap{"V1": 0.2, "V2": 0.9, "V3": 0.5, "V4": 1.0}

	r := NewRewriter(Options{Strategy: StrategyRanked, Budget: 1})
	res, err := r.Rewrite(nil, q, views, ranks)
	require.NoError(t, err)
	assert.Equal(t, []string{"Q(x) :- V2(x), V4(x)"}, rewritingStrings(res.Rewritings))
	assert.Equal(t, uint64(1), res.Stats.BranchesExplored)
	assert.Equal(t, uint64(0), res.Stats.SubsetsEvaluated)

	for _, m := range res.MCDs {
		assert.Equal(t, ranks[m.View().Name], m.Rank)
	}
}

func TestRewriterExhaustiveIgnoresBudget(t *testing.T) {
	q := mustParse(t, "Q(x) :- e1(x), e2(x)")
	views := mustViews(t, "V1(a) :- e1(a)", "V2(a) :- e1(a)", "V3(a) :- e2(a)")

	res, err := NewRewriter(Options{Strategy: StrategyExhaustive, Budget: 1}).Rewrite(nil, q, views, nil)
	require.NoError(t, err)
	assert.Len(t, res.Rewritings, 2)
}

func TestRewriterRemovesRedundancies(t *testing.T) {
	q := mustParse(t, "Q(x,y) :- e1(x,u), e2(y,v)")
	views := mustViews(t, "V(a,b) :- e1(a,c), e2(b,d)")

	ctx := NewContext(func(annotations.Event) {})
	opts := DefaultOptions()
	opts.RemoveRedundancies = true
	res, err := NewRewriter(opts).Rewrite(ctx, q, views, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"Q(x,y) :- V(x,y)"}, rewritingStrings(res.Rewritings))
	assert.Equal(t, 1, res.Stats.LiteralsRemoved)
	assert.Equal(t, 1, ctx.Collector().Count(annotations.RedundancyRemoved))
}

func TestRewriterConfigurationErrors(t *testing.T) {
	q := mustParse(t, "Q(x) :- e1(x)")
	views := mustViews(t, "V1(a) :- e1(a)", "V2(a) :- e1(a)")

	tests := []struct {
		name   string
		opts   Options
		ranks  RankSource
		target error
	}{
		{"unknown strategy", Options{Strategy: "greedy"}, nil, ErrUnknownStrategy},
		{"ranked without ranks", Options{Strategy: StrategyRanked, Budget: Unbounded}, nil, ErrNoRankSource},
		{"missing rank", Options{Strategy: StrategyRanked, Budget: Unbounded}, rankMap{"V1": 1}, ErrMissingRank},
		{"missing rank with exhaustive", DefaultOptions(), rankMap{"V2": 1}, ErrMissingRank},
		{"negative budget", Options{Strategy: StrategyRanked, Budget: -5}, rankMap{"V1": 1, "V2": 1}, ErrInvalidBudget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := NewContext(func(annotations.Event) {})
			res, err := NewRewriter(tt.opts).Rewrite(ctx, q, views, tt.ranks)
			require.Error(t, err)
			assert.Nil(t, res, "no partial output on configuration errors")
			assert.True(t, errors.Is(err, tt.target))
			assert.True(t, IsConfigurationError(err))

			c := ctx.Collector()
			assert.Equal(t, 1, c.Count(annotations.ErrorConfiguration))
			assert.Equal(t, 1, c.Count(annotations.RewriteComplete))
			events := c.Events()
			last := events[len(events)-1]
			assert.Equal(t, false, last.Data["success"])
		})
	}
}

func TestRewriterViewWildcardIsExistential(t *testing.T) {
	q := mustParse(t, "Q(x) :- e(x,y), f(y)")
	views := []*query.Query{
		{
			Name: "V",
			Head: []query.Element{query.Var("a")},
			Body: []query.Predicate{query.NewPredicate("e", query.Var("a"), query.Wildcard)},
		},
		mustParse(t, "W(b) :- f(b)"),
	}

	res, err := NewRewriter(DefaultOptions()).Rewrite(nil, q, views, nil)
	require.NoError(t, err)
	assert.Len(t, res.MCDs, 1)
	assert.Empty(t, res.Rewritings, "the join on y is not recoverable from V")
	assert.Equal(t, "V(a) :- e(a,_)", views[0].String(), "views are not modified")
}

func TestRewriterNoRewritings(t *testing.T) {
	q := mustParse(t, "Q(x) :- e1(x), e3(x)")
	views := mustViews(t, "V1(a) :- e1(a)")

	res, err := NewRewriter(DefaultOptions()).Rewrite(nil, q, views, nil)
	require.NoError(t, err)
	assert.Len(t, res.MCDs, 1)
	assert.Empty(t, res.Rewritings)
}

func TestParseStrategy(t *testing.T) {
	s, err := ParseStrategy("ranked")
	require.NoError(t, err)
	assert.Equal(t, StrategyRanked, s)

	_, err = ParseStrategy("greedy")
	assert.True(t, errors.Is(err, ErrUnknownStrategy))
}
