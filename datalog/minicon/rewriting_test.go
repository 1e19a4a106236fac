package minicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/janus-minicon/datalog/query"
)

func rewriteAll(t *testing.T, rule string, views ...string) []*Rewriting {
	t.Helper()
	q := mustParse(t, rule)
	mcds := formAll(t, q, mustViews(t, views...))
	rws, _, err := SearchExhaustive(NewContext(nil), NewWorkerPool(1), q, mcds)
	require.NoError(t, err)
	return rws
}

func TestRewritingWildcardForUnusedHeadVariable(t *testing.T) {
	rws := rewriteAll(t, "Q(x,y) :- e1(x,y), e2(y,z)",
		"V1(a,b) :- e1(a,b)",
		"V2(c,d) :- e2(c,d)",
	)
	assert.Equal(t, []string{"Q(x,y) :- V1(x,y), V2(y,_)"}, rewritingStrings(rws))
}

func TestRewritingClosureUsesSingleLiteral(t *testing.T) {
	rws := rewriteAll(t, "Q(x) :- e1(x,y), e2(y)", "V(a) :- e1(a,b), e2(b)")
	require.Len(t, rws, 1)
	assert.Equal(t, "Q(x) :- V(x)", rws[0].String())
	assert.Len(t, rws[0].MCDs(), 1)
}

func TestRewritingSharesRepresentatives(t *testing.T) {
	rws := rewriteAll(t, "Q(x,y) :- e1(x,y), e2(y)",
		"V1(a) :- e1(a,a)",
		"V2(c) :- e2(c)",
	)
	require.Len(t, rws, 1)
	rw := rws[0]

	// x and y meet at a, so y is represented by x in V2 as well
	assert.Equal(t, "Q(x,y) :- V1(x), V2(x)", rw.String())
	assert.True(t, rw.RewritingMap(0).Contains(query.Var("a"), query.Var("x")))
	assert.True(t, rw.RewritingMap(1).Contains(query.Var("c"), query.Var("x")))
}

func TestRewritingLeavesMCDsUntouched(t *testing.T) {
	q := mustParse(t, "Q(x,y) :- e1(x,y), e2(y,z)")
	mcds := formAll(t, q, mustViews(t, "V1(a,b) :- e1(a,b)", "V2(c,d) :- e2(c,d)"))

	first := NewRewriting(q, mcds)
	second := NewRewriting(q, mcds)
	assert.Equal(t, first.String(), second.String())
	for _, m := range mcds {
		assert.Equal(t, 0, m.Mappings().RewritingMap.Len())
	}
}

func TestRewritingBounds(t *testing.T) {
	tests := []struct {
		name string
		rule string
		view string
		want string
	}{
		{
			name: "copied when the view exposes the variable",
			rule: "Q(x) :- e1(x,y), y > 23",
			view: "V(a,b) :- e1(a,b)",
			want: "Q(x) :- V(x,y), y > 23",
		},
		{
			name: "discharged when the view entails it",
			rule: "Q(x) :- e1(x,y), y > 23",
			view: "V(a) :- e1(a,b), b > 25",
			want: "Q(x) :- V(x)",
		},
		{
			name: "bound on a head variable is copied",
			rule: "Q(x) :- e1(x,y), x < 5",
			view: "V(a) :- e1(a,b)",
			want: "Q(x) :- V(x), x < 5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rws := rewriteAll(t, tt.rule, tt.view)
			require.Len(t, rws, 1)
			assert.Equal(t, tt.want, rws[0].String())
		})
	}
}

func TestRemoveRedundancies(t *testing.T) {
	rws := rewriteAll(t, "Q(x,y) :- e1(x,u), e2(y,v)", "V(a,b) :- e1(a,c), e2(b,d)")
	require.Len(t, rws, 1)
	rw := rws[0]
	assert.Equal(t, "Q(x,y) :- V(x,_), V(_,y)", rw.String())

	assert.Equal(t, 1, rw.RemoveRedundancies())
	assert.Equal(t, "Q(x,y) :- V(x,y)", rw.String())

	assert.Equal(t, 0, rw.RemoveRedundancies(), "idempotent")
	assert.Equal(t, "Q(x,y) :- V(x,y)", rw.String())
}

func TestFoldRedundant(t *testing.T) {
	p := func(name string, elems ...query.Element) query.Predicate {
		return query.NewPredicate(name, elems...)
	}
	x, y, z := query.Var("x"), query.Var("y"), query.Var("z")
	w := query.Wildcard

	tests := []struct {
		name string
		body []query.Predicate
		want []query.Predicate
	}{
		{
			name: "merge keeps position",
			body: []query.Predicate{p("V", x, w), p("W", z), p("V", w, y)},
			want: []query.Predicate{p("V", x, y), p("W", z)},
		},
		{
			name: "conflicting variables are kept apart",
			body: []query.Predicate{p("V", x, w), p("V", y, w)},
			want: []query.Predicate{p("V", x, w), p("V", y, w)},
		},
		{
			name: "different arity",
			body: []query.Predicate{p("V", x), p("V", x, w)},
			want: []query.Predicate{p("V", x), p("V", x, w)},
		},
		{
			name: "identical literals collapse",
			body: []query.Predicate{p("V", x, y), p("V", x, y)},
			want: []query.Predicate{p("V", x, y)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, foldRedundant(tt.body))
			assert.Equal(t, tt.want, foldRedundant(foldRedundant(tt.body)))
		})
	}
}

func TestAnonymizeSingletons(t *testing.T) {
	q := mustParse(t, "Q(x) :- V(x,y,z), W(z,u), u < 3")
	anonymizeSingletons(q)
	assert.Equal(t, "Q(x) :- V(x,_,z), W(z,u), u < 3", q.String())
}
