package minicon

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wbrown/janus-minicon/datalog/parser"
	"github.com/wbrown/janus-minicon/datalog/query"
)

func mustParse(t *testing.T, rule string) *query.Query {
	t.Helper()
	q, err := parser.ParseQuery(rule)
	require.NoError(t, err)
	return q
}

func mustViews(t *testing.T, rules ...string) []*query.Query {
	t.Helper()
	views, err := parser.ParseViews(rules)
	require.NoError(t, err)
	return views
}

// formAll runs MCD formation sequentially without annotations
func formAll(t *testing.T, q *query.Query, views []*query.Query) []*MCD {
	t.Helper()
	mcds, _, err := FormMCDs(NewContext(nil), NewWorkerPool(1), q, views)
	require.NoError(t, err)
	return mcds
}

func rewritingStrings(rws []*Rewriting) []string {
	out := make([]string, len(rws))
	for i, rw := range rws {
		out[i] = rw.String()
	}
	return out
}

// rankMap is a RankSource backed by a plain map
type rankMap map[string]float64

func (r rankMap) Rank(view string) (float64, bool) {
	v, ok := r[view]
	return v, ok
}
