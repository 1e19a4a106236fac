package sqlgen

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbrown/janus-minicon/datalog/parser"
	"github.com/wbrown/janus-minicon/datalog/query"
)

func TestToSQL(t *testing.T) {
	tests := []struct {
		name string
		rule string
		want string
	}{
		{
			name: "constant column",
			rule: `Q(x) :- V(x,23)`,
			want: "SELECT DISTINCT e1.x1 AS x\nFROM V e1\nWHERE e1.x2 = 23",
		},
		{
			name: "join across literals with bound",
			rule: `Q(x,y) :- V1(x,z), V2(z,y), y > 23`,
			want: "SELECT DISTINCT e1.x1 AS x, e2.x2 AS y\nFROM V1 e1, V2 e2\nWHERE e2.x1 = e1.x2 AND e2.x2 > 23",
		},
		{
			name: "repeat within a literal",
			rule: `Q(x) :- V(x,x)`,
			want: "SELECT DISTINCT e1.x1 AS x\nFROM V e1\nWHERE e1.x2 = e1.x1",
		},
		{
			name: "wildcard and string constant",
			rule: `Q(x) :- V(x,_,"o'neil")`,
			want: "SELECT DISTINCT e1.x1 AS x\nFROM V e1\nWHERE e1.x3 = 'o''neil'",
		},
		{
			name: "bound with constant on the left",
			rule: `Q(x) :- V(x), 5 < x`,
			want: "SELECT DISTINCT e1.x1 AS x\nFROM V e1\nWHERE e1.x1 > 5",
		},
		{
			name: "no conditions",
			rule: `Q(x,y) :- V(x,y)`,
			want: "SELECT DISTINCT e1.x1 AS x, e1.x2 AS y\nFROM V e1",
		},
		{
			name: "boolean query",
			rule: `Q() :- V(x)`,
			want: "SELECT DISTINCT 1\nFROM V e1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := parser.ParseQuery(tt.rule)
			require.NoError(t, err)

			got, err := ToSQL(q)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestToSQLErrors(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		_, err := ToSQL(&query.Query{Name: "Q"})
		assert.True(t, errors.Is(err, ErrEmptyBody))
	})

	t.Run("unbound head variable", func(t *testing.T) {
		q := &query.Query{
			Name: "Q",
			Head: []query.Element{query.Var("y")},
			Body: []query.Predicate{query.NewPredicate("V", query.Var("x"))},
		}
		_, err := ToSQL(q)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnboundVariable))
		assert.Contains(t, err.Error(), "head variable y")
	})

	t.Run("unbound comparison", func(t *testing.T) {
		q := &query.Query{
			Name: "Q",
			Head: []query.Element{query.Var("x")},
			Body: []query.Predicate{query.NewPredicate("V", query.Var("x"))},
			Interpreted: []query.InterpretedPredicate{
				query.NewInterpretedPredicate(query.Var("z"), query.OpGT, query.Num("3")),
			},
		}
		_, err := ToSQL(q)
		assert.True(t, errors.Is(err, ErrUnboundVariable))
	})
}

func TestIdentifier(t *testing.T) {
	assert.Equal(t, "x", identifier("x"))
	assert.Equal(t, "a_1", identifier("a_1"))
	assert.Equal(t, `"x'"`, identifier("x'"))
	assert.Equal(t, `"1x"`, identifier("1x"))
}
