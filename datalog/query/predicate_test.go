package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestElementEquality(t *testing.T) {
	assert.Equal(t, Var("x"), Var("x"))
	assert.NotEqual(t, Var("5"), Num("5"), "kind participates in equality")
	assert.NotEqual(t, Num("5"), Str("5"))
	assert.True(t, Num("5").IsConstant())
	assert.True(t, Str("a").IsConstant())
	assert.False(t, Var("a").IsConstant())
	assert.True(t, Wildcard.IsWildcard())
	assert.Equal(t, `"a b"`, Str("a b").String())
}

func TestCanBeMapped(t *testing.T) {
	tests := []struct {
		name     string
		subgoal  Predicate
		view     Predicate
		expected bool
	}{
		{
			name:     "Variables on both sides",
			subgoal:  NewPredicate("e", Var("x"), Var("y")),
			view:     NewPredicate("e", Var("a"), Var("b")),
			expected: true,
		},
		{
			name:     "Different names",
			subgoal:  NewPredicate("e", Var("x")),
			view:     NewPredicate("f", Var("a")),
			expected: false,
		},
		{
			name:     "Different arity",
			subgoal:  NewPredicate("e", Var("x")),
			view:     NewPredicate("e", Var("a"), Var("b")),
			expected: false,
		},
		{
			name:     "Query constant against view variable",
			subgoal:  NewPredicate("e", Num("3"), Var("y")),
			view:     NewPredicate("e", Var("a"), Var("b")),
			expected: true,
		},
		{
			name:     "Query constant against same view constant",
			subgoal:  NewPredicate("e", Num("3"), Var("y")),
			view:     NewPredicate("e", Num("3"), Var("b")),
			expected: true,
		},
		{
			name:     "Query constant against different view constant",
			subgoal:  NewPredicate("e", Num("3"), Var("y")),
			view:     NewPredicate("e", Num("4"), Var("b")),
			expected: false,
		},
		{
			name:     "Query variable against view constant",
			subgoal:  NewPredicate("e", Var("x")),
			view:     NewPredicate("e", Str("paris")),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.subgoal.CanBeMapped(tt.view))
		})
	}
}

func TestQueryVariables(t *testing.T) {
	q := &Query{
		Name: "Q",
		Head: []Element{Var("x")},
		Body: []Predicate{
			NewPredicate("e1", Var("x"), Var("y")),
			NewPredicate("e2", Var("y"), Var("z"), Num("4")),
		},
	}

	assert.Equal(t, []Element{Var("y"), Var("z")}, q.ExistentialVariables())
	assert.True(t, q.ContainsHeadVariable(Var("x")))
	assert.False(t, q.ContainsHeadVariable(Var("y")))
	assert.True(t, q.IsExistential(Var("z")))
	assert.False(t, q.IsExistential(Var("x")))
	assert.False(t, q.IsExistential(Var("w")), "variables outside the body are not existential")
	assert.Equal(t, "Q(x) :- e1(x,y), e2(y,z,4)", q.String())
}

func TestQueryCloneIsIndependent(t *testing.T) {
	q := &Query{
		Name: "Q",
		Head: []Element{Var("x")},
		Body: []Predicate{NewPredicate("e1", Var("x"), Var("y"))},
	}
	c := q.Clone()
	c.Body[0].Elements[1] = Var("z")
	c.Head[0] = Var("w")

	assert.Equal(t, Var("y"), q.Body[0].Elements[1])
	assert.Equal(t, Var("x"), q.Head[0])
}

func TestNameWildcards(t *testing.T) {
	v := &Query{
		Name: "V",
		Head: []Element{Var("a")},
		Body: []Predicate{
			NewPredicate("e", Var("a"), Wildcard, Var("_1")),
			NewPredicate("f", Wildcard, Num("3")),
		},
	}

	named := v.NameWildcards()
	assert.Equal(t, "V(a) :- e(a,_2,_1), f(_3,3)", named.String())
	assert.True(t, named.IsExistential(Var("_2")))
	assert.True(t, named.IsExistential(Var("_3")))
	assert.Equal(t, "V(a) :- e(a,_,_1), f(_,3)", v.String(), "input is left untouched")

	plain := &Query{Name: "W", Head: []Element{Var("b")}, Body: []Predicate{NewPredicate("f", Var("b"))}}
	assert.Same(t, plain, plain.NameWildcards())
}

func TestInterpretedPredicateNormalize(t *testing.T) {
	tests := []struct {
		name  string
		pred  InterpretedPredicate
		op    Comparator
		bound Element
	}{
		{"Variable left", NewInterpretedPredicate(Var("x"), OpLT, Num("5")), OpLT, Num("5")},
		{"Variable right less", NewInterpretedPredicate(Num("5"), OpLT, Var("x")), OpGT, Num("5")},
		{"Variable right greater-equal", NewInterpretedPredicate(Num("5"), OpGTE, Var("x")), OpLTE, Num("5")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, op, bound := tt.pred.Normalize()
			assert.Equal(t, Var("x"), v)
			assert.Equal(t, tt.op, op)
			assert.Equal(t, tt.bound, bound)
			assert.Equal(t, Var("x"), tt.pred.Variable())
		})
	}
}

func TestParseComparator(t *testing.T) {
	for _, s := range []string{"<", "<=", ">", ">="} {
		op, err := ParseComparator(s)
		assert.NoError(t, err)
		assert.Equal(t, Comparator(s), op)
	}
	_, err := ParseComparator("=")
	assert.Error(t, err)
}
