package minicon

import (
	"strconv"

	"github.com/wbrown/janus-minicon/datalog/query"
)

// viewBoundForm identifies how a view bound is written: the comparator as it
// appears in the view and whether the view variable is its left operand
// (a < M) or its right operand (M > a).
type viewBoundForm struct {
	op      query.Comparator
	varLeft bool
}

// entailmentRule decides entailment from the view constant M and the query
// constant N.
type entailmentRule func(m, n int64) bool

// entailmentTable is keyed by the normalized query comparator (x op N).
// The rows for the right-hand view forms are kept exactly as the rewriting
// semantics define them; they are not derived from the left-hand rows.
var entailmentTable = map[query.Comparator]map[viewBoundForm]entailmentRule{
	query.OpLT: {
		{query.OpLT, true}:   func(m, n int64) bool { return m <= n },
		{query.OpLTE, true}:  func(m, n int64) bool { return m < n },
		{query.OpGT, false}:  func(m, n int64) bool { return m >= n },
		{query.OpGTE, false}: func(m, n int64) bool { return m > n },
	},
	query.OpLTE: {
		{query.OpLT, true}:   func(m, n int64) bool { return m <= n },
		{query.OpLTE, true}:  func(m, n int64) bool { return m <= n },
		{query.OpGT, false}:  func(m, n int64) bool { return n >= m },
		{query.OpGTE, false}: func(m, n int64) bool { return n >= m },
	},
	query.OpGT: {
		{query.OpGT, true}:   func(m, n int64) bool { return m >= n },
		{query.OpGTE, true}:  func(m, n int64) bool { return m > n },
		{query.OpLT, false}:  func(m, n int64) bool { return n <= m },
		{query.OpLTE, false}: func(m, n int64) bool { return n < m },
	},
	query.OpGTE: {
		{query.OpGT, true}:   func(m, n int64) bool { return m >= n },
		{query.OpGTE, true}:  func(m, n int64) bool { return m >= n },
		{query.OpLT, false}:  func(m, n int64) bool { return n <= m },
		{query.OpLTE, false}: func(m, n int64) bool { return n <= m },
	},
}

// Entails reports whether the view bound logically entails the query bound.
// The query bound may be written with its variable on either side. Only
// integer constants take part; any other bound fails closed.
func Entails(queryBound, viewBound query.InterpretedPredicate) bool {
	_, qop, qconst := queryBound.Normalize()
	n, ok := integerBound(qconst)
	if !ok {
		return false
	}

	form := viewBoundForm{op: viewBound.Op, varLeft: viewBound.VariableOnLeft()}
	mconst := viewBound.Right
	if !form.varLeft {
		if !viewBound.Right.IsVariable() {
			return false
		}
		mconst = viewBound.Left
	}
	m, ok := integerBound(mconst)
	if !ok {
		return false
	}

	rule, ok := entailmentTable[qop][form]
	if !ok {
		return false
	}
	return rule(m, n)
}

// integerBound parses a numeric constant as a base-10 integer
func integerBound(e query.Element) (int64, bool) {
	if e.Kind != query.KindNumericConstant {
		return 0, false
	}
	v, err := strconv.ParseInt(e.Name, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// findViewBound returns the first view bound mentioning the view variable
// that the query bound's left operand maps to; failing that, the right
// operand is tried the same way.
func findViewBound(view *query.Query, varMap *Mapping, queryBound query.InterpretedPredicate) (query.InterpretedPredicate, bool) {
	for _, side := range []query.Element{queryBound.Left, queryBound.Right} {
		viewVal, ok := varMap.FirstValue(side)
		if !ok {
			continue
		}
		for _, vb := range view.Interpreted {
			if vb.Mentions(viewVal) {
				return vb, true
			}
		}
	}
	return query.InterpretedPredicate{}, false
}
