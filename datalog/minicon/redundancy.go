package minicon

import (
	"github.com/wbrown/janus-minicon/datalog/query"
)

// RemoveRedundancies folds body literals that unify through wildcards into
// one literal. It is a single left-to-right pass, not a minimization, and
// returns the number of literals removed.
func (rw *Rewriting) RemoveRedundancies() int {
	before := len(rw.rewritten.Body)
	rw.rewritten.Body = foldRedundant(rw.rewritten.Body)
	return before - len(rw.rewritten.Body)
}

// foldRedundant merges each literal into the first kept literal it unifies
// with, preferring the non-wildcard element at every position. The merged
// literal stays at the kept literal's position.
func foldRedundant(body []query.Predicate) []query.Predicate {
	var kept []query.Predicate
	for _, p := range body {
		merged := false
		for i, k := range kept {
			if unifiable(p, k) {
				kept[i] = unify(p, k)
				merged = true
				break
			}
		}
		if !merged {
			kept = append(kept, p.Clone())
		}
	}
	return kept
}

// unifiable: same name and arity, and every position either matches or
// holds a wildcard on one side
func unifiable(a, b query.Predicate) bool {
	if a.Name != b.Name || len(a.Elements) != len(b.Elements) {
		return false
	}
	for i, e := range a.Elements {
		o := b.Elements[i]
		if e != o && !e.IsWildcard() && !o.IsWildcard() {
			return false
		}
	}
	return true
}

func unify(p, kept query.Predicate) query.Predicate {
	elems := make([]query.Element, len(kept.Elements))
	for i, e := range kept.Elements {
		if e.IsWildcard() {
			elems[i] = p.Elements[i]
		} else {
			elems[i] = e
		}
	}
	return query.NewPredicate(kept.Name, elems...)
}
