package minicon

import (
	"github.com/wbrown/janus-minicon/datalog/query"
)

// CandidateMapping holds the three mappings of one MCD:
//   - VarMap: query element -> view variable
//   - ConstMap: query element -> view constant
//   - RewritingMap: view head variable -> query element (representative),
//     filled in when a rewriting is built
//
// A query element lands in VarMap or ConstMap depending on the view element
// it faces, never in both for the same position.
type CandidateMapping struct {
	VarMap       *Mapping
	ConstMap     *Mapping
	RewritingMap *Mapping
}

// NewCandidateMapping unifies subgoal with viewPred position by position.
// The caller guarantees subgoal.CanBeMapped(viewPred).
func NewCandidateMapping(subgoal, viewPred query.Predicate) *CandidateMapping {
	cm := &CandidateMapping{
		VarMap:       NewMapping(),
		ConstMap:     NewMapping(),
		RewritingMap: NewMapping(),
	}
	cm.MapPredicates(subgoal, viewPred)
	return cm
}

// MapPredicates extends the mapping with the positional unification of
// subgoal and viewPred.
func (cm *CandidateMapping) MapPredicates(subgoal, viewPred query.Predicate) {
	for i, qe := range subgoal.Elements {
		ve := viewPred.Elements[i]
		if ve.IsConstant() {
			cm.ConstMap.Map(qe, ve)
		} else {
			cm.VarMap.Map(qe, ve)
		}
	}
}

// Values returns every view element qe is mapped to, variables first
func (cm *CandidateMapping) Values(qe query.Element) []query.Element {
	vals := cm.VarMap.Values(qe)
	return append(vals, cm.ConstMap.Values(qe)...)
}

// Arguments returns the query elements mapped to the view element ve,
// looking in ConstMap for constants and VarMap otherwise.
func (cm *CandidateMapping) Arguments(ve query.Element) []query.Element {
	if ve.IsConstant() {
		return cm.ConstMap.Arguments(ve)
	}
	return cm.VarMap.Arguments(ve)
}

// Clone copies the variable and constant mappings. The rewriting mapping of
// the clone starts empty: it is derived per rewriting.
func (cm *CandidateMapping) Clone() *CandidateMapping {
	return &CandidateMapping{
		VarMap:       cm.VarMap.Clone(),
		ConstMap:     cm.ConstMap.Clone(),
		RewritingMap: NewMapping(),
	}
}

// Equal compares the variable and constant mappings as sets
func (cm *CandidateMapping) Equal(other *CandidateMapping) bool {
	return cm.VarMap.Equal(other.VarMap) && cm.ConstMap.Equal(other.ConstMap)
}

func (cm *CandidateMapping) String() string {
	return "vars{" + cm.VarMap.String() + "} consts{" + cm.ConstMap.String() + "}"
}
