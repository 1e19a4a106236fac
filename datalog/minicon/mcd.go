package minicon

import (
	"sort"
	"strings"

	"github.com/wbrown/janus-minicon/datalog/query"
)

// RejectReason explains why a seed mapping did not become an MCD.
// Rejections are normal outcomes of formation, not errors.
type RejectReason string

const (
	Accepted RejectReason = ""
	// RejectConstant: a query constant faces an existential view variable
	RejectConstant RejectReason = "constant-not-distinguished"
	// RejectHeadVariable: a distinguished query variable faces an existential view variable
	RejectHeadVariable RejectReason = "head-variable-hidden"
	// RejectUnequatable: the seed maps an existentially mapped query variable
	// to more than one view element
	RejectUnequatable RejectReason = "existential-not-equatable"
	// RejectClosure: a subgoal sharing an existentially mapped variable cannot be covered
	RejectClosure RejectReason = "existential-closure"
	// RejectEntailment: a query bound on an existentially mapped variable is not entailed by the view
	RejectEntailment RejectReason = "bound-not-entailed"
)

// MCD is a MiniCon description: a mapping from one or more query subgoals
// into a single view that satisfies the MiniCon property. MCDs are mutated
// only while they are formed and are read-only afterwards.
type MCD struct {
	query    *query.Query
	view     *query.Query
	mappings *CandidateMapping

	covered            []int
	coveredInterpreted []query.InterpretedPredicate

	// Rank is the preference rank of the MCD's view, 0 until ranked
	Rank float64
}

// FormMCD seeds an MCD with query.Body[subgoal] mapped onto viewPred and
// closes it under the MiniCon property. It returns nil and the reason when
// the seed cannot be extended into a valid MCD. The checks run in order and
// stop at the first failure.
func FormMCD(q, view *query.Query, subgoal int, viewPred query.Predicate) (*MCD, RejectReason) {
	m := &MCD{
		query:    q,
		view:     view,
		mappings: NewCandidateMapping(q.Body[subgoal], viewPred),
		covered:  []int{subgoal},
	}

	if !m.constantsDistinguished(m.mappings) {
		return nil, RejectConstant
	}
	if !m.headVariablesDistinguished(m.mappings) {
		return nil, RejectHeadVariable
	}
	if m.cannotEquate(m.mappings) {
		return nil, RejectUnequatable
	}
	if !m.coverExistentialVariables() {
		return nil, RejectClosure
	}
	if !m.checkInterpretedPredicates() {
		return nil, RejectEntailment
	}
	return m, Accepted
}

// View returns the view the MCD maps into
func (m *MCD) View() *query.Query { return m.view }

// Query returns the query the MCD was formed for
func (m *MCD) Query() *query.Query { return m.query }

// Mappings returns the MCD's variable and constant mappings
func (m *MCD) Mappings() *CandidateMapping { return m.mappings }

// Covered returns the indices of the covered query subgoals in ascending order
func (m *MCD) Covered() []int {
	out := append([]int(nil), m.covered...)
	sort.Ints(out)
	return out
}

// Subgoals returns the covered query subgoals in body order
func (m *MCD) Subgoals() []query.Predicate {
	idx := m.Covered()
	out := make([]query.Predicate, len(idx))
	for i, j := range idx {
		out[i] = m.query.Body[j]
	}
	return out
}

// NumSubgoals returns the number of covered subgoals
func (m *MCD) NumSubgoals() int { return len(m.covered) }

// CoveredInterpreted returns the query bounds discharged by entailment
func (m *MCD) CoveredInterpreted() []query.InterpretedPredicate {
	return append([]query.InterpretedPredicate(nil), m.coveredInterpreted...)
}

// Covers reports whether query subgoal i is covered
func (m *MCD) Covers(i int) bool {
	for _, c := range m.covered {
		if c == i {
			return true
		}
	}
	return false
}

// Disjoint reports whether the two MCDs cover no common subgoal
func (m *MCD) Disjoint(other *MCD) bool {
	for _, c := range other.covered {
		if m.Covers(c) {
			return false
		}
	}
	return true
}

// Equal reports whether two MCDs describe the same mapping: same view,
// identical covered subgoal sets and equal variable and constant mappings.
func (m *MCD) Equal(other *MCD) bool {
	if m.view.Name != other.view.Name || len(m.covered) != len(other.covered) {
		return false
	}
	for _, c := range m.covered {
		if !other.Covers(c) {
			return false
		}
	}
	return m.mappings.Equal(other.mappings)
}

// ExistentialArguments returns the query variables mapped to existential
// view variables.
func (m *MCD) ExistentialArguments() []query.Element {
	return m.existentialArguments(m.mappings)
}

func (m *MCD) existentialArguments(cm *CandidateMapping) []query.Element {
	var out []query.Element
	for _, p := range cm.VarMap.pairs {
		if !m.view.IsExistential(p.Value) {
			continue
		}
		if p.Arg.IsVariable() && !containsElement(out, p.Arg) {
			out = append(out, p.Arg)
		}
	}
	return out
}

// constantsDistinguished: every query constant in the variable mapping must
// face a view head variable. Constants facing view constants live in the
// constant mapping and were checked when the predicates were matched.
func (m *MCD) constantsDistinguished(cm *CandidateMapping) bool {
	for _, p := range cm.VarMap.pairs {
		if p.Arg.IsConstant() && !m.view.ContainsHeadVariable(p.Value) {
			return false
		}
	}
	return true
}

// headVariablesDistinguished: a distinguished query variable may not be
// hidden behind an existential view variable.
func (m *MCD) headVariablesDistinguished(cm *CandidateMapping) bool {
	for _, p := range cm.VarMap.pairs {
		if m.query.ContainsHeadVariable(p.Arg) && !m.view.ContainsHeadVariable(p.Value) {
			return false
		}
	}
	return true
}

// cannotEquate reports whether a query variable mapped to an existential
// view variable is also mapped to some other view element.
func (m *MCD) cannotEquate(cm *CandidateMapping) bool {
	for _, arg := range m.existentialArguments(cm) {
		if len(cm.Values(arg)) != 1 {
			return true
		}
	}
	return false
}

// uncoveredSubgoals returns, in body order, the subgoals not yet covered
// that contain a query variable mapped to an existential view variable.
func (m *MCD) uncoveredSubgoals() []int {
	args := m.ExistentialArguments()
	if len(args) == 0 {
		return nil
	}
	var out []int
	for i, p := range m.query.Body {
		if m.Covers(i) {
			continue
		}
		for _, a := range args {
			if p.Contains(a) {
				out = append(out, i)
				break
			}
		}
	}
	return out
}

// mappingPartners returns the view predicates the subgoal can be unified with
func (m *MCD) mappingPartners(subgoal query.Predicate) []query.Predicate {
	var out []query.Predicate
	for _, vp := range m.view.Body {
		if subgoal.CanBeMapped(vp) {
			out = append(out, vp)
		}
	}
	return out
}

// coverExistentialVariables extends the MCD until every subgoal containing
// an existentially mapped variable is covered. Each partner is tried on a
// clone of the mapping; the clone replaces the mapping only when it passes.
func (m *MCD) coverExistentialVariables() bool {
	for {
		pending := m.uncoveredSubgoals()
		if len(pending) == 0 {
			return true
		}

		for _, idx := range pending {
			subgoal := m.query.Body[idx]
			partners := m.mappingPartners(subgoal)
			if len(partners) == 0 {
				return false
			}

			extended := false
			for _, partner := range partners {
				if m.Covers(idx) {
					break
				}
				trial := m.mappings.Clone()
				trial.MapPredicates(subgoal, partner)
				if m.constantsDistinguished(trial) &&
					m.headVariablesDistinguished(trial) &&
					!m.cannotEquate(trial) {
					m.mappings = trial
					m.covered = append(m.covered, idx)
					extended = true
				}
			}
			if !extended {
				return false
			}
		}
	}
}

// checkInterpretedPredicates requires every query bound on an existentially
// mapped variable to be entailed by a bound of the view.
func (m *MCD) checkInterpretedPredicates() bool {
	args := m.ExistentialArguments()
	for _, ip := range m.query.Interpreted {
		relevant := false
		for _, a := range args {
			if ip.Mentions(a) {
				relevant = true
				break
			}
		}
		if !relevant {
			continue
		}

		vb, ok := findViewBound(m.view, m.mappings.VarMap, ip)
		if !ok || !Entails(ip, vb) {
			return false
		}
		m.coveredInterpreted = append(m.coveredInterpreted, ip)
	}
	return true
}

func (m *MCD) String() string {
	subgoals := m.Subgoals()
	parts := make([]string, len(subgoals))
	for i, s := range subgoals {
		parts[i] = s.String()
	}
	return m.view.Name + "[" + strings.Join(parts, " ") + "] " + m.mappings.String()
}
