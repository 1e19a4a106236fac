package minicon

import (
	"github.com/wbrown/janus-minicon/datalog/query"
)

// Rewriting is a query over the views built from a valid set of MCDs.
// It is immutable once built except for RemoveRedundancies.
type Rewriting struct {
	mcds      []*MCD
	mappings  []*CandidateMapping
	query     *query.Query
	rewritten *query.Query
}

// NewRewriting builds the rewritten query for a valid MCD set. Each MCD
// contributes one literal named after its view whose arguments are the
// representatives of the view's head variables. Query bounds are copied
// unless some MCD discharged them by entailment.
func NewRewriting(q *query.Query, mcds []*MCD) *Rewriting {
	rw := &Rewriting{
		mcds:     append([]*MCD(nil), mcds...),
		mappings: make([]*CandidateMapping, len(mcds)),
		query:    q,
	}
	rw.assignRepresentatives()
	rw.build()
	return rw
}

// assignRepresentatives fills a per-rewriting copy of each MCD's rewriting
// mapping. Query elements that meet at one view variable share the
// representative chosen when that variable was first seen.
func (rw *Rewriting) assignRepresentatives() {
	represents := NewMapping()

	for i, m := range rw.mcds {
		cm := m.mappings.Clone()
		rwMap := cm.RewritingMap
		var seen []query.Element

		for _, p := range cm.VarMap.pairs {
			qe, viewVar := p.Arg, p.Value
			if !containsElement(seen, viewVar) {
				seen = append(seen, viewVar)
				if rep, ok := represents.FirstValue(qe); ok {
					rwMap.Map(viewVar, rep)
				} else {
					represents.Map(qe, qe)
					rwMap.Map(viewVar, qe)
				}
				continue
			}
			rep, _ := rwMap.FirstValue(viewVar)
			represents.Map(qe, rep)
		}
		rw.mappings[i] = cm
	}
}

func (rw *Rewriting) build() {
	out := &query.Query{
		Name: rw.query.Name,
		Head: append([]query.Element(nil), rw.query.Head...),
	}

	for i, m := range rw.mcds {
		elems := make([]query.Element, len(m.view.Head))
		for j, hv := range m.view.Head {
			if val, ok := rw.mappings[i].RewritingMap.FirstValue(hv); ok {
				elems[j] = val
			} else {
				elems[j] = query.Wildcard
			}
		}
		out.Body = append(out.Body, query.NewPredicate(m.view.Name, elems...))
	}

	for _, ip := range rw.query.Interpreted {
		if rw.discharged(ip) || containsBound(out.Interpreted, ip) {
			continue
		}
		out.Interpreted = append(out.Interpreted, ip)
	}

	anonymizeSingletons(out)
	rw.rewritten = out
}

// discharged reports whether the bound's variable is mapped to an
// existential view variable in any MCD of the rewriting
func (rw *Rewriting) discharged(ip query.InterpretedPredicate) bool {
	v := ip.Variable()
	for _, m := range rw.mcds {
		if containsElement(m.ExistentialArguments(), v) {
			return true
		}
	}
	return false
}

// anonymizeSingletons replaces with the wildcard every variable that occurs
// exactly once in the body and nowhere in the head or the bounds.
func anonymizeSingletons(q *query.Query) {
	counts := make(map[query.Element]int)
	for _, p := range q.Body {
		for _, e := range p.Elements {
			if e.IsVariable() {
				counts[e]++
			}
		}
	}
	for _, ip := range q.Interpreted {
		counts[ip.Left]++
		counts[ip.Right]++
	}

	for i := range q.Body {
		for j, e := range q.Body[i].Elements {
			if e.IsVariable() && counts[e] == 1 && !q.ContainsHeadVariable(e) {
				q.Body[i].Elements[j] = query.Wildcard
			}
		}
	}
}

func containsBound(list []query.InterpretedPredicate, ip query.InterpretedPredicate) bool {
	for _, x := range list {
		if x == ip {
			return true
		}
	}
	return false
}

// MCDs returns the MCDs the rewriting was built from
func (rw *Rewriting) MCDs() []*MCD { return rw.mcds }

// Query returns the source query
func (rw *Rewriting) Query() *query.Query { return rw.query }

// Rewritten returns the rewritten query over the views
func (rw *Rewriting) Rewritten() *query.Query { return rw.rewritten }

// RewritingMap returns the view-variable to representative mapping used for
// the i-th MCD
func (rw *Rewriting) RewritingMap(i int) *Mapping { return rw.mappings[i].RewritingMap }

func (rw *Rewriting) String() string {
	return rw.rewritten.String()
}
