// Package minicon computes view-based rewritings of conjunctive queries with
// the MiniCon algorithm: MiniCon descriptions (MCDs) are formed per query
// subgoal, combined into exact covers of the query body and turned into
// rewritten queries over the views.
package minicon

import (
	"strings"

	"github.com/wbrown/janus-minicon/datalog/query"
)

// Pair is one argument -> value association of a Mapping
type Pair struct {
	Arg   query.Element
	Value query.Element
}

// Mapping is an ordered, duplicate-free list of argument/value pairs.
// An argument may map to several values and a value may have several
// arguments; lookups work from either side.
type Mapping struct {
	pairs []Pair
}

// NewMapping creates an empty mapping
func NewMapping() *Mapping {
	return &Mapping{}
}

// Map adds arg -> value unless the pair is already present
func (m *Mapping) Map(arg, value query.Element) {
	if m.Contains(arg, value) {
		return
	}
	m.pairs = append(m.pairs, Pair{Arg: arg, Value: value})
}

// Values returns every value mapped from arg, deduplicated, in insertion order
func (m *Mapping) Values(arg query.Element) []query.Element {
	var out []query.Element
	for _, p := range m.pairs {
		if p.Arg == arg && !containsElement(out, p.Value) {
			out = append(out, p.Value)
		}
	}
	return out
}

// Arguments returns every argument mapped to value, deduplicated, in insertion order
func (m *Mapping) Arguments(value query.Element) []query.Element {
	var out []query.Element
	for _, p := range m.pairs {
		if p.Value == value && !containsElement(out, p.Arg) {
			out = append(out, p.Arg)
		}
	}
	return out
}

// Contains reports whether arg -> value is present
func (m *Mapping) Contains(arg, value query.Element) bool {
	for _, p := range m.pairs {
		if p.Arg == arg && p.Value == value {
			return true
		}
	}
	return false
}

// ContainsArgument reports whether arg has at least one value
func (m *Mapping) ContainsArgument(arg query.Element) bool {
	for _, p := range m.pairs {
		if p.Arg == arg {
			return true
		}
	}
	return false
}

// FirstValue returns the value of the first pair whose argument is arg
func (m *Mapping) FirstValue(arg query.Element) (query.Element, bool) {
	for _, p := range m.pairs {
		if p.Arg == arg {
			return p.Value, true
		}
	}
	return query.Element{}, false
}

// Len returns the number of pairs
func (m *Mapping) Len() int {
	return len(m.pairs)
}

// Pairs returns a copy of the pairs in insertion order
func (m *Mapping) Pairs() []Pair {
	out := make([]Pair, len(m.pairs))
	copy(out, m.pairs)
	return out
}

// Clone returns an independent mapping with the same pairs
func (m *Mapping) Clone() *Mapping {
	c := &Mapping{pairs: make([]Pair, len(m.pairs))}
	copy(c.pairs, m.pairs)
	return c
}

// Equal reports whether both mappings hold the same set of pairs
func (m *Mapping) Equal(other *Mapping) bool {
	if len(m.pairs) != len(other.pairs) {
		return false
	}
	for _, p := range other.pairs {
		if !m.Contains(p.Arg, p.Value) {
			return false
		}
	}
	return true
}

func (m *Mapping) String() string {
	parts := make([]string, len(m.pairs))
	for i, p := range m.pairs {
		parts[i] = p.Arg.String() + "->" + p.Value.String()
	}
	return strings.Join(parts, " ")
}

func containsElement(list []query.Element, e query.Element) bool {
	for _, x := range list {
		if x == e {
			return true
		}
	}
	return false
}
