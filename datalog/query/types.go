package query

import (
	"strconv"
	"strings"
)

// ElementKind discriminates the variants of Element.
type ElementKind uint8

const (
	KindVariable ElementKind = iota
	KindNumericConstant
	KindStringConstant
	KindWildcard
)

func (k ElementKind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindNumericConstant:
		return "numeric"
	case KindStringConstant:
		return "string"
	case KindWildcard:
		return "wildcard"
	default:
		return "unknown"
	}
}

// Element is a term in a predicate: a variable, a constant or the wildcard.
// It is a comparable value, so two elements are equal iff kind and name match,
// and elements can be used directly as map keys.
type Element struct {
	Kind ElementKind
	Name string
}

// Wildcard is the "unconstrained" placeholder written as _
var Wildcard = Element{Kind: KindWildcard, Name: "_"}

// Var creates a variable element
func Var(name string) Element { return Element{Kind: KindVariable, Name: name} }

// Num creates a numeric constant element from its literal text
func Num(text string) Element { return Element{Kind: KindNumericConstant, Name: text} }

// Str creates a string constant element
func Str(text string) Element { return Element{Kind: KindStringConstant, Name: text} }

func (e Element) IsVariable() bool { return e.Kind == KindVariable }
func (e Element) IsWildcard() bool { return e.Kind == KindWildcard }
func (e Element) IsConstant() bool {
	return e.Kind == KindNumericConstant || e.Kind == KindStringConstant
}

// String returns the Datalog spelling of the element. String constants are quoted.
func (e Element) String() string {
	if e.Kind == KindStringConstant {
		return `"` + strings.ReplaceAll(e.Name, `"`, `\"`) + `"`
	}
	return e.Name
}

// Predicate is a relational literal: a name and an ordered element list.
// Positions are significant, they encode column correspondence.
type Predicate struct {
	Name     string
	Elements []Element
}

// NewPredicate builds a predicate from its name and elements
func NewPredicate(name string, elems ...Element) Predicate {
	out := make([]Element, len(elems))
	copy(out, elems)
	return Predicate{Name: name, Elements: out}
}

// Arity returns the number of elements
func (p Predicate) Arity() int { return len(p.Elements) }

// Contains reports whether elem occurs at any position
func (p Predicate) Contains(elem Element) bool {
	for _, e := range p.Elements {
		if e == elem {
			return true
		}
	}
	return false
}

// Variables returns the distinct variables in positional order
func (p Predicate) Variables() []Element {
	var vars []Element
	for _, e := range p.Elements {
		if e.IsVariable() && !containsElement(vars, e) {
			vars = append(vars, e)
		}
	}
	return vars
}

// Equal compares name and elements position by position
func (p Predicate) Equal(other Predicate) bool {
	if p.Name != other.Name || len(p.Elements) != len(other.Elements) {
		return false
	}
	for i := range p.Elements {
		if p.Elements[i] != other.Elements[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy that shares no backing array with p
func (p Predicate) Clone() Predicate {
	return NewPredicate(p.Name, p.Elements...)
}

// CanBeMapped reports whether this (query) predicate can be unified
// positionally with the view predicate: same name, same arity, and every
// constant of the query faces either the identical constant or a variable.
func (p Predicate) CanBeMapped(view Predicate) bool {
	if p.Name != view.Name || len(p.Elements) != len(view.Elements) {
		return false
	}
	for i, e := range p.Elements {
		if !e.IsConstant() {
			continue
		}
		v := view.Elements[i]
		if v.IsConstant() && v != e {
			return false
		}
	}
	return true
}

func (p Predicate) String() string {
	var sb strings.Builder
	sb.WriteString(p.Name)
	sb.WriteByte('(')
	for i, e := range p.Elements {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(e.String())
	}
	sb.WriteByte(')')
	return sb.String()
}

// Query is a conjunctive query: Name(Head) :- Body, Interpreted.
// Views are represented with the same type.
type Query struct {
	Name        string
	Head        []Element
	Body        []Predicate
	Interpreted []InterpretedPredicate
}

// ContainsHeadVariable reports whether elem is a distinguished variable.
// Constants are never head variables.
func (q *Query) ContainsHeadVariable(elem Element) bool {
	if !elem.IsVariable() {
		return false
	}
	return containsElement(q.Head, elem)
}

// ExistentialVariables returns the body variables that do not occur in the
// head, deduplicated, in order of first occurrence.
func (q *Query) ExistentialVariables() []Element {
	var out []Element
	for _, p := range q.Body {
		for _, e := range p.Elements {
			if e.IsVariable() && !containsElement(q.Head, e) && !containsElement(out, e) {
				out = append(out, e)
			}
		}
	}
	return out
}

// IsExistential reports whether elem is a body variable absent from the head
func (q *Query) IsExistential(elem Element) bool {
	if !elem.IsVariable() || containsElement(q.Head, elem) {
		return false
	}
	for _, p := range q.Body {
		if p.Contains(elem) {
			return true
		}
	}
	return false
}

// Clone deep-copies the query
func (q *Query) Clone() *Query {
	out := &Query{
		Name:        q.Name,
		Head:        append([]Element(nil), q.Head...),
		Body:        make([]Predicate, len(q.Body)),
		Interpreted: append([]InterpretedPredicate(nil), q.Interpreted...),
	}
	for i, p := range q.Body {
		out.Body[i] = p.Clone()
	}
	return out
}

// NameWildcards returns q with every wildcard of its body replaced by a
// fresh variable _1, _2, ... so that each occurrence is a distinct
// existential variable. q is returned unchanged when its body has no
// wildcard. Fresh names skip variables already used by q.
func (q *Query) NameWildcards() *Query {
	has := false
	for _, p := range q.Body {
		if p.Contains(Wildcard) {
			has = true
			break
		}
	}
	if !has {
		return q
	}

	used := make(map[Element]bool)
	for _, h := range q.Head {
		used[h] = true
	}
	for _, p := range q.Body {
		for _, e := range p.Elements {
			used[e] = true
		}
	}

	out := q.Clone()
	n := 0
	for i := range out.Body {
		for j, e := range out.Body[i].Elements {
			if !e.IsWildcard() {
				continue
			}
			var fresh Element
			for {
				n++
				fresh = Var("_" + strconv.Itoa(n))
				if !used[fresh] {
					break
				}
			}
			used[fresh] = true
			out.Body[i].Elements[j] = fresh
		}
	}
	return out
}

// String renders the query as a Datalog rule
func (q *Query) String() string {
	var sb strings.Builder
	sb.WriteString(q.Name)
	sb.WriteByte('(')
	for i, h := range q.Head {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(h.String())
	}
	sb.WriteString(") :- ")
	first := true
	for _, p := range q.Body {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(p.String())
	}
	for _, ip := range q.Interpreted {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(ip.String())
	}
	return sb.String()
}

func containsElement(list []Element, e Element) bool {
	for _, x := range list {
		if x == e {
			return true
		}
	}
	return false
}
