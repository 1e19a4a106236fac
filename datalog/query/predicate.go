package query

import (
	"fmt"
)

// Comparator is the operator of an interpreted predicate
type Comparator string

const (
	OpLT  Comparator = "<"
	OpLTE Comparator = "<="
	OpGT  Comparator = ">"
	OpGTE Comparator = ">="
)

// ParseComparator converts the textual operator
func ParseComparator(s string) (Comparator, error) {
	switch Comparator(s) {
	case OpLT, OpLTE, OpGT, OpGTE:
		return Comparator(s), nil
	}
	return "", fmt.Errorf("unknown comparison operator: %s", s)
}

// Flip returns the operator that holds when the operands are swapped,
// e.g. 5 < x is x > 5.
func (c Comparator) Flip() Comparator {
	switch c {
	case OpLT:
		return OpGT
	case OpLTE:
		return OpGTE
	case OpGT:
		return OpLT
	case OpGTE:
		return OpLTE
	}
	return c
}

// InterpretedPredicate compares a variable against a bound, e.g. y > 23 or 5 <= x.
// In every supported case exactly one side is a variable.
type InterpretedPredicate struct {
	Left  Element
	Right Element
	Op    Comparator
}

// NewInterpretedPredicate builds left op right
func NewInterpretedPredicate(left Element, op Comparator, right Element) InterpretedPredicate {
	return InterpretedPredicate{Left: left, Right: right, Op: op}
}

// Variable returns the variable side, preferring the left operand
func (ip InterpretedPredicate) Variable() Element {
	if ip.Left.IsVariable() {
		return ip.Left
	}
	return ip.Right
}

// VariableOnLeft reports whether the variable is the left operand
func (ip InterpretedPredicate) VariableOnLeft() bool {
	return ip.Left.IsVariable()
}

// Mentions reports whether elem is either operand
func (ip InterpretedPredicate) Mentions(elem Element) bool {
	return ip.Left == elem || ip.Right == elem
}

// Normalize rewrites the predicate with the variable on the left:
// N > x becomes x < N. The returned bound is the non-variable operand.
func (ip InterpretedPredicate) Normalize() (variable Element, op Comparator, bound Element) {
	if ip.Left.IsVariable() {
		return ip.Left, ip.Op, ip.Right
	}
	return ip.Right, ip.Op.Flip(), ip.Left
}

func (ip InterpretedPredicate) String() string {
	return fmt.Sprintf("%s %s %s", ip.Left, ip.Op, ip.Right)
}
