// Package sqlgen translates rewritten conjunctive queries into SQL over the
// view relations. A view V(a,b,...) is addressed as a table whose columns are
// named positionally x1, x2, ...
package sqlgen

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/wbrown/janus-minicon/datalog/query"
)

var (
	// ErrEmptyBody is returned for a query without relational literals
	ErrEmptyBody = errors.New("query has no relational literal")

	// ErrUnboundVariable is returned when a head variable or a bound refers
	// to a variable that no body literal binds
	ErrUnboundVariable = errors.New("variable is not bound by any literal")
)

// column is one positional attribute of an aliased view
type column struct {
	alias string
	pos   int
}

func (c column) String() string {
	return c.alias + ".x" + strconv.Itoa(c.pos+1)
}

// ToSQL renders q as a SELECT DISTINCT over its body literals. Each literal
// gets the alias eN in body order. The first column binding a variable
// represents it; every later occurrence becomes a join equality.
func ToSQL(q *query.Query) (string, error) {
	if len(q.Body) == 0 {
		return "", errors.Wrapf(ErrEmptyBody, "%s", q.Name)
	}

	bound := make(map[query.Element]column)
	var from, where []string

	for i, lit := range q.Body {
		alias := "e" + strconv.Itoa(i+1)
		from = append(from, lit.Name+" "+alias)

		for j, elem := range lit.Elements {
			col := column{alias: alias, pos: j}
			switch {
			case elem.IsWildcard():
			case elem.IsConstant():
				where = append(where, col.String()+" = "+literal(elem))
			default:
				if first, ok := bound[elem]; ok {
					where = append(where, col.String()+" = "+first.String())
				} else {
					bound[elem] = col
				}
			}
		}
	}

	for _, ip := range q.Interpreted {
		v, op, b := ip.Normalize()
		col, ok := bound[v]
		if !ok {
			return "", errors.Wrapf(ErrUnboundVariable, "%s in %s", v, ip)
		}
		where = append(where, col.String()+" "+string(op)+" "+literal(b))
	}

	var sb strings.Builder
	sb.WriteString("SELECT DISTINCT ")
	if len(q.Head) == 0 {
		sb.WriteString("1")
	}
	for i, h := range q.Head {
		col, ok := bound[h]
		if !ok {
			return "", errors.Wrapf(ErrUnboundVariable, "head variable %s", h)
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(col.String())
		sb.WriteString(" AS ")
		sb.WriteString(identifier(h.Name))
	}
	sb.WriteString("\nFROM ")
	sb.WriteString(strings.Join(from, ", "))
	if len(where) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(where, " AND "))
	}
	return sb.String(), nil
}

// literal renders a constant. Numbers are emitted verbatim, strings are
// single-quoted with embedded quotes doubled.
func literal(e query.Element) string {
	if e.Kind == query.KindStringConstant {
		return "'" + strings.ReplaceAll(e.Name, "'", "''") + "'"
	}
	return e.Name
}

// identifier quotes a column alias unless it is a plain SQL identifier
func identifier(name string) string {
	plain := name != ""
	for i, r := range name {
		letter := r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		digit := r >= '0' && r <= '9'
		if !letter && (!digit || i == 0) {
			plain = false
			break
		}
	}
	if plain {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
