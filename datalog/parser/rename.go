package parser

import (
	"strconv"

	"github.com/wbrown/janus-minicon/datalog/query"
)

// DefaultMarker is appended to view variables so they never collide with
// query variables in traces and tables.
const DefaultMarker = "'"

// ViewOptions controls how parsed views are prepared for rewriting
type ViewOptions struct {
	// Marker is appended to every view variable; empty disables renaming
	Marker string
	// AutoName renames the views V1, V2, ... in input order
	AutoName bool
}

// DefaultViewOptions renames variables with DefaultMarker and keeps the
// view names written in the rules.
func DefaultViewOptions() ViewOptions {
	return ViewOptions{Marker: DefaultMarker}
}

// RenameVariables returns a copy of q with marker appended to every
// variable of its head, body and bounds. Constants and wildcards are kept.
func RenameVariables(q *query.Query, marker string) *query.Query {
	out := q.Clone()
	if marker == "" {
		return out
	}
	rename := func(e query.Element) query.Element {
		if e.IsVariable() {
			return query.Var(e.Name + marker)
		}
		return e
	}

	for i, h := range out.Head {
		out.Head[i] = rename(h)
	}
	for i := range out.Body {
		for j, e := range out.Body[i].Elements {
			out.Body[i].Elements[j] = rename(e)
		}
	}
	for i, ip := range out.Interpreted {
		out.Interpreted[i] = query.NewInterpretedPredicate(rename(ip.Left), ip.Op, rename(ip.Right))
	}
	return out
}

// AutoName returns copies of views named V1, V2, ... in order
func AutoName(views []*query.Query) []*query.Query {
	out := make([]*query.Query, len(views))
	for i, v := range views {
		c := v.Clone()
		c.Name = "V" + strconv.Itoa(i+1)
		out[i] = c
	}
	return out
}

// PrepareViews applies opts to parsed views
func PrepareViews(views []*query.Query, opts ViewOptions) []*query.Query {
	out := views
	if opts.AutoName {
		out = AutoName(out)
	}
	prepared := make([]*query.Query, len(out))
	for i, v := range out {
		prepared[i] = RenameVariables(v, opts.Marker)
	}
	return prepared
}
