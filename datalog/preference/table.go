// Package preference holds user preference tables: for one preference set,
// the rank of every view. Higher ranks are preferred by the ranked search.
package preference

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrNoPreferenceSet is returned when a store has no table for a set id
var ErrNoPreferenceSet = errors.New("no such preference set")

// Table maps view names to ranks for one preference set
type Table struct {
	ID    string
	ranks map[string]float64
}

// NewTable creates an empty table for the set id
func NewTable(id string) *Table {
	return &Table{ID: id, ranks: make(map[string]float64)}
}

// FromMap creates a table holding a copy of ranks
func FromMap(id string, ranks map[string]float64) *Table {
	t := NewTable(id)
	for view, rank := range ranks {
		t.ranks[view] = rank
	}
	return t
}

// Put sets the rank of a view, replacing any previous rank
func (t *Table) Put(view string, rank float64) {
	t.ranks[view] = rank
}

// Rank returns the rank of a view
func (t *Table) Rank(view string) (float64, bool) {
	r, ok := t.ranks[view]
	return r, ok
}

// Views returns the ranked view names in sorted order
func (t *Table) Views() []string {
	views := make([]string, 0, len(t.ranks))
	for v := range t.ranks {
		views = append(views, v)
	}
	sort.Strings(views)
	return views
}

// Len returns the number of ranked views
func (t *Table) Len() int { return len(t.ranks) }

// Missing returns the views, in the given order, that have no rank
func (t *Table) Missing(views []string) []string {
	var out []string
	for _, v := range views {
		if _, ok := t.ranks[v]; !ok {
			out = append(out, v)
		}
	}
	return out
}

// Map returns a copy of the table as a plain map
func (t *Table) Map() map[string]float64 {
	out := make(map[string]float64, len(t.ranks))
	for v, r := range t.ranks {
		out[v] = r
	}
	return out
}

func (t *Table) String() string {
	parts := make([]string, 0, len(t.ranks))
	for _, v := range t.Views() {
		parts = append(parts, fmt.Sprintf("%s=%g", v, t.ranks[v]))
	}
	return t.ID + "{" + strings.Join(parts, " ") + "}"
}

// Store persists preference tables by set id
type Store interface {
	// PutTable stores t, replacing any table with the same id
	PutTable(t *Table) error
	// Table loads a set; ErrNoPreferenceSet if it does not exist
	Table(id string) (*Table, error)
	// Sets lists the stored set ids in sorted order
	Sets() ([]string, error)
	DeleteSet(id string) error
	Close() error
}
