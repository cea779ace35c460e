// Package lifecycle holds the transition tables behind the work order and NCR
// status machines.
package lifecycle

import "slices"

// Table is an immutable map from each status to its legal next statuses.
// Terminal statuses are present with no targets.
type Table struct {
	name    string
	initial string
	order   []string
	edges   map[string][]string
}

// Edge lists the legal targets for one status.
type Edge struct {
	From string
	To   []string
}

// NewTable builds a Table. Edges are given in display order; that order is
// preserved by States and Allowed.
func NewTable(name, initial string, edges ...Edge) Table {
	t := Table{
		name:    name,
		initial: initial,
		edges:   make(map[string][]string, len(edges)),
	}
	for _, e := range edges {
		t.order = append(t.order, e.From)
		t.edges[e.From] = slices.Clone(e.To)
	}
	return t
}

// Name identifies the table, e.g. "review".
func (t Table) Name() string { return t.name }

// Initial is the status new entities start in.
func (t Table) Initial() string { return t.initial }

// States returns every status of the table.
func (t Table) States() []string { return slices.Clone(t.order) }

// Known reports whether status belongs to the table.
func (t Table) Known(status string) bool {
	_, ok := t.edges[status]
	return ok
}

// Allowed returns the legal targets from status, or nil for terminal and
// unknown statuses.
func (t Table) Allowed(status string) []string {
	to := t.edges[status]
	if len(to) == 0 {
		return nil
	}
	return slices.Clone(to)
}

// CanTransition reports whether from → to is an edge of the table.
func (t Table) CanTransition(from, to string) bool {
	return slices.Contains(t.edges[from], to)
}

// Terminal reports whether status is known and has no outgoing edges.
func (t Table) Terminal(status string) bool {
	to, ok := t.edges[status]
	return ok && len(to) == 0
}
