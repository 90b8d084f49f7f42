package experiment

import (
	"github.com/mhelland/seqheat/pkg/errors"
)

// Table is an ordered metadata table: named columns of equal length whose
// values may be strings, integers, floats, or nil for missing entries.
// Field order is preserved from insertion, matching the source file.
type Table struct {
	n       int
	fields  []string
	columns map[string][]any
}

// NewTable creates an empty table with n rows.
func NewTable(n int) *Table {
	return &Table{n: n, columns: make(map[string][]any)}
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.n }

// Fields returns the column names in insertion order.
func (t *Table) Fields() []string {
	return append([]string(nil), t.fields...)
}

// HasField reports whether the named column exists.
func (t *Table) HasField(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// AddField appends a column. The value count must match the row count.
// Adding an existing field replaces its values.
func (t *Table) AddField(name string, values []any) error {
	if len(values) != t.n {
		return errors.New(errors.ErrCodeShape, "field %q has %d values, table has %d rows", name, len(values), t.n)
	}
	if !t.HasField(name) {
		t.fields = append(t.fields, name)
	}
	t.columns[name] = values
	return nil
}

// Field returns the named column's values in row order.
func (t *Table) Field(name string) ([]any, error) {
	values, ok := t.columns[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeFieldNotFound, "field %q not in table", name)
	}
	return values, nil
}

// Row returns the values of row i keyed by field name.
func (t *Table) Row(i int) map[string]any {
	row := make(map[string]any, len(t.fields))
	for _, f := range t.fields {
		row[f] = t.columns[f][i]
	}
	return row
}

// Copy returns a deep copy of the table.
func (t *Table) Copy() *Table {
	out := NewTable(t.n)
	for _, f := range t.fields {
		_ = out.AddField(f, append([]any(nil), t.columns[f]...))
	}
	return out
}

// reorder permutes rows so that new row i is old row perm[i].
func (t *Table) reorder(perm []int) {
	for _, f := range t.fields {
		old := t.columns[f]
		next := make([]any, len(old))
		for i, p := range perm {
			next[i] = old[p]
		}
		t.columns[f] = next
	}
}
