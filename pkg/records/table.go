package records

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedLine = errors.New("malformed record line")
	ErrNotNumeric    = errors.New("value is not numeric")
	ErrMissingColumn = errors.New("missing column")
	ErrRaggedTable   = errors.New("record key set differs from first line")
)

// Table holds experiment records in columnar form, one row per input line.
type Table struct {
	columns []string
	values  map[string][]float64
	rows    int
}

// NewTable creates an empty table with the given columns
func NewTable(columns ...string) *Table {
	t := &Table{
		columns: make([]string, 0, len(columns)),
		values:  make(map[string][]float64, len(columns)),
	}
	for _, name := range columns {
		if _, exists := t.values[name]; exists {
			continue
		}
		t.columns = append(t.columns, name)
		t.values[name] = nil
	}
	return t
}

// AppendRow adds one row. The row must carry exactly the table's columns.
func (t *Table) AppendRow(row map[string]float64) error {
	if len(row) != len(t.columns) {
		return fmt.Errorf("%w: got %d keys, want %d", ErrRaggedTable, len(row), len(t.columns))
	}
	for _, name := range t.columns {
		if _, ok := row[name]; !ok {
			return fmt.Errorf("%w: row lacks %q", ErrRaggedTable, name)
		}
	}
	for _, name := range t.columns {
		t.values[name] = append(t.values[name], row[name])
	}
	t.rows++
	return nil
}

// Len returns the number of rows.
func (t *Table) Len() int { return t.rows }

// Columns returns the column names in first-appearance order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Has reports whether the column exists.
func (t *Table) Has(name string) bool {
	_, ok := t.values[name]
	return ok
}

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]float64, error) {
	vals, ok := t.values[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
	}
	out := make([]float64, len(vals))
	copy(out, vals)
	return out, nil
}

// Select returns a new table restricted to the named columns, in the given order.
func (t *Table) Select(names ...string) (*Table, error) {
	sel := NewTable(names...)
	for _, name := range sel.columns {
		vals, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		sel.values[name] = vals
	}
	sel.rows = t.rows
	return sel, nil
}
