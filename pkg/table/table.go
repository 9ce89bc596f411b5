// Package table holds a tabular row set in memory.
//
// A [Table] is an ordered list of column names plus string records, which is
// the shape shared by delimited files and spreadsheets. Each record can be
// viewed as a mapping from column name to value through [Row].
package table

import (
	"errors"
	"fmt"
	"slices"
)

// ErrDuplicateColumn is returned by [New] when two header cells share a name.
var ErrDuplicateColumn = errors.New("duplicate column name")

// Table is an ordered set of columns and rows. Records are always exactly as
// wide as Columns after construction with [New].
//
// The zero value is an empty table with no columns.
type Table struct {
	columns []string
	index   map[string]int
	records [][]string
}

// New creates a table from a header and records. Short records are padded
// with empty strings and long records are truncated to the header width.
// The records slice is copied; later changes by the caller are not visible.
func New(columns []string, records [][]string) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if _, ok := index[c]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, c)
		}
		index[c] = i
	}

	t := &Table{
		columns: slices.Clone(columns),
		index:   index,
		records: make([][]string, len(records)),
	}
	for i, rec := range records {
		t.records[i] = fit(rec, len(columns))
	}
	return t, nil
}

func fit(rec []string, width int) []string {
	out := make([]string, width)
	copy(out, rec)
	return out
}

// Columns returns the column names in order.
func (t *Table) Columns() []string { return slices.Clone(t.columns) }

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.records) }

// Has reports whether the table has a column with the given name.
func (t *Table) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// ColumnIndex returns the position of column, or -1 if absent.
func (t *Table) ColumnIndex(column string) int {
	if i, ok := t.index[column]; ok {
		return i
	}
	return -1
}

// Missing returns the requested columns not present in the table, in the
// order they were requested.
func (t *Table) Missing(columns ...string) []string {
	var missing []string
	for _, c := range columns {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Row returns the i-th row. It panics if i is out of range.
func (t *Table) Row(i int) Row {
	return Row{t: t, i: i}
}

// Records returns a deep copy of all records.
func (t *Table) Records() [][]string {
	out := make([][]string, len(t.records))
	for i, r := range t.records {
		out[i] = slices.Clone(r)
	}
	return out
}

// Column returns every value of column in row order, or nil if absent.
func (t *Table) Column(column string) []string {
	i, ok := t.index[column]
	if !ok {
		return nil
	}
	out := make([]string, len(t.records))
	for r, rec := range t.records {
		out[r] = rec[i]
	}
	return out
}

// Row is a view of one record addressed by column name.
type Row struct {
	t *Table
	i int
}

// Get returns the value in column, or "" if the column does not exist.
func (r Row) Get(column string) string {
	if c, ok := r.t.index[column]; ok {
		return r.t.records[r.i][c]
	}
	return ""
}

// Values returns a copy of the row's values in column order.
func (r Row) Values() []string { return slices.Clone(r.t.records[r.i]) }
