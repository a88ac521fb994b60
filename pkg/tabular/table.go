package tabular

import (
	"errors"
	"fmt"
	"strings"
)

// ErrShape marks tables whose columns disagree on length or names.
var ErrShape = errors.New("tabular: invalid shape")

// Column is a named sequence of values.
type Column struct {
	Name   string
	Values []any
}

// Table is an ordered set of equally sized columns. It is immutable once
// built: New copies the column values and accessors return copies.
type Table struct {
	columns []Column
	index   map[string]int
	rows    int
}

// New builds a table. Column names must be unique and non-empty and all
// columns must have the same length.
func New(columns ...Column) (*Table, error) {
	t := &Table{
		columns: make([]Column, len(columns)),
		index:   make(map[string]int, len(columns)),
	}
	for i, column := range columns {
		name := strings.TrimSpace(column.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: column %d has an empty name", ErrShape, i)
		}
		if _, dup := t.index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrShape, name)
		}
		if i == 0 {
			t.rows = len(column.Values)
		} else if len(column.Values) != t.rows {
			return nil, fmt.Errorf("%w: column %q has %d values, expected %d", ErrShape, name, len(column.Values), t.rows)
		}
		t.columns[i] = Column{Name: name, Values: append([]any{}, column.Values...)}
		t.index[name] = i
	}
	return t, nil
}

// MustNew panics if the table cannot be built. Useful for tests.
func MustNew(columns ...Column) *Table {
	t, err := New(columns...)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	names := make([]string, len(t.columns))
	for i, column := range t.columns {
		names[i] = column.Name
	}
	return names
}

// Column returns a copy of the values of the named column.
func (t *Table) Column(name string) ([]any, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return append([]any{}, t.columns[i].Values...), true
}

// Width returns the number of columns.
func (t *Table) Width() int {
	return len(t.columns)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return t.rows
}

// Row returns the values of row i in column order.
func (t *Table) Row(i int) []any {
	row := make([]any, len(t.columns))
	for j, column := range t.columns {
		row[j] = column.Values[i]
	}
	return row
}

// Rows returns the table in row-major order.
func (t *Table) Rows() [][]any {
	rows := make([][]any, t.rows)
	for i := range rows {
		rows[i] = t.Row(i)
	}
	return rows
}

// Head returns a table holding at most the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > t.rows {
		n = t.rows
	}
	out := &Table{
		columns: make([]Column, len(t.columns)),
		index:   t.index,
		rows:    n,
	}
	for i, column := range t.columns {
		out.columns[i] = Column{Name: column.Name, Values: column.Values[:n]}
	}
	return out
}

// Records formats every cell, row by row, without a header.
func (t *Table) Records(options ...FormatOption) ([][]string, error) {
	f, err := NewFormatter(options...)
	if err != nil {
		return nil, err
	}
	return f.records(t), nil
}
