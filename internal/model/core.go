package model

import (
	"errors"
	"fmt"
	"strings"
)

// GenericRecord is a schema-agnostic map for one row of a result set
type GenericRecord map[string]interface{}

// ErrMissingColumn is returned when a projection names a column the table lacks.
var ErrMissingColumn = errors.New("missing column")

// Table is an ordered set of rows sharing an ordered column list.
// Operations never modify the receiver; they return a new Table.
type Table struct {
	columns []string
	rows    []GenericRecord
}

// NewTable builds a table. Rows are copied so the caller keeps ownership of
// its maps; keys not listed in columns are dropped.
func NewTable(columns []string, rows []GenericRecord) *Table {
	t := &Table{
		columns: append([]string(nil), columns...),
		rows:    make([]GenericRecord, 0, len(rows)),
	}
	for _, row := range rows {
		rec := make(GenericRecord, len(t.columns))
		for _, col := range t.columns {
			if v, ok := row[col]; ok {
				rec[col] = v
			}
		}
		t.rows = append(t.rows, rec)
	}
	return t
}

// Columns returns a copy of the column names in order
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Rows returns copies of the rows in order
func (t *Table) Rows() []GenericRecord {
	out := make([]GenericRecord, 0, len(t.rows))
	for _, row := range t.rows {
		rec := make(GenericRecord, len(row))
		for k, v := range row {
			rec[k] = v
		}
		out = append(out, rec)
	}
	return out
}

// HasColumn reports whether name is one of the table's columns
func (t *Table) HasColumn(name string) bool {
	for _, col := range t.columns {
		if col == name {
			return true
		}
	}
	return false
}

// Column returns the values of one column in row order
func (t *Table) Column(name string) ([]interface{}, error) {
	if !t.HasColumn(name) {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	values := make([]interface{}, 0, len(t.rows))
	for _, row := range t.rows {
		values = append(values, row[name])
	}
	return values, nil
}

// Unique returns the distinct values of a column in first-seen order
func (t *Table) Unique(name string) ([]interface{}, error) {
	values, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []interface{}
	for _, v := range values {
		key := fmt.Sprintf("%T:%v", v, v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out, nil
}

// Select projects the table onto columns, in the given order.
// Every missing column is reported in a single error.
func (t *Table) Select(columns ...string) (*Table, error) {
	var missing []string
	for _, col := range columns {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return NewTable(columns, t.rows), nil
}

// WithConstant returns a copy of the table with column set to value on every
// row. The column is appended unless it already exists.
func (t *Table) WithConstant(column string, value interface{}) *Table {
	columns := t.Columns()
	if !t.HasColumn(column) {
		columns = append(columns, column)
	}
	out := NewTable(columns, t.rows)
	for _, row := range out.rows {
		row[column] = value
	}
	return out
}
