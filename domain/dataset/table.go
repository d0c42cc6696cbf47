// Package dataset holds the tabular data object consumed by the training pipeline.
package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"oncosurv/domain/core"
)

// Table is raw tabular data: one header and row-major string cells.
// Type coercion happens at the pipeline boundary, not here.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// NewTable builds a table and validates that every row matches the header width.
func NewTable(columns []string, rows [][]string) (*Table, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("table requires at least one column")
	}
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		name := strings.TrimSpace(c)
		if name == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		index[name] = i
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("row %d has %d cells, header has %d columns", i, len(row), len(columns))
		}
	}
	return &Table{Columns: columns, Rows: rows, index: index}, nil
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// MissingColumns returns the required column names absent from the table,
// in the order they were requested.
func (t *Table) MissingColumns(required []string) []string {
	var missing []string
	for _, name := range required {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Column returns the raw string values of one column.
func (t *Table) Column(name string) ([]string, error) {
	j, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("column %q not found", name)
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[j]
	}
	return out, nil
}

// FloatColumn returns one column coerced to float64.
func (t *Table) FloatColumn(name string) ([]float64, error) {
	raw, err := t.Column(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(raw))
	for i, cell := range raw {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, core.NewInvalidValueError(name, cell, fmt.Errorf("row %d is not numeric", i))
		}
		out[i] = v
	}
	return out, nil
}

// Cell returns the raw value at (row, column name).
func (t *Table) Cell(row int, name string) (string, error) {
	j, ok := t.index[name]
	if !ok {
		return "", fmt.Errorf("column %q not found", name)
	}
	if row < 0 || row >= len(t.Rows) {
		return "", fmt.Errorf("row %d out of range", row)
	}
	return t.Rows[row][j], nil
}

// Select returns a new table containing only the given rows, sharing cell storage.
func (t *Table) Select(rows []int) (*Table, error) {
	picked := make([][]string, len(rows))
	for i, r := range rows {
		if r < 0 || r >= len(t.Rows) {
			return nil, fmt.Errorf("row %d out of range", r)
		}
		picked[i] = t.Rows[r]
	}
	return NewTable(t.Columns, picked)
}
