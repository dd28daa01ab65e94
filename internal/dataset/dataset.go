// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package dataset loads paper-record CSV files into an in-memory table.
// Cells are tagged variants (missing, plain string, multi-value string) so
// downstream stages never re-probe raw cell text for its shape.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
)

// CellKind tags the shape of a cell value.
type CellKind int

const (
	// Missing marks an absent or empty cell. It contributes zero values
	// to any flatten operation.
	Missing CellKind = iota

	// String marks a plain single-value cell.
	String

	// MultiValue marks a cell holding several delimiter-joined items,
	// possibly wrapped in residual list-literal punctuation from a prior
	// stringified-list serialization (e.g. "['x', 'y']").
	MultiValue
)

// Cell is one tagged cell value.
type Cell struct {
	Kind  CellKind
	Value string
}

// IsMissing reports whether the cell holds no value.
func (c Cell) IsMissing() bool { return c.Kind == Missing }

// Table is an ordered sequence of records sharing one field set. It is
// loaded once and held read-only for the duration of the analysis.
type Table struct {
	fields []string
	index  map[string]int
	rows   [][]Cell
}

// New builds a table from a header and raw string rows. Short rows are
// padded with missing cells; overflow columns on long rows are dropped.
func New(fields []string, rows [][]string) *Table {
	t := &Table{
		fields: append([]string(nil), fields...),
		index:  make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		t.index[f] = i
	}
	for _, raw := range rows {
		row := make([]Cell, len(fields))
		for i := range fields {
			if i < len(raw) {
				row[i] = classify(raw[i])
			}
		}
		t.rows = append(t.rows, row)
	}
	return t
}

// Load reads a CSV file with a header row into a Table.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // ragged rows are recovered, not rejected

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %s has no header row", path)
	}
	return New(records[0], records[1:]), nil
}

// Fields returns the field names in column order.
func (t *Table) Fields() []string { return append([]string(nil), t.fields...) }

// HasField reports whether the table schema contains the field.
func (t *Table) HasField(field string) bool {
	_, ok := t.index[field]
	return ok
}

// Len returns the number of records.
func (t *Table) Len() int { return len(t.rows) }

// Cell returns the cell at row i for the named field. The second return
// value is false when the field is not part of the schema.
func (t *Table) Cell(i int, field string) (Cell, bool) {
	col, ok := t.index[field]
	if !ok || i < 0 || i >= len(t.rows) {
		return Cell{}, false
	}
	return t.rows[i][col], true
}

// Column returns all cells of the named field in row order. The second
// return value is false when the field is not part of the schema.
func (t *Table) Column(field string) ([]Cell, bool) {
	col, ok := t.index[field]
	if !ok {
		return nil, false
	}
	cells := make([]Cell, len(t.rows))
	for i, row := range t.rows {
		cells[i] = row[col]
	}
	return cells, true
}

// classify tags a raw cell. Empty and whitespace-only cells are missing;
// cells carrying list-literal decoration or an embedded ", " are
// multi-valued; everything else is a plain string. Multi-value cells keep
// their raw text: the delimiter split is whitespace-sensitive, so a
// trailing ", " must survive classification (it encodes an empty element).
func classify(raw string) Cell {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Cell{Kind: Missing}
	}
	if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
		return Cell{Kind: MultiValue, Value: raw}
	}
	if strings.Contains(trimmed, ", ") {
		return Cell{Kind: MultiValue, Value: raw}
	}
	return Cell{Kind: String, Value: trimmed}
}
