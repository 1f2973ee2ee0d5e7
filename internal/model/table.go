// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"sort"
	"strconv"
)

// =============================================================================
// TABLE TYPE
// =============================================================================

// Table is a uniform-schema view of the loosely-typed row records the
// analytics API returns. Columns are ordered and shared by every row; each
// row is a fixed-arity slice aligned to the column list.
//
// On the wire (and in the persisted store) a Table is an array of records,
// e.g. [{"transporter": "Acme", "total": 12}, ...]. Column order is
// normalized to sorted key order during decoding so classification and
// rendering are deterministic.
type Table struct {
	Columns []string
	Rows    [][]any
}

// NewTable builds a Table from a list of uniform-shaped records.
// Record key sets are assumed identical across rows (the API contract);
// missing keys yield nil cells.
func NewTable(records []map[string]any) *Table {
	if len(records) == 0 {
		return &Table{}
	}

	cols := make([]string, 0, len(records[0]))
	for k := range records[0] {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		row := make([]any, len(cols))
		for i, c := range cols {
			row[i] = rec[c]
		}
		rows = append(rows, row)
	}

	return &Table{Columns: cols, Rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// IsEmpty reports whether the table has no rows or no columns.
func (t *Table) IsEmpty() bool {
	return t.Len() == 0 || len(t.Columns) == 0
}

// Cell returns the value at (row, col), or nil when out of range.
func (t *Table) Cell(row, col int) any {
	if t == nil || row < 0 || row >= len(t.Rows) {
		return nil
	}
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return nil
	}
	return r[col]
}

// =============================================================================
// JSON ROUND TRIP
// =============================================================================

// MarshalJSON encodes the table back to the wire shape: an array of records.
func (t *Table) MarshalJSON() ([]byte, error) {
	if t == nil || len(t.Rows) == 0 {
		return []byte("[]"), nil
	}

	records := make([]map[string]any, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make(map[string]any, len(t.Columns))
		for i, c := range t.Columns {
			if i < len(row) {
				rec[c] = row[i]
			}
		}
		records = append(records, rec)
	}
	return json.Marshal(records)
}

// UnmarshalJSON decodes an array of records into a uniform-schema table.
func (t *Table) UnmarshalJSON(data []byte) error {
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	*t = *NewTable(records)
	return nil
}

// =============================================================================
// VALUE CLASSIFICATION
// =============================================================================

// IsNumericValue reports whether a cell value is numeric. JSON decoding
// yields float64 for all numbers; int variants are accepted for values built
// in code.
func IsNumericValue(v any) bool {
	switch v.(type) {
	case float64, float32, int, int64, int32, json.Number:
		return true
	default:
		return false
	}
}

// AsFloat converts a numeric cell value to float64. The second return value
// is false for non-numeric values.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// IsTextValue reports whether a cell value is a non-empty string.
func IsTextValue(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}

// FormatValue renders a cell value for display. Whole numbers drop the
// decimal point; missing values yield the empty string (the renderer decides
// the placeholder).
func FormatValue(v any) string {
	if v == nil {
		return ""
	}
	if f, ok := AsFloat(v); ok {
		if f == float64(int64(f)) {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	if s, ok := v.(string); ok {
		return s
	}
	if b, ok := v.(bool); ok {
		return strconv.FormatBool(b)
	}
	return ""
}
