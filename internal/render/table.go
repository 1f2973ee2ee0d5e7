// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"fmt"
	"strings"

	"github.com/fleetops/opspilot-tui/internal/model"
	"github.com/fleetops/opspilot-tui/internal/util"
)

// =============================================================================
// RAW DATA TABLE
// =============================================================================

// RawTable renders the collapsible raw-data view: every column, capped to the
// first MaxTableRows rows, with missing cells shown as an em-dash. The table
// is offered whenever rows exist, independent of the primary visualization.
func (r *Renderer) RawTable(rows *model.Table) string {
	if rows.IsEmpty() {
		return ""
	}

	shown := rows.Rows
	if len(shown) > MaxTableRows {
		shown = shown[:MaxTableRows]
	}

	// Column widths from headers and shown cells
	widths := make([]int, len(rows.Columns))
	for i, col := range rows.Columns {
		widths[i] = util.StringWidth(humanizeLabel(col))
	}
	for _, row := range shown {
		for i := range rows.Columns {
			if w := util.StringWidth(tableCell(row, i)); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder

	headers := make([]string, len(rows.Columns))
	for i, col := range rows.Columns {
		headers[i] = util.PadWidth(humanizeLabel(col), widths[i])
	}
	b.WriteString(r.theme.TableHeader.Render(strings.Join(headers, "  ")))
	b.WriteString("\n")

	for _, row := range shown {
		cells := make([]string, len(rows.Columns))
		for i := range rows.Columns {
			cells[i] = util.PadWidth(tableCell(row, i), widths[i])
		}
		b.WriteString(r.theme.TableCell.Render(strings.Join(cells, "  ")))
		b.WriteString("\n")
	}

	if len(rows.Rows) > len(shown) {
		footer := fmt.Sprintf("showing first %d of %d", len(shown), len(rows.Rows))
		b.WriteString(r.theme.TableFooter.Render(footer))
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// tableCell formats one cell, substituting the em-dash for missing values.
func tableCell(row []any, col int) string {
	v := cellAt(row, col)
	if v == nil {
		return MissingCell
	}
	s := model.FormatValue(v)
	if s == "" {
		return MissingCell
	}
	return s
}
