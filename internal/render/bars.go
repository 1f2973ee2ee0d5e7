// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fleetops/opspilot-tui/internal/model"
	"github.com/fleetops/opspilot-tui/internal/ui/styles"
	"github.com/fleetops/opspilot-tui/internal/util"
)

// =============================================================================
// BAR BREAKDOWN
// =============================================================================

// barBreakdown renders the main visualization: one horizontal bar per entity,
// scaled against the largest row, with colored segments per numeric column.
func (r *Renderer) barBreakdown(rows *model.Table, grouping string) string {
	s := classify(rows)
	if len(s.valid) == 0 || len(s.numericCols) == 0 {
		return ""
	}

	shown := s.valid
	if len(shown) > MaxBars {
		shown = shown[:MaxBars]
	}

	// Floor 1 so an all-zero result still divides cleanly
	maxRowTotal := 1.0
	for _, row := range shown {
		if t := s.rowTotal(row); t > maxRowTotal {
			maxRowTotal = t
		}
	}

	var b strings.Builder

	heading := title(grouping, len(s.numericCols))
	b.WriteString(r.theme.ChartTitle.Render(heading))
	b.WriteString("  ")
	b.WriteString(r.theme.ChartTotal.Render("Total: " + model.FormatValue(s.grandTotal)))
	b.WriteString("\n")

	if len(s.numericCols) > 1 {
		b.WriteString(r.legend(rows))
		b.WriteString("\n")
	}

	entityWidth := r.entityWidth(shown, s.entityCol)
	for _, row := range shown {
		entity := util.TruncateWidth(cellString(row, s.entityCol), entityWidth)
		b.WriteString(r.theme.ChartEntity.Render(util.PadWidth(entity, entityWidth)))
		b.WriteString(" ")
		b.WriteString(r.bar(rows, s, row, maxRowTotal))
		b.WriteString("\n")
	}

	if extra := len(s.valid) - len(shown); extra > 0 {
		b.WriteString(r.theme.ChartFooter.Render(fmt.Sprintf("+%d more entries", extra)))
		b.WriteString("\n")
	}

	if len(s.numericCols) == 1 {
		b.WriteString(r.summaryCards(rows, s))
	}

	return strings.TrimRight(b.String(), "\n")
}

// bar renders one row's bar: total length proportional to the row's share of
// the largest row, subdivided into per-column segments. Segments below the
// label threshold keep their width but drop the number.
func (r *Renderer) bar(rows *model.Table, s shape, row []any, maxRowTotal float64) string {
	rowTotal := s.rowTotal(row)
	length := int(rowTotal / maxRowTotal * barWidth)

	var b strings.Builder
	used := 0
	for i, c := range s.numericCols {
		f, ok := model.AsFloat(cellAt(row, c))
		if !ok || f <= 0 {
			continue
		}

		segWidth := int(f / rowTotal * float64(length))
		if i == len(s.numericCols)-1 {
			segWidth = length - used // absorb rounding in the last segment
		}
		if segWidth <= 0 {
			continue
		}
		used += segWidth

		seg := strings.Repeat("█", segWidth)
		if rowTotal > 0 && f/rowTotal >= SegmentLabelThreshold {
			label := model.FormatValue(f)
			if util.StringWidth(label) < segWidth {
				seg = label + strings.Repeat("█", segWidth-util.StringWidth(label))
			}
		}

		color := styles.SegmentColor(rows.Columns[c], i)
		b.WriteString(lipgloss.NewStyle().Foreground(color).Render(seg))
	}

	// Zero-total rows still get a minimal marker so they stay visible
	if b.Len() == 0 {
		b.WriteString(r.theme.ChartFooter.Render("▏"))
	}

	b.WriteString(" ")
	b.WriteString(r.theme.ChartTotal.Render(model.FormatValue(rowTotal)))
	return b.String()
}

// legend lists each numeric column with its assigned color.
func (r *Renderer) legend(rows *model.Table) string {
	s := classify(rows)

	parts := make([]string, 0, len(s.numericCols))
	for i, c := range s.numericCols {
		color := styles.SegmentColor(rows.Columns[c], i)
		swatch := lipgloss.NewStyle().Foreground(color).Render("■")
		parts = append(parts, swatch+" "+r.theme.ChartLegend.Render(humanizeLabel(rows.Columns[c])))
	}
	return strings.Join(parts, "  ")
}

// entityWidth picks a label column width from the widest shown entity,
// bounded so long names cannot crowd out the bars.
func (r *Renderer) entityWidth(shown [][]any, entityCol int) int {
	width := 8
	for _, row := range shown {
		if w := util.StringWidth(cellString(row, entityCol)); w > width {
			width = w
		}
	}
	max := r.width - barWidth - 12
	if max < 8 {
		max = 8
	}
	if width > max {
		width = max
	}
	return width
}
