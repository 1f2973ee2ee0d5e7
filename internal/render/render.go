// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package render maps tabular analytics results and chart hints to terminal
// presentation blocks. Everything here is a pure function of its inputs;
// the renderer holds only a theme and a target width.
package render

import (
	"strings"

	"github.com/fleetops/opspilot-tui/internal/model"
	"github.com/fleetops/opspilot-tui/internal/ui/styles"
)

const (
	// MaxBars caps the rows shown in the primary visualization.
	MaxBars = 6

	// MaxSummaryCards caps the per-row cards shown for single-metric results.
	MaxSummaryCards = 3

	// MaxTableRows caps the raw-data table.
	MaxTableRows = 10

	// SegmentLabelThreshold is the fraction of a row's total below which a
	// segment keeps its color but drops its numeric label.
	SegmentLabelThreshold = 0.08

	// barWidth is the character budget for the widest bar.
	barWidth = 30
)

// MissingCell is rendered for absent values in the raw-data table.
const MissingCell = "—"

// =============================================================================
// RENDERER
// =============================================================================

// Renderer renders analytics payloads using a theme.
type Renderer struct {
	theme *styles.Theme
	width int
}

// New creates a renderer. Width bounds the widest line; zero means a
// sensible default.
func New(theme *styles.Theme, width int) *Renderer {
	if theme == nil {
		theme = styles.NewTheme()
	}
	if width <= 0 {
		width = 72
	}
	return &Renderer{theme: theme, width: width}
}

// =============================================================================
// ENTRY POINT
// =============================================================================

// Visual renders the primary visualization for a result: nothing for empty
// rows, a metric card, multi-metric cards, or a bar breakdown. Decision
// order matches the shape heuristics the analytics service assumes.
func (r *Renderer) Visual(rows *model.Table, chart *model.ChartRecommendation, grouping string) string {
	if rows.IsEmpty() {
		return ""
	}

	if chart.Is(model.ChartMetricCard) && rows.Len() == 1 && len(rows.Columns) == 1 {
		return r.metricCard(rows)
	}
	if chart.Is(model.ChartMultiMetricCard) && rows.Len() == 1 {
		return r.multiMetricCards(rows)
	}

	if len(rows.Columns) < 2 {
		return ""
	}
	return r.barBreakdown(rows, grouping)
}

// =============================================================================
// SHAPE ANALYSIS
// =============================================================================

// shape is the classified form of a tabular result: which column names the
// entities and which columns carry the numbers, decided from row 0.
type shape struct {
	entityCol   int
	numericCols []int
	valid       [][]any // rows that survived entity filtering
	grandTotal  float64 // across all valid rows, not just shown ones
}

// classify picks the entity column (first textual value in row 0, else
// column 0) and the numeric columns, then filters rows whose entity is
// missing or the literal "null".
func classify(rows *model.Table) shape {
	s := shape{entityCol: 0}

	found := false
	for i := range rows.Columns {
		v := rows.Cell(0, i)
		if !found && model.IsTextValue(v) {
			s.entityCol = i
			found = true
		}
		if model.IsNumericValue(v) {
			s.numericCols = append(s.numericCols, i)
		}
	}

	for _, row := range rows.Rows {
		entity := cellString(row, s.entityCol)
		if entity == "" || entity == "null" {
			continue
		}
		s.valid = append(s.valid, row)
		for _, c := range s.numericCols {
			if f, ok := model.AsFloat(cellAt(row, c)); ok {
				s.grandTotal += f
			}
		}
	}
	return s
}

// rowTotal sums a row's numeric columns.
func (s shape) rowTotal(row []any) float64 {
	var total float64
	for _, c := range s.numericCols {
		if f, ok := model.AsFloat(cellAt(row, c)); ok {
			total += f
		}
	}
	return total
}

// =============================================================================
// TITLES
// =============================================================================

// title picks the heading for a bar breakdown.
func title(grouping string, numericCount int) string {
	if g := strings.TrimSpace(grouping); g != "" {
		return "Performance by " + capitalize(g)
	}
	if numericCount > 1 {
		return "Alert Breakdown"
	}
	return "Results Summary"
}

// capitalize upper-cases the first rune only.
func capitalize(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}

// humanizeLabel turns a column name into a display label: common counter
// prefixes are stripped, underscores become spaces, words are capitalized.
// "total_alerts" becomes "Alerts".
func humanizeLabel(column string) string {
	name := strings.ToLower(column)
	for _, prefix := range []string{"total_", "num_", "count_"} {
		if trimmed := strings.TrimPrefix(name, prefix); trimmed != name && trimmed != "" {
			name = trimmed
			break
		}
	}

	words := strings.Split(name, "_")
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// =============================================================================
// CELL HELPERS
// =============================================================================

func cellAt(row []any, col int) any {
	if col < 0 || col >= len(row) {
		return nil
	}
	return row[col]
}

func cellString(row []any, col int) string {
	return strings.TrimSpace(model.FormatValue(cellAt(row, col)))
}
