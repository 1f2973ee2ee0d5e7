// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fleetops/opspilot-tui/internal/model"
	"github.com/fleetops/opspilot-tui/internal/util"
)

// =============================================================================
// METRIC CARDS
// =============================================================================

// metricCard renders a 1x1 result as a single large labeled value.
func (r *Renderer) metricCard(rows *model.Table) string {
	value := model.FormatValue(rows.Cell(0, 0))
	label := humanizeLabel(rows.Columns[0])

	card := r.theme.MetricValue.Render(value) + "\n" + r.theme.MetricLabel.Render(label)
	return r.theme.MetricCard.Render(card)
}

// multiMetricCards renders a single-row result as one card per numeric
// column. Non-numeric columns are ignored.
func (r *Renderer) multiMetricCards(rows *model.Table) string {
	cards := make([]string, 0, len(rows.Columns))
	for i, col := range rows.Columns {
		v := rows.Cell(0, i)
		if !model.IsNumericValue(v) {
			continue
		}
		card := r.theme.MetricValue.Render(model.FormatValue(v)) + "\n" +
			r.theme.MetricLabel.Render(humanizeLabel(col))
		cards = append(cards, r.theme.MetricCard.Render(card))
	}
	if len(cards) == 0 {
		return ""
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

// =============================================================================
// SUMMARY CARDS
// =============================================================================

// summaryCards renders up to three cards for the leading rows of a
// single-metric result: entity, value, and share of the grand total.
func (r *Renderer) summaryCards(rows *model.Table, s shape) string {
	if len(s.valid) == 0 {
		return ""
	}

	top := s.valid
	if len(top) > MaxSummaryCards {
		top = top[:MaxSummaryCards]
	}

	col := s.numericCols[0]
	cards := make([]string, 0, len(top))
	for _, row := range top {
		value, _ := model.AsFloat(cellAt(row, col))

		share := ""
		if s.grandTotal > 0 {
			share = util.FormatPercent(value / s.grandTotal)
		}

		var b strings.Builder
		b.WriteString(r.theme.ChartEntity.Render(cellString(row, s.entityCol)))
		b.WriteString("\n")
		b.WriteString(r.theme.MetricValue.Render(model.FormatValue(value)))
		if share != "" {
			b.WriteString(r.theme.MetricLabel.Render(" " + share + " of total"))
		}
		cards = append(cards, r.theme.SummaryCard.Render(b.String()))
	}
	return "\n" + lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}
