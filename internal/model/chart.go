// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// CHART RECOMMENDATION
// =============================================================================

// ChartType identifies the visual encoding the analytics service recommends
// for a tabular result.
type ChartType string

const (
	ChartBar             ChartType = "bar"
	ChartHorizontalBar   ChartType = "horizontal_bar"
	ChartLine            ChartType = "line"
	ChartArea            ChartType = "area"
	ChartPie             ChartType = "pie"
	ChartDonut           ChartType = "donut"
	ChartStackedBar      ChartType = "stacked_bar"
	ChartHeatmap         ChartType = "heatmap"
	ChartScatter         ChartType = "scatter"
	ChartTableOnly       ChartType = "table_only"
	ChartMetricCard      ChartType = "metric_card"
	ChartMultiMetricCard ChartType = "multi_metric_card"
)

// ChartRecommendation is the service's hint for how tabular results should be
// visually encoded. A nil recommendation means the renderer falls back to
// shape-based heuristics.
type ChartRecommendation struct {
	ChartType  ChartType `json:"chart_type"`
	X          string    `json:"x,omitempty"`
	Y          string    `json:"y,omitempty"`
	YColumns   []string  `json:"y_columns,omitempty"`
	GroupBy    string    `json:"group_by,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
}

// Is reports whether the recommendation exists and names the given type.
func (c *ChartRecommendation) Is(t ChartType) bool {
	return c != nil && c.ChartType == t
}
