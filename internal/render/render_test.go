// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package render

import (
	"fmt"
	"strings"
	"testing"

	"github.com/fleetops/opspilot-tui/internal/model"
	"github.com/fleetops/opspilot-tui/internal/ui/styles"
)

func newTestRenderer() *Renderer {
	return New(styles.NewThemeWithMode(styles.ModeDark), 80)
}

func TestVisual_EmptyRowsRenderNothing(t *testing.T) {
	r := newTestRenderer()

	if out := r.Visual(nil, nil, ""); out != "" {
		t.Errorf("nil rows should render nothing, got %q", out)
	}
	if out := r.Visual(&model.Table{}, nil, ""); out != "" {
		t.Errorf("empty rows should render nothing, got %q", out)
	}
}

func TestVisual_MetricCard(t *testing.T) {
	r := newTestRenderer()
	rows := model.NewTable([]map[string]any{{"total_alerts": 120.0}})
	chart := &model.ChartRecommendation{ChartType: model.ChartMetricCard}

	out := r.Visual(rows, chart, "")
	if !strings.Contains(out, "120") {
		t.Errorf("metric card should show the value, got:\n%s", out)
	}
	if !strings.Contains(out, "Alerts") {
		t.Errorf("metric card label should be %q, got:\n%s", "Alerts", out)
	}
}

func TestVisual_MetricCardRequiresOneByOne(t *testing.T) {
	r := newTestRenderer()
	chart := &model.ChartRecommendation{ChartType: model.ChartMetricCard}

	// Two columns: the hint is ignored and the bar path takes over
	rows := model.NewTable([]map[string]any{{"transporter": "Acme", "total": 5.0}})
	out := r.Visual(rows, chart, "")
	if strings.Contains(out, "Alerts") {
		t.Errorf("1x2 shape must not render as a metric card:\n%s", out)
	}
}

func TestVisual_MultiMetricCards(t *testing.T) {
	r := newTestRenderer()
	rows := model.NewTable([]map[string]any{{
		"total_trips":    340.0,
		"total_delayed":  12.0,
		"depot":          "Chennai",
	}})
	chart := &model.ChartRecommendation{ChartType: model.ChartMultiMetricCard}

	out := r.Visual(rows, chart, "")
	if !strings.Contains(out, "340") || !strings.Contains(out, "12") {
		t.Errorf("cards should show both numeric values:\n%s", out)
	}
	// The textual column is ignored
	if strings.Contains(out, "Chennai") {
		t.Errorf("non-numeric columns must be ignored:\n%s", out)
	}
}

func TestVisual_BarBreakdownBasics(t *testing.T) {
	r := newTestRenderer()
	rows := model.NewTable([]map[string]any{
		{"transporter": "Acme", "stoppage_count": 10.0, "deviation_count": 5.0},
		{"transporter": "Beta", "stoppage_count": 4.0, "deviation_count": 2.0},
	})

	out := r.Visual(rows, nil, "transporter")
	if !strings.Contains(out, "Performance by Transporter") {
		t.Errorf("grouping title missing:\n%s", out)
	}
	if !strings.Contains(out, "Total: 21") {
		t.Errorf("grand total missing:\n%s", out)
	}
	if !strings.Contains(out, "Acme") || !strings.Contains(out, "Beta") {
		t.Errorf("entities missing:\n%s", out)
	}
	// Legend appears for multi-column results
	if !strings.Contains(out, "Stoppage Count") || !strings.Contains(out, "Deviation Count") {
		t.Errorf("legend missing:\n%s", out)
	}
}

func TestVisual_TitleFallbacks(t *testing.T) {
	r := newTestRenderer()

	multi := model.NewTable([]map[string]any{
		{"entity": "A", "x": 1.0, "y": 2.0},
	})
	if out := r.Visual(multi, nil, ""); !strings.Contains(out, "Alert Breakdown") {
		t.Errorf("multi-numeric fallback title missing:\n%s", out)
	}

	single := model.NewTable([]map[string]any{
		{"entity": "A", "x": 1.0},
	})
	if out := r.Visual(single, nil, ""); !strings.Contains(out, "Results Summary") {
		t.Errorf("single-numeric fallback title missing:\n%s", out)
	}
}

func TestVisual_ZeroSumRowStillRenders(t *testing.T) {
	r := newTestRenderer()
	rows := model.NewTable([]map[string]any{
		{"entity": "Busy", "a": 10.0, "b": 5.0},
		{"entity": "Idle", "a": 0.0, "b": 0.0},
		{"entity": "Mid", "a": 3.0, "b": 1.0},
	})

	out := r.Visual(rows, nil, "")
	if !strings.Contains(out, "Idle") {
		t.Errorf("zero-sum row must still render:\n%s", out)
	}
}

func TestVisual_CapsAtSixBarsWithFooter(t *testing.T) {
	r := newTestRenderer()

	records := make([]map[string]any, 0, 8)
	for i := 1; i <= 8; i++ {
		records = append(records, map[string]any{
			"entity": fmt.Sprintf("carrier%d", i),
			"a":      float64(i),
			"b":      float64(i * 2),
		})
	}
	rows := model.NewTable(records)

	out := r.Visual(rows, nil, "")
	for i := 1; i <= 6; i++ {
		if !strings.Contains(out, fmt.Sprintf("carrier%d", i)) {
			t.Errorf("carrier%d should be shown:\n%s", i, out)
		}
	}
	for i := 7; i <= 8; i++ {
		if strings.Contains(out, fmt.Sprintf("carrier%d", i)) {
			t.Errorf("carrier%d should be cut:\n%s", i, out)
		}
	}
	if !strings.Contains(out, "+2 more entries") {
		t.Errorf("footer missing:\n%s", out)
	}
}

func TestVisual_FiltersNullEntities(t *testing.T) {
	r := newTestRenderer()
	rows := model.NewTable([]map[string]any{
		{"entity": "Good", "a": 5.0},
		{"entity": "null", "a": 99.0},
		{"entity": nil, "a": 42.0},
	})

	out := r.Visual(rows, nil, "")
	if strings.Contains(out, "99") || strings.Contains(out, "42") {
		t.Errorf("null-entity rows must be filtered:\n%s", out)
	}
	if !strings.Contains(out, "Good") {
		t.Errorf("valid rows must survive filtering:\n%s", out)
	}
}

func TestVisual_SingleNumericShowsSummaryCards(t *testing.T) {
	r := newTestRenderer()
	rows := model.NewTable([]map[string]any{
		{"entity": "A", "trips": 60.0},
		{"entity": "B", "trips": 30.0},
		{"entity": "C", "trips": 10.0},
	})

	out := r.Visual(rows, nil, "")
	// 60 of 100 = 60.0%
	if !strings.Contains(out, "60.0%") {
		t.Errorf("summary card percentage missing:\n%s", out)
	}
	if !strings.Contains(out, "10.0%") {
		t.Errorf("third card should be present:\n%s", out)
	}
}

func TestVisual_SingleColumnWithoutHintRendersNothing(t *testing.T) {
	r := newTestRenderer()
	rows := model.NewTable([]map[string]any{{"total": 7.0}})

	if out := r.Visual(rows, nil, ""); out != "" {
		t.Errorf("one column without a card hint renders nothing, got:\n%s", out)
	}
}

// =============================================================================
// RAW TABLE TESTS
// =============================================================================

func TestRawTable_CapsAtTen(t *testing.T) {
	r := newTestRenderer()

	records := make([]map[string]any, 0, 14)
	for i := 1; i <= 14; i++ {
		records = append(records, map[string]any{"route": fmt.Sprintf("R%02d", i), "trips": float64(i)})
	}

	out := r.RawTable(model.NewTable(records))
	if !strings.Contains(out, "R10") {
		t.Errorf("tenth row should be shown:\n%s", out)
	}
	if strings.Contains(out, "R11") {
		t.Errorf("eleventh row should be cut:\n%s", out)
	}
	if !strings.Contains(out, "showing first 10 of 14") {
		t.Errorf("truncation footer missing:\n%s", out)
	}
}

func TestRawTable_NoFooterWhenComplete(t *testing.T) {
	r := newTestRenderer()
	rows := model.NewTable([]map[string]any{{"route": "R1", "trips": 1.0}})

	if out := r.RawTable(rows); strings.Contains(out, "showing first") {
		t.Errorf("untruncated table must not have a footer:\n%s", out)
	}
}

func TestRawTable_MissingCellsGetEmDash(t *testing.T) {
	r := newTestRenderer()
	rows := model.NewTable([]map[string]any{
		{"route": "R1", "eta": "08:00"},
		{"route": "R2", "eta": nil},
	})

	if out := r.RawTable(rows); !strings.Contains(out, MissingCell) {
		t.Errorf("missing cell should render as em-dash:\n%s", out)
	}
}

func TestRawTable_Empty(t *testing.T) {
	r := newTestRenderer()
	if out := r.RawTable(nil); out != "" {
		t.Errorf("empty table renders nothing, got %q", out)
	}
}

// =============================================================================
// LABEL TESTS
// =============================================================================

func TestHumanizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"total_alerts", "Alerts"},
		{"stoppage_count", "Stoppage Count"},
		{"num_breaches", "Breaches"},
		{"delayed", "Delayed"},
		{"total_", "Total "},
	}
	for _, tt := range tests {
		if got := humanizeLabel(tt.in); got != tt.want {
			t.Errorf("humanizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCapitalize(t *testing.T) {
	if got := capitalize("transporter"); got != "Transporter" {
		t.Errorf("capitalize = %q", got)
	}
	if got := capitalize(""); got != "" {
		t.Errorf("capitalize(empty) = %q", got)
	}
}
