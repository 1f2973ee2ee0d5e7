// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the OpsPilot TUI.
// All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// PRIMARY ACCENT COLORS
// =============================================================================

// Indigo - Primary accent, assistant messages, selections
var Indigo = lipgloss.AdaptiveColor{Light: "#4F46E5", Dark: "#818CF8"}

// Cyan - Brand color, info, user highlights
var Cyan = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}

// Emerald - Success states, on-time indicators
var Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}

// =============================================================================
// SEMANTIC COLORS
// =============================================================================

// Rose - Errors, SLA breaches, danger states
var Rose = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}

// Amber - Warnings, stoppages, caution states
var Amber = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}

// Violet - Route deviations
var Violet = lipgloss.AdaptiveColor{Light: "#7C3AED", Dark: "#A78BFA"}

// =============================================================================
// SURFACE COLORS
// =============================================================================

// Surface - Main background
var Surface = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1E1E2E"}

// SurfaceDim - Slightly darker/lighter surface for headers/footers
var SurfaceDim = lipgloss.AdaptiveColor{Light: "#F5F5F5", Dark: "#181825"}

// Overlay - Borders, separators, subtle backgrounds
var Overlay = lipgloss.AdaptiveColor{Light: "#E5E5E5", Dark: "#313244"}

// =============================================================================
// TEXT COLORS
// =============================================================================

// TextPrimary - Main body text
var TextPrimary = lipgloss.AdaptiveColor{Light: "#1F2937", Dark: "#CDD6F4"}

// TextSecondary - Labels, less prominent text
var TextSecondary = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}

// TextMuted - Hints, timestamps, very subtle text
var TextMuted = lipgloss.AdaptiveColor{Light: "#9CA3AF", Dark: "#6C7086"}

// =============================================================================
// MESSAGE BUBBLE COLORS
// =============================================================================

// User message bubble - Blue tones
var UserBubbleBg = lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1D4ED8"}
var UserBubbleFg = lipgloss.AdaptiveColor{Light: "#1E40AF", Dark: "#E0F2FE"}
var UserBubbleBorder = lipgloss.AdaptiveColor{Light: "#3B82F6", Dark: "#3B82F6"}

// Assistant message bubble - Soft indigo tones (muted, not saturated)
var AssistantBubbleBg = lipgloss.AdaptiveColor{Light: "#EEF2FF", Dark: "#343A55"}
var AssistantBubbleFg = lipgloss.AdaptiveColor{Light: "#3730A3", Dark: "#E0E7FF"}
var AssistantBubbleBorder = lipgloss.AdaptiveColor{Light: "#A5B4FC", Dark: "#818CF8"}

// =============================================================================
// CHART COLORS
// =============================================================================

// ChartPalette is the rotating fallback palette for chart segments. A column
// that matches no semantic rule gets ChartPalette[index % len(ChartPalette)].
var ChartPalette = []lipgloss.AdaptiveColor{
	{Light: "#2563EB", Dark: "#60A5FA"}, // blue
	{Light: "#0D9488", Dark: "#2DD4BF"}, // teal
	{Light: "#C026D3", Dark: "#E879F9"}, // fuchsia
	{Light: "#EA580C", Dark: "#FB923C"}, // orange
	{Light: "#65A30D", Dark: "#A3E635"}, // lime
	{Light: "#0284C7", Dark: "#38BDF8"}, // sky
}

// segmentRules map operational column-name substrings to semantic colors.
// Rules are evaluated in order; the first match wins.
var segmentRules = []struct {
	pattern string
	color   lipgloss.AdaptiveColor
}{
	{"stoppage", Amber},
	{"deviation", Violet},
	{"breach", Rose},
}

// SegmentColor assigns a deterministic color to a chart column. Recognized
// operational column names get semantic colors; everything else rotates
// through the palette by column index.
func SegmentColor(column string, index int) lipgloss.AdaptiveColor {
	name := strings.ToLower(column)
	for _, rule := range segmentRules {
		if strings.Contains(name, rule.pattern) {
			return rule.color
		}
	}
	return ChartPalette[index%len(ChartPalette)]
}
