// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Mode names persisted in the store. Anything else means "follow the
// terminal".
const (
	ModeDark  = "dark"
	ModeLight = "light"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	BubbleMeta      lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar          lipgloss.Style
	ChatItem         lipgloss.Style
	ChatItemSelected lipgloss.Style
	ChatTitle        lipgloss.Style
	ChatPreview      lipgloss.Style
	ChatMeta         lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// CHART STYLES
	// ==========================================================================

	ChartTitle      lipgloss.Style
	ChartTotal      lipgloss.Style
	ChartLegend     lipgloss.Style
	ChartEntity     lipgloss.Style
	ChartFooter     lipgloss.Style
	MetricCard      lipgloss.Style
	MetricValue     lipgloss.Style
	MetricLabel     lipgloss.Style
	SummaryCard     lipgloss.Style
	TableHeader     lipgloss.Style
	TableCell       lipgloss.Style
	TableFooter     lipgloss.Style

	// ==========================================================================
	// STATUS STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
	ErrorText    lipgloss.Style
	Suggestion   lipgloss.Style
	ConfirmBox   lipgloss.Style
}

// NewTheme creates a theme following the terminal's detected background.
func NewTheme() *Theme {
	return NewThemeWithMode("")
}

// NewThemeWithMode creates a theme with an explicit dark/light override.
// The persisted theme flag wins over terminal detection so the choice
// survives restarts on terminals that misreport their background.
func NewThemeWithMode(mode string) *Theme {
	colorProfile := termenv.ColorProfile()
	isDark := termenv.HasDarkBackground()
	switch mode {
	case ModeDark:
		isDark = true
	case ModeLight:
		isDark = false
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// Mode returns the persistable name of the theme's current mode.
func (t *Theme) Mode() string {
	if t.IsDark {
		return ModeDark
	}
	return ModeLight
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	// Message bubbles
	t.UserBubble = lipgloss.NewStyle().
		Foreground(UserBubbleFg).
		Background(UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(UserBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(AssistantBubbleFg).
		Background(AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(AssistantBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.BubbleMeta = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.ChatItem = lipgloss.NewStyle().
		Padding(0, 1)

	t.ChatItemSelected = lipgloss.NewStyle().
		Padding(0, 1).
		Bold(true).
		Foreground(Cyan).
		Background(SurfaceDim)

	t.ChatTitle = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ChatPreview = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ChatMeta = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Charts
	t.ChartTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.ChartTotal = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ChartLegend = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ChartEntity = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ChartFooter = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.MetricCard = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Indigo).
		Padding(0, 3).
		Align(lipgloss.Center)

	t.MetricValue = lipgloss.NewStyle().
		Bold(true).
		Foreground(Indigo)

	t.MetricLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.SummaryCard = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 2)

	t.TableHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextSecondary)

	t.TableCell = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.TableFooter = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Status
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.Spinner = lipgloss.NewStyle().
		Foreground(Indigo)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.ErrorText = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.Suggestion = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.ConfirmBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Rose).
		Padding(0, 2)
}
