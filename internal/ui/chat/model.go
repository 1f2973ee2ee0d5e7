// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fleetops/opspilot-tui/internal/config"
	"github.com/fleetops/opspilot-tui/internal/render"
	"github.com/fleetops/opspilot-tui/internal/search"
	"github.com/fleetops/opspilot-tui/internal/session"
	"github.com/fleetops/opspilot-tui/internal/store"
	"github.com/fleetops/opspilot-tui/internal/ui/styles"
)

// focusArea identifies which pane receives key input.
type focusArea int

const (
	focusInput focusArea = iota
	focusSidebar
)

// QuickSuggestions are the starter questions shown on an empty chat.
var QuickSuggestions = []string{
	"Show me delayed trips for the last 7 days",
	"Which transporter has the most SLA breaches?",
	"Alert breakdown by depot for yesterday",
	"How many trips are in transit right now?",
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat interface.
type Model struct {
	manager  *session.Manager
	index    *search.Index
	store    *store.Store
	theme    *styles.Theme
	renderer *render.Renderer
	keys     KeyMap

	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model

	width  int
	height int
	ready  bool

	focus           focusArea
	cursor          int // sidebar selection
	confirmDelete   bool
	showRaw         bool
	sidebarWidth    int
	showSuggestions bool
	status          string
}

// New creates the chat model. The search index may be nil; search is then
// simply unavailable.
func New(mgr *session.Manager, ix *search.Index, st *store.Store, cfg *config.Config) Model {
	mode := store.Read(st, store.KeyTheme, cfg.UI.Theme)
	theme := styles.NewThemeWithMode(mode)

	input := textinput.New()
	input.Placeholder = "Ask about trips, delays, alerts..."
	input.Prompt = "> "
	input.PromptStyle = theme.InputPrompt
	input.PlaceholderStyle = theme.InputPlaceholder
	input.CharLimit = 2000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return Model{
		manager:         mgr,
		index:           ix,
		store:           st,
		theme:           theme,
		renderer:        render.New(theme, 72),
		keys:            DefaultKeyMap(),
		input:           input,
		spinner:         sp,
		sidebarWidth:    cfg.UI.SidebarWidth,
		showSuggestions: cfg.UI.ShowSuggestions,
	}
}

// Init starts the spinner tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}
