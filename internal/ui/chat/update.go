// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fleetops/opspilot-tui/internal/render"
	"github.com/fleetops/opspilot-tui/internal/store"
	"github.com/fleetops/opspilot-tui/internal/ui/styles"
)

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all Bubble Tea messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layout()
		m.refreshViewport()
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SendCompleteMsg:
		// The manager already appended the reply; index it and redraw
		m.indexLatest(msg.ChatID)
		if msg.ChatID == m.manager.ActiveID() {
			m.refreshViewport()
			m.viewport.GotoBottom()
		}
		if msg.Err != nil {
			m.status = "Query failed"
			cmds = append(cmds, clearStatusAfter(4*time.Second))
		}
		return m, tea.Batch(cmds...)

	case ConfigReloadedMsg:
		if msg.SidebarWidth > 0 {
			m.sidebarWidth = msg.SidebarWidth
		}
		m.showSuggestions = msg.ShowSuggestions
		m.layout()
		m.refreshViewport()
		return m, nil

	case statusClearMsg:
		m.status = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Delete confirmation intercepts everything
	if m.confirmDelete {
		switch msg.String() {
		case "y", "Y":
			m.confirmDelete = false
			return m.deleteSelected()
		default:
			m.confirmDelete = false
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.ToggleFocus):
		if m.focus == focusInput {
			m.focus = focusSidebar
			m.input.Blur()
		} else {
			m.focus = focusInput
			m.input.Focus()
		}
		return m, nil

	case key.Matches(msg, m.keys.NewChat):
		m.manager.NewChat()
		m.cursor = 0
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keys.DeleteChat):
		if m.manager.Count() > 0 {
			m.confirmDelete = true
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleRaw):
		m.showRaw = !m.showRaw
		m.refreshViewport()
		return m, nil

	case key.Matches(msg, m.keys.ToggleTheme):
		return m.toggleTheme()

	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.ViewUp()
		return m, nil

	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.ViewDown()
		return m, nil
	}

	if m.focus == focusSidebar {
		return m.handleSidebarKey(msg)
	}
	return m.handleInputKey(msg)
}

// handleSidebarKey navigates and selects chats.
func (m Model) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	chats := m.manager.Chats()

	switch {
	case key.Matches(msg, m.keys.PrevChat):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.NextChat):
		if m.cursor < len(chats)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Send):
		if m.cursor < len(chats) {
			m.manager.Select(chats[m.cursor].ID)
			m.focus = focusInput
			m.input.Focus()
			m.refreshViewport()
			m.viewport.GotoBottom()
		}
	}
	return m, nil
}

// handleInputKey types into the input box and sends on enter. Digit keys on
// an empty input pick a quick suggestion.
func (m Model) handleInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Send) {
		return m.send(m.input.Value())
	}

	// Quick suggestion shortcuts only make sense on a blank slate
	if m.showSuggestions && m.input.Value() == "" && m.activeIsEmpty() {
		if s := msg.String(); len(s) == 1 && s >= "1" && s <= "9" {
			n := int(s[0] - '1')
			if n < len(QuickSuggestions) {
				return m.send(QuickSuggestions[n])
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// =============================================================================
// ACTIONS
// =============================================================================

// send kicks off a message round trip on the active chat.
func (m Model) send(content string) (tea.Model, tea.Cmd) {
	id, run, err := m.manager.Send(m.manager.ActiveID(), content)
	if err != nil {
		// Whitespace-only input is dropped silently
		return m, nil
	}

	m.input.Reset()
	m.indexLatest(id)
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, tea.Batch(sendCmd(id, run), m.spinner.Tick)
}

// deleteSelected removes the chat under the sidebar cursor (or the active
// chat when the input pane has focus).
func (m Model) deleteSelected() (tea.Model, tea.Cmd) {
	chats := m.manager.Chats()
	target := m.manager.ActiveID()
	if m.focus == focusSidebar && m.cursor < len(chats) {
		target = chats[m.cursor].ID
	}
	if target == "" {
		return m, nil
	}

	m.manager.Delete(target)
	if m.index != nil {
		_ = m.index.RemoveChat(target)
	}
	if m.cursor >= m.manager.Count() && m.cursor > 0 {
		m.cursor--
	}
	m.refreshViewport()
	return m, nil
}

// toggleTheme flips dark/light, persists the choice, and rebuilds every
// style-dependent component.
func (m Model) toggleTheme() (tea.Model, tea.Cmd) {
	mode := styles.ModeDark
	if m.theme.IsDark {
		mode = styles.ModeLight
	}

	m.theme = styles.NewThemeWithMode(mode)
	m.renderer = render.New(m.theme, m.contentWidth())
	m.spinner.Style = m.theme.Spinner
	m.input.PromptStyle = m.theme.InputPrompt
	m.input.PlaceholderStyle = m.theme.InputPlaceholder
	_ = store.Write(m.store, store.KeyTheme, mode)

	m.refreshViewport()
	return m, nil
}

// =============================================================================
// HELPERS
// =============================================================================

// layout recomputes pane sizes after a resize.
func (m *Model) layout() {
	contentWidth := m.contentWidth()
	contentHeight := m.height - 5 // header, input, status
	if contentHeight < 3 {
		contentHeight = 3
	}

	if !m.ready {
		m.viewport = viewport.New(contentWidth, contentHeight)
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = contentHeight
	}
	m.input.Width = contentWidth - 4
	m.renderer = render.New(m.theme, contentWidth)
}

// contentWidth is the width of the message pane.
func (m *Model) contentWidth() int {
	w := m.width - m.sidebarWidth - 3
	if w < 20 {
		w = 20
	}
	return w
}

// activeIsEmpty reports whether there is no active chat or it has no
// messages.
func (m *Model) activeIsEmpty() bool {
	active := m.manager.Active()
	return active == nil || active.IsEmpty()
}

// refreshViewport rebuilds the message pane content.
func (m *Model) refreshViewport() {
	m.viewport.SetContent(m.renderMessages())
}

// indexLatest mirrors the newest message of a chat into the search index.
func (m *Model) indexLatest(chatID string) {
	if m.index == nil {
		return
	}
	for _, c := range m.manager.Chats() {
		if c.ID == chatID {
			if last := c.LastMessage(); last != nil {
				_ = m.index.AddMessage(c, last)
			}
			return
		}
	}
}
