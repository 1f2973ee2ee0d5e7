// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/fleetops/opspilot-tui/internal/model"
	"github.com/fleetops/opspilot-tui/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the full interface.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.theme.Header.Width(m.width).Render("OpsPilot  Logistics Copilot")

	body := lipgloss.JoinHorizontal(
		lipgloss.Top,
		m.renderSidebar(),
		m.viewport.View(),
	)

	var sections []string
	sections = append(sections, header, body)

	if m.confirmDelete {
		sections = append(sections, m.theme.ConfirmBox.Render("Delete this chat? (y/n)"))
	}

	sections = append(sections, m.renderInput(), m.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// =============================================================================
// SIDEBAR
// =============================================================================

// renderSidebar lists chats newest first with title, preview, and a
// friendly timestamp.
func (m Model) renderSidebar() string {
	chats := m.manager.Chats()
	activeID := m.manager.ActiveID()
	innerWidth := m.sidebarWidth - 4

	var b strings.Builder
	b.WriteString(m.theme.ChatTitle.Bold(true).Render("Chats"))
	b.WriteString("\n\n")

	if len(chats) == 0 {
		b.WriteString(m.theme.ChatPreview.Render("No chats yet"))
		b.WriteString("\n")
		b.WriteString(m.theme.ChatMeta.Render("ctrl+n to start"))
	}

	for i, c := range chats {
		style := m.theme.ChatItem
		marker := "  "
		if m.focus == focusSidebar && i == m.cursor {
			style = m.theme.ChatItemSelected
			marker = "> "
		} else if c.ID == activeID {
			marker = "* "
		}

		title := util.TruncateWidth(c.Title, innerWidth-2)
		preview := util.TruncateWidth(c.Preview(), innerWidth)

		b.WriteString(style.Render(marker + title))
		b.WriteString("\n")
		b.WriteString(m.theme.ChatPreview.Render("  " + preview))
		b.WriteString("\n")
		b.WriteString(m.theme.ChatMeta.Render("  " + friendlyTime(c.UpdatedAt)))
		b.WriteString("\n\n")
	}

	height := m.viewport.Height
	return m.theme.Sidebar.Width(m.sidebarWidth).Height(height).Render(b.String())
}

// friendlyTime formats a timestamp the way the sidebar shows activity:
// clock time for today, "Yesterday", else a short date.
func friendlyTime(t time.Time) string {
	now := time.Now()
	y, mo, d := now.Date()
	today := time.Date(y, mo, d, 0, 0, 0, 0, now.Location())

	switch {
	case t.After(today) || t.Equal(today):
		return "Today " + t.Format("15:04")
	case t.After(today.AddDate(0, 0, -1)):
		return "Yesterday " + t.Format("15:04")
	default:
		return t.Format("Jan 2")
	}
}

// =============================================================================
// MESSAGE PANE
// =============================================================================

// renderMessages builds the viewport content for the active chat.
func (m Model) renderMessages() string {
	active := m.manager.Active()
	if active == nil || active.IsEmpty() {
		return m.renderEmptyState()
	}

	bubbleWidth := m.contentWidth() * 3 / 4
	if bubbleWidth < 20 {
		bubbleWidth = 20
	}

	var b strings.Builder
	for _, msg := range active.Messages {
		b.WriteString(m.renderMessage(msg, bubbleWidth))
		b.WriteString("\n")
	}

	if m.manager.Composing() {
		b.WriteString(m.spinner.View())
		b.WriteString(m.theme.ThinkingText.Render(" Copilot is thinking..."))
		b.WriteString("\n")
	}
	return b.String()
}

// renderMessage renders one bubble plus any analytics blocks beneath it.
func (m Model) renderMessage(msg *model.Message, bubbleWidth int) string {
	var b strings.Builder

	meta := msg.Role.DisplayName() + "  " + msg.Timestamp.Format("15:04")
	b.WriteString(m.theme.BubbleMeta.Render(meta))
	b.WriteString("\n")

	bubble := m.theme.AssistantBubble
	if msg.Role == model.RoleUser {
		bubble = m.theme.UserBubble
	}
	b.WriteString(bubble.MaxWidth(bubbleWidth).Render(msg.Content))
	b.WriteString("\n")

	if msg.Role == model.RoleAssistant {
		if visual := m.renderer.Visual(msg.Rows, msg.Chart, msg.Grouping); visual != "" {
			b.WriteString(visual)
			b.WriteString("\n")
		}
		if msg.HasRows() {
			if m.showRaw {
				b.WriteString(m.renderer.RawTable(msg.Rows))
				b.WriteString("\n")
			} else {
				hint := fmt.Sprintf("ctrl+r to view raw data (%d rows)", msg.Rows.Len())
				b.WriteString(m.theme.ChartFooter.Render(hint))
				b.WriteString("\n")
			}
		}
		if tr := msg.TimeRange; tr != nil {
			b.WriteString(m.theme.BubbleMeta.Render("Period: " + tr.From + " to " + tr.To))
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderEmptyState shows the blank-chat welcome with quick suggestions.
func (m Model) renderEmptyState() string {
	var b strings.Builder
	b.WriteString(m.theme.HeaderTitle.Render("Ask anything about your fleet"))
	b.WriteString("\n\n")

	if !m.showSuggestions {
		return b.String()
	}

	b.WriteString(m.theme.ChatPreview.Render("Try one of these (press the number):"))
	b.WriteString("\n")
	for i, s := range QuickSuggestions {
		b.WriteString(m.theme.Suggestion.Render(fmt.Sprintf("%d. %s", i+1, s)))
		b.WriteString("\n")
	}
	return b.String()
}

// =============================================================================
// INPUT AND STATUS
// =============================================================================

func (m Model) renderInput() string {
	return m.theme.InputContainer.Width(m.width).Render(m.input.View())
}

func (m Model) renderStatusBar() string {
	left := fmt.Sprintf("%d chats", m.manager.Count())
	if m.manager.Composing() {
		left += "  thinking..."
	}
	if m.status != "" {
		left += "  " + m.theme.ErrorText.Render(m.status)
	}

	help := "tab focus  ctrl+n new  ctrl+d delete  ctrl+r raw  ctrl+t theme  ctrl+c quit"
	gap := m.width - lipgloss.Width(left) - lipgloss.Width(help) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Width(m.width).Render(left + strings.Repeat(" ", gap) + help)
}
