// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines the Bubble Tea message types used by the chat interface.
// All message types follow Bubble Tea conventions and are immutable.
package chat

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// SEND MESSAGES
// =============================================================================

// SendCompleteMsg signals that a query round trip finished. The assistant
// reply (or apology) has already been appended by the session manager; the
// UI only needs to refresh. ChatID identifies which chat completed so the
// view can skip redraws for background chats.
type SendCompleteMsg struct {
	ChatID string
	Err    error
}

// sendCmd wraps the manager's run func as a command.
func sendCmd(chatID string, run func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		err := run(context.Background())
		return SendCompleteMsg{ChatID: chatID, Err: err}
	}
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ConfigReloadedMsg delivers a hot-reloaded configuration.
type ConfigReloadedMsg struct {
	SidebarWidth    int
	ShowSuggestions bool
}

// =============================================================================
// UI STATE MESSAGES
// =============================================================================

// statusClearMsg clears the transient status line.
type statusClearMsg struct{}

// clearStatusAfter schedules the status line to clear.
func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return statusClearMsg{}
	})
}
