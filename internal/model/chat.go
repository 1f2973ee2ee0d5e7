// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"time"
)

// DefaultTitle is the title of a chat that has no messages yet.
const DefaultTitle = "New Conversation"

// TitleMaxRunes is the truncation point for titles derived from the first
// user message.
const TitleMaxRunes = 40

// =============================================================================
// CHAT TYPE
// =============================================================================

// Chat holds one conversation thread with history and metadata.
//
// Invariants: Messages is in chronological insertion order and
// UpdatedAt >= CreatedAt. The title is derived from the first user message
// unless the chat is still empty.
type Chat struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Messages  []*Message `json:"messages"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// NewChat creates a new empty chat with a generated ID.
func NewChat() *Chat {
	now := time.Now()
	return &Chat{
		ID:        NewID(),
		Title:     DefaultTitle,
		Messages:  make([]*Message, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message and bumps UpdatedAt. The first message of a
// chat also sets the derived title.
func (c *Chat) AddMessage(msg *Message) {
	first := len(c.Messages) == 0
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	if first {
		c.Title = DeriveTitle(msg.Content)
	}
}

// HasMessage reports whether a message with the given ID is already present.
// Used to guard against duplicate appends if a completion path double-fires.
func (c *Chat) HasMessage(id string) bool {
	for _, m := range c.Messages {
		if m.ID == id {
			return true
		}
	}
	return false
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Chat) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// MessageCount returns the number of messages.
func (c *Chat) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Chat) IsEmpty() bool {
	return len(c.Messages) == 0
}

// =============================================================================
// HISTORY PAYLOAD
// =============================================================================

// TrailingHistory returns the last limit messages reduced to role/content
// pairs, oldest first. This bounds the context sent to the analytics API
// regardless of total chat length.
func (c *Chat) TrailingHistory(limit int) []HistoryEntry {
	msgs := c.Messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	history := make([]HistoryEntry, 0, len(msgs))
	for _, m := range msgs {
		history = append(history, HistoryEntry{Role: m.Role, Content: m.Content})
	}
	return history
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// DeriveTitle builds a chat title from the first user message: the first 40
// runes, with "..." appended when the content is longer.
func DeriveTitle(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return DefaultTitle
	}
	runes := []rune(content)
	if len(runes) <= TitleMaxRunes {
		return content
	}
	return string(runes[:TitleMaxRunes]) + "..."
}

// =============================================================================
// PRESENTATION HELPERS
// =============================================================================

// Preview returns a short preview of the latest message for the sidebar.
func (c *Chat) Preview() string {
	last := c.LastMessage()
	if last == nil {
		return "No messages yet"
	}
	return last.Preview(50)
}

// Clone creates a deep copy of the chat. Callers outside the session manager
// receive clones so the manager stays the only write path.
func (c *Chat) Clone() *Chat {
	clone := &Chat{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Messages:  make([]*Message, len(c.Messages)),
	}
	for i, msg := range c.Messages {
		msgCopy := *msg
		clone.Messages[i] = &msgCopy
	}
	return clone
}
