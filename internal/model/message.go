// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Copilot"
	default:
		return string(r)
	}
}

// =============================================================================
// SUPPORTING TYPES
// =============================================================================

// Metric is one per-entity summary row returned by the analytics service.
type Metric struct {
	Entity   string  `json:"entity"`
	Total    float64 `json:"total"`
	Delayed  float64 `json:"delayed"`
	DelayPct float64 `json:"delay_pct"`
}

// TimeRange is the period an analytics answer covers. Bounds are kept as the
// ISO strings the service returns; they are display-only.
type TimeRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// HistoryEntry is one turn of bounded context sent to the analytics API.
type HistoryEntry struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a chat.
//
// Only assistant messages carry the analytics fields (Metrics, TimeRange,
// Grouping, RawAnswer, Rows, Chart); for user messages they are always zero.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content is the natural-language text shown in the bubble.
	Content string `json:"content"`

	// Analytics payload (assistant messages only)
	Metrics   []Metric             `json:"metrics,omitempty"`
	TimeRange *TimeRange           `json:"time_range,omitempty"`
	Grouping  string               `json:"grouping,omitempty"`
	RawAnswer string               `json:"raw_answer,omitempty"`
	Rows      *Table               `json:"raw_rows,omitempty"`
	Chart     *ChartRecommendation `json:"chart,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        NewID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) *Message {
	return NewMessage(RoleAssistant, content)
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// HasRows reports whether the message carries a non-empty tabular payload.
func (m *Message) HasRows() bool {
	return m.Rows != nil && !m.Rows.IsEmpty()
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// NewID creates a unique opaque identifier. Callers that need to correlate a
// message across an async boundary can allocate the id up front.
func NewID() string {
	return uuid.NewString()
}
