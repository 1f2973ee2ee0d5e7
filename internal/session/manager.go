// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session manages chat lifecycle: creation, selection, deletion,
// message flow against the analytics API, and persistence.
package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/fleetops/opspilot-tui/internal/analytics"
	"github.com/fleetops/opspilot-tui/internal/model"
	"github.com/fleetops/opspilot-tui/internal/store"
)

// ApologyMessage is shown as the assistant reply when a query fails for any
// reason. The user sees one uniform failure voice regardless of cause.
const ApologyMessage = "Sorry, I could not process your request. Please try again."

// NoSummaryFallback replaces an empty summary in an otherwise successful
// answer.
const NoSummaryFallback = "No summary returned."

// HistoryLimit bounds the context window sent with each query.
const HistoryLimit = 6

// ErrEmptyMessage is returned when a send carries only whitespace.
var ErrEmptyMessage = errors.New("message is empty")

// Querier is the analytics surface the manager needs. Satisfied by
// *analytics.Client; tests substitute fakes.
type Querier interface {
	Query(ctx context.Context, message string, history []model.HistoryEntry) (*analytics.ChatResponse, error)
}

// =============================================================================
// MANAGER
// =============================================================================

// Manager owns all chat state. Every mutation happens under the lock and is
// persisted before the lock is released, so the on-disk store always reflects
// the last completed mutation.
//
// The Manager is thread-safe. Callers receive clones of chats; the internal
// slice is never shared. There may be zero chats and no active chat; sending
// into the void creates a chat on demand.
type Manager struct {
	mu       sync.Mutex
	chats    []*model.Chat // newest first by creation
	activeID string
	pending  int // in-flight queries across all chats

	store  *store.Store
	client Querier
}

// NewManager loads persisted chats and returns a ready manager. A store read
// failure degrades to an empty history; it never blocks startup.
func NewManager(st *store.Store, client Querier) *Manager {
	m := &Manager{
		store:  st,
		client: client,
	}

	m.chats = store.Read(st, store.KeyChats, []*model.Chat(nil))
	if len(m.chats) > 0 {
		m.activeID = m.chats[0].ID
	}
	return m
}

// =============================================================================
// READ ACCESS
// =============================================================================

// Chats returns clones of all chats, newest first by creation. Sending into
// a chat never reorders the list; only creation inserts at the head.
func (m *Manager) Chats() []*model.Chat {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*model.Chat, len(m.chats))
	for i, c := range m.chats {
		out[i] = c.Clone()
	}
	return out
}

// Active returns a clone of the active chat, or nil when there is none.
func (m *Manager) Active() *model.Chat {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c := m.findLocked(m.activeID); c != nil {
		return c.Clone()
	}
	return nil
}

// ActiveID returns the ID of the active chat, or "" when there is none.
func (m *Manager) ActiveID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID
}

// Composing reports whether any query is still in flight. It stays true
// until every outstanding send has completed, so overlapping sends cannot
// clear each other's indicator.
func (m *Manager) Composing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending > 0
}

// Count returns the number of chats.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.chats)
}

// =============================================================================
// CHAT LIFECYCLE
// =============================================================================

// NewChat creates an empty chat, makes it active, and returns a clone.
func (m *Manager) NewChat() *model.Chat {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := model.NewChat()
	m.chats = append([]*model.Chat{c}, m.chats...)
	m.activeID = c.ID
	m.persistLocked()
	return c.Clone()
}

// Select makes the named chat active. Unknown IDs are ignored.
func (m *Manager) Select(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findLocked(id) != nil {
		m.activeID = id
	}
}

// Delete removes a chat. Unknown IDs are ignored. Deleting the active chat
// promotes the head of the remaining list; deleting the last chat leaves no
// active chat.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := -1
	for i, c := range m.chats {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}

	m.chats = append(m.chats[:idx], m.chats[idx+1:]...)
	if m.activeID == id {
		m.activeID = ""
		if len(m.chats) > 0 {
			m.activeID = m.chats[0].ID
		}
	}
	m.persistLocked()
}

// =============================================================================
// MESSAGE FLOW
// =============================================================================

// Send starts a message round trip. The user message is appended (and
// persisted) before Send returns, so the UI can render it immediately. The
// returned func performs the blocking query and appends the assistant reply;
// run it on a worker goroutine (a tea.Cmd in the TUI, inline in the CLI).
//
// An empty or unknown chatID targets a brand-new chat, which becomes active.
// The resolved chat ID is returned so callers can correlate the completion.
func (m *Manager) Send(chatID, content string) (string, func(ctx context.Context) error, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", nil, ErrEmptyMessage
	}

	m.mu.Lock()
	chat := m.findLocked(chatID)
	if chat == nil {
		chat = model.NewChat()
		m.chats = append([]*model.Chat{chat}, m.chats...)
		m.activeID = chat.ID
	}

	chat.AddMessage(model.NewUserMessage(content))
	m.pending++
	history := chat.TrailingHistory(HistoryLimit)
	id := chat.ID
	replyID := model.NewID() // fixed per send, so a double-fired completion is detectable
	m.persistLocked()
	m.mu.Unlock()

	run := func(ctx context.Context) error {
		resp, err := m.client.Query(ctx, content, history)
		m.complete(id, replyID, resp, err)
		return err
	}
	return id, run, nil
}

// SendAndWait is the synchronous form used by the CLI: it runs the full
// round trip and returns the chat ID the reply landed in.
func (m *Manager) SendAndWait(ctx context.Context, chatID, content string) (string, error) {
	id, run, err := m.Send(chatID, content)
	if err != nil {
		return "", err
	}
	return id, run(ctx)
}

// complete resolves the target chat by ID against current state and appends
// the assistant reply. If the chat was deleted while the query was in flight
// the reply is dropped; the composing counter still winds down. The reply id
// is fixed at Send time, so a completion that fires twice appends only once.
func (m *Manager) complete(chatID, replyID string, resp *analytics.ChatResponse, qerr error) {
	if qerr != nil {
		log.Printf("query failed for chat %s: %v", chatID, qerr)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.pending > 0 {
		m.pending--
	}

	chat := m.findLocked(chatID)
	if chat == nil || chat.HasMessage(replyID) {
		return
	}

	reply := buildReply(resp, qerr)
	reply.ID = replyID
	chat.AddMessage(reply)
	m.persistLocked()
}

// buildReply turns a query outcome into the assistant message to append.
// Failures get the fixed apology with no auxiliary fields.
func buildReply(resp *analytics.ChatResponse, qerr error) *model.Message {
	if qerr != nil || resp == nil {
		return model.NewAssistantMessage(ApologyMessage)
	}

	summary := strings.TrimSpace(resp.Summary)
	if summary == "" {
		summary = NoSummaryFallback
	}

	msg := model.NewAssistantMessage(summary)
	msg.Metrics = resp.Metrics
	msg.TimeRange = resp.TimeRange
	msg.Grouping = resp.Grouping
	msg.RawAnswer = resp.InsightSummary
	if msg.RawAnswer == "" {
		msg.RawAnswer = resp.RawAnswer
	}
	msg.Chart = resp.Chart
	if resp.RawRows != nil && !resp.RawRows.IsEmpty() {
		msg.Rows = resp.RawRows
	}
	return msg
}

// =============================================================================
// INTERNAL HELPERS
// =============================================================================

// findLocked returns the chat with the given ID, or nil. Callers hold mu.
func (m *Manager) findLocked(id string) *model.Chat {
	if id == "" {
		return nil
	}
	for _, c := range m.chats {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// persistLocked writes the full chat list to the store. Persistence failures
// are swallowed; losing a save must never take down the session. Callers
// hold mu.
func (m *Manager) persistLocked() {
	if m.store == nil {
		return
	}
	_ = store.Write(m.store, store.KeyChats, m.chats)
}
