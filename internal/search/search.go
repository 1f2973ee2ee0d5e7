// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package search provides full-text search over chat messages.
//
// Messages are mirrored into a local SQLite database so the /search command
// stays fast even with a long chat history. The index is rebuilt from the
// chat list at startup; it is a cache, never the source of truth.
package search

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/fleetops/opspilot-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrClosed     = errors.New("search index is closed")
	ErrEmptyQuery = errors.New("search query is empty")
)

// =============================================================================
// INDEX
// =============================================================================

// Index is a SQLite-backed message search index.
type Index struct {
	db *sql.DB
}

// Hit is one search result.
type Hit struct {
	ChatID    string
	ChatTitle string
	MessageID string
	Role      model.Role
	Snippet   string
}

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	message_id TEXT PRIMARY KEY,
	chat_id    TEXT NOT NULL,
	chat_title TEXT NOT NULL,
	role       TEXT NOT NULL,
	content    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_messages_chat ON messages(chat_id);
`

// Open creates or opens the search index at the given path.
func Open(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open index database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Index{db: db}, nil
}

// Close releases the database handle.
func (ix *Index) Close() error {
	if ix.db == nil {
		return nil
	}
	err := ix.db.Close()
	ix.db = nil
	return err
}

// =============================================================================
// MUTATION
// =============================================================================

// Rebuild replaces the whole index with the given chat list. Called at
// startup so deletions that happened outside the index are reconciled.
func (ix *Index) Rebuild(chats []*model.Chat) error {
	if ix.db == nil {
		return ErrClosed
	}

	tx, err := ix.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM messages"); err != nil {
		return err
	}
	for _, chat := range chats {
		for _, msg := range chat.Messages {
			if err := insertMessage(tx, chat, msg); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// AddMessage indexes one message.
func (ix *Index) AddMessage(chat *model.Chat, msg *model.Message) error {
	if ix.db == nil {
		return ErrClosed
	}
	tx, err := ix.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := insertMessage(tx, chat, msg); err != nil {
		return err
	}
	return tx.Commit()
}

// RemoveChat drops every message belonging to a chat.
func (ix *Index) RemoveChat(chatID string) error {
	if ix.db == nil {
		return ErrClosed
	}
	_, err := ix.db.Exec("DELETE FROM messages WHERE chat_id = ?", chatID)
	return err
}

func insertMessage(tx *sql.Tx, chat *model.Chat, msg *model.Message) error {
	_, err := tx.Exec(`
		INSERT OR REPLACE INTO messages (message_id, chat_id, chat_title, role, content)
		VALUES (?, ?, ?, ?, ?)
	`, msg.ID, chat.ID, chat.Title, string(msg.Role), msg.Content)
	return err
}

// =============================================================================
// QUERY
// =============================================================================

// Search returns messages whose content contains the query, newest insertion
// first, capped to limit. Matching is case-insensitive substring match.
func (ix *Index) Search(query string, limit int) ([]Hit, error) {
	if ix.db == nil {
		return nil, ErrClosed
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := ix.db.Query(`
		SELECT message_id, chat_id, chat_title, role, content
		FROM messages
		WHERE content LIKE ? ESCAPE '\'
		ORDER BY rowid DESC
		LIMIT ?
	`, "%"+escapeLike(query)+"%", limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []Hit
	for rows.Next() {
		var h Hit
		var role, content string
		if err := rows.Scan(&h.MessageID, &h.ChatID, &h.ChatTitle, &role, &content); err != nil {
			return nil, err
		}
		h.Role = model.Role(role)
		h.Snippet = snippet(content, query)
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "%", `\%`)
	s = strings.ReplaceAll(s, "_", `\_`)
	return s
}

// snippet trims the matched content to a short window around the first hit.
func snippet(content, query string) string {
	const window = 60

	idx := strings.Index(strings.ToLower(content), strings.ToLower(query))
	if idx < 0 {
		idx = 0
	}

	runes := []rune(content)
	// Byte offset to rune offset
	start := len([]rune(content[:idx]))
	from := start - window/4
	if from < 0 {
		from = 0
	}
	to := from + window
	if to > len(runes) {
		to = len(runes)
	}

	out := string(runes[from:to])
	if from > 0 {
		out = "..." + out
	}
	if to < len(runes) {
		out += "..."
	}
	return out
}
