// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fleetops/opspilot-tui/internal/model"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(filepath.Join(t.TempDir(), "search.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func seedChat(t *testing.T, ix *Index, title string, contents ...string) *model.Chat {
	t.Helper()
	chat := model.NewChat()
	for i, c := range contents {
		role := model.RoleUser
		if i%2 == 1 {
			role = model.RoleAssistant
		}
		msg := model.NewMessage(role, c)
		chat.AddMessage(msg)
		if err := ix.AddMessage(chat, msg); err != nil {
			t.Fatalf("AddMessage failed: %v", err)
		}
	}
	if title != "" {
		chat.Title = title
	}
	return chat
}

func TestIndex_SearchFindsSubstring(t *testing.T) {
	ix := newTestIndex(t)
	chat := seedChat(t, ix, "", "show delayed trips for Acme", "Acme had 9 delayed trips")

	hits, err := ix.Search("delayed", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("hits = %d, want 2", len(hits))
	}
	for _, h := range hits {
		if h.ChatID != chat.ID {
			t.Errorf("hit chat = %q, want %q", h.ChatID, chat.ID)
		}
		if !strings.Contains(strings.ToLower(h.Snippet), "delayed") {
			t.Errorf("snippet %q should contain the match", h.Snippet)
		}
	}
}

func TestIndex_SearchIsCaseInsensitive(t *testing.T) {
	ix := newTestIndex(t)
	seedChat(t, ix, "", "SLA breaches on the northern corridor")

	hits, err := ix.Search("BREACHES", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("hits = %d, want 1", len(hits))
	}
}

func TestIndex_SearchEscapesWildcards(t *testing.T) {
	ix := newTestIndex(t)
	seedChat(t, ix, "", "delay rate was 12% yesterday", "unrelated message")

	hits, err := ix.Search("12%", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("hits = %d, want 1 (wildcard must not match everything)", len(hits))
	}
}

func TestIndex_SearchEmptyQuery(t *testing.T) {
	ix := newTestIndex(t)
	if _, err := ix.Search("   ", 10); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("err = %v, want ErrEmptyQuery", err)
	}
}

func TestIndex_RemoveChat(t *testing.T) {
	ix := newTestIndex(t)
	keep := seedChat(t, ix, "", "keep this message")
	drop := seedChat(t, ix, "", "drop this message")

	if err := ix.RemoveChat(drop.ID); err != nil {
		t.Fatalf("RemoveChat failed: %v", err)
	}

	hits, err := ix.Search("message", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 1 || hits[0].ChatID != keep.ID {
		t.Errorf("hits = %+v, want only the kept chat", hits)
	}
}

func TestIndex_Rebuild(t *testing.T) {
	ix := newTestIndex(t)
	seedChat(t, ix, "", "stale entry that should vanish")

	fresh := model.NewChat()
	fresh.AddMessage(model.NewUserMessage("fresh entry"))
	if err := ix.Rebuild([]*model.Chat{fresh}); err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}

	if hits, _ := ix.Search("stale", 10); len(hits) != 0 {
		t.Errorf("stale entries should be gone, got %+v", hits)
	}
	hits, err := ix.Search("fresh", 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 1 {
		t.Errorf("hits = %d, want 1", len(hits))
	}
}

func TestIndex_SearchLimit(t *testing.T) {
	ix := newTestIndex(t)
	seedChat(t, ix, "", "alpha one", "alpha two", "alpha three")

	hits, err := ix.Search("alpha", 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 2 {
		t.Errorf("hits = %d, want 2", len(hits))
	}
}

func TestIndex_ClosedErrors(t *testing.T) {
	ix := newTestIndex(t)
	ix.Close()

	if _, err := ix.Search("x", 10); !errors.Is(err, ErrClosed) {
		t.Errorf("Search after close = %v, want ErrClosed", err)
	}
	if err := ix.RemoveChat("x"); !errors.Is(err, ErrClosed) {
		t.Errorf("RemoveChat after close = %v, want ErrClosed", err)
	}
}
