// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// This file contains tests for concurrent access safety:
// - Overlapping sends from multiple goroutines
// - Reads racing mutations
// - Delete racing in-flight completions
package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fleetops/opspilot-tui/internal/analytics"
	"github.com/fleetops/opspilot-tui/internal/model"
)

// =============================================================================
// CONCURRENCY TESTS
// =============================================================================

// TestManager_ConcurrentSends runs many full round trips in parallel and
// verifies every reply lands and the composing counter winds down to zero.
func TestManager_ConcurrentSends(t *testing.T) {
	q := &fakeQuerier{resp: &analytics.ChatResponse{Summary: "done"}}
	m := newTestManager(t, q)

	const n = 20
	ids := make([]string, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ids[i], errs[i] = m.SendAndWait(context.Background(), "", fmt.Sprintf("question %d", i))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "send %d", i)
	}

	require.False(t, m.Composing(), "all sends finished, composing must clear")

	chats := m.Chats()
	byID := make(map[string]*model.Chat, len(chats))
	for _, c := range chats {
		byID[c.ID] = c
	}
	for _, id := range ids {
		c := byID[id]
		require.NotNil(t, c, "chat %s should survive", id)
		require.Equal(t, 2, c.MessageCount())
		require.Equal(t, "done", c.LastMessage().Content)
	}
}

// TestManager_ConcurrentReadsDuringMutation hammers read accessors while
// chats are created and deleted. Should not panic or race.
func TestManager_ConcurrentReadsDuringMutation(t *testing.T) {
	m := newTestManager(t, &fakeQuerier{resp: &analytics.ChatResponse{Summary: "ok"}})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c := m.NewChat()
			m.Select(c.ID)
			m.Delete(c.ID)
		}()
		go func() {
			defer wg.Done()
			_ = m.Chats()
			_ = m.Active()
			_ = m.ActiveID()
			_ = m.Count()
			_ = m.Composing()
		}()
	}
	wg.Wait()
}

// TestManager_ConcurrentDeleteDuringSend deletes chats while their queries
// are still in flight. Replies to deleted chats are dropped but the pending
// counter must still reach zero.
func TestManager_ConcurrentDeleteDuringSend(t *testing.T) {
	block := make(chan struct{})
	q := &fakeQuerier{resp: &analytics.ChatResponse{Summary: "late"}, block: block}
	m := newTestManager(t, q)

	const n = 10
	runs := make([]func(ctx context.Context) error, 0, n)
	for i := 0; i < n; i++ {
		id, run, err := m.Send("", fmt.Sprintf("doomed %d", i))
		require.NoError(t, err)
		runs = append(runs, run)
		m.Delete(id)
	}
	require.Equal(t, 0, m.Count())
	require.True(t, m.Composing())

	close(block)
	var wg sync.WaitGroup
	for _, run := range runs {
		wg.Add(1)
		go func(run func(ctx context.Context) error) {
			defer wg.Done()
			_ = run(context.Background())
		}(run)
	}
	wg.Wait()

	require.False(t, m.Composing())
	require.Equal(t, 0, m.Count(), "dropped replies must not resurrect chats")
}
