// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store persists application state as JSON files, one file per key.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fleetops/opspilot-tui/internal/util"
)

// Well-known keys. Each maps to <base>/<key>.json.
const (
	KeyChats = "chats"
	KeyTheme = "theme"
)

// =============================================================================
// STORE TYPE
// =============================================================================

// Store reads and writes JSON state files under a base directory.
// Values are opaque to the store; callers own the schema.
type Store struct {
	baseDir string
}

// New creates a store rooted at baseDir, creating the directory if needed.
func New(baseDir string) (*Store, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// BaseDir returns the directory state files are written to.
func (s *Store) BaseDir() string {
	return s.baseDir
}

// path returns the file backing a key.
func (s *Store) path(key string) string {
	return filepath.Join(s.baseDir, key+".json")
}

// =============================================================================
// READ / WRITE
// =============================================================================

// Read loads the value stored under key. A missing or unreadable file yields
// the fallback: persisted state is a cache of convenience, never a reason to
// fail startup.
func Read[T any](s *Store, key string, fallback T) T {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return fallback
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return fallback
	}
	return value
}

// Write persists value under key atomically. Concurrent writers to the same
// key serialize on the rename; readers never observe a partial file.
func Write[T any](s *Store, key string, value T) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := util.AtomicWriteFile(s.path(key), data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Delete removes the file backing a key. Missing files are not an error.
func (s *Store) Delete(key string) error {
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}
