// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"os"
	"path/filepath"
	"testing"
)

// =============================================================================
// STRING TESTS
// =============================================================================

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxRunes int
		want     string
	}{
		{"short string unchanged", "hello", 10, "hello"},
		{"exact length unchanged", "hello", 5, "hello"},
		{"truncated with ellipsis", "hello world", 5, "hello..."},
		{"zero max", "hello", 0, ""},
		{"negative max", "hello", -1, ""},
		{"unicode safe", "日本語のテスト", 3, "日本語..."},
		{"empty string", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateRunes(tt.input, tt.maxRunes)
			if got != tt.want {
				t.Errorf("TruncateRunes(%q, %d) = %q, want %q", tt.input, tt.maxRunes, got, tt.want)
			}
		})
	}
}

func TestTruncateWidth(t *testing.T) {
	// CJK characters are two columns wide
	got := TruncateWidth("日本語", 4)
	if StringWidth(got) > 4 {
		t.Errorf("TruncateWidth result wider than limit: %q (width %d)", got, StringWidth(got))
	}

	if TruncateWidth("abc", 10) != "abc" {
		t.Error("short string should be unchanged")
	}
	if TruncateWidth("abc", 0) != "" {
		t.Error("zero width should yield empty string")
	}
}

func TestPadWidth(t *testing.T) {
	got := PadWidth("ab", 5)
	if got != "ab   " {
		t.Errorf("PadWidth(\"ab\", 5) = %q, want %q", got, "ab   ")
	}

	// Already wide enough
	if PadWidth("abcdef", 3) != "abcdef" {
		t.Error("strings at or beyond width should be unchanged")
	}
}

func TestRuneLen(t *testing.T) {
	if RuneLen("日本語") != 3 {
		t.Errorf("RuneLen(\"日本語\") = %d, want 3", RuneLen("日本語"))
	}
	if RuneLen("") != 0 {
		t.Error("RuneLen of empty string should be 0")
	}
}

// =============================================================================
// FORMAT TESTS
// =============================================================================

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{0, "0.0%"},
		{0.5, "50.0%"},
		{0.1234, "12.3%"},
		{1, "100.0%"},
	}

	for _, tt := range tests {
		if got := FormatPercent(tt.ratio); got != tt.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", tt.ratio, got, tt.want)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	if got := FormatFloat(3.14159, 2); got != "3.14" {
		t.Errorf("FormatFloat(3.14159, 2) = %q, want \"3.14\"", got)
	}
}

// =============================================================================
// ATOMIC WRITE TESTS
// =============================================================================

func TestAtomicWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.json")

	if err := AtomicWriteFile(path, []byte("first"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "first" {
		t.Errorf("file content = %q, want %q", data, "first")
	}

	// Overwrite replaces the previous content completely
	if err := AtomicWriteFile(path, []byte("second"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile overwrite failed: %v", err)
	}
	data, _ = os.ReadFile(path)
	if string(data) != "second" {
		t.Errorf("file content after overwrite = %q, want %q", data, "second")
	}

	// No temp files left behind
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected 1 file in dir, found %d", len(entries))
	}
}

func TestAtomicWriteFile_CreatesParentDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "out.json")

	if err := AtomicWriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatalf("AtomicWriteFile failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("file not created: %v", err)
	}
}
