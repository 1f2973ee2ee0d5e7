// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.API.BaseURL == "" {
		t.Error("default BaseURL should be set")
	}
	if cfg.Timeout() != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cfg.Timeout())
	}
	if cfg.UI.SidebarWidth <= 0 {
		t.Error("default sidebar width should be positive")
	}
}

func TestLoadFromPath_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.API.BaseURL != Default().API.BaseURL {
		t.Errorf("BaseURL = %q, want default", cfg.API.BaseURL)
	}
}

func TestLoadFromPath_ReadsTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[api]
base_url = "http://analytics.internal:9000"
timeout_secs = 10

[ui]
theme = "light"
sidebar_width = 40
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath failed: %v", err)
	}
	if cfg.API.BaseURL != "http://analytics.internal:9000" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSecs != 10 {
		t.Errorf("TimeoutSecs = %d", cfg.API.TimeoutSecs)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
	if cfg.UI.SidebarWidth != 40 {
		t.Errorf("SidebarWidth = %d", cfg.UI.SidebarWidth)
	}
	// Unset values still get defaults
	if cfg.API.Burst != Default().API.Burst {
		t.Errorf("Burst = %d, want default", cfg.API.Burst)
	}
}

func TestLoadFromPath_MalformedTOMLErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[api\nbroken"), 0o600); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Error("malformed config should error, not silently revert")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("OPSPILOT_API_URL", "http://override:1234")
	t.Setenv("OPSPILOT_TIMEOUT_SECS", "5")
	t.Setenv("OPSPILOT_THEME", "dark")

	cfg := Default()
	cfg.ApplyEnvOverrides()

	if cfg.API.BaseURL != "http://override:1234" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSecs != 5 {
		t.Errorf("TimeoutSecs = %d", cfg.API.TimeoutSecs)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[api]\nbase_url = \"http://one\"\n"), 0o600); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	reloaded := make(chan *Config, 1)
	w, err := NewWatcher(path, func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	defer w.Close()
	if err := w.Watch(); err != nil {
		t.Fatalf("Watch failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("[api]\nbase_url = \"http://two\"\n"), 0o600); err != nil {
		t.Fatalf("rewrite failed: %v", err)
	}

	select {
	case cfg := <-reloaded:
		if cfg.API.BaseURL != "http://two" {
			t.Errorf("reloaded BaseURL = %q, want http://two", cfg.API.BaseURL)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}
