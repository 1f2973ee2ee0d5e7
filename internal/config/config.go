// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for OpsPilot.
//
// Supports TOML configuration with sensible defaults and environment variable
// overrides.
//
// Configuration file location: ~/.opspilot/config.toml, falling back to
// built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete OpsPilot configuration.
type Config struct {
	// API configuration
	API APIConfig `toml:"api"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// Storage configuration
	Storage StorageConfig `toml:"storage"`
}

// APIConfig contains analytics API configuration.
type APIConfig struct {
	// BaseURL is the analytics service base URL
	BaseURL string `toml:"base_url"`
	// TimeoutSecs is the per-request timeout in seconds
	TimeoutSecs int `toml:"timeout_secs"`
	// RequestsPerSecond caps outbound query rate
	RequestsPerSecond float64 `toml:"requests_per_second"`
	// Burst allows short bursts above the sustained rate
	Burst int `toml:"burst"`
}

// UIConfig contains presentation configuration.
type UIConfig struct {
	// Theme forces "dark" or "light"; empty follows the terminal
	Theme string `toml:"theme"`
	// SidebarWidth is the chat list width in columns
	SidebarWidth int `toml:"sidebar_width"`
	// ShowSuggestions toggles quick suggestions on empty chats
	ShowSuggestions bool `toml:"show_suggestions"`
}

// StorageConfig contains persistence configuration.
type StorageConfig struct {
	// Dir overrides the state directory (default ~/.opspilot)
	Dir string `toml:"dir"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "http://127.0.0.1:8000",
			TimeoutSecs:       60,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		UI: UIConfig{
			SidebarWidth:    32,
			ShowSuggestions: true,
		},
	}
}

// SetDefaults fills in any missing values with defaults.
func (c *Config) SetDefaults() {
	def := Default()
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.TimeoutSecs <= 0 {
		c.API.TimeoutSecs = def.API.TimeoutSecs
	}
	if c.API.RequestsPerSecond <= 0 {
		c.API.RequestsPerSecond = def.API.RequestsPerSecond
	}
	if c.API.Burst <= 0 {
		c.API.Burst = def.API.Burst
	}
	if c.UI.SidebarWidth <= 0 {
		c.UI.SidebarWidth = def.UI.SidebarWidth
	}
}

// Timeout returns the API timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSecs) * time.Second
}

// =============================================================================
// PATHS
// =============================================================================

// Dir returns the OpsPilot state directory, honoring the config override.
func (c *Config) Dir() (string, error) {
	if c.Storage.Dir != "" {
		return c.Storage.Dir, nil
	}
	return DefaultDir()
}

// DefaultDir returns ~/.opspilot.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".opspilot"), nil
}

// Path returns the config file path inside the default state directory.
func Path() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads the configuration from the default location. A missing file
// yields defaults; a malformed file is an error so typos do not silently
// revert settings.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific TOML file, applying
// defaults and environment overrides. A missing file is not an error.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	return cfg, nil
}

// ApplyEnvOverrides applies OPSPILOT_* environment variables on top of the
// loaded values.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("OPSPILOT_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("OPSPILOT_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.API.TimeoutSecs = n
		}
	}
	if v := os.Getenv("OPSPILOT_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("OPSPILOT_DIR"); v != "" {
		c.Storage.Dir = v
	}
}
