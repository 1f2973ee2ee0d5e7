// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the opspilot TUI.
//
// This package contains common helper functions used throughout the
// application for string manipulation, number formatting, and file
// operations.
//
// # Key Functions
//
// String Utilities:
//   - TruncateRunes: UTF-8 safe string truncation with ellipsis
//   - TruncateWidth: display-width aware truncation (CJK safe)
//   - PadWidth: display-width aware right padding
//
// Number Formatting:
//   - FormatCount: integer formatting for display
//   - FormatPercent: percentage formatting with one decimal place
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
package util
