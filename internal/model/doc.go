// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats, messages, and the
// tabular analytics payloads the assistant returns.
//
// A Chat is one persisted conversation thread with an ordered message list.
// A Message is a single turn authored by the user or the assistant; assistant
// messages may additionally carry the structured analytics result (metrics,
// raw rows, chart recommendation) used by the response renderer.
//
// The Table type models the loosely-typed row records returned by the
// analytics API as a uniform-schema table: an ordered list of column names
// plus rows aligned to that column list. Numeric versus textual column
// classification is computed from the first row.
package model
