// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package archive maintains a searchable SQLite index of every message
// that passes through the client.
//
// The JSON conversation store in internal/storage is the source of
// truth; the archive is a derived full-text index over its messages.
// Conversations are indexed whole on save, so a rebuild is just
// re-indexing every stored conversation.
package archive
