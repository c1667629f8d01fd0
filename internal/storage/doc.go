// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage persists conversations as JSON files on disk.
//
// Each conversation lives in its own file under the store directory,
// named by the conversation ID. Writes go through an atomic
// write-and-rename so a crash mid-save never corrupts an existing
// conversation.
package storage
