// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
//
// Assistant messages accumulate streamed chunks into a cumulative buffer and
// re-derive their content-block tree from the full text on demand. The
// derived blocks are a cache over Content, never authoritative state: a
// cancelled stream simply keeps the last text received, and the blocks
// derived from it remain valid.
package model
