// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// The Bubble Tea model composes a viewport over the rendered
// conversation, a textarea for input, and a spinner while waiting for
// the first streamed chunk. Streamed tokens are batched through a
// StreamingBuffer and flushed on a fixed tick so rendering stays smooth
// regardless of chunk rate.
package chat
