// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components renders parsed transcript blocks for the TUI.
//
// Each component takes typed data from internal/transcript and returns a
// styled string. Components hold no UI state of their own; collapse and
// toggle flags live in the chat model and are passed in per render.
package components
