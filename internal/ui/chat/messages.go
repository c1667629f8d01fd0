// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"time"

	"github.com/jeranaias/mcpchat-tui/internal/archive"
	"github.com/jeranaias/mcpchat-tui/internal/backend"
	"github.com/jeranaias/mcpchat-tui/internal/config"
	"github.com/jeranaias/mcpchat-tui/internal/model"
	"github.com/jeranaias/mcpchat-tui/internal/storage"
)

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamStartMsg signals that a chat request has been dispatched.
type StreamStartMsg struct {
	MessageID string
	StartTime time.Time
}

// StreamTickMsg drives batched flushes of buffered stream tokens.
type StreamTickMsg struct {
	Time time.Time
}

// StreamDoneMsg signals a completed stream.
type StreamDoneMsg struct {
	MessageID string
	Stats     *model.Statistics
}

// StreamErrorMsg signals a failed or aborted stream.
type StreamErrorMsg struct {
	MessageID string
	Err       error
}

// =============================================================================
// PERSISTENCE MESSAGES
// =============================================================================

// ConversationSavedMsg reports the outcome of a background save.
type ConversationSavedMsg struct {
	Err error
}

// ConversationsListedMsg carries the stored conversation list.
type ConversationsListedMsg struct {
	Metas []storage.Meta
	Err   error
}

// ConversationLoadedMsg carries a conversation loaded from disk.
type ConversationLoadedMsg struct {
	Conversation *model.Conversation
	Err          error
}

// ExportDoneMsg reports the outcome of an export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// ArchiveResultsMsg carries full-text search hits from the archive.
type ArchiveResultsMsg struct {
	Query string
	Hits  []archive.SearchHit
	Err   error
}

// =============================================================================
// BACKEND MESSAGES
// =============================================================================

// ToolsListedMsg carries the MCP tools the server exposes.
type ToolsListedMsg struct {
	Tools []backend.ToolInfo
	Err   error
}

// ToolListShownMsg asks for the tool list to be printed in the transcript.
type ToolListShownMsg struct {
	Tools []backend.ToolInfo
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ConfigReloadedMsg carries a hot-reloaded configuration.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// =============================================================================
// STATUS MESSAGES
// =============================================================================

// StatusMsg sets a transient status bar note.
type StatusMsg struct {
	Text string
}
