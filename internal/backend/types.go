// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the mcpchat server.
package backend

// =============================================================================
// REQUEST TYPES
// =============================================================================

// HistoryMessage is one prior turn sent for context.
type HistoryMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Settings carries per-request generation options.
type Settings struct {
	Temperature  float64 `json:"temperature,omitempty"`
	MaxTokens    int     `json:"maxTokens,omitempty"`
	SystemPrompt string  `json:"systemPrompt,omitempty"`
}

// ChatRequest is the body of POST /chat/stream.
type ChatRequest struct {
	Message        string           `json:"message"`
	Model          string           `json:"model"`
	ConversationID string           `json:"conversationId,omitempty"`
	MessageID      string           `json:"messageId,omitempty"`
	HistoryMessage []HistoryMessage `json:"historyMessage,omitempty"`
	Settings       Settings         `json:"settings"`
}

// =============================================================================
// STREAM TYPES
// =============================================================================

// StreamChunk is one decoded server-sent event.
type StreamChunk struct {
	// Content is the text fragment to append to the message.
	Content string

	// Err is set on error frames and terminal failures.
	Err error

	// Done marks the end of the stream.
	Done bool
}

// StreamCallback receives chunks synchronously in arrival order.
type StreamCallback func(chunk StreamChunk)

// =============================================================================
// TOOL LISTING
// =============================================================================

// ToolInfo describes one MCP tool exposed by the server.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Server      string `json:"server,omitempty"`
}
