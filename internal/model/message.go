// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/mcpchat-tui/internal/transcript"
	"github.com/jeranaias/mcpchat-tui/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Assistant"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content is the full message text. For a finished assistant message
	// this is the raw transcript the blocks are derived from.
	Content string `json:"content"`

	// Streaming state (not persisted).
	// PERFORMANCE: strings.Builder avoids quadratic allocations during streaming.
	IsStreaming   bool            `json:"-"`
	streamContent strings.Builder `json:"-"`

	// Derived block cache, keyed by the text length it was derived from.
	parsed    *transcript.ParsedMessage `json:"-"`
	parsedLen int                       `json:"-"`

	// Statistics for assistant messages.
	TokenCount    int           `json:"token_count,omitempty"`
	TTFT          time.Duration `json:"ttft_ns,omitempty"`
	TotalDuration time.Duration `json:"total_duration_ns,omitempty"`
	TokensPerSec  float64       `json:"tokens_per_sec,omitempty"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// NewAssistantMessage creates a new assistant message in streaming state.
func NewAssistantMessage() *Message {
	return &Message{
		ID:          uuid.NewString(),
		Role:        RoleAssistant,
		Timestamp:   time.Now(),
		IsStreaming: true,
	}
}

// =============================================================================
// STREAMING
// =============================================================================

// AppendChunk appends a streamed chunk to the cumulative buffer.
func (m *Message) AppendChunk(chunk string) {
	if m.IsStreaming {
		m.streamContent.WriteString(chunk)
	}
}

// FinalizeStream completes streaming and records statistics.
func (m *Message) FinalizeStream(stats *Statistics) {
	if !m.IsStreaming {
		return
	}

	m.Content = m.streamContent.String()
	m.streamContent.Reset()
	m.IsStreaming = false

	if stats != nil {
		m.TTFT = stats.TTFT
		m.TotalDuration = stats.TotalDuration
		m.TokenCount = stats.CompletionTokens
		m.TokensPerSec = stats.TokensPerSecond
	}
}

// CancelStream ends streaming keeping whatever text arrived. The blocks
// derived from that partial text stay displayable.
func (m *Message) CancelStream() {
	if !m.IsStreaming {
		return
	}
	m.Content = m.streamContent.String()
	m.streamContent.Reset()
	m.IsStreaming = false
}

// Text returns the current full text, streamed or final.
func (m *Message) Text() string {
	if m.IsStreaming {
		return m.streamContent.String()
	}
	return m.Content
}

// =============================================================================
// DERIVED BLOCKS
// =============================================================================

// Blocks derives the content-block tree from the full accumulated text.
// The result is cached until more text arrives. Always non-nil.
func (m *Message) Blocks() *transcript.ParsedMessage {
	text := m.Text()
	if m.parsed != nil && m.parsedLen == len(text) {
		return m.parsed
	}
	m.parsed = transcript.Parse(text)
	m.parsedLen = len(text)
	return m.parsed
}

// Preview returns a short single-line preview of the message.
func (m *Message) Preview(maxWidth int) string {
	return util.TruncateWidth(util.FirstLine(m.Text()), maxWidth)
}

// IsEmpty reports whether the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0 && m.streamContent.Len() == 0
}

// EstimateTokens gives a rough token estimate (~4 characters per token).
func (m *Message) EstimateTokens() int {
	return (len(m.Text()) + 3) / 4
}

// =============================================================================
// STATISTICS TYPE
// =============================================================================

// Statistics holds timing and token counts for one generation.
type Statistics struct {
	StartTime      time.Time
	FirstTokenTime time.Time
	EndTime        time.Time

	PromptTokens     int
	CompletionTokens int

	TTFT            time.Duration
	TotalDuration   time.Duration
	TokensPerSecond float64
}

// NewStatistics creates a Statistics with the start time set.
func NewStatistics() *Statistics {
	return &Statistics{StartTime: time.Now()}
}

// RecordFirstToken records when the first chunk arrived.
func (s *Statistics) RecordFirstToken() {
	if s.FirstTokenTime.IsZero() {
		s.FirstTokenTime = time.Now()
		s.TTFT = s.FirstTokenTime.Sub(s.StartTime)
	}
}

// Finalize computes the derived metrics.
func (s *Statistics) Finalize(tokenCount int) {
	s.EndTime = time.Now()
	s.CompletionTokens = tokenCount
	s.TotalDuration = s.EndTime.Sub(s.StartTime)
	if s.TotalDuration > 0 {
		s.TokensPerSecond = float64(tokenCount) / s.TotalDuration.Seconds()
	}
}
