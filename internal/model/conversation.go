// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/mcpchat-tui/internal/util"
)

// MaxMessages caps the in-memory conversation history. When exceeded, the
// oldest messages are pruned to prevent unbounded growth.
const MaxMessages = 1000

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds a complete chat conversation with history and metadata.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []*Message `json:"messages"`

	// Model is the backend model the conversation runs against.
	Model string `json:"model"`
}

// NewConversation creates a new conversation with a generated ID.
func NewConversation(model string) *Conversation {
	now := time.Now()
	return &Conversation{
		ID:        uuid.NewString(),
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]*Message, 0),
		Model:     model,
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message and refreshes metadata.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.updateTitle()
	c.pruneOldMessages()
}

// AddUserMessage creates and adds a user message.
func (c *Conversation) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddAssistantMessage creates and adds a streaming assistant message.
func (c *Conversation) AddAssistantMessage() *Message {
	msg := NewAssistantMessage()
	c.AddMessage(msg)
	return msg
}

// AddSystemMessage creates and adds a system message.
func (c *Conversation) AddSystemMessage(content string) *Message {
	msg := NewSystemMessage(content)
	c.AddMessage(msg)
	return msg
}

// LastMessage returns the most recent message, or nil if empty.
func (c *Conversation) LastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// LastAssistantMessage returns the most recent assistant message, or nil.
func (c *Conversation) LastAssistantMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleAssistant {
			return c.Messages[i]
		}
	}
	return nil
}

// AppendToLast appends a streamed chunk to the last message if it is
// streaming.
func (c *Conversation) AppendToLast(chunk string) {
	if last := c.LastMessage(); last != nil && last.IsStreaming {
		last.AppendChunk(chunk)
	}
}

// FinalizeLast completes the last streaming message.
func (c *Conversation) FinalizeLast(stats *Statistics) {
	if last := c.LastMessage(); last != nil && last.IsStreaming {
		last.FinalizeStream(stats)
		c.UpdatedAt = time.Now()
	}
}

// CancelLast cancels the last streaming message, keeping received text.
func (c *Conversation) CancelLast() {
	if last := c.LastMessage(); last != nil && last.IsStreaming {
		last.CancelStream()
		c.UpdatedAt = time.Now()
	}
}

// RemoveMessage removes a message by ID. Reports whether one was removed.
func (c *Conversation) RemoveMessage(id string) bool {
	for i, msg := range c.Messages {
		if msg.ID == id {
			c.Messages = append(c.Messages[:i], c.Messages[i+1:]...)
			c.UpdatedAt = time.Now()
			return true
		}
	}
	return false
}

// ClearHistory removes all messages.
func (c *Conversation) ClearHistory() {
	c.Messages = make([]*Message, 0)
	c.UpdatedAt = time.Now()
}

// EstimateTokens estimates the total token count of the conversation.
func (c *Conversation) EstimateTokens() int {
	total := 0
	for _, msg := range c.Messages {
		total += msg.EstimateTokens() + 4
	}
	return total
}

// =============================================================================
// TITLE AND PRUNING
// =============================================================================

// updateTitle derives the title from the first user message.
func (c *Conversation) updateTitle() {
	if c.Title != "" {
		return
	}
	for _, msg := range c.Messages {
		if msg.Role == RoleUser && !msg.IsEmpty() {
			c.Title = util.TruncateWidth(util.FirstLine(msg.Text()), 60)
			return
		}
	}
}

// pruneOldMessages drops the oldest messages beyond MaxMessages.
func (c *Conversation) pruneOldMessages() {
	if len(c.Messages) <= MaxMessages {
		return
	}
	drop := len(c.Messages) - MaxMessages
	c.Messages = append([]*Message(nil), c.Messages[drop:]...)
}
