// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// STREAMING BUFFER
// =============================================================================

// StreamingBuffer batches streamed tokens for rendering. The stream
// callback writes from its own goroutine; the Bubble Tea loop flushes on
// a tick. Flushing every token would redraw far faster than any
// terminal refreshes.
type StreamingBuffer struct {
	mu         sync.Mutex
	buffer     strings.Builder
	tokenCount int
	lastFlush  time.Time

	batchSize int
	minFlush  time.Duration
}

// NewStreamingBuffer creates a buffer tuned for ~30fps rendering.
func NewStreamingBuffer() *StreamingBuffer {
	return &StreamingBuffer{
		batchSize: 15,
		minFlush:  33 * time.Millisecond,
		lastFlush: time.Now(),
	}
}

// Write appends a token. Safe to call from the streaming goroutine.
func (sb *StreamingBuffer) Write(token string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.buffer.WriteString(token)
	sb.tokenCount++
}

// Flush returns the accumulated content when a batch or time threshold
// has been reached, else ("", false).
func (sb *StreamingBuffer) Flush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.buffer.Len() == 0 {
		return "", false
	}
	if sb.tokenCount < sb.batchSize && time.Since(sb.lastFlush) < sb.minFlush {
		return "", false
	}
	return sb.takeLocked(), true
}

// ForceFlush drains the buffer regardless of thresholds. Used when a
// stream completes or is cancelled.
func (sb *StreamingBuffer) ForceFlush() (string, bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	if sb.buffer.Len() == 0 {
		return "", false
	}
	return sb.takeLocked(), true
}

// Reset clears the buffer without flushing.
func (sb *StreamingBuffer) Reset() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.buffer.Reset()
	sb.tokenCount = 0
	sb.lastFlush = time.Now()
}

// Pending returns the number of buffered tokens.
func (sb *StreamingBuffer) Pending() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.tokenCount
}

func (sb *StreamingBuffer) takeLocked() string {
	content := sb.buffer.String()
	sb.buffer.Reset()
	sb.tokenCount = 0
	sb.lastFlush = time.Now()
	return content
}

// =============================================================================
// STREAM TICK
// =============================================================================

// streamTickCmd schedules the next buffered-flush tick at ~30fps.
func streamTickCmd() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg {
		return StreamTickMsg{Time: t}
	})
}

// =============================================================================
// CANCEL MANAGER
// =============================================================================

// cancelManager holds the active stream's cancel func. A pointer field
// on the model so Bubble Tea's value copies share one mutex.
type cancelManager struct {
	mu     sync.Mutex
	cancel func()
}

func newCancelManager() *cancelManager {
	return &cancelManager{}
}

// set replaces the stored cancel func, cancelling any previous stream.
func (c *cancelManager) set(cancel func()) {
	c.mu.Lock()
	prev := c.cancel
	c.cancel = cancel
	c.mu.Unlock()
	if prev != nil {
		prev()
	}
}

// fire cancels the active stream, if any.
func (c *cancelManager) fire() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
