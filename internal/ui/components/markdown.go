// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components renders parsed transcript blocks for the TUI.
package components

import (
	"github.com/charmbracelet/glamour"
)

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// MarkdownRenderer wraps a glamour renderer, rebuilt lazily on resize.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	style    string
	width    int
}

// NewMarkdownRenderer creates a renderer for the given glamour style
// ("dark", "light") and word-wrap width.
func NewMarkdownRenderer(style string, width int) *MarkdownRenderer {
	m := &MarkdownRenderer{style: style}
	m.SetWidth(width)
	return m
}

// SetWidth rebuilds the underlying renderer for a new wrap width.
func (m *MarkdownRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	if m.renderer != nil && m.width == width {
		return
	}
	m.width = width

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		// Plain text fallback, Render degrades to the input.
		m.renderer = nil
		return
	}
	m.renderer = r
}

// Render renders markdown for terminal display. Returns the input
// unchanged if rendering fails.
func (m *MarkdownRenderer) Render(content string) string {
	if m.renderer == nil {
		return content
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
