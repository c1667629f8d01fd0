// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components renders parsed transcript blocks for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mcpchat-tui/internal/model"
	"github.com/jeranaias/mcpchat-tui/internal/transcript"
	"github.com/jeranaias/mcpchat-tui/internal/ui/styles"
)

// =============================================================================
// MESSAGE VIEW
// =============================================================================

// BlockKey builds the caller-owned state key for a block within a message.
func BlockKey(messageID, blockID string) string {
	return messageID + "/" + blockID
}

// MessageView renders a whole conversation message. Assistant messages are
// rendered block by block from the parsed transcript; per-block expansion
// state lives in the caller's map, keyed by BlockKey.
type MessageView struct {
	Message *model.Message
	Width   int

	// CollapseDefault collapses tool results unless overridden.
	CollapseDefault bool

	// ShowThinking expands reasoning traces unless overridden.
	ShowThinking bool

	// Expanded holds explicit per-block overrides; absent keys fall back
	// to the defaults above.
	Expanded map[string]bool

	theme    *styles.Theme
	markdown *MarkdownRenderer
}

// NewMessageView creates a message view.
func NewMessageView(msg *model.Message, theme *styles.Theme, markdown *MarkdownRenderer) *MessageView {
	return &MessageView{
		Message:  msg,
		Width:    80,
		theme:    theme,
		markdown: markdown,
	}
}

// Render renders the message with its role header.
func (v *MessageView) Render() string {
	switch v.Message.Role {
	case model.RoleUser:
		return v.renderHeader(v.theme.UserLabel) + "\n" + v.Message.Text()
	case model.RoleSystem:
		return v.theme.SystemLabel.Render(v.Message.Text())
	case model.RoleAssistant:
		return v.renderHeader(v.theme.AssistantLabel) + "\n" + v.renderBlocks()
	default:
		return v.Message.Text()
	}
}

// renderHeader renders the role label, timestamp, and stats line.
func (v *MessageView) renderHeader(label lipgloss.Style) string {
	header := label.Render(v.Message.Role.DisplayName())
	header += v.theme.Timestamp.Render("  " + v.Message.Timestamp.Format("15:04"))

	if v.Message.Role == model.RoleAssistant && !v.Message.IsStreaming && v.Message.TokenCount > 0 {
		header += v.theme.MessageStats.Render(fmt.Sprintf(
			"  %d tokens · %.1f tok/s", v.Message.TokenCount, v.Message.TokensPerSec))
	}
	return header
}

// renderBlocks renders every block of a parsed assistant message.
func (v *MessageView) renderBlocks() string {
	parsed := v.Message.Blocks()
	if parsed == nil || len(parsed.Blocks) == 0 {
		if v.Message.IsStreaming {
			return v.theme.CollapsedHint.Render("…")
		}
		return v.Message.Text()
	}

	var parts []string
	for _, block := range parsed.Blocks {
		if rendered := v.renderBlock(block); rendered != "" {
			parts = append(parts, rendered)
		}
	}

	if media := RenderMediaRefs(parsed.Media, v.theme); media != "" {
		parts = append(parts, media)
	}
	return strings.Join(parts, "\n\n")
}

// renderBlock renders one typed block.
func (v *MessageView) renderBlock(block transcript.Block) string {
	key := BlockKey(v.Message.ID, block.ID())

	switch b := block.(type) {
	case *transcript.TextBlock:
		return strings.TrimRight(v.markdown.Render(b.Body), "\n")

	case *transcript.ThinkingBlock:
		expanded := v.ShowThinking
		if override, ok := v.Expanded[key]; ok {
			expanded = override
		}
		return RenderThinking(b, expanded, v.theme)

	case *transcript.ToolResultBlock:
		view := NewToolResultView(b, v.theme, v.markdown)
		view.Width = v.Width
		view.Collapsed = v.CollapseDefault
		if override, ok := v.Expanded[key]; ok {
			view.Collapsed = !override
		}
		return view.Render()

	case *transcript.ExecutionPlanBlock:
		view := NewPlanView(b.Plan, v.theme, v.markdown)
		view.Expanded = true
		if override, ok := v.Expanded[key]; ok {
			view.Expanded = override
		}
		return view.Render()

	case *transcript.FinalResponseBlock:
		return v.renderFinalResponse(b)
	}
	return ""
}

// renderFinalResponse renders the final answer with its embedded media.
func (v *MessageView) renderFinalResponse(b *transcript.FinalResponseBlock) string {
	var parts []string

	switch b.Media.Kind {
	case transcript.EmbeddedSingleImage, transcript.EmbeddedMultiImage:
		for _, url := range b.Media.URLs {
			parts = append(parts, v.theme.MediaItem.Render("🖼 "+url))
		}

	case transcript.EmbeddedStructured:
		for _, item := range b.Media.Items {
			parts = append(parts, v.renderStructuredItem(item))
		}

	default:
		if b.Body != "" {
			parts = append(parts, strings.TrimRight(v.markdown.Render(b.Body), "\n"))
		}
		for _, url := range b.Media.URLs {
			parts = append(parts, v.theme.MediaItem.Render("🖼 "+url))
		}
	}

	if len(parts) == 0 && b.Body != "" {
		parts = append(parts, strings.TrimRight(v.markdown.Render(b.Body), "\n"))
	}

	content := strings.Join(parts, "\n")
	width := v.Width - 4
	if width < 20 {
		width = 20
	}
	return v.theme.FinalResponse.MaxWidth(width).Render(content)
}

// renderStructuredItem renders one item of a structured final answer.
func (v *MessageView) renderStructuredItem(item transcript.StructuredItem) string {
	switch item.Kind {
	case transcript.ItemText:
		return strings.TrimRight(v.markdown.Render(item.Text), "\n")
	case transcript.ItemImage, transcript.ItemImages:
		var lines []string
		for _, url := range item.URLs {
			lines = append(lines, v.theme.MediaItem.Render("🖼 "+url))
		}
		return strings.Join(lines, "\n")
	case transcript.ItemAudio:
		return v.theme.MediaItem.Render("♪ " + item.Name + "  " + firstOf(item.URLs))
	case transcript.ItemFile:
		return v.theme.MediaItem.Render("📄 " + item.Name + "  " + firstOf(item.URLs))
	}
	return ""
}

func firstOf(urls []string) string {
	if len(urls) == 0 {
		return ""
	}
	return urls[0]
}
