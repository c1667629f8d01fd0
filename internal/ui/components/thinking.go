// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components renders parsed transcript blocks for the TUI.
package components

import (
	"fmt"

	"github.com/jeranaias/mcpchat-tui/internal/transcript"
	"github.com/jeranaias/mcpchat-tui/internal/ui/styles"
	"github.com/jeranaias/mcpchat-tui/internal/util"
)

// =============================================================================
// THINKING VIEW
// =============================================================================

// RenderThinking renders a reasoning trace, expanded or as a one-line
// summary. Expansion state is owned by the caller.
func RenderThinking(block *transcript.ThinkingBlock, expanded bool, theme *styles.Theme) string {
	label := "thinking"
	if block.InProgress {
		label = "thinking…"
	}
	header := theme.ThinkingHeader.Render("∴ " + label)

	if !expanded {
		summary := util.TruncateWidth(util.FirstLine(block.Body), 60)
		return header + " " + theme.CollapsedHint.Render(summary)
	}
	return fmt.Sprintf("%s\n%s", header, theme.ThinkingBody.Render(block.Body))
}

// =============================================================================
// MEDIA REFERENCE LIST
// =============================================================================

// RenderMediaRefs renders extracted media references as a pointer list.
func RenderMediaRefs(refs []transcript.MediaRef, theme *styles.Theme) string {
	if len(refs) == 0 {
		return ""
	}

	out := ""
	for _, ref := range refs {
		glyph := "🖼"
		switch ref.Kind {
		case transcript.MediaAudio:
			glyph = "♪"
		case transcript.MediaFile:
			glyph = "📄"
		}
		name := ref.Name
		if name == "" {
			name = ref.URL
		}
		out += theme.MediaItem.Render(fmt.Sprintf("%s %s", glyph, name))
		if ref.Name != "" {
			out += theme.CollapsedHint.Render("  " + ref.URL)
		}
		out += "\n"
	}
	return out[:len(out)-1]
}
