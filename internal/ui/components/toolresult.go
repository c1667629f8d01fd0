// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components renders parsed transcript blocks for the TUI.
package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/mcpchat-tui/internal/transcript"
	"github.com/jeranaias/mcpchat-tui/internal/ui/styles"
	"github.com/jeranaias/mcpchat-tui/internal/util"
)

// =============================================================================
// TOOL RESULT VIEW
// =============================================================================

// ToolResultView renders one tool result block, collapsed or expanded.
// Collapse state is owned by the caller and passed in per render.
type ToolResultView struct {
	Block     *transcript.ToolResultBlock
	Collapsed bool
	Width     int

	theme    *styles.Theme
	markdown *MarkdownRenderer
}

// NewToolResultView creates a tool result view.
func NewToolResultView(block *transcript.ToolResultBlock, theme *styles.Theme, markdown *MarkdownRenderer) *ToolResultView {
	return &ToolResultView{
		Block:    block,
		Width:    80,
		theme:    theme,
		markdown: markdown,
	}
}

// Render renders the tool result with its header line.
func (v *ToolResultView) Render() string {
	header := v.renderHeader()
	if v.Collapsed {
		summary := util.TruncateWidth(util.FirstLine(v.Block.Body), 60)
		hint := v.theme.CollapsedHint.Render(fmt.Sprintf("%s (enter to expand)", summary))
		return header + "\n" + hint
	}

	body := v.renderBody()
	bodyStyle := v.theme.ToolBody
	if v.Block.IsError {
		bodyStyle = v.theme.ToolBodyError
	}
	return header + "\n" + bodyStyle.Render(body)
}

// renderHeader renders the tool name line with a status glyph.
func (v *ToolResultView) renderHeader() string {
	name := v.Block.ToolName
	if name == "" {
		name = "tool"
	}
	if v.Block.IsError {
		return v.theme.ToolHeaderError.Render("✗ " + name)
	}
	glyph := "▸"
	if !v.Collapsed {
		glyph = "▾"
	}
	return v.theme.ToolHeader.Render(glyph + " " + name)
}

// renderBody dispatches on the classified result kind.
func (v *ToolResultView) renderBody() string {
	body := v.Block.Body

	switch v.Block.Result {
	case transcript.ResultWeather:
		if reports := transcript.ParseWeather(body); len(reports) > 0 {
			return RenderWeather(reports, v.theme)
		}

	case transcript.ResultChatTranscript:
		if tr := transcript.ParseChatTranscript(body); len(tr.Records) > 0 {
			return RenderChatTranscript(tr, v.theme)
		}

	case transcript.ResultList:
		if items := transcript.ParseResultList(body); len(items) > 0 {
			return RenderResultList(items, v.theme)
		}

	case transcript.ResultConfirmation:
		if c := transcript.ParseConfirmation(body); c.Message != "" || c.Status != "" {
			return RenderConfirmation(c, v.theme)
		}

	case transcript.ResultDocument:
		return strings.TrimRight(v.markdown.Render(body), "\n")

	case transcript.ResultWebpage, transcript.ResultAudioLink, transcript.ResultImageLink,
		transcript.ResultVideoLink, transcript.ResultFileLink, transcript.ResultLink:
		return v.renderLink(body)
	}

	if v.Block.IsJSON {
		return HighlightJSON(transcript.FormatParams(body), v.theme.ChromaStyle())
	}
	return body
}

// renderLink renders a URL-bearing result with a kind label.
func (v *ToolResultView) renderLink(body string) string {
	label := map[transcript.ResultKind]string{
		transcript.ResultWebpage:   "webpage",
		transcript.ResultAudioLink: "audio",
		transcript.ResultImageLink: "image",
		transcript.ResultVideoLink: "video",
		transcript.ResultFileLink:  "file",
		transcript.ResultLink:      "link",
	}[v.Block.Result]

	url := firstURL(body)
	if url == "" {
		return body
	}

	line := v.theme.CardLabel.Render(label+": ") + v.theme.LinkText.Render(url)
	rest := strings.TrimSpace(strings.Replace(body, url, "", 1))
	if rest != "" {
		return rest + "\n" + line
	}
	return line
}

// firstURL returns the first http(s) URL in text.
func firstURL(text string) string {
	idx := strings.Index(text, "http://")
	if i := strings.Index(text, "https://"); i >= 0 && (idx < 0 || i < idx) {
		idx = i
	}
	if idx < 0 {
		return ""
	}
	end := idx
	for end < len(text) {
		b := text[end]
		if b >= 0x80 || strings.IndexByte(" \t\n\r,\"'()[]", b) >= 0 {
			break
		}
		end++
	}
	return text[idx:end]
}
