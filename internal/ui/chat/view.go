// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/mcpchat-tui/internal/model"
	"github.com/jeranaias/mcpchat-tui/internal/ui/components"
	"github.com/jeranaias/mcpchat-tui/internal/util"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the chat screen.
func (m Model) View() string {
	if m.width == 0 {
		return "starting…"
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteByte('\n')
	b.WriteString(m.viewport.View())
	b.WriteByte('\n')
	b.WriteString(m.renderInput())
	b.WriteByte('\n')
	b.WriteString(m.renderStatusBar())
	return b.String()
}

func (m Model) renderHeader() string {
	title := m.conversation.Title
	if title == "" {
		title = "mcpchat"
	}
	title = util.TruncateWidth(title, m.width-20)

	right := m.cfg.Backend.Model
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	return m.theme.Header.Render(" " + title + strings.Repeat(" ", gap) + right + " ")
}

func (m Model) renderInput() string {
	if m.state == StateStreaming {
		label := m.spinner.View() + " waiting for response  (esc to cancel)"
		if !m.waitingFirst {
			label = m.spinner.View() + " streaming…  (esc to cancel)"
		}
		return m.theme.StatusKey.Render(label)
	}
	return m.input.View()
}

func (m Model) renderStatusBar() string {
	left := m.statusMsg
	if left == "" {
		left = "/help for commands"
	}
	right := messageCountLabel(m.conversation)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Render(" " + left + strings.Repeat(" ", gap) + right + " ")
}

func messageCountLabel(conv *model.Conversation) string {
	n := 0
	for _, msg := range conv.Messages {
		if msg.Role != model.RoleSystem {
			n++
		}
	}
	if n == 1 {
		return "1 message"
	}
	return strconv.Itoa(n) + " messages"
}

// =============================================================================
// TRANSCRIPT RENDERING
// =============================================================================

// renderMessages builds the full transcript for the viewport.
func (m *Model) renderMessages() string {
	if len(m.conversation.Messages) == 0 {
		return m.theme.Timestamp.Render("\n  Start chatting, or type /help for commands.\n")
	}

	parts := make([]string, 0, len(m.conversation.Messages))
	for _, msg := range m.conversation.Messages {
		parts = append(parts, m.renderMessage(msg))
	}
	return strings.Join(parts, "\n\n")
}

func (m *Model) renderMessage(msg *model.Message) string {
	view := components.NewMessageView(msg, m.theme, m.markdown)
	view.Width = m.viewport.Width
	view.CollapseDefault = m.cfg.UI.CollapseToolResults
	view.ShowThinking = m.cfg.UI.ShowThinking
	view.Expanded = m.expanded
	return view.Render()
}
