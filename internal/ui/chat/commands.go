// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mcpchat-tui/internal/archive"
	"github.com/jeranaias/mcpchat-tui/internal/backend"
	"github.com/jeranaias/mcpchat-tui/internal/model"
	"github.com/jeranaias/mcpchat-tui/internal/storage"
	"github.com/jeranaias/mcpchat-tui/internal/util"
)

// =============================================================================
// SLASH COMMANDS
// =============================================================================

const helpText = `Commands:
  /new              start a new conversation
  /list             list saved conversations
  /load <n>         load conversation n from the last /list
  /delete <n>       delete conversation n from the last /list
  /clear            clear the current conversation history
  /export [md|json] export the conversation to a file
  /search <query>   full-text search across archived conversations
  /tools            list the MCP tools the server exposes
  /help             show this help
  /quit             exit

Keys:
  enter             send message
  esc / ctrl+c      cancel an in-flight response
  ctrl+o            expand or collapse tool results
  ctrl+t            show or hide the reasoning trace
  pgup / pgdown     scroll
  ctrl+q            exit`

// handleCommand dispatches a slash command entered at the prompt.
func (m Model) handleCommand(line string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(line)
	cmd := fields[0]
	args := fields[1:]

	switch cmd {
	case "/new":
		return m.newConversation()

	case "/list":
		return m, m.listCmd()

	case "/load":
		return m.loadByArg(args)

	case "/delete":
		return m.deleteByArg(args)

	case "/clear":
		m.conversation.ClearHistory()
		m.expanded = make(map[string]bool)
		m.statusMsg = "history cleared"
		m.updateViewport()
		return m, nil

	case "/export":
		format := "md"
		if len(args) > 0 {
			format = args[0]
		}
		return m, m.exportCmd(format)

	case "/search":
		if len(args) == 0 {
			m.statusMsg = "usage: /search <query>"
			return m, nil
		}
		return m, m.searchArchiveCmd(strings.Join(args, " "))

	case "/tools":
		return m, m.showToolsCmd()

	case "/help":
		m.conversation.AddSystemMessage(helpText)
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil

	case "/quit", "/exit":
		return m, tea.Quit
	}

	m.statusMsg = "unknown command " + cmd + " (try /help)"
	return m, nil
}

func (m Model) newConversation() (tea.Model, tea.Cmd) {
	old := m.conversation
	m.conversation = model.NewConversation(m.cfg.Backend.Model)
	m.expanded = make(map[string]bool)
	m.statusMsg = "new conversation"
	m.updateViewport()

	// Persist the previous conversation if it has content.
	if old != nil && len(old.Messages) > 0 && m.store != nil {
		store := m.store
		return m, func() tea.Msg {
			return ConversationSavedMsg{Err: store.Save(old)}
		}
	}
	return m, nil
}

func (m Model) loadByArg(args []string) (tea.Model, tea.Cmd) {
	index, err := parseIndex(args)
	if err != nil {
		m.statusMsg = "usage: /load <n>"
		return m, nil
	}
	return m, m.loadCmd(index)
}

func (m Model) deleteByArg(args []string) (tea.Model, tea.Cmd) {
	index, err := parseIndex(args)
	if err != nil {
		m.statusMsg = "usage: /delete <n>"
		return m, nil
	}
	if index < 1 || index > len(m.lastList) {
		m.statusMsg = "no such conversation, run /list first"
		return m, nil
	}
	meta := m.lastList[index-1]
	return m, m.deleteCmd(meta.ID)
}

func parseIndex(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing index")
	}
	return strconv.Atoi(args[0])
}

// =============================================================================
// ASYNC COMMANDS
// =============================================================================

// saveCmd persists the active conversation.
func (m Model) saveCmd() tea.Cmd {
	if m.store == nil {
		return nil
	}
	store := m.store
	conv := m.conversation
	return func() tea.Msg {
		return ConversationSavedMsg{Err: store.Save(conv)}
	}
}

// archiveCmd indexes the conversation for full-text search.
func (m Model) archiveCmd() tea.Cmd {
	if m.archive == nil {
		return nil
	}
	arch := m.archive
	conv := m.conversation
	return func() tea.Msg {
		if err := arch.IndexConversation(conv); err != nil {
			return StatusMsg{Text: "archive index failed: " + err.Error()}
		}
		return nil
	}
}

func (m Model) listCmd() tea.Cmd {
	if m.store == nil {
		return func() tea.Msg {
			return ConversationsListedMsg{Err: fmt.Errorf("storage is disabled")}
		}
	}
	store := m.store
	return func() tea.Msg {
		metas, err := store.List()
		return ConversationsListedMsg{Metas: metas, Err: err}
	}
}

func (m Model) loadCmd(index int) tea.Cmd {
	if m.store == nil {
		return func() tea.Msg {
			return ConversationLoadedMsg{Err: fmt.Errorf("storage is disabled")}
		}
	}
	store := m.store
	return func() tea.Msg {
		conv, err := store.LoadByIndex(index - 1)
		return ConversationLoadedMsg{Conversation: conv, Err: err}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	store := m.store
	arch := m.archive
	return func() tea.Msg {
		if err := store.Delete(id); err != nil {
			return StatusMsg{Text: "delete failed: " + err.Error()}
		}
		if arch != nil {
			// The conversation may never have been indexed.
			_ = arch.RemoveConversation(id)
		}
		return StatusMsg{Text: "deleted " + id}
	}
}

// exportCmd writes the conversation to a timestamped file in the
// working directory.
func (m Model) exportCmd(format string) tea.Cmd {
	conv := m.conversation
	return func() tea.Msg {
		stamp := time.Now().Format("20060102-150405")
		var path string
		var data []byte

		switch format {
		case "json":
			path = filepath.Join(".", "conversation-"+stamp+".json")
			var err error
			data, err = storage.ExportJSON(conv)
			if err != nil {
				return ExportDoneMsg{Err: err}
			}
		case "md", "markdown":
			path = filepath.Join(".", "conversation-"+stamp+".md")
			data = []byte(storage.ExportMarkdown(conv))
		default:
			return ExportDoneMsg{Err: fmt.Errorf("unknown export format %q", format)}
		}

		if err := util.AtomicWriteFile(path, data, 0o644); err != nil {
			return ExportDoneMsg{Err: err}
		}
		return ExportDoneMsg{Path: path}
	}
}

// searchArchiveCmd runs a full-text query over the archive.
func (m Model) searchArchiveCmd(query string) tea.Cmd {
	if m.archive == nil {
		return func() tea.Msg {
			return ArchiveResultsMsg{Query: query, Err: fmt.Errorf("archive is disabled")}
		}
	}
	arch := m.archive
	return func() tea.Msg {
		hits, err := arch.Search(query, &archive.SearchOptions{MaxResults: 20})
		return ArchiveResultsMsg{Query: query, Hits: hits, Err: err}
	}
}

// listToolsCmd probes the server for its tool list at startup.
func (m Model) listToolsCmd() tea.Cmd {
	if m.client == nil {
		return nil
	}
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		tools, err := client.ListTools(ctx)
		return ToolsListedMsg{Tools: tools, Err: err}
	}
}

// showToolsCmd fetches the tool list and prints it into the transcript.
func (m Model) showToolsCmd() tea.Cmd {
	if m.client == nil {
		return nil
	}
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		tools, err := client.ListTools(ctx)
		if err != nil {
			return StatusMsg{Text: "tools: " + err.Error()}
		}
		return ToolListShownMsg{Tools: tools}
	}
}

// =============================================================================
// FORMATTERS
// =============================================================================

func formatConversationList(metas []storage.Meta) string {
	if len(metas) == 0 {
		return "No saved conversations."
	}
	var b strings.Builder
	b.WriteString("Saved conversations:\n")
	for i, meta := range metas {
		fmt.Fprintf(&b, "%3d. %s  (%d messages, %s)\n",
			i+1,
			util.TruncateWidth(meta.Title, 50),
			meta.MessageCount,
			meta.UpdatedAt.Format("2006-01-02 15:04"))
		if meta.Preview != "" {
			fmt.Fprintf(&b, "     %s\n", meta.Preview)
		}
	}
	b.WriteString("\nUse /load <n> to resume one.")
	return b.String()
}

func formatArchiveHits(query string, hits []archive.SearchHit) string {
	if len(hits) == 0 {
		return fmt.Sprintf("No archived messages match %q.", query)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Results for %q:\n", query)
	for _, hit := range hits {
		fmt.Fprintf(&b, "• [%s] %s: %s\n",
			hit.Timestamp.Format("2006-01-02"),
			util.TruncateWidth(hit.Title, 40),
			hit.Snippet)
	}
	return b.String()
}

func formatToolList(tools []backend.ToolInfo) string {
	if len(tools) == 0 {
		return "The server exposes no tools."
	}
	var b strings.Builder
	b.WriteString("Available tools:\n")
	for _, tool := range tools {
		name := tool.Name
		if tool.Server != "" {
			name = tool.Server + "/" + name
		}
		fmt.Fprintf(&b, "• %s", name)
		if tool.Description != "" {
			fmt.Fprintf(&b, ": %s", util.TruncateWidth(tool.Description, 80))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func formatToolCount(n int) string {
	if n == 1 {
		return "connected, 1 tool available"
	}
	return fmt.Sprintf("connected, %d tools available", n)
}
