// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/mcpchat-tui/internal/archive"
	"github.com/jeranaias/mcpchat-tui/internal/backend"
	"github.com/jeranaias/mcpchat-tui/internal/config"
	"github.com/jeranaias/mcpchat-tui/internal/model"
	"github.com/jeranaias/mcpchat-tui/internal/storage"
	"github.com/jeranaias/mcpchat-tui/internal/ui/components"
	"github.com/jeranaias/mcpchat-tui/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady     State = iota // Ready for input
	StateStreaming              // Receiving a streamed response
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	state State
	theme *styles.Theme
	cfg   *config.Config

	width  int
	height int

	// Conversation and collaborators
	conversation *model.Conversation
	client       *backend.Client
	store        *storage.Store
	archive      *archive.Archive

	// Current streaming message
	streamingMsgID string
	streamingStats *model.Statistics
	waitingFirst   bool

	streamingBuffer *StreamingBuffer
	cancelMgr       *cancelManager

	// Per-block expansion overrides, keyed by components.BlockKey.
	// Absent keys fall back to the config defaults.
	expanded map[string]bool

	// Rendering
	markdown *components.MarkdownRenderer

	// UI components
	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model

	// Stored conversation list from the last /list, for /load by index.
	lastList []storage.Meta

	// Transient status line
	statusMsg string
	lastErr   error
}

// Options carries the collaborators the chat view drives.
type Options struct {
	Config  *config.Config
	Client  *backend.Client
	Store   *storage.Store
	Archive *archive.Archive
}

// New creates a chat model.
func New(theme *styles.Theme, opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}

	ta := textarea.New()
	ta.Placeholder = "Type a message, or /help for commands…"
	ta.Prompt = "> "
	ta.SetHeight(1)
	ta.CharLimit = 8192
	ta.ShowLineNumbers = false
	ta.Focus()

	vp := viewport.New(80, 20)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = theme.Spinner

	return Model{
		state:           StateReady,
		theme:           theme,
		cfg:             cfg,
		conversation:    model.NewConversation(cfg.Backend.Model),
		client:          opts.Client,
		store:           opts.Store,
		archive:         opts.Archive,
		streamingBuffer: NewStreamingBuffer(),
		cancelMgr:       newCancelManager(),
		expanded:        make(map[string]bool),
		markdown:        components.NewMarkdownRenderer(theme.GlamourStyle(), cfg.UI.MarkdownWidth),
		viewport:        vp,
		input:           ta,
		spinner:         sp,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.listToolsCmd())
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case StreamStartMsg:
		return m.handleStreamStart(msg)

	case StreamTickMsg:
		return m.handleStreamTick(msg)

	case StreamDoneMsg:
		return m.handleStreamDone(msg)

	case StreamErrorMsg:
		return m.handleStreamError(msg)

	case ConversationSavedMsg:
		if msg.Err != nil {
			m.statusMsg = "save failed: " + msg.Err.Error()
		}
		return m, nil

	case ConversationsListedMsg:
		return m.handleConversationsListed(msg)

	case ConversationLoadedMsg:
		return m.handleConversationLoaded(msg)

	case ExportDoneMsg:
		if msg.Err != nil {
			m.statusMsg = "export failed: " + msg.Err.Error()
		} else {
			m.statusMsg = "exported to " + msg.Path
		}
		return m, nil

	case ArchiveResultsMsg:
		return m.handleArchiveResults(msg)

	case ToolsListedMsg:
		return m.handleToolsListed(msg)

	case ToolListShownMsg:
		m.conversation.AddSystemMessage(formatToolList(msg.Tools))
		m.updateViewport()
		m.viewport.GotoBottom()
		return m, nil

	case ConfigReloadedMsg:
		return m.handleConfigReload(msg)

	case StatusMsg:
		m.statusMsg = msg.Text
		return m, nil

	case spinner.TickMsg:
		if m.state == StateStreaming && m.waitingFirst {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	// Unhandled messages go to the focused input and the viewport.
	var cmds []tea.Cmd
	if m.state == StateReady {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+q":
		return m, tea.Quit

	case "ctrl+c", "esc":
		if m.state == StateStreaming {
			return m.cancelStream()
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil

	case "ctrl+o":
		// Toggle tool results of the last assistant message.
		m.toggleLastToolResults()
		m.updateViewport()
		return m, nil

	case "ctrl+t":
		m.toggleLastThinking()
		m.updateViewport()
		return m, nil

	case "pgup", "ctrl+u":
		m.viewport.HalfViewUp()
		return m, nil

	case "pgdown", "ctrl+d":
		m.viewport.HalfViewDown()
		return m, nil

	case "enter":
		if m.state != StateReady {
			return m, nil
		}
		text := strings.TrimSpace(m.input.Value())
		if text == "" {
			return m, nil
		}
		m.input.Reset()
		if strings.HasPrefix(text, "/") {
			return m.handleCommand(text)
		}
		return m.submit(text)
	}

	if m.state == StateReady {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleResize recomputes the layout.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	const (
		headerHeight    = 1
		inputAreaHeight = 3
		statusBarHeight = 1
	)
	vpHeight := m.height - headerHeight - inputAreaHeight - statusBarHeight
	if vpHeight < 1 {
		vpHeight = 1
	}
	m.viewport.Width = m.width
	m.viewport.Height = vpHeight
	m.input.SetWidth(m.width - 4)

	m.theme.SetSize(m.width, m.height)

	width := m.cfg.UI.MarkdownWidth
	if width > m.width-4 {
		width = m.width - 4
	}
	m.markdown.SetWidth(width)

	m.updateViewport()
	return m, nil
}

// =============================================================================
// SUBMISSION AND STREAMING
// =============================================================================

// submit sends the user's message to the backend and starts streaming
// the reply.
func (m Model) submit(text string) (tea.Model, tea.Cmd) {
	history := m.historyForBackend()
	m.conversation.AddUserMessage(text)
	asst := m.conversation.AddAssistantMessage()

	m.state = StateStreaming
	m.waitingFirst = true
	m.streamingMsgID = asst.ID
	m.streamingStats = model.NewStatistics()
	m.streamingBuffer.Reset()
	m.statusMsg = ""
	m.updateViewport()
	m.viewport.GotoBottom()

	streamCmd := m.startStreamCmd(asst.ID, text, history)
	return m, tea.Batch(m.spinner.Tick, streamTickCmd(), streamCmd)
}

// historyForBackend converts finished messages to the wire history shape.
func (m Model) historyForBackend() []backend.HistoryMessage {
	var history []backend.HistoryMessage
	for _, msg := range m.conversation.Messages {
		if msg.IsStreaming || msg.IsEmpty() || msg.Role == model.RoleSystem {
			continue
		}
		history = append(history, backend.HistoryMessage{
			Role:    msg.Role.String(),
			Content: msg.Text(),
		})
	}
	return history
}

// startStreamCmd runs the chat stream in a goroutine, feeding tokens
// into the streaming buffer.
func (m Model) startStreamCmd(messageID, text string, history []backend.HistoryMessage) tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.cancelMgr.set(cancel)

	client := m.client
	buffer := m.streamingBuffer
	stats := m.streamingStats
	req := backend.ChatRequest{
		Message:        text,
		Model:          m.cfg.Backend.Model,
		ConversationID: m.conversation.ID,
		MessageID:      messageID,
		HistoryMessage: history,
	}

	return func() tea.Msg {
		if client == nil {
			return StreamErrorMsg{MessageID: messageID, Err: backend.ErrUnreachable}
		}

		first := true
		var streamErr error
		err := client.ChatStream(ctx, req, func(chunk backend.StreamChunk) {
			if chunk.Err != nil {
				streamErr = chunk.Err
				return
			}
			if chunk.Done || chunk.Content == "" {
				return
			}
			if first {
				stats.RecordFirstToken()
				first = false
			}
			buffer.Write(chunk.Content)
		})

		if err != nil {
			return StreamErrorMsg{MessageID: messageID, Err: err}
		}
		if streamErr != nil {
			return StreamErrorMsg{MessageID: messageID, Err: streamErr}
		}
		return StreamDoneMsg{MessageID: messageID, Stats: stats}
	}
}

func (m Model) handleStreamStart(msg StreamStartMsg) (tea.Model, tea.Cmd) {
	m.streamingMsgID = msg.MessageID
	m.state = StateStreaming
	m.waitingFirst = true
	return m, tea.Batch(m.spinner.Tick, streamTickCmd())
}

// handleStreamTick drains the buffer into the conversation and re-renders.
func (m Model) handleStreamTick(StreamTickMsg) (tea.Model, tea.Cmd) {
	if m.state != StateStreaming {
		return m, nil
	}

	if content, ok := m.streamingBuffer.Flush(); ok {
		m.waitingFirst = false
		m.conversation.AppendToLast(content)
		m.updateViewport()
		m.viewport.GotoBottom()
	}
	return m, streamTickCmd()
}

func (m Model) handleStreamDone(msg StreamDoneMsg) (tea.Model, tea.Cmd) {
	if msg.MessageID != m.streamingMsgID {
		return m, nil
	}

	if content, ok := m.streamingBuffer.ForceFlush(); ok {
		m.conversation.AppendToLast(content)
	}

	stats := msg.Stats
	if stats != nil {
		last := m.conversation.LastAssistantMessage()
		tokens := 0
		if last != nil {
			tokens = last.EstimateTokens()
		}
		stats.Finalize(tokens)
	}
	m.conversation.FinalizeLast(stats)

	m.state = StateReady
	m.waitingFirst = false
	m.streamingMsgID = ""
	m.streamingStats = nil
	m.cancelMgr.fire()

	m.updateViewport()
	m.viewport.GotoBottom()
	m.input.Focus()

	return m, tea.Batch(textarea.Blink, m.saveCmd(), m.archiveCmd())
}

func (m Model) handleStreamError(msg StreamErrorMsg) (tea.Model, tea.Cmd) {
	if msg.MessageID != m.streamingMsgID {
		return m, nil
	}

	if content, ok := m.streamingBuffer.ForceFlush(); ok {
		m.conversation.AppendToLast(content)
	}
	m.conversation.CancelLast()

	m.state = StateReady
	m.waitingFirst = false
	m.streamingMsgID = ""
	m.streamingStats = nil
	m.cancelMgr.fire()
	m.lastErr = msg.Err
	m.statusMsg = "error: " + msg.Err.Error()

	m.updateViewport()
	m.input.Focus()
	return m, textarea.Blink
}

// cancelStream aborts the active stream, keeping partial output.
func (m Model) cancelStream() (tea.Model, tea.Cmd) {
	m.cancelMgr.fire()

	if content, ok := m.streamingBuffer.ForceFlush(); ok {
		m.conversation.AppendToLast(content)
	}
	m.conversation.CancelLast()

	m.state = StateReady
	m.waitingFirst = false
	m.streamingMsgID = ""
	m.streamingStats = nil
	m.statusMsg = "stream cancelled"

	m.updateViewport()
	m.input.Focus()
	return m, textarea.Blink
}

// =============================================================================
// BLOCK STATE TOGGLES
// =============================================================================

// toggleLastToolResults flips expansion of every tool result in the last
// assistant message.
func (m *Model) toggleLastToolResults() {
	last := m.conversation.LastAssistantMessage()
	if last == nil {
		return
	}
	parsed := last.Blocks()
	if parsed == nil {
		return
	}
	for _, block := range parsed.ToolResults() {
		key := components.BlockKey(last.ID, block.ID())
		current, ok := m.expanded[key]
		if !ok {
			current = !m.cfg.UI.CollapseToolResults
		}
		m.expanded[key] = !current
	}
}

// toggleLastThinking flips the reasoning trace of the last assistant
// message.
func (m *Model) toggleLastThinking() {
	last := m.conversation.LastAssistantMessage()
	if last == nil {
		return
	}
	parsed := last.Blocks()
	if parsed == nil {
		return
	}
	thinking := parsed.Thinking()
	if thinking == nil {
		return
	}
	key := components.BlockKey(last.ID, thinking.ID())
	current, ok := m.expanded[key]
	if !ok {
		current = m.cfg.UI.ShowThinking
	}
	m.expanded[key] = !current
}

// =============================================================================
// COLLABORATOR MESSAGE HANDLERS
// =============================================================================

func (m Model) handleConversationsListed(msg ConversationsListedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.statusMsg = "list failed: " + msg.Err.Error()
		return m, nil
	}
	m.lastList = msg.Metas
	m.conversation.AddSystemMessage(formatConversationList(msg.Metas))
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) handleConversationLoaded(msg ConversationLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.statusMsg = "load failed: " + msg.Err.Error()
		return m, nil
	}
	m.conversation = msg.Conversation
	m.expanded = make(map[string]bool)
	m.statusMsg = "loaded " + msg.Conversation.Title
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) handleArchiveResults(msg ArchiveResultsMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.statusMsg = "search failed: " + msg.Err.Error()
		return m, nil
	}
	m.conversation.AddSystemMessage(formatArchiveHits(msg.Query, msg.Hits))
	m.updateViewport()
	m.viewport.GotoBottom()
	return m, nil
}

func (m Model) handleToolsListed(msg ToolsListedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		// The server may simply be down at startup; stay quiet.
		return m, nil
	}
	m.statusMsg = formatToolCount(len(msg.Tools))
	return m, nil
}

// handleConfigReload applies a hot-reloaded configuration.
func (m Model) handleConfigReload(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Config == nil {
		return m, nil
	}
	m.cfg = msg.Config
	config.SetGlobal(msg.Config)

	width := msg.Config.UI.MarkdownWidth
	if m.width > 0 && width > m.width-4 {
		width = m.width - 4
	}
	m.markdown.SetWidth(width)
	m.statusMsg = "configuration reloaded"
	m.updateViewport()
	return m, nil
}

// =============================================================================
// VIEWPORT
// =============================================================================

func (m *Model) updateViewport() {
	m.viewport.SetContent(m.renderMessages())
}

// Conversation returns the active conversation.
func (m *Model) Conversation() *model.Conversation {
	return m.conversation
}

// State returns the current view state.
func (m *Model) State() State {
	return m.state
}
