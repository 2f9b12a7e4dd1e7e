// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/uplink-tui/internal/commands"
	"github.com/jeranaias/uplink-tui/internal/config"
	"github.com/jeranaias/uplink-tui/internal/media"
	"github.com/jeranaias/uplink-tui/internal/protocol"
	"github.com/jeranaias/uplink-tui/internal/session"
	"github.com/jeranaias/uplink-tui/internal/transcript"
	"github.com/jeranaias/uplink-tui/internal/transport"
	"github.com/jeranaias/uplink-tui/internal/ui/components"
	"github.com/jeranaias/uplink-tui/internal/ui/styles"
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
//
// The conversation itself lives in the transcript value; the model only
// holds presentation state (viewport, input, toasts) and the plumbing
// that feeds socket events into the transcript.
type Model struct {
	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Configuration
	cfg       *config.Config
	agentName string
	version   string

	// Transport. sess is nil until the first SessionSwappedMsg arrives;
	// the runner pumps socket events into the Bubble Tea program.
	sess      *transport.Session
	runner    *SocketRunner
	connected bool
	serverURL string

	// Conversation state
	transcript transcript.Transcript
	tracker    *session.Tracker

	// Streaming. Deltas are batched in deltaBuf and drained on a 30fps
	// tick; ticking reports whether a tick chain is armed.
	deltaBuf *DeltaBuffer
	ticking  bool

	// Attachments staged for the next message
	pending []media.Attachment

	// Command system
	registry   *commands.Registry
	parser     *commands.Parser
	completer  *commands.Completer
	cmdCtx     *commands.Context
	handlerCtx *commands.HandlerContext

	// Tab completion
	completionState *commands.CompletionState
	showCompletions bool

	// Input history. historyIndex == len(history) means the live draft;
	// historyDraft stashes the draft while browsing older entries.
	history      []string
	historyIndex int
	historyDraft string

	// UI components
	viewport  viewport.Model
	input     textinput.Model
	statusBar *components.StatusBar
	attachBar components.AttachmentsBar
	chips     *components.ToolChipList
	thinking  components.ThinkingIndicator
	toasts    *components.ToastManager

	// Guard against parallel toast tick chains
	toastTicking bool

	// Help overlay
	showHelp bool

	// Key bindings
	keys KeyMap
}

// Options configures a new chat model. Zero-value fields fall back to
// sensible defaults.
type Options struct {
	// Config is the application configuration. Defaults to config.Default().
	Config *config.Config

	// Theme controls colors and layout. Defaults to styles.NewTheme().
	Theme *styles.Theme

	// Runner pumps socket events into the program. The caller owns the
	// runner so it can wire the tea.Program reference before the first
	// session is attached.
	Runner *SocketRunner

	// Version is shown in the header.
	Version string
}

// New creates a new chat model. The model starts disconnected; sessions
// arrive via SessionSwappedMsg once the caller has dialed the backend.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}
	runner := opts.Runner
	if runner == nil {
		runner = NewSocketRunner()
	}

	// Create text input with prompt
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Message the agent, or /help for commands..."
	ti.CharLimit = 4096
	ti.Focus()

	// Create viewport
	vp := viewport.New(80, 20)
	vp.SetContent("")

	// Command system: the registry ships with the builtin commands
	registry := commands.NewRegistry()
	parser := commands.NewParser(registry)
	completer := commands.NewCompleter(registry)

	handlerCtx := &commands.HandlerContext{}
	cmdCtx := commands.NewContext(cfg, nil, nil).WithHandlerContext(handlerCtx)

	statusBar := components.NewStatusBar(theme)
	statusBar.SetAgentName(cfg.Agent.Name)
	statusBar.SetStatus(components.StatusOffline)

	attachBar := components.NewAttachmentsBar(theme)
	attachBar.SetLimit(cfg.MaxAttachmentBytes())

	return Model{
		theme:           theme,
		cfg:             cfg,
		agentName:       cfg.Agent.Name,
		version:         opts.Version,
		runner:          runner,
		transcript:      transcript.New(),
		deltaBuf:        NewDeltaBuffer(),
		registry:        registry,
		parser:          parser,
		completer:       completer,
		cmdCtx:          cmdCtx,
		handlerCtx:      handlerCtx,
		completionState: commands.NewCompletionState(),
		viewport:        vp,
		input:           ti,
		statusBar:       statusBar,
		attachBar:       attachBar,
		chips:           components.NewToolChipList(theme),
		thinking:        components.NewThinkingIndicator(),
		toasts:          components.NewToastManager(),
		keys:            DefaultKeyMap(),
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, clockTickCmd())
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	// Socket lifecycle
	case AgentEventMsg:
		return m.handleAgentEvent(msg)

	case DisconnectedMsg:
		return m.handleDisconnected(msg)

	case SessionSwappedMsg:
		return m.handleSessionSwapped(msg)

	case SendFailedMsg:
		return m.handleSendFailed(msg)

	// Render pacing
	case StreamTickMsg:
		return m.handleStreamTick(msg)

	case ClockTickMsg:
		return m.handleClockTick(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.thinking, cmd = m.thinking.Update(msg)
		return m, cmd

	// Toasts
	case components.ToastTickMsg:
		return m.handleToastTick(msg)

	case components.ToastDismissMsg:
		m.toasts.RemoveToast(msg.ID)
		return m, nil

	// Command requests and their async results
	case commands.ShowHelpMsg:
		return m.handleShowHelp(msg)

	case commands.NewSessionMsg:
		return m.handleNewSession(msg)

	case commands.ClearSentMsg:
		return m.handleClearSent(msg)

	case commands.CopyToClipboardMsg:
		return m, copyCmd(msg.Content)

	case CopyDoneMsg:
		return m.handleCopyDone(msg)

	case commands.ExportRequestMsg:
		return m.handleExportRequest(msg)

	case ExportDoneMsg:
		return m.handleExportDone(msg)

	case commands.ConnectRequestMsg:
		return m.handleConnectRequest(msg)

	case commands.DisconnectRequestMsg:
		return m.handleDisconnectRequest(msg)

	case commands.HealthResultMsg:
		return m.handleHealthResult(msg)

	case commands.StatusInfoMsg:
		return m.handleStatusInfo(msg)

	case commands.AttachmentAddedMsg:
		return m.handleAttachmentAdded(msg)

	case commands.ListAttachmentsMsg:
		return m.handleListAttachments(msg)

	case commands.DetachMsg:
		return m.handleDetach(msg)

	case commands.ShowConfigMsg:
		return m.handleShowConfig(msg)

	case commands.ConfigUpdatedMsg:
		return m.handleConfigUpdated(msg)

	case commands.ThemeChangedMsg:
		return m.handleThemeChanged(msg)

	case commands.AgentRenameMsg:
		return m.handleAgentRename(msg)

	case commands.SystemMessageMsg:
		return m.handleSystemMessage(msg)

	case commands.ErrorMsg:
		return m.handleCommandError(msg)

	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg)

	default:
		// For any unhandled messages, update the text input and the
		// viewport for scroll events, etc.
		var cmds []tea.Cmd

		var inputCmd tea.Cmd
		m.input, inputCmd = m.input.Update(msg)
		cmds = append(cmds, inputCmd)

		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		cmds = append(cmds, vpCmd)

		return m, tea.Batch(cmds...)
	}
}

// View renders the chat view.
func (m Model) View() string {
	return m.renderChat()
}

// =============================================================================
// RESIZE
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// Calculate viewport dimensions
	// Layout: header + viewport (dynamic) + tool chips + attachments bar
	// + input area + status bar
	//
	// IMPORTANT: These constants MUST stay in sync with the actual rendered
	// heights in view.go renderChat(). renderChat() measures actual heights
	// using lipgloss.Height() and has a fallback if there's a mismatch, but
	// these values should be conservative (larger) to ensure the viewport is
	// never too tall.
	const (
		headerHeight    = 2 // Header line plus potential styling/padding
		inputAreaHeight = 4 // Bordered input box plus char count line
		statusBarHeight = 2 // Status line plus potential styling/padding
		chipRowHeight   = 2 // Tool chip row when tools are visible
		attachBarHeight = 2 // Attachments bar when attachments are staged
	)

	reservedHeight := headerHeight + inputAreaHeight + statusBarHeight
	if m.chips.Count() > 0 {
		reservedHeight += chipRowHeight
	}
	if len(m.pending) > 0 {
		reservedHeight += attachBarHeight
	}

	viewportHeight := m.height - reservedHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	viewportWidth := m.width
	if viewportWidth < 1 {
		viewportWidth = 1
	}

	m.viewport.Width = viewportWidth
	m.viewport.Height = viewportHeight

	// Input layout: the bordered input line has Width(width-4) with
	// Padding(0,1), giving an effective content width of (width-6). The
	// textinput renders prompt ("> ", 2 chars) plus the value, so the
	// textinput width is (width - 6) - 2.
	const promptLen = 2 // "> "
	inputWidth := m.width - 6 - promptLen
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	// Propagate dimensions to theme and components
	if m.theme != nil {
		m.theme.SetSize(m.width, m.height)
	}
	m.statusBar.SetWidth(m.width)
	m.chips.SetWidth(m.width)
	m.attachBar.SetWidth(m.width)

	// Re-render viewport content with new dimensions
	m.refreshViewport(false)

	// Also forward the resize to the viewport so it can update internal state
	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)

	return m, vpCmd
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Quit works regardless of any overlay
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	// Help overlay swallows keys until dismissed
	if m.showHelp {
		switch msg.String() {
		case "f1", "esc", "q", "enter":
			m.showHelp = false
		}
		return m, nil
	}

	if key.Matches(msg, m.keys.Help) {
		m.showHelp = true
		return m, nil
	}

	// Completion popup gets first claim on Tab, Enter and Esc while it is
	// visible; any other key falls through and dismisses it below.
	if m.showCompletions {
		switch {
		case key.Matches(msg, m.keys.Complete):
			return m.handleTabCompletion()
		case key.Matches(msg, m.keys.Send):
			return m.acceptCompletion()
		case key.Matches(msg, m.keys.Dismiss):
			m.clearCompletions()
			return m, nil
		}
	}

	switch {
	case key.Matches(msg, m.keys.Complete):
		return m.handleTabCompletion()

	case key.Matches(msg, m.keys.Send):
		if strings.TrimSpace(m.input.Value()) != "" {
			return m.submitInput()
		}
		return m, nil

	case key.Matches(msg, m.keys.HistoryPrev):
		return m.historyPrev()

	case key.Matches(msg, m.keys.HistoryNext):
		return m.historyNext()

	case key.Matches(msg, m.keys.Clear):
		// Route through the same handler as /clear so the server
		// round-trip and the cleared event stay the single source of
		// truth for wiping the transcript.
		if cmd := m.registry.Get("/clear"); cmd != nil {
			m.cmdCtx.Touch()
			return m, cmd.Handler(m.cmdCtx, nil)
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyLast):
		if text, ok := m.transcript.LastAssistantText(); ok {
			return m, copyCmd(text)
		}
		m.toasts.AddWarning("Nothing to copy yet")
		return m, m.toastCmd()

	case key.Matches(msg, m.keys.PageUp),
		key.Matches(msg, m.keys.PageDown),
		key.Matches(msg, m.keys.Top),
		key.Matches(msg, m.keys.Bottom):
		return m.handleScrollKey(msg)

	case key.Matches(msg, m.keys.Dismiss):
		// Esc with nothing to dismiss
		return m, nil
	}

	// Any other key press clears completion state (user is typing new input)
	if m.showCompletions {
		m.clearCompletions()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleScrollKey handles viewport scrollback keys. These work in every
// phase, including while a response is streaming.
func (m Model) handleScrollKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()

	case key.Matches(msg, m.keys.Top):
		m.viewport.GotoTop()

	case key.Matches(msg, m.keys.Bottom):
		m.viewport.GotoBottom()
	}
	return m, nil
}

// =============================================================================
// TOASTS
// =============================================================================

func (m Model) handleToastTick(msg components.ToastTickMsg) (tea.Model, tea.Cmd) {
	m.toasts.TickToasts()
	if m.toasts.HasToasts() {
		return m, components.ToastTickCmd()
	}
	m.toastTicking = false
	return m, nil
}

// toastCmd arms the toast tick chain if it is not already running.
// Returns nil while a chain is live so parallel chains never stack.
func (m *Model) toastCmd() tea.Cmd {
	if m.toastTicking {
		return nil
	}
	m.toastTicking = true
	return components.ToastTickCmd()
}

// =============================================================================
// MODEL HELPERS
// =============================================================================

// flushDeltas drains any buffered text into the transcript immediately.
// Call this before applying a non-delta event so the transcript order
// matches the order frames arrived on the socket.
func (m *Model) flushDeltas() {
	if text, ok := m.deltaBuf.ForceFlush(); ok {
		m.transcript = m.transcript.Apply(protocol.Event{Kind: protocol.EventTextDelta, Text: text})
	}
}

// syncStatus pushes transcript-derived state into the status bar.
func (m *Model) syncStatus() {
	if m.connected {
		m.statusBar.SetPhase(m.transcript.Phase())
	} else {
		m.statusBar.SetStatus(components.StatusOffline)
	}
	m.statusBar.SetEntryCount(m.transcript.Len())
	m.statusBar.SetAttachmentBudget(media.TotalSize(m.pending), m.cfg.MaxAttachmentBytes(), len(m.pending))
}

// syncHandlerCtx mirrors runtime state into the command handler context
// so /status, /copy and friends see current values.
func (m *Model) syncHandlerCtx() {
	m.handlerCtx.Connected = m.connected
	m.handlerCtx.ServerURL = m.serverURL
	m.handlerCtx.AttachmentCount = len(m.pending)
}

// refreshViewport re-renders the transcript into the viewport.
func (m *Model) refreshViewport(gotoBottom bool) {
	m.viewport.SetContent(m.renderTranscript())
	if gotoBottom {
		m.viewport.GotoBottom()
	}
}

// helpContext reports which keybinding context is active, for the
// context-sensitive help overlay.
func (m Model) helpContext() HelpContext {
	if m.showCompletions {
		return ContextCompletion
	}
	if !m.connected {
		return ContextOffline
	}
	if m.transcript.Phase().Busy() {
		return ContextStreaming
	}
	return ContextInput
}
