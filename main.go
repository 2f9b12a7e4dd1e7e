// uplink TUI - A terminal chat client for a hosted LLM agent.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/uplink-tui/internal/cli"
	"github.com/jeranaias/uplink-tui/internal/commands"
	"github.com/jeranaias/uplink-tui/internal/config"
	"github.com/jeranaias/uplink-tui/internal/transport"
	"github.com/jeranaias/uplink-tui/internal/ui/chat"
	"github.com/jeranaias/uplink-tui/internal/ui/components"
	"github.com/jeranaias/uplink-tui/internal/ui/styles"
)

// Version information (set by build flags)
var (
	version   = "0.1.0"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func init() {
	// Sync version info to the cli package for `uplink version`.
	cli.Version = version
	cli.GitCommit = gitCommit
	cli.BuildDate = buildDate
}

// programRef lets the config watcher and the socket runner deliver
// messages into the running program from outside the Bubble Tea loop.
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

func setProgram(p *tea.Program) {
	programMu.Lock()
	defer programMu.Unlock()
	programRef = p
}

func sendToProgram(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

func main() {
	command, args := cli.Parse()

	switch command {
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdServe:
		cli.HandleServe(args)
	case cli.CmdHealth:
		cli.HandleHealth(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.HandleVersion(args)
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		runTUI(args)
	}
}

// =============================================================================
// TUI ENTRY POINT
// =============================================================================

func runTUI(args cli.Args) {
	cfg, err := config.Load()
	if err != nil {
		// A broken config file should not lock the user out of the TUI.
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		cfg = config.Default()
	}
	if args.Server != "" {
		cfg.Server.URL = args.Server
	}
	if args.NoColor {
		cfg.UI.NoColor = true
	}

	model := newRootModel(cfg, args)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	setProgram(p)
	model.runner.SetProgram(p)

	// Watch the config file so /theme and edits in another terminal take
	// effect without a restart. Watcher errors are non-fatal: the TUI
	// just runs without live reload.
	if path, perr := config.ConfigPathTOML(); perr == nil {
		if watcher, werr := config.NewWatcher(path, func(c *config.Config) {
			sendToProgram(chat.ConfigReloadedMsg{Config: c})
		}); werr == nil {
			go func() { _ = watcher.Watch() }()
			defer watcher.Close()
		}
	}

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// ROOT MODEL
// =============================================================================

// State represents the top-level screen.
type State int

const (
	// StateWelcome shows the splash screen with the health probe result.
	StateWelcome State = iota
	// StateChat is the main chat interface.
	StateChat
)

// healthProbeMsg carries the startup health probe result.
type healthProbeMsg struct {
	err error
}

// Model is the root application model. It owns the screen switch and
// delegates everything past the welcome screen to the chat model.
type Model struct {
	state State
	cfg   *config.Config
	theme *styles.Theme

	welcome      components.Welcome
	chatModel    chat.Model
	errorDisplay components.ErrorDisplay
	runner       *chat.SocketRunner

	width  int
	height int
}

func newRootModel(cfg *config.Config, args cli.Args) *Model {
	theme := styles.NewTheme()
	runner := chat.NewSocketRunner()

	welcome := components.NewWelcome(theme)
	welcome.SetVersion(version)
	welcome.SetServerURL(cfg.Server.URL)
	welcome.SetAgentName(cfg.Agent.Name)

	chatModel := chat.New(chat.Options{
		Config:  cfg,
		Theme:   theme,
		Runner:  runner,
		Version: version,
	})

	return &Model{
		state:        StateWelcome,
		cfg:          cfg,
		theme:        theme,
		welcome:      welcome,
		chatModel:    chatModel,
		errorDisplay: components.NewErrorDisplay(),
		runner:       runner,
	}
}

// Init starts the chat model and fires the startup health probe.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(
		m.chatModel.Init(),
		probeHealth(m.cfg),
	)
}

// probeHealth checks the server's health endpoint without opening a
// session, so the welcome screen can show reachability up front.
func probeHealth(cfg *config.Config) tea.Cmd {
	url := cfg.Server.URL
	timeout := time.Duration(cfg.Server.HealthTimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return func() tea.Msg {
		sess, err := transport.New(transport.Config{ServerURL: url, HealthTimeout: timeout})
		if err != nil {
			return healthProbeMsg{err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return healthProbeMsg{err: sess.Health(ctx)}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case healthProbeMsg:
		m.welcome.SetHealth(msg.err == nil)
		if msg.err != nil {
			m.errorDisplay = components.GetDefaultMatcher().MatchOrDefault(
				"Server Unreachable", msg.err.Error())
			m.errorDisplay.SetSize(m.width, m.height)
			m.errorDisplay.SetAutoDismiss(8 * time.Second)
			m.errorDisplay.Show()
			return m, m.errorDisplay.Init()
		}
		return m, nil

	case chat.ConfigReloadedMsg:
		if msg.Config != nil {
			m.cfg = msg.Config
			m.welcome.SetServerURL(msg.Config.Server.URL)
			m.welcome.SetAgentName(msg.Config.Agent.Name)
		}
		return m.forwardToChat(msg)
	}

	// Error display consumes its own ticks and dismiss keys.
	if m.errorDisplay.IsVisible() {
		var cmd tea.Cmd
		m.errorDisplay, cmd = m.errorDisplay.Update(msg)
		if cmd != nil {
			return m, cmd
		}
	}

	if m.state == StateChat {
		return m.forwardToChat(msg)
	}
	return m, nil
}

func (m *Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)
	m.welcome.SetSize(msg.Width, msg.Height)
	m.errorDisplay.SetSize(msg.Width, msg.Height)
	return m.forwardToChat(msg)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.errorDisplay.IsVisible() && m.errorDisplay.IsDismissible() {
		switch msg.String() {
		case "esc", "enter":
			m.errorDisplay.Hide()
			return m, nil
		}
	}

	switch m.state {
	case StateWelcome:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		default:
			// Any other key enters the chat and kicks off the first
			// connection attempt.
			m.state = StateChat
			var cmds []tea.Cmd
			if m.width > 0 {
				updated, cmd := m.chatModel.Update(tea.WindowSizeMsg{
					Width:  m.width,
					Height: m.height,
				})
				m.chatModel = updated.(chat.Model)
				cmds = append(cmds, cmd)
			}
			updated, cmd := m.chatModel.Update(commands.ConnectRequestMsg{})
			m.chatModel = updated.(chat.Model)
			cmds = append(cmds, cmd)
			return m, tea.Batch(cmds...)
		}

	case StateChat:
		return m.forwardToChat(msg)
	}

	return m, nil
}

// forwardToChat delegates a message to the chat model and re-wraps it.
func (m *Model) forwardToChat(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.chatModel.Update(msg)
	m.chatModel = updated.(chat.Model)
	return m, cmd
}

func (m *Model) View() string {
	if m.errorDisplay.IsVisible() {
		return m.errorDisplay.View()
	}

	switch m.state {
	case StateWelcome:
		return m.welcome.View()
	case StateChat:
		return m.chatModel.View()
	default:
		return ""
	}
}
