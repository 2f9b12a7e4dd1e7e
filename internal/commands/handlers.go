// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/uplink-tui/internal/media"
	"github.com/jeranaias/uplink-tui/internal/session"
	"github.com/jeranaias/uplink-tui/internal/transport"
)

// =============================================================================
// MESSAGE TYPES
// =============================================================================

// ShowHelpMsg requests the help view. Mode is "quick", "all", a category
// name, or empty for the default quick help.
type ShowHelpMsg struct {
	Mode string
}

// NewSessionMsg requests a fresh session: new session ID, new socket,
// empty transcript.
type NewSessionMsg struct{}

// ClearSentMsg indicates the clear frame was written to the socket.
// The transcript resets when the backend's cleared event arrives.
type ClearSentMsg struct{}

// CopyToClipboardMsg carries text the application should place on the
// clipboard.
type CopyToClipboardMsg struct {
	Content string
}

// ExportRequestMsg requests a transcript export.
type ExportRequestMsg struct {
	Format string // "markdown", "json", or "html"
	Path   string // output path, empty for default
}

// ConnectRequestMsg requests a connection attempt. URL is empty to use
// the configured server.
type ConnectRequestMsg struct {
	URL string
}

// DisconnectRequestMsg requests closing the active connection.
type DisconnectRequestMsg struct{}

// HealthResultMsg reports the outcome of a health probe.
type HealthResultMsg struct {
	URL     string
	Latency time.Duration
	Err     error
}

// StatusInfoMsg carries a snapshot of session state for display.
type StatusInfoMsg struct {
	SessionID    string
	ServerURL    string
	AgentName    string
	Theme        string
	Connected    bool
	TurnInFlight bool
	Uptime       time.Duration
	Idle         time.Duration
	Attachments  int
	Stats        session.Stats
}

// AttachmentAddedMsg reports the result of staging a file attachment.
type AttachmentAddedMsg struct {
	Attachment media.Attachment
	Err        error
}

// ListAttachmentsMsg requests display of the pending attachment list.
type ListAttachmentsMsg struct{}

// DetachMsg removes a pending attachment. Index is zero-based; All
// removes everything.
type DetachMsg struct {
	Index int
	All   bool
}

// ShowConfigMsg requests display of the full configuration.
type ShowConfigMsg struct{}

// ConfigUpdatedMsg indicates a config key was changed and should be
// persisted and applied.
type ConfigUpdatedMsg struct {
	Key   string
	Value string
}

// ThemeChangedMsg indicates the user selected a new theme.
type ThemeChangedMsg struct {
	Theme string
}

// AgentRenameMsg changes the agent display name for this session.
type AgentRenameMsg struct {
	Name string
}

// SystemMessageMsg displays an informational message in the transcript.
type SystemMessageMsg struct {
	Message string
}

// ErrorMsg displays an error with optional remediation tip.
type ErrorMsg struct {
	Title   string
	Message string
	Tip     string
}

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// HandlerContext carries runtime state that handlers read but do not own.
// The application keeps it current as the connection and attachment list
// change.
type HandlerContext struct {
	// Connected reports whether the socket session is live
	Connected bool

	// ServerURL is the URL of the active connection, if any
	ServerURL string

	// AttachmentCount is the number of attachments staged for the next
	// message
	AttachmentCount int

	// LastResponse is the most recent completed agent message, for /copy
	LastResponse string
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// HandleHelp shows help text.
func HandleHelp(ctx *Context, args []string) tea.Cmd {
	mode := ""
	if len(args) > 0 {
		mode = args[0]
	}
	return func() tea.Msg {
		return ShowHelpMsg{Mode: mode}
	}
}

// HandleQuit exits the application.
func HandleQuit(ctx *Context, args []string) tea.Cmd {
	return tea.Quit
}

// HandleNew starts a fresh session.
func HandleNew(ctx *Context, args []string) tea.Cmd {
	ctx.Touch()
	return func() tea.Msg {
		return NewSessionMsg{}
	}
}

// HandleClear sends the clear frame. The transcript is not wiped here;
// it resets when the backend acknowledges with a cleared event.
func HandleClear(ctx *Context, args []string) tea.Cmd {
	ctx.Touch()
	return func() tea.Msg {
		if ctx.Transport == nil {
			return ErrorMsg{
				Title:   "Not connected",
				Message: "There is no active connection to clear.",
				Tip:     "Use /connect to reach the agent first.",
			}
		}
		if err := ctx.Transport.SendClear(); err != nil {
			return ErrorMsg{Title: "Clear failed", Message: err.Error()}
		}
		if ctx.Tracker != nil {
			ctx.Tracker.RecordOutbound()
		}
		return ClearSentMsg{}
	}
}

// HandleCopy copies the last completed agent response.
func HandleCopy(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		if ctx.HandlerCtx == nil || ctx.HandlerCtx.LastResponse == "" {
			return ErrorMsg{
				Title:   "Nothing to copy",
				Message: "The agent has not completed a response yet.",
			}
		}
		return CopyToClipboardMsg{Content: ctx.HandlerCtx.LastResponse}
	}
}

// HandleExport validates the format and requests a transcript export.
func HandleExport(ctx *Context, args []string) tea.Cmd {
	format := "markdown"
	path := ""
	if len(args) > 0 {
		format = strings.ToLower(args[0])
	}
	if len(args) > 1 {
		path = args[1]
	}

	switch format {
	case "md":
		format = "markdown"
	case "markdown", "json", "html":
	default:
		return func() tea.Msg {
			return ErrorMsg{
				Title:   "Unknown export format",
				Message: fmt.Sprintf("%q is not a supported format.", format),
				Tip:     "Supported formats: markdown, json, html",
			}
		}
	}

	ctx.Touch()
	return func() tea.Msg {
		return ExportRequestMsg{Format: format, Path: path}
	}
}

// HandleConnect requests a connection, optionally to a different URL.
func HandleConnect(ctx *Context, args []string) tea.Cmd {
	url := ""
	if len(args) > 0 {
		url = strings.TrimSpace(args[0])
	}
	if ctx.HandlerCtx != nil && ctx.HandlerCtx.Connected {
		return func() tea.Msg {
			return ErrorMsg{
				Title:   "Already connected",
				Message: "This session already has a live connection.",
				Tip:     "Use /disconnect first, or /new for a fresh session.",
			}
		}
	}
	return func() tea.Msg {
		return ConnectRequestMsg{URL: url}
	}
}

// HandleDisconnect requests closing the active connection.
func HandleDisconnect(ctx *Context, args []string) tea.Cmd {
	if ctx.HandlerCtx != nil && !ctx.HandlerCtx.Connected {
		return func() tea.Msg {
			return ErrorMsg{
				Title:   "Not connected",
				Message: "There is no active connection.",
			}
		}
	}
	return func() tea.Msg {
		return DisconnectRequestMsg{}
	}
}

// HandleHealth probes the backend health endpoint without touching the
// socket session.
func HandleHealth(ctx *Context, args []string) tea.Cmd {
	url := ""
	timeout := 5 * time.Second
	if ctx.Config != nil {
		url = ctx.Config.Server.URL
		if secs := ctx.Config.Server.HealthTimeoutSecs; secs > 0 {
			timeout = time.Duration(secs) * time.Second
		}
	}
	if ctx.HandlerCtx != nil && ctx.HandlerCtx.ServerURL != "" {
		url = ctx.HandlerCtx.ServerURL
	}

	return func() tea.Msg {
		if url == "" {
			return ErrorMsg{
				Title:   "No server configured",
				Message: "Set server.url before probing health.",
				Tip:     "Try /config server.url ws://localhost:8000",
			}
		}
		probe, err := transport.New(transport.Config{ServerURL: url})
		if err != nil {
			return HealthResultMsg{URL: url, Err: err}
		}
		probeCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		start := time.Now()
		err = probe.Health(probeCtx)
		return HealthResultMsg{URL: url, Latency: time.Since(start), Err: err}
	}
}

// HandleStatus assembles a status snapshot from the available services.
func HandleStatus(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		info := StatusInfoMsg{}
		if ctx.Tracker != nil {
			st := ctx.Tracker.Snapshot()
			info.SessionID = st.SessionID
			info.Uptime = st.Duration
			info.Idle = st.IdleTime
			info.TurnInFlight = st.TurnInFlight
			info.Stats = st.Stats
		}
		if ctx.Transport != nil {
			info.SessionID = ctx.Transport.ID()
		}
		if ctx.Config != nil {
			info.ServerURL = ctx.Config.Server.URL
			info.AgentName = ctx.Config.Agent.Name
			info.Theme = ctx.Config.UI.Theme
		}
		if ctx.HandlerCtx != nil {
			info.Connected = ctx.HandlerCtx.Connected
			if ctx.HandlerCtx.ServerURL != "" {
				info.ServerURL = ctx.HandlerCtx.ServerURL
			}
			info.Attachments = ctx.HandlerCtx.AttachmentCount
		}
		return info
	}
}

// HandleAttach stages a media file for the next outbound message.
func HandleAttach(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		return func() tea.Msg {
			return ErrorMsg{
				Title:   "Missing file path",
				Message: "Attach needs a file to stage.",
				Tip:     "Usage: /attach <path>",
			}
		}
	}
	path := expandHome(strings.TrimSpace(args[0]))
	limit := int64(media.DefaultLimit)
	if ctx.Config != nil {
		limit = ctx.Config.MaxAttachmentBytes()
	}

	ctx.Touch()
	return func() tea.Msg {
		att, err := media.FromFile(path, limit)
		return AttachmentAddedMsg{Attachment: att, Err: err}
	}
}

// HandleAttachments lists the pending attachments.
func HandleAttachments(ctx *Context, args []string) tea.Cmd {
	return func() tea.Msg {
		return ListAttachmentsMsg{}
	}
}

// HandleDetach removes a pending attachment by its /attachments number,
// or all of them.
func HandleDetach(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		return func() tea.Msg {
			return ErrorMsg{
				Title:   "Missing attachment number",
				Message: "Detach needs a number from /attachments, or 'all'.",
				Tip:     "Usage: /detach <number|all>",
			}
		}
	}
	which := strings.ToLower(strings.TrimSpace(args[0]))
	if which == "all" {
		return func() tea.Msg {
			return DetachMsg{All: true}
		}
	}
	n, err := strconv.Atoi(which)
	if err != nil || n < 1 {
		return func() tea.Msg {
			return ErrorMsg{
				Title:   "Invalid attachment number",
				Message: fmt.Sprintf("%q is not an attachment number.", args[0]),
				Tip:     "Use /attachments to list what's pending.",
			}
		}
	}
	return func() tea.Msg {
		return DetachMsg{Index: n - 1}
	}
}

// HandleConfig shows or edits configuration values.
func HandleConfig(ctx *Context, args []string) tea.Cmd {
	if ctx.Config == nil {
		return func() tea.Msg {
			return ErrorMsg{Title: "Config unavailable", Message: "Configuration is not loaded."}
		}
	}

	switch len(args) {
	case 0:
		return func() tea.Msg {
			return ShowConfigMsg{}
		}
	case 1:
		key := args[0]
		return func() tea.Msg {
			val, err := ctx.Config.Get(key)
			if err != nil {
				return ErrorMsg{
					Title:   "Unknown config key",
					Message: err.Error(),
					Tip:     "Run /config with no arguments to list all keys.",
				}
			}
			return SystemMessageMsg{Message: fmt.Sprintf("%s = %v", key, val)}
		}
	default:
		key := args[0]
		value := strings.Join(args[1:], " ")
		ctx.Touch()
		return func() tea.Msg {
			if err := ctx.Config.Set(key, value); err != nil {
				return ErrorMsg{Title: "Config update failed", Message: err.Error()}
			}
			return ConfigUpdatedMsg{Key: key, Value: value}
		}
	}
}

// HandleTheme shows or changes the color theme.
func HandleTheme(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		current := "dark"
		if ctx.Config != nil && ctx.Config.UI.Theme != "" {
			current = ctx.Config.UI.Theme
		}
		return func() tea.Msg {
			return SystemMessageMsg{
				Message: fmt.Sprintf("Current theme: %s (available: dark, light, auto)", current),
			}
		}
	}

	name := strings.ToLower(args[0])
	switch name {
	case "dark", "light", "auto":
	default:
		return func() tea.Msg {
			return ErrorMsg{
				Title:   "Unknown theme",
				Message: fmt.Sprintf("%q is not a theme.", args[0]),
				Tip:     "Available themes: dark, light, auto",
			}
		}
	}
	return func() tea.Msg {
		return ThemeChangedMsg{Theme: name}
	}
}

// HandleAgent shows or changes the agent display name.
func HandleAgent(ctx *Context, args []string) tea.Cmd {
	if len(args) == 0 {
		current := "Agent"
		if ctx.Config != nil && ctx.Config.Agent.Name != "" {
			current = ctx.Config.Agent.Name
		}
		return func() tea.Msg {
			return SystemMessageMsg{Message: fmt.Sprintf("Agent display name: %s", current)}
		}
	}
	name := strings.Join(args, " ")
	return func() tea.Msg {
		return AgentRenameMsg{Name: name}
	}
}

// expandHome expands a leading ~/ to the user's home directory.
func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// =============================================================================
// HELP TEXT GENERATION
// =============================================================================

// categoryOrder fixes the display order of command categories.
var categoryOrder = []string{"Navigation", "Conversation", "Connection", "Attachments", "Settings"}

// categoryTips maps categories to a hint shown under their commands.
var categoryTips = map[string]string{
	"Conversation": "Tip: /clear wipes both this transcript and the agent's context.",
	"Connection":   "Tip: /health checks the server without touching the socket.",
	"Attachments":  "Tip: attachments ride along with your next message, then reset.",
	"Settings":     "Tip: /config with no arguments lists every key.",
}

// GenerateHelpText produces help output for the given mode: "quick"
// (default), "all", or a category name.
func GenerateHelpText(r *Registry, mode string) string {
	mode = strings.ToLower(strings.TrimSpace(mode))
	switch mode {
	case "", "quick":
		return generateQuickHelp(r)
	case "all", "full":
		return generateFullHelp(r)
	default:
		for cat, cmds := range r.ByCategory() {
			if strings.EqualFold(cat, mode) {
				return generateCategoryHelp(cat, cmds)
			}
		}
		return fmt.Sprintf("Unknown help topic %q. Try /help all.", mode)
	}
}

func generateQuickHelp(r *Registry) string {
	var b strings.Builder
	b.WriteString("Common commands:\n\n")
	for _, name := range []string{"/help", "/connect", "/attach", "/clear", "/status", "/quit"} {
		if cmd := r.Get(name); cmd != nil {
			b.WriteString(formatCommandLine(cmd))
		}
	}
	b.WriteString("\nType /help all for every command, or /help <category> for one group.\n")
	b.WriteString("Categories: navigation, conversation, connection, attachments, settings\n")
	return b.String()
}

func generateFullHelp(r *Registry) string {
	var b strings.Builder
	b.WriteString("All commands:\n")

	byCat := r.ByCategory()
	for _, cat := range categoryOrder {
		cmds, ok := byCat[cat]
		if !ok {
			continue
		}
		writeCategory(&b, cat, cmds)
		delete(byCat, cat)
	}

	// Any categories not in the fixed order, alphabetically.
	rest := make([]string, 0, len(byCat))
	for cat := range byCat {
		rest = append(rest, cat)
	}
	sort.Strings(rest)
	for _, cat := range rest {
		writeCategory(&b, cat, byCat[cat])
	}

	b.WriteString("\nKeyboard:\n\n")
	b.WriteString("  enter            send message\n")
	b.WriteString("  tab              accept completion\n")
	b.WriteString("  esc              dismiss completion\n")
	b.WriteString("  up/down          browse input history\n")
	b.WriteString("  pgup/pgdn        scroll transcript\n")
	b.WriteString("  ctrl+c           quit\n")
	return b.String()
}

func generateCategoryHelp(cat string, cmds []*Command) string {
	var b strings.Builder
	writeCategory(&b, cat, cmds)
	return b.String()
}

func writeCategory(b *strings.Builder, cat string, cmds []*Command) {
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	b.WriteString("\n" + cat + ":\n\n")
	for _, cmd := range cmds {
		b.WriteString(formatCommandLine(cmd))
	}
	if tip, ok := categoryTips[cat]; ok {
		b.WriteString("\n  " + tip + "\n")
	}
}

func formatCommandLine(cmd *Command) string {
	label := cmd.Name
	if cmd.Usage != "" {
		label = cmd.Usage
	}
	line := fmt.Sprintf("  %-30s %s", label, cmd.Description)
	if len(cmd.Aliases) > 0 {
		line += fmt.Sprintf(" (alias: %s)", strings.Join(cmd.Aliases, ", "))
	}
	return line + "\n"
}

// =============================================================================
// STATUS TEXT GENERATION
// =============================================================================

// GenerateStatusText formats a status snapshot for transcript display.
func GenerateStatusText(info StatusInfoMsg) string {
	var b strings.Builder
	b.WriteString("Session status\n\n")

	conn := "disconnected"
	if info.Connected {
		conn = "connected"
	}
	if info.SessionID != "" {
		b.WriteString(fmt.Sprintf("  %-14s %s\n", "Session:", info.SessionID))
	}
	b.WriteString(fmt.Sprintf("  %-14s %s (%s)\n", "Server:", valueOr(info.ServerURL, "not configured"), conn))
	b.WriteString(fmt.Sprintf("  %-14s %s\n", "Agent:", valueOr(info.AgentName, "Agent")))
	b.WriteString(fmt.Sprintf("  %-14s %s\n", "Theme:", valueOr(info.Theme, "dark")))
	b.WriteString(fmt.Sprintf("  %-14s %s (idle %s)\n", "Uptime:",
		session.FormatDuration(info.Uptime), session.FormatDuration(info.Idle)))
	if info.TurnInFlight {
		b.WriteString(fmt.Sprintf("  %-14s in flight\n", "Turn:"))
	}
	if info.Attachments > 0 {
		b.WriteString(fmt.Sprintf("  %-14s %d pending\n", "Attachments:", info.Attachments))
	}

	st := info.Stats
	b.WriteString("\nTraffic\n\n")
	b.WriteString(fmt.Sprintf("  %-14s %d in / %d out\n", "Frames:", st.FramesIn, st.FramesOut))
	b.WriteString(fmt.Sprintf("  %-14s %d deltas, %d tool calls, %d turns\n", "Events:",
		st.Deltas, st.ToolCalls, st.Turns))
	if st.Errors > 0 {
		b.WriteString(fmt.Sprintf("  %-14s %d\n", "Errors:", st.Errors))
	}
	if st.FirstTokenLatency > 0 {
		b.WriteString(fmt.Sprintf("  %-14s %s\n", "First token:", st.FirstTokenLatency.Round(time.Millisecond)))
	}
	if st.LastTurnDuration > 0 {
		b.WriteString(fmt.Sprintf("  %-14s %s\n", "Last turn:", st.LastTurnDuration.Round(time.Millisecond)))
	}
	return b.String()
}

func valueOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
