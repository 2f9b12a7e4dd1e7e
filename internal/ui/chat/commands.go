// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file applies command messages to the chat model. The handlers in
// internal/commands validate input and emit typed messages; the methods
// here fold those messages into the transcript, the staged attachments,
// and the connection state, and build the async commands (connect,
// export, clipboard) that report back with their own result messages.
package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/uplink-tui/internal/commands"
	"github.com/jeranaias/uplink-tui/internal/config"
	"github.com/jeranaias/uplink-tui/internal/export"
	"github.com/jeranaias/uplink-tui/internal/media"
	"github.com/jeranaias/uplink-tui/internal/transcript"
	"github.com/jeranaias/uplink-tui/internal/transport"
	"github.com/jeranaias/uplink-tui/internal/util"
)

// connectTimeout bounds the WebSocket dial for /connect and /new.
const connectTimeout = 10 * time.Second

// =============================================================================
// HELP AND SESSION COMMANDS
// =============================================================================

func (m Model) handleShowHelp(msg commands.ShowHelpMsg) (tea.Model, tea.Cmd) {
	helpText := commands.GenerateHelpText(m.registry, msg.Mode)
	m.transcript = m.transcript.AppendNotice(helpText)
	m.refreshViewport(true)
	return m, nil
}

// handleNewSession dials a fresh session. The old one is retired when the
// SessionSwappedMsg lands, so a failed dial leaves the current session
// untouched.
func (m Model) handleNewSession(msg commands.NewSessionMsg) (tea.Model, tea.Cmd) {
	url := m.serverURL
	if url == "" {
		url = m.cfg.Server.URL
	}
	m.toasts.AddStatus("Starting a fresh session...")
	return m, tea.Batch(m.toastCmd(), connectSessionCmd(m.cfg, url, true))
}

// handleClearSent acknowledges that the clear frame went out. The
// transcript is wiped only when the backend's cleared event comes back.
func (m Model) handleClearSent(msg commands.ClearSentMsg) (tea.Model, tea.Cmd) {
	m.toasts.AddStatus("Clear requested")
	return m, m.toastCmd()
}

// =============================================================================
// CLIPBOARD AND EXPORT
// =============================================================================

func (m Model) handleCopyDone(msg CopyDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.toasts.AddError("Copy failed: " + msg.Err.Error())
	} else {
		m.toasts.AddSuccess("Copied to clipboard")
	}
	return m, m.toastCmd()
}

func (m Model) handleExportRequest(msg commands.ExportRequestMsg) (tea.Model, tea.Cmd) {
	if m.transcript.Len() == 0 {
		m.toasts.AddWarning("Nothing to export yet")
		return m, m.toastCmd()
	}

	meta := export.Meta{
		AgentName: m.agentName,
		ServerURL: m.serverURL,
	}
	if m.sess != nil {
		meta.SessionID = m.sess.ID()
	}
	if m.tracker != nil {
		meta.StartedAt = m.tracker.Snapshot().StartTime
	}

	m.toasts.AddStatus("Exporting transcript...")
	return m, tea.Batch(m.toastCmd(), exportCmd(m.transcript, meta, msg.Format, msg.Path, m.cfg.UI.Theme))
}

func (m Model) handleExportDone(msg ExportDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		em := SmartErrorFromErr("Export failed", msg.Err)
		m.toasts.AddError(em.Title + ": " + em.Message)
		return m, m.toastCmd()
	}
	m.toasts.AddSuccess("Exported to " + msg.Path)
	m.transcript = m.transcript.AppendNotice("Transcript exported to " + msg.Path + ".")
	m.refreshViewport(true)
	return m, m.toastCmd()
}

// =============================================================================
// CONNECTION COMMANDS
// =============================================================================

func (m Model) handleConnectRequest(msg commands.ConnectRequestMsg) (tea.Model, tea.Cmd) {
	url := strings.TrimSpace(msg.URL)
	if url == "" {
		url = m.cfg.Server.URL
	}
	m.toasts.AddStatus("Connecting to " + url + "...")
	return m, tea.Batch(m.toastCmd(), connectSessionCmd(m.cfg, url, false))
}

// handleDisconnectRequest closes the active session. State flips when the
// runner delivers the resulting DisconnectedMsg, keeping the close path
// identical for local and remote disconnects.
func (m Model) handleDisconnectRequest(msg commands.DisconnectRequestMsg) (tea.Model, tea.Cmd) {
	if m.sess == nil {
		m.toasts.AddWarning("Not connected")
		return m, m.toastCmd()
	}
	m.sess.Close()
	return m, nil
}

// =============================================================================
// STATUS AND HEALTH
// =============================================================================

func (m Model) handleHealthResult(msg commands.HealthResultMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		em := SmartErrorFromErr("Health check failed", msg.Err)
		m.toasts.AddError(em.Title + ": " + em.Message)
		m.transcript = m.transcript.AppendNotice("Health check failed for " + msg.URL + ": " + msg.Err.Error())
	} else {
		m.toasts.AddSuccess("Server healthy (" + formatLatency(msg.Latency) + ")")
		m.transcript = m.transcript.AppendNotice("Server " + msg.URL + " is healthy, responded in " + formatLatency(msg.Latency) + ".")
	}
	m.refreshViewport(true)
	return m, m.toastCmd()
}

func (m Model) handleStatusInfo(msg commands.StatusInfoMsg) (tea.Model, tea.Cmd) {
	m.transcript = m.transcript.AppendNotice(commands.GenerateStatusText(msg))
	m.refreshViewport(true)
	return m, nil
}

// =============================================================================
// ATTACHMENT COMMANDS
// =============================================================================

// handleAttachmentAdded stages a loaded attachment for the next message.
// The per-file limit was enforced when the file was read; the combined
// budget across all staged attachments is enforced here.
func (m Model) handleAttachmentAdded(msg commands.AttachmentAddedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		em := SmartErrorFromErr("Attach failed", msg.Err)
		m.toasts.AddError(em.Title + ": " + em.Message)
		return m, m.toastCmd()
	}

	limit := m.cfg.MaxAttachmentBytes()
	if media.TotalSize(m.pending)+msg.Attachment.Size > limit {
		m.toasts.AddError("Cannot attach " + msg.Attachment.Name +
			": total attachments would exceed " + util.FormatBytes(limit))
		return m, m.toastCmd()
	}

	m.pending = append(m.pending, msg.Attachment)
	m.attachBar.SetItems(m.pending)
	m.syncHandlerCtx()
	m.syncStatus()
	m.toasts.AddSuccess("Attached " + msg.Attachment.Label())
	return m, m.toastCmd()
}

func (m Model) handleListAttachments(msg commands.ListAttachmentsMsg) (tea.Model, tea.Cmd) {
	if len(m.pending) == 0 {
		m.transcript = m.transcript.AppendNotice("No attachments staged. Use /attach <path> to add one.")
		m.refreshViewport(true)
		return m, nil
	}

	var sb strings.Builder
	sb.WriteString("Pending attachments:\n")
	for i, att := range m.pending {
		sb.WriteString("  ")
		sb.WriteString(formatInt(i + 1))
		sb.WriteString(". ")
		sb.WriteString(att.Label())
		sb.WriteByte('\n')
	}
	sb.WriteString("Total: ")
	sb.WriteString(util.FormatBytes(media.TotalSize(m.pending)))
	sb.WriteString(" of ")
	sb.WriteString(util.FormatBytes(m.cfg.MaxAttachmentBytes()))
	m.transcript = m.transcript.AppendNotice(sb.String())
	m.refreshViewport(true)
	return m, nil
}

func (m Model) handleDetach(msg commands.DetachMsg) (tea.Model, tea.Cmd) {
	if len(m.pending) == 0 {
		m.toasts.AddWarning("No attachments to remove")
		return m, m.toastCmd()
	}

	if msg.All {
		m.pending = nil
		m.attachBar.SetItems(nil)
		m.toasts.AddStatus("Removed all attachments")
	} else {
		if msg.Index < 0 || msg.Index >= len(m.pending) {
			m.toasts.AddError("No attachment number " + formatInt(msg.Index+1) + ". Use /attachments to list them.")
			return m, m.toastCmd()
		}
		name := m.pending[msg.Index].Name
		m.pending = append(m.pending[:msg.Index], m.pending[msg.Index+1:]...)
		m.attachBar.SetItems(m.pending)
		m.toasts.AddStatus("Removed " + name)
	}

	m.syncHandlerCtx()
	m.syncStatus()
	return m, m.toastCmd()
}

// =============================================================================
// CONFIGURATION COMMANDS
// =============================================================================

func (m Model) handleShowConfig(msg commands.ShowConfigMsg) (tea.Model, tea.Cmd) {
	var sb strings.Builder
	sb.WriteString("Configuration:\n")
	for _, key := range config.GetAllKeys() {
		val, err := m.cfg.Get(key)
		if err != nil {
			continue
		}
		sb.WriteString("  ")
		sb.WriteString(key)
		sb.WriteString(" = ")
		fmt.Fprintf(&sb, "%v", val)
		sb.WriteByte('\n')
	}
	sb.WriteString("Use /config <key> <value> to change a setting.")
	m.transcript = m.transcript.AppendNotice(sb.String())
	m.refreshViewport(true)
	return m, nil
}

// handleConfigUpdated persists a changed key and applies the ones that
// take effect live.
func (m Model) handleConfigUpdated(msg commands.ConfigUpdatedMsg) (tea.Model, tea.Cmd) {
	if err := config.Save(m.cfg); err != nil {
		m.toasts.AddError("Setting applied but not saved: " + err.Error())
		return m, m.toastCmd()
	}

	switch msg.Key {
	case "agent.name":
		m.agentName = m.cfg.Agent.Name
		m.statusBar.SetAgentName(m.agentName)
	case "media.max_attachment_mb":
		m.attachBar.SetLimit(m.cfg.MaxAttachmentBytes())
		m.syncStatus()
	}

	m.toasts.AddSuccess(msg.Key + " = " + msg.Value)
	return m, m.toastCmd()
}

// handleThemeChanged records the theme preference. Colors are resolved
// against the terminal at startup, so the new palette lands on the next
// run.
func (m Model) handleThemeChanged(msg commands.ThemeChangedMsg) (tea.Model, tea.Cmd) {
	m.cfg.UI.Theme = msg.Theme
	if err := config.Save(m.cfg); err != nil {
		m.toasts.AddError("Theme not saved: " + err.Error())
		return m, m.toastCmd()
	}
	m.toasts.AddSuccess("Theme set to " + msg.Theme)
	m.transcript = m.transcript.AppendNotice("Theme preference saved: " + msg.Theme + ". Colors apply on the next start.")
	m.refreshViewport(true)
	return m, m.toastCmd()
}

func (m Model) handleAgentRename(msg commands.AgentRenameMsg) (tea.Model, tea.Cmd) {
	m.cfg.Agent.Name = msg.Name
	m.agentName = msg.Name
	m.statusBar.SetAgentName(msg.Name)

	var cmd tea.Cmd
	if err := config.Save(m.cfg); err != nil {
		m.toasts.AddError("Name applied but not saved: " + err.Error())
		cmd = m.toastCmd()
	}

	m.transcript = m.transcript.AppendNotice("The agent now goes by " + msg.Name + ".")
	m.refreshViewport(true)
	return m, cmd
}

// =============================================================================
// NOTICES AND ERRORS
// =============================================================================

func (m Model) handleSystemMessage(msg commands.SystemMessageMsg) (tea.Model, tea.Cmd) {
	m.transcript = m.transcript.AppendNotice(msg.Message)
	m.refreshViewport(true)
	return m, nil
}

// handleCommandError surfaces a command failure as a toast. Errors that
// carry a remediation tip also land in the transcript, since toasts
// expire before anyone can read a multi-line hint.
func (m Model) handleCommandError(msg commands.ErrorMsg) (tea.Model, tea.Cmd) {
	text := msg.Title
	if msg.Message != "" {
		text += ": " + msg.Message
	}
	m.toasts.AddError(text)

	if msg.Tip != "" {
		m.transcript = m.transcript.AppendNotice(text + "\n" + msg.Tip)
		m.refreshViewport(true)
	}
	return m, m.toastCmd()
}

// handleConfigReloaded adopts a config that changed on disk.
func (m Model) handleConfigReloaded(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.toasts.AddError("Config reload failed: " + msg.Err.Error())
		return m, m.toastCmd()
	}
	if msg.Config == nil {
		return m, nil
	}

	m.cfg = msg.Config
	m.cmdCtx.Config = msg.Config
	m.agentName = msg.Config.Agent.Name
	m.statusBar.SetAgentName(m.agentName)
	m.attachBar.SetLimit(msg.Config.MaxAttachmentBytes())
	m.syncStatus()

	m.toasts.AddStatus("Configuration reloaded")
	return m, m.toastCmd()
}

// =============================================================================
// ASYNC COMMAND BUILDERS
// =============================================================================

// copyCmd writes text to the system clipboard off the update loop.
func copyCmd(content string) tea.Cmd {
	return func() tea.Msg {
		return CopyDoneMsg{Err: copyToClipboard(content)}
	}
}

// exportCmd renders the transcript to a file. The transcript is an
// immutable value, so capturing it here is safe even while new events
// keep arriving.
func exportCmd(tr transcript.Transcript, meta export.Meta, format, path, theme string) tea.Cmd {
	return func() tea.Msg {
		opts := export.DefaultOptions()
		opts.OpenAfterExport = false
		if theme != "" {
			opts.Theme = theme
		}
		if path != "" {
			opts.OutputPath = path
		}
		out, err := export.ExportTranscript(tr, meta, format, opts)
		return ExportDoneMsg{Path: out, Err: err}
	}
}

// connectSessionCmd dials a new socket session and delivers it with
// SessionSwappedMsg. Fresh marks a /new session, which resets the
// transcript on adoption; /connect keeps the local transcript.
func connectSessionCmd(cfg *config.Config, url string, fresh bool) tea.Cmd {
	return func() tea.Msg {
		tcfg := transport.Config{ServerURL: url}
		if cfg != nil && cfg.Server.HealthTimeoutSecs > 0 {
			tcfg.HealthTimeout = time.Duration(cfg.Server.HealthTimeoutSecs) * time.Second
		}

		sess, err := transport.New(tcfg)
		if err != nil {
			return SessionSwappedMsg{URL: url, Fresh: fresh, Err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := sess.Connect(ctx); err != nil {
			return SessionSwappedMsg{URL: url, Fresh: fresh, Err: err}
		}

		return SessionSwappedMsg{Session: sess, URL: sess.URL(), Fresh: fresh}
	}
}
