// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file contains input submission: slash command dispatch, message
// sending, and the Up/Down input history.
package chat

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/uplink-tui/internal/commands"
	"github.com/jeranaias/uplink-tui/internal/media"
	"github.com/jeranaias/uplink-tui/internal/transport"
)

// maxHistoryEntries caps the in-memory input history.
const maxHistoryEntries = 500

// =============================================================================
// INPUT SUBMISSION
// =============================================================================

// submitInput is the entry point for Enter on a non-empty input line.
// Slash commands are dispatched through the registry; anything else is
// sent to the agent as a message turn.
func (m Model) submitInput() (tea.Model, tea.Cmd) {
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return m, nil
	}

	m.pushHistory(content)
	m.clearCompletions()
	m.input.Reset()

	if strings.HasPrefix(content, "/") {
		return m.runCommand(content)
	}
	return m.sendMessage(content)
}

// runCommand parses and executes a slash command.
func (m Model) runCommand(input string) (tea.Model, tea.Cmd) {
	result := m.parser.Parse(input)

	if result.Command == nil {
		m.toasts.AddError("Unknown command: " + result.CommandName)
		m.transcript = m.transcript.AppendNotice("Unknown command " + result.CommandName + ". Try /help.")
		m.refreshViewport(true)
		return m, m.toastCmd()
	}

	if err := commands.ValidateArgs(result.Command, result.Args); err != nil {
		m.toasts.AddError(err.Error())
		if result.Command.Usage != "" {
			m.transcript = m.transcript.AppendNotice("Usage: " + result.Command.Usage)
			m.refreshViewport(true)
		}
		return m, m.toastCmd()
	}

	// Handlers read runtime state through the context, so sync it first
	m.cmdCtx.Touch()
	m.syncHandlerCtx()

	return m, result.Command.Handler(m.cmdCtx, result.Args)
}

// sendMessage stages the user entry in the transcript and ships the
// message frame, with any pending attachments, to the agent.
func (m Model) sendMessage(text string) (tea.Model, tea.Cmd) {
	if m.sess == nil || !m.connected {
		m.toasts.AddWarning("Not connected. Use /connect to reach the agent.")
		return m, m.toastCmd()
	}

	// Attachments ride along with this message and are consumed by it
	atts := m.pending
	m.pending = nil
	m.attachBar.SetItems(nil)

	m.transcript = m.transcript.AppendUser(text, atts)
	if m.tracker != nil {
		m.tracker.BeginTurn()
		m.tracker.RecordOutbound()
	}

	m.syncHandlerCtx()
	m.syncStatus()
	m.refreshViewport(true)

	return m, sendCmd(m.sess, text, atts)
}

// sendCmd writes the message frame off the UI thread. A write failure
// surfaces as SendFailedMsg; the disconnect itself arrives separately
// through the socket runner.
func sendCmd(sess *transport.Session, text string, atts []media.Attachment) tea.Cmd {
	return func() tea.Msg {
		if err := sess.Send(text, atts); err != nil {
			return SendFailedMsg{Err: err}
		}
		return nil
	}
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// pushHistory records a submitted line and resets the browse cursor to
// the live draft position.
func (m *Model) pushHistory(entry string) {
	// Skip consecutive duplicates
	if n := len(m.history); n == 0 || m.history[n-1] != entry {
		m.history = append(m.history, entry)
		if len(m.history) > maxHistoryEntries {
			m.history = m.history[len(m.history)-maxHistoryEntries:]
		}
	}
	m.historyIndex = len(m.history)
	m.historyDraft = ""
}

// historyPrev steps backward through submitted lines. The first step
// stashes the current draft so Down can restore it.
func (m Model) historyPrev() (tea.Model, tea.Cmd) {
	if len(m.history) == 0 || m.historyIndex == 0 {
		return m, nil
	}
	if m.historyIndex == len(m.history) {
		m.historyDraft = m.input.Value()
	}
	m.historyIndex--
	m.input.SetValue(m.history[m.historyIndex])
	m.input.CursorEnd()
	return m, nil
}

// historyNext steps forward through submitted lines, restoring the
// stashed draft when it walks off the newest entry.
func (m Model) historyNext() (tea.Model, tea.Cmd) {
	if m.historyIndex >= len(m.history) {
		return m, nil
	}
	m.historyIndex++
	if m.historyIndex == len(m.history) {
		m.input.SetValue(m.historyDraft)
	} else {
		m.input.SetValue(m.history[m.historyIndex])
	}
	m.input.CursorEnd()
	return m, nil
}
