// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines all Bubble Tea message types used by the chat interface.
// Messages are organized into the following categories:
//   - Socket: Agent events, disconnects, and session swaps
//   - Sending: Outbound frame failures
//   - Streaming: Batched delta rendering ticks
//   - Clock: Status bar elapsed-time ticks
//   - Clipboard/Export: Completion notifications for async operations
//   - Config: Live configuration reloads
//
// Command request messages (help, attach, export and friends) live in
// internal/commands; the chat model consumes those directly.
//
// All message types follow Bubble Tea conventions and are immutable.
package chat

import (
	"time"

	"github.com/jeranaias/uplink-tui/internal/commands"
	"github.com/jeranaias/uplink-tui/internal/config"
	"github.com/jeranaias/uplink-tui/internal/protocol"
	"github.com/jeranaias/uplink-tui/internal/transport"
	"github.com/jeranaias/uplink-tui/internal/ui/components"
)

// =============================================================================
// SOCKET MESSAGES
// =============================================================================

// AgentEventMsg delivers one decoded event from the socket session.
// The SocketRunner pumps these into the program from its drain goroutine.
type AgentEventMsg struct {
	SessionID string
	Event     protocol.Event
}

// DisconnectedMsg signals that the socket session ended and its event
// channel closed. Err carries the session's final error, nil for a
// clean local close.
type DisconnectedMsg struct {
	SessionID string
	Err       error
}

// SessionSwappedMsg delivers a freshly connected session after /new or
// /connect. The model adopts it, retiring the previous session.
type SessionSwappedMsg struct {
	Session *transport.Session
	URL     string
	Fresh   bool // true for /new (transcript resets), false for /connect
	Err     error
}

// =============================================================================
// SENDING MESSAGES
// =============================================================================

// SendFailedMsg signals that an outbound frame could not be written.
type SendFailedMsg struct {
	Err error
}

// =============================================================================
// STREAMING OPTIMIZATION MESSAGES
// =============================================================================

// StreamTickMsg is sent at 30fps while deltas are arriving so buffered
// text can be applied to the transcript in batches. This prevents
// excessive rendering (1000+ fps) which causes flicker and high CPU.
type StreamTickMsg struct {
	Time time.Time
}

// NewStreamTickMsg creates a streaming tick message.
func NewStreamTickMsg() StreamTickMsg {
	return StreamTickMsg{Time: time.Now()}
}

// =============================================================================
// CLOCK MESSAGES
// =============================================================================

// ClockTickMsg advances the status bar session clock once per second.
type ClockTickMsg struct {
	Time time.Time
}

// =============================================================================
// CLIPBOARD AND EXPORT MESSAGES
// =============================================================================

// CopyDoneMsg confirms a clipboard write.
type CopyDoneMsg struct {
	Err error
}

// ExportDoneMsg confirms a transcript export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// =============================================================================
// CONFIG MESSAGES
// =============================================================================

// ConfigReloadedMsg signals that the config file changed on disk and the
// global configuration was reloaded.
type ConfigReloadedMsg struct {
	Config *config.Config
	Err    error
}

// =============================================================================
// SMART ERRORS
// =============================================================================

// SmartErrorMsg builds a commands.ErrorMsg with suggestions auto-detected
// from the error text. The pattern matcher recognizes connection failures,
// oversized attachments, bad config keys and similar common cases; when it
// matches, its title and first suggestion replace the generic ones.
func SmartErrorMsg(title, message string) commands.ErrorMsg {
	matcher := components.GetDefaultMatcher()

	if matched := matcher.Match(message); matched != nil {
		msg := commands.ErrorMsg{
			Title:   matched.GetTitle(),
			Message: message,
		}
		if sugg := matched.GetSuggestions(); len(sugg) > 0 {
			msg.Tip = sugg[0]
		}
		return msg
	}

	return commands.ErrorMsg{Title: title, Message: message}
}

// SmartErrorFromErr is SmartErrorMsg for a Go error value.
func SmartErrorFromErr(title string, err error) commands.ErrorMsg {
	if err == nil {
		return commands.ErrorMsg{Title: title, Message: "unknown error"}
	}
	return SmartErrorMsg(title, err.Error())
}
