// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file handles the socket side of the update loop: the SocketRunner
// that pumps session events into the program, and the handlers that fold
// those events into the transcript.
package chat

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/uplink-tui/internal/protocol"
	"github.com/jeranaias/uplink-tui/internal/session"
	"github.com/jeranaias/uplink-tui/internal/transcript"
	"github.com/jeranaias/uplink-tui/internal/ui/components"
)

// =============================================================================
// SOCKET RUNNER
// =============================================================================

// SocketRunner drains a session's event channel into the Bubble Tea
// program. It exists because the program is only available after the
// model is constructed, and because /new and /connect swap sessions at
// runtime: the runner outlives any single session.
//
// Each Attach spawns one goroutine that lives until that session's
// channel closes. Events carry the session ID so the model can drop
// messages from a retired session.
type SocketRunner struct {
	mu      sync.Mutex
	program *tea.Program
}

// NewSocketRunner creates a runner with no program attached yet.
func NewSocketRunner() *SocketRunner {
	return &SocketRunner{}
}

// SetProgram wires the Bubble Tea program. Must be called before the
// first session connects.
func (r *SocketRunner) SetProgram(p *tea.Program) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.program = p
}

// Attach starts draining the given session into the program.
// When the event channel closes, a DisconnectedMsg with the session's
// final error is delivered and the goroutine exits.
func (r *SocketRunner) Attach(sess sessionSource) {
	if sess == nil {
		return
	}
	go func() {
		id := sess.ID()
		for ev := range sess.Events() {
			r.send(AgentEventMsg{SessionID: id, Event: ev})
		}
		r.send(DisconnectedMsg{SessionID: id, Err: sess.Err()})
	}()
}

// send delivers a message if a program is wired, and drops it otherwise.
func (r *SocketRunner) send(msg tea.Msg) {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// sessionSource is the slice of transport.Session the runner needs.
// Narrowed to an interface so tests can drive the pump with a fake.
type sessionSource interface {
	ID() string
	Events() <-chan protocol.Event
	Err() error
}

// =============================================================================
// AGENT EVENT HANDLING
// =============================================================================

// handleAgentEvent folds one decoded socket event into the transcript.
// Text deltas are buffered for batched rendering; every other event
// forces a flush first so transcript ordering matches arrival ordering.
func (m Model) handleAgentEvent(msg AgentEventMsg) (tea.Model, tea.Cmd) {
	// Events from a retired session keep arriving until its drain
	// goroutine notices the close. Drop them.
	if m.sess == nil || msg.SessionID != m.sess.ID() {
		return m, nil
	}

	if m.tracker != nil {
		m.tracker.RecordEvent(msg.Event)
	}

	ev := msg.Event

	// The hot path: buffer deltas, render on the tick.
	if ev.Kind == protocol.EventTextDelta {
		m.deltaBuf.Write(ev.Text)
		if !m.ticking {
			m.ticking = true
			return m, streamTickCmd()
		}
		return m, nil
	}

	m.flushDeltas()

	var cmds []tea.Cmd
	switch ev.Kind {
	case protocol.EventThinking:
		if ev.Status {
			cmds = append(cmds, m.thinking.Start())
		} else {
			m.thinking.Stop()
		}

	case protocol.EventToolStart:
		m.chips.AddRunning(ev.ToolID, ev.ToolName)
		m.thinking.SetDetail("Running " + ev.ToolName)
		if !m.thinking.IsActive() {
			cmds = append(cmds, m.thinking.Start())
		}

	case protocol.EventToolEnd:
		m.chips.MarkDone(ev.ToolID, ev.Result)
		m.thinking.SetDetail("")

	case protocol.EventDone:
		m.thinking.Stop()

	case protocol.EventError:
		m.thinking.Stop()

	case protocol.EventCleared:
		m.chips.Clear()
		m.deltaBuf.Reset()
		m.toasts.AddStatus("Conversation cleared")
		cmds = append(cmds, m.toastCmd())
	}

	m.transcript = m.transcript.Apply(ev)

	// Keep /copy pointed at the latest completed reply.
	if ev.Kind == protocol.EventDone {
		if text, ok := m.transcript.LastAssistantText(); ok {
			m.handlerCtx.LastResponse = text
		}
	}

	m.syncStatus()
	m.refreshViewport(true)
	return m, tea.Batch(cmds...)
}

// handleStreamTick applies buffered deltas to the transcript at the
// capped frame rate, and re-arms itself while a turn is in flight.
func (m Model) handleStreamTick(msg StreamTickMsg) (tea.Model, tea.Cmd) {
	if text, ok := m.deltaBuf.Flush(); ok {
		m.transcript = m.transcript.Apply(protocol.Event{Kind: protocol.EventTextDelta, Text: text})
		m.syncStatus()
		m.refreshViewport(true)
	}

	if m.transcript.Phase().Busy() || m.deltaBuf.Pending() > 0 {
		return m, streamTickCmd()
	}

	m.ticking = false
	return m, nil
}

// handleClockTick refreshes the status bar session clock once a second.
func (m Model) handleClockTick(msg ClockTickMsg) (tea.Model, tea.Cmd) {
	if m.tracker != nil {
		m.statusBar.SetElapsed(m.tracker.Snapshot().Duration)
	}
	return m, clockTickCmd()
}

// =============================================================================
// DISCONNECT HANDLING
// =============================================================================

// handleDisconnected marks the session dead and surfaces why. There is
// no automatic reconnect: the user starts over with /connect or /new,
// the same way a closed browser tab starts over on reload.
func (m Model) handleDisconnected(msg DisconnectedMsg) (tea.Model, tea.Cmd) {
	// A swap retires the old session; its close notification is stale.
	if m.sess != nil && msg.SessionID != m.sess.ID() {
		return m, nil
	}

	m.flushDeltas()
	m.connected = false
	m.ticking = false
	m.thinking.Stop()
	m.statusBar.SetConnected(false)
	m.statusBar.SetStatus(components.StatusOffline)

	var cmd tea.Cmd
	if msg.Err != nil {
		m.transcript = m.transcript.Apply(protocol.Event{
			Kind:    protocol.EventError,
			Message: msg.Err.Error(),
		})
		m.toasts.AddError("Connection lost")
		cmd = m.toastCmd()
	} else {
		m.transcript = m.transcript.AppendNotice("Disconnected. Use /connect for a new session.")
	}

	m.syncHandlerCtx()
	m.syncStatus()
	m.refreshViewport(true)
	return m, cmd
}

// handleSendFailed surfaces a failed outbound write.
func (m Model) handleSendFailed(msg SendFailedMsg) (tea.Model, tea.Cmd) {
	em := SmartErrorFromErr("Send failed", msg.Err)
	m.toasts.AddError(em.Title + ": " + em.Message)
	m.transcript = m.transcript.AppendNotice("Message was not delivered: " + msg.Err.Error())
	m.refreshViewport(true)
	return m, m.toastCmd()
}

// =============================================================================
// SESSION SWAP HANDLING
// =============================================================================

// handleSessionSwapped adopts a freshly connected session from /new or
// /connect, retiring the previous one.
func (m Model) handleSessionSwapped(msg SessionSwappedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		em := SmartErrorFromErr("Connect failed", msg.Err)
		m.toasts.AddError(em.Title + ": " + em.Message)
		m.transcript = m.transcript.AppendNotice("Could not connect to " + msg.URL + ": " + msg.Err.Error())
		m.refreshViewport(true)
		return m, m.toastCmd()
	}

	if m.sess != nil {
		m.sess.Close()
	}

	m.sess = msg.Session
	m.connected = true
	m.serverURL = msg.URL
	m.tracker = session.NewTracker(msg.Session.ID())
	m.cmdCtx.Transport = msg.Session
	m.cmdCtx.Tracker = m.tracker

	if msg.Fresh {
		m.transcript = transcript.New()
		m.chips.Clear()
		m.deltaBuf.Reset()
		m.ticking = false
		m.pending = nil
		m.attachBar.SetItems(nil)
		m.handlerCtx.LastResponse = ""
	}

	m.statusBar.SetConnected(true)
	m.statusBar.SetSession(msg.Session.ID(), msg.URL)
	m.statusBar.SetStatus(components.StatusReady)
	m.runner.Attach(m.sess)

	if msg.Fresh {
		m.transcript = m.transcript.AppendNotice("Fresh session " + shortID(msg.Session.ID()) + " connected.")
	} else {
		m.transcript = m.transcript.AppendNotice("Connected to " + msg.URL + " as session " + shortID(msg.Session.ID()) + ".")
	}

	m.syncHandlerCtx()
	m.syncStatus()
	m.refreshViewport(true)
	return m, nil
}
