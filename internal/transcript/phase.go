// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript turns the agent's event stream into an ordered
// conversation transcript.
package transcript

// Phase is the turn lifecycle state.
type Phase int

const (
	// PhaseIdle means no turn is in flight. Input is live.
	PhaseIdle Phase = iota

	// PhaseAwaitingFirstToken means a message was sent (or a tool batch
	// finished) and no text has arrived yet. The waiting indicator shows.
	PhaseAwaitingFirstToken

	// PhaseStreaming means text deltas are extending an open assistant entry.
	PhaseStreaming

	// PhaseToolRunning means at least one tool invocation is in flight.
	PhaseToolRunning
)

// String returns a stable lowercase name for logs and the status bar.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingFirstToken:
		return "awaiting_first_token"
	case PhaseStreaming:
		return "streaming"
	case PhaseToolRunning:
		return "tool_running"
	default:
		return "invalid"
	}
}

// Busy reports whether a turn is in flight in this phase.
func (p Phase) Busy() bool {
	return p != PhaseIdle
}
