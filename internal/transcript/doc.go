// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript turns the agent's event stream into an ordered
// conversation transcript.
//
// A Transcript is an immutable value. Applying an event returns a new
// Transcript and never modifies the receiver, so a caller can hold any
// number of historical snapshots (the UI keeps exactly one, tests keep
// several) without defensive copying:
//
//	t := transcript.New()
//	t = t.AppendUser("hi", nil)
//	t = t.Apply(protocol.Event{Kind: protocol.EventTextDelta, Text: "Hello"})
//
// The turn lifecycle is an explicit state machine:
//
//	Idle -> AwaitingFirstToken   user message sent
//	AwaitingFirstToken -> Streaming   first text delta
//	Streaming/AwaitingFirstToken -> ToolRunning   tool_start
//	ToolRunning -> AwaitingFirstToken   last tool_end
//	any -> Idle   done, error, cleared
//
// Text deltas extend the open assistant entry unless a turn boundary
// (new_turn) is pending, in which case exactly the next delta opens a new
// entry and consumes the boundary. Tool invocations render as their own
// entries keyed by tool_id; a tool_end for an unknown or already finished
// id is ignored.
package transcript
