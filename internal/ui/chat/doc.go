// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the main chat view for the uplink TUI.

The chat package implements a terminal chat interface on top of the
Bubble Tea framework. It renders a live conversation with a remote
agent: streamed text deltas, a thinking indicator, tool chips for
tool_start/tool_end pairs, and attachment previews.

# Key Components

  - Model: the Bubble Tea model owning the transcript viewport, the
    input line, the status bar and the command system.
  - SocketRunner: drains a transport session's event channel into the
    program, surviving session swaps from /new and /connect.
  - DeltaBuffer: batches text deltas so rendering stays at a capped
    frame rate while the agent streams.

# Event Flow

Socket events arrive as AgentEventMsg values tagged with the session ID
they came from, so frames from a retired session are dropped after a
swap. Text deltas go through the DeltaBuffer and land in the transcript
on the next StreamTickMsg; every other event forces a flush first so
transcript ordering matches wire ordering.

# Slash Commands

Input starting with "/" is routed through the commands package
registry (/help, /clear, /attach, /connect, /new, /export and so on)
instead of being sent to the agent.
*/
package chat
