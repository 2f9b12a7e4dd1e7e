// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks per-session activity and turn statistics.
//
// A Tracker is bound to one transport session and observes traffic in
// both directions. It does not own the connection; the UI feeds it
// outbound sends and inbound agent events and reads aggregate numbers
// back for the status bar and the /status command.
//
// # Key Types
//
//   - Tracker: Per-session activity and statistics recorder
//   - Stats: Aggregate frame, tool, and turn counters
//   - Status: Point-in-time snapshot for display
//
// # Usage
//
// Create a tracker when the transport session is established:
//
//	trk := session.NewTracker(sess.ID())
//
// Record traffic as it happens:
//
//	trk.BeginTurn()
//	trk.RecordOutbound()
//	trk.RecordEvent(ev)
//
// Read a consistent snapshot for display:
//
//	st := trk.Snapshot()
package session
