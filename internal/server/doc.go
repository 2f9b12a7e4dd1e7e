// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server implements the development stub agent backend.
//
// It speaks the same WebSocket frame protocol as the hosted deployment,
// so the client can be exercised end to end without network access to a
// real agent:
//
//   - GET /health          liveness probe, returns {"status":"ok"}
//   - GET /ws/{session_id}  upgrade to the per-session event stream
//
// Each connection owns one in-memory conversation. An inbound message
// frame produces a scripted turn: a thinking toggle, optional demo tool
// invocations (current time, calculator) reported as tool_start and
// tool_end events, a turn boundary, word-level text deltas paced by a
// rate limiter, and a final done event carrying the full reply text.
// A clear frame wipes the conversation and is confirmed with cleared.
//
// Nothing is persisted; history lives and dies with the connection.
package server
