// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package protocol defines the wire frames exchanged with the agent backend.
//
// The backend speaks a small JSON protocol over a WebSocket. Every frame is an
// object tagged by a "type" field. Inbound frames (server to client) are turn
// events: thinking, text_delta, tool_start, tool_end, new_turn, done, error,
// and cleared. Outbound frames (client to server) are the user message and the
// clear request.
//
// # Key Types
//
//   - Event: decoded inbound frame with a closed EventKind enum
//   - MessageFrame, ClearFrame: outbound frames
//   - MediaPayload: base64 attachment item inside a message frame
//
// # Decoding
//
//	ev, err := protocol.DecodeEvent(raw)
//	if err != nil {
//		// malformed frame: skip it, the stream continues
//	}
//	switch ev.Kind {
//	case protocol.EventTextDelta:
//		...
//	}
//
// Unrecognized "type" values decode to EventUnknown rather than an error so
// that newer backends can add frame types without breaking older clients.
package protocol
