// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport maintains the WebSocket session to the agent backend.
//
// A Session owns exactly one socket for its whole lifetime. The session ID is
// generated client-side and baked into the socket path (/ws/<id>), so the
// server needs no handshake beyond the HTTP upgrade. There is no reconnect:
// when the socket drops, Events() closes, Err() reports why, and the caller
// starts a fresh session if it wants a new conversation.
//
// # Usage
//
//	sess, err := transport.New(transport.Config{ServerURL: cfg.Server.URL})
//	if err != nil { ... }
//	if err := sess.Connect(ctx); err != nil { ... }
//	go func() {
//		for ev := range sess.Events() {
//			program.Send(chat.AgentEventMsg{Event: ev})
//		}
//		program.Send(chat.DisconnectedMsg{Err: sess.Err()})
//	}()
//	sess.Send("hello", nil)
//
// Inbound frames that fail to decode are counted and skipped; they never end
// the session. Keepalive is a 20s ping with a 60s pong deadline.
package transport
