// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport maintains the WebSocket session to the agent backend.
package transport

import (
	"errors"
	"fmt"
)

// Sentinel errors for easy checking.
var (
	// ErrNotConnected is returned by Send and SendClear before Connect
	// succeeds or after the socket is gone.
	ErrNotConnected = errors.New("session is not connected")

	// ErrAlreadyConnected is returned by a second Connect on the same
	// session. Sessions are single-shot; make a new one instead.
	ErrAlreadyConnected = errors.New("session is already connected")

	// ErrSessionClosed is returned by Connect after Close.
	ErrSessionClosed = errors.New("session is closed")
)

// DisconnectError reports a server-initiated close. Code and Reason come from
// the close frame when the server sent one.
type DisconnectError struct {
	Code   int
	Reason string
	Err    error
}

func (e *DisconnectError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("server closed the connection (%d): %s", e.Code, e.Reason)
	}
	if e.Code != 0 {
		return fmt.Sprintf("server closed the connection (%d)", e.Code)
	}
	return "connection lost"
}

func (e *DisconnectError) Unwrap() error {
	return e.Err
}

// IsDisconnect reports whether err is a DisconnectError.
func IsDisconnect(err error) bool {
	var target *DisconnectError
	return errors.As(err, &target)
}
