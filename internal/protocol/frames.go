// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package protocol defines the wire frames exchanged with the agent backend.
package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// =============================================================================
// OUTBOUND FRAMES
// =============================================================================

// Frame type tags on the wire.
const (
	frameTypeMessage = "message"
	frameTypeClear   = "clear"
)

// MediaPayload is one attachment item inside a message frame.
type MediaPayload struct {
	// Type is the coarse kind: "image" or "video".
	Type string `json:"type"`

	// MediaType is the full MIME type, e.g. "image/png".
	MediaType string `json:"media_type"`

	// Data is the standard base64 encoding of the file bytes.
	Data string `json:"data"`
}

// MessageFrame is the outbound user message.
type MessageFrame struct {
	Type  string         `json:"type"`
	Text  string         `json:"text"`
	Media []MediaPayload `json:"media,omitempty"`
}

// ClearFrame asks the server to wipe the conversation history.
// The server confirms with a cleared event.
type ClearFrame struct {
	Type string `json:"type"`
}

// NewMessageFrame builds a message frame. Text is normalized to NFC so the
// server sees one canonical form regardless of how the terminal composed it.
func NewMessageFrame(text string, media []MediaPayload) MessageFrame {
	return MessageFrame{
		Type:  frameTypeMessage,
		Text:  norm.NFC.String(text),
		Media: media,
	}
}

// NewClearFrame builds a clear frame.
func NewClearFrame() ClearFrame {
	return ClearFrame{Type: frameTypeClear}
}

// =============================================================================
// ENCODING
// =============================================================================

// EncodeFrame marshals an outbound frame. HTML escaping is off: the backend
// consumes raw JSON and "<" in chat text must survive the trip unmangled.
func EncodeFrame(frame any) ([]byte, error) {
	data, err := encodeJSON(frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return data, nil
}

// encodeJSON marshals without HTML escaping and without the trailing newline
// json.Encoder appends.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
