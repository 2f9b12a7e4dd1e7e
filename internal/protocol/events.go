// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package protocol defines the wire frames exchanged with the agent backend.
package protocol

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// EVENT KINDS
// =============================================================================

// EventKind identifies an inbound frame type.
type EventKind int

const (
	// EventUnknown is any frame type this client does not recognize.
	// Unknown events are delivered and then ignored downstream.
	EventUnknown EventKind = iota

	// EventThinking toggles the waiting indicator.
	EventThinking

	// EventTextDelta carries a streamed chunk of assistant text.
	EventTextDelta

	// EventToolStart announces that the agent began a tool invocation.
	EventToolStart

	// EventToolEnd announces that a tool invocation finished.
	EventToolEnd

	// EventNewTurn marks a turn boundary. The next text delta opens a new
	// assistant message instead of extending the current one.
	EventNewTurn

	// EventDone ends the turn and carries the full accumulated text.
	EventDone

	// EventError reports an agent-side failure for the current turn.
	EventError

	// EventCleared confirms that the server wiped the conversation history.
	EventCleared
)

// String returns the wire name of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventThinking:
		return "thinking"
	case EventTextDelta:
		return "text_delta"
	case EventToolStart:
		return "tool_start"
	case EventToolEnd:
		return "tool_end"
	case EventNewTurn:
		return "new_turn"
	case EventDone:
		return "done"
	case EventError:
		return "error"
	case EventCleared:
		return "cleared"
	default:
		return "unknown"
	}
}

// kindByName maps wire names back to kinds for decoding.
var kindByName = map[string]EventKind{
	"thinking":   EventThinking,
	"text_delta": EventTextDelta,
	"tool_start": EventToolStart,
	"tool_end":   EventToolEnd,
	"new_turn":   EventNewTurn,
	"done":       EventDone,
	"error":      EventError,
	"cleared":    EventCleared,
}

// =============================================================================
// INBOUND EVENTS
// =============================================================================

// Event is a decoded inbound frame. Only the fields matching Kind are set:
//
//	EventThinking:  Status
//	EventTextDelta: Text
//	EventToolStart: ToolID, ToolName
//	EventToolEnd:   ToolID, Result
//	EventDone:      Text (full accumulated reply, may be empty)
//	EventError:     Message
type Event struct {
	Kind     EventKind
	Status   bool
	Text     string
	ToolID   string
	ToolName string
	Result   string
	Message  string
}

// wireEvent is the raw JSON shape shared by every inbound frame.
type wireEvent struct {
	Type    string `json:"type"`
	Status  bool   `json:"status"`
	Text    string `json:"text"`
	ToolID  string `json:"tool_id"`
	Name    string `json:"name"`
	Result  string `json:"result"`
	Message string `json:"message"`
}

// DecodeEvent parses a single inbound frame. Malformed JSON returns an error
// and the caller should skip the frame. An object with a missing or
// unrecognized "type" decodes to an EventUnknown event, not an error.
func DecodeEvent(data []byte) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}

	kind, ok := kindByName[w.Type]
	if !ok {
		return Event{Kind: EventUnknown}, nil
	}

	ev := Event{Kind: kind}
	switch kind {
	case EventThinking:
		ev.Status = w.Status
	case EventTextDelta, EventDone:
		ev.Text = w.Text
	case EventToolStart:
		ev.ToolID = w.ToolID
		ev.ToolName = w.Name
	case EventToolEnd:
		ev.ToolID = w.ToolID
		ev.Result = w.Result
	case EventError:
		ev.Message = w.Message
	}
	return ev, nil
}

// EncodeEvent marshals an inbound-style event back to its wire form.
// The client never sends events; this exists for the dev stub server and
// for tests that fabricate frames.
func EncodeEvent(ev Event) ([]byte, error) {
	w := wireEvent{Type: ev.Kind.String()}
	switch ev.Kind {
	case EventThinking:
		return encodeJSON(struct {
			Type   string `json:"type"`
			Status bool   `json:"status"`
		}{w.Type, ev.Status})
	case EventTextDelta:
		return encodeJSON(struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{w.Type, ev.Text})
	case EventToolStart:
		return encodeJSON(struct {
			Type   string `json:"type"`
			ToolID string `json:"tool_id"`
			Name   string `json:"name"`
		}{w.Type, ev.ToolID, ev.ToolName})
	case EventToolEnd:
		return encodeJSON(struct {
			Type   string `json:"type"`
			ToolID string `json:"tool_id"`
			Result string `json:"result"`
		}{w.Type, ev.ToolID, ev.Result})
	case EventDone:
		return encodeJSON(struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}{w.Type, ev.Text})
	case EventError:
		return encodeJSON(struct {
			Type    string `json:"type"`
			Message string `json:"message"`
		}{w.Type, ev.Message})
	case EventNewTurn, EventCleared:
		return encodeJSON(struct {
			Type string `json:"type"`
		}{w.Type})
	default:
		return nil, fmt.Errorf("encode event: unencodable kind %d", ev.Kind)
	}
}
