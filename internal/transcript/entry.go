// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript turns the agent's event stream into an ordered
// conversation transcript.
package transcript

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/jeranaias/uplink-tui/internal/media"
	"github.com/jeranaias/uplink-tui/internal/util"
)

// =============================================================================
// ENTRY KINDS
// =============================================================================

// EntryKind classifies a transcript entry.
type EntryKind int

const (
	// EntryUser is a message the user sent.
	EntryUser EntryKind = iota

	// EntryAssistant is agent text, possibly still streaming.
	EntryAssistant

	// EntryTool is a tool invocation chip (running or finished).
	EntryTool

	// EntryError is an agent-side failure notice for a turn.
	EntryError

	// EntryNotice is a local informational line (connect, clear, export).
	EntryNotice
)

// DisplayName returns the default label rendered before the entry.
// The chat view substitutes the configured agent name for EntryAssistant.
func (k EntryKind) DisplayName() string {
	switch k {
	case EntryUser:
		return "You"
	case EntryAssistant:
		return "Assistant"
	case EntryTool:
		return "Tool"
	case EntryError:
		return "Error"
	case EntryNotice:
		return "Notice"
	default:
		return "Unknown"
	}
}

// =============================================================================
// ENTRY
// =============================================================================

// Entry is one transcript item. Entries are plain values; the reducer copies
// them on write, so holding an Entry from an old snapshot is always safe.
type Entry struct {
	// ID uniquely identifies the entry within the session.
	ID string

	// Kind classifies the entry.
	Kind EntryKind

	// Time is when the entry was created (local clock).
	Time time.Time

	// Text is the message body. For EntryError it is the failure message.
	Text string

	// Streaming marks an assistant entry that is still receiving deltas.
	// At most one entry is streaming, and it is always the last entry.
	Streaming bool

	// ToolID, ToolName, ToolResult and ToolDone describe EntryTool chips.
	// ToolResult holds the short preview the server sends with tool_end.
	ToolID     string
	ToolName   string
	ToolResult string
	ToolDone   bool

	// Media lists the attachments sent with an EntryUser message.
	// The slice is shared across snapshots and must not be modified.
	Media []media.Attachment
}

// Preview returns the first maxLen runes of the entry text for list views,
// with newlines flattened.
func (e Entry) Preview(maxLen int) string {
	flat := e.Text
	for i := 0; i < len(flat); i++ {
		if flat[i] == '\n' {
			b := []byte(flat)
			for j := range b {
				if b[j] == '\n' {
					b[j] = ' '
				}
			}
			flat = string(b)
			break
		}
	}
	return util.TruncateRunes(flat, maxLen)
}

// IsOpen reports whether this entry can still absorb text deltas.
func (e Entry) IsOpen() bool {
	return e.Kind == EntryAssistant && e.Streaming
}

// newEntryID generates a unique entry ID.
// Uses crypto/rand; falls back to a timestamp if the system RNG fails.
func newEntryID() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("ent_%d", time.Now().UnixNano())
	}
	return "ent_" + hex.EncodeToString(b)
}
