// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"time"

	"github.com/jeranaias/uplink-tui/internal/transcript"
)

// =============================================================================
// CONVERSION UTILITIES
// =============================================================================

// Meta carries the session metadata that the transcript itself does not hold.
type Meta struct {
	SessionID string
	AgentName string
	ServerURL string
	StartedAt time.Time
}

// FromTranscript converts a live transcript to an export document.
// This allows exporting the current session without any persistence layer.
func FromTranscript(tr transcript.Transcript, meta Meta) *Document {
	entries := tr.Entries()

	docEntries := make([]DocumentEntry, 0, len(entries))
	for _, e := range entries {
		de := DocumentEntry{
			ID:   e.ID,
			Kind: kindString(e.Kind),
			Time: e.Time,
			Text: e.Text,
		}

		// Tool chips carry their call record instead of text
		if e.Kind == transcript.EntryTool {
			de.Text = ""
			de.Tool = &ToolCall{
				Name:   e.ToolName,
				Result: e.ToolResult,
				Done:   e.ToolDone,
			}
		}

		for _, att := range e.Media {
			de.Media = append(de.Media, MediaRef{
				Kind:      string(att.Kind),
				MediaType: att.MediaType,
				Name:      att.Name,
				Size:      att.Size,
			})
		}

		docEntries = append(docEntries, de)
	}

	started := meta.StartedAt
	if started.IsZero() {
		if len(entries) > 0 {
			started = entries[0].Time
		} else {
			started = time.Now()
		}
	}

	agent := meta.AgentName
	if agent == "" {
		agent = "Agent"
	}

	return &Document{
		SessionID:  meta.SessionID,
		AgentName:  agent,
		ServerURL:  meta.ServerURL,
		StartedAt:  started,
		ExportedAt: time.Now(),
		Entries:    docEntries,
	}
}

// kindString maps a transcript entry kind to its export name.
func kindString(k transcript.EntryKind) string {
	switch k {
	case transcript.EntryUser:
		return "user"
	case transcript.EntryAssistant:
		return "agent"
	case transcript.EntryTool:
		return "tool"
	case transcript.EntryError:
		return "error"
	case transcript.EntryNotice:
		return "notice"
	default:
		return "unknown"
	}
}

// ExportTranscript converts a transcript and exports it in one call.
// This is a convenience function that combines conversion and export.
func ExportTranscript(tr transcript.Transcript, meta Meta, format string, opts *Options) (string, error) {
	doc := FromTranscript(tr, meta)

	switch format {
	case "markdown", "md":
		return ExportMarkdown(doc, opts)
	case "html", "htm":
		return ExportHTML(doc, opts)
	case "json":
		exporter := NewJSONExporter(opts)
		return ExportToFile(doc, exporter, opts)
	default:
		return "", fmt.Errorf("unsupported export format: %s", format)
	}
}
