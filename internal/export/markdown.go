// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/jeranaias/uplink-tui/internal/util"
)

// =============================================================================
// MARKDOWN EXPORTER
// =============================================================================

// MarkdownExporter exports transcripts to Markdown format.
type MarkdownExporter struct {
	options *Options
}

// NewMarkdownExporter creates a new Markdown exporter.
func NewMarkdownExporter(opts *Options) *MarkdownExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &MarkdownExporter{options: opts}
}

// Export converts a document to Markdown format.
func (e *MarkdownExporter) Export(doc *Document) ([]byte, error) {
	if err := validate(doc); err != nil {
		return nil, err
	}

	exported := doc.ExportedAt
	if exported.IsZero() {
		exported = time.Now()
	}

	var sb strings.Builder

	// YAML frontmatter with metadata
	if e.options.IncludeMetadata {
		sb.WriteString("---\n")
		sb.WriteString(fmt.Sprintf("title: %s\n", escapeYAML(doc.Title())))
		sb.WriteString(fmt.Sprintf("agent: %s\n", escapeYAML(doc.AgentName)))
		if doc.ServerURL != "" {
			sb.WriteString(fmt.Sprintf("server: %s\n", escapeYAML(doc.ServerURL)))
		}
		sb.WriteString(fmt.Sprintf("started: %s\n", doc.StartedAt.Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("entries: %d\n", len(doc.Entries)))
		sb.WriteString(fmt.Sprintf("exported: %s\n", exported.Format(time.RFC3339)))
		sb.WriteString("generator: uplink-tui\n")
		sb.WriteString("---\n\n")
	}

	// Title
	sb.WriteString(fmt.Sprintf("# %s\n\n", escapeMarkdown(doc.Title())))

	// Metadata section
	if e.options.IncludeMetadata {
		sb.WriteString("## Session Information\n\n")
		sb.WriteString(fmt.Sprintf("- **Agent**: %s\n", doc.AgentName))
		if doc.ServerURL != "" {
			sb.WriteString(fmt.Sprintf("- **Server**: %s\n", doc.ServerURL))
		}
		sb.WriteString(fmt.Sprintf("- **Started**: %s\n", formatTimestamp(doc.StartedAt)))
		sb.WriteString(fmt.Sprintf("- **Entries**: %d\n", len(doc.Entries)))
		sb.WriteString("\n---\n\n")
	}

	// Transcript entries
	sb.WriteString("## Conversation\n\n")

	for i, entry := range doc.Entries {
		// Role label with timestamp
		roleLabel := e.formatRoleLabel(doc, entry.Kind)
		if e.options.IncludeTimestamps && !entry.Time.IsZero() {
			sb.WriteString(fmt.Sprintf("### %s <sub>%s</sub>\n\n",
				roleLabel,
				formatShortTimestamp(entry.Time)))
		} else {
			sb.WriteString(fmt.Sprintf("### %s\n\n", roleLabel))
		}

		// Entry content
		if entry.Tool != nil {
			sb.WriteString(e.formatToolEntry(entry.Tool))
		} else {
			sb.WriteString(e.formatEntryText(entry.Text))
		}
		sb.WriteString("\n\n")

		// Attachments carried by the entry
		if len(entry.Media) > 0 {
			sb.WriteString("**Attachments**:\n\n")
			for _, m := range entry.Media {
				sb.WriteString(fmt.Sprintf("- %s (%s, %s)\n", m.Name, m.Kind, util.FormatBytes(m.Size)))
			}
			sb.WriteString("\n")
		}

		// Add separator between entries (except last)
		if i < len(doc.Entries)-1 {
			sb.WriteString("---\n\n")
		}
	}

	// Footer
	sb.WriteString("\n---\n\n")
	sb.WriteString(fmt.Sprintf("*Exported from uplink TUI on %s*\n",
		exported.Format("January 2, 2006 at 3:04 PM")))

	return []byte(sb.String()), nil
}

// FileExtension returns the file extension for Markdown.
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// MimeType returns the MIME type for Markdown.
func (e *MarkdownExporter) MimeType() string {
	return "text/markdown"
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// formatRoleLabel returns a formatted label for the entry kind.
func (e *MarkdownExporter) formatRoleLabel(doc *Document, kind string) string {
	// Check for empty kind
	if kind == "" {
		return "Unknown"
	}

	switch kind {
	case "user":
		return "[You]"
	case "agent":
		return fmt.Sprintf("[%s]", doc.AgentName)
	case "tool":
		return "[Tool]"
	case "error":
		return "[Error]"
	case "notice":
		return "[Notice]"
	default:
		return capitalizeFirst(kind)
	}
}

// formatEntryText formats entry text with proper spacing.
func (e *MarkdownExporter) formatEntryText(text string) string {
	// Deltas accumulate verbatim, so the text already carries its own
	// markdown including code fences
	return strings.TrimSpace(text)
}

// formatToolEntry formats a tool chip with its result.
func (e *MarkdownExporter) formatToolEntry(tool *ToolCall) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("**Tool**: `%s`\n\n", tool.Name))

	if !tool.Done {
		sb.WriteString("*(still running at export time)*\n")
		return sb.String()
	}

	if tool.Result != "" {
		sb.WriteString("**Result**:\n```\n")
		sb.WriteString(tool.Result)
		sb.WriteString("\n```\n")
	}

	return sb.String()
}

// =============================================================================
// ESCAPING HELPERS
// =============================================================================

// escapeMarkdown escapes special Markdown characters in plain text.
func escapeMarkdown(s string) string {
	// Only escape characters that would break formatting in titles/headings
	s = strings.ReplaceAll(s, "#", "\\#")
	s = strings.ReplaceAll(s, "*", "\\*")
	s = strings.ReplaceAll(s, "_", "\\_")
	s = strings.ReplaceAll(s, "[", "\\[")
	s = strings.ReplaceAll(s, "]", "\\]")
	return s
}

// escapeYAML escapes special YAML characters in values.
func escapeYAML(s string) string {
	// Quote if contains special characters (including backslash)
	if strings.ContainsAny(s, ":#|>@`\"'[]{}!%&*\n\r\\") || strings.HasPrefix(s, " ") || strings.HasSuffix(s, " ") {
		// Escape special characters including newlines and backslashes
		s = strings.ReplaceAll(s, "\\", "\\\\")
		s = strings.ReplaceAll(s, "\"", "\\\"")
		s = strings.ReplaceAll(s, "\n", "\\n")
		s = strings.ReplaceAll(s, "\r", "\\r")
		return fmt.Sprintf("\"%s\"", s)
	}
	return s
}
