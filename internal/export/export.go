// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export provides transcript export functionality for uplink TUI.
// Supports exporting the session transcript to various formats with styling
// and metadata.
package export

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// =============================================================================
// DOCUMENT
// =============================================================================

// Document is the exporter input: a snapshot of one session transcript plus
// the metadata that belongs in the exported file. Attachment payloads stay
// out of the document; exports carry only the media descriptors.
type Document struct {
	SessionID  string          `json:"session_id"`
	AgentName  string          `json:"agent_name"`
	ServerURL  string          `json:"server_url,omitempty"`
	StartedAt  time.Time       `json:"started_at"`
	ExportedAt time.Time       `json:"exported_at"`
	Entries    []DocumentEntry `json:"entries"`
}

// DocumentEntry is one transcript entry in export form.
type DocumentEntry struct {
	ID    string     `json:"id"`
	Kind  string     `json:"kind"`
	Time  time.Time  `json:"time"`
	Text  string     `json:"text,omitempty"`
	Tool  *ToolCall  `json:"tool,omitempty"`
	Media []MediaRef `json:"media,omitempty"`
}

// ToolCall describes a tool invocation recorded in the transcript.
type ToolCall struct {
	Name   string `json:"name"`
	Result string `json:"result,omitempty"`
	Done   bool   `json:"done"`
}

// MediaRef describes an attachment without its payload.
type MediaRef struct {
	Kind      string `json:"kind"`
	MediaType string `json:"media_type"`
	Name      string `json:"name,omitempty"`
	Size      int64  `json:"size"`
}

// Title returns a human-readable name for the document, derived from the
// session id.
func (d *Document) Title() string {
	if d.SessionID == "" {
		return "uplink session"
	}
	return "uplink session " + shortID(d.SessionID)
}

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter defines the interface for transcript exporters.
type Exporter interface {
	// Export converts a document to the target format and returns the content.
	Export(doc *Document) ([]byte, error)

	// FileExtension returns the appropriate file extension (e.g., ".md", ".html").
	FileExtension() string

	// MimeType returns the MIME type for the exported format.
	MimeType() string
}

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures export behavior.
type Options struct {
	// OutputDir is the directory where generated files are written.
	OutputDir string

	// OutputPath, when set, names the exact output file and overrides the
	// generated filename in OutputDir.
	OutputPath string

	// OpenAfterExport opens the file after export (uses OS default).
	OpenAfterExport bool

	// IncludeMetadata includes session metadata in the export.
	IncludeMetadata bool

	// IncludeTimestamps includes entry timestamps.
	IncludeTimestamps bool

	// Theme for HTML export ("dark" or "light").
	Theme string
}

// DefaultOptions returns sensible default export options.
func DefaultOptions() *Options {
	return &Options{
		OutputDir:         ".",
		OpenAfterExport:   true,
		IncludeMetadata:   true,
		IncludeTimestamps: true,
		Theme:             "dark",
	}
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile exports a document to a file using the specified exporter.
// Returns the output file path or an error.
//
// TIMEZONE: Per-entry timestamps are formatted without timezone information.
// The document's StartedAt timestamp in metadata includes timezone (RFC3339
// format).
func ExportToFile(doc *Document, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	// Generate content
	content, err := exporter.Export(doc)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename := fmt.Sprintf("uplink-%s-%s%s",
			sanitizeFilename(shortID(doc.SessionID)),
			timestamp,
			exporter.FileExtension())
		outputPath = filepath.Join(opts.OutputDir, filename)
	}

	// Ensure output directory exists
	if dir := filepath.Dir(outputPath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Write file
	if err := os.WriteFile(outputPath, content, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	// Open file if requested
	if opts.OpenAfterExport {
		if err := openFile(outputPath); err != nil {
			// Non-fatal error, file was still created successfully
			fmt.Printf("Warning: Could not open file: %v\n", err)
		}
	}

	return outputPath, nil
}

// ExportMarkdown exports to Markdown format.
func ExportMarkdown(doc *Document, opts *Options) (string, error) {
	exporter := NewMarkdownExporter(opts)
	return ExportToFile(doc, exporter, opts)
}

// ExportHTML exports to HTML format.
func ExportHTML(doc *Document, opts *Options) (string, error) {
	exporter := NewHTMLExporter(opts)
	return ExportToFile(doc, exporter, opts)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// shortID returns the leading segment of a session id, enough to tell
// sessions apart in a filename.
func shortID(id string) string {
	if id == "" {
		return "session"
	}
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// sanitizeFilename removes or replaces characters that are invalid in filenames.
func sanitizeFilename(name string) string {
	// Limit length
	if len(name) > 50 {
		name = name[:50]
	}

	// Replace invalid characters
	replacer := map[rune]rune{
		'/':  '-',
		'\\': '-',
		':':  '-',
		'*':  '-',
		'?':  '-',
		'"':  '-',
		'<':  '-',
		'>':  '-',
		'|':  '-',
		' ':  '_',
		'\t': '_',
		'\n': '_',
	}

	result := make([]rune, 0, len(name))
	for _, r := range name {
		if replacement, ok := replacer[r]; ok {
			result = append(result, replacement)
		} else if r >= 32 && r != 127 { // Printable characters only
			result = append(result, r)
		} else {
			result = append(result, '-')
		}
	}

	sanitized := string(result)
	if sanitized == "" {
		return "session"
	}

	return sanitized
}

// openFile opens a file with the OS default application.
func openFile(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	case "darwin":
		cmd = exec.Command("open", path)
	default: // linux, bsd, etc.
		cmd = exec.Command("xdg-open", path)
	}

	return cmd.Start()
}

// validate checks that a document is exportable. Shared by the markdown and
// HTML exporters; the JSON exporter only rejects nil documents.
func validate(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("document is nil")
	}
	if len(doc.Entries) == 0 {
		return fmt.Errorf("document has no entries")
	}
	if doc.StartedAt.IsZero() {
		return fmt.Errorf("document has invalid start timestamp")
	}
	return nil
}

// formatTimestamp formats a timestamp for display in exports.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// formatShortTimestamp formats a timestamp showing only the time of day.
func formatShortTimestamp(t time.Time) string {
	return t.Format("15:04:05")
}

// capitalizeFirst upper-cases the first letter of a role name for display.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
