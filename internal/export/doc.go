// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export provides transcript export functionality for uplink TUI.
//
// This package supports exporting the session transcript to various formats
// with styling, metadata, and optional opening in external applications.
//
// # Key Types
//
//   - Document: Exporter input built from a transcript snapshot
//   - Exporter: Main export interface (Markdown, HTML, JSON)
//   - Options: Export configuration options
//
// # Supported Formats
//
//   - JSON: Machine-readable with full metadata
//   - Markdown: Human-readable with formatting
//   - HTML: Styled for viewing in browsers
//
// # Usage
//
// Export the current transcript:
//
//	meta := export.Meta{SessionID: sess.ID(), AgentName: "Agent"}
//	path, err := export.ExportTranscript(tr, meta, "markdown", nil)
//
// Export to a specific file:
//
//	opts := export.DefaultOptions()
//	opts.OutputPath = "session.html"
//	doc := export.FromTranscript(tr, meta)
//	path, err := export.ExportHTML(doc, opts)
package export
