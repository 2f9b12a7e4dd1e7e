// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export_test

import (
	"fmt"
	"time"

	"github.com/jeranaias/uplink-tui/internal/export"
)

// ExampleExportMarkdown demonstrates exporting a transcript to Markdown format.
func ExampleExportMarkdown() {
	// Create a sample document
	doc := &export.Document{
		SessionID: "b54a97f1c2d84e03",
		AgentName: "Ops Copilot",
		ServerURL: "ws://localhost:8080/ws",
		StartedAt: time.Now(),
		Entries: []export.DocumentEntry{
			{
				ID:   "ent_1",
				Kind: "user",
				Time: time.Now(),
				Text: "How do I write a Hello World program in Python?",
			},
			{
				ID:   "ent_2",
				Kind: "agent",
				Time: time.Now(),
				Text: "Here's a simple Hello World program in Python:\n\n```python\nprint(\"Hello, World!\")\n```\n\nThis single line prints the message to the console.",
			},
		},
	}

	// Set up export options
	opts := export.DefaultOptions()
	opts.OutputDir = "./examples"
	opts.OpenAfterExport = false // Don't auto-open in example

	// Export to Markdown
	path, err := export.ExportMarkdown(doc, opts)
	if err != nil {
		fmt.Printf("Export failed: %v\n", err)
		return
	}

	fmt.Printf("Exported to: %s\n", path)
	// Output would be something like:
	// Exported to: ./examples/uplink-b54a97f1-20260124_143052.md
}

// ExampleExportHTML demonstrates exporting a transcript to HTML format.
func ExampleExportHTML() {
	// Create a sample document
	doc := &export.Document{
		SessionID: "7c31e0aa94fd4b17",
		AgentName: "Ops Copilot",
		StartedAt: time.Now(),
		Entries: []export.DocumentEntry{
			{
				ID:   "ent_1",
				Kind: "user",
				Time: time.Now(),
				Text: "What time is it in Tokyo?",
			},
			{
				ID:   "ent_2",
				Kind: "tool",
				Time: time.Now(),
				Tool: &export.ToolCall{Name: "current-time", Result: "23:02 JST", Done: true},
			},
			{
				ID:   "ent_3",
				Kind: "agent",
				Time: time.Now(),
				Text: "It is 23:02 in Tokyo right now.",
			},
		},
	}

	// Set up export options with light theme
	opts := export.DefaultOptions()
	opts.OutputDir = "./examples"
	opts.Theme = "light"
	opts.OpenAfterExport = false

	// Export to HTML
	path, err := export.ExportHTML(doc, opts)
	if err != nil {
		fmt.Printf("Export failed: %v\n", err)
		return
	}

	fmt.Printf("Exported to: %s\n", path)
	// Output would be something like:
	// Exported to: ./examples/uplink-7c31e0aa-20260124_143052.html
}

// ExampleExportToFile demonstrates using a custom exporter.
func ExampleExportToFile() {
	// Create a sample document
	doc := &export.Document{
		SessionID: "3f92ab5c81de4f60",
		AgentName: "Ops Copilot",
		StartedAt: time.Now(),
		Entries: []export.DocumentEntry{
			{
				ID:   "ent_1",
				Kind: "user",
				Time: time.Now(),
				Text: "What's the capital of France?",
			},
			{
				ID:   "ent_2",
				Kind: "agent",
				Time: time.Now(),
				Text: "The capital of France is Paris.",
			},
		},
	}

	// Export with custom options
	opts := &export.Options{
		OutputDir:         "./examples/json",
		OpenAfterExport:   false,
		IncludeMetadata:   true,
		IncludeTimestamps: true,
	}

	// Create JSON exporter
	exporter := export.NewJSONExporter(opts)

	path, err := export.ExportToFile(doc, exporter, opts)
	if err != nil {
		fmt.Printf("Export failed: %v\n", err)
		return
	}

	fmt.Printf("Exported to: %s\n", path)
	// Output would be something like:
	// Exported to: ./examples/json/uplink-3f92ab5c-20260124_143052.json
}
