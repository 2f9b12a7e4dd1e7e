// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/uplink-tui/internal/media"
	"github.com/jeranaias/uplink-tui/internal/protocol"
	"github.com/jeranaias/uplink-tui/internal/transcript"
)

// testDocument returns a minimal valid document for exporter tests.
func testDocument(entries ...DocumentEntry) *Document {
	if len(entries) == 0 {
		entries = []DocumentEntry{
			{ID: "ent_1", Kind: "user", Time: time.Now(), Text: "hello"},
		}
	}
	return &Document{
		SessionID:  "b54a97f1c2d84e03",
		AgentName:  "Agent",
		ServerURL:  "ws://localhost:8080/ws",
		StartedAt:  time.Now(),
		ExportedAt: time.Now(),
		Entries:    entries,
	}
}

// TestCodeBlockLanguageEscaping tests that language names in code blocks are
// properly escaped in HTML output.
func TestCodeBlockLanguageEscaping(t *testing.T) {
	doc := testDocument(DocumentEntry{
		ID:   "ent_1",
		Kind: "agent",
		Time: time.Now(),
		Text: "```<script>alert('xss')</script>\ncode here\n```",
	})

	exporter := NewHTMLExporter(nil)
	output, err := exporter.Export(doc)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	result := string(output)
	// Check that script tags are escaped
	if strings.Contains(result, "<script>alert('xss')</script>") {
		t.Error("XSS vulnerability: script tag not escaped in language label")
	}
	if !strings.Contains(result, "&lt;script&gt;") {
		t.Error("Expected escaped script tag in output")
	}
}

// TestYAMLNewlineEscaping tests that newlines are properly escaped in YAML
// frontmatter values.
func TestYAMLNewlineEscaping(t *testing.T) {
	doc := testDocument()
	doc.AgentName = "Test\nInjection: malicious"

	exporter := NewMarkdownExporter(nil)
	output, err := exporter.Export(doc)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	result := string(output)
	// Check that newlines are escaped in YAML frontmatter
	lines := strings.Split(result, "\n")
	for i, line := range lines {
		if i > 0 && i < 10 { // Check frontmatter area
			if strings.HasPrefix(line, "Injection:") {
				t.Error("YAML injection vulnerability: newline not escaped in agent name")
			}
		}
	}

	// Should contain escaped newline
	if strings.Contains(result, "agent: Test\nInjection") {
		t.Error("Newline not escaped in YAML value")
	}
}

// TestYAMLBackslashEscaping tests that backslashes are properly escaped.
func TestYAMLBackslashEscaping(t *testing.T) {
	doc := testDocument()
	doc.AgentName = `Ops\Primary`

	exporter := NewMarkdownExporter(nil)
	output, err := exporter.Export(doc)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	result := string(output)
	// The backslashes should be properly escaped in YAML
	if strings.Contains(result, "agent: Ops\\Primary\n") {
		t.Error("Backslashes not properly escaped in YAML (should be quoted)")
	}
}

// TestDocumentValidation tests that unexportable documents are rejected.
func TestDocumentValidation(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
		want string
	}{
		{
			name: "nil document",
			doc:  nil,
			want: "document is nil",
		},
		{
			name: "no entries",
			doc: &Document{
				SessionID: "test",
				AgentName: "Agent",
				StartedAt: time.Now(),
				Entries:   []DocumentEntry{},
			},
			want: "document has no entries",
		},
		{
			name: "invalid timestamp",
			doc: &Document{
				SessionID: "test",
				AgentName: "Agent",
				Entries: []DocumentEntry{
					{ID: "ent_1", Kind: "user", Text: "test", Time: time.Now()},
				},
			},
			want: "invalid start timestamp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			htmlExporter := NewHTMLExporter(nil)
			_, err := htmlExporter.Export(tt.doc)
			if err == nil {
				t.Errorf("Expected error containing %q, got nil", tt.want)
			} else if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %q", tt.want, err.Error())
			}

			mdExporter := NewMarkdownExporter(nil)
			_, err = mdExporter.Export(tt.doc)
			if err == nil {
				t.Errorf("Expected error containing %q, got nil", tt.want)
			} else if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Expected error containing %q, got %q", tt.want, err.Error())
			}

			jsonExporter := NewJSONExporter(nil)
			_, err = jsonExporter.Export(tt.doc)
			if tt.name == "nil document" {
				if err == nil {
					t.Error("Expected error for nil document")
				}
			}
		})
	}
}

// TestUnknownKindLabels tests that unrecognized entry kinds get readable labels.
func TestUnknownKindLabels(t *testing.T) {
	doc := testDocument(
		DocumentEntry{ID: "ent_1", Kind: "observer", Time: time.Now(), Text: "test content"},
		DocumentEntry{ID: "ent_2", Kind: "", Time: time.Now(), Text: "test content"},
	)

	htmlExporter := NewHTMLExporter(nil)
	htmlOutput, err := htmlExporter.Export(doc)
	if err != nil {
		t.Fatalf("HTML export failed: %v", err)
	}
	htmlResult := string(htmlOutput)

	if !strings.Contains(htmlResult, "Observer") {
		t.Error("Unknown kind not capitalized in HTML")
	}
	if !strings.Contains(htmlResult, "Unknown") {
		t.Error("Empty kind not handled in HTML")
	}

	mdExporter := NewMarkdownExporter(nil)
	mdOutput, err := mdExporter.Export(doc)
	if err != nil {
		t.Fatalf("Markdown export failed: %v", err)
	}
	mdResult := string(mdOutput)

	if !strings.Contains(mdResult, "Observer") {
		t.Error("Unknown kind not capitalized in Markdown")
	}
	if !strings.Contains(mdResult, "Unknown") {
		t.Error("Empty kind not handled in Markdown")
	}
}

// TestFilenameSanitization tests that problematic characters are sanitized.
func TestFilenameSanitization(t *testing.T) {
	tests := []struct {
		input    string
		mustNot  []string
		mustHave []string
	}{
		{
			input:    "Test/Path\\Name:With*Special?Chars",
			mustNot:  []string{"/", "\\", ":", "*", "?"},
			mustHave: []string{"-"},
		},
		{
			input:    "Test<HTML>Tags|Pipe",
			mustNot:  []string{"<", ">", "|"},
			mustHave: []string{"-"},
		},
		{
			input:    "Test With Spaces\tAnd\nNewlines\r",
			mustNot:  []string{" ", "\t", "\n", "\r"},
			mustHave: []string{"_"},
		},
		{
			input:    "Test\x00\x01\x1fControl\x7fChars",
			mustNot:  []string{"\x00", "\x01", "\x1f", "\x7f"},
			mustHave: []string{"-"},
		},
	}

	for _, tt := range tests {
		result := sanitizeFilename(tt.input)
		for _, char := range tt.mustNot {
			if strings.Contains(result, char) {
				t.Errorf("sanitizeFilename(%q) contains forbidden character %q, got %q", tt.input, char, result)
			}
		}
		for _, char := range tt.mustHave {
			if !strings.Contains(result, char) {
				t.Errorf("sanitizeFilename(%q) should contain %q, got %q", tt.input, char, result)
			}
		}
	}
}

// TestShortID tests session id shortening for filenames.
func TestShortID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "session"},
		{"abc", "abc"},
		{"01234567", "01234567"},
		{"0123456789abcdef", "01234567"},
	}

	for _, tt := range tests {
		if got := shortID(tt.input); got != tt.want {
			t.Errorf("shortID(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// TestDocumentTitle tests title derivation from the session id.
func TestDocumentTitle(t *testing.T) {
	doc := &Document{}
	if got := doc.Title(); got != "uplink session" {
		t.Errorf("empty session id title = %q", got)
	}

	doc.SessionID = "b54a97f1c2d84e03"
	title := doc.Title()
	if !strings.Contains(title, "b54a97f1") {
		t.Errorf("title %q should contain short session id", title)
	}
	if strings.Contains(title, "c2d84e03") {
		t.Errorf("title %q should not contain the full session id", title)
	}
}

// TestFromTranscript tests conversion of a live transcript to a document.
func TestFromTranscript(t *testing.T) {
	att := media.Attachment{
		Kind:      media.KindImage,
		MediaType: "image/png",
		Name:      "shot.png",
		Size:      2048,
		Data:      "aGVsbG8=",
	}

	tr := transcript.New()
	tr = tr.AppendUser("What time is it?", []media.Attachment{att})
	tr = tr.Apply(protocol.Event{Kind: protocol.EventToolStart, ToolID: "t1", ToolName: "current-time"})
	tr = tr.Apply(protocol.Event{Kind: protocol.EventToolEnd, ToolID: "t1", Result: "14:02 UTC"})
	tr = tr.Apply(protocol.Event{Kind: protocol.EventTextDelta, Text: "It is 14:02 UTC."})
	tr = tr.Apply(protocol.Event{Kind: protocol.EventDone})

	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	meta := Meta{
		SessionID: "sess-1234567890",
		AgentName: "Ops Copilot",
		ServerURL: "ws://localhost:8080/ws",
		StartedAt: started,
	}

	doc := FromTranscript(tr, meta)

	if doc.SessionID != meta.SessionID {
		t.Errorf("SessionID = %q, want %q", doc.SessionID, meta.SessionID)
	}
	if doc.AgentName != "Ops Copilot" {
		t.Errorf("AgentName = %q", doc.AgentName)
	}
	if !doc.StartedAt.Equal(started) {
		t.Errorf("StartedAt = %v, want %v", doc.StartedAt, started)
	}
	if doc.ExportedAt.IsZero() {
		t.Error("ExportedAt should be set")
	}

	if len(doc.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(doc.Entries))
	}

	wantKinds := []string{"user", "tool", "agent"}
	for i, want := range wantKinds {
		if doc.Entries[i].Kind != want {
			t.Errorf("entry %d kind = %q, want %q", i, doc.Entries[i].Kind, want)
		}
	}

	// User entry carries the attachment descriptor without the payload
	user := doc.Entries[0]
	if len(user.Media) != 1 {
		t.Fatalf("expected 1 media ref, got %d", len(user.Media))
	}
	ref := user.Media[0]
	if ref.Kind != "image" || ref.MediaType != "image/png" || ref.Name != "shot.png" || ref.Size != 2048 {
		t.Errorf("unexpected media ref: %+v", ref)
	}

	// Tool entry carries the call record instead of text
	tool := doc.Entries[1]
	if tool.Text != "" {
		t.Errorf("tool entry text should be empty, got %q", tool.Text)
	}
	if tool.Tool == nil {
		t.Fatal("tool entry should carry a ToolCall")
	}
	if tool.Tool.Name != "current-time" || tool.Tool.Result != "14:02 UTC" || !tool.Tool.Done {
		t.Errorf("unexpected tool call: %+v", tool.Tool)
	}

	if doc.Entries[2].Text != "It is 14:02 UTC." {
		t.Errorf("agent entry text = %q", doc.Entries[2].Text)
	}
}

// TestFromTranscriptDefaults tests the metadata fallbacks.
func TestFromTranscriptDefaults(t *testing.T) {
	tr := transcript.New()
	tr = tr.AppendUser("hello", nil)

	doc := FromTranscript(tr, Meta{SessionID: "sess-1"})

	if doc.AgentName != "Agent" {
		t.Errorf("AgentName fallback = %q, want Agent", doc.AgentName)
	}
	if doc.StartedAt.IsZero() {
		t.Error("StartedAt should fall back to the first entry time")
	}
	if !doc.StartedAt.Equal(doc.Entries[0].Time) {
		t.Errorf("StartedAt = %v, want first entry time %v", doc.StartedAt, doc.Entries[0].Time)
	}
}

// TestExportToFile tests file generation with both naming modes.
func TestExportToFile(t *testing.T) {
	dir := t.TempDir()
	doc := testDocument()

	opts := DefaultOptions()
	opts.OutputDir = dir
	opts.OpenAfterExport = false

	path, err := ExportMarkdown(doc, opts)
	if err != nil {
		t.Fatalf("ExportMarkdown failed: %v", err)
	}

	base := filepath.Base(path)
	if !strings.HasPrefix(base, "uplink-b54a97f1-") {
		t.Errorf("generated filename = %q, want uplink-b54a97f1- prefix", base)
	}
	if !strings.HasSuffix(base, ".md") {
		t.Errorf("generated filename = %q, want .md extension", base)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading exported file: %v", err)
	}
	if len(content) == 0 {
		t.Error("exported file is empty")
	}

	// Explicit output path overrides the generated name
	target := filepath.Join(dir, "nested", "session.html")
	opts.OutputPath = target

	path, err = ExportHTML(doc, opts)
	if err != nil {
		t.Fatalf("ExportHTML failed: %v", err)
	}
	if path != target {
		t.Errorf("path = %q, want %q", path, target)
	}
	if _, err := os.Stat(target); err != nil {
		t.Errorf("expected file at %q: %v", target, err)
	}
}

// TestExportTranscriptFormats tests the format dispatcher.
func TestExportTranscriptFormats(t *testing.T) {
	tr := transcript.New()
	tr = tr.AppendUser("hello", nil)
	meta := Meta{SessionID: "sess-1", AgentName: "Agent"}

	formats := []struct {
		format string
		ext    string
	}{
		{"markdown", ".md"},
		{"md", ".md"},
		{"html", ".html"},
		{"htm", ".html"},
		{"json", ".json"},
	}

	for _, tt := range formats {
		t.Run(tt.format, func(t *testing.T) {
			opts := DefaultOptions()
			opts.OutputDir = t.TempDir()
			opts.OpenAfterExport = false

			path, err := ExportTranscript(tr, meta, tt.format, opts)
			if err != nil {
				t.Fatalf("ExportTranscript(%q) failed: %v", tt.format, err)
			}
			if !strings.HasSuffix(path, tt.ext) {
				t.Errorf("path = %q, want %s extension", path, tt.ext)
			}
		})
	}

	opts := DefaultOptions()
	opts.OutputDir = t.TempDir()
	opts.OpenAfterExport = false

	if _, err := ExportTranscript(tr, meta, "xml", opts); err == nil {
		t.Error("expected error for unsupported format")
	}
}

// TestMarkdownAttachments tests that user attachments are listed.
func TestMarkdownAttachments(t *testing.T) {
	doc := testDocument(DocumentEntry{
		ID:   "ent_1",
		Kind: "user",
		Time: time.Now(),
		Text: "look at this",
		Media: []MediaRef{
			{Kind: "image", MediaType: "image/png", Name: "shot.png", Size: 2048},
		},
	})

	exporter := NewMarkdownExporter(nil)
	output, err := exporter.Export(doc)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	result := string(output)
	if !strings.Contains(result, "**Attachments**:") {
		t.Error("expected attachments section")
	}
	if !strings.Contains(result, "shot.png (image, 2.0 KB)") {
		t.Errorf("expected attachment line, got:\n%s", result)
	}
}

// TestMarkdownToolEntries tests tool chip rendering.
func TestMarkdownToolEntries(t *testing.T) {
	doc := testDocument(
		DocumentEntry{
			ID:   "ent_1",
			Kind: "tool",
			Time: time.Now(),
			Tool: &ToolCall{Name: "current-time", Result: "14:02 UTC", Done: true},
		},
		DocumentEntry{
			ID:   "ent_2",
			Kind: "tool",
			Time: time.Now(),
			Tool: &ToolCall{Name: "arithmetic", Done: false},
		},
	)

	exporter := NewMarkdownExporter(nil)
	output, err := exporter.Export(doc)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	result := string(output)
	if !strings.Contains(result, "**Tool**: `current-time`") {
		t.Error("expected tool name line")
	}
	if !strings.Contains(result, "14:02 UTC") {
		t.Error("expected tool result")
	}
	if !strings.Contains(result, "still running") {
		t.Error("expected running marker for unfinished tool")
	}
}

// TestMarkdownRoleLabels tests that the agent label uses the agent name.
func TestMarkdownRoleLabels(t *testing.T) {
	doc := testDocument(
		DocumentEntry{ID: "ent_1", Kind: "user", Time: time.Now(), Text: "hi"},
		DocumentEntry{ID: "ent_2", Kind: "agent", Time: time.Now(), Text: "hello"},
		DocumentEntry{ID: "ent_3", Kind: "error", Time: time.Now(), Text: "boom"},
	)
	doc.AgentName = "Ops Copilot"

	exporter := NewMarkdownExporter(nil)
	output, err := exporter.Export(doc)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	result := string(output)
	for _, want := range []string{"[You]", "[Ops Copilot]", "[Error]"} {
		if !strings.Contains(result, want) {
			t.Errorf("expected label %q in output", want)
		}
	}
}

// TestJSONDocumentShape tests the exported JSON structure.
func TestJSONDocumentShape(t *testing.T) {
	doc := testDocument(DocumentEntry{
		ID:   "ent_1",
		Kind: "user",
		Time: time.Now(),
		Text: "hello",
		Media: []MediaRef{
			{Kind: "image", MediaType: "image/png", Name: "shot.png", Size: 2048},
		},
	})

	exporter := NewJSONExporter(nil)
	output, err := exporter.Export(doc)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(output, &decoded); err != nil {
		t.Fatalf("exported JSON does not parse: %v", err)
	}

	if decoded["session_id"] != "b54a97f1c2d84e03" {
		t.Errorf("session_id = %v", decoded["session_id"])
	}

	entries, ok := decoded["entries"].([]interface{})
	if !ok || len(entries) != 1 {
		t.Fatalf("expected 1 entry in JSON, got %v", decoded["entries"])
	}

	entry := entries[0].(map[string]interface{})
	if entry["kind"] != "user" {
		t.Errorf("entry kind = %v", entry["kind"])
	}

	// Media refs must not leak base64 payloads
	if strings.Contains(string(output), "\"data\"") {
		t.Error("JSON export should not contain attachment payloads")
	}
}

// TestJSONExporterValidation tests that the JSON exporter validates input.
func TestJSONExporterValidation(t *testing.T) {
	exporter := NewJSONExporter(nil)

	_, err := exporter.Export(nil)
	if err == nil {
		t.Error("Expected error for nil document")
	}
	if err != nil && !strings.Contains(err.Error(), "document is nil") {
		t.Errorf("Expected 'document is nil' error, got %q", err.Error())
	}
}
