// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
package commands

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/uplink-tui/internal/config"
	"github.com/jeranaias/uplink-tui/internal/session"
)

// =============================================================================
// PARSER TESTS
// =============================================================================

func TestSplitCommandLine(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"/help", []string{"/help"}},
		{"/theme dark", []string{"/theme", "dark"}},
		{`/attach "my photo.png"`, []string{"/attach", "my photo.png"}},
		{`/attach 'my photo.png'`, []string{"/attach", "my photo.png"}},
		{"/config key value", []string{"/config", "key", "value"}},
		{`/export markdown "file with spaces.md"`, []string{"/export", "markdown", "file with spaces.md"}},
	}

	for _, tc := range tests {
		got := splitCommandLine(tc.input)
		if len(got) != len(tc.want) {
			t.Errorf("splitCommandLine(%q) = %v, want %v", tc.input, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("splitCommandLine(%q)[%d] = %q, want %q", tc.input, i, got[i], tc.want[i])
			}
		}
	}
}

// =============================================================================
// REGISTRY TESTS
// =============================================================================

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}

	// Should have built-in commands
	if len(r.commands) == 0 {
		t.Error("Registry should have built-in commands")
	}
}

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	cmd := &Command{
		Name:        "/test",
		Aliases:     []string{"/t"},
		Description: "Test command",
	}

	r.Register(cmd)

	if r.Get("/test") == nil {
		t.Error("Should get command by name")
	}

	if r.Get("/t") == nil {
		t.Error("Should get command by alias")
	}
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()

	// Built-in commands
	if r.Get("/help") == nil {
		t.Error("/help command should exist")
	}

	if r.Get("/h") == nil {
		t.Error("/h alias should resolve to /help")
	}

	if r.Get("/?") == nil {
		t.Error("/? alias should resolve to /help")
	}

	if r.Get("/nonexistent") != nil {
		t.Error("/nonexistent should return nil")
	}
}

func TestRegistry_All(t *testing.T) {
	r := NewRegistry()
	all := r.All()

	if len(all) == 0 {
		t.Error("All() should return commands")
	}

	// Check that essential commands are present
	found := make(map[string]bool)
	for _, cmd := range all {
		found[cmd.Name] = true
	}

	essentials := []string{"/help", "/quit", "/new", "/clear", "/attach", "/connect", "/status"}
	for _, name := range essentials {
		if !found[name] {
			t.Errorf("Essential command %s not found in All()", name)
		}
	}
}

func TestRegistry_ByCategory(t *testing.T) {
	r := NewRegistry()
	byCategory := r.ByCategory()

	if len(byCategory) == 0 {
		t.Error("ByCategory() should return categories")
	}

	// Check that expected categories exist
	expectedCategories := []string{"Navigation", "Conversation", "Connection", "Attachments", "Settings"}
	for _, cat := range expectedCategories {
		if _, ok := byCategory[cat]; !ok {
			t.Errorf("Expected category %q not found", cat)
		}
	}

	// Hidden commands should not appear
	for _, cmds := range byCategory {
		for _, cmd := range cmds {
			if cmd.Hidden {
				t.Errorf("Hidden command %s should not appear in ByCategory()", cmd.Name)
			}
		}
	}
}

// =============================================================================
// PARSE DISPATCH TESTS
// =============================================================================

func TestParser_Parse(t *testing.T) {
	r := NewRegistry()
	p := NewParser(r)

	tests := []struct {
		input     string
		isCommand bool
		cmdName   string
		argsLen   int
	}{
		{"/help", true, "/help", 0},
		{"/theme dark", true, "/theme", 1},
		{"hello world", false, "", 0},
		{"/nonexistent", true, "/nonexistent", 0},
		{`/attach "my photo.png"`, true, "/attach", 1},
	}

	for _, tc := range tests {
		result := p.Parse(tc.input)

		if result.IsCommand != tc.isCommand {
			t.Errorf("Parse(%q).IsCommand = %v, want %v", tc.input, result.IsCommand, tc.isCommand)
		}

		if result.CommandName != tc.cmdName {
			t.Errorf("Parse(%q).CommandName = %q, want %q", tc.input, result.CommandName, tc.cmdName)
		}

		if len(result.Args) != tc.argsLen {
			t.Errorf("Parse(%q) args length = %d, want %d", tc.input, len(result.Args), tc.argsLen)
		}
	}
}

func TestParser_Parse_CommandLookup(t *testing.T) {
	r := NewRegistry()
	p := NewParser(r)

	// Existing command
	result := p.Parse("/help")
	if result.Command == nil {
		t.Error("Parse(/help).Command should not be nil")
	}

	// Alias lookup
	result = p.Parse("/h")
	if result.Command == nil {
		t.Error("Parse(/h).Command should not be nil (alias)")
	}

	// Non-existent command
	result = p.Parse("/nonexistent")
	if result.Command != nil {
		t.Error("Parse(/nonexistent).Command should be nil")
	}
}

// =============================================================================
// VALIDATION TESTS
// =============================================================================

func TestValidateArgs(t *testing.T) {
	// Command with required argument
	cmdWithRequired := &Command{
		Name: "/test",
		Args: []ArgDef{
			{Name: "required_arg", Required: true, Description: "A required argument"},
		},
	}

	// Missing required argument
	err := ValidateArgs(cmdWithRequired, []string{})
	if err == nil {
		t.Error("ValidateArgs should return error for missing required argument")
	}

	// Provided required argument
	err = ValidateArgs(cmdWithRequired, []string{"value"})
	if err != nil {
		t.Errorf("ValidateArgs should not error when required argument provided: %v", err)
	}

	// Command with enum argument
	cmdWithEnum := &Command{
		Name: "/theme",
		Args: []ArgDef{
			{Name: "name", Required: true, Type: ArgTypeEnum, Values: []string{"dark", "light", "auto"}},
		},
	}

	// Valid enum value
	err = ValidateArgs(cmdWithEnum, []string{"dark"})
	if err != nil {
		t.Errorf("ValidateArgs should accept valid enum value: %v", err)
	}

	// Invalid enum value
	err = ValidateArgs(cmdWithEnum, []string{"invalid"})
	if err == nil {
		t.Error("ValidateArgs should reject invalid enum value")
	}

	// Case insensitive enum
	err = ValidateArgs(cmdWithEnum, []string{"DARK"})
	if err != nil {
		t.Errorf("ValidateArgs should accept case-insensitive enum: %v", err)
	}

	// Nil command should not error
	err = ValidateArgs(nil, []string{"anything"})
	if err != nil {
		t.Errorf("ValidateArgs(nil) should not error: %v", err)
	}
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Command:  "/test",
		Arg:      "arg1",
		Message:  "invalid value",
		Got:      "bad",
		Expected: "good1, good2",
	}

	errStr := err.Error()

	// Check that all parts are in the error string
	if errStr == "" {
		t.Error("Error() should return non-empty string")
	}

	// Should contain command, argument, message, got, expected
	contains := []string{"/test", "arg1", "invalid value", "bad", "good1, good2"}
	for _, s := range contains {
		if !containsStr(errStr, s) {
			t.Errorf("Error() should contain %q, got: %s", s, errStr)
		}
	}
}

// =============================================================================
// CONTEXT TESTS
// =============================================================================

func TestNewContext(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	if ctx == nil {
		t.Fatal("NewContext() returned nil")
	}
}

func TestContext_WithHandlerContext(t *testing.T) {
	ctx := NewContext(nil, nil, nil)
	hctx := &HandlerContext{}

	result := ctx.WithHandlerContext(hctx)

	if result != ctx {
		t.Error("WithHandlerContext should return same context")
	}

	if ctx.HandlerCtx != hctx {
		t.Error("HandlerCtx should be set")
	}
}

func TestContext_Touch(t *testing.T) {
	// With nil tracker, should not panic
	ctx := NewContext(nil, nil, nil)
	ctx.Touch()

	// With tracker, should bump activity
	trk := session.NewTracker("test")
	ctx = NewContext(nil, nil, trk)
	ctx.Touch()
}

// =============================================================================
// ARGTYPE TESTS
// =============================================================================

func TestArgType_Values(t *testing.T) {
	// Verify ArgType constants are defined
	types := []ArgType{
		ArgTypeString,
		ArgTypeFile,
		ArgTypeEnum,
		ArgTypeConfig,
	}

	for i, at := range types {
		if int(at) != i {
			t.Errorf("ArgType constant %d has unexpected value %d", i, at)
		}
	}
}

// =============================================================================
// HANDLER TESTS
// =============================================================================

// runCmd executes a handler's tea.Cmd and returns the produced message.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("handler returned nil command")
	}
	return cmd()
}

func TestHandleHelp(t *testing.T) {
	ctx := NewContext(nil, nil, nil)

	msg := runCmd(t, HandleHelp(ctx, nil))
	help, ok := msg.(ShowHelpMsg)
	if !ok {
		t.Fatalf("expected ShowHelpMsg, got %T", msg)
	}
	if help.Mode != "" {
		t.Errorf("Mode = %q, want empty", help.Mode)
	}

	msg = runCmd(t, HandleHelp(ctx, []string{"all"}))
	help = msg.(ShowHelpMsg)
	if help.Mode != "all" {
		t.Errorf("Mode = %q, want all", help.Mode)
	}
}

func TestHandleQuit(t *testing.T) {
	msg := runCmd(t, HandleQuit(NewContext(nil, nil, nil), nil))
	if _, ok := msg.(tea.QuitMsg); !ok {
		t.Errorf("expected tea.QuitMsg, got %T", msg)
	}
}

func TestHandleNew(t *testing.T) {
	msg := runCmd(t, HandleNew(NewContext(nil, nil, nil), nil))
	if _, ok := msg.(NewSessionMsg); !ok {
		t.Errorf("expected NewSessionMsg, got %T", msg)
	}
}

func TestHandleClear_NotConnected(t *testing.T) {
	msg := runCmd(t, HandleClear(NewContext(nil, nil, nil), nil))
	errMsg, ok := msg.(ErrorMsg)
	if !ok {
		t.Fatalf("expected ErrorMsg, got %T", msg)
	}
	if errMsg.Title != "Not connected" {
		t.Errorf("Title = %q, want Not connected", errMsg.Title)
	}
}

func TestHandleCopy(t *testing.T) {
	// Nothing completed yet
	msg := runCmd(t, HandleCopy(NewContext(nil, nil, nil), nil))
	if _, ok := msg.(ErrorMsg); !ok {
		t.Errorf("expected ErrorMsg with no response, got %T", msg)
	}

	// With a completed response
	ctx := NewContext(nil, nil, nil).WithHandlerContext(&HandlerContext{LastResponse: "the answer"})
	msg = runCmd(t, HandleCopy(ctx, nil))
	copyMsg, ok := msg.(CopyToClipboardMsg)
	if !ok {
		t.Fatalf("expected CopyToClipboardMsg, got %T", msg)
	}
	if copyMsg.Content != "the answer" {
		t.Errorf("Content = %q, want the answer", copyMsg.Content)
	}
}

func TestHandleExport(t *testing.T) {
	ctx := NewContext(nil, nil, nil)

	tests := []struct {
		args       []string
		wantFormat string
		wantPath   string
		wantErr    bool
	}{
		{nil, "markdown", "", false},
		{[]string{"md"}, "markdown", "", false},
		{[]string{"markdown"}, "markdown", "", false},
		{[]string{"json", "out.json"}, "json", "out.json", false},
		{[]string{"html"}, "html", "", false},
		{[]string{"pdf"}, "", "", true},
	}

	for _, tc := range tests {
		msg := runCmd(t, HandleExport(ctx, tc.args))
		if tc.wantErr {
			if _, ok := msg.(ErrorMsg); !ok {
				t.Errorf("args %v: expected ErrorMsg, got %T", tc.args, msg)
			}
			continue
		}
		req, ok := msg.(ExportRequestMsg)
		if !ok {
			t.Errorf("args %v: expected ExportRequestMsg, got %T", tc.args, msg)
			continue
		}
		if req.Format != tc.wantFormat || req.Path != tc.wantPath {
			t.Errorf("args %v: got (%q, %q), want (%q, %q)",
				tc.args, req.Format, req.Path, tc.wantFormat, tc.wantPath)
		}
	}
}

func TestHandleConnect(t *testing.T) {
	// Disconnected: request carries through
	ctx := NewContext(nil, nil, nil)
	msg := runCmd(t, HandleConnect(ctx, []string{"ws://example.com"}))
	req, ok := msg.(ConnectRequestMsg)
	if !ok {
		t.Fatalf("expected ConnectRequestMsg, got %T", msg)
	}
	if req.URL != "ws://example.com" {
		t.Errorf("URL = %q, want ws://example.com", req.URL)
	}

	// Already connected: rejected
	ctx = NewContext(nil, nil, nil).WithHandlerContext(&HandlerContext{Connected: true})
	msg = runCmd(t, HandleConnect(ctx, nil))
	if _, ok := msg.(ErrorMsg); !ok {
		t.Errorf("expected ErrorMsg when already connected, got %T", msg)
	}
}

func TestHandleDisconnect(t *testing.T) {
	// Not connected: rejected
	ctx := NewContext(nil, nil, nil).WithHandlerContext(&HandlerContext{Connected: false})
	msg := runCmd(t, HandleDisconnect(ctx, nil))
	if _, ok := msg.(ErrorMsg); !ok {
		t.Errorf("expected ErrorMsg when not connected, got %T", msg)
	}

	// Connected: request carries through
	ctx = NewContext(nil, nil, nil).WithHandlerContext(&HandlerContext{Connected: true})
	msg = runCmd(t, HandleDisconnect(ctx, nil))
	if _, ok := msg.(DisconnectRequestMsg); !ok {
		t.Errorf("expected DisconnectRequestMsg, got %T", msg)
	}
}

func TestHandleStatus(t *testing.T) {
	cfg := config.Default()
	trk := session.NewTracker("sess-42")
	ctx := NewContext(cfg, nil, trk).WithHandlerContext(&HandlerContext{
		Connected:       true,
		AttachmentCount: 2,
	})

	msg := runCmd(t, HandleStatus(ctx, nil))
	info, ok := msg.(StatusInfoMsg)
	if !ok {
		t.Fatalf("expected StatusInfoMsg, got %T", msg)
	}

	if info.SessionID != "sess-42" {
		t.Errorf("SessionID = %q, want sess-42", info.SessionID)
	}
	if !info.Connected {
		t.Error("Connected should be true")
	}
	if info.Attachments != 2 {
		t.Errorf("Attachments = %d, want 2", info.Attachments)
	}
	if info.ServerURL != cfg.Server.URL {
		t.Errorf("ServerURL = %q, want %q", info.ServerURL, cfg.Server.URL)
	}
}

func TestHandleAttach(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shot.png")
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\nfake"), 0o644); err != nil {
		t.Fatal(err)
	}

	ctx := NewContext(config.Default(), nil, nil)
	msg := runCmd(t, HandleAttach(ctx, []string{path}))
	added, ok := msg.(AttachmentAddedMsg)
	if !ok {
		t.Fatalf("expected AttachmentAddedMsg, got %T", msg)
	}
	if added.Err != nil {
		t.Fatalf("unexpected error: %v", added.Err)
	}
	if added.Attachment.Name != "shot.png" {
		t.Errorf("Name = %q, want shot.png", added.Attachment.Name)
	}

	// Missing file surfaces the error in the message
	msg = runCmd(t, HandleAttach(ctx, []string{filepath.Join(dir, "missing.png")}))
	added = msg.(AttachmentAddedMsg)
	if added.Err == nil {
		t.Error("expected error for missing file")
	}

	// No args at all
	msg = runCmd(t, HandleAttach(ctx, nil))
	if _, ok := msg.(ErrorMsg); !ok {
		t.Errorf("expected ErrorMsg for missing args, got %T", msg)
	}
}

func TestHandleDetach(t *testing.T) {
	ctx := NewContext(nil, nil, nil)

	msg := runCmd(t, HandleDetach(ctx, []string{"all"}))
	detach, ok := msg.(DetachMsg)
	if !ok || !detach.All {
		t.Errorf("expected DetachMsg{All: true}, got %#v", msg)
	}

	msg = runCmd(t, HandleDetach(ctx, []string{"2"}))
	detach = msg.(DetachMsg)
	if detach.All || detach.Index != 1 {
		t.Errorf("expected zero-based index 1, got %#v", detach)
	}

	msg = runCmd(t, HandleDetach(ctx, []string{"zero"}))
	if _, ok := msg.(ErrorMsg); !ok {
		t.Errorf("expected ErrorMsg for bad number, got %T", msg)
	}

	msg = runCmd(t, HandleDetach(ctx, []string{"0"}))
	if _, ok := msg.(ErrorMsg); !ok {
		t.Errorf("expected ErrorMsg for zero, got %T", msg)
	}
}

func TestHandleConfig(t *testing.T) {
	cfg := config.Default()
	ctx := NewContext(cfg, nil, nil)

	// No args: show everything
	msg := runCmd(t, HandleConfig(ctx, nil))
	if _, ok := msg.(ShowConfigMsg); !ok {
		t.Errorf("expected ShowConfigMsg, got %T", msg)
	}

	// Get a key
	msg = runCmd(t, HandleConfig(ctx, []string{"ui.theme"}))
	sys, ok := msg.(SystemMessageMsg)
	if !ok {
		t.Fatalf("expected SystemMessageMsg, got %T", msg)
	}
	if !containsStr(sys.Message, "dark") {
		t.Errorf("expected current theme in message, got %q", sys.Message)
	}

	// Get unknown key
	msg = runCmd(t, HandleConfig(ctx, []string{"bogus.key"}))
	if _, ok := msg.(ErrorMsg); !ok {
		t.Errorf("expected ErrorMsg for unknown key, got %T", msg)
	}

	// Set a key
	msg = runCmd(t, HandleConfig(ctx, []string{"ui.theme", "light"}))
	updated, ok := msg.(ConfigUpdatedMsg)
	if !ok {
		t.Fatalf("expected ConfigUpdatedMsg, got %T", msg)
	}
	if updated.Key != "ui.theme" || updated.Value != "light" {
		t.Errorf("got (%q, %q), want (ui.theme, light)", updated.Key, updated.Value)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("config not updated, theme = %q", cfg.UI.Theme)
	}

	// Nil config
	msg = runCmd(t, HandleConfig(NewContext(nil, nil, nil), nil))
	if _, ok := msg.(ErrorMsg); !ok {
		t.Errorf("expected ErrorMsg with nil config, got %T", msg)
	}
}

func TestHandleTheme(t *testing.T) {
	cfg := config.Default()
	ctx := NewContext(cfg, nil, nil)

	// No args: show current
	msg := runCmd(t, HandleTheme(ctx, nil))
	sys, ok := msg.(SystemMessageMsg)
	if !ok {
		t.Fatalf("expected SystemMessageMsg, got %T", msg)
	}
	if !containsStr(sys.Message, "dark") {
		t.Errorf("expected current theme in message, got %q", sys.Message)
	}

	// Valid theme
	msg = runCmd(t, HandleTheme(ctx, []string{"LIGHT"}))
	changed, ok := msg.(ThemeChangedMsg)
	if !ok {
		t.Fatalf("expected ThemeChangedMsg, got %T", msg)
	}
	if changed.Theme != "light" {
		t.Errorf("Theme = %q, want light (lowercased)", changed.Theme)
	}

	// Invalid theme
	msg = runCmd(t, HandleTheme(ctx, []string{"solarized"}))
	if _, ok := msg.(ErrorMsg); !ok {
		t.Errorf("expected ErrorMsg for unknown theme, got %T", msg)
	}
}

func TestHandleAgent(t *testing.T) {
	cfg := config.Default()
	ctx := NewContext(cfg, nil, nil)

	// No args: show current
	msg := runCmd(t, HandleAgent(ctx, nil))
	if _, ok := msg.(SystemMessageMsg); !ok {
		t.Errorf("expected SystemMessageMsg, got %T", msg)
	}

	// Multi-word rename joins the args
	msg = runCmd(t, HandleAgent(ctx, []string{"Ops", "Copilot"}))
	rename, ok := msg.(AgentRenameMsg)
	if !ok {
		t.Fatalf("expected AgentRenameMsg, got %T", msg)
	}
	if rename.Name != "Ops Copilot" {
		t.Errorf("Name = %q, want Ops Copilot", rename.Name)
	}
}

// =============================================================================
// HELP AND STATUS TEXT TESTS
// =============================================================================

func TestGenerateHelpText_Quick(t *testing.T) {
	r := NewRegistry()
	text := GenerateHelpText(r, "")

	for _, want := range []string{"/help", "/connect", "/attach", "/quit"} {
		if !containsStr(text, want) {
			t.Errorf("quick help should mention %s", want)
		}
	}
}

func TestGenerateHelpText_Full(t *testing.T) {
	r := NewRegistry()
	text := GenerateHelpText(r, "all")

	for _, want := range []string{"Navigation:", "Conversation:", "Connection:", "Attachments:", "Settings:", "Keyboard:"} {
		if !containsStr(text, want) {
			t.Errorf("full help should contain section %q", want)
		}
	}
}

func TestGenerateHelpText_Category(t *testing.T) {
	r := NewRegistry()
	text := GenerateHelpText(r, "attachments")

	if !containsStr(text, "/attach") {
		t.Error("category help should list /attach")
	}
	if containsStr(text, "/quit") {
		t.Error("category help should not list commands from other categories")
	}
}

func TestGenerateHelpText_Unknown(t *testing.T) {
	r := NewRegistry()
	text := GenerateHelpText(r, "nope")

	if !containsStr(text, "Unknown help topic") {
		t.Errorf("expected unknown topic message, got %q", text)
	}
}

func TestGenerateStatusText(t *testing.T) {
	info := StatusInfoMsg{
		SessionID: "sess-1",
		ServerURL: "ws://localhost:8000",
		AgentName: "Agent",
		Theme:     "dark",
		Connected: true,
		Stats: session.Stats{
			FramesIn:  10,
			FramesOut: 3,
			Deltas:    7,
		},
	}

	text := GenerateStatusText(info)

	for _, want := range []string{"sess-1", "ws://localhost:8000", "connected", "10 in / 3 out"} {
		if !containsStr(text, want) {
			t.Errorf("status text should contain %q, got:\n%s", want, text)
		}
	}
}

// =============================================================================
// COMMAND DEFINITION TESTS
// =============================================================================

func TestCommand_Fields(t *testing.T) {
	cmd := &Command{
		Name:        "/test",
		Aliases:     []string{"/t", "/tst"},
		Description: "Test command",
		Usage:       "/test <arg>",
		Category:    "Testing",
		Hidden:      false,
		Args: []ArgDef{
			{Name: "arg", Required: true, Type: ArgTypeString, Description: "Test argument"},
		},
	}

	if cmd.Name != "/test" {
		t.Error("Command.Name not set correctly")
	}

	if len(cmd.Aliases) != 2 {
		t.Error("Command.Aliases not set correctly")
	}

	if cmd.Category != "Testing" {
		t.Error("Command.Category not set correctly")
	}

	if len(cmd.Args) != 1 {
		t.Error("Command.Args not set correctly")
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

func containsStr(haystack, needle string) bool {
	return len(haystack) >= len(needle) && (haystack == needle ||
		len(haystack) > len(needle) && (haystack[:len(needle)] == needle ||
		containsStr(haystack[1:], needle)))
}
