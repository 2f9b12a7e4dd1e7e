// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// COMMAND PARSING
// =============================================================================

func TestParseArgsCommands(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want Command
	}{
		{"no args defaults to TUI", nil, CmdTUI},
		{"explicit tui", []string{"tui"}, CmdTUI},
		{"ask", []string{"ask", "hello"}, CmdAsk},
		{"chat", []string{"chat"}, CmdChat},
		{"serve", []string{"serve"}, CmdServe},
		{"serve alias", []string{"server"}, CmdServe},
		{"health", []string{"health"}, CmdHealth},
		{"health alias", []string{"ping"}, CmdHealth},
		{"config", []string{"config", "show"}, CmdConfig},
		{"version", []string{"version"}, CmdVersion},
		{"version flag", []string{"--version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"help flag", []string{"-h"}, CmdHelp},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd, _ := ParseArgs(tc.argv)
			assert.Equal(t, tc.want, cmd)
		})
	}
}

func TestParseArgsGlobalFlags(t *testing.T) {
	cmd, args := ParseArgs([]string{"--server", "ws://example:9000", "-q", "--json", "ask", "hi"})

	assert.Equal(t, CmdAsk, cmd)
	assert.Equal(t, "ws://example:9000", args.Server)
	assert.True(t, args.Quiet)
	assert.True(t, args.JSON)
	assert.Equal(t, "hi", args.Query)
}

func TestParseArgsServerEquals(t *testing.T) {
	_, args := ParseArgs([]string{"--server=wss://agent.example.com", "health"})
	assert.Equal(t, "wss://agent.example.com", args.Server)
}

func TestParseAskArgs(t *testing.T) {
	t.Run("multi word query", func(t *testing.T) {
		_, args := ParseArgs([]string{"ask", "what", "time", "is", "it"})
		assert.Equal(t, "what time is it", args.Query)
	})

	t.Run("file attachments", func(t *testing.T) {
		_, args := ParseArgs([]string{"ask", "look", "--file", "a.png", "-f", "b.jpg"})
		assert.Equal(t, "look", args.Query)
		assert.Equal(t, []string{"a.png", "b.jpg"}, args.Files)
	})

	t.Run("file equals form", func(t *testing.T) {
		_, args := ParseArgs([]string{"ask", "see", "--file=shot.png"})
		assert.Equal(t, []string{"shot.png"}, args.Files)
	})

	t.Run("raw flag", func(t *testing.T) {
		_, args := ParseArgs([]string{"ask", "--raw", "dump"})
		assert.Equal(t, "raw", args.Subcommand)
		assert.Equal(t, "dump", args.Query)
	})
}

func TestParseServeArgs(t *testing.T) {
	_, args := ParseArgs([]string{"serve", "--addr", "0.0.0.0:8000", "--delta-rate", "80"})
	assert.Equal(t, "0.0.0.0:8000", args.Addr)
	assert.InDelta(t, 80.0, args.DeltaRate, 0.001)
}

func TestParseConfigArgs(t *testing.T) {
	_, args := ParseArgs([]string{"config", "set", "ui.theme", "light"})
	assert.Equal(t, "set", args.Subcommand)
	assert.Equal(t, "ui.theme", args.ConfigKey)
	assert.Equal(t, "light", args.ConfigVal)

	_, args = ParseArgs([]string{"config", "get", "server.url"})
	assert.Equal(t, "get", args.Subcommand)
	assert.Equal(t, "server.url", args.ConfigKey)
}

// =============================================================================
// ARG PARSER
// =============================================================================

func TestArgParser(t *testing.T) {
	p := NewArgParser([]string{"set", "server.url", "--addr", "localhost:9", "--json", "--rate=40"})

	assert.Equal(t, "set", p.Subcommand())
	assert.Equal(t, "server.url", p.Positional(1))
	assert.Equal(t, "", p.Positional(5))
	assert.Equal(t, "localhost:9", p.Flag("addr"))
	assert.Equal(t, "40", p.Flag("rate"))
	assert.True(t, p.BoolFlag("json"))
	assert.False(t, p.BoolFlag("missing"))
	assert.True(t, p.HasFlag("addr"))
	assert.Equal(t, "fallback", p.FlagOrDefault("nope", "fallback"))
	assert.Equal(t, []string{"server.url"}, p.PositionalFrom(1))
}

func TestArgParserExplicitBool(t *testing.T) {
	p := NewArgParser([]string{"--json=false", "--color=true"})
	assert.False(t, p.BoolFlag("json"))
	assert.True(t, p.BoolFlag("color"))
	assert.True(t, p.HasFlag("json"))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"true", "YES", "y", "1", "on"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"false", "No", "n", "0", "off"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

// =============================================================================
// SUGGESTIONS
// =============================================================================

func TestSuggestCommand(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"hepl", "help"},
		{"serv", "serve"},
		{"confg", "config"},
		{"versoin", "version"},
		{"halth", "health"},
		{"x", ""},           // too short
		{"zzzzzzzz", ""},    // nothing close
		{"summarize", ""},   // a prompt word, not a typo
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, SuggestCommand(tc.input))
		})
	}
}

func TestLevenshteinDistance(t *testing.T) {
	assert.Equal(t, 0, levenshteinDistance("chat", "chat"))
	assert.Equal(t, 1, levenshteinDistance("chat", "chap"))
	assert.Equal(t, 4, levenshteinDistance("", "chat"))
	assert.Equal(t, 3, levenshteinDistance("kitten", "sitting"))
}

// =============================================================================
// TEXT WRAPPING
// =============================================================================

func TestWrapText(t *testing.T) {
	t.Run("short line untouched", func(t *testing.T) {
		assert.Equal(t, "hello world", WrapText("hello world", 40))
	})

	t.Run("long line wraps on word boundaries", func(t *testing.T) {
		wrapped := WrapText("one two three four five six seven eight", 20)
		for _, line := range splitLines(wrapped) {
			assert.LessOrEqual(t, len(line), 20)
		}
	})

	t.Run("preserves existing newlines", func(t *testing.T) {
		assert.Equal(t, "a\nb", WrapText("a\nb", 40))
	})
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}

// =============================================================================
// EXIT CODES
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"validation", NewValidationError("key", "x", "bad"), ExitUsageError},
		{"not found", &NotFoundError{Resource: "config key", ID: "nope"}, ExitNotFoundError},
		{"config", errors.New("load config: broken"), ExitConfigError},
		{"network", errors.New("dial tcp: connection refused"), ExitNetworkError},
		{"timeout", errors.New("operation timed out"), ExitTimeoutError},
		{"generic", errors.New("boom"), ExitGeneralError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, GetExitCode(tc.err))
		})
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	inner := errors.New("socket closed")
	err := NewCommandError("ask", "receive", "connection lost", inner)

	require.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "ask receive failed")
}
