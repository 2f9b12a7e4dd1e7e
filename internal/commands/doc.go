// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
//
// This package handles parsing and executing slash commands in the chat
// interface, providing autocomplete and command registration. Handlers
// never mutate UI state directly; they return bubbletea commands that
// produce messages for the application to act on.
//
// # Key Types
//
//   - Registry: Command registry with all available commands
//   - Context: Dependency container handed to handlers
//   - ParseResult: Parsed command with name and arguments
//   - Completer: Tab completion for commands and arguments
//
// # Built-in Commands
//
//   - /help: Show available commands
//   - /connect: Connect to the agent backend
//   - /clear: Clear the conversation on both sides
//   - /attach: Stage an image or video for the next message
//   - /export: Export the transcript
//   - /status: Show session and connection status
//
// # Usage
//
// Parse and execute a command:
//
//	parser := commands.NewParser(registry)
//	result := parser.Parse(input)
//	if result.IsCommand {
//	    cmd := registry.Get(result.Command)
//	    return cmd.Handler(ctx, result.Args)
//	}
//
// Get completions:
//
//	completions := completer.Complete("/at", 3)
//	// Returns /attach and /attachments
package commands
