// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the uplink command-line interface.
//
// The package parses arguments, dispatches to command handlers, and
// provides the shared plumbing every handler needs: styles, terminal
// detection, error types, and exit-code mapping.
//
// Commands:
//
//	uplink           Start the full-screen TUI (default)
//	uplink ask       One-shot question, streamed to stdout
//	uplink chat      Line-oriented REPL
//	uplink serve     Run the built-in demo agent server
//	uplink health    Probe the backend /health endpoint
//	uplink config    Show and edit configuration
//	uplink version   Version information
//	uplink help      Usage text
//
// Handlers return errors; the Handle* wrappers in cli.go display them and
// exit with the code from GetExitCode.
package cli
