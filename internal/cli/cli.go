// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for uplink.
package cli

import (
	"fmt"
	"os"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdServe
	CmdHealth
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Server  string // --server URL override
	Quiet   bool
	Verbose bool
	JSON    bool
	NoColor bool

	// Command-specific
	Query      string   // ask: the question text
	Files      []string // ask/chat: attachment paths
	Subcommand string   // config: show|get|set|path
	ConfigKey  string
	ConfigVal  string
	Addr       string  // serve: listen address override
	DeltaRate  float64 // serve: streaming pace override

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `uplink - terminal chat client for a hosted agent

Uplink connects your terminal to a remote LLM agent over a WebSocket and
renders the conversation as it streams: thinking indicator, text deltas,
tool-call chips, and media attachments.

Usage:
  uplink                      Start the TUI (default)
  uplink ask "question"       One-shot question, streamed to stdout
  uplink chat                 Line-oriented REPL (no TUI)
  uplink serve                Run the built-in demo agent server
  uplink health               Probe the backend /health endpoint
  uplink config [show|get|set|path]
                              Configuration management
  uplink version              Show version information
  uplink help                 Show this help

Ask Command:
  uplink ask "question"             Ask and stream the reply to stdout
    -f, --file PATH                 Attach an image or video (repeatable)
    --raw                           Skip markdown rendering even on a TTY
  Piped input is read as the question when no argument is given:
    git diff | uplink ask "review this change"

Chat Command:
  uplink chat                       Interactive REPL with input history
  In-session commands:
    /clear                          Wipe server-side conversation history
    /quit                           Exit (also Ctrl+D)

Serve Command (development stub backend):
  uplink serve                      Listen on the configured address
    --addr HOST:PORT                Override the listen address
    --delta-rate N                  Streaming pace in deltas per second

Config Commands:
  uplink config show                Print the active configuration
  uplink config get <key>           Print one value (e.g. server.url)
  uplink config set <key> <value>   Persist one value
  uplink config path                Print the config file location

Global Flags:
  --server URL    Backend URL for this invocation (ws://, wss://, http://, https://)
  -q, --quiet     Minimal output
  -v, --verbose   Debug output
  --json          Machine-readable output where supported
  --no-color      Disable colored output (NO_COLOR is also honored)

Examples:
  uplink                                Start the TUI
  uplink --server wss://agent.example.com   TUI against a remote backend
  uplink ask "summarize the attached log" --file build.log
  uplink chat
  uplink serve --addr 0.0.0.0:8000
  uplink health --json
  uplink config set server.url ws://localhost:9000

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("uplink version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
	fmt.Printf("  Go version: %s\n", runtime.Version())
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given argument list. Split out from Parse for tests.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat":
		return CmdChat, parsedArgs

	case "serve", "server":
		parseServeArgs(&parsedArgs, remaining)
		return CmdServe, parsedArgs

	case "health", "ping":
		return CmdHealth, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown command. Suggest a correction when one is close,
		// otherwise treat the whole line as a TUI start.
		if suggestion := SuggestCommand(cmd); suggestion != "" {
			fmt.Fprintf(os.Stderr, "unknown command %q - did you mean %q?\n", cmd, suggestion)
			os.Exit(ExitUsageError)
		}
		parsedArgs.Raw = append([]string{cmd}, remaining...)
		return CmdTUI, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-q", "--quiet":
			parsedArgs.Quiet = true
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--no-color":
			parsedArgs.NoColor = true
		case "--server":
			if i+1 < len(args) {
				i++
				parsedArgs.Server = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--server=") {
				parsedArgs.Server = strings.TrimPrefix(arg, "--server=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseAskArgs parses ask command specific arguments.
func parseAskArgs(args *Args, remaining []string) {
	var query []string

	i := 0
	for i < len(remaining) {
		arg := remaining[i]

		switch arg {
		case "-f", "--file":
			if i+1 < len(remaining) {
				i++
				args.Files = append(args.Files, remaining[i])
			}
		case "--raw":
			// Stored as a subcommand flag; ask.go checks it.
			args.Subcommand = "raw"
		default:
			if strings.HasPrefix(arg, "--file=") {
				args.Files = append(args.Files, strings.TrimPrefix(arg, "--file="))
			} else if !strings.HasPrefix(arg, "-") {
				query = append(query, arg)
			}
		}
		i++
	}

	args.Query = strings.Join(query, " ")
}

// parseServeArgs parses serve command specific arguments.
func parseServeArgs(args *Args, remaining []string) {
	parser := NewArgParser(remaining)
	args.Addr = parser.Flag("addr")
	if rate := parser.Flag("delta-rate"); rate != "" {
		if v, err := parseFloat(rate); err == nil && v > 0 {
			args.DeltaRate = v
		}
	}
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = strings.Join(remaining[2:], " ")
		}
	}
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// HandleAsk handles the "ask" command.
func HandleAsk(args Args) {
	if err := HandleAskCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleChat handles the "chat" command.
func HandleChat(args Args) {
	if err := HandleChatCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleServe handles the "serve" command.
func HandleServe(args Args) {
	if err := HandleServeCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleHealth handles the "health" command.
func HandleHealth(args Args) {
	if err := HandleHealthCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleConfig handles the "config" command.
func HandleConfig(args Args) {
	if err := HandleConfigCommand(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(GetExitCode(err))
	}
}

// HandleVersion handles the "version" command.
func HandleVersion(args Args) {
	if args.JSON {
		fmt.Printf("{\"version\":%q,\"git_commit\":%q,\"build_date\":%q,\"go_version\":%q}\n",
			Version, GitCommit, BuildDate, runtime.Version())
		return
	}
	PrintVersion()
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}
