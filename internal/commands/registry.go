// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
package commands

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/uplink-tui/internal/config"
	"github.com/jeranaias/uplink-tui/internal/session"
	"github.com/jeranaias/uplink-tui/internal/transport"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command represents a slash command that can be executed.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/attach <path>")
	Usage string

	// Args defines the expected arguments
	Args []ArgDef

	// Handler is the function that executes the command
	Handler func(ctx *Context, args []string) tea.Cmd

	// Hidden commands don't appear in help
	Hidden bool

	// Category for grouping in help display
	Category string
}

// ArgDef defines an argument for a command.
type ArgDef struct {
	// Name of the argument
	Name string

	// Required indicates if the argument must be provided
	Required bool

	// Type determines completion behavior
	Type ArgType

	// Description explains the argument
	Description string

	// Values for enum types
	Values []string

	// Completer for custom completion
	Completer func() []string
}

// ArgType indicates what kind of completion to provide.
type ArgType int

const (
	ArgTypeString ArgType = iota // Free-form string
	ArgTypeFile                  // File path
	ArgTypeEnum                  // One of predefined values
	ArgTypeConfig                // Config key
)

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]*Command
}

// NewRegistry creates a new command registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
		aliases:  make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command to the registry.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
	for _, alias := range cmd.Aliases {
		r.aliases[alias] = cmd
	}
}

// Get retrieves a command by name or alias.
func (r *Registry) Get(name string) *Command {
	if cmd, ok := r.commands[name]; ok {
		return cmd
	}
	if cmd, ok := r.aliases[name]; ok {
		return cmd
	}
	return nil
}

// All returns all registered commands.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	return cmds
}

// ByCategory returns commands grouped by category.
func (r *Registry) ByCategory() map[string][]*Command {
	result := make(map[string][]*Command)
	for _, cmd := range r.commands {
		if cmd.Hidden {
			continue
		}
		category := cmd.Category
		if category == "" {
			category = "General"
		}
		result[category] = append(result[category], cmd)
	}
	return result
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	// Navigation commands
	r.Register(&Command{
		Name:        "/help",
		Aliases:     []string{"/h", "/?"},
		Description: "Show help and available commands",
		Usage:       "/help [quick|all|<category>]",
		Args: []ArgDef{
			{
				Name:        "mode",
				Required:    false,
				Type:        ArgTypeEnum,
				Values:      []string{"quick", "all", "navigation", "conversation", "connection", "attachments", "settings"},
				Description: "Help mode or category",
			},
		},
		Category: "Navigation",
		Handler:  HandleHelp,
	})

	r.Register(&Command{
		Name:        "/quit",
		Aliases:     []string{"/q", "/exit"},
		Description: "Exit uplink",
		Category:    "Navigation",
		Handler:     HandleQuit,
	})

	// Conversation commands
	r.Register(&Command{
		Name:        "/new",
		Aliases:     []string{"/n"},
		Description: "Start a fresh session with the agent",
		Category:    "Conversation",
		Handler:     HandleNew,
	})

	r.Register(&Command{
		Name:        "/clear",
		Aliases:     []string{"/c"},
		Description: "Clear the conversation on both sides",
		Category:    "Conversation",
		Handler:     HandleClear,
	})

	r.Register(&Command{
		Name:        "/copy",
		Description: "Copy last agent response to clipboard",
		Category:    "Conversation",
		Handler:     HandleCopy,
	})

	r.Register(&Command{
		Name:        "/export",
		Description: "Export transcript to file",
		Usage:       "/export [format] [path]",
		Args: []ArgDef{
			{Name: "format", Required: false, Type: ArgTypeEnum, Values: []string{"markdown", "md", "json", "html"}, Description: "Export format"},
			{Name: "path", Required: false, Type: ArgTypeFile, Description: "Output path (default: current directory)"},
		},
		Category: "Conversation",
		Handler:  HandleExport,
	})

	// Connection commands
	r.Register(&Command{
		Name:        "/connect",
		Description: "Connect to the agent backend",
		Usage:       "/connect [url]",
		Args: []ArgDef{
			{Name: "url", Required: false, Type: ArgTypeString, Description: "Server URL (default: configured server)"},
		},
		Category: "Connection",
		Handler:  HandleConnect,
	})

	r.Register(&Command{
		Name:        "/disconnect",
		Description: "Close the connection to the agent backend",
		Category:    "Connection",
		Handler:     HandleDisconnect,
	})

	r.Register(&Command{
		Name:        "/health",
		Description: "Probe the agent backend health endpoint",
		Category:    "Connection",
		Handler:     HandleHealth,
	})

	r.Register(&Command{
		Name:        "/status",
		Description: "Show session and connection status",
		Category:    "Connection",
		Handler:     HandleStatus,
	})

	// Attachment commands
	r.Register(&Command{
		Name:        "/attach",
		Aliases:     []string{"/a"},
		Description: "Attach an image or video to the next message",
		Usage:       "/attach <path>",
		Args: []ArgDef{
			{Name: "path", Required: true, Type: ArgTypeFile, Description: "Path to the media file"},
		},
		Category: "Attachments",
		Handler:  HandleAttach,
	})

	r.Register(&Command{
		Name:        "/attachments",
		Description: "List pending attachments",
		Category:    "Attachments",
		Handler:     HandleAttachments,
	})

	r.Register(&Command{
		Name:        "/detach",
		Description: "Remove a pending attachment",
		Usage:       "/detach <number|all>",
		Args: []ArgDef{
			{Name: "which", Required: true, Type: ArgTypeString, Description: "Attachment number from /attachments, or 'all'"},
		},
		Category: "Attachments",
		Handler:  HandleDetach,
	})

	// Settings commands
	r.Register(&Command{
		Name:        "/config",
		Description: "Show or edit configuration",
		Usage:       "/config [key] [value]",
		Args: []ArgDef{
			{Name: "key", Required: false, Type: ArgTypeConfig, Description: "Config key to show/set"},
			{Name: "value", Required: false, Type: ArgTypeString, Description: "New value"},
		},
		Category: "Settings",
		Handler:  HandleConfig,
	})

	r.Register(&Command{
		Name:        "/theme",
		Description: "Change color theme",
		Usage:       "/theme [dark|light|auto]",
		Args: []ArgDef{
			{Name: "name", Required: false, Type: ArgTypeEnum, Values: []string{"dark", "light", "auto"}, Description: "Theme name"},
		},
		Category: "Settings",
		Handler:  HandleTheme,
	})

	r.Register(&Command{
		Name:        "/agent",
		Description: "Show or change the agent display name",
		Usage:       "/agent [name]",
		Args: []ArgDef{
			{Name: "name", Required: false, Type: ArgTypeString, Description: "New display name"},
		},
		Category: "Settings",
		Handler:  HandleAgent,
	})
}

// =============================================================================
// CONTEXT TYPE
// =============================================================================

// Context provides access to application state for command handlers.
// It follows the dependency injection pattern, allowing handlers to access
// services without direct coupling to the application structure.
//
// All fields are optional and may be nil - handlers should check before use.
//
// Example usage in a handler:
//
//	func HandleStatus(ctx *Context, args []string) tea.Cmd {
//	    if ctx.Tracker != nil {
//	        st := ctx.Tracker.Snapshot()
//	        // ...
//	    }
//	}
type Context struct {
	// Config provides access to application configuration
	Config *config.Config

	// Transport is the active socket session (nil when disconnected)
	Transport *transport.Session

	// Tracker records activity for the current session
	Tracker *session.Tracker

	// HandlerCtx provides additional runtime context
	HandlerCtx *HandlerContext
}

// NewContext creates a new command context with the given dependencies.
// All parameters are optional and can be nil.
func NewContext(cfg *config.Config, sess *transport.Session, trk *session.Tracker) *Context {
	return &Context{
		Config:    cfg,
		Transport: sess,
		Tracker:   trk,
	}
}

// WithHandlerContext attaches a HandlerContext to the Context.
func (c *Context) WithHandlerContext(hctx *HandlerContext) *Context {
	c.HandlerCtx = hctx
	return c
}

// Touch records user activity on the session tracker if available.
func (c *Context) Touch() {
	if c.Tracker != nil {
		c.Tracker.Touch()
	}
}

// =============================================================================
// COMPLETION TYPE
// =============================================================================

// Completion represents a completion suggestion.
type Completion struct {
	// Value to insert
	Value string

	// Display text (may include formatting)
	Display string

	// Description shown alongside
	Description string

	// Score for ranking (higher = better match)
	Score int

	// IsCurrent indicates this is the current selection
	IsCurrent bool
}
