// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file defines keyboard bindings and shortcuts for the chat interface,
// along with help text generation for user reference. Unlike a modal editor
// the input field always has focus, so every binding is a chord or a
// function key that cannot collide with ordinary typing.
package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the chat interface.
// Each binding supports multiple keys and includes help text for documentation.
type KeyMap struct {
	Send        key.Binding
	HistoryPrev key.Binding
	HistoryNext key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Complete    key.Binding
	Dismiss     key.Binding
	Clear       key.Binding
	CopyLast    key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default key bindings for the chat interface.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send message"),
		),
		HistoryPrev: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("Up", "previous input"),
		),
		HistoryNext: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("Down", "next input"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("PgUp", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("PgDn", "scroll down"),
		),
		Top: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("Home", "go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("End", "go to bottom"),
		),
		Complete: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "complete command"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "dismiss popup"),
		),
		Clear: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("C-l", "clear conversation"),
		),
		CopyLast: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("C-y", "copy last reply"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("F1", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("C-c", "quit"),
		),
	}
}

// =============================================================================
// KEY BINDING HELPERS
// =============================================================================

// ShortHelp returns a slice of key bindings to show in the short help view.
// These are the most commonly used shortcuts.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.Complete, k.Help, k.Quit}
}

// FullHelp returns a slice of key bindings to show in the full help view.
// This is organized into groups for better readability.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		// Conversation
		{k.Send, k.Clear, k.CopyLast},
		// History and completion
		{k.HistoryPrev, k.HistoryNext, k.Complete, k.Dismiss},
		// Scrollback
		{k.PageUp, k.PageDown, k.Top, k.Bottom},
		// App
		{k.Help, k.Quit},
	}
}

// =============================================================================
// HELP TEXT DATA
// =============================================================================

// HelpContext represents the UI context for filtering help items.
// Follows lazygit's pattern of context-aware keybinding display.
type HelpContext string

const (
	// ContextInput is the default state - the input field has focus
	ContextInput HelpContext = "input"
	// ContextStreaming is when a turn is in flight
	ContextStreaming HelpContext = "streaming"
	// ContextCompletion is when the completion popup is visible
	ContextCompletion HelpContext = "completion"
	// ContextOffline is when the socket session has ended
	ContextOffline HelpContext = "offline"
)

// HelpCategory represents action type grouping for help display.
type HelpCategory string

const (
	CategoryConversation HelpCategory = "Conversation"
	CategoryScrollback   HelpCategory = "Scrollback"
	CategoryCompletion   HelpCategory = "Completion"
	CategoryGeneral      HelpCategory = "General"
)

// HelpItem represents a single help entry with key, description, and context.
// Context-aware help follows lazygit's pattern where only relevant keybindings
// are shown based on the current UI state.
type HelpItem struct {
	Key      string        // Key binding(s) displayed (e.g., "Enter", "C-l")
	Desc     string        // Human-readable description
	Contexts []HelpContext // Contexts where this binding is active
	Category HelpCategory  // Action type grouping for display
}

// GetHelpItems returns all help items for display in the help overlay.
func GetHelpItems() []HelpItem {
	all := []HelpContext{ContextInput, ContextStreaming, ContextCompletion, ContextOffline}
	inputOnly := []HelpContext{ContextInput}
	scroll := []HelpContext{ContextInput, ContextStreaming, ContextOffline}
	completionOnly := []HelpContext{ContextCompletion}
	liveOnly := []HelpContext{ContextInput, ContextStreaming}

	return []HelpItem{
		// Conversation
		{"Enter", "Send message", inputOnly, CategoryConversation},
		{"C-l", "Clear conversation on both sides", liveOnly, CategoryConversation},
		{"C-y", "Copy last completed reply", inputOnly, CategoryConversation},
		{"/command", "Run slash command (/help lists them)", inputOnly, CategoryConversation},

		// History and completion
		{"Up/Down", "Browse input history", inputOnly, CategoryGeneral},
		{"Tab", "Show or cycle completions", []HelpContext{ContextInput, ContextCompletion}, CategoryCompletion},
		{"Enter", "Accept selected completion", completionOnly, CategoryCompletion},
		{"Esc", "Dismiss completion popup", completionOnly, CategoryCompletion},

		// Scrollback
		{"PgUp/PgDn", "Scroll transcript", scroll, CategoryScrollback},
		{"Home/End", "Jump to top / bottom", scroll, CategoryScrollback},

		// App
		{"F1", "Toggle this help", all, CategoryGeneral},
		{"C-c", "Quit", all, CategoryGeneral},
	}
}

// GetHelpItemsForContext returns help items filtered for the given context.
// This is the primary method for context-sensitive help display, following
// lazygit's pattern where only currently-active keybindings are shown.
func GetHelpItemsForContext(ctx HelpContext) []HelpItem {
	all := GetHelpItems()
	var filtered []HelpItem

	for _, item := range all {
		for _, itemCtx := range item.Contexts {
			if itemCtx == ctx {
				filtered = append(filtered, item)
				break
			}
		}
	}

	return filtered
}

// GetHelpItemsByCategory returns help items grouped by category for the given context.
// Returns a map of category -> items for organized display.
func GetHelpItemsByCategory(ctx HelpContext) map[HelpCategory][]HelpItem {
	items := GetHelpItemsForContext(ctx)
	grouped := make(map[HelpCategory][]HelpItem)

	for _, item := range items {
		grouped[item.Category] = append(grouped[item.Category], item)
	}

	return grouped
}

// GetCategoryOrder returns the preferred display order for categories.
func GetCategoryOrder() []HelpCategory {
	return []HelpCategory{
		CategoryConversation,
		CategoryCompletion,
		CategoryScrollback,
		CategoryGeneral,
	}
}

// GetContextDisplayName returns a human-readable name for a context.
func GetContextDisplayName(ctx HelpContext) string {
	switch ctx {
	case ContextInput:
		return "Ready"
	case ContextStreaming:
		return "Turn in flight"
	case ContextCompletion:
		return "Completion"
	case ContextOffline:
		return "Offline"
	default:
		return string(ctx)
	}
}
