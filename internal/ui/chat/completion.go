// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// TAB COMPLETION HANDLERS
// =============================================================================

// handleTabCompletion handles Tab key press for completion.
// First Tab: compute candidates and show the popup
// Subsequent Tabs: cycle through the candidates
func (m Model) handleTabCompletion() (tea.Model, tea.Cmd) {
	// Already showing: cycle to the next candidate
	if m.showCompletions && m.completionState.Visible {
		m.completionState.Next()
		m.applySelected()
		return m, textinput.Blink
	}

	input := m.input.Value()
	completions := m.completer.Complete(input, m.input.Position())
	if len(completions) == 0 {
		return m, nil
	}

	m.completionState.Update(input, completions)
	m.showCompletions = true
	m.applySelected()

	// A single candidate needs no popup
	if len(completions) == 1 {
		m.clearCompletions()
	}

	return m, textinput.Blink
}

// acceptCompletion confirms the highlighted candidate and dismisses the
// popup. Called on Enter while the popup is visible.
func (m Model) acceptCompletion() (tea.Model, tea.Cmd) {
	m.applySelected()
	m.clearCompletions()
	return m, textinput.Blink
}

// applySelected writes the highlighted candidate into the input field.
// Cycling always splices against the input captured at the first Tab so
// candidates containing spaces do not compound across cycles.
func (m *Model) applySelected() {
	selected := m.completionState.GetSelected()
	if selected == nil {
		return
	}
	value := selected.Value

	input := m.completionState.OriginalInput
	start := findCompletionStart(input, len(input))
	newInput := input[:start] + value

	// A completed command that takes arguments gets a trailing space so
	// the user can keep typing
	if strings.HasPrefix(value, "/") && !strings.HasSuffix(value, " ") {
		if cmd := m.completer.GetCommand(value); cmd != nil && len(cmd.Args) > 0 {
			newInput += " "
		}
	}

	m.input.SetValue(newInput)
	m.input.CursorEnd()
}

// findCompletionStart finds the start position of the word being completed.
func findCompletionStart(input string, cursorPos int) int {
	if cursorPos > len(input) {
		cursorPos = len(input)
	}

	// Completing the command name itself: splice from the slash
	trimmed := strings.TrimSpace(input[:cursorPos])
	if strings.HasPrefix(trimmed, "/") {
		for i := cursorPos - 1; i >= 0; i-- {
			if input[i] == '/' {
				return i
			}
			if input[i] == ' ' {
				// Space before the slash, we are completing an argument
				break
			}
		}
	}

	// Default: splice from the last space
	for i := cursorPos - 1; i >= 0; i-- {
		if input[i] == ' ' {
			return i + 1
		}
	}

	return 0
}

// clearCompletions clears the completion state.
func (m *Model) clearCompletions() {
	m.showCompletions = false
	if m.completionState != nil {
		m.completionState.Clear()
	}
}
