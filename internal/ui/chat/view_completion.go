// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"github.com/jeranaias/uplink-tui/internal/ui/components"
)

// =============================================================================
// COMPLETION POPUP RENDERING
// =============================================================================

// renderCompletionPopup renders the tab completion popup. renderChat stacks
// it directly above the input area. Returns "" when nothing is on offer.
func (m Model) renderCompletionPopup() string {
	if !m.showCompletions || m.completionState == nil || !m.completionState.Visible {
		return ""
	}

	completions := m.completionState.Completions
	if len(completions) == 0 {
		return ""
	}

	popup := components.NewCompletionPopup(m.theme)
	popup.SetWidth(minInt(60, m.width-4))
	popup.SetMaxVisible(8)
	popup.SetCompletions(completions)
	popup.SetSelected(m.completionState.Selected)

	return popup.View()
}

// minInt returns the minimum of two integers.
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
