// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for uplink TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeranaias/uplink-tui/internal/commands"
	"github.com/jeranaias/uplink-tui/internal/ui/styles"
)

// =============================================================================
// COMPLETION POPUP COMPONENT
// =============================================================================

// CompletionPopup displays a popup with completion suggestions.
type CompletionPopup struct {
	completions []commands.Completion
	selected    int
	maxVisible  int
	width       int
	theme       *styles.Theme
}

// NewCompletionPopup creates a new completion popup.
func NewCompletionPopup(theme *styles.Theme) *CompletionPopup {
	return &CompletionPopup{
		completions: nil,
		selected:    0,
		maxVisible:  8, // Show up to 8 completions at once
		width:       50,
		theme:       theme,
	}
}

// SetCompletions sets the completions to display. The popup is
// render-only: cursor movement lives in commands.CompletionState and the
// chat view rebuilds the popup each frame from that state.
func (c *CompletionPopup) SetCompletions(completions []commands.Completion) {
	c.completions = completions
	c.selected = 0
}

// SetSelected sets the highlighted index.
func (c *CompletionPopup) SetSelected(index int) {
	if index < 0 || index >= len(c.completions) {
		return
	}
	c.selected = index
}

// SetWidth sets the popup width.
func (c *CompletionPopup) SetWidth(width int) {
	c.width = width
}

// SetMaxVisible sets the maximum number of visible completions.
func (c *CompletionPopup) SetMaxVisible(max int) {
	c.maxVisible = max
}

// View renders the completion popup.
func (c *CompletionPopup) View() string {
	if len(c.completions) == 0 {
		return ""
	}

	// Calculate visible range (scrolling window)
	start := 0
	end := len(c.completions)

	if len(c.completions) > c.maxVisible {
		// Center the selected item in the window
		start = c.selected - c.maxVisible/2
		if start < 0 {
			start = 0
		}
		end = start + c.maxVisible
		if end > len(c.completions) {
			end = len(c.completions)
			start = end - c.maxVisible
			if start < 0 {
				start = 0
			}
		}
	}

	// Build completion items
	var items []string
	for i := start; i < end; i++ {
		items = append(items, c.renderCompletionItem(c.completions[i], i == c.selected))
	}

	// Build the popup box
	content := strings.Join(items, "\n")

	// Add preview/usage if enabled and there's a selected item
	// Box style
	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Cyan).
		Padding(0, 1).
		Width(c.width).
		MaxWidth(c.width)

	return boxStyle.Render(content)
}

// renderCompletionItem renders a single completion item.
func (c *CompletionPopup) renderCompletionItem(comp commands.Completion, isSelected bool) string {
	// Value (left aligned)
	valueStyle := lipgloss.NewStyle().
		Width(20).
		Foreground(styles.TextPrimary)

	// Description (right aligned)
	descStyle := lipgloss.NewStyle().
		Width(c.width - 24). // Account for padding and value width
		Foreground(styles.TextSecondary)

	if isSelected {
		// Highlight selected item
		valueStyle = valueStyle.
			Background(styles.Cyan).
			Foreground(styles.Surface).
			Bold(true)
		descStyle = descStyle.
			Foreground(styles.TextPrimary)
	}

	value := comp.Display
	if value == "" {
		value = comp.Value
	}

	// Truncate if needed
	valueRunes := []rune(value)
	if len(valueRunes) > 20 {
		value = string(valueRunes[:17]) + "..."
	}

	// Truncate description
	desc := comp.Description
	descRunes := []rune(desc)
	maxDescLen := c.width - 24
	if len(descRunes) > maxDescLen {
		desc = string(descRunes[:maxDescLen-3]) + "..."
	}

	// Indicator for selected item (ASCII)
	indicator := " "
	if isSelected {
		indicator = ">"
	}

	indicatorStyle := lipgloss.NewStyle().
		Width(2).
		Foreground(styles.Cyan)

	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		indicatorStyle.Render(indicator),
		valueStyle.Render(value),
		descStyle.Render(desc),
	)
}

