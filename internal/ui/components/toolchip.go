// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the uplink TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/uplink-tui/internal/ui/styles"
	"github.com/jeranaias/uplink-tui/internal/util"
)

// =============================================================================
// TOOL CHIP VIEW
// =============================================================================

// ToolChipView displays one tool invocation reported by the agent.
// The chip starts in the running state when the tool is announced and
// flips to done once the result arrives.
type ToolChipView struct {
	// Tool information
	id     string
	name   string
	result string
	done   bool

	// UI state
	expanded     bool
	maxCollapsed int // Max lines when collapsed (default: 3)
	maxExpanded  int // Max lines when expanded (default: 50)
	width        int

	// Styles
	theme *styles.Theme
}

// NewToolChipView creates a new tool chip view.
func NewToolChipView(theme *styles.Theme) *ToolChipView {
	return &ToolChipView{
		theme:        theme,
		maxCollapsed: 3,
		maxExpanded:  50,
	}
}

// =============================================================================
// TOOL CHIP VIEW METHODS
// =============================================================================

// SetRunning marks the chip as a tool that has started but not finished.
func (v *ToolChipView) SetRunning(id, name string) {
	v.id = id
	v.name = name
	v.result = ""
	v.done = false
	v.expanded = false
}

// MarkDone records the tool result and flips the chip to the done state.
func (v *ToolChipView) MarkDone(result string) {
	v.result = result
	v.done = true
}

// ID returns the tool invocation id.
func (v *ToolChipView) ID() string {
	return v.id
}

// IsDone returns whether the result has arrived.
func (v *ToolChipView) IsDone() bool {
	return v.done
}

// SetWidth sets the display width.
func (v *ToolChipView) SetWidth(width int) {
	v.width = width
}

// Toggle expands or collapses the result.
func (v *ToolChipView) Toggle() {
	v.expanded = !v.expanded
}

// IsExpanded returns whether the result is expanded.
func (v *ToolChipView) IsExpanded() bool {
	return v.expanded
}

// SetExpanded sets the expanded state.
func (v *ToolChipView) SetExpanded(expanded bool) {
	v.expanded = expanded
}

// =============================================================================
// VIEW RENDERING
// =============================================================================

// View renders the tool chip.
func (v *ToolChipView) View() string {
	if v.name == "" {
		return ""
	}

	if v.expanded {
		return v.renderExpanded()
	}
	return v.renderCollapsed()
}

// renderCollapsed renders the collapsed view.
func (v *ToolChipView) renderCollapsed() string {
	var builder strings.Builder

	// ACCESSIBILITY: Status icon with shape indicator for colorblind users
	var icon string
	var iconStyle lipgloss.Style

	if v.done {
		// ACCESSIBILITY: Checkmark symbol + high contrast green
		icon = styles.StatusIndicators.Success
		iconStyle = lipgloss.NewStyle().Foreground(styles.SuccessHighContrast).Bold(true)
	} else {
		// ACCESSIBILITY: Active marker + amber while the tool runs
		icon = styles.StatusIndicators.Active
		iconStyle = lipgloss.NewStyle().Foreground(styles.Amber).Bold(true)
	}

	builder.WriteString(iconStyle.Render(icon))
	builder.WriteString(" ")

	// Tool name
	nameStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	builder.WriteString(nameStyle.Render(v.name))

	// Summary info
	infoStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted)

	summary := v.buildSummary()
	if summary != "" {
		builder.WriteString(infoStyle.Render(" (" + summary + ")"))
	}

	// Expand indicator if there's content
	if v.hasContent() {
		expandStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted)
		builder.WriteString(expandStyle.Render(" [+]"))
	}

	// Show first few lines of the result
	content := v.getContentPreview()
	if content != "" {
		builder.WriteString("\n")

		contentStyle := lipgloss.NewStyle().
			Foreground(styles.TextSecondary).
			PaddingLeft(2)

		builder.WriteString(contentStyle.Render(content))
	}

	// ACCESSIBILITY: Apply border style with high contrast colors
	borderColor := styles.Amber
	if v.done {
		borderColor = styles.SuccessHighContrast
	}

	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(borderColor).
		BorderLeft(true).
		PaddingLeft(1)

	return boxStyle.Render(builder.String())
}

// renderExpanded renders the expanded view.
func (v *ToolChipView) renderExpanded() string {
	var builder strings.Builder

	// ACCESSIBILITY: Header with tool name and status indicator for colorblind users
	var headerIcon string
	var borderColor lipgloss.AdaptiveColor

	if v.done {
		headerIcon = styles.StatusIndicators.Success
		borderColor = styles.SuccessHighContrast
	} else {
		headerIcon = styles.StatusIndicators.Active
		borderColor = styles.Amber
	}

	headerStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	iconStyle := lipgloss.NewStyle().Bold(true)
	if v.done {
		iconStyle = iconStyle.Foreground(styles.SuccessHighContrast)
	} else {
		iconStyle = iconStyle.Foreground(styles.Amber)
	}

	builder.WriteString(iconStyle.Render(headerIcon))
	builder.WriteString(" ")
	builder.WriteString(headerStyle.Render(v.name))

	// Collapse indicator
	collapseStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted)
	builder.WriteString(collapseStyle.Render(" [-]"))

	builder.WriteString("\n")

	// Separator
	sepStyle := lipgloss.NewStyle().
		Foreground(styles.Overlay)

	width := v.width - 6
	if width < 20 {
		width = 60
	}

	builder.WriteString(sepStyle.Render(strings.Repeat("-", width)))
	builder.WriteString("\n")

	// Content
	if v.done {
		content := v.result
		lines := strings.Split(content, "\n")

		// Limit lines
		if len(lines) > v.maxExpanded {
			lines = lines[:v.maxExpanded]
			lines = append(lines, "... ("+util.IntToString(len(strings.Split(content, "\n"))-v.maxExpanded)+" more lines)")
		}

		contentStyle := lipgloss.NewStyle().
			Foreground(styles.TextPrimary)

		builder.WriteString(contentStyle.Render(strings.Join(lines, "\n")))
	} else {
		runningStyle := lipgloss.NewStyle().
			Foreground(styles.Amber).
			Italic(true)

		builder.WriteString(runningStyle.Render("running..."))
	}

	// Box with colored border
	boxStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1)

	if v.width > 0 {
		boxStyle = boxStyle.Width(v.width - 2)
	}

	return boxStyle.Render(builder.String())
}

// =============================================================================
// HELPER METHODS
// =============================================================================

// buildSummary creates a summary string for the chip.
func (v *ToolChipView) buildSummary() string {
	if !v.done {
		return "running"
	}

	var parts []string

	// Lines count
	if lines := strings.Count(v.result, "\n") + 1; v.result != "" && lines > 1 {
		parts = append(parts, util.IntToString(lines)+" lines")
	}

	// Result size
	if v.result != "" {
		parts = append(parts, util.FormatBytes(int64(len(v.result))))
	}

	return strings.Join(parts, ", ")
}

// hasContent returns true if there's content to show.
func (v *ToolChipView) hasContent() bool {
	return v.result != ""
}

// getContentPreview returns a preview of the result.
func (v *ToolChipView) getContentPreview() string {
	if !v.done || v.result == "" {
		return ""
	}

	lines := strings.Split(v.result, "\n")
	if len(lines) > v.maxCollapsed {
		lines = lines[:v.maxCollapsed]
		remaining := len(strings.Split(v.result, "\n")) - v.maxCollapsed
		lines = append(lines, "... ("+util.IntToString(remaining)+" more lines)")
	}

	return strings.Join(lines, "\n")
}

// =============================================================================
// TOOL CHIP LIST
// =============================================================================

// ToolChipList manages the chips for one conversation turn.
type ToolChipList struct {
	chips []*ToolChipView
	theme *styles.Theme
	width int
}

// NewToolChipList creates a new tool chip list.
func NewToolChipList(theme *styles.Theme) *ToolChipList {
	return &ToolChipList{
		theme: theme,
		chips: make([]*ToolChipView, 0),
	}
}

// AddRunning appends a chip for a tool that just started.
func (l *ToolChipList) AddRunning(id, name string) {
	view := NewToolChipView(l.theme)
	view.SetRunning(id, name)
	view.SetWidth(l.width)
	l.chips = append(l.chips, view)
}

// MarkDone completes the most recent unfinished chip with the given id.
func (l *ToolChipList) MarkDone(id, result string) {
	for i := len(l.chips) - 1; i >= 0; i-- {
		if l.chips[i].ID() == id && !l.chips[i].IsDone() {
			l.chips[i].MarkDone(result)
			return
		}
	}
}

// SetWidth sets the width for all chips.
func (l *ToolChipList) SetWidth(width int) {
	l.width = width
	for _, c := range l.chips {
		c.SetWidth(width)
	}
}

// Clear removes all chips.
func (l *ToolChipList) Clear() {
	l.chips = make([]*ToolChipView, 0)
}

// Count returns the number of chips.
func (l *ToolChipList) Count() int {
	return len(l.chips)
}

// RunningCount returns how many chips are still waiting on results.
func (l *ToolChipList) RunningCount() int {
	count := 0
	for _, c := range l.chips {
		if !c.IsDone() {
			count++
		}
	}
	return count
}

// ToggleAt toggles the chip at the given index.
func (l *ToolChipList) ToggleAt(index int) {
	if index >= 0 && index < len(l.chips) {
		l.chips[index].Toggle()
	}
}

// View renders all chips.
func (l *ToolChipList) View() string {
	if len(l.chips) == 0 {
		return ""
	}

	var views []string
	for _, c := range l.chips {
		views = append(views, c.View())
	}

	return strings.Join(views, "\n")
}
