// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the uplink TUI.
package components

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/uplink-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN MODEL
// =============================================================================

// Welcome is the welcome screen component.
type Welcome struct {
	// Display info
	version   string
	serverURL string
	agentName string

	// Startup health probe result. healthKnown stays false until the
	// probe reports back, so the screen can show "probing...".
	healthKnown bool
	healthy     bool

	// Dimensions
	width  int
	height int

	// Theme
	theme *styles.Theme
}

// NewWelcome creates a new welcome screen.
func NewWelcome(theme *styles.Theme) Welcome {
	return Welcome{
		version:   "dev",
		serverURL: "ws://localhost:8000",
		agentName: "Agent",
		theme:     theme,
	}
}

// SetVersion sets the version string.
func (w *Welcome) SetVersion(version string) {
	w.version = version
}

// SetServerURL sets the server URL shown on the info panel.
func (w *Welcome) SetServerURL(url string) {
	w.serverURL = url
}

// SetAgentName sets the agent display name.
func (w *Welcome) SetAgentName(name string) {
	w.agentName = name
}

// SetHealth records the result of the startup health probe.
func (w *Welcome) SetHealth(ok bool) {
	w.healthKnown = true
	w.healthy = ok
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the welcome screen.
func (w Welcome) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (w Welcome) Update(msg tea.Msg) (Welcome, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		w.height = msg.Height
	}
	return w, nil
}

// View renders the welcome screen.
// Responsive: adapts to terminal size, minimum 80x24 supported.
func (w Welcome) View() string {
	width := w.width
	if width == 0 {
		width = 80
	}
	height := w.height
	if height == 0 {
		height = 24
	}

	// Calculate box width - responsive to terminal width
	boxWidth := 62
	if width < 70 {
		boxWidth = width - 8
	}
	if boxWidth < 40 {
		boxWidth = 40
	}
	if boxWidth > width-4 {
		boxWidth = width - 4
	}

	// Adjust padding for narrow terminals
	horizontalPadding := 4
	verticalPadding := 1
	if width < 70 {
		horizontalPadding = 2
	}

	// Box overhead: 2 (border top/bottom) + 2*verticalPadding
	boxOverhead := 2 + 2*verticalPadding

	// Available lines for content inside the box
	availableContentLines := height - boxOverhead

	// Build the content based on available space
	// Logo: 6 lines (without leading newline)
	// Version: 1 line
	// System info: 3 lines (Server, Agent, Status)
	// Press key: 1 line
	// Spacing between sections: 1 line each (use single newlines when tight)

	var content string
	var contentLines int

	if availableContentLines >= 18 {
		// Full layout with double newlines
		content = w.renderLogo()
		content += "\n\n" + w.renderVersion()
		content += "\n\n" + w.renderSystemInfo()
		content += "\n\n" + w.renderPressKey()
		contentLines = 6 + 2 + 1 + 2 + 3 + 2 + 1 // 17
	} else if availableContentLines >= 14 {
		// Compact: single newlines between sections
		content = w.renderLogo()
		content += "\n" + w.renderVersion()
		content += "\n" + w.renderSystemInfo()
		content += "\n" + w.renderPressKey()
		contentLines = 6 + 1 + 1 + 1 + 3 + 1 + 1 // 14
	} else if availableContentLines >= 10 {
		// Very compact: use compact logo, minimal spacing
		content = w.renderLogoCompact()
		content += "\n" + w.renderVersion()
		content += "\n" + w.renderSystemInfo()
		content += "\n" + w.renderPressKey()
		contentLines = 3 + 1 + 1 + 1 + 3 + 1 + 1 // 11
	} else {
		// Ultra compact: minimal content
		content = w.renderLogoCompact()
		content += "\n" + w.renderSystemInfoCompact()
		content += "\n" + w.renderPressKey()
		contentLines = 3 + 1 + 1 + 1 + 1 // 7
	}

	// If still too tight, remove vertical padding
	if contentLines+boxOverhead > height {
		verticalPadding = 0
		boxOverhead = 2
	}

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.Purple).
		Padding(verticalPadding, horizontalPadding).
		Width(boxWidth).
		Align(lipgloss.Center).
		Render(content)

	boxHeight := lipgloss.Height(box)

	// Don't center if the box is taller than the terminal - align to top
	// so the logo stays visible and overflow happens at the bottom.
	if boxHeight >= height {
		return lipgloss.Place(
			width, height,
			lipgloss.Center, lipgloss.Top,
			box,
		)
	}

	return lipgloss.Place(
		width, height,
		lipgloss.Center, lipgloss.Center,
		box,
	)
}

// =============================================================================
// RENDER HELPERS
// =============================================================================

// renderLogo renders the ASCII art logo (6 lines).
// Responsive: uses compact or simple logo for narrow terminals.
func (w Welcome) renderLogo() string {
	logoStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	// Full ASCII art is ~40 chars wide, needs ~44 with box padding
	if w.width >= 60 {
		// Full ASCII art logo - 6 lines using pure ASCII characters
		logo := ` _   _  ____   _      ___  _   _  _  __
| | | ||  _ \ | |    |_ _|| \ | || |/ /
| | | || |_) || |     | | |  \| || ' /
| |_| ||  __/ | |___  | | | |\  || . \
 \___/ |_|    |_____||___||_| \_||_|\_\
                                       `
		return logoStyle.Render(logo)
	}

	// For narrow terminals, use compact logo
	return w.renderLogoCompact()
}

// renderLogoCompact renders a compact text-based logo (3 lines).
func (w Welcome) renderLogoCompact() string {
	logoStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	if w.width >= 40 {
		// Compact box logo for narrow terminals - 3 lines
		// Uses standard ASCII box drawing for maximum compatibility
		return logoStyle.Render(`+--------------------+
|       uplink       |
+--------------------+`)
	}

	// Simple text logo for very narrow terminals - 1 line
	return logoStyle.Render("uplink - Agent Chat Client")
}

// renderVersion renders the version subtitle.
func (w Welcome) renderVersion() string {
	return lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		Render("Agent Chat Client v" + w.version)
}

// renderSystemInfo renders server, agent, and probe status (3-5 lines).
func (w Welcome) renderSystemInfo() string {
	labelStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Width(8)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	lines := []string{
		labelStyle.Render("Server: ") + valueStyle.Render(w.serverURL),
		labelStyle.Render("Agent:  ") + valueStyle.Render(w.agentName),
		labelStyle.Render("Status: ") + w.renderHealthIndicator(),
	}

	// A failed probe gets a prominent badge so the fix is obvious
	// before the user types anything.
	if w.healthKnown && !w.healthy {
		badge := lipgloss.NewStyle().
			Background(styles.Rose).
			Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#FFFFFF"}).
			Bold(true).
			Padding(0, 1).
			Render("SERVER UNREACHABLE")
		lines = append(lines, "")
		lines = append(lines, badge)
		note := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Render("Start it with: uplink serve")
		lines = append(lines, note)
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderSystemInfoCompact renders a single-line system info (1 line).
func (w Welcome) renderSystemInfoCompact() string {
	valueStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	return valueStyle.Render(w.serverURL) + " | " + w.renderHealthIndicator()
}

// renderHealthIndicator renders the probe result with appropriate color.
func (w Welcome) renderHealthIndicator() string {
	if !w.healthKnown {
		return lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Render("probing...")
	}

	if w.healthy {
		return lipgloss.NewStyle().
			Foreground(styles.Emerald).
			Bold(true).
			Render("reachable")
	}

	return lipgloss.NewStyle().
		Foreground(styles.Rose).
		Bold(true).
		Render("unreachable")
}

// renderQuickStart renders the quick start tips.
func (w Welcome) renderQuickStart() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Bold(true)

	bulletStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	tipStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary)

	tips := []string{
		bulletStyle.Render("-") + tipStyle.Render(" Type a message and press Enter"),
		bulletStyle.Render("-") + tipStyle.Render(" Use /help to see all commands"),
		bulletStyle.Render("-") + tipStyle.Render(" Attach media with /attach <path>"),
		bulletStyle.Render("-") + tipStyle.Render(" Press Ctrl+C to quit"),
	}

	title := titleStyle.Render("Quick Start:")

	return title + "\n" + lipgloss.JoinVertical(lipgloss.Left, tips...)
}

// renderQuickStartCompact renders a condensed quick start for small terminals.
func (w Welcome) renderQuickStartCompact() string {
	tipStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary)

	return tipStyle.Render("Type /help for commands, Ctrl+C to quit")
}

// renderPressKey renders the "press any key" prompt.
func (w Welcome) renderPressKey() string {
	return lipgloss.NewStyle().
		Foreground(styles.Purple).
		Render("Press any key to connect...")
}

// =============================================================================
// ALTERNATE LOGO STYLES
// =============================================================================

// CompactLogo returns a smaller logo for narrow terminals (3 lines).
func CompactLogo() string {
	return lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true).
		Render(`+--------------------+
|       uplink       |
+--------------------+`)
}

// SimpleLogo returns a minimal text logo.
func SimpleLogo() string {
	return lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true).
		Render("uplink - Agent Chat Client")
}

// =============================================================================
// KEYBOARD SHORTCUT HELP
// =============================================================================

// KeyboardShortcuts returns a formatted list of keyboard shortcuts.
func KeyboardShortcuts() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary)

	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send message"},
		{"Ctrl+C", "Quit"},
		{"Ctrl+L", "Clear transcript"},
		{"Tab", "Tab completion"},
		{"Up/Down", "Input history"},
		{"PgUp/PgDn", "Scroll transcript"},
		{"Esc", "Dismiss/Cancel"},
	}

	lines := make([]string, len(shortcuts))
	for i, s := range shortcuts {
		lines[i] = keyStyle.Render(s.key) + descStyle.Render(s.desc)
	}

	titleStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		Bold(true)

	return titleStyle.Render("Keyboard Shortcuts") + "\n" +
		lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// =============================================================================
// WELCOME OVERLAY
// =============================================================================

// WelcomeOverlay creates a centered welcome overlay for use over other content.
func WelcomeOverlay(width, height int, version string) string {
	w := NewWelcome(nil)
	w.SetVersion(version)
	w.SetSize(width, height)

	// Create a semi-transparent background effect
	overlay := lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(w.View())

	return overlay
}
