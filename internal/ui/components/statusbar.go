// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for uplink TUI.
package components

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jeranaias/uplink-tui/internal/session"
	"github.com/jeranaias/uplink-tui/internal/transcript"
	"github.com/jeranaias/uplink-tui/internal/ui/styles"
	"github.com/jeranaias/uplink-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT - Beautiful bottom status bar
// =============================================================================

// Status represents the current application status
type Status int

const (
	StatusReady Status = iota
	StatusThinking
	StatusStreaming
	StatusToolRunning
	StatusError
	StatusOffline
)

// String returns the display string for the status
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusThinking:
		return "Thinking..."
	case StatusStreaming:
		return "Streaming..."
	case StatusToolRunning:
		return "Running tool..."
	case StatusError:
		return "Error"
	case StatusOffline:
		return "Offline"
	default:
		return "Unknown"
	}
}

// Icon returns an icon for the status
// ACCESSIBILITY: Uses distinct shapes alongside colors for colorblind users
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success // Checkmark for ready
	case StatusStreaming:
		return "~"
	case StatusThinking:
		return styles.StatusIndicators.Pending // Empty circle for pending
	case StatusToolRunning:
		return styles.StatusIndicators.Active // Asterisk while a tool runs
	case StatusError:
		return styles.StatusIndicators.Error // X mark for error
	case StatusOffline:
		return "-"
	default:
		return "?"
	}
}

// StatusFromPhase maps a transcript phase to a status bar status.
func StatusFromPhase(p transcript.Phase) Status {
	switch p {
	case transcript.PhaseAwaitingFirstToken:
		return StatusThinking
	case transcript.PhaseStreaming:
		return StatusStreaming
	case transcript.PhaseToolRunning:
		return StatusToolRunning
	default:
		return StatusReady
	}
}

// StatusBar represents the beautiful bottom status bar
type StatusBar struct {
	Connected     bool          // Socket state
	SessionID     string        // Session identifier (shortened for display)
	ServerURL     string        // Connected server
	AgentName     string        // Display name of the remote agent
	EntryCount    int           // Transcript entries this session
	PendingBytes  int64         // Bytes of staged attachments
	MaxBytes      int64         // Attachment payload budget
	PendingCount  int           // Number of staged attachments
	Elapsed       time.Duration // Session duration
	Status        Status        // Current status
	Width         int           // Available width
	ShowShortcuts bool          // Show keyboard shortcuts
	theme         *styles.Theme
}

// NewStatusBar creates a new StatusBar component
func NewStatusBar(theme *styles.Theme) *StatusBar {
	return &StatusBar{
		Connected:     false,
		SessionID:     "",
		ServerURL:     "",
		AgentName:     "",
		EntryCount:    0,
		PendingBytes:  0,
		MaxBytes:      0,
		PendingCount:  0,
		Status:        StatusOffline,
		Width:         80,
		ShowShortcuts: true,
		theme:         theme,
	}
}

// SetWidth updates the status bar width
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetConnected updates the socket state. Going offline overrides the
// status display until the connection is back.
func (s *StatusBar) SetConnected(connected bool) {
	s.Connected = connected
	if !connected {
		s.Status = StatusOffline
	} else if s.Status == StatusOffline {
		s.Status = StatusReady
	}
}

// SetSession updates the session identity shown on the left.
func (s *StatusBar) SetSession(sessionID, serverURL string) {
	s.SessionID = sessionID
	s.ServerURL = serverURL
}

// SetAgentName updates the displayed agent name.
func (s *StatusBar) SetAgentName(name string) {
	s.AgentName = name
}

// SetEntryCount updates the transcript entry count.
func (s *StatusBar) SetEntryCount(count int) {
	s.EntryCount = count
}

// SetAttachmentBudget updates the staged attachment meter.
func (s *StatusBar) SetAttachmentBudget(usedBytes, maxBytes int64, count int) {
	s.PendingBytes = usedBytes
	s.MaxBytes = maxBytes
	s.PendingCount = count
}

// SetElapsed updates the session duration display.
func (s *StatusBar) SetElapsed(d time.Duration) {
	s.Elapsed = d
}

// SetStatus updates the current status
func (s *StatusBar) SetStatus(status Status) {
	s.Status = status
}

// SetPhase updates the status from the transcript phase. A dropped
// socket still wins over whatever the reducer reports.
func (s *StatusBar) SetPhase(p transcript.Phase) {
	if !s.Connected {
		s.Status = StatusOffline
		return
	}
	s.Status = StatusFromPhase(p)
}

// View renders the status bar
func (s *StatusBar) View() string {
	// Choose layout based on width
	if s.Width < 60 {
		return s.viewNarrow()
	}
	if s.Width < 100 {
		return s.viewMedium()
	}
	return s.viewWide()
}

// viewNarrow renders a compact status bar for narrow terminals
// Format: [(+)|2] MediaBar Status
func (s *StatusBar) viewNarrow() string {
	parts := []string{}

	// Connection marker
	connStyle := s.getConnectionStyle()
	parts = append(parts, connStyle.Render(s.getConnectionIcon()))

	// Staged attachment count
	if s.PendingCount > 0 {
		countStyle := lipgloss.NewStyle().Foreground(styles.Cyan).Bold(true)
		parts = append(parts, countStyle.Render(fmtNumber(s.PendingCount)))
	}

	// Combine connection section
	connSection := "[" + strings.Join(parts, "|") + "]"

	// Attach budget bar (smaller)
	budgetBar := s.renderBudgetBarSmall()

	// Status
	statusStyle := s.getStatusStyle()
	statusText := statusStyle.Render(s.Status.Icon())

	// Join with spaces
	separator := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" ")

	result := connSection + separator + budgetBar + separator + statusText

	// Apply background
	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Width(s.Width).
		Render(result)
}

// viewMedium renders a medium-width status bar
// Format: CONNECTED | session | entries | Media: Bar | Status
func (s *StatusBar) viewMedium() string {
	separator := lipgloss.NewStyle().
		Foreground(styles.Overlay).
		Render(" | ")

	parts := []string{}

	// Connection state
	// ACCESSIBILITY: Uses high contrast colors for colorblind users
	connStyle := s.getConnectionStyle()
	connText := "OFFLINE"
	if s.Connected {
		connText = "CONNECTED"
	}
	parts = append(parts, connStyle.Render(connText))

	// Session id (shortened if needed)
	if s.SessionID != "" {
		sessionID := s.SessionID
		// Use rune-based truncation to handle Unicode correctly
		idRunes := []rune(sessionID)
		if len(idRunes) > 8 {
			sessionID = string(idRunes[:8])
		}
		idStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
		parts = append(parts, idStyle.Render(sessionID))
	}

	// Entry count
	entryStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
	parts = append(parts, entryStyle.Render(fmtNumber(s.EntryCount)+" entries"))

	// Attach budget bar with label
	if s.PendingCount > 0 {
		mediaLabel := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render("Media:")
		budgetBar := s.renderBudgetBar()
		parts = append(parts, mediaLabel+" "+budgetBar)
	}

	// Status
	statusStyle := s.getStatusStyle()
	parts = append(parts, statusStyle.Render(s.Status.String()))

	result := strings.Join(parts, separator)

	// Apply background
	return lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Padding(0, 1).
		Width(s.Width).
		Render(result)
}

// viewWide renders a full-featured status bar for wide terminals
// Format: (+) CONNECTED | ws://host/ws | session abc12345 | 12 entries | 5m 3s ... Media ... Status ^C quit
func (s *StatusBar) viewWide() string {
	// Left section: connection, server, session identity
	leftParts := []string{}

	// Connection badge
	connStyle := s.getConnectionStyle()
	connText := "OFFLINE"
	if s.Connected {
		connText = "CONNECTED"
	}
	leftParts = append(leftParts, connStyle.Render(s.getConnectionIcon()+" "+connText))

	// Server URL (truncated if needed)
	if s.ServerURL != "" {
		serverURL := s.ServerURL
		urlRunes := []rune(serverURL)
		if len(urlRunes) > 32 {
			serverURL = string(urlRunes[:29]) + "..."
		}
		urlStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
		leftParts = append(leftParts, urlStyle.Render(serverURL))
	}

	// Session id
	if s.SessionID != "" {
		sessionID := s.SessionID
		idRunes := []rune(sessionID)
		if len(idRunes) > 8 {
			sessionID = string(idRunes[:8])
		}
		idStyle := lipgloss.NewStyle().Foreground(styles.TextMuted)
		leftParts = append(leftParts, idStyle.Render("session "+sessionID))
	}

	// Entry count
	entryStr := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render(fmtNumber(s.EntryCount) + " entries")
	leftParts = append(leftParts, entryStr)

	// Session duration (if running)
	if s.Elapsed > 0 {
		elapsedStr := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render(session.FormatDuration(s.Elapsed))
		leftParts = append(leftParts, elapsedStr)
	}

	leftSep := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")
	leftSection := strings.Join(leftParts, leftSep)

	// Center section: attachment budget meter
	centerSection := ""
	if s.PendingCount > 0 {
		mediaLabel := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render("Media: ")
		budgetBar := s.renderBudgetBar()
		budgetPercent := s.renderBudgetPercent()
		centerSection = mediaLabel + budgetBar + " " + budgetPercent
	}

	// Right section: Status and shortcuts
	rightParts := []string{}

	// Status
	statusStyle := s.getStatusStyle()
	rightParts = append(rightParts, statusStyle.Render(s.Status.String()))

	// Keyboard shortcuts (if enabled)
	if s.ShowShortcuts {
		shortcuts := s.renderShortcuts()
		rightParts = append(rightParts, shortcuts)
	}

	rightSection := strings.Join(rightParts, " ")

	// Calculate spacing
	leftWidth := lipgloss.Width(leftSection)
	centerWidth := lipgloss.Width(centerSection)
	rightWidth := lipgloss.Width(rightSection)
	totalContent := leftWidth + centerWidth + rightWidth

	// Add spacing between sections
	spacing := s.Width - totalContent - 4 // Account for padding
	if spacing < 4 {
		spacing = 4
	}

	leftSpace := strings.Repeat(" ", spacing/2)
	rightSpace := strings.Repeat(" ", spacing-spacing/2)

	result := leftSection + leftSpace + centerSection + rightSpace + rightSection

	// Apply styled border for wide view
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(styles.Overlay).
		Background(styles.SurfaceDim).
		Foreground(styles.TextSecondary).
		Padding(0, 1).
		Width(s.Width).
		Render(result)
}

// ==========================================================================
// HELPER RENDER METHODS
// ==========================================================================

// budgetPercent returns the share of the attachment budget in use.
func (s *StatusBar) budgetPercent() float64 {
	if s.MaxBytes <= 0 {
		return 0.0
	}
	return float64(s.PendingBytes) / float64(s.MaxBytes) * 100
}

// renderBudgetBar renders the attachment budget bar
// Format: [##########] (10 blocks)
func (s *StatusBar) renderBudgetBar() string {
	percent := s.budgetPercent()

	filled := int(percent / 10)
	if filled > 10 {
		filled = 10
	}
	empty := 10 - filled

	// Choose color based on percentage
	barColor := styles.Cyan
	if percent >= 90 {
		barColor = styles.Rose
	} else if percent >= 75 {
		barColor = styles.Amber
	} else if percent >= 50 {
		barColor = styles.Emerald
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor)
	emptyStyle := lipgloss.NewStyle().Foreground(styles.Overlay)

	filledPart := filledStyle.Render(strings.Repeat("#", filled))
	emptyPart := emptyStyle.Render(strings.Repeat("-", empty))

	return "[" + filledPart + emptyPart + "]"
}

// renderBudgetBarSmall renders a smaller budget bar for narrow view
// Format: [####--] (6 blocks)
func (s *StatusBar) renderBudgetBarSmall() string {
	percent := s.budgetPercent()

	filled := int(percent / 100 * 6)
	if filled > 6 {
		filled = 6
	}
	empty := 6 - filled

	// Choose color based on percentage
	barColor := styles.Cyan
	if percent >= 90 {
		barColor = styles.Rose
	} else if percent >= 75 {
		barColor = styles.Amber
	}

	filledStyle := lipgloss.NewStyle().Foreground(barColor)
	emptyStyle := lipgloss.NewStyle().Foreground(styles.Overlay)

	return filledStyle.Render(strings.Repeat("#", filled)) +
		emptyStyle.Render(strings.Repeat("-", empty))
}

// renderBudgetPercent renders the budget percentage with byte counts
func (s *StatusBar) renderBudgetPercent() string {
	percent := s.budgetPercent()

	// Choose color based on percentage
	color := styles.TextMuted
	if percent >= 90 {
		color = styles.Rose
	} else if percent >= 75 {
		color = styles.Amber
	}

	percentStyle := lipgloss.NewStyle().Foreground(color)

	// Format: 2.0 KB/10.0 MB (0.0%)
	return percentStyle.Render(
		util.FormatBytes(s.PendingBytes) + "/" + util.FormatBytes(s.MaxBytes) +
			" (" + fmtPercent(percent) + ")",
	)
}

// renderShortcuts renders keyboard shortcut hints
func (s *StatusBar) renderShortcuts() string {
	keyStyle := lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted)

	shortcuts := []string{
		keyStyle.Render("Tab") + descStyle.Render("complete"),
		keyStyle.Render("^C") + descStyle.Render("quit"),
	}

	return strings.Join(shortcuts, " ")
}

// getConnectionStyle returns the style for the connection state
// ACCESSIBILITY: Uses high contrast colors with bold for colorblind users
func (s *StatusBar) getConnectionStyle() lipgloss.Style {
	if s.Connected {
		return lipgloss.NewStyle().Foreground(styles.SuccessHighContrast).Bold(true)
	}
	return lipgloss.NewStyle().Foreground(styles.ErrorHighContrast).Bold(true)
}

// getConnectionIcon returns an icon for the connection state
// ACCESSIBILITY: Uses distinct shapes alongside colors for colorblind users
func (s *StatusBar) getConnectionIcon() string {
	if s.Connected {
		return styles.AnimationStatusIndicators.Connected
	}
	return styles.AnimationStatusIndicators.Offline
}

// getStatusStyle returns the style for the current status
// ACCESSIBILITY: Uses high contrast colors with bold for colorblind users
func (s *StatusBar) getStatusStyle() lipgloss.Style {
	switch s.Status {
	case StatusReady:
		// ACCESSIBILITY: High contrast green with bold
		return lipgloss.NewStyle().Foreground(styles.SuccessHighContrast).Bold(true)
	case StatusStreaming, StatusThinking:
		// ACCESSIBILITY: High contrast blue with bold
		return lipgloss.NewStyle().Foreground(styles.InfoHighContrast).Bold(true)
	case StatusToolRunning:
		// ACCESSIBILITY: High contrast amber with bold
		return lipgloss.NewStyle().Foreground(styles.WarningHighContrast).Bold(true)
	case StatusError:
		// ACCESSIBILITY: High contrast red with bold
		return lipgloss.NewStyle().Foreground(styles.ErrorHighContrast).Bold(true)
	case StatusOffline:
		return lipgloss.NewStyle().Foreground(styles.ErrorHighContrast).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(styles.TextMuted)
	}
}

