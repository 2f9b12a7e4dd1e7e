// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the uplink TUI application.

This package defines the complete color palette, typography, and animation
system used throughout the application. All colors use Lip Gloss AdaptiveColor
for automatic light/dark terminal detection.

# Color System (colors.go)

## Primary Accent Colors

  - Purple - Primary accent for agent messages and selections
  - Cyan - Brand color for info, commands, and user highlights
  - Emerald - Success states and the connected indicator
  - Amber - Warnings and running tool chips
  - Rose - Errors and critical warnings

## Semantic Colors

Message bubbles, tool chips, and UI elements use semantic color tokens:

	UserBubbleBg  - Background for user messages
	UserBubbleFg  - Text color for user messages
	AgentBubbleBg - Background for agent messages
	AgentBubbleFg - Text color for agent messages
	ToolRunningBg - Background for running tool chips
	ToolDoneBg    - Background for completed tool chips

## Surface Colors

Layered surface system for depth:

	Surface    - Main background
	SurfaceDim - Subtle backgrounds (headers, status bars)
	Overlay    - Borders and popups

## Text Colors

Hierarchical text color system:

	TextPrimary   - Main content text
	TextSecondary - Supporting text
	TextMuted     - De-emphasized text
	TextInverse   - Text on colored backgrounds

# Theme System (theme.go)

The Theme struct provides runtime color adaptation:

	theme := styles.NewTheme()
	if theme.IsDark {
		// Dark terminal detected
	}
	if theme.HasTrueColor {
		// Terminal supports 16M colors
	}

# Animation System (animations.go)

## Spinner Configurations

Pre-defined spinner styles:

	BrailleSpinner - Smooth 10-frame spinner
	DotsSpinner    - Classic three-dot animation
	LineSpinner    - Simple line rotation

## Status Indicators

ASCII indicators for various states:

	StatusIndicators.Success   - [OK]
	StatusIndicators.Error     - [X]
	StatusIndicators.Warning   - [!]
	StatusIndicators.Info      - [i]

# Usage Example

	import "github.com/jeranaias/uplink-tui/internal/ui/styles"

	// Use adaptive colors
	headerStyle := lipgloss.NewStyle().
		Background(styles.SurfaceDim).
		Foreground(styles.TextPrimary)

	// Use theme for runtime detection
	theme := styles.NewTheme()
	status := theme.StatusConnected.Render("connected")

	// Use spinner configuration
	spinner := styles.BrailleSpinner
	interval := spinner.Duration()
*/
package styles
