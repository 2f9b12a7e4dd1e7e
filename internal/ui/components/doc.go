// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the uplink TUI application.

This package contains a collection of styled, interactive components built on
top of the Bubble Tea and Lip Gloss libraries. Each component is designed to
be visually polished and consistent with the uplink design language.

# Core Components

## Input Components

CompletionPopup (completion.go) - Tab completion popup for slash commands.

## Display Components

StatusBar (statusbar.go) - Bottom status bar with connection state, session id,
transcript size, and the staged attachment budget.
CodeBlock (codeblock.go) - Syntax-highlighted code blocks using Chroma.
ToolChipView / ToolChipList (toolchip.go) - Inline chips for agent tool calls,
flipping from running to done as results arrive.
AttachmentsBar (attachments.go) - Staged media chips with a byte budget meter.

## Progress and Feedback

Spinner (spinner.go) - Animated spinner with customizable styles.
ErrorDisplay (error.go) - Smart error messages with suggestions.
ErrorToast / ToastManager (error_toast.go) - Non-blocking corner notifications.

## Specialized Views

Welcome (welcome.go) - Pre-connect welcome screen with the health probe result.

# Key Types

## Theme Integration

All components accept a *styles.Theme for consistent styling:

	theme := styles.NewTheme()
	bar := components.NewStatusBar(theme)
	bar.SetConnected(true)
	bar.SetSession("b54a97f1", "ws://localhost:8000")
	view := bar.View()

## Bubble Tea Integration

Most components implement the Bubble Tea Model interface:

	type Component interface {
		Init() tea.Cmd
		Update(tea.Msg) (Component, tea.Cmd)
		View() string
	}

## Error Handling

The error components provide intelligent error display:

	display := components.SmartErrorFromError("Connection Error", err)
	view := display.View()

# Helper Functions

The package includes shared helper functions in helpers.go:
  - toStr() - Integer to string conversion without fmt
  - fmtNumber() - Thousands-separated integer formatting
  - fmtPercent() - One-decimal percentage formatting
*/
package components
