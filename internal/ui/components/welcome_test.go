// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the uplink TUI.
package components

import (
	"strings"
	"testing"

	"github.com/jeranaias/uplink-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME TESTS
// =============================================================================

func TestNewWelcome(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)

	if w.version != "dev" {
		t.Errorf("NewWelcome() version = %q, want %q", w.version, "dev")
	}

	if w.serverURL != "ws://localhost:8000" {
		t.Errorf("NewWelcome() serverURL = %q, want %q", w.serverURL, "ws://localhost:8000")
	}

	if w.agentName != "Agent" {
		t.Errorf("NewWelcome() agentName = %q, want %q", w.agentName, "Agent")
	}

	if w.healthKnown {
		t.Error("NewWelcome() should start with the probe result unknown")
	}
}

func TestWelcomeSetters(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)

	w.SetVersion("1.2.3")
	if w.version != "1.2.3" {
		t.Errorf("SetVersion() = %q, want %q", w.version, "1.2.3")
	}

	w.SetServerURL("ws://example.com:9000")
	if w.serverURL != "ws://example.com:9000" {
		t.Errorf("SetServerURL() = %q, want %q", w.serverURL, "ws://example.com:9000")
	}

	w.SetAgentName("Helper")
	if w.agentName != "Helper" {
		t.Errorf("SetAgentName() = %q, want %q", w.agentName, "Helper")
	}

	w.SetSize(100, 30)
	if w.width != 100 || w.height != 30 {
		t.Errorf("SetSize() = %dx%d, want 100x30", w.width, w.height)
	}
}

func TestWelcomeHealthIndicator(t *testing.T) {
	theme := styles.NewTheme()

	tests := []struct {
		name   string
		setup  func(w *Welcome)
		want   string
		reject string
	}{
		{
			name:  "probe pending",
			setup: func(w *Welcome) {},
			want:  "probing...",
		},
		{
			name:   "probe succeeded",
			setup:  func(w *Welcome) { w.SetHealth(true) },
			want:   "reachable",
			reject: "unreachable",
		},
		{
			name:  "probe failed",
			setup: func(w *Welcome) { w.SetHealth(false) },
			want:  "unreachable",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWelcome(theme)
			tc.setup(&w)

			got := w.renderHealthIndicator()
			if !strings.Contains(got, tc.want) {
				t.Errorf("renderHealthIndicator() = %q, want it to contain %q", got, tc.want)
			}
			if tc.reject != "" && strings.Contains(got, tc.reject) {
				t.Errorf("renderHealthIndicator() = %q, should not contain %q", got, tc.reject)
			}
		})
	}
}

func TestWelcomeViewRenders(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)
	w.SetSize(80, 24)

	view := w.View()
	if view == "" {
		t.Fatal("View() returned empty string")
	}

	for _, want := range []string{"ws://localhost:8000", "Agent", "Press any key"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() should contain %q", want)
		}
	}
}

func TestWelcomeViewUnreachableBadge(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)
	w.SetSize(80, 30)
	w.SetHealth(false)

	view := w.View()
	if !strings.Contains(view, "SERVER UNREACHABLE") {
		t.Error("View() should show the unreachable badge after a failed probe")
	}
	if !strings.Contains(view, "uplink serve") {
		t.Error("View() should suggest starting the demo server")
	}
}

func TestWelcomeViewHealthyNoBadge(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)
	w.SetSize(80, 30)
	w.SetHealth(true)

	view := w.View()
	if strings.Contains(view, "SERVER UNREACHABLE") {
		t.Error("View() should not show the badge when the probe succeeded")
	}
}

func TestWelcomeViewSmallTerminal(t *testing.T) {
	theme := styles.NewTheme()
	w := NewWelcome(theme)

	sizes := []struct{ width, height int }{
		{80, 24},
		{60, 16},
		{45, 12},
		{40, 10},
	}

	for _, size := range sizes {
		w.SetSize(size.width, size.height)
		view := w.View()
		if view == "" {
			t.Errorf("View() empty at %dx%d", size.width, size.height)
		}
	}
}

func TestKeyboardShortcuts(t *testing.T) {
	out := KeyboardShortcuts()

	for _, want := range []string{"Keyboard Shortcuts", "Send message", "Clear transcript", "Scroll transcript"} {
		if !strings.Contains(out, want) {
			t.Errorf("KeyboardShortcuts() should contain %q", want)
		}
	}
}
