// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"
	"time"
)

// =============================================================================
// FORMATTING TESTS
// =============================================================================

func TestFormatInt(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{7, "7"},
		{42, "42"},
		{1234567, "1234567"},
		{-1, "-1"},
		{-9500, "-9500"},
	}

	for _, tt := range tests {
		if got := formatInt(tt.in); got != tt.want {
			t.Errorf("formatInt(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatFloat64(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{1.2, "1.2"},
		{45.9, "45.9"},
		{123.456, "123.5"},
		{-5.3, "-5.3"},
	}

	for _, tt := range tests {
		if got := formatFloat64(tt.in); got != tt.want {
			t.Errorf("formatFloat64(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatLatency(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0ms"},
		{42 * time.Millisecond, "42ms"},
		{999 * time.Millisecond, "999ms"},
		{time.Second, "1.0s"},
		{1300 * time.Millisecond, "1.3s"},
		{-time.Second, "0ms"},
	}

	for _, tt := range tests {
		if got := formatLatency(tt.in); got != tt.want {
			t.Errorf("formatLatency(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatTimestamp(t *testing.T) {
	now := time.Now()

	// Today shows just the time
	if got := formatTimestamp(now); got != now.Format("15:04") {
		t.Errorf("formatTimestamp(now) = %q, want %q", got, now.Format("15:04"))
	}

	// Within the week shows day and time
	twoDaysAgo := now.Add(-48 * time.Hour)
	if got := formatTimestamp(twoDaysAgo); got != twoDaysAgo.Format("Mon 15:04") {
		t.Errorf("formatTimestamp(2d ago) = %q, want %q", got, twoDaysAgo.Format("Mon 15:04"))
	}

	// Older shows the date
	lastMonth := now.Add(-30 * 24 * time.Hour)
	if got := formatTimestamp(lastMonth); got != lastMonth.Format("Jan 2 15:04") {
		t.Errorf("formatTimestamp(30d ago) = %q, want %q", got, lastMonth.Format("Jan 2 15:04"))
	}
}

func TestShortID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abc", "abc"},
		{"12345678", "12345678"},
		{"550e8400-e29b-41d4-a716-446655440000", "550e8400"},
	}

	for _, tt := range tests {
		if got := shortID(tt.in); got != tt.want {
			t.Errorf("shortID(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// =============================================================================
// TEXT WRAPPING TESTS
// =============================================================================

func TestCalculateContentWidth(t *testing.T) {
	if got := calculateContentWidth(80, 4); got != 76 {
		t.Errorf("calculateContentWidth(80, 4) = %d, want 76", got)
	}

	// Narrow terminals clamp to the minimum
	if got := calculateContentWidth(4, 4); got != 3 {
		t.Errorf("calculateContentWidth(4, 4) = %d, want 3", got)
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxWidth int
		want     string
	}{
		{
			name:     "short line untouched",
			text:     "hello",
			maxWidth: 20,
			want:     "hello",
		},
		{
			name:     "breaks at space",
			text:     "hello world foo",
			maxWidth: 11,
			want:     "hello world\nfoo",
		},
		{
			name:     "hard break without spaces",
			text:     "abcdefghij",
			maxWidth: 4,
			want:     "abcd\nefgh\nij",
		},
		{
			name:     "preserves existing newlines",
			text:     "one\ntwo",
			maxWidth: 10,
			want:     "one\ntwo",
		},
		{
			name:     "zero width is a no-op",
			text:     "anything at all",
			maxWidth: 0,
			want:     "anything at all",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wrapText(tt.text, tt.maxWidth); got != tt.want {
				t.Errorf("wrapText(%q, %d) = %q, want %q", tt.text, tt.maxWidth, got, tt.want)
			}
		})
	}
}

func TestWrapTextUnicode(t *testing.T) {
	// Width counts runes, not bytes
	text := "héllo wörld"
	got := wrapText(text, 5)
	for _, line := range strings.Split(got, "\n") {
		if n := len([]rune(line)); n > 5 {
			t.Errorf("line %q is %d runes wide, want <= 5", line, n)
		}
	}
}
