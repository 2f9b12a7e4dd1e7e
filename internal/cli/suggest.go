// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// suggest.go - Command suggestion for typo correction.
package cli

import (
	"strings"
)

// validCommands is the list of all valid uplink commands and aliases.
var validCommands = []string{
	"tui",
	"ask",
	"chat",
	"serve",
	"health",
	"config",
	"version",
	"help",
	// Aliases
	"server", // serve
	"ping",   // health
}

// SuggestCommand returns a suggested command if the input is close to a
// valid command, or "" when no good match exists.
func SuggestCommand(input string) string {
	input = strings.ToLower(input)

	// Very short inputs are likely intentional prompts, not typos.
	if len(input) < 2 {
		return ""
	}

	// Allowed edit distance grows with input length so "hepl" finds
	// "help" without "hi" finding anything.
	maxDistance := 1
	if len(input) >= 4 {
		maxDistance = 2
	}

	bestMatch := ""
	bestDistance := -1

	for _, cmd := range validCommands {
		distance := levenshteinDistance(input, cmd)
		if distance == 0 {
			return ""
		}
		if distance <= maxDistance && (bestDistance == -1 || distance < bestDistance) {
			bestDistance = distance
			bestMatch = cmd
		}
	}

	return bestMatch
}

// levenshteinDistance is the minimum number of single-character edits
// needed to turn s1 into s2.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	cols := len(s2) + 1
	prev := make([]int, cols)
	curr := make([]int, cols)

	for j := 0; j < cols; j++ {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j < cols; j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[cols-1]
}

func min3(a, b, c int) int {
	if a <= b && a <= c {
		return a
	}
	if b <= c {
		return b
	}
	return c
}
