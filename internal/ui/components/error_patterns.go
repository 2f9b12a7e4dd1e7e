// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the uplink TUI.
package components

import (
	"runtime"
	"strings"
	"sync"
)

// =============================================================================
// ERROR CATEGORIES
// =============================================================================

// ErrorCategory represents the type of error for better organization and display.
type ErrorCategory string

const (
	// CategoryNetwork represents network and connectivity errors
	CategoryNetwork ErrorCategory = "Network"
	// CategorySession represents session lifecycle errors (drops, closes)
	CategorySession ErrorCategory = "Session"
	// CategoryTool represents agent tool invocation errors
	CategoryTool ErrorCategory = "Tool"
	// CategoryConfig represents configuration and settings errors
	CategoryConfig ErrorCategory = "Config"
	// CategoryPermission represents file permission errors
	CategoryPermission ErrorCategory = "Permission"
	// CategoryMedia represents attachment and media errors
	CategoryMedia ErrorCategory = "Media"
	// CategoryTimeout represents timeout and performance errors
	CategoryTimeout ErrorCategory = "Timeout"
	// CategoryParse represents protocol decoding and format errors
	CategoryParse ErrorCategory = "Parse"
	// CategoryUnknown represents unclassified errors
	CategoryUnknown ErrorCategory = "Error"
)

// =============================================================================
// ERROR PATTERN MATCHER
// =============================================================================

// ErrorPattern defines a pattern to match against error strings and provide suggestions.
type ErrorPattern struct {
	// Keywords to match in the error message (case-insensitive, any match triggers)
	Keywords []string

	// Category classifies the error type
	Category ErrorCategory

	// Title for the error display
	Title string

	// Suggestions to help resolve the error
	Suggestions []string

	// DocsURL links to documentation for complex errors (optional)
	DocsURL string

	// LogHint tells users what to look for in logs (optional)
	LogHint string
}

// ErrorPatternMatcher analyzes error strings and provides smart suggestions.
type ErrorPatternMatcher struct {
	mu       sync.RWMutex
	patterns []ErrorPattern
}

// Singleton instance for default pattern matcher
var (
	defaultMatcher     *ErrorPatternMatcher
	defaultMatcherOnce sync.Once
)

// GetDefaultMatcher returns the singleton pattern matcher instance.
// This is thread-safe and avoids re-creating the matcher on every error.
func GetDefaultMatcher() *ErrorPatternMatcher {
	defaultMatcherOnce.Do(func() {
		defaultMatcher = NewErrorPatternMatcher()
	})
	return defaultMatcher
}

// NewErrorPatternMatcher creates a new error pattern matcher with default patterns.
func NewErrorPatternMatcher() *ErrorPatternMatcher {
	matcher := &ErrorPatternMatcher{
		patterns: make([]ErrorPattern, 0),
	}

	// Register default patterns
	matcher.registerDefaultPatterns()

	return matcher
}

// registerDefaultPatterns registers common error patterns with actionable suggestions.
// IMPORTANT: Patterns are registered from MOST SPECIFIC to LEAST SPECIFIC.
// The first matching pattern wins, so specific patterns must come before general ones.
func (m *ErrorPatternMatcher) registerDefaultPatterns() {
	// =========================================================================
	// MOST SPECIFIC PATTERNS FIRST
	// =========================================================================

	// Server not running (very specific - must be before general connection)
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"server is not running", "server not reachable",
			"health check failed", "health probe",
		},
		Category: CategoryNetwork,
		Title:    "Server Not Running",
		Suggestions: []string{
			"Start the demo server: uplink serve",
			"Check server_url in ~/.uplink/config.toml",
			"Probe the health endpoint: uplink health",
		},
		DocsURL: "https://uplink.dev/docs/troubleshooting/server-connection",
		LogHint: "Check for dial errors and the last health probe result",
	})

	// WebSocket handshake failures (before general connection errors)
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"bad handshake", "websocket: bad handshake",
			"unexpected http status", "not a websocket handshake",
		},
		Category: CategoryNetwork,
		Title:    "WebSocket Handshake Failed",
		Suggestions: []string{
			"Make sure server_url points at an uplink server",
			"The /ws endpoint speaks WebSocket, not plain HTTP",
			"Probe the health endpoint: uplink health",
		},
		DocsURL: "https://uplink.dev/docs/troubleshooting/server-connection",
		LogHint: "Look for the HTTP status the server answered with",
	})

	// Dropped session socket (specific)
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"use of closed network connection", "websocket: close",
			"abnormal closure", "session closed", "connection dropped",
		},
		Category: CategorySession,
		Title:    "Session Disconnected",
		Suggestions: []string{
			"Restart uplink to open a fresh session",
			"Dropped sessions cannot be resumed",
			"Check the server log if this keeps happening",
		},
		DocsURL: "https://uplink.dev/docs/troubleshooting/sessions",
		LogHint: "Look for the close code the peer sent",
	})

	// Attachment over the size limit (specific)
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"limit is", "too large to attach", "attachment limit",
		},
		Category: CategoryMedia,
		Title:    "Attachment Too Large",
		Suggestions: []string{
			"Resize or compress the file before attaching",
			"Drop staged files with /detach",
			"The limit covers all staged attachments together",
		},
		DocsURL: "https://uplink.dev/docs/attachments",
		LogHint: "Check the file size against the configured limit",
	})

	// Unsupported or empty attachments (specific)
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"unsupported attachment type", "attachment file is empty",
			"not an image or video",
		},
		Category: CategoryMedia,
		Title:    "Unsupported Attachment",
		Suggestions: []string{
			"Only image/* and video/* files can be attached",
			"Check the file extension matches the content",
			"List staged files with /attachments",
		},
		DocsURL: "https://uplink.dev/docs/attachments",
		LogHint: "Check the detected MIME type for the file",
	})

	// Request Timeout (must be before general network errors)
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"request timeout", "operation timed out",
			"context deadline exceeded", "i/o timeout",
		},
		Category: CategoryTimeout,
		Title:    "Request Timeout",
		Suggestions: []string{
			"Try again - the server may be temporarily busy",
			"Check the server with: uplink health",
			"The agent may be stuck in a long tool call",
		},
		DocsURL: "https://uplink.dev/docs/troubleshooting/timeouts",
		LogHint: "Look for the timeout duration and which call hit it",
	})

	// Permission errors (specific)
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"permission denied", "access denied", "eacces",
		},
		Category:    CategoryPermission,
		Title:       "Permission Denied",
		Suggestions: getPlatformSpecificPermissionSuggestions(),
		DocsURL:     "https://uplink.dev/docs/troubleshooting/permissions",
		LogHint:     "Check file permissions on the path being accessed",
	})

	// File not found errors (specific)
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"file not found", "no such file",
			"cannot find file", "path not found", "enoent",
		},
		Category: CategoryConfig,
		Title:    "File Not Found",
		Suggestions: []string{
			"Check the file path spelling",
			"Use an absolute path instead of relative",
			"Quote paths that contain spaces",
		},
		DocsURL: "https://uplink.dev/docs/troubleshooting/file-access",
		LogHint: "Check the full path being accessed",
	})

	// =========================================================================
	// MEDIUM SPECIFICITY PATTERNS
	// =========================================================================

	// Configuration errors
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"invalid config", "missing config", "parse config",
			"configuration error", "toml:",
		},
		Category:    CategoryConfig,
		Title:       "Configuration Error",
		Suggestions: getPlatformSpecificConfigSuggestions(),
		DocsURL:     "https://uplink.dev/docs/configuration",
		LogHint:     "Check which key failed to parse",
	})

	// Protocol decode / JSON errors
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"decode event", "unmarshal", "parse error",
			"invalid json", "unknown event type", "syntax error",
		},
		Category: CategoryParse,
		Title:    "Protocol Error",
		Suggestions: []string{
			"The server sent a frame the client could not decode",
			"Make sure client and server builds match",
			"Restart the server: uplink serve",
		},
		DocsURL: "https://uplink.dev/docs/protocol",
		LogHint: "Check the raw frame in the server log",
	})

	// =========================================================================
	// GENERAL/FALLBACK PATTERNS (LEAST SPECIFIC - LAST)
	// =========================================================================

	// Agent tool errors
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"tool failed", "tool execution",
			"tool error", "unknown tool",
		},
		Category: CategoryTool,
		Title:    "Tool Error",
		Suggestions: []string{
			"The agent's tool call failed on the server",
			"The server log records the tool name and arguments",
			"Try rephrasing the request",
		},
		DocsURL: "https://uplink.dev/docs/tools",
		LogHint: "Check tool execution logs for the failing call",
	})

	// General network/connection errors (fallback - must be LAST)
	// NOTE: Does NOT include "timeout" - that's handled by Request Timeout above
	m.AddPattern(ErrorPattern{
		Keywords: []string{
			"connection refused", "connect: connection refused",
			"dial tcp", "no such host", "network unreachable",
			"connection reset", "broken pipe",
			"cannot connect", "failed to connect",
		},
		Category: CategoryNetwork,
		Title:    "Connection Error",
		Suggestions: []string{
			"Start the demo server: uplink serve",
			"Check server_url in ~/.uplink/config.toml",
			"Verify nothing else is bound to the port",
		},
		DocsURL: "https://uplink.dev/docs/troubleshooting/network",
		LogHint: "Check network connectivity and the server address",
	})
}

// AddPattern adds a custom error pattern to the matcher.
// This allows extending the pattern matcher with application-specific patterns.
// Thread-safe.
func (m *ErrorPatternMatcher) AddPattern(pattern ErrorPattern) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patterns = append(m.patterns, pattern)
}

// Match analyzes an error string and returns an ErrorDisplay with smart suggestions.
// Returns nil if no pattern matches. Thread-safe.
func (m *ErrorPatternMatcher) Match(errMsg string) *ErrorDisplay {
	if errMsg == "" {
		return nil
	}

	errLower := strings.ToLower(errMsg)

	m.mu.RLock()
	defer m.mu.RUnlock()

	// Try each pattern in order (most specific first)
	for _, pattern := range m.patterns {
		if m.matchesPattern(errLower, pattern) {
			// Create enhanced error display with all details
			display := NewEnhancedError(pattern, errMsg)
			return &display
		}
	}

	// No pattern matched - return generic error
	return nil
}

// MatchOrDefault analyzes an error string and returns an ErrorDisplay with smart suggestions.
// If no pattern matches, returns a generic error display with the given title and message.
func (m *ErrorPatternMatcher) MatchOrDefault(title, errMsg string) ErrorDisplay {
	if matched := m.Match(errMsg); matched != nil {
		return *matched
	}

	// No pattern matched - return default error
	return NewError(title, errMsg)
}

// matchesPattern checks if an error message matches a pattern's keywords.
func (m *ErrorPatternMatcher) matchesPattern(errMsg string, pattern ErrorPattern) bool {
	for _, keyword := range pattern.Keywords {
		if strings.Contains(errMsg, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

// =============================================================================
// PLATFORM-SPECIFIC HELPERS
// =============================================================================

// getPlatformSpecificPermissionSuggestions returns permission suggestions based on the OS.
func getPlatformSpecificPermissionSuggestions() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			"Check file permissions in Properties > Security",
			"Make sure the file is not locked by another program",
			"Attachments need read access, config needs write",
		}
	case "darwin": // macOS
		return []string{
			"Check file permissions: ls -l <file>",
			"Grant access in System Preferences > Security",
			"Attachments need read access, config needs write",
		}
	default: // Linux and others
		return []string{
			"Check file permissions: ls -l <file>",
			"Grant read access: chmod +r <file>",
			"Attachments need read access, config needs write",
		}
	}
}

// getPlatformSpecificConfigSuggestions returns config repair suggestions based on the OS.
func getPlatformSpecificConfigSuggestions() []string {
	switch runtime.GOOS {
	case "windows":
		return []string{
			"Check %USERPROFILE%\\.uplink\\config.toml syntax",
			"Delete the file to regenerate defaults",
			"Print the active settings: uplink config",
		}
	default: // macOS, Linux and others
		return []string{
			"Check ~/.uplink/config.toml syntax",
			"Delete the file to regenerate defaults",
			"Print the active settings: uplink config",
		}
	}
}

// =============================================================================
// SMART ERROR CREATION
// =============================================================================

// SmartError creates an error display with auto-detected pattern matching.
// This is the recommended way to create errors with intelligent suggestions.
func SmartError(title, message string) ErrorDisplay {
	matcher := GetDefaultMatcher()
	return matcher.MatchOrDefault(title, message)
}

// SmartErrorFromError creates an error display from a Go error with pattern matching.
func SmartErrorFromError(title string, err error) ErrorDisplay {
	if err == nil {
		return NewError(title, "Unknown error")
	}
	return SmartError(title, err.Error())
}
