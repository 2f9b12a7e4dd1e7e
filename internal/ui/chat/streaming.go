// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
//
// This file implements streaming optimization to provide smooth,
// flicker-free rendering while the agent streams text. The DeltaBuffer
// batches text_delta events for efficient rendering at a capped frame
// rate to balance responsiveness with CPU efficiency.
package chat

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// DELTA BUFFER
// =============================================================================

// DeltaBuffer batches streamed text deltas for efficient rendering.
// Deltas are accumulated in a buffer and flushed either when:
// 1. The batch size threshold is reached (e.g., 15 deltas)
// 2. Enough time has passed since the last flush (e.g., 33ms for 30fps)
//
// This prevents excessive rendering (>1000fps) which causes flicker and
// high CPU usage, while maintaining smooth visual updates.
//
// Thread-safety: All operations are protected by a mutex since deltas
// arrive on the socket drain goroutine while flushing happens in the
// main Bubble Tea loop.
type DeltaBuffer struct {
	mu         sync.Mutex
	buffer     strings.Builder
	deltaCount int
	lastFlush  time.Time

	// Configuration
	batchSize  int           // Deltas per batch (default: 15)
	maxFPS     int           // Max frames per second (default: 30)
	minFlushMs time.Duration // Min time between flushes (1000/maxFPS)
}

// NewDeltaBuffer creates an optimized delta buffer with default settings.
// Default configuration:
// - Batch size: 15 deltas (balances latency vs throughput)
// - Max FPS: 30 (smooth but not wasteful)
// - Min flush interval: ~33ms (1000ms / 30fps)
func NewDeltaBuffer() *DeltaBuffer {
	const (
		defaultBatchSize = 15
		defaultMaxFPS    = 30
	)

	return &DeltaBuffer{
		batchSize:  defaultBatchSize,
		maxFPS:     defaultMaxFPS,
		minFlushMs: time.Duration(1000/defaultMaxFPS) * time.Millisecond,
		lastFlush:  time.Now(),
	}
}

// NewDeltaBufferWithConfig creates a delta buffer with custom settings.
// Use this when you need different batch sizes or frame rates for
// specific use cases.
func NewDeltaBufferWithConfig(batchSize, maxFPS int) *DeltaBuffer {
	if batchSize <= 0 {
		batchSize = 15
	}
	if maxFPS <= 0 || maxFPS > 60 {
		maxFPS = 30
	}

	return &DeltaBuffer{
		batchSize:  batchSize,
		maxFPS:     maxFPS,
		minFlushMs: time.Duration(1000/maxFPS) * time.Millisecond,
		lastFlush:  time.Now(),
	}
}

// Write adds a delta to the buffer.
// This is called when a text_delta event arrives, so it's thread-safe.
// The text is accumulated in the buffer and will be flushed when
// either the batch size or time threshold is reached.
func (db *DeltaBuffer) Write(delta string) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.buffer.WriteString(delta)
	db.deltaCount++
}

// Flush returns accumulated content if the buffer should be flushed.
// Returns (content, hasContent) where:
// - content: the accumulated deltas since last flush
// - hasContent: true if there was content to flush
//
// The buffer is flushed if either:
// 1. Batch size threshold reached (e.g., 15 deltas accumulated)
// 2. Time threshold reached (e.g., 33ms since last flush)
//
// This is called from the main Bubble Tea loop, so it's thread-safe.
func (db *DeltaBuffer) Flush() (string, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()

	// Nothing to flush
	if db.buffer.Len() == 0 {
		return "", false
	}

	// Check if we should flush based on size or time
	shouldFlush := db.shouldFlushLocked()
	if !shouldFlush {
		return "", false
	}

	// Extract content and reset buffer
	content := db.buffer.String()
	db.buffer.Reset()
	db.deltaCount = 0
	db.lastFlush = time.Now()

	return content, true
}

// ShouldFlush checks if the buffer should be flushed (time or size based).
// This is a public method for external callers to check if a flush is needed.
// Thread-safe.
func (db *DeltaBuffer) ShouldFlush() bool {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.shouldFlushLocked()
}

// shouldFlushLocked checks flush conditions without locking (caller must hold lock).
// Flush triggers when:
// 1. Delta count >= batch size (e.g., accumulated 15+ deltas), OR
// 2. Time since last flush >= min flush interval (e.g., 33ms for 30fps)
func (db *DeltaBuffer) shouldFlushLocked() bool {
	// Empty buffer never needs flushing
	if db.buffer.Len() == 0 {
		return false
	}

	// Flush if batch size reached
	if db.deltaCount >= db.batchSize {
		return true
	}

	// Flush if enough time has passed (for smooth animation even with slow streams)
	timeSinceFlush := time.Since(db.lastFlush)
	if timeSinceFlush >= db.minFlushMs {
		return true
	}

	return false
}

// Reset clears the buffer without flushing.
// Use this when the transcript is cleared or a session is swapped out.
// Thread-safe.
func (db *DeltaBuffer) Reset() {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.buffer.Reset()
	db.deltaCount = 0
	db.lastFlush = time.Now()
}

// Pending returns the number of deltas waiting to be flushed.
// Useful for debugging and metrics.
// Thread-safe.
func (db *DeltaBuffer) Pending() int {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.deltaCount
}

// ForceFlush immediately flushes all buffered content regardless of thresholds.
// Use this before applying any non-delta event so transcript ordering is
// preserved, and when a turn completes to ensure all text is rendered.
// Thread-safe.
func (db *DeltaBuffer) ForceFlush() (string, bool) {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.buffer.Len() == 0 {
		return "", false
	}

	content := db.buffer.String()
	db.buffer.Reset()
	db.deltaCount = 0
	db.lastFlush = time.Now()

	return content, true
}

// GetConfig returns the current buffer configuration.
// Thread-safe.
func (db *DeltaBuffer) GetConfig() (batchSize, maxFPS int, minFlushMs time.Duration) {
	db.mu.Lock()
	defer db.mu.Unlock()
	return db.batchSize, db.maxFPS, db.minFlushMs
}

// SetBatchSize updates the batch size threshold.
// Thread-safe.
func (db *DeltaBuffer) SetBatchSize(size int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if size > 0 {
		db.batchSize = size
	}
}

// SetMaxFPS updates the maximum frame rate.
// Thread-safe.
func (db *DeltaBuffer) SetMaxFPS(fps int) {
	db.mu.Lock()
	defer db.mu.Unlock()
	if fps > 0 && fps <= 60 {
		db.maxFPS = fps
		db.minFlushMs = time.Duration(1000/fps) * time.Millisecond
	}
}

// =============================================================================
// STREAMING TICK COMMAND
// =============================================================================

// streamTickCmd creates a tea.Cmd that sends StreamTickMsg at 30fps.
// This enables smooth, flicker-free streaming by batching delta updates.
func streamTickCmd() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg {
		return StreamTickMsg{Time: t}
	})
}

// clockTickCmd ticks the status bar session clock once per second.
func clockTickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return ClockTickMsg{Time: t}
	})
}
