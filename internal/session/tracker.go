// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks per-session activity and turn statistics.
package session

import (
	"sync"
	"time"

	"github.com/jeranaias/uplink-tui/internal/protocol"
	"github.com/jeranaias/uplink-tui/internal/util"
)

// =============================================================================
// TRACKER
// =============================================================================

// Tracker records activity and statistics for one transport session.
// All methods are safe for concurrent use; the socket reader goroutine
// and the UI goroutine both touch it.
type Tracker struct {
	mu sync.Mutex

	// Session identity
	sessionID    string
	startTime    time.Time
	lastActivity time.Time

	// Turn timing. turnStart is zero when no turn is in flight,
	// firstToken is zero until the first delta of the turn arrives.
	turnStart  time.Time
	firstToken time.Time

	stats Stats
}

// Stats holds aggregate counters for a session.
type Stats struct {
	// FramesIn counts events received from the agent.
	FramesIn int

	// FramesOut counts frames sent to the agent.
	FramesOut int

	// Deltas counts text_delta events.
	Deltas int

	// ToolCalls counts tool invocations observed.
	ToolCalls int

	// Turns counts completed turns (done events).
	Turns int

	// Errors counts error events.
	Errors int

	// FirstTokenLatency is the send-to-first-delta latency of the
	// most recent turn that produced text.
	FirstTokenLatency time.Duration

	// LastTurnDuration is the send-to-done duration of the most
	// recent completed turn.
	LastTurnDuration time.Duration
}

// NewTracker creates a tracker bound to the given session ID.
func NewTracker(sessionID string) *Tracker {
	now := time.Now()
	return &Tracker{
		sessionID:    sessionID,
		startTime:    now,
		lastActivity: now,
	}
}

// =============================================================================
// SESSION STATE
// =============================================================================

// SessionID returns the bound session ID.
func (t *Tracker) SessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessionID
}

// StartTime returns when the session started.
func (t *Tracker) StartTime() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.startTime
}

// Duration returns how long the session has been active.
func (t *Tracker) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Since(t.startTime)
}

// IdleTime returns how long since last recorded activity.
func (t *Tracker) IdleTime() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Since(t.lastActivity)
}

// TurnInFlight reports whether a turn has been started and not yet
// finished by a done or error event.
func (t *Tracker) TurnInFlight() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.turnStart.IsZero()
}

// =============================================================================
// ACTIVITY TRACKING
// =============================================================================

// Touch updates the last activity timestamp. Called on user input.
func (t *Tracker) Touch() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastActivity = time.Now()
}

// BeginTurn marks the start of a turn, usually just before the message
// frame is written. First-token latency is measured from here.
func (t *Tracker) BeginTurn() {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	t.lastActivity = now
	t.turnStart = now
	t.firstToken = time.Time{}
}

// RecordOutbound counts a frame sent to the agent.
func (t *Tracker) RecordOutbound() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastActivity = time.Now()
	t.stats.FramesOut++
}

// RecordEvent counts an inbound agent event and updates turn timing.
func (t *Tracker) RecordEvent(ev protocol.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	t.lastActivity = now
	t.stats.FramesIn++

	switch ev.Kind {
	case protocol.EventTextDelta:
		t.stats.Deltas++
		if !t.turnStart.IsZero() && t.firstToken.IsZero() {
			t.firstToken = now
			t.stats.FirstTokenLatency = now.Sub(t.turnStart)
		}
	case protocol.EventToolStart:
		t.stats.ToolCalls++
	case protocol.EventDone:
		t.stats.Turns++
		t.endTurnLocked(now)
	case protocol.EventError:
		t.stats.Errors++
		t.endTurnLocked(now)
	}
}

// endTurnLocked finalizes turn timing. Caller holds the lock.
func (t *Tracker) endTurnLocked(now time.Time) {
	if t.turnStart.IsZero() {
		return
	}
	t.stats.LastTurnDuration = now.Sub(t.turnStart)
	t.turnStart = time.Time{}
	t.firstToken = time.Time{}
}

// =============================================================================
// SESSION STATUS
// =============================================================================

// Status is a point-in-time snapshot of the tracker.
type Status struct {
	SessionID    string
	StartTime    time.Time
	Duration     time.Duration
	IdleTime     time.Duration
	TurnInFlight bool
	Stats        Stats
}

// Snapshot returns a consistent view of the session state.
func (t *Tracker) Snapshot() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	return Status{
		SessionID:    t.sessionID,
		StartTime:    t.startTime,
		Duration:     now.Sub(t.startTime),
		IdleTime:     now.Sub(t.lastActivity),
		TurnInFlight: !t.turnStart.IsZero(),
		Stats:        t.stats,
	}
}

// FormatDuration returns a human-readable duration string.
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		secs := int(d.Seconds())
		return util.IntToString(secs) + "s"
	}
	mins := int(d.Minutes())
	secs := int(d.Seconds()) % 60
	if secs == 0 {
		return util.IntToString(mins) + "m"
	}
	return util.IntToString(mins) + "m " + util.IntToString(secs) + "s"
}
