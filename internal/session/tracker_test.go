// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session tracks per-session activity and turn statistics.
package session

import (
	"sync"
	"testing"
	"time"

	"github.com/jeranaias/uplink-tui/internal/protocol"
)

// =============================================================================
// TRACKER CREATION TESTS
// =============================================================================

func TestNewTracker(t *testing.T) {
	trk := NewTracker("abc-123")

	if trk == nil {
		t.Fatal("NewTracker returned nil")
	}
	if trk.SessionID() != "abc-123" {
		t.Errorf("SessionID = %q, want %q", trk.SessionID(), "abc-123")
	}
	if trk.StartTime().IsZero() {
		t.Error("StartTime should not be zero")
	}
	if trk.TurnInFlight() {
		t.Error("new tracker should have no turn in flight")
	}
}

func TestTracker_Duration(t *testing.T) {
	trk := NewTracker("id")
	time.Sleep(10 * time.Millisecond)

	if d := trk.Duration(); d < 10*time.Millisecond {
		t.Errorf("Duration should be at least 10ms, got %v", d)
	}
}

func TestTracker_IdleTime(t *testing.T) {
	trk := NewTracker("id")
	time.Sleep(10 * time.Millisecond)

	if idle := trk.IdleTime(); idle < 10*time.Millisecond {
		t.Errorf("IdleTime should be at least 10ms, got %v", idle)
	}

	trk.Touch()
	if idle := trk.IdleTime(); idle > 5*time.Millisecond {
		t.Errorf("IdleTime should be near zero after Touch, got %v", idle)
	}
}

// =============================================================================
// COUNTER TESTS
// =============================================================================

func TestTracker_RecordOutbound(t *testing.T) {
	trk := NewTracker("id")

	trk.RecordOutbound()
	trk.RecordOutbound()

	st := trk.Snapshot()
	if st.Stats.FramesOut != 2 {
		t.Errorf("FramesOut = %d, want 2", st.Stats.FramesOut)
	}
	if st.Stats.FramesIn != 0 {
		t.Errorf("FramesIn = %d, want 0", st.Stats.FramesIn)
	}
}

func TestTracker_RecordEvent(t *testing.T) {
	trk := NewTracker("id")

	events := []protocol.Event{
		{Kind: protocol.EventThinking, Status: true},
		{Kind: protocol.EventTextDelta, Text: "Hi"},
		{Kind: protocol.EventTextDelta, Text: " there"},
		{Kind: protocol.EventToolStart, ToolID: "t1", ToolName: "search"},
		{Kind: protocol.EventToolEnd, ToolID: "t1"},
		{Kind: protocol.EventDone, Text: "Hi there"},
	}
	for _, ev := range events {
		trk.RecordEvent(ev)
	}

	st := trk.Snapshot()
	if st.Stats.FramesIn != 6 {
		t.Errorf("FramesIn = %d, want 6", st.Stats.FramesIn)
	}
	if st.Stats.Deltas != 2 {
		t.Errorf("Deltas = %d, want 2", st.Stats.Deltas)
	}
	if st.Stats.ToolCalls != 1 {
		t.Errorf("ToolCalls = %d, want 1", st.Stats.ToolCalls)
	}
	if st.Stats.Turns != 1 {
		t.Errorf("Turns = %d, want 1", st.Stats.Turns)
	}
	if st.Stats.Errors != 0 {
		t.Errorf("Errors = %d, want 0", st.Stats.Errors)
	}
}

func TestTracker_RecordError(t *testing.T) {
	trk := NewTracker("id")

	trk.BeginTurn()
	trk.RecordEvent(protocol.Event{Kind: protocol.EventError, Message: "boom"})

	st := trk.Snapshot()
	if st.Stats.Errors != 1 {
		t.Errorf("Errors = %d, want 1", st.Stats.Errors)
	}
	if st.TurnInFlight {
		t.Error("error event should end the turn")
	}
}

// =============================================================================
// TURN TIMING TESTS
// =============================================================================

func TestTracker_TurnLifecycle(t *testing.T) {
	trk := NewTracker("id")

	trk.BeginTurn()
	if !trk.TurnInFlight() {
		t.Fatal("BeginTurn should mark a turn in flight")
	}

	time.Sleep(5 * time.Millisecond)
	trk.RecordEvent(protocol.Event{Kind: protocol.EventTextDelta, Text: "a"})

	st := trk.Snapshot()
	if st.Stats.FirstTokenLatency < 5*time.Millisecond {
		t.Errorf("FirstTokenLatency = %v, want at least 5ms", st.Stats.FirstTokenLatency)
	}

	time.Sleep(5 * time.Millisecond)
	trk.RecordEvent(protocol.Event{Kind: protocol.EventDone, Text: "a"})

	st = trk.Snapshot()
	if st.TurnInFlight {
		t.Error("done event should end the turn")
	}
	if st.Stats.LastTurnDuration < 10*time.Millisecond {
		t.Errorf("LastTurnDuration = %v, want at least 10ms", st.Stats.LastTurnDuration)
	}
	if st.Stats.LastTurnDuration < st.Stats.FirstTokenLatency {
		t.Error("turn duration should cover first-token latency")
	}
}

func TestTracker_FirstTokenLatencyOnlyFirstDelta(t *testing.T) {
	trk := NewTracker("id")

	trk.BeginTurn()
	time.Sleep(3 * time.Millisecond)
	trk.RecordEvent(protocol.Event{Kind: protocol.EventTextDelta, Text: "a"})
	first := trk.Snapshot().Stats.FirstTokenLatency

	time.Sleep(10 * time.Millisecond)
	trk.RecordEvent(protocol.Event{Kind: protocol.EventTextDelta, Text: "b"})

	if got := trk.Snapshot().Stats.FirstTokenLatency; got != first {
		t.Errorf("FirstTokenLatency changed on second delta: %v -> %v", first, got)
	}
}

func TestTracker_DoneWithoutTurn(t *testing.T) {
	trk := NewTracker("id")

	// Done without BeginTurn must not record a bogus duration.
	trk.RecordEvent(protocol.Event{Kind: protocol.EventDone})

	st := trk.Snapshot()
	if st.Stats.Turns != 1 {
		t.Errorf("Turns = %d, want 1", st.Stats.Turns)
	}
	if st.Stats.LastTurnDuration != 0 {
		t.Errorf("LastTurnDuration = %v, want 0", st.Stats.LastTurnDuration)
	}
}

func TestTracker_BeginTurnResetsFirstToken(t *testing.T) {
	trk := NewTracker("id")

	trk.BeginTurn()
	trk.RecordEvent(protocol.Event{Kind: protocol.EventTextDelta, Text: "a"})
	trk.RecordEvent(protocol.Event{Kind: protocol.EventDone})
	first := trk.Snapshot().Stats.FirstTokenLatency

	trk.BeginTurn()
	time.Sleep(8 * time.Millisecond)
	trk.RecordEvent(protocol.Event{Kind: protocol.EventTextDelta, Text: "b"})

	second := trk.Snapshot().Stats.FirstTokenLatency
	if second == first {
		t.Error("second turn should measure its own first-token latency")
	}
	if second < 8*time.Millisecond {
		t.Errorf("second FirstTokenLatency = %v, want at least 8ms", second)
	}
}

// =============================================================================
// SNAPSHOT TESTS
// =============================================================================

func TestTracker_Snapshot(t *testing.T) {
	trk := NewTracker("snap-1")
	trk.RecordOutbound()
	trk.RecordEvent(protocol.Event{Kind: protocol.EventTextDelta, Text: "x"})

	st := trk.Snapshot()
	if st.SessionID != "snap-1" {
		t.Errorf("SessionID = %q, want %q", st.SessionID, "snap-1")
	}
	if st.StartTime.IsZero() {
		t.Error("StartTime should be set")
	}
	if st.Stats.FramesOut != 1 || st.Stats.FramesIn != 1 {
		t.Errorf("Stats = %+v, want one frame each way", st.Stats)
	}

	// The snapshot is a copy; mutating it must not affect the tracker.
	st.Stats.FramesOut = 99
	if trk.Snapshot().Stats.FramesOut != 1 {
		t.Error("Snapshot should return a copy")
	}
}

// =============================================================================
// CONCURRENCY TESTS
// =============================================================================

func TestTracker_ConcurrentAccess(t *testing.T) {
	trk := NewTracker("id")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				trk.RecordOutbound()
				trk.RecordEvent(protocol.Event{Kind: protocol.EventTextDelta, Text: "x"})
				trk.Snapshot()
			}
		}()
	}
	wg.Wait()

	st := trk.Snapshot()
	if st.Stats.FramesOut != 800 {
		t.Errorf("FramesOut = %d, want 800", st.Stats.FramesOut)
	}
	if st.Stats.FramesIn != 800 {
		t.Errorf("FramesIn = %d, want 800", st.Stats.FramesIn)
	}
}

// =============================================================================
// FORMAT TESTS
// =============================================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"zero", 0, "0s"},
		{"seconds", 42 * time.Second, "42s"},
		{"exact minute", time.Minute, "1m"},
		{"minute and seconds", 90 * time.Second, "1m 30s"},
		{"many minutes", 10 * time.Minute, "10m"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatDuration(tc.d); got != tc.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tc.d, got, tc.want)
			}
		})
	}
}
