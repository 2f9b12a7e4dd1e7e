// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transcript turns the agent's event stream into an ordered
// conversation transcript.
package transcript

import (
	"time"

	"github.com/jeranaias/uplink-tui/internal/media"
	"github.com/jeranaias/uplink-tui/internal/protocol"
)

// =============================================================================
// TRANSCRIPT VALUE
// =============================================================================

// Transcript is an immutable conversation snapshot: the ordered entries plus
// the turn state machine. The zero value is a valid empty transcript.
//
// All methods have value receivers and the mutating ones return a new
// Transcript. Two snapshots never share a writable entries array.
type Transcript struct {
	entries     []Entry
	phase       Phase
	thinking    bool
	turnPending bool
}

// New returns an empty transcript in PhaseIdle.
func New() Transcript {
	return Transcript{}
}

// clone returns a copy whose entries array is private to it, with room for
// extra appended entries.
func (t Transcript) clone(extra int) Transcript {
	nt := t
	if len(t.entries) > 0 || extra > 0 {
		entries := make([]Entry, len(t.entries), len(t.entries)+extra)
		copy(entries, t.entries)
		nt.entries = entries
	}
	return nt
}

// =============================================================================
// QUERIES
// =============================================================================

// Entries returns the ordered entries. The returned slice is read-only;
// the next Apply builds a fresh array, so retained slices stay stable.
func (t Transcript) Entries() []Entry {
	return t.entries
}

// Len returns the number of entries.
func (t Transcript) Len() int {
	return len(t.entries)
}

// Last returns the final entry, if any.
func (t Transcript) Last() (Entry, bool) {
	if len(t.entries) == 0 {
		return Entry{}, false
	}
	return t.entries[len(t.entries)-1], true
}

// LastAssistantText returns the text of the most recent assistant entry.
// Used by /copy and the one-shot CLI.
func (t Transcript) LastAssistantText() (string, bool) {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i].Kind == EntryAssistant {
			return t.entries[i].Text, true
		}
	}
	return "", false
}

// Phase returns the turn state.
func (t Transcript) Phase() Phase {
	return t.phase
}

// Thinking reports the last thinking indicator the server sent.
func (t Transcript) Thinking() bool {
	return t.thinking
}

// TurnPending reports whether a turn boundary is waiting to be consumed by
// the next text delta.
func (t Transcript) TurnPending() bool {
	return t.turnPending
}

// WaitingForText reports whether the waiting indicator should show: a turn
// is in flight but no text is currently streaming.
func (t Transcript) WaitingForText() bool {
	return t.phase == PhaseAwaitingFirstToken || t.phase == PhaseToolRunning
}

// IsStreaming reports whether an assistant entry is currently open.
func (t Transcript) IsStreaming() bool {
	return t.openIndex() >= 0
}

// RunningTools counts tool entries that have not finished.
func (t Transcript) RunningTools() int {
	n := 0
	for _, e := range t.entries {
		if e.Kind == EntryTool && !e.ToolDone {
			n++
		}
	}
	return n
}

// openIndex returns the index of the open assistant entry. By construction
// the open entry is always the last one; anything appended after it closes it.
func (t Transcript) openIndex() int {
	last := len(t.entries) - 1
	if last >= 0 && t.entries[last].IsOpen() {
		return last
	}
	return -1
}

// =============================================================================
// USER ACTIONS
// =============================================================================

// AppendUser records an outbound user message and arms the waiting state.
func (t Transcript) AppendUser(text string, atts []media.Attachment) Transcript {
	nt := t.closeOpen(1)
	nt.entries = append(nt.entries, Entry{
		ID:    newEntryID(),
		Kind:  EntryUser,
		Time:  time.Now(),
		Text:  text,
		Media: atts,
	})
	nt.phase = PhaseAwaitingFirstToken
	nt.turnPending = false
	return nt
}

// AppendNotice records a local informational line. The phase is untouched;
// any open assistant entry is finalized first so the open entry stays last.
func (t Transcript) AppendNotice(text string) Transcript {
	nt := t.closeOpen(1)
	nt.entries = append(nt.entries, Entry{
		ID:   newEntryID(),
		Kind: EntryNotice,
		Time: time.Now(),
		Text: text,
	})
	return nt
}

// =============================================================================
// EVENT REDUCER
// =============================================================================

// Apply folds one inbound event into the transcript and returns the new
// snapshot. Unknown events return the receiver unchanged.
func (t Transcript) Apply(ev protocol.Event) Transcript {
	switch ev.Kind {
	case protocol.EventThinking:
		nt := t.clone(0)
		nt.thinking = ev.Status
		return nt

	case protocol.EventTextDelta:
		return t.applyDelta(ev.Text)

	case protocol.EventToolStart:
		nt := t.closeOpen(1)
		nt.entries = append(nt.entries, Entry{
			ID:       newEntryID(),
			Kind:     EntryTool,
			Time:     time.Now(),
			ToolID:   ev.ToolID,
			ToolName: ev.ToolName,
		})
		nt.phase = PhaseToolRunning
		return nt

	case protocol.EventToolEnd:
		return t.applyToolEnd(ev.ToolID, ev.Result)

	case protocol.EventNewTurn:
		nt := t.closeOpen(0)
		nt.turnPending = true
		if nt.phase == PhaseStreaming {
			nt.phase = PhaseAwaitingFirstToken
		}
		return nt

	case protocol.EventDone:
		return t.applyDone(ev.Text)

	case protocol.EventError:
		nt := t.closeOpen(1)
		nt.entries = append(nt.entries, Entry{
			ID:   newEntryID(),
			Kind: EntryError,
			Time: time.Now(),
			Text: ev.Message,
		})
		nt.phase = PhaseIdle
		nt.thinking = false
		nt.turnPending = false
		return nt

	case protocol.EventCleared:
		return New()

	default:
		return t
	}
}

// applyDelta extends the open assistant entry, or opens a new one when there
// is none or a turn boundary is pending. The boundary is consumed by exactly
// this delta.
func (t Transcript) applyDelta(text string) Transcript {
	if text == "" {
		return t
	}

	if idx := t.openIndex(); idx >= 0 && !t.turnPending {
		nt := t.clone(0)
		e := nt.entries[idx]
		e.Text += text
		nt.entries[idx] = e
		nt.phase = PhaseStreaming
		return nt
	}

	nt := t.closeOpen(1)
	nt.entries = append(nt.entries, Entry{
		ID:        newEntryID(),
		Kind:      EntryAssistant,
		Time:      time.Now(),
		Text:      text,
		Streaming: true,
	})
	nt.phase = PhaseStreaming
	nt.turnPending = false
	return nt
}

// applyToolEnd completes the matching running tool chip. Unknown or already
// finished ids leave the transcript untouched.
func (t Transcript) applyToolEnd(toolID, result string) Transcript {
	idx := -1
	for i := len(t.entries) - 1; i >= 0; i-- {
		e := t.entries[i]
		if e.Kind == EntryTool && e.ToolID == toolID && !e.ToolDone {
			idx = i
			break
		}
	}
	if idx < 0 {
		return t
	}

	nt := t.clone(0)
	e := nt.entries[idx]
	e.ToolDone = true
	e.ToolResult = result
	nt.entries[idx] = e
	if nt.phase == PhaseToolRunning && nt.RunningTools() == 0 {
		nt.phase = PhaseAwaitingFirstToken
	}
	return nt
}

// applyDone closes the turn. When the turn streamed no text but the done
// frame carries the full reply (a non-streaming backend), the full text is
// appended as a single assistant entry; otherwise the streamed text stands.
func (t Transcript) applyDone(fullText string) Transcript {
	nt := t.closeOpen(1)
	if fullText != "" && !nt.turnStreamedText() {
		nt.entries = append(nt.entries, Entry{
			ID:   newEntryID(),
			Kind: EntryAssistant,
			Time: time.Now(),
			Text: fullText,
		})
	}
	nt.phase = PhaseIdle
	nt.thinking = false
	nt.turnPending = false
	return nt
}

// turnStreamedText reports whether the current turn (entries after the last
// user message) produced any assistant text.
func (t Transcript) turnStreamedText() bool {
	for i := len(t.entries) - 1; i >= 0; i-- {
		e := t.entries[i]
		if e.Kind == EntryUser {
			return false
		}
		if e.Kind == EntryAssistant && e.Text != "" {
			return true
		}
	}
	return false
}

// closeOpen clones the transcript and finalizes the open assistant entry.
func (t Transcript) closeOpen(extra int) Transcript {
	nt := t.clone(extra)
	if idx := nt.openIndex(); idx >= 0 {
		e := nt.entries[idx]
		e.Streaming = false
		nt.entries[idx] = e
	}
	return nt
}
