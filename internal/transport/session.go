// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package transport maintains the WebSocket session to the agent backend.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jeranaias/uplink-tui/internal/media"
	"github.com/jeranaias/uplink-tui/internal/protocol"
)

// =============================================================================
// TIMING CONSTANTS
// =============================================================================

const (
	// handshakeTimeout bounds the HTTP upgrade.
	handshakeTimeout = 10 * time.Second

	// writeWait bounds a single frame write.
	writeWait = 10 * time.Second

	// pongWait is how long a silent peer stays alive. Refreshed by pongs.
	pongWait = 60 * time.Second

	// pingPeriod is the keepalive interval. Must be under pongWait.
	pingPeriod = 20 * time.Second

	// maxFrameBytes caps inbound frames. done frames carry the full reply
	// text, so this is generous.
	maxFrameBytes = 1 << 20

	// eventBuffer decouples the read pump from a momentarily busy UI.
	eventBuffer = 64
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config holds session configuration.
type Config struct {
	// ServerURL is the backend origin. http(s) and ws(s) schemes are both
	// accepted; http is treated as ws and https as wss.
	ServerURL string

	// HealthTimeout bounds the /health probe (default: 5s).
	HealthTimeout time.Duration
}

// session lifecycle states.
const (
	stateNew = iota
	stateConnected
	stateClosed
)

// =============================================================================
// SESSION
// =============================================================================

// Session is a single-use WebSocket connection to the agent backend.
// Safe for concurrent use: writes are serialized, reads happen on an
// internal pump feeding Events().
type Session struct {
	id     string
	wsURL  string
	origin string
	health time.Duration

	mu      sync.Mutex
	state   int
	conn    *websocket.Conn
	pumping bool

	events    chan protocol.Event
	done      chan struct{}
	closeOnce sync.Once

	errMu sync.Mutex
	err   error

	malformed atomic.Int64
}

// New builds a session with a fresh ID. The socket is not dialed yet.
func New(cfg Config) (*Session, error) {
	wsURL, origin, err := deriveURLs(cfg.ServerURL)
	if err != nil {
		return nil, err
	}

	health := cfg.HealthTimeout
	if health <= 0 {
		health = 5 * time.Second
	}

	id := uuid.NewString()
	return &Session{
		id:     id,
		wsURL:  wsURL + "/ws/" + id,
		origin: origin,
		health: health,
		events: make(chan protocol.Event, eventBuffer),
		done:   make(chan struct{}),
	}, nil
}

// deriveURLs normalizes the configured origin into a ws:// base and an
// http:// origin for the health endpoint.
func deriveURLs(raw string) (wsBase, httpOrigin string, err error) {
	if raw == "" {
		return "", "", fmt.Errorf("server URL is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parse server URL: %w", err)
	}

	switch u.Scheme {
	case "ws", "http":
		u.Scheme = "ws"
	case "wss", "https":
		u.Scheme = "wss"
	default:
		return "", "", fmt.Errorf("server URL %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return "", "", fmt.Errorf("server URL %q has no host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""

	ws := *u
	httpU := *u
	if ws.Scheme == "ws" {
		httpU.Scheme = "http"
	} else {
		httpU.Scheme = "https"
	}
	return ws.String(), httpU.String(), nil
}

// ID returns the generated session ID.
func (s *Session) ID() string {
	return s.id
}

// URL returns the full socket URL this session dials.
func (s *Session) URL() string {
	return s.wsURL
}

// MalformedFrames returns how many inbound frames failed to decode and were
// skipped.
func (s *Session) MalformedFrames() int64 {
	return s.malformed.Load()
}

// =============================================================================
// CONNECT / CLOSE
// =============================================================================

// Connect dials the socket and starts the read pump and keepalive pinger.
// A session connects at most once.
func (s *Session) Connect(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case stateConnected:
		s.mu.Unlock()
		return ErrAlreadyConnected
	case stateClosed:
		s.mu.Unlock()
		return ErrSessionClosed
	}
	s.mu.Unlock()

	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
	}
	conn, resp, err := dialer.DialContext(ctx, s.wsURL, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.wsURL, err)
	}

	conn.SetReadLimit(maxFrameBytes)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	s.mu.Lock()
	if s.state == stateClosed {
		// Close raced the dial. Drop the fresh socket politely.
		s.mu.Unlock()
		conn.Close()
		return ErrSessionClosed
	}
	s.conn = conn
	s.state = stateConnected
	// From here the pump owns close(s.events); Close must not touch it.
	s.pumping = true
	s.mu.Unlock()

	go s.readPump(conn)
	go s.pingLoop(conn)
	return nil
}

// Close ends the session. Safe to call at any time and more than once.
// A never-connected session closes its Events channel immediately.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		wasConnected := s.state == stateConnected
		s.state = stateClosed
		conn := s.conn
		pumping := s.pumping
		s.mu.Unlock()

		close(s.done)
		if wasConnected && conn != nil {
			// Polite close handshake; the pump exits on the read error.
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			conn.Close()
		}
		if !pumping {
			// The pump closes Events once it has started, even if the
			// peer already dropped the socket. Only a session that never
			// connected closes the channel here.
			close(s.events)
		}
	})
	return nil
}

// Events returns the inbound event stream. The channel closes when the
// session ends; check Err() afterwards for the cause.
func (s *Session) Events() <-chan protocol.Event {
	return s.events
}

// Err reports why the session ended. It is nil for a locally requested
// Close and meaningful only after Events() has closed.
func (s *Session) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *Session) setErr(err error) {
	s.errMu.Lock()
	s.err = err
	s.errMu.Unlock()
}

// closedLocally reports whether Close has been called.
func (s *Session) closedLocally() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// =============================================================================
// READ PUMP
// =============================================================================

// readPump decodes inbound frames until the socket ends, then records the
// terminal error and closes Events.
func (s *Session) readPump(conn *websocket.Conn) {
	defer close(s.events)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			s.setErr(s.terminalError(err))
			s.mu.Lock()
			if s.state == stateConnected {
				s.state = stateClosed
			}
			s.mu.Unlock()
			conn.Close()
			return
		}

		ev, err := protocol.DecodeEvent(data)
		if err != nil {
			// Malformed frame: skip it, the stream continues.
			s.malformed.Add(1)
			continue
		}

		select {
		case s.events <- ev:
		case <-s.done:
			return
		}
	}
}

// terminalError classifies the read error that ended the session.
func (s *Session) terminalError(err error) error {
	if s.closedLocally() {
		return nil
	}
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) {
		return &DisconnectError{Code: closeErr.Code, Reason: closeErr.Text, Err: err}
	}
	return &DisconnectError{Err: err}
}

// pingLoop keeps the connection alive until the session ends.
func (s *Session) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			deadline := time.Now().Add(writeWait)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}

// =============================================================================
// OUTBOUND FRAMES
// =============================================================================

// Send transmits a user message with optional attachments.
func (s *Session) Send(text string, atts []media.Attachment) error {
	frame := protocol.NewMessageFrame(text, media.Payloads(atts))
	return s.writeFrame(frame)
}

// SendClear asks the server to wipe the conversation. The local transcript
// is wiped when the cleared event comes back, not here.
func (s *Session) SendClear() error {
	return s.writeFrame(protocol.NewClearFrame())
}

// writeFrame serializes one outbound frame under the write lock.
func (s *Session) writeFrame(frame any) error {
	data, err := protocol.EncodeFrame(frame)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != stateConnected || s.conn == nil {
		return ErrNotConnected
	}
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	return nil
}

// =============================================================================
// HEALTH
// =============================================================================

// healthResponse is the /health body.
type healthResponse struct {
	Status string `json:"status"`
}

// Health probes the backend's health endpoint over plain HTTP.
// Works before Connect; useful for the startup check and `uplink health`.
func (s *Session) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.health)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.origin+"/health", nil)
	if err != nil {
		return fmt.Errorf("health request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("health probe: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health probe: unexpected status %s", resp.Status)
	}
	var body healthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("health probe: decode: %w", err)
	}
	if body.Status != "ok" {
		return fmt.Errorf("health probe: backend reports %q", body.Status)
	}
	return nil
}
