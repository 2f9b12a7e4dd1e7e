// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// server.go - WebSocket stub agent server speaking the uplink frame protocol.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jeranaias/uplink-tui/internal/protocol"
	"github.com/jeranaias/uplink-tui/internal/util"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr is the default listen address, matching the client's
	// default server URL.
	DefaultAddr = "127.0.0.1:8000"

	// DefaultDeltaRate is the streaming pace in deltas per second.
	DefaultDeltaRate = 40

	// writeTimeout bounds every socket write.
	writeTimeout = 10 * time.Second

	// readTimeout is the read deadline, refreshed by pongs.
	readTimeout = 60 * time.Second

	// pingInterval is the keepalive ping cadence. Must be shorter than
	// readTimeout on the peer.
	pingInterval = 20 * time.Second

	// toolResultPreviewRunes caps the result text sent in a tool_end
	// event. The full result only feeds the reply composition.
	toolResultPreviewRunes = 200

	// maxInboundFrame caps an inbound frame (text plus base64 media).
	maxInboundFrame = 64 << 20
)

// ============================================================================
// CONFIGURATION
// ============================================================================

// Config configures the stub server.
type Config struct {
	// Addr is the listen address. Defaults to DefaultAddr.
	Addr string

	// AgentName is the display name woven into scripted replies.
	AgentName string

	// DeltaRate is the streaming pace in text deltas per second.
	// Defaults to DefaultDeltaRate.
	DeltaRate float64

	// Logger receives request and session logs. Defaults to a console
	// writer on stderr.
	Logger *zerolog.Logger
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the stub agent backend.
type Server struct {
	cfg      Config
	log      zerolog.Logger
	upgrader websocket.Upgrader
	httpSrv  *http.Server

	wg sync.WaitGroup

	// Counters for the shutdown log line.
	connections atomic.Int64
	turns       atomic.Int64
}

// New creates a stub server. Start or Handler make it serve.
func New(cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.AgentName == "" {
		cfg.AgentName = "Agent"
	}
	if cfg.DeltaRate <= 0 {
		cfg.DeltaRate = DefaultDeltaRate
	}

	var logger zerolog.Logger
	if cfg.Logger != nil {
		logger = *cfg.Logger
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
			With().Timestamp().Logger()
	}

	return &Server{
		cfg: cfg,
		log: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  1024,
			HandshakeTimeout: 10 * time.Second,
			// Local development tool; any origin may connect.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler builds the HTTP router. Exposed separately from Start so tests
// can mount it on httptest.Server.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(RecoveryMiddleware(s.log))
	r.Use(LoggingMiddleware(s.log))
	r.Get("/health", s.handleHealth)
	r.Get("/ws/{sessionID}", s.handleWS)
	return r
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	s.httpSrv = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info().Str("addr", s.cfg.Addr).Str("agent", s.cfg.AgentName).Msg("stub agent server listening")
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for active sessions to
// drain, bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.httpSrv != nil {
		err = s.httpSrv.Shutdown(ctx)
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}

	s.log.Info().
		Int64("connections", s.connections.Load()).
		Int64("turns", s.turns.Load()).
		Msg("stub agent server stopped")
	return err
}

// ============================================================================
// HEALTH
// ============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// ============================================================================
// WEBSOCKET SESSION
// ============================================================================

// wsConn pairs a connection with its write lock. Turn streaming and the
// keepalive pinger write concurrently; gorilla allows one writer at a time.
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

// writeEvent sends one protocol event. HTML escaping is off to mirror the
// client encoder: reply text travels verbatim.
func (c *wsConn) writeEvent(ev protocol.Event) error {
	data, err := protocol.EncodeEvent(ev)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

func (c *wsConn) closeNormal() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = c.conn.Close()
}

// clientFrame is the inbound wire shape, the union of the message and
// clear frames the client sends.
type clientFrame struct {
	Type  string                  `json:"type"`
	Text  string                  `json:"text"`
	Media []protocol.MediaPayload `json:"media"`
}

// turn is one user/assistant exchange kept in the per-connection history.
type turn struct {
	UserText  string
	ReplyText string
	Tools     int
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "missing session id", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		s.log.Warn().Err(err).Str("session", sessionID).Msg("upgrade failed")
		return
	}

	s.connections.Add(1)
	slog := s.log.With().Str("session", sessionID).Logger()
	slog.Info().Msg("session connected")

	c := &wsConn{conn: conn}
	conn.SetReadLimit(maxInboundFrame)
	_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(readTimeout))
	})

	done := make(chan struct{})
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := c.ping(); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	// History is per connection, same as one browser tab in the hosted
	// deployment. A reconnect starts blank.
	var history []turn
	limiter := rate.NewLimiter(rate.Limit(s.cfg.DeltaRate), 1)

	s.wg.Add(1)
	defer func() {
		close(done)
		c.closeNormal()
		slog.Info().Int("turns", len(history)).Msg("session closed")
		s.wg.Done()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Warn().Err(err).Msg("read failed")
			}
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(readTimeout))

		var frame clientFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			slog.Warn().Err(err).Msg("malformed frame skipped")
			continue
		}

		switch frame.Type {
		case "clear":
			history = nil
			if err := c.writeEvent(protocol.Event{Kind: protocol.EventCleared}); err != nil {
				return
			}
			slog.Info().Msg("history cleared")

		case "message":
			s.turns.Add(1)
			t, err := s.runTurn(r.Context(), c, limiter, frame, len(history))
			if err != nil {
				slog.Warn().Err(err).Msg("turn aborted")
				return
			}
			history = append(history, t)

		default:
			// Unknown frame types are skipped for forward compatibility,
			// mirroring the client's handling of unknown events.
			slog.Debug().Str("type", frame.Type).Msg("unknown frame ignored")
		}
	}
}

// ============================================================================
// TURN EXECUTION
// ============================================================================

// runTurn plays one scripted assistant turn. Socket write errors abort the
// connection; everything else is reported as an error event and the
// connection stays up, matching the hosted backend's per-turn error scope.
func (s *Server) runTurn(ctx context.Context, c *wsConn, limiter *rate.Limiter, frame clientFrame, turnIndex int) (turn, error) {
	t := turn{UserText: frame.Text}

	if err := c.writeEvent(protocol.Event{Kind: protocol.EventThinking, Status: true}); err != nil {
		return t, err
	}
	// The hosted backend always closes the thinking indicator, even on a
	// failed turn.
	defer func() {
		_ = c.writeEvent(protocol.Event{Kind: protocol.EventThinking, Status: false})
	}()

	toolOutputs, err := s.runTools(c, frame.Text, turnIndex)
	if err != nil {
		return t, err
	}
	t.Tools = len(toolOutputs)

	// After tools the backend starts a fresh message; the boundary event
	// tells the client not to glue the reply onto pre-tool text.
	if len(toolOutputs) > 0 {
		if err := c.writeEvent(protocol.Event{Kind: protocol.EventNewTurn}); err != nil {
			return t, err
		}
	}

	reply, perr := s.composeReply(frame, toolOutputs, turnIndex)
	if perr != nil {
		if err := c.writeEvent(protocol.Event{Kind: protocol.EventError, Message: perr.Error()}); err != nil {
			return t, err
		}
		return t, nil
	}
	t.ReplyText = reply

	for _, word := range splitDeltas(reply) {
		if err := limiter.Wait(ctx); err != nil {
			return t, err
		}
		if err := c.writeEvent(protocol.Event{Kind: protocol.EventTextDelta, Text: word}); err != nil {
			return t, err
		}
	}

	return t, c.writeEvent(protocol.Event{Kind: protocol.EventDone, Text: reply})
}

// toolOutput is one executed demo tool.
type toolOutput struct {
	Name   string
	Result string
}

// runTools inspects the user text and runs the demo tools it calls for.
// Each invocation is reported with tool_start and tool_end events; the
// tool_end result is truncated to a short preview like the hosted backend.
func (s *Server) runTools(c *wsConn, text string, turnIndex int) ([]toolOutput, error) {
	var outputs []toolOutput
	emit := func(name, result string) error {
		id := fmt.Sprintf("tool_%d_%d", turnIndex, len(outputs))
		if err := c.writeEvent(protocol.Event{Kind: protocol.EventToolStart, ToolID: id, ToolName: name}); err != nil {
			return err
		}
		if err := c.writeEvent(protocol.Event{
			Kind:   protocol.EventToolEnd,
			ToolID: id,
			Result: util.TruncateRunes(result, toolResultPreviewRunes),
		}); err != nil {
			return err
		}
		outputs = append(outputs, toolOutput{Name: name, Result: result})
		return nil
	}

	lower := strings.ToLower(text)
	if strings.Contains(lower, "time") || strings.Contains(lower, "date") {
		if err := emit("get_current_time", time.Now().Format("Monday, January 2 2006, 15:04:05 MST")); err != nil {
			return outputs, err
		}
	}

	if expr, ok := extractExpression(text); ok {
		val, err := evalExpression(expr)
		result := ""
		if err != nil {
			result = "error: " + err.Error()
		} else {
			result = expr + " = " + formatNumber(val)
		}
		if werr := emit("calculator", result); werr != nil {
			return outputs, werr
		}
	}

	return outputs, nil
}

// composeReply builds the scripted assistant text for one turn.
func (s *Server) composeReply(frame clientFrame, tools []toolOutput, turnIndex int) (string, error) {
	text := strings.TrimSpace(frame.Text)
	if text == "" && len(frame.Media) == 0 {
		return "", errors.New("empty message")
	}

	var sb strings.Builder

	if len(frame.Media) > 0 {
		fmt.Fprintf(&sb, "I received %d attachment", len(frame.Media))
		if len(frame.Media) > 1 {
			sb.WriteString("s")
		}
		sb.WriteString(": ")
		for i, m := range frame.Media {
			if i > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "a %s (%s, %s decoded)", m.Type, m.MediaType, util.FormatBytes(decodedSize(m.Data)))
		}
		sb.WriteString(". ")
	}

	switch {
	case len(tools) > 0:
		for i, out := range tools {
			if i > 0 {
				sb.WriteString(" ")
			}
			fmt.Fprintf(&sb, "I used %s: %s.", out.Name, out.Result)
		}
	case text != "":
		fmt.Fprintf(&sb, "You said: %q. ", util.TruncateRunes(text, 120))
		fmt.Fprintf(&sb, "I am %s, the uplink stub agent, and this is turn %d of our conversation. "+
			"Ask me for the time or give me an arithmetic expression to see tool calls in action.",
			s.cfg.AgentName, turnIndex+1)
	}

	return sb.String(), nil
}

// splitDeltas breaks a reply into word-level deltas, each carrying its
// trailing space so concatenation reproduces the original text exactly.
func splitDeltas(text string) []string {
	var deltas []string
	start := 0
	for i, r := range text {
		if r == ' ' || r == '\n' {
			deltas = append(deltas, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		deltas = append(deltas, text[start:])
	}
	return deltas
}

// decodedSize estimates the byte size of base64 data without decoding it.
func decodedSize(b64 string) int64 {
	n := int64(len(b64))
	padding := int64(strings.Count(b64, "="))
	return n/4*3 - padding
}
