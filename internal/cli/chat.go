// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive REPL command handler for the uplink CLI.
//
// Handles "uplink chat", a line-oriented alternative to the TUI for
// terminals where the full-screen interface is unwanted (ssh sessions,
// screen readers, logs).
//
// In-session commands:
//   /clear              Wipe server-side conversation history
//   /attach PATH        Attach a file to the next message
//   /help               Show available commands
//   /quit               Exit (Ctrl+D also works)
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/peterh/liner"

	"github.com/jeranaias/uplink-tui/internal/config"
	"github.com/jeranaias/uplink-tui/internal/media"
	"github.com/jeranaias/uplink-tui/internal/protocol"
	"github.com/jeranaias/uplink-tui/internal/session"
	"github.com/jeranaias/uplink-tui/internal/transport"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI wraps liner with persistent input history.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a line editor with history loaded from the config dir.
func NewChatCLI(cfg *config.Config) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	historyFile, err := cfg.HistoryPath()
	if err != nil {
		historyFile = ""
	}

	cli := &ChatCLI{line: line, historyFile: historyFile}
	cli.loadHistory()
	return cli
}

func (c *ChatCLI) loadHistory() {
	if c.historyFile == "" {
		return
	}
	if f, err := os.Open(c.historyFile); err == nil {
		_, _ = c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads a line with history navigation.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close persists history and releases the terminal.
func (c *ChatCLI) Close() {
	if c.historyFile != "" {
		if err := config.EnsureConfigDir(); err == nil {
			// History may hold pasted content; keep it owner-only.
			if f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err == nil {
				_, _ = c.line.WriteHistory(f)
				f.Close()
			}
		}
	}
	c.line.Close()
}

// =============================================================================
// CHAT HANDLER
// =============================================================================

// HandleChatCommand runs the interactive REPL against the configured backend.
func HandleChatCommand(args Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}

	cfg, err := loadCLIConfig(args)
	if err != nil {
		return err
	}

	sess, err := transport.New(transport.Config{
		ServerURL:     cfg.Server.URL,
		HealthTimeout: time.Duration(cfg.Server.HealthTimeoutSecs) * time.Second,
	})
	if err != nil {
		return WrapError(err, "invalid server URL")
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := sess.Connect(ctx); err != nil {
		return NewCommandError("chat", "connect", cfg.Server.URL, err)
	}
	defer sess.Close()

	tracker := session.NewTracker(sess.ID())

	if !args.Quiet {
		printChatWelcome(cfg, sess)
	}

	input := NewChatCLI(cfg)
	defer input.Close()

	var pending []media.Attachment

	for {
		line, err := input.ReadInput("> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				fmt.Println(DimStyle.Render("(interrupted; /quit to exit)"))
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Println()
				printChatSummary(tracker)
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			quit, err := runChatCommand(line, sess, cfg, &pending, tracker)
			if err != nil {
				fmt.Println(ErrorStyle.Render("[ERROR]"), err.Error())
			}
			if quit {
				printChatSummary(tracker)
				return nil
			}
			continue
		}

		tracker.BeginTurn()
		if err := sess.Send(line, pending); err != nil {
			return NewCommandError("chat", "send", "message not delivered", err)
		}
		tracker.RecordOutbound()
		pending = nil

		if err := streamChatReply(sess, cfg, args, tracker); err != nil {
			if transport.IsDisconnect(err) || errors.Is(err, transport.ErrSessionClosed) {
				return NewCommandError("chat", "receive", "connection lost", err)
			}
			// Per-turn agent errors keep the REPL running.
			fmt.Println(ErrorStyle.Render("[ERROR]"), err.Error())
			continue
		}
	}
}

// runChatCommand executes a /command line. Returns true to exit the REPL.
func runChatCommand(line string, sess *transport.Session, cfg *config.Config, pending *[]media.Attachment, tracker *session.Tracker) (bool, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/q", "/exit":
		return true, nil

	case "/help", "/h":
		fmt.Println(DimStyle.Render("  /clear          wipe server-side history"))
		fmt.Println(DimStyle.Render("  /attach PATH    attach a file to the next message"))
		fmt.Println(DimStyle.Render("  /quit           exit (Ctrl+D also works)"))
		return false, nil

	case "/clear", "/c":
		if err := sess.SendClear(); err != nil {
			return false, err
		}
		if err := awaitCleared(sess); err != nil {
			return false, err
		}
		tracker.Touch()
		fmt.Println(DimStyle.Render("history cleared"))
		return false, nil

	case "/attach":
		if len(fields) < 2 {
			return false, ErrMissingArgument("path", "/attach screenshot.png")
		}
		att, err := media.FromFile(fields[1], cfg.MaxAttachmentBytes())
		if err != nil {
			return false, err
		}
		*pending = append(*pending, att)
		fmt.Printf("%s %s\n", InfoStyle.Render("[+]"), att.Label())
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", fields[0])
	}
}

// streamChatReply prints one assistant turn as it streams.
func streamChatReply(sess *transport.Session, cfg *config.Config, args Args, tracker *session.Tracker) error {
	timeout := time.NewTimer(turnTimeout)
	defer timeout.Stop()

	printed := false

	for {
		select {
		case ev, ok := <-sess.Events():
			if !ok {
				if err := sess.Err(); err != nil {
					return err
				}
				return transport.ErrSessionClosed
			}
			tracker.RecordEvent(ev)

			switch ev.Kind {
			case protocol.EventThinking:
				if ev.Status && !args.Quiet {
					fmt.Println(DimStyle.Render("thinking..."))
				}

			case protocol.EventTextDelta:
				if !printed {
					fmt.Printf("%s ", InfoStyle.Render(cfg.Agent.Name+":"))
					printed = true
				}
				fmt.Print(ev.Text)

			case protocol.EventToolStart:
				fmt.Printf("%s %s\n", WarningStyle.Render("[tool]"), ev.ToolName)

			case protocol.EventToolEnd:
				if ev.Result != "" {
					fmt.Printf("  %s\n", DimStyle.Render(ev.Result))
				}

			case protocol.EventNewTurn:
				if printed {
					fmt.Print("\n\n")
					printed = false
				}

			case protocol.EventDone:
				if printed {
					fmt.Println()
				}
				fmt.Println()
				return nil

			case protocol.EventError:
				if printed {
					fmt.Println()
				}
				return fmt.Errorf("agent error: %s", ev.Message)
			}

		case <-timeout.C:
			return fmt.Errorf("reply timed out after %s", turnTimeout)
		}
	}
}

// awaitCleared waits for the server's cleared confirmation.
func awaitCleared(sess *transport.Session) error {
	timeout := time.NewTimer(10 * time.Second)
	defer timeout.Stop()

	for {
		select {
		case ev, ok := <-sess.Events():
			if !ok {
				if err := sess.Err(); err != nil {
					return err
				}
				return transport.ErrSessionClosed
			}
			if ev.Kind == protocol.EventCleared {
				return nil
			}
			// Any event from an in-flight turn is dropped; the server
			// clears history after finishing it.

		case <-timeout.C:
			return fmt.Errorf("clear was not confirmed")
		}
	}
}

func printChatWelcome(cfg *config.Config, sess *transport.Session) {
	fmt.Println(TitleStyle.Render("uplink chat"))
	fmt.Printf("%s %s\n", LabelStyle.Render("Server"), ValueStyle.Render(cfg.Server.URL))
	fmt.Printf("%s %s\n", LabelStyle.Render("Session"), ValueStyle.Render(sess.ID()))
	fmt.Println(DimStyle.Render("Type /help for commands, Ctrl+D to exit."))
	fmt.Println()
}

func printChatSummary(tracker *session.Tracker) {
	status := tracker.Snapshot()
	fmt.Printf("%s %d turns in %s\n",
		DimStyle.Render("session:"),
		status.Stats.Turns,
		session.FormatDuration(status.Duration))
}
