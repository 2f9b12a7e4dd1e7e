// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - Single question command handler for the uplink CLI.
//
// Handles "uplink ask", which opens a session, sends one message, streams
// the reply to stdout, and exits when the turn completes.
//
// Command: ask [question]
//
// Examples:
//   uplink ask "What changed in this release?"
//   uplink ask "describe this screenshot" --file shot.png
//   git diff | uplink ask "review this change"
//   uplink ask --raw "print the JSON schema" > schema.md
//
// Flags:
//   -f, --file PATH   Attach an image or video (repeatable)
//   --raw             Stream plain text even when stdout is a TTY
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/uplink-tui/internal/config"
	"github.com/jeranaias/uplink-tui/internal/media"
	"github.com/jeranaias/uplink-tui/internal/protocol"
	"github.com/jeranaias/uplink-tui/internal/transport"
)

const (
	// connectTimeout bounds the initial dial.
	connectTimeout = 10 * time.Second

	// turnTimeout bounds one complete ask turn, tools included.
	turnTimeout = 5 * time.Minute
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer renders the finished reply when stdout is a TTY.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		// Plain text fallback.
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown for terminal display, falling back to the
// original text when rendering fails.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	rendered, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}

// =============================================================================
// ASK HANDLER
// =============================================================================

// HandleAskCommand runs a one-shot question against the configured backend.
func HandleAskCommand(args Args) error {
	cfg, err := loadCLIConfig(args)
	if err != nil {
		return err
	}

	question := args.Query

	// No argument: accept a piped question on stdin.
	if question == "" && !IsTTY() {
		reader := bufio.NewReader(os.Stdin)
		data, err := io.ReadAll(reader)
		if err == nil && len(data) > 0 {
			question = strings.TrimSpace(string(data))
			if !args.Quiet {
				fmt.Fprintf(os.Stderr, "%s Read question from stdin (%d bytes)\n",
					InfoStyle.Render("[+]"), len(data))
			}
		}
	}

	if question == "" {
		return ErrMissingArgument("question", `uplink ask "your question"`)
	}

	atts, err := loadAttachments(args, cfg)
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
		return NewCommandError("ask", "connect", cfg.Server.URL, err)
	}
	defer sess.Close()

	if err := sess.Send(question, atts); err != nil {
		return NewCommandError("ask", "send", "message not delivered", err)
	}

	// On a TTY the reply is collected and rendered as markdown once the
	// turn finishes. Piped output streams raw deltas so the text arrives
	// as it is produced.
	streaming := args.Subcommand == "raw" || !IsStdoutTTY()

	reply, err := collectReply(sess, args, streaming)
	if err != nil {
		return err
	}

	if !streaming {
		fmt.Print(renderMarkdown(reply))
	} else if !strings.HasSuffix(reply, "\n") {
		fmt.Println()
	}
	return nil
}

// collectReply consumes events until the turn's done frame. In streaming
// mode deltas go straight to stdout; otherwise the accumulated done text is
// returned for rendering.
func collectReply(sess *transport.Session, args Args, streaming bool) (string, error) {
	timeout := time.NewTimer(turnTimeout)
	defer timeout.Stop()

	var streamed strings.Builder

	for {
		select {
		case ev, ok := <-sess.Events():
			if !ok {
				if err := sess.Err(); err != nil {
					return "", NewCommandError("ask", "receive", "connection lost", err)
				}
				return "", fmt.Errorf("connection closed before the reply finished")
			}

			switch ev.Kind {
			case protocol.EventThinking:
				if ev.Status && !args.Quiet && !streaming {
					fmt.Fprintln(os.Stderr, DimStyle.Render("thinking..."))
				}

			case protocol.EventTextDelta:
				if streaming {
					fmt.Print(ev.Text)
				}
				streamed.WriteString(ev.Text)

			case protocol.EventToolStart:
				if !args.Quiet {
					fmt.Fprintf(os.Stderr, "%s %s\n",
						WarningStyle.Render("[tool]"), ev.ToolName)
				}

			case protocol.EventToolEnd:
				if !args.Quiet && ev.Result != "" {
					fmt.Fprintf(os.Stderr, "  %s\n", DimStyle.Render(ev.Result))
				}

			case protocol.EventNewTurn:
				if streaming && streamed.Len() > 0 {
					fmt.Print("\n\n")
				}
				if streamed.Len() > 0 {
					streamed.WriteString("\n\n")
				}

			case protocol.EventDone:
				// The done frame carries the authoritative full text.
				if ev.Text != "" {
					return ev.Text, nil
				}
				return streamed.String(), nil

			case protocol.EventError:
				return "", fmt.Errorf("agent error: %s", ev.Message)
			}

		case <-timeout.C:
			return "", fmt.Errorf("ask timed out after %s", turnTimeout)
		}
	}
}

// loadAttachments reads the --file arguments into media attachments.
// The combined size shares the per-file limit, same as the chat view's
// staging budget.
func loadAttachments(args Args, cfg *config.Config) ([]media.Attachment, error) {
	limit := cfg.MaxAttachmentBytes()
	var atts []media.Attachment
	for _, path := range args.Files {
		att, err := media.FromFile(path, limit)
		if err != nil {
			return nil, WrapError(err, "attach "+path)
		}
		if media.TotalSize(atts)+att.Size > limit {
			return nil, &ValidationError{
				Field:   "file",
				Value:   path,
				Reason:  "total attachments exceed the size limit",
				Example: "raise media.max_attachment_mb or attach fewer files",
			}
		}
		if !args.Quiet {
			fmt.Fprintf(os.Stderr, "%s Attaching %s\n",
				InfoStyle.Render("[+]"), att.Label())
		}
		atts = append(atts, att)
	}
	return atts, nil
}

// loadCLIConfig loads the configuration and applies global flag overrides.
func loadCLIConfig(args Args) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, WrapError(err, "load config")
	}
	if args.Server != "" {
		cfg.Server.URL = args.Server
	}
	if args.NoColor {
		cfg.UI.NoColor = true
		ForceColorsEnabled(false)
	}
	return cfg, nil
}
