// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// serve.go - Built-in demo server command handler for the uplink CLI.
//
// Handles "uplink serve", which runs the stub agent backend so the client
// can be exercised without a hosted deployment.
//
// Examples:
//   uplink serve
//   uplink serve --addr 0.0.0.0:8000
//   uplink serve --delta-rate 100
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/jeranaias/uplink-tui/internal/server"
)

// shutdownGrace bounds the drain of live sessions on Ctrl+C.
const shutdownGrace = 10 * time.Second

// HandleServeCommand runs the stub agent server until interrupted.
func HandleServeCommand(args Args) error {
	cfg, err := loadCLIConfig(args)
	if err != nil {
		return err
	}

	addr := cfg.Serve.Addr
	if args.Addr != "" {
		addr = args.Addr
	}
	deltaRate := cfg.Serve.DeltaRate
	if args.DeltaRate > 0 {
		deltaRate = args.DeltaRate
	}

	logger := serveLogger(args)
	srv := server.New(server.Config{
		Addr:      addr,
		AgentName: cfg.Agent.Name,
		DeltaRate: deltaRate,
		Logger:    &logger,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		if err != nil {
			return NewCommandError("serve", "listen", addr, err)
		}
		return nil

	case sig := <-sigCh:
		if !args.Quiet {
			fmt.Fprintf(os.Stderr, "\n%s %s received, shutting down\n",
				DimStyle.Render("[serve]"), sig)
		}
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

// serveLogger builds the server's logger honoring --quiet and --verbose.
func serveLogger(args Args) zerolog.Logger {
	level := zerolog.InfoLevel
	if args.Verbose {
		level = zerolog.DebugLevel
	}
	if args.Quiet {
		level = zerolog.WarnLevel
	}

	if args.JSON {
		return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(level).With().Timestamp().Logger()
}
