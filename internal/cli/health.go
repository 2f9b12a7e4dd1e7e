// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// health.go - Backend health probe command handler for the uplink CLI.
//
// Handles "uplink health", which hits the backend's /health endpoint and
// reports reachability. Exit code 0 means healthy; scripts can rely on it.
//
// Examples:
//   uplink health
//   uplink health --json
//   uplink health --server wss://agent.example.com
package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/jeranaias/uplink-tui/internal/transport"
)

// HandleHealthCommand probes the configured backend.
func HandleHealthCommand(args Args) error {
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

	start := time.Now()
	probeErr := sess.Health(context.Background())
	latency := time.Since(start)

	if args.JSON {
		status := "ok"
		detail := ""
		if probeErr != nil {
			status = "unreachable"
			detail = probeErr.Error()
		}
		fmt.Printf("{\"status\":%q,\"server\":%q,\"latency_ms\":%d,\"error\":%q}\n",
			status, cfg.Server.URL, latency.Milliseconds(), detail)
		if probeErr != nil {
			return probeErr
		}
		return nil
	}

	if probeErr != nil {
		fmt.Printf("%s %s\n", RenderStatus("fail"), cfg.Server.URL)
		return NewCommandError("health", "probe", cfg.Server.URL, probeErr)
	}

	fmt.Printf("%s %s (%s)\n", RenderStatus("ok"), cfg.Server.URL, latency.Round(time.Millisecond))
	return nil
}
