// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for uplink.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - ServerConfig: Agent backend connection settings
//   - UIConfig: Terminal UI settings
//   - Watcher: Hot-reload watcher for the config file
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (UPLINK_*, NO_COLOR)
//   - ~/.uplink/config.toml
//   - ~/.uplink/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	serverURL := cfg.Server.URL
//	limit := cfg.MaxAttachmentBytes()
package config
