// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Configuration command handler for the uplink CLI.
//
// Handles "uplink config" with the show/get/set/path subcommands.
//
// Examples:
//   uplink config show
//   uplink config get server.url
//   uplink config set ui.theme light
//   uplink config set server.url ws://localhost:9000
//   uplink config path
package cli

import (
	"fmt"

	"github.com/jeranaias/uplink-tui/internal/config"
)

// HandleConfigCommand dispatches the config subcommands.
func HandleConfigCommand(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return configShow(args)
	case "get":
		return configGet(args)
	case "set":
		return configSet(args)
	case "path":
		return configPath(args)
	default:
		return NewValidationError("subcommand", args.Subcommand,
			"expected show, get, set, or path")
	}
}

func configShow(args Args) error {
	cfg, err := loadCLIConfig(args)
	if err != nil {
		return err
	}

	if args.JSON {
		fmt.Println(cfg.String())
		return nil
	}

	fmt.Println(TitleStyle.Render("uplink configuration"))
	for _, key := range config.GetAllKeys() {
		val, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Printf("%s %s\n", LabelStyle.Render(key), ValueStyle.Render(fmt.Sprintf("%v", val)))
	}
	return nil
}

func configGet(args Args) error {
	if args.ConfigKey == "" {
		return ErrMissingArgument("key", "uplink config get server.url")
	}

	cfg, err := loadCLIConfig(args)
	if err != nil {
		return err
	}

	val, err := cfg.Get(args.ConfigKey)
	if err != nil {
		return &NotFoundError{Resource: "config key", ID: args.ConfigKey}
	}

	if args.JSON {
		fmt.Printf("{%q: %q}\n", args.ConfigKey, fmt.Sprintf("%v", val))
		return nil
	}
	fmt.Printf("%v\n", val)
	return nil
}

func configSet(args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return ErrMissingArgument("key and value", "uplink config set ui.theme light")
	}

	// Overrides from --server must not leak into the saved file, so the
	// file is loaded without them.
	cfg, err := config.Load()
	if err != nil {
		return WrapError(err, "load config")
	}

	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return NewValidationError(args.ConfigKey, args.ConfigVal, err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return NewValidationError(args.ConfigKey, args.ConfigVal, err.Error())
	}

	if err := config.Save(cfg); err != nil {
		return WrapError(err, "save config")
	}

	if !args.Quiet {
		fmt.Printf("%s %s = %s\n", SuccessStyle.Render("[OK]"), args.ConfigKey, args.ConfigVal)
	}
	return nil
}

func configPath(args Args) error {
	path, err := config.ConfigPathTOML()
	if err != nil {
		return WrapError(err, "resolve config path")
	}
	fmt.Println(path)
	return nil
}
