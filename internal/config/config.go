// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for uplink.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.uplink/config.toml
//   - ~/.uplink/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/uplink-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete uplink configuration.
type Config struct {
	// Version is the config schema version
	Version string `toml:"version" json:"version"`

	// Server holds agent backend connection settings
	Server ServerConfig `toml:"server" json:"server"`

	// Agent holds display settings for the remote agent
	Agent AgentConfig `toml:"agent" json:"agent"`

	// UI holds terminal UI settings
	UI UIConfig `toml:"ui" json:"ui"`

	// Media holds attachment settings
	Media MediaConfig `toml:"media" json:"media"`

	// History holds REPL history settings
	History HistoryConfig `toml:"history" json:"history"`

	// Serve holds settings for the built-in demo server
	Serve ServeConfig `toml:"serve" json:"serve"`
}

// ServerConfig contains agent backend connection configuration.
type ServerConfig struct {
	// URL is the backend base URL. Accepts ws://, wss://, http:// or
	// https://; HTTP schemes are converted for the socket dial.
	URL string `toml:"url" json:"url"`
	// HealthTimeoutSecs bounds the /health probe
	HealthTimeoutSecs int `toml:"health_timeout_secs" json:"health_timeout_secs"`
}

// AgentConfig contains remote agent display configuration.
type AgentConfig struct {
	// Name is the label shown for agent messages
	Name string `toml:"name" json:"name"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme" json:"theme"`
	// ShowTimestamps prefixes transcript entries with times
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`
	// SyntaxHighlight enables code block highlighting
	SyntaxHighlight bool `toml:"syntax_highlight" json:"syntax_highlight"`
	// WordWrapCols forces a wrap width; 0 follows the terminal
	WordWrapCols int `toml:"word_wrap_cols" json:"word_wrap_cols"`

	// NoColor is derived from the NO_COLOR environment variable
	// and never persisted.
	NoColor bool `toml:"-" json:"-"`
}

// MediaConfig contains attachment configuration.
type MediaConfig struct {
	// MaxAttachmentMB caps a single attachment's file size
	MaxAttachmentMB int `toml:"max_attachment_mb" json:"max_attachment_mb"`
}

// HistoryConfig contains REPL history configuration.
type HistoryConfig struct {
	// File is the history file path (empty = ~/.uplink/history)
	File string `toml:"file" json:"file"`
	// MaxEntries caps the history file length
	MaxEntries int `toml:"max_entries" json:"max_entries"`
}

// ServeConfig contains configuration for the built-in demo server.
type ServeConfig struct {
	// Addr is the listen address
	Addr string `toml:"addr" json:"addr"`
	// DeltaRate is the streaming pace in deltas per second
	DeltaRate float64 `toml:"delta_rate" json:"delta_rate"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Server: ServerConfig{
			URL:               "ws://localhost:8000",
			HealthTimeoutSecs: 5,
		},

		Agent: AgentConfig{
			Name: "Agent",
		},

		UI: UIConfig{
			Theme:           "dark",
			ShowTimestamps:  false,
			SyntaxHighlight: true,
			WordWrapCols:    0,
		},

		Media: MediaConfig{
			MaxAttachmentMB: 10,
		},

		History: HistoryConfig{
			File:       "",
			MaxEntries: 500,
		},

		Serve: ServeConfig{
			Addr:      "127.0.0.1:8000",
			DeltaRate: 40,
		},
	}
}

// MaxAttachmentBytes returns the attachment size limit in bytes.
func (c *Config) MaxAttachmentBytes() int64 {
	return int64(c.Media.MaxAttachmentMB) << 20
}

// HistoryPath resolves the REPL history file path.
func (c *Config) HistoryPath() (string, error) {
	if c.History.File != "" {
		return c.History.File, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history"), nil
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the uplink configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".uplink"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}

	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	// Try TOML first
	tomlPath, err := ConfigPathTOML()
	if err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	// Try JSON as fallback
	jsonPath, err := ConfigPathJSON()
	if err == nil {
		if _, statErr := os.Stat(jsonPath); statErr == nil {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
			} else {
				return finishLoad(cfg)
			}
		}
	}

	// Defaults only (with any load error for informational purposes)
	cfg, err = finishLoad(cfg)
	if err != nil {
		return nil, err
	}
	return cfg, loadErr
}

// finishLoad applies overrides, migration, defaults, and validation.
func finishLoad(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	if err := cfg.Migrate(); err != nil {
		return nil, fmt.Errorf("config migration failed: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	_, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON loads configuration from a JSON file.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finishLoad(cfg)
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	// Write header comment
	fmt.Fprintln(file, "# uplink configuration file")
	fmt.Fprintln(file, "# Generated by uplink - edit with care")
	fmt.Fprintln(file, "#")
	fmt.Fprintln(file, "# Documentation: https://github.com/jeranaias/uplink")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// SaveJSON saves the configuration to a JSON file.
// Uses an atomic write with fsync so a crash cannot truncate the file.
func SaveJSON(cfg *Config, path string) error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// ==========================================================================
	// Server Settings Validation
	// ==========================================================================

	if c.Server.URL == "" {
		errs = append(errs, ValidationError{
			Field:   "server.url",
			Message: "must not be empty",
		})
	} else {
		u, err := url.Parse(c.Server.URL)
		if err != nil {
			errs = append(errs, ValidationError{
				Field:   "server.url",
				Message: fmt.Sprintf("invalid URL: %v", err),
			})
		} else {
			validSchemes := map[string]bool{"ws": true, "wss": true, "http": true, "https": true}
			if !validSchemes[strings.ToLower(u.Scheme)] {
				errs = append(errs, ValidationError{
					Field:   "server.url",
					Message: fmt.Sprintf("scheme '%s' not supported, must be one of: ws, wss, http, https", u.Scheme),
				})
			}
			if u.Host == "" {
				errs = append(errs, ValidationError{
					Field:   "server.url",
					Message: "missing host",
				})
			}
		}
	}

	if c.Server.HealthTimeoutSecs < 1 || c.Server.HealthTimeoutSecs > 60 {
		errs = append(errs, ValidationError{
			Field:   "server.health_timeout_secs",
			Message: fmt.Sprintf("must be 1-60, got %d", c.Server.HealthTimeoutSecs),
		})
	}

	// ==========================================================================
	// UI Settings Validation
	// ==========================================================================

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if c.UI.WordWrapCols != 0 && (c.UI.WordWrapCols < 20 || c.UI.WordWrapCols > 500) {
		errs = append(errs, ValidationError{
			Field:   "ui.word_wrap_cols",
			Message: fmt.Sprintf("must be 0 (follow terminal) or 20-500, got %d", c.UI.WordWrapCols),
		})
	}

	// ==========================================================================
	// Media Settings Validation
	// ==========================================================================

	if c.Media.MaxAttachmentMB < 1 || c.Media.MaxAttachmentMB > 100 {
		errs = append(errs, ValidationError{
			Field:   "media.max_attachment_mb",
			Message: fmt.Sprintf("must be 1-100, got %d", c.Media.MaxAttachmentMB),
		})
	}

	// ==========================================================================
	// History Settings Validation
	// ==========================================================================

	if c.History.MaxEntries < 0 || c.History.MaxEntries > 10000 {
		errs = append(errs, ValidationError{
			Field:   "history.max_entries",
			Message: fmt.Sprintf("must be 0-10000, got %d", c.History.MaxEntries),
		})
	}

	// ==========================================================================
	// Serve Settings Validation
	// ==========================================================================

	if _, _, err := net.SplitHostPort(c.Serve.Addr); err != nil {
		errs = append(errs, ValidationError{
			Field:   "serve.addr",
			Message: fmt.Sprintf("invalid listen address '%s': %v", c.Serve.Addr, err),
		})
	}

	if c.Serve.DeltaRate <= 0 || c.Serve.DeltaRate > 1000 {
		errs = append(errs, ValidationError{
			Field:   "serve.delta_rate",
			Message: fmt.Sprintf("must be greater than 0 and at most 1000, got %g", c.Serve.DeltaRate),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults sets default values for any missing or zero-value configuration fields.
func (c *Config) SetDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}

	// Server defaults
	if c.Server.URL == "" {
		c.Server.URL = defaults.Server.URL
	}
	if c.Server.HealthTimeoutSecs == 0 {
		c.Server.HealthTimeoutSecs = defaults.Server.HealthTimeoutSecs
	}

	// Agent defaults
	if c.Agent.Name == "" {
		c.Agent.Name = defaults.Agent.Name
	}

	// UI defaults
	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}

	// Media defaults
	if c.Media.MaxAttachmentMB == 0 {
		c.Media.MaxAttachmentMB = defaults.Media.MaxAttachmentMB
	}

	// History defaults
	if c.History.MaxEntries == 0 {
		c.History.MaxEntries = defaults.History.MaxEntries
	}

	// Serve defaults
	if c.Serve.Addr == "" {
		c.Serve.Addr = defaults.Serve.Addr
	}
	if c.Serve.DeltaRate == 0 {
		c.Serve.DeltaRate = defaults.Serve.DeltaRate
	}
}

// Migrate handles migration from old configuration formats to new ones.
func (c *Config) Migrate() error {
	// Old releases accepted "system" for the adaptive theme
	if strings.ToLower(c.UI.Theme) == "system" {
		c.UI.Theme = "auto"
	}

	// Scheme-less server URLs dial as plain WebSocket
	if c.Server.URL != "" && !strings.Contains(c.Server.URL, "://") {
		c.Server.URL = "ws://" + c.Server.URL
	}

	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - UPLINK_SERVER_URL: overrides server.url
//   - UPLINK_AGENT_NAME: overrides agent.name
//   - UPLINK_THEME: overrides ui.theme
//   - UPLINK_SERVE_ADDR: overrides serve.addr
//   - NO_COLOR: set to any value to disable color output
func (c *Config) ApplyEnvOverrides() {
	if serverURL := os.Getenv("UPLINK_SERVER_URL"); serverURL != "" {
		c.Server.URL = serverURL
	}

	if name := os.Getenv("UPLINK_AGENT_NAME"); name != "" {
		c.Agent.Name = name
	}

	if theme := os.Getenv("UPLINK_THEME"); theme != "" {
		c.UI.Theme = theme
	}

	if addr := os.Getenv("UPLINK_SERVE_ADDR"); addr != "" {
		c.Serve.Addr = addr
	}

	// Any non-empty NO_COLOR disables color, per no-color.org
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.UI.NoColor = true
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "server.url").
func (c *Config) Get(key string) (interface{}, error) {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return nil, errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})

		if !field.IsValid() {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			return field.Interface(), nil
		}

		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return nil, fmt.Errorf("invalid key: %s", key)
}

// Set sets a configuration value using dot notation (e.g., "ui.theme").
func (c *Config) Set(key string, value interface{}) error {
	parts := strings.Split(key, ".")
	if len(parts) == 0 {
		return errors.New("empty key")
	}

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)

		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})

		if !field.IsValid() {
			return fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			if !field.CanSet() {
				return fmt.Errorf("cannot set field: %s", key)
			}
			return setFieldValue(field, value)
		}

		if field.Kind() == reflect.Struct {
			v = field
		} else {
			return fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
	}

	return fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}

	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	// Handle string input with type conversion
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Float64:
			floatVal, err := strconv.ParseFloat(strVal, 64)
			if err != nil {
				return fmt.Errorf("invalid float value: %v", err)
			}
			field.SetFloat(floatVal)
			return nil
		case reflect.Bool:
			boolVal := strVal == "1" || strings.ToLower(strVal) == "true" || strings.ToLower(strVal) == "yes"
			field.SetBool(boolVal)
			return nil
		}
	}

	// Direct assignment for matching types
	val := reflect.ValueOf(value)
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}

	// Type conversion for compatible types
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}

	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"server.url",
		"server.health_timeout_secs",
		"agent.name",
		"ui.theme",
		"ui.show_timestamps",
		"ui.syntax_highlight",
		"ui.word_wrap_cols",
		"media.max_attachment_mb",
		"history.file",
		"history.max_entries",
		"serve.addr",
		"serve.delta_rate",
	}
}

// Clone creates a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// String returns a string representation of the config for display.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			// Log but don't fail - use defaults
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
// This should only be used in tests to reset state between test runs.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
