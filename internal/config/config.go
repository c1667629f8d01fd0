// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for mcpchat.
package config

import (
	"bytes"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/mcpchat-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config is the complete mcpchat configuration.
type Config struct {
	Version string `toml:"version"`

	Backend BackendConfig `toml:"backend"`
	UI      UIConfig      `toml:"ui"`
	Storage StorageConfig `toml:"storage"`
	Archive ArchiveConfig `toml:"archive"`
}

// BackendConfig points the client at the chat backend.
type BackendConfig struct {
	// BaseURL is the chat backend endpoint.
	BaseURL string `toml:"base_url"`
	// Model is the model identifier sent with each request.
	Model string `toml:"model"`
	// TimeoutSecs bounds one streaming request end to end. 0 means no limit.
	TimeoutSecs int `toml:"timeout_secs"`
	// RateLimitPerSec caps outgoing requests per second.
	RateLimitPerSec float64 `toml:"rate_limit_per_sec"`
}

// UIConfig holds terminal UI preferences.
type UIConfig struct {
	// Theme is "dark", "light" or "auto".
	Theme string `toml:"theme"`
	// MarkdownWidth is the wrap width for rendered markdown. 0 = terminal width.
	MarkdownWidth int `toml:"markdown_width"`
	// CollapseToolResults starts tool-result blocks collapsed.
	CollapseToolResults bool `toml:"collapse_tool_results"`
	// ShowThinking reveals reasoning traces by default.
	ShowThinking bool `toml:"show_thinking"`
}

// StorageConfig controls conversation persistence.
type StorageConfig struct {
	// Dir overrides the conversation directory (empty = ~/.mcpchat/conversations).
	Dir string `toml:"dir"`
	// MaxConversations prunes the oldest conversations past this count. 0 = unlimited.
	MaxConversations int `toml:"max_conversations"`
}

// ArchiveConfig controls the searchable SQLite message archive.
type ArchiveConfig struct {
	// Enabled turns on archiving of completed messages.
	Enabled bool `toml:"enabled"`
	// Path overrides the database file (empty = ~/.mcpchat/archive.db).
	Path string `toml:"path"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Version: "1.0",
		Backend: BackendConfig{
			BaseURL:         "http://localhost:8000",
			Model:           "default",
			TimeoutSecs:     300,
			RateLimitPerSec: 2,
		},
		UI: UIConfig{
			Theme:               "auto",
			MarkdownWidth:       100,
			CollapseToolResults: true,
			ShowThinking:        false,
		},
		Storage: StorageConfig{
			MaxConversations: 200,
		},
		Archive: ArchiveConfig{
			Enabled: true,
		},
	}
}

// =============================================================================
// PATHS
// =============================================================================

// ConfigDir returns the mcpchat configuration directory (~/.mcpchat).
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".mcpchat"), nil
}

// ConfigPath returns the path of the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file, applies environment overrides, fills defaults
// and validates. A missing file is not an error: defaults are returned.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath is Load with an explicit file path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg to the default config path atomically.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveToPath(cfg, path)
}

// SaveToPath writes cfg as TOML to path atomically.
func SaveToPath(cfg *Config, path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// fillDefaults replaces zero values that have no meaningful zero semantics.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = def.Backend.BaseURL
	}
	if c.Backend.Model == "" {
		c.Backend.Model = def.Backend.Model
	}
	if c.Backend.RateLimitPerSec <= 0 {
		c.Backend.RateLimitPerSec = def.Backend.RateLimitPerSec
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
	if c.UI.MarkdownWidth <= 0 {
		c.UI.MarkdownWidth = def.UI.MarkdownWidth
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides lets MCPCHAT_* environment variables override file
// values. Useful in scripts and CI.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("MCPCHAT_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("MCPCHAT_MODEL"); v != "" {
		c.Backend.Model = v
	}
	if v := os.Getenv("MCPCHAT_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Backend.TimeoutSecs = n
		}
	}
	if v := os.Getenv("MCPCHAT_THEME"); v != "" {
		c.UI.Theme = v
	}
	if v := os.Getenv("MCPCHAT_STORAGE_DIR"); v != "" {
		c.Storage.Dir = v
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes one invalid config field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors collects all validation failures.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	msgs := make([]string, len(e))
	for i, ve := range e {
		msgs[i] = ve.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks field values. All failures are reported at once.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if u, err := url.Parse(c.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "backend.base_url",
			Message: fmt.Sprintf("not a valid URL: %q", c.Backend.BaseURL),
		})
	}
	if c.Backend.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "backend.timeout_secs",
			Message: "must not be negative",
		})
	}
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("must be dark, light or auto, got %q", c.UI.Theme),
		})
	}
	if c.Storage.MaxConversations < 0 {
		errs = append(errs, ValidationError{
			Field:   "storage.max_conversations",
			Message: "must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// GLOBAL ACCESS
// =============================================================================

var (
	globalMu  sync.RWMutex
	globalCfg *Config
)

// Global returns the process-wide config, loading it on first use. Load
// failures fall back to defaults.
func Global() *Config {
	globalMu.RLock()
	if globalCfg != nil {
		defer globalMu.RUnlock()
		return globalCfg
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalCfg == nil {
		cfg, err := Load()
		if err != nil {
			cfg = Default()
		}
		globalCfg = cfg
	}
	return globalCfg
}

// SetGlobal replaces the process-wide config.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = cfg
}
