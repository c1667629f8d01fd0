// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for mcpchat.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Backend.BaseURL != Default().Backend.BaseURL {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
}

func TestLoadFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `version = "1.0"

[backend]
base_url = "http://example.com:9000"
model = "qwen"
timeout_secs = 60

[ui]
theme = "dark"
markdown_width = 80
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Backend.BaseURL != "http://example.com:9000" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.Backend.Model != "qwen" {
		t.Errorf("Model = %q", cfg.Backend.Model)
	}
	if cfg.Backend.TimeoutSecs != 60 {
		t.Errorf("TimeoutSecs = %d", cfg.Backend.TimeoutSecs)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
	// Unspecified values keep their defaults.
	if cfg.Backend.RateLimitPerSec != Default().Backend.RateLimitPerSec {
		t.Errorf("RateLimitPerSec = %v", cfg.Backend.RateLimitPerSec)
	}
}

func TestLoadRejectsBadTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("[ui]\ntheme = \"neon\"\n"), 0o600)

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "ui.theme") {
		t.Errorf("error = %v, want ui.theme mentioned", err)
	}
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Backend.BaseURL = "not a url"
	cfg.Backend.TimeoutSecs = -1
	cfg.UI.Theme = "neon"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected errors")
	}
	errs, ok := err.(ValidateErrors)
	if !ok {
		t.Fatalf("error type = %T", err)
	}
	if len(errs) != 3 {
		t.Errorf("errors = %d, want 3: %v", len(errs), errs)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("MCPCHAT_BACKEND_URL", "http://override:1234")
	t.Setenv("MCPCHAT_THEME", "light")

	cfg, err := LoadFromPath(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.Backend.BaseURL != "http://override:1234" {
		t.Errorf("BaseURL = %q", cfg.Backend.BaseURL)
	}
	if cfg.UI.Theme != "light" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := Default()
	cfg.Backend.Model = "saved-model"
	cfg.UI.CollapseToolResults = false

	if err := SaveToPath(cfg, path); err != nil {
		t.Fatalf("SaveToPath: %v", err)
	}
	loaded, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if loaded.Backend.Model != "saved-model" {
		t.Errorf("Model = %q", loaded.Backend.Model)
	}
	if loaded.UI.CollapseToolResults {
		t.Error("CollapseToolResults = true, want false")
	}
}
