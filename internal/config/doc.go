// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for mcpchat.
//
// Configuration is TOML with sensible defaults, environment variable
// overrides, and validation. File location: ~/.mcpchat/config.toml. A
// watcher can reload the file on change so theme and backend settings apply
// without restarting the TUI.
package config
