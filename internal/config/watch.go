// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for mcpchat.
package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads the config file whenever it changes and delivers the new
// config on the returned channel. Reload failures are swallowed: the last
// good config stays in effect. Watch returns when ctx is cancelled.
//
// The parent directory is watched rather than the file itself, so atomic
// save-by-rename (which replaces the inode) keeps working.
func Watch(ctx context.Context, path string) (<-chan *Config, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	updates := make(chan *Config, 1)
	go func() {
		defer watcher.Close()
		defer close(updates)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				cfg, err := LoadFromPath(path)
				if err != nil {
					continue
				}
				// Drop a stale pending update in favor of the newest.
				select {
				case updates <- cfg:
				default:
					select {
					case <-updates:
					default:
					}
					updates <- cfg
				}
			case _, ok := <-watcher.Errors:
				if !ok {
					return
				}
			}
		}
	}()

	return updates, nil
}
