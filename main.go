// mcpchat TUI - A terminal interface for an MCP-augmented chat server.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/jeranaias/mcpchat-tui/internal/archive"
	"github.com/jeranaias/mcpchat-tui/internal/backend"
	"github.com/jeranaias/mcpchat-tui/internal/config"
	"github.com/jeranaias/mcpchat-tui/internal/storage"
	"github.com/jeranaias/mcpchat-tui/internal/ui/chat"
	"github.com/jeranaias/mcpchat-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "print version and exit")
		configPath  = flag.String("config", "", "path to config.toml (default ~/.mcpchat/config.toml)")
		backendURL  = flag.String("backend", "", "backend base URL (overrides config)")
		modelName   = flag.String("model", "", "model name (overrides config)")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("mcpchat %s (%s)\n", Version, GitCommit)
		return
	}

	if err := run(*configPath, *backendURL, *modelName); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configPath, backendURL, modelName string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("mcpchat is interactive and needs a terminal")
	}

	cfg, path, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if backendURL != "" {
		cfg.Backend.BaseURL = backendURL
	}
	if modelName != "" {
		cfg.Backend.Model = modelName
	}
	config.SetGlobal(cfg)

	client := backend.NewClientWithConfig(&backend.ClientConfig{
		BaseURL:        cfg.Backend.BaseURL,
		Timeout:        30 * time.Second,
		StreamTimeout:  time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
		Model:          cfg.Backend.Model,
		RequestsPerSec: cfg.Backend.RateLimitPerSec,
	})

	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	arch, err := openArchive(cfg)
	if err != nil {
		// The archive is an index, not the source of truth. Run without it.
		fmt.Fprintln(os.Stderr, "warning: archive disabled:", err)
		arch = nil
	}
	if arch != nil {
		defer arch.Close()
	}

	theme := styles.NewTheme(cfg.UI.Theme)
	model := chat.New(theme, chat.Options{
		Config:  cfg,
		Client:  client,
		Store:   store,
		Archive: arch,
	})

	program := tea.NewProgram(model, tea.WithAltScreen())

	// Hot-reload the config file while the TUI runs.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if reloads, err := config.Watch(ctx, path); err == nil {
		go func() {
			for cfg := range reloads {
				program.Send(chat.ConfigReloadedMsg{Config: cfg})
			}
		}()
	}

	_, err = program.Run()
	return err
}

// loadConfig resolves and loads the TOML config, returning the path used
// so it can be watched for changes.
func loadConfig(explicit string) (*config.Config, string, error) {
	path := explicit
	if path == "" {
		var err error
		path, err = config.ConfigPath()
		if err != nil {
			return nil, "", err
		}
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	dir := cfg.Storage.Dir
	if dir == "" {
		base, err := config.ConfigDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "conversations")
	}
	return storage.NewStore(dir, cfg.Storage.MaxConversations)
}

func openArchive(cfg *config.Config) (*archive.Archive, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}
	path := cfg.Archive.Path
	if path == "" {
		base, err := config.ConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(base, "archive.db")
	}
	return archive.Open(path)
}
