// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// OpsPilot is a terminal client for the fleet analytics chat service.
//
// Usage:
//
//	opspilot            Start the full-screen TUI
//	opspilot --plain    Start the plain-terminal REPL
//	opspilot --version  Print version and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fleetops/opspilot-tui/internal/analytics"
	"github.com/fleetops/opspilot-tui/internal/cli"
	"github.com/fleetops/opspilot-tui/internal/config"
	"github.com/fleetops/opspilot-tui/internal/search"
	"github.com/fleetops/opspilot-tui/internal/session"
	"github.com/fleetops/opspilot-tui/internal/store"
	"github.com/fleetops/opspilot-tui/internal/ui/chat"
)

// Version is stamped by the build.
var Version = "dev"

func main() {
	plain := flag.Bool("plain", false, "use the plain-terminal REPL instead of the TUI")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("opspilot " + Version)
		return
	}

	if err := run(*plain); err != nil {
		fmt.Fprintln(os.Stderr, "opspilot:", err)
		os.Exit(1)
	}
}

func run(plain bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	dir, err := cfg.Dir()
	if err != nil {
		return err
	}

	st, err := store.New(dir)
	if err != nil {
		return err
	}

	// The TUI owns stdout, so diagnostics go to a file
	if f, ferr := os.OpenFile(filepath.Join(dir, "opspilot.log"),
		os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644); ferr == nil {
		log.SetOutput(f)
		defer f.Close()
	}

	client := analytics.NewClientWithConfig(&analytics.ClientConfig{
		BaseURL:           cfg.API.BaseURL,
		Timeout:           cfg.Timeout(),
		RequestsPerSecond: cfg.API.RequestsPerSecond,
		Burst:             cfg.API.Burst,
	})

	mgr := session.NewManager(st, client)

	// Search is best effort; a broken index never blocks the chat
	ix, err := search.Open(filepath.Join(dir, "search.db"))
	if err == nil {
		if rerr := ix.Rebuild(mgr.Chats()); rerr != nil {
			log.Printf("search index rebuild failed: %v", rerr)
			ix.Close()
			ix = nil
		}
	} else {
		log.Printf("search index unavailable: %v", err)
		ix = nil
	}
	if ix != nil {
		defer ix.Close()
	}

	if plain {
		return cli.NewREPL(mgr, ix, dir).Run(context.Background())
	}

	program := tea.NewProgram(
		chat.New(mgr, ix, st, cfg),
		tea.WithAltScreen(),
	)

	// Hot-reload UI settings when the config file changes
	if path, perr := config.Path(); perr == nil {
		if w, werr := config.NewWatcher(path, func(next *config.Config) {
			program.Send(chat.ConfigReloadedMsg{
				SidebarWidth:    next.UI.SidebarWidth,
				ShowSuggestions: next.UI.ShowSuggestions,
			})
		}); werr == nil {
			if w.Watch() == nil {
				defer w.Close()
			}
		}
	}

	_, err = program.Run()
	return err
}
