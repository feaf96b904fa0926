// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/linepatch/internal/config"
	"github.com/jeranaias/linepatch/internal/store"
)

// Env carries everything a command handler needs. Handlers never touch
// os.Stdout or the global config directly so they can be exercised in tests.
type Env struct {
	Args   Args
	Config *config.Config
	JSON   bool // --json or output.json in the config file
	Color  bool // Style human output and highlight previews

	Stdout io.Writer
	Stderr io.Writer

	// Log receives diagnostics; it discards them unless --verbose is set
	Log *log.Logger
}

// NewEnv loads the configuration named by args (or the default location)
// and configures colors and logging.
func NewEnv(args Args) (*Env, error) {
	var (
		cfg *config.Config
		err error
	)
	if args.ConfigPath != "" {
		cfg, err = config.LoadFromPath(args.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, &ConfigError{Path: args.ConfigPath, Err: err}
	}

	env := &Env{
		Args:   args,
		Config: cfg,
		JSON:   args.JSON || cfg.Output.JSON,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Log:    newLogger(os.Stderr, args.Verbose),
	}

	env.Color = resolveColors(cfg.Output.Color, args.NoColor, env.Stdout)
	lipgloss.SetColorProfile(colorProfile(env.Color))

	env.Log.Printf("config loaded (costs base=%d multi=%d)", cfg.Costs.BaseCost, cfg.Costs.MultiBaseCost)
	return env, nil
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	if !verbose {
		w = io.Discard
	}
	return log.New(w, "linepatch: ", log.Ltime)
}

// openStore opens the patch archive configured for env.
func (e *Env) openStore(ctx context.Context) (*store.Store, error) {
	path, err := e.Config.StorePath()
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	e.Log.Printf("opening patch archive %s", path)
	return store.Open(ctx, path)
}
