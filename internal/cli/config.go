// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config.go - Config command implementation for linepatch.
//
// Command: config [subcommand]
// Short:   Inspect or create the configuration file
//
// Subcommands:
//   show (default)      Display the effective configuration
//   get <key>           Print a single value (e.g. costs.base_cost)
//   path                Show configuration and archive locations
//   init [--force]      Write a config.toml holding the defaults
//
// Examples:
//   linepatch config                       Show current config
//   linepatch config get costs.multi_base_cost
//   linepatch config init                  Create ~/.linepatch/config.toml
//   linepatch --json config show           Config in JSON format

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/linepatch/internal/config"
)

const configUsage = "linepatch config [show | get <key> | path | init [--force]]"

// HandleConfig handles the "config" command.
func HandleConfig(env *Env) error {
	p := NewArgParser(env.Args.Raw, "json", "force")
	jsonMode := env.JSON || p.BoolFlag("json")

	switch sub := strings.ToLower(p.Subcommand()); sub {
	case "", "show":
		return handleConfigShow(env, jsonMode)
	case "get":
		key := p.Positional(1)
		if key == "" {
			return ErrMissingArgument("key", "linepatch config get costs.base_cost")
		}
		return handleConfigGet(env, key, jsonMode)
	case "path":
		return handleConfigPath(env, jsonMode)
	case "init":
		return handleConfigInit(env, p.BoolFlag("force"), jsonMode)
	default:
		return NewValidationErrorWithExample("subcommand", sub, "unknown config subcommand", configUsage)
	}
}

func handleConfigShow(env *Env, jsonMode bool) error {
	if jsonMode {
		return NewJSONResponse("config", env.Config).Write(env.Stdout)
	}

	fmt.Fprintln(env.Stdout, TitleStyle.Render("linepatch configuration"))
	for _, key := range config.Keys() {
		val, err := env.Config.Get(key)
		if err != nil {
			return err
		}
		if s, ok := val.(string); ok && s == "" {
			val = DimStyle.Render("(default)")
		}
		fmt.Fprintln(env.Stdout, LabelStyle.Width(26).Render(key)+toString(val))
	}
	return nil
}

func handleConfigGet(env *Env, key string, jsonMode bool) error {
	val, err := env.Config.Get(key)
	if err != nil {
		return NewNotFoundError("config key", key)
	}
	if jsonMode {
		return NewJSONResponse("config", map[string]interface{}{key: val}).Write(env.Stdout)
	}
	fmt.Fprintln(env.Stdout, toString(val))
	return nil
}

func handleConfigPath(env *Env, jsonMode bool) error {
	tomlPath, err := config.ConfigPathTOML()
	if err != nil {
		return &ConfigError{Err: err}
	}
	jsonPath, err := config.ConfigPathJSON()
	if err != nil {
		return &ConfigError{Err: err}
	}
	storePath, err := env.Config.StorePath()
	if err != nil {
		return &ConfigError{Err: err}
	}

	data := ConfigPathData{TOML: tomlPath, JSON: jsonPath, Store: storePath}
	if env.Args.ConfigPath != "" {
		data.TOML = env.Args.ConfigPath
	}

	if jsonMode {
		return NewJSONResponse("config", data).Write(env.Stdout)
	}
	fmt.Fprintln(env.Stdout, RenderField("Config (TOML):", data.TOML))
	fmt.Fprintln(env.Stdout, RenderField("Config (JSON):", data.JSON))
	fmt.Fprintln(env.Stdout, RenderField("Patch archive:", data.Store))
	return nil
}

func handleConfigInit(env *Env, force, jsonMode bool) error {
	path := env.Args.ConfigPath
	if path == "" {
		var err error
		if path, err = config.ConfigPathTOML(); err != nil {
			return &ConfigError{Err: err}
		}
	}

	if _, err := os.Stat(path); err == nil && !force {
		return NewValidationErrorWithExample("config", path, "file already exists", "linepatch config init --force")
	}

	if err := config.SaveTOML(config.Default(), path); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	env.Log.Printf("wrote default configuration to %s", path)

	if jsonMode {
		return NewJSONResponse("config", map[string]string{"created": path}).Write(env.Stdout)
	}
	fmt.Fprintf(env.Stdout, "%s wrote %s\n", RenderStatus("ok"), path)
	return nil
}
