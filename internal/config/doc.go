// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for linepatch.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - CostsConfig: The edit cost model (base and multi-delete costs)
//   - OutputConfig: Color and JSON output preferences
//   - StoreConfig, WatchConfig: Patch archive and watch mode settings
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (LINEPATCH_*)
//   - ~/.linepatch/config.toml
//   - ~/.linepatch/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res := diff.Compute(original, target, cfg.Model())
package config
