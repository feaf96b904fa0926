// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for linepatch.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/linepatch/internal/diff"
	"github.com/jeranaias/linepatch/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete linepatch configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Cost model used by compute, verify and stats
	Costs CostsConfig `toml:"costs" json:"costs"`

	// Human and machine output settings
	Output OutputConfig `toml:"output" json:"output"`

	// Patch archive settings
	Store StoreConfig `toml:"store" json:"store"`

	// Watch mode settings
	Watch WatchConfig `toml:"watch" json:"watch"`
}

// CostsConfig holds the tunable edit costs.
type CostsConfig struct {
	// BaseCost is charged per Delete and added to the byte length of every
	// inserted or substituted line
	BaseCost int `toml:"base_cost" json:"base_cost"`
	// MultiBaseCost is the flat price of deleting two or more consecutive lines
	MultiBaseCost int `toml:"multi_base_cost" json:"multi_base_cost"`
}

// OutputConfig controls how results are presented.
type OutputConfig struct {
	// Color is "auto" (TTY detection), "always" or "never"
	Color string `toml:"color" json:"color"`
	// JSON makes every command print a JSON envelope by default
	JSON bool `toml:"json" json:"json"`
}

// StoreConfig controls the SQLite patch archive.
type StoreConfig struct {
	// Path of the database file (empty = ~/.linepatch/patches.db)
	Path string `toml:"path" json:"path"`
	// MaxRecords prunes the oldest patches beyond this count (0 = unlimited)
	MaxRecords int `toml:"max_records" json:"max_records"`
}

// WatchConfig controls the watch command.
type WatchConfig struct {
	// DebounceMs is how long to wait after the last change before recomputing
	DebounceMs int `toml:"debounce_ms" json:"debounce_ms"`
}

// Debounce returns the debounce interval as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMs) * time.Millisecond
}

// Model returns the cost model described by the configuration.
func (c *Config) Model() diff.Costs {
	return diff.Costs{Base: c.Costs.BaseCost, MultiBase: c.Costs.MultiBaseCost}
}

// CurrentVersion is the configuration schema version.
const CurrentVersion = "1"

// Default returns a configuration with built-in defaults.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Costs: CostsConfig{
			BaseCost:      diff.DefaultBaseCost,
			MultiBaseCost: diff.DefaultMultiBaseCost,
		},
		Output: OutputConfig{
			Color: "auto",
		},
		Store: StoreConfig{
			MaxRecords: 500,
		},
		Watch: WatchConfig{
			DebounceMs: 300,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the linepatch configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".linepatch"), nil
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

// StorePath returns the archive database path, resolving the default.
func (c *Config) StorePath() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "patches.db"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from ~/.linepatch. Tries TOML first, then JSON,
// and falls back to defaults. Environment overrides are applied last.
func Load() (*Config, error) {
	tomlPath, err := ConfigPathTOML()
	if err == nil && fileExists(tomlPath) {
		return LoadFromPath(tomlPath)
	}

	jsonPath, err := ConfigPathJSON()
	if err == nil && fileExists(jsonPath) {
		return LoadFromPath(jsonPath)
	}

	cfg := Default()
	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path. Files ending
// in .json are decoded as JSON, everything else as TOML. Missing keys keep
// their default values.
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

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes cfg to ~/.linepatch/config.toml.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes cfg as TOML to path atomically.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.WriteFileAtomic(path, buf.Bytes(), 0600); err != nil {
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

	if err := c.Model().Validate(); err != nil {
		errs = append(errs, ValidationError{
			Field:   "costs",
			Message: strings.TrimPrefix(err.Error(), diff.ErrInvalidCosts.Error()+": "),
		})
	}

	validColors := map[string]bool{"auto": true, "always": true, "never": true}
	if !validColors[strings.ToLower(c.Output.Color)] {
		errs = append(errs, ValidationError{
			Field:   "output.color",
			Message: fmt.Sprintf("invalid value '%s', must be one of: auto, always, never", c.Output.Color),
		})
	}

	if c.Store.MaxRecords < 0 {
		errs = append(errs, ValidationError{
			Field:   "store.max_records",
			Message: fmt.Sprintf("must not be negative, got %d", c.Store.MaxRecords),
		})
	}

	if c.Watch.DebounceMs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "watch.debounce_ms",
			Message: fmt.Sprintf("must be positive, got %d", c.Watch.DebounceMs),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported environment variables:
//   - LINEPATCH_BASE_COST: overrides costs.base_cost
//   - LINEPATCH_MULTI_BASE_COST: overrides costs.multi_base_cost
//   - LINEPATCH_COLOR: overrides output.color
//   - LINEPATCH_STORE: overrides store.path
//
// Values that do not parse are ignored and reported on stderr.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("LINEPATCH_BASE_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Costs.BaseCost = n
		} else {
			fmt.Fprintf(os.Stderr, "Warning: ignoring LINEPATCH_BASE_COST=%q: %v\n", v, err)
		}
	}

	if v := os.Getenv("LINEPATCH_MULTI_BASE_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Costs.MultiBaseCost = n
		} else {
			fmt.Fprintf(os.Stderr, "Warning: ignoring LINEPATCH_MULTI_BASE_COST=%q: %v\n", v, err)
		}
	}

	if v := os.Getenv("LINEPATCH_COLOR"); v != "" {
		c.Output.Color = v
	}

	if v := os.Getenv("LINEPATCH_STORE"); v != "" {
		c.Store.Path = v
	}
}

// =============================================================================
// GET HELPER (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using the TOML key path, e.g.
// "costs.base_cost".
func (c *Config) Get(key string) (interface{}, error) {
	if key == "" {
		return nil, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}

		if i == len(parts)-1 {
			return field.Interface(), nil
		}

		if field.Kind() != reflect.Struct {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}

	return nil, fmt.Errorf("invalid key: %s", key)
}

// fieldByTag finds the struct field whose toml tag is name.
func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag := strings.Split(t.Field(i).Tag.Get("toml"), ",")[0]
		if tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// Keys returns every leaf key in dot notation.
func Keys() []string {
	var keys []string
	var walk func(t reflect.Type, prefix string)
	walk = func(t reflect.Type, prefix string) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := prefix + strings.Split(f.Tag.Get("toml"), ",")[0]
			if f.Type.Kind() == reflect.Struct {
				walk(f.Type, name+".")
				continue
			}
			keys = append(keys, name)
		}
	}
	walk(reflect.TypeOf(Config{}), "")
	return keys
}

// String returns the configuration as indented JSON for display.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
