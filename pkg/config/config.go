// Guessfilename
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Guessfilename.
//
// Guessfilename is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Guessfilename is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Guessfilename.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZaparooProject/guessfilename/pkg/helpers/syncutil"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	SchemaVersion = 1
	CfgEnv        = "GUESSFILENAME_CFG"
)

// ErrSchemaMismatch is returned by Load for files written by another
// config schema version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

type Values struct {
	Keywords     Keywords     `toml:"keywords,omitempty"`
	Plausibility Plausibility `toml:"plausibility"`
	ConfigSchema int          `toml:"config_schema"`
	DebugLogging bool         `toml:"debug_logging"`
}

var BaseDefaults = Values{
	ConfigSchema: SchemaVersion,
	Plausibility: Plausibility{
		Tolerance: 0.1,
		Rate: []QualityRate{
			{Quality: "Q1A", MinBytesPerSecond: 20_000, MaxBytesPerSecond: 100_000},
			{Quality: "Q4A", MinBytesPerSecond: 60_000, MaxBytesPerSecond: 250_000},
			{Quality: "Q6A", MinBytesPerSecond: 150_000, MaxBytesPerSecond: 600_000},
			{Quality: "Q8C", MinBytesPerSecond: 250_000, MaxBytesPerSecond: 1_000_000},
		},
	},
}

type Instance struct {
	fs       afero.Fs
	cfgPath  string
	vals     Values
	defaults Values
	mu       syncutil.RWMutex
}

// NewConfig loads the config file from configDir, or from the path in
// GUESSFILENAME_CFG when set. A missing file is created from defaults.
//
//nolint:gocritic // config struct copied for immutability
func NewConfig(fs afero.Fs, configDir string, defaults Values) (*Instance, error) {
	cfgPath := os.Getenv(CfgEnv)
	log.Debug().Msgf("env config path: %s", cfgPath)

	if cfgPath == "" {
		cfgPath = filepath.Join(configDir, CfgFile)
	}

	return newInstance(fs, cfgPath, defaults)
}

// NewConfigAt is NewConfig for an explicit file path, used by the -config
// flag.
//
//nolint:gocritic // config struct copied for immutability
func NewConfigAt(fs afero.Fs, cfgPath string, defaults Values) (*Instance, error) {
	return newInstance(fs, cfgPath, defaults)
}

//nolint:gocritic // config struct copied for immutability
func newInstance(fs afero.Fs, cfgPath string, defaults Values) (*Instance, error) {
	cfg := Instance{
		fs:       fs,
		cfgPath:  cfgPath,
		vals:     defaults,
		defaults: defaults,
	}

	exists, err := afero.Exists(fs, cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if !exists {
		log.Info().Msg("saving new default config to disk")

		err := fs.MkdirAll(filepath.Dir(cfgPath), 0o750)
		if err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}

		err = cfg.Save()
		if err != nil {
			return nil, err
		}
	}

	err = cfg.Load()
	if err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Instance) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	data, err := afero.ReadFile(c.fs, c.cfgPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then unmarshal file values on top.
	// This ensures fields not present in the file retain their default values.
	newVals := c.defaults
	newVals.Keywords = Keywords{}
	newVals.Plausibility.Rate = nil
	err = toml.Unmarshal(data, &newVals)
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if newVals.Plausibility.Rate == nil {
		newVals.Plausibility.Rate = c.defaults.Plausibility.Rate
	}

	if newVals.ConfigSchema != SchemaVersion {
		log.Error().Msgf(
			"schema version mismatch: got %d, expecting %d",
			newVals.ConfigSchema,
			SchemaVersion,
		)
		return ErrSchemaMismatch
	}

	if err := validateValues(&newVals); err != nil {
		return fmt.Errorf("invalid config %s: %w", c.cfgPath, err)
	}

	c.vals = newVals
	log.Info().
		Str("path", c.cfgPath).
		Int("keyword_rules", len(c.vals.Keywords.Rule)).
		Int("quality_rates", len(c.vals.Plausibility.Rate)).
		Msg("loaded config")

	return nil
}

func (c *Instance) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfgPath == "" {
		return errors.New("config path not set")
	}

	// set current schema version
	c.vals.ConfigSchema = SchemaVersion

	data, err := toml.Marshal(&c.vals)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := afero.WriteFile(c.fs, c.cfgPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Path is the config file this instance reads and writes.
func (c *Instance) Path() string {
	return c.cfgPath
}

func (c *Instance) DebugLogging() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.DebugLogging
}

func (c *Instance) SetDebugLogging(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.DebugLogging = enabled
	if enabled {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
