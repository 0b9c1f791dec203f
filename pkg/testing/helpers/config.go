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

package helpers

import (
	"fmt"
	"path/filepath"

	"github.com/ZaparooProject/guessfilename/pkg/config"
)

// NewTestConfig creates a config instance on the helper's filesystem
// with default values, written to configDir. Rules are appended to the
// keyword rules of the defaults.
func NewTestConfig(fs *FSHelper, configDir string, rules ...config.KeywordRule) (*config.Instance, error) {
	vals := config.BaseDefaults
	vals.Keywords.Rule = append([]config.KeywordRule(nil), rules...)

	if err := fs.CreateConfigFile(filepath.Join(configDir, config.CfgFile), vals); err != nil {
		return nil, err
	}

	cfg, err := config.NewConfigAt(fs.Fs, filepath.Join(configDir, config.CfgFile), config.BaseDefaults)
	if err != nil {
		return nil, fmt.Errorf("failed to create test config: %w", err)
	}
	return cfg, nil
}
