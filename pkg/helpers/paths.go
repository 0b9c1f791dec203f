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
	"github.com/adrg/xdg"
	"github.com/spf13/afero"
)

// Paths are the directories the tool reads config from and writes logs to.
type Paths struct {
	ConfigDir string
	LogDir    string
}

// DefaultPaths uses the XDG base directories.
func DefaultPaths() Paths {
	return Paths{
		ConfigDir: filepath.Join(xdg.ConfigHome, config.AppName),
		LogDir:    filepath.Join(xdg.StateHome, config.AppName),
	}
}

// RulesDir is where additional keyword rule files are picked up from.
func (p Paths) RulesDir() string {
	return filepath.Join(p.ConfigDir, config.RulesDir)
}

// EnsureDirectories creates the config and log directories.
func EnsureDirectories(fs afero.Fs, p Paths) error {
	if err := fs.MkdirAll(p.ConfigDir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := fs.MkdirAll(p.LogDir, 0o750); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	return nil
}
