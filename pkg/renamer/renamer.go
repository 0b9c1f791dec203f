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

// Package renamer performs the one side effect of the tool: renaming a
// file inside its directory after checking that this is safe.
package renamer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ErrInvalidName is returned for target names that are empty or would
// move the file to another directory.
var ErrInvalidName = errors.New("invalid file name")

type Renamer struct {
	fs     afero.Fs
	dryRun bool
}

// New returns a Renamer working on fs. With dryRun set every check is
// performed but nothing is renamed.
func New(fs afero.Fs, dryRun bool) *Renamer {
	return &Renamer{fs: fs, dryRun: dryRun}
}

// DryRun reports whether renames are only simulated.
func (r *Renamer) DryRun() bool {
	return r.dryRun
}

// Rename renames dir/oldName to dir/newName. It returns false, and no
// error, when the names are identical, the source is missing or not a
// regular file, or the target already exists. Any other failure is
// returned as an error.
func (r *Renamer) Rename(dir, oldName, newName string) (bool, error) {
	if newName == "" || newName != filepath.Base(newName) || strings.ContainsRune(newName, '/') {
		return false, fmt.Errorf("%w: %q", ErrInvalidName, newName)
	}

	if oldName == newName {
		log.Debug().Str("name", oldName).Msg("old and new name are identical, skipping")
		return false, nil
	}

	src := filepath.Join(dir, oldName)
	dst := filepath.Join(dir, newName)

	info, err := r.fs.Stat(src)
	if errors.Is(err, os.ErrNotExist) {
		log.Warn().Str("path", src).Msg("file to rename does not exist, skipping")
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("failed to stat %s: %w", src, err)
	}
	if !info.Mode().IsRegular() {
		log.Warn().Str("path", src).Msg("not a regular file, skipping")
		return false, nil
	}

	_, err = r.fs.Stat(dst)
	if err == nil {
		log.Warn().Str("path", dst).Msg("target file already exists, skipping")
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("failed to stat %s: %w", dst, err)
	}

	if r.dryRun {
		log.Info().Str("old", oldName).Str("new", newName).Msg("would rename (dry run)")
		return true, nil
	}

	if err := r.fs.Rename(src, dst); err != nil {
		return false, fmt.Errorf("failed to rename %s: %w", src, err)
	}
	log.Info().Str("old", oldName).Str("new", newName).Msg("renamed")

	return true, nil
}
