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

package organizer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/ZaparooProject/guessfilename/pkg/helpers/syncutil"
	"github.com/charlievieth/fastwalk"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// Collect expands paths into a sorted list of regular files. Files are
// taken as given, directories contribute their files, and with recursive
// set the files of all subdirectories too. Paths that do not exist are
// logged and skipped.
func (o *Organizer) Collect(ctx context.Context, paths []string, recursive bool) ([]string, error) {
	seen := make(map[string]struct{})
	var mu syncutil.Mutex
	add := func(path string) {
		mu.Lock()
		seen[filepath.Clean(path)] = struct{}{}
		mu.Unlock()
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err //nolint:wrapcheck // context cancellation
		}

		info, err := o.fs.Stat(p)
		if err != nil {
			log.Warn().Err(err).Str("path", p).Msg("skipping path")
			continue
		}

		switch {
		case info.Mode().IsRegular():
			add(p)
		case !info.IsDir():
			log.Warn().Str("path", p).Msg("not a regular file or directory, skipping")
		case recursive:
			if err := o.walk(ctx, p, add); err != nil {
				return nil, err
			}
		default:
			if err := o.readDir(p, add); err != nil {
				return nil, err
			}
		}
	}

	files := make([]string, 0, len(seen))
	for f := range seen {
		files = append(files, f)
	}
	slices.Sort(files)
	return files, nil
}

func (o *Organizer) readDir(dir string, add func(string)) error {
	infos, err := afero.ReadDir(o.fs, dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}
	for _, info := range infos {
		if info.Mode().IsRegular() {
			add(filepath.Join(dir, info.Name()))
		}
	}
	return nil
}

// walk visits every file below root. On the real filesystem fastwalk
// does the traversal, it calls add from several goroutines.
func (o *Organizer) walk(ctx context.Context, root string, add func(string)) error {
	if _, ok := o.fs.(*afero.OsFs); ok {
		conf := fastwalk.Config{Follow: false}
		err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("error walking directory")
				return nil
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr //nolint:wrapcheck // context cancellation
			}
			if d.Type().IsRegular() {
				add(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to walk %s: %w", root, err)
		}
		return nil
	}

	err := afero.Walk(o.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("error walking directory")
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr //nolint:wrapcheck // context cancellation
		}
		if info.Mode().IsRegular() {
			add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return nil
}
