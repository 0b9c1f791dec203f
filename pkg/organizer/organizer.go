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

// Package organizer runs the deriver over batches of files: it collects
// them, plans the renames in parallel, sets aside names that collide
// inside the batch and then applies the plan one file at a time.
package organizer

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/ZaparooProject/guessfilename/pkg/filenames/deriver"
	"github.com/ZaparooProject/guessfilename/pkg/renamer"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

type Status string

const (
	StatusUnchanged Status = "unchanged"
	StatusRename    Status = "rename"
	StatusCollision Status = "collision"
	StatusRenamed   Status = "renamed"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// MarshalCSV implements gocsv.TypeMarshaller.
func (s Status) MarshalCSV() (string, error) {
	return string(s), nil
}

// UnmarshalCSV implements gocsv.TypeUnmarshaller.
func (s *Status) UnmarshalCSV(v string) error {
	switch st := Status(v); st {
	case StatusUnchanged, StatusRename, StatusCollision,
		StatusRenamed, StatusSkipped, StatusFailed:
		*s = st
		return nil
	default:
		return fmt.Errorf("unknown status %q", v)
	}
}

// Entry is one line of a rename plan.
type Entry struct {
	Dir    string `csv:"dir"`
	Old    string `csv:"old"`
	New    string `csv:"new"`
	Rule   string `csv:"rule"`
	Status Status `csv:"status"`
	Note   string `csv:"note"`
}

// Path returns the current location of the file.
func (e *Entry) Path() string {
	return filepath.Join(e.Dir, e.Old)
}

// Summary counts plan entries by outcome.
type Summary struct {
	Unchanged  int
	Renamed    int
	Collisions int
	Skipped    int
	Failed     int
}

type Organizer struct {
	fs         afero.Fs
	deriver    *deriver.Deriver
	renamer    *renamer.Renamer
	workers    int
	checkSizes bool
}

// New returns an Organizer deriving names with d and renaming through r.
// All file access goes through fs.
func New(fs afero.Fs, d *deriver.Deriver, r *renamer.Renamer) *Organizer {
	return &Organizer{
		fs:      fs,
		deriver: d,
		renamer: r,
		workers: runtime.GOMAXPROCS(0),
	}
}

// SetCheckSizes enables the size plausibility check during planning.
// Implausible sizes are noted on the entry, the rename still goes ahead.
func (o *Organizer) SetCheckSizes(enabled bool) {
	o.checkSizes = enabled
}

// Plan derives a new name for every file in files. Derivation runs in
// parallel, the returned entries keep the order of files. Targets that
// are claimed by more than one file of the batch are marked as
// collisions and left alone.
func (o *Organizer) Plan(ctx context.Context, files []string) ([]Entry, error) {
	entries := make([]Entry, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err //nolint:wrapcheck // context cancellation
			}
			entries[i] = o.planFile(file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("planning renames: %w", err)
	}

	markCollisions(entries)
	return entries, nil
}

func (o *Organizer) planFile(path string) Entry {
	dir, name := filepath.Split(path)
	dir = filepath.Clean(dir)

	res := o.deriver.DeriveResult(name)
	entry := Entry{
		Dir:    dir,
		Old:    name,
		New:    res.Filename,
		Rule:   res.Rule,
		Status: StatusRename,
	}
	if !res.Changed(name) {
		entry.Status = StatusUnchanged
	}

	if !o.checkSizes {
		return entry
	}

	info, err := o.fs.Stat(path)
	if err != nil {
		log.Debug().Err(err).Str("path", path).Msg("could not stat file for size check")
		return entry
	}
	if err := o.deriver.CheckSize(name, info.Size()); err != nil {
		entry.Note = err.Error()
		log.Warn().Err(err).Str("path", path).Msg("implausible file size")
	}

	return entry
}

// markCollisions flags every rename whose target is already owned by
// another file of the batch. Files that keep their name own it first,
// after that the earliest entry wins.
func markCollisions(entries []Entry) {
	owners := make(map[string]int, len(entries))
	for i := range entries {
		if entries[i].Status == StatusUnchanged {
			owners[entries[i].Path()] = i
		}
	}

	for i := range entries {
		e := &entries[i]
		if e.Status != StatusRename {
			continue
		}
		target := filepath.Join(e.Dir, e.New)
		if owner, ok := owners[target]; ok && owner != i {
			e.Status = StatusCollision
			e.Note = "target also claimed by " + entries[owner].Old
			log.Warn().
				Str("path", e.Path()).
				Str("target", e.New).
				Str("owner", entries[owner].Old).
				Msg("rename target collides within batch, skipping")
			continue
		}
		owners[target] = i
	}
}

// Apply performs the renames of a plan in order and records the outcome
// in each entry. Failures do not stop the remaining renames, they are
// joined into the returned error.
func (o *Organizer) Apply(ctx context.Context, entries []Entry) (Summary, error) {
	var sum Summary
	var errs []error

	for i := range entries {
		e := &entries[i]
		switch e.Status {
		case StatusUnchanged:
			sum.Unchanged++
			continue
		case StatusCollision:
			sum.Collisions++
			continue
		case StatusRename:
		default:
			continue
		}

		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		ok, err := o.renamer.Rename(e.Dir, e.Old, e.New)
		switch {
		case err != nil:
			e.Status = StatusFailed
			e.Note = err.Error()
			sum.Failed++
			errs = append(errs, err)
		case ok:
			e.Status = StatusRenamed
			if o.renamer.DryRun() {
				e.Note = joinNote(e.Note, "dry run")
			}
			sum.Renamed++
		default:
			e.Status = StatusSkipped
			sum.Skipped++
		}
	}

	return sum, errors.Join(errs...)
}

func joinNote(note, s string) string {
	if note == "" {
		return s
	}
	return note + "; " + s
}

// Run collects, plans and applies in one go.
func (o *Organizer) Run(ctx context.Context, paths []string, recursive bool) ([]Entry, Summary, error) {
	files, err := o.Collect(ctx, paths, recursive)
	if err != nil {
		return nil, Summary{}, err
	}

	entries, err := o.Plan(ctx, files)
	if err != nil {
		return nil, Summary{}, err
	}

	sum, err := o.Apply(ctx, entries)
	log.Info().
		Int("files", len(entries)).
		Int("renamed", sum.Renamed).
		Int("unchanged", sum.Unchanged).
		Int("collisions", sum.Collisions).
		Int("skipped", sum.Skipped).
		Int("failed", sum.Failed).
		Bool("dry_run", o.renamer.DryRun()).
		Msg("batch finished")
	return entries, sum, err
}
