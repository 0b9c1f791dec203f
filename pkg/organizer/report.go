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
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/spf13/afero"
)

// WriteReport writes entries as CSV with a header line.
func WriteReport(w io.Writer, entries []Entry) error {
	if err := gocsv.Marshal(&entries, w); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// SaveReport writes the CSV report for entries to path on fs.
func SaveReport(fs afero.Fs, path string, entries []Entry) error {
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report %s: %w", path, err)
	}
	if err := WriteReport(f, entries); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close report %s: %w", path, err)
	}
	return nil
}

// ReadReport parses a report written by WriteReport.
func ReadReport(r io.Reader) ([]Entry, error) {
	var entries []Entry
	if err := gocsv.Unmarshal(r, &entries); err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}
	return entries, nil
}
