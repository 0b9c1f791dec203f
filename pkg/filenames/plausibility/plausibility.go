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

// Package plausibility compares the size a recording should have with the
// size of the file on disk.
package plausibility

import (
	"errors"
	"fmt"
	"time"
)

// ErrImplausibleSize is matched by every *SizeError.
var ErrImplausibleSize = errors.New("file size is not plausible")

const day = 24 * time.Hour

// Rate is the byte rate range a recording quality is expected to have.
type Rate struct {
	MinBytesPerSecond int64
	MaxBytesPerSecond int64
}

// Range is an inclusive size range in bytes.
type Range struct {
	Min int64
	Max int64
}

// SizeError reports a size outside the expected range, after tolerance.
type SizeError struct {
	Expected  Range
	Actual    int64
	Tolerance float64
}

func (e *SizeError) Error() string {
	direction := "too large"
	if e.TooSmall() {
		direction = "too small"
	}
	return fmt.Sprintf("%s (%s): %d bytes, expected %d..%d (tolerance %.0f%%)",
		ErrImplausibleSize, direction, e.Actual, e.Expected.Min, e.Expected.Max, e.Tolerance*100)
}

// Is makes errors.Is(err, ErrImplausibleSize) hold.
func (e *SizeError) Is(target error) bool {
	return target == ErrImplausibleSize
}

// TooSmall reports whether the file is smaller than expected.
func (e *SizeError) TooSmall() bool {
	return e.Actual < e.Expected.Min
}

// Span returns the time between two clock offsets within a day. An end
// before the start means the recording ran past midnight.
func Span(start, end time.Duration) time.Duration {
	d := end - start
	if d < 0 {
		d += day
	}
	return d
}

// Expected scales rate to a recording of the given duration.
func Expected(rate Rate, duration time.Duration) Range {
	seconds := int64(duration / time.Second)
	return Range{
		Min: rate.MinBytesPerSecond * seconds,
		Max: rate.MaxBytesPerSecond * seconds,
	}
}

// Check returns a *SizeError when actual lies outside expected widened by
// tolerance (0.1 accepts 10% below Min and 10% above Max).
func Check(expected Range, actual int64, tolerance float64) error {
	lower := float64(expected.Min) * (1 - tolerance)
	upper := float64(expected.Max) * (1 + tolerance)
	if float64(actual) < lower || float64(actual) > upper {
		return &SizeError{Expected: expected, Actual: actual, Tolerance: tolerance}
	}
	return nil
}
