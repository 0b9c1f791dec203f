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

import "strings"

// QualityRate is the expected byte rate of one broadcast quality, keyed by
// the quality marker found in the filename (Q4A, Q8C, ...).
type QualityRate struct {
	Quality           string `toml:"quality" validate:"required"`
	MinBytesPerSecond int64  `toml:"min_bytes_per_second" validate:"gt=0"`
	MaxBytesPerSecond int64  `toml:"max_bytes_per_second" validate:"gtefield=MinBytesPerSecond"`
}

type Plausibility struct {
	Rate      []QualityRate `toml:"rate,omitempty" validate:"dive"`
	Tolerance float64       `toml:"tolerance" validate:"gte=0,lt=1"`
}

// Lookup finds the rate for a quality marker, ignoring case.
func (p Plausibility) Lookup(quality string) (QualityRate, bool) {
	for _, r := range p.Rate {
		if strings.EqualFold(r.Quality, quality) {
			return r, true
		}
	}
	return QualityRate{}, false
}

// Plausibility returns a copy of the size plausibility table.
func (c *Instance) Plausibility() Plausibility {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p := c.vals.Plausibility
	p.Rate = append([]QualityRate(nil), p.Rate...)
	return p
}
