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

package deriver

import (
	"regexp"

	"github.com/ZaparooProject/guessfilename/pkg/helpers/syncutil"
)

// patternCache shares compiled keyword patterns between Derivers.
type patternCache struct {
	cache map[string]*regexp.Regexp
	mu    syncutil.RWMutex
}

var keywordPatterns = &patternCache{cache: make(map[string]*regexp.Regexp)}

// word returns a pattern matching keyword as a whole, whitespace
// delimited word.
func (pc *patternCache) word(keyword string, ignoreCase bool) *regexp.Regexp {
	pattern := `(?:^|\s)` + regexp.QuoteMeta(keyword) + `(?:\s|$)`
	if ignoreCase {
		pattern = `(?i)` + pattern
	}

	// Fast path: try read lock first
	pc.mu.RLock()
	if re, exists := pc.cache[pattern]; exists {
		pc.mu.RUnlock()
		return re
	}
	pc.mu.RUnlock()

	pc.mu.Lock()
	defer pc.mu.Unlock()

	// Double-check pattern wasn't added while waiting for lock
	if re, exists := pc.cache[pattern]; exists {
		return re
	}

	re := regexp.MustCompile(pattern)
	pc.cache[pattern] = re
	return re
}

func (pc *patternCache) size() int {
	pc.mu.RLock()
	defer pc.mu.RUnlock()
	return len(pc.cache)
}
