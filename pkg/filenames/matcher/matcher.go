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

// Package matcher answers whether free text contains one or all of a set
// of candidate strings, either exactly or approximately. Approximate
// matching tolerates the character noise typical for OCR'd documents and
// typed notes, e.g. a customer number with a transposed digit.
package matcher

import (
	"math"
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/rs/zerolog/log"
)

// Threshold is the partial ratio score (0-100) a candidate has to exceed
// to count as contained.
const Threshold = 64

// ContainsOneOf reports whether any candidate is an exact substring of text.
func ContainsOneOf(text string, candidates []string) bool {
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if strings.Contains(text, candidate) {
			return true
		}
	}
	return false
}

// FuzzyContainsOneOf reports whether any candidate is contained in text
// exactly or with a partial ratio above Threshold.
func FuzzyContainsOneOf(text string, candidates []string) bool {
	for _, candidate := range candidates {
		if fuzzyContains(text, candidate) {
			return true
		}
	}
	return false
}

// FuzzyContainsAllOf reports whether every candidate individually passes
// the FuzzyContainsOneOf test. An empty candidate list never matches.
func FuzzyContainsAllOf(text string, candidates []string) bool {
	if len(candidates) == 0 {
		return false
	}
	for _, candidate := range candidates {
		if !fuzzyContains(text, candidate) {
			return false
		}
	}
	return true
}

func fuzzyContains(text, candidate string) bool {
	if candidate == "" {
		return false
	}
	if strings.Contains(text, candidate) {
		return true
	}

	score := Similarity(text, candidate)
	if score > Threshold-15 {
		log.Debug().
			Str("text", text).
			Str("candidate", candidate).
			Int("score", score).
			Int("threshold", Threshold).
			Msg("fuzzy containment candidate evaluation")
	}
	return score > Threshold
}

// Similarity is PartialRatio of a and b after case and accent folding.
func Similarity(a, b string) int {
	return PartialRatio(normalize(a), normalize(b))
}

// PartialRatio scores (0-100) how well the shorter string matches the best
// aligned window of the longer one. Windows are compared with the indel
// similarity 2*LCS/(len(a)+len(b)); both sides have the same length, which
// reduces it to LCS/len(short).
func PartialRatio(a, b string) int {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		if len(long) == 0 {
			return 100
		}
		return 0
	}

	shortStr := string(short)
	best := 0.0
	for start := 0; start+len(short) <= len(long); start++ {
		window := string(long[start : start+len(short)])
		lcs := edlib.LCS(shortStr, window)
		ratio := float64(lcs) / float64(len(short))
		if ratio > best {
			best = ratio
			if best == 1 {
				break
			}
		}
	}

	return int(math.Round(best * 100))
}
