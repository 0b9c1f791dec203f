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

// Package amounts finds euro amounts in filenames and document text.
package amounts

import (
	"regexp"
	"strings"
)

const number = `\d+(?:[,.]\d+)?`

var (
	// The currency marker is case-sensitive: "1234eur" is a product code
	// more often than a price.
	reEuroCharge = regexp.MustCompile(`(` + number + `)\s*(?:EUR|€)|(?:EUR|€)\s*(` + number + `)`)
	// An amount between two anchors may carry up to five characters of
	// noise (currency, labels, OCR debris) on either side.
	reContextAmount = regexp.MustCompile(`^\D{0,5}(\d{1,6}[,.]\d{2})\D{0,5}$`)
	reMultiSpace    = regexp.MustCompile(`\s+`)
)

// GetEuroCharge returns the first amount written next to an "EUR" or "€"
// marker, exactly as written.
func GetEuroCharge(text string) (string, bool) {
	m := reEuroCharge.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	if m[1] != "" {
		return m[1], true
	}
	return m[2], true
}

// HasEuroCharge reports whether GetEuroCharge finds an amount.
func HasEuroCharge(text string) bool {
	return reEuroCharge.MatchString(text)
}

// GetEuroChargeFromContext looks for an amount with two decimals between
// the first occurrence of before and the first occurrence of after that
// follows it. The result always uses a decimal comma.
func GetEuroChargeFromContext(text, before, after string) (string, bool) {
	start := strings.Index(text, before)
	if start < 0 {
		return "", false
	}
	start += len(before)

	end := strings.Index(text[start:], after)
	if end < 0 {
		return "", false
	}

	m := reContextAmount.FindStringSubmatch(text[start : start+end])
	if m == nil {
		return "", false
	}
	return strings.Replace(m[1], ".", ",", 1), true
}

// StripEuroCharge removes the first amount and its currency marker from
// text and collapses the whitespace left behind.
func StripEuroCharge(text string) string {
	loc := reEuroCharge.FindStringIndex(text)
	if loc == nil {
		return strings.TrimSpace(text)
	}
	stripped := text[:loc[0]] + " " + text[loc[1]:]
	return strings.TrimSpace(reMultiSpace.ReplaceAllString(stripped, " "))
}
