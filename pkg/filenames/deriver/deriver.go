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

// Package deriver turns an existing filename into its canonical form
//
//	<timestamp> <title> -- <tags>.<extension>
//
// by trying the dialect Rules in order and falling back to tokenizing the
// name and applying the configured keyword rules.
//
// A Deriver holds only read-only state and is safe for concurrent use.
package deriver

import (
	"fmt"
	"strings"

	"github.com/ZaparooProject/guessfilename/pkg/config"
	"github.com/ZaparooProject/guessfilename/pkg/filenames/entities"
	"github.com/ZaparooProject/guessfilename/pkg/filenames/plausibility"
	"github.com/ZaparooProject/guessfilename/pkg/filenames/timestamps"
	"github.com/rs/zerolog/log"
)

// Result describes how a filename was derived.
type Result struct {
	Rule     string
	Filename string
	Entities entities.ParsedFilename
}

// Changed reports whether the derived name differs from old.
func (r Result) Changed(old string) bool {
	return r.Filename != old
}

type Deriver struct {
	keywords []keywordRule
	sizes    config.Plausibility
}

// New builds a Deriver from configuration snapshots. Keyword rules are
// evaluated in the given order, the first matching rule wins.
//
//nolint:gocritic // config snapshot copied for immutability
func New(rules []config.KeywordRule, sizes config.Plausibility) *Deriver {
	sizes.Rate = append([]config.QualityRate(nil), sizes.Rate...)
	return &Deriver{
		keywords: compileKeywordRules(rules),
		sizes:    sizes,
	}
}

// Derive returns the canonical form of name, a base name without
// directory. Names no rule understands come back unchanged apart from
// timestamp normalization.
func (d *Deriver) Derive(name string) string {
	return d.DeriveResult(name).Filename
}

// DeriveResult is Derive that also reports which rule produced the name
// and the parts it was assembled from.
func (d *Deriver) DeriveResult(name string) Result {
	for _, rule := range Rules {
		m := rule.Pattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		parsed, ok := rule.Extract(m)
		if !ok {
			log.Debug().Str("rule", rule.Name).Str("name", name).Msg("dialect matched but declined")
			continue
		}
		return d.result(rule.Name, name, parsed)
	}

	return d.result(GenericRule, name, d.deriveGeneric(name))
}

func (d *Deriver) result(rule, name string, parsed entities.ParsedFilename) Result {
	res := Result{
		Rule:     rule,
		Entities: parsed,
		Filename: parsed.String(),
	}
	log.Debug().
		Str("rule", rule).
		Str("old", name).
		Str("new", res.Filename).
		Msg("derived filename")
	return res
}

func (d *Deriver) deriveGeneric(name string) entities.ParsedFilename {
	parsed := entities.Split(name)
	// the bare separator stays as written, it is the whole name
	if t := strings.TrimSpace(parsed.Title); t != strings.TrimSpace(entities.TagSeparator) {
		parsed.Title = t
	}

	if parsed.Timestamp != "" {
		if ts, ok := timestamps.Normalize(parsed.Timestamp); ok {
			parsed.Timestamp = ts.String()
		}
	}

	for i := range d.keywords {
		rule := &d.keywords[i]
		if updated, ok := rule.apply(parsed); ok {
			log.Debug().Str("keyword_rule", rule.Name).Str("name", name).Msg("keyword rule matched")
			return updated
		}
	}

	return parsed
}

// CheckSize compares size with the size expected for the broadcast
// segment and quality encoded in name. Names without a timecode, and
// qualities missing from the plausibility table, are not checked.
// Implausible sizes are reported as a *plausibility.SizeError.
func (d *Deriver) CheckSize(name string, size int64) error {
	tc, ok := findTimecode(name)
	if !ok {
		return nil
	}

	rate, ok := d.sizes.Lookup(tc.quality)
	if !ok {
		log.Debug().Str("quality", tc.quality).Msg("no plausibility rate for quality")
		return nil
	}

	duration := plausibility.Span(tc.start, tc.end)
	expected := plausibility.Expected(plausibility.Rate{
		MinBytesPerSecond: rate.MinBytesPerSecond,
		MaxBytesPerSecond: rate.MaxBytesPerSecond,
	}, duration)

	if err := plausibility.Check(expected, size, d.sizes.Tolerance); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
