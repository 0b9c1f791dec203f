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

// Package entities splits filenames of the form
//
//	<timestamp> <title> -- <tag1> <tag2>.<extension>
//
// into their parts and reassembles them.
package entities

import (
	"regexp"
	"strings"

	"github.com/ZaparooProject/guessfilename/pkg/filenames/timestamps"
)

// TagSeparator divides the title from the space separated tag list.
const TagSeparator = " -- "

var (
	reLeadingSpan = regexp.MustCompile(`^` + timestamps.SpanPattern)
	reExtension   = regexp.MustCompile(`^[\p{L}\p{N}_]+$`)
	reMultiSpace  = regexp.MustCompile(`\s+`)
	reUnderscores = regexp.MustCompile(`_+`)
)

// ParsedFilename holds the parts of one filename. Empty Timestamp and
// Extension mean the part is absent. Tags is never nil.
type ParsedFilename struct {
	Timestamp string
	Title     string
	Extension string
	Tags      []string
}

// Split tokenizes name. A timestamp is only recognized at the very start
// and must be followed by a space, underscore, dot or the end of the name.
// The title ends at the last " -- " that is followed by at least one tag.
func Split(name string) ParsedFilename {
	parsed := ParsedFilename{Tags: []string{}}
	rest := name

	if loc := reLeadingSpan.FindStringIndex(name); loc != nil && isSpanBoundary(name, loc[1]) {
		parsed.Timestamp = name[:loc[1]]
		rest = name[loc[1]:]
	}

	if idx := strings.LastIndex(rest, "."); idx >= 0 {
		ext := rest[idx+1:]
		// a leading dot is only an extension separator after a timestamp,
		// otherwise "." and dotfiles would lose their whole name
		if reExtension.MatchString(ext) && (idx > 0 || parsed.Timestamp != "") {
			parsed.Extension = ext
			rest = rest[:idx]
		}
	}

	title := rest
	if idx := strings.LastIndex(rest, TagSeparator); idx >= 0 {
		tags := strings.Fields(rest[idx+len(TagSeparator):])
		if len(tags) > 0 {
			parsed.Tags = tags
			title = strings.TrimSpace(rest[:idx])
		}
	}

	if parsed.Timestamp != "" {
		title = strings.TrimSpace(strings.TrimLeft(title, " _"))
	}
	parsed.Title = title

	return parsed
}

func isSpanBoundary(name string, end int) bool {
	if end == len(name) {
		return true
	}
	switch name[end] {
	case ' ', '.', '_':
		return true
	default:
		return false
	}
}

// String reassembles the canonical filename.
func (p ParsedFilename) String() string {
	var sb strings.Builder
	sb.WriteString(p.Timestamp)
	if p.Title != "" {
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(p.Title)
	}
	if len(p.Tags) > 0 {
		sb.WriteString(TagSeparator)
		sb.WriteString(strings.Join(p.Tags, " "))
	}
	if p.Extension != "" {
		sb.WriteByte('.')
		sb.WriteString(p.Extension)
	}
	return sb.String()
}

// HasTag reports whether tag is already present.
func (p ParsedFilename) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddingTags returns existing followed by added. It does not remove
// duplicates and works for any element type.
func AddingTags[T any](existing, added []T) []T {
	out := make([]T, 0, len(existing)+len(added))
	out = append(out, existing...)
	return append(out, added...)
}

// MergeTags appends added to existing and drops repeated tags, keeping the
// first occurrence. Running the deriver over its own output relies on this
// to not grow the tag list.
func MergeTags(existing, added []string) []string {
	all := AddingTags(existing, added)
	seen := make(map[string]struct{}, len(all))
	out := make([]string, 0, len(all))
	for _, tag := range all {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// CollapseSpaces replaces whitespace runs with a single space and trims.
func CollapseSpaces(s string) string {
	return strings.TrimSpace(reMultiSpace.ReplaceAllString(s, " "))
}

// CleanTitle removes separator debris left behind after stripping IDs from
// a title: underscore runs become spaces, whitespace is collapsed and stray
// dashes or underscores at either end are dropped.
func CleanTitle(s string) string {
	s = reUnderscores.ReplaceAllString(s, " ")
	s = CollapseSpaces(s)
	return strings.Trim(s, " -")
}
