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

// Package timestamps recognizes the date and time dialects found in
// filenames and renders them in the canonical form used by renamed files:
// YYYY-MM-DD for dates, YYYY-MM-DDTHH.MM[.SS] for points in time and
// start--end for ranges.
package timestamps

import (
	"regexp"
	"time"
)

// Precision is the finest unit a Point was recorded with.
type Precision uint8

const (
	PrecisionDay Precision = iota
	PrecisionMinute
	PrecisionSecond
)

const (
	layoutDay    = "2006-01-02"
	layoutMinute = "2006-01-02T15.04"
	layoutSecond = "2006-01-02T15.04.05"

	// RangeSeparator joins the two ends of a newly rendered range.
	RangeSeparator = "--"
)

// Point is a single moment with the precision it was written in.
type Point struct {
	Time      time.Time
	Precision Precision
}

// NewPoint builds a validated Point. It returns false for impossible
// calendar dates or clock values instead of normalizing them.
func NewPoint(year, month, day, hour, minute, second int, precision Precision) (Point, bool) {
	t := time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day ||
		t.Hour() != hour || t.Minute() != minute || t.Second() != second {
		return Point{}, false
	}
	return Point{Time: t, Precision: precision}, true
}

// WithClock keeps the calendar day of p and replaces its time of day.
// Broadcast files carry a precise production timecode that overrides the
// coarse time in the filename prefix. The day is never adjusted, even when
// the timecode belongs to the evening before a prefix just after midnight.
func (p Point) WithClock(hour, minute, second int) (Point, bool) {
	return NewPoint(p.Time.Year(), int(p.Time.Month()), p.Time.Day(), hour, minute, second, PrecisionSecond)
}

func (p Point) String() string {
	switch p.Precision {
	case PrecisionMinute:
		return p.Time.Format(layoutMinute)
	case PrecisionSecond:
		return p.Time.Format(layoutSecond)
	default:
		return p.Time.Format(layoutDay)
	}
}

// Timestamp is either a single Point or a range of two Points.
type Timestamp struct {
	End       *Point
	Separator string
	Start     Point
}

// Single wraps a Point into a Timestamp.
func Single(p Point) Timestamp {
	return Timestamp{Start: p}
}

// Range builds a Timestamp spanning start to end.
func Range(start, end Point) Timestamp {
	return Timestamp{Start: start, End: &end, Separator: RangeSeparator}
}

func (ts Timestamp) IsRange() bool {
	return ts.End != nil
}

// String renders the canonical form. Ranges keep the separator they were
// parsed with so "2017-03-12-2017-09-23" survives a rename unchanged.
func (ts Timestamp) String() string {
	if ts.End == nil {
		return ts.Start.String()
	}
	sep := ts.Separator
	if sep == "" {
		sep = RangeSeparator
	}
	return ts.Start.String() + sep + ts.End.String()
}

type dialect struct {
	layout    string
	precision Precision
}

// dialects are tried in order by Normalize. time.Parse only succeeds on a
// full-string match, so no two layouts compete for the same input.
var dialects = []dialect{
	{layout: layoutDay, precision: PrecisionDay},
	{layout: layoutMinute, precision: PrecisionMinute},
	{layout: layoutSecond, precision: PrecisionSecond},
	{layout: "20060102T150405", precision: PrecisionSecond},      // broadcast prefix
	{layout: "20060102_150405", precision: PrecisionSecond},      // camera
	{layout: "20060102-150405", precision: PrecisionSecond},      // android screenshot
	{layout: "20060102-1504", precision: PrecisionMinute},        // voice recorder
	{layout: "2006-01-02_15-04-05", precision: PrecisionSecond},  // screenshot
	{layout: "2006-01-02_15-04_Mon", precision: PrecisionMinute}, // gps track
	{layout: "2006-01-02 15-04-05", precision: PrecisionSecond},  // gnome screenshot
	{layout: "2006-01-02_1504", precision: PrecisionMinute},      // raw broadcast download
}

// ISOPattern matches one canonical point in time without anchors. Other
// packages embed it in their own expressions.
const ISOPattern = `\d{4}-\d{2}-\d{2}(?:T\d{2}\.\d{2}(?:\.\d{2})?)?`

// SpanPattern matches a canonical single timestamp or range.
const SpanPattern = ISOPattern + `(?:--?` + ISOPattern + `)?`

var reISORange = regexp.MustCompile(`^(` + ISOPattern + `)(--?)(` + ISOPattern + `)$`)

// Normalize parses any supported dialect. Weekday abbreviations and other
// locale noise that are part of a dialect are validated and discarded.
func Normalize(span string) (Timestamp, bool) {
	if m := reISORange.FindStringSubmatch(span); m != nil {
		start, ok := parsePoint(m[1])
		if !ok {
			return Timestamp{}, false
		}
		end, ok := parsePoint(m[3])
		if !ok {
			return Timestamp{}, false
		}
		return Timestamp{Start: start, End: &end, Separator: m[2]}, true
	}

	p, ok := parsePoint(span)
	if !ok {
		return Timestamp{}, false
	}
	return Single(p), true
}

// ParsePoint parses a single point in any supported dialect.
func ParsePoint(s string) (Point, bool) {
	return parsePoint(s)
}

func parsePoint(s string) (Point, bool) {
	for _, d := range dialects {
		t, err := time.Parse(d.layout, s)
		if err != nil {
			continue
		}
		return Point{Time: t, Precision: d.precision}, true
	}
	return Point{}, false
}
