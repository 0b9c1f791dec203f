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
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/ZaparooProject/guessfilename/pkg/filenames/entities"
	"github.com/ZaparooProject/guessfilename/pkg/filenames/timestamps"
)

const (
	TagHighQuality = "highquality"
	TagLowQuality  = "lowquality"
)

// Broadcast recordings from the ORF TV archive, as saved by MediathekView.
var (
	// 20181028T201400 ORF - Tatort - Tatort_ Blut -ORIGINALhd- playlist.m3u8.mp4
	reBroadcastPlaylist = regexp.MustCompile(
		`^(\d{8}T\d{6}) (.+?) -ORIGINAL(hd|low)- playlist\.m3u8\.(\w+)$`)

	// 20180510T090000 <title> -ORIGINAL- <original download name>.mp4
	reBroadcast = regexp.MustCompile(
		`^(\d{8}T\d{6}) (.+?) -ORIGINAL(hd|low)?- (.+)\.(\w+)$`)

	// 2018-06-14_2105_sd_02_Am-Schauplatz_-_Alles für die Katz-_____13979879__o__1907287074__s14316407_7__WEB03HD_21050604P_21533212P_Q8C.mp4
	reBroadcastRaw = regexp.MustCompile(
		`^(\d{4}-\d{2}-\d{2}_\d{4})_[a-z]{2}_\d{2}_(.+?)_+\d{8}__o__[0-9a-z]+__s\d+` +
			`(?:_\d+__[A-Z0-9]+_(\d{8}P_\d{8}P))?_(Q\d[A-Z])\.(\w+)(?:/playlist\.m3u8)?$`)

	// start and end timecode (HHMMSSFF) of the broadcast segment and quality
	reTimecode = regexp.MustCompile(`(\d{2})(\d{2})(\d{2})\d{2}P_(\d{2})(\d{2})(\d{2})\d{2}P_(Q\d[A-Z])`)
	reQuality  = regexp.MustCompile(`_(Q\d[A-Z])$`)
)

var qualityTags = map[string]string{
	"Q1A": TagLowQuality,
	"Q4A": TagLowQuality,
	"Q6A": TagHighQuality,
	"Q8C": TagHighQuality,
	"hd":  TagHighQuality,
	"low": TagLowQuality,
}

// timecode is the segment position embedded in a broadcast filename.
type timecode struct {
	quality string
	start   time.Duration
	end     time.Duration
}

func findTimecode(s string) (timecode, bool) {
	m := reTimecode.FindStringSubmatch(s)
	if m == nil {
		return timecode{}, false
	}
	n := make([]int, 6)
	for i := range n {
		n[i], _ = strconv.Atoi(m[i+1])
	}
	clock := func(h, mi, s int) time.Duration {
		return time.Duration(h)*time.Hour + time.Duration(mi)*time.Minute + time.Duration(s)*time.Second
	}
	return timecode{
		quality: m[7],
		start:   clock(n[0], n[1], n[2]),
		end:     clock(n[3], n[4], n[5]),
	}, true
}

// withTimecode moves p to the segment start. The date of p is kept even
// when the segment started before midnight of the broadcast day.
func withTimecode(p timestamps.Point, tc timecode) (timestamps.Point, bool) {
	h := int(tc.start / time.Hour)
	m := int(tc.start % time.Hour / time.Minute)
	sec := int(tc.start % time.Minute / time.Second)
	return p.WithClock(h, m, sec)
}

func qualityTag(markers ...string) []string {
	for _, marker := range markers {
		if tag := qualityTags[marker]; tag != "" {
			return []string{tag}
		}
	}
	return []string{}
}

func extractBroadcastPlaylist(m []string) (entities.ParsedFilename, bool) {
	start, ok := timestamps.ParsePoint(m[1])
	if !ok {
		return entities.ParsedFilename{}, false
	}
	return entities.ParsedFilename{
		Timestamp: start.String(),
		Title:     m[2],
		Tags:      qualityTag(m[3]),
		Extension: m[4],
	}, true
}

func extractBroadcast(m []string) (entities.ParsedFilename, bool) {
	start, ok := timestamps.ParsePoint(m[1])
	if !ok {
		return entities.ParsedFilename{}, false
	}

	original := m[4]
	quality := ""
	if q := reQuality.FindStringSubmatch(original); q != nil {
		quality = q[1]
	}
	if tc, found := findTimecode(original); found {
		if start, ok = withTimecode(start, tc); !ok {
			return entities.ParsedFilename{}, false
		}
		quality = tc.quality
	}

	return entities.ParsedFilename{
		Timestamp: start.String(),
		Title:     strings.ReplaceAll(m[2], "_", " "),
		Tags:      qualityTag(quality, m[3]),
		Extension: m[5],
	}, true
}

func extractBroadcastRaw(m []string) (entities.ParsedFilename, bool) {
	start, ok := timestamps.ParsePoint(m[1])
	if !ok {
		return entities.ParsedFilename{}, false
	}
	if m[3] != "" {
		tc, _ := findTimecode(m[3] + "_" + m[4])
		if start, ok = withTimecode(start, tc); !ok {
			return entities.ParsedFilename{}, false
		}
	}

	return entities.ParsedFilename{
		Timestamp: start.String(),
		Title:     cleanRawTitle(m[2]),
		Tags:      qualityTag(m[4]),
		Extension: m[5],
	}, true
}

// cleanRawTitle undoes the URL-safe spelling of raw download titles:
// underscores and dashes inside words become spaces, a dash surrounded by
// spaces stays a dash.
func cleanRawTitle(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.TrimRight(s, " -")

	src := []rune(s)
	out := make([]rune, len(src))
	copy(out, src)
	for i := 1; i < len(src)-1; i++ {
		if src[i] == '-' && !unicode.IsSpace(src[i-1]) && !unicode.IsSpace(src[i+1]) {
			out[i] = ' '
		}
	}
	return entities.CollapseSpaces(string(out))
}
