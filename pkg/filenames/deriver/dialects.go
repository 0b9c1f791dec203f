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
	"strings"

	"github.com/ZaparooProject/guessfilename/pkg/filenames/entities"
	"github.com/ZaparooProject/guessfilename/pkg/filenames/timestamps"
)

const TagScreenshots = "screenshots"

var (
	// IMG_20190118_133928_Bokeh This is a note.jpg, PXL_20210512_081522345.PORTRAIT.jpg
	reCamera = regexp.MustCompile(
		`^(?:IMG|VID|PXL|PANO)_(\d{8}_\d{6})(?:\d{3})?(?:\.(MP|PORTRAIT|NIGHT))?(?:_([^ .]+))?(.*?)\s*\.(\w+)$`)

	// rec_20171129-0902 A nice recording.wav
	reRecorder = regexp.MustCompile(`^rec_(\d{8}-\d{4})(.*?)\s*\.(\w+)$`)

	// Screenshot_2017-11-29_10-32-12 my description.png, Screenshot from 2017-11-29 10-32-12.png
	reScreenshot = regexp.MustCompile(
		`^Screenshot(?:_| from )(\d{4}-\d{2}-\d{2}[_ ]\d{2}-\d{2}-\d{2})(.*?)\s*\.(\w+)$`)

	// Screenshot_20190118-133928_Signal.jpg
	reAndroidScreenshot = regexp.MustCompile(`^Screenshot_(\d{8}-\d{6})(?:_([^ .]+))?(.*?)\s*\.(\w+)$`)

	// 2017-12-07_09-23_Thu Went for a walk .gpx
	reGPSTrack = regexp.MustCompile(
		`^(\d{4}-\d{2}-\d{2}_\d{2}-\d{2}_(?:Mon|Tue|Wed|Thu|Fri|Sat|Sun))(.*?)\s*\.((?i:gpx))$`)
)

// Pixel camera mode markers and the tags they turn into.
var cameraModeTags = map[string]string{
	"MP":       "motionphoto",
	"PORTRAIT": "portrait",
	"NIGHT":    "night",
}

func joinTitle(parts ...string) string {
	return strings.TrimSpace(strings.Join(parts, " "))
}

func pointEntities(span, title, ext string, tags ...string) (entities.ParsedFilename, bool) {
	p, ok := timestamps.ParsePoint(span)
	if !ok {
		return entities.ParsedFilename{}, false
	}
	return entities.ParsedFilename{
		Timestamp: p.String(),
		Title:     entities.CollapseSpaces(title),
		Tags:      append([]string{}, tags...),
		Extension: ext,
	}, true
}

func extractCamera(m []string) (entities.ParsedFilename, bool) {
	var tags []string
	if tag := cameraModeTags[m[2]]; tag != "" {
		tags = append(tags, tag)
	}
	return pointEntities(m[1], joinTitle(m[3], m[4]), m[5], tags...)
}

func extractRecorder(m []string) (entities.ParsedFilename, bool) {
	return pointEntities(m[1], m[2], m[3])
}

func extractScreenshot(m []string) (entities.ParsedFilename, bool) {
	return pointEntities(m[1], m[2], m[3], TagScreenshots)
}

func extractAndroidScreenshot(m []string) (entities.ParsedFilename, bool) {
	return pointEntities(m[1], joinTitle(m[2], m[3]), m[4], TagScreenshots)
}

func extractGPSTrack(m []string) (entities.ParsedFilename, bool) {
	return pointEntities(m[1], m[2], m[3])
}
