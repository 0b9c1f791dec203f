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

	"github.com/ZaparooProject/guessfilename/pkg/filenames/entities"
)

// Rule pairs a filename dialect pattern with the function that turns its
// submatches into filename parts. Extract may decline a match (for example
// an impossible date), in which case evaluation continues with the next
// rule.
type Rule struct {
	Name    string
	Pattern *regexp.Regexp
	Extract func(matches []string) (entities.ParsedFilename, bool)
}

// GenericRule names results produced by tokenizing the name and applying
// the configured keyword rules. It handles every name no dialect claims.
const GenericRule = "generic"

// Rules is the ordered dialect table. First match wins, so more specific
// dialects come before the ones whose patterns would also match them.
var Rules = []Rule{
	{"broadcast-playlist", reBroadcastPlaylist, extractBroadcastPlaylist},
	{"broadcast", reBroadcast, extractBroadcast},
	{"broadcast-raw", reBroadcastRaw, extractBroadcastRaw},
	{"camera", reCamera, extractCamera},
	{"recorder", reRecorder, extractRecorder},
	{"screenshot", reScreenshot, extractScreenshot},
	{"android-screenshot", reAndroidScreenshot, extractAndroidScreenshot},
	{"gps-track", reGPSTrack, extractGPSTrack},
}
