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

package organizer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ZaparooProject/guessfilename/pkg/config"
	"github.com/ZaparooProject/guessfilename/pkg/filenames/deriver"
	"github.com/ZaparooProject/guessfilename/pkg/renamer"
	"github.com/ZaparooProject/guessfilename/pkg/testing/helpers"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDir = "/media/inbox"

const broadcastName = "20180608T170000 ORF - ZIB 17_00 - size okay -ORIGINAL- " +
	"2018-06-08_1700_tl__13979222__o__1892278656__s14313181_1__WEB03HD_17020613P_17024324P_Q4A.mp4"

func newTestOrganizer(t *testing.T, fs afero.Fs, dryRun bool) *Organizer {
	t.Helper()
	rules := []config.KeywordRule{{
		Name:     "hipster",
		Keywords: []string{"hipster"},
		Title:    "Hipster-PDA vollgeschrieben",
		Tags:     []string{"scan", "notes"},
	}}
	d := deriver.New(rules, config.BaseDefaults.Plausibility)
	return New(fs, d, renamer.New(fs, dryRun))
}

func writeFiles(t *testing.T, fs afero.Fs, dir string, names ...string) {
	t.Helper()
	h := &helpers.FSHelper{Fs: fs}
	require.NoError(t, fs.MkdirAll(dir, 0o750))
	require.NoError(t, h.CreateFiles(dir, names...))
}

func inDir(names ...string) []string {
	paths := make([]string, 0, len(names))
	for _, n := range names {
		paths = append(paths, filepath.Join(testDir, n))
	}
	return paths
}

func TestPlan(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, testDir,
		"IMG_20190118_133928.jpg",
		"rec_20171129-0902 A nice recording.wav",
		"2016-03-05 hipster.pdf",
		"notes.txt",
	)
	org := newTestOrganizer(t, fs, false)

	entries, err := org.Plan(context.Background(), inDir(
		"IMG_20190118_133928.jpg",
		"rec_20171129-0902 A nice recording.wav",
		"2016-03-05 hipster.pdf",
		"notes.txt",
	))
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, Entry{
		Dir:    testDir,
		Old:    "IMG_20190118_133928.jpg",
		New:    "2019-01-18T13.39.28.jpg",
		Rule:   "camera",
		Status: StatusRename,
	}, entries[0])
	assert.Equal(t, "2017-11-29T09.02 A nice recording.wav", entries[1].New)
	assert.Equal(t, "2016-03-05 Hipster-PDA vollgeschrieben -- scan notes.pdf", entries[2].New)
	assert.Equal(t, deriver.GenericRule, entries[2].Rule)
	assert.Equal(t, StatusUnchanged, entries[3].Status)
	assert.Equal(t, "notes.txt", entries[3].New)
}

func TestPlan_NotesImplausibleSize(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, testDir, broadcastName)
	org := newTestOrganizer(t, fs, false)

	entries, err := org.Plan(context.Background(), inDir(broadcastName))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Empty(t, entries[0].Note, "sizes are not checked by default")

	org.SetCheckSizes(true)
	entries, err = org.Plan(context.Background(), inDir(broadcastName))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, StatusRename, entries[0].Status)
	assert.Contains(t, entries[0].Note, "not plausible")
}

func TestPlan_Cancelled(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, testDir, "IMG_20190118_133928.jpg")
	org := newTestOrganizer(t, fs, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := org.Plan(ctx, inDir("IMG_20190118_133928.jpg"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestPlan_Collisions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		files  []string
		status map[string]Status
	}{
		{
			name:  "two files derive the same name",
			files: []string{"IMG_20190118_133928.jpg", "PANO_20190118_133928.jpg"},
			status: map[string]Status{
				"IMG_20190118_133928.jpg":  StatusRename,
				"PANO_20190118_133928.jpg": StatusCollision,
			},
		},
		{
			name:  "target is a file that keeps its name",
			files: []string{"2019-01-18T13.39.28.jpg", "IMG_20190118_133928.jpg"},
			status: map[string]Status{
				"2019-01-18T13.39.28.jpg": StatusUnchanged,
				"IMG_20190118_133928.jpg": StatusCollision,
			},
		},
		{
			name:  "same name in different directories",
			files: []string{"IMG_20190118_133928.jpg", "sub/PANO_20190118_133928.jpg"},
			status: map[string]Status{
				"IMG_20190118_133928.jpg":  StatusRename,
				"PANO_20190118_133928.jpg": StatusRename,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			for _, f := range tt.files {
				writeFiles(t, fs, filepath.Join(testDir, filepath.Dir(f)), filepath.Base(f))
			}
			org := newTestOrganizer(t, fs, false)

			entries, err := org.Plan(context.Background(), inDir(tt.files...))
			require.NoError(t, err)
			for _, e := range entries {
				assert.Equal(t, tt.status[e.Old], e.Status, e.Old)
			}
		})
	}
}

func TestApply(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, testDir,
		"IMG_20190118_133928.jpg",
		"PANO_20190118_133928.jpg",
		"notes.txt",
		"Screenshot_20190118-133928_Signal.jpg",
		"2019-01-18T13.39.28 Signal -- screenshots.jpg",
	)
	org := newTestOrganizer(t, fs, false)

	entries := []Entry{
		{Dir: testDir, Old: "IMG_20190118_133928.jpg", New: "2019-01-18T13.39.28.jpg", Status: StatusRename},
		{Dir: testDir, Old: "PANO_20190118_133928.jpg", New: "2019-01-18T13.39.28.jpg", Status: StatusCollision},
		{Dir: testDir, Old: "notes.txt", New: "notes.txt", Status: StatusUnchanged},
		{
			Dir:    testDir,
			Old:    "Screenshot_20190118-133928_Signal.jpg",
			New:    "2019-01-18T13.39.28 Signal -- screenshots.jpg",
			Status: StatusRename,
		},
		{Dir: testDir, Old: "gone.jpg", New: "2019-01-18.jpg", Status: StatusRename},
		{Dir: testDir, Old: "notes.txt", New: "../escape.txt", Status: StatusRename},
	}

	sum, err := org.Apply(context.Background(), entries)
	require.ErrorIs(t, err, renamer.ErrInvalidName)
	assert.Equal(t, Summary{Unchanged: 1, Renamed: 1, Collisions: 1, Skipped: 2, Failed: 1}, sum)

	assert.Equal(t, StatusRenamed, entries[0].Status)
	assert.Equal(t, StatusCollision, entries[1].Status)
	assert.Equal(t, StatusSkipped, entries[3].Status)
	assert.Equal(t, StatusSkipped, entries[4].Status)
	assert.Equal(t, StatusFailed, entries[5].Status)
	assert.NotEmpty(t, entries[5].Note)

	ok, err := afero.Exists(fs, filepath.Join(testDir, "2019-01-18T13.39.28.jpg"))
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = afero.Exists(fs, filepath.Join(testDir, "PANO_20190118_133928.jpg"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRun(t *testing.T) {
	t.Parallel()

	for _, dryRun := range []bool{false, true} {
		fs := afero.NewMemMapFs()
		writeFiles(t, fs, testDir, "IMG_20190118_133928.jpg", "notes.txt")
		writeFiles(t, fs, testDir+"/2019", "VID_20190118_133928.mp4")
		org := newTestOrganizer(t, fs, dryRun)

		entries, sum, err := org.Run(context.Background(), []string{testDir}, true)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, 2, sum.Renamed)
		assert.Equal(t, 1, sum.Unchanged)
		for _, e := range entries {
			if e.Status == StatusRenamed && dryRun {
				assert.Equal(t, "dry run", e.Note)
			}
		}

		ok, err := afero.Exists(fs, filepath.Join(testDir, "2019", "2019-01-18T13.39.28.mp4"))
		require.NoError(t, err)
		assert.Equal(t, !dryRun, ok)
		ok, err = afero.Exists(fs, filepath.Join(testDir, "IMG_20190118_133928.jpg"))
		require.NoError(t, err)
		assert.Equal(t, dryRun, ok)
	}
}

func TestRun_SecondPassChangesNothing(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	writeFiles(t, fs, testDir,
		"IMG_20190118_133928_Bokeh.jpg",
		"rec_20171129-0902 A nice recording.wav",
		"Screenshot_2017-11-29_10-32-12 my description.png",
		broadcastName,
	)
	org := newTestOrganizer(t, fs, false)

	_, sum, err := org.Run(context.Background(), []string{testDir}, false)
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Renamed)

	entries, sum, err := org.Run(context.Background(), []string{testDir}, false)
	require.NoError(t, err)
	assert.Equal(t, Summary{Unchanged: 4}, sum)
	for _, e := range entries {
		assert.Equal(t, e.Old, e.New)
	}
}
