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
	"errors"
	"sync"
	"testing"

	"github.com/ZaparooProject/guessfilename/pkg/config"
	"github.com/ZaparooProject/guessfilename/pkg/filenames/plausibility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testRules mirrors a typical personal rules file: scanned bills,
// transport tickets and notes.
func testRules() []config.KeywordRule {
	return []config.KeywordRule{
		{
			Name:          "A1",
			Keywords:      []string{"a1"},
			IgnoreCase:    true,
			RequireAmount: true,
			Title:         "A1 Festnetz-Internet {amount}€",
			Tags:          []string{"scan", "bill"},
		},
		{
			Name:     "10er",
			Keywords: []string{"10er"},
			Title:    "benutzter GVB 10er Block",
			Tags:     []string{"scan", "transportation", "graz"},
		},
		{
			Name:          "bill",
			Keywords:      []string{"bill"},
			RequireAmount: true,
			Title:         "{title} {amount}€",
			Tags:          []string{"scan", "bill"},
		},
		{
			Name:       "hipster",
			Keywords:   []string{"hipster"},
			IgnoreCase: true,
			Title:      "Hipster-PDA vollgeschrieben",
			Tags:       []string{"scan", "notes"},
		},
	}
}

func newTestDeriver() *Deriver {
	return New(testRules(), config.BaseDefaults.Plausibility)
}

type deriveCase struct {
	old  string
	want string
	rule string
}

func runDeriveCases(t *testing.T, cases []deriveCase) {
	t.Helper()
	d := newTestDeriver()
	for _, tc := range cases {
		res := d.DeriveResult(tc.old)
		assert.Equal(t, tc.want, res.Filename, tc.old)
		if tc.rule != "" {
			assert.Equal(t, tc.rule, res.Rule, tc.old)
		}
	}
}

func TestDerive_KeywordRules(t *testing.T) {
	t.Parallel()

	runDeriveCases(t, []deriveCase{
		{
			old:  "2016-03-05 a1 12,34 €.pdf",
			want: "2016-03-05 A1 Festnetz-Internet 12,34€ -- scan bill.pdf",
			rule: GenericRule,
		},
		{
			old:  "2016-03-05 A1 12.34 EUR -- finance.pdf",
			want: "2016-03-05 A1 Festnetz-Internet 12.34€ -- finance scan bill.pdf",
		},
		{
			old:  "2016-03-05 10er.pdf",
			want: "2016-03-05 benutzter GVB 10er Block -- scan transportation graz.pdf",
		},
		{
			old:  "2016-01-19--2016-02-12 10er GVB.pdf",
			want: "2016-01-19--2016-02-12 benutzter GVB 10er Block -- scan transportation graz.pdf",
		},
		{
			old:  "2016-01-19--2016-02-12 10er GVB -- foobar.pdf",
			want: "2016-01-19--2016-02-12 benutzter GVB 10er Block -- foobar scan transportation graz.pdf",
		},
		{
			old:  "2016-01-19 bill foobar baz 12,12EUR.pdf",
			want: "2016-01-19 foobar baz 12,12€ -- scan bill.pdf",
		},
		{
			old:  "2016-03-12 another bill 34,55EUR.pdf",
			want: "2016-03-12 another 34,55€ -- scan bill.pdf",
		},
		{
			old:  "2017-03-12--2017-09-23 hipster.pdf",
			want: "2017-03-12--2017-09-23 Hipster-PDA vollgeschrieben -- scan notes.pdf",
		},
		{
			old:  "2017-03-12--2017-09-23 hipster.png",
			want: "2017-03-12--2017-09-23 Hipster-PDA vollgeschrieben -- scan notes.png",
		},
		{
			old:  "2017-03-12-2017-09-23 hipster.png",
			want: "2017-03-12-2017-09-23 Hipster-PDA vollgeschrieben -- scan notes.png",
		},
		{
			old:  "2017-03-12-2017-09-23 Hipster.png",
			want: "2017-03-12-2017-09-23 Hipster-PDA vollgeschrieben -- scan notes.png",
		},
	})
}

func TestDerive_KeywordRuleNeedsAmount(t *testing.T) {
	t.Parallel()

	runDeriveCases(t, []deriveCase{
		// bill without an amount is left alone
		{old: "2016-01-19 bill foobar.pdf", want: "2016-01-19 bill foobar.pdf", rule: GenericRule},
		// keywords only match whole words
		{old: "2016-01-19 billing 12EUR.pdf", want: "2016-01-19 billing 12EUR.pdf"},
		// A1 is case-insensitive, 10er is not
		{old: "2016-03-05 10ER.pdf", want: "2016-03-05 10ER.pdf"},
	})
}

func TestDerive_Recorder(t *testing.T) {
	t.Parallel()

	runDeriveCases(t, []deriveCase{
		{old: "rec_20171129-0902 A nice recording .wav", want: "2017-11-29T09.02 A nice recording.wav", rule: "recorder"},
		{old: "rec_20171129-0902 A nice recording.wav", want: "2017-11-29T09.02 A nice recording.wav"},
		{old: "rec_20171129-0902.wav", want: "2017-11-29T09.02.wav"},
		{old: "rec_20171129-0902.mp3", want: "2017-11-29T09.02.mp3"},
	})
}

func TestDerive_Screenshots(t *testing.T) {
	t.Parallel()

	runDeriveCases(t, []deriveCase{
		{
			old:  "Screenshot_2017-11-29_10-32-12.png",
			want: "2017-11-29T10.32.12 -- screenshots.png",
			rule: "screenshot",
		},
		{
			old:  "Screenshot_2017-11-29_10-32-12 my description.png",
			want: "2017-11-29T10.32.12 my description -- screenshots.png",
		},
		{
			old:  "Screenshot from 2018-02-03 21-07-55.png",
			want: "2018-02-03T21.07.55 -- screenshots.png",
		},
		{
			old:  "Screenshot_20190118-133928_Signal.jpg",
			want: "2019-01-18T13.39.28 Signal -- screenshots.jpg",
			rule: "android-screenshot",
		},
		{
			old:  "Screenshot_20190118-133928.png",
			want: "2019-01-18T13.39.28 -- screenshots.png",
		},
	})
}

func TestDerive_GPSTrack(t *testing.T) {
	t.Parallel()

	runDeriveCases(t, []deriveCase{
		{old: "2017-11-14_16-10_Tue.gpx", want: "2017-11-14T16.10.gpx", rule: "gps-track"},
		{old: "2017-12-07_09-23_Thu Went for a walk .gpx", want: "2017-12-07T09.23 Went for a walk.gpx"},
		{old: "2017-11-03_07-29_Fri Bicycling.gpx", want: "2017-11-03T07.29 Bicycling.gpx"},
	})
}

func TestDerive_Broadcast(t *testing.T) {
	t.Parallel()

	runDeriveCases(t, []deriveCase{
		{
			old:  "20180510T090000 ORF - ZIB - Signation -ORIGINAL- 2018-05-10_0900_tl_02_ZIB-9-00_Signation__13976423__o__1368225677__s14297692_2__WEB03HD_09000305P_09001400P_Q4A.mp4",
			want: "2018-05-10T09.00.03 ORF - ZIB - Signation -- lowquality.mp4",
			rule: "broadcast",
		},
		{
			old:  "20180510T090000 ORF - ZIB - Weitere Signale der Entspannung -ORIGINAL- 2018-05-10_0900_tl_02_ZIB-9-00_Weitere-Signale__13976423__o__5968792755__s14297694_4__WEB03HD_09011813P_09020710P_Q4A.mp4",
			want: "2018-05-10T09.01.18 ORF - ZIB - Weitere Signale der Entspannung -- lowquality.mp4",
		},
		{
			old:  "20180520T201500 ORF - Tatort - Tatort_ Aus der Tiefe der Zeit -ORIGINAL- 2018-05-20_2015_in_02_Tatort--Aus-der_____13977411__o__1151703583__s14303062_Q8C.mp4",
			want: "2018-05-20T20.15.00 ORF - Tatort - Tatort  Aus der Tiefe der Zeit -- highquality.mp4",
		},
		{
			old:  "20180521T193000 ORF - ZIB 1 - Parlament bereitet sich auf EU-Vorsitz vor -ORIGINAL- 2018-05-21_1930_tl_02_ZIB-1_Parlament-berei__13977453__o__277886215b__s14303762_2__WEB03HD_19350304P_19371319P_Q4A.mp4",
			want: "2018-05-21T19.35.03 ORF - ZIB 1 - Parlament bereitet sich auf EU-Vorsitz vor -- lowquality.mp4",
		},
		{
			old:  "20190902T220000 ORF - ZIB 2 - Bericht über versteckte ÖVP-Wahlkampfkosten -ORIGINALlow- 2019-09-02_2200_tl_02_ZIB-2_Bericht-ueber-v__14024705__o__71528285d6__s14552793_3__ORF2HD_22033714P_22074303P_Q4A.mp4",
			want: "2019-09-02T22.03.37 ORF - ZIB 2 - Bericht über versteckte ÖVP-Wahlkampfkosten -- lowquality.mp4",
		},
		{
			old:  "20190902T220000 ORF - ZIB 2 - Hinweis _ Verabschiedung -ORIGINALlow- 2019-09-02_2200_tl_02_ZIB-2_Hinweis---Verab__14024705__o__857007705d__s14552799_9__ORF2HD_22285706P_22300818P_Q4A.mp4",
			want: "2019-09-02T22.28.57 ORF - ZIB 2 - Hinweis   Verabschiedung -- lowquality.mp4",
		},
		{
			old:  "20180608T193000 ORF - Österreich Heute - Das Magazin - Österreich Heute - Das Magazin -ORIGINAL- 13979231_0007_Q8C.mp4",
			want: "2018-06-08T19.30.00 ORF - Österreich Heute - Das Magazin - Österreich Heute - Das Magazin -- highquality.mp4",
		},
		{
			old:  "20180608T170000 ORF - ZIB 17_00 - size okay -ORIGINAL- 2018-06-08_1700_tl__13979222__o__1892278656__s14313181_1__WEB03HD_17020613P_17024324P_Q4A.mp4",
			want: "2018-06-08T17.02.06 ORF - ZIB 17 00 - size okay -- lowquality.mp4",
		},
		{
			old:  "20180608T170000 ORF - ZIB 17_00 - size okay -ORIGINAL- 2018-06-08_1700_tl__13979222__o__1892278656__s14313181_1__WEB03HD_17020613P_17024324P_Q8C.mp4",
			want: "2018-06-08T17.02.06 ORF - ZIB 17 00 - size okay -- highquality.mp4",
		},
	})
}

func TestDerive_BroadcastTimecodeBeforeMidnight(t *testing.T) {
	t.Parallel()

	// The segment started seconds before midnight while the prefix names
	// the next day. The prefix date is kept on purpose.
	runDeriveCases(t, []deriveCase{{
		old:  "20180610T000000 ORF - Kleinkunst - Kleinkunst_ Cordoba - Das Rückspiel (2_2) -ORIGINAL- 2018-06-10_0000_sd_06_Kleinkunst--Cor_____13979381__o__1483927235__s14313621_1__ORF3HD_23592020P_00593103P_Q8C.mp4",
		want: "2018-06-10T23.59.20 ORF - Kleinkunst - Kleinkunst  Cordoba - Das Rückspiel (2 2) -- highquality.mp4",
	}})
}

func TestDerive_BroadcastRawDownload(t *testing.T) {
	t.Parallel()

	runDeriveCases(t, []deriveCase{
		{
			old:  "2018-06-14_2105_sd_02_Am-Schauplatz_-_Alles für die Katz-_____13979879__o__1907287074__s14316407_7__WEB03HD_21050604P_21533212P_Q8C.mp4",
			want: "2018-06-14T21.05.06 Am Schauplatz - Alles für die Katz -- highquality.mp4",
			rule: "broadcast-raw",
		},
		{
			old:  "2018-06-14_2155_sd_06_Kottan-ermittelt - Wien Mitte_____13979903__o__1460660672__s14316392_2__ORF3HD_21570716P_23260915P_Q8C.mp4",
			want: "2018-06-14T21.57.07 Kottan ermittelt - Wien Mitte -- highquality.mp4",
		},
		{
			old:  "2018-06-14_2330_sd_06_Sommerkabarett - Lukas Resetarits: Schmäh (1 von 2)_____13979992__o__1310584704__s14316464_4__ORF3HD_23301620P_00302415P_Q8C.mp4",
			want: "2018-06-14T23.30.16 Sommerkabarett - Lukas Resetarits: Schmäh (1 von 2) -- highquality.mp4",
		},
		{
			old:  "2019-09-29_2255_sd_02_Das-Naturhistor_____14027337__o__1412900222__s14566948_8__ORF2HD_23152318P_00005522P_Q8C.mp4/playlist.m3u8",
			want: "2019-09-29T23.15.23 Das Naturhistor -- highquality.mp4",
		},
		{
			old:  "2018-05-20_2015_in_02_Tatort--Aus-der_____13977411__o__1151703583__s14303062_Q8C.mp4",
			want: "2018-05-20T20.15 Tatort Aus der -- highquality.mp4",
		},
	})
}

func TestDerive_BroadcastPlaylist(t *testing.T) {
	t.Parallel()

	runDeriveCases(t, []deriveCase{
		{
			old:  "20181028T201400 ORF - Tatort - Tatort_ Blut -ORIGINALhd- playlist.m3u8.mp4",
			want: "2018-10-28T20.14.00 ORF - Tatort - Tatort_ Blut -- highquality.mp4",
			rule: "broadcast-playlist",
		},
		{
			old:  "20181028T201400 ORF - Tatort - Tatort_ Blut -ORIGINALlow- playlist.m3u8.mp4",
			want: "2018-10-28T20.14.00 ORF - Tatort - Tatort_ Blut -- lowquality.mp4",
		},
		{
			old:  "20181022T211100 ORF - Thema - Das Essen der Zukunft -ORIGINALhd- playlist.m3u8.mp4",
			want: "2018-10-22T21.11.00 ORF - Thema - Das Essen der Zukunft -- highquality.mp4",
		},
		{
			old:  "20181022T211100 ORF - Thema - Das Essen der Zukunft -ORIGINALlow- playlist.m3u8.mp4",
			want: "2018-10-22T21.11.00 ORF - Thema - Das Essen der Zukunft -- lowquality.mp4",
		},
		{
			old:  "20181025T210500 ORF - Am Schauplatz - Am Schauplatz_ Wenn alles zusammenbricht -ORIGINALhd- playlist.m3u8.mp4",
			want: "2018-10-25T21.05.00 ORF - Am Schauplatz - Am Schauplatz_ Wenn alles zusammenbricht -- highquality.mp4",
		},
		{
			old:  "20181025T210500 ORF - Am Schauplatz - Am Schauplatz_ Wenn alles zusammenbricht -ORIGINALlow- playlist.m3u8.mp4",
			want: "2018-10-25T21.05.00 ORF - Am Schauplatz - Am Schauplatz_ Wenn alles zusammenbricht -- lowquality.mp4",
		},
	})
}

func TestDerive_Camera(t *testing.T) {
	t.Parallel()

	runDeriveCases(t, []deriveCase{
		{old: "IMG_20190118_133928.jpg", want: "2019-01-18T13.39.28.jpg", rule: "camera"},
		{old: "IMG_20190118_133928 This is a note.jpg", want: "2019-01-18T13.39.28 This is a note.jpg"},
		{old: "IMG_20190118_133928_Bokeh.jpg", want: "2019-01-18T13.39.28 Bokeh.jpg"},
		{old: "IMG_20190118_133928_Bokeh This is a note.jpg", want: "2019-01-18T13.39.28 Bokeh This is a note.jpg"},
		{old: "VID_20190118_133928.mp4", want: "2019-01-18T13.39.28.mp4"},
		{old: "PANO_20190118_133928.jpg", want: "2019-01-18T13.39.28.jpg"},
		{old: "PXL_20210512_081522345.jpg", want: "2021-05-12T08.15.22.jpg"},
		{old: "PXL_20210512_081522345.MP.jpg", want: "2021-05-12T08.15.22 -- motionphoto.jpg"},
		{old: "PXL_20210512_081522345.PORTRAIT.jpg", want: "2021-05-12T08.15.22 -- portrait.jpg"},
		{old: "PXL_20210512_081522345.NIGHT Sunset.jpg", want: "2021-05-12T08.15.22 Sunset -- night.jpg"},
	})
}

func TestDerive_Fallbacks(t *testing.T) {
	t.Parallel()

	runDeriveCases(t, []deriveCase{
		{old: "foo bar.txt", want: "foo bar.txt", rule: GenericRule},
		{old: "no extension", want: "no extension"},
		{old: ".", want: "."},
		{old: " -- ", want: " -- "},
		{old: ".bashrc", want: ".bashrc"},
		// an impossible camera date is not a camera file
		{old: "IMG_20191318_133928.jpg", want: "IMG_20191318_133928.jpg", rule: GenericRule},
		// an impossible timecode makes the broadcast rule decline
		{
			old:  "20180510T090000 Show -ORIGINAL- x_99000305P_99001400P_Q4A.mp4",
			want: "20180510T090000 Show -ORIGINAL- x_99000305P_99001400P_Q4A.mp4",
			rule: GenericRule,
		},
		{old: "2016-03-05T23.59 foo -- bar.pdf", want: "2016-03-05T23.59 foo -- bar.pdf"},
		{old: "foo bar .pdf", want: "foo bar.pdf", rule: GenericRule},
		{old: "  padded title  .txt", want: "padded title.txt"},
	})
}

func TestDerive_RepeatedKeyword(t *testing.T) {
	t.Parallel()

	d := newTestDeriver()
	for _, old := range []string{
		"2016-03-05 bill bill 12 EUR.pdf",
		"2016-03-05 bill bill bill 12 EUR.pdf",
		"2016-03-05 bill 12 EUR bill.pdf",
	} {
		once := d.Derive(old)
		assert.Equal(t, "2016-03-05 12€ -- scan bill.pdf", once, old)
		assert.Equal(t, once, d.Derive(once), old)
	}
}

func TestDerive_CanonicalNamesAreStable(t *testing.T) {
	t.Parallel()

	d := newTestDeriver()
	inputs := []string{
		"2016-03-05 a1 12,34 €.pdf",
		"2016-03-05 A1 12.34 EUR -- finance.pdf",
		"2016-01-19--2016-02-12 10er GVB -- foobar.pdf",
		"2016-01-19 bill foobar baz 12,12EUR.pdf",
		"2017-03-12-2017-09-23 hipster.png",
		"Screenshot_2017-11-29_10-32-12 my description.png",
		"IMG_20190118_133928_Bokeh.jpg",
		"PXL_20210512_081522345.MP.jpg",
		"2017-12-07_09-23_Thu Went for a walk .gpx",
		"20181028T201400 ORF - Tatort - Tatort_ Blut -ORIGINALhd- playlist.m3u8.mp4",
		"20180520T201500 ORF - Tatort - Tatort_ Aus der Tiefe der Zeit -ORIGINAL- 2018-05-20_2015_in_02_Tatort--Aus-der_____13977411__o__1151703583__s14303062_Q8C.mp4",
	}

	for _, in := range inputs {
		once := d.Derive(in)
		twice := d.Derive(once)
		thrice := d.Derive(twice)
		assert.Equal(t, once, twice, in)
		assert.Equal(t, twice, thrice, in)

		res := d.DeriveResult(twice)
		seen := map[string]bool{}
		for _, tag := range res.Entities.Tags {
			assert.False(t, seen[tag], "duplicate tag %q in %q", tag, twice)
			seen[tag] = true
		}
	}
}

func TestDerive_ConcurrentUse(t *testing.T) {
	t.Parallel()

	d := newTestDeriver()
	names := []string{
		"2016-03-05 10er.pdf",
		"rec_20171129-0902.wav",
		"Screenshot_2017-11-29_10-32-12.png",
		"2016-01-19 bill foobar baz 12,12EUR.pdf",
	}
	want := make([]string, len(names))
	for i, n := range names {
		want[i] = d.Derive(n)
	}

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i, n := range names {
				assert.Equal(t, want[i], d.Derive(n))
			}
		}()
	}
	wg.Wait()
}

func TestNew_CopiesPlausibility(t *testing.T) {
	t.Parallel()

	sizes := config.Plausibility{
		Tolerance: 0,
		Rate:      []config.QualityRate{{Quality: "Q4A", MinBytesPerSecond: 1, MaxBytesPerSecond: 2}},
	}
	d := New(nil, sizes)
	sizes.Rate[0].MaxBytesPerSecond = 1_000_000

	err := d.CheckSize("x_17020613P_17024324P_Q4A.mp4", 1000)
	assert.ErrorIs(t, err, plausibility.ErrImplausibleSize)
}

func TestCheckSize(t *testing.T) {
	t.Parallel()

	d := newTestDeriver()
	const prefix = "20180608T170000 ORF - ZIB 17_00 - size -ORIGINAL- 2018-06-08_1700_tl__13979222__o__1892278656__s14313181_1__WEB03HD_"

	tests := []struct {
		name     string
		filename string
		size     int64
		wantErr  bool
		tooSmall bool
	}{
		{name: "low quality plausible", filename: prefix + "17020613P_17024324P_Q4A.mp4", size: 5_000_000},
		{name: "high quality plausible", filename: prefix + "17020613P_17024324P_Q8C.mp4", size: 15_000_000},
		{
			name:     "one hour segment too small",
			filename: prefix + "17020613P_18024324P_Q4A.mp4",
			size:     5_000_000,
			wantErr:  true,
			tooSmall: true,
		},
		{
			name:     "high quality too small",
			filename: prefix + "17020613P_18024324P_Q8C.mp4",
			size:     5_000_000,
			wantErr:  true,
			tooSmall: true,
		},
		{
			name:     "far too large",
			filename: prefix + "17020613P_17024324P_Q4A.mp4",
			size:     500_000_000,
			wantErr:  true,
		},
		{
			name:     "segment across midnight",
			filename: "x__ORF3HD_23592020P_00593103P_Q8C.mp4",
			size:     2_000_000_000,
		},
		{name: "no timecode", filename: "IMG_20190118_133928.jpg", size: 1},
		{name: "unknown quality", filename: prefix + "17020613P_17024324P_Q9Z.mp4", size: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := d.CheckSize(tt.filename, tt.size)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, plausibility.ErrImplausibleSize))

			var sizeErr *plausibility.SizeError
			require.ErrorAs(t, err, &sizeErr)
			assert.Equal(t, tt.tooSmall, sizeErr.TooSmall())
		})
	}
}

func TestDerive_DoesNotCheckSize(t *testing.T) {
	t.Parallel()

	// implausible sizes only surface through CheckSize
	d := newTestDeriver()
	name := "20180608T170000 ORF - ZIB 17_00 - size not okay -ORIGINAL- 2018-06-08_1700_tl__13979222__o__1892278656__s14313181_1__WEB03HD_17020613P_18024324P_Q4A.mp4"
	assert.Equal(t, "2018-06-08T17.02.06 ORF - ZIB 17 00 - size not okay -- lowquality.mp4", d.Derive(name))
}

func TestResult_Changed(t *testing.T) {
	t.Parallel()

	d := newTestDeriver()
	assert.True(t, d.DeriveResult("rec_20171129-0902.wav").Changed("rec_20171129-0902.wav"))
	assert.False(t, d.DeriveResult("2017-11-29T09.02.wav").Changed("2017-11-29T09.02.wav"))
}
