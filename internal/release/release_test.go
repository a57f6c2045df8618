// file: internal/release/release_test.go
// version: 1.0.0
// guid: 2065d6de-b3ed-4e52-bfb4-268b3012b72d

package release

import (
	"testing"
)

func TestParseTitle(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		wantQuality Quality
		wantBitrate int
		wantGroup   string
		wantArtist  string
		wantAlbum   string
	}{
		{
			"flac with group",
			"Daft Punk - Discovery [FLAC]-EViLGRP",
			QualityFLAC, 0, "EViLGRP", "Daft Punk", "Discovery",
		},
		{
			"mp3 320",
			"Daft Punk - Discovery 320kbps MP3-RLSGRP",
			QualityMP3, 320, "RLSGRP", "Daft Punk", "Discovery",
		},
		{
			"v0 preset",
			"Radiohead - In Rainbows MP3 V0-GRP2",
			QualityMP3, 245, "GRP2", "Radiohead", "In Rainbows",
		},
		{
			"v2 preset",
			"Radiohead - In Rainbows V2-GRP2",
			QualityMP3, 190, "GRP2", "Radiohead", "In Rainbows",
		},
		{
			"alac",
			"Neil Young - Harvest (Remastered) ALAC-xy",
			QualityALAC, 0, "xy", "Neil Young", "Harvest",
		},
		{
			"aac m4a",
			"Some Artist - Some Album M4A 256k-WEB",
			QualityAAC, 256, "WEB", "Some Artist", "Some Album",
		},
		{
			"no markers",
			"Mystery Artist - Mystery Album",
			QualityUnknown, 0, "", "Mystery Artist", "Mystery Album",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ParseTitle(tt.title)
			if r.Quality != tt.wantQuality {
				t.Errorf("Quality = %s, want %s", r.Quality, tt.wantQuality)
			}
			if r.BitrateKbps != tt.wantBitrate {
				t.Errorf("BitrateKbps = %d, want %d", r.BitrateKbps, tt.wantBitrate)
			}
			if r.Group != tt.wantGroup {
				t.Errorf("Group = %q, want %q", r.Group, tt.wantGroup)
			}
			if r.Artist != tt.wantArtist {
				t.Errorf("Artist = %q, want %q", r.Artist, tt.wantArtist)
			}
			if r.Album != tt.wantAlbum {
				t.Errorf("Album = %q, want %q", r.Album, tt.wantAlbum)
			}
		})
	}
}

func TestParseRoundTripPreservesQualityMetadata(t *testing.T) {
	titles := []string{
		"Daft Punk - Discovery [FLAC]-EViLGRP",
		"Daft Punk - Discovery 320kbps MP3-RLSGRP",
		"Radiohead - In Rainbows MP3 V0-GRP2",
		"Some Artist - Some Album M4A 256k-WEB",
	}
	for _, title := range titles {
		first := ParseTitle(title)
		second := ParseTitle(first.String())
		if second.Quality != first.Quality {
			t.Errorf("%q round trip: quality %s != %s", title, second.Quality, first.Quality)
		}
		if second.BitrateKbps != first.BitrateKbps {
			t.Errorf("%q round trip: bitrate %d != %d", title, second.BitrateKbps, first.BitrateKbps)
		}
		if second.Group != first.Group {
			t.Errorf("%q round trip: group %q != %q", title, second.Group, first.Group)
		}
	}
}

func TestLosslessBeatsLossy(t *testing.T) {
	releases := []Release{
		ParseTitle("Daft Punk - Discovery 320kbps MP3-B"),
		ParseTitle("Daft Punk - Discovery [FLAC]-A"),
	}
	ranked := Rank(releases, Options{})
	if len(ranked) != 2 {
		t.Fatalf("ranked length = %d", len(ranked))
	}
	if ranked[0].Quality != QualityFLAC || ranked[1].Quality != QualityMP3 {
		t.Errorf("rank order = [%s, %s], want [FLAC, MP3]", ranked[0].Quality, ranked[1].Quality)
	}
	best, ok := Best(releases, Options{})
	if !ok || best.Quality != QualityFLAC {
		t.Errorf("best = %+v, want the FLAC entry", best)
	}
}

func TestLosslessAlwaysOutranksUnknown(t *testing.T) {
	flac := ParseTitle("A - B FLAC-GRPX")
	unknown := ParseTitle("A - B")
	for _, opts := range []Options{{}, {PreferredGroups: []string{"other"}}, {MinBitrateKbps: 100}} {
		if Score(flac, opts) <= Score(unknown, opts) {
			t.Errorf("FLAC score %d should exceed Unknown score %d under %+v",
				Score(flac, opts), Score(unknown, opts), opts)
		}
	}
}

func TestFilterMinBitrateLosslessExempt(t *testing.T) {
	releases := []Release{
		ParseTitle("A - B [FLAC]-GRPX"),      // lossless, no bitrate
		ParseTitle("A - B 128kbps MP3-GRPX"), // below floor
		ParseTitle("A - B 320kbps MP3-GRPX"), // above floor
	}
	out := Filter(releases, Options{MinBitrateKbps: 200})
	if len(out) != 2 {
		t.Fatalf("filtered length = %d, want 2: %+v", len(out), out)
	}
	if out[0].Quality != QualityFLAC {
		t.Errorf("lossless entry should pass the bitrate floor")
	}
	if out[1].BitrateKbps != 320 {
		t.Errorf("surviving lossy entry = %+v, want 320kbps", out[1])
	}
}

func TestFilterPreferredQualities(t *testing.T) {
	releases := []Release{
		ParseTitle("A - B [FLAC]-GRPX"),
		ParseTitle("A - B 320kbps MP3-GRPX"),
	}
	out := Filter(releases, Options{PreferredQualities: []Quality{QualityMP3}})
	if len(out) != 1 || out[0].Quality != QualityMP3 {
		t.Errorf("out = %+v, want only MP3", out)
	}
}

func TestPreferredGroupBonus(t *testing.T) {
	preferred := ParseTitle("A - B 320kbps MP3-GOODGRP")
	other := ParseTitle("A - B 320kbps MP3-OTHERGRP")
	opts := Options{PreferredGroups: []string{"goodgrp"}}
	if Score(preferred, opts)-Score(other, opts) != 75 {
		t.Errorf("preferred group bonus = %d, want 75", Score(preferred, opts)-Score(other, opts))
	}
}

func TestDedupKeepsFirst(t *testing.T) {
	a := ParseTitle("Daft Punk - Discovery [FLAC]-GRPX")
	b := ParseTitle("daft punk - DISCOVERY [FLAC]-grpx")
	c := ParseTitle("Daft Punk - Discovery 320kbps MP3-GRPX")
	a.DownloadURL = "first"
	b.DownloadURL = "second"

	out := Dedup([]Release{a, b, c})
	if len(out) != 2 {
		t.Fatalf("deduped length = %d, want 2", len(out))
	}
	if out[0].DownloadURL != "first" {
		t.Error("dedup should keep the first occurrence")
	}
}

func TestRankStable(t *testing.T) {
	// Equal scores keep listing order.
	r1 := ParseTitle("A - B 320kbps MP3-G1")
	r2 := ParseTitle("C - D 320kbps MP3-G2")
	ranked := Rank([]Release{r1, r2}, Options{})
	if ranked[0].Artist != "A" || ranked[1].Artist != "C" {
		t.Errorf("equal-score order changed: %+v", ranked)
	}
}
