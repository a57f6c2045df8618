// file: internal/mediafile/filename_test.go
// version: 1.0.0
// guid: 489d6127-7401-4461-a48b-6dfc530ebc88

package mediafile

import (
	"errors"
	"testing"
)

func TestParseFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ParsedTrack
	}{
		{
			"artist album track title",
			"Daft Punk - Discovery - 03 - Digital Love.flac",
			ParsedTrack{Artist: "Daft Punk", Album: "Discovery", Track: 3, Title: "Digital Love"},
		},
		{
			"artist track title",
			"Daft Punk - 03 - Digital Love.mp3",
			ParsedTrack{Artist: "Daft Punk", Track: 3, Title: "Digital Love"},
		},
		{
			"track dash title",
			"03 - Digital Love.mp3",
			ParsedTrack{Track: 3, Title: "Digital Love"},
		},
		{
			"track space title",
			"03 Digital Love.mp3",
			ParsedTrack{Track: 3, Title: "Digital Love"},
		},
		{
			"whitespace trimmed",
			"  Daft Punk  -  Discovery  -  12  -  Veridis Quo  .flac",
			ParsedTrack{Artist: "Daft Punk", Album: "Discovery", Track: 12, Title: "Veridis Quo"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFilename(tt.in)
			if err != nil {
				t.Fatalf("ParseFilename(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFilename(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseFilenameNoMatch(t *testing.T) {
	for _, in := range []string{"random noise.txt", "Title Only.mp3", ""} {
		if _, err := ParseFilename(in); !errors.Is(err, ErrParsingFailed) {
			t.Errorf("ParseFilename(%q) err = %v, want ErrParsingFailed", in, err)
		}
	}
}

func TestParseTrackMetadataPrefersTags(t *testing.T) {
	tags := TagData{Artist: "Boards of Canada", Album: "Geogaddi", Title: "1969", TrackNumber: 15}
	meta, err := ParseTrackMetadata("/music/Whatever/Else/15 - Something.flac", tags)
	if err != nil {
		t.Fatalf("ParseTrackMetadata failed: %v", err)
	}
	if meta.Source != SourceEmbeddedTags {
		t.Errorf("Source = %s, want embedded_tags", meta.Source)
	}
	if meta.Artist != "Boards of Canada" || meta.Album != "Geogaddi" || meta.Title != "1969" {
		t.Errorf("meta = %+v", meta)
	}
}

func TestParseTrackMetadataFolderFallback(t *testing.T) {
	meta, err := ParseTrackMetadata("/music/Daft Punk/Discovery/03 - Digital Love.flac", TagData{})
	if err != nil {
		t.Fatalf("ParseTrackMetadata failed: %v", err)
	}
	if meta.Source != SourceFilename {
		t.Errorf("Source = %s, want filename", meta.Source)
	}
	if meta.Artist != "Daft Punk" {
		t.Errorf("Artist = %q, want grandparent folder", meta.Artist)
	}
	if meta.Album != "Discovery" {
		t.Errorf("Album = %q, want parent folder", meta.Album)
	}
	if meta.Title != "Digital Love" || meta.TrackNumber != 3 {
		t.Errorf("meta = %+v", meta)
	}
}

func TestParseTrackMetadataBitrateFromFilename(t *testing.T) {
	meta, err := ParseTrackMetadata("/music/Artist/Album/01 - Intro 320kbps.mp3", TagData{})
	if err != nil {
		t.Fatalf("ParseTrackMetadata failed: %v", err)
	}
	if meta.BitrateKbps != 320 {
		t.Errorf("BitrateKbps = %d, want 320", meta.BitrateKbps)
	}
}

func TestParseTrackMetadataMissingFields(t *testing.T) {
	// Shallow path: no grandparent folder to supply the artist.
	if _, err := ParseTrackMetadata("03 - Digital Love.flac", TagData{}); err == nil {
		t.Error("expected failure when artist cannot be resolved")
	}
}
