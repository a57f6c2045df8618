// file: internal/importer/catalog_test.go
// version: 1.0.0
// guid: 261baab1-39e8-4732-8548-d2be5870abba

package importer

import (
	"math"
	"testing"
)

func TestFuzzyCatalogMatchAutoImports(t *testing.T) {
	// A typo in the artist name and casing differences in the album
	// title still clear the auto-import threshold.
	catalog := []CatalogAlbum{{
		ArtistID:   "artist-1",
		AlbumID:    "album-1",
		ArtistName: "Boards of Canada",
		AlbumTitle: "Music Has the Right to Children",
	}}
	m := NewMatcher(0.70, 0.80)

	d := m.Match("Boards of Canda", "Music Has The Right To Children", catalog)
	if d.Kind != DecisionImport {
		t.Fatalf("decision = %s (%s), want import", d.Kind, d.Reason)
	}
	if d.Confidence < 0.8 {
		t.Errorf("confidence = %.3f, want >= 0.8", d.Confidence)
	}
	if d.ArtistID != "artist-1" || d.AlbumID != "album-1" {
		t.Errorf("matched ids = (%s, %s)", d.ArtistID, d.AlbumID)
	}
	if d.Strategy != MatchFuzzy {
		t.Errorf("strategy = %s, want fuzzy", d.Strategy)
	}
}

func TestBelowThresholdNeedsReview(t *testing.T) {
	catalog := []CatalogAlbum{{
		ArtistID:   "artist-1",
		AlbumID:    "album-1",
		ArtistName: "Known Artist",
		AlbumTitle: "Known Album",
	}}
	m := NewMatcher(0.10, 0.95)

	d := m.Match("Unknown Artist", "Unknown Album", catalog)
	if d.Kind != DecisionNeedsReview {
		t.Fatalf("decision = %s, want needs_review", d.Kind)
	}
	if d.Reason == "" {
		t.Error("needs_review decision should carry a reason")
	}
	if d.Confidence >= 0.95 {
		t.Errorf("confidence = %.3f, should be below the auto threshold", d.Confidence)
	}
}

func TestEmptyCatalogSkips(t *testing.T) {
	m := NewMatcher(0.5, 0.8)
	d := m.Match("Any Artist", "Any Album", nil)
	if d.Kind != DecisionSkip {
		t.Fatalf("decision = %s, want skip", d.Kind)
	}
	if d.Reason != "catalog is empty" {
		t.Errorf("reason = %q", d.Reason)
	}
}

func TestNoCandidatePassesFuzzyThreshold(t *testing.T) {
	catalog := []CatalogAlbum{{
		ArtistID: "a", AlbumID: "b",
		ArtistName: "Completely Different", AlbumTitle: "Nothing Alike",
	}}
	m := NewMatcher(0.95, 0.99)
	d := m.Match("Boards of Canada", "Geogaddi", catalog)
	if d.Kind != DecisionSkip {
		t.Fatalf("decision = %s, want skip", d.Kind)
	}
}

func TestExactMatchStrategy(t *testing.T) {
	catalog := []CatalogAlbum{{
		ArtistID: "a", AlbumID: "b",
		ArtistName: "Daft Punk", AlbumTitle: "Discovery",
	}}
	m := NewMatcher(0.5, 0.8)
	d := m.Match("daft punk", "DISCOVERY", catalog)
	if d.Kind != DecisionImport || d.Strategy != MatchExact {
		t.Errorf("decision = %+v, want exact import", d)
	}
	if d.Confidence != 1.0 {
		t.Errorf("confidence = %.3f, want 1.0", d.Confidence)
	}
}

func TestBestCandidateWins(t *testing.T) {
	catalog := []CatalogAlbum{
		{ArtistID: "a1", AlbumID: "b1", ArtistName: "Daft Punk", AlbumTitle: "Homework"},
		{ArtistID: "a1", AlbumID: "b2", ArtistName: "Daft Punk", AlbumTitle: "Discovery"},
	}
	m := NewMatcher(0.3, 0.8)
	d := m.Match("Daft Punk", "Discovery", catalog)
	if d.AlbumID != "b2" {
		t.Errorf("matched album = %s, want the closer title", d.AlbumID)
	}
}

func TestThresholdSanitization(t *testing.T) {
	// Out-of-range thresholds clamp; non-finite values use defaults.
	cases := []struct {
		fuzzy, auto float64
	}{
		{-0.5, 1.7},
		{math.NaN(), math.Inf(1)},
		{2.0, math.NaN()},
	}
	catalog := []CatalogAlbum{{ArtistID: "a", AlbumID: "b", ArtistName: "X", AlbumTitle: "Y"}}
	for _, c := range cases {
		m := NewMatcher(c.fuzzy, c.auto)
		if m.fuzzyThreshold < 0 || m.fuzzyThreshold > 1 {
			t.Errorf("fuzzy threshold %.3f outside [0,1] after sanitize(%v)", m.fuzzyThreshold, c.fuzzy)
		}
		if m.autoImportThreshold < 0 || m.autoImportThreshold > 1 {
			t.Errorf("auto threshold %.3f outside [0,1] after sanitize(%v)", m.autoImportThreshold, c.auto)
		}
		// Matching never produces a decision under an invalid threshold.
		_ = m.Match("X", "Y", catalog)
	}
}

func TestZeroMinThresholdAnyMatchWins(t *testing.T) {
	catalog := []CatalogAlbum{{ArtistID: "a", AlbumID: "b", ArtistName: "Somebody", AlbumTitle: "Something"}}
	m := NewMatcher(0.0, 0.0)
	d := m.Match("Else", "Other", catalog)
	if d.Kind != DecisionImport {
		t.Errorf("decision = %s, want import with zero thresholds", d.Kind)
	}
}

func TestExactThresholdOnlyExactWins(t *testing.T) {
	catalog := []CatalogAlbum{{ArtistID: "a", AlbumID: "b", ArtistName: "Exact Artist", AlbumTitle: "Exact Album"}}
	m := NewMatcher(1.0, 1.0)

	if d := m.Match("Exact Artist", "Exact Album", catalog); d.Kind != DecisionImport {
		t.Errorf("exact input: decision = %s, want import", d.Kind)
	}
	if d := m.Match("Exact Artst", "Exact Album", catalog); d.Kind == DecisionImport {
		t.Errorf("near input: decision = %s, import requires exactness", d.Kind)
	}
}

func TestSimilarityProperties(t *testing.T) {
	if got := similarity("", "anything"); got != 0.0 {
		t.Errorf("empty input similarity = %f, want 0", got)
	}
	if got := similarity("Same", "same"); got != 1.0 {
		t.Errorf("case-only difference similarity = %f, want 1", got)
	}
	if got := similarity("Sigur Rós", "Sigur Ros"); got < 0.8 {
		t.Errorf("accent-stripped similarity = %f, want close to 1", got)
	}
}
