// file: internal/importer/pipeline_test.go
// version: 1.0.0
// guid: 7d0f3ef9-d824-489a-8687-3ed999420b5a

package importer

import (
	"context"
	"errors"
	"testing"

	"github.com/svetakrava/chorrosion/internal/fingerprint"
	"github.com/svetakrava/chorrosion/internal/mediafile"
	"github.com/svetakrava/chorrosion/internal/musicbrainz"
)

type stubGenerator struct {
	supports bool
	fp       fingerprint.Fingerprint
	err      error
	calls    int
}

func (s *stubGenerator) Supports(ext string) bool { return s.supports }

func (s *stubGenerator) Generate(ctx context.Context, path string) (fingerprint.Fingerprint, error) {
	s.calls++
	return s.fp, s.err
}

type stubLookup struct {
	match fingerprint.RecordingMatch
	err   error
	calls int
}

func (s *stubLookup) LookupBest(ctx context.Context, fp fingerprint.Fingerprint, minScore float64) (fingerprint.RecordingMatch, error) {
	s.calls++
	return s.match, s.err
}

type stubSearcher struct {
	recordings []musicbrainz.Recording
	err        error
	calls      int
	lastQuery  string
}

func (s *stubSearcher) SearchRecordings(ctx context.Context, query string, limit, offset int) ([]musicbrainz.Recording, error) {
	s.calls++
	s.lastQuery = query
	return s.recordings, s.err
}

type stubTags struct {
	tags mediafile.TagData
	err  error
}

func (s *stubTags) ReadTags(path string) (mediafile.TagData, error) { return s.tags, s.err }

func validFP() fingerprint.Fingerprint {
	return fingerprint.Fingerprint{Hash: "AQADtMmybfGO8NCN", DurationSeconds: 200, Algorithm: 4}
}

func TestFingerprintStrategyWins(t *testing.T) {
	gen := &stubGenerator{supports: true, fp: validFP()}
	lookup := &stubLookup{match: fingerprint.RecordingMatch{ID: "rec-1", Score: 0.96}}
	searcher := &stubSearcher{}
	id := NewIdentifier(gen, lookup, searcher, &stubTags{})

	got, err := id.IdentifyFile(context.Background(), "/music/a/b/01 - Track.flac", 0.8)
	if err != nil {
		t.Fatalf("IdentifyFile failed: %v", err)
	}
	if got.Strategy != StrategyFingerprint || got.RecordingID != "rec-1" {
		t.Errorf("got = %+v", got)
	}
	if searcher.calls != 0 {
		t.Error("later strategies must not run when fingerprinting succeeds")
	}
}

func TestFallsThroughToEmbeddedTags(t *testing.T) {
	gen := &stubGenerator{supports: true, fp: validFP()}
	lookup := &stubLookup{err: fingerprint.ErrNoMatches}
	searcher := &stubSearcher{recordings: []musicbrainz.Recording{
		{ID: "rec-tags", Title: "Digital Love", Score: 95},
	}}
	tags := &stubTags{tags: mediafile.TagData{Artist: "Daft Punk", Album: "Discovery", Title: "Digital Love"}}
	id := NewIdentifier(gen, lookup, searcher, tags)

	got, err := id.IdentifyFile(context.Background(), "/music/x.flac", 0.8)
	if err != nil {
		t.Fatalf("IdentifyFile failed: %v", err)
	}
	if got.Strategy != StrategyEmbeddedTags || got.RecordingID != "rec-tags" {
		t.Errorf("got = %+v", got)
	}
	if got.Score != 0.95 {
		t.Errorf("score = %f, want search score scaled to [0,1]", got.Score)
	}
	if lookup.calls != 1 {
		t.Errorf("lookup calls = %d, want 1", lookup.calls)
	}
}

func TestStrategyErrorDoesNotAbortChain(t *testing.T) {
	// Fingerprint lookup blows up entirely; the chain continues.
	gen := &stubGenerator{supports: true, fp: validFP()}
	lookup := &stubLookup{err: errors.New("service exploded")}
	searcher := &stubSearcher{recordings: []musicbrainz.Recording{
		{ID: "rec-2", Title: "T", Score: 90},
	}}
	tags := &stubTags{tags: mediafile.TagData{Artist: "A", Album: "B", Title: "T"}}
	id := NewIdentifier(gen, lookup, searcher, tags)

	got, err := id.IdentifyFile(context.Background(), "/music/x.flac", 0.5)
	if err != nil {
		t.Fatalf("IdentifyFile failed: %v", err)
	}
	if got.Strategy != StrategyEmbeddedTags {
		t.Errorf("strategy = %s", got.Strategy)
	}
}

func TestFilenameHeuristicsLastResort(t *testing.T) {
	gen := &stubGenerator{supports: false}
	searcher := &stubSearcher{recordings: []musicbrainz.Recording{
		{ID: "rec-fn", Title: "Digital Love", Score: 85},
	}}
	// No usable tags; folder structure supplies the artist.
	id := NewIdentifier(gen, &stubLookup{}, searcher, &stubTags{})

	got, err := id.IdentifyFile(context.Background(), "/music/Daft Punk/Discovery/03 - Digital Love.ogg", 0.8)
	if err != nil {
		t.Fatalf("IdentifyFile failed: %v", err)
	}
	if got.Strategy != StrategyFilenameHeuristics || got.RecordingID != "rec-fn" {
		t.Errorf("got = %+v", got)
	}
}

func TestAllStrategiesFailed(t *testing.T) {
	gen := &stubGenerator{supports: true, fp: validFP()}
	lookup := &stubLookup{err: fingerprint.ErrNoMatches}
	searcher := &stubSearcher{} // empty results for every query
	id := NewIdentifier(gen, lookup, searcher, &stubTags{})

	_, err := id.IdentifyFile(context.Background(), "/music/Daft Punk/Discovery/03 - Digital Love.flac", 0.8)
	if !errors.Is(err, ErrAllStrategiesFailed) {
		t.Errorf("err = %v, want ErrAllStrategiesFailed", err)
	}
}

func TestInvalidMinConfidenceTerminal(t *testing.T) {
	gen := &stubGenerator{supports: true, fp: validFP()}
	id := NewIdentifier(gen, &stubLookup{}, &stubSearcher{}, &stubTags{})

	for _, bad := range []float64{-0.01, 1.01} {
		_, err := id.IdentifyFile(context.Background(), "/music/x.flac", bad)
		if err == nil || errors.Is(err, ErrAllStrategiesFailed) {
			t.Errorf("min confidence %f: err = %v, want terminal parameter error", bad, err)
		}
	}
	if gen.calls != 0 {
		t.Error("no strategy should run for an invalid threshold")
	}
}

func TestSearchBelowThresholdFallsThrough(t *testing.T) {
	searcher := &stubSearcher{recordings: []musicbrainz.Recording{
		{ID: "weak", Title: "T", Score: 40},
	}}
	tags := &stubTags{tags: mediafile.TagData{Artist: "A", Album: "B", Title: "T"}}
	id := NewIdentifier(nil, nil, searcher, tags)

	_, err := id.IdentifyFile(context.Background(), "/music/A/B/01 - T.mp3", 0.8)
	if !errors.Is(err, ErrAllStrategiesFailed) {
		t.Errorf("err = %v, want ErrAllStrategiesFailed when every candidate scores low", err)
	}
	// Both the tag strategy and the filename strategy queried.
	if searcher.calls != 2 {
		t.Errorf("search calls = %d, want 2", searcher.calls)
	}
}
