// file: internal/importer/importer_test.go
// version: 1.0.0
// guid: 3a0acf53-f9a9-433b-a587-bf3a985a9c9e

package importer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/svetakrava/chorrosion/internal/events"
	"github.com/svetakrava/chorrosion/internal/mediafile"
	"github.com/svetakrava/chorrosion/internal/models"
	"github.com/svetakrava/chorrosion/internal/musicbrainz"
	"github.com/svetakrava/chorrosion/internal/repository"
)

type mapTagReader struct {
	byPath map[string]mediafile.TagData
}

func (m *mapTagReader) ReadTags(path string) (mediafile.TagData, error) {
	return m.byPath[path], nil
}

func writeLibraryFile(t *testing.T, root string, rel string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("audio"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func seedCatalog(t *testing.T, store *repository.Store, artist, album string) {
	t.Helper()
	ctx := context.Background()
	a := &models.Artist{Name: artist, Monitored: true}
	if err := store.Artists.Create(ctx, a); err != nil {
		t.Fatal(err)
	}
	if err := store.Albums.Create(ctx, &models.Album{ArtistID: a.ID, Title: album}); err != nil {
		t.Fatal(err)
	}
}

func TestPipelineRunImportsMatchedFiles(t *testing.T) {
	root := t.TempDir()
	flac := writeLibraryFile(t, root, "Daft Punk/Discovery/03 - Digital Love.flac")
	writeLibraryFile(t, root, "Daft Punk/Discovery/notes.txt") // not audio, never scanned

	store := repository.NewMemoryStore()
	seedCatalog(t, store, "Daft Punk", "Discovery")

	searcher := &stubSearcher{recordings: []musicbrainz.Recording{
		{ID: "rec-dl", Title: "Digital Love", Score: 97},
	}}
	tags := &mapTagReader{byPath: map[string]mediafile.TagData{
		flac: {Artist: "Daft Punk", Album: "Discovery", Title: "Digital Love"},
	}}
	identifier := NewIdentifier(nil, nil, searcher, tags)
	matcher := NewMatcher(0.75, 0.85)
	bus := events.NewBus(events.DefaultCapacity)

	pipeline := NewPipeline(identifier, matcher, store, bus, tags)
	report, err := pipeline.Run(context.Background(), root, 0.8)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if report.Scanned != 1 {
		t.Fatalf("scanned = %d, want 1", report.Scanned)
	}
	if report.Imported != 1 || report.NeedsReview != 0 || report.Skipped != 0 {
		t.Errorf("report = %+v", report)
	}
	result := report.Results[0]
	if result.Identification == nil || result.Identification.RecordingID != "rec-dl" {
		t.Errorf("identification = %+v", result.Identification)
	}
	if result.Decision.Kind != DecisionImport {
		t.Errorf("decision = %+v", result.Decision)
	}

	drained := bus.Drain()
	if len(drained) != 1 || drained[0].Name != "import.import" {
		t.Errorf("events = %+v", drained)
	}
}

func TestPipelineRunUnknownAlbumNeedsReview(t *testing.T) {
	root := t.TempDir()
	mp3 := writeLibraryFile(t, root, "Unknown Artist/Unknown Album/01 - Mystery.mp3")

	store := repository.NewMemoryStore()
	seedCatalog(t, store, "Daft Punk", "Discovery")

	searcher := &stubSearcher{recordings: []musicbrainz.Recording{
		{ID: "rec-m", Title: "Mystery", Score: 92},
	}}
	tags := &mapTagReader{byPath: map[string]mediafile.TagData{
		mp3: {Artist: "Unknown Artist", Album: "Unknown Album", Title: "Mystery"},
	}}
	pipeline := NewPipeline(NewIdentifier(nil, nil, searcher, tags), NewMatcher(0.75, 0.85), store, nil, tags)

	report, err := pipeline.Run(context.Background(), root, 0.8)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.NeedsReview != 1 {
		t.Fatalf("needs review = %d, want 1", report.NeedsReview)
	}
	if !strings.Contains(report.Results[0].Decision.Reason, "no matching artist/album candidate") {
		t.Errorf("reason = %q", report.Results[0].Decision.Reason)
	}
}

func TestPipelineRunEmptyCatalogSkips(t *testing.T) {
	root := t.TempDir()
	mp3 := writeLibraryFile(t, root, "Daft Punk/Discovery/01 - One More Time.mp3")

	tags := &mapTagReader{byPath: map[string]mediafile.TagData{
		mp3: {Artist: "Daft Punk", Album: "Discovery", Title: "One More Time"},
	}}
	searcher := &stubSearcher{recordings: []musicbrainz.Recording{
		{ID: "rec-omt", Title: "One More Time", Score: 96},
	}}
	pipeline := NewPipeline(NewIdentifier(nil, nil, searcher, tags), NewMatcher(0.75, 0.85), repository.NewMemoryStore(), nil, tags)

	report, err := pipeline.Run(context.Background(), root, 0.8)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1", report.Skipped)
	}
	if report.Results[0].Decision.Reason != "catalog is empty" {
		t.Errorf("reason = %q", report.Results[0].Decision.Reason)
	}
}

func TestPipelineRunUnidentifiedFileStillMatched(t *testing.T) {
	// All strategies fail but folder metadata still drives the catalog
	// decision.
	root := t.TempDir()
	writeLibraryFile(t, root, "Daft Punk/Discovery/05 - Crescendolls.ogg")

	store := repository.NewMemoryStore()
	seedCatalog(t, store, "Daft Punk", "Discovery")

	searcher := &stubSearcher{} // no search results at all
	tags := &mapTagReader{byPath: map[string]mediafile.TagData{}}
	pipeline := NewPipeline(NewIdentifier(nil, nil, searcher, tags), NewMatcher(0.75, 0.85), store, nil, tags)

	report, err := pipeline.Run(context.Background(), root, 0.8)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if report.Imported != 1 {
		t.Fatalf("imported = %d, want 1: %+v", report.Imported, report.Results)
	}
	if report.Results[0].Identification != nil {
		t.Error("unidentified file must not carry an identification")
	}
}

func TestPipelineRunMissingRoot(t *testing.T) {
	pipeline := NewPipeline(NewIdentifier(nil, nil, &stubSearcher{}, nil), NewMatcher(0.75, 0.85), nil, nil, nil)
	if _, err := pipeline.Run(context.Background(), filepath.Join(t.TempDir(), "absent"), 0.8); err == nil {
		t.Fatal("expected error for a missing library root")
	}
}
