// file: internal/importer/importer.go
// version: 1.0.0
// guid: d2a9bdfe-86bd-459c-b41f-f6c9b2c30ed4

package importer

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/svetakrava/chorrosion/internal/events"
	"github.com/svetakrava/chorrosion/internal/mediafile"
	"github.com/svetakrava/chorrosion/internal/metrics"
	"github.com/svetakrava/chorrosion/internal/repository"
)

// FileResult is the pipeline outcome for one scanned file.
type FileResult struct {
	Path           string          `json:"path"`
	Identification *Identification `json:"identification,omitempty"`
	Decision       Decision        `json:"decision"`
}

// Report summarizes one pipeline run.
type Report struct {
	Scanned     int          `json:"scanned"`
	Imported    int          `json:"imported"`
	NeedsReview int          `json:"needs_review"`
	Skipped     int          `json:"skipped"`
	Results     []FileResult `json:"results"`
}

// Pipeline coordinates scan, identification, and catalog decisions for
// a library root.
type Pipeline struct {
	identifier *Identifier
	matcher    *Matcher
	store      *repository.Store
	bus        *events.Bus
	tagReader  mediafile.TagReader
}

// NewPipeline wires the import pipeline.
func NewPipeline(identifier *Identifier, matcher *Matcher, store *repository.Store, bus *events.Bus, tagReader mediafile.TagReader) *Pipeline {
	return &Pipeline{
		identifier: identifier,
		matcher:    matcher,
		store:      store,
		bus:        bus,
		tagReader:  tagReader,
	}
}

// Run scans root and processes every audio file through the precedence
// chain and the catalog matcher.
func (p *Pipeline) Run(ctx context.Context, root string, minConfidence float64) (*Report, error) {
	files, err := mediafile.Scan(root)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	catalog, err := p.loadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}

	metrics.AddFilesScanned(len(files))
	report := &Report{Scanned: len(files)}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		result := p.processFile(ctx, f, catalog, minConfidence)
		report.Results = append(report.Results, result)
		switch result.Decision.Kind {
		case DecisionImport:
			report.Imported++
		case DecisionNeedsReview:
			report.NeedsReview++
		case DecisionSkip:
			report.Skipped++
		}
	}

	log.Printf("[INFO] importer: processed %d files: %d imported, %d need review, %d skipped",
		report.Scanned, report.Imported, report.NeedsReview, report.Skipped)
	return report, nil
}

func (p *Pipeline) processFile(ctx context.Context, f mediafile.ScannedFile, catalog []CatalogAlbum, minConfidence float64) FileResult {
	result := FileResult{Path: f.Path}

	ident, err := p.identifier.IdentifyFile(ctx, f.Path, minConfidence)
	if err != nil {
		if !errors.Is(err, ErrAllStrategiesFailed) {
			log.Printf("[ERROR] importer: identifying %s: %v", f.Path, err)
			result.Decision = Decision{Kind: DecisionSkip, Reason: err.Error()}
			return result
		}
		// Unidentified files still get a catalog decision from whatever
		// metadata the resolver can produce.
	} else {
		result.Identification = &ident
	}

	tags, _ := p.readTagsSafe(f.Path)
	meta, err := mediafile.ParseTrackMetadata(f.Path, tags)
	if err != nil {
		result.Decision = Decision{Kind: DecisionNeedsReview, Reason: "could not resolve artist/album metadata"}
		p.announce(result)
		return result
	}

	result.Decision = p.matcher.Match(meta.Artist, meta.Album, catalog)
	metrics.IncImportDecision(string(result.Decision.Kind))
	p.announce(result)
	return result
}

func (p *Pipeline) readTagsSafe(path string) (mediafile.TagData, error) {
	if p.tagReader == nil {
		return mediafile.TagData{}, nil
	}
	return p.tagReader.ReadTags(path)
}

func (p *Pipeline) loadCatalog(ctx context.Context) ([]CatalogAlbum, error) {
	if p.store == nil {
		return nil, nil
	}
	artists, err := p.store.Artists.List(ctx)
	if err != nil {
		return nil, err
	}
	var catalog []CatalogAlbum
	for _, artist := range artists {
		albums, err := p.store.Albums.ListByArtist(ctx, artist.ID)
		if err != nil {
			return nil, err
		}
		for _, album := range albums {
			catalog = append(catalog, CatalogAlbum{
				ArtistID:   artist.ID,
				AlbumID:    album.ID,
				ArtistName: artist.Name,
				AlbumTitle: album.Title,
			})
		}
	}
	return catalog, nil
}

func (p *Pipeline) announce(result FileResult) {
	if p.bus == nil {
		return
	}
	name := "import." + string(result.Decision.Kind)
	if err := p.bus.Publish(name, result); err != nil {
		log.Printf("[WARN] importer: publishing %s event: %v", name, err)
	}
}
