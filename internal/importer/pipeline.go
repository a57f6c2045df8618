// file: internal/importer/pipeline.go
// version: 1.0.0
// guid: 4a1fbbbb-27af-466e-ad0a-27792a5e9275

package importer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"path/filepath"
	"strings"

	"github.com/svetakrava/chorrosion/internal/clienterr"
	"github.com/svetakrava/chorrosion/internal/fingerprint"
	"github.com/svetakrava/chorrosion/internal/mediafile"
	"github.com/svetakrava/chorrosion/internal/musicbrainz"
)

// ErrAllStrategiesFailed indicates every strategy in the precedence
// chain returned no result. The file is queued for manual review.
var ErrAllStrategiesFailed = errors.New("all identification strategies failed")

// Strategy names the precedence chain step that produced an
// identification.
type Strategy string

const (
	StrategyFingerprint        Strategy = "fingerprint"
	StrategyEmbeddedTags       Strategy = "embedded_tags"
	StrategyFilenameHeuristics Strategy = "filename_heuristics"
)

// Identification is a confident recording id for one file.
type Identification struct {
	RecordingID string   `json:"recording_id"`
	Score       float64  `json:"score"`
	Strategy    Strategy `json:"strategy"`
}

// FingerprintGenerator produces fingerprints for supported formats.
type FingerprintGenerator interface {
	Supports(ext string) bool
	Generate(ctx context.Context, path string) (fingerprint.Fingerprint, error)
}

// FingerprintLookup submits fingerprints to the identification
// service.
type FingerprintLookup interface {
	LookupBest(ctx context.Context, fp fingerprint.Fingerprint, minScore float64) (fingerprint.RecordingMatch, error)
}

// RecordingSearcher queries the music database by search terms.
type RecordingSearcher interface {
	SearchRecordings(ctx context.Context, query string, limit, offset int) ([]musicbrainz.Recording, error)
}

// Identifier runs the per-file precedence chain: fingerprint, then
// embedded tags, then filename heuristics. A strategy's error never
// aborts the chain.
type Identifier struct {
	generator FingerprintGenerator
	lookup    FingerprintLookup
	searcher  RecordingSearcher
	tagReader mediafile.TagReader
}

// NewIdentifier wires the chain's collaborators. Any of generator or
// lookup may be nil, which disables the fingerprint strategy.
func NewIdentifier(generator FingerprintGenerator, lookup FingerprintLookup, searcher RecordingSearcher, tagReader mediafile.TagReader) *Identifier {
	return &Identifier{
		generator: generator,
		lookup:    lookup,
		searcher:  searcher,
		tagReader: tagReader,
	}
}

// IdentifyFile resolves one file to a recording id. An invalid
// minConfidence is a terminal parameter error; it is never clamped
// here.
func (id *Identifier) IdentifyFile(ctx context.Context, path string, minConfidence float64) (Identification, error) {
	if math.IsNaN(minConfidence) || minConfidence < 0.0 || minConfidence > 1.0 {
		return Identification{}, clienterr.Parameter("min confidence %f outside [0,1]", minConfidence)
	}

	if result, ok := id.tryFingerprint(ctx, path, minConfidence); ok {
		return result, nil
	}
	tags := id.readTags(path)
	if result, ok := id.tryEmbeddedTags(ctx, tags, minConfidence); ok {
		return result, nil
	}
	if result, ok := id.tryFilenameHeuristics(ctx, path, tags, minConfidence); ok {
		return result, nil
	}
	return Identification{}, fmt.Errorf("%s: %w", path, ErrAllStrategiesFailed)
}

func (id *Identifier) tryFingerprint(ctx context.Context, path string, minConfidence float64) (Identification, bool) {
	if id.generator == nil || id.lookup == nil {
		return Identification{}, false
	}
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if !id.generator.Supports(ext) {
		return Identification{}, false
	}

	fp, err := id.generator.Generate(ctx, path)
	if err != nil {
		log.Printf("[DEBUG] importer: fingerprinting %s failed: %v", path, err)
		return Identification{}, false
	}

	match, err := id.lookup.LookupBest(ctx, fp, minConfidence)
	if err != nil {
		var lc *fingerprint.LowConfidenceError
		switch {
		case errors.Is(err, fingerprint.ErrNoMatches), errors.As(err, &lc):
			log.Printf("[DEBUG] importer: fingerprint strategy for %s: %v", path, err)
		default:
			log.Printf("[WARN] importer: fingerprint lookup for %s failed: %v", path, err)
		}
		return Identification{}, false
	}
	return Identification{RecordingID: match.ID, Score: match.Score, Strategy: StrategyFingerprint}, true
}

func (id *Identifier) readTags(path string) mediafile.TagData {
	if id.tagReader == nil {
		return mediafile.TagData{}
	}
	tags, err := id.tagReader.ReadTags(path)
	if err != nil {
		log.Printf("[DEBUG] importer: reading tags for %s: %v", path, err)
		return mediafile.TagData{}
	}
	return tags
}

func (id *Identifier) tryEmbeddedTags(ctx context.Context, tags mediafile.TagData, minConfidence float64) (Identification, bool) {
	if id.searcher == nil || !tags.Complete() {
		return Identification{}, false
	}
	query := fmt.Sprintf(`recording:%s AND artist:%s AND release:%s`,
		luceneQuote(tags.Title), luceneQuote(tags.Artist), luceneQuote(tags.Album))
	return id.searchBest(ctx, query, minConfidence, StrategyEmbeddedTags)
}

func (id *Identifier) tryFilenameHeuristics(ctx context.Context, path string, tags mediafile.TagData, minConfidence float64) (Identification, bool) {
	if id.searcher == nil {
		return Identification{}, false
	}
	meta, err := mediafile.ParseTrackMetadata(path, tags)
	if err != nil {
		log.Printf("[DEBUG] importer: filename heuristics for %s: %v", path, err)
		return Identification{}, false
	}
	if meta.Artist == "" || meta.Title == "" {
		return Identification{}, false
	}
	query := fmt.Sprintf(`recording:%s AND artist:%s`, luceneQuote(meta.Title), luceneQuote(meta.Artist))
	return id.searchBest(ctx, query, minConfidence, StrategyFilenameHeuristics)
}

// searchBest runs one music-DB query and picks the highest-scoring
// recording meeting minConfidence. Search scores arrive as 0-100.
func (id *Identifier) searchBest(ctx context.Context, query string, minConfidence float64, strategy Strategy) (Identification, bool) {
	recs, err := id.searcher.SearchRecordings(ctx, query, 10, 0)
	if err != nil {
		log.Printf("[WARN] importer: %s search failed: %v", strategy, err)
		return Identification{}, false
	}

	var best *musicbrainz.Recording
	for i := range recs {
		if best == nil || recs[i].Score > best.Score {
			best = &recs[i]
		}
	}
	if best == nil {
		return Identification{}, false
	}
	score := float64(best.Score) / 100.0
	if score < minConfidence {
		log.Printf("[DEBUG] importer: %s best score %.2f below threshold %.2f", strategy, score, minConfidence)
		return Identification{}, false
	}
	return Identification{RecordingID: best.ID, Score: score, Strategy: strategy}, true
}

func luceneQuote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
