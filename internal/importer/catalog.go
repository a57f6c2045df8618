// file: internal/importer/catalog.go
// version: 1.0.0
// guid: 176b9152-164d-42c1-8545-ccbf0d2091b3

// Package importer walks the library, identifies audio files through
// the precedence chain, and scores them against the local catalog.
package importer

import (
	"log"
	"math"
	"regexp"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// CatalogAlbum is one (artist, album) row the matcher scores against.
type CatalogAlbum struct {
	ArtistID   string
	AlbumID    string
	ArtistName string
	AlbumTitle string
}

// MatchStrategy records how the best candidate was found.
type MatchStrategy string

const (
	MatchExact MatchStrategy = "exact"
	MatchFuzzy MatchStrategy = "fuzzy"
)

// DecisionKind classifies a catalog decision.
type DecisionKind string

const (
	DecisionImport      DecisionKind = "import"
	DecisionNeedsReview DecisionKind = "needs_review"
	DecisionSkip        DecisionKind = "skip"
)

// Decision is the catalog matcher's verdict for one parsed file.
type Decision struct {
	Kind       DecisionKind  `json:"kind"`
	ArtistID   string        `json:"artist_id,omitempty"`
	AlbumID    string        `json:"album_id,omitempty"`
	Confidence float64       `json:"confidence,omitempty"`
	Strategy   MatchStrategy `json:"strategy,omitempty"`
	Reason     string        `json:"reason,omitempty"`
}

// Matcher scores parsed metadata against catalog rows. Thresholds are
// sanitized at construction: values outside [0,1] clamp with a
// warning, and non-finite values fall back to the documented defaults
// (fuzzy 0.0, auto-import 1.0).
type Matcher struct {
	fuzzyThreshold      float64
	autoImportThreshold float64
}

// NewMatcher builds a matcher with sanitized thresholds.
func NewMatcher(fuzzyThreshold, autoImportThreshold float64) *Matcher {
	return &Matcher{
		fuzzyThreshold:      sanitizeThreshold("fuzzy", fuzzyThreshold, 0.0),
		autoImportThreshold: sanitizeThreshold("auto-import", autoImportThreshold, 1.0),
	}
}

func sanitizeThreshold(name string, v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		log.Printf("[WARN] importer: %s threshold is not finite, using default %.1f", name, fallback)
		return fallback
	}
	if v < 0.0 || v > 1.0 {
		clamped := math.Min(math.Max(v, 0.0), 1.0)
		log.Printf("[WARN] importer: %s threshold %.3f outside [0,1], clamping to %.1f", name, v, clamped)
		return clamped
	}
	return v
}

// Match scores (artist, album) against every catalog row and decides.
// An empty catalog or no candidate meeting the fuzzy threshold yields
// Skip; a best match below the auto-import threshold yields
// NeedsReview.
func (m *Matcher) Match(artist, album string, catalog []CatalogAlbum) Decision {
	if len(catalog) == 0 {
		return Decision{Kind: DecisionSkip, Reason: "catalog is empty"}
	}

	var best *Decision
	for _, row := range catalog {
		artistSim := similarity(artist, row.ArtistName)
		albumSim := similarity(album, row.AlbumTitle)
		confidence := 0.6*artistSim + 0.4*albumSim

		strategy := MatchFuzzy
		if artistSim == 1.0 && albumSim == 1.0 {
			strategy = MatchExact
		} else if confidence < m.fuzzyThreshold {
			continue
		}

		if best == nil || confidence > best.Confidence {
			best = &Decision{
				ArtistID:   row.ArtistID,
				AlbumID:    row.AlbumID,
				Confidence: confidence,
				Strategy:   strategy,
			}
		}
	}

	if best == nil {
		return Decision{Kind: DecisionSkip, Reason: "no matching artist/album candidate found"}
	}
	if best.Confidence >= m.autoImportThreshold {
		best.Kind = DecisionImport
		return *best
	}
	best.Kind = DecisionNeedsReview
	best.Reason = "match confidence below auto-import threshold"
	return *best
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9\s]+`)
var multiSpaceRe = regexp.MustCompile(`\s+`)

// normalizeName lowercases and strips everything but alphanumerics and
// single spaces.
func normalizeName(s string) string {
	s = strings.ToLower(s)
	s = nonAlnumRe.ReplaceAllString(s, "")
	s = multiSpaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// similarity is 1 - levenshtein/maxlen over normalized strings. Empty
// inputs score 0.
func similarity(a, b string) float64 {
	na, nb := normalizeName(a), normalizeName(b)
	if na == "" || nb == "" {
		return 0.0
	}
	if na == nb {
		return 1.0
	}
	dist := fuzzy.LevenshteinDistance(na, nb)
	maxLen := len([]rune(na))
	if l := len([]rune(nb)); l > maxLen {
		maxLen = l
	}
	return 1.0 - float64(dist)/float64(maxLen)
}
