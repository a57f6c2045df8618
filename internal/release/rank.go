// file: internal/release/rank.go
// version: 1.0.0
// guid: aa97a02d-68ef-474f-8bb8-1ec0b83ae839

package release

import (
	"fmt"
	"sort"
	"strings"
)

// Options steers filtering and ranking.
type Options struct {
	// PreferredQualities restricts candidates; empty admits any.
	PreferredQualities []Quality
	// MinBitrateKbps floors lossy candidates. Lossless candidates
	// satisfy the floor even when their bitrate is unknown.
	MinBitrateKbps int
	// PreferredGroups earn a ranking bonus, matched case-insensitively.
	PreferredGroups []string
}

const (
	scoreLossless     = 200
	scoreMP3          = 120
	scoreAAC          = 100
	scoreUnknown      = 20
	scoreGroupBonus   = 75
	bitrateScoreShift = 10
)

// Filter drops candidates outside the preferred qualities or below the
// bitrate floor.
func Filter(releases []Release, opts Options) []Release {
	out := make([]Release, 0, len(releases))
	for _, r := range releases {
		if !qualityAllowed(r.Quality, opts.PreferredQualities) {
			continue
		}
		if !meetsBitrateFloor(r, opts.MinBitrateKbps) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func qualityAllowed(q Quality, preferred []Quality) bool {
	if len(preferred) == 0 {
		return true
	}
	for _, p := range preferred {
		if q == p {
			return true
		}
	}
	return false
}

// Lossless rips pass the floor unconditionally: rippers rarely tag a
// bitrate, and the floor exists to weed out low-grade lossy encodes.
func meetsBitrateFloor(r Release, minBitrate int) bool {
	if minBitrate <= 0 || r.Quality.Lossless() {
		return true
	}
	return r.BitrateKbps >= minBitrate
}

// Score computes the ranking score for one release under opts.
func Score(r Release, opts Options) int {
	var s int
	switch r.Quality {
	case QualityFLAC, QualityALAC:
		s = scoreLossless
	case QualityMP3:
		s = scoreMP3
	case QualityAAC:
		s = scoreAAC
	default:
		s = scoreUnknown
	}
	s += r.BitrateKbps / bitrateScoreShift
	if groupPreferred(r.Group, opts.PreferredGroups) {
		s += scoreGroupBonus
	}
	return s
}

func groupPreferred(group string, preferred []string) bool {
	if group == "" {
		return false
	}
	for _, p := range preferred {
		if strings.EqualFold(group, p) {
			return true
		}
	}
	return false
}

// Rank orders releases by score descending. The sort is stable so
// equal-scoring candidates keep their listing order.
func Rank(releases []Release, opts Options) []Release {
	ranked := make([]Release, len(releases))
	copy(ranked, releases)
	sort.SliceStable(ranked, func(i, j int) bool {
		return Score(ranked[i], opts) > Score(ranked[j], opts)
	})
	return ranked
}

// Dedup collapses candidates with identical identity tuples, keeping
// the first occurrence.
func Dedup(releases []Release) []Release {
	seen := make(map[string]bool, len(releases))
	out := make([]Release, 0, len(releases))
	for _, r := range releases {
		key := fmt.Sprintf("%s|%s|%s|%d|%s",
			normalize(r.Artist), normalize(r.Album), r.Quality, r.BitrateKbps, strings.ToLower(r.Group))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}

// Best filters, dedups, and ranks, returning the top candidate.
func Best(releases []Release, opts Options) (Release, bool) {
	ranked := Rank(Dedup(Filter(releases, opts)), opts)
	if len(ranked) == 0 {
		return Release{}, false
	}
	return ranked[0], true
}
