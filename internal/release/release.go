// file: internal/release/release.go
// version: 1.0.0
// guid: 6c1fc560-4b82-4c15-a7a7-ef837dc9881d

// Package release normalizes indexer result titles into structured
// quality metadata, then filters, ranks, and deduplicates candidates.
package release

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Quality is the encoding detected from a release title.
type Quality string

const (
	QualityFLAC    Quality = "FLAC"
	QualityALAC    Quality = "ALAC"
	QualityMP3     Quality = "MP3"
	QualityAAC     Quality = "AAC"
	QualityUnknown Quality = "Unknown"
)

// Lossless reports whether the quality is a lossless encoding.
func (q Quality) Lossless() bool {
	return q == QualityFLAC || q == QualityALAC
}

// Release is a parsed indexer result title.
type Release struct {
	OriginalTitle string  `json:"original_title"`
	Artist        string  `json:"artist,omitempty"`
	Album         string  `json:"album,omitempty"`
	Quality       Quality `json:"quality"`
	BitrateKbps   int     `json:"bitrate_kbps,omitempty"`
	Group         string  `json:"release_group,omitempty"`

	// Carried through from the indexer listing when available.
	DownloadURL string `json:"download_url,omitempty"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
	Seeders     int    `json:"seeders,omitempty"`
}

var (
	bitrateRe      = regexp.MustCompile(`(?i)\b(\d{2,4})\s?(?:kbps|k)\b`)
	groupRe        = regexp.MustCompile(`-([A-Za-z0-9][A-Za-z0-9_.-]{1,31})$`)
	bracketRe      = regexp.MustCompile(`\[[^\]]*\]|\([^\)]*\)`)
	qualityTokenRe = regexp.MustCompile(`(?i)\b(flac|alac|mp3|aac|m4a|v0|v2)\b|\b\d{2,4}\s?(?:kbps|k)\b`)
	spaceRe        = regexp.MustCompile(`\s+`)
)

// ParseTitle parses one release title. Parsing never fails; fields the
// title does not carry stay zero.
func ParseTitle(title string) Release {
	r := Release{OriginalTitle: title, Quality: detectQuality(title)}
	r.BitrateKbps = detectBitrate(title)
	r.Group = detectGroup(title)
	r.Artist, r.Album = extractArtistAlbum(title, r.Group)
	return r
}

// detectQuality matches case-insensitive substrings in priority order.
func detectQuality(title string) Quality {
	upper := strings.ToUpper(title)
	switch {
	case strings.Contains(upper, "FLAC"):
		return QualityFLAC
	case strings.Contains(upper, "ALAC"):
		return QualityALAC
	case strings.Contains(upper, "MP3"), strings.Contains(upper, "V0"), strings.Contains(upper, "V2"):
		return QualityMP3
	case strings.Contains(upper, "AAC"), strings.Contains(upper, "M4A"):
		return QualityAAC
	default:
		return QualityUnknown
	}
}

// detectBitrate finds an explicit kbps marker; V0 and V2 presets map to
// their nominal averages when no number is present.
func detectBitrate(title string) int {
	if m := bitrateRe.FindStringSubmatch(title); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	upper := strings.ToUpper(title)
	if strings.Contains(upper, "V0") {
		return 245
	}
	if strings.Contains(upper, "V2") {
		return 190
	}
	return 0
}

func detectGroup(title string) string {
	if m := groupRe.FindStringSubmatch(strings.TrimSpace(title)); m != nil {
		return m[1]
	}
	return ""
}

// extractArtistAlbum strips bracketed chunks and the trailing group,
// splits on the first " - ", and removes quality tokens from the album
// side.
func extractArtistAlbum(title, group string) (string, string) {
	cleaned := bracketRe.ReplaceAllString(title, "")
	cleaned = strings.TrimSpace(cleaned)
	if group != "" {
		cleaned = strings.TrimSuffix(cleaned, "-"+group)
		cleaned = strings.TrimSpace(cleaned)
	}
	idx := strings.Index(cleaned, " - ")
	if idx < 0 {
		return "", ""
	}
	artist := strings.TrimSpace(cleaned[:idx])
	album := strings.TrimSpace(cleaned[idx+3:])
	album = qualityTokenRe.ReplaceAllString(album, "")
	album = strings.TrimSpace(spaceRe.ReplaceAllString(album, " "))
	return artist, album
}

// String reconstructs a canonical title carrying the parsed quality
// metadata. Re-parsing the result preserves quality, bitrate, and
// group.
func (r Release) String() string {
	var b strings.Builder
	if r.Artist != "" && r.Album != "" {
		fmt.Fprintf(&b, "%s - %s", r.Artist, r.Album)
	} else {
		b.WriteString(strings.TrimSpace(bracketRe.ReplaceAllString(r.OriginalTitle, "")))
	}
	if r.Quality != QualityUnknown || r.BitrateKbps > 0 {
		b.WriteString(" [")
		if r.Quality != QualityUnknown {
			b.WriteString(string(r.Quality))
		}
		if r.BitrateKbps > 0 {
			if r.Quality != QualityUnknown {
				b.WriteString(" ")
			}
			fmt.Fprintf(&b, "%dkbps", r.BitrateKbps)
		}
		b.WriteString("]")
	}
	if r.Group != "" {
		fmt.Fprintf(&b, "-%s", r.Group)
	}
	return b.String()
}

// normalize lowercases and keeps alphanumerics and single spaces, for
// dedup keys.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '\t':
			b.WriteRune(' ')
		}
	}
	return strings.TrimSpace(spaceRe.ReplaceAllString(b.String(), " "))
}
