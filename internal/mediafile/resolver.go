// file: internal/mediafile/resolver.go
// version: 1.0.0
// guid: 4805fe1d-3505-4713-bca1-ea5a1e32ecaf

package mediafile

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// TrackMetadata is the resolved identity of one audio file, assembled
// from embedded tags with filename and folder structure as fallback.
type TrackMetadata struct {
	Artist      string
	Album       string
	Title       string
	TrackNumber int
	BitrateKbps int
	Source      MetadataSource
}

// MetadataSource records which strategy supplied the metadata.
type MetadataSource string

const (
	SourceEmbeddedTags MetadataSource = "embedded_tags"
	SourceFilename     MetadataSource = "filename"
)

var filenameBitrateRe = regexp.MustCompile(`(?i)\b(\d{3})\s?kbps\b`)

// ParseTrackMetadata resolves metadata for path. Embedded tags win when
// artist, album, and title are all present; otherwise the folder
// structure supplies artist (grandparent) and album (parent) and the
// filename parser fills the rest. Fails when any of artist, album, or
// title remains absent.
func ParseTrackMetadata(path string, tags TagData) (TrackMetadata, error) {
	if tags.Complete() {
		return TrackMetadata{
			Artist:      strings.TrimSpace(tags.Artist),
			Album:       strings.TrimSpace(tags.Album),
			Title:       strings.TrimSpace(tags.Title),
			TrackNumber: tags.TrackNumber,
			BitrateKbps: bitrateFor(path, tags),
			Source:      SourceEmbeddedTags,
		}, nil
	}

	name := filepath.Base(path)
	parentDir := filepath.Base(filepath.Dir(path))
	grandparentDir := filepath.Base(filepath.Dir(filepath.Dir(path)))

	parsed, err := ParseFilename(name)
	if err != nil {
		return TrackMetadata{}, fmt.Errorf("parsing %s: %w", name, err)
	}

	meta := TrackMetadata{
		Artist:      firstNonEmpty(parsed.Artist, tags.Artist, folderName(grandparentDir)),
		Album:       firstNonEmpty(parsed.Album, tags.Album, folderName(parentDir)),
		Title:       firstNonEmpty(parsed.Title, tags.Title),
		TrackNumber: parsed.Track,
		BitrateKbps: bitrateFor(path, tags),
		Source:      SourceFilename,
	}
	if tags.TrackNumber != 0 && meta.TrackNumber == 0 {
		meta.TrackNumber = tags.TrackNumber
	}

	var missing []string
	if meta.Artist == "" {
		missing = append(missing, "artist")
	}
	if meta.Album == "" {
		missing = append(missing, "album")
	}
	if meta.Title == "" {
		missing = append(missing, "title")
	}
	if len(missing) > 0 {
		return TrackMetadata{}, fmt.Errorf("resolving %s: missing %s", name, strings.Join(missing, ", "))
	}
	return meta, nil
}

// bitrateFor prefers the tag-reported bitrate and falls back to a
// kbps marker in the filename.
func bitrateFor(path string, tags TagData) int {
	if tags.BitrateKbps > 0 {
		return tags.BitrateKbps
	}
	if m := filenameBitrateRe.FindStringSubmatch(filepath.Base(path)); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return 0
}

// folderName rejects path roots and relative markers as metadata.
func folderName(dir string) string {
	switch dir {
	case ".", "..", "/", "":
		return ""
	default:
		return dir
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
