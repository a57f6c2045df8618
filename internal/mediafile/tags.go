// file: internal/mediafile/tags.go
// version: 1.0.0
// guid: 5f6f2699-7d1c-4dbe-8095-eb1024cc6c44

package mediafile

import (
	"os"
	"strings"

	"github.com/dhowden/tag"
)

// TagData is the metadata a container carries embedded.
type TagData struct {
	Artist      string
	Album       string
	Title       string
	TrackNumber int
	BitrateKbps int // zero when the container does not report it
}

// Complete reports whether artist, album, and title are all present
// after trimming.
func (t TagData) Complete() bool {
	return strings.TrimSpace(t.Artist) != "" &&
		strings.TrimSpace(t.Album) != "" &&
		strings.TrimSpace(t.Title) != ""
}

// TagReader extracts embedded tags from a file. The default reader
// uses the container parsers in dhowden/tag.
type TagReader interface {
	ReadTags(path string) (TagData, error)
}

// FileTagReader reads tags straight from the filesystem.
type FileTagReader struct{}

// ReadTags opens path and parses whatever tag block the container
// carries. Files without tags return zero-valued TagData and no error.
func (FileTagReader) ReadTags(path string) (TagData, error) {
	f, err := os.Open(path)
	if err != nil {
		return TagData{}, err
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		// No tag block is a normal state for ripped files.
		return TagData{}, nil
	}
	track, _ := m.Track()
	return TagData{
		Artist:      strings.TrimSpace(m.Artist()),
		Album:       strings.TrimSpace(m.Album()),
		Title:       strings.TrimSpace(m.Title()),
		TrackNumber: track,
	}, nil
}
