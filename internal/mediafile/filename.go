// file: internal/mediafile/filename.go
// version: 1.0.0
// guid: c2ef9e03-176b-4805-a569-6c94f8c9af87

package mediafile

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrParsingFailed indicates no filename pattern matched.
var ErrParsingFailed = errors.New("no filename pattern matched")

// ParsedTrack is what a filename pattern yields. Empty fields after
// trimming are left blank; Track is zero when absent.
type ParsedTrack struct {
	Artist string
	Album  string
	Title  string
	Track  int
}

// Patterns in order of specificity. The first match wins.
var filenamePatterns = []*regexp.Regexp{
	// ARTIST - ALBUM - NN - TITLE
	regexp.MustCompile(`^(?P<artist>[^-]+)\s*-\s*(?P<album>[^-]+)\s*-\s*(?P<track>\d+)\s*-\s*(?P<title>.+?)(?:\.|$)`),
	// ARTIST - NN - TITLE
	regexp.MustCompile(`^(?P<artist>[^-]+)\s*-\s*(?P<track>\d+)\s*-\s*(?P<title>.+?)(?:\.|$)`),
	// NN - TITLE
	regexp.MustCompile(`^(?P<track>\d+)\s*-\s*(?P<title>.+?)(?:\.|$)`),
	// NN TITLE
	regexp.MustCompile(`^(?P<track>\d+)\s+(?P<title>.+?)(?:\.|$)`),
}

// ParseFilename attempts the patterns in order against a bare filename
// (no directory component).
func ParseFilename(name string) (ParsedTrack, error) {
	for _, re := range filenamePatterns {
		m := re.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		var out ParsedTrack
		for i, group := range re.SubexpNames() {
			if i == 0 || group == "" {
				continue
			}
			val := strings.TrimSpace(m[i])
			switch group {
			case "artist":
				out.Artist = val
			case "album":
				out.Album = val
			case "title":
				out.Title = val
			case "track":
				if n, err := strconv.Atoi(val); err == nil {
					out.Track = n
				}
			}
		}
		return out, nil
	}
	return ParsedTrack{}, ErrParsingFailed
}
