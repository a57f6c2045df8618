// file: internal/mediafile/scan.go
// version: 1.0.0
// guid: 799c9320-ccfc-4ad3-ba49-4db56994b74a

// Package mediafile walks the library, reads embedded tags, and parses
// filenames into track metadata.
package mediafile

import (
	"io/fs"
	"log"
	"path/filepath"
	"sort"
	"strings"
)

// AudioExtensions enumerates the container formats the scanner admits.
var AudioExtensions = map[string]bool{
	"mp3":  true,
	"flac": true,
	"m4a":  true,
	"aac":  true,
	"ogg":  true,
	"opus": true,
	"wav":  true,
	"wv":   true,
	"ape":  true,
	"dsf":  true,
}

// ScannedFile is one audio file discovered under the library root.
type ScannedFile struct {
	Path      string `json:"path"`
	Extension string `json:"extension"`
	SizeBytes int64  `json:"size_bytes"`
}

// Scan recurses from root, skipping symlinks, and returns every file
// with a recognized audio extension sorted by path. Unknown extensions
// are skipped without error.
func Scan(root string) ([]ScannedFile, error) {
	var files []ScannedFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type()&fs.ModeSymlink != 0 {
			log.Printf("[DEBUG] scan: skipping symlink %s", path)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
		if !AudioExtensions[ext] {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, ScannedFile{
			Path:      path,
			Extension: ext,
			SizeBytes: info.Size(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
