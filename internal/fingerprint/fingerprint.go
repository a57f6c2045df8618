// file: internal/fingerprint/fingerprint.go
// version: 1.0.0
// guid: 63d763ad-1e7e-4d14-bbaa-1665fa192c4a

// Package fingerprint produces and validates acoustic fingerprints and
// submits them to the identification service.
package fingerprint

import (
	"strings"

	"github.com/svetakrava/chorrosion/internal/clienterr"
)

// Algorithm is the chromaprint algorithm identifier carried on every
// fingerprint this system produces.
const Algorithm = 4

// Fingerprint is a compact acoustic hash of up to 120 seconds of
// decoded audio, plus the full duration of the source file.
type Fingerprint struct {
	Hash            string  `json:"hash"`
	DurationSeconds float64 `json:"duration_seconds"`
	Algorithm       int     `json:"algorithm"`
}

// New builds a validated fingerprint.
func New(hash string, durationSeconds float64) (Fingerprint, error) {
	fp := Fingerprint{Hash: hash, DurationSeconds: durationSeconds, Algorithm: Algorithm}
	if err := fp.Validate(); err != nil {
		return Fingerprint{}, err
	}
	return fp, nil
}

// Validate checks the stored-fingerprint invariants: the hash is
// non-empty base64 with at most two trailing padding characters and no
// interior padding, duration is positive, and the algorithm matches.
func (f Fingerprint) Validate() error {
	if f.Hash == "" {
		return clienterr.Parameter("fingerprint hash is empty")
	}
	trimmed := strings.TrimRight(f.Hash, "=")
	if len(f.Hash)-len(trimmed) > 2 {
		return clienterr.Parameter("fingerprint hash has more than two padding characters")
	}
	if strings.ContainsRune(trimmed, '=') {
		return clienterr.Parameter("fingerprint hash has interior padding")
	}
	for _, r := range trimmed {
		if !isBase64Char(r) {
			return clienterr.Parameter("fingerprint hash contains invalid character %q", r)
		}
	}
	if f.DurationSeconds <= 0 {
		return clienterr.Parameter("fingerprint duration must be positive, got %f", f.DurationSeconds)
	}
	if f.Algorithm != Algorithm {
		return clienterr.Parameter("unsupported fingerprint algorithm %d", f.Algorithm)
	}
	return nil
}

func isBase64Char(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z':
		return true
	case r >= 'a' && r <= 'z':
		return true
	case r >= '0' && r <= '9':
		return true
	case r == '+' || r == '/':
		return true
	default:
		return false
	}
}
