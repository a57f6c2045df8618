// file: internal/fingerprint/generator.go
// version: 1.0.0
// guid: 8992f310-11d6-4cbc-a75f-ad4af50038a9

package fingerprint

import (
	"context"
	"log"
	"path/filepath"
	"strings"

	"github.com/svetakrava/chorrosion/internal/clienterr"
)

// MaxSampleSeconds caps how much decoded audio feeds the chromaprint
// engine. Truncation happens at the source sample rate.
const MaxSampleSeconds = 120

// Decoder turns one container format into mono 16-bit PCM. Channel
// mixing and clamping happen inside the decoder.
type Decoder interface {
	// Decode returns the full mono PCM stream and its sample rate.
	Decode(path string) (samples []int16, sampleRate int, err error)
}

// Engine is the chromaprint binding.
type Engine interface {
	// Compute hashes up to MaxSampleSeconds of samples at the given rate.
	Compute(samples []int16, sampleRate int) (string, error)
}

// Backend selects which decoder set a generator carries. The embedded
// backend handles FLAC and MP3; the full backend adds the remaining
// container formats when its decoders are supplied.
type Backend int

const (
	BackendEmbedded Backend = iota
	BackendFull
)

// Generator probes files by extension and produces fingerprints.
type Generator struct {
	engine   Engine
	decoders map[string]Decoder
}

// NewGenerator builds a generator for the given backend. The decoders
// map is keyed by lowercase extension without the dot.
func NewGenerator(backend Backend, engine Engine, decoders map[string]Decoder) *Generator {
	supported := map[Backend][]string{
		BackendEmbedded: {"flac", "mp3"},
		BackendFull:     {"flac", "mp3", "ogg", "opus", "wv", "ape", "dsf", "m4a", "wav"},
	}
	active := make(map[string]Decoder)
	for _, ext := range supported[backend] {
		if d, ok := decoders[ext]; ok {
			active[ext] = d
		}
	}
	return &Generator{engine: engine, decoders: active}
}

// Supports reports whether the generator can fingerprint files with the
// given extension.
func (g *Generator) Supports(ext string) bool {
	_, ok := g.decoders[strings.ToLower(strings.TrimPrefix(ext, "."))]
	return ok
}

// Generate decodes at most MaxSampleSeconds of audio from path and
// returns its fingerprint. The reported duration covers the full file.
func (g *Generator) Generate(ctx context.Context, path string) (Fingerprint, error) {
	if err := ctx.Err(); err != nil {
		return Fingerprint{}, clienterr.Transport(err)
	}

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	decoder, ok := g.decoders[ext]
	if !ok {
		return Fingerprint{}, clienterr.Parameter("unsupported audio format %q", ext)
	}

	samples, sampleRate, err := decoder.Decode(path)
	if err != nil {
		return Fingerprint{}, clienterr.Transport(err)
	}
	if sampleRate <= 0 {
		return Fingerprint{}, clienterr.Parameter("decoder reported sample rate %d", sampleRate)
	}
	if len(samples) == 0 {
		return Fingerprint{}, clienterr.Parameter("decoder produced no samples for %s", path)
	}

	duration := float64(len(samples)) / float64(sampleRate)

	// Truncate at the actual sample rate, never a hard-coded one.
	limit := MaxSampleSeconds * sampleRate
	if len(samples) > limit {
		samples = samples[:limit]
	}

	hash, err := g.engine.Compute(samples, sampleRate)
	if err != nil {
		return Fingerprint{}, clienterr.Application(err.Error())
	}

	fp, err := New(hash, duration)
	if err != nil {
		log.Printf("[WARN] fingerprint: engine produced invalid hash for %s: %v", path, err)
		return Fingerprint{}, err
	}
	return fp, nil
}
