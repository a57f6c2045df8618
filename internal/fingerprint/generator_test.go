// file: internal/fingerprint/generator_test.go
// version: 1.0.0
// guid: f067fd63-ed54-4436-95bf-0857d2515758

package fingerprint

import (
	"context"
	"testing"
)

type stubDecoder struct {
	samples    []int16
	sampleRate int
	err        error
}

func (d *stubDecoder) Decode(path string) ([]int16, int, error) {
	return d.samples, d.sampleRate, d.err
}

type captureEngine struct {
	gotSamples int
	gotRate    int
	hash       string
}

func (e *captureEngine) Compute(samples []int16, sampleRate int) (string, error) {
	e.gotSamples = len(samples)
	e.gotRate = sampleRate
	return e.hash, nil
}

func TestGenerateTruncatesAtSourceSampleRate(t *testing.T) {
	// 130 seconds of audio at a non-CD rate; only 120s may feed the engine.
	const rate = 22050
	samples := make([]int16, 130*rate)
	engine := &captureEngine{hash: "AQADtMmybfGO8NCN"}
	g := NewGenerator(BackendEmbedded, engine, map[string]Decoder{
		"flac": &stubDecoder{samples: samples, sampleRate: rate},
	})

	fp, err := g.Generate(context.Background(), "/music/track.flac")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if engine.gotSamples != MaxSampleSeconds*rate {
		t.Errorf("engine fed %d samples, want %d", engine.gotSamples, MaxSampleSeconds*rate)
	}
	if engine.gotRate != rate {
		t.Errorf("engine fed rate %d, want %d", engine.gotRate, rate)
	}
	// Duration reports the full file, not the truncated window.
	if fp.DurationSeconds != 130 {
		t.Errorf("DurationSeconds = %f, want 130", fp.DurationSeconds)
	}
}

func TestGenerateShortFileNotTruncated(t *testing.T) {
	const rate = 44100
	samples := make([]int16, 30*rate)
	engine := &captureEngine{hash: "AQADtMmybfGO8NCN"}
	g := NewGenerator(BackendEmbedded, engine, map[string]Decoder{
		"mp3": &stubDecoder{samples: samples, sampleRate: rate},
	})

	fp, err := g.Generate(context.Background(), "/music/track.mp3")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if engine.gotSamples != len(samples) {
		t.Errorf("engine fed %d samples, want all %d", engine.gotSamples, len(samples))
	}
	if fp.DurationSeconds != 30 {
		t.Errorf("DurationSeconds = %f, want 30", fp.DurationSeconds)
	}
}

func TestGenerateUnsupportedExtension(t *testing.T) {
	g := NewGenerator(BackendEmbedded, &captureEngine{hash: "AQAD"}, map[string]Decoder{
		"flac": &stubDecoder{samples: []int16{1}, sampleRate: 44100},
	})
	if _, err := g.Generate(context.Background(), "/music/cover.jpg"); err == nil {
		t.Error("Generate on unsupported extension should fail")
	}
}

func TestEmbeddedBackendRejectsExtraFormats(t *testing.T) {
	decoders := map[string]Decoder{
		"flac": &stubDecoder{samples: []int16{1}, sampleRate: 44100},
		"ogg":  &stubDecoder{samples: []int16{1}, sampleRate: 44100},
	}
	embedded := NewGenerator(BackendEmbedded, &captureEngine{hash: "AQAD"}, decoders)
	if embedded.Supports("ogg") {
		t.Error("embedded backend should not support ogg")
	}
	full := NewGenerator(BackendFull, &captureEngine{hash: "AQAD"}, decoders)
	if !full.Supports("ogg") {
		t.Error("full backend should support ogg when a decoder is supplied")
	}
}
