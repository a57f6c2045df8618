// file: internal/indexer/rss_test.go
// version: 1.0.0
// guid: 6f2d4944-a20f-40b8-80af-0f1435ddce7c

package indexer

import (
	"testing"
)

func TestParseRSSNormalizesPubDate(t *testing.T) {
	feed := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Feed</title>
    <item>
      <title>Daft Punk - Discovery [FLAC]-GRPX</title>
      <guid>abc-123</guid>
      <link>https://indexer.example/dl/abc-123</link>
      <pubDate>Wed, 25 Feb 2026 10:00:00 +0000</pubDate>
    </item>
  </channel>
</rss>`)

	items, err := ParseRSS(feed)
	if err != nil {
		t.Fatalf("ParseRSS failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0].PublishedAt != "2026-02-25T10:00:00+00:00" {
		t.Errorf("PublishedAt = %q, want 2026-02-25T10:00:00+00:00", items[0].PublishedAt)
	}
}

func TestParseRSSTolerant(t *testing.T) {
	feed := []byte(`<rss version="2.0">
  <channel>
    <title>Sparse Feed</title>
    <item><title>Only A Title</title></item>
    <item><guid>no-title-dropped</guid></item>
    <item>
      <title>With Attrs</title>
      <pubDate>not a date at all</pubDate>
      <attr name="seeders" value="42"/>
      <attr name="peers" value="60"/>
      <attr name="size" value="734003200"/>
    </item>
  </channel>
</rss>`)

	items, err := ParseRSS(feed)
	if err != nil {
		t.Fatalf("ParseRSS failed: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2 (title-less item dropped)", len(items))
	}

	sparse := items[0]
	if sparse.Title != "Only A Title" || sparse.GUID != "" || sparse.PublishedAt != "" {
		t.Errorf("sparse item = %+v", sparse)
	}

	attrs := items[1]
	if attrs.Seeders != 42 || attrs.Peers != 60 || attrs.SizeBytes != 734003200 {
		t.Errorf("attrs item = %+v", attrs)
	}
	// Unparseable pubDate passes through unchanged.
	if attrs.PublishedAt != "not a date at all" {
		t.Errorf("PublishedAt = %q, want passthrough", attrs.PublishedAt)
	}
}

func TestParseRSSInvalidXML(t *testing.T) {
	if _, err := ParseRSS([]byte("this is not xml")); err == nil {
		t.Error("invalid XML should fail")
	}
}

func TestNormalizePubDate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"rfc2822 with offset", "Wed, 25 Feb 2026 10:00:00 +0000", "2026-02-25T10:00:00+00:00"},
		{"rfc2822 nonzero offset", "Wed, 25 Feb 2026 12:00:00 +0200", "2026-02-25T10:00:00+00:00"},
		{"rfc2822 named zone", "Wed, 25 Feb 2026 10:00:00 UTC", "2026-02-25T10:00:00+00:00"},
		{"rfc3339", "2026-02-25T10:00:00Z", "2026-02-25T10:00:00+00:00"},
		{"unparseable passthrough", "yesterday-ish", "yesterday-ish"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizePubDate(tt.in); got != tt.want {
				t.Errorf("NormalizePubDate(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
