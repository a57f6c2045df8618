// file: internal/indexer/indexer.go
// version: 1.0.0
// guid: b5aa27c3-1adf-4438-822d-6858fa0f8485

// Package indexer searches external release feeds over the newznab and
// torznab dialects.
package indexer

import (
	"context"

	"github.com/svetakrava/chorrosion/internal/clienterr"
	"github.com/svetakrava/chorrosion/internal/models"
)

// Categories maps friendly names onto the newznab music category tree.
var Categories = map[string]int{
	"music":      3000,
	"audio/mp3":  3010,
	"audio/flac": 3040,
}

// Capabilities is what an indexer advertises through t=caps.
type Capabilities struct {
	Search     bool  `json:"search"`
	RSS        bool  `json:"rss"`
	Categories []int `json:"categories"`
}

// SearchRequest is one search against an indexer.
type SearchRequest struct {
	Query    string
	Category int
	Limit    int
	Offset   int
}

// Item is one listing parsed from an indexer feed.
type Item struct {
	Title       string `json:"title"`
	GUID        string `json:"guid,omitempty"`
	Link        string `json:"link,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	Description string `json:"description,omitempty"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`
	Seeders     int    `json:"seeders,omitempty"`
	Peers       int    `json:"peers,omitempty"`
}

// Client is the indexer operation set the jobs consume.
type Client interface {
	Name() string
	Caps(ctx context.Context) (Capabilities, error)
	Search(ctx context.Context, req SearchRequest) ([]Item, error)
}

// NewFromConfig builds a client for one configured indexer. Gazelle and
// custom dialects are recognized but have no client yet.
func NewFromConfig(cfg models.IndexerConfig) (Client, error) {
	switch cfg.Protocol {
	case models.ProtocolNewznab, models.ProtocolTorznab:
		return NewTorznabClient(TorznabOptions{
			Name:    cfg.Name,
			BaseURL: cfg.BaseURL,
			APIKey:  cfg.APIKey,
		})
	case models.ProtocolGazelle, models.ProtocolCustom:
		return nil, clienterr.Parameter("indexer protocol %q is not supported yet", cfg.Protocol)
	default:
		return nil, clienterr.Parameter("unknown indexer protocol %q", cfg.Protocol)
	}
}
