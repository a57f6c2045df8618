// file: internal/download/client.go
// version: 1.0.0
// guid: 063d147f-c90d-4403-b1af-33bc1becdf93

// Package download adapts external download agents behind one client
// interface.
package download

import (
	"context"
	"math"
	"strings"
)

// State is the normalized download state.
type State string

const (
	StateQueued      State = "queued"
	StateDownloading State = "downloading"
	StatePaused      State = "paused"
	StateCompleted   State = "completed"
	StateError       State = "error"
	StateUnknown     State = "unknown"
)

// Item is one download as reported by the agent.
type Item struct {
	Hash            string `json:"hash"`
	Name            string `json:"name"`
	Category        string `json:"category,omitempty"`
	ProgressPercent int    `json:"progress_percent"`
	State           State  `json:"state"`
	SizeBytes       int64  `json:"size_bytes,omitempty"`
}

// Client abstracts a download agent.
type Client interface {
	// Test validates connectivity and credentials.
	Test(ctx context.Context) error

	// Add submits download URLs under a category.
	Add(ctx context.Context, urls []string, category string) error

	// SetCategory reassigns existing downloads to a category.
	SetCategory(ctx context.Context, hashes []string, category string) error

	// List returns every download the agent tracks.
	List(ctx context.Context) ([]Item, error)

	// Prioritize moves downloads to the top of the agent's queue.
	Prioritize(ctx context.Context, hashes []string) error

	// ClientType returns a label for logging and config disambiguation.
	ClientType() string
}

// MapProgress converts a 0.0-1.0 fraction to a rounded percentage
// clamped to [0, 100].
func MapProgress(fraction float64) int {
	pct := int(math.Round(fraction * 100))
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// MapState normalizes an agent's raw state string by keyword
// containment.
func MapState(raw string) State {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "error"), strings.Contains(s, "missingfiles"):
		return StateError
	case strings.Contains(s, "paused"), strings.Contains(s, "stalled"):
		return StatePaused
	case strings.Contains(s, "uploading"), strings.Contains(s, "completed"):
		return StateCompleted
	case strings.Contains(s, "downloading"), strings.Contains(s, "meta"), strings.Contains(s, "forceddl"):
		return StateDownloading
	case strings.Contains(s, "queued"):
		return StateQueued
	default:
		return StateUnknown
	}
}
