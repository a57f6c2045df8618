// file: internal/coverart/provider.go
// version: 1.0.0
// guid: 3e697012-0e34-4111-b20c-4417df7cc1b2

// Package coverart resolves album artwork through an ordered provider
// chain with a shared cache.
package coverart

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ProviderName identifies an artwork source.
type ProviderName string

const (
	ProviderFanart  ProviderName = "fanart"
	ProviderArchive ProviderName = "archive"
)

// Artwork is a resolved cover image for a release group.
type Artwork struct {
	URL      string       `json:"url"`
	Provider ProviderName `json:"provider"`
}

// Provider is one artwork source in the fallback chain.
type Provider interface {
	Name() ProviderName
	// Configured reports whether the provider has the credentials it
	// needs. Unconfigured providers are skipped, not attempted.
	Configured() bool
	// FetchAlbumArt returns the best image URL for a release group, or
	// ErrNoArtworkFound when the provider has nothing.
	FetchAlbumArt(ctx context.Context, releaseGroupMBID string) (string, error)
}

// ErrNoArtworkFound indicates every attempted provider answered with an
// empty result. Callers treat this as "no answer", not failure.
var ErrNoArtworkFound = errors.New("no artwork found")

// ProvidersFailedError indicates every attempted provider errored.
type ProvidersFailedError struct {
	Errors []error
}

func (e *ProvidersFailedError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("all artwork providers failed: %s", strings.Join(msgs, "; "))
}
