// file: internal/coverart/coordinator.go
// version: 1.0.0
// guid: b14d37a5-9b8d-4e8e-87d1-e54b66a56d7c

package coverart

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/svetakrava/chorrosion/internal/cache"
)

// Coordinator walks an ordered provider list until one answers, and
// caches successful resolutions per release group.
type Coordinator struct {
	providers []Provider
	cache     *cache.Cache[Artwork]
}

// NewCoordinator builds a coordinator over providers in fallback
// order. The default chain is [fanart, archive].
func NewCoordinator(providers []Provider, cacheCapacity int, cacheTTL time.Duration) *Coordinator {
	return &Coordinator{
		providers: providers,
		cache:     cache.New[Artwork](cacheCapacity, cacheTTL),
	}
}

// FetchCoverArt resolves artwork for one release group. Unconfigured
// providers are skipped. When every attempted provider errored, a
// ProvidersFailedError carrying each error surfaces; when all returned
// empty, ErrNoArtworkFound.
func (c *Coordinator) FetchCoverArt(ctx context.Context, releaseGroupMBID string) (Artwork, error) {
	if releaseGroupMBID == "" {
		return Artwork{}, fmt.Errorf("empty release group mbid")
	}
	if hit, ok := c.cache.Get(releaseGroupMBID); ok {
		return hit, nil
	}

	var failures []error
	attempts := 0
	for _, p := range c.providers {
		if !p.Configured() {
			log.Printf("[DEBUG] coverart: provider %s not configured, skipping", p.Name())
			continue
		}
		attempts++
		url, err := p.FetchAlbumArt(ctx, releaseGroupMBID)
		if err != nil {
			if errors.Is(err, ErrNoArtworkFound) {
				continue
			}
			log.Printf("[WARN] coverart: provider %s failed for %s: %v", p.Name(), releaseGroupMBID, err)
			failures = append(failures, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		if url == "" {
			continue
		}
		art := Artwork{URL: url, Provider: p.Name()}
		c.cache.Set(releaseGroupMBID, art)
		return art, nil
	}

	if attempts > 0 && len(failures) == attempts {
		return Artwork{}, &ProvidersFailedError{Errors: failures}
	}
	return Artwork{}, ErrNoArtworkFound
}
