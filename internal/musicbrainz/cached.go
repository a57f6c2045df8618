// file: internal/musicbrainz/cached.go
// version: 1.0.0
// guid: 40a31c1b-a707-4036-b452-2de4cb7eb7ed

package musicbrainz

import (
	"context"
	"fmt"
	"time"

	"github.com/svetakrava/chorrosion/internal/cache"
)

// CachedClient memoizes music database responses. A cache hit
// short-circuits both the rate limiter and the network.
type CachedClient struct {
	client *Client

	artists       *cache.Cache[*Artist]
	releaseGroups *cache.Cache[*ReleaseGroup]
	recordings    *cache.Cache[*Recording]

	artistSearches       *cache.Cache[[]Artist]
	releaseGroupSearches *cache.Cache[[]ReleaseGroup]
	recordingSearches    *cache.Cache[[]Recording]
}

// NewCachedClient wraps client with bounded caches. TTL applies to all
// entry kinds; capacity applies per kind.
func NewCachedClient(client *Client, capacity int, ttl time.Duration) *CachedClient {
	return &CachedClient{
		client:               client,
		artists:              cache.New[*Artist](capacity, ttl),
		releaseGroups:        cache.New[*ReleaseGroup](capacity, ttl),
		recordings:           cache.New[*Recording](capacity, ttl),
		artistSearches:       cache.New[[]Artist](capacity, ttl),
		releaseGroupSearches: cache.New[[]ReleaseGroup](capacity, ttl),
		recordingSearches:    cache.New[[]Recording](capacity, ttl),
	}
}

func searchKey(query string, limit, offset int) string {
	return fmt.Sprintf("%s:%d:%d", query, limit, offset)
}

func (c *CachedClient) LookupArtist(ctx context.Context, mbid string) (*Artist, error) {
	if hit, ok := c.artists.Get(mbid); ok {
		return hit, nil
	}
	a, err := c.client.LookupArtist(ctx, mbid)
	if err != nil {
		return nil, err
	}
	c.artists.Set(mbid, a)
	return a, nil
}

func (c *CachedClient) LookupReleaseGroup(ctx context.Context, mbid string) (*ReleaseGroup, error) {
	if hit, ok := c.releaseGroups.Get(mbid); ok {
		return hit, nil
	}
	rg, err := c.client.LookupReleaseGroup(ctx, mbid)
	if err != nil {
		return nil, err
	}
	c.releaseGroups.Set(mbid, rg)
	return rg, nil
}

func (c *CachedClient) LookupRecording(ctx context.Context, mbid string) (*Recording, error) {
	if hit, ok := c.recordings.Get(mbid); ok {
		return hit, nil
	}
	r, err := c.client.LookupRecording(ctx, mbid)
	if err != nil {
		return nil, err
	}
	c.recordings.Set(mbid, r)
	return r, nil
}

func (c *CachedClient) SearchArtists(ctx context.Context, query string, limit, offset int) ([]Artist, error) {
	key := searchKey(query, limit, offset)
	if hit, ok := c.artistSearches.Get(key); ok {
		return hit, nil
	}
	res, err := c.client.SearchArtists(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	c.artistSearches.Set(key, res)
	return res, nil
}

func (c *CachedClient) SearchReleaseGroups(ctx context.Context, query string, limit, offset int) ([]ReleaseGroup, error) {
	key := searchKey(query, limit, offset)
	if hit, ok := c.releaseGroupSearches.Get(key); ok {
		return hit, nil
	}
	res, err := c.client.SearchReleaseGroups(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	c.releaseGroupSearches.Set(key, res)
	return res, nil
}

func (c *CachedClient) SearchRecordings(ctx context.Context, query string, limit, offset int) ([]Recording, error) {
	key := searchKey(query, limit, offset)
	if hit, ok := c.recordingSearches.Get(key); ok {
		return hit, nil
	}
	res, err := c.client.SearchRecordings(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	c.recordingSearches.Set(key, res)
	return res, nil
}

// Close shuts down the underlying client.
func (c *CachedClient) Close() {
	c.client.Close()
}
