// file: internal/musicbrainz/client.go
// version: 1.0.0
// guid: fe3507e8-830b-4a2e-b2e6-4ffa7258cfe6

// Package musicbrainz queries the external music database for artist,
// release-group, and recording metadata. Requests serialize through a
// minimum-interval gate so the service's politeness rules hold even
// when several jobs query concurrently.
package musicbrainz

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/svetakrava/chorrosion/internal/clienterr"
	"github.com/svetakrava/chorrosion/internal/ratelimit"
)

const (
	defaultBaseURL = "https://musicbrainz.org/ws/2"
	// MinRequestInterval is the politeness floor between request starts.
	MinRequestInterval = time.Second
	defaultTimeout     = 30 * time.Second
)

// Client is the low-level music database client. Wrap it in a
// CachedClient for memoized lookups.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
}

// Options configures a Client.
type Options struct {
	BaseURL        string
	UserAgent      string
	MaxConcurrent  int
	MinInterval    time.Duration
	RequestTimeout time.Duration
}

// NewClient constructs a client with the shared substrate defaults.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "chorrosion/1.0 (https://github.com/svetakrava/chorrosion)"
	}
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}
	if opts.MinInterval <= 0 {
		opts.MinInterval = MinRequestInterval
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = defaultTimeout
	}
	return &Client{
		baseURL:    opts.BaseURL,
		userAgent:  opts.UserAgent,
		httpClient: &http.Client{Timeout: opts.RequestTimeout},
		limiter:    ratelimit.NewWithMinInterval(opts.MaxConcurrent, opts.MinInterval),
	}
}

// LookupArtist fetches one artist by MBID.
func (c *Client) LookupArtist(ctx context.Context, mbid string) (*Artist, error) {
	var out Artist
	if err := c.lookup(ctx, "artist", mbid, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LookupReleaseGroup fetches one release group by MBID, including its
// artist credits.
func (c *Client) LookupReleaseGroup(ctx context.Context, mbid string) (*ReleaseGroup, error) {
	var out ReleaseGroup
	if err := c.lookup(ctx, "release-group", mbid, "artist-credits", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LookupRecording fetches one recording by MBID, including artist
// credits and release references.
func (c *Client) LookupRecording(ctx context.Context, mbid string) (*Recording, error) {
	var out Recording
	if err := c.lookup(ctx, "recording", mbid, "artists+releases+release-groups", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchArtists runs a Lucene-style artist search.
func (c *Client) SearchArtists(ctx context.Context, query string, limit, offset int) ([]Artist, error) {
	var out artistSearchResponse
	if err := c.search(ctx, "artist", query, limit, offset, &out); err != nil {
		return nil, err
	}
	return out.Artists, nil
}

// SearchReleaseGroups runs a Lucene-style release-group search.
func (c *Client) SearchReleaseGroups(ctx context.Context, query string, limit, offset int) ([]ReleaseGroup, error) {
	var out releaseGroupSearchResponse
	if err := c.search(ctx, "release-group", query, limit, offset, &out); err != nil {
		return nil, err
	}
	return out.ReleaseGroups, nil
}

// SearchRecordings runs a Lucene-style recording search.
func (c *Client) SearchRecordings(ctx context.Context, query string, limit, offset int) ([]Recording, error) {
	var out recordingSearchResponse
	if err := c.search(ctx, "recording", query, limit, offset, &out); err != nil {
		return nil, err
	}
	return out.Recordings, nil
}

func (c *Client) lookup(ctx context.Context, entity, mbid, inc string, out any) error {
	if _, err := uuid.Parse(mbid); err != nil {
		return clienterr.Parameter("invalid %s mbid %q", entity, mbid)
	}
	q := url.Values{}
	q.Set("fmt", "json")
	if inc != "" {
		q.Set("inc", inc)
	}
	endpoint := fmt.Sprintf("%s/%s/%s?%s", c.baseURL, entity, mbid, q.Encode())
	return c.get(ctx, entity, mbid, endpoint, out)
}

func (c *Client) search(ctx context.Context, entity, query string, limit, offset int, out any) error {
	if query == "" {
		return clienterr.Parameter("empty %s search query", entity)
	}
	if limit < 1 {
		limit = 25
	}
	q := url.Values{}
	q.Set("query", query)
	q.Set("fmt", "json")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, entity, q.Encode())
	return c.get(ctx, entity, query, endpoint, out)
}

func (c *Client) get(ctx context.Context, entity, id, endpoint string, out any) error {
	release, err := c.limiter.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return clienterr.Parameter("building request: %v", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return clienterr.Transport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return clienterr.Transport(err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return clienterr.NotFound(entity, id)
	case resp.StatusCode == http.StatusServiceUnavailable:
		return clienterr.RateLimited("music database asked to back off")
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return clienterr.HTTPStatus(resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return clienterr.Deserialization(err)
	}
	return nil
}

// Close shuts down the client's rate limiter.
func (c *Client) Close() {
	c.limiter.Close()
}
