// file: internal/fingerprint/acoustid.go
// version: 1.0.0
// guid: 77b67b31-86ec-4346-9f0b-a03b8bf83eaa

package fingerprint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/svetakrava/chorrosion/internal/cache"
	"github.com/svetakrava/chorrosion/internal/clienterr"
	"github.com/svetakrava/chorrosion/internal/ratelimit"
)

// ErrNoMatches indicates the identification service returned zero
// candidates. Callers treat this as "fall through", not failure.
var ErrNoMatches = errors.New("no fingerprint matches")

// LowConfidenceError indicates every candidate scored below the
// caller's threshold.
type LowConfidenceError struct {
	Score float64
}

func (e *LowConfidenceError) Error() string {
	return fmt.Sprintf("best fingerprint match scored %.3f, below threshold", e.Score)
}

// RecordingMatch is one identification candidate.
type RecordingMatch struct {
	ID       string         `json:"id"`
	Title    string         `json:"title"`
	Score    float64        `json:"score"`
	Artists  []MatchArtist  `json:"artists,omitempty"`
	Releases []MatchRelease `json:"releases,omitempty"`
}

// MatchArtist is an artist credit on a candidate recording.
type MatchArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// MatchRelease is a release reference on a candidate recording.
type MatchRelease struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type lookupResponse struct {
	Status  string `json:"status"`
	Results []struct {
		ID         string  `json:"id"`
		Score      float64 `json:"score"`
		Recordings []struct {
			ID      string `json:"id"`
			Title   string `json:"title"`
			Artists []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"artists"`
			Releases []struct {
				ID    string `json:"id"`
				Title string `json:"title"`
			} `json:"releases"`
		} `json:"recordings"`
	} `json:"results"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// IdentifyClient queries the acoustic identification service.
type IdentifyClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	cache      *cache.Cache[[]RecordingMatch]
}

// IdentifyOptions configures an IdentifyClient.
type IdentifyOptions struct {
	BaseURL        string
	APIKey         string
	MaxConcurrent  int
	RequestTimeout time.Duration
	CacheCapacity  int
	CacheTTL       time.Duration
}

// NewIdentifyClient constructs a client with the shared substrate
// defaults: semaphore-bounded concurrency, 30s timeout, bounded cache.
func NewIdentifyClient(opts IdentifyOptions) *IdentifyClient {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.acoustid.org/v2"
	}
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 4
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Hour
	}
	return &IdentifyClient{
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		httpClient: &http.Client{Timeout: opts.RequestTimeout},
		limiter:    ratelimit.New(opts.MaxConcurrent),
		cache:      cache.New[[]RecordingMatch](opts.CacheCapacity, opts.CacheTTL),
	}
}

// Lookup returns all candidates scoring at least minScore. minScore
// must lie in [0,1].
func (c *IdentifyClient) Lookup(ctx context.Context, fp Fingerprint, minScore float64) ([]RecordingMatch, error) {
	matches, err := c.lookupRaw(ctx, fp, minScore)
	if err != nil {
		return nil, err
	}
	filtered := make([]RecordingMatch, 0, len(matches))
	for _, m := range matches {
		if m.Score >= minScore {
			filtered = append(filtered, m)
		}
	}
	return filtered, nil
}

// LookupBest returns the highest-scoring candidate at or above
// minScore. An empty raw result surfaces ErrNoMatches; a best score
// below the threshold surfaces LowConfidenceError.
func (c *IdentifyClient) LookupBest(ctx context.Context, fp Fingerprint, minScore float64) (RecordingMatch, error) {
	matches, err := c.lookupRaw(ctx, fp, minScore)
	if err != nil {
		return RecordingMatch{}, err
	}
	if len(matches) == 0 {
		return RecordingMatch{}, ErrNoMatches
	}
	best := matches[0]
	for _, m := range matches[1:] {
		if m.Score > best.Score {
			best = m
		}
	}
	if best.Score < minScore {
		return RecordingMatch{}, &LowConfidenceError{Score: best.Score}
	}
	return best, nil
}

func (c *IdentifyClient) lookupRaw(ctx context.Context, fp Fingerprint, minScore float64) ([]RecordingMatch, error) {
	if minScore < 0.0 || minScore > 1.0 || minScore != minScore {
		return nil, clienterr.Parameter("min score %f outside [0,1]", minScore)
	}
	if err := fp.Validate(); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("%s:%d", fp.Hash, int(fp.DurationSeconds))
	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached, nil
	}

	release, err := c.limiter.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	q := url.Values{}
	q.Set("client", c.apiKey)
	q.Set("fingerprint", fp.Hash)
	q.Set("duration", fmt.Sprintf("%d", int(fp.DurationSeconds)))
	q.Set("meta", "recordings releases artistids")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/lookup?"+q.Encode(), nil)
	if err != nil {
		return nil, clienterr.Parameter("building lookup request: %v", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, clienterr.Transport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, clienterr.Transport(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, clienterr.HTTPStatus(resp.StatusCode, string(body))
	}

	var parsed lookupResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, clienterr.Deserialization(err)
	}
	if parsed.Status != "ok" {
		msg := "identification service reported failure"
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return nil, clienterr.Application(msg)
	}

	matches := flattenResults(parsed)
	c.cache.Set(cacheKey, matches)
	return matches, nil
}

// flattenResults expands each result's recordings into candidates
// carrying the result's score.
func flattenResults(parsed lookupResponse) []RecordingMatch {
	var matches []RecordingMatch
	for _, r := range parsed.Results {
		for _, rec := range r.Recordings {
			m := RecordingMatch{ID: rec.ID, Title: rec.Title, Score: r.Score}
			for _, a := range rec.Artists {
				m.Artists = append(m.Artists, MatchArtist{ID: a.ID, Name: a.Name})
			}
			for _, rel := range rec.Releases {
				m.Releases = append(m.Releases, MatchRelease{ID: rel.ID, Title: rel.Title})
			}
			matches = append(matches, m)
		}
	}
	return matches
}

// Close shuts down the client's rate limiter.
func (c *IdentifyClient) Close() {
	c.limiter.Close()
}
