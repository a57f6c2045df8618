// file: internal/indexer/torznab.go
// version: 1.0.0
// guid: 9e74722d-b52b-4b05-b648-2100e28496b0

package indexer

import (
	"context"
	"encoding/xml"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/svetakrava/chorrosion/internal/clienterr"
	"github.com/svetakrava/chorrosion/internal/ratelimit"
)

// TorznabClient speaks the torznab/newznab API dialect.
type TorznabClient struct {
	name       string
	apiURL     *url.URL
	apiKey     string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
}

// TorznabOptions configures a TorznabClient.
type TorznabOptions struct {
	Name           string
	BaseURL        string
	APIKey         string
	MaxConcurrent  int
	RequestTimeout time.Duration
}

// NewTorznabClient validates the base URL and forces its path to /api,
// which is where both dialects serve their endpoints.
func NewTorznabClient(opts TorznabOptions) (*TorznabClient, error) {
	parsed, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, clienterr.Parameter("invalid indexer url %q: %v", opts.BaseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, clienterr.Parameter("indexer url %q must be http or https", opts.BaseURL)
	}
	parsed.Path = "/api"

	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 2
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	return &TorznabClient{
		name:       opts.Name,
		apiURL:     parsed,
		apiKey:     opts.APIKey,
		httpClient: &http.Client{Timeout: opts.RequestTimeout},
		limiter:    ratelimit.New(opts.MaxConcurrent),
	}, nil
}

func (c *TorznabClient) Name() string { return c.name }

type capsResponse struct {
	XMLName   xml.Name `xml:"caps"`
	Searching struct {
		Search struct {
			Available string `xml:"available,attr"`
		} `xml:"search"`
	} `xml:"searching"`
	Categories struct {
		Category []struct {
			ID string `xml:"id,attr"`
		} `xml:"category"`
	} `xml:"categories"`
}

// Caps discovers what the indexer supports.
func (c *TorznabClient) Caps(ctx context.Context) (Capabilities, error) {
	body, err := c.get(ctx, url.Values{"t": {"caps"}})
	if err != nil {
		return Capabilities{}, err
	}

	var parsed capsResponse
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return Capabilities{}, clienterr.Deserialization(err)
	}

	caps := Capabilities{
		Search: parsed.Searching.Search.Available != "no",
		RSS:    true,
	}
	for _, cat := range parsed.Categories.Category {
		if id, err := strconv.Atoi(cat.ID); err == nil {
			caps.Categories = append(caps.Categories, id)
		}
	}
	return caps, nil
}

// Search runs t=search and parses the returned feed.
func (c *TorznabClient) Search(ctx context.Context, req SearchRequest) ([]Item, error) {
	q := url.Values{"t": {"search"}}
	if req.Query != "" {
		q.Set("q", req.Query)
	}
	if req.Category > 0 {
		q.Set("cat", strconv.Itoa(req.Category))
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	if req.Offset > 0 {
		q.Set("offset", strconv.Itoa(req.Offset))
	}

	body, err := c.get(ctx, q)
	if err != nil {
		return nil, err
	}
	return ParseRSS(body)
}

func (c *TorznabClient) get(ctx context.Context, q url.Values) ([]byte, error) {
	release, err := c.limiter.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if c.apiKey != "" {
		q.Set("apikey", c.apiKey)
	}
	endpoint := *c.apiURL
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, clienterr.Parameter("building request: %v", err)
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
	return body, nil
}

// Close shuts down the client's rate limiter.
func (c *TorznabClient) Close() {
	c.limiter.Close()
}
