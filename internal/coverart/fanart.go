// file: internal/coverart/fanart.go
// version: 1.0.0
// guid: 29b79c8e-3fda-4f9e-8ce1-8aa4ee56921b

package coverart

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/svetakrava/chorrosion/internal/clienterr"
	"github.com/svetakrava/chorrosion/internal/ratelimit"
)

// FanartProvider is the primary artwork service. It requires an API
// key; without one the coordinator skips it.
type FanartProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
}

// FanartOptions configures a FanartProvider.
type FanartOptions struct {
	BaseURL        string
	APIKey         string
	MaxConcurrent  int
	RequestTimeout time.Duration
}

// NewFanartProvider constructs the primary provider.
func NewFanartProvider(opts FanartOptions) *FanartProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://webservice.fanart.tv/v3"
	}
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 4
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	return &FanartProvider{
		baseURL:    opts.BaseURL,
		apiKey:     opts.APIKey,
		httpClient: &http.Client{Timeout: opts.RequestTimeout},
		limiter:    ratelimit.New(opts.MaxConcurrent),
	}
}

func (p *FanartProvider) Name() ProviderName { return ProviderFanart }

func (p *FanartProvider) Configured() bool { return p.apiKey != "" }

type fanartAlbumResponse struct {
	Albums map[string]struct {
		AlbumCover []struct {
			URL   string `json:"url"`
			Likes string `json:"likes"`
		} `json:"albumcover"`
	} `json:"albums"`
}

// FetchAlbumArt looks up album covers for one release group.
func (p *FanartProvider) FetchAlbumArt(ctx context.Context, releaseGroupMBID string) (string, error) {
	release, err := p.limiter.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	endpoint := p.baseURL + "/music/albums/" + releaseGroupMBID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", clienterr.Parameter("building request: %v", err)
	}
	req.Header.Set("api-key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", clienterr.Transport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", clienterr.Transport(err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNoArtworkFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", clienterr.HTTPStatus(resp.StatusCode, string(body))
	}

	var parsed fanartAlbumResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", clienterr.Deserialization(err)
	}
	for _, album := range parsed.Albums {
		for _, cover := range album.AlbumCover {
			if cover.URL != "" {
				return cover.URL, nil
			}
		}
	}
	return "", ErrNoArtworkFound
}

// Close shuts down the provider's rate limiter.
func (p *FanartProvider) Close() {
	p.limiter.Close()
}
