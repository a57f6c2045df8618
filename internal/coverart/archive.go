// file: internal/coverart/archive.go
// version: 1.0.0
// guid: 240289a1-2505-43e5-816e-5e67c045d2a5

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

// ArchiveProvider is the cover-art archive fallback. It needs no
// credentials and is always configured.
type ArchiveProvider struct {
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
}

// ArchiveOptions configures an ArchiveProvider.
type ArchiveOptions struct {
	BaseURL        string
	MaxConcurrent  int
	RequestTimeout time.Duration
}

// NewArchiveProvider constructs the archive fallback provider.
func NewArchiveProvider(opts ArchiveOptions) *ArchiveProvider {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://coverartarchive.org"
	}
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 4
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	return &ArchiveProvider{
		baseURL:    opts.BaseURL,
		httpClient: &http.Client{Timeout: opts.RequestTimeout},
		limiter:    ratelimit.New(opts.MaxConcurrent),
	}
}

func (p *ArchiveProvider) Name() ProviderName { return ProviderArchive }

func (p *ArchiveProvider) Configured() bool { return true }

type archiveImage struct {
	Image      string `json:"image"`
	Front      bool   `json:"front"`
	Thumbnails struct {
		Large string `json:"large"`
		Small string `json:"small"`
	} `json:"thumbnails"`
}

type archiveResponse struct {
	Images []archiveImage `json:"images"`
}

// FetchAlbumArt fetches the release-group image list and prefers the
// front image's large thumbnail, then small, then the full image; when
// no front image exists the first image wins.
func (p *ArchiveProvider) FetchAlbumArt(ctx context.Context, releaseGroupMBID string) (string, error) {
	release, err := p.limiter.Acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release()

	endpoint := p.baseURL + "/release-group/" + releaseGroupMBID
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", clienterr.Parameter("building request: %v", err)
	}
	req.Header.Set("Accept", "application/json")

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

	var parsed archiveResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", clienterr.Deserialization(err)
	}
	if len(parsed.Images) == 0 {
		return "", ErrNoArtworkFound
	}

	for _, img := range parsed.Images {
		if !img.Front {
			continue
		}
		if url := pickImageURL(img); url != "" {
			return url, nil
		}
	}
	if url := pickImageURL(parsed.Images[0]); url != "" {
		return url, nil
	}
	return "", ErrNoArtworkFound
}

func pickImageURL(img archiveImage) string {
	if img.Thumbnails.Large != "" {
		return img.Thumbnails.Large
	}
	if img.Thumbnails.Small != "" {
		return img.Thumbnails.Small
	}
	return img.Image
}

// Close shuts down the provider's rate limiter.
func (p *ArchiveProvider) Close() {
	p.limiter.Close()
}
