// file: internal/download/qbittorrent.go
// version: 1.0.0
// guid: a732c4a6-86a7-4029-a253-7f9b7e550c52

package download

import (
	"context"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/svetakrava/chorrosion/internal/clienterr"
	"github.com/svetakrava/chorrosion/internal/ratelimit"
)

// QBittorrentClient speaks the qBittorrent Web API v2. Authentication
// uses the session cookie the login endpoint sets.
type QBittorrentClient struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	limiter    *ratelimit.Limiter

	loginMu  sync.Mutex
	loggedIn bool
}

// QBittorrentOptions configures a QBittorrentClient.
type QBittorrentOptions struct {
	BaseURL        string
	Username       string
	Password       string
	MaxConcurrent  int
	RequestTimeout time.Duration
}

// NewQBittorrentClient constructs a qBittorrent adapter with a
// cookie-holding HTTP client.
func NewQBittorrentClient(opts QBittorrentOptions) (*QBittorrentClient, error) {
	parsed, err := url.Parse(opts.BaseURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, clienterr.Parameter("invalid qbittorrent url %q", opts.BaseURL)
	}
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 2
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 30 * time.Second
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, clienterr.Parameter("building cookie jar: %v", err)
	}
	return &QBittorrentClient{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		username:   opts.Username,
		password:   opts.Password,
		httpClient: &http.Client{Timeout: opts.RequestTimeout, Jar: jar},
		limiter:    ratelimit.New(opts.MaxConcurrent),
	}, nil
}

func (q *QBittorrentClient) ClientType() string { return "qbittorrent" }

// login authenticates once per session when credentials are supplied.
// The API answers the literal body "Ok." on success.
func (q *QBittorrentClient) login(ctx context.Context) error {
	q.loginMu.Lock()
	defer q.loginMu.Unlock()
	if q.loggedIn || q.username == "" {
		return nil
	}

	form := url.Values{"username": {q.username}, "password": {q.password}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		q.baseURL+"/api/v2/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return clienterr.Parameter("building login request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return clienterr.Transport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return clienterr.Transport(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return clienterr.HTTPStatus(resp.StatusCode, string(body))
	}
	if strings.TrimSpace(string(body)) != "Ok." {
		return clienterr.Authentication("qbittorrent rejected credentials")
	}
	q.loggedIn = true
	return nil
}

// Test checks connectivity by fetching the application version.
func (q *QBittorrentClient) Test(ctx context.Context) error {
	_, err := q.call(ctx, http.MethodGet, "/api/v2/app/version", nil)
	return err
}

// Add submits download URLs under a category.
func (q *QBittorrentClient) Add(ctx context.Context, urls []string, category string) error {
	if len(urls) == 0 {
		return clienterr.Parameter("no urls to add")
	}
	form := url.Values{"urls": {strings.Join(urls, "\n")}}
	if category != "" {
		form.Set("category", category)
	}
	_, err := q.call(ctx, http.MethodPost, "/api/v2/torrents/add", form)
	return err
}

// SetCategory reassigns torrents to a category.
func (q *QBittorrentClient) SetCategory(ctx context.Context, hashes []string, category string) error {
	if len(hashes) == 0 {
		return clienterr.Parameter("no hashes given")
	}
	form := url.Values{
		"hashes":   {strings.Join(hashes, "|")},
		"category": {category},
	}
	_, err := q.call(ctx, http.MethodPost, "/api/v2/torrents/setCategory", form)
	return err
}

type qbTorrent struct {
	Hash     string  `json:"hash"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Progress float64 `json:"progress"`
	State    string  `json:"state"`
	Size     int64   `json:"size"`
}

// List returns every torrent normalized to the shared item shape.
func (q *QBittorrentClient) List(ctx context.Context) ([]Item, error) {
	body, err := q.call(ctx, http.MethodGet, "/api/v2/torrents/info", nil)
	if err != nil {
		return nil, err
	}
	var raw []qbTorrent
	if err := decodeJSON(body, &raw); err != nil {
		return nil, err
	}
	items := make([]Item, len(raw))
	for i, t := range raw {
		items[i] = Item{
			Hash:            t.Hash,
			Name:            t.Name,
			Category:        t.Category,
			ProgressPercent: MapProgress(t.Progress),
			State:           MapState(t.State),
			SizeBytes:       t.Size,
		}
	}
	return items, nil
}

// Prioritize moves torrents to the top of the queue.
func (q *QBittorrentClient) Prioritize(ctx context.Context, hashes []string) error {
	if len(hashes) == 0 {
		return clienterr.Parameter("no hashes given")
	}
	form := url.Values{"hashes": {strings.Join(hashes, "|")}}
	_, err := q.call(ctx, http.MethodPost, "/api/v2/torrents/topPrio", form)
	return err
}

func (q *QBittorrentClient) call(ctx context.Context, method, path string, form url.Values) ([]byte, error) {
	release, err := q.limiter.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := q.login(ctx); err != nil {
		return nil, err
	}

	var reqBody io.Reader
	if form != nil {
		reqBody = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, q.baseURL+path, reqBody)
	if err != nil {
		return nil, clienterr.Parameter("building request: %v", err)
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := q.httpClient.Do(req)
	if err != nil {
		return nil, clienterr.Transport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, clienterr.Transport(err)
	}
	if resp.StatusCode == http.StatusForbidden {
		return nil, clienterr.Authentication("qbittorrent session rejected")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, clienterr.HTTPStatus(resp.StatusCode, string(body))
	}
	return body, nil
}

// Close shuts down the client's rate limiter.
func (q *QBittorrentClient) Close() {
	q.limiter.Close()
}
