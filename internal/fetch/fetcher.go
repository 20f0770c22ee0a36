// Package fetch retrieves article pages for claim harvesting.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/factchecker/newscred/internal/config"
	"github.com/factchecker/newscred/internal/metrics"
	"github.com/rs/zerolog/log"
)

var (
	// ErrScheme is returned for URLs that are not http or https.
	ErrScheme = errors.New("unsupported URL scheme")
	// ErrStatus wraps non-2xx page responses.
	ErrStatus = errors.New("unexpected status")
	// ErrDisallowed is returned when robots.txt forbids the page.
	ErrDisallowed = errors.New("disallowed by robots.txt")
)

const maxRedirects = 3

// Fetcher fetches HTML content from URLs.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *RobotsChecker
	limiter    *HostLimiter
}

// NewFetcher creates a Fetcher from configuration. Robots checks are skipped
// unless cfg.RespectRobots is set, and non-public addresses are refused
// unless cfg.AllowPrivate is set.
func NewFetcher(cfg config.FetchConfig) *Fetcher {
	client := newHTTPClient(cfg.Timeout, cfg.AllowPrivate)
	f := &Fetcher{
		httpClient: client,
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBytes,
		limiter:    NewHostLimiter(cfg.PerHostRPS, 1, cfg.RobotsCacheTTL),
	}
	if cfg.RespectRobots {
		f.robots = NewRobotsChecker(client, cfg.UserAgent, cfg.RobotsCacheTTL)
	}
	return f
}

// Fetch returns the body of rawURL as text. Only 2xx responses are used; the
// declared content type is ignored.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (page string, err error) {
	defer func() { metrics.RecordPageFetch(err) }()

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", fmt.Errorf("%w: %q", ErrScheme, parsed.Scheme)
	}

	if f.robots != nil && !f.robots.Allowed(ctx, parsed) {
		return "", fmt.Errorf("%w: %s", ErrDisallowed, rawURL)
	}

	if err := f.limiter.Wait(ctx, parsed.Host); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: %d", ErrStatus, resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	log.Debug().
		Str("url", rawURL).
		Str("final_url", resp.Request.URL.String()).
		Int("bytes", len(data)).
		Msg("Page fetched")

	return string(data), nil
}
