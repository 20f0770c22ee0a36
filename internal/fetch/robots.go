package fetch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"github.com/temoto/robotstxt"
)

// RobotsChecker checks robots.txt compliance, caching parsed files per host.
type RobotsChecker struct {
	cache      *gocache.Cache
	httpClient *http.Client
	userAgent  string
	agent      string
}

// NewRobotsChecker creates a new robots.txt checker that fetches with client.
func NewRobotsChecker(client *http.Client, userAgent string, ttl time.Duration) *RobotsChecker {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RobotsChecker{
		cache:      gocache.New(ttl, 2*ttl),
		httpClient: client,
		userAgent:  userAgent,
		agent:      productToken(userAgent),
	}
}

// Allowed reports whether u may be fetched. A robots.txt that cannot be
// retrieved or parsed allows everything.
func (r *RobotsChecker) Allowed(ctx context.Context, u *url.URL) bool {
	data, err := r.robotsData(ctx, u)
	if err != nil {
		log.Debug().Err(err).Str("host", u.Host).Msg("robots.txt unavailable, allowing")
		return true
	}

	path := u.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, r.agent)
}

func (r *RobotsChecker) robotsData(ctx context.Context, u *url.URL) (*robotstxt.RobotsData, error) {
	key := u.Scheme + "://" + u.Host
	if cached, ok := r.cache.Get(key); ok {
		return cached.(*robotstxt.RobotsData), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, key+"/robots.txt", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt: %w", err)
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt: %w", err)
	}

	r.cache.SetDefault(key, data)
	return data, nil
}

// productToken reduces a user agent to the token robots.txt groups match on,
// e.g. "Mozilla/5.0 (compatible; newscred/1.0)" becomes "newscred".
func productToken(ua string) string {
	if open := strings.Index(ua, "("); open >= 0 {
		if end := strings.Index(ua[open:], ")"); end > 0 {
			for _, part := range strings.Split(ua[open+1:open+end], ";") {
				part = strings.TrimSpace(part)
				if part != "" && part != "compatible" && !strings.HasPrefix(part, "+") {
					return strings.Split(part, "/")[0]
				}
			}
		}
	}
	fields := strings.Fields(ua)
	if len(fields) == 0 {
		return ua
	}
	return strings.Split(fields[0], "/")[0]
}
