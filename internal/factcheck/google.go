package factcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/factchecker/newscred/internal/config"
	"github.com/factchecker/newscred/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// GoogleClient queries the Google Fact Check Tools claims:search API.
type GoogleClient struct {
	httpClient   *http.Client
	endpoint     string
	apiKey       string
	languageCode string
	pageSize     int
	limiter      *rate.Limiter
}

// NewGoogleClient creates a new Google Fact Check Tools client.
func NewGoogleClient(cfg config.FactCheckConfig) *GoogleClient {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &GoogleClient{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		endpoint:     cfg.Endpoint,
		apiKey:       cfg.APIKey,
		languageCode: cfg.LanguageCode,
		pageSize:     cfg.PageSize,
		limiter:      rate.NewLimiter(limit, 1),
	}
}

// Name returns the service name.
func (c *GoogleClient) Name() string {
	return "Google Fact Check Tools"
}

// Available returns true when an API key is configured.
func (c *GoogleClient) Available() bool {
	return c.apiKey != ""
}

// Search looks up reviews of claim. An empty match list is returned as nil.
func (c *GoogleClient) Search(ctx context.Context, claim string) (*models.FactCheckResult, error) {
	if !c.Available() {
		return nil, ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("query", claim)
	if c.languageCode != "" {
		params.Set("languageCode", c.languageCode)
	}
	if c.pageSize > 0 {
		params.Set("pageSize", strconv.Itoa(c.pageSize))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	// Kept out of the URL so transport errors never carry it.
	req.Header.Set("X-Goog-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fact check request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: %d %s", ErrStatus, resp.StatusCode, string(body))
	}

	var result models.FactCheckResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	log.Debug().Str("claim", truncate(claim, 50)).Int("matches", len(result.Claims)).Msg("Fact check search completed")

	if len(result.Claims) == 0 {
		return nil, nil
	}
	return &result, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
