package extract

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// Length bounds, in runes, for claims harvested from a page.
const (
	minURLClaimLength = 10
	maxURLClaimLength = 300
)

// PageFetcher retrieves the body of a web page.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// URLExtractor harvests claims from the page behind a URL.
type URLExtractor struct {
	fetcher   PageFetcher
	extractor *ClaimExtractor
}

// NewURLExtractor creates a URL claim extractor.
func NewURLExtractor(fetcher PageFetcher, extractor *ClaimExtractor) *URLExtractor {
	return &URLExtractor{
		fetcher:   fetcher,
		extractor: extractor,
	}
}

// Extract fetches rawURL and returns at most MaxURLClaims claims in harvest
// order. Fetch failures are logged and yield an empty list.
func (u *URLExtractor) Extract(ctx context.Context, rawURL string) []string {
	page, err := u.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		log.Warn().Err(err).Str("url", rawURL).Msg("Page fetch failed, skipping URL claims")
		return nil
	}

	claims := u.FromHTML(page)
	log.Debug().Str("url", rawURL).Int("count", len(claims)).Msg("URL claims extracted")
	return claims
}

// FromHTML applies the URL claim rules to an already fetched page.
func (u *URLExtractor) FromHTML(page string) []string {
	seen := make(map[string]bool)
	var claims []string

	for _, c := range u.extractor.Harvest(page) {
		c = strings.TrimSpace(c)
		if n := utf8.RuneCountInString(c); n < minURLClaimLength || n > maxURLClaimLength {
			continue
		}
		key := claimKey(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		if IsPlaceholder(c) {
			continue
		}
		claims = append(claims, c)
		if len(claims) == MaxURLClaims {
			break
		}
	}

	return claims
}
