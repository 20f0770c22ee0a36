package extract

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/factchecker/newscred/internal/models"
)

// bareContentLength is the longest trimmed content, in runes, treated as
// carrying no article text of its own.
const bareContentLength = 10

// Merger combines content claims with claims harvested from a URL.
type Merger struct {
	urls *URLExtractor
}

// NewMerger creates a claim list merger.
func NewMerger(urls *URLExtractor) *Merger {
	return &Merger{urls: urls}
}

// Merge runs URL claim extraction concurrently with contentClaims and
// combines the two lists per MergeClaims. The URL is only fetched when set.
func (m *Merger) Merge(ctx context.Context, rawURL, rawContent string, contentClaims func() []string) ([]string, models.ClaimSource) {
	rawURL = strings.TrimSpace(rawURL)

	var urlClaims chan []string
	if rawURL != "" && m.urls != nil {
		urlClaims = make(chan []string, 1)
		go func() {
			urlClaims <- m.urls.Extract(ctx, rawURL)
		}()
	}

	fromContent := contentClaims()

	var fromURL []string
	if urlClaims != nil {
		fromURL = <-urlClaims
	}
	return MergeClaims(fromContent, fromURL, rawURL, rawContent)
}

// MergeClaims decides which claims get verified.
//
// Without a URL the content claims are used. When the content is nearly
// empty or is itself a URL, the URL claims win if there are any. Otherwise
// URL claims not already present among the content claims are appended.
// The result is placeholder-filtered again and capped at MaxClaims.
func MergeClaims(contentClaims, urlClaims []string, rawURL, rawContent string) ([]string, models.ClaimSource) {
	var (
		merged []string
		source models.ClaimSource
	)

	switch {
	case strings.TrimSpace(rawURL) == "":
		merged, source = contentClaims, models.ClaimSourceContent
	case isBareContent(rawContent):
		if len(urlClaims) > 0 {
			merged, source = urlClaims, models.ClaimSourceURL
		} else {
			merged, source = contentClaims, models.ClaimSourceContent
		}
	default:
		present := make(map[string]bool, len(contentClaims))
		for _, c := range contentClaims {
			present[claimKey(c)] = true
		}
		merged = append(merged, contentClaims...)
		for _, c := range urlClaims {
			if !present[claimKey(c)] {
				merged = append(merged, c)
			}
		}
		source = models.ClaimSourceMerged
	}

	final := dropPlaceholders(dedupe(merged))
	if len(final) > MaxClaims {
		final = final[:MaxClaims]
	}
	return final, source
}

func isBareContent(content string) bool {
	trimmed := strings.TrimSpace(content)
	if utf8.RuneCountInString(trimmed) <= bareContentLength {
		return true
	}
	lower := strings.ToLower(trimmed)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
