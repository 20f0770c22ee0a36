package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// MinClaimLength is the shortest trimmed candidate, in runes, that can
// become a claim.
const MinClaimLength = 8

var genericTokens = map[string]bool{
	"article":          true,
	"post":             true,
	"link":             true,
	"url":              true,
	"content":          true,
	"facebook content": true,
}

var placeholderPrefixes = []string{"url:", "facebook url:"}

var bareURL = regexp.MustCompile(`(?i)^https?://\S+$`)

// IsPlaceholder reports whether text carries too little information to be
// checked: empty, a generic token, a URL label, a bare URL, or too short.
func IsPlaceholder(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return true
	}

	lower := strings.ToLower(trimmed)
	if genericTokens[lower] {
		return true
	}
	for _, prefix := range placeholderPrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	if bareURL.MatchString(trimmed) {
		return true
	}

	return utf8.RuneCountInString(trimmed) < MinClaimLength
}

// dropPlaceholders removes the candidates IsPlaceholder rejects, keeping order.
func dropPlaceholders(candidates []string) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if !IsPlaceholder(c) {
			out = append(out, c)
		}
	}
	return out
}

// dedupe trims candidates and keeps the first of each case-insensitive
// duplicate. Empty strings are dropped.
func dedupe(candidates []string) []string {
	seen := make(map[string]bool, len(candidates))
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = strings.TrimSpace(c)
		key := claimKey(c)
		if c == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

func claimKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
