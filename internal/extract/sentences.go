// Package extract turns news text and web pages into short, checkable claims.
package extract

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/sentences"
)

// SentenceSplitter splits text into trimmed, non-empty sentences.
type SentenceSplitter func(text string) []string

// Splitter names accepted by NewSplitter.
const (
	SplitterUAX29 = "uax29"
	SplitterRegex = "regex"
)

// NewSplitter returns the sentence splitter registered under name.
func NewSplitter(name string) (SentenceSplitter, error) {
	switch name {
	case SplitterUAX29, "":
		return SplitUAX29, nil
	case SplitterRegex:
		return SplitRegex, nil
	default:
		return nil, fmt.Errorf("unknown sentence splitter: %s", name)
	}
}

// Normalize drops every rune that is not a letter, digit, underscore,
// whitespace or period, then collapses whitespace runs to single spaces.
func Normalize(text string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) || r == '_' || r == '.' {
			return r
		}
		return -1
	}, text)
	return collapseSpace(cleaned)
}

// SplitUAX29 segments text on Unicode sentence boundaries (UAX #29).
func SplitUAX29(text string) []string {
	var out []string
	seg := sentences.FromString(text)
	for seg.Next() {
		if s := strings.TrimSpace(seg.Value()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

var sentenceBoundary = regexp.MustCompile(`[.!?]\s+`)

// SplitRegex splits after '.', '!' or '?' when followed by whitespace.
func SplitRegex(text string) []string {
	var out []string
	appendTrimmed := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}

	start := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		appendTrimmed(text[start : loc[0]+1])
		start = loc[1]
	}
	appendTrimmed(text[start:])
	return out
}

// KeySentences picks the first, middle and last sentence. The middle one is
// only taken when there are more than two sentences and the last one only
// when there is more than one.
func KeySentences(sents []string) []string {
	if len(sents) == 0 {
		return nil
	}

	key := []string{sents[0]}
	if len(sents) > 2 {
		key = append(key, sents[len(sents)/2])
	}
	if len(sents) > 1 {
		key = append(key, sents[len(sents)-1])
	}
	return key
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
