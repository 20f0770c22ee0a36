package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPlaceholder(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"   ", true},
		{"url", true},
		{"URL", true},
		{"article", true},
		{"Facebook Content", true},
		{"url: https://example.com/story", true},
		{"Facebook URL: something long enough", true},
		{"http://x.com", true},
		{"HTTPS://example.com/a/b?c=d", true},
		{"short", true},
		{"seven..", true},
		{"eight...", false},
		{"This is a real claim sentence.", false},
		{"See https://example.com for the full report", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsPlaceholder(tt.in), "IsPlaceholder(%q)", tt.in)
	}
}

func TestClaimExtractor_ExtractClaims(t *testing.T) {
	body := "The first sentence is here. The second sentence is here. The third sentence is here."

	tests := []struct {
		name  string
		title string
		body  string
		want  []string
	}{
		{
			name:  "short title and short body are both placeholders",
			title: "Test",
			body:  "Short.",
			want:  []string{},
		},
		{
			name:  "title long enough survives",
			title: "Test Title",
			body:  "Short.",
			want:  []string{"Test Title"},
		},
		{
			name:  "truncation happens before filtering",
			title: "Hi",
			body:  body,
			want:  []string{"The first sentence is here.", "The second sentence is here."},
		},
		{
			name:  "no title uses three key sentences",
			title: "",
			body:  body,
			want: []string{
				"The first sentence is here.",
				"The second sentence is here.",
				"The third sentence is here.",
			},
		},
		{
			name:  "case-insensitive duplicate of title dropped",
			title: "THE FIRST SENTENCE IS HERE.",
			body:  "The first sentence is here. Another sentence follows now.",
			want:  []string{"THE FIRST SENTENCE IS HERE.", "Another sentence follows now."},
		},
		{
			name:  "empty input",
			title: "",
			body:  "",
			want:  []string{},
		},
	}

	splitters := map[string]SentenceSplitter{"uax29": SplitUAX29, "regex": SplitRegex}
	for splitName, split := range splitters {
		e := NewClaimExtractor(split)
		for _, tt := range tests {
			t.Run(splitName+"/"+tt.name, func(t *testing.T) {
				assert.Equal(t, tt.want, e.ExtractClaims(tt.body, tt.title))
			})
		}
	}
}

func TestClaimExtractor_ExtractClaims_NeverExceedsThree(t *testing.T) {
	e := NewClaimExtractor(nil)
	body := strings.Repeat("Another distinct sentence appears here. ", 20)

	claims := e.ExtractClaims(body, "A headline that is long enough")
	assert.LessOrEqual(t, len(claims), MaxContentClaims)
}
