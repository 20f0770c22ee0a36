package extract

// Claim list bounds.
const (
	// MaxContentClaims caps candidates taken from the submitted text. The
	// cap is applied before placeholder filtering.
	MaxContentClaims = 3
	// MaxURLClaims caps claims harvested from a fetched page.
	MaxURLClaims = 5
	// MaxClaims caps the merged list sent for verification.
	MaxClaims = 5
)

// ClaimExtractor derives claims from plain text and HTML.
type ClaimExtractor struct {
	split SentenceSplitter
}

// NewClaimExtractor creates a claim extractor. A nil splitter selects UAX #29.
func NewClaimExtractor(split SentenceSplitter) *ClaimExtractor {
	if split == nil {
		split = SplitUAX29
	}
	return &ClaimExtractor{split: split}
}

// ExtractClaims builds the claim list for a submitted news item: the title,
// then the key sentences of the normalized body. The list is cut to
// MaxContentClaims first, then deduplicated, then stripped of placeholders,
// so a weak early candidate can crowd out a later one.
func (e *ClaimExtractor) ExtractClaims(body, title string) []string {
	var candidates []string
	if title != "" {
		candidates = append(candidates, title)
	}
	candidates = append(candidates, KeySentences(e.split(Normalize(body)))...)

	if len(candidates) > MaxContentClaims {
		candidates = candidates[:MaxContentClaims]
	}

	return dropPlaceholders(dedupe(candidates))
}
