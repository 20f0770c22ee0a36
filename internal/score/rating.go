// Package score maps fact-check verdicts to numbers and aggregates them into
// a credibility summary.
package score

import "strings"

// NeutralRating is the value of a verdict that matches no rule.
const NeutralRating = 0.5

// RatingRule assigns Value to any verdict containing one of Keywords.
type RatingRule struct {
	Keywords []string
	Value    float64
}

// DefaultRatingRules returns the verdict ladder. Rules are tried in order
// and the first hit wins, so "mostly false" resolves to 0.0 through the
// "false" rule and "accurate" resolves to 0.75 before the 1.0 rule is seen.
func DefaultRatingRules() []RatingRule {
	return []RatingRule{
		{Keywords: []string{"false", "fake", "pants on fire", "incorrect"}, Value: 0.0},
		{Keywords: []string{"mostly false", "misleading"}, Value: 0.25},
		{Keywords: []string{"mixture", "mixed", "partly"}, Value: 0.5},
		{Keywords: []string{"mostly true", "accurate"}, Value: 0.75},
		{Keywords: []string{"true", "correct", "accurate"}, Value: 1.0},
	}
}

// RatingNormalizer turns free-text verdicts into values in [0, 1].
type RatingNormalizer struct {
	rules    []RatingRule
	fallback float64
}

// NewRatingNormalizer creates a normalizer over a copy of rules.
func NewRatingNormalizer(rules []RatingRule, fallback float64) *RatingNormalizer {
	copied := make([]RatingRule, len(rules))
	for i, r := range rules {
		kw := make([]string, len(r.Keywords))
		for j, k := range r.Keywords {
			kw[j] = strings.ToLower(k)
		}
		copied[i] = RatingRule{Keywords: kw, Value: r.Value}
	}
	return &RatingNormalizer{rules: copied, fallback: fallback}
}

// Normalize returns the value of the first rule matching rating.
func (n *RatingNormalizer) Normalize(rating string) float64 {
	lower := strings.ToLower(rating)
	for _, rule := range n.rules {
		if containsAny(lower, rule.Keywords) {
			return rule.Value
		}
	}
	return n.fallback
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
