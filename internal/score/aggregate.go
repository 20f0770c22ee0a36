package score

import (
	"fmt"
	"strings"

	"github.com/factchecker/newscred/internal/models"
)

// Fixed explanation texts.
const (
	UnverifiedExplanation  = "No fact check data available for this content."
	NoClaimDataExplanation = "No fact check data available for this claim."
)

// Thresholds are the lower bounds of the credibility bands, highest first.
type Thresholds struct {
	High   float64
	Medium float64
	Low    float64
}

// DefaultThresholds returns the standard credibility bands.
func DefaultThresholds() Thresholds {
	return Thresholds{High: 0.8, Medium: 0.5, Low: 0.3}
}

// Band is a label with the sentence that explains it.
type Band struct {
	Label       string
	Explanation string
}

// Options configures an Aggregator.
type Options struct {
	Thresholds Thresholds
	// Overall bands describe the whole news item; Claim bands describe a
	// single claim and feed the "Details:" suffix. Both are ordered
	// High, Medium, Low, below Low.
	Overall [4]Band
	Claim   [4]Band
	// FakeKeywords and RealKeywords classify analysis entries by rating
	// text. The checks are independent; an entry may match both.
	FakeKeywords []string
	RealKeywords []string
}

// DefaultOptions returns the standard labels, texts and keyword sets.
func DefaultOptions() Options {
	return Options{
		Thresholds: DefaultThresholds(),
		Overall: [4]Band{
			{models.LabelHighlyCredible, "This news appears to be factually accurate based on available fact checks."},
			{models.LabelMixedCredibility, "This news contains some verified information but may have minor inaccuracies."},
			{models.LabelLikelyNotCredible, "This news contains several disputed claims or inaccuracies."},
			{models.LabelNotCredible, "This news contains multiple false claims according to fact checkers."},
		},
		Claim: [4]Band{
			{models.LabelHighlyCredible, "Multiple fact-checkers have verified this information as accurate."},
			{models.LabelMixedCredibility, "Some fact-checkers have verified parts of this information."},
			{models.LabelLikelyNotCredible, "Some fact-checkers have disputed parts of this information."},
			{models.LabelNotCredible, "Multiple fact-checkers have identified this information as false."},
		},
		FakeKeywords: []string{"false", "fake", "pants on fire", "incorrect", "misleading", "mostly false"},
		RealKeywords: []string{"true", "mostly true", "accurate", "correct"},
	}
}

// ClaimResult pairs a claim with the verification payload found for it.
// A nil Result means the service had no data.
type ClaimResult struct {
	Claim  string
	Result *models.FactCheckResult
}

// ClaimScore is the credibility of a single claim.
type ClaimScore struct {
	Score       float64
	Label       string
	Explanation string
	Ratings     int
}

// Summary is the aggregated outcome of a request.
type Summary struct {
	Credibility  models.Credibility
	ClaimScores  []ClaimScore
	Analysis     []models.ClaimAnalysis
	FakeClaims   []models.ClaimAnalysis
	RealClaims   []models.ClaimAnalysis
	RatingValues []float64
}

// Aggregator reduces per-claim verification results to one verdict.
type Aggregator struct {
	ratings *RatingNormalizer
	opts    Options
}

// NewAggregator creates an aggregator.
func NewAggregator(ratings *RatingNormalizer, opts Options) *Aggregator {
	opts.FakeKeywords = lowerAll(opts.FakeKeywords)
	opts.RealKeywords = lowerAll(opts.RealKeywords)
	return &Aggregator{ratings: ratings, opts: opts}
}

// Aggregate scores every review of every claim. The overall score is the
// mean over all rated reviews, not a mean of per-claim means. With no
// rated review at all the summary is the Unverified sentinel.
func (a *Aggregator) Aggregate(results []ClaimResult) Summary {
	s := Summary{
		ClaimScores: make([]ClaimScore, 0, len(results)),
		Analysis:    []models.ClaimAnalysis{},
		FakeClaims:  []models.ClaimAnalysis{},
		RealClaims:  []models.ClaimAnalysis{},
	}

	publishers := make(map[string]bool)
	var details []string

	for _, r := range results {
		values, entries := a.reviewClaim(r, publishers)
		s.RatingValues = append(s.RatingValues, values...)
		s.Analysis = append(s.Analysis, entries...)

		cs := a.claimScore(values)
		s.ClaimScores = append(s.ClaimScores, cs)
		if cs.Ratings > 0 {
			details = append(details, cs.Explanation)
		}
	}

	for _, entry := range s.Analysis {
		rating := strings.ToLower(entry.Rating)
		if containsAny(rating, a.opts.FakeKeywords) {
			s.FakeClaims = append(s.FakeClaims, entry)
		}
		if containsAny(rating, a.opts.RealKeywords) {
			s.RealClaims = append(s.RealClaims, entry)
		}
	}

	s.Credibility = a.overall(s.RatingValues, details)
	s.Credibility.Sources = len(publishers)
	s.Credibility.FactChecks = len(s.RatingValues)
	return s
}

func (a *Aggregator) reviewClaim(r ClaimResult, publishers map[string]bool) ([]float64, []models.ClaimAnalysis) {
	var (
		values  []float64
		entries []models.ClaimAnalysis
	)

	if r.Result != nil {
		for _, matched := range r.Result.Claims {
			for _, review := range matched.ClaimReview {
				rating, ok := review.Rating()
				if !ok {
					continue
				}
				values = append(values, a.ratings.Normalize(rating))

				var reviewer *string
				if name := review.PublisherName(); name != "" {
					publishers[name] = true
					reviewer = &name
				}
				entries = append(entries, models.ClaimAnalysis{
					Claim:       r.Claim,
					Rating:      rating,
					Reviewer:    reviewer,
					ReviewTitle: review.Title,
					ReviewURL:   review.URL,
					ReviewDate:  review.ReviewDate,
					Explanation: reviewExplanation(reviewer, rating),
				})
			}
		}
	}

	if len(entries) == 0 {
		entries = append(entries, models.ClaimAnalysis{
			Claim:       r.Claim,
			Rating:      models.RatingUnrated,
			Explanation: NoClaimDataExplanation,
		})
	}
	return values, entries
}

func (a *Aggregator) claimScore(values []float64) ClaimScore {
	if len(values) == 0 {
		return ClaimScore{
			Score:       NeutralRating,
			Label:       models.LabelUnverified,
			Explanation: NoClaimDataExplanation,
		}
	}
	score := mean(values)
	band := a.band(a.opts.Claim, score)
	return ClaimScore{
		Score:       score,
		Label:       band.Label,
		Explanation: band.Explanation,
		Ratings:     len(values),
	}
}

func (a *Aggregator) overall(values []float64, details []string) models.Credibility {
	if len(values) == 0 {
		return models.Credibility{
			Score:       NeutralRating,
			Label:       models.LabelUnverified,
			Explanation: UnverifiedExplanation,
		}
	}

	score := mean(values)
	band := a.band(a.opts.Overall, score)
	explanation := band.Explanation
	if len(details) > 0 {
		if len(details) > 2 {
			details = details[:2]
		}
		explanation += " Details: " + strings.Join(details, " ")
	}

	return models.Credibility{
		Score:       score,
		Label:       band.Label,
		Explanation: explanation,
	}
}

func (a *Aggregator) band(bands [4]Band, score float64) Band {
	t := a.opts.Thresholds
	switch {
	case score >= t.High:
		return bands[0]
	case score >= t.Medium:
		return bands[1]
	case score >= t.Low:
		return bands[2]
	default:
		return bands[3]
	}
}

func reviewExplanation(reviewer *string, rating string) string {
	if reviewer == nil {
		return fmt.Sprintf("A fact-checker rated this claim as '%s'.", rating)
	}
	return fmt.Sprintf("%s rated this claim as '%s'.", *reviewer, rating)
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
