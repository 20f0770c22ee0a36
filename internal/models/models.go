// Package models defines the core data structures used throughout the application.
package models

import (
	"errors"
	"time"
)

// ErrMissingFields is returned when a check request lacks title or content.
var ErrMissingFields = errors.New("missing required fields: title and content")

// Credibility labels.
const (
	LabelHighlyCredible    = "Highly Credible"
	LabelMixedCredibility  = "Mixed Credibility"
	LabelLikelyNotCredible = "Likely Not Credible"
	LabelNotCredible       = "Not Credible"
	LabelUnverified        = "Unverified"
)

// RatingUnrated marks a claim the verification service knows nothing about.
const RatingUnrated = "Unrated"

// ClaimSource records where the final claim list came from.
type ClaimSource string

const (
	ClaimSourceContent ClaimSource = "content"
	ClaimSourceURL     ClaimSource = "url"
	ClaimSourceMerged  ClaimSource = "merged"
)

// CheckRequest is the request body for the fact-check endpoint.
// Title and Content are pointers so that an absent field can be told
// apart from an empty one.
type CheckRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
	URL     string  `json:"url,omitempty"`
}

// Validate reports ErrMissingFields when title or content is absent.
func (r *CheckRequest) Validate() error {
	if r.Title == nil || r.Content == nil {
		return ErrMissingFields
	}
	return nil
}

// FactCheckResult is the payload returned by the claim verification service.
type FactCheckResult struct {
	Claims        []FactCheckClaim `json:"claims,omitempty"`
	NextPageToken string           `json:"nextPageToken,omitempty"`
}

// FactCheckClaim is one previously checked claim matched by a query.
type FactCheckClaim struct {
	Text        string        `json:"text"`
	Claimant    string        `json:"claimant,omitempty"`
	ClaimDate   string        `json:"claimDate,omitempty"`
	ClaimReview []ClaimReview `json:"claimReview,omitempty"`
}

// ClaimReview is a single published verdict on a claim.
type ClaimReview struct {
	Publisher     *Publisher `json:"publisher,omitempty"`
	URL           string     `json:"url,omitempty"`
	Title         string     `json:"title,omitempty"`
	ReviewDate    string     `json:"reviewDate,omitempty"`
	TextualRating *string    `json:"textualRating,omitempty"`
	LanguageCode  string     `json:"languageCode,omitempty"`
}

// Publisher identifies the organisation behind a review.
type Publisher struct {
	Name string `json:"name,omitempty"`
	Site string `json:"site,omitempty"`
}

// Rating returns the textual rating and whether the review carried one.
// A present but empty rating is reported as ("", true).
func (r ClaimReview) Rating() (string, bool) {
	if r.TextualRating == nil {
		return "", false
	}
	return *r.TextualRating, true
}

// PublisherName returns the publisher name or "" when absent.
func (r ClaimReview) PublisherName() string {
	if r.Publisher == nil {
		return ""
	}
	return r.Publisher.Name
}

// Credibility is the aggregated verdict for a news item.
type Credibility struct {
	Score       float64 `json:"score"`
	Label       string  `json:"label"`
	Explanation string  `json:"explanation"`
	Sources     int     `json:"sources"`
	FactChecks  int     `json:"factChecks"`
}

// ClaimAnalysis is the per-review detail record attached to a response.
type ClaimAnalysis struct {
	Claim       string  `json:"claim"`
	Rating      string  `json:"rating"`
	Reviewer    *string `json:"reviewer"`
	ReviewTitle string  `json:"review_title,omitempty"`
	ReviewURL   string  `json:"review_url,omitempty"`
	ReviewDate  string  `json:"review_date,omitempty"`
	Explanation string  `json:"explanation"`
}

// DetailedResult pairs a checked claim with the raw verification payload.
type DetailedResult struct {
	Claim           string           `json:"claim"`
	FactCheckResult *FactCheckResult `json:"fact_check_result"`
}

// CheckResponse is the API response for a fact-check request.
type CheckResponse struct {
	Status          string           `json:"status"`
	Credibility     Credibility      `json:"credibility"`
	ClaimsChecked   []string         `json:"claims_checked"`
	DetailedResults []DetailedResult `json:"detailed_results"`
	ClaimAnalysis   []ClaimAnalysis  `json:"claim_analysis"`
	FakeClaims      []ClaimAnalysis  `json:"fake_claims"`
	RealClaims      []ClaimAnalysis  `json:"real_claims"`
	Warnings        []Warning        `json:"warnings,omitempty"`
}

// Warning represents a non-fatal issue during processing.
type Warning struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// APIKey represents an API key for authentication.
type APIKey struct {
	ID                string     `json:"id"`
	KeyHash           string     `json:"-"` // Never expose
	Name              string     `json:"name"`
	RequestsPerMinute int        `json:"requests_per_minute"`
	CreatedAt         time.Time  `json:"created_at"`
	LastUsedAt        *time.Time `json:"last_used_at,omitempty"`
}

// AuditLog represents an API request audit entry.
type AuditLog struct {
	ID           string    `json:"id"`
	APIKeyID     string    `json:"api_key_id"`
	Endpoint     string    `json:"endpoint"`
	Method       string    `json:"method"`
	RequestSize  int64     `json:"request_size"`
	ResponseCode int       `json:"response_code"`
	DurationMs   int64     `json:"duration_ms"`
	Timestamp    time.Time `json:"timestamp"`
}
