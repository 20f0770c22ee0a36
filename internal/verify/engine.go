// Package verify provides the main credibility engine.
package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/factchecker/newscred/internal/config"
	"github.com/factchecker/newscred/internal/extract"
	"github.com/factchecker/newscred/internal/factcheck"
	"github.com/factchecker/newscred/internal/metrics"
	"github.com/factchecker/newscred/internal/models"
	"github.com/factchecker/newscred/internal/score"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const defaultClaimTimeout = 10 * time.Second

// Engine orchestrates the complete credibility pipeline.
type Engine struct {
	extractor    *extract.ClaimExtractor
	merger       *extract.Merger
	client       factcheck.Client
	aggregator   *score.Aggregator
	maxParallel  int
	claimTimeout time.Duration
}

// NewEngine creates a new engine. A nil fetcher disables URL claims.
func NewEngine(cfg *config.Config, client factcheck.Client, fetcher extract.PageFetcher) (*Engine, error) {
	split, err := extract.NewSplitter(cfg.Extraction.SentenceSplitter)
	if err != nil {
		return nil, err
	}
	extractor := extract.NewClaimExtractor(split)

	var urls *extract.URLExtractor
	if fetcher != nil {
		urls = extract.NewURLExtractor(fetcher, extractor)
	}

	opts := score.DefaultOptions()
	opts.Thresholds = score.Thresholds{
		High:   cfg.Scoring.High,
		Medium: cfg.Scoring.Medium,
		Low:    cfg.Scoring.Low,
	}

	claimTimeout := cfg.FactCheck.Timeout
	if claimTimeout <= 0 {
		claimTimeout = defaultClaimTimeout
	}
	maxParallel := cfg.Verify.MaxParallel
	if maxParallel <= 0 {
		maxParallel = 1
	}

	if client == nil || !client.Available() {
		log.Warn().Msg("No fact check service configured - every claim will be unverified")
	}

	return &Engine{
		extractor:    extractor,
		merger:       extract.NewMerger(urls),
		client:       client,
		aggregator:   score.NewAggregator(score.NewRatingNormalizer(score.DefaultRatingRules(), score.NeutralRating), opts),
		maxParallel:  maxParallel,
		claimTimeout: claimTimeout,
	}, nil
}

// Check runs a news item through claim extraction, verification and
// aggregation. Only a request missing title or content fails; collaborator
// problems degrade to unverified claims.
func (e *Engine) Check(ctx context.Context, req *models.CheckRequest) (*models.CheckResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	startTime := time.Now()
	title, content := *req.Title, *req.Content

	// Step 1: Extract and merge claims
	claims, source := e.merger.Merge(ctx, req.URL, content, func() []string {
		return e.extractor.ExtractClaims(content, title)
	})
	log.Info().Int("count", len(claims)).Str("source", string(source)).Msg("Claims extracted")

	// Step 2: Verify claims
	results, warnings := e.verifyClaims(ctx, claims)

	// Step 3: Aggregate
	summary := e.aggregator.Aggregate(results)

	detailed := make([]models.DetailedResult, len(results))
	for i, r := range results {
		detailed[i] = models.DetailedResult{Claim: r.Claim, FactCheckResult: r.Result}
		cs := summary.ClaimScores[i]
		log.Debug().
			Str("claim", truncate(r.Claim, 50)).
			Float64("score", cs.Score).
			Str("label", cs.Label).
			Int("ratings", cs.Ratings).
			Msg("Claim scored")
	}
	if claims == nil {
		claims = []string{}
	}

	duration := time.Since(startTime)
	metrics.RecordCheck(summary.Credibility.Label, string(source), len(claims), duration)

	log.Info().
		Float64("score", summary.Credibility.Score).
		Str("label", summary.Credibility.Label).
		Int("claims", len(claims)).
		Int("fact_checks", summary.Credibility.FactChecks).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("Check complete")

	return &models.CheckResponse{
		Status:          "success",
		Credibility:     summary.Credibility,
		ClaimsChecked:   claims,
		DetailedResults: detailed,
		ClaimAnalysis:   summary.Analysis,
		FakeClaims:      summary.FakeClaims,
		RealClaims:      summary.RealClaims,
		Warnings:        warnings,
	}, nil
}

// verifyClaims queries the service for every claim with bounded
// parallelism. Results keep claim order.
func (e *Engine) verifyClaims(ctx context.Context, claims []string) ([]score.ClaimResult, []models.Warning) {
	results := make([]score.ClaimResult, len(claims))
	for i, c := range claims {
		results[i].Claim = c
	}
	if len(claims) == 0 {
		return results, nil
	}

	if e.client == nil || !e.client.Available() {
		return results, []models.Warning{{
			Source:  "factcheck",
			Message: "fact check service not configured",
		}}
	}

	perClaim := make([]*models.Warning, len(claims))

	var g errgroup.Group
	g.SetLimit(e.maxParallel)
	for i, claim := range claims {
		i, claim := i, claim
		g.Go(func() error {
			results[i].Result, perClaim[i] = e.verifyClaim(ctx, claim)
			return nil
		})
	}
	_ = g.Wait()

	var warnings []models.Warning
	for _, w := range perClaim {
		if w != nil {
			warnings = append(warnings, *w)
		}
	}
	return results, warnings
}

// verifyClaim maps every failure, including a timeout, to "no data".
func (e *Engine) verifyClaim(ctx context.Context, claim string) (*models.FactCheckResult, *models.Warning) {
	cctx, cancel := context.WithTimeout(ctx, e.claimTimeout)
	defer cancel()

	start := time.Now()
	res, err := e.client.Search(cctx, claim)
	elapsed := time.Since(start)

	if err != nil {
		outcome, reason := metrics.OutcomeError, "service error"
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(cctx.Err(), context.DeadlineExceeded) {
			outcome, reason = metrics.OutcomeTimeout, "timed out"
		}
		metrics.RecordFactCheck(outcome, elapsed)
		log.Warn().Err(err).Str("claim", truncate(claim, 50)).Str("outcome", outcome).Msg("Claim verification failed")
		return nil, &models.Warning{
			Source:  e.client.Name(),
			Message: fmt.Sprintf("verification %s for claim %q", reason, truncate(claim, 50)),
		}
	}

	if res == nil || len(res.Claims) == 0 {
		metrics.RecordFactCheck(metrics.OutcomeEmpty, elapsed)
		return nil, nil
	}
	metrics.RecordFactCheck(metrics.OutcomeMatch, elapsed)
	return res, nil
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "..."
}
