package verify

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/factchecker/newscred/internal/config"
	"github.com/factchecker/newscred/internal/factcheck"
	"github.com/factchecker/newscred/internal/models"
	"github.com/factchecker/newscred/internal/score"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	results   map[string]*models.FactCheckResult
	errs      map[string]error
	delays    map[string]time.Duration
	delay     time.Duration
	available bool

	mu       sync.Mutex
	queried  []string
	inFlight atomic.Int32
	peak     atomic.Int32
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		results:   map[string]*models.FactCheckResult{},
		errs:      map[string]error{},
		delays:    map[string]time.Duration{},
		available: true,
	}
}

func (c *fakeClient) Search(ctx context.Context, claim string) (*models.FactCheckResult, error) {
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}

	c.mu.Lock()
	c.queried = append(c.queried, claim)
	c.mu.Unlock()

	delay := c.delay
	if d, ok := c.delays[claim]; ok {
		delay = d
	}
	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err := c.errs[claim]; err != nil {
		return nil, err
	}
	return c.results[claim], nil
}

func (c *fakeClient) Name() string    { return "fake" }
func (c *fakeClient) Available() bool { return c.available }

type fakeFetcher struct {
	pages map[string]string
	err   error
}

func (f *fakeFetcher) Fetch(_ context.Context, rawURL string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	page, ok := f.pages[rawURL]
	if !ok {
		return "", errors.New("not found")
	}
	return page, nil
}

func reviewed(rating, publisher string) *models.FactCheckResult {
	return &models.FactCheckResult{Claims: []models.FactCheckClaim{{
		Text: "matched claim",
		ClaimReview: []models.ClaimReview{{
			TextualRating: &rating,
			Publisher:     &models.Publisher{Name: publisher},
			Title:         "Review",
			URL:           "https://checker.example/review",
		}},
	}}}
}

func strPtr(s string) *string { return &s }

func newTestEngine(t *testing.T, client *fakeClient, fetcher *fakeFetcher) *Engine {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.FactCheck.Timeout = time.Second

	var e *Engine
	var err error
	if fetcher == nil {
		e, err = NewEngine(cfg, client, nil)
	} else {
		e, err = NewEngine(cfg, client, fetcher)
	}
	require.NoError(t, err)
	return e
}

const articlePage = `<html><head>
<meta property="og:title" content="Mayor unveils new transit plan">
<title>Transit plan unveiled | Daily</title>
</head><body>
<h1>Transit plan unveiled</h1>
<p>The mayor presented the plan on Monday. Officials expect ridership to grow. The vote is next month.</p>
</body></html>`

func TestCheck_MissingFields(t *testing.T) {
	e := newTestEngine(t, newFakeClient(), nil)

	_, err := e.Check(context.Background(), &models.CheckRequest{Title: strPtr("Only a title")})
	assert.ErrorIs(t, err, models.ErrMissingFields)

	_, err = e.Check(context.Background(), &models.CheckRequest{Content: strPtr("Only content")})
	assert.ErrorIs(t, err, models.ErrMissingFields)
}

func TestCheck_NoVerificationData(t *testing.T) {
	client := newFakeClient()
	e := newTestEngine(t, client, nil)

	resp, err := e.Check(context.Background(), &models.CheckRequest{
		Title:   strPtr("Test Title"),
		Content: strPtr("Short."),
	})
	require.NoError(t, err)

	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, []string{"Test Title"}, resp.ClaimsChecked)
	assert.Equal(t, 0.5, resp.Credibility.Score)
	assert.Equal(t, models.LabelUnverified, resp.Credibility.Label)
	assert.Equal(t, score.UnverifiedExplanation, resp.Credibility.Explanation)
	require.Len(t, resp.DetailedResults, 1)
	assert.Nil(t, resp.DetailedResults[0].FactCheckResult)
	require.Len(t, resp.ClaimAnalysis, 1)
	assert.Equal(t, score.NoClaimDataExplanation, resp.ClaimAnalysis[0].Explanation)
	assert.NotNil(t, resp.FakeClaims)
	assert.NotNil(t, resp.RealClaims)
}

func TestCheck_NoClaims(t *testing.T) {
	e := newTestEngine(t, newFakeClient(), nil)

	resp, err := e.Check(context.Background(), &models.CheckRequest{
		Title:   strPtr("Test"),
		Content: strPtr("Short."),
	})
	require.NoError(t, err)

	assert.NotNil(t, resp.ClaimsChecked)
	assert.Empty(t, resp.ClaimsChecked)
	assert.Empty(t, resp.DetailedResults)
	assert.Equal(t, models.LabelUnverified, resp.Credibility.Label)
}

func TestCheck_AggregatesInClaimOrder(t *testing.T) {
	client := newFakeClient()
	client.delay = 20 * time.Millisecond
	client.results["Scientists confirm water is wet"] = reviewed("True", "Snopes")
	client.results["The first sentence is here."] = reviewed("False", "PolitiFact")

	e := newTestEngine(t, client, nil)
	resp, err := e.Check(context.Background(), &models.CheckRequest{
		Title:   strPtr("Scientists confirm water is wet"),
		Content: strPtr("The first sentence is here. A middle sentence follows. The last sentence ends it."),
	})
	require.NoError(t, err)

	require.Equal(t, []string{
		"Scientists confirm water is wet",
		"The first sentence is here.",
		"A middle sentence follows.",
	}, resp.ClaimsChecked)
	require.Len(t, resp.DetailedResults, 3)
	for i, claim := range resp.ClaimsChecked {
		assert.Equal(t, claim, resp.DetailedResults[i].Claim)
	}
	assert.NotNil(t, resp.DetailedResults[0].FactCheckResult)
	assert.NotNil(t, resp.DetailedResults[1].FactCheckResult)
	assert.Nil(t, resp.DetailedResults[2].FactCheckResult)

	assert.Equal(t, 0.5, resp.Credibility.Score)
	assert.Equal(t, models.LabelMixedCredibility, resp.Credibility.Label)
	assert.Equal(t, 2, resp.Credibility.Sources)
	assert.Equal(t, 2, resp.Credibility.FactChecks)
	assert.Len(t, resp.FakeClaims, 1)
	assert.Len(t, resp.RealClaims, 1)

	assert.LessOrEqual(t, client.peak.Load(), int32(3))
}

func TestCheck_ParallelismBounded(t *testing.T) {
	client := newFakeClient()
	client.delay = 30 * time.Millisecond

	cfg := config.DefaultConfig()
	cfg.Verify.MaxParallel = 1
	fetcher := &fakeFetcher{pages: map[string]string{"https://news.example/a": articlePage}}
	e, err := NewEngine(cfg, client, fetcher)
	require.NoError(t, err)

	resp, err := e.Check(context.Background(), &models.CheckRequest{
		Title:   strPtr("https://news.example/a"),
		Content: strPtr("https://news.example/a"),
		URL:     "https://news.example/a",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ClaimsChecked)
	assert.Equal(t, int32(1), client.peak.Load())
	assert.Equal(t, resp.ClaimsChecked, client.queried)
}

func TestCheck_BareURLContentPrefersPageClaims(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{"https://news.example/a": articlePage}}
	e := newTestEngine(t, newFakeClient(), fetcher)

	resp, err := e.Check(context.Background(), &models.CheckRequest{
		Title:   strPtr("https://news.example/a"),
		Content: strPtr("https://news.example/a"),
		URL:     "https://news.example/a",
	})
	require.NoError(t, err)

	require.NotEmpty(t, resp.ClaimsChecked)
	assert.Equal(t, "Mayor unveils new transit plan", resp.ClaimsChecked[0])
	assert.LessOrEqual(t, len(resp.ClaimsChecked), 5)
	for _, c := range resp.ClaimsChecked {
		assert.False(t, strings.HasPrefix(c, "http"), "unexpected URL claim %q", c)
	}
}

func TestCheck_ArticleMergesPageClaims(t *testing.T) {
	fetcher := &fakeFetcher{pages: map[string]string{"https://news.example/a": articlePage}}
	e := newTestEngine(t, newFakeClient(), fetcher)

	body := strings.Repeat("The council debated the new transit plan for many hours. ", 9)
	resp, err := e.Check(context.Background(), &models.CheckRequest{
		Title:   strPtr("Council debates transit"),
		Content: strPtr(body),
		URL:     "https://news.example/a",
	})
	require.NoError(t, err)

	require.Len(t, resp.ClaimsChecked, 5)
	assert.Equal(t, "Council debates transit", resp.ClaimsChecked[0])
	assert.Equal(t, "The council debated the new transit plan for many hours.", resp.ClaimsChecked[1])
	assert.Equal(t, "Mayor unveils new transit plan", resp.ClaimsChecked[2])
}

func TestCheck_FetchFailureFallsBackToContent(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	e := newTestEngine(t, newFakeClient(), fetcher)

	resp, err := e.Check(context.Background(), &models.CheckRequest{
		Title:   strPtr("A sufficiently long title"),
		Content: strPtr("https://news.example/a"),
		URL:     "https://news.example/a",
	})
	require.NoError(t, err)
	assert.Contains(t, resp.ClaimsChecked, "A sufficiently long title")
}

func TestCheck_ErrorsAndTimeoutsAreNoData(t *testing.T) {
	client := newFakeClient()
	client.errs["Claim that errors out"] = errors.New("boom")
	client.delays["This claim is very slow."] = 500 * time.Millisecond

	cfg := config.DefaultConfig()
	cfg.FactCheck.Timeout = 50 * time.Millisecond
	e, err := NewEngine(cfg, client, nil)
	require.NoError(t, err)

	resp, err := e.Check(context.Background(), &models.CheckRequest{
		Title:   strPtr("Claim that errors out"),
		Content: strPtr("This claim is very slow."),
	})
	require.NoError(t, err)

	require.Equal(t, []string{"Claim that errors out", "This claim is very slow."}, resp.ClaimsChecked)
	assert.Equal(t, models.LabelUnverified, resp.Credibility.Label)
	require.Len(t, resp.DetailedResults, 2)
	assert.Nil(t, resp.DetailedResults[0].FactCheckResult)
	assert.Nil(t, resp.DetailedResults[1].FactCheckResult)

	require.Len(t, resp.Warnings, 2)
	assert.Contains(t, resp.Warnings[0].Message, "service error")
	assert.Contains(t, resp.Warnings[1].Message, "timed out")
	assert.Equal(t, "fake", resp.Warnings[0].Source)
}

func TestCheck_ServiceNotConfigured(t *testing.T) {
	client := newFakeClient()
	client.available = false
	e := newTestEngine(t, client, nil)

	resp, err := e.Check(context.Background(), &models.CheckRequest{
		Title:   strPtr("A claim that cannot be checked"),
		Content: strPtr(""),
	})
	require.NoError(t, err)

	assert.Empty(t, client.queried)
	assert.Equal(t, models.LabelUnverified, resp.Credibility.Label)
	require.Len(t, resp.Warnings, 1)
	assert.Equal(t, "factcheck", resp.Warnings[0].Source)
}

type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestCheck_TimeoutLogOmitsAPIKey(t *testing.T) {
	const apiKey = "FACTCHECK-KEY-1234"

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(300 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	var out lockedBuffer
	prev := log.Logger
	log.Logger = zerolog.New(&out)
	t.Cleanup(func() { log.Logger = prev })

	cfg := config.DefaultConfig()
	cfg.FactCheck.APIKey = apiKey
	cfg.FactCheck.Endpoint = server.URL
	cfg.FactCheck.Timeout = 50 * time.Millisecond
	cfg.FactCheck.RequestsPerSecond = 0

	e, err := NewEngine(cfg, factcheck.NewGoogleClient(cfg.FactCheck), nil)
	require.NoError(t, err)

	resp, err := e.Check(context.Background(), &models.CheckRequest{
		Title:   strPtr("Council approves the new budget"),
		Content: strPtr("Short."),
	})
	require.NoError(t, err)
	require.Len(t, resp.Warnings, 1)
	assert.Contains(t, resp.Warnings[0].Message, "timed out")

	logged := out.String()
	assert.Contains(t, logged, "Claim verification failed")
	assert.NotContains(t, logged, apiKey)
	assert.NotContains(t, resp.Warnings[0].Message, apiKey)
}
