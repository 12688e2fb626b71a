package metrics_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"postproof/internal/domain"
	"postproof/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubVerifier struct {
	result *domain.VerifyKeywordsResult
	err    error
}

func (s stubVerifier) VerifyKeywords(ctx context.Context, check domain.KeywordCheck) (*domain.VerifyKeywordsResult, error) {
	return s.result, s.err
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, metrics.OutcomeContainsAll, metrics.Outcome(&domain.VerifyKeywordsResult{ContainsAll: true}, nil))
	assert.Equal(t, metrics.OutcomeMissingKeywords, metrics.Outcome(&domain.VerifyKeywordsResult{}, nil))
	assert.Equal(t, "remote_job", metrics.Outcome(nil, fmt.Errorf("%w: boom", domain.ErrRemoteJob)))
	assert.Equal(t, "unknown", metrics.Outcome(nil, errors.New("boom")))
}

func TestInstrumentVerifier_CountsOutcomes(t *testing.T) {
	m := metrics.New()
	ok := m.InstrumentVerifier(domain.PlatformX, stubVerifier{result: &domain.VerifyKeywordsResult{ContainsAll: true}})
	failing := m.InstrumentVerifier(domain.PlatformX, stubVerifier{err: domain.ErrNoPostText})

	_, err := ok.VerifyKeywords(context.Background(), domain.KeywordCheck{})
	require.NoError(t, err)
	_, err = failing.VerifyKeywords(context.Background(), domain.KeywordCheck{})
	require.ErrorIs(t, err, domain.ErrNoPostText)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, mf := range families {
		if mf.GetName() != "postproof_verifications_total" {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "outcome" {
					counts[label.GetValue()] = metric.GetCounter().GetValue()
				}
			}
		}
	}
	assert.Equal(t, 1.0, counts[metrics.OutcomeContainsAll])
	assert.Equal(t, 1.0, counts["content_shape"])
}

func TestObserveHTTP_CountsRequests(t *testing.T) {
	m := metrics.New()

	m.ObserveHTTP("POST", "/api/verify", 200, 15*time.Millisecond)
	m.ObserveHTTP("POST", "/api/verify", 200, 25*time.Millisecond)
	m.ObserveHTTP("POST", "/api/verify", 429, time.Millisecond)

	series, err := testutil.GatherAndCount(m.Registry(), "postproof_http_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, series)
}

func TestHandler_ExposesMetrics(t *testing.T) {
	m := metrics.New()
	m.ObserveVerification(domain.PlatformThreads, &domain.VerifyKeywordsResult{}, nil, time.Second)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `postproof_verifications_total{outcome="missing_keywords",platform="threads"} 1`)
	assert.Contains(t, string(body), "postproof_verification_duration_seconds_bucket")
}

func TestTrackLogDrops_ReadsCounterAtScrape(t *testing.T) {
	m := metrics.New()
	var dropped int64
	m.TrackLogDrops(func() int64 { return dropped })
	dropped = 7

	expected := `
# HELP postproof_log_entries_dropped_total Log entries discarded because the async buffer was full
# TYPE postproof_log_entries_dropped_total counter
postproof_log_entries_dropped_total 7
`
	err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "postproof_log_entries_dropped_total")
	assert.NoError(t, err)
}
