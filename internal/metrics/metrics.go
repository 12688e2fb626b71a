// Package metrics exposes Prometheus metrics for verifications and the
// HTTP API.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"postproof/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "postproof"

// Verification outcomes besides the error kinds.
const (
	OutcomeContainsAll     = "contains_all"
	OutcomeMissingKeywords = "missing_keywords"
)

// Metrics holds the collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	verifications        *prometheus.CounterVec
	verificationDuration *prometheus.HistogramVec
	httpRequests         *prometheus.CounterVec
	httpDuration         *prometheus.HistogramVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		verifications: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "verifications_total",
				Help:      "Keyword verifications by platform and outcome",
			},
			[]string{"platform", "outcome"},
		),
		verificationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "verification_duration_seconds",
				Help:      "Time spent verifying one post, including the remote job",
				Buckets:   []float64{1, 2.5, 5, 10, 20, 30, 60, 120},
			},
			[]string{"platform"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	m.registry.MustRegister(
		m.verifications,
		m.verificationDuration,
		m.httpRequests,
		m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// TrackLogDrops exposes a logger's overflow counter. dropped is read at
// scrape time.
func (m *Metrics) TrackLogDrops(dropped func() int64) {
	m.registry.MustRegister(prometheus.NewCounterFunc(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_entries_dropped_total",
			Help:      "Log entries discarded because the async buffer was full",
		},
		func() float64 { return float64(dropped()) },
	))
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveVerification records one verification.
func (m *Metrics) ObserveVerification(platform domain.Platform, result *domain.VerifyKeywordsResult, err error, elapsed time.Duration) {
	m.verifications.WithLabelValues(platform.String(), Outcome(result, err)).Inc()
	m.verificationDuration.WithLabelValues(platform.String()).Observe(elapsed.Seconds())
}

// ObserveHTTP records one HTTP request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Outcome is the verifications_total label for a result or error.
func Outcome(result *domain.VerifyKeywordsResult, err error) string {
	switch {
	case err != nil:
		return string(domain.KindOf(err))
	case result != nil && result.ContainsAll:
		return OutcomeContainsAll
	default:
		return OutcomeMissingKeywords
	}
}

// Verifier matches the platform adapters.
type Verifier interface {
	VerifyKeywords(ctx context.Context, check domain.KeywordCheck) (*domain.VerifyKeywordsResult, error)
}

type instrumentedVerifier struct {
	platform domain.Platform
	next     Verifier
	metrics  *Metrics
}

// InstrumentVerifier wraps next so every call is recorded.
func (m *Metrics) InstrumentVerifier(platform domain.Platform, next Verifier) Verifier {
	return &instrumentedVerifier{platform: platform, next: next, metrics: m}
}

func (v *instrumentedVerifier) VerifyKeywords(ctx context.Context, check domain.KeywordCheck) (*domain.VerifyKeywordsResult, error) {
	start := time.Now()
	result, err := v.next.VerifyKeywords(ctx, check)
	v.metrics.ObserveVerification(v.platform, result, err, time.Since(start))
	return result, err
}
