// Package metrics exposes the Prometheus collectors shared by the scraper, the
// language-model client and the HTTP layer.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Fetch outcomes.
const (
	FetchOK         = "ok"
	FetchBadStatus  = "bad_status"
	FetchTransport  = "transport_error"
	FetchBadRequest = "bad_request"
)

var (
	fetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fetch_total",
		Help:      "Storefront page fetches by outcome.",
	}, []string{"outcome"})

	llmRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "llm_requests_total",
		Help:      "Language-model completions by purpose and outcome.",
	}, []string{"purpose", "outcome"})

	extractions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "extractions_total",
		Help:      "Full storefront extractions by outcome.",
	}, []string{"outcome"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "API requests by method, route and status.",
	}, []string{"method", "route", "status"})

	resolverDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "resolver_duration_seconds",
		Help:      "Time spent in each extraction resolver.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
	}, []string{"resolver"})
)

// RecordFetch counts a page fetch.
func RecordFetch(outcome string) {
	fetchTotal.WithLabelValues(outcome).Inc()
}

// RecordLLM counts a language-model completion.
func RecordLLM(purpose, outcome string) {
	llmRequests.WithLabelValues(purpose, outcome).Inc()
}

// RecordExtraction counts a finished extraction.
func RecordExtraction(outcome string) {
	extractions.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest counts a served API request.
func RecordHTTPRequest(method, route, status string) {
	httpRequests.WithLabelValues(method, route, status).Inc()
}

// ObserveResolver records how long a resolver ran. Use with defer:
//
//	defer metrics.ObserveResolver("faq", time.Now())
func ObserveResolver(resolver string, start time.Time) {
	resolverDuration.WithLabelValues(resolver).Observe(time.Since(start).Seconds())
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
