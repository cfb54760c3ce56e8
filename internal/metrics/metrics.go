// Package metrics exposes Prometheus collectors for crawl runs.
package metrics

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Fetch outcomes recorded by ObserveFetch.
const (
	OutcomeSuccess = "success"
	OutcomeEmpty   = "empty"
	OutcomeFailure = "failure"
)

var (
	fetchesTotal               *prometheus.CounterVec
	fetchDurationSeconds       *prometheus.HistogramVec
	fetchBytesTotal            *prometheus.CounterVec
	extractedURLsTotal         *prometheus.CounterVec
	unitErrorsTotal            *prometheus.CounterVec
	unitsInFlight              prometheus.Gauge
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		fetchesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkscout_fetches_total",
				Help: "Total number of seed fetches, labeled by site and outcome.",
			},
			[]string{"site", "outcome"},
		)

		fetchDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "linkscout_fetch_duration_seconds",
				Help:    "Histogram of seed fetch latencies, labeled by site.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"site"},
		)

		fetchBytesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkscout_fetch_bytes_total",
				Help: "Total number of body bytes fetched, labeled by site.",
			},
			[]string{"site"},
		)

		extractedURLsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkscout_extracted_urls_total",
				Help: "Total number of URLs extracted from fetched pages, labeled by site.",
			},
			[]string{"site"},
		)

		unitErrorsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "linkscout_unit_errors_total",
				Help: "Total number of units of work that ended in an error, labeled by site.",
			},
			[]string{"site"},
		)

		unitsInFlight = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "linkscout_units_in_flight",
				Help: "Number of seed URLs currently being processed.",
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// SanitizeSite sanitizes a URL to extract a lowercase hostname.
// It returns "unknown" if the URL is invalid.
func SanitizeSite(rawURL string) string {
	if !strings.HasPrefix(rawURL, "http") {
		rawURL = "http://" + rawURL
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveFetch records the outcome, latency, and size of one seed fetch.
func ObserveFetch(rawURL, outcome string, duration time.Duration, bytesFetched int) {
	site := SanitizeSite(rawURL)
	fetchesTotal.WithLabelValues(site, outcome).Inc()
	fetchDurationSeconds.WithLabelValues(site).Observe(duration.Seconds())
	if bytesFetched > 0 {
		fetchBytesTotal.WithLabelValues(site).Add(float64(bytesFetched))
	}
}

// ObserveExtracted adds count to the extracted URL counter for the page's site.
func ObserveExtracted(rawURL string, count int) {
	if count <= 0 {
		return
	}
	extractedURLsTotal.WithLabelValues(SanitizeSite(rawURL)).Add(float64(count))
}

// ObserveUnitError increments the unit error counter.
func ObserveUnitError(rawURL string) {
	unitErrorsTotal.WithLabelValues(SanitizeSite(rawURL)).Inc()
}

// IncUnitsInFlight increments the in-flight gauge.
func IncUnitsInFlight() {
	unitsInFlight.Inc()
}

// DecUnitsInFlight decrements the in-flight gauge.
func DecUnitsInFlight() {
	unitsInFlight.Dec()
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
