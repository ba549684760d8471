// Package metrics exposes Prometheus collectors for the recommendation service.
// The resolver itself records nothing; callers record what they served.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RecommendationsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendations_served_total",
			Help: "Total number of recommendations returned, by destination and deciding rule",
		},
		[]string{"destination", "rule"},
	)

	AnswersCoerced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "questionnaire_answers_coerced_total",
			Help: "Numeric answers replaced by their default because they were empty or unparseable",
		},
		[]string{"field"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests by route and status code",
		},
		[]string{"route", "status"},
	)

	CSVImportRows = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "csv_import_rows",
			Help:    "Number of valid questionnaire rows per imported CSV file",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)
)

// RecordRecommendation counts one served recommendation.
func RecordRecommendation(destination string, rule int, coercedFields []string) {
	RecommendationsServed.WithLabelValues(destination, strconv.Itoa(rule)).Inc()
	for _, f := range coercedFields {
		AnswersCoerced.WithLabelValues(f).Inc()
	}
}

// RecordRequest counts one HTTP request.
func RecordRequest(route string, status int) {
	HTTPRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
