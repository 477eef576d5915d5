// Package metrics holds the Prometheus collectors for assessment runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registry served on /metrics.
var Registry = prometheus.NewRegistry()

var (
	// Runs counts finished pipeline runs by status.
	Runs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sds",
		Name:      "runs_total",
		Help:      "Assessment runs by final status.",
	}, []string{"status"})

	// StageDuration observes pipeline stage latency.
	StageDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sds",
		Name:      "stage_duration_seconds",
		Help:      "Pipeline stage duration.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
	}, []string{"stage"})

	// Completions counts semantic-service calls by outcome.
	Completions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sds",
		Name:      "completions_total",
		Help:      "Semantic service calls by outcome.",
	}, []string{"outcome"})

	// CompletionTokens counts tokens consumed by direction.
	CompletionTokens = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sds",
		Name:      "completion_tokens_total",
		Help:      "Tokens consumed by the semantic service.",
	}, []string{"direction"})

	// DegradedFields counts field-local failures by stage.
	DegradedFields = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sds",
		Name:      "degraded_fields_total",
		Help:      "Fields resolved to an empty or N/A value after a failure.",
	}, []string{"stage"})

	// HazardLetters counts selected severity letters.
	HazardLetters = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sds",
		Name:      "hazard_letters_total",
		Help:      "Selected hazard group letters.",
	}, []string{"letter"})
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		Runs,
		StageDuration,
		Completions,
		CompletionTokens,
		DegradedFields,
		HazardLetters,
	)
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
