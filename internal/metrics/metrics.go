// Package metrics holds the Prometheus collectors for the generation pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GenerationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lovenote_generation_attempts_total",
			Help: "Remote generation attempts, one per credential tried",
		},
		[]string{"provider", "outcome"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lovenote_generation_attempt_duration_seconds",
			Help:    "Duration of a single remote generation attempt",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 8),
		},
		[]string{"provider"},
	)

	Fallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lovenote_fallbacks_total",
			Help: "Artifacts whose content came from the fallback templates",
		},
		[]string{"kind", "reason"},
	)

	ArtifactsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lovenote_artifacts_created_total",
			Help: "Artifacts persisted by kind",
		},
		[]string{"kind"},
	)

	StorageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lovenote_storage_failures_total",
			Help: "Storage operations that failed with an unavailable backend",
		},
		[]string{"operation"},
	)
)

// Outcome labels for GenerationAttempts.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Reason labels for Fallbacks.
const (
	ReasonExhausted    = "exhausted"
	ReasonParseFailure = "parse_failure"
)
