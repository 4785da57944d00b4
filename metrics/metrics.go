// Package metrics registers the process-wide prometheus collectors served
// on /metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	ArticlesIngested = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "articles_ingested_total",
		Help: "Total number of articles added via upload or import.",
	})

	ClassificationsCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "classifications_completed_total",
		Help: "Total number of classifications that reached CLASSIFIED.",
	}, []string{"classification"})

	BacklogDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "classification_backlog_depth",
		Help: "Unresolved classifications per organization, excluding OUTDATED.",
	}, []string{"organization"})

	LLMRequestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "llm_request_duration_seconds",
		Help:    "Latency of classification calls to the LLM API.",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(
		ArticlesIngested,
		ClassificationsCompleted,
		BacklogDepth,
		LLMRequestDuration,
	)
}
