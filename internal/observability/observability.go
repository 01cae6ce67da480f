package observability

import (
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "enrichment_jobs_submitted_total",
		Help: "The total number of enrichment jobs submitted to the dispatch pool",
	}, []string{"record_type"})

	JobsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "enrichment_jobs_processed_total",
		Help: "The total number of enrichment jobs that reached a terminal state",
	}, []string{"status"}) // status: completed, failed

	PollSteps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "enrichment_poll_steps_total",
		Help: "The total number of agent poll steps, by outcome",
	}, []string{"outcome"}) // outcome: completed, failed, timeout, processing, skipped

	AgentRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "agent_request_duration_seconds",
		Help:    "Duration of research agent API calls.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"}) // op: start, status

	DispatchPoolRunning = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dispatch_pool_running",
		Help: "Number of work items currently executing in the dispatch pool.",
	})
)

// NewLogger creates a new structured logger.
func NewLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}
