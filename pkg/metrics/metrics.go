package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_stage_duration_seconds",
			Help:    "Duration of a single pipeline stage",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~200s
		},
		[]string{"stage", "status"}, // stage: transcribe, title, summary, actions, speakers, persist
	)

	PipelineRunCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_run_count",
			Help: "Total number of pipeline runs",
		},
		[]string{"source", "status"}, // source: text, audio; status: success, partial, failed
	)

	AnalysisCallLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "analysis_call_latency_ms",
			Help:    "Analysis backend call latency in milliseconds",
			Buckets: prometheus.ExponentialBuckets(100, 2, 10), // 100ms to ~100s
		},
		[]string{"operation", "status"},
	)

	EmailSentCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "email_sent_count",
			Help: "Total number of outbound emails",
		},
		[]string{"status"}, // status: sent, failed
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)
)

func RecordPipelineStage(stage, status string, duration time.Duration) {
	PipelineStageDuration.WithLabelValues(stage, status).Observe(duration.Seconds())
}

func IncrementPipelineRun(source, status string) {
	PipelineRunCount.WithLabelValues(source, status).Inc()
}

func RecordAnalysisCall(operation, status string, duration time.Duration) {
	AnalysisCallLatency.WithLabelValues(operation, status).Observe(float64(duration.Milliseconds()))
}

func IncrementEmailSent(status string) {
	EmailSentCount.WithLabelValues(status).Inc()
}

func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
