// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registry served on /metrics.
var Registry = prometheus.NewRegistry()

func init() {
	Registry.MustRegister(
		QueryDuration, QueryTotal, QuerySteps,
		ActionTotal, ReasoningDuration, LLMTokensTotal,
		FramesCaptured, CameraReconnects, WSClients,
	)
}

// QueryDuration is the wall time of a chain run.
var QueryDuration = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "wayfinder_query_duration_seconds",
		Help:    "Chain run duration in seconds.",
		Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 60},
	},
)

// QueryTotal counts finished runs by outcome.
var QueryTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "wayfinder_query_total",
		Help: "Chain runs by outcome.",
	},
	[]string{"outcome"},
)

// QuerySteps is the number of steps a run consumed.
var QuerySteps = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "wayfinder_query_steps",
		Help:    "Steps consumed per chain run.",
		Buckets: prometheus.LinearBuckets(1, 1, 11),
	},
)

// ActionTotal counts executed actions by function.
var ActionTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "wayfinder_action_total",
		Help: "Executed actions by function.",
	},
	[]string{"function"},
)

// ReasoningDuration is the latency of reasoning calls.
var ReasoningDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "wayfinder_reasoning_duration_seconds",
		Help:    "Reasoning call latency in seconds.",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"model"},
)

// LLMTokensTotal counts tokens reported by the inference provider.
var LLMTokensTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "wayfinder_llm_tokens_total",
		Help: "LLM tokens by direction.",
	},
	[]string{"direction"}, // input | output
)

// FramesCaptured counts frames stored in the frame buffer.
var FramesCaptured = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "wayfinder_frames_captured_total",
		Help: "Camera frames stored.",
	},
)

// CameraReconnects counts stream reopen attempts.
var CameraReconnects = prometheus.NewCounter(
	prometheus.CounterOpts{
		Name: "wayfinder_camera_reconnects_total",
		Help: "Camera stream reconnect attempts.",
	},
)

// WSClients is the number of connected event subscribers.
var WSClients = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "wayfinder_ws_clients",
		Help: "Connected websocket clients.",
	},
)

// ObserveQuery records a finished run.
func ObserveQuery(outcome string, steps int, d time.Duration) {
	QueryTotal.WithLabelValues(outcome).Inc()
	QuerySteps.Observe(float64(steps))
	QueryDuration.Observe(d.Seconds())
}

// Handler serves Registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
