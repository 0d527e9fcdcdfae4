package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wealth",
			Subsystem: "assistant",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Chat turn duration histogram
	TurnDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wealth",
			Subsystem: "assistant",
			Name:      "turn_duration_seconds",
			Help:      "End-to-end chat turn duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"intent", "state"},
	)

	// Intent distribution
	IntentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wealth",
			Subsystem: "assistant",
			Name:      "intents_total",
			Help:      "Classified intents by outcome",
		},
		[]string{"intent", "outcome"},
	)

	// Classification confidence histogram
	IntentConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "wealth",
			Subsystem: "assistant",
			Name:      "intent_confidence",
			Help:      "Intent classification confidence distribution",
			Buckets:   []float64{0.1, 0.3, 0.5, 0.7, 0.8, 0.9, 0.95, 1},
		},
	)

	// Tool call counters
	ToolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wealth",
			Subsystem: "assistant",
			Name:      "tool_calls_total",
			Help:      "Total registry tool invocations",
		},
		[]string{"tool_name", "status"},
	)

	// Tool duration histogram
	ToolDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wealth",
			Subsystem: "assistant",
			Name:      "tool_duration_seconds",
			Help:      "Tool execution duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"tool_name"},
	)

	// Background sweep counters
	SweepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wealth",
			Subsystem: "assistant",
			Name:      "sweeps_total",
			Help:      "Background sweep executions by target and result",
		},
		[]string{"target", "result"},
	)
)
