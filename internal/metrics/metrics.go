// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics defines the Prometheus collectors for provider calls,
// page fetches and tool invocations. A nil *Metrics is valid and records
// nothing, so library code and tests do not need a registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds the collectors registered for one process.
type Metrics struct {
	ProviderRequests *prometheus.CounterVec
	ProviderDuration *prometheus.HistogramVec
	Fetches          *prometheus.CounterVec
	ToolCalls        *prometheus.CounterVec
	ToolDuration     *prometheus.HistogramVec
	SkippedQueries   prometheus.Counter
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ProviderRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "research_tools_provider_requests_total",
			Help: "Search provider requests by search depth and outcome",
		}, []string{"depth", "outcome"}),
		ProviderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "research_tools_provider_request_duration_seconds",
			Help:    "Search provider request duration",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"depth"}),
		Fetches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "research_tools_fetches_total",
			Help: "Page content fetches by fetcher and outcome",
		}, []string{"fetcher", "outcome"}),
		ToolCalls: f.NewCounterVec(prometheus.CounterOpts{
			Name: "research_tools_tool_calls_total",
			Help: "Tool invocations by tool and status",
		}, []string{"tool", "status"}),
		ToolDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "research_tools_tool_call_duration_seconds",
			Help:    "Tool invocation duration",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		}, []string{"tool"}),
		SkippedQueries: f.NewCounter(prometheus.CounterOpts{
			Name: "research_tools_skipped_subquestions_total",
			Help: "Sub-question searches that failed and were left out of a report",
		}),
	}
}

// ObserveProvider records one provider request.
func (m *Metrics) ObserveProvider(depth string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(depth, outcome(err)).Inc()
	m.ProviderDuration.WithLabelValues(depth).Observe(time.Since(start).Seconds())
}

// ObserveFetch records one page fetch.
func (m *Metrics) ObserveFetch(fetcher string, err error) {
	if m == nil {
		return
	}
	m.Fetches.WithLabelValues(fetcher, outcome(err)).Inc()
}

// ObserveTool records one tool invocation.
func (m *Metrics) ObserveTool(tool, status string, start time.Time) {
	if m == nil {
		return
	}
	m.ToolCalls.WithLabelValues(tool, status).Inc()
	m.ToolDuration.WithLabelValues(tool).Observe(time.Since(start).Seconds())
}

// SkipQuery counts a sub-question dropped from a report.
func (m *Metrics) SkipQuery() {
	if m == nil {
		return
	}
	m.SkippedQueries.Inc()
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
