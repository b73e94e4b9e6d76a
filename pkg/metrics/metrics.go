package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Router decision paths.
const (
	RoutePathKeyword  = "keyword"
	RoutePathLLM      = "llm"
	RoutePathFailOpen = "fail_open"
)

var (
	RouterDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmapilot_router_decisions_total",
			Help: "Agent selections by routing path",
		},
		[]string{"path"},
	)

	ResearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pharmapilot_research_duration_seconds",
			Help:    "End-to-end research run duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80, 160},
		},
		[]string{"status"},
	)

	AgentRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmapilot_agent_runs_total",
			Help: "Worker agent executions by domain and outcome",
		},
		[]string{"domain", "status"},
	)

	RenderFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmapilot_render_failures_total",
			Help: "Degraded chart or PDF renders",
		},
		[]string{"kind"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmapilot_http_requests_total",
			Help: "HTTP requests by route and status code",
		},
		[]string{"route", "code"},
	)
)
