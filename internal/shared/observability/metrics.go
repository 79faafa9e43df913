package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParseDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "inscope_parse_seconds",
		Help:    "Time spent reading a source file.",
		Buckets: prometheus.DefBuckets,
	})

	IndexedContainers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "inscope_index_containers_total",
		Help: "Total number of containers currently indexed.",
	})

	IndexedClauses = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "inscope_index_clauses_total",
		Help: "Total number of call-definition clauses currently indexed.",
	})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inscope_analysis_seconds",
		Help:    "Time spent on high-level analysis tasks.",
		Buckets: prometheus.DefBuckets,
	}, []string{"task"})

	AliasDepthExceededTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inscope_alias_depth_exceeded_total",
		Help: "Total number of alias resolutions abandoned at the depth limit.",
	})

	DiagnosticsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inscope_diagnostics_total",
		Help: "Total number of internal-error diagnostics recorded.",
	}, []string{"label"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inscope_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})
)
