package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	DiffChangesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shadow_diff_changes_total",
		Help: "Total number of structural changes reported by file diffs.",
	}, []string{"change_type"})

	DiffRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shadow_diff_requests_total",
		Help: "Total number of files diffed.",
	})

	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shadow_graph_nodes_total",
		Help: "Total number of files in the published dependency graph.",
	})

	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "shadow_graph_edges_total",
		Help: "Total number of resolved import edges in the published dependency graph.",
	})

	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "shadow_scan_seconds",
		Help:    "Time spent walking the workspace and building the dependency graph.",
		Buckets: prometheus.DefBuckets,
	})

	ScanSkippedFilesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shadow_scan_skipped_files_total",
		Help: "Total number of files skipped during workspace scans because they could not be read.",
	})

	ImpactQueriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shadow_impact_queries_total",
		Help: "Total number of impact analyses by resulting risk level.",
	}, []string{"risk"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shadow_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RebuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "shadow_graph_rebuilds_total",
		Help: "Total number of watch-triggered graph rebuilds by outcome.",
	}, []string{"outcome"})
)
