// Package metrics exposes Prometheus collectors for the collection pipeline.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	collectorSourcesTotal   *prometheus.CounterVec
	collectorRecordsTotal   *prometheus.CounterVec
	collectorSourceErrors   prometheus.Counter
	collectorHarvestedLinks prometheus.Counter
	collectorRunsTotal      prometheus.Counter

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		collectorSourcesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "collector_sources_total",
				Help: "Total number of sources processed, labeled by kind and outcome.",
			},
			[]string{"kind", "status"},
		)

		collectorRecordsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "collector_records_total",
				Help: "Total number of event records collected, labeled by source.",
			},
			[]string{"source"},
		)

		collectorSourceErrors = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "collector_source_errors_total",
				Help: "Total number of failed source attempts.",
			},
		)

		collectorHarvestedLinks = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "collector_harvested_links_total",
				Help: "Total number of event links harvested from the inbox.",
			},
		)

		collectorRunsTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "collector_runs_total",
				Help: "Total number of completed collection runs.",
			},
		)
	})
}

// ObserveSource counts one processed source by kind and outcome.
func ObserveSource(kind string, failed bool) {
	if collectorSourcesTotal == nil {
		return
	}
	status := "ok"
	if failed {
		status = "error"
		if collectorSourceErrors != nil {
			collectorSourceErrors.Inc()
		}
	}
	collectorSourcesTotal.WithLabelValues(kind, status).Inc()
}

// AddRecords counts records contributed by one source.
func AddRecords(source string, n int) {
	if collectorRecordsTotal == nil || n <= 0 {
		return
	}
	collectorRecordsTotal.WithLabelValues(source).Add(float64(n))
}

// AddHarvestedLinks counts links produced by a harvest call.
func AddHarvestedLinks(n int) {
	if collectorHarvestedLinks == nil || n <= 0 {
		return
	}
	collectorHarvestedLinks.Add(float64(n))
}

// ObserveRun counts one completed collection run.
func ObserveRun() {
	if collectorRunsTotal == nil {
		return
	}
	collectorRunsTotal.Inc()
}
