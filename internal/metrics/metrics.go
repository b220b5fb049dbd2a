package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "layoutflow"

var (
	registry = prometheus.NewRegistry()

	pagesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pages_processed_total",
			Help:      "Total pages processed by detected layout",
		},
		[]string{"layout"},
	)

	pageLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "page_duration_seconds",
			Help:      "Time spent reconstructing one page by layout",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"layout"},
	)

	entitiesEmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_total",
			Help:      "Layout entities emitted by type",
		},
		[]string{"type"},
	)

	mergesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merges_total",
			Help:      "Pairs merged during consolidation by layout",
		},
		[]string{"layout"},
	)

	tableVerdicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "table_verdicts_total",
			Help:      "Tabular groups by classifier verdict",
		},
		[]string{"verdict"},
	)
)

func init() {
	registry.MustRegister(pagesProcessed, pageLatency, entitiesEmitted, mergesTotal, tableVerdicts)
}

// Registry exposes the collectors for callers that serve or gather them.
func Registry() *prometheus.Registry { return registry }

func ObservePage(layout string, dur time.Duration) {
	pagesProcessed.WithLabelValues(layout).Inc()
	pageLatency.WithLabelValues(layout).Observe(dur.Seconds())
}

func AddEntities(kind string, n int) { entitiesEmitted.WithLabelValues(kind).Add(float64(n)) }
func AddMerges(layout string, n int) { mergesTotal.WithLabelValues(layout).Add(float64(n)) }
func IncTableVerdict(verdict string) { tableVerdicts.WithLabelValues(verdict).Inc() }

// WriteTextfile dumps the current values in the text exposition format,
// for pickup by a node exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}
