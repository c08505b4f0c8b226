package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the dashboard.
type Metrics struct {
	FetchRequests *prometheus.CounterVec   // labels: dataset, outcome={success,error}
	FetchDuration *prometheus.HistogramVec // labels: dataset
	DatasetCache  *prometheus.CounterVec   // labels: dataset, result={hit,miss}

	OverlaysMounted   *prometheus.CounterVec // labels: category
	RendersSuperseded prometheus.Counter
	OutlinesVisible   prometheus.Gauge
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.FetchRequests,
		m.FetchDuration,
		m.DatasetCache,
		m.OverlaysMounted,
		m.RendersSuperseded,
		m.OutlinesVisible,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as many as they like.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "twweather",
			Name:      "fetch_requests_total",
			Help:      "Dataset fetches by dataset and outcome.",
		}, []string{"dataset", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "twweather",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of a dataset fetch including decode.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		}, []string{"dataset"}),
		DatasetCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "twweather",
			Name:      "dataset_cache_total",
			Help:      "Memoized dataset lookups by dataset and result.",
		}, []string{"dataset", "result"}),
		OverlaysMounted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "twweather",
			Name:      "overlays_mounted_total",
			Help:      "Overlay layers mounted on the canvas by category.",
		}, []string{"category"}),
		RendersSuperseded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "twweather",
			Name:      "renders_superseded_total",
			Help:      "Renders discarded because a newer view was requested first.",
		}),
		OutlinesVisible: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "twweather",
			Name:      "outlines_visible",
			Help:      "Open views currently showing the county outline.",
		}),
	}
}
