package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments exposed by the results API.
type Metrics struct {
	Registry *prometheus.Registry

	RowsIngested  prometheus.Counter
	RowsDiscarded *prometheus.CounterVec
	AnalysesRun   prometheus.Counter
	IngestSeconds prometheus.Histogram
	HTTPRequests  *prometheus.CounterVec
}

// NewMetrics builds a self-contained metrics registry. Each binary gets its
// own registry so tests never trip over duplicate registration.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		RowsIngested: factory.NewCounter(prometheus.CounterOpts{
			Name: "wardrive_rows_ingested_total",
			Help: "Rows accepted into the clean dataset.",
		}),
		RowsDiscarded: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wardrive_rows_discarded_total",
			Help: "Rows quarantined to the discard log, by reason.",
		}, []string{"reason"}),
		AnalysesRun: factory.NewCounter(prometheus.CounterOpts{
			Name: "wardrive_analyses_total",
			Help: "Completed analysis runs.",
		}),
		IngestSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "wardrive_ingest_duration_seconds",
			Help:    "Wall time spent ingesting a capture file.",
			Buckets: prometheus.DefBuckets,
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wardrive_http_requests_total",
			Help: "HTTP requests served, by route and status class.",
		}, []string{"route", "status"}),
	}
}
