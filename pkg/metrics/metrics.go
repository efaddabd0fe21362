package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns every Prometheus collector of the service.
// Each Recorder has its own registry so tests can build as many as they like.
// ⭐ SSOT: 메트릭 정의는 여기서만
type Recorder struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	payloads     *prometheus.CounterVec
	upstream     *prometheus.CounterVec
	datasetRows  prometheus.Gauge
}

// New creates a Recorder with Go/process collectors registered
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketboard_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "marketboard_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method"},
		),
		payloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketboard_stock_payloads_total",
				Help: "Stock summary payloads built, by outcome (ok|empty_dataset)",
			},
			[]string{"outcome"},
		),
		upstream: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "marketboard_upstream_requests_total",
				Help: "Calls to external sources, by source and result",
			},
			[]string{"source", "result"},
		),
		datasetRows: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "marketboard_stock_dataset_rows",
				Help: "Rows in the active stock CSV snapshot",
			},
		),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.httpRequests,
		r.httpDuration,
		r.payloads,
		r.upstream,
		r.datasetRows,
	)

	return r
}

// ObserveHTTP records one served request
func (r *Recorder) ObserveHTTP(route, method string, status int, d time.Duration) {
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	r.httpDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// RecordPayload counts a built stock payload
func (r *Recorder) RecordPayload(emptyDataset bool) {
	outcome := "ok"
	if emptyDataset {
		outcome = "empty_dataset"
	}
	r.payloads.WithLabelValues(outcome).Inc()
}

// RecordUpstream counts a call to an external source
func (r *Recorder) RecordUpstream(source string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.upstream.WithLabelValues(source, result).Inc()
}

// SetDatasetRows publishes the size of the active snapshot
func (r *Recorder) SetDatasetRows(n int) {
	r.datasetRows.Set(float64(n))
}

// Handler exposes the registry for scraping
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry (tests)
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
