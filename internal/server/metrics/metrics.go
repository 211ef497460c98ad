// Package metrics exposes dev server Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the docsite collectors on an isolated registry so several
// servers (and tests) never collide on the global default registry.
type Metrics struct {
	Registry *prometheus.Registry

	// HTTP
	RequestsTotal          *prometheus.CounterVec
	RequestDurationSeconds *prometheus.HistogramVec

	// Site
	BuildsTotal          *prometheus.CounterVec
	BuildDurationSeconds *prometheus.HistogramVec
	ImagesTotal          prometheus.Gauge
	ModuleLoadsTotal     *prometheus.CounterVec
	WatchEventsTotal     *prometheus.CounterVec

	// Live updates
	EventsPublishedTotal *prometheus.CounterVec

	BuildInfo *prometheus.GaugeVec
}

// New creates the collectors and records version and goVersion on the
// docsite_info gauge.
func New(version, goVersion string) *Metrics {
	reg := prometheus.NewRegistry()

	reg.MustRegister(prometheus.NewGoCollector())
	reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsite_http_requests_total",
				Help: "Total HTTP requests served by the dev server.",
			},
			[]string{"method", "path", "status"},
		),
		RequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docsite_http_request_duration_seconds",
				Help:    "Dev server request latency.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		BuildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsite_builds_total",
				Help: "Total site builds by result.",
			},
			[]string{"result"},
		),
		BuildDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docsite_build_duration_seconds",
				Help:    "Site build duration.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"result"},
		),
		ImagesTotal: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "docsite_images",
				Help: "Number of images in the most recent manifest.",
			},
		),
		ModuleLoadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsite_module_loads_total",
				Help: "Virtual module loads by module id and result.",
			},
			[]string{"module", "result"},
		),
		WatchEventsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsite_watch_events_total",
				Help: "Debounced file changes by kind.",
			},
			[]string{"kind"},
		),
		EventsPublishedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsite_events_published_total",
				Help: "Live update events published by type.",
			},
			[]string{"type"},
		),
		BuildInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "docsite_info",
				Help: "Build information about the docsite binary.",
			},
			[]string{"version", "go_version"},
		),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDurationSeconds,
		m.BuildsTotal,
		m.BuildDurationSeconds,
		m.ImagesTotal,
		m.ModuleLoadsTotal,
		m.WatchEventsTotal,
		m.EventsPublishedTotal,
		m.BuildInfo,
	)

	m.BuildInfo.WithLabelValues(version, goVersion).Set(1)

	return m
}

// Handler serves the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// TrackLiveClients exports count as docsite_live_clients{transport=...}.
// It is sampled on every scrape.
func (m *Metrics) TrackLiveClients(transport string, count func() int) {
	m.Registry.MustRegister(prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name:        "docsite_live_clients",
			Help:        "Connected live update clients by transport.",
			ConstLabels: prometheus.Labels{"transport": transport},
		},
		func() float64 { return float64(count()) },
	))
}

// Result labels used by BuildsTotal and ModuleLoadsTotal.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Result maps an error onto a result label.
func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}
