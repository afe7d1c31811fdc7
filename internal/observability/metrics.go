package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cory-johannsen/radar/internal/config"
)

// Resolution outcome labels.
const (
	OutcomeResolved  = "resolved"
	OutcomeInvalid   = "invalid"
	OutcomeExhausted = "exhausted"
)

// Metrics records target resolution activity for Prometheus.
//
// Metrics:
//   - <ns>_resolutions_total: resolutions by transport and outcome
//   - <ns>_resolution_duration_seconds: resolution latency by transport
//   - <ns>_protocol_requests_total: protocol identifiers requested
//   - <ns>_scan_entries: scan size histogram
type Metrics struct {
	registry *prometheus.Registry

	resolutionsTotal   *prometheus.CounterVec
	resolutionDuration *prometheus.HistogramVec
	protocolRequests   *prometheus.CounterVec
	scanEntries        prometheus.Histogram
}

// NewMetrics creates and registers resolution metrics. A nil registry gets a
// fresh one with Go runtime and process collectors.
//
// Precondition: cfg.Namespace must be a valid Prometheus metric prefix.
// Postcondition: All metrics are registered with the returned Metrics' registry.
func NewMetrics(cfg config.MetricsConfig, registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m := &Metrics{
		registry: registry,
		resolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "resolutions_total",
				Help:      "Total number of target resolutions",
			},
			[]string{"transport", "outcome"},
		),
		resolutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "resolution_duration_seconds",
				Help:      "Duration of target resolutions in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"transport"},
		),
		protocolRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Name:      "protocol_requests_total",
				Help:      "Total number of protocol identifiers requested",
			},
			[]string{"protocol"},
		),
		scanEntries: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Name:      "scan_entries",
				Help:      "Number of entries per scan",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
	}

	registry.MustRegister(
		m.resolutionsTotal,
		m.resolutionDuration,
		m.protocolRequests,
		m.scanEntries,
	)
	return m
}

// RecordResolution records one completed resolution.
//
// Parameters:
//   - transport: "http" or "grpc"
//   - outcome: one of the Outcome* labels
//   - protocols: the validated protocol identifiers of the request
func (m *Metrics) RecordResolution(transport, outcome string, duration time.Duration, scanSize int, protocols []string) {
	m.resolutionsTotal.WithLabelValues(transport, outcome).Inc()
	m.resolutionDuration.WithLabelValues(transport).Observe(duration.Seconds())
	m.scanEntries.Observe(float64(scanSize))
	for _, p := range protocols {
		m.protocolRequests.WithLabelValues(p).Inc()
	}
}

// RecordRejected records a request rejected before resolution.
func (m *Metrics) RecordRejected(transport string) {
	m.resolutionsTotal.WithLabelValues(transport, OutcomeInvalid).Inc()
}

// Handler returns an HTTP handler for the Prometheus metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
		ErrorHandling:     promhttp.ContinueOnError,
	})
}

// Registry returns the registry the metrics are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
