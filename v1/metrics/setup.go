package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns a Prometheus registry, the HTTP server exposing it and the
// built-in operation metrics fed by ObserveOperation.
type Metrics struct {
	// Server serves the /metrics endpoint.
	Server *http.Server

	// Registry holds every metric of this instance.
	Registry *prometheus.Registry

	// registerer adds the constant service label.
	registerer prometheus.Registerer

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	payloadBytes      *prometheus.HistogramVec
}

var _ MetricsCollector = (*Metrics)(nil)

// NewMetrics creates an isolated registry with the operation metrics and,
// if enabled, the default collectors.
//
// Example:
//
//	m := metrics.NewMetrics(metrics.Config{ServiceName: "orders"})
//	codec := messaging.NewCodec(reg, store).WithObserver(m)
//	go m.Server.ListenAndServe()
func NewMetrics(cfg Config) *Metrics {
	if cfg.Address == "" {
		cfg.Address = DefaultAddress
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}

	registry := prometheus.NewRegistry()

	var registerer prometheus.Registerer = registry
	if cfg.ServiceName != "" {
		registerer = prometheus.WrapRegistererWith(prometheus.Labels{"service": cfg.ServiceName}, registry)
	}

	m := &Metrics{
		Registry:   registry,
		registerer: registerer,
	}

	m.operationsTotal = createCounterVec(cfg.Namespace, "operations_total",
		"Total number of codec and transport operations", []string{"component", "operation", "status"})
	m.operationDuration = createHistogramVec(cfg.Namespace, "operation_duration_seconds",
		"Duration of codec and transport operations in seconds", []string{"component", "operation"}, prometheus.DefBuckets)
	m.payloadBytes = createHistogramVec(cfg.Namespace, "payload_bytes",
		"Size of encoded messages in bytes", []string{"component", "operation"}, prometheus.ExponentialBuckets(64, 4, 8))

	registerer.MustRegister(
		m.operationsTotal,
		m.operationDuration,
		m.payloadBytes,
	)

	if cfg.EnableDefaultCollectors {
		registerer.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	m.Server = &http.Server{
		Addr:    cfg.Address,
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	return m
}
