package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aleph-Alpha/glue-messaging/v1/observability"
)

// Operation status label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ObserveOperation records a completed operation. Metrics can be attached
// directly as the observer of a codec or transport client.
func (m *Metrics) ObserveOperation(ctx observability.OperationContext) {
	status := StatusSuccess
	if ctx.Error != nil {
		status = StatusError
	}

	m.operationsTotal.WithLabelValues(ctx.Component, ctx.Operation, status).Inc()
	m.operationDuration.WithLabelValues(ctx.Component, ctx.Operation).Observe(ctx.Duration.Seconds())
	if ctx.Error == nil && ctx.Size > 0 {
		m.payloadBytes.WithLabelValues(ctx.Component, ctx.Operation).Observe(float64(ctx.Size))
	}
}

// CreateCounter creates a new CounterVec metric and registers it.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	counter := createCounterVec("", name, help, labels)
	m.registerer.MustRegister(counter)
	return counter
}

// CreateHistogram creates a new HistogramVec metric and registers it.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	hist := createHistogramVec("", name, help, labels, buckets)
	m.registerer.MustRegister(hist)
	return hist
}

// CreateGauge creates a new GaugeVec metric and registers it.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	gauge := createGaugeVec("", name, help, labels)
	m.registerer.MustRegister(gauge)
	return gauge
}

func createCounterVec(namespace, name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

func createHistogramVec(namespace, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}

func createGaugeVec(namespace, name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}
