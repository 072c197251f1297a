// Package metrics exposes Prometheus metrics for the codec and the message
// transports.
//
// *Metrics implements observability.Observer. Attached to a codec or a
// transport client it records, per component and operation:
//
//	glue_messaging_operations_total{component, operation, status}
//	glue_messaging_operation_duration_seconds{component, operation}
//	glue_messaging_payload_bytes{component, operation}
//
// status is "success" or "error". The namespace prefix is configurable and a
// constant service label is added when Config.ServiceName is set.
//
// # Direct Usage (Without FX)
//
//	m := metrics.NewMetrics(metrics.Config{
//	    Address:                 ":9090",
//	    EnableDefaultCollectors: true,
//	    ServiceName:             "orders",
//	})
//	go m.Server.ListenAndServe()
//
//	codec := messaging.NewCodec(reg, store).WithObserver(m)
//
// # FX Module Integration
//
// FXModule provides *Metrics, MetricsCollector and observability.Observer,
// so modules that accept an optional observer pick the metrics up:
//
//	app := fx.New(
//	    logger.FXModule, // optional: lifecycle logs
//	    metrics.FXModule,
//	    messaging.FXModule,
//	    fx.Supply(metrics.Config{ServiceName: "orders"}),
//	)
//
// # Configuration
//
//	METRICS_ADDRESS=:9090
//	METRICS_ENABLE_DEFAULT_COLLECTORS=true
//	METRICS_NAMESPACE=glue_messaging
//	METRICS_SERVICE_NAME=orders
//
// # Custom Metrics
//
// CreateCounter, CreateHistogram and CreateGauge register additional metrics
// on the same registry, carrying the service label.
//
// All methods are safe for concurrent use.
package metrics
