// Package tracer configures OpenTelemetry tracing and carries trace context
// across message transports.
//
// NewClient installs a tracer provider and the W3C trace context propagator
// globally. With EnableExport spans are batched to an OTLP/HTTP collector.
//
//	t, err := tracer.NewClient(tracer.Config{ServiceName: "orders", EnableExport: true}, log)
//	defer t.Shutdown(ctx)
//
//	codec := messaging.NewCodec(reg, store, messaging.WithTracerProvider(t.TracerProvider()))
//
// GetCarrier and SetCarrierOnContext move the trace of a context into a
// header map and back. The kafka and rabbit packages use them so that a
// consumer's spans continue the producer's trace.
package tracer
