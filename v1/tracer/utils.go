package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// StartSpan starts a span named name as a child of the span in ctx.
//
// Example:
//
//	ctx, span := tracer.StartSpan(ctx, "publish-order")
//	defer span.End()
func (t *Tracer) StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return t.tracer.Tracer("").Start(ctx, name)
}

// RecordErrorOnSpan records err on span and marks the span failed.
func (t *Tracer) RecordErrorOnSpan(span trace.Span, err error) {
	RecordError(span, err)
}

// SetAttributes sets attrs on span. Values of unsupported types are stored
// as their fmt.Sprint form.
func (t *Tracer) SetAttributes(span trace.Span, attrs map[string]interface{}) {
	if len(attrs) == 0 {
		return
	}

	attributes := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		switch val := v.(type) {
		case string:
			attributes = append(attributes, attribute.String(k, val))
		case int:
			attributes = append(attributes, attribute.Int(k, val))
		case int64:
			attributes = append(attributes, attribute.Int64(k, val))
		case float64:
			attributes = append(attributes, attribute.Float64(k, val))
		case bool:
			attributes = append(attributes, attribute.Bool(k, val))
		default:
			attributes = append(attributes, attribute.String(k, fmt.Sprint(val)))
		}
	}
	span.SetAttributes(attributes...)
}

// GetCarrier returns the trace headers of ctx.
func (t *Tracer) GetCarrier(ctx context.Context) map[string]string {
	return GetCarrier(ctx)
}

// SetCarrierOnContext returns ctx carrying the trace found in carrier.
func (t *Tracer) SetCarrierOnContext(ctx context.Context, carrier map[string]string) context.Context {
	return SetCarrierOnContext(ctx, carrier)
}

// RecordError records err on span and marks the span failed. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// GetCarrier injects the span context and baggage of ctx into a header map.
// Transports copy the map into message headers.
func GetCarrier(ctx context.Context) map[string]string {
	carrier := propagation.MapCarrier{}
	propagator.Inject(ctx, carrier)
	return carrier
}

// SetCarrierOnContext extracts the trace carried by headers into ctx.
func SetCarrierOnContext(ctx context.Context, carrier map[string]string) context.Context {
	return propagator.Extract(ctx, propagation.MapCarrier(carrier))
}
