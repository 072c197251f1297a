package messaging

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Aleph-Alpha/glue-messaging/v1/observability"
	"github.com/Aleph-Alpha/glue-messaging/v1/registry"
)

// finish ends span and reports the operation to the observer.
func (c *Codec) finish(ctx context.Context, span trace.Span, operation, reference string, id registry.SchemaID, start time.Time, err error, size int) {
	resource := reference
	if !id.IsZero() {
		resource = id.String()
		span.SetAttributes(attribute.String("schema.id", resource))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	c.observeOperation(operation, resource, reference, time.Since(start), err, int64(size), nil)
}

// observeOperation notifies the observer about an operation if one is configured.
//
// Notes:
//   - resource: the schema id when known, otherwise the reference
//   - subResource: the reference as given by the caller
func (c *Codec) observeOperation(operation, resource, subResource string, duration time.Duration, err error, size int64, metadata map[string]interface{}) {
	if c == nil || c.observer == nil {
		return
	}

	c.observer.ObserveOperation(observability.OperationContext{
		Component:   "messaging",
		Operation:   operation,
		Resource:    resource,
		SubResource: subResource,
		Duration:    duration,
		Error:       err,
		Size:        size,
		Metadata:    metadata,
	})
}

func (c *Codec) logDebug(ctx context.Context, msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.DebugWithContext(ctx, msg, nil, fields)
	}
}

func (c *Codec) logInfo(ctx context.Context, msg string, fields map[string]interface{}) {
	if c.logger != nil {
		c.logger.InfoWithContext(ctx, msg, nil, fields)
	}
}
