package rabbit

import (
	"context"
	"time"

	"github.com/Aleph-Alpha/glue-messaging/v1/observability"
)

// observeOperation notifies the observer about an operation if one is configured.
//
// Notes:
//   - resource: the exchange for publish, the queue for consume
//   - subResource: the routing key
func (rb *RabbitClient) observeOperation(operation, resource, subResource string, duration time.Duration, err error, size int64, metadata map[string]interface{}) {
	if rb == nil || rb.observer == nil {
		return
	}

	rb.observer.ObserveOperation(observability.OperationContext{
		Component:   "rabbit",
		Operation:   operation,
		Resource:    resource,
		SubResource: subResource,
		Duration:    duration,
		Error:       err,
		Size:        size,
		Metadata:    metadata,
	})
}

func (rb *RabbitClient) logInfo(ctx context.Context, msg string, fields map[string]interface{}) {
	if rb.logger != nil {
		rb.logger.InfoWithContext(ctx, msg, nil, fields)
	}
}

func (rb *RabbitClient) logWarn(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	if rb.logger != nil {
		rb.logger.WarnWithContext(ctx, msg, err, fields)
	}
}

func (rb *RabbitClient) logError(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	if rb.logger != nil {
		rb.logger.ErrorWithContext(ctx, msg, err, fields)
	}
}
