package kafka

import (
	"context"
	"time"

	"github.com/Aleph-Alpha/glue-messaging/v1/observability"
)

// observeOperation notifies the observer about an operation if one is configured.
//
// Notes:
//   - resource: the topic
//   - subResource: the message key
func (k *KafkaClient) observeOperation(operation, resource, subResource string, duration time.Duration, err error, size int64, metadata map[string]interface{}) {
	if k == nil || k.observer == nil {
		return
	}

	k.observer.ObserveOperation(observability.OperationContext{
		Component:   "kafka",
		Operation:   operation,
		Resource:    resource,
		SubResource: subResource,
		Duration:    duration,
		Error:       err,
		Size:        size,
		Metadata:    metadata,
	})
}

func (k *KafkaClient) logWarn(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	if k.logger != nil {
		k.logger.WarnWithContext(ctx, msg, err, fields)
	}
}

func (k *KafkaClient) logError(ctx context.Context, msg string, err error, fields map[string]interface{}) {
	if k.logger != nil {
		k.logger.ErrorWithContext(ctx, msg, err, fields)
	}
}
