package redis

import (
	"time"

	"github.com/Aleph-Alpha/glue-messaging/v1/observability"
)

// observeOperation notifies the observer about an operation if one is configured.
//
// Notes:
//   - resource: the Redis key being operated on
func (r *RedisClient) observeOperation(operation, resource, subResource string, duration time.Duration, err error, size int64, metadata map[string]interface{}) {
	if r == nil || r.observer == nil {
		return
	}

	r.observer.ObserveOperation(observability.OperationContext{
		Component:   "redis",
		Operation:   operation,
		Resource:    resource,
		SubResource: subResource,
		Duration:    duration,
		Error:       err,
		Size:        size,
		Metadata:    metadata,
	})
}

func (r *RedisClient) logInfo(msg string, fields map[string]interface{}) {
	if r.logger != nil {
		r.logger.Info(msg, nil, fields)
	}
}

func (r *RedisClient) logWarn(msg string, err error, fields map[string]interface{}) {
	if r.logger != nil {
		r.logger.Warn(msg, err, fields)
	}
}

func (r *RedisClient) logError(msg string, err error, fields map[string]interface{}) {
	if r.logger != nil {
		r.logger.Error(msg, err, fields)
	}
}
