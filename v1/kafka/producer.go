package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Aleph-Alpha/glue-messaging/v1/messaging"
	"github.com/Aleph-Alpha/glue-messaging/v1/tracer"
)

// Publish encodes message with the schema selected by ref and writes it to
// the configured topic. The trace context of ctx is added to the headers.
// Nothing is written when encoding fails.
//
// Example:
//
//	err := client.Publish(ctx, "user-42", map[string]interface{}{
//	    "street": "55 University Ave",
//	    "city":   "Toronto",
//	}, messaging.ByName("address"), nil)
func (k *KafkaClient) Publish(ctx context.Context, key string, message interface{}, ref messaging.SchemaRef, headers map[string]string) error {
	start := time.Now()

	data, err := k.codec.Encode(ctx, message, ref)
	if err != nil {
		k.observeOperation("publish", k.cfg.Topic, key, time.Since(start), err, 0, nil)
		return err
	}

	err = k.write(ctx, kafka.Message{
		Key:     []byte(key),
		Value:   data,
		Headers: buildHeaders(ctx, headers),
		Time:    start,
	})
	k.observeOperation("publish", k.cfg.Topic, key, time.Since(start), err, int64(len(data)), nil)
	return err
}

func (k *KafkaClient) write(ctx context.Context, msg kafka.Message) error {
	k.mu.RLock()
	defer k.mu.RUnlock()

	if k.closed {
		return ErrClosed
	}
	if k.writer == nil {
		return ErrNotProducer
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to %s: %w", k.cfg.Topic, err)
	}
	return nil
}

// buildHeaders merges the trace carrier of ctx with the caller's headers.
// Caller headers win.
func buildHeaders(ctx context.Context, headers map[string]string) []kafka.Header {
	merged := tracer.GetCarrier(ctx)
	for k, v := range headers {
		merged[k] = v
	}

	out := make([]kafka.Header, 0, len(merged))
	for k, v := range merged {
		out = append(out, kafka.Header{Key: k, Value: []byte(v)})
	}
	return out
}
