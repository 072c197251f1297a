package rabbit

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Aleph-Alpha/glue-messaging/v1/messaging"
	"github.com/Aleph-Alpha/glue-messaging/v1/tracer"
)

// Publish encodes message with the schema selected by ref and publishes it
// persistently to the configured exchange and routing key, then waits for
// the broker's confirm. The trace context of ctx is added to the headers.
// Nothing is published when encoding fails.
//
// Example:
//
//	err := client.Publish(ctx, map[string]interface{}{
//	    "street": "55 University Ave",
//	    "city":   "Toronto",
//	}, messaging.ByName("address"), map[string]interface{}{"tenant": "acme"})
func (rb *RabbitClient) Publish(ctx context.Context, message interface{}, ref messaging.SchemaRef, headers map[string]interface{}) error {
	start := time.Now()
	exchange, key := rb.cfg.Channel.ExchangeName, rb.cfg.Channel.RoutingKey

	data, err := rb.codec.Encode(ctx, message, ref)
	if err != nil {
		rb.observeOperation("publish", exchange, key, time.Since(start), err, 0, nil)
		return err
	}

	err = rb.publish(ctx, exchange, key, amqp.Publishing{
		Headers:      buildHeaders(ctx, headers),
		ContentType:  rb.cfg.Channel.ContentType,
		DeliveryMode: amqp.Persistent,
		Timestamp:    start,
		Body:         data,
	})
	if err != nil {
		rb.logError(ctx, "Failed to publish message", err, map[string]interface{}{
			"exchange":    exchange,
			"routing_key": key,
		})
	}
	rb.observeOperation("publish", exchange, key, time.Since(start), err, int64(len(data)), nil)
	return err
}

func (rb *RabbitClient) publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error {
	ch, err := rb.currentChannel()
	if err != nil {
		return err
	}

	confirm, err := ch.publish(ctx, exchange, key, msg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, TranslateError(err))
	}
	if confirm == nil {
		return nil
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return fmt.Errorf("%w: waiting for confirm: %w", ErrPublishFailed, err)
	}
	if !acked {
		return ErrMessageNacked
	}
	return nil
}

// buildHeaders merges the trace carrier of ctx with the caller's headers.
// Caller headers win.
func buildHeaders(ctx context.Context, headers map[string]interface{}) amqp.Table {
	carrier := tracer.GetCarrier(ctx)
	table := make(amqp.Table, len(carrier)+len(headers))
	for k, v := range carrier {
		table[k] = v
	}
	for k, v := range headers {
		table[k] = v
	}
	return table
}
