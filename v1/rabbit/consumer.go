package rabbit

import (
	"context"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Aleph-Alpha/glue-messaging/v1/messaging"
	"github.com/Aleph-Alpha/glue-messaging/v1/registry"
	"github.com/Aleph-Alpha/glue-messaging/v1/tracer"
)

// ConsumerMessage implements the Message interface and wraps an AMQP delivery.
type ConsumerMessage struct {
	ctx      context.Context
	delivery amqp.Delivery
	decoded  *messaging.DecodedMessage
	err      error
}

// AckMsg acknowledges the message.
func (m *ConsumerMessage) AckMsg() error {
	return m.delivery.Ack(false)
}

// NackMsg rejects the message, optionally requeueing it.
func (m *ConsumerMessage) NackMsg(requeue bool) error {
	return m.delivery.Nack(false, requeue)
}

// Body returns the raw envelope bytes.
func (m *ConsumerMessage) Body() []byte { return m.delivery.Body }

// Header returns the message headers.
func (m *ConsumerMessage) Header() map[string]interface{} {
	return m.delivery.Headers
}

// Context carries the producer's trace, if the headers held one.
func (m *ConsumerMessage) Context() context.Context { return m.ctx }

// Value returns the decoded message, or nil if decoding failed.
func (m *ConsumerMessage) Value() interface{} {
	if m.decoded == nil {
		return nil
	}
	return m.decoded.Message
}

// SchemaID returns the id of the schema the message was decoded with.
func (m *ConsumerMessage) SchemaID() registry.SchemaID {
	if m.decoded == nil {
		return registry.NilSchemaID
	}
	return m.decoded.SchemaID
}

// Err returns the decode error. Messages that fail to decode are still
// delivered so the caller can nack them into the dead letter queue.
func (m *ConsumerMessage) Err() error { return m.err }

// Consume starts consuming messages from Config.Channel.QueueName. Each
// delivery is decoded through the codec before it is sent on the returned
// channel, which is closed when ctx is cancelled or the client shuts down.
// A consumer survives reconnects made by RetryConnection.
//
// Example:
//
//	wg := &sync.WaitGroup{}
//	for msg := range client.Consume(ctx, wg) {
//	    if msg.Err() != nil {
//	        _ = msg.NackMsg(false)
//	        continue
//	    }
//	    handle(msg.Value())
//	    _ = msg.AckMsg()
//	}
//	wg.Wait()
func (rb *RabbitClient) Consume(ctx context.Context, wg *sync.WaitGroup) <-chan Message {
	return rb.consumeQueue(ctx, wg, rb.cfg.Channel.QueueName)
}

// ConsumeDLQ starts consuming messages from Config.DeadLetter.QueueName.
func (rb *RabbitClient) ConsumeDLQ(ctx context.Context, wg *sync.WaitGroup) <-chan Message {
	return rb.consumeQueue(ctx, wg, rb.cfg.DeadLetter.QueueName)
}

func (rb *RabbitClient) consumeQueue(ctx context.Context, wg *sync.WaitGroup, queueName string) <-chan Message {
	outChan := make(chan Message, 100)
	delay := time.Duration(rb.cfg.Channel.DelayToReconnect) * time.Millisecond

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(outChan)

		for {
			if rb.stopped(ctx, queueName) {
				return
			}

			ch, err := rb.currentChannel()
			if IsShutdownError(err) {
				return
			}
			var msgs <-chan amqp.Delivery
			if err == nil {
				msgs, err = ch.consume(queueName)
			}
			if err != nil {
				rb.logError(ctx, "Failed to establish consumer", TranslateError(err), map[string]interface{}{
					"queue": queueName,
				})
				select {
				case <-time.After(delay):
				case <-ctx.Done():
				case <-rb.shutdownSignal:
				}
				continue
			}

			if !rb.drain(ctx, queueName, msgs, outChan) {
				return
			}
		}
	}()
	return outChan
}

// drain forwards deliveries until msgs is closed, which happens when the
// channel goes away. It returns false when the consumer should stop.
func (rb *RabbitClient) drain(ctx context.Context, queueName string, msgs <-chan amqp.Delivery, out chan<- Message) bool {
	for {
		select {
		case <-ctx.Done():
			return false
		case <-rb.shutdownSignal:
			return false
		case d, ok := <-msgs:
			if !ok {
				return true
			}
			select {
			case out <- rb.decode(ctx, queueName, d):
			case <-ctx.Done():
				return false
			case <-rb.shutdownSignal:
				return false
			}
		}
	}
}

func (rb *RabbitClient) stopped(ctx context.Context, queueName string) bool {
	select {
	case <-rb.shutdownSignal:
		rb.logInfo(ctx, "Stopping consumer due to shutdown signal", map[string]interface{}{
			"queue": queueName,
		})
		return true
	case <-ctx.Done():
		rb.logInfo(ctx, "Stopping consumer due to context cancellation", map[string]interface{}{
			"queue": queueName,
		})
		return true
	default:
		return false
	}
}

func (rb *RabbitClient) decode(ctx context.Context, queueName string, d amqp.Delivery) *ConsumerMessage {
	start := time.Now()
	msgCtx := tracer.SetCarrierOnContext(ctx, stringHeaders(d.Headers))

	decoded, err := rb.codec.Decode(msgCtx, d.Body)
	if err != nil {
		rb.logWarn(msgCtx, "Failed to decode rabbit message", err, map[string]interface{}{
			"queue":        queueName,
			"delivery_tag": d.DeliveryTag,
		})
	}
	rb.observeOperation("consume", queueName, d.RoutingKey, time.Since(start), err, int64(len(d.Body)), map[string]interface{}{
		"delivery_tag": d.DeliveryTag,
		"redelivered":  d.Redelivered,
	})

	return &ConsumerMessage{
		ctx:      msgCtx,
		delivery: d,
		decoded:  decoded,
		err:      err,
	}
}

func stringHeaders(table amqp.Table) map[string]string {
	out := make(map[string]string, len(table))
	for k, v := range table {
		switch s := v.(type) {
		case string:
			out[k] = s
		case []byte:
			out[k] = string(s)
		}
	}
	return out
}
