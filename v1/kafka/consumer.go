package kafka

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/errgroup"

	"github.com/Aleph-Alpha/glue-messaging/v1/messaging"
	"github.com/Aleph-Alpha/glue-messaging/v1/registry"
	"github.com/Aleph-Alpha/glue-messaging/v1/tracer"
)

// Message is a consumed Kafka message with its decoded content.
type Message struct {
	ctx     context.Context
	raw     kafka.Message
	decoded *messaging.DecodedMessage
	err     error
	commit  func(context.Context, kafka.Message) error
}

// Context carries the producer's trace, if the headers held one.
func (m *Message) Context() context.Context { return m.ctx }

// Key returns the message key.
func (m *Message) Key() string { return string(m.raw.Key) }

// Body returns the raw envelope bytes.
func (m *Message) Body() []byte { return m.raw.Value }

// Header returns the message headers.
func (m *Message) Header() map[string]string {
	out := make(map[string]string, len(m.raw.Headers))
	for _, h := range m.raw.Headers {
		out[h.Key] = string(h.Value)
	}
	return out
}

// Partition returns the partition the message was read from.
func (m *Message) Partition() int { return m.raw.Partition }

// Offset returns the message offset.
func (m *Message) Offset() int64 { return m.raw.Offset }

// Value returns the decoded message, or nil if decoding failed.
func (m *Message) Value() interface{} {
	if m.decoded == nil {
		return nil
	}
	return m.decoded.Message
}

// SchemaID returns the id of the schema the message was decoded with.
func (m *Message) SchemaID() registry.SchemaID {
	if m.decoded == nil {
		return registry.NilSchemaID
	}
	return m.decoded.SchemaID
}

// Err returns the decode error. Messages that fail to decode are still
// delivered so the caller can commit or dead-letter them.
func (m *Message) Err() error { return m.err }

// CommitMsg commits the message offset. It still works after the consumer
// context is cancelled, as long as the client has not been shut down.
func (m *Message) CommitMsg() error {
	return m.commit(context.WithoutCancel(m.ctx), m.raw)
}

// Consume starts fetching and decoding messages with Config.Workers
// goroutines. The returned channel is closed when ctx is cancelled or the
// client shuts down. wg tracks the consumer goroutines.
//
// Example:
//
//	wg := &sync.WaitGroup{}
//	for msg := range client.Consume(ctx, wg) {
//	    if msg.Err() != nil {
//	        // undecodable, skip it
//	    }
//	    handle(msg.Value())
//	    _ = msg.CommitMsg()
//	}
//	wg.Wait()
func (k *KafkaClient) Consume(ctx context.Context, wg *sync.WaitGroup) <-chan *Message {
	return k.ConsumeParallel(ctx, wg, k.cfg.Workers)
}

// ConsumeParallel is Consume with an explicit number of decode workers.
// With more than one worker, delivery order across messages is not preserved.
func (k *KafkaClient) ConsumeParallel(ctx context.Context, wg *sync.WaitGroup, workers int) <-chan *Message {
	if workers <= 0 {
		workers = 1
	}
	out := make(chan *Message, workers)
	raw := make(chan kafka.Message, workers)

	ctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(raw)
		return k.fetchLoop(gctx, raw)
	})
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for msg := range raw {
				select {
				case out <- k.decode(gctx, msg):
				case <-gctx.Done():
					return nil
				}
			}
			return nil
		})
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(out)
		defer cancel()
		if err := g.Wait(); err != nil {
			k.logError(ctx, "Kafka consumer stopped", err, map[string]interface{}{
				"topic": k.cfg.Topic,
			})
		}
	}()

	go func() {
		select {
		case <-k.shutdownSignal:
			cancel()
		case <-ctx.Done():
		}
	}()

	return out
}

func (k *KafkaClient) fetchLoop(ctx context.Context, raw chan<- kafka.Message) error {
	k.mu.RLock()
	reader := k.reader
	k.mu.RUnlock()
	if reader == nil {
		return ErrNotConsumer
	}

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) || k.isClosed() {
				return nil
			}
			return err
		}
		select {
		case raw <- msg:
		case <-ctx.Done():
			return nil
		}
	}
}

func (k *KafkaClient) decode(ctx context.Context, raw kafka.Message) *Message {
	start := time.Now()

	headers := make(map[string]string, len(raw.Headers))
	for _, h := range raw.Headers {
		headers[h.Key] = string(h.Value)
	}
	msgCtx := tracer.SetCarrierOnContext(ctx, headers)

	decoded, err := k.codec.Decode(msgCtx, raw.Value)
	if err != nil {
		k.logWarn(msgCtx, "Failed to decode kafka message", err, map[string]interface{}{
			"topic":     raw.Topic,
			"partition": raw.Partition,
			"offset":    raw.Offset,
		})
	}
	k.observeOperation("consume", k.cfg.Topic, string(raw.Key), time.Since(start), err, int64(len(raw.Value)), map[string]interface{}{
		"partition": raw.Partition,
		"offset":    raw.Offset,
	})

	return &Message{
		ctx:     msgCtx,
		raw:     raw,
		decoded: decoded,
		err:     err,
		commit:  k.commit,
	}
}

func (k *KafkaClient) isClosed() bool {
	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.closed
}

func (k *KafkaClient) commit(ctx context.Context, msg kafka.Message) error {
	k.mu.RLock()
	defer k.mu.RUnlock()
	if k.closed {
		return ErrClosed
	}
	return k.reader.CommitMessages(ctx, msg)
}
