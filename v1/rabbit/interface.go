package rabbit

import (
	"context"
	"sync"

	"github.com/Aleph-Alpha/glue-messaging/v1/messaging"
	"github.com/Aleph-Alpha/glue-messaging/v1/registry"
)

// Client provides a high-level interface for publishing and consuming
// envelope-encoded messages over RabbitMQ.
// This interface is implemented by the concrete *RabbitClient type.
type Client interface {
	// Publish encodes message with the schema selected by ref and sends it
	// to the configured exchange and routing key.
	Publish(ctx context.Context, message interface{}, ref messaging.SchemaRef, headers map[string]interface{}) error

	// Consume starts consuming and decoding messages from the main queue.
	Consume(ctx context.Context, wg *sync.WaitGroup) <-chan Message

	// ConsumeDLQ starts consuming messages from the dead letter queue.
	ConsumeDLQ(ctx context.Context, wg *sync.WaitGroup) <-chan Message

	// RetryConnection monitors the connection and reconnects on failure.
	// This method should be run in a goroutine.
	RetryConnection()

	// GracefulShutdown closes all RabbitMQ connections and channels cleanly.
	GracefulShutdown()
}

// Message represents a consumed message from RabbitMQ.
type Message interface {
	// AckMsg acknowledges the message, removing it from the queue.
	AckMsg() error

	// NackMsg negatively acknowledges the message.
	// If requeue is false the broker dead-letters it when a DLQ is configured.
	NackMsg(requeue bool) error

	// Body returns the raw envelope bytes.
	Body() []byte

	// Header returns the message headers.
	Header() map[string]interface{}

	// Context carries the producer's trace, if the headers held one.
	Context() context.Context

	// Value returns the decoded message, or nil if decoding failed.
	Value() interface{}

	// SchemaID returns the id of the schema the message was decoded with.
	SchemaID() registry.SchemaID

	// Err returns the decode error, if any.
	Err() error
}
