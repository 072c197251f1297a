package kafka

import "errors"

var (
	// ErrClosed is returned after GracefulShutdown.
	ErrClosed = errors.New("kafka: client is closed")

	// ErrNotProducer is returned by Publish on a consumer client.
	ErrNotProducer = errors.New("kafka: client is not a producer")

	// ErrNotConsumer is returned by Consume on a producer client.
	ErrNotConsumer = errors.New("kafka: client is not a consumer")
)

// IsClosedError checks if the error is a "client is closed" error.
func IsClosedError(err error) bool {
	return errors.Is(err, ErrClosed)
}
