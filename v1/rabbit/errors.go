package rabbit

import (
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Common RabbitMQ errors
var (
	ErrConnectionFailed = errors.New("rabbit: connection failed")
	ErrConnectionClosed = errors.New("rabbit: connection closed")
	ErrChannelClosed    = errors.New("rabbit: channel closed")
	ErrAccessDenied     = errors.New("rabbit: access denied")
	ErrNotFound         = errors.New("rabbit: exchange or queue not found")
	ErrPrecondition     = errors.New("rabbit: precondition failed")
	ErrMessageTooLarge  = errors.New("rabbit: message too large")
	ErrPublishFailed    = errors.New("rabbit: publish failed")
	ErrMessageNacked    = errors.New("rabbit: message nacked by broker")
	ErrShutdown         = errors.New("rabbit: client is shut down")
)

// TranslateError maps AMQP errors to the package sentinels, keeping the
// original error text. Other errors are returned unchanged.
func TranslateError(err error) error {
	if err == nil {
		return nil
	}

	var amqpErr *amqp.Error
	if !errors.As(err, &amqpErr) {
		return err
	}

	var sentinel error
	switch amqpErr.Code {
	case amqp.ConnectionForced:
		sentinel = ErrConnectionClosed
	case amqp.AccessRefused:
		sentinel = ErrAccessDenied
	case amqp.NotFound, amqp.InvalidPath:
		sentinel = ErrNotFound
	case amqp.PreconditionFailed, amqp.ResourceLocked:
		sentinel = ErrPrecondition
	case amqp.ContentTooLarge, amqp.FrameError:
		sentinel = ErrMessageTooLarge
	case amqp.NoRoute, amqp.NoConsumers:
		sentinel = ErrPublishFailed
	case amqp.ChannelError:
		sentinel = ErrChannelClosed
	default:
		return err
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}

// IsConnectionError checks if the error reports a lost or failed connection.
func IsConnectionError(err error) bool {
	return errors.Is(err, ErrConnectionFailed) || errors.Is(err, ErrConnectionClosed) || errors.Is(err, ErrChannelClosed)
}

// IsShutdownError checks if the error reports use after GracefulShutdown.
func IsShutdownError(err error) bool {
	return errors.Is(err, ErrShutdown)
}
