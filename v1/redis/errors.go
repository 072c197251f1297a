package redis

import (
	"errors"

	"github.com/redis/go-redis/v9"
)

// Common Redis errors
var (
	// Nil is returned when a key does not exist.
	Nil = errors.New("redis: nil")

	// ErrClosed is returned when the client is closed.
	ErrClosed = errors.New("redis: client is closed")
)

// translateError maps go-redis errors to the package sentinels.
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.Nil):
		return Nil
	case errors.Is(err, redis.ErrClosed):
		return ErrClosed
	default:
		return err
	}
}

// IsNilError checks if the error is a "key does not exist" error.
func IsNilError(err error) bool {
	return errors.Is(err, Nil)
}

// IsClosedError checks if the error is a "client is closed" error.
func IsClosedError(err error) bool {
	return errors.Is(err, ErrClosed)
}
