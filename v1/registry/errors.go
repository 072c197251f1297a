package registry

import "errors"

var (
	// ErrUnsupportedOperation is returned by a registry that does not implement
	// an optional capability such as Register or Check.
	ErrUnsupportedOperation = errors.New("registry: unsupported operation")

	// ErrSchemaVersionNotFound is returned when an id or definition is unknown to the registry.
	ErrSchemaVersionNotFound = errors.New("registry: schema version not found")

	// ErrInvalidSchemaID is returned when a schema id is not 32 hex digits / 16 bytes.
	ErrInvalidSchemaID = errors.New("registry: invalid schema id")
)

// IsUnsupportedOperation checks if the error reports a missing optional capability.
func IsUnsupportedOperation(err error) bool {
	return errors.Is(err, ErrUnsupportedOperation)
}

// IsNotFound checks if the error reports an unknown schema version.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSchemaVersionNotFound)
}
