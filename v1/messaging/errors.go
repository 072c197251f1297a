package messaging

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Aleph-Alpha/glue-messaging/v1/registry"
	"github.com/Aleph-Alpha/glue-messaging/v1/schemastore"
)

// Codec errors
var (
	// ErrAmbiguousSchemaReference is returned when a SchemaRef names neither a
	// usable schema id nor a schema name.
	ErrAmbiguousSchemaReference = errors.New("messaging: ambiguous schema reference")

	// ErrSchemaNotFound is returned when no usable local definition exists for a name.
	ErrSchemaNotFound = schemastore.ErrSchemaNotFound

	// ErrRegistryLookup is matched by every *RegistryLookupError.
	ErrRegistryLookup = errors.New("messaging: registry lookup failed")

	// ErrMessageValidation is matched by every *ValidationError.
	ErrMessageValidation = errors.New("messaging: message does not match schema")

	// ErrMalformedEnvelope is returned by Decode for bytes that are not a
	// well-formed envelope or whose payload does not decode.
	ErrMalformedEnvelope = errors.New("messaging: malformed envelope")

	// ErrUnsupportedOperation is returned for compressed envelopes and by
	// registries without register/check support.
	ErrUnsupportedOperation = registry.ErrUnsupportedOperation
)

// ValidationError lists every violation found in a message.
type ValidationError struct {
	SchemaID   registry.SchemaID
	Violations []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("message does not match schema %s: %s", e.SchemaID, strings.Join(e.Violations, "; "))
}

// Is makes errors.Is(err, ErrMessageValidation) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrMessageValidation
}

// RegistryLookupError reports a failed registry call or an unusable
// definition returned by the registry.
type RegistryLookupError struct {
	// Op is the registry operation: fetch, fetch_by_definition, register or check.
	Op string

	// Reference is the schema id or name looked up.
	Reference string

	Err error
}

func (e *RegistryLookupError) Error() string {
	return fmt.Sprintf("registry %s %s failed: %v", e.Op, e.Reference, e.Err)
}

func (e *RegistryLookupError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrRegistryLookup) true.
func (e *RegistryLookupError) Is(target error) bool {
	return target == ErrRegistryLookup
}

// IsAmbiguousSchemaReference checks if the error reports an unusable SchemaRef.
func IsAmbiguousSchemaReference(err error) bool {
	return errors.Is(err, ErrAmbiguousSchemaReference)
}

// IsSchemaNotFound checks if the error reports a missing local definition.
func IsSchemaNotFound(err error) bool {
	return errors.Is(err, ErrSchemaNotFound)
}

// IsRegistryLookupError checks if the error reports a failed registry lookup.
func IsRegistryLookupError(err error) bool {
	return errors.Is(err, ErrRegistryLookup)
}

// IsValidationError checks if the error reports a message that does not match its schema.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrMessageValidation)
}

// IsMalformedEnvelope checks if the error reports undecodable bytes.
func IsMalformedEnvelope(err error) bool {
	return errors.Is(err, ErrMalformedEnvelope)
}

// IsUnsupportedOperation checks if the error reports an unsupported capability.
func IsUnsupportedOperation(err error) bool {
	return errors.Is(err, ErrUnsupportedOperation)
}

// Violations returns the violations carried by err, or nil if err is not a
// validation error.
func Violations(err error) []string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Violations
	}
	return nil
}
