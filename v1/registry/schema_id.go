package registry

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SchemaIDSize is the number of bytes a schema id occupies on the wire.
const SchemaIDSize = 16

// SchemaID identifies one registered schema version.
//
// Its textual form is 32 lowercase hex digits grouped 8-4-4-4-12 by hyphens;
// on the wire it is the same value packed into 16 bytes.
type SchemaID uuid.UUID

// NilSchemaID is the zero id. Registries never assign it.
var NilSchemaID SchemaID

// ParseSchemaID converts the textual form into a SchemaID. All hyphens are
// removed first; what remains must be exactly 32 hex digits.
func ParseSchemaID(s string) (SchemaID, error) {
	stripped := strings.ReplaceAll(s, "-", "")
	if len(stripped) != 2*SchemaIDSize {
		return NilSchemaID, fmt.Errorf("%w: %q has %d hex digits, want %d", ErrInvalidSchemaID, s, len(stripped), 2*SchemaIDSize)
	}

	b, err := hex.DecodeString(stripped)
	if err != nil {
		return NilSchemaID, fmt.Errorf("%w: %q: %v", ErrInvalidSchemaID, s, err)
	}

	return SchemaIDFromBytes(b)
}

// MustParseSchemaID is ParseSchemaID for constants; it panics on invalid input.
func MustParseSchemaID(s string) SchemaID {
	id, err := ParseSchemaID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// SchemaIDFromBytes converts the 16-byte wire form into a SchemaID.
func SchemaIDFromBytes(b []byte) (SchemaID, error) {
	if len(b) != SchemaIDSize {
		return NilSchemaID, fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSchemaID, len(b), SchemaIDSize)
	}
	var id SchemaID
	copy(id[:], b)
	return id, nil
}

// NewSchemaID returns a random id.
func NewSchemaID() SchemaID {
	return SchemaID(uuid.New())
}

// String returns the hyphenated lowercase textual form.
func (id SchemaID) String() string {
	return uuid.UUID(id).String()
}

// Bytes returns the 16-byte wire form.
func (id SchemaID) Bytes() []byte {
	b := make([]byte, SchemaIDSize)
	copy(b, id[:])
	return b
}

// IsZero reports whether id is NilSchemaID.
func (id SchemaID) IsZero() bool {
	return id == NilSchemaID
}
