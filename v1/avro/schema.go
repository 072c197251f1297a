package avro

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/linkedin/goavro/v2"
)

var (
	// ErrInvalidSchema is returned when a definition is not a valid Avro schema.
	ErrInvalidSchema = errors.New("avro: invalid schema")

	// ErrTrailingBytes is returned by Decode when the payload holds more than one datum.
	ErrTrailingBytes = errors.New("avro: trailing bytes after datum")
)

// Schema is a parsed Avro schema. It validates, encodes and decodes values
// in goavro's native Go representation and is safe for concurrent use.
type Schema struct {
	definition string
	codec      *goavro.Codec
	root       *node
}

// Parse parses an Avro schema definition. Every named type the definition
// references must be defined inside it.
func Parse(definition string) (*Schema, error) {
	codec, err := goavro.NewCodec(definition)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	var raw interface{}
	if err := json.Unmarshal([]byte(definition), &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	root, err := newTreeBuilder().build(raw, "")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}

	return &Schema{
		definition: definition,
		codec:      codec,
		root:       root,
	}, nil
}

// String returns the definition the schema was parsed from.
func (s *Schema) String() string {
	return s.definition
}

// Canonical returns the Parsing Canonical Form of the schema.
func (s *Schema) Canonical() string {
	return s.codec.CanonicalSchema()
}

// Fingerprint returns the CRC-64-AVRO (Rabin) fingerprint of the canonical form.
func (s *Schema) Fingerprint() uint64 {
	return s.codec.Rabin
}

// Equal reports whether both schemas have the same canonical form.
func (s *Schema) Equal(other *Schema) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Canonical() == other.Canonical()
}

// Validate checks message against the schema recursively and returns every
// violation found. Records are closed: fields the schema does not declare are
// violations. An empty result means the message is valid.
func (s *Schema) Validate(message interface{}) []string {
	v := &validator{}
	v.validate(s.root, message, "")
	return v.violations
}

// Encode appends the Avro binary encoding of message to dst.
func (s *Schema) Encode(dst []byte, message interface{}) ([]byte, error) {
	return s.codec.BinaryFromNative(dst, message)
}

// Decode reads exactly one datum from payload.
func (s *Schema) Decode(payload []byte) (interface{}, error) {
	native, rest, err := s.codec.NativeFromBinary(payload)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("%w: %d bytes left", ErrTrailingBytes, len(rest))
	}
	return native, nil
}
