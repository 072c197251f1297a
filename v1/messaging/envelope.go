package messaging

import (
	"fmt"

	"github.com/Aleph-Alpha/glue-messaging/v1/registry"
)

// Envelope layout: [MagicByte][compression flag][16-byte schema id][payload]
const (
	// MagicByte is the first byte of every envelope.
	MagicByte byte = 0x03

	// CompressionDisabled flags an uncompressed payload.
	CompressionDisabled byte = 0x00

	// CompressionEnabled flags a compressed payload. Decoding it is not supported.
	CompressionEnabled byte = 0x05

	// HeaderSize is the number of bytes before the payload.
	HeaderSize = 2 + registry.SchemaIDSize
)

// appendEnvelope frames payload behind the envelope header.
func appendEnvelope(flag byte, id registry.SchemaID, payload []byte) []byte {
	out := make([]byte, 0, HeaderSize+len(payload))
	out = append(out, MagicByte, flag)
	out = append(out, id.Bytes()...)
	return append(out, payload...)
}

// splitEnvelope checks the fixed header and returns its parts. The flag is
// returned unchecked.
func splitEnvelope(data []byte) (byte, registry.SchemaID, []byte, error) {
	if len(data) < HeaderSize {
		return 0, registry.NilSchemaID, nil, fmt.Errorf("%w: %d bytes, need at least %d", ErrMalformedEnvelope, len(data), HeaderSize)
	}
	if data[0] != MagicByte {
		return 0, registry.NilSchemaID, nil, fmt.Errorf("%w: magic byte 0x%02x, want 0x%02x", ErrMalformedEnvelope, data[0], MagicByte)
	}

	id, err := registry.SchemaIDFromBytes(data[2:HeaderSize])
	if err != nil {
		return 0, registry.NilSchemaID, nil, fmt.Errorf("%w: %w", ErrMalformedEnvelope, err)
	}
	return data[1], id, data[HeaderSize:], nil
}
