// Package messaging encodes structured messages into self-describing byte
// envelopes and decodes them back. The payload is Avro binary; the schema is
// referenced by the 16-byte id a remote schema registry assigned to it.
//
// # Envelope
//
//	byte 0       magic byte 0x03
//	byte 1       compression flag: 0x00 disabled, 0x05 enabled
//	bytes 2..17  schema id
//	bytes 18..   payload
//
// Encode always writes flag 0x00. Decode rejects 0x05 with
// ErrUnsupportedOperation and any other flag with ErrMalformedEnvelope.
//
// # Schema references
//
// A SchemaRef selects the schema of an outgoing message:
//
//	// by id: fetched once, then served from the codec's SchemaCache
//	data, err := codec.Encode(ctx, msg, messaging.ByID("12345678-1234-5678-1234-567812345678"))
//
//	// by name: the local definition is looked up in the schema store and its
//	// id is asked from the registry on every call
//	data, err := codec.Encode(ctx, msg, messaging.ByName("person"))
//
// When a SchemaRef carries both, the id is used. With neither, Encode returns
// ErrAmbiguousSchemaReference.
//
// # Messages
//
// Messages use goavro's native representation: records are
// map[string]interface{}, arrays []interface{}, and non-null union values a
// single-entry map keyed by the branch type, e.g. {"string": "Jo"}.
//
// Encode validates the message before encoding and reports every violation
// at once:
//
//	data, err := codec.Encode(ctx, msg, ref)
//	if messaging.IsValidationError(err) {
//	    for _, v := range messaging.Violations(err) {
//	        log.Println(v)
//	    }
//	}
//
// Validation is skipped with WithoutValidation(), or for all calls with
// Config.DisableValidation.
//
// # Observability
//
// Every Encode, Decode, Register and Check call starts an OpenTelemetry span
// and, with an observer attached, reports an observability.OperationContext
// with Component "messaging":
//
//	codec := messaging.NewCodec(reg, store).WithObserver(metricsInstance).WithLogger(log)
//
// A Codec and its SchemaCache are safe for concurrent use.
package messaging
