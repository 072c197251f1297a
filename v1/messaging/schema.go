package messaging

import "github.com/Aleph-Alpha/glue-messaging/v1/avro"

// Schema is a parsed schema as used by the codec. *avro.Schema implements it.
type Schema interface {
	// Validate returns every violation of message against the schema.
	Validate(message interface{}) []string

	// Encode appends the binary encoding of message to dst.
	Encode(dst []byte, message interface{}) ([]byte, error)

	// Decode reads exactly one message from payload.
	Decode(payload []byte) (interface{}, error)

	// String returns the schema definition.
	String() string
}

// SchemaParser turns definition text into a Schema.
type SchemaParser interface {
	Parse(definition string) (Schema, error)
}

// SchemaParserFunc adapts a function to the SchemaParser interface.
type SchemaParserFunc func(definition string) (Schema, error)

// Parse calls f(definition).
func (f SchemaParserFunc) Parse(definition string) (Schema, error) {
	return f(definition)
}

// AvroParser parses Avro schema definitions. It is the codec default.
var AvroParser SchemaParser = SchemaParserFunc(func(definition string) (Schema, error) {
	s, err := avro.Parse(definition)
	if err != nil {
		return nil, err
	}
	return s, nil
})
