// Package avro is the schema engine behind the message codec. It wraps
// github.com/linkedin/goavro/v2 for parsing and binary serialization and adds
// a closed, recursive validator that reports every violation of a message.
//
//	schema, err := avro.Parse(definition)
//	if err != nil {
//	    return err
//	}
//	if violations := schema.Validate(msg); len(violations) > 0 {
//	    return fmt.Errorf("invalid message: %v", violations)
//	}
//	payload, err := schema.Encode(nil, msg)
//	value, err := schema.Decode(payload)
//
// Messages use goavro's native representation: records are
// map[string]interface{}, arrays are slices, maps are map[string]interface{},
// and union values are nil or a single-key map naming the member type, e.g.
// map[string]interface{}{"string": "x"}. Decoded ints are int32, longs int64.
package avro
