package avro

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addressSchema = `{
  "type": "record",
  "name": "address",
  "fields": [
    {"name": "street", "type": "string"},
    {"name": "city", "type": "string"}
  ]
}`

const personListSchema = `{
  "type": "array",
  "items": {
    "type": "record",
    "name": "person",
    "fields": [
      {"name": "full_name", "type": "string"},
      {"name": "address", "type": {
        "type": "record",
        "name": "address",
        "fields": [
          {"name": "street", "type": "string"},
          {"name": "city", "type": "string"}
        ]
      }},
      {"name": "nickname", "type": ["null", "string"], "default": null}
    ]
  }
}`

func address() map[string]interface{} {
	return map[string]interface{}{"street": "55 University Ave", "city": "Toronto"}
}

func TestParseRejectsInvalidDefinitions(t *testing.T) {
	for _, definition := range []string{`{`, `{"type":"record","name":"x","fields":[{"name":"a","type":"nope"}]}`} {
		_, err := Parse(definition)
		assert.True(t, errors.Is(err, ErrInvalidSchema), "definition %s", definition)
	}
}

func TestRoundTripRecord(t *testing.T) {
	s, err := Parse(addressSchema)
	require.NoError(t, err)

	assert.Empty(t, s.Validate(address()))

	payload, err := s.Encode(nil, address())
	require.NoError(t, err)

	decoded, err := s.Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, address(), decoded)
}

func TestRoundTripArrayKeepsOrder(t *testing.T) {
	s, err := Parse(personListSchema)
	require.NoError(t, err)

	people := []interface{}{
		map[string]interface{}{"full_name": "John Doe", "address": address(), "nickname": nil},
		map[string]interface{}{"full_name": "Jane Doe", "address": address(), "nickname": map[string]interface{}{"string": "JD"}},
	}
	require.Empty(t, s.Validate(people))

	payload, err := s.Encode(nil, people)
	require.NoError(t, err)

	decoded, err := s.Decode(payload)
	require.NoError(t, err)
	assert.Equal(t, people, decoded)
}

func TestValidateMissingField(t *testing.T) {
	s, err := Parse(addressSchema)
	require.NoError(t, err)

	violations := s.Validate(map[string]interface{}{"city": "Toronto"})
	assert.Equal(t, []string{"street: missing required field"}, violations)
}

func TestValidateRejectsExtraFields(t *testing.T) {
	s, err := Parse(addressSchema)
	require.NoError(t, err)

	msg := address()
	msg["zip"] = "M5S"
	violations := s.Validate(msg)
	assert.Equal(t, []string{"zip: field not declared in record address"}, violations)
}

func TestValidateCollectsAllViolationsRecursively(t *testing.T) {
	s, err := Parse(personListSchema)
	require.NoError(t, err)

	people := []interface{}{
		map[string]interface{}{"full_name": 42, "address": map[string]interface{}{"city": "Toronto"}},
		"not a person",
	}
	violations := s.Validate(people)
	assert.Equal(t, []string{
		"[0].full_name: expected string, got int",
		"[0].address.street: missing required field",
		"[1]: expected record person, got string",
	}, violations)
}

func TestValidateUnion(t *testing.T) {
	s, err := Parse(`{"type":"record","name":"r","fields":[{"name":"v","type":["null","string","long"]}]}`)
	require.NoError(t, err)

	assert.Empty(t, s.Validate(map[string]interface{}{"v": nil}))
	assert.Empty(t, s.Validate(map[string]interface{}{"v": map[string]interface{}{"long": int64(7)}}))
	assert.Len(t, s.Validate(map[string]interface{}{"v": map[string]interface{}{"boolean": true}}), 1)
	assert.Len(t, s.Validate(map[string]interface{}{"v": map[string]interface{}{"string": 1}}), 1)
	assert.Len(t, s.Validate(map[string]interface{}{"v": "bare"}), 1)
}

func TestValidateUnionWithLogicalMembers(t *testing.T) {
	s, err := Parse(`{"type":"record","name":"r","fields":[
	  {"name":"at","type":["null",{"type":"long","logicalType":"timestamp-millis"}]},
	  {"name":"day","type":["null",{"type":"int","logicalType":"date"}]},
	  {"name":"amount","type":["null",{"type":"bytes","logicalType":"decimal","precision":9,"scale":2}]},
	  {"name":"price","type":["null",{"type":"fixed","name":"money","size":8,"logicalType":"decimal","precision":12,"scale":2}]},
	  {"name":"id","type":["null",{"type":"string","logicalType":"uuid"}]}
	]}`)
	require.NoError(t, err)

	at := time.UnixMilli(1700000000000).UTC()
	msg := map[string]interface{}{
		"at":     map[string]interface{}{"long.timestamp-millis": at},
		"day":    map[string]interface{}{"int.date": at},
		"amount": map[string]interface{}{"bytes.decimal": big.NewRat(1234, 100)},
		"price":  map[string]interface{}{"money": big.NewRat(999, 100)},
		"id":     map[string]interface{}{"string": "0b7e1c5c-8f64-4a4f-9f43-2b8c1f6ad0e1"},
	}
	assert.Empty(t, s.Validate(msg))

	payload, err := s.Encode(nil, msg)
	require.NoError(t, err)
	decoded, err := s.Decode(payload)
	require.NoError(t, err)
	got := decoded.(map[string]interface{})
	assert.True(t, at.Equal(got["at"].(map[string]interface{})["long.timestamp-millis"].(time.Time)))

	violations := s.Validate(map[string]interface{}{
		"at":     map[string]interface{}{"long": at},
		"day":    nil,
		"amount": nil,
		"price":  nil,
		"id":     nil,
	})
	assert.Len(t, violations, 1)
}

func TestValidatePrimitivesAndNamedTypes(t *testing.T) {
	s, err := Parse(`{
	  "type": "record", "name": "event", "namespace": "com.example",
	  "fields": [
	    {"name": "count", "type": "int"},
	    {"name": "kind", "type": {"type": "enum", "name": "kind", "symbols": ["A", "B"]}},
	    {"name": "hash", "type": {"type": "fixed", "name": "md5", "size": 16}},
	    {"name": "tags", "type": {"type": "map", "values": "string"}},
	    {"name": "next", "type": ["null", "com.example.event"], "default": null}
	  ]
	}`)
	require.NoError(t, err)

	valid := map[string]interface{}{
		"count": 3,
		"kind":  "A",
		"hash":  make([]byte, 16),
		"tags":  map[string]interface{}{"env": "prod"},
	}
	assert.Empty(t, s.Validate(valid))

	invalid := map[string]interface{}{
		"count": int64(1) << 40,
		"kind":  "C",
		"hash":  make([]byte, 4),
		"tags":  map[string]interface{}{"env": 1},
		"next":  map[string]interface{}{"com.example.event": map[string]interface{}{}},
	}
	assert.Len(t, s.Validate(invalid), 8)
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	s, err := Parse(addressSchema)
	require.NoError(t, err)

	payload, err := s.Encode(nil, address())
	require.NoError(t, err)

	_, err = s.Decode(append(payload, 0x00))
	assert.ErrorIs(t, err, ErrTrailingBytes)
}

func TestDecodeRejectsTruncatedPayload(t *testing.T) {
	s, err := Parse(addressSchema)
	require.NoError(t, err)

	payload, err := s.Encode(nil, address())
	require.NoError(t, err)

	_, err = s.Decode(payload[:len(payload)-3])
	assert.Error(t, err)
}

func TestEqualUsesCanonicalForm(t *testing.T) {
	a, err := Parse(addressSchema)
	require.NoError(t, err)
	b, err := Parse(`{"name":"address","type":"record","fields":[{"type":"string","name":"street"},{"name":"city","type":"string"}],"doc":"postal"}`)
	require.NoError(t, err)
	c, err := Parse(`{"type":"record","name":"address","fields":[{"name":"city","type":"string"}]}`)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.False(t, a.Equal(c))
	assert.Equal(t, addressSchema, a.String())
}
