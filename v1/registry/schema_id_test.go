package registry

import (
	"bytes"
	"errors"
	"testing"
)

func TestParseSchemaIDRoundTrip(t *testing.T) {
	const text = "12345678-1234-5678-1234-567812345678"

	id, err := ParseSchemaID(text)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.String() != text {
		t.Fatalf("expected %s, got %s", text, id.String())
	}

	want := []byte{0x12, 0x34, 0x56, 0x78, 0x12, 0x34, 0x56, 0x78, 0x12, 0x34, 0x56, 0x78, 0x12, 0x34, 0x56, 0x78}
	if !bytes.Equal(id.Bytes(), want) {
		t.Fatalf("unexpected wire bytes %x", id.Bytes())
	}

	back, err := SchemaIDFromBytes(id.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back != id {
		t.Fatalf("expected %s after byte round trip, got %s", id, back)
	}
}

func TestParseSchemaIDNormalizes(t *testing.T) {
	id, err := ParseSchemaID("ABCDEF0012345678ABCDEF0012345678")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := id.String(); got != "abcdef00-1234-5678-abcd-ef0012345678" {
		t.Fatalf("unexpected textual form %s", got)
	}
}

func TestParseSchemaIDRejectsInvalid(t *testing.T) {
	cases := []string{
		"",
		"12345678-1234-5678-1234-56781234567",
		"12345678-1234-5678-1234-5678123456789",
		"1234567g-1234-5678-1234-567812345678",
		"urn:uuid:12345678-1234-5678-1234-567812345678",
	}
	for _, c := range cases {
		if _, err := ParseSchemaID(c); !errors.Is(err, ErrInvalidSchemaID) {
			t.Errorf("ParseSchemaID(%q): expected ErrInvalidSchemaID, got %v", c, err)
		}
	}
}

func TestSchemaIDFromBytesRejectsWrongLength(t *testing.T) {
	if _, err := SchemaIDFromBytes(make([]byte, 15)); !errors.Is(err, ErrInvalidSchemaID) {
		t.Fatalf("expected ErrInvalidSchemaID, got %v", err)
	}
}

func TestBytesReturnsCopy(t *testing.T) {
	id := NewSchemaID()
	b := id.Bytes()
	b[0] ^= 0xff
	if bytes.Equal(b, id.Bytes()) {
		t.Fatal("mutating Bytes() result must not change the id")
	}
}
