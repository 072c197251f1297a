// Package registry defines the contract between the message codec and a remote
// schema registry, together with the SchemaID type used on the wire.
//
// A Registry maps schema ids to definition texts and (name, definition) pairs
// back to ids. Registering and checking schemas are optional capabilities:
// implementations that cannot perform them return ErrUnsupportedOperation.
//
// Implementations:
//   - glue.Registry / glue.StaticRegistry (package registry/glue): AWS Glue Schema Registry
//   - InMemory: process-local registry for tests and local development
//   - MockRegistry: gomock mock, generated from registry.go
//
// Schema ids:
//
//	id, err := registry.ParseSchemaID("12345678-1234-5678-1234-567812345678")
//	wire := id.Bytes()                 // 16 bytes
//	back, _ := registry.SchemaIDFromBytes(wire)
//	fmt.Println(back)                  // 12345678-1234-5678-1234-567812345678
//
// ParseSchemaID removes every hyphen and accepts the result only if it is
// exactly 32 hex digits.
package registry
