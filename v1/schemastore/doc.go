// Package schemastore locates Avro schema definitions by name in a local
// schemas directory or a MinIO/S3 bucket.
//
// A name maps to a path by replacing dots with slashes and appending
// ".avsc": com.example.address is read from com/example/address.avsc.
// Named types the definition references by name are loaded the same way and
// inlined at their first use, so the returned text can be parsed without any
// further lookups.
//
// Expanded definitions are cached per store for its lifetime.
//
//	store := schemastore.NewFileStore("./schemas")
//	definition, err := store.Find(ctx, "person")
//	if schemastore.IsNotFound(err) {
//	    // no such schema
//	}
package schemastore
