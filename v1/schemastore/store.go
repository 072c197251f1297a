package schemastore

import (
	"context"
	"errors"
	"strings"
	"sync"
)

// ErrSchemaNotFound is returned when no local definition exists for a name.
var ErrSchemaNotFound = errors.New("schemastore: schema not found")

// Store resolves a schema name to a definition text. Named types the
// definition references are inlined, so the result parses on its own.
type Store interface {
	Find(ctx context.Context, name string) (string, error)
}

// IsNotFound checks if the error reports a missing local schema.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSchemaNotFound)
}

// objectPath maps a full name to its relative location: a.b.c → a/b/c.avsc
func objectPath(fullName string) string {
	return strings.ReplaceAll(fullName, ".", "/") + ".avsc"
}

// definitionCache memoizes expanded definitions per name. Local files are
// treated as immutable for the lifetime of a store.
type definitionCache struct {
	mu          sync.RWMutex
	definitions map[string]string
}

func newDefinitionCache() *definitionCache {
	return &definitionCache{definitions: make(map[string]string)}
}

func (c *definitionCache) get(name string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	d, ok := c.definitions[name]
	return d, ok
}

func (c *definitionCache) put(name, definition string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.definitions[name] = definition
}
