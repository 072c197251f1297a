package messaging

import (
	"sync"

	"github.com/Aleph-Alpha/glue-messaging/v1/registry"
)

// SchemaCache maps schema ids to parsed schemas. Entries are never evicted
// and never replaced. It is safe for concurrent use.
type SchemaCache struct {
	mu      sync.RWMutex
	schemas map[registry.SchemaID]Schema
}

// NewSchemaCache creates an empty cache.
func NewSchemaCache() *SchemaCache {
	return &SchemaCache{schemas: make(map[registry.SchemaID]Schema)}
}

// Get returns the schema cached under id.
func (c *SchemaCache) Get(id registry.SchemaID) (Schema, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.schemas[id]
	return s, ok
}

// Store caches schema under id unless id is already present, and returns
// the schema that is cached afterwards.
func (c *SchemaCache) Store(id registry.SchemaID, schema Schema) Schema {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.schemas[id]; ok {
		return existing
	}
	c.schemas[id] = schema
	return schema
}

// Len returns the number of cached schemas.
func (c *SchemaCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.schemas)
}
