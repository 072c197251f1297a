package redis

import (
	"context"

	"github.com/Aleph-Alpha/glue-messaging/v1/registry"
)

// CachingRegistry is a registry.Registry that shares Fetch results between
// processes through Redis. Only the id to definition mapping is cached; the
// other operations go straight to the wrapped registry.
//
// Redis failures never fail a Fetch: they are logged and the wrapped
// registry answers instead.
type CachingRegistry struct {
	inner  registry.Registry
	client *RedisClient
}

// NewCachingRegistry wraps inner with client.
//
// Example:
//
//	reg := redis.NewCachingRegistry(glue.NewRegistry(cfg, api), redisClient)
//	codec := messaging.NewCodec(reg, store)
func NewCachingRegistry(inner registry.Registry, client *RedisClient) *CachingRegistry {
	return &CachingRegistry{inner: inner, client: client}
}

// Fetch returns the cached definition for id, falling back to the wrapped
// registry and caching its answer.
func (c *CachingRegistry) Fetch(ctx context.Context, id registry.SchemaID) (string, error) {
	def, err := c.client.GetDefinition(ctx, id)
	if err == nil {
		return def, nil
	}
	cacheable := IsNilError(err)
	if !cacheable {
		c.client.logWarn("Redis schema cache unavailable, fetching from registry", err, map[string]interface{}{
			"schema_id": id.String(),
		})
	}

	def, err = c.inner.Fetch(ctx, id)
	if err != nil {
		return "", err
	}

	if cacheable {
		if err := c.client.SetDefinition(ctx, id, def); err != nil {
			c.client.logWarn("Failed to cache schema definition", err, map[string]interface{}{
				"schema_id": id.String(),
			})
		}
	}
	return def, nil
}

// FetchByDefinition delegates to the wrapped registry.
func (c *CachingRegistry) FetchByDefinition(ctx context.Context, name, definition string) (registry.SchemaID, error) {
	return c.inner.FetchByDefinition(ctx, name, definition)
}

// Register delegates to the wrapped registry.
func (c *CachingRegistry) Register(ctx context.Context, name, definition string) (registry.SchemaID, error) {
	return c.inner.Register(ctx, name, definition)
}

// Check delegates to the wrapped registry.
func (c *CachingRegistry) Check(ctx context.Context, name, definition string) (*registry.Metadata, error) {
	return c.inner.Check(ctx, name, definition)
}
