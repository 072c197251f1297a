package messaging

import (
	"context"
	"fmt"

	"github.com/Aleph-Alpha/glue-messaging/v1/registry"
)

// resolve applies the reference rules: an id goes through the cache, a name
// through the local store and the registry.
func (c *Codec) resolve(ctx context.Context, ref SchemaRef) (registry.SchemaID, Schema, error) {
	switch {
	case ref.ID != "":
		id, err := registry.ParseSchemaID(ref.ID)
		if err != nil {
			return registry.NilSchemaID, nil, fmt.Errorf("%w: %w", ErrAmbiguousSchemaReference, err)
		}
		schema, err := c.resolveByID(ctx, id)
		if err != nil {
			return registry.NilSchemaID, nil, err
		}
		return id, schema, nil
	case ref.Name != "":
		return c.resolveByDefinition(ctx, ref.Name)
	default:
		return registry.NilSchemaID, nil, fmt.Errorf("%w: neither schema id nor schema name given", ErrAmbiguousSchemaReference)
	}
}

func (c *Codec) resolveByID(ctx context.Context, id registry.SchemaID) (Schema, error) {
	if schema, ok := c.cache.Get(id); ok {
		return schema, nil
	}

	definition, err := c.registry.Fetch(ctx, id)
	if err != nil {
		return nil, &RegistryLookupError{Op: "fetch", Reference: id.String(), Err: err}
	}

	schema, err := c.parser.Parse(definition)
	if err != nil {
		return nil, &RegistryLookupError{Op: "fetch", Reference: id.String(), Err: err}
	}

	c.logDebug(ctx, "Schema fetched from registry", map[string]interface{}{
		"schema_id": id.String(),
	})
	return c.cache.Store(id, schema), nil
}

// resolveByDefinition is never cached: the registry is asked for the id of
// the local definition on every call.
func (c *Codec) resolveByDefinition(ctx context.Context, name string) (registry.SchemaID, Schema, error) {
	definition, err := c.findLocal(ctx, name)
	if err != nil {
		return registry.NilSchemaID, nil, err
	}

	schema, err := c.parser.Parse(definition)
	if err != nil {
		return registry.NilSchemaID, nil, fmt.Errorf("%w: local definition of %q is unusable: %w", ErrSchemaNotFound, name, err)
	}

	id, err := c.registry.FetchByDefinition(ctx, name, schema.String())
	if err != nil {
		return registry.NilSchemaID, nil, &RegistryLookupError{Op: "fetch_by_definition", Reference: name, Err: err}
	}
	if id.IsZero() {
		return registry.NilSchemaID, nil, &RegistryLookupError{Op: "fetch_by_definition", Reference: name, Err: registry.ErrInvalidSchemaID}
	}
	return id, schema, nil
}

func (c *Codec) findLocal(ctx context.Context, name string) (string, error) {
	if c.store == nil {
		return "", fmt.Errorf("%w: %q (no local schema store configured)", ErrSchemaNotFound, name)
	}
	definition, err := c.store.Find(ctx, name)
	if err != nil {
		if IsSchemaNotFound(err) {
			return "", err
		}
		return "", fmt.Errorf("failed to load local schema %q: %w", name, err)
	}
	return definition, nil
}
