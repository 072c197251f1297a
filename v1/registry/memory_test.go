package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const addressDefinition = `{"type":"record","name":"address","fields":[{"name":"street","type":"string"},{"name":"city","type":"string"}]}`

func TestInMemoryRegisterAndFetch(t *testing.T) {
	ctx := context.Background()
	reg := NewInMemory("test-registry")

	id, err := reg.Register(ctx, "address", addressDefinition)
	require.NoError(t, err)
	assert.False(t, id.IsZero())

	definition, err := reg.Fetch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, addressDefinition, definition)

	byDefinition, err := reg.FetchByDefinition(ctx, "address", addressDefinition)
	require.NoError(t, err)
	assert.Equal(t, id, byDefinition)

	again, err := reg.Register(ctx, "address", addressDefinition)
	require.NoError(t, err)
	assert.Equal(t, id, again, "identical definitions map to the same version")
}

func TestInMemoryUnknown(t *testing.T) {
	ctx := context.Background()
	reg := NewInMemory("test-registry")

	_, err := reg.Fetch(ctx, NewSchemaID())
	assert.True(t, IsNotFound(err))

	_, err = reg.FetchByDefinition(ctx, "address", addressDefinition)
	assert.True(t, IsNotFound(err))

	meta, err := reg.Check(ctx, "address", addressDefinition)
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestInMemoryCheckReportsLatestVersion(t *testing.T) {
	ctx := context.Background()
	reg := NewInMemory("test-registry")

	_, err := reg.Register(ctx, "address", addressDefinition)
	require.NoError(t, err)
	_, err = reg.Register(ctx, "address", `{"type":"record","name":"address","fields":[]}`)
	require.NoError(t, err)

	meta, err := reg.Check(ctx, "address", addressDefinition)
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, int64(2), meta.LatestVersion)
	assert.Equal(t, "test-registry", meta.RegistryName)
}

func TestInMemoryPut(t *testing.T) {
	reg := NewInMemory("")
	id := MustParseSchemaID("12345678-1234-5678-1234-567812345678")
	reg.Put("address", id, addressDefinition)

	got, err := reg.FetchByDefinition(context.Background(), "address", addressDefinition)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}
