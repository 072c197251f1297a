package messaging

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/glue-messaging/v1/registry"
)

func TestSchemaCacheFirstWriteWins(t *testing.T) {
	cache := NewSchemaCache()
	id := registry.NewSchemaID()

	first, err := AvroParser.Parse(addressSchema)
	require.NoError(t, err)
	second, err := AvroParser.Parse(addressSchema)
	require.NoError(t, err)

	_, ok := cache.Get(id)
	assert.False(t, ok)

	assert.Same(t, first, cache.Store(id, first))
	assert.Same(t, first, cache.Store(id, second))

	got, ok := cache.Get(id)
	require.True(t, ok)
	assert.Same(t, first, got)
	assert.Equal(t, 1, cache.Len())
}

func TestSchemaCacheSharedBetweenCodecs(t *testing.T) {
	cache := NewSchemaCache()
	a := NewCodec(nil, nil, WithSchemaCache(cache))
	b := NewCodec(nil, nil, WithSchemaCache(cache))
	assert.Same(t, a.Cache(), b.Cache())
	assert.NotSame(t, a.Cache(), NewCodec(nil, nil).Cache())
}

func TestSchemaCacheConcurrentStore(t *testing.T) {
	cache := NewSchemaCache()
	id := registry.NewSchemaID()

	schemas := make([]Schema, 16)
	for i := range schemas {
		s, err := AvroParser.Parse(addressSchema)
		require.NoError(t, err)
		schemas[i] = s
	}

	results := make([]Schema, len(schemas))
	var wg sync.WaitGroup
	for i := range schemas {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = cache.Store(id, schemas[i])
		}(i)
	}
	wg.Wait()

	winner, _ := cache.Get(id)
	for _, r := range results {
		assert.Same(t, winner, r)
	}
}
