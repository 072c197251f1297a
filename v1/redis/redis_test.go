package redis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/mock/gomock"

	"github.com/Aleph-Alpha/glue-messaging/v1/observability"
	"github.com/Aleph-Alpha/glue-messaging/v1/registry"
)

const addressSchema = `{"type":"record","name":"address","fields":[{"name":"street","type":"string"},{"name":"city","type":"string"}]}`

var addressID = registry.MustParseSchemaID("12345678-1234-5678-1234-567812345678")

type recordingLogger struct {
	mu    sync.Mutex
	warns []string
}

func (l *recordingLogger) Error(string, error, ...map[string]interface{}) {}
func (l *recordingLogger) Info(string, error, ...map[string]interface{})  {}
func (l *recordingLogger) Warn(msg string, _ error, _ ...map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warns = append(l.warns, msg)
}

type recordingObserver struct {
	mu  sync.Mutex
	ops []observability.OperationContext
}

func (o *recordingObserver) ObserveOperation(ctx observability.OperationContext) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ops = append(o.ops, ctx)
}

func newTestClient(t *testing.T, cfg Config) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewClientWithUniversal(client, cfg), mr
}

// brokenClient points at a closed port.
func brokenClient(t *testing.T, logger Logger) *RedisClient {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })
	return NewClientWithUniversal(client, Config{Logger: logger})
}

func TestDefinitionRoundTrip(t *testing.T) {
	obs := &recordingObserver{}
	client, mr := newTestClient(t, Config{})
	client.WithObserver(obs)
	ctx := context.Background()

	_, err := client.GetDefinition(ctx, addressID)
	assert.True(t, IsNilError(err))

	require.NoError(t, client.SetDefinition(ctx, addressID, addressSchema))
	assert.True(t, mr.Exists(DefaultKeyPrefix+"schema:"+addressID.String()))

	def, err := client.GetDefinition(ctx, addressID)
	require.NoError(t, err)
	assert.Equal(t, addressSchema, def)

	require.Len(t, obs.ops, 3)
	assert.Equal(t, "redis", obs.ops[0].Component)
	assert.Equal(t, "get", obs.ops[0].Operation)
	assert.NoError(t, obs.ops[0].Error)
	assert.Equal(t, false, obs.ops[0].Metadata["hit"])
	assert.Equal(t, "set", obs.ops[1].Operation)
	assert.Equal(t, true, obs.ops[2].Metadata["hit"])
}

func TestDefinitionTTL(t *testing.T) {
	client, mr := newTestClient(t, Config{KeyPrefix: "test:", TTL: time.Hour})

	require.NoError(t, client.SetDefinition(context.Background(), addressID, addressSchema))
	assert.Equal(t, time.Hour, mr.TTL("test:schema:"+addressID.String()))

	mr.FastForward(2 * time.Hour)
	_, err := client.GetDefinition(context.Background(), addressID)
	assert.True(t, IsNilError(err))
}

func TestCachingRegistryFetchesOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := registry.NewMockRegistry(ctrl)
	inner.EXPECT().Fetch(gomock.Any(), addressID).Return(addressSchema, nil).Times(1)

	client, _ := newTestClient(t, Config{})
	reg := NewCachingRegistry(inner, client)

	for i := 0; i < 3; i++ {
		def, err := reg.Fetch(context.Background(), addressID)
		require.NoError(t, err)
		assert.Equal(t, addressSchema, def)
	}
}

func TestCachingRegistrySharedBetweenClients(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := registry.NewMockRegistry(ctrl)
	inner.EXPECT().Fetch(gomock.Any(), addressID).Return(addressSchema, nil).Times(1)

	first, mr := newTestClient(t, Config{})
	_, err := NewCachingRegistry(inner, first).Fetch(context.Background(), addressID)
	require.NoError(t, err)

	other := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = other.Close() })
	second := NewCachingRegistry(registry.NewMockRegistry(ctrl), NewClientWithUniversal(other, Config{}))

	def, err := second.Fetch(context.Background(), addressID)
	require.NoError(t, err)
	assert.Equal(t, addressSchema, def)
}

func TestCachingRegistryDoesNotCacheErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := registry.NewMockRegistry(ctrl)
	lookupErr := errors.New("throttled")
	inner.EXPECT().Fetch(gomock.Any(), addressID).Return("", lookupErr)
	inner.EXPECT().Fetch(gomock.Any(), addressID).Return(addressSchema, nil)

	client, mr := newTestClient(t, Config{})
	reg := NewCachingRegistry(inner, client)

	_, err := reg.Fetch(context.Background(), addressID)
	assert.ErrorIs(t, err, lookupErr)
	assert.Empty(t, mr.Keys())

	def, err := reg.Fetch(context.Background(), addressID)
	require.NoError(t, err)
	assert.Equal(t, addressSchema, def)
}

func TestCachingRegistryFallsBackWhenRedisIsDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := registry.NewMockRegistry(ctrl)
	inner.EXPECT().Fetch(gomock.Any(), addressID).Return(addressSchema, nil).Times(2)

	logger := &recordingLogger{}
	reg := NewCachingRegistry(inner, brokenClient(t, logger))

	for i := 0; i < 2; i++ {
		def, err := reg.Fetch(context.Background(), addressID)
		require.NoError(t, err)
		assert.Equal(t, addressSchema, def)
	}
	assert.Len(t, logger.warns, 2)
}

func TestCachingRegistryDelegates(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := registry.NewMockRegistry(ctrl)
	client, mr := newTestClient(t, Config{})
	reg := NewCachingRegistry(inner, client)
	ctx := context.Background()

	inner.EXPECT().FetchByDefinition(gomock.Any(), "address", addressSchema).Return(addressID, nil).Times(2)
	inner.EXPECT().Register(gomock.Any(), "address", addressSchema).Return(addressID, nil)
	inner.EXPECT().Check(gomock.Any(), "address", addressSchema).Return(&registry.Metadata{Name: "address"}, nil)

	for i := 0; i < 2; i++ {
		id, err := reg.FetchByDefinition(ctx, "address", addressSchema)
		require.NoError(t, err)
		assert.Equal(t, addressID, id)
	}

	id, err := reg.Register(ctx, "address", addressSchema)
	require.NoError(t, err)
	assert.Equal(t, addressID, id)

	meta, err := reg.Check(ctx, "address", addressSchema)
	require.NoError(t, err)
	assert.Equal(t, "address", meta.Name)

	assert.Empty(t, mr.Keys())
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultKeyPrefix, cfg.KeyPrefix)
	assert.Equal(t, DefaultMaxRetries, cfg.MaxRetries)
	assert.Zero(t, cfg.TTL)

	cfg = Config{MaxRetries: -1}.withDefaults()
	assert.Equal(t, -1, cfg.MaxRetries)
}

func TestCreateTLSConfig(t *testing.T) {
	tlsConfig, err := createTLSConfig(TLSConfig{Enabled: true}, "redis.internal")
	require.NoError(t, err)
	assert.Equal(t, "redis.internal", tlsConfig.ServerName)

	_, err = createTLSConfig(TLSConfig{Enabled: true, CACertPath: "/does/not/exist.pem"}, "")
	assert.Error(t, err)
}

func TestCacheRegistryDecoratesContainer(t *testing.T) {
	ctrl := gomock.NewController(t)
	inner := registry.NewMockRegistry(ctrl)
	inner.EXPECT().Fetch(gomock.Any(), addressID).Return(addressSchema, nil).Times(1)

	client, _ := newTestClient(t, Config{})

	var reg registry.Registry
	app := fxtest.New(t,
		fx.Provide(
			func() registry.Registry { return inner },
			func() *RedisClient { return client },
		),
		CacheRegistry,
		fx.Invoke(RegisterRedisLifecycle),
		fx.Populate(&reg),
	)
	app.RequireStart()

	require.IsType(t, &CachingRegistry{}, reg)
	for i := 0; i < 2; i++ {
		_, err := reg.Fetch(context.Background(), addressID)
		require.NoError(t, err)
	}

	app.RequireStop()
	assert.True(t, IsClosedError(client.Ping(context.Background())))
}
