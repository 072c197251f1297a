// Package redis shares resolved schema definitions between processes.
//
// A codec caches schemas per process. In a fleet of consumers every process
// would otherwise ask the registry for the same ids after each deploy.
// CachingRegistry wraps any registry.Registry and keeps the id to definition
// mapping in Redis, so only the first process pays for the lookup:
//
//	client, err := redis.NewClient(redis.Config{Host: "localhost", Port: 6379})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	reg := redis.NewCachingRegistry(glueRegistry, client)
//	codec := messaging.NewCodec(reg, store)
//
// Keys have the form <KeyPrefix>schema:<id>. Schema ids are immutable, so
// entries do not expire unless Config.TTL is set. FetchByDefinition, Register
// and Check are never cached.
//
// Redis errors never fail a Fetch. They are logged and the wrapped registry
// answers instead.
//
// # FX Module Integration
//
// FXModule provides *RedisClient. CacheRegistry decorates whatever
// registry.Registry the application provides:
//
//	app := fx.New(
//		logger.FXModule,
//		glue.FXModule,
//		redis.FXModule,
//		redis.CacheRegistry,
//		messaging.FXModule,
//		fx.Supply(glueConfig, redisConfig),
//	)
//
// # Configuration
//
//	REDIS_HOST=localhost
//	REDIS_PORT=6379
//	REDIS_KEY_PREFIX=glue-messaging:
//	REDIS_TTL=0
//
// Cluster and sentinel deployments build their own go-redis client and wrap
// it with NewClientWithUniversal.
package redis
