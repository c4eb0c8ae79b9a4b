// Package redis provides helpers for connecting to a Redis server and a
// shared tenant cache for multi-instance deployments.
//
// The package wraps the go-redis client and adds:
//
//   - A robust Connect which retries the connection using the supplied
//     configuration.
//   - TenantCache, a registry.Cache implementation that lets several
//     application instances share one tenant lookup cache, so a status
//     transition performed by any instance is visible to all of them within
//     the cache TTL.
//   - Health-check helpers to integrate Redis into liveness and readiness
//     probes.
//
// Configuration is described by the Config struct whose fields are populated
// from environment variables via github.com/caarlos0/env.
//
// # Usage
//
// Import the package:
//
//	import "github.com/dmitrymomot/tenantcore/pkg/redis"
//
// Connect with auto-retry:
//
//	ctx := context.Background()
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    // handle error, probably terminate the application
//	}
//	defer client.Close()
//
// Use the shared tenant cache with the registry:
//
//	reg := registry.New(store, registry.WithCache(redis.NewTenantCache(client)))
//
// Register a health-check in your observability stack:
//
//	checker := redis.Healthcheck(client)
//	if err := checker(ctx); err != nil {
//	    // redis is not healthy
//	}
//
// # Errors
//
// The package defines several sentinel errors (e.g. ErrRedisNotReady) that wrap
// the underlying go-redis errors using errors.Join.
package redis
