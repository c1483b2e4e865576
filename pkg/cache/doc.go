// Package cache provides the generic caches behind the viewCache,
// modelsCache and dataCache services.
//
// Two backends implement [Cache]: [Memory], built on patrickmn/go-cache for a
// single process, and [Redis] for caches shared between processes. Which one
// a service gets is decided by the "cache.adapter" configuration key, parsed
// with [ParseKind].
//
// TTL semantics for Set:
//   - Positive duration: item expires after this duration
//   - Zero: use the cache's configured default TTL (1 hour by default)
//   - Negative: item never expires
//
// # Stampede protection
//
// A [Loader] wraps a cache and computes missing values at most once per key
// at a time:
//
//	tables := cache.NewLoader(modelsCache)
//	names, err := tables.GetOrSet(ctx, "tables", func(ctx context.Context) ([]string, time.Duration, error) {
//		names, err := conn.Tables(ctx)
//		return names, 10 * time.Minute, err
//	})
package cache
