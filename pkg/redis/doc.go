// Package redis opens go-redis clients for the cache and session backends.
//
// Open parses a redis:// or rediss:// URL, applies pool and timeout settings
// and pings the server, retrying with a linearly growing wait while it is
// unreachable. FromConfig maps a project configuration section to a URL and
// options:
//
//	url, opts := redis.FromConfig(cfg.Sub("redis"))
//	client, err := redis.Open(ctx, url, opts...)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Healthcheck adapts a client to the func(context.Context) error shape used
// by the health package.
package redis
