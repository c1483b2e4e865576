// Package session keeps per-browser panel state behind a cookie token.
//
// Sessions are stored in a cache backend (memory or Redis) through
// CacheStore. Manager.Middleware loads the session for every request,
// exposes it via FromContext and saves it once the handler returns:
//
//	store := session.NewCacheStore(cache.NewMemory[session.Session](cache.WithPrefix("session")))
//	mgr := session.NewManager(store, session.WithTTL(8*time.Hour))
//	handler = mgr.Middleware(handler)
//
// Tokens are random UUIDs; the session ID is a separate UUID that never
// leaves the server.
package session
