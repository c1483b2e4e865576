package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webtools/pkg/cache"
	"github.com/dmitrymomot/webtools/pkg/session"
)

func newManager(t *testing.T, opts ...session.Option) (*session.Manager, *session.CacheStore) {
	t.Helper()

	c := cache.NewMemory[session.Session](cache.WithPrefix("session"))
	t.Cleanup(func() { _ = c.Close() })

	store := session.NewCacheStore(c)
	return session.NewManager(store, opts...), store
}

func TestManager_Middleware(t *testing.T) {
	t.Parallel()

	m, store := newManager(t)

	var counter int
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := session.FromContext(r.Context())
		require.NoError(t, err)
		counter = session.ValueOr(sess, "visits", 0) + 1
		sess.SetValue("visits", counter)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, session.DefaultCookieName, cookies[0].Name)
	require.True(t, cookies[0].HttpOnly)
	require.Equal(t, 1, counter)

	stored, err := store.Get(context.Background(), cookies[0].Value)
	require.NoError(t, err)
	require.Equal(t, 1, stored.Values["visits"])

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, 2, counter)
	require.Equal(t, cookies[0].Value, rec.Result().Cookies()[0].Value)
}

func TestManager_EmptyNewSessionIsNotStored(t *testing.T) {
	t.Parallel()

	m, store := newManager(t)
	h := m.Middleware(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	token := rec.Result().Cookies()[0].Value
	_, err := store.Get(context.Background(), token)
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestManager_Load(t *testing.T) {
	t.Parallel()

	t.Run("malformed cookie starts a new session", func(t *testing.T) {
		t.Parallel()

		m, _ := newManager(t)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "not-a-token"})

		sess, err := m.Load(req)
		require.NoError(t, err)
		require.True(t, sess.IsNew())
		require.NotEqual(t, "not-a-token", sess.Token)
		require.Equal(t, "192.0.2.1", sess.IP)
	})

	t.Run("expired session is replaced", func(t *testing.T) {
		t.Parallel()

		m, store := newManager(t, session.WithTTL(time.Hour))
		old := session.New("id", "0b3f1c2e-8a4d-4a59-9f0e-3c2d1b0a9e8f", time.Now().Add(-time.Minute))
		require.NoError(t, store.Save(context.Background(), old, time.Hour))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: old.Token})

		sess, err := m.Load(req)
		require.NoError(t, err)
		require.True(t, sess.IsNew())
		require.NotEqual(t, old.Token, sess.Token)
	})
}

func TestManager_Destroy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	m, store := newManager(t)

	sess := session.New("id", "5f0c6a1e-2b7d-4c3e-8f9a-1d2e3f4a5b6c", time.Now().Add(time.Hour))
	require.NoError(t, m.Save(ctx, sess))
	require.False(t, sess.IsNew())

	rec := httptest.NewRecorder()
	require.NoError(t, m.Destroy(ctx, rec, sess))
	require.Equal(t, -1, rec.Result().Cookies()[0].MaxAge)

	_, err := store.Get(ctx, sess.Token)
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestFromContext_Missing(t *testing.T) {
	t.Parallel()

	_, err := session.FromContext(context.Background())
	require.ErrorIs(t, err, session.ErrNoSession)
}
