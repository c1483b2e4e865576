package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webtools/pkg/events"
)

func TestManager_Fire(t *testing.T) {
	t.Parallel()

	t.Run("orders by priority then attach order", func(t *testing.T) {
		t.Parallel()

		m := events.New(events.WithPriorities())
		var calls []string
		record := func(name string) events.Listener {
			return func(context.Context, *events.Event) error {
				calls = append(calls, name)
				return nil
			}
		}

		m.Attach("dispatch", record("low"), 1)
		m.Attach("dispatch:beforeException", record("exception"), 999)
		m.Attach("dispatch", record("access"), 1000)
		m.Attach("dispatch", record("low-2"), 1)

		require.NoError(t, m.Fire(context.Background(), "dispatch:beforeException", nil, nil))
		require.Equal(t, []string{"access", "exception", "low", "low-2"}, calls)
	})

	t.Run("ignores priorities when disabled", func(t *testing.T) {
		t.Parallel()

		m := events.New()
		var calls []string
		m.Attach("view", func(context.Context, *events.Event) error { calls = append(calls, "a"); return nil }, 1)
		m.Attach("view", func(context.Context, *events.Event) error { calls = append(calls, "b"); return nil }, 100)

		require.NoError(t, m.Fire(context.Background(), "view:notFoundView", nil, nil))
		require.Equal(t, []string{"a", "b"}, calls)
	})

	t.Run("listener error stops propagation", func(t *testing.T) {
		t.Parallel()

		m := events.New(events.WithPriorities())
		errDenied := errors.New("denied")
		called := false

		m.Attach("dispatch", func(context.Context, *events.Event) error { return errDenied }, 10)
		m.Attach("dispatch", func(context.Context, *events.Event) error { called = true; return nil }, 1)

		err := m.Fire(context.Background(), "dispatch:beforeDispatch", nil, nil)
		require.ErrorIs(t, err, errDenied)
		require.False(t, called)
	})

	t.Run("stop returns ErrStopped", func(t *testing.T) {
		t.Parallel()

		m := events.New()
		m.Attach("db:open", func(_ context.Context, e *events.Event) error {
			require.Equal(t, "db", e.Component())
			require.Equal(t, "open", e.Action())
			require.Equal(t, "payload", e.Data)
			e.Stop()
			return nil
		}, 0)

		err := m.Fire(context.Background(), "db:open", nil, "payload")
		require.ErrorIs(t, err, events.ErrStopped)
	})

	t.Run("no listeners", func(t *testing.T) {
		t.Parallel()

		m := events.New()
		require.NoError(t, m.Fire(context.Background(), "view:render", nil, nil))
		require.False(t, m.HasListeners("view"))
	})

	t.Run("detach", func(t *testing.T) {
		t.Parallel()

		m := events.New()
		m.Attach("view", func(context.Context, *events.Event) error { return errors.New("x") }, 0)
		require.True(t, m.HasListeners("view"))
		m.Detach("view")
		require.NoError(t, m.Fire(context.Background(), "view:render", nil, nil))
	})
}
