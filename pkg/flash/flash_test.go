package flash_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webtools/pkg/flash"
	"github.com/dmitrymomot/webtools/pkg/session"
)

func TestDirect(t *testing.T) {
	t.Parallel()

	t.Run("default classes", func(t *testing.T) {
		t.Parallel()

		d := flash.NewDirect()
		require.Equal(t,
			"<div class=\"alert alert-danger fade in\">Migration failed</div>\n",
			string(d.HTML(flash.Error, "Migration failed")))
		require.Equal(t,
			"<div class=\"alert alert-info fade in\">Heads up</div>\n",
			string(d.HTML(flash.Notice, "Heads up")))
	})

	t.Run("sanitizes instead of escaping", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, flash.NewDirect().Message(&buf, flash.Success,
			`Model <strong>users</strong> created<script>alert(1)</script>`))
		require.Equal(t,
			"<div class=\"alert alert-success fade in\">Model <strong>users</strong> created</div>\n",
			buf.String())
	})

	t.Run("autoescape", func(t *testing.T) {
		t.Parallel()

		d := flash.NewDirect(flash.WithAutoescape(true))
		require.Contains(t, string(d.HTML(flash.Warning, "<b>x</b>")), "&lt;b&gt;x&lt;/b&gt;")
	})

	t.Run("unknown kind has no class", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, "<div>plain</div>\n", string(flash.NewDirect().HTML("debug", "plain")))
	})

	t.Run("component", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		require.NoError(t, flash.NewDirect().Component(flash.Error, "boom").Render(context.Background(), &buf))
		require.Contains(t, buf.String(), "boom")
	})
}

func TestSession(t *testing.T) {
	t.Parallel()

	sess := session.New("id", "token", time.Now().Add(time.Hour))
	ctx := session.WithSession(context.Background(), sess)
	f := flash.NewSession()

	require.False(t, f.Has(ctx, ""))
	require.NoError(t, f.Success(ctx, "saved"))
	require.NoError(t, f.Error(ctx, "failed"))
	require.True(t, f.Has(ctx, flash.Error))
	require.True(t, sess.IsDirty())

	var buf bytes.Buffer
	require.NoError(t, f.Component().Render(ctx, &buf))
	require.Equal(t,
		"<div class=\"alert alert-danger fade in\">failed</div>\n"+
			"<div class=\"alert alert-success fade in\">saved</div>\n",
		buf.String())
	require.False(t, f.Has(ctx, ""))
}

func TestSession_NoSession(t *testing.T) {
	t.Parallel()

	f := flash.NewSession()
	require.ErrorIs(t, f.Notice(context.Background(), "x"), session.ErrNoSession)

	var buf bytes.Buffer
	require.NoError(t, f.Component().Render(context.Background(), &buf))
	require.Empty(t, buf.String())
}
