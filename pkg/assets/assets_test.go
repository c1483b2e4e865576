package assets_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/webtools/pkg/assets"
	"github.com/dmitrymomot/webtools/pkg/view"
)

func TestManager_Output(t *testing.T) {
	t.Parallel()

	m := assets.NewManager(view.NewURL("/tools/", "/static/").Static)
	m.AddCSS("css/panel.css", true).AddCSS("https://cdn.example.com/bootstrap.css", false)
	m.AddCSS("css/panel.css", true)
	m.AddJS("js/panel.js", true)
	m.Collection("footer").AddJS("js/charts.js", true)

	require.Equal(t,
		`<link rel="stylesheet" type="text/css" href="/static/css/panel.css">`+"\n"+
			`<link rel="stylesheet" type="text/css" href="https://cdn.example.com/bootstrap.css">`+"\n",
		string(m.OutputCSS()))
	require.Equal(t, `<script src="/static/js/panel.js"></script>`+"\n", string(m.OutputJS()))
	require.Equal(t,
		`<script src="/static/js/panel.js"></script>`+"\n"+`<script src="/static/js/charts.js"></script>`+"\n",
		string(m.OutputJS("", "footer")))
	require.Equal(t, []string{"", "footer"}, m.Names())
}

func TestManager_EscapesPaths(t *testing.T) {
	t.Parallel()

	m := assets.NewManager(nil)
	m.AddJS(`x.js"><script>alert(1)</script>`, false)
	require.NotContains(t, string(m.OutputJS()), "<script>alert")
}
