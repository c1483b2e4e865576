// Package view renders the panel's HTML.
//
// Engine copies templates into a compiled cache directory under flattened
// names (views/index/index.html becomes views_index_index.tmpl) and parses
// them with html/template. View maps controller actions to templates and
// wraps them in per-controller layouts. URL and Tag provide link building
// and document-level markup to templates.
//
//	engine := view.NewEngine(view.EngineOptionsFromConfig(cfg, true), basePath, toolsPath, fs,
//	    view.WithFuncs(view.Funcs(url, tag)),
//	)
//	v := view.New(engine, dirs.WebToolsViews, view.WithEvents(em))
//	err := v.Render(ctx, w, "models", "list", data)
package view
