// Package webtools bootstraps a developer administration panel served over
// HTTP.
//
// The core is a lazily resolving service registry. [New] registers the
// panel services (configuration, logger, caches, template engine, router,
// dispatcher, database, session, flash messages and more) without building
// any of them; a service is constructed on its first lookup and shared
// services are kept until [App.Close].
//
// # Quick Start
//
//	app := webtools.New(
//	    webtools.WithBasePath("/srv/project"),
//	    webtools.WithToolsPath("/opt/webtools"),
//	    webtools.WithEnvironment("development"),
//	)
//	defer app.Close()
//
//	if err := app.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Configuration
//
// The project configuration is read from config.{yaml,yml,json,toml} in
// <base>/.webtools, <base>/config, <base>/app/config or <base>, in that
// order. Outside production the file named after the environment is merged
// on top of it.
//
// # Directories
//
// The "registry" service resolves the project directories:
//
//	dirs, err := webtools.Resolve[*webtools.Directories](app.Registry(), webtools.ServiceDirectories)
//	models, ok := dirs.Lookup(webtools.DirModels)
//
// # Controllers
//
// Panel sections are mounted at /<name> under the base URI:
//
//	webtools.WithControllers(map[string]webtools.Controller{
//	    "models": webtools.ControllerFunc(func(r chi.Router, h webtools.Handle) {
//	        r.Get("/", listModels(h))
//	    }),
//	})
//
// Requests pass through the dispatcher, which enforces the IP allow list
// and recovers panics before the router sees them.
package webtools
