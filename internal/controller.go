package internal

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/webtools/pkg/menu"
	"github.com/dmitrymomot/webtools/pkg/sysinfo"
	"github.com/dmitrymomot/webtools/pkg/view"
)

// IndexController is the name of the controller mounted at the base URI.
const IndexController = "index"

// Controller declares the actions of one panel section. Routes receives a
// router mounted at /<name> and the registry handle for resolving services.
// The default action is served at "/".
type Controller interface {
	Routes(r chi.Router, h Handle)
}

// ControllerFunc adapts a function to Controller.
type ControllerFunc func(r chi.Router, h Handle)

// Routes calls f(r, h).
func (f ControllerFunc) Routes(r chi.Router, h Handle) { f(r, h) }

// IndexData is passed to the index/index view.
type IndexData struct {
	Sidebar template.HTML
	Runtime sysinfo.Runtime
	Info    *sysinfo.Info
}

type indexController struct{}

// NewIndexController returns the controller that renders the panel start
// page from index/index.html.
func NewIndexController() Controller {
	return indexController{}
}

func (indexController) Routes(r chi.Router, h Handle) {
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		v, err := Resolve[*view.View](h, ServiceView)
		if err != nil {
			serverError(w, req, h, err)
			return
		}
		info, err := Resolve[*sysinfo.Info](h, ServiceInfo)
		if err != nil {
			serverError(w, req, h, err)
			return
		}

		data := IndexData{Info: info, Runtime: info.Runtime()}
		if sb, err := Resolve[*menu.Sidebar](h, ServiceSidebar); err == nil {
			data.Sidebar, _ = sb.Render(req.URL.Path)
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := v.Render(req.Context(), w, IndexController, "index", data); err != nil {
			if errors.Is(err, view.ErrViewNotFound) {
				http.NotFound(w, req)
				return
			}
			serverError(w, req, h, err)
		}
	})
}

func serverError(w http.ResponseWriter, r *http.Request, h Handle, err error) {
	if log, lerr := Resolve[*slog.Logger](h, ServiceLogger); lerr == nil {
		log.ErrorContext(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
