package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/odyssey-erp/backoffice/internal/gridpage"
	"github.com/odyssey-erp/backoffice/internal/observability"
	"github.com/odyssey-erp/backoffice/internal/view"
	"github.com/odyssey-erp/backoffice/jobs"
	"github.com/odyssey-erp/backoffice/report"
	"github.com/odyssey-erp/backoffice/web"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger     *slog.Logger
	Config     *Config
	Templates  *view.Engine
	Registry   *gridpage.Registry
	JobHandler *jobs.Handler
	Metrics    *observability.Metrics
	// Reports enables PDF export of grid pages when set.
	Reports *report.Client
}

// NewRouter constructs the chi.Router with backoffice defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		data := view.TemplateData{
			Title:       "Backoffice",
			CurrentPath: r.URL.Path,
			Nav:         navItems(params.Registry),
		}
		if err := params.Templates.Render(w, http.StatusOK, "pages/index", data); err != nil {
			params.Logger.Error("render index", slog.Any("error", err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	})

	pageSize := 0
	if params.Config != nil {
		pageSize = params.Config.DefaultPageSize
	}
	var observer gridpage.InteractionObserver
	if params.Metrics != nil {
		observer = params.Metrics
	}
	if params.Registry != nil {
		for _, res := range params.Registry.All() {
			h := gridpage.NewHandler(params.Logger, res, params.Registry, params.Templates, observer, pageSize)
			if params.Reports != nil {
				h.WithPDF(params.Reports)
			}
			r.Route("/"+res.Name(), h.MountRoutes)
			r.Route("/api/"+res.Name(), h.MountAPI)
		}
	}

	if params.Reports != nil {
		r.Route("/reports", report.NewHandler(params.Reports, params.Logger).MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

func navItems(registry *gridpage.Registry) []view.NavItem {
	if registry == nil {
		return nil
	}
	var items []view.NavItem
	for _, res := range registry.All() {
		items = append(items, view.NavItem{Title: res.Title(), Path: "/" + res.Name()})
	}
	return items
}

// staticCacheHandler caches static assets in the browser for an hour.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
