package gridpage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/odyssey-erp/backoffice/internal/datatable"
	"github.com/odyssey-erp/backoffice/internal/listing"
	"github.com/odyssey-erp/backoffice/internal/platform/httpx"
	"github.com/odyssey-erp/backoffice/internal/view"
)

// InteractionObserver counts accepted grid actions.
type InteractionObserver interface {
	ObserveInteraction(table, kind string)
}

// PDFConverter turns a standalone HTML document into a PDF.
type PDFConverter interface {
	ConvertHTML(ctx context.Context, name string, html []byte) ([]byte, error)
}

// Handler serves one resource.
type Handler struct {
	logger    *slog.Logger
	resource  Resource
	registry  *Registry
	templates *view.Engine
	observer  InteractionObserver
	pdf       PDFConverter
	pageSize  int
}

// NewHandler wires a resource handler. registry feeds the navigation and may
// be nil.
func NewHandler(logger *slog.Logger, resource Resource, registry *Registry, templates *view.Engine, observer InteractionObserver, pageSize int) *Handler {
	return &Handler{
		logger:    logger.With(slog.String("resource", resource.Name())),
		resource:  resource,
		registry:  registry,
		templates: templates,
		observer:  observer,
		pageSize:  pageSize,
	}
}

// WithPDF enables the PDF export of grid pages.
func (h *Handler) WithPDF(pdf PDFConverter) *Handler {
	h.pdf = pdf
	return h
}

// MountRoutes registers the HTML grid and detail pages.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.Grid)
	if h.pdf != nil {
		r.Get("/export.pdf", h.ExportPDF)
	}
	r.Get("/{id}", h.Show)
}

// MountAPI registers the JSON endpoints.
func (h *Handler) MountAPI(r chi.Router) {
	r.Get("/", h.ListJSON)
	r.Get("/{id}", h.ShowJSON)
}

func (h *Handler) base() string {
	return "/" + h.resource.Name()
}

func (h *Handler) query(r *http.Request) (listing.Query, error) {
	q, err := listing.Decode(r.URL.Query())
	if err != nil {
		return q, fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	q.Normalize(h.pageSize)
	return q, nil
}

func (h *Handler) hydrate(r *http.Request, q *listing.Query) (*datatable.Table, error) {
	columns, err := h.resource.Columns(r.Context())
	if err != nil {
		return nil, err
	}
	empty := ""
	if len(q.Filters) > 0 {
		empty = "No " + strings.ToLower(h.resource.Title()) + " match the current filters"
	}
	return Hydrate(columns, q, datatable.Props{
		EmptyMessage: empty,
		Logger:       h.logger,
	})
}

// Grid renders the grid page. A request carrying act applies the action and
// redirects to the canonical URL of the resulting state.
func (h *Handler) Grid(w http.ResponseWriter, r *http.Request) {
	q, err := h.query(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	table, err := h.hydrate(r, &q)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	if values := r.URL.Query(); values.Has("act") {
		kind, ok := Apply(table, values)
		if ok && h.observer != nil {
			h.observer.ObserveInteraction(h.resource.Name(), kind)
		}
		syncPanel(&q, table)
		http.Redirect(w, r, h.base()+"?"+listing.Encode(q), http.StatusSeeOther)
		return
	}

	grid, err := h.load(r, q, table)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "pages/grid", h.resource.Title(), grid)
}

// load fetches q's page into table and snapshots the grid.
func (h *Handler) load(r *http.Request, q listing.Query, table *datatable.Table) (GridView, error) {
	page, err := h.resource.List(r.Context(), q)
	if err != nil {
		return GridView{}, err
	}
	table.SetRows(page.Rows)

	grid := GridView{
		Base:  h.base(),
		Title: h.resource.Title(),
		Table: table.View(),
		Meta:  listing.NewMeta(q.Page, q.Limit, page.Total),
		Query: q,
	}
	grid.SortHints = sortHints(table, grid.Table.Headers)
	if h.pdf != nil {
		export := q
		export.Panel = ""
		grid.ExportURL = h.base() + "/export.pdf?" + listing.Encode(export)
	}
	return grid, nil
}

// ExportPDF renders the current grid page as a PDF document.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	q, err := h.query(r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	q.Panel = ""
	table, err := h.hydrate(r, &q)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	grid, err := h.load(r, q, table)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := h.templates.Execute(&buf, "pages/print", view.TemplateData{Title: grid.Title, Data: grid}); err != nil {
		h.renderError(w, r, err)
		return
	}
	pdf, err := h.pdf.ConvertHTML(r.Context(), h.resource.Name(), buf.Bytes())
	if err != nil {
		h.logger.Error("export pdf", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", h.resource.Name()+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

// Show renders one row.
func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	row, err := h.resource.Get(r.Context(), id)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	columns, err := h.resource.Columns(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	detail := newDetailView(h.base(), h.resource.Title(), columns, row)
	h.render(w, r, http.StatusOK, "pages/detail", h.resource.Title()+" "+detail.Key, detail)
}

// ListJSON returns the {data, meta} envelope.
func (h *Handler) ListJSON(w http.ResponseWriter, r *http.Request) {
	q, err := h.query(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if _, err := h.hydrate(r, &q); err != nil {
		h.logger.Error("hydrate grid failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	page, err := h.resource.List(r.Context(), q)
	if err != nil {
		h.logger.Error("list failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	rows := page.Rows
	if rows == nil {
		rows = []datatable.Row{}
	}
	httpx.JSON(w, http.StatusOK, listing.Envelope{
		Data: rows,
		Meta: listing.NewMeta(q.Page, q.Limit, page.Total),
	})
}

// ShowJSON returns one row.
func (h *Handler) ShowJSON(w http.ResponseWriter, r *http.Request) {
	row, err := h.resource.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if httpx.StatusOf(err) == http.StatusInternalServerError {
			h.logger.Error("get failed", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, row)
}

func (h *Handler) nav() []view.NavItem {
	if h.registry == nil {
		return nil
	}
	var items []view.NavItem
	for _, res := range h.registry.All() {
		items = append(items, view.NavItem{
			Title:  res.Title(),
			Path:   "/" + res.Name(),
			Active: res.Name() == h.resource.Name(),
		})
	}
	return items
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	err := h.templates.Render(w, status, name, view.TemplateData{
		Title:       title,
		CurrentPath: r.URL.Path,
		Nav:         h.nav(),
		Data:        data,
	})
	if err != nil {
		h.logger.Error("render failed", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpx.StatusOf(err)
	message := http.StatusText(status)
	if status == http.StatusInternalServerError {
		h.logger.Error("grid request failed", slog.String("path", r.URL.Path), slog.Any("error", err))
	} else {
		message = err.Error()
	}
	h.render(w, r, status, "pages/error", http.StatusText(status), map[string]any{
		"Status":  status,
		"Message": message,
		"Back":    h.base(),
	})
}
