package gridpage

import (
	"html/template"
	"maps"
	"net/url"
	"slices"

	"github.com/odyssey-erp/backoffice/internal/datatable"
	"github.com/odyssey-erp/backoffice/internal/listing"
)

// Field is one hidden form input.
type Field struct {
	Name  string
	Value string
}

// GridView is the template data of a grid page.
type GridView struct {
	Base  string
	Title string
	Table datatable.ViewModel
	Meta  listing.Meta
	Query listing.Query
	// ExportURL links the PDF export of the page; empty when disabled.
	ExportURL string
	// SortHints describes what clicking each sortable header does.
	SortHints map[string]string
}

// SortHint returns the header title for key.
func (g GridView) SortHint(key string) string { return g.SortHints[key] }

// sortHints previews the next sort of every sortable header on a detached
// copy of table.
func sortHints(table *datatable.Table, headers []datatable.HeaderView) map[string]string {
	hints := make(map[string]string)
	for _, header := range headers {
		if !header.Sortable {
			continue
		}
		var next *datatable.SortState
		preview := table.Clone(datatable.Callbacks{
			OnSortChange: func(s *datatable.SortState) { next = s },
		})
		if !preview.RequestSort(header.Key) {
			continue
		}
		switch {
		case next == nil:
			hints[header.Key] = "Clear sort"
		case next.Direction == datatable.Descending:
			hints[header.Key] = "Sort by " + header.Label + " descending"
		default:
			hints[header.Key] = "Sort by " + header.Label + " ascending"
		}
	}
	return hints
}

// ActionURL links an action on the current state.
func (g GridView) ActionURL(act, col, value string) string {
	v := listing.Values(g.Query)
	v.Set("act", act)
	if col != "" {
		v.Set("col", col)
	}
	if value != "" {
		v.Set("value", value)
	}
	return g.Base + "?" + v.Encode()
}

// PageURL links page n of the current state.
func (g GridView) PageURL(n int) string {
	q := g.Query
	q.Page = n
	return g.Base + "?" + listing.Encode(q)
}

// PrevURL links the previous page.
func (g GridView) PrevURL() string { return g.PageURL(g.Meta.Page - 1) }

// NextURL links the next page.
func (g GridView) NextURL() string { return g.PageURL(g.Meta.Page + 1) }

// RowURL links a row's detail page.
func (g GridView) RowURL(key string) string {
	return g.Base + "/" + url.PathEscape(key)
}

// ColSpan spans the data columns plus the link column.
func (g GridView) ColSpan() int { return g.Table.Body.ColSpan + 1 }

// Hidden carries the current state through a GET form.
func (g GridView) Hidden() []Field {
	v := listing.Values(g.Query)
	var fields []Field
	for _, name := range slices.Sorted(maps.Keys(v)) {
		for _, value := range v[name] {
			fields = append(fields, Field{Name: name, Value: value})
		}
	}
	return fields
}

// DetailField is one labelled value of a detail page.
type DetailField struct {
	Label   string
	Content template.HTML
}

// DetailView is the template data of a row detail page.
type DetailView struct {
	Base   string
	Title  string
	Key    string
	Fields []DetailField
}

func newDetailView(base, title string, columns datatable.Columns, row datatable.Row) DetailView {
	body := datatable.Project([]datatable.Row{row}, columns, "id", "")
	d := DetailView{Base: base, Title: title}
	if len(body.Rows) == 0 {
		return d
	}
	rendered := body.Rows[0]
	d.Key = rendered.Key
	for i, cell := range rendered.Cells {
		d.Fields = append(d.Fields, DetailField{Label: columns[i].Label, Content: cell.Content})
	}
	return d
}
