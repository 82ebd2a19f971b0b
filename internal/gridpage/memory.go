package gridpage

import (
	"context"
	"fmt"

	"github.com/odyssey-erp/backoffice/internal/datatable"
	"github.com/odyssey-erp/backoffice/internal/listing"
	"github.com/odyssey-erp/backoffice/internal/platform/httpx"
)

// MemoryResource serves a fixed row set, filtering and sorting in memory.
type MemoryResource struct {
	name    string
	title   string
	columns datatable.Columns
	rows    []datatable.Row
}

// NewMemoryResource builds a resource over rows keyed by their "id" field.
func NewMemoryResource(name, title string, columns datatable.Columns, rows []datatable.Row) *MemoryResource {
	return &MemoryResource{name: name, title: title, columns: columns, rows: rows}
}

func (m *MemoryResource) Name() string  { return m.name }
func (m *MemoryResource) Title() string { return m.title }

func (m *MemoryResource) Columns(context.Context) (datatable.Columns, error) {
	return m.columns, nil
}

func (m *MemoryResource) List(_ context.Context, q listing.Query) (Page, error) {
	filters := datatable.ParseFilters(m.columns, q.Filters)
	rows := datatable.ApplyLocal(m.rows, m.columns, q.Sort, filters)

	total := len(rows)
	start := max(0, min(q.Offset(), total))
	end := total
	if q.Limit > 0 {
		end = min(start+q.Limit, total)
	}
	return Page{Rows: rows[start:end], Total: total}, nil
}

func (m *MemoryResource) Get(_ context.Context, id string) (datatable.Row, error) {
	for _, row := range m.rows {
		if datatable.Stringify(row["id"]) == id {
			return row, nil
		}
	}
	return nil, fmt.Errorf("%s %s: %w", m.name, id, httpx.ErrNotFound)
}
