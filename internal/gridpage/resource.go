// Package gridpage serves datatable grids for list resources: the HTML grid
// page driven by query-string state and the JSON list API.
package gridpage

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/odyssey-erp/backoffice/internal/datatable"
	"github.com/odyssey-erp/backoffice/internal/listing"
	"github.com/odyssey-erp/backoffice/internal/platform/httpx"
)

// ErrUnknownResource is returned for a resource name nobody registered.
var ErrUnknownResource = errors.New("gridpage: unknown resource")

// Page is one page of a resource listing.
type Page struct {
	Rows  []datatable.Row
	Total int
}

// Resource backs one grid.
type Resource interface {
	Name() string
	Title() string
	Columns(ctx context.Context) (datatable.Columns, error)
	List(ctx context.Context, q listing.Query) (Page, error)
	Get(ctx context.Context, id string) (datatable.Row, error)
}

// Lister is the service side of a typed resource.
type Lister[T any] interface {
	List(ctx context.Context, q listing.Query) ([]T, int, error)
	Get(ctx context.Context, id int64) (T, error)
}

type typedResource[T any] struct {
	name    string
	title   string
	columns func(context.Context) (datatable.Columns, error)
	service Lister[T]
	toRow   func(T) datatable.Row
}

// NewResource adapts a typed service to Resource.
func NewResource[T any](name, title string, columns func(context.Context) (datatable.Columns, error), service Lister[T], toRow func(T) datatable.Row) Resource {
	return &typedResource[T]{name: name, title: title, columns: columns, service: service, toRow: toRow}
}

func (r *typedResource[T]) Name() string  { return r.name }
func (r *typedResource[T]) Title() string { return r.title }

func (r *typedResource[T]) Columns(ctx context.Context) (datatable.Columns, error) {
	return r.columns(ctx)
}

func (r *typedResource[T]) List(ctx context.Context, q listing.Query) (Page, error) {
	items, total, err := r.service.List(ctx, q)
	if err != nil {
		return Page{}, err
	}
	rows := make([]datatable.Row, len(items))
	for i, item := range items {
		rows[i] = r.toRow(item)
	}
	return Page{Rows: rows, Total: total}, nil
}

func (r *typedResource[T]) Get(ctx context.Context, id string) (datatable.Row, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil || n <= 0 {
		return nil, fmt.Errorf("%s: invalid id %q: %w", r.name, id, httpx.ErrValidation)
	}
	item, err := r.service.Get(ctx, n)
	if err != nil {
		return nil, err
	}
	return r.toRow(item), nil
}

// Registry holds resources in navigation order.
type Registry struct {
	order  []Resource
	byName map[string]Resource
}

// NewRegistry rejects duplicate names.
func NewRegistry(resources ...Resource) (*Registry, error) {
	reg := &Registry{byName: make(map[string]Resource, len(resources))}
	for _, res := range resources {
		if _, dup := reg.byName[res.Name()]; dup {
			return nil, fmt.Errorf("gridpage: duplicate resource %q", res.Name())
		}
		reg.byName[res.Name()] = res
		reg.order = append(reg.order, res)
	}
	return reg, nil
}

// Lookup returns the resource registered under name.
func (r *Registry) Lookup(name string) (Resource, error) {
	res, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, name)
	}
	return res, nil
}

// All lists resources in registration order.
func (r *Registry) All() []Resource {
	return r.order
}
