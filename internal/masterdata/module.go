// Package masterdata assembles the catalogue and purchasing grids.
package masterdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/odyssey-erp/backoffice/internal/gridpage"
	"github.com/odyssey-erp/backoffice/internal/masterdata/categories"
	"github.com/odyssey-erp/backoffice/internal/masterdata/colors"
	"github.com/odyssey-erp/backoffice/internal/masterdata/products"
	"github.com/odyssey-erp/backoffice/internal/masterdata/suppliers"
	"github.com/odyssey-erp/backoffice/internal/platform/cache"
	"github.com/odyssey-erp/backoffice/internal/procurement"
)

type invalidator interface {
	Invalidate(ctx context.Context) error
}

// Module owns the grid services.
type Module struct {
	Categories *categories.Service
	Colors     *colors.Service
	Products   *products.Service
	Suppliers  *suppliers.Service
	Orders     *procurement.Service

	byName map[string]invalidator
	// dependents are bumped along with the named resource because they
	// display its names or filter on its options.
	dependents map[string][]string
}

// New wires every service against pool. A nil client disables list caching.
func New(pool *pgxpool.Pool, client *redis.Client, ttl time.Duration, observe cache.Observer) *Module {
	listCache := func(ns string) *cache.ListCache {
		return cache.NewListCache(client, ns, ttl, observe)
	}
	m := &Module{
		Categories: categories.NewService(categories.NewRepository(pool), listCache(categories.Name)),
		Colors:     colors.NewService(colors.NewRepository(pool), listCache(colors.Name)),
		Suppliers:  suppliers.NewService(suppliers.NewRepository(pool), listCache(suppliers.Name)),
	}
	m.Products = products.NewService(products.NewRepository(pool), listCache(products.Name), m.Categories, m.Colors)
	m.Orders = procurement.NewService(procurement.NewRepository(pool), listCache(procurement.Name), m.Suppliers)

	m.byName = map[string]invalidator{
		categories.Name:  m.Categories,
		colors.Name:      m.Colors,
		products.Name:    m.Products,
		suppliers.Name:   m.Suppliers,
		procurement.Name: m.Orders,
	}
	m.dependents = map[string][]string{
		categories.Name: {products.Name},
		colors.Name:     {products.Name},
		suppliers.Name:  {procurement.Name},
	}
	return m
}

// Resources lists the grids in navigation order.
func (m *Module) Resources() []gridpage.Resource {
	return []gridpage.Resource{
		m.Products.Resource(),
		m.Categories.Resource(),
		m.Colors.Resource(),
		m.Suppliers.Resource(),
		m.Orders.Resource(),
	}
}

// Invalidate drops the cached lists of name and of the grids depending on it.
func (m *Module) Invalidate(ctx context.Context, name string) error {
	if _, ok := m.byName[name]; !ok {
		return fmt.Errorf("%w: %q", gridpage.ErrUnknownResource, name)
	}
	var errs []error
	for _, ns := range append([]string{name}, m.dependents[name]...) {
		if err := m.byName[ns].Invalidate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ns, err))
		}
	}
	return errors.Join(errs...)
}
