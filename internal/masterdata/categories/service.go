package categories

import (
	"context"
	"fmt"

	"github.com/odyssey-erp/backoffice/internal/datatable"
	"github.com/odyssey-erp/backoffice/internal/gridpage"
	"github.com/odyssey-erp/backoffice/internal/listing"
	"github.com/odyssey-erp/backoffice/internal/platform/cache"
	"github.com/odyssey-erp/backoffice/internal/platform/httpx"
)

// Name is the resource name of the category grid.
const Name = "categories"

type Service struct {
	repo  Repository
	cache *cache.ListCache
}

func NewService(repo Repository, listCache *cache.ListCache) *Service {
	return &Service{repo: repo, cache: listCache}
}

func (s *Service) Columns(context.Context) (datatable.Columns, error) {
	return Columns(), nil
}

func (s *Service) List(ctx context.Context, q listing.Query) ([]Category, int, error) {
	res, err := cache.Fetch(ctx, s.cache, func(ctx context.Context) (listing.Result[Category], error) {
		items, total, err := s.repo.List(ctx, q)
		return listing.Result[Category]{Items: items, Total: total}, err
	}, "list", q.Key())
	if err != nil {
		return nil, 0, fmt.Errorf("categories: list: %w", err)
	}
	return res.Items, res.Total, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Category, error) {
	if id <= 0 {
		return Category{}, fmt.Errorf("invalid category ID: %w", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

// Options lists categories as filter options for other grids.
func (s *Service) Options(ctx context.Context) ([]datatable.Option, error) {
	return cache.Fetch(ctx, s.cache, s.repo.Options, "options")
}

// Invalidate drops every cached category list.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

// Resource exposes the service as a grid.
func (s *Service) Resource() gridpage.Resource {
	return gridpage.NewResource(Name, "Categories", s.Columns, s, Category.Row)
}
