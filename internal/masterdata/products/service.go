package products

import (
	"context"
	"fmt"

	"github.com/odyssey-erp/backoffice/internal/datatable"
	"github.com/odyssey-erp/backoffice/internal/gridpage"
	"github.com/odyssey-erp/backoffice/internal/listing"
	"github.com/odyssey-erp/backoffice/internal/masterdata/shared"
	"github.com/odyssey-erp/backoffice/internal/platform/cache"
	"github.com/odyssey-erp/backoffice/internal/platform/httpx"
)

// Name is the resource name of the product grid.
const Name = "products"

type Service struct {
	repo       Repository
	cache      *cache.ListCache
	categories shared.OptionSource
	colors     shared.OptionSource
}

// NewService wires the product grid. categories and colors supply the
// options of the matching select filters.
func NewService(repo Repository, listCache *cache.ListCache, categories, colors shared.OptionSource) *Service {
	return &Service{repo: repo, cache: listCache, categories: categories, colors: colors}
}

func (s *Service) Columns(ctx context.Context) (datatable.Columns, error) {
	return loadColumns(ctx, s.categories, s.colors)
}

func (s *Service) List(ctx context.Context, q listing.Query) ([]Product, int, error) {
	res, err := cache.Fetch(ctx, s.cache, func(ctx context.Context) (listing.Result[Product], error) {
		items, total, err := s.repo.List(ctx, q)
		return listing.Result[Product]{Items: items, Total: total}, err
	}, "list", q.Key())
	if err != nil {
		return nil, 0, fmt.Errorf("products: list: %w", err)
	}
	return res.Items, res.Total, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Product, error) {
	if id <= 0 {
		return Product{}, fmt.Errorf("invalid product ID: %w", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func (s *Service) Resource() gridpage.Resource {
	return gridpage.NewResource(Name, "Products", s.Columns, s, Product.Row)
}
