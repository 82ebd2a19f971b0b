package colors

import (
	"context"
	"fmt"

	"github.com/odyssey-erp/backoffice/internal/datatable"
	"github.com/odyssey-erp/backoffice/internal/gridpage"
	"github.com/odyssey-erp/backoffice/internal/listing"
	"github.com/odyssey-erp/backoffice/internal/platform/cache"
	"github.com/odyssey-erp/backoffice/internal/platform/httpx"
)

// Name is the resource name of the color grid.
const Name = "colors"

type Service struct {
	repo  Repository
	cache *cache.ListCache
}

func NewService(repo Repository, listCache *cache.ListCache) *Service {
	return &Service{repo: repo, cache: listCache}
}

func (s *Service) List(ctx context.Context, q listing.Query) ([]Color, int, error) {
	res, err := cache.Fetch(ctx, s.cache, func(ctx context.Context) (listing.Result[Color], error) {
		items, total, err := s.repo.List(ctx, q)
		return listing.Result[Color]{Items: items, Total: total}, err
	}, "list", q.Key())
	if err != nil {
		return nil, 0, fmt.Errorf("colors: list: %w", err)
	}
	return res.Items, res.Total, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Color, error) {
	if id <= 0 {
		return Color{}, fmt.Errorf("invalid color ID: %w", httpx.ErrValidation)
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Options(ctx context.Context) ([]datatable.Option, error) {
	return cache.Fetch(ctx, s.cache, s.repo.Options, "options")
}

func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func (s *Service) Resource() gridpage.Resource {
	columns := func(context.Context) (datatable.Columns, error) { return Columns(), nil }
	return gridpage.NewResource(Name, "Colors", columns, s, Color.Row)
}
