package procurement

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

// Name is the resource name of the purchase order grid.
const Name = "purchase-orders"

// Service orchestrates purchase order reads.
type Service struct {
	repo      Repository
	cache     *cache.ListCache
	suppliers shared.OptionSource
}

// NewService builds the service. suppliers feeds the supplier filter.
func NewService(repo Repository, listCache *cache.ListCache, suppliers shared.OptionSource) *Service {
	return &Service{repo: repo, cache: listCache, suppliers: suppliers}
}

func (s *Service) Columns(ctx context.Context) (datatable.Columns, error) {
	return loadColumns(ctx, s.suppliers)
}

// List returns one page of purchase orders.
func (s *Service) List(ctx context.Context, q listing.Query) ([]PurchaseOrder, int, error) {
	res, err := cache.Fetch(ctx, s.cache, func(ctx context.Context) (listing.Result[PurchaseOrder], error) {
		items, total, err := s.repo.ListPOs(ctx, q)
		return listing.Result[PurchaseOrder]{Items: items, Total: total}, err
	}, "list", q.Key())
	if err != nil {
		return nil, 0, fmt.Errorf("procurement: list: %w", err)
	}
	return res.Items, res.Total, nil
}

// Get returns a purchase order with its lines. Details are never cached.
func (s *Service) Get(ctx context.Context, id int64) (PurchaseOrder, error) {
	if id <= 0 {
		return PurchaseOrder{}, fmt.Errorf("invalid purchase order ID: %w", httpx.ErrValidation)
	}
	return s.repo.GetPO(ctx, id)
}

func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

func (s *Service) Resource() gridpage.Resource {
	return gridpage.NewResource(Name, "Purchase orders", s.Columns, s, PurchaseOrder.Row)
}
