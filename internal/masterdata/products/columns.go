package products

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/backoffice/internal/datatable"
	"github.com/odyssey-erp/backoffice/internal/listing"
	"github.com/odyssey-erp/backoffice/internal/masterdata/shared"
)

const statusExpr = "CASE WHEN p.is_active THEN 'active' ELSE 'inactive' END"

var statuses = []datatable.Option{
	{Label: "Active", Value: "active"},
	{Label: "Inactive", Value: "inactive"},
}

var fields = listing.Fields{
	"code":       {Expr: "p.code", Mode: datatable.ModeText, Sortable: true},
	"name":       {Expr: "p.name", Mode: datatable.ModeText, Sortable: true},
	"category":   {Expr: "c.code", Mode: datatable.ModeSingleSelect, Sortable: true},
	"color":      {Expr: "COALESCE(co.name, '')", Mode: datatable.ModeMultiSelect, Sortable: true},
	"price":      {Expr: "p.price", Sortable: true},
	"status":     {Expr: statusExpr, Mode: datatable.ModeSingleSelect, Sortable: true},
	"updated_at": {Expr: "p.updated_at", Sortable: true},
}

// columns builds the product grid from the category and color options.
func columns(categories, colors []datatable.Option) datatable.Columns {
	return datatable.Columns{
		{Key: "code", Label: "SKU", Sortable: true, Filterable: true, FilterMode: datatable.ModeText, Width: "120px"},
		{Key: "name", Label: "Name", Sortable: true, Filterable: true, FilterMode: datatable.ModeText},
		{Key: "category", Label: "Category", Sortable: true, Filterable: true, FilterMode: datatable.ModeSingleSelect, FilterOptions: categories},
		{Key: "color", Label: "Color", Sortable: true, Filterable: true, FilterMode: datatable.ModeMultiSelect, FilterOptions: colors},
		{Key: "price", Label: "Price", Sortable: true, Render: shared.Money(""), Width: "120px"},
		{Key: "status", Label: "Status", Sortable: true, Filterable: true, FilterMode: datatable.ModeSingleSelect, FilterOptions: statuses, Render: shared.Badge(statuses)},
		{Key: "updated_at", Label: "Updated", Sortable: true, Render: shared.Relative},
	}
}

func loadColumns(ctx context.Context, categories, colors shared.OptionSource) (datatable.Columns, error) {
	var catOpts, colorOpts []datatable.Option
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		catOpts, err = categories.Options(gctx)
		return err
	})
	g.Go(func() (err error) {
		colorOpts, err = colors.Options(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("products: filter options: %w", err)
	}
	return columns(catOpts, colorOpts), nil
}
