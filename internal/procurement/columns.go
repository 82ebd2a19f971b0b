package procurement

import (
	"context"
	"fmt"
	"strings"

	"github.com/odyssey-erp/backoffice/internal/datatable"
	"github.com/odyssey-erp/backoffice/internal/listing"
	"github.com/odyssey-erp/backoffice/internal/masterdata/shared"
)

var statuses = []datatable.Option{
	{Label: "Draft", Value: strings.ToLower(string(POStatusDraft))},
	{Label: "Awaiting approval", Value: strings.ToLower(string(POStatusApproval))},
	{Label: "Approved", Value: strings.ToLower(string(POStatusApproved))},
	{Label: "Closed", Value: strings.ToLower(string(POStatusClosed))},
	{Label: "Cancelled", Value: strings.ToLower(string(POStatusCancelled))},
}

var currencies = []datatable.Option{
	{Label: "IDR", Value: "idr"},
	{Label: "USD", Value: "usd"},
	{Label: "SGD", Value: "sgd"},
	{Label: "EUR", Value: "eur"},
}

const (
	lineCountExpr = "(SELECT COUNT(*) FROM po_lines l WHERE l.po_id = p.id)"
	totalExpr     = "COALESCE((SELECT SUM(l.qty * l.price) FROM po_lines l WHERE l.po_id = p.id), 0)"
)

var fields = listing.Fields{
	"number":        {Expr: "p.number", Mode: datatable.ModeText, Sortable: true},
	"supplier":      {Expr: "s.code", Mode: datatable.ModeSingleSelect, Sortable: true},
	"status":        {Expr: "p.status", Mode: datatable.ModeMultiSelect, Sortable: true},
	"currency":      {Expr: "p.currency", Mode: datatable.ModeSingleSelect, Sortable: true},
	"expected_date": {Expr: "p.expected_date", Sortable: true},
	"lines":         {Expr: lineCountExpr, Sortable: true},
	"total":         {Expr: totalExpr, Sortable: true},
	"created_at":    {Expr: "p.created_at", Sortable: true},
}

func columns(suppliers []datatable.Option) datatable.Columns {
	return datatable.Columns{
		{Key: "number", Label: "Number", Sortable: true, Filterable: true, FilterMode: datatable.ModeText, Width: "140px"},
		{Key: "supplier", Label: "Supplier", Sortable: true, Filterable: true, FilterMode: datatable.ModeSingleSelect, FilterOptions: suppliers},
		{Key: "status", Label: "Status", Sortable: true, Filterable: true, FilterMode: datatable.ModeMultiSelect, FilterOptions: statuses, Render: shared.Badge(statuses)},
		{Key: "currency", Label: "Currency", Sortable: true, Filterable: true, FilterMode: datatable.ModeSingleSelect, FilterOptions: currencies, Width: "90px"},
		{Key: "expected_date", Label: "Expected", Sortable: true, Render: shared.Date},
		{Key: "lines", Label: "Lines", Sortable: true, Render: shared.Count, Width: "80px"},
		{Key: "total", Label: "Total", Sortable: true, Render: shared.Money("currency")},
		{Key: "created_at", Label: "Created", Sortable: true, Render: shared.Relative},
	}
}

func loadColumns(ctx context.Context, suppliers shared.OptionSource) (datatable.Columns, error) {
	opts, err := suppliers.Options(ctx)
	if err != nil {
		return nil, fmt.Errorf("procurement: supplier options: %w", err)
	}
	return columns(opts), nil
}
