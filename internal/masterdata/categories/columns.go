package categories

import (
	"github.com/odyssey-erp/backoffice/internal/datatable"
	"github.com/odyssey-erp/backoffice/internal/listing"
	"github.com/odyssey-erp/backoffice/internal/masterdata/shared"
)

const productCountExpr = "(SELECT COUNT(*) FROM products pr WHERE pr.category_id = c.id)"

var fields = listing.Fields{
	"code":       {Expr: "c.code", Mode: datatable.ModeText, Sortable: true},
	"name":       {Expr: "c.name", Mode: datatable.ModeText, Sortable: true},
	"parent":     {Expr: "COALESCE(p.name, '')", Mode: datatable.ModeText, Sortable: true},
	"products":   {Expr: productCountExpr, Sortable: true},
	"updated_at": {Expr: "c.updated_at", Sortable: true},
}

// Columns is the category grid.
func Columns() datatable.Columns {
	return datatable.Columns{
		{Key: "code", Label: "Code", Sortable: true, Filterable: true, FilterMode: datatable.ModeText, Width: "120px"},
		{Key: "name", Label: "Name", Sortable: true, Filterable: true, FilterMode: datatable.ModeText},
		{Key: "parent", Label: "Parent", Sortable: true, Filterable: true, FilterMode: datatable.ModeText},
		{Key: "products", Label: "Products", Sortable: true, Render: shared.Count, Width: "100px"},
		{Key: "updated_at", Label: "Updated", Sortable: true, Render: shared.Relative},
	}
}
