package colors

import (
	"html/template"
	"regexp"

	"github.com/odyssey-erp/backoffice/internal/datatable"
	"github.com/odyssey-erp/backoffice/internal/listing"
	"github.com/odyssey-erp/backoffice/internal/masterdata/shared"
)

// Families are the fixed color families.
var Families = []datatable.Option{
	{Label: "Red", Value: "red"},
	{Label: "Orange", Value: "orange"},
	{Label: "Yellow", Value: "yellow"},
	{Label: "Green", Value: "green"},
	{Label: "Blue", Value: "blue"},
	{Label: "Purple", Value: "purple"},
	{Label: "Neutral", Value: "neutral"},
}

const productCountExpr = "(SELECT COUNT(*) FROM products pr WHERE pr.color_id = co.id)"

var fields = listing.Fields{
	"name":     {Expr: "co.name", Mode: datatable.ModeText, Sortable: true},
	"hex":      {Expr: "co.hex", Mode: datatable.ModeText, Sortable: true},
	"family":   {Expr: "co.family", Mode: datatable.ModeMultiSelect, Sortable: true},
	"products": {Expr: productCountExpr, Sortable: true},
}

var hexPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Swatch renders a color chip for a #rrggbb value.
func Swatch(value any, row datatable.Row) template.HTML {
	hex, _ := value.(string)
	if !hexPattern.MatchString(hex) {
		return ""
	}
	return template.HTML(`<span class="swatch" style="background:` + hex + `"></span>`)
}

// Columns is the color grid.
func Columns() datatable.Columns {
	return datatable.Columns{
		{Key: "swatch", Label: " ", Render: Swatch, Width: "32px"},
		{Key: "name", Label: "Name", Sortable: true, Filterable: true, FilterMode: datatable.ModeText},
		{Key: "hex", Label: "Hex", Sortable: true, Filterable: true, FilterMode: datatable.ModeText, Width: "100px"},
		{Key: "family", Label: "Family", Sortable: true, Filterable: true, FilterMode: datatable.ModeMultiSelect, FilterOptions: Families, Render: shared.Badge(Families)},
		{Key: "products", Label: "Products", Sortable: true, Render: shared.Count},
	}
}
