package suppliers

import (
	"html/template"

	"github.com/odyssey-erp/backoffice/internal/datatable"
	"github.com/odyssey-erp/backoffice/internal/listing"
	"github.com/odyssey-erp/backoffice/internal/masterdata/shared"
)

var statuses = []datatable.Option{
	{Label: "Active", Value: StatusActive},
	{Label: "On hold", Value: StatusOnHold},
	{Label: "Blocked", Value: StatusBlocked},
}

var fields = listing.Fields{
	"code":       {Expr: "s.code", Mode: datatable.ModeText, Sortable: true},
	"name":       {Expr: "s.name", Mode: datatable.ModeText, Sortable: true},
	"email":      {Expr: "COALESCE(s.email, '')", Mode: datatable.ModeText, Sortable: true},
	"city":       {Expr: "COALESCE(s.city, '')", Mode: datatable.ModeText, Sortable: true},
	"status":     {Expr: "s.status", Mode: datatable.ModeSingleSelect, Sortable: true},
	"created_at": {Expr: "s.created_at", Sortable: true},
}

func mailto(value any, row datatable.Row) template.HTML {
	email, _ := value.(string)
	if email == "" {
		return ""
	}
	return template.HTML(`<a href="mailto:` + template.HTMLEscapeString(email) + `">` + template.HTMLEscapeString(email) + `</a>`)
}

// Columns is the supplier grid.
func Columns() datatable.Columns {
	return datatable.Columns{
		{Key: "code", Label: "Code", Sortable: true, Filterable: true, FilterMode: datatable.ModeText, Width: "120px"},
		{Key: "name", Label: "Name", Sortable: true, Filterable: true, FilterMode: datatable.ModeText},
		{Key: "email", Label: "Email", Sortable: true, Filterable: true, FilterMode: datatable.ModeText, Render: mailto},
		{Key: "city", Label: "City", Sortable: true, Filterable: true, FilterMode: datatable.ModeText},
		{Key: "status", Label: "Status", Sortable: true, Filterable: true, FilterMode: datatable.ModeSingleSelect, FilterOptions: statuses, Render: shared.Badge(statuses)},
		{Key: "created_at", Label: "Created", Sortable: true, Render: shared.Relative},
	}
}
