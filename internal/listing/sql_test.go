package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/odyssey-erp/backoffice/internal/datatable"
)

var productFields = Fields{
	"name":   {Expr: "p.name", Mode: datatable.ModeText, Sortable: true},
	"status": {Expr: "p.status", Mode: datatable.ModeSingleSelect},
	"tags":   {Expr: "c.code", Mode: datatable.ModeMultiSelect},
	"price":  {Expr: "p.price", Sortable: true},
}

func TestFieldsBuild(t *testing.T) {
	q := Query{
		Page:  2,
		Limit: 10,
		Sort:  &datatable.SortState{Key: "price", Direction: datatable.Descending},
		Filters: map[string]any{
			"name":    "50%_off",
			"status":  "Active",
			"tags":    []string{"A", "b"},
			"unknown": "x",
		},
	}
	c := productFields.Build(q, "p.id ASC")

	assert.Equal(t, " WHERE p.name ILIKE $1 AND lower(p.status) = $2 AND lower(c.code) = ANY($3)", c.Where)
	assert.Equal(t, " ORDER BY p.price DESC, p.id ASC", c.OrderBy)
	assert.Equal(t, []any{`%50\%\_off%`, "active", []string{"a", "b"}}, c.Args)

	page, args := c.Paginate(q)
	assert.Equal(t, " LIMIT $4 OFFSET $5", page)
	assert.Equal(t, []any{`%50\%\_off%`, "active", []string{"a", "b"}, 10, 10}, args)
	assert.Len(t, c.Args, 3)
}

func TestFieldsBuildIgnoresUnsortableAndBlank(t *testing.T) {
	q := Query{
		Sort:    &datatable.SortState{Key: "status", Direction: datatable.Ascending},
		Filters: map[string]any{"name": "  ", "tags": []string{}},
	}
	c := productFields.Build(q, "p.id ASC")
	assert.Empty(t, c.Where)
	assert.Equal(t, " ORDER BY p.id ASC", c.OrderBy)
	assert.Empty(t, c.Args)
}
