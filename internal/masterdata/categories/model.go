package categories

import (
	"time"

	"github.com/odyssey-erp/backoffice/internal/datatable"
)

// Category is a product category as listed in the grid.
type Category struct {
	ID           int64     `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	ParentName   string    `json:"parent_name"`
	ProductCount int       `json:"product_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Row exposes the category to the grid.
func (c Category) Row() datatable.Row {
	return datatable.Row{
		"id":         c.ID,
		"code":       c.Code,
		"name":       c.Name,
		"parent":     c.ParentName,
		"products":   c.ProductCount,
		"updated_at": c.UpdatedAt,
	}
}
