package products

import (
	"time"

	"github.com/odyssey-erp/backoffice/internal/datatable"
)

type Product struct {
	ID           int64     `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	CategoryCode string    `json:"category_code"`
	CategoryName string    `json:"category_name"`
	Color        string    `json:"color"`
	Price        float64   `json:"price"`
	Active       bool      `json:"active"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Status is the filter value of the product's active flag.
func (p Product) Status() string {
	if p.Active {
		return "active"
	}
	return "inactive"
}

func (p Product) Row() datatable.Row {
	return datatable.Row{
		"id":            p.ID,
		"code":          p.Code,
		"name":          p.Name,
		"category":      p.CategoryName,
		"category_code": p.CategoryCode,
		"color":         p.Color,
		"price":         p.Price,
		"status":        p.Status(),
		"updated_at":    p.UpdatedAt,
	}
}
