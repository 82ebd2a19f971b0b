package colors

import "github.com/odyssey-erp/backoffice/internal/datatable"

// Color is a catalogue color variant.
type Color struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Hex      string `json:"hex"`
	Family   string `json:"family"`
	Products int    `json:"products"`
}

// Row exposes the color to the grid.
func (c Color) Row() datatable.Row {
	return datatable.Row{
		"id":       c.ID,
		"swatch":   c.Hex,
		"name":     c.Name,
		"hex":      c.Hex,
		"family":   c.Family,
		"products": c.Products,
	}
}
