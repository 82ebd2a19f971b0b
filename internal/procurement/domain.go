// Package procurement serves the purchase order grid.
package procurement

import (
	"strings"
	"time"

	"github.com/odyssey-erp/backoffice/internal/datatable"
)

// POStatus is the purchase order lifecycle status.
type POStatus string

const (
	POStatusDraft     POStatus = "DRAFT"
	POStatusApproval  POStatus = "APPROVAL"
	POStatusApproved  POStatus = "APPROVED"
	POStatusClosed    POStatus = "CLOSED"
	POStatusCancelled POStatus = "CANCELLED"
)

// PurchaseOrder is one row of the purchase order grid.
type PurchaseOrder struct {
	ID           int64     `json:"id"`
	Number       string    `json:"number"`
	SupplierCode string    `json:"supplier_code"`
	SupplierName string    `json:"supplier_name"`
	Status       POStatus  `json:"status"`
	Currency     string    `json:"currency"`
	ExpectedDate time.Time `json:"expected_date"`
	LineCount    int       `json:"line_count"`
	Total        float64   `json:"total"`
	CreatedAt    time.Time `json:"created_at"`
	Lines        []POLine  `json:"lines,omitempty"`
}

// POLine is a purchase order line.
type POLine struct {
	ProductCode string  `json:"product_code"`
	ProductName string  `json:"product_name"`
	Qty         float64 `json:"qty"`
	Price       float64 `json:"price"`
}

// Amount is qty times price.
func (l POLine) Amount() float64 {
	return l.Qty * l.Price
}

func (l POLine) Row() datatable.Row {
	return datatable.Row{
		"product": l.ProductCode,
		"name":    l.ProductName,
		"qty":     l.Qty,
		"price":   l.Price,
		"amount":  l.Amount(),
	}
}

func (po PurchaseOrder) Row() datatable.Row {
	row := datatable.Row{
		"id":            po.ID,
		"number":        po.Number,
		"supplier":      po.SupplierName,
		"supplier_code": po.SupplierCode,
		"status":        strings.ToLower(string(po.Status)),
		"currency":      po.Currency,
		"expected_date": po.ExpectedDate,
		"lines":         po.LineCount,
		"total":         po.Total,
		"created_at":    po.CreatedAt,
	}
	if po.Lines != nil {
		items := make([]datatable.Row, len(po.Lines))
		for i, l := range po.Lines {
			items[i] = l.Row()
		}
		row["items"] = items
	}
	return row
}
