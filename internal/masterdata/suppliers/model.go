package suppliers

import (
	"time"

	"github.com/odyssey-erp/backoffice/internal/datatable"
)

// Supplier statuses.
const (
	StatusActive  = "active"
	StatusOnHold  = "on_hold"
	StatusBlocked = "blocked"
)

type Supplier struct {
	ID        int64     `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	City      string    `json:"city"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func (s Supplier) Row() datatable.Row {
	return datatable.Row{
		"id":         s.ID,
		"code":       s.Code,
		"name":       s.Name,
		"email":      s.Email,
		"city":       s.City,
		"status":     s.Status,
		"created_at": s.CreatedAt,
	}
}
