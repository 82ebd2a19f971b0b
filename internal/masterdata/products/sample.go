package products

import (
	"fmt"
	"strings"
	"time"

	"github.com/odyssey-erp/backoffice/internal/datatable"
	"github.com/odyssey-erp/backoffice/internal/gridpage"
)

var (
	sampleCategories = []string{"Apparel", "Hardware", "Lighting", "Stationery"}
	sampleColors     = []string{"Black", "Blue", "Green", "Red", "White"}
	sampleItems      = []string{"Bolt", "Cap", "Hinge", "Lamp", "Notebook", "Shirt", "Tape", "Valve"}
)

// SampleResource serves a fixed in-memory product catalog, for demos and
// hosts running without postgres.
func SampleResource(now time.Time) gridpage.Resource {
	var rows []datatable.Row
	for i := range 60 {
		category := sampleCategories[i%len(sampleCategories)]
		color := sampleColors[(i/2)%len(sampleColors)]
		item := sampleItems[i%len(sampleItems)]
		p := Product{
			ID:           int64(i + 1),
			Code:         fmt.Sprintf("%s-%03d", strings.ToUpper(item[:3]), i+1),
			Name:         color + " " + strings.ToLower(item),
			CategoryCode: strings.ToLower(category),
			CategoryName: category,
			Color:        color,
			Price:        float64((i*37)%500) + 0.99,
			Active:       i%7 != 0,
			UpdatedAt:    now.Add(-time.Duration(i*5) * time.Hour),
		}
		rows = append(rows, p.Row())
	}
	return gridpage.NewMemoryResource(Name, "Products", columns(sampleOptions(sampleCategories), sampleOptions(sampleColors)), rows)
}

func sampleOptions(labels []string) []datatable.Option {
	out := make([]datatable.Option, len(labels))
	for i, l := range labels {
		out[i] = datatable.Option{Label: l, Value: strings.ToLower(l)}
	}
	return out
}
