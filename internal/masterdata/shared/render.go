// Package shared holds the cell renderers and option loading used by the
// master-data grids.
package shared

import (
	"html/template"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/odyssey-erp/backoffice/internal/datatable"
)

// Money renders a float with grouping and two decimals, prefixed by the
// row's currency field when set.
func Money(currencyField string) datatable.RenderFunc {
	return func(value any, row datatable.Row) template.HTML {
		f, ok := value.(float64)
		if !ok {
			return datatable.DefaultRender(value, row)
		}
		amount := humanize.FormatFloat("#,###.##", f)
		if currencyField != "" {
			if cur, _ := row[currencyField].(string); cur != "" {
				amount = cur + " " + amount
			}
		}
		return template.HTML(`<span class="num">` + template.HTMLEscapeString(amount) + `</span>`)
	}
}

// Count renders an integer with thousands separators.
func Count(value any, row datatable.Row) template.HTML {
	switch n := value.(type) {
	case int:
		return template.HTML(`<span class="num">` + humanize.Comma(int64(n)) + `</span>`)
	case int64:
		return template.HTML(`<span class="num">` + humanize.Comma(n) + `</span>`)
	}
	return datatable.DefaultRender(value, row)
}

// Relative renders a timestamp as "3 days ago" with the exact time as title.
func Relative(value any, row datatable.Row) template.HTML {
	t, ok := value.(time.Time)
	if !ok || t.IsZero() {
		return datatable.DefaultRender(value, row)
	}
	return template.HTML(`<time datetime="` + t.UTC().Format(time.RFC3339) + `" title="` +
		t.Format("02 Jan 2006 15:04") + `">` + template.HTMLEscapeString(humanize.Time(t)) + `</time>`)
}

// Date renders a calendar date.
func Date(value any, row datatable.Row) template.HTML {
	t, ok := value.(time.Time)
	if !ok || t.IsZero() {
		return datatable.DefaultRender(value, row)
	}
	return template.HTML(`<time datetime="` + t.Format("2006-01-02") + `">` + t.Format("02 Jan 2006") + `</time>`)
}

// Badge renders a status value as a labelled badge using the column's
// option labels.
func Badge(options []datatable.Option) datatable.RenderFunc {
	return func(value any, row datatable.Row) template.HTML {
		raw := datatable.Stringify(value)
		label := raw
		for _, o := range options {
			if strings.EqualFold(o.Value, raw) {
				label = o.Label
				break
			}
		}
		class := strings.ToLower(strings.Map(func(r rune) rune {
			if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
				return r
			}
			return '-'
		}, raw))
		return template.HTML(`<span class="badge badge-` + class + `">` + template.HTMLEscapeString(label) + `</span>`)
	}
}
