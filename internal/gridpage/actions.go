package gridpage

import (
	"net/url"

	"github.com/odyssey-erp/backoffice/internal/datatable"
	"github.com/odyssey-erp/backoffice/internal/listing"
)

// Grid actions carried by the act query parameter.
const (
	ActSort      = "sort"
	ActToggle    = "toggle"
	ActClose     = "close"
	ActText      = "text"
	ActSingle    = "single"
	ActMulti     = "multi"
	ActToggleOpt = "toggleopt"
	ActSelectAll = "selectall"
	ActDeselect  = "deselect"
	ActSearch    = "search"
)

// Hydrate builds a table from q. Sort and filter notifications write back
// into q and reset it to the first page.
func Hydrate(columns datatable.Columns, q *listing.Query, props datatable.Props) (*datatable.Table, error) {
	props.Columns = columns
	props.PageSize = q.Limit
	props.Initial = q.Initial()
	props.OnSortChange = func(s *datatable.SortState) {
		q.Sort = s
		q.Page = listing.DefaultPage
	}
	props.OnFilterChange = func(f map[string]any) {
		q.Filters = f
		q.Page = listing.DefaultPage
	}
	table, err := datatable.New(props)
	if err != nil {
		return nil, err
	}
	q.Sort = table.Sort()
	q.Filters = table.Filters()
	syncPanel(q, table)
	return table, nil
}

func syncPanel(q *listing.Query, table *datatable.Table) {
	q.Panel, _ = table.OpenPanel()
	q.Search = table.FilterSearches()
}

// Apply runs one action against table and reports whether it was accepted.
func Apply(table *datatable.Table, values url.Values) (string, bool) {
	act := values.Get("act")
	col := values.Get("col")
	value := values.Get("value")
	switch act {
	case ActSort:
		return act, table.RequestSort(col)
	case ActToggle:
		return act, table.TogglePanel(col)
	case ActClose:
		_, open := table.OpenPanel()
		table.ClosePanel()
		return act, open
	case ActText:
		return act, table.RequestTextFilter(col, value)
	case ActSingle:
		return act, table.RequestSingleFilter(col, value)
	case ActMulti:
		return act, table.RequestMultiFilter(col, values["value"])
	case ActToggleOpt:
		return act, table.ToggleOption(col, value)
	case ActSelectAll:
		return act, table.SelectAll(col)
	case ActDeselect:
		return act, table.Deselect(col)
	case ActSearch:
		if open, ok := table.OpenPanel(); !ok || open != col {
			return act, false
		}
		table.SetFilterSearch(col, value)
		return act, true
	default:
		return act, false
	}
}
