// Package listing carries grid state between the browser, the datatable
// engine and the repositories: query-string encoding, SQL clauses and the
// paginated response envelope.
package listing

import (
	"fmt"
	"maps"
	"math"
	"net/url"
	"slices"
	"strconv"
	"strings"

	qs "github.com/derekstavis/go-qs"

	"github.com/odyssey-erp/backoffice/internal/datatable"
)

// Pagination defaults.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Query is the state of one grid request.
type Query struct {
	Page    int
	Limit   int
	Sort    *datatable.SortState
	Filters map[string]any
	Panel   string
	Search  map[string]string
}

// Decode parses bracketed query parameters such as
// sort[key]=name&sort[dir]=DESC&filter[name]=am&filter[status][]=open.
func Decode(values url.Values) (Query, error) {
	q := Query{Filters: map[string]any{}, Search: map[string]string{}}
	parsed, err := qs.Unmarshal(values.Encode())
	if err != nil {
		return q, fmt.Errorf("listing: decode query: %w", err)
	}

	q.Page, _ = strconv.Atoi(str(parsed["page"]))
	q.Limit, _ = strconv.Atoi(str(parsed["limit"]))
	q.Panel = str(parsed["panel"])

	if sort, ok := parsed["sort"].(map[string]interface{}); ok {
		if key := str(sort["key"]); key != "" {
			dir := datatable.Ascending
			if strings.EqualFold(str(sort["dir"]), string(datatable.Descending)) {
				dir = datatable.Descending
			}
			q.Sort = &datatable.SortState{Key: key, Direction: dir}
		}
	}
	if filters, ok := parsed["filter"].(map[string]interface{}); ok {
		for key, raw := range filters {
			switch v := raw.(type) {
			case string:
				q.Filters[key] = v
			case []interface{}:
				q.Filters[key] = strs(v)
			}
		}
	}
	if search, ok := parsed["search"].(map[string]interface{}); ok {
		for key, raw := range search {
			if s := str(raw); s != "" {
				q.Search[key] = s
			}
		}
	}
	return q, nil
}

// Encode renders q as a canonical query string. Parameters are sorted, so
// equal states encode identically.
func Encode(q Query) string {
	return Values(q).Encode()
}

// Values renders q as url.Values, suitable for hidden form fields.
func Values(q Query) url.Values {
	v := url.Values{}
	if q.Page > DefaultPage {
		v.Set("page", strconv.Itoa(q.Page))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Sort != nil {
		v.Set("sort[key]", q.Sort.Key)
		v.Set("sort[dir]", string(q.Sort.Direction))
	}
	for _, key := range slices.Sorted(maps.Keys(q.Filters)) {
		switch f := q.Filters[key].(type) {
		case string:
			if f != "" {
				v.Set("filter["+key+"]", f)
			}
		case []string:
			for _, item := range f {
				v.Add("filter["+key+"][]", item)
			}
		}
	}
	if q.Panel != "" {
		v.Set("panel", q.Panel)
		if s := q.Search[q.Panel]; s != "" {
			v.Set("search["+q.Panel+"]", s)
		}
	}
	return v
}

// Normalize clamps paging to sane values.
func (q *Query) Normalize(defaultLimit int) {
	if defaultLimit <= 0 {
		defaultLimit = DefaultLimit
	}
	if q.Page < DefaultPage {
		q.Page = DefaultPage
	}
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	if maxPage := math.MaxInt / q.Limit; q.Page > maxPage {
		q.Page = maxPage
	}
	if q.Filters == nil {
		q.Filters = map[string]any{}
	}
	if q.Search == nil {
		q.Search = map[string]string{}
	}
}

// Offset is the row offset of the current page.
func (q Query) Offset() int {
	if q.Page <= DefaultPage || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// Initial converts q into the engine's hydration state.
func (q Query) Initial() *datatable.InitialState {
	return &datatable.InitialState{
		Sort:    q.Sort,
		Filters: q.Filters,
		Panel:   q.Panel,
		Search:  q.Search,
	}
}

// Key identifies the data-relevant part of q (no panel or option search),
// for caching.
func (q Query) Key() string {
	q.Panel = ""
	q.Search = nil
	if q.Page < DefaultPage {
		q.Page = DefaultPage
	}
	return "p=" + strconv.Itoa(q.Page) + "&" + Encode(q)
}

func str(v interface{}) string {
	s, _ := v.(string)
	return s
}

func strs(raw []interface{}) []string {
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
