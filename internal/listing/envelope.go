package listing

// Meta is the pagination block of a list response.
type Meta struct {
	Page     int `json:"page"`
	Limit    int `json:"limit"`
	Total    int `json:"total"`
	LastPage int `json:"last_page"`
}

// Envelope is the list response body: {data, meta}.
type Envelope struct {
	Data any  `json:"data"`
	Meta Meta `json:"meta"`
}

// NewMeta computes pagination metadata. An empty result still has one page.
func NewMeta(page, limit, total int) Meta {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if page <= 0 {
		page = DefaultPage
	}
	last := (total + limit - 1) / limit
	if last < 1 {
		last = 1
	}
	return Meta{Page: page, Limit: limit, Total: total, LastPage: last}
}

// HasPrev reports whether a previous page exists.
func (m Meta) HasPrev() bool { return m.Page > 1 }

// HasNext reports whether a next page exists.
func (m Meta) HasNext() bool { return m.Page < m.LastPage }

// Result is one page of typed items with the unpaged total, the unit list
// caches store.
type Result[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
