package datatable

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// normalize lower-cases a filter value. Casers keep state, so each call gets
// its own.
func normalize(s string) string {
	return cases.Lower(language.Und).String(s)
}

// FilterValue is a normalized filter: a string for text and single-select
// columns, an ordered set for multi-select columns.
type FilterValue struct {
	text  string
	set   []string
	multi bool
}

// TextValue returns a string filter value.
func TextValue(s string) FilterValue {
	return FilterValue{text: normalize(s)}
}

// SetValue returns an ordered set, normalized and de-duplicated in first-seen
// order.
func SetValue(values ...string) FilterValue {
	out := make([]string, 0, len(values))
	for _, v := range values {
		n := normalize(v)
		if n == "" || slices.Contains(out, n) {
			continue
		}
		out = append(out, n)
	}
	return FilterValue{set: out, multi: true}
}

// IsSet reports whether the value is a multi-select set.
func (v FilterValue) IsSet() bool { return v.multi }

// Text returns the string form of a text or single-select value.
func (v FilterValue) Text() string { return v.text }

// Values returns a copy of the set.
func (v FilterValue) Values() []string { return slices.Clone(v.set) }

// Contains reports set membership (or equality for string values) using the
// normalized form of value.
func (v FilterValue) Contains(value string) bool {
	n := normalize(value)
	if v.multi {
		return slices.Contains(v.set, n)
	}
	return v.text == n
}

// Empty reports whether the value carries no filter.
func (v FilterValue) Empty() bool {
	if v.multi {
		return len(v.set) == 0
	}
	return v.text == ""
}

// Export converts the value for host notifications: string or []string.
func (v FilterValue) Export() any {
	if v.multi {
		return v.Values()
	}
	return v.text
}

// FilterState maps column keys to non-empty filters, in insertion order.
type FilterState struct {
	order  []string
	values map[string]FilterValue
}

// NewFilterState returns an empty state.
func NewFilterState() *FilterState {
	return &FilterState{values: make(map[string]FilterValue)}
}

// Set stores v under key, or deletes key when v is empty.
func (s *FilterState) Set(key string, v FilterValue) {
	if v.Empty() {
		s.Delete(key)
		return
	}
	if _, ok := s.values[key]; !ok {
		s.order = append(s.order, key)
	}
	s.values[key] = v
}

// Delete removes key's filter.
func (s *FilterState) Delete(key string) {
	if _, ok := s.values[key]; !ok {
		return
	}
	delete(s.values, key)
	s.order = slices.DeleteFunc(s.order, func(k string) bool { return k == key })
}

// Get returns key's filter.
func (s *FilterState) Get(key string) (FilterValue, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Keys lists filtered columns in the order their filters were first set.
func (s *FilterState) Keys() []string {
	return slices.Clone(s.order)
}

// Len returns the number of active filters.
func (s *FilterState) Len() int {
	return len(s.order)
}

// Export returns the complete host-facing filter map.
func (s *FilterState) Export() map[string]any {
	out := make(map[string]any, len(s.order))
	for _, k := range s.order {
		out[k] = s.values[k].Export()
	}
	return out
}

func (s *FilterState) clone() *FilterState {
	cp := NewFilterState()
	for _, k := range s.order {
		cp.Set(k, s.values[k])
	}
	return cp
}

// FilterInput is a raw filter request: Text for text and single-select
// columns, Values for multi-select columns.
type FilterInput struct {
	Text   string
	Values []string
	multi  bool
}

// TextInput wraps a text or single-select request.
func TextInput(s string) FilterInput { return FilterInput{Text: s} }

// SetInput wraps a complete multi-select selection.
func SetInput(values ...string) FilterInput { return FilterInput{Values: values, multi: true} }

// FilterController owns per-column filter values and the option search text
// shown inside select panels.
type FilterController struct {
	columns  Columns
	state    *FilterState
	search   map[string]string
	panel    *Panel
	onChange func(map[string]any)
}

func newFilterController(columns Columns, panel *Panel, onChange func(map[string]any)) *FilterController {
	f := &FilterController{
		columns:  columns,
		state:    NewFilterState(),
		search:   make(map[string]string),
		panel:    panel,
		onChange: onChange,
	}
	panel.onClose = append(panel.onClose, f.clearSearch)
	return f
}

func (f *FilterController) column(key string, modes ...FilterMode) (Column, bool) {
	col, ok := f.columns.Lookup(key)
	if !ok || !col.filterable() || !slices.Contains(modes, col.FilterMode) {
		return Column{}, false
	}
	return col, true
}

// RequestTextFilter stores raw for a text column. A blank string removes the
// column's filter.
func (f *FilterController) RequestTextFilter(key, raw string) bool {
	if _, ok := f.column(key, ModeText); !ok {
		return false
	}
	if strings.TrimSpace(raw) == "" {
		f.state.Delete(key)
	} else {
		f.state.Set(key, TextValue(raw))
	}
	f.notify()
	return true
}

// RequestSingleFilter stores value for a single-select column and closes its
// panel. An empty value clears the filter.
func (f *FilterController) RequestSingleFilter(key, value string) bool {
	if _, ok := f.column(key, ModeSingleSelect); !ok {
		return false
	}
	f.state.Set(key, TextValue(value))
	if open, ok := f.panel.Open(); ok && open == key {
		f.panel.Close()
	}
	f.notify()
	return true
}

// RequestMultiFilter replaces a multi-select column's selection with values.
// An empty selection removes the filter.
func (f *FilterController) RequestMultiFilter(key string, values []string) bool {
	if _, ok := f.column(key, ModeMultiSelect); !ok {
		return false
	}
	f.state.Set(key, SetValue(values...))
	f.notify()
	return true
}

// SelectAll selects every option of a multi-select column.
func (f *FilterController) SelectAll(key string) bool {
	col, ok := f.column(key, ModeMultiSelect)
	if !ok {
		return false
	}
	values := make([]string, len(col.FilterOptions))
	for i, o := range col.FilterOptions {
		values[i] = o.Value
	}
	return f.RequestMultiFilter(key, values)
}

// Deselect clears a multi-select column's selection.
func (f *FilterController) Deselect(key string) bool {
	return f.RequestMultiFilter(key, nil)
}

// Toggle adds or removes one option from a multi-select selection.
func (f *FilterController) Toggle(key, value string) bool {
	if _, ok := f.column(key, ModeMultiSelect); !ok {
		return false
	}
	current, _ := f.state.Get(key)
	next := current.Values()
	n := normalize(value)
	if i := slices.Index(next, n); i >= 0 {
		next = slices.Delete(next, i, i+1)
	} else {
		next = append(next, n)
	}
	return f.RequestMultiFilter(key, next)
}

// RequestFilter dispatches input on the column's filter mode. Inputs whose
// shape does not match the mode are ignored.
func (f *FilterController) RequestFilter(key string, input FilterInput) bool {
	col, ok := f.columns.Lookup(key)
	if !ok || !col.filterable() {
		return false
	}
	switch {
	case col.FilterMode == ModeText && !input.multi:
		return f.RequestTextFilter(key, input.Text)
	case col.FilterMode == ModeSingleSelect && !input.multi:
		return f.RequestSingleFilter(key, input.Text)
	case col.FilterMode == ModeMultiSelect && input.multi:
		return f.RequestMultiFilter(key, input.Values)
	}
	return false
}

// Filter returns key's current filter.
func (f *FilterController) Filter(key string) (FilterValue, bool) {
	return f.state.Get(key)
}

// State exposes the live filter state.
func (f *FilterController) State() *FilterState {
	return f.state
}

// SetSearch narrows the option list of a select column's panel.
func (f *FilterController) SetSearch(key, text string) {
	if _, ok := f.column(key, ModeSingleSelect, ModeMultiSelect); !ok {
		return
	}
	if text == "" {
		delete(f.search, key)
		return
	}
	f.search[key] = text
}

// Search returns the option search text of key.
func (f *FilterController) Search(key string) string {
	return f.search[key]
}

// VisibleOptions lists key's options whose label contains the search text,
// case-insensitively.
func (f *FilterController) VisibleOptions(key string) []Option {
	col, ok := f.column(key, ModeSingleSelect, ModeMultiSelect)
	if !ok {
		return nil
	}
	needle := normalize(f.search[key])
	if needle == "" {
		return slices.Clone(col.FilterOptions)
	}
	var out []Option
	for _, o := range col.FilterOptions {
		if strings.Contains(normalize(o.Label), needle) {
			out = append(out, o)
		}
	}
	return out
}

func (f *FilterController) clearSearch(key string) {
	delete(f.search, key)
}

func (f *FilterController) notify() {
	if f.onChange != nil {
		f.onChange(f.state.Export())
	}
}

// restore hydrates filters without notifying.
func (f *FilterController) restore(filters map[string]any) {
	f.state = ParseFilters(f.columns, filters)
}

// ParseFilters converts a host-facing filter map back into filter state.
// Values are accepted as string or []string ([]any from decoded query
// strings is tolerated); entries for unknown columns or of the wrong shape
// are dropped.
func ParseFilters(columns Columns, filters map[string]any) *FilterState {
	state := NewFilterState()
	keys := make([]string, 0, len(filters))
	for k := range filters {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, key := range keys {
		col, ok := columns.Lookup(key)
		if !ok || !col.filterable() {
			continue
		}
		switch raw := filters[key].(type) {
		case string:
			if col.FilterMode == ModeMultiSelect {
				state.Set(key, SetValue(raw))
			} else if strings.TrimSpace(raw) != "" {
				state.Set(key, TextValue(raw))
			}
		case []string:
			if col.FilterMode == ModeMultiSelect {
				state.Set(key, SetValue(raw...))
			}
		case []any:
			if col.FilterMode == ModeMultiSelect {
				state.Set(key, SetValue(stringsOf(raw)...))
			}
		}
	}
	return state
}

func stringsOf(raw []any) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
