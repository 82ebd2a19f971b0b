package datatable

import (
	"log/slog"
	"maps"

	"github.com/google/uuid"
)

// InitialState hydrates a table, typically from a request URL on stateless
// hosts. Hydration never notifies.
type InitialState struct {
	Sort    *SortState
	Filters map[string]any
	Panel   string
	Search  map[string]string
}

// Callbacks are the host notifications of a table.
type Callbacks struct {
	OnSortChange   func(*SortState)
	OnFilterChange func(map[string]any)
	OnRowClick     func(Row)
}

// Props configures a table instance.
type Props struct {
	ID       string
	Rows     []Row
	Columns  Columns
	KeyField string
	// PageSize is a display hint; the engine does not paginate.
	PageSize int

	OnRowClick     func(Row)
	OnSortChange   func(*SortState)
	OnFilterChange func(map[string]any)

	Geometry Geometry
	Events   EventSource
	Panel    *PositionerConfig

	Initial *InitialState
	// LocalFallback filters and sorts Rows in memory for whichever of
	// OnSortChange and OnFilterChange is not wired. Without it rows render
	// exactly as supplied.
	LocalFallback bool
	EmptyMessage  string
	Logger        *slog.Logger
}

// Table is one grid instance. It is not safe for concurrent use.
type Table struct {
	props      Props
	rows       []Row
	sort       *SortController
	filters    *FilterController
	panel      *Panel
	positioner *Positioner
	logger     *slog.Logger
}

// New validates the columns and builds a table with empty interaction state,
// or the state given by props.Initial.
func New(props Props) (*Table, error) {
	if err := props.Columns.Validate(); err != nil {
		return nil, err
	}
	if props.ID == "" {
		props.ID = uuid.NewString()
	}
	if props.KeyField == "" {
		props.KeyField = "id"
	}
	logger := props.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cfg := DefaultPositionerConfig()
	if props.Panel != nil {
		cfg = *props.Panel
	}

	t := &Table{props: props, rows: props.Rows, logger: logger.With(slog.String("table", props.ID))}
	t.positioner = NewPositioner(props.Geometry, props.Events, cfg)
	t.panel = newPanel(props.Columns, t.positioner)
	t.sort = newSortController(props.Columns, t.emitSort)
	t.filters = newFilterController(props.Columns, t.panel, t.emitFilter)

	if init := props.Initial; init != nil {
		t.sort.restore(init.Sort)
		t.filters.restore(init.Filters)
		if init.Panel != "" && t.panel.Toggle(init.Panel) {
			t.filters.SetSearch(init.Panel, init.Search[init.Panel])
		}
	}
	return t, nil
}

func (t *Table) emitSort(s *SortState) {
	if s == nil {
		t.logger.Debug("sort cleared")
	} else {
		t.logger.Debug("sort changed", slog.String("key", s.Key), slog.String("direction", string(s.Direction)))
	}
	if t.props.OnSortChange != nil {
		t.props.OnSortChange(s)
	}
}

func (t *Table) emitFilter(filters map[string]any) {
	t.logger.Debug("filters changed", slog.Int("active", len(filters)))
	if t.props.OnFilterChange != nil {
		t.props.OnFilterChange(filters)
	}
}

// ID returns the instance id used to namespace triggers and panels.
func (t *Table) ID() string { return t.props.ID }

// Columns returns the column registry.
func (t *Table) Columns() Columns { return t.props.Columns }

// PageSize returns the host's page size hint.
func (t *Table) PageSize() int { return t.props.PageSize }

// SetRows replaces the rows, typically in response to a notification.
func (t *Table) SetRows(rows []Row) { t.rows = rows }

// Rows returns the rows to display, after the local fallback if enabled.
func (t *Table) Rows() []Row {
	if !t.props.LocalFallback {
		return t.rows
	}
	var sort *SortState
	if t.props.OnSortChange == nil {
		sort = t.sort.State()
	}
	var filters *FilterState
	if t.props.OnFilterChange == nil {
		filters = t.filters.State()
	}
	if sort == nil && filters == nil {
		return t.rows
	}
	return ApplyLocal(t.rows, t.props.Columns, sort, filters)
}

// ClickRow notifies the host of a click on the displayed row at index.
func (t *Table) ClickRow(index int) bool {
	rows := t.Rows()
	if t.props.OnRowClick == nil || index < 0 || index >= len(rows) {
		return false
	}
	t.props.OnRowClick(rows[index])
	return true
}

// RequestSort advances key's sort phase.
func (t *Table) RequestSort(key string) bool { return t.sort.RequestSort(key) }

// Sort returns the active sort, or nil.
func (t *Table) Sort() *SortState { return t.sort.State() }

// SortPhase returns key's sort phase.
func (t *Table) SortPhase(key string) SortPhase { return t.sort.Phase(key) }

// RequestFilter applies input to key according to its filter mode.
func (t *Table) RequestFilter(key string, input FilterInput) bool {
	return t.filters.RequestFilter(key, input)
}

// RequestTextFilter sets a text column's filter.
func (t *Table) RequestTextFilter(key, raw string) bool { return t.filters.RequestTextFilter(key, raw) }

// RequestSingleFilter selects a single-select value and closes the panel.
func (t *Table) RequestSingleFilter(key, value string) bool {
	return t.filters.RequestSingleFilter(key, value)
}

// RequestMultiFilter replaces a multi-select selection.
func (t *Table) RequestMultiFilter(key string, values []string) bool {
	return t.filters.RequestMultiFilter(key, values)
}

// ToggleOption flips one option of a multi-select selection.
func (t *Table) ToggleOption(key, value string) bool { return t.filters.Toggle(key, value) }

// SelectAll selects every option of a multi-select column.
func (t *Table) SelectAll(key string) bool { return t.filters.SelectAll(key) }

// Deselect clears a multi-select column.
func (t *Table) Deselect(key string) bool { return t.filters.Deselect(key) }

// Filter returns key's current filter.
func (t *Table) Filter(key string) (FilterValue, bool) { return t.filters.Filter(key) }

// Filters returns the complete host-facing filter map.
func (t *Table) Filters() map[string]any { return t.filters.State().Export() }

// SetFilterSearch narrows the options listed in key's panel.
func (t *Table) SetFilterSearch(key, text string) { t.filters.SetSearch(key, text) }

// FilterSearch returns key's option search text.
func (t *Table) FilterSearch(key string) string { return t.filters.Search(key) }

// FilterSearches returns every non-empty option search.
func (t *Table) FilterSearches() map[string]string { return maps.Clone(t.filters.search) }

// VisibleOptions lists key's options narrowed by its search text.
func (t *Table) VisibleOptions(key string) []Option { return t.filters.VisibleOptions(key) }

// TogglePanel opens or closes key's filter panel.
func (t *Table) TogglePanel(key string) bool { return t.panel.Toggle(key) }

// ClosePanel closes any open panel.
func (t *Table) ClosePanel() { t.panel.Close() }

// OutsideClick closes the panel unless hit belongs to it.
func (t *Table) OutsideClick(hit Hit) { t.panel.OutsideClick(hit) }

// Escape closes the panel.
func (t *Table) Escape() { t.panel.Escape() }

// OpenPanel returns the key of the open panel.
func (t *Table) OpenPanel() (string, bool) { return t.panel.Open() }

// PanelPosition returns the open panel's anchor when it can be drawn.
func (t *Table) PanelPosition() (Position, bool) { return t.positioner.Position() }

// Positioner exposes the panel positioner.
func (t *Table) Positioner() *Positioner { return t.positioner }

// Unmount closes the panel and releases its listeners.
func (t *Table) Unmount() { t.panel.Close() }

// Clone copies the interaction state into a detached table that reports to
// cb. The clone has no geometry or event source; hosts use it to preview the
// outcome of an interaction.
func (t *Table) Clone(cb Callbacks) *Table {
	props := t.props
	props.Geometry = nil
	props.Events = nil
	props.OnSortChange = cb.OnSortChange
	props.OnFilterChange = cb.OnFilterChange
	props.OnRowClick = cb.OnRowClick
	props.Initial = nil

	c := &Table{props: props, rows: t.rows, logger: t.logger}
	cfg := PositionerConfig{Gap: t.positioner.gap, Width: t.positioner.width}
	c.positioner = NewPositioner(nil, nil, cfg)
	c.panel = newPanel(props.Columns, c.positioner)
	c.sort = newSortController(props.Columns, c.emitSort)
	c.sort.state = t.sort.State()
	c.filters = newFilterController(props.Columns, c.panel, c.emitFilter)
	c.filters.state = t.filters.state.clone()
	c.filters.search = maps.Clone(t.filters.search)
	if key, ok := t.panel.Open(); ok {
		c.panel.open = key
		c.positioner.Open(key)
	}
	return c
}
