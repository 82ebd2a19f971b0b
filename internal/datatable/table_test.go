package datatable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableScenario(t *testing.T) {
	var sorts []*SortState
	var filters []map[string]any
	table, err := New(Props{
		Columns:        Columns{{Key: "name", Label: "Name", Sortable: true, Filterable: true, FilterMode: ModeText}},
		Rows:           []Row{{"id": 1, "name": "Zed"}, {"id": 2, "name": "Amy"}},
		KeyField:       "id",
		OnSortChange:   func(s *SortState) { sorts = append(sorts, s) },
		OnFilterChange: func(f map[string]any) { filters = append(filters, f) },
	})
	require.NoError(t, err)

	table.RequestSort("name")
	table.RequestFilter("name", TextInput("am"))

	require.Len(t, sorts, 1)
	assert.Equal(t, &SortState{Key: "name", Direction: Ascending}, sorts[0])
	require.Len(t, filters, 1)
	assert.Equal(t, map[string]any{"name": "am"}, filters[0])

	// Callbacks are wired, so rows render exactly as supplied.
	body := table.View().Body
	require.Len(t, body.Rows, 2)
	assert.Equal(t, "1", body.Rows[0].Key)
}

func TestNewRejectsInvalidColumns(t *testing.T) {
	_, err := New(Props{Columns: Columns{{Key: "a"}}})
	require.ErrorIs(t, err, ErrInvalidColumns)
}

func TestTableLocalFallback(t *testing.T) {
	rows := []Row{
		{"id": 1, "name": "Zed", "price": 30},
		{"id": 2, "name": "amy", "price": 5},
		{"id": 3, "name": "Bob", "price": 12.5},
	}
	cols := Columns{
		{Key: "name", Label: "Name", Sortable: true, Filterable: true, FilterMode: ModeText},
		{Key: "price", Label: "Price", Sortable: true},
	}

	table, err := New(Props{Columns: cols, Rows: rows, LocalFallback: true})
	require.NoError(t, err)

	table.RequestSort("price")
	assert.Equal(t, []any{2, 3, 1}, ids(table.Rows()))

	table.RequestSort("name")
	assert.Equal(t, []any{2, 3, 1}, ids(table.Rows()))
	table.RequestSort("name")
	assert.Equal(t, []any{1, 3, 2}, ids(table.Rows()))

	table.RequestTextFilter("name", "B")
	assert.Equal(t, []any{3}, ids(table.Rows()))
	assert.Len(t, rows, 3)
}

func TestTableWithoutCallbacksRendersRowsAsSupplied(t *testing.T) {
	rows := []Row{{"id": 1, "name": "Zed"}, {"id": 2, "name": "Amy"}}
	table, err := New(Props{Columns: Columns{{Key: "name", Label: "Name", Sortable: true}}, Rows: rows})
	require.NoError(t, err)

	table.RequestSort("name")
	assert.Equal(t, []any{1, 2}, ids(table.Rows()))
}

func TestTableInitialStateDoesNotNotify(t *testing.T) {
	calls := 0
	table, err := New(Props{
		Columns:        filterColumns(),
		OnFilterChange: func(map[string]any) { calls++ },
		Initial: &InitialState{
			Filters: map[string]any{"status": "Draft", "tags": []string{"1"}},
			Panel:   "tags",
			Search:  map[string]string{"tags": "o", "status": "dropped"},
		},
	})
	require.NoError(t, err)

	assert.Zero(t, calls)
	assert.Equal(t, map[string]any{"status": "draft", "tags": []string{"1"}}, table.Filters())
	key, open := table.OpenPanel()
	assert.True(t, open)
	assert.Equal(t, "tags", key)
	assert.Equal(t, map[string]string{"tags": "o"}, table.FilterSearches())
}

func TestTableCloneReportsToOwnCallbacks(t *testing.T) {
	origCalls := 0
	table, err := New(Props{
		Columns:      sortColumns(),
		OnSortChange: func(*SortState) { origCalls++ },
	})
	require.NoError(t, err)
	table.RequestSort("name")

	var previewed *SortState
	clone := table.Clone(Callbacks{OnSortChange: func(s *SortState) { previewed = s }})
	clone.RequestSort("name")

	assert.Equal(t, &SortState{Key: "name", Direction: Descending}, previewed)
	assert.Equal(t, &SortState{Key: "name", Direction: Ascending}, table.Sort())
	assert.Equal(t, 1, origCalls)
}

func TestTableViewModel(t *testing.T) {
	geo := &fakeGeometry{rects: map[string]Rect{}}
	bus := NewEventBus()
	table, err := New(Props{ID: "grid", Columns: filterColumns(), Geometry: geo, Events: bus})
	require.NoError(t, err)
	geo.rects["status"] = Rect{Right: 400, Bottom: 50}

	table.RequestSingleFilter("status", "closed")
	table.TogglePanel("status")
	table.SetFilterSearch("status", "cl")

	vm := table.View()
	assert.Equal(t, "grid", vm.ID)
	require.Len(t, vm.Headers, 4)
	status := vm.Headers[1]
	assert.True(t, status.FilterActive)
	assert.True(t, status.PanelOpen)
	assert.Equal(t, "grid-filter-status", status.TriggerID)
	assert.False(t, vm.Headers[3].Filterable)

	require.NotNil(t, vm.Panel)
	assert.Equal(t, "status", vm.Panel.Key)
	assert.Equal(t, []OptionView{
		{Label: "Closed", Value: "closed", Selected: true},
	}, vm.Panel.Options)
	assert.True(t, vm.Panel.Positioned)
	assert.Equal(t, Position{Top: 50 + PanelGap, Left: 400 - PanelWidth}, vm.Panel.Position)
	assert.True(t, vm.Body.Empty)
}

func TestTableUnmountReleasesListeners(t *testing.T) {
	bus := NewEventBus()
	table, err := New(Props{Columns: filterColumns(), Geometry: &fakeGeometry{}, Events: bus})
	require.NoError(t, err)

	table.TogglePanel("name")
	assert.Equal(t, 1, bus.Listeners(EventWindowScroll))
	table.Unmount()
	for _, kind := range trackedEvents {
		assert.Zero(t, bus.Listeners(kind))
	}
}

func TestTableClickRow(t *testing.T) {
	var clicked Row
	table, err := New(Props{
		Columns:    sortColumns(),
		Rows:       []Row{{"id": 1}, {"id": 2}},
		OnRowClick: func(r Row) { clicked = r },
	})
	require.NoError(t, err)

	assert.True(t, table.ClickRow(1))
	assert.Equal(t, 2, clicked["id"])
	assert.False(t, table.ClickRow(5))
}

func ids(rows []Row) []any {
	out := make([]any, len(rows))
	for i, r := range rows {
		out[i] = r["id"]
	}
	return out
}
