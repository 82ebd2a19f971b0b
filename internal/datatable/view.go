package datatable

// HeaderView describes one header cell.
type HeaderView struct {
	Key          string
	Label        string
	Width        string
	Sortable     bool
	Filterable   bool
	Mode         FilterMode
	Phase        SortPhase
	FilterActive bool
	PanelOpen    bool
	TriggerID    string
}

// OptionView is one option in a select panel.
type OptionView struct {
	Label    string
	Value    string
	Selected bool
}

// PanelView describes the open filter panel.
type PanelView struct {
	ID         string
	Key        string
	Label      string
	Mode       FilterMode
	Text       string
	Search     string
	Options    []OptionView
	Selected   int
	Total      int
	Width      float64
	Gap        float64
	Position   Position
	Positioned bool
}

// ViewModel is everything a host needs to draw the table.
type ViewModel struct {
	ID       string
	Headers  []HeaderView
	Panel    *PanelView
	Body     Body
	PageSize int
	Sort     *SortState
	Filters  map[string]any
}

// TriggerID returns the element id of key's filter trigger.
func (t *Table) TriggerID(key string) string {
	return t.props.ID + "-filter-" + key
}

// View snapshots the table for rendering.
func (t *Table) View() ViewModel {
	open, _ := t.panel.Open()
	vm := ViewModel{
		ID:       t.props.ID,
		Headers:  make([]HeaderView, len(t.props.Columns)),
		Body:     Project(t.Rows(), t.props.Columns, t.props.KeyField, t.props.EmptyMessage),
		PageSize: t.props.PageSize,
		Sort:     t.Sort(),
		Filters:  t.Filters(),
	}
	for i, col := range t.props.Columns {
		_, active := t.filters.Filter(col.Key)
		vm.Headers[i] = HeaderView{
			Key:          col.Key,
			Label:        col.Label,
			Width:        col.Width,
			Sortable:     col.Sortable,
			Filterable:   col.filterable(),
			Mode:         col.FilterMode,
			Phase:        t.sort.Phase(col.Key),
			FilterActive: active,
			PanelOpen:    open == col.Key,
			TriggerID:    t.TriggerID(col.Key),
		}
	}
	if open != "" {
		vm.Panel = t.panelView(open)
	}
	return vm
}

func (t *Table) panelView(key string) *PanelView {
	col, _ := t.props.Columns.Lookup(key)
	current, _ := t.filters.Filter(key)
	pv := &PanelView{
		ID:     t.props.ID + "-panel-" + key,
		Key:    key,
		Label:  col.Label,
		Mode:   col.FilterMode,
		Search: t.filters.Search(key),
		Total:  len(col.FilterOptions),
		Width:  t.positioner.Width(),
		Gap:    t.positioner.Gap(),
	}
	if col.FilterMode == ModeText {
		pv.Text = current.Text()
	} else {
		for _, o := range t.filters.VisibleOptions(key) {
			selected := !current.Empty() && current.Contains(o.Value)
			if selected {
				pv.Selected++
			}
			pv.Options = append(pv.Options, OptionView{Label: o.Label, Value: o.Value, Selected: selected})
		}
	}
	pv.Position, pv.Positioned = t.positioner.Position()
	return pv
}
