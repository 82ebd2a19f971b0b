package datatable

// Direction is the order of an active sort.
type Direction string

const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

// SortState is the single active sort target. A nil *SortState means the
// table is unsorted.
type SortState struct {
	Key       string    `json:"key"`
	Direction Direction `json:"direction"`
}

// SortPhase is where a column sits in the none → ascending → descending cycle.
type SortPhase int

const (
	PhaseNone SortPhase = iota
	PhaseAscending
	PhaseDescending
)

// Arrow returns the header glyph for the phase.
func (p SortPhase) Arrow() string {
	switch p {
	case PhaseAscending:
		return "↑"
	case PhaseDescending:
		return "↓"
	default:
		return "↕"
	}
}

// SortController tracks at most one sorted column.
type SortController struct {
	columns  Columns
	state    *SortState
	onChange func(*SortState)
}

func newSortController(columns Columns, onChange func(*SortState)) *SortController {
	return &SortController{columns: columns, onChange: onChange}
}

// RequestSort advances the cycle for key and notifies the host. It reports
// false, without notifying, when the column is unknown or not sortable.
func (s *SortController) RequestSort(key string) bool {
	col, ok := s.columns.Lookup(key)
	if !ok || !col.Sortable {
		return false
	}
	switch {
	case s.state == nil || s.state.Key != key:
		s.state = &SortState{Key: key, Direction: Ascending}
	case s.state.Direction == Ascending:
		s.state = &SortState{Key: key, Direction: Descending}
	default:
		s.state = nil
	}
	if s.onChange != nil {
		s.onChange(s.State())
	}
	return true
}

// State returns a copy of the active sort, or nil.
func (s *SortController) State() *SortState {
	if s.state == nil {
		return nil
	}
	cp := *s.state
	return &cp
}

// Phase reports the sort phase of key.
func (s *SortController) Phase(key string) SortPhase {
	if s.state == nil || s.state.Key != key {
		return PhaseNone
	}
	if s.state.Direction == Descending {
		return PhaseDescending
	}
	return PhaseAscending
}

// restore sets the state without notifying. Unknown or unsortable targets
// leave the table unsorted.
func (s *SortController) restore(state *SortState) {
	s.state = nil
	if state == nil {
		return
	}
	col, ok := s.columns.Lookup(state.Key)
	if !ok || !col.Sortable {
		return
	}
	dir := Ascending
	if state.Direction == Descending {
		dir = Descending
	}
	s.state = &SortState{Key: state.Key, Direction: dir}
}
