// Package tui is a terminal host for the datatable engine: a bubbletea
// program browsing one grid resource with sorting, filter panels and row
// details.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/odyssey-erp/backoffice/internal/datatable"
	"github.com/odyssey-erp/backoffice/internal/gridpage"
	"github.com/odyssey-erp/backoffice/internal/listing"
)

// panelWidth is the filter panel width in cells.
const panelWidth = 34

const (
	defaultTimeout = 10 * time.Second
	scrollStep     = 8
)

// Options configures a Model.
type Options struct {
	Resource gridpage.Resource
	PageSize int
	Logger   *slog.Logger
	// Timeout bounds each resource call.
	Timeout time.Duration
}

type columnsMsg struct {
	columns datatable.Columns
	err     error
}

type pageMsg struct {
	seq  int
	page gridpage.Page
	err  error
}

type detailMsg struct {
	row datatable.Row
	err error
}

// Model is the bubbletea model of the grid browser.
type Model struct {
	resource gridpage.Resource
	logger   *slog.Logger
	timeout  time.Duration
	pageSize int

	bus    *datatable.EventBus
	layout *layout
	table  *datatable.Table

	query   listing.Query
	total   int
	seq     int
	loading bool
	dirty   bool
	err     error

	focus     int
	cursor    int
	optCursor int
	input     textinput.Model

	openRow  string
	detail   datatable.Row
	quitting bool
}

// New builds a model. The table is created once the resource's columns have
// loaded.
func New(opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	input := textinput.New()
	input.Prompt = "› "
	input.CharLimit = 64
	input.Width = panelWidth - 8
	_ = input.Cursor.SetMode(cursor.CursorStatic)

	q := listing.Query{}
	q.Normalize(opts.PageSize)
	return &Model{
		resource: opts.Resource,
		logger:   logger.With(slog.String("resource", opts.Resource.Name())),
		timeout:  timeout,
		pageSize: q.Limit,
		bus:      datatable.NewEventBus(),
		layout:   &layout{width: 80, height: 24},
		query:    q,
		input:    input,
	}
}

// Init loads the columns.
func (m *Model) Init() tea.Cmd {
	return m.loadColumns
}

func (m *Model) loadColumns() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	columns, err := m.resource.Columns(ctx)
	return columnsMsg{columns: columns, err: err}
}

// fetch requests the current page. Only the response to the latest request
// is applied.
func (m *Model) fetch() tea.Cmd {
	m.seq++
	m.loading = true
	m.dirty = false
	seq, q, resource, timeout := m.seq, m.query, m.resource, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		page, err := resource.List(ctx, q)
		return pageMsg{seq: seq, page: page, err: err}
	}
}

func (m *Model) fetchDetail(id string) tea.Cmd {
	resource, timeout := m.resource, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		row, err := resource.Get(ctx, id)
		return detailMsg{row: row, err: err}
	}
}

func (m *Model) buildTable(columns datatable.Columns) error {
	table, err := datatable.New(datatable.Props{
		ID:           "tui-" + m.resource.Name(),
		Columns:      columns,
		KeyField:     "id",
		PageSize:     m.pageSize,
		Geometry:     m.layout,
		Events:       m.bus,
		Panel:        &datatable.PositionerConfig{Gap: 0, Width: panelWidth},
		EmptyMessage: "No " + m.resource.Title() + " to show",
		Logger:       m.logger,
		OnSortChange: func(s *datatable.SortState) {
			m.query.Sort = s
			m.query.Page = listing.DefaultPage
			m.dirty = true
		},
		OnFilterChange: func(f map[string]any) {
			m.query.Filters = f
			m.query.Page = listing.DefaultPage
			m.dirty = true
		},
		OnRowClick: func(row datatable.Row) {
			m.openRow = datatable.Stringify(row["id"])
		},
	})
	if err != nil {
		return err
	}
	m.table = table
	m.layout.measure(table.View())
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case columnsMsg:
		if msg.err != nil {
			m.err = msg.err
			m.logger.Error("load columns", slog.Any("error", msg.err))
			return m, nil
		}
		if err := m.buildTable(msg.columns); err != nil {
			m.err = err
			m.logger.Error("build table", slog.Any("error", err))
			return m, nil
		}
		return m, m.fetch()

	case pageMsg:
		if msg.seq != m.seq {
			m.logger.Debug("dropping stale page", slog.Int("seq", msg.seq), slog.Int("latest", m.seq))
			return m, nil
		}
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			m.logger.Error("list page", slog.Any("error", msg.err))
			return m, nil
		}
		m.total = msg.page.Total
		m.table.SetRows(msg.page.Rows)
		m.cursor = min(m.cursor, max(0, len(msg.page.Rows)-1))
		m.layout.measure(m.table.View())
		m.table.Positioner().Recompute()
		return m, nil

	case detailMsg:
		if msg.err != nil {
			m.err = msg.err
			m.logger.Warn("load row", slog.Any("error", msg.err))
			return m, nil
		}
		m.detail = msg.row
		return m, nil

	case tea.WindowSizeMsg:
		m.layout.width = msg.Width
		m.layout.height = msg.Height
		m.layout.offsetX = min(m.layout.offsetX, m.layout.maxOffsetX())
		m.clampScroll()
		m.bus.Emit(datatable.EventResize)
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, m.flush()

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.table == nil {
			if msg.String() == "q" {
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
		if m.detail != nil {
			switch msg.String() {
			case "esc", "enter", "q":
				m.detail = nil
			}
			return m, nil
		}
		if _, open := m.table.OpenPanel(); open {
			m.handlePanelKey(msg)
			return m, m.flush()
		}
		if cmd := m.handleGridKey(msg); cmd != nil {
			return m, cmd
		}
		return m, m.flush()
	}
	return m, nil
}

// flush turns state changes recorded by the table callbacks into commands.
func (m *Model) flush() tea.Cmd {
	var cmds []tea.Cmd
	if m.dirty {
		cmds = append(cmds, m.fetch())
	}
	if m.openRow != "" {
		cmds = append(cmds, m.fetchDetail(m.openRow))
		m.openRow = ""
	}
	switch len(cmds) {
	case 0:
		return nil
	case 1:
		return cmds[0]
	default:
		return tea.Batch(cmds...)
	}
}

func (m *Model) focusedKey() string {
	cols := m.table.Columns()
	return cols[m.focus].Key
}

func (m *Model) handleGridKey(msg tea.KeyMsg) tea.Cmd {
	rows := len(m.table.Rows())
	switch msg.String() {
	case "q":
		m.quitting = true
		return tea.Quit
	case "left", "h":
		m.setFocus(m.focus - 1)
	case "right", "l":
		m.setFocus(m.focus + 1)
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.revealCursor()
		}
	case "down", "j":
		if m.cursor < rows-1 {
			m.cursor++
			m.revealCursor()
		}
	case "s":
		m.table.RequestSort(m.focusedKey())
	case "f":
		if m.table.TogglePanel(m.focusedKey()) {
			m.openPanelInput()
		}
	case "enter":
		m.table.ClickRow(m.cursor)
	case "n":
		if listing.NewMeta(m.query.Page, m.query.Limit, m.total).HasNext() {
			m.query.Page++
			m.cursor = 0
			return m.fetch()
		}
	case "p":
		if m.query.Page > listing.DefaultPage {
			m.query.Page--
			m.cursor = 0
			return m.fetch()
		}
	case "r":
		return m.fetch()
	case "pgdown", " ":
		m.scrollBy(m.layout.visibleLines() - 1)
	case "pgup":
		m.scrollBy(-(m.layout.visibleLines() - 1))
	case "]", "shift+right":
		m.scrollContainer(scrollStep)
	case "[", "shift+left":
		m.scrollContainer(-scrollStep)
	}
	return nil
}

func (m *Model) handlePanelKey(msg tea.KeyMsg) {
	key, _ := m.table.OpenPanel()
	col, _ := m.table.Columns().Lookup(key)
	switch msg.String() {
	case "esc":
		m.table.Escape()
		m.input.Blur()
		return
	}

	if col.FilterMode == datatable.ModeText {
		before := m.input.Value()
		m.input, _ = m.input.Update(msg)
		if v := m.input.Value(); v != before {
			m.table.RequestTextFilter(key, v)
		}
		return
	}

	options := m.table.VisibleOptions(key)
	switch msg.String() {
	case "up":
		m.optCursor = max(0, m.optCursor-1)
	case "down":
		m.optCursor = min(max(0, len(options)-1), m.optCursor+1)
	case "enter", "tab":
		if m.optCursor < len(options) {
			value := options[m.optCursor].Value
			if col.FilterMode == datatable.ModeSingleSelect {
				m.table.RequestSingleFilter(key, value)
				m.input.Blur()
			} else {
				m.table.ToggleOption(key, value)
			}
		}
	case "ctrl+a":
		m.table.SelectAll(key)
	case "ctrl+d":
		m.table.Deselect(key)
	default:
		before := m.input.Value()
		m.input, _ = m.input.Update(msg)
		if v := m.input.Value(); v != before {
			m.table.SetFilterSearch(key, v)
			m.optCursor = 0
		}
	}
}

func (m *Model) openPanelInput() {
	key, open := m.table.OpenPanel()
	if !open {
		m.input.Blur()
		return
	}
	col, _ := m.table.Columns().Lookup(key)
	m.optCursor = 0
	if col.FilterMode == datatable.ModeText {
		current, _ := m.table.Filter(key)
		m.input.Placeholder = "contains…"
		m.input.SetValue(current.Text())
	} else {
		m.input.Placeholder = "search options"
		m.input.SetValue(m.table.FilterSearch(key))
	}
	m.input.CursorEnd()
	_ = m.input.Focus()
}

func (m *Model) setFocus(i int) {
	n := len(m.table.Columns())
	if i < 0 || i >= n {
		return
	}
	m.focus = i
	if m.layout.reveal(i) {
		m.bus.Emit(datatable.EventContainerScroll)
	}
}

func (m *Model) scrollContainer(delta int) {
	next := min(max(0, m.layout.offsetX+delta), m.layout.maxOffsetX())
	if next == m.layout.offsetX {
		return
	}
	m.layout.offsetX = next
	m.bus.Emit(datatable.EventContainerScroll)
}

func (m *Model) scrollBy(delta int) {
	before := m.layout.scrollY
	m.layout.scrollY += delta
	m.clampScroll()
	if m.layout.scrollY != before {
		m.bus.Emit(datatable.EventWindowScroll)
	}
}

func (m *Model) clampScroll() {
	maxScroll := max(0, m.documentLines()-m.layout.visibleLines())
	m.layout.scrollY = min(max(0, m.layout.scrollY), maxScroll)
}

// revealCursor scrolls the page so the cursor row stays visible.
func (m *Model) revealCursor() {
	line := bodyLine + m.cursor
	visible := m.layout.visibleLines()
	switch {
	case line < m.layout.scrollY:
		m.scrollBy(line - m.layout.scrollY)
	case line >= m.layout.scrollY+visible:
		m.scrollBy(line - (m.layout.scrollY + visible) + 1)
	}
}

func (m *Model) documentLines() int {
	if m.table == nil {
		return 1
	}
	rows := len(m.table.Rows())
	if rows == 0 {
		rows = 1
	}
	return bodyLine + rows
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	if m.table == nil || m.detail != nil {
		return
	}
	switch msg.Button {
	case tea.MouseButtonWheelDown:
		m.scrollBy(3)
		return
	case tea.MouseButtonWheelUp:
		m.scrollBy(-3)
		return
	case tea.MouseButtonWheelRight:
		m.scrollContainer(scrollStep)
		return
	case tea.MouseButtonWheelLeft:
		m.scrollContainer(-scrollStep)
		return
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}

	hit := m.hitTest(msg.X, msg.Y)
	m.table.OutsideClick(hit)
	switch hit.Kind {
	case datatable.HitTrigger:
		if m.table.TogglePanel(hit.Key) {
			m.openPanelInput()
		}
	case datatable.HitElsewhere:
		m.input.Blur()
		line := msg.Y + m.layout.scrollY
		if line == headerLine {
			if i, ok := m.layout.columnAt(msg.X); ok {
				m.focus = i
				m.table.RequestSort(m.layout.keys[i])
			}
		} else if idx := line - bodyLine; idx >= 0 && idx < len(m.table.Rows()) {
			m.cursor = idx
		}
	}
}

// hitTest classifies a press at screen cell (x, y).
func (m *Model) hitTest(x, y int) datatable.Hit {
	if key, open := m.table.OpenPanel(); open {
		if pos, placed := m.table.PanelPosition(); placed {
			top, left := int(pos.Top)-m.layout.scrollY, max(0, int(pos.Left))
			if x >= left && x < left+panelWidth && y >= top && y < top+m.panelHeight() {
				return datatable.Hit{Kind: datatable.HitPanel, Key: key}
			}
		}
	}
	for _, key := range m.layout.keys {
		rect, ok := m.layout.TriggerRect(key)
		if ok && y == int(rect.Top) && x == int(rect.Left) {
			return datatable.Hit{Kind: datatable.HitTrigger, Key: key}
		}
	}
	return datatable.Hit{Kind: datatable.HitElsewhere}
}

// Query returns the grid state the model last requested.
func (m *Model) Query() listing.Query {
	return m.query
}

// Table exposes the hosted table once columns have loaded.
func (m *Model) Table() *datatable.Table {
	return m.table
}
