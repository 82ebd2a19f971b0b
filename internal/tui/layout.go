package tui

import (
	"github.com/charmbracelet/x/ansi"

	"github.com/odyssey-erp/backoffice/internal/datatable"
)

// Document lines above the first body row.
const (
	titleLine  = 0
	headerLine = 1
	bodyLine   = 3
)

const (
	minColumnWidth = 4
	maxColumnWidth = 28
	columnGap      = 1
)

// layout is the terminal geometry of one grid: the screen size, the page
// scroll and the horizontal scroll of the table container. It implements
// datatable.Geometry in cell units.
type layout struct {
	width   int
	height  int
	scrollY int
	offsetX int

	keys   []string
	starts []int
	widths []int
}

// measure sizes every column to its label and rendered cells.
func (l *layout) measure(vm datatable.ViewModel) {
	n := len(vm.Headers)
	l.keys = make([]string, n)
	l.starts = make([]int, n)
	l.widths = make([]int, n)
	x := 0
	for i, h := range vm.Headers {
		// label, sort arrow and trigger glyph
		w := ansi.StringWidth(h.Label) + 4
		for _, row := range vm.Body.Rows {
			w = max(w, ansi.StringWidth(plain(row.Cells[i].Content)))
		}
		w = min(max(w, minColumnWidth), maxColumnWidth)
		l.keys[i] = h.Key
		l.starts[i] = x
		l.widths[i] = w
		x += w + columnGap
	}
}

// tableWidth is the full width of the table before container scrolling.
func (l *layout) tableWidth() int {
	if len(l.widths) == 0 {
		return 0
	}
	last := len(l.widths) - 1
	return l.starts[last] + l.widths[last]
}

func (l *layout) maxOffsetX() int {
	return max(0, l.tableWidth()-l.width)
}

// visibleLines is the number of document lines shown above the status bar.
func (l *layout) visibleLines() int {
	return max(1, l.height-1)
}

// TriggerRect locates key's filter glyph, the last cell of its header, in
// viewport coordinates. A trigger scrolled out of the container is not
// mounted.
func (l *layout) TriggerRect(key string) (datatable.Rect, bool) {
	for i, k := range l.keys {
		if k != key {
			continue
		}
		right := l.starts[i] + l.widths[i] - l.offsetX
		if right <= 0 || right > l.width {
			return datatable.Rect{}, false
		}
		top := float64(headerLine - l.scrollY)
		return datatable.Rect{Top: top, Bottom: top + 1, Left: float64(right - 1), Right: float64(right)}, true
	}
	return datatable.Rect{}, false
}

// ScrollOffset reports the page scroll. The terminal page never scrolls
// horizontally; the table container does.
func (l *layout) ScrollOffset() (float64, float64) {
	return 0, float64(l.scrollY)
}

// columnAt returns the column under screen column x, if any.
func (l *layout) columnAt(x int) (int, bool) {
	doc := x + l.offsetX
	for i := range l.keys {
		if doc >= l.starts[i] && doc < l.starts[i]+l.widths[i] {
			return i, true
		}
	}
	return 0, false
}

// reveal adjusts offsetX so column i is fully visible. It reports whether
// the container scrolled.
func (l *layout) reveal(i int) bool {
	if i < 0 || i >= len(l.keys) || l.width <= 0 {
		return false
	}
	before := l.offsetX
	start, end := l.starts[i], l.starts[i]+l.widths[i]
	if start < l.offsetX {
		l.offsetX = start
	} else if end > l.offsetX+l.width {
		l.offsetX = min(end-l.width, start)
	}
	return l.offsetX != before
}
