package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/backoffice/internal/datatable"
)

func measuredLayout(t *testing.T, width int) *layout {
	t.Helper()
	table, err := datatable.New(datatable.Props{
		Columns: datatable.Columns{
			{Key: "id", Label: "ID"},
			{Key: "name", Label: "Name"},
			{Key: "status", Label: "Status"},
		},
		Rows: []datatable.Row{
			{"id": 1, "name": "Alpha Widget", "status": "open"},
			{"id": 2, "name": "<b>Beta</b>", "status": "closed"},
		},
	})
	require.NoError(t, err)
	l := &layout{width: width, height: 10}
	l.measure(table.View())
	return l
}

func TestLayoutMeasure(t *testing.T) {
	l := measuredLayout(t, 80)

	assert.Equal(t, []string{"id", "name", "status"}, l.keys)
	assert.Equal(t, []int{6, 12, 10}, l.widths)
	assert.Equal(t, []int{0, 7, 20}, l.starts)
	assert.Equal(t, 30, l.tableWidth())
	assert.Zero(t, l.maxOffsetX())
}

func TestLayoutClampsWideColumns(t *testing.T) {
	table, err := datatable.New(datatable.Props{
		Columns: datatable.Columns{{Key: "note", Label: "Note"}},
		Rows:    []datatable.Row{{"note": strings.Repeat("x", 60)}},
	})
	require.NoError(t, err)
	l := &layout{width: 80}
	l.measure(table.View())
	assert.Equal(t, []int{maxColumnWidth}, l.widths)
}

func TestLayoutTriggerRect(t *testing.T) {
	l := measuredLayout(t, 80)

	rect, ok := l.TriggerRect("name")
	require.True(t, ok)
	assert.Equal(t, datatable.Rect{Top: 1, Bottom: 2, Left: 18, Right: 19}, rect)

	l.scrollY = 3
	rect, ok = l.TriggerRect("name")
	require.True(t, ok)
	assert.Equal(t, float64(-2), rect.Top)
	x, y := l.ScrollOffset()
	assert.Zero(t, x)
	assert.Equal(t, float64(3), y)

	_, ok = l.TriggerRect("missing")
	assert.False(t, ok)
}

func TestLayoutTriggerScrolledOutOfContainer(t *testing.T) {
	l := measuredLayout(t, 25)

	_, ok := l.TriggerRect("status")
	assert.False(t, ok, "right edge past the container")

	l.offsetX = 10
	rect, ok := l.TriggerRect("name")
	require.True(t, ok)
	assert.Equal(t, float64(8), rect.Left)
	_, ok = l.TriggerRect("id")
	assert.False(t, ok, "scrolled off the left edge")
}

func TestLayoutReveal(t *testing.T) {
	l := measuredLayout(t, 25)
	assert.Equal(t, 5, l.maxOffsetX())

	assert.True(t, l.reveal(2))
	assert.Equal(t, 5, l.offsetX)
	assert.False(t, l.reveal(2))

	assert.True(t, l.reveal(0))
	assert.Zero(t, l.offsetX)
	assert.False(t, l.reveal(9))
}

func TestLayoutColumnAt(t *testing.T) {
	l := measuredLayout(t, 80)

	i, ok := l.columnAt(8)
	require.True(t, ok)
	assert.Equal(t, 1, i)

	_, ok = l.columnAt(6)
	assert.False(t, ok, "gap between columns")

	l.offsetX = 7
	i, ok = l.columnAt(0)
	require.True(t, ok)
	assert.Equal(t, 1, i)
}

func TestPlain(t *testing.T) {
	assert.Equal(t, "Beta & Co", plain(`<span class="badge"><b>Beta</b>  &amp; Co</span>`))
	assert.Equal(t, "", plain(""))
}

func TestFitAndOverlay(t *testing.T) {
	assert.Equal(t, "ab  ", fit("ab", 4))
	assert.Equal(t, "abc…", fit("abcdef", 4))

	out := overlay([]string{"0123456789", "abc"}, "XY\nZW", 0, 5)
	assert.Equal(t, []string{"01234XY789", "abc  ZW"}, out)
	assert.Equal(t, []string{"B123"}, overlay([]string{"0123"}, "A\nB", -1, 0))
}
