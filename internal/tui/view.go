package tui

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"

	"github.com/odyssey-erp/backoffice/internal/datatable"
	"github.com/odyssey-erp/backoffice/internal/listing"
)

// maxPanelOptions is the number of options listed before the panel scrolls.
const maxPanelOptions = 8

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	headerStyle   = lipgloss.NewStyle().Bold(true)
	activeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	panelStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1).
			Width(panelWidth - 2)
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.table == nil {
		if m.err != nil {
			return errorStyle.Render("error: "+m.err.Error()) + "\n"
		}
		return mutedStyle.Render("loading "+m.resource.Title()+"…") + "\n"
	}
	if m.detail != nil {
		return m.detailView()
	}

	vm := m.table.View()
	doc := m.document(vm)
	visible := m.layout.visibleLines()
	start := min(m.layout.scrollY, len(doc))
	screen := doc[start:min(len(doc), start+visible)]
	for len(screen) < visible {
		screen = append(screen, "")
	}
	if vm.Panel != nil && vm.Panel.Positioned {
		screen = overlay(screen, m.renderPanel(vm.Panel), int(vm.Panel.Position.Top)-m.layout.scrollY, max(0, int(vm.Panel.Position.Left)))
	}
	screen = append(screen, m.statusBar())
	return strings.Join(screen, "\n")
}

// document renders every line of the grid before vertical scrolling. Table
// lines are cut to the container viewport.
func (m *Model) document(vm datatable.ViewModel) []string {
	lines := make([]string, 0, bodyLine+len(vm.Body.Rows))
	lines = append(lines, titleStyle.Render(m.resource.Title()))

	headers := make([]string, len(vm.Headers))
	rules := make([]string, len(vm.Headers))
	for i, h := range vm.Headers {
		headers[i] = m.headerCell(h, i)
		rules[i] = strings.Repeat("─", m.layout.widths[i])
	}
	lines = append(lines, m.clip(strings.Join(headers, " ")))
	lines = append(lines, mutedStyle.Render(m.clip(strings.Join(rules, " "))))

	if vm.Body.Empty {
		return append(lines, mutedStyle.Render(m.clip(vm.Body.EmptyMessage)))
	}
	for i, row := range vm.Body.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = fit(plain(cell.Content), m.layout.widths[j])
		}
		line := m.clip(strings.Join(cells, " "))
		if i == m.cursor {
			line = cursorStyle.Render(fit(line, m.layout.width))
		}
		lines = append(lines, line)
	}
	return lines
}

func (m *Model) headerCell(h datatable.HeaderView, i int) string {
	w := m.layout.widths[i]
	arrow := " "
	if h.Sortable {
		arrow = h.Phase.Arrow()
	}
	trigger := " "
	if h.Filterable {
		trigger = "▿"
		if h.FilterActive || h.PanelOpen {
			trigger = "▾"
		}
	}
	label := fit(h.Label, w-3)
	style := headerStyle
	if i == m.focus {
		style = style.Underline(true)
	}
	cell := style.Render(label) + arrow + " "
	if h.FilterActive {
		return cell + activeStyle.Render(trigger)
	}
	return cell + trigger
}

// clip applies the container's horizontal scroll and width.
func (m *Model) clip(line string) string {
	if m.layout.offsetX > 0 {
		line = ansi.TruncateLeft(line, m.layout.offsetX, "")
	}
	return ansi.Truncate(line, m.layout.width, "")
}

func (m *Model) renderPanel(pv *datatable.PanelView) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Filter " + pv.Label))
	b.WriteString("\n")
	b.WriteString(m.input.View())

	if pv.Mode != datatable.ModeText {
		if len(pv.Options) == 0 {
			b.WriteString("\n" + mutedStyle.Render("no matching options"))
		}
		first := 0
		if m.optCursor >= maxPanelOptions {
			first = m.optCursor - maxPanelOptions + 1
		}
		for i := first; i < min(len(pv.Options), first+maxPanelOptions); i++ {
			o := pv.Options[i]
			mark := "[ ]"
			if pv.Mode == datatable.ModeSingleSelect {
				mark = "( )"
			}
			if o.Selected {
				mark = selectedStyle.Render(strings.Replace(mark, " ", "x", 1))
			}
			line := mark + " " + fit(o.Label, panelWidth-10)
			if i == m.optCursor {
				line = cursorStyle.Render(line)
			}
			b.WriteString("\n" + line)
		}
		if pv.Mode == datatable.ModeMultiSelect {
			b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("%d/%d selected · ^a all ^d none", pv.Selected, pv.Total)))
		}
	}
	return panelStyle.Render(b.String())
}

func (m *Model) panelHeight() int {
	key, ok := m.table.OpenPanel()
	if !ok {
		return 0
	}
	vm := m.table.View()
	if vm.Panel == nil || vm.Panel.Key != key {
		return 0
	}
	return lipgloss.Height(m.renderPanel(vm.Panel))
}

func (m *Model) statusBar() string {
	meta := listing.NewMeta(m.query.Page, m.query.Limit, m.total)
	parts := []string{
		fmt.Sprintf("page %d/%d", meta.Page, meta.LastPage),
		humanize.Comma(int64(m.total)) + " " + english.PluralWord(m.total, "row", ""),
	}
	if s := m.query.Sort; s != nil {
		parts = append(parts, "sort "+s.Key+" "+strings.ToLower(string(s.Direction)))
	}
	if n := len(m.query.Filters); n > 0 {
		parts = append(parts, humanize.Comma(int64(n))+" "+english.PluralWord(n, "filter", ""))
	}
	if m.loading {
		parts = append(parts, "loading…")
	}
	bar := mutedStyle.Render(strings.Join(parts, " · ") + " · s sort · f filter · enter open · n/p page · q quit")
	if m.err != nil {
		bar = errorStyle.Render("error: "+m.err.Error()) + " " + bar
	}
	return ansi.Truncate(bar, m.layout.width, "…")
}

func (m *Model) detailView() string {
	columns := m.table.Columns()
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%s #%s", m.resource.Title(), datatable.Stringify(m.detail["id"]))))
	b.WriteString("\n\n")

	labelWidth := 0
	for _, col := range columns {
		labelWidth = max(labelWidth, ansi.StringWidth(col.Label))
	}
	for _, col := range columns {
		value := m.detail[col.Key]
		content := datatable.DefaultRender(value, m.detail)
		if col.Render != nil {
			content = col.Render(value, m.detail)
		}
		b.WriteString(headerStyle.Render(fit(col.Label, labelWidth)) + "  " + plain(content) + "\n")
	}

	known := make(map[string]bool, len(columns))
	for _, key := range columns.Keys() {
		known[key] = true
	}
	for _, key := range slices.Sorted(maps.Keys(m.detail)) {
		if known[key] {
			continue
		}
		if lines, ok := m.detail[key].([]datatable.Row); ok {
			b.WriteString("\n" + headerStyle.Render(key) + "\n")
			for _, line := range lines {
				b.WriteString("  " + describe(line) + "\n")
			}
			continue
		}
		b.WriteString(mutedStyle.Render(fit(key, labelWidth)) + "  " + datatable.Stringify(m.detail[key]) + "\n")
	}
	b.WriteString("\n" + mutedStyle.Render("esc back"))
	return b.String()
}

// describe renders a nested row as key=value pairs in key order.
func describe(row datatable.Row) string {
	parts := make([]string, 0, len(row))
	for _, key := range slices.Sorted(maps.Keys(row)) {
		parts = append(parts, key+"="+datatable.Stringify(row[key]))
	}
	return strings.Join(parts, " ")
}

// fit truncates or pads s to exactly w cells.
func fit(s string, w int) string {
	if w <= 0 {
		return ""
	}
	s = ansi.Truncate(s, w, "…")
	if pad := w - ansi.StringWidth(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

// overlay draws block over lines with its top-left corner at (row, col).
// Parts of the block outside the screen are dropped.
func overlay(lines []string, block string, row, col int) []string {
	out := slices.Clone(lines)
	for i, bl := range strings.Split(block, "\n") {
		r := row + i
		if r < 0 || r >= len(out) {
			continue
		}
		base := out[r]
		left := ansi.Truncate(base, col, "")
		if pad := col - ansi.StringWidth(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		right := ansi.TruncateLeft(base, col+ansi.StringWidth(bl), "")
		out[r] = left + bl + right
	}
	return out
}
