package datatable

import (
	"html/template"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectEmptyRowsRendersPlaceholder(t *testing.T) {
	cols := sortColumns()
	for _, rows := range [][]Row{nil, {}} {
		body := Project(rows, cols, "id", "")
		assert.True(t, body.Empty)
		assert.Nil(t, body.Rows)
		assert.Equal(t, len(cols), body.ColSpan)
		assert.Equal(t, DefaultEmptyMessage, body.EmptyMessage)
	}
}

func TestProjectNonEmptyNeverRendersPlaceholder(t *testing.T) {
	body := Project([]Row{{"id": 1, "name": "Zed"}}, sortColumns(), "id", "Nothing here")
	assert.False(t, body.Empty)
	require.Len(t, body.Rows, 1)
	assert.Equal(t, "1", body.Rows[0].Key)
}

func TestProjectUsesRenderOrDefault(t *testing.T) {
	cols := Columns{
		{Key: "name", Label: "Name", Render: func(v any, row Row) template.HTML {
			return template.HTML("<b>" + template.HTMLEscapeString(Stringify(v)) + "</b>")
		}},
		{Key: "note", Label: "Note"},
		{Key: "price", Label: "Price", Width: "8rem"},
	}
	var missing *string
	body := Project([]Row{{"id": 7, "name": "A&B", "note": nil, "price": 12.5, "ptr": missing}}, cols, "id", "")

	cells := body.Rows[0].Cells
	assert.Equal(t, template.HTML("<b>A&amp;B</b>"), cells[0].Content)
	assert.Equal(t, template.HTML(""), cells[1].Content)
	assert.Equal(t, template.HTML("12.5"), cells[2].Content)
	assert.Equal(t, "8rem", cells[2].Width)
}

func TestProjectFallsBackToIndexKey(t *testing.T) {
	body := Project([]Row{{"name": "x"}, {"id": nil}, {"id": "k"}}, sortColumns(), "id", "")
	keys := make([]string, len(body.Rows))
	for i, r := range body.Rows {
		keys[i] = r.Key
	}
	assert.Equal(t, []string{"#0", "#1", "k"}, keys)
}

func TestDefaultRenderEscapes(t *testing.T) {
	out := DefaultRender("<script>", nil)
	assert.False(t, strings.Contains(string(out), "<script>"))
}

func TestStringify(t *testing.T) {
	s := "value"
	var nilPtr *int
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "", Stringify(nilPtr))
	assert.Equal(t, "value", Stringify(&s))
	assert.Equal(t, "42", Stringify(int64(42)))
	assert.Equal(t, "true", Stringify(true))
}

type sku struct{ code string }

func (s *sku) String() string { return "SKU-" + s.code }

type grade int

func (g grade) String() string { return [...]string{"low", "high"}[g] }

func TestStringifyPrefersStringer(t *testing.T) {
	var nilSKU *sku
	g := grade(1)
	assert.Equal(t, "SKU-42", Stringify(&sku{code: "42"}))
	assert.Equal(t, "", Stringify(nilSKU))
	assert.Equal(t, "high", Stringify(&g))
	assert.Equal(t, "low", Stringify(grade(0)))
}
