package datatable

import (
	"fmt"
	"html/template"
	"reflect"
	"strconv"
)

// DefaultEmptyMessage is shown by the placeholder row of an empty table.
const DefaultEmptyMessage = "No data available"

// Cell is one rendered cell.
type Cell struct {
	Key     string
	Content template.HTML
	Width   string
}

// RenderedRow is a projected row. Key is the row's identity for list
// rendering.
type RenderedRow struct {
	Key    string
	Index  int
	Cells  []Cell
	Source Row
}

// Body is the projected table body. When Empty is set, Rows is nil and the
// host draws a single placeholder spanning ColSpan columns.
type Body struct {
	Rows         []RenderedRow
	Empty        bool
	ColSpan      int
	EmptyMessage string
}

// Project maps rows to cells using each column's renderer.
func Project(rows []Row, columns Columns, keyField, emptyMessage string) Body {
	if emptyMessage == "" {
		emptyMessage = DefaultEmptyMessage
	}
	body := Body{ColSpan: len(columns), EmptyMessage: emptyMessage}
	if len(rows) == 0 {
		body.Empty = true
		return body
	}
	body.Rows = make([]RenderedRow, len(rows))
	for i, row := range rows {
		rendered := RenderedRow{Key: rowKey(row, keyField, i), Index: i, Source: row, Cells: make([]Cell, len(columns))}
		for j, col := range columns {
			value := row[col.Key]
			var content template.HTML
			if col.Render != nil {
				content = col.Render(value, row)
			} else {
				content = DefaultRender(value, row)
			}
			rendered.Cells[j] = Cell{Key: col.Key, Content: content, Width: col.Width}
		}
		body.Rows[i] = rendered
	}
	return body
}

// DefaultRender escapes the string form of value; nil renders empty.
func DefaultRender(value any, _ Row) template.HTML {
	return template.HTML(template.HTMLEscapeString(Stringify(value)))
}

// Stringify is the default string coercion of a cell value. Nil values and
// nil pointers become "", other pointers are dereferenced unless they
// implement fmt.Stringer.
func Stringify(value any) string {
	if value == nil {
		return ""
	}
	rv := reflect.ValueOf(value)
	for {
		if (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil() {
			return ""
		}
		switch v := rv.Interface().(type) {
		case string:
			return v
		case fmt.Stringer:
			return v.String()
		}
		if rv.Kind() != reflect.Pointer && rv.Kind() != reflect.Interface {
			return fmt.Sprint(rv.Interface())
		}
		rv = rv.Elem()
	}
}

func rowKey(row Row, keyField string, index int) string {
	if v, ok := row[keyField]; ok {
		if s := Stringify(v); s != "" {
			return s
		}
	}
	return "#" + strconv.Itoa(index)
}
