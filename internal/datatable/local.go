package datatable

import (
	"reflect"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// ApplyLocal filters and sorts rows in memory. Text filters match by
// case-insensitive substring, select filters by equality or membership of
// the cell's string form. The input slice is not modified.
func ApplyLocal(rows []Row, columns Columns, sort *SortState, filters *FilterState) []Row {
	out := make([]Row, 0, len(rows))
	for _, row := range rows {
		if matchesAll(row, columns, filters) {
			out = append(out, row)
		}
	}
	if sort == nil {
		return out
	}
	col := collate.New(language.Und, collate.IgnoreCase)
	slices.SortStableFunc(out, func(a, b Row) int {
		c := compareValues(col, a[sort.Key], b[sort.Key])
		if sort.Direction == Descending {
			return -c
		}
		return c
	})
	return out
}

func matchesAll(row Row, columns Columns, filters *FilterState) bool {
	if filters == nil {
		return true
	}
	for _, key := range filters.Keys() {
		v, _ := filters.Get(key)
		cell := normalize(Stringify(row[key]))
		col, _ := columns.Lookup(key)
		if v.IsSet() || col.FilterMode == ModeSingleSelect {
			if !v.Contains(cell) {
				return false
			}
			continue
		}
		if !strings.Contains(cell, v.Text()) {
			return false
		}
	}
	return true
}

// compareValues orders nils first, then numbers numerically, times
// chronologically and everything else by collation of the string form.
func compareValues(col *collate.Collator, a, b any) int {
	as, bs := Stringify(a), Stringify(b)
	switch {
	case as == "" && bs == "":
		return 0
	case as == "":
		return -1
	case bs == "":
		return 1
	}
	if af, ok := number(a); ok {
		if bf, ok := number(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			}
			return 0
		}
	}
	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}
	return col.CompareString(as, bs)
}

func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return 0, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
