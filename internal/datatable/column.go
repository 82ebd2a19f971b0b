// Package datatable implements a headless grid engine: column descriptors,
// a three-phase sort controller, per-column filters with a floating filter
// panel, and projection of host-supplied rows into rendered cells.
//
// The engine never fetches, pages or persists data. It keeps interaction
// state locally and notifies the host, which re-supplies rows.
package datatable

import (
	"errors"
	"fmt"
	"html/template"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidColumns is returned when a column list cannot back a table.
var ErrInvalidColumns = errors.New("datatable: invalid columns")

// FilterMode governs how a column's filter input behaves.
type FilterMode string

const (
	ModeText         FilterMode = "text"
	ModeSingleSelect FilterMode = "single-select"
	ModeMultiSelect  FilterMode = "multi-select"
)

func (m FilterMode) isSelect() bool {
	return m == ModeSingleSelect || m == ModeMultiSelect
}

// Option is one choice of a select filter.
type Option struct {
	Label string `validate:"required"`
	Value string `validate:"required"`
}

// Row is an opaque host record addressed by column keys.
type Row map[string]any

// RenderFunc renders a cell from its raw value and the owning row.
type RenderFunc func(value any, row Row) template.HTML

// Column describes one grid column. Columns are static for the lifetime of a
// table.
type Column struct {
	Key           string     `validate:"required"`
	Label         string     `validate:"required"`
	Sortable      bool
	Filterable    bool
	FilterMode    FilterMode `validate:"required_if=Filterable true,omitempty,oneof=text single-select multi-select"`
	FilterOptions []Option   `validate:"dive"`
	Render        RenderFunc
	Width         string
}

// Columns is an ordered column registry.
type Columns []Column

var validate = validator.New()

// Lookup returns the column registered under key.
func (c Columns) Lookup(key string) (Column, bool) {
	for _, col := range c {
		if col.Key == key {
			return col, true
		}
	}
	return Column{}, false
}

// Keys lists column keys in display order.
func (c Columns) Keys() []string {
	keys := make([]string, len(c))
	for i, col := range c {
		keys[i] = col.Key
	}
	return keys
}

// Validate checks descriptor tags and registry-wide rules.
func (c Columns) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("%w: no columns", ErrInvalidColumns)
	}
	seen := make(map[string]struct{}, len(c))
	for i, col := range c {
		if err := validate.Struct(col); err != nil {
			return fmt.Errorf("%w: column %d (%q): %v", ErrInvalidColumns, i, col.Key, err)
		}
		if _, dup := seen[col.Key]; dup {
			return fmt.Errorf("%w: duplicate key %q", ErrInvalidColumns, col.Key)
		}
		seen[col.Key] = struct{}{}
		if col.Filterable && col.FilterMode.isSelect() && len(col.FilterOptions) == 0 {
			return fmt.Errorf("%w: column %q needs filter options for %s", ErrInvalidColumns, col.Key, col.FilterMode)
		}
	}
	return nil
}

func (c Column) filterable() bool {
	return c.Filterable && c.FilterMode != ""
}
