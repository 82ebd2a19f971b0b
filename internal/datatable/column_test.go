package datatable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnsValidate(t *testing.T) {
	tests := []struct {
		name    string
		columns Columns
		wantErr bool
	}{
		{name: "valid", columns: filterColumns()},
		{name: "empty", columns: Columns{}, wantErr: true},
		{name: "missing key", columns: Columns{{Label: "Name"}}, wantErr: true},
		{name: "missing label", columns: Columns{{Key: "name"}}, wantErr: true},
		{name: "duplicate key", columns: Columns{{Key: "a", Label: "A"}, {Key: "a", Label: "B"}}, wantErr: true},
		{name: "filterable without mode", columns: Columns{{Key: "a", Label: "A", Filterable: true}}, wantErr: true},
		{name: "unknown mode", columns: Columns{{Key: "a", Label: "A", Filterable: true, FilterMode: "range"}}, wantErr: true},
		{name: "select without options", columns: Columns{{Key: "a", Label: "A", Filterable: true, FilterMode: ModeMultiSelect}}, wantErr: true},
		{name: "option without value", columns: Columns{{Key: "a", Label: "A", Filterable: true, FilterMode: ModeSingleSelect, FilterOptions: []Option{{Label: "X"}}}}, wantErr: true},
		{name: "mode ignored when not filterable", columns: Columns{{Key: "a", Label: "A", FilterMode: ModeMultiSelect}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.columns.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidColumns)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestColumnsLookupAndKeys(t *testing.T) {
	cols := filterColumns()
	col, ok := cols.Lookup("status")
	require.True(t, ok)
	assert.Equal(t, ModeSingleSelect, col.FilterMode)

	_, ok = cols.Lookup("nope")
	assert.False(t, ok)
	assert.Equal(t, []string{"name", "status", "tags", "id"}, cols.Keys())
}
