package products

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/backoffice/internal/datatable"
	"github.com/odyssey-erp/backoffice/internal/listing"
	"github.com/odyssey-erp/backoffice/internal/platform/db"
)

type staticOptions struct {
	options []datatable.Option
	err     error
}

func (s staticOptions) Options(context.Context) ([]datatable.Option, error) {
	return s.options, s.err
}

type fakeRepo struct{}

func (fakeRepo) List(context.Context, listing.Query) ([]Product, int, error) {
	return []Product{{ID: 1, Code: "TSH-01", Name: "Tee", CategoryCode: "apparel", CategoryName: "Apparel", Color: "Navy", Price: 12.5, Active: true, UpdatedAt: time.Now()}}, 1, nil
}

func (fakeRepo) Get(_ context.Context, id int64) (Product, error) {
	return Product{ID: id}, nil
}

func newService(catErr error) *Service {
	return NewService(fakeRepo{}, nil,
		staticOptions{options: []datatable.Option{{Label: "Apparel", Value: "apparel"}}, err: catErr},
		staticOptions{options: []datatable.Option{{Label: "Navy", Value: "navy"}, {Label: "Red", Value: "red"}}},
	)
}

func TestColumnsUseOptionSources(t *testing.T) {
	cols, err := newService(nil).Columns(context.Background())
	require.NoError(t, err)
	require.NoError(t, cols.Validate())

	category, ok := cols.Lookup("category")
	require.True(t, ok)
	assert.Equal(t, "apparel", category.FilterOptions[0].Value)
	color, _ := cols.Lookup("color")
	assert.Len(t, color.FilterOptions, 2)

	for _, col := range cols {
		if col.Sortable || col.Filterable {
			_, ok := fields[col.Key]
			assert.True(t, ok, "column %s has no SQL field", col.Key)
		}
	}
}

func TestColumnsFailWhenOptionsFail(t *testing.T) {
	boom := errors.New("redis down")
	_, err := newService(boom).Columns(context.Background())
	require.ErrorIs(t, err, boom)
}

func TestResourceRows(t *testing.T) {
	page, err := newService(nil).Resource().List(context.Background(), listing.Query{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Rows, 1)
	row := page.Rows[0]
	assert.Equal(t, "Apparel", row["category"])
	assert.Equal(t, "active", row["status"])
	assert.Equal(t, 12.5, row["price"])
}

func TestListSQLJoinsAndFilters(t *testing.T) {
	q := listing.Query{
		Page:    2,
		Limit:   20,
		Sort:    &datatable.SortState{Key: "price", Direction: datatable.Descending},
		Filters: map[string]any{"category": "Apparel", "color": []string{"Navy", "Red"}, "status": "inactive"},
	}
	count, page := db.ListSQL(listSpec, q)

	assert.Equal(t,
		"SELECT COUNT(*) FROM "+listSpec.From+
			" WHERE lower(c.code) = $1 AND lower(COALESCE(co.name, '')) = ANY($2) AND lower("+statusExpr+") = $3",
		count.SQL)
	assert.Equal(t, []any{"apparel", []string{"navy", "red"}, "inactive"}, count.Args)
	assert.Contains(t, page.SQL, " ORDER BY p.price DESC, p.code ASC, p.id ASC LIMIT $4 OFFSET $5")
	assert.Equal(t, 20, page.Args[4])
}

func TestSampleResourceFilters(t *testing.T) {
	res := SampleResource(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	cols, err := res.Columns(context.Background())
	require.NoError(t, err)
	require.NoError(t, cols.Validate())

	page, err := res.List(context.Background(), listing.Query{
		Page:    1,
		Limit:   100,
		Filters: map[string]any{"category": "hardware", "color": []string{"red"}},
	})
	require.NoError(t, err)
	require.NotEmpty(t, page.Rows)
	for _, row := range page.Rows {
		assert.Equal(t, "Hardware", row["category"])
		assert.Equal(t, "Red", row["color"])
	}
}
