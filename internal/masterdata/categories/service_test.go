package categories

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/backoffice/internal/datatable"
	"github.com/odyssey-erp/backoffice/internal/listing"
	"github.com/odyssey-erp/backoffice/internal/platform/cache"
	"github.com/odyssey-erp/backoffice/internal/platform/httpx"
)

type fakeRepo struct {
	listCalls int
	items     []Category
}

func (f *fakeRepo) List(_ context.Context, q listing.Query) ([]Category, int, error) {
	f.listCalls++
	return f.items, len(f.items), nil
}

func (f *fakeRepo) Get(_ context.Context, id int64) (Category, error) {
	for _, c := range f.items {
		if c.ID == id {
			return c, nil
		}
	}
	return Category{}, httpx.ErrNotFound
}

func (f *fakeRepo) Options(context.Context) ([]datatable.Option, error) {
	return []datatable.Option{{Label: "Fasteners", Value: "fst"}}, nil
}

func setupService(t *testing.T) (*Service, *fakeRepo) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	repo := &fakeRepo{items: []Category{
		{ID: 1, Code: "FST", Name: "Fasteners", ProductCount: 1200, UpdatedAt: time.Now()},
		{ID: 2, Code: "LGT", Name: "Lighting", ParentName: "Electrical"},
	}}
	return NewService(repo, cache.NewListCache(client, Name, time.Minute, nil)), repo
}

func TestServiceListIsCachedPerQuery(t *testing.T) {
	ctx := context.Background()
	svc, repo := setupService(t)
	q := listing.Query{Page: 1, Limit: 10}

	items, total, err := svc.List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Fasteners", items[0].Name)

	_, _, err = svc.List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls)

	q.Filters = map[string]any{"name": "fast"}
	_, _, err = svc.List(ctx, q)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listCalls)

	require.NoError(t, svc.Invalidate(ctx))
	_, _, err = svc.List(ctx, listing.Query{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 3, repo.listCalls)
}

func TestServiceGetValidatesID(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Get(context.Background(), 0)
	require.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Get(context.Background(), 9)
	require.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestResourceRows(t *testing.T) {
	svc, _ := setupService(t)
	res := svc.Resource()
	assert.Equal(t, Name, res.Name())

	page, err := res.List(context.Background(), listing.Query{Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, page.Rows, 2)
	assert.Equal(t, "Electrical", page.Rows[1]["parent"])

	row, err := res.Get(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "FST", row["code"])

	_, err = res.Get(context.Background(), "abc")
	require.ErrorIs(t, err, httpx.ErrValidation)
}

func TestColumnsAreValid(t *testing.T) {
	require.NoError(t, Columns().Validate())
	for _, col := range Columns() {
		if col.Sortable || col.Filterable {
			_, ok := fields[col.Key]
			assert.True(t, ok, "column %s has no SQL field", col.Key)
		}
	}
}
