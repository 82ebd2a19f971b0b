package listing

import (
	"math"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/backoffice/internal/datatable"
)

func TestDecodeBracketedParams(t *testing.T) {
	values, err := url.ParseQuery("page=3&limit=25&sort[key]=name&sort[dir]=desc" +
		"&filter[name]=am&filter[status][]=open&filter[status][]=closed" +
		"&panel=status&search[status]=op&act=sort&col=name")
	require.NoError(t, err)

	q, err := Decode(values)
	require.NoError(t, err)

	assert.Equal(t, 3, q.Page)
	assert.Equal(t, 25, q.Limit)
	assert.Equal(t, &datatable.SortState{Key: "name", Direction: datatable.Descending}, q.Sort)
	assert.Equal(t, map[string]any{"name": "am", "status": []string{"open", "closed"}}, q.Filters)
	assert.Equal(t, "status", q.Panel)
	assert.Equal(t, map[string]string{"status": "op"}, q.Search)
}

func TestDecodeEmpty(t *testing.T) {
	q, err := Decode(url.Values{})
	require.NoError(t, err)
	assert.Nil(t, q.Sort)
	assert.Empty(t, q.Filters)
	assert.Zero(t, q.Page)
}

func TestEncodeIsCanonical(t *testing.T) {
	q := Query{
		Page:    2,
		Limit:   10,
		Sort:    &datatable.SortState{Key: "name", Direction: datatable.Ascending},
		Filters: map[string]any{"tags": []string{"a", "b"}, "name": "am"},
		Panel:   "tags",
		Search:  map[string]string{"tags": "x", "other": "dropped"},
	}
	got, err := url.QueryUnescape(Encode(q))
	require.NoError(t, err)
	assert.Equal(t, "filter[name]=am&filter[tags][]=a&filter[tags][]=b&limit=10&page=2&panel=tags&search[tags]=x&sort[dir]=ASC&sort[key]=name", got)

	decoded, err := Decode(Values(q))
	require.NoError(t, err)
	assert.Equal(t, q.Filters, decoded.Filters)
	assert.Equal(t, q.Sort, decoded.Sort)
	assert.Equal(t, map[string]string{"tags": "x"}, decoded.Search)
}

func TestNormalizeAndOffset(t *testing.T) {
	q := Query{Page: 0, Limit: 1000}
	q.Normalize(20)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, MaxLimit, q.Limit)
	assert.Zero(t, q.Offset())

	q = Query{Page: 3}
	q.Normalize(20)
	assert.Equal(t, 20, q.Limit)
	assert.Equal(t, 40, q.Offset())
	assert.NotNil(t, q.Filters)
}

func TestNormalizeBoundsHugePages(t *testing.T) {
	q := Query{Page: math.MaxInt/2 + 2, Limit: 2}
	q.Normalize(20)
	assert.Equal(t, math.MaxInt/2, q.Page)
	assert.Positive(t, q.Offset())

	raw := Query{Page: math.MaxInt, Limit: 50}
	assert.Equal(t, math.MaxInt, raw.Offset())
}

func TestKeyIgnoresPanelState(t *testing.T) {
	a := Query{Page: 1, Limit: 10, Filters: map[string]any{"name": "am"}}
	b := a
	b.Panel = "name"
	b.Search = map[string]string{"name": "zz"}
	assert.Equal(t, a.Key(), b.Key())

	c := a
	c.Page = 2
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestNewMeta(t *testing.T) {
	assert.Equal(t, Meta{Page: 1, Limit: 10, Total: 0, LastPage: 1}, NewMeta(1, 10, 0))
	m := NewMeta(2, 10, 21)
	assert.Equal(t, 3, m.LastPage)
	assert.True(t, m.HasPrev())
	assert.True(t, m.HasNext())
	assert.False(t, NewMeta(3, 10, 21).HasNext())
}
