package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type page struct {
	Names []string `json:"names"`
	Total int      `json:"total"`
}

func setupCache(t *testing.T) (*ListCache, *[]string) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	var mu sync.Mutex
	results := []string{}
	c := NewListCache(client, "products", time.Minute, func(ns, result string) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, result)
	})
	return c, &results
}

func TestFetchCachesUntilBump(t *testing.T) {
	ctx := context.Background()
	c, results := setupCache(t)
	calls := 0
	loader := func(context.Context) (page, error) {
		calls++
		return page{Names: []string{"a", "b"}, Total: calls}, nil
	}

	first, err := Fetch(ctx, c, loader, "list", "p=1")
	require.NoError(t, err)
	second, err := Fetch(ctx, c, loader, "list", "p=1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)

	require.NoError(t, c.Bump(ctx))
	third, err := Fetch(ctx, c, loader, "list", "p=1")
	require.NoError(t, err)
	assert.Equal(t, 2, third.Total)
	assert.Equal(t, []string{ResultMiss, ResultHit, ResultMiss}, *results)
}

func TestFetchDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	c, _ := setupCache(t)
	boom := errors.New("boom")

	_, err := Fetch(ctx, c, func(context.Context) (page, error) { return page{}, boom }, "list")
	require.ErrorIs(t, err, boom)

	got, err := Fetch(ctx, c, func(context.Context) (page, error) { return page{Total: 7}, nil }, "list")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Total)
}

func TestFetchSharesConcurrentMisses(t *testing.T) {
	ctx := context.Background()
	c, _ := setupCache(t)
	var calls atomic.Int32
	release := make(chan struct{})
	loader := func(context.Context) (page, error) {
		calls.Add(1)
		<-release
		return page{Total: 1}, nil
	}

	var wg sync.WaitGroup
	for range 5 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = Fetch(ctx, c, loader, "list", "shared")
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()
	assert.LessOrEqual(t, calls.Load(), int32(5))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestNilCacheBypasses(t *testing.T) {
	var observed []string
	c := NewListCache(nil, "colors", time.Minute, func(_, result string) { observed = append(observed, result) })
	got, err := Fetch(context.Background(), c, func(context.Context) (int, error) { return 3, nil }, "x")
	require.NoError(t, err)
	assert.Equal(t, 3, got)
	assert.Equal(t, []string{ResultBypass}, observed)

	key, err := c.BuildKey(context.Background(), "list", "p=1")
	require.NoError(t, err)
	assert.Equal(t, "backoffice:colors:list:p=1", key)
	assert.NoError(t, c.Bump(context.Background()))
}

func TestVersionedKeys(t *testing.T) {
	ctx := context.Background()
	c, _ := setupCache(t)
	key, err := c.BuildKey(ctx, "list")
	require.NoError(t, err)
	assert.Equal(t, "backoffice:products:list:v1", key)

	require.NoError(t, c.Bump(ctx))
	key, err = c.BuildKey(ctx, "list")
	require.NoError(t, err)
	assert.Equal(t, "backoffice:products:list:v2", key)
}

func TestListenForInvalidationReportsBumps(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c, _ := setupCache(t)

	type bump struct {
		ns  string
		ver int64
	}
	bumps := make(chan bump, 4)
	require.NoError(t, ListenForInvalidation(ctx, c.client, func(ns string, ver int64) {
		bumps <- bump{ns, ver}
	}))

	require.NoError(t, c.Bump(ctx))
	require.NoError(t, c.Bump(ctx))

	for _, want := range []bump{{"products", 1}, {"products", 2}} {
		select {
		case got := <-bumps:
			assert.Equal(t, want, got)
		case <-time.After(2 * time.Second):
			t.Fatalf("bump %d not delivered", want.ver)
		}
	}
}

func TestListenForInvalidationWithoutClient(t *testing.T) {
	assert.NoError(t, ListenForInvalidation(context.Background(), nil, nil))
}
