package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEnqueuer struct {
	bumped []string
	warmed map[string]int
	err    error
}

func (s *stubEnqueuer) EnqueueCacheBump(_ context.Context, resource string) (*asynq.TaskInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.bumped = append(s.bumped, resource)
	return &asynq.TaskInfo{ID: "t-1"}, nil
}

func (s *stubEnqueuer) EnqueueCacheWarm(_ context.Context, resource string, pages int) (*asynq.TaskInfo, error) {
	if s.warmed == nil {
		s.warmed = map[string]int{}
	}
	s.warmed[resource] = pages
	return &asynq.TaskInfo{ID: "t-2"}, nil
}

type stubInspector struct{}

func (stubInspector) GetQueueInfo(queue string) (*asynq.QueueInfo, error) {
	return &asynq.QueueInfo{Queue: queue, Pending: 4, Retry: 1}, nil
}

func run(t *testing.T, cli *CacheCLI, args ...string) (int, string, string) {
	t.Helper()
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	code := cli.Run(context.Background(), args, CacheOptions{Stdout: stdout, Stderr: stderr})
	return code, stdout.String(), stderr.String()
}

func TestCacheBump(t *testing.T) {
	enq := &stubEnqueuer{}
	cli := NewCacheCLI(enq, stubInspector{}, []string{"products", "categories"})

	code, out, _ := run(t, cli, "bump", "products")
	require.Equal(t, 0, code)
	assert.Equal(t, "enqueued grid:cache:bump for products (id t-1)\n", out)
	assert.Equal(t, []string{"products"}, enq.bumped)

	code, _, errOut := run(t, cli, "bump", "warehouses")
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, `unknown resource "warehouses"`)
}

func TestCacheWarmJSON(t *testing.T) {
	enq := &stubEnqueuer{}
	cli := NewCacheCLI(enq, stubInspector{}, []string{"products"})

	code, out, _ := run(t, cli, "--json", "warm", "--pages", "5", "products")
	require.Equal(t, 0, code)
	assert.JSONEq(t, `{"task":"grid:cache:warm","id":"t-2","resource":"products"}`, out)
	assert.Equal(t, 5, enq.warmed["products"])

	code, _, _ = run(t, cli, "warm", "--pages", "0", "products")
	assert.Equal(t, 2, code)
}

func TestCacheEnqueueFailure(t *testing.T) {
	cli := NewCacheCLI(&stubEnqueuer{err: errors.New("redis down")}, nil, []string{"products"})
	code, _, errOut := run(t, cli, "bump", "products")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "redis down")

	code, _, errOut = run(t, cli, "stats")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "inspector not configured")
}

func TestCacheStats(t *testing.T) {
	cli := NewCacheCLI(&stubEnqueuer{}, stubInspector{}, nil)
	code, out, _ := run(t, cli, "stats")
	require.Equal(t, 0, code)
	assert.Equal(t, "queue=default pending=4 active=0 scheduled=0 retry=1\n", out)

	code, _, errOut := run(t, cli)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "usage:")
}
