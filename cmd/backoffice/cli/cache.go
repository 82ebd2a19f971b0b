// Package cli implements the backoffice maintenance commands.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/backoffice/jobs"
)

// Enqueuer submits cache tasks.
type Enqueuer interface {
	EnqueueCacheBump(ctx context.Context, resource string) (*asynq.TaskInfo, error)
	EnqueueCacheWarm(ctx context.Context, resource string, pages int) (*asynq.TaskInfo, error)
}

// QueueInspector reads queue state.
type QueueInspector interface {
	GetQueueInfo(queue string) (*asynq.QueueInfo, error)
}

// CacheCLI wraps manual management of the grid list caches.
type CacheCLI struct {
	enqueuer  Enqueuer
	inspector QueueInspector
	resources []string
}

// NewCacheCLI builds the command. resources lists the accepted names.
func NewCacheCLI(enqueuer Enqueuer, inspector QueueInspector, resources []string) *CacheCLI {
	return &CacheCLI{enqueuer: enqueuer, inspector: inspector, resources: resources}
}

// CacheOptions carries the output streams of a command run.
type CacheOptions struct {
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// QueueStats summarises the current queue state.
type QueueStats struct {
	Queue     string `json:"queue"`
	Pending   int    `json:"pending"`
	Active    int    `json:"active"`
	Scheduled int    `json:"scheduled"`
	Retry     int    `json:"retry"`
}

type enqueued struct {
	Task     string `json:"task"`
	ID       string `json:"id"`
	Resource string `json:"resource"`
}

const cacheUsage = "usage: backoffice cache [--json] bump <resource> | warm [--pages N] <resource> | stats"

// Run executes `cache <subcommand>` and returns the process exit code.
func (c *CacheCLI) Run(ctx context.Context, args []string, opts CacheOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	fs := flag.NewFlagSet("cache", flag.ContinueOnError)
	fs.SetOutput(opts.Stderr)
	fs.BoolVar(&opts.JSONOutput, "json", opts.JSONOutput, "print JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	args = fs.Args()
	if len(args) == 0 {
		_, _ = fmt.Fprintln(opts.Stderr, cacheUsage)
		return 2
	}

	switch args[0] {
	case "bump":
		return c.bump(ctx, args[1:], opts)
	case "warm":
		return c.warm(ctx, args[1:], opts)
	case "stats":
		return c.stats(opts)
	default:
		_, _ = fmt.Fprintf(opts.Stderr, "cache: unknown subcommand %q\n%s\n", args[0], cacheUsage)
		return 2
	}
}

func (c *CacheCLI) bump(ctx context.Context, args []string, opts CacheOptions) int {
	resource, ok := c.resource(args, opts)
	if !ok {
		return 2
	}
	info, err := c.enqueuer.EnqueueCacheBump(ctx, resource)
	return c.report(opts, jobs.TaskCacheBump, resource, info, err)
}

func (c *CacheCLI) warm(ctx context.Context, args []string, opts CacheOptions) int {
	fs := flag.NewFlagSet("cache warm", flag.ContinueOnError)
	fs.SetOutput(opts.Stderr)
	pages := fs.Int("pages", jobs.DefaultWarmPages, "pages to warm")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *pages <= 0 {
		_, _ = fmt.Fprintln(opts.Stderr, "cache warm: --pages must be positive")
		return 2
	}
	resource, ok := c.resource(fs.Args(), opts)
	if !ok {
		return 2
	}
	info, err := c.enqueuer.EnqueueCacheWarm(ctx, resource, *pages)
	return c.report(opts, jobs.TaskCacheWarm, resource, info, err)
}

func (c *CacheCLI) stats(opts CacheOptions) int {
	stats, err := c.InspectQueue()
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "cache stats: %v\n", err)
		return 1
	}
	if opts.JSONOutput {
		return encode(opts, stats)
	}
	_, _ = fmt.Fprintf(opts.Stdout, "queue=%s pending=%d active=%d scheduled=%d retry=%d\n",
		stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry)
	return 0
}

// InspectQueue reports the queue metrics for the default queue.
func (c *CacheCLI) InspectQueue() (QueueStats, error) {
	if c == nil || c.inspector == nil {
		return QueueStats{}, errors.New("cache cli: inspector not configured")
	}
	info, err := c.inspector.GetQueueInfo(jobs.QueueDefault)
	if err != nil {
		return QueueStats{}, err
	}
	stats := QueueStats{Queue: jobs.QueueDefault}
	if info != nil {
		stats.Pending = info.Pending
		stats.Active = info.Active
		stats.Scheduled = info.Scheduled
		stats.Retry = info.Retry
	}
	return stats, nil
}

func (c *CacheCLI) resource(args []string, opts CacheOptions) (string, bool) {
	if len(args) != 1 {
		_, _ = fmt.Fprintln(opts.Stderr, cacheUsage)
		return "", false
	}
	if !slices.Contains(c.resources, args[0]) {
		_, _ = fmt.Fprintf(opts.Stderr, "cache: unknown resource %q (known: %v)\n", args[0], c.resources)
		return "", false
	}
	return args[0], true
}

func (c *CacheCLI) report(opts CacheOptions, task, resource string, info *asynq.TaskInfo, err error) int {
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "cache: enqueue %s: %v\n", task, err)
		return 1
	}
	out := enqueued{Task: task, Resource: resource}
	if info != nil {
		out.ID = info.ID
	}
	if opts.JSONOutput {
		return encode(opts, out)
	}
	_, _ = fmt.Fprintf(opts.Stdout, "enqueued %s for %s (id %s)\n", out.Task, out.Resource, out.ID)
	return 0
}

func encode(opts CacheOptions, v any) int {
	if err := json.NewEncoder(opts.Stdout).Encode(v); err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "cache: encode json: %v\n", err)
		return 1
	}
	return 0
}
