package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/backoffice/internal/gridpage"
	jobmetrics "github.com/odyssey-erp/backoffice/internal/jobs"
	"github.com/odyssey-erp/backoffice/internal/listing"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// Invalidator drops the cached lists of a named resource.
type Invalidator interface {
	Invalidate(ctx context.Context, name string) error
}

// CacheJobs handles the grid cache tasks.
type CacheJobs struct {
	Invalidator Invalidator
	Registry    *gridpage.Registry
	PageSize    int
	Logger      *slog.Logger
	Metrics     *jobmetrics.Metrics
}

// NewCacheJobs wires dependencies for the cache handlers.
func NewCacheJobs(invalidator Invalidator, registry *gridpage.Registry, pageSize int, logger *slog.Logger, metrics *jobmetrics.Metrics) *CacheJobs {
	return &CacheJobs{Invalidator: invalidator, Registry: registry, PageSize: pageSize, Logger: logger, Metrics: metrics}
}

// Handlers lists the task handlers to register on a worker.
func (j *CacheJobs) Handlers() []TaskHandler {
	return []TaskHandler{
		{Type: TaskCacheBump, Handler: j.HandleBump},
		{Type: TaskCacheWarm, Handler: j.HandleWarm},
	}
}

// WarmSchedule registers a warm task for every resource on spec.
func (j *CacheJobs) WarmSchedule(spec string, pages int) ([]CronRegistration, error) {
	if j.Registry == nil {
		return nil, nil
	}
	var out []CronRegistration
	for _, res := range j.Registry.All() {
		task, err := NewCacheWarmTask(res.Name(), pages)
		if err != nil {
			return nil, err
		}
		out = append(out, CronRegistration{Spec: spec, Task: task})
	}
	return out, nil
}

// HandleBump processes TaskCacheBump tasks.
func (j *CacheJobs) HandleBump(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Invalidator == nil {
		return errors.New("cache bump: handler not configured")
	}
	var payload CacheBumpPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.Resource == "" {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskCacheBump)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	err := j.Invalidator.Invalidate(ctx, payload.Resource)
	if errors.Is(err, gridpage.ErrUnknownResource) {
		j.logger(TaskCacheBump).Warn("unknown resource", slog.String("resource", payload.Resource))
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	if err != nil {
		return err
	}
	j.logger(TaskCacheBump).Info("cache bumped", slog.String("resource", payload.Resource))
	return nil
}

// HandleWarm processes TaskCacheWarm tasks. Pages are listed in order until
// the requested count or a short page is reached.
func (j *CacheJobs) HandleWarm(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Registry == nil {
		return errors.New("cache warm: handler not configured")
	}
	var payload CacheWarmPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || payload.Resource == "" {
		return asynq.SkipRetry
	}
	if payload.Pages <= 0 {
		payload.Pages = DefaultWarmPages
	}
	res, err := j.Registry.Lookup(payload.Resource)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	tracker := j.metrics().Track(TaskCacheWarm)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger(TaskCacheWarm).With(slog.String("resource", payload.Resource))
	start := time.Now()

	// Columns carry select options loaded from other resources.
	if _, err := res.Columns(ctx); err != nil {
		logger.Error("warm columns", slog.Any("error", err))
		return err
	}

	warmed := 0
	for page := 1; page <= payload.Pages; page++ {
		q := listing.Query{Page: page}
		q.Normalize(j.PageSize)
		result, err := res.List(ctx, q)
		if err != nil {
			logger.Error("warm page", slog.Int("page", page), slog.Any("error", err))
			return err
		}
		warmed += len(result.Rows)
		if len(result.Rows) < q.Limit {
			break
		}
	}
	j.metrics().AddWarmedRows(payload.Resource, warmed)
	logger.Info("completed cache warm", slog.Int("rows", warmed), slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *CacheJobs) logger(job string) *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", job))
	}
	return slog.Default().With(slog.String("job", job))
}

func (j *CacheJobs) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
