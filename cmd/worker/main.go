package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/odyssey-erp/backoffice/internal/app"
	"github.com/odyssey-erp/backoffice/internal/gridpage"
	"github.com/odyssey-erp/backoffice/internal/masterdata"
	"github.com/odyssey-erp/backoffice/internal/platform/cache"
	"github.com/odyssey-erp/backoffice/internal/platform/db"
	"github.com/odyssey-erp/backoffice/jobs"
)

// warmSpec refreshes the first pages of every grid after the nightly import.
const warmSpec = "15 1 * * *"

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	module := masterdata.New(pool, redisClient, cfg.ListCacheTTL, nil)
	registry, err := gridpage.NewRegistry(module.Resources()...)
	if err != nil {
		logger.Error("register resources", slog.Any("error", err))
		os.Exit(1)
	}

	cacheJobs := jobs.NewCacheJobs(module, registry, cfg.DefaultPageSize, logger, nil)
	schedule, err := cacheJobs.WarmSchedule(warmSpec, jobs.DefaultWarmPages)
	if err != nil {
		logger.Error("build warm schedule", slog.Any("error", err))
		os.Exit(1)
	}
	for i := range schedule {
		schedule[i].Options = []asynq.Option{asynq.MaxRetry(3)}
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers:  cacheJobs.Handlers(),
		Cron:      schedule,
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
