// Command backoffice-tui browses one grid resource in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/redis/go-redis/v9"

	"github.com/odyssey-erp/backoffice/internal/app"
	"github.com/odyssey-erp/backoffice/internal/gridpage"
	"github.com/odyssey-erp/backoffice/internal/masterdata"
	"github.com/odyssey-erp/backoffice/internal/masterdata/products"
	"github.com/odyssey-erp/backoffice/internal/platform/cache"
	"github.com/odyssey-erp/backoffice/internal/platform/db"
	"github.com/odyssey-erp/backoffice/internal/tui"
)

func main() {
	resource := flag.String("resource", "products", "resource to browse")
	demo := flag.Bool("demo", false, "browse the sample product catalog instead of postgres")
	logPath := flag.String("log", "backoffice-tui.log", "log file")
	flag.Parse()

	if err := run(*resource, *demo, *logPath); err != nil {
		fmt.Fprintln(os.Stderr, "backoffice-tui:", err)
		os.Exit(1)
	}
}

func run(name string, demo bool, logPath string) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return err
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer logFile.Close()
	logger := app.NewLoggerTo(cfg, logFile)

	ctx := context.Background()
	var res gridpage.Resource
	if demo {
		res = products.SampleResource(time.Now())
	} else {
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()

		var client *redis.Client
		if cfg.CacheEnabled() {
			client, err = cache.New(ctx, cfg.RedisAddr)
			if err != nil {
				logger.Warn("redis unavailable, list caching disabled", slog.Any("error", err))
				client = nil
			} else {
				defer client.Close()
			}
		}

		registry, err := gridpage.NewRegistry(masterdata.New(pool, client, cfg.ListCacheTTL, nil).Resources()...)
		if err != nil {
			return err
		}
		if res, err = registry.Lookup(name); err != nil {
			return err
		}
	}

	model := tui.New(tui.Options{
		Resource: res,
		PageSize: cfg.DefaultPageSize,
		Logger:   logger,
		Timeout:  cfg.AppRequestTimeout,
	})
	logger.Info("starting tui", slog.String("resource", res.Name()))
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}
