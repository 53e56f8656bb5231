package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/morelandmachine/dispatch-backend/internal/cache"
	"github.com/morelandmachine/dispatch-backend/internal/dispatch"
	"github.com/morelandmachine/dispatch-backend/internal/sources"
	"github.com/morelandmachine/dispatch-backend/internal/summary"
	"github.com/morelandmachine/dispatch-backend/internal/worker"
	"github.com/morelandmachine/dispatch-backend/pkg/config"
	"github.com/morelandmachine/dispatch-backend/pkg/logger"
	"github.com/morelandmachine/dispatch-backend/pkg/metrics"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "summary-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	once := flag.Bool("once", false, "run one refresh and one digest, then exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "summary-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	stockJobPattern, err := cfg.Resolver.CompilePattern()
	if err != nil {
		logg.Error(context.Background(), "invalid stock job pattern", err)
		os.Exit(1)
	}

	cacheManager, err := cache.NewManager(cache.ManagerParams{
		Logger:        logg,
		Dir:           cfg.Cache.Dir,
		CheckInterval: cfg.Cache.CheckInterval,
		SettingsFile:  cfg.Cache.SettingsFile,
		Defaults:      cache.SourceDefaults(cfg.Sources),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create cache manager", err)
		os.Exit(1)
	}

	dispatchService, err := dispatch.NewService(dispatch.Params{
		Logger:          logg,
		Cache:           cacheManager,
		Reader:          sources.NewReader(logg),
		StockJobPattern: stockJobPattern,
		Metrics:         metrics.NewRefreshMetrics(prometheus.DefaultRegisterer),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create dispatch service", err)
		os.Exit(1)
	}

	summaryService, err := summary.NewService(summary.Params{Dispatch: dispatchService})
	if err != nil {
		logg.Error(context.Background(), "failed to create summary service", err)
		os.Exit(1)
	}

	refreshJob, err := worker.NewRefreshJob(worker.RefreshJobParams{
		Dispatch: dispatchService,
		Interval: cfg.Worker.RefreshInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create refresh job", err)
		os.Exit(1)
	}

	summaryJob, err := worker.NewSummaryJob(worker.SummaryJobParams{
		Logger:   logg,
		Summary:  summaryService,
		Interval: cfg.Worker.SummaryInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create summary job", err)
		os.Exit(1)
	}

	service, err := worker.NewService(worker.ServiceParams{
		Logger:   logg,
		Registry: worker.NewRegistry(refreshJob, summaryJob),
		Metrics:  metrics.NewWorkerJobMetrics(prometheus.DefaultRegisterer),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)

	if *once {
		logg.Info(ctx, "running summary worker once")
		if err := service.RunOnce(ctx); err != nil {
			logg.Error(ctx, "summary worker one-shot failed", err)
			os.Exit(1)
		}
		logg.Info(ctx, "summary worker one-shot complete")
		return
	}

	// Warm the snapshot before the registry starts so the digest job's
	// first run has data to report.
	if err := refreshJob.Run(ctx); err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "initial refresh failed, digest waits for the next pass")
	}

	logg.Info(ctx, "starting summary worker")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "summary worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "summary worker shutting down gracefully")
}
