package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/morelandmachine/dispatch-backend/api/routes"
	"github.com/morelandmachine/dispatch-backend/internal/cache"
	"github.com/morelandmachine/dispatch-backend/internal/dispatch"
	"github.com/morelandmachine/dispatch-backend/internal/jobs"
	"github.com/morelandmachine/dispatch-backend/internal/notes"
	"github.com/morelandmachine/dispatch-backend/internal/purchasing"
	"github.com/morelandmachine/dispatch-backend/internal/scheduling"
	"github.com/morelandmachine/dispatch-backend/internal/sources"
	"github.com/morelandmachine/dispatch-backend/internal/summary"
	"github.com/morelandmachine/dispatch-backend/internal/worker"
	"github.com/morelandmachine/dispatch-backend/pkg/config"
	"github.com/morelandmachine/dispatch-backend/pkg/db"
	"github.com/morelandmachine/dispatch-backend/pkg/logger"
	"github.com/morelandmachine/dispatch-backend/pkg/metrics"
	"github.com/morelandmachine/dispatch-backend/pkg/migrate"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

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

	reader := sources.NewReader(logg)

	dispatchService, err := dispatch.NewService(dispatch.Params{
		Logger:          logg,
		Cache:           cacheManager,
		Reader:          reader,
		StockJobPattern: stockJobPattern,
		Metrics:         metrics.NewRefreshMetrics(prometheus.DefaultRegisterer),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create dispatch service", err)
		os.Exit(1)
	}

	jobsService, err := jobs.NewService(jobs.Params{Cache: cacheManager, Reader: reader})
	if err != nil {
		logg.Error(context.Background(), "failed to create jobs service", err)
		os.Exit(1)
	}

	notesService, err := notes.NewService(notes.Params{
		Logger: logg,
		Repo:   notes.NewRepository(dbClient.DB()),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create notes service", err)
		os.Exit(1)
	}

	purchasingService, err := purchasing.NewService(purchasing.Params{
		Cache:       cacheManager,
		Reader:      reader,
		Dispatch:    dispatchService,
		DueSoonDays: cfg.Purchasing.DueSoonDays,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create purchasing service", err)
		os.Exit(1)
	}

	schedulingService, err := scheduling.NewService(scheduling.Params{Cache: cacheManager, Reader: reader})
	if err != nil {
		logg.Error(context.Background(), "failed to create scheduling service", err)
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

	// The API process ticks its own refreshes so the snapshot is warm
	// without waiting for a POST /refresh.
	workerService, err := worker.NewService(worker.ServiceParams{
		Logger:   logg,
		Registry: worker.NewRegistry(refreshJob),
		Metrics:  metrics.NewWorkerJobMetrics(prometheus.DefaultRegisterer),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create worker service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		if err := workerService.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logg.Error(ctx, "refresh worker stopped unexpectedly", err)
		}
	}()

	addr := ":" + cfg.App.Port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			cacheManager,
			dispatchService,
			jobsService,
			notesService,
			purchasingService,
			schedulingService,
			summaryService,
		),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(shutdownCtx, "server shutdown failed", err)
		}
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "api server shut down gracefully")
}
