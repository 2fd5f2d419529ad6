// Package main is the entrypoint for the model catalog API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fluxuro/uro-client-template-api/internal/api"
	"github.com/fluxuro/uro-client-template-api/internal/api/handler"
	mw "github.com/fluxuro/uro-client-template-api/internal/api/middleware"
	"github.com/fluxuro/uro-client-template-api/internal/cache"
	"github.com/fluxuro/uro-client-template-api/internal/config"
	"github.com/fluxuro/uro-client-template-api/internal/jobrun"
	"github.com/fluxuro/uro-client-template-api/internal/maintenance"
	"github.com/fluxuro/uro-client-template-api/internal/provider"
	"github.com/fluxuro/uro-client-template-api/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "env", cfg.Server.Env, "provider", cfg.Provider.BaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Create Redis cache
	redisCache, err := cache.NewRedisCache(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create redis cache: %w", err)
	}
	defer redisCache.Close()

	if err := redisCache.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Create store and the job pipeline
	pgStore := store.NewPostgresStore(pool)
	gateway := provider.NewHTTPClient(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Provider.Timeout)
	ledger := &jobrun.StaticLedger{FixedBalance: cfg.Provider.FixedBalance}
	lifecycle := jobrun.NewLifecycle(pgStore, redisCache)
	runner := jobrun.NewRunner(pgStore, gateway, ledger, lifecycle, cfg.Provider.WebhookBaseURL)
	reconciler := jobrun.NewReconciler(lifecycle)

	// 6. Build router with dependencies
	auth := mw.NewAuth(pgStore)
	rateLimit := mw.NewRateLimit(redisCache, cfg.Server.RateLimitRPM)

	deps := api.Dependencies{
		Auth:           auth,
		RateLimit:      rateLimit,
		AllowedOrigins: cfg.Server.AllowedOrigins,

		HealthHandler:          handler.NewHealthHandler(pgStore, redisCache),
		RunModelHandler:        handler.NewRunModelHandler(runner),
		ModelWebhookHandler:    handler.NewModelWebhookHandler(reconciler),
		WorkflowWebhookHandler: handler.NewWorkflowWebhookHandler(reconciler),
		ListModelsHandler:      handler.NewListModelsHandler(pgStore),
		GetModelHandler:        handler.NewGetModelHandler(pgStore, redisCache),
		ListJobsHandler:        handler.NewListJobsHandler(pgStore),
		GetJobHandler:          handler.NewGetJobHandler(pgStore),
		JobStatusHandler:       handler.NewJobStatusHandler(pgStore, redisCache),
		DeleteJobHandler:       handler.NewDeleteJobHandler(pgStore),
		JobPublicityHandler:    handler.NewJobPublicityHandler(pgStore),
		JobImagesHandler:       handler.NewJobImagesHandler(pgStore),
	}

	router := api.NewRouter(deps)

	// 7. Start the maintenance loops
	reaper := maintenance.NewReaper(pgStore, lifecycle, cfg.Maintenance.ReaperInterval)
	go reaper.Run(ctx)
	etaUpdater := maintenance.NewETAUpdater(pgStore, cfg.Maintenance.ETAInterval)
	go etaUpdater.Run(ctx)
	slog.Info("maintenance loops started",
		"reaper_interval", cfg.Maintenance.ReaperInterval,
		"eta_interval", cfg.Maintenance.ETAInterval,
	)

	// 8. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for shutdown signal or server error
	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
