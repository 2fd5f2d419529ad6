// Package main is the catalog sync tool. It imports provider model and
// workflow definitions into the local catalog and updates pricing.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fluxuro/uro-client-template-api/internal/config"
	"github.com/fluxuro/uro-client-template-api/internal/modelsync"
	"github.com/fluxuro/uro-client-template-api/internal/provider"
	"github.com/fluxuro/uro-client-template-api/internal/store"
	"github.com/google/uuid"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("sync failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	modelID := flag.String("model", "", "provider model id to import or refresh")
	workflowID := flag.String("workflow", "", "provider workflow definition id to import or refresh")
	costCustomer := flag.Float64("cost-customer", -1, "cost charged to the customer per run")
	costClient := flag.Float64("cost-client", -1, "cost charged by the provider per run")
	flag.Parse()

	if *modelID == "" && *workflowID == "" {
		return fmt.Errorf("one of -model or -workflow is required")
	}
	if *modelID != "" && *workflowID != "" {
		return fmt.Errorf("-model and -workflow are mutually exclusive")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	if err := store.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	pgStore := store.NewPostgresStore(pool)
	gateway := provider.NewHTTPClient(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Provider.Timeout)
	syncer := modelsync.NewSyncer(pgStore, gateway)

	var id uuid.UUID
	if *modelID != "" {
		id, err = syncer.SyncModel(ctx, *modelID)
	} else {
		id, err = syncer.SyncWorkflow(ctx, *workflowID)
	}
	if err != nil {
		return err
	}

	if *costCustomer >= 0 {
		if err := syncer.SetCostToCustomer(ctx, id, *costCustomer); err != nil {
			return fmt.Errorf("set customer cost: %w", err)
		}
	}
	if *costClient >= 0 {
		if err := syncer.SetCostToClient(ctx, id, *costClient); err != nil {
			return fmt.Errorf("set client cost: %w", err)
		}
	}

	slog.Info("catalog sync complete", "model_id", id)
	return nil
}
