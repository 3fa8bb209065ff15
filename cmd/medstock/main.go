package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"medstock/m/internal/api"
	"medstock/m/internal/config"
	"medstock/m/internal/database"
	"medstock/m/internal/inventory"
	"medstock/m/internal/metrics"
	"medstock/m/internal/migrations"
	"medstock/m/internal/repository"
	"medstock/m/internal/seed"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return err
	}

	collector := metrics.NewCollector()
	opts := []inventory.Option{
		inventory.WithLogger(logger),
		inventory.WithMetrics(collector),
		inventory.WithHorizon(cfg.ExpiryHorizonDays),
	}

	pharmacies := repository.NewPharmacyRepository(db, logger)
	batches := repository.NewBatchRepository(db, logger)
	aggregator := inventory.NewAggregator(pharmacies, repository.NewStockRepository(db, logger), batches, opts...)
	classifier := inventory.NewClassifier(pharmacies, batches, opts...)
	svc := api.Services{
		Ledger:     inventory.NewLedger(pharmacies, batches, opts...),
		Aggregator: aggregator,
		Classifier: classifier,
		Search:     inventory.NewSearch(repository.NewSearchRepository(db, logger), opts...),
		Dashboard:  inventory.NewDashboard(pharmacies, aggregator, classifier, opts...),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Seed.BatchesCSV != "" {
		if _, err := seed.ImportFile(ctx, svc.Ledger, cfg.Seed.PharmacyID, cfg.Seed.BatchesCSV, logger); err != nil {
			logger.Warn("batch seed skipped", "error", err)
		}
	}

	handler := api.New(svc, cfg.Secret, collector, logger)
	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("medstock server starting", "port", cfg.HTTPPort, "driver", cfg.Database.Driver)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}
