package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/estatefolio/investor-dashboard/internal/api"
	"github.com/estatefolio/investor-dashboard/internal/config"
	"github.com/estatefolio/investor-dashboard/internal/database"
	"github.com/estatefolio/investor-dashboard/internal/logging"
	"github.com/estatefolio/investor-dashboard/internal/repository"
	"github.com/estatefolio/investor-dashboard/internal/service"
	"github.com/estatefolio/investor-dashboard/internal/version"
)

func main() {
	// Production logger until the configuration says otherwise
	if err := logging.Initialize(logging.Config{}); err != nil {
		panic(err)
	}
	defer logging.Sync()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal("failed to load configuration", zap.Error(err))
	}

	if cfg.Log.Debug {
		if err := logging.Initialize(logging.Config{Debug: true}); err != nil {
			logging.Fatal("failed to initialize logger", zap.Error(err))
		}
	}

	if cfg.Auth.APIKey == "" {
		logging.Default().Warn("INTERNAL_API_KEY is not set, admin endpoints will refuse all requests")
	}

	if dir := filepath.Dir(cfg.Database.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			logging.Fatal("failed to create database directory", zap.String("dir", dir), zap.Error(err))
		}
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logging.Fatal("failed to open database", zap.Error(err))
	}
	defer db.Close()

	logging.Info("connected to database",
		zap.String("path", cfg.Database.Path),
		zap.String("version", version.Version),
	)

	// Create repositories
	investorRepo := repository.NewInvestorRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	allocationRepo := repository.NewAllocationRepository(db)
	growthRepo := repository.NewGrowthRepository(db)

	// Create services
	aggregationService := service.NewAggregationService(
		db,
		investorRepo,
		propertyRepo,
		locationRepo,
		summaryRepo,
		allocationRepo,
		growthRepo,
	)
	services := api.Services{
		System:   service.NewSystemService(db),
		Investor: service.NewInvestorService(investorRepo),
		Location: service.NewLocationService(locationRepo),
		Property: service.NewPropertyService(
			propertyRepo,
			investorRepo,
			locationRepo,
			aggregationService,
		),
		Dashboard: service.NewDashboardService(
			investorRepo,
			propertyRepo,
			summaryRepo,
			allocationRepo,
			growthRepo,
			aggregationService,
		),
		Aggregation: aggregationService,
		Import: service.NewImportService(
			db,
			investorRepo,
			propertyRepo,
			locationRepo,
			aggregationService,
		),
	}

	var scheduler *service.Scheduler
	if cfg.Reconcile.Schedule != "" {
		scheduler, err = service.NewScheduler(cfg.Reconcile.Schedule, aggregationService)
		if err != nil {
			logging.Fatal("invalid reconcile schedule", zap.String("schedule", cfg.Reconcile.Schedule), zap.Error(err))
		}
		scheduler.Start()
		logging.Info("reconcile scheduled", zap.String("schedule", cfg.Reconcile.Schedule))
	}

	// Create router
	router := api.NewRouter(services, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logging.Info("starting server", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if scheduler != nil {
		scheduler.Stop(ctx)
	}

	if err := server.Shutdown(ctx); err != nil {
		logging.Default().Error("server forced to shutdown", zap.Error(err))
		return
	}

	logging.Info("server exited")
}
