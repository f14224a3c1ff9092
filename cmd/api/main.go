package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/woodfy/workshop-api/docs"
	"github.com/woodfy/workshop-api/internal/auth"
	"github.com/woodfy/workshop-api/internal/config"
	"github.com/woodfy/workshop-api/internal/database"
	"github.com/woodfy/workshop-api/internal/export"
	"github.com/woodfy/workshop-api/internal/http/handler"
	"github.com/woodfy/workshop-api/internal/http/middleware"
	"github.com/woodfy/workshop-api/internal/http/router"
	"github.com/woodfy/workshop-api/internal/jobs"
	"github.com/woodfy/workshop-api/internal/logger"
	"github.com/woodfy/workshop-api/internal/metrics"
	"github.com/woodfy/workshop-api/internal/repository"
	"github.com/woodfy/workshop-api/internal/service"
	"github.com/woodfy/workshop-api/internal/storage"
	"github.com/woodfy/workshop-api/internal/store"
)

// @title Woodfy Workshop API
// @version 1.0
// @description Bookkeeping API for a custom furniture workshop: projects, costs, revenues, budgets, cash ledger and reports

// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API key for system operations

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	if basicCfg.App.Environment == "development" {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	} else {
		docs.SwaggerInfo.Host = ""
	}

	// In staging/production with USE_AZURE_KEY_VAULT=true secrets come from Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Warn("Error closing database", zap.Error(err))
		}
	}()

	if err := database.Migrate(ctx, db, cfg.Database.Driver, log); err != nil {
		return err
	}

	backupStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	// Entity store, loaded once from the snapshot table
	m := metrics.New()
	entities := store.New(repository.NewSnapshotRepository(db), log, store.WithObserver(m))
	if err := entities.Load(ctx); err != nil {
		return fmt.Errorf("failed to load entities: %w", err)
	}

	exporter := export.NewExporter(cfg.Finance.Currency)

	// Initialize services
	projectService := service.NewProjectService(entities, log)
	costService := service.NewCostService(entities, log)
	revenueService := service.NewRevenueService(entities, log)
	expenseService := service.NewExpenseService(entities, log)
	customerService := service.NewCustomerService(entities, log)
	supplierService := service.NewSupplierService(entities, log)
	budgetService := service.NewBudgetService(entities, exporter, cfg.Finance, log)
	pricingService := service.NewPricingService(cfg.Finance)
	ledgerService := service.NewLedgerService(entities, exporter, nil, log)
	reportService := service.NewReportService(entities, nil, cfg.Finance.DeliveryWindowDays)
	integrityService := service.NewIntegrityService(entities, nil, log)
	backupService := service.NewBackupService(entities, backupStorage, cfg.Jobs.BackupPrefix, cfg.Jobs.BackupRetention, nil, log)

	// Initialize middleware
	authMiddleware := auth.NewMiddleware(&cfg.Auth, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	rt := router.NewRouter(cfg, log, db, authMiddleware, rateLimiter, m, router.Handlers{
		Auth:     handler.NewAuthHandler(),
		Project:  handler.NewProjectHandler(projectService, log),
		Cost:     handler.NewCostHandler(costService, log),
		Revenue:  handler.NewRevenueHandler(revenueService, log),
		Expense:  handler.NewExpenseHandler(expenseService, log),
		Customer: handler.NewCustomerHandler(customerService, budgetService, log),
		Supplier: handler.NewSupplierHandler(supplierService, log),
		Budget:   handler.NewBudgetHandler(budgetService, log),
		Ledger:   handler.NewLedgerHandler(ledgerService, log),
		Pricing:  handler.NewPricingHandler(pricingService, log),
		Report:   handler.NewReportHandler(reportService, log),
		System:   handler.NewSystemHandler(integrityService, backupService, log),
	})

	// Background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log, m)
		if err := registerJobs(scheduler, cfg, backupService, integrityService, log); err != nil {
			return err
		}
		scheduler.Start()
		log.Info("Scheduler started", zap.Strings("jobs", scheduler.JobNames()))
	} else {
		log.Info("Background jobs disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr), zap.Int64("revision", entities.Revision()))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}

// registerJobs schedules the snapshot backup and the integrity check
func registerJobs(
	scheduler *jobs.Scheduler,
	cfg *config.Config,
	backups *service.BackupService,
	integrity *service.IntegrityService,
	log *zap.Logger,
) error {
	backupJob := jobs.NewBackupJob(backups, log, 5*time.Minute)
	if err := scheduler.AddJob(jobs.BackupJobName, cfg.Jobs.BackupCron, backupJob.Run); err != nil {
		return fmt.Errorf("failed to register backup job: %w", err)
	}

	integrityJob := jobs.NewIntegrityJob(integrity, log)
	if err := scheduler.AddJob(jobs.IntegrityJobName, cfg.Jobs.IntegrityCron, integrityJob.Run); err != nil {
		return fmt.Errorf("failed to register integrity job: %w", err)
	}

	// Report problems left by the previous run right away
	go func() {
		if err := scheduler.RunNow(jobs.IntegrityJobName, integrityJob.Run); err != nil {
			log.Warn("Startup integrity check failed", zap.Error(err))
		}
	}()
	return nil
}
