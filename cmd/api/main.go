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

	"github.com/solarepc/epc-api/docs"
	"github.com/solarepc/epc-api/internal/auth"
	"github.com/solarepc/epc-api/internal/cache"
	"github.com/solarepc/epc-api/internal/config"
	"github.com/solarepc/epc-api/internal/database"
	"github.com/solarepc/epc-api/internal/http/handler"
	"github.com/solarepc/epc-api/internal/http/middleware"
	"github.com/solarepc/epc-api/internal/http/router"
	"github.com/solarepc/epc-api/internal/jobs"
	"github.com/solarepc/epc-api/internal/logger"
	"github.com/solarepc/epc-api/internal/metrics"
	"github.com/solarepc/epc-api/internal/repository"
	"github.com/solarepc/epc-api/internal/service"
	"github.com/solarepc/epc-api/internal/storage"
	"github.com/solarepc/epc-api/internal/warehouse"
	"go.uber.org/zap"
)

// @title Solar EPC Manager API
// @version 1.0
// @description Lead pipeline, project execution, procurement and billing for a solar EPC contractor

// @contact.name API Support

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations

const (
	shutdownTimeout = 30 * time.Second
	jobTimeout      = 5 * time.Minute
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Basic configuration first, for logging setup
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

	if host := os.Getenv("SWAGGER_HOST"); host != "" {
		docs.SwaggerInfo.Host = host
	} else {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	}

	// Environment variables in development, Azure Key Vault in staging/production
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	fileStorage, err := storage.NewStorage(&cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	checks := make(map[string]router.ReadinessCheck)

	var statsCache cache.StatsCache = cache.NoopCache{}
	if cfg.Cache.Enabled {
		redisClient := cache.NewRedisClient(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB)
		defer func() { _ = redisClient.Close() }()
		statsCache = cache.NewRedisCache(redisClient, cfg.Cache.TTLDuration(), log)
		checks["cache"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
		log.Info("Stats cache enabled", zap.String("addr", cfg.Cache.Addr), zap.Duration("ttl", cfg.Cache.TTLDuration()))
	}

	// The warehouse is optional; the API runs without it
	dwClient, err := warehouse.NewClient(&cfg.Warehouse, log)
	if err != nil {
		log.Warn("Warehouse connection failed, continuing without it", zap.Error(err))
		dwClient = nil
	}
	if dwClient.IsEnabled() {
		checks["warehouse"] = dwClient.Ping
	}

	m := metrics.New(log)
	tokens := auth.NewTokenManager(&cfg.Auth)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	leadRepo := repository.NewLeadRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	poRepo := repository.NewPurchaseOrderRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	numberSequenceRepo := repository.NewNumberSequenceRepository(db)

	// Services
	activityService := service.NewActivityService(activityRepo, m, log)
	numberSequenceService := service.NewNumberSequenceService(numberSequenceRepo, log)
	userService := service.NewUserService(userRepo, tokens, log)
	leadService := service.NewLeadService(db, leadRepo, projectRepo, activityService, statsCache, m, log)
	projectService := service.NewProjectService(db, projectRepo, leadRepo, activityService, statsCache, log)
	vendorService := service.NewVendorService(vendorRepo, log)
	purchaseOrderService := service.NewPurchaseOrderService(db, poRepo, numberSequenceService, activityService, statsCache, log)
	invoiceService := service.NewInvoiceService(db, invoiceRepo, numberSequenceService, activityService, statsCache, log)
	taskService := service.NewTaskService(db, taskRepo, activityService, log)
	documentService := service.NewDocumentService(documentRepo, fileStorage, log)
	dashboardService := service.NewDashboardService(projectRepo, leadRepo, statsCache, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(&cfg.Auth, tokens, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)

	handlers := router.Handlers{
		Dashboard:     handler.NewDashboardHandler(dashboardService, log),
		Leads:         handler.NewLeadHandler(leadService, log),
		Projects:      handler.NewProjectHandler(projectService, purchaseOrderService, invoiceService, taskService, log),
		Vendors:       handler.NewVendorHandler(vendorService, log),
		PurchaseOrder: handler.NewPurchaseOrderHandler(purchaseOrderService, log),
		Invoices:      handler.NewInvoiceHandler(invoiceService, log),
		Tasks:         handler.NewTaskHandler(taskService, log),
		Documents:     handler.NewDocumentHandler(documentService, cfg.Storage.MaxUploadSizeMB, log),
		Activities:    handler.NewActivityHandler(activityService, log),
		Auth:          handler.NewAuthHandler(userService, log),
	}

	rt := router.NewRouter(cfg, log, db, authMiddleware, rateLimiter, m, handlers, checks)

	// Background jobs
	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log)

		if err := jobs.RegisterOverdueSweepJob(scheduler, invoiceService, m, log, cfg.Jobs.OverdueCron, jobTimeout); err != nil {
			log.Error("Failed to register overdue sweep job", zap.Error(err))
		}

		if dwClient.IsEnabled() {
			snapshotJob := jobs.NewSnapshotJob(dashboardService, leadService, invoiceService, dwClient, m, log, jobTimeout)
			if err := jobs.RegisterSnapshotJob(scheduler, snapshotJob, cfg.Jobs.SnapshotCron); err != nil {
				log.Error("Failed to register warehouse snapshot job", zap.Error(err))
			}
		} else {
			log.Info("Warehouse snapshot job disabled", zap.Bool("warehouse_enabled", cfg.Warehouse.Enabled))
		}

		scheduler.Start()
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
		log.Info("Server starting", zap.String("addr", srv.Addr))
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

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}
	}

	if err := dwClient.Close(); err != nil {
		log.Warn("Error closing warehouse connection", zap.Error(err))
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Info("Server stopped gracefully")
	return nil
}
