package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	directoryapp "github.com/invoicedesk/backend/internal/application/directory"
	identityapp "github.com/invoicedesk/backend/internal/application/identity"
	invoicingapp "github.com/invoicedesk/backend/internal/application/invoicing"
	issuerapp "github.com/invoicedesk/backend/internal/application/issuer"
	reportingapp "github.com/invoicedesk/backend/internal/application/reporting"
	"github.com/invoicedesk/backend/internal/infrastructure/auth"
	"github.com/invoicedesk/backend/internal/infrastructure/cache"
	"github.com/invoicedesk/backend/internal/infrastructure/config"
	"github.com/invoicedesk/backend/internal/infrastructure/event"
	"github.com/invoicedesk/backend/internal/infrastructure/logger"
	"github.com/invoicedesk/backend/internal/infrastructure/persistence"
	"github.com/invoicedesk/backend/internal/infrastructure/telemetry"
	"github.com/invoicedesk/backend/internal/interfaces/http/handler"
	"github.com/invoicedesk/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting invoicedesk backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := db.EnableTracing(); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected", zap.String("driver", cfg.Database.Driver))

	// Repositories
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	clientRepo := persistence.NewGormClientRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Dashboard cache, invalidated by invoice mutation events
	dashboardCache, err := cache.NewDashboardCache(cfg.Cache, cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to initialize dashboard cache", zap.Error(err))
	}
	eventBus.Subscribe(reportingapp.NewInvalidationHandler(dashboardCache, log))

	// Dashboard SSE fan-out; registered after the invalidation handler so
	// streams recompute from a fresh snapshot.
	streamHub := reportingapp.NewStreamHub()
	eventBus.Subscribe(streamHub)

	// Auth
	jwtService := auth.NewJWTService(cfg.JWT)

	// Application services
	authService := identityapp.NewAuthService(userRepo, jwtService, eventBus, log)
	companyService := issuerapp.NewCompanyService(companyRepo, eventBus)
	clientService := directoryapp.NewClientService(clientRepo, projectRepo, eventBus)
	projectService := directoryapp.NewProjectService(projectRepo, clientRepo, eventBus)
	invoiceService := invoicingapp.NewInvoiceService(invoiceRepo, companyRepo, eventBus)
	paymentService := invoicingapp.NewPaymentService(invoiceRepo, eventBus)
	dashboardService := reportingapp.NewDashboardService(
		invoiceRepo, clientRepo, projectRepo,
		reportingapp.WithCache(dashboardCache),
		reportingapp.WithLogger(log),
	)

	// HTTP
	engine := router.New(cfg, jwtService, log, router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Invoice:   handler.NewInvoiceHandler(invoiceService, paymentService),
		Client:    handler.NewClientHandler(clientService, projectService),
		Project:   handler.NewProjectHandler(projectService),
		Company:   handler.NewCompanyHandler(companyService),
		Dashboard: handler.NewDashboardHandler(dashboardService, streamHub),
	})

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
