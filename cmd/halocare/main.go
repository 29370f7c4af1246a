package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/halocare/halocare-admin/internal/admin"
	"github.com/halocare/halocare-admin/internal/app"
	"github.com/halocare/halocare-admin/internal/auth"
	"github.com/halocare/halocare-admin/internal/backend"
	"github.com/halocare/halocare-admin/internal/dashboard"
	"github.com/halocare/halocare-admin/internal/listing"
	"github.com/halocare/halocare-admin/internal/observability"
	"github.com/halocare/halocare-admin/internal/pages"
	"github.com/halocare/halocare-admin/internal/platform/cache"
	"github.com/halocare/halocare-admin/internal/platform/db"
	"github.com/halocare/halocare-admin/internal/rbac"
	"github.com/halocare/halocare-admin/internal/shared"
	"github.com/halocare/halocare-admin/internal/view"
	"github.com/halocare/halocare-admin/jobs"
	"github.com/halocare/halocare-admin/migrations"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)
	loc, _ := cfg.Location()

	dbpool, err := db.New(ctx, db.Options{DSN: cfg.PGDSN, MaxConns: cfg.PGMaxConns, MaxConnIdle: 5 * time.Minute})
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if cfg.DBAutoMigrate {
		if _, err := db.Migrate(ctx, dbpool, migrations.FS, logger); err != nil {
			logger.Error("migrate", slog.Any("error", err))
			os.Exit(1)
		}
	}

	redisClient, err := cache.New(ctx, cfg.Redis())
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()
	sessionManager := shared.NewSessionManager(redisClient, "halocare_session", cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	formatter := view.NewFormatter(cfg.DisplayLocale, loc)
	templates, err := view.NewEngine(view.WithFormatter(formatter))
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}
	renderer := &admin.Renderer{Templates: templates, CSRF: csrfManager, Logger: logger}
	rbacMiddleware := rbac.Middleware{Logger: logger}
	auditLogger := shared.NewAuditLogger(dbpool)

	backendClient := backend.NewClient(backend.Config{
		BaseURL:  cfg.BackendURL,
		Token:    cfg.BackendToken,
		Timeout:  cfg.BackendTimeout,
		Observer: metrics,
	})
	resources := pages.NewResources(backendClient)

	dashboardCache := dashboard.NewCache(redisClient, cfg.DashboardCacheTTL)
	dashboardService := dashboard.NewService(resources.Sources(), dashboardCache, loc, logger)

	store, err := admin.NewViewStateStore(cfg.ViewStateBackend, redisClient, dbpool, cfg.ViewStateTTL)
	if err != nil {
		logger.Error("view state store", slog.Any("error", err))
		os.Exit(1)
	}
	defaults, err := listing.LoadDefaultsFile(cfg.ListDefaultsFile)
	if err != nil {
		logger.Error("load list defaults", slog.Any("error", err))
		os.Exit(1)
	}

	modules, err := pages.Build(resources, formatter, admin.Deps{
		Logger:      logger,
		Renderer:    renderer,
		Store:       store,
		Observer:    metrics,
		Audit:       auditLogger,
		Invalidator: dashboardService,
		RBAC:        rbacMiddleware,
		Defaults:    defaults,
	})
	if err != nil {
		logger.Error("build pages", slog.Any("error", err))
		os.Exit(1)
	}

	authService := auth.NewService(auth.NewRepository(dbpool))
	authHandler := auth.NewHandler(logger, authService, renderer, sessionManager, auditLogger)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService, renderer, formatter, rbacMiddleware)

	inspector := asynq.NewInspector(jobs.RedisOpt(cfg.Redis()))
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		AuthHandler:      authHandler,
		DashboardHandler: dashboardHandler,
		JobHandler:       jobHandler,
		Modules:          modules,
		RBACMiddleware:   rbacMiddleware,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("viewstate", cfg.ViewStateBackend))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
