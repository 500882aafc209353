package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/outletdesk/internal/catalog"
	"github.com/mamadbah2/outletdesk/internal/config"
	"github.com/mamadbah2/outletdesk/internal/repository"
	"github.com/mamadbah2/outletdesk/internal/repository/memory"
	"github.com/mamadbah2/outletdesk/internal/repository/mongodb"
	"github.com/mamadbah2/outletdesk/internal/repository/sheets"
	"github.com/mamadbah2/outletdesk/internal/scheduler"
	"github.com/mamadbah2/outletdesk/internal/server/handlers"
	"github.com/mamadbah2/outletdesk/internal/server/router"
	"github.com/mamadbah2/outletdesk/internal/server/web"
	authsvc "github.com/mamadbah2/outletdesk/internal/service/auth"
	dashboardsvc "github.com/mamadbah2/outletdesk/internal/service/dashboard"
	digestsvc "github.com/mamadbah2/outletdesk/internal/service/digest"
	recordssvc "github.com/mamadbah2/outletdesk/internal/service/records"
	"github.com/mamadbah2/outletdesk/internal/session"
	"github.com/mamadbah2/outletdesk/pkg/clients/webhook"
	"github.com/mamadbah2/outletdesk/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(logger.Options{Level: cfg.Server.LogLevel, Format: cfg.Server.LogFormat}))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, closeStore := openStore(cfg, baseLogger)
	defer closeStore()

	items, err := catalog.NewLoader(cfg.Catalog.Path, logger.Named(baseLogger, "catalog")).Catalog()
	if err != nil {
		baseLogger.Fatal("failed to load item catalog", zap.Error(err))
	}

	loc, err := time.LoadLocation(cfg.Digest.Timezone)
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.String("timezone", cfg.Digest.Timezone), zap.Error(err))
	}

	registry := session.NewRegistry()
	authService := authsvc.NewService(cfg.Auth, registry, logger.Named(baseLogger, "svc.auth"))
	dashboardService := dashboardsvc.NewService(store, items, dashboardsvc.Options{
		InventoryStore:       cfg.Store.InventoryStore,
		FeedbackStore:        cfg.Store.FeedbackStore,
		Timeout:              cfg.Store.Timeout,
		StrictFeedbackCommit: cfg.Feedback.StrictCommit,
	}, logger.Named(baseLogger, "svc.dashboard"))
	recordsService := recordssvc.NewService(store, cfg.Store.InventoryStore, cfg.Store.FeedbackStore, cfg.Store.Timeout, logger.Named(baseLogger, "svc.records"))
	digestService := digestsvc.NewService(store, cfg.Store.InventoryStore, cfg.Digest.WindowDays, loc, logger.Named(baseLogger, "svc.digest"))

	tmpl, err := web.Templates()
	if err != nil {
		baseLogger.Fatal("failed to parse templates", zap.Error(err))
	}

	engine := router.New(router.Handlers{
		Auth:      handlers.NewAuthHandler(authService, cfg.Auth.SecureCookie, logger.Named(baseLogger, "handlers.auth")),
		Dashboard: handlers.NewDashboardHandler(dashboardService, registry, logger.Named(baseLogger, "handlers.dashboard")),
		Records:   handlers.NewRecordsHandler(recordsService, registry, logger.Named(baseLogger, "handlers.records")),
	}, tmpl, logger.Named(baseLogger, "router"))

	var poster scheduler.Poster
	if cfg.Digest.WebhookURL != "" {
		poster = webhook.NewClient(cfg.Digest.WebhookURL)
		baseLogger.Info("digest webhook enabled")
	} else {
		baseLogger.Warn("digest webhook url missing, digests will only be logged")
	}

	sched, err := scheduler.NewScheduler(cfg.Digest, digestService, poster, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store_backend", cfg.Store.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStore(cfg *config.Config, log *zap.Logger) (repository.Store, func()) {
	switch cfg.Store.Backend {
	case config.BackendMongoDB:
		repo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			log.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		return repo, func() {
			if err := repo.Close(context.Background()); err != nil {
				log.Error("failed to close mongodb connection", zap.Error(err))
			}
		}
	case config.BackendMemory:
		log.Warn("using in-memory store, records are lost on restart")
		return memory.NewStore(), func() {}
	default:
		repo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(log, "repo.sheets"))
		if err != nil {
			log.Fatal("failed to init sheets repository", zap.Error(err))
		}
		return repo, func() {}
	}
}
