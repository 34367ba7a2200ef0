package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/staff-directory-console/api/swagger"
	"github.com/noah-isme/staff-directory-console/internal/handler"
	"github.com/noah-isme/staff-directory-console/internal/middleware"
	"github.com/noah-isme/staff-directory-console/internal/models"
	"github.com/noah-isme/staff-directory-console/internal/repository"
	"github.com/noah-isme/staff-directory-console/internal/service"
	"github.com/noah-isme/staff-directory-console/pkg/cache"
	"github.com/noah-isme/staff-directory-console/pkg/config"
	"github.com/noah-isme/staff-directory-console/pkg/logger"
	"github.com/noah-isme/staff-directory-console/pkg/session"
)

// @title Staff Directory Console
// @version 1.0.0
// @description Server-side admin console over the staff directory service
// @BasePath /
// @schemes http

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
)

type sessionStore interface {
	Create(ctx context.Context, state *models.ConsoleState) error
	Load(ctx context.Context, id string) (*models.ConsoleState, error)
	Update(ctx context.Context, id string, fn func(*models.ConsoleState) error) (*models.ConsoleState, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := service.NewMetricsService()
	directory := repository.NewDirectoryRepository(cfg.Directory.BaseURL, nil, cfg.Directory.Timeout, metrics, logr)
	checks := map[string]handler.ReadinessCheck{
		"directory": func(ctx context.Context) error {
			_, err := directory.ListDepartments(ctx)
			return err
		},
	}

	store, err := newSessionStore(ctx, cfg, logr, checks)
	if err != nil {
		logr.Fatal("failed to init session store", zap.Error(err))
	}
	defer store.Close() //nolint:errcheck

	console := service.NewConsoleService(directory, store, validator.New(), metrics, service.ConsoleConfig{
		NotificationTTL: cfg.Console.NotificationTTL,
		SequenceGuard:   cfg.Console.SequenceGuard,
		ExportsEnabled:  cfg.Exports.Enabled,
	}, logr)
	exports := service.NewExportService(store, cfg.Exports.Enabled, logr, nil, nil)

	signer := session.NewSigner(cfg.Session.Secret, cfg.Session.TTL)
	cookie := middleware.SessionCookie{Name: cfg.Session.CookieName, Secure: cfg.Env == config.EnvProduction}

	router, err := handler.NewRouter(handler.RouterDeps{
		Console:         handler.NewConsoleHandler(console, exports, cookie, cfg.Console.SequenceGuard),
		Ops:             handler.NewMetricsHandler(metrics, checks),
		Metrics:         metrics,
		Logger:          logr,
		Session:         middleware.Session(console, signer, cookie, logr),
		ExistingSession: middleware.ExistingSession(signer, cookie),
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		MetricsEnabled:  cfg.Observability.MetricsEnabled,
		DocsEnabled:     cfg.Env != config.EnvProduction,
	})
	if err != nil {
		logr.Fatal("failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting",
			"addr", srv.Addr,
			"env", cfg.Env,
			"directory", cfg.Directory.BaseURL,
			"session_store", cfg.Session.Store,
			"sequence_guard", cfg.Console.SequenceGuard,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func newSessionStore(ctx context.Context, cfg *config.Config, logr *zap.Logger, checks map[string]handler.ReadinessCheck) (sessionStore, error) {
	if cfg.Session.Store == config.SessionStoreRedis {
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		checks["redis"] = func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}
		return repository.NewRedisSessionStore(client, cfg.Session.TTL, logr), nil
	}

	store := repository.NewMemorySessionStore(cfg.Session.TTL, logr)
	store.StartSweeper(ctx, sweepInterval)
	return store, nil
}
