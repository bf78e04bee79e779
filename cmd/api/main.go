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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/portfolio-dev/portfolio/config"
	authmw "github.com/portfolio-dev/portfolio/internal/auth/middleware"
	authservice "github.com/portfolio-dev/portfolio/internal/auth/service"
	"github.com/portfolio-dev/portfolio/internal/bootstrap"
	"github.com/portfolio-dev/portfolio/internal/cache"
	catalogrepo "github.com/portfolio-dev/portfolio/internal/catalog/repository"
	catalogservice "github.com/portfolio-dev/portfolio/internal/catalog/service"
	"github.com/portfolio-dev/portfolio/internal/jobs"
	"github.com/portfolio-dev/portfolio/internal/logging"
	profilerepo "github.com/portfolio-dev/portfolio/internal/profile/repository"
	profileservice "github.com/portfolio-dev/portfolio/internal/profile/service"
	"github.com/portfolio-dev/portfolio/internal/storage/postgres"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "portfolio-api:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: cfg.Database.ConnString()})
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("database connected")

	if err := postgres.Migrate(ctx, db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rdb != nil {
		defer rdb.Close()
		log.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	} else {
		log.Info("redis not configured, list cache disabled")
	}
	listCache := cache.New(rdb, cfg.Redis.CacheTTL, log)

	store, err := bootstrap.OpenStore(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("open file store: %w", err)
	}

	settings := postgres.NewSettingsRepository(db)
	catalog := catalogservice.NewCatalogService(
		catalogrepo.NewProjectRepository(db),
		catalogrepo.NewCategoryRepository(db),
		catalogrepo.NewSkillRepository(db),
		listCache,
		log,
	)
	profiles := profileservice.NewProfileService(
		profilerepo.NewContactsRepository(db),
		profilerepo.NewCVRepository(db),
		profilerepo.NewMessageRepository(db),
		settings,
		store,
		log,
	)
	auth := authservice.NewAuthService(settings, log)
	if _, err := auth.Seed(ctx, cfg.Auth.DashboardPassword); err != nil {
		return fmt.Errorf("seed dashboard password: %w", err)
	}

	scheduler := jobs.NewScheduler(catalog, log)
	if err := scheduler.Start(cfg.App.SortCompactSchedule); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps := bootstrap.RouterDeps{
		ServiceName:  "portfolio-api",
		Version:      cfg.App.Version,
		CORSOrigins:  cfg.App.CORSOrigins,
		Log:          log,
		Registry:     reg,
		DB:           db,
		Cache:        listCache,
		Catalog:      catalog,
		Profiles:     profiles,
		Auth:         auth,
		LoginLimiter: authmw.NewIPRateLimiter(cfg.Auth.LoginRate, cfg.Auth.LoginBurst),
	}
	if cfg.Storage.Driver == "local" {
		deps.FilesDir = cfg.Storage.Dir
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      bootstrap.BuildRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	scheduler.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("server stopped gracefully")
	return nil
}
