package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/alertflow/alertflow/internal/api/handlers"
	"github.com/alertflow/alertflow/internal/api/middleware"
	"github.com/alertflow/alertflow/internal/api/router"
	"github.com/alertflow/alertflow/internal/config"
	"github.com/alertflow/alertflow/internal/pkg/logger"
	"github.com/alertflow/alertflow/internal/pkg/validator"
	"github.com/alertflow/alertflow/internal/repository/postgres"
	"github.com/alertflow/alertflow/internal/services"
	"github.com/alertflow/alertflow/migrations"
)

var version = "dev"

// @title AlertFlow API
// @version 1.0
// @description Share links and exports for AlertFlow security alerts.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.Config{Level: "error", Format: "json"}).Fatalf("Failed to load config: %v", err)
	}

	log := logger.New(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	logger.SetGlobal(log)

	db, err := postgres.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		n, err := postgres.RunMigrations(db, migrations.GetFS())
		if err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Infof("Applied %d migrations", n)
	}

	// Repositories
	alertRepo := postgres.NewAlertRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	recorder := services.NewActivityRecorder(postgres.NewActivityRepository(db), nil, log)

	// Services
	shareService := services.NewShareService(services.ShareServiceConfig{
		Shares:      postgres.NewShareRepository(db),
		Alerts:      alertRepo,
		Profiles:    profileRepo,
		Recorder:    recorder,
		FrontendURL: cfg.Share.FrontendURL,
		Logger:      log,
	})
	exportService := services.NewExportService(alertRepo, profileRepo, recorder, nil, log)

	// Rate limiter with scheduled cleanup
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	scheduler := cron.New()
	if _, err := limiter.Schedule(scheduler, cfg.RateLimit.CleanupSchedule); err != nil {
		log.Fatalf("Invalid rate limit cleanup schedule %q: %v", cfg.RateLimit.CleanupSchedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	val := validator.New()
	h := &router.Handlers{
		Health: handlers.NewHealthHandler(db, version, log),
		Share:  handlers.NewShareHandler(shareService, log, val),
		Export: handlers.NewExportHandler(exportService, log),
	}

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.New(cfg, log, h, limiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(map[string]interface{}{
			"addr":        srv.Addr,
			"environment": cfg.Server.Environment,
			"version":     version,
			"db_driver":   db.Driver(),
		}).Info("Starting AlertFlow API server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		log.ErrorWithErr(err, "Server failed")
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.ErrorWithErr(err, "Graceful shutdown failed")
	}
	log.Info("Server stopped")
}
