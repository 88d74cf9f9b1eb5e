package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"support-ops-dashboard/backend/internal/models"
	"support-ops-dashboard/backend/internal/scheduler"
	"support-ops-dashboard/backend/pkg/config"
	"support-ops-dashboard/backend/pkg/di"
	"support-ops-dashboard/backend/pkg/health"
	"support-ops-dashboard/backend/pkg/logger"
	"support-ops-dashboard/backend/pkg/observability"
	"support-ops-dashboard/backend/pkg/router"
)

func main() {
	cfg := config.New()

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		JSON:   cfg.Logging.Format == "json",
		Output: os.Stderr,
	})
	logger.SetGlobal(log)

	shutdownTracing := observability.SetupTracing("support-ops-dashboard", log)
	defer shutdownTracing()
	metricsHandler, shutdownMetrics := observability.SetupMetrics(log)
	defer shutdownMetrics()

	db, err := config.NewDB()
	if err != nil {
		log.Error("failed to connect to database", "error", err.Error())
		os.Exit(1)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Ticket{},
		&models.ChatSession{},
		&models.ChatMessage{},
		&models.IntegrationLog{},
		&models.MaintenanceWindow{},
		&models.APIMetric{},
	); err != nil {
		log.Error("failed to run migrations", "error", err.Error())
		os.Exit(1)
	}

	container, err := di.New(db, cfg, log)
	if err != nil {
		log.Error("failed to build dependencies", "error", err.Error())
		os.Exit(1)
	}

	r := router.New(container)
	r.SetupRoutes(metricsHandler)

	r.Health.RegisterDatabaseCheck(func() error {
		return config.TestConnection(db)
	})
	r.Health.RegisterCheck("classifier", func() (health.Status, string, error) {
		if container.Classifier == nil {
			return health.StatusDegraded, "classifier disabled, no api key configured", nil
		}
		return health.StatusUp, "classifier configured", nil
	})
	r.Health.Start()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.Monitor.Start(ctx)

	var jobs *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		jobs, err = scheduler.New(container.MaintenanceService, cfg.Scheduler.Spec, log)
		if err != nil {
			log.Error("failed to build scheduler", "error", err.Error())
			os.Exit(1)
		}
		jobs.Start()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r.Engine,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		log.Info("server listening", "port", cfg.Server.Port, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err.Error())
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	cancel()
	if jobs != nil {
		jobs.Stop()
	}
	if r.Escalator != nil {
		r.Escalator.Shutdown()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err.Error())
	}
	log.Info("server stopped")
}
