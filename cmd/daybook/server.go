package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/terraincognita07/daybook/internal/api"
	"github.com/terraincognita07/daybook/internal/config"
	"github.com/terraincognita07/daybook/internal/db"
	"github.com/terraincognita07/daybook/internal/metrics"
	"github.com/terraincognita07/daybook/internal/services"
)

const shutdownTimeout = 10 * time.Second

func runServer(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	slog.SetDefault(newLogger(os.Stdout, cfg.LogFormat, cfg.LogLevel))

	catalogConfig, err := services.LoadPollCatalogConfig(cfg.PollPromptsFile)
	if err != nil {
		return err
	}

	database, err := db.Open(cfg.Database)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			slog.Warn("database close failed", "error", err)
		}
	}()

	repositories := db.NewRepositories(database)
	catalog := services.NewPollCatalog(catalogConfig, repositories.PollPrompts)
	if _, err := catalog.SeedIfEmpty(); err != nil {
		return err
	}

	var registerer prometheus.Registerer
	var recorder services.PollRecorder
	if cfg.MetricsEnabled {
		registerer = prometheus.DefaultRegisterer
		pollMetrics, err := metrics.NewPollMetrics(registerer)
		if err != nil {
			return fmt.Errorf("register poll metrics: %w", err)
		}
		recorder = pollMetrics
	}

	eligibility := services.NewPollEligibility(repositories.Notes, catalog)
	selector := services.NewPollSelector(repositories.Polls, repositories.Users, eligibility, catalog.Categories(), cfg.Location)
	runner := services.NewPollRunner(selector, services.PollRunnerConfig{
		QueueSize: cfg.PollQueueSize,
		Workers:   cfg.PollWorkers,
		Location:  cfg.Location,
	}, recorder)

	handler, err := api.NewHandler(database, api.HandlerConfig{
		SecretKey: cfg.SecretKey,
		Location:  cfg.Location,
		TokenTTL:  cfg.AccessTokenTTL,
		Catalog:   &catalogConfig,
		Polls:     runner,
	})
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}

	app := newApp(handler, registerer)

	lifecycleCtx, cancelLifecycle := context.WithCancel(ctx)
	defer cancelLifecycle()
	runner.Start(lifecycleCtx)
	defer runner.Stop()

	sigCtx, stopSignals := signal.NotifyContext(lifecycleCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("daybook listening",
		"port", cfg.Port,
		"db_type", cfg.Database.Type,
		"tz", cfg.Location.String(),
		"metrics", cfg.MetricsEnabled,
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	slog.Info("daybook stopped")
	return nil
}

// newApp builds the fiber app. /metrics is mounted only when registerer is set.
func newApp(handler *api.Handler, registerer prometheus.Registerer) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Daybook",
		DisableStartupMessage: true,
		ErrorHandler:          api.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
	}))
	app.Use(compress.New())

	if registerer != nil {
		prometheusMiddleware := fiberprometheus.NewWithRegistry(registerer, "daybook", "http", "", nil)
		prometheusMiddleware.RegisterAt(app, "/metrics")
		app.Use(prometheusMiddleware.Middleware)
	}

	api.RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}
