package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/weather-monitor/internal/api/http"
	"github.com/i474232898/weather-monitor/internal/config"
	"github.com/i474232898/weather-monitor/internal/scheduler"
	"github.com/i474232898/weather-monitor/internal/store"
	"github.com/i474232898/weather-monitor/internal/weather"
	"github.com/i474232898/weather-monitor/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound source and sink calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	prefs, err := store.OpenPreferences(cfg.PreferencesDB)
	if err != nil {
		log.Fatalf("failed to open preferences: %v", err)
	}
	defer prefs.Close()

	source := newSource(cfg, httpClient)

	opts := []weather.SessionOption{weather.WithPreferences(prefs)}
	if cfg.SinkURL != "" {
		opts = append(opts, weather.WithSink(providers.NewHTTPSink(httpClient, cfg.SinkURL)))
	}

	memStore := store.NewMemoryStore()
	session := weather.NewSession(memStore, source, cfg.AlertThreshold, weather.Unit(cfg.DefaultUnit), opts...)
	defer session.Close()

	if err := session.LoadPreferences(context.Background()); err != nil {
		log.Printf("ERROR: %v", err)
	}

	// Seed demo data once per process start.
	if cfg.SimulationDays > 0 {
		if _, err := session.Simulate(cfg.SimulationDays); err != nil {
			log.Printf("ERROR: simulation failed: %v", err)
		}
		log.Printf("INFO: retained %d samples after simulation", memStore.Len())
	}

	// Scheduler that periodically fetches and ingests data.
	sched := scheduler.New(session, cfg.FetchInterval, cfg.ForecastInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-monitor",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          errorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":   "ok",
			"service":  "weather-monitor",
			"source":   source.Name(),
			"retained": memStore.Len(),
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, session)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}

func newSource(cfg *config.AppConfig, client *http.Client) weather.Source {
	switch cfg.Source.Kind {
	case config.SourceOpenWeather:
		return providers.NewOpenWeatherSource(client, cfg.Source.OpenWeatherAPIKey, providers.DefaultBackoff())
	case config.SourceOpenMeteo:
		return providers.NewOpenMeteoSource(client, providers.DefaultBackoff())
	default:
		return providers.NewBackendSource(client, cfg.Source.BaseURL, providers.DefaultBackoff())
	}
}

// errorHandler renders every error as a JSON body.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
