package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	httpapi "github.com/patrick-anyanwu/SunProtection/internal/api/http"
	"github.com/patrick-anyanwu/SunProtection/internal/chart"
	"github.com/patrick-anyanwu/SunProtection/internal/config"
	"github.com/patrick-anyanwu/SunProtection/internal/location"
	"github.com/patrick-anyanwu/SunProtection/internal/observability"
	"github.com/patrick-anyanwu/SunProtection/internal/places"
	"github.com/patrick-anyanwu/SunProtection/internal/places/mapbox"
	"github.com/patrick-anyanwu/SunProtection/internal/report"
	"github.com/patrick-anyanwu/SunProtection/internal/scheduler"
	"github.com/patrick-anyanwu/SunProtection/internal/stats"
	"github.com/patrick-anyanwu/SunProtection/internal/store"
	"github.com/patrick-anyanwu/SunProtection/internal/weather"
	"github.com/patrick-anyanwu/SunProtection/internal/weather/providers"
)

const serviceName = "sun-protection"

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	log := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(log)

	metrics := observability.NewMetrics(nil)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	j := cfg.Jurisdiction

	// Providers, each behind its own circuit breaker.
	weatherAPI := providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey, cfg.WeatherAPIBaseURL)
	mapboxClient := mapbox.NewClient(httpClient, cfg.MapboxAPIKey, cfg.MapboxGeocodingURL, j.CountryCode, log)

	var conditions weather.Provider = weatherAPI
	if cfg.WeatherProvider == config.ProviderOpenMeteo {
		conditions = providers.NewOpenMeteoProvider(httpClient, cfg.OpenMeteoBaseURL)
	}

	// City names go to WeatherAPI search first, then Mapbox, then Google.
	var geocoders []location.Geocoder
	if cfg.WeatherAPIKey != "" {
		geocoders = append(geocoders, weatherAPI)
	}
	if cfg.MapboxAPIKey != "" {
		geocoders = append(geocoders, mapboxClient)
	}
	if cfg.GeocoderAPIKey != "" {
		geocoders = append(geocoders, providers.NewGoogleGeocoder(cfg.GeocoderAPIKey, j.Country))
	}
	if len(geocoders) == 0 {
		log.Warn("no geocoding provider configured; city name lookups will fail")
	}

	resolver := location.NewResolver(j, geocoders, metrics, log)
	uvService := weather.NewService(
		resolver,
		weather.NewClient(conditions, j, nil, metrics, log),
		cfg.DefaultPoint,
		metrics,
		log,
	)
	suggestions := places.NewService(mapboxClient, j, metrics, log)

	// Historical records: Postgres when configured, otherwise a reloadable CSV.
	records, reloader, closeStore, err := openRecordStore(cfg, log)
	if err != nil {
		log.Error("failed to open record store", "error", err)
		os.Exit(1)
	}
	defer closeStore()

	statsService := stats.NewService(records, cfg.Stats, metrics, log)
	reports := report.NewBuilder(statsService, chart.NewRenderer(cfg.Chart), cfg.ChartCacheTTL, metrics, log)

	// Scheduler that periodically reloads the records.
	sched := scheduler.New(cfg.StatsReloadInterval, reloader, reports, log)
	if err := sched.Start(); err != nil {
		log.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2 * cfg.HTTPTimeout,
		ErrorHandler:          httpapi.NewErrorHandler(log),
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())

	httpapi.RegisterOps(app, serviceName, metrics.Handler())
	httpapi.RegisterRoutes(app, httpapi.Services{
		UV:      uvService,
		Places:  suggestions,
		Reports: reports,
	}, httpapi.Limits{
		UVPerMinute:      cfg.RateLimitUVPerMinute,
		SuggestPerMinute: cfg.RateLimitSuggestPerMinute,
	})

	// Start server with graceful shutdown
	go func() {
		log.Info("http server listening", "port", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("fiber server stopped", "error", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("error during shutdown", "error", err)
	}
}

// openRecordStore picks the cancer record source. Only the CSV store can be
// reloaded; the returned reloader is nil otherwise.
func openRecordStore(cfg *config.AppConfig, log *slog.Logger) (stats.Store, scheduler.Reloader, func(), error) {
	switch {
	case cfg.DatabaseURL != "":
		poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
		}
		pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("init postgres pool: %w", err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("postgres ping: %w", err)
		}
		log.Info("postgres record store enabled")
		return store.NewPostgresStore(pool), nil, pool.Close, nil

	case cfg.CancerDataCSV != "":
		s, err := store.NewCSVStore(cfg.CancerDataCSV, log)
		if err != nil {
			return nil, nil, nil, err
		}
		return s, s, func() {}, nil

	default:
		log.Warn("no DATABASE_URL or CANCER_DATA_CSV set; uv impact charts will be empty")
		return store.NewMemoryStore(nil), nil, func() {}, nil
	}
}
