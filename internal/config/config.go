package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/patrick-anyanwu/SunProtection/internal/chart"
	"github.com/patrick-anyanwu/SunProtection/internal/geo"
	"github.com/patrick-anyanwu/SunProtection/internal/stats"
)

// Weather providers selectable through WEATHER_PROVIDER.
const (
	ProviderWeatherAPI = "weatherapi"
	ProviderOpenMeteo  = "openmeteo"
)

type AppConfig struct {
	Port        string
	HTTPTimeout time.Duration
	LogLevel    string
	LogFormat   string

	WeatherProvider    string
	WeatherAPIKey      string
	WeatherAPIBaseURL  string
	OpenMeteoBaseURL   string
	MapboxAPIKey       string
	MapboxGeocodingURL string
	GeocoderAPIKey     string // Google, last geocoding fallback

	// DefaultPoint is used for UV lookups that supply no location at all.
	DefaultPoint geo.Point

	CancerDataCSV       string
	DatabaseURL         string
	StatsReloadInterval time.Duration
	ChartCacheTTL       time.Duration

	RateLimitUVPerMinute      int
	RateLimitSuggestPerMinute int

	Jurisdiction geo.Jurisdiction
	Stats        stats.Options
	Chart        chart.Style
}

// fileConfig is the optional YAML layer (CONFIG_PATH). It is decoded over the
// defaults, so a file only needs the keys it changes.
type fileConfig struct {
	Jurisdiction geo.Jurisdiction `yaml:"jurisdiction"`
	Stats        stats.Options    `yaml:"stats"`
	Chart        chart.Style      `yaml:"chart"`
}

// Load reads configuration from .env, an optional YAML file and the
// environment, in increasing order of precedence.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func defaultConfig() *AppConfig {
	j := geo.Victoria()
	return &AppConfig{
		Port:                      "8080",
		HTTPTimeout:               10 * time.Second,
		LogLevel:                  "info",
		LogFormat:                 "json",
		WeatherProvider:           ProviderWeatherAPI,
		DefaultPoint:              j.Reference,
		StatsReloadInterval:       60 * time.Minute,
		ChartCacheTTL:             10 * time.Minute,
		RateLimitUVPerMinute:      6,
		RateLimitSuggestPerMinute: 60,
		Jurisdiction:              j,
		Stats:                     stats.DefaultOptions(),
		Chart:                     chart.DefaultStyle(),
	}
}

func hydrateFromFile(cfg *AppConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	fc := fileConfig{Jurisdiction: cfg.Jurisdiction, Stats: cfg.Stats, Chart: cfg.Chart}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	cfg.Jurisdiction = fc.Jurisdiction
	cfg.DefaultPoint = fc.Jurisdiction.Reference
	cfg.Stats = fc.Stats
	cfg.Chart = fc.Chart
	return nil
}

func applyEnv(cfg *AppConfig) error {
	cfg.Port = getenvDefault("PORT", cfg.Port)
	cfg.LogLevel = getenvDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getenvDefault("LOG_FORMAT", cfg.LogFormat)

	cfg.WeatherProvider = strings.ToLower(getenvDefault("WEATHER_PROVIDER", cfg.WeatherProvider))
	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.WeatherAPIBaseURL = os.Getenv("WEATHERAPI_BASE_URL")
	cfg.OpenMeteoBaseURL = os.Getenv("OPENMETEO_BASE_URL")
	cfg.MapboxAPIKey = os.Getenv("MAPBOX_API_KEY")
	cfg.MapboxGeocodingURL = os.Getenv("MAPBOX_GEOCODING_URL")
	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.CancerDataCSV = os.Getenv("CANCER_DATA_CSV")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", cfg.HTTPTimeout); err != nil {
		return err
	}
	if cfg.StatsReloadInterval, err = getenvDuration("STATS_RELOAD_INTERVAL", cfg.StatsReloadInterval); err != nil {
		return err
	}
	if cfg.ChartCacheTTL, err = getenvDuration("CHART_CACHE_TTL", cfg.ChartCacheTTL); err != nil {
		return err
	}
	if cfg.DefaultPoint.Lat, err = getenvFloat("DEFAULT_LAT", cfg.DefaultPoint.Lat); err != nil {
		return err
	}
	if cfg.DefaultPoint.Lon, err = getenvFloat("DEFAULT_LON", cfg.DefaultPoint.Lon); err != nil {
		return err
	}

	cfg.RateLimitUVPerMinute = getenvInt("RATE_LIMIT_UV_PER_MINUTE", cfg.RateLimitUVPerMinute)
	cfg.RateLimitSuggestPerMinute = getenvInt("RATE_LIMIT_SUGGEST_PER_MINUTE", cfg.RateLimitSuggestPerMinute)
	return nil
}

// Validate ensures the configuration is safe to use.
func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.Port) == "" {
		return errors.New("PORT cannot be empty")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("HTTP_TIMEOUT must be positive")
	}
	if c.StatsReloadInterval <= 0 {
		return errors.New("STATS_RELOAD_INTERVAL must be positive")
	}
	if c.ChartCacheTTL < 0 {
		return errors.New("CHART_CACHE_TTL cannot be negative")
	}
	if !c.DefaultPoint.Valid() {
		return fmt.Errorf("default coordinate %s is out of range", c.DefaultPoint)
	}
	if c.WeatherProvider != ProviderWeatherAPI && c.WeatherProvider != ProviderOpenMeteo {
		return fmt.Errorf("unknown WEATHER_PROVIDER %q", c.WeatherProvider)
	}
	if c.RateLimitUVPerMinute <= 0 || c.RateLimitSuggestPerMinute <= 0 {
		return errors.New("rate limits must be positive")
	}

	j := c.Jurisdiction
	if strings.TrimSpace(j.Name) == "" {
		return errors.New("jurisdiction.name cannot be empty")
	}
	if j.Bounds.MinLat >= j.Bounds.MaxLat || j.Bounds.MinLon >= j.Bounds.MaxLon {
		return errors.New("jurisdiction.bounds must have min < max")
	}
	if !j.Reference.Valid() {
		return errors.New("jurisdiction.reference is out of range")
	}

	if len(c.Stats.CancerTypes) == 0 {
		return errors.New("stats.cancerTypes cannot be empty")
	}
	if len(c.Stats.Categories) == 0 {
		return errors.New("stats.categories cannot be empty")
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
