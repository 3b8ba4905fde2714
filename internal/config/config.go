// Package config centralizes environment-driven application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// RatePolicy is one rate-limit rule bound to a group of routes.
type RatePolicy struct {
	MaxRequests int
	Window      time.Duration
}

// Config is the full application configuration, loaded once at startup.
type Config struct {
	Environment string
	Port        string
	LogLevel    string

	WeatherAPIKey   string
	WeatherBaseURL  string
	WeatherCacheTTL time.Duration
	DemoAPIURL      string
	UpstreamTimeout time.Duration

	// ReadPolicy guards read-mostly routes; WritePolicy is stricter and
	// guards comment creation and deletion.
	ReadPolicy  RatePolicy
	WritePolicy RatePolicy

	// SweepInterval controls how often idle rate-limit clients are evicted.
	SweepInterval time.Duration

	SeedDemoComments bool

	TracingEnabled   bool
	TracingEndpoint  string
	TracingProtocol  string
	TracingSampling  float64
	MetricsNamespace string
}

// DemoWeatherKey is the placeholder API key that keeps the weather proxy in
// demo mode.
const DemoWeatherKey = "demo-key"

// Load reads configuration from the environment, with a best-effort .env
// file for local development. Rate policies are validated here: a
// non-positive request count or window is a configuration error, not
// something the limiter silently accepts.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Environment:      getEnv("APP_ENV", "development"),
		Port:             getEnv("PORT", "8080"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		WeatherAPIKey:    getEnv("WEATHER_API_KEY", DemoWeatherKey),
		WeatherBaseURL:   getEnv("WEATHER_BASE_URL", "http://api.openweathermap.org/data/2.5/weather"),
		DemoAPIURL:       getEnv("DEMO_API_URL", "https://jsonplaceholder.typicode.com/posts/1"),
		TracingEnabled:   getEnv("TRACING_ENABLED", "false") == "true",
		TracingEndpoint:  os.Getenv("TRACING_ENDPOINT"),
		TracingProtocol:  getEnv("TRACING_PROTOCOL", "http"),
		MetricsNamespace: getEnv("METRICS_NAMESPACE", "comments_api"),
		SeedDemoComments: getEnv("SEED_DEMO_COMMENTS", "true") == "true",
	}

	var err error
	if cfg.UpstreamTimeout, err = getDuration("UPSTREAM_TIMEOUT_SECONDS", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.WeatherCacheTTL, err = getDuration("WEATHER_CACHE_TTL_SECONDS", 5*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.SweepInterval, err = getDuration("RATE_LIMIT_SWEEP_SECONDS", time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.TracingSampling, err = getFloat("TRACING_SAMPLING_RATIO", 0.1); err != nil {
		return Config{}, err
	}

	if cfg.ReadPolicy, err = buildPolicy("RATE_LIMIT_READ", 100, time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.WritePolicy, err = buildPolicy("RATE_LIMIT_WRITE", 20, time.Hour); err != nil {
		return Config{}, err
	}

	if cfg.UpstreamTimeout <= 0 {
		return Config{}, fmt.Errorf("UPSTREAM_TIMEOUT_SECONDS must be positive")
	}

	return cfg, nil
}

func buildPolicy(prefix string, defaultRequests int, defaultWindow time.Duration) (RatePolicy, error) {
	requests, err := getInt(prefix+"_REQUESTS", defaultRequests)
	if err != nil {
		return RatePolicy{}, err
	}
	windowSeconds, err := getInt(prefix+"_WINDOW_SECONDS", int(defaultWindow/time.Second))
	if err != nil {
		return RatePolicy{}, err
	}

	if requests <= 0 {
		return RatePolicy{}, fmt.Errorf("%s_REQUESTS must be positive, got %d", prefix, requests)
	}
	if windowSeconds <= 0 {
		return RatePolicy{}, fmt.Errorf("%s_WINDOW_SECONDS must be positive, got %d", prefix, windowSeconds)
	}

	return RatePolicy{
		MaxRequests: requests,
		Window:      time.Duration(windowSeconds) * time.Second,
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	seconds, err := getInt(key, int(fallback/time.Second))
	if err != nil {
		return 0, err
	}
	return time.Duration(seconds) * time.Second, nil
}

var Module = fx.Module("config",
	fx.Provide(Load),
)
