// Package weather proxies the upstream weather API, with a demo fallback
// when no real API key is configured.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Angelito-Alit/comments-api/internal/cache"
	"github.com/Angelito-Alit/comments-api/internal/config"
	"github.com/Angelito-Alit/comments-api/internal/observability/tracing"
)

var (
	// ErrCityNotFound means the upstream does not know the requested city.
	ErrCityNotFound = errors.New("city not found")
	// ErrUpstream covers transport failures and unexpected upstream responses.
	ErrUpstream = errors.New("weather upstream unavailable")
)

// Observation is the trimmed payload returned to API clients.
type Observation struct {
	City        string `json:"city"`
	Temperature string `json:"temperature"`
	Description string `json:"description"`
	Humidity    string `json:"humidity"`
	Country     string `json:"country,omitempty"`
	Note        string `json:"note,omitempty"`
}

// upstreamPayload mirrors the subset of the OpenWeatherMap response we read.
type upstreamPayload struct {
	Name string `json:"name"`
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
}

// Client looks up weather observations with a bounded timeout and a TTL
// cache in front of live lookups.
type Client struct {
	apiKey   string
	baseURL  string
	http     *http.Client
	cache    cache.Cache[string, Observation]
	cacheTTL time.Duration
	log      *zap.Logger
}

func NewClient(cfg config.Config, log *zap.Logger) *Client {
	var lookupCache cache.Cache[string, Observation] = cache.Noop[string, Observation]{}
	if cfg.WeatherCacheTTL > 0 {
		lookupCache = cache.NewTTL[string, Observation]()
	}
	return &Client{
		apiKey:   cfg.WeatherAPIKey,
		baseURL:  cfg.WeatherBaseURL,
		http:     tracing.WrapHTTPClient(&http.Client{Timeout: cfg.UpstreamTimeout}),
		cache:    lookupCache,
		cacheTTL: cfg.WeatherCacheTTL,
		log:      log.Named("weather"),
	}
}

// DemoMode reports whether the client serves canned observations.
func (c *Client) DemoMode() bool {
	return c.apiKey == "" || c.apiKey == config.DemoWeatherKey
}

// Lookup returns the observation for a validated city name.
func (c *Client) Lookup(ctx context.Context, city string) (Observation, error) {
	if c.DemoMode() {
		return Observation{
			City:        city,
			Temperature: "22°C",
			Description: "Soleado",
			Humidity:    "65%",
			Note:        "demo data - set WEATHER_API_KEY for live lookups",
		}, nil
	}

	key := strings.ToLower(city)
	if cached, ok := c.cache.Get(key); ok {
		return cached, nil
	}

	observation, err := c.fetch(ctx, city)
	if err != nil {
		return Observation{}, err
	}
	c.cache.Set(key, observation, c.cacheTTL)
	return observation, nil
}

func (c *Client) fetch(ctx context.Context, city string) (Observation, error) {
	query := url.Values{}
	query.Set("q", city)
	query.Set("appid", c.apiKey)
	query.Set("units", "metric")
	query.Set("lang", "es")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return Observation{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("weather upstream call failed", zap.Error(err))
		return Observation{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var payload upstreamPayload
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
			return Observation{}, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
		}
		description := ""
		if len(payload.Weather) > 0 {
			description = payload.Weather[0].Description
		}
		return Observation{
			City:        payload.Name,
			Temperature: fmt.Sprintf("%.1f°C", payload.Main.Temp),
			Description: description,
			Humidity:    fmt.Sprintf("%d%%", payload.Main.Humidity),
			Country:     payload.Sys.Country,
		}, nil
	case resp.StatusCode == http.StatusNotFound:
		return Observation{}, ErrCityNotFound
	default:
		c.log.Warn("weather upstream returned unexpected status", zap.Int("status", resp.StatusCode))
		return Observation{}, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}
}

// Ping probes the upstream for health reporting. In demo mode it reports
// success without a network call.
func (c *Client) Ping(ctx context.Context) error {
	if c.DemoMode() {
		return nil
	}
	_, err := c.fetch(ctx, "London")
	if errors.Is(err, ErrCityNotFound) {
		// Upstream answered; reachability is what matters here.
		return nil
	}
	return err
}

var Module = fx.Module("weather",
	fx.Provide(NewClient),
)
